package rules

// overtrickBonus is awarded per trick taken above the bid.
const overtrickBonus = 0.1

// CalculateRoundScore scores one player's round. Meeting the bid earns the bid
// plus 0.1 per extra trick; missing it costs the whole bid.
func CalculateRoundScore(bid, tricksWon int) float64 {
	if tricksWon >= bid {
		return float64(bid) + float64(tricksWon-bid)*overtrickBonus
	}
	return -float64(bid)
}
