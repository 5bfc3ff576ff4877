package room

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"CallBreak/internal/game/engine"
	"CallBreak/internal/game/rules"
	"CallBreak/internal/game/table"
	"CallBreak/internal/utils"
	"CallBreak/internal/websocket"
)

// ---------------------
//   ACTION DEFINITION
// ---------------------

type Action struct {
	Player string
	Name   string // display name, used by join-game
	Event  string
	Data   json.RawMessage

	reply chan error
}

// ---------------------
//         ROOM
// ---------------------

// Room owns one game. All mutations run on the room's own goroutine; readers
// get the latest snapshot through Snapshot without locking.
type Room struct {
	ID string

	engine    *engine.Engine
	hub       websocket.HubInterface
	maxRounds int

	state   atomic.Pointer[table.GameState]
	actions chan Action
	done    chan struct{}
	stop    sync.Once
	empty   atomic.Bool

	// OnEmpty runs on the room goroutine once the last player has left.
	OnEmpty func(roomID string)
}

// New wraps a snapshot. maxRounds <= 0 means the game never ends by itself.
func New(s *table.GameState, eng *engine.Engine, hub websocket.HubInterface, maxRounds int) *Room {
	r := &Room{
		ID:        s.ID,
		engine:    eng,
		hub:       hub,
		maxRounds: maxRounds,
		actions:   make(chan Action, 32),
		done:      make(chan struct{}),
	}
	r.state.Store(s)
	return r
}

// Snapshot returns the current game state. Callers must not modify it.
func (r *Room) Snapshot() *table.GameState {
	return r.state.Load()
}

// Run processes actions until ctx is done or the room empties.
func (r *Room) Run(ctx context.Context) {
	utils.Log.Debug("room started", "room", r.ID)
	defer utils.Log.Debug("room stopped", "room", r.ID)

	for {
		select {
		case <-ctx.Done():
			r.close()
			return
		case <-r.done:
			return
		case a := <-r.actions:
			err := r.Apply(a)
			if a.reply != nil {
				a.reply <- err
			}
			if r.empty.Load() {
				r.close()
				if r.OnEmpty != nil {
					r.OnEmpty(r.ID)
				}
				return
			}
		}
	}
}

// Enqueue hands an action to the room loop without waiting for the result.
// Errors still reach the sender as a private error event.
func (r *Room) Enqueue(a Action) error {
	select {
	case <-r.done:
		return ErrRoomClosed
	default:
	}
	select {
	case <-r.done:
		return ErrRoomClosed
	case r.actions <- a:
		return nil
	}
}

// Do runs an action on the room loop and waits for its outcome.
func (r *Room) Do(ctx context.Context, a Action) error {
	a.reply = make(chan error, 1)
	if err := r.Enqueue(a); err != nil {
		return err
	}
	select {
	case err := <-a.reply:
		return err
	case <-r.done:
		// the reply is sent before done closes
		select {
		case err := <-a.reply:
			return err
		default:
			return ErrRoomClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Empty reports whether the last player has left.
func (r *Room) Empty() bool {
	return r.empty.Load()
}

// Done is closed when the room stops.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

func (r *Room) close() {
	r.stop.Do(func() { close(r.done) })
}

// Apply handles one action against the current snapshot. It is not safe for
// concurrent use; outside tests only the Run loop calls it.
func (r *Room) Apply(a Action) error {
	s := r.state.Load()

	var err error
	switch a.Event {
	case EventJoinGame:
		err = r.join(s, a)
	case EventPlayerReady:
		err = r.ready(s, a)
	case EventPlaceBid:
		err = r.bid(s, a)
	case EventPlayCard:
		err = r.play(s, a)
	case EventStartNextRound:
		err = r.nextRound(s)
	case EventLeaveGame:
		err = r.leave(s, a)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownEvent, a.Event)
	}

	if err != nil {
		utils.Log.Debug("action rejected", "room", r.ID, "player", a.Player, "event", a.Event, "err", err)
		r.hub.SendToPlayer(a.Player, websocket.ErrorMessage(err))
	}
	return err
}

func (r *Room) join(s *table.GameState, a Action) error {
	if s.Phase != table.PhaseLobby {
		return engine.ErrGameStarted
	}
	name := a.Name
	if p, err := DecodeJoin(a.Data); err != nil {
		return err
	} else if p.PlayerName != "" {
		name = p.PlayerName
	}

	next, err := r.engine.AddPlayer(s, a.Player, name)
	if err != nil {
		return err
	}
	r.commit(next)
	utils.Log.Info("player joined", "room", r.ID, "player", a.Player, "players", len(next.Players))
	return nil
}

func (r *Room) ready(s *table.GameState, a Action) error {
	if s.Phase != table.PhaseLobby {
		return fmt.Errorf("%w: %s", ErrWrongPhase, s.Phase)
	}
	next, err := r.engine.SetReady(s, a.Player)
	if err != nil {
		return err
	}
	r.commit(next)

	if engine.AllReady(next) {
		r.Start()
	}
	return nil
}

// Start deals the next round and announces it. Used when the lobby is ready
// and for matched tables that skip the lobby; call it before Run or from the loop.
func (r *Room) Start() {
	next := r.engine.StartNewRound(r.state.Load())
	r.state.Store(next)
	utils.Log.Info("game started", "room", r.ID, "players", len(next.Players), "cards", next.Config.CardsPerPlayer)
	r.broadcast(EventGameStarted, next)
	r.broadcast(EventGameUpdated, next)
	r.notifyTurn(next)
}

func (r *Room) bid(s *table.GameState, a Action) error {
	if s.Phase != table.PhaseBidding {
		return fmt.Errorf("%w: %s", ErrWrongPhase, s.Phase)
	}
	// the engine accepts bids in any order; the room prompts seat by seat
	if cur, ok := s.CurrentPlayer(); ok && cur.ID != a.Player && s.PlayerIndex(a.Player) != -1 {
		return engine.ErrNotYourTurn
	}
	n, err := decodeBid(a.Data)
	if err != nil {
		return err
	}
	next, err := r.engine.ProcessBid(s, a.Player, n)
	if err != nil {
		return err
	}
	r.commit(next)

	if next.Phase == table.PhasePlaying {
		r.broadcast(EventBiddingComplete, GameRefPayload{GameID: next.ID})
	}
	r.notifyTurn(next)
	return nil
}

func (r *Room) play(s *table.GameState, a Action) error {
	if s.Phase != table.PhasePlaying {
		return fmt.Errorf("%w: %s", ErrWrongPhase, s.Phase)
	}
	c, err := decodeCard(a.Data)
	if err != nil {
		return err
	}
	next, err := r.engine.PlayCard(s, a.Player, c)
	if err != nil {
		return err
	}
	r.commit(next)

	if next.Phase != table.PhaseRoundEnd {
		r.notifyTurn(next)
		return nil
	}

	utils.Log.Info("round ended", "room", r.ID, "round", next.CurrentRound)
	r.broadcast(EventRoundEnded, RoundEndedPayload{
		GameID:    next.ID,
		Round:     next.CurrentRound,
		Standings: engine.Standings(next),
	})
	if r.maxRounds > 0 && next.CurrentRound >= r.maxRounds {
		r.finish(r.engine.EndGame(next))
	}
	return nil
}

func (r *Room) nextRound(s *table.GameState) error {
	if s.Phase != table.PhaseRoundEnd {
		return fmt.Errorf("%w: %s", ErrWrongPhase, s.Phase)
	}
	next := r.engine.StartNewRound(s)
	r.commit(next)
	r.notifyTurn(next)
	return nil
}

func (r *Room) leave(s *table.GameState, a Action) error {
	next, err := r.engine.RemovePlayer(s, a.Player)
	if err != nil {
		return err
	}
	r.state.Store(next)
	utils.Log.Info("player left", "room", r.ID, "player", a.Player, "players", len(next.Players))

	if len(next.Players) == 0 {
		r.empty.Store(true)
		return nil
	}

	r.broadcast(EventPlayerLeft, PlayerLeftPayload{PlayerID: a.Player})
	if next.Phase == table.PhaseGameEnd && s.Phase != table.PhaseGameEnd {
		r.finish(next)
		return nil
	}
	r.broadcast(EventGameUpdated, next)

	// the last unready player may have been the one leaving
	if next.Phase == table.PhaseLobby && engine.AllReady(next) {
		r.Start()
	}
	return nil
}

func (r *Room) finish(s *table.GameState) {
	r.state.Store(s)
	utils.Log.Info("game ended", "room", r.ID, "rounds", s.CurrentRound)
	r.broadcast(EventGameEnded, GameEndedPayload{GameID: s.ID, Standings: engine.Standings(s)})
	r.broadcast(EventGameUpdated, s)
}

// commit publishes a new snapshot to readers and to the table.
func (r *Room) commit(s *table.GameState) {
	r.state.Store(s)
	r.broadcast(EventGameUpdated, s)
}

func (r *Room) broadcast(event string, data interface{}) {
	ids := r.state.Load().PlayerIDs()
	r.hub.BroadcastToPlayers(ids, websocket.OutgoingMessage{Event: event, Data: data})
}

func (r *Room) notifyTurn(s *table.GameState) {
	p, ok := s.CurrentPlayer()
	if !ok {
		return
	}
	msg := YourTurnPayload{GameID: s.ID, Phase: s.Phase}
	switch s.Phase {
	case table.PhaseBidding:
		msg.MinBid = rules.MinimumBid(s.Config.CardsPerPlayer)
		msg.MaxBid = rules.MaximumBid(s.Config.CardsPerPlayer)
	case table.PhasePlaying:
		msg.LegalCards = rules.LegalPlays(p.Hand, s.CurrentTrick)
	default:
		return
	}
	r.hub.SendToPlayer(p.ID, websocket.OutgoingMessage{Event: EventYourTurn, Data: msg})
}
