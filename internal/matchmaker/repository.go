package matchmaker

import "context"

// Repo stores the waiting queues, one per table size, and which players are
// already seated from a match.
type Repo interface {
	// Enqueue adds a player to the queue for tableSize.
	Enqueue(ctx context.Context, tableSize int, playerID string, ttlSeconds int) error
	// PopNRandom removes n random players from the queue, or none if fewer wait.
	PopNRandom(ctx context.Context, tableSize int, n int) ([]string, error)
	// Requeue puts players back after a short pop.
	Requeue(ctx context.Context, tableSize int, playerIDs []string, ttlSeconds int) error
	// Remove takes a player out of whatever queue they are in.
	Remove(ctx context.Context, playerID string) error
	Count(ctx context.Context, tableSize int) (int64, error)

	SaveRoom(ctx context.Context, room *Room, ttlSeconds int) error
	// GetPlayerRoom returns the matched room id, or "" if the player is free.
	GetPlayerRoom(ctx context.Context, playerID string) (string, error)
	ReleasePlayer(ctx context.Context, playerID string) error
}
