package matchmaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CallBreak/internal/game/rules"
	"CallBreak/internal/utils"
	"CallBreak/internal/websocket"

	"github.com/google/uuid"
)

const (
	EventMatched   = "matched"
	EventUnmatched = "unmatched"
)

var (
	ErrAlreadyInRoom = errors.New("player already in room")
	ErrInGame        = errors.New("player already in a game")
)

type Service struct {
	repo        Repo
	playerTTL   int // seconds; stale queue entries expire
	hub         HubBroadcaster
	OnRoomReady func(*Room)

	// InGame reports players seated outside matchmaking. Nil means none are.
	InGame func(playerID string) bool
}

type HubBroadcaster interface {
	BroadcastToPlayers(playerIDs []string, msg websocket.OutgoingMessage)
}

func NewService(repo Repo, playerTTL int, hub HubBroadcaster) *Service {
	return &Service{repo: repo, playerTTL: playerTTL, hub: hub}
}

// Join queues the player and forms a table as soon as enough players wait.
// It returns the room when this join completed one, otherwise queued=true.
func (s *Service) Join(ctx context.Context, playerID string, tableSize int) (*Room, bool, error) {
	if _, err := rules.ResolveConfig(tableSize); err != nil {
		return nil, false, err
	}

	if s.InGame != nil && s.InGame(playerID) {
		return nil, false, fmt.Errorf("%w: %s", ErrInGame, playerID)
	}
	roomID, err := s.repo.GetPlayerRoom(ctx, playerID)
	if err != nil {
		return nil, false, err
	}
	if roomID != "" {
		return nil, false, fmt.Errorf("%w: %s in %s", ErrAlreadyInRoom, playerID, roomID)
	}

	if err := s.repo.Enqueue(ctx, tableSize, playerID, s.playerTTL); err != nil {
		return nil, false, err
	}
	return s.form(ctx, tableSize)
}

// form pops a full table from the queue if enough players wait.
func (s *Service) form(ctx context.Context, tableSize int) (*Room, bool, error) {
	cnt, err := s.repo.Count(ctx, tableSize)
	if err != nil {
		return nil, false, err
	}
	if int(cnt) < tableSize {
		return nil, true, nil
	}

	ids, err := s.repo.PopNRandom(ctx, tableSize, tableSize)
	if err != nil {
		return nil, false, err
	}
	if len(ids) < tableSize {
		// lost a race with another join; put them back
		if err := s.repo.Requeue(ctx, tableSize, ids, s.playerTTL); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	room := &Room{
		ID:        uuid.NewString(),
		TableSize: tableSize,
		Players:   ids,
		CreatedAt: time.Now(),
	}
	if err := s.repo.SaveRoom(ctx, room, s.playerTTL); err != nil {
		utils.Log.Error("save matched room", "room", room.ID, "err", err)
	}
	utils.Log.Info("table formed", "room", room.ID, "size", tableSize, "players", ids)

	s.hub.BroadcastToPlayers(ids, websocket.OutgoingMessage{
		Event: EventMatched,
		Data: map[string]any{
			"roomId":    room.ID,
			"tableSize": room.TableSize,
			"players":   room.Players,
		},
	})

	if s.OnRoomReady != nil {
		go s.OnRoomReady(room)
	}
	return room, false, nil
}

func (s *Service) Cancel(ctx context.Context, playerID string) error {
	return s.repo.Remove(ctx, playerID)
}

// Unmatch undoes a room the game side could not start. Every player is
// released; those for whom busy is false go back to the queue.
func (s *Service) Unmatch(ctx context.Context, room *Room, busy func(playerID string) bool) ([]string, error) {
	var requeue []string
	for _, id := range room.Players {
		if err := s.repo.ReleasePlayer(ctx, id); err != nil {
			return nil, err
		}
		if busy == nil || !busy(id) {
			requeue = append(requeue, id)
		}
	}
	utils.Log.Warn("match undone", "room", room.ID, "requeued", requeue)

	s.hub.BroadcastToPlayers(room.Players, websocket.OutgoingMessage{
		Event: EventUnmatched,
		Data: map[string]any{
			"roomId":   room.ID,
			"requeued": requeue,
		},
	})
	if len(requeue) == 0 {
		return nil, nil
	}
	if err := s.repo.Requeue(ctx, room.TableSize, requeue, s.playerTTL); err != nil {
		return nil, err
	}
	if _, _, err := s.form(ctx, room.TableSize); err != nil {
		return requeue, err
	}
	return requeue, nil
}

// Release frees a matched player to queue again, typically after leaving the game.
func (s *Service) Release(ctx context.Context, playerID string) error {
	return s.repo.ReleasePlayer(ctx, playerID)
}
