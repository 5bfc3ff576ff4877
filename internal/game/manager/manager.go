package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"CallBreak/internal/game/engine"
	"CallBreak/internal/game/room"
	"CallBreak/internal/game/table"
	"CallBreak/internal/matchmaker"
	"CallBreak/internal/storage"
	"CallBreak/internal/utils"
	"CallBreak/internal/websocket"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrAlreadyInGame = errors.New("player already in a game")
	ErrNotInGame     = errors.New("player not in a game")
	ErrNoFreeCode    = errors.New("no free game code")
)

const maxCodeAttempts = 8

// GameManager tracks every live room.
type GameManager struct {
	ctx          context.Context
	mu           sync.RWMutex
	rooms        map[string]*room.Room // roomID → room
	playerToRoom map[string]string     // playerID → roomID
	hub          websocket.HubInterface
	codes        storage.CodeRegistry
	maxRounds    int

	// OnPlayerLeft runs after a player is detached from their room.
	OnPlayerLeft func(ctx context.Context, playerID string)
}

// NewGameManager runs rooms until ctx is cancelled.
func NewGameManager(ctx context.Context, hub websocket.HubInterface, codes storage.CodeRegistry, maxRounds int) *GameManager {
	return &GameManager{
		ctx:          ctx,
		rooms:        make(map[string]*room.Room),
		playerToRoom: make(map[string]string),
		hub:          hub,
		codes:        codes,
		maxRounds:    maxRounds,
	}
}

// CreateGame opens a lobby with the caller as its only player.
func (m *GameManager) CreateGame(ctx context.Context, playerID, name string) (*table.GameState, error) {
	if cur := m.activeRoomOf(playerID); cur != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyInGame, cur.ID)
	}

	eng := engine.New()
	s := eng.CreateGame([]string{playerID}, []string{name})
	if err := m.reserveCode(ctx, s); err != nil {
		return nil, err
	}

	r := room.New(s, eng, m.hub, m.maxRounds)
	if err := m.register(r, []string{playerID}); err != nil {
		_ = m.codes.Release(ctx, s.ID)
		return nil, err
	}
	go r.Run(m.ctx)

	utils.Log.Info("game created", "room", s.ID, "player", playerID)
	m.hub.SendToPlayer(playerID, websocket.OutgoingMessage{Event: room.EventGameCreated, Data: s})
	return s, nil
}

// reserveCode claims s.ID, drawing new codes on collision.
func (m *GameManager) reserveCode(ctx context.Context, s *table.GameState) error {
	for i := 0; i < maxCodeAttempts; i++ {
		ok, err := m.codes.Reserve(ctx, s.ID)
		if err != nil {
			return fmt.Errorf("reserve game code: %w", err)
		}
		if ok {
			return nil
		}
		utils.Log.Debug("game code taken", "code", s.ID)
		s.ID = engine.NewGameID()
	}
	return ErrNoFreeCode
}

// JoinGame seats the player in an existing lobby.
func (m *GameManager) JoinGame(ctx context.Context, playerID, name, gameID string) error {
	if cur := m.activeRoomOf(playerID); cur != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyInGame, cur.ID)
	}

	m.mu.RLock()
	r := m.rooms[gameID]
	m.mu.RUnlock()
	if r == nil {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	if err := r.Do(ctx, room.Action{Player: playerID, Name: name, Event: room.EventJoinGame}); err != nil {
		if errors.Is(err, room.ErrRoomClosed) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
		}
		return err
	}

	m.mu.Lock()
	m.playerToRoom[playerID] = gameID
	m.mu.Unlock()
	return nil
}

// StartMatch turns a matchmaking result into a running game, dealing the
// first round straight away.
func (m *GameManager) StartMatch(mr *matchmaker.Room) (*table.GameState, error) {
	for _, id := range mr.Players {
		if cur := m.activeRoomOf(id); cur != nil {
			return nil, fmt.Errorf("%w: %s in %s", ErrAlreadyInGame, id, cur.ID)
		}
	}

	names := make([]string, len(mr.Players))
	for i, id := range mr.Players {
		if c, ok := m.hub.ClientByPlayer(id); ok && c != nil {
			names[i] = c.Name
		}
	}

	eng := engine.New()
	s := eng.CreateGame(mr.Players, names)
	if err := m.reserveCode(m.ctx, s); err != nil {
		return nil, err
	}

	r := room.New(s, eng, m.hub, m.maxRounds)
	if err := m.register(r, mr.Players); err != nil {
		_ = m.codes.Release(m.ctx, s.ID)
		return nil, err
	}
	r.Start()
	go r.Run(m.ctx)

	utils.Log.Info("match started", "room", s.ID, "match", mr.ID, "players", len(mr.Players))
	return r.Snapshot(), nil
}

// AttachMatchmaker starts matched tables here, keeps seated players out of
// the queue and frees players in svc once they leave a game. A table that
// cannot start is undone so the other players queue again.
func (m *GameManager) AttachMatchmaker(svc *matchmaker.Service) {
	svc.InGame = m.InGame
	svc.OnRoomReady = func(mr *matchmaker.Room) {
		if _, err := m.StartMatch(mr); err != nil {
			utils.Log.Error("start match", "match", mr.ID, "err", err)
			if _, err := svc.Unmatch(m.ctx, mr, m.InGame); err != nil {
				utils.Log.Error("undo match", "match", mr.ID, "err", err)
			}
		}
	}
	m.OnPlayerLeft = func(ctx context.Context, playerID string) {
		if err := svc.Release(ctx, playerID); err != nil {
			utils.Log.Warn("release matched player", "player", playerID, "err", err)
		}
	}
}

func (m *GameManager) register(r *room.Room, players []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[r.ID]; ok {
		return fmt.Errorf("room %s exists", r.ID)
	}
	for _, p := range players {
		if _, ok := m.playerToRoom[p]; ok {
			return fmt.Errorf("%w: %s", ErrAlreadyInGame, p)
		}
	}

	r.OnEmpty = m.removeRoom
	m.rooms[r.ID] = r
	for _, p := range players {
		m.playerToRoom[p] = r.ID
	}
	return nil
}

// HandlePlayerMessage is the hub's entry point for client frames.
func (m *GameManager) HandlePlayerMessage(msg websocket.IncomingMessage) {
	var err error

	switch msg.Event {
	case room.EventCreateGame:
		name := room.DecodeName(msg.Data)
		if name == "" {
			name = m.nameOf(msg.From)
		}
		_, err = m.CreateGame(m.ctx, msg.From, name)

	case room.EventJoinGame:
		p, derr := room.DecodeJoin(msg.Data)
		if derr != nil {
			err = derr
			break
		}
		name := p.PlayerName
		if name == "" {
			name = m.nameOf(msg.From)
		}
		err = m.JoinGame(m.ctx, msg.From, name, p.GameID)
		if !errors.Is(err, ErrGameNotFound) && !errors.Is(err, ErrAlreadyInGame) {
			// the room reports its own rejections
			err = nil
		}

	case room.EventLeaveGame:
		err = m.Leave(msg.From)

	default:
		r := m.roomOf(msg.From)
		if r == nil {
			err = ErrNotInGame
			break
		}
		err = r.Enqueue(room.Action{Player: msg.From, Event: msg.Event, Data: msg.Data})
		if errors.Is(err, room.ErrRoomClosed) {
			err = ErrNotInGame
		}
	}

	if err != nil {
		m.hub.SendToPlayer(msg.From, websocket.ErrorMessage(err))
	}
}

// Leave detaches the player from their room. Used for leave-game and disconnects.
func (m *GameManager) Leave(playerID string) error {
	m.mu.Lock()
	roomID, ok := m.playerToRoom[playerID]
	delete(m.playerToRoom, playerID)
	r := m.rooms[roomID]
	m.mu.Unlock()

	if !ok {
		return ErrNotInGame
	}
	if m.OnPlayerLeft != nil {
		m.OnPlayerLeft(m.ctx, playerID)
	}
	if r == nil {
		return nil
	}
	if err := r.Enqueue(room.Action{Player: playerID, Event: room.EventLeaveGame}); err != nil && !errors.Is(err, room.ErrRoomClosed) {
		return err
	}
	return nil
}

// removeRoom runs on the room goroutine once it is empty.
func (m *GameManager) removeRoom(roomID string) {
	m.mu.Lock()
	delete(m.rooms, roomID)
	for p, id := range m.playerToRoom {
		if id == roomID {
			delete(m.playerToRoom, p)
		}
	}
	m.mu.Unlock()

	if err := m.codes.Release(context.WithoutCancel(m.ctx), roomID); err != nil {
		utils.Log.Warn("release game code", "room", roomID, "err", err)
	}
	utils.Log.Info("room removed", "room", roomID)
}

// Snapshot returns the current state of a live game.
func (m *GameManager) Snapshot(gameID string) (*table.GameState, bool) {
	m.mu.RLock()
	r := m.rooms[gameID]
	m.mu.RUnlock()
	if r == nil {
		return nil, false
	}
	return r.Snapshot(), true
}

// Count returns the number of live rooms.
func (m *GameManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// InGame reports whether the player sits in a game that is still running.
func (m *GameManager) InGame(playerID string) bool {
	r := m.roomOf(playerID)
	return r != nil && r.Snapshot().Phase != table.PhaseGameEnd
}

func (m *GameManager) roomOf(playerID string) *room.Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[m.playerToRoom[playerID]]
}

// activeRoomOf returns the player's room unless its game is over, in which
// case the player is detached so they can start or join another.
func (m *GameManager) activeRoomOf(playerID string) *room.Room {
	r := m.roomOf(playerID)
	if r == nil {
		return nil
	}
	if r.Snapshot().Phase == table.PhaseGameEnd {
		_ = m.Leave(playerID)
		return nil
	}
	return r
}

func (m *GameManager) nameOf(playerID string) string {
	if c, ok := m.hub.ClientByPlayer(playerID); ok && c != nil {
		return c.Name
	}
	return ""
}
