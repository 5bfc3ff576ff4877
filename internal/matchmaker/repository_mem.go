package matchmaker

import (
	"context"
	"math/rand"
	"sync"
)

type memRepo struct {
	mu      sync.Mutex
	pools   map[int]map[string]struct{} // table size -> set(player)
	players map[string]int              // player -> table size
	rooms   map[string]*Room
	seated  map[string]string // player -> room id
}

// NewMemoryRepo keeps queues in process. TTLs are ignored.
func NewMemoryRepo() Repo {
	return &memRepo{
		pools:   make(map[int]map[string]struct{}),
		players: make(map[string]int),
		rooms:   make(map[string]*Room),
		seated:  make(map[string]string),
	}
}

func (m *memRepo) Enqueue(_ context.Context, tableSize int, playerID string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueue(tableSize, playerID)
	return nil
}

func (m *memRepo) enqueue(tableSize int, playerID string) {
	if old, ok := m.players[playerID]; ok && old != tableSize {
		delete(m.pools[old], playerID)
	}
	if _, ok := m.pools[tableSize]; !ok {
		m.pools[tableSize] = make(map[string]struct{})
	}
	m.pools[tableSize][playerID] = struct{}{}
	m.players[playerID] = tableSize
}

func (m *memRepo) PopNRandom(_ context.Context, tableSize int, n int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.pools[tableSize]
	if len(s) < n {
		return []string{}, nil
	}

	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	chosen := ids[:n]
	for _, id := range chosen {
		delete(s, id)
		delete(m.players, id)
	}
	if len(s) == 0 {
		delete(m.pools, tableSize)
	}
	return chosen, nil
}

func (m *memRepo) Requeue(_ context.Context, tableSize int, playerIDs []string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range playerIDs {
		m.enqueue(tableSize, id)
	}
	return nil
}

func (m *memRepo) Remove(_ context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	size, ok := m.players[playerID]
	if !ok {
		return nil
	}
	if s, ok := m.pools[size]; ok {
		delete(s, playerID)
		if len(s) == 0 {
			delete(m.pools, size)
		}
	}
	delete(m.players, playerID)
	return nil
}

func (m *memRepo) Count(_ context.Context, tableSize int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.pools[tableSize])), nil
}

func (m *memRepo) SaveRoom(_ context.Context, room *Room, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[room.ID] = room
	for _, id := range room.Players {
		m.seated[id] = room.ID
	}
	return nil
}

func (m *memRepo) GetPlayerRoom(_ context.Context, playerID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seated[playerID], nil
}

func (m *memRepo) ReleasePlayer(_ context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seated, playerID)
	return nil
}
