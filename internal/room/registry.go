package room

import (
	"fmt"
	"sync"

	"github.com/josecbairesdev/pictionary-webapp/pkg/utils"
)

// Registry is the process-wide id → room map. It guards only the map itself;
// all game-state mutation goes through the owning room's lock.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Create allocates a fresh room in waiting status and returns it. Identifier
// collisions would mean a broken generator, so they panic rather than error.
func (reg *Registry) Create(name string, maxRounds, roundTime int) *Room {
	id := utils.GenShortID()

	r := &Room{
		ID:        id,
		Name:      name,
		Players:   make([]*Player, 0),
		RoundTime: roundTime,
		MaxRounds: maxRounds,
		Status:    StatusWaiting,
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.rooms[id]; exists {
		panic(fmt.Sprintf("room id collision: %s", id))
	}
	reg.rooms[id] = r
	return r
}

func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// Delete removes a room. Idempotent if the room is already gone.
func (reg *Registry) Delete(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, id)
}

// List returns read-only copies of every room.
func (reg *Registry) List() []Snapshot {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.RUnlock()

	snapshots := make([]Snapshot, 0, len(rooms))
	for _, r := range rooms {
		snapshots = append(snapshots, r.Snapshot())
	}
	return snapshots
}
