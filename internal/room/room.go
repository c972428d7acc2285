package room

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNameTaken    = errors.New("player name already taken")
)

// Room is the authoritative state for one game instance. Every read or write
// of its fields happens under mu; the session holds the lock across
// validate, mutate and enqueue so concurrent guesses or a guess racing a
// disconnect can never interleave.
type Room struct {
	ID           string
	Name         string
	Players      []*Player
	CurrentWord  string
	RoundTime    int
	MaxRounds    int
	CurrentRound int
	Status       Status

	mu sync.Mutex
}

// Snapshot is a read-only copy of a room for listings and the game_state
// event. The current word is deliberately absent: only the drawer may ever
// learn it, via the word_to_draw unicast.
type Snapshot struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Players      []Player `json:"players"`
	RoundTime    int      `json:"round_time"`
	MaxRounds    int      `json:"max_rounds"`
	CurrentRound int      `json:"current_round"`
	Status       Status   `json:"status"`
}

// Join appends a new player to the turn order. The first joiner becomes the
// initial drawer. Names are unique per room, compared case-sensitively.
// Joining mid-game is allowed.
func (r *Room) Join(name string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.Players {
		if p.Name == name {
			return nil, ErrNameTaken
		}
	}

	p := &Player{
		ID:        uuid.New().String(),
		Name:      name,
		IsDrawing: len(r.Players) == 0,
	}
	r.Players = append(r.Players, p)
	return &Player{ID: p.ID, Name: p.Name, Score: p.Score, IsDrawing: p.IsDrawing}, nil
}

// Snapshot copies the room state for external consumption.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// HasPlayer reports whether a player id is present in the room.
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerLocked(playerID) != nil
}

func (r *Room) snapshotLocked() Snapshot {
	players := make([]Player, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, *p)
	}
	return Snapshot{
		ID:           r.ID,
		Name:         r.Name,
		Players:      players,
		RoundTime:    r.RoundTime,
		MaxRounds:    r.MaxRounds,
		CurrentRound: r.CurrentRound,
		Status:       r.Status,
	}
}

func (r *Room) playerLocked(playerID string) *Player {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// drawerLocked returns the current drawer and its turn-order index, or
// (nil, -1) when nobody is drawing.
func (r *Room) drawerLocked() (*Player, int) {
	for i, p := range r.Players {
		if p.IsDrawing {
			return p, i
		}
	}
	return nil, -1
}

// rotateDrawerLocked clears all drawing flags and promotes the player after
// the given turn-order index, wrapping around. Returns the new drawer.
func (r *Room) rotateDrawerLocked(fromIndex int) *Player {
	for _, p := range r.Players {
		p.IsDrawing = false
	}
	next := r.Players[(fromIndex+1)%len(r.Players)]
	next.IsDrawing = true
	return next
}

// removePlayerLocked drops a player from the turn order. Returns the removed
// player, or nil if the id is not present.
func (r *Room) removePlayerLocked(playerID string) *Player {
	for i, p := range r.Players {
		if p.ID == playerID {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return p
		}
	}
	return nil
}

func (r *Room) scoresLocked() map[string]int {
	scores := make(map[string]int, len(r.Players))
	for _, p := range r.Players {
		scores[p.Name] = p.Score
	}
	return scores
}

// winnerLocked picks the player with the highest score. Ties go to the first
// maximum in turn order.
func (r *Room) winnerLocked() string {
	winner := ""
	best := -1
	for _, p := range r.Players {
		if p.Score > best {
			winner, best = p.Name, p.Score
		}
	}
	return winner
}
