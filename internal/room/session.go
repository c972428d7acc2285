package room

import (
	"encoding/json"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog/log"

	"github.com/josecbairesdev/pictionary-webapp/internal/words"
)

// closeGuessDistance is the edit-distance threshold below which a wrong guess
// earns the guesser a private close_guess hint.
const closeGuessDistance = 2

// Session is the protocol engine. It validates every client event against the
// current room state, applies the transition and enqueues the resulting
// outbound events, all inside the room's critical section. Only the actual
// socket writes happen outside the lock, in each endpoint's write pump.
type Session struct {
	registry *Registry
	hub      *Hub
	words    words.Source
}

func NewSession(registry *Registry, hub *Hub, src words.Source) *Session {
	s := &Session{
		registry: registry,
		hub:      hub,
		words:    src,
	}
	hub.SetSendFailureHandler(s.Disconnect)
	return s
}

// Connect registers a player's endpoint and delivers the current game state.
// Unknown rooms or players are refused before the endpoint is registered.
func (s *Session) Connect(roomID, playerID string, ep Endpoint) error {
	r, ok := s.registry.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerLocked(playerID)
	if p == nil {
		return ErrRoomNotFound
	}

	s.hub.Register(roomID, playerID, ep)
	s.broadcast(roomID, TypePlayerJoined, PlayerJoinedPayload{Player: p.Name})
	s.unicast(roomID, playerID, TypeGameState, GameStatePayload{
		Room:     r.snapshotLocked(),
		IsDrawer: p.IsDrawing,
	})
	return nil
}

// StartGame moves a room into playing state, round 1, with a fresh word.
// Calling it on a room that is already playing resets the round state; that
// is intentional, start doubles as a reset.
func (s *Session) StartGame(roomID string) (int, error) {
	r, ok := s.registry.Get(roomID)
	if !ok {
		return 0, ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.Status = StatusPlaying
	r.CurrentRound = 1
	r.CurrentWord = s.words.Next()

	drawer, _ := r.drawerLocked()
	drawerName := ""
	if drawer != nil {
		drawerName = drawer.Name
	}

	s.broadcast(roomID, TypeGameStarted, GameStartedPayload{
		CurrentRound: r.CurrentRound,
		MaxRounds:    r.MaxRounds,
		Drawer:       drawerName,
	})
	if drawer != nil {
		s.unicast(roomID, drawer.ID, TypeWordToDraw, WordToDrawPayload{Word: r.CurrentWord})
	}

	log.Info().Str("room", roomID).Str("drawer", drawerName).Msg("game started")
	return r.CurrentRound, nil
}

// HandleMessage decodes and dispatches one inbound client event. Malformed
// payloads drop that event only; precondition failures are ignored silently.
func (s *Session) HandleMessage(roomID, playerID string, raw []byte) {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Debug().Err(err).Str("player", playerID).Msg("invalid message envelope")
		return
	}

	r, ok := s.registry.Get(roomID)
	if !ok {
		return
	}

	switch msg.Type {
	case TypeDraw:
		s.handleDraw(r, playerID, msg.Data)
	case TypeGuess:
		var payload GuessPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			log.Debug().Err(err).Str("player", playerID).Msg("invalid guess payload")
			return
		}
		s.handleGuess(r, playerID, payload.Guess)
	case TypeClearCanvas:
		s.handleClearCanvas(r, playerID)
	default:
		log.Debug().Str("type", msg.Type).Str("player", playerID).Msg("unknown event type")
	}
}

// handleDraw relays canvas data from the drawer to everyone else. The payload
// is opaque to the server.
func (s *Session) handleDraw(r *Room, playerID string, data json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerLocked(playerID)
	if p == nil || !p.IsDrawing {
		return
	}
	// Relay the raw payload untouched so the canvas data round-trips.
	s.broadcastExcept(r.ID, playerID, TypeDrawData, data)
}

func (s *Session) handleClearCanvas(r *Room, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerLocked(playerID)
	if p == nil || !p.IsDrawing {
		return
	}
	s.broadcast(r.ID, TypeClearCanvas, nil)
}

// handleGuess runs the scoring and round-advance state machine. The guess is
// normalized (trimmed, lowercased) before both the broadcast and the match
// check, so " Cat " matches the word "cat".
func (s *Session) handleGuess(r *Room, playerID, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerLocked(playerID)
	if p == nil || p.IsDrawing || r.Status != StatusPlaying {
		return
	}

	guess := strings.ToLower(strings.TrimSpace(text))
	s.broadcast(r.ID, TypePlayerGuess, PlayerGuessPayload{Player: p.Name, Guess: guess})

	word := strings.ToLower(r.CurrentWord)
	if guess != word {
		if d := levenshtein.ComputeDistance(guess, word); d > 0 && d <= closeGuessDistance {
			s.unicast(r.ID, playerID, TypeCloseGuess, CloseGuessPayload{Player: p.Name, Distance: d})
		}
		return
	}

	drawer, drawerIndex := r.drawerLocked()
	if drawer != nil {
		drawer.Score += 5
	}
	p.Score += 10

	s.broadcast(r.ID, TypeWordGuessed, WordGuessedPayload{
		Player: p.Name,
		Word:   r.CurrentWord,
		Scores: r.scoresLocked(),
	})

	if r.CurrentRound < r.MaxRounds {
		r.CurrentRound++
		next := r.rotateDrawerLocked(drawerIndex)
		r.CurrentWord = s.words.Next()

		s.broadcast(r.ID, TypeNewRound, NewRoundPayload{Round: r.CurrentRound, Drawer: next.Name})
		s.unicast(r.ID, next.ID, TypeWordToDraw, WordToDrawPayload{Word: r.CurrentWord})
		return
	}

	r.Status = StatusFinished
	r.CurrentWord = ""
	s.broadcast(r.ID, TypeGameOver, GameOverPayload{
		FinalScores: r.scoresLocked(),
		Winner:      r.winnerLocked(),
	})
	log.Info().Str("room", r.ID).Msg("game over")
}

// Disconnect tears down a player's endpoint and removes them from the room.
// The last player out destroys the room; a departing drawer hands the brush
// to the next player in turn order, with a fresh word if a round was live.
// Safe to call twice for the same player.
func (s *Session) Disconnect(roomID, playerID string) {
	r, ok := s.registry.Get(roomID)
	if !ok {
		s.hub.Unregister(roomID, playerID)
		return
	}

	r.mu.Lock()
	s.hub.Unregister(roomID, playerID)

	removed := r.removePlayerLocked(playerID)
	if removed == nil {
		r.mu.Unlock()
		return
	}

	if len(r.Players) == 0 {
		r.mu.Unlock()
		s.registry.Delete(roomID)
		log.Info().Str("room", roomID).Msg("room destroyed, last player left")
		return
	}

	left := PlayerLeftPayload{Player: removed.Name}
	if removed.IsDrawing {
		next := r.rotateDrawerLocked(len(r.Players) - 1)
		left.NewDrawer = next.Name
		if r.Status == StatusPlaying {
			r.CurrentWord = s.words.Next()
			s.broadcast(roomID, TypePlayerLeft, left)
			s.unicast(roomID, next.ID, TypeWordToDraw, WordToDrawPayload{Word: r.CurrentWord})
			r.mu.Unlock()
			return
		}
	}
	s.broadcast(roomID, TypePlayerLeft, left)
	r.mu.Unlock()
}

func (s *Session) broadcast(roomID, eventType string, payload any) {
	if msg, err := encodeEvent(eventType, payload); err == nil {
		s.hub.Broadcast(roomID, msg)
	} else {
		log.Error().Err(err).Str("type", eventType).Msg("encode event")
	}
}

func (s *Session) broadcastExcept(roomID, excludedPlayerID, eventType string, payload any) {
	if msg, err := encodeEvent(eventType, payload); err == nil {
		s.hub.BroadcastExcept(roomID, excludedPlayerID, msg)
	} else {
		log.Error().Err(err).Str("type", eventType).Msg("encode event")
	}
}

func (s *Session) unicast(roomID, playerID, eventType string, payload any) {
	if msg, err := encodeEvent(eventType, payload); err == nil {
		s.hub.Unicast(roomID, playerID, msg)
	} else {
		log.Error().Err(err).Str("type", eventType).Msg("encode event")
	}
}
