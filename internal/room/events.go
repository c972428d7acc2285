package room

import "encoding/json"

// WSMessage is the wire envelope for every inbound and outbound event: a type
// tag plus a type-specific payload.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound event types.
const (
	TypeDraw        = "draw"
	TypeGuess       = "guess"
	TypeClearCanvas = "clear_canvas"
)

// Outbound event types.
const (
	TypeGameState    = "game_state"
	TypePlayerJoined = "player_joined"
	TypePlayerLeft   = "player_left"
	TypeGameStarted  = "game_started"
	TypeWordToDraw   = "word_to_draw"
	TypeDrawData     = "draw_data"
	TypePlayerGuess  = "player_guess"
	TypeWordGuessed  = "word_guessed"
	TypeCloseGuess   = "close_guess"
	TypeNewRound     = "new_round"
	TypeGameOver     = "game_over"
)

// GuessPayload is the inbound guess event body.
type GuessPayload struct {
	Guess string `json:"guess"`
}

type GameStatePayload struct {
	Room     Snapshot `json:"room"`
	IsDrawer bool     `json:"is_drawer"`
}

type PlayerJoinedPayload struct {
	Player string `json:"player"`
}

type PlayerLeftPayload struct {
	Player    string `json:"player"`
	NewDrawer string `json:"new_drawer,omitempty"`
}

type GameStartedPayload struct {
	CurrentRound int    `json:"current_round"`
	MaxRounds    int    `json:"max_rounds"`
	Drawer       string `json:"drawer"`
}

type WordToDrawPayload struct {
	Word string `json:"word"`
}

type PlayerGuessPayload struct {
	Player string `json:"player"`
	Guess  string `json:"guess"`
}

type WordGuessedPayload struct {
	Player string         `json:"player"`
	Word   string         `json:"word"`
	Scores map[string]int `json:"scores"`
}

type CloseGuessPayload struct {
	Player   string `json:"player"`
	Distance int    `json:"distance"`
}

type NewRoundPayload struct {
	Round  int    `json:"round"`
	Drawer string `json:"drawer"`
}

type GameOverPayload struct {
	FinalScores map[string]int `json:"final_scores"`
	Winner      string         `json:"winner"`
}

// encodeEvent wraps a payload in the wire envelope. A nil payload produces an
// envelope with no data field (clear_canvas).
func encodeEvent(eventType string, payload any) ([]byte, error) {
	msg := WSMessage{Type: eventType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Data = data
	}
	return json.Marshal(msg)
}
