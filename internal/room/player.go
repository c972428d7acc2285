package room

// Player is one participant in a room. Owned by the room; all field access
// happens under the room's lock. Insertion order in Room.Players is the turn
// order.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	IsDrawing bool   `json:"is_drawing"`
}
