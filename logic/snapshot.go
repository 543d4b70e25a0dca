package logic

// Wire views of the world, in the field names the canvas client consumes.

type PlayerView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	USDT       float64   `json:"usdt"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Angle      float64   `json:"angle"`
	Size       float64   `json:"size"`
	Color      string    `json:"color"`
	BodyLength int       `json:"bodyLength"`
	BodyPoints []Vector2 `json:"bodyPoints"`
}

type CorpseView struct {
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	USDT  float64   `json:"usdt"`
	Color string    `json:"color"`
	Body  []Vector2 `json:"body"`
}

type WorldSnapshot struct {
	Players    []PlayerView `json:"players"`
	Food       []Food       `json:"food"`
	DeadSnakes []CorpseView `json:"deadSnakes"`
}

// Snapshot builds the post-tick view broadcast to every client in the room.
// Clients never see a partially applied tick: the loop calls this only
// after UpdateTick has released the write lock.
func (gs *GameState) Snapshot() WorldSnapshot {
	gs.Mutex.RLock()
	defer gs.Mutex.RUnlock()

	snap := WorldSnapshot{
		Players:    make([]PlayerView, 0, len(gs.Players)),
		Food:       make([]Food, len(gs.Food)),
		DeadSnakes: make([]CorpseView, 0, len(gs.Corpses)),
	}
	copy(snap.Food, gs.Food)

	for _, id := range gs.order {
		p := gs.Players[id]
		body := make([]Vector2, len(p.Snake.Body))
		copy(body, p.Snake.Body)
		snap.Players = append(snap.Players, PlayerView{
			ID:         p.ID,
			Name:       p.Name,
			USDT:       p.USDT,
			X:          p.Snake.X,
			Y:          p.Snake.Y,
			Angle:      p.Snake.Angle,
			Size:       p.Snake.Size,
			Color:      p.Color,
			BodyLength: p.Snake.BodyLength(),
			BodyPoints: body,
		})
	}

	for _, c := range gs.Corpses {
		body := make([]Vector2, len(c.Body))
		copy(body, c.Body)
		snap.DeadSnakes = append(snap.DeadSnakes, CorpseView{
			X:     c.X,
			Y:     c.Y,
			USDT:  c.USDT,
			Color: c.Color,
			Body:  body,
		})
	}
	return snap
}
