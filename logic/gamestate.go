package logic

import (
	"errors"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrRoomFull = errors.New("room is full")

// GameState manages one room's world simulation. All mutation goes through
// its methods; the Mutex serializes the owning loop against message handlers.
type GameState struct {
	Config  *GameConfig
	Players map[string]*Player
	Food    []Food
	Corpses []*Corpse
	Mutex   sync.RWMutex

	order   []string // player ids in join order, drives tick iteration
	started bool
	sink    SettlementSink
}

func NewGameState(cfg *GameConfig, sink SettlementSink) *GameState {
	gs := &GameState{
		Config:  cfg,
		Players: make(map[string]*Player),
		Food:    make([]Food, 0, cfg.World.FoodTarget),
		Corpses: make([]*Corpse, 0),
		sink:    sink,
	}
	gs.refillFood()
	return gs
}

// AddPlayer spawns a new player with a stake-seeded balance. The second
// return reports whether this join pushed the room over the start threshold;
// that transition happens at most once and never reverts.
func (gs *GameState) AddPlayer(id, name, color string, stake float64) (*Player, bool, error) {
	gs.Mutex.Lock()
	defer gs.Mutex.Unlock()

	if _, ok := gs.Players[id]; !ok && len(gs.Players) >= gs.Config.Server.MaxPlayers {
		return nil, false, ErrRoomFull
	}

	half := gs.Config.World.HalfSize - gs.Config.World.SpawnMargin
	x := (rand.Float64()*2 - 1) * half
	y := (rand.Float64()*2 - 1) * half
	angle := rand.Float64() * 2 * math.Pi

	p := &Player{
		ID:         id,
		Name:       name,
		Color:      color,
		Stake:      stake,
		USDT:       stake,
		Snake:      NewSnake(x, y, angle),
		LastActive: time.Now(),
	}
	if _, ok := gs.Players[id]; !ok {
		gs.order = append(gs.order, id)
	}
	gs.Players[id] = p
	log.Printf("player %s (%s) joined with stake %.2f", id, name, stake)

	justStarted := false
	if !gs.started && len(gs.Players) >= gs.Config.Server.MinPlayers {
		gs.started = true
		justStarted = true
	}
	return p, justStarted, nil
}

// RemovePlayer drops a player, leaving a corpse with their full balance.
// Used for voluntary leave, transport loss and the idle sweep.
func (gs *GameState) RemovePlayer(id, reason string) {
	gs.Mutex.Lock()
	defer gs.Mutex.Unlock()

	p, ok := gs.Players[id]
	if !ok {
		return
	}
	gs.spawnCorpse(p, p.USDT)
	gs.deletePlayer(id)
	gs.settle(p, reason)
}

// KillPlayer eliminates a victim. When a killer is named (snake-vs-snake
// paths only) they are credited the kill bonus immediately and the corpse
// keeps the rest; corpse and self-inflicted deaths pass an empty killer id
// and the corpse keeps everything.
func (gs *GameState) KillPlayer(victimID, killerID string) {
	gs.Mutex.Lock()
	defer gs.Mutex.Unlock()
	gs.killLocked(victimID, killerID)
}

func (gs *GameState) killLocked(victimID, killerID string) {
	v, ok := gs.Players[victimID]
	if !ok {
		return
	}
	residue := v.USDT
	if killerID != "" && killerID != victimID {
		if killer, ok := gs.Players[killerID]; ok {
			bonus := residue * gs.Config.Economy.KillBonus
			killer.USDT += bonus
			residue -= bonus
		}
	}
	gs.spawnCorpse(v, residue)
	gs.deletePlayer(victimID)
	gs.settle(v, ReasonKilled)
}

func (gs *GameState) spawnCorpse(p *Player, residue float64) {
	body := make([]Vector2, len(p.Snake.Body))
	copy(body, p.Snake.Body)
	gs.Corpses = append(gs.Corpses, &Corpse{
		UID:       uuid.NewString(),
		X:         p.Snake.X,
		Y:         p.Snake.Y,
		Body:      body,
		Color:     p.Color,
		USDT:      residue,
		CreatedAt: time.Now(),
	})
}

func (gs *GameState) deletePlayer(id string) {
	delete(gs.Players, id)
	for i, oid := range gs.order {
		if oid == id {
			gs.order = append(gs.order[:i], gs.order[i+1:]...)
			break
		}
	}
}

func (gs *GameState) settle(p *Player, reason string) {
	if gs.sink == nil {
		return
	}
	gs.sink.RecordSettlement(p.ID, p.Name, p.Stake, p.USDT, reason)
}

// SetHeading applies a steering update directly; there is no turn-rate
// model. Counts as activity for the idle sweep.
func (gs *GameState) SetHeading(id string, angle float64) {
	gs.Mutex.Lock()
	defer gs.Mutex.Unlock()
	if p, ok := gs.Players[id]; ok {
		p.Snake.Angle = angle
		p.LastActive = time.Now()
	}
}

// Touch refreshes a player's activity timestamp (ping handling).
func (gs *GameState) Touch(id string) {
	gs.Mutex.Lock()
	defer gs.Mutex.Unlock()
	if p, ok := gs.Players[id]; ok {
		p.LastActive = time.Now()
	}
}

func (gs *GameState) Started() bool {
	gs.Mutex.RLock()
	defer gs.Mutex.RUnlock()
	return gs.started
}

func (gs *GameState) PlayerCount() int {
	gs.Mutex.RLock()
	defer gs.Mutex.RUnlock()
	return len(gs.Players)
}

// UpdateTick advances the whole room by one fixed step: movement, food,
// combat, loot and corpse upkeep, in join order.
func (gs *GameState) UpdateTick() {
	gs.Mutex.Lock()
	defer gs.Mutex.Unlock()

	ids := append([]string(nil), gs.order...)
	for _, id := range ids {
		p, ok := gs.Players[id]
		if !ok {
			continue // eliminated earlier this tick
		}
		p.Snake.Advance(gs.Config.World.HalfSize)
		gs.eatFood(p)
		if gs.collideSnakes(id, p) {
			continue
		}
		if gs.touchesCorpse(p) {
			gs.killLocked(id, "")
			continue
		}
		gs.collectLoot(p)
	}

	gs.expireCorpses(time.Now())
	gs.refillFood()
}

// eatFood consumes every pellet in head range, growing the snake and
// replacing the pellet in place so the pool never dips below target.
func (gs *GameState) eatFood(p *Player) {
	head := Vector2{X: p.Snake.X, Y: p.Snake.Y}
	for i := range gs.Food {
		if CirclesOverlap(head, p.Snake.Radius(), Vector2{X: gs.Food[i].X, Y: gs.Food[i].Y}, gs.Food[i].Size) {
			p.Snake.Size += gs.Config.Economy.FoodGrowth
			p.USDT += gs.Config.Economy.FoodValue
			gs.Food[i] = gs.randomFood()
		}
	}
}

// collideSnakes resolves head-to-head and head-to-body contact for p.
// Returns true when p died.
func (gs *GameState) collideSnakes(id string, p *Player) bool {
	head := Vector2{X: p.Snake.X, Y: p.Snake.Y}
	ratio := gs.Config.Economy.KillSizeRatio

	for _, oid := range append([]string(nil), gs.order...) {
		if oid == id {
			continue
		}
		o, ok := gs.Players[oid]
		if !ok {
			continue
		}
		otherHead := Vector2{X: o.Snake.X, Y: o.Snake.Y}

		if CirclesOverlap(head, p.Snake.Radius(), otherHead, o.Snake.Radius()) {
			// Inside the 15% grace band neither side dies.
			if o.Snake.Size > p.Snake.Size*ratio {
				gs.killLocked(id, oid)
				return true
			}
			if p.Snake.Size > o.Snake.Size*ratio {
				gs.killLocked(oid, id)
				continue
			}
		}

		// Running into another snake's trail is always fatal for the
		// colliding head, regardless of relative size. Segments still
		// inside the owner's head disc belong to the head-to-head case
		// above, not the trail.
		for i := 1; i < len(o.Snake.Body); i++ {
			seg := o.Snake.Body[i]
			if Distance(seg, otherHead) < o.Snake.Radius() {
				continue
			}
			if CirclesOverlap(head, p.Snake.Radius(), seg, o.Snake.SegmentRadius(i)) {
				gs.killLocked(id, oid)
				return true
			}
		}
	}
	return false
}

// corpseSegmentRadius matches the base radius the client renders remains at.
const corpseSegmentRadius = 8.0

// corpseArmDelay keeps a fresh corpse harmless long enough for the killer
// to clear the contact point; without it every kill would immediately
// eliminate the killer too.
const corpseArmDelay = time.Second

func (gs *GameState) touchesCorpse(p *Player) bool {
	head := Vector2{X: p.Snake.X, Y: p.Snake.Y}
	now := time.Now()
	for _, c := range gs.Corpses {
		if now.Sub(c.CreatedAt) < corpseArmDelay {
			continue
		}
		for i, seg := range c.Body {
			progress := float64(i) / float64(len(c.Body))
			r := corpseSegmentRadius * (1 - progress*0.5)
			if CirclesOverlap(head, p.Snake.Radius(), seg, r) {
				return true
			}
		}
	}
	return false
}

// collectLoot drains nearby corpses at a fixed rate, clamped to what is
// left. Emptied corpses are purged by expireCorpses in the same tick.
func (gs *GameState) collectLoot(p *Player) {
	head := Vector2{X: p.Snake.X, Y: p.Snake.Y}
	for _, c := range gs.Corpses {
		if c.USDT <= 0 {
			continue
		}
		if Distance(head, Vector2{X: c.X, Y: c.Y}) <= gs.Config.Economy.LootRadius {
			take := gs.Config.Economy.LootRatePerTick
			if take > c.USDT {
				take = c.USDT
			}
			p.USDT += take
			c.USDT -= take
		}
	}
}

func (gs *GameState) expireCorpses(now time.Time) {
	maxAge := time.Duration(gs.Config.Economy.CorpseExpirySec * float64(time.Second))
	kept := gs.Corpses[:0]
	for _, c := range gs.Corpses {
		if c.USDT <= gs.Config.Economy.CorpseResidueMin {
			continue
		}
		if now.Sub(c.CreatedAt) > maxAge {
			continue
		}
		kept = append(kept, c)
	}
	gs.Corpses = kept
}

// SweepIdle force-removes players with no activity inside the timeout,
// with the same corpse side effects as a voluntary leave. Returns the ids
// that were removed.
func (gs *GameState) SweepIdle(timeout time.Duration) []string {
	gs.Mutex.Lock()
	defer gs.Mutex.Unlock()

	cutoff := time.Now().Add(-timeout)
	var removed []string
	for _, id := range append([]string(nil), gs.order...) {
		p := gs.Players[id]
		if p.LastActive.Before(cutoff) {
			gs.spawnCorpse(p, p.USDT)
			gs.deletePlayer(id)
			gs.settle(p, ReasonIdle)
			removed = append(removed, id)
			log.Printf("player %s removed after idle timeout", id)
		}
	}
	return removed
}

func (gs *GameState) refillFood() {
	for len(gs.Food) < gs.Config.World.FoodTarget {
		gs.Food = append(gs.Food, gs.randomFood())
	}
}

func (gs *GameState) randomFood() Food {
	half := gs.Config.World.HalfSize
	spread := gs.Config.World.FoodRadiusMax - gs.Config.World.FoodRadiusMin
	return Food{
		X:    (rand.Float64()*2 - 1) * half,
		Y:    (rand.Float64()*2 - 1) * half,
		Size: gs.Config.World.FoodRadiusMin + rand.Float64()*spread,
	}
}
