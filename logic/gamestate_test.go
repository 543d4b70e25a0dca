package logic

import (
	"math"
	"sync"
	"testing"
	"time"
)

// testConfig disables food spawning so economy assertions stay exact;
// individual tests re-enable what they need.
func testConfig() *GameConfig {
	cfg := DefaultConfig()
	cfg.World.FoodTarget = 0
	return cfg
}

// placePlayer joins a player with stake 10 and pins its snake to a known
// position, heading and size. The chain is collapsed onto the head so only
// deliberate geometry triggers collisions.
func placePlayer(t *testing.T, gs *GameState, id string, x, y, angle, size float64) *Player {
	t.Helper()
	p, _, err := gs.AddPlayer(id, id, "#FF6B6B", 10)
	if err != nil {
		t.Fatalf("AddPlayer(%s): %v", id, err)
	}
	p.Snake.X, p.Snake.Y = x, y
	p.Snake.Angle = angle
	p.Snake.Size = size
	for i := range p.Snake.Body {
		p.Snake.Body[i] = Vector2{X: x, Y: y}
	}
	return p
}

type fakeSink struct {
	mu      sync.Mutex
	entries []string // "<playerID>:<reason>"
	usdt    map[string]float64
}

func newFakeSink() *fakeSink {
	return &fakeSink{usdt: make(map[string]float64)}
}

func (f *fakeSink) RecordSettlement(playerID, name string, stake, usdt float64, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, playerID+":"+reason)
	f.usdt[playerID] = usdt
}

func TestAddPlayerRejectsWhenFull(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxPlayers = 2
	gs := NewGameState(cfg, nil)

	placePlayer(t, gs, "p1", 0, 0, 0, 20)
	placePlayer(t, gs, "p2", 500, 500, 0, 20)
	if _, _, err := gs.AddPlayer("p3", "p3", "#fff", 10); err != ErrRoomFull {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
}

func TestStartedTransitionsExactlyOnce(t *testing.T) {
	cfg := testConfig()
	gs := NewGameState(cfg, nil)

	for i := 0; i < cfg.Server.MinPlayers-1; i++ {
		_, justStarted, err := gs.AddPlayer(string(rune('a'+i)), "p", "#fff", 10)
		if err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
		if justStarted {
			t.Fatalf("room started before reaching min players")
		}
	}
	if gs.Started() {
		t.Fatalf("started flag set too early")
	}

	_, justStarted, err := gs.AddPlayer("threshold", "p", "#fff", 10)
	if err != nil {
		t.Fatalf("threshold join: %v", err)
	}
	if !justStarted || !gs.Started() {
		t.Fatalf("expected start transition at min players")
	}

	_, justStarted, _ = gs.AddPlayer("late", "p", "#fff", 10)
	if justStarted {
		t.Fatalf("start transition reported twice")
	}

	// Departures never revert the flag.
	gs.RemovePlayer("threshold", ReasonLeave)
	gs.RemovePlayer("late", ReasonLeave)
	if !gs.Started() {
		t.Fatalf("started flag reverted after departures")
	}
	_, justStarted, _ = gs.AddPlayer("again", "p", "#fff", 10)
	if justStarted {
		t.Fatalf("start transition re-fired on rejoin")
	}
}

func TestKillSplitsBalanceTenNinety(t *testing.T) {
	gs := NewGameState(testConfig(), nil)
	placePlayer(t, gs, "victim", 0, 0, 0, 20)
	killer := placePlayer(t, gs, "killer", 800, 800, 0, 24)

	gs.KillPlayer("victim", "killer")

	if _, ok := gs.Players["victim"]; ok {
		t.Fatalf("victim still present after kill")
	}
	if math.Abs(killer.USDT-11.0) > 1e-9 {
		t.Fatalf("killer balance %.4f want 11.0", killer.USDT)
	}
	if len(gs.Corpses) != 1 {
		t.Fatalf("expected one corpse, got %d", len(gs.Corpses))
	}
	if math.Abs(gs.Corpses[0].USDT-9.0) > 1e-9 {
		t.Fatalf("corpse residue %.4f want 9.0", gs.Corpses[0].USDT)
	}
	if gs.Corpses[0].CreatedAt.IsZero() {
		t.Fatalf("corpse missing creation timestamp")
	}
}

func TestKillWithoutKillerKeepsFullResidue(t *testing.T) {
	gs := NewGameState(testConfig(), nil)
	placePlayer(t, gs, "victim", 0, 0, 0, 20)

	gs.KillPlayer("victim", "")

	if len(gs.Corpses) != 1 || math.Abs(gs.Corpses[0].USDT-10.0) > 1e-9 {
		t.Fatalf("expected corpse with the full 10.0 residue")
	}
}

func TestHeadToHeadKillsSmallerBeyondRatio(t *testing.T) {
	gs := NewGameState(testConfig(), nil)
	// Sizes 20 vs 24: ratio 1.2 > 1.15, heads within radii after the move.
	small := placePlayer(t, gs, "small", 0, 0, math.Pi/2, 20)
	big := placePlayer(t, gs, "big", 20, 0, math.Pi/2, 24)
	_ = small

	gs.UpdateTick()

	if _, ok := gs.Players["small"]; ok {
		t.Fatalf("smaller snake survived a 1.2x head-to-head")
	}
	if _, ok := gs.Players["big"]; !ok {
		t.Fatalf("larger snake must not be eliminated")
	}
	if len(gs.Corpses) != 1 {
		t.Fatalf("expected exactly one corpse, got %d", len(gs.Corpses))
	}
	// 10% bonus moved at the kill; whatever the larger snake loots on top
	// still has to come out of the corpse, never out of thin air.
	total := big.USDT + gs.Corpses[0].USDT
	if math.Abs(total-20.0) > 1e-9 {
		t.Fatalf("balance not conserved: killer+corpse = %.4f want 20.0", total)
	}
	if big.USDT < 11.0-1e-9 {
		t.Fatalf("killer balance %.4f missing the 10%% kill bonus", big.USDT)
	}
}

func TestHeadToHeadGraceBandKillsNobody(t *testing.T) {
	gs := NewGameState(testConfig(), nil)
	// Sizes 20 vs 22: ratio 1.1 <= 1.15, inside the grace band.
	placePlayer(t, gs, "a", 0, 0, math.Pi/2, 20)
	placePlayer(t, gs, "b", 18, 0, math.Pi/2, 22)

	gs.UpdateTick()

	if len(gs.Players) != 2 {
		t.Fatalf("grace-band collision eliminated a snake: %d left", len(gs.Players))
	}
	if len(gs.Corpses) != 0 {
		t.Fatalf("grace-band collision produced a corpse")
	}
}

func TestHeadToBodyAlwaysKillsCollidingHead(t *testing.T) {
	gs := NewGameState(testConfig(), nil)
	// The bigger snake runs into the smaller one's trail and still dies.
	runner := placePlayer(t, gs, "runner", 0, 0, 0, 40)
	owner := placePlayer(t, gs, "owner", 500, 0, math.Pi/2, 20)
	_ = runner

	// Lay the owner's trail across the runner's path, far from the
	// owner's head so it counts as trailing body.
	for i := range owner.Snake.Body {
		owner.Snake.Body[i] = Vector2{X: 5, Y: float64(-20 + i*5)}
	}

	gs.UpdateTick()

	if _, ok := gs.Players["runner"]; ok {
		t.Fatalf("head-to-body contact must eliminate the colliding head's owner")
	}
	if _, ok := gs.Players["owner"]; !ok {
		t.Fatalf("trail owner must survive")
	}
	if owner.USDT < 11.0-1e-9 {
		t.Fatalf("trail owner %.4f missing kill bonus", owner.USDT)
	}
}

func TestFoodConsumptionGrowsAndRestocks(t *testing.T) {
	cfg := testConfig()
	cfg.World.FoodTarget = 3
	gs := NewGameState(cfg, nil)
	p := placePlayer(t, gs, "p1", 0, 0, 0, 20)

	// Head lands on (3, 0) after the move; park one pellet there and the
	// rest out of reach.
	gs.Food[0] = Food{X: 3, Y: 0, Size: 5}
	gs.Food[1] = Food{X: 1000, Y: 1000, Size: 3}
	gs.Food[2] = Food{X: -1000, Y: -1000, Size: 3}

	gs.UpdateTick()

	if math.Abs(p.Snake.Size-20.3) > 1e-9 {
		t.Fatalf("size %.4f want 20.3", p.Snake.Size)
	}
	if math.Abs(p.USDT-10.01) > 1e-9 {
		t.Fatalf("balance %.4f want 10.01", p.USDT)
	}
	if len(gs.Food) != 3 {
		t.Fatalf("food pool %d want 3 (restocked same tick)", len(gs.Food))
	}
}

func TestBalanceConservedWithoutKillsOrFood(t *testing.T) {
	gs := NewGameState(testConfig(), nil)
	a := placePlayer(t, gs, "a", -800, -800, 0, 20)
	b := placePlayer(t, gs, "b", 800, 800, math.Pi, 20)

	for i := 0; i < 20; i++ {
		gs.UpdateTick()
	}
	if math.Abs(a.USDT+b.USDT-20.0) > 1e-9 {
		t.Fatalf("total balance drifted: %.6f", a.USDT+b.USDT)
	}
}

func TestLootDrainsCorpseToExhaustion(t *testing.T) {
	gs := NewGameState(testConfig(), nil)
	p := placePlayer(t, gs, "collector", 0, 0, 0, 20)
	gs.Corpses = append(gs.Corpses, &Corpse{
		UID:       "c1",
		X:         20, // inside the 25-unit loot radius, outside contact range
		Y:         0,
		Body:      []Vector2{{X: 20, Y: 40}},
		Color:     "#fff",
		USDT:      5.0,
		CreatedAt: time.Now(),
	})

	for i := 0; i < 10; i++ {
		p.Snake.X, p.Snake.Y = 0, 0 // hold the collector in range
		gs.UpdateTick()
	}

	if math.Abs(p.USDT-15.0) > 1e-9 {
		t.Fatalf("collector balance %.4f want 15.0 (drained exactly 5.0)", p.USDT)
	}
	if len(gs.Corpses) != 0 {
		t.Fatalf("exhausted corpse was not removed")
	}
}

func TestCorpseContactEliminatesOutright(t *testing.T) {
	gs := NewGameState(testConfig(), nil)
	placePlayer(t, gs, "p1", 0, 0, 0, 20)
	gs.Corpses = append(gs.Corpses, &Corpse{
		UID:       "c1",
		X:         10,
		Y:         0,
		Body:      []Vector2{{X: 10, Y: 0}},
		Color:     "#fff",
		USDT:      3.0,
		CreatedAt: time.Now().Add(-5 * time.Second), // armed
	})

	gs.UpdateTick()

	if _, ok := gs.Players["p1"]; ok {
		t.Fatalf("corpse contact must eliminate the player")
	}
	if len(gs.Corpses) != 2 {
		t.Fatalf("expected the victim's own corpse alongside the obstacle")
	}
}

func TestCorpsesExpireAfterMaxAge(t *testing.T) {
	gs := NewGameState(testConfig(), nil)
	placePlayer(t, gs, "p1", 800, 800, 0, 20)
	gs.Corpses = append(gs.Corpses, &Corpse{
		UID:       "old",
		X:         -800,
		Y:         -800,
		Body:      []Vector2{{X: -800, Y: -800}},
		USDT:      5.0,
		CreatedAt: time.Now().Add(-31 * time.Second),
	})

	gs.UpdateTick()

	if len(gs.Corpses) != 0 {
		t.Fatalf("corpse older than 30s must be purged even with residue left")
	}
}

func TestSweepIdleRemovesStalePlayers(t *testing.T) {
	sink := newFakeSink()
	gs := NewGameState(testConfig(), sink)
	stale := placePlayer(t, gs, "stale", 100, 100, 0, 20)
	placePlayer(t, gs, "active", -100, -100, 0, 20)
	stale.LastActive = time.Now().Add(-61 * time.Second)

	removed := gs.SweepIdle(60 * time.Second)

	if len(removed) != 1 || removed[0] != "stale" {
		t.Fatalf("sweep removed %v, want [stale]", removed)
	}
	if len(gs.Players) != 1 {
		t.Fatalf("active player must survive the sweep")
	}
	if len(gs.Corpses) != 1 {
		t.Fatalf("idle removal must leave a corpse")
	}
	c := gs.Corpses[0]
	if c.X != 100 || c.Y != 100 || math.Abs(c.USDT-10.0) > 1e-9 {
		t.Fatalf("corpse at (%.0f,%.0f) with %.2f, want last known position and balance", c.X, c.Y, c.USDT)
	}
	if len(sink.entries) != 1 || sink.entries[0] != "stale:idle" {
		t.Fatalf("settlement entries %v, want [stale:idle]", sink.entries)
	}
}

func TestRemovePlayerSettlesFinalBalance(t *testing.T) {
	sink := newFakeSink()
	gs := NewGameState(testConfig(), sink)
	p := placePlayer(t, gs, "p1", 0, 0, 0, 20)
	p.USDT = 17.5

	gs.RemovePlayer("p1", ReasonLeave)

	if len(sink.entries) != 1 || sink.entries[0] != "p1:leave" {
		t.Fatalf("settlement entries %v", sink.entries)
	}
	if math.Abs(sink.usdt["p1"]-17.5) > 1e-9 {
		t.Fatalf("settled %.2f want 17.5", sink.usdt["p1"])
	}
	if len(gs.Corpses) != 1 || math.Abs(gs.Corpses[0].USDT-17.5) > 1e-9 {
		t.Fatalf("leave must leave a corpse holding the full balance")
	}
}
