package logic

import "time"

// Vector2 represents a 2D position
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Player represents a connected user in the arena simulation
type Player struct {
	ID         string
	Name       string
	Color      string
	Stake      float64
	USDT       float64
	Snake      *Snake
	LastActive time.Time
}

// Food is one pellet. Size is its radius.
type Food struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// Corpse is what remains of an eliminated snake: a frozen body chain
// holding the unclaimed balance until it is looted dry or ages out.
// Every creation path stamps CreatedAt, so all corpses expire.
type Corpse struct {
	UID       string
	X, Y      float64
	Body      []Vector2
	Color     string
	USDT      float64
	CreatedAt time.Time
}

// Settlement reasons reported to the wallet collaborator.
const (
	ReasonLeave   = "leave"
	ReasonKilled  = "killed"
	ReasonCrashed = "crashed"
	ReasonIdle    = "idle"
)

// SettlementSink receives each player's final balance when they drop out of
// the simulation. Implementations must not block the caller.
type SettlementSink interface {
	RecordSettlement(playerID, name string, stake, usdt float64, reason string)
}

// Config structs (mirrors game_config.json)
type GameConfig struct {
	Server struct {
		TickRateHz       int `json:"tick_rate_hz"`
		MinPlayers       int `json:"min_players"`
		MaxPlayers       int `json:"max_players"`
		IdleTimeoutSec   int `json:"idle_timeout_sec"`
		SweepIntervalSec int `json:"sweep_interval_sec"`
	} `json:"server"`
	World struct {
		HalfSize      float64 `json:"half_size"`
		FoodTarget    int     `json:"food_target"`
		FoodRadiusMin float64 `json:"food_radius_min"`
		FoodRadiusMax float64 `json:"food_radius_max"`
		SpawnMargin   float64 `json:"spawn_margin"`
	} `json:"world"`
	Economy struct {
		FoodGrowth       float64 `json:"food_growth"`
		FoodValue        float64 `json:"food_value"`
		KillBonus        float64 `json:"kill_bonus"`
		KillSizeRatio    float64 `json:"kill_size_ratio"`
		LootRadius       float64 `json:"loot_radius"`
		LootRatePerTick  float64 `json:"loot_rate_per_tick"`
		CorpseResidueMin float64 `json:"corpse_residue_min"`
		CorpseExpirySec  float64 `json:"corpse_expiry_sec"`
	} `json:"economy"`
}

// DefaultConfig returns the stock tuning used when no config file is present.
func DefaultConfig() *GameConfig {
	cfg := &GameConfig{}
	cfg.Server.TickRateHz = 60
	cfg.Server.MinPlayers = 8
	cfg.Server.MaxPlayers = 20
	cfg.Server.IdleTimeoutSec = 60
	cfg.Server.SweepIntervalSec = 30
	cfg.World.HalfSize = 1500
	cfg.World.FoodTarget = 500
	cfg.World.FoodRadiusMin = 3
	cfg.World.FoodRadiusMax = 6
	cfg.World.SpawnMargin = 200
	cfg.Economy.FoodGrowth = 0.3
	cfg.Economy.FoodValue = 0.01
	cfg.Economy.KillBonus = 0.10
	cfg.Economy.KillSizeRatio = 1.15
	cfg.Economy.LootRadius = 25
	cfg.Economy.LootRatePerTick = 0.5
	cfg.Economy.CorpseResidueMin = 0.01
	cfg.Economy.CorpseExpirySec = 30
	return cfg
}
