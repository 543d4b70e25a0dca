package logic

import "math"

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func clampFloat(v, minV, maxV float64) float64 {
	if math.IsNaN(v) {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// ClampGameConfig enforces hard safety bounds for room configs.
// It mutates cfg in-place so callers can accept user-provided values while guaranteeing sane limits.
func ClampGameConfig(cfg *GameConfig) {
	if cfg == nil {
		return
	}

	// --- server ---
	cfg.Server.TickRateHz = clampInt(cfg.Server.TickRateHz, 10, 120)
	cfg.Server.MinPlayers = clampInt(cfg.Server.MinPlayers, 1, 64)
	cfg.Server.MaxPlayers = clampInt(cfg.Server.MaxPlayers, 1, 64)
	if cfg.Server.MinPlayers > cfg.Server.MaxPlayers {
		cfg.Server.MinPlayers = cfg.Server.MaxPlayers
	}
	cfg.Server.IdleTimeoutSec = clampInt(cfg.Server.IdleTimeoutSec, 5, 600)
	cfg.Server.SweepIntervalSec = clampInt(cfg.Server.SweepIntervalSec, 1, 300)

	// --- world ---
	cfg.World.HalfSize = clampFloat(cfg.World.HalfSize, 100, 10000)
	cfg.World.FoodTarget = clampInt(cfg.World.FoodTarget, 0, 5000)
	cfg.World.FoodRadiusMin = clampFloat(cfg.World.FoodRadiusMin, 0.5, 20)
	cfg.World.FoodRadiusMax = clampFloat(cfg.World.FoodRadiusMax, 0.5, 20)
	if cfg.World.FoodRadiusMax < cfg.World.FoodRadiusMin {
		cfg.World.FoodRadiusMax = cfg.World.FoodRadiusMin
	}
	cfg.World.SpawnMargin = clampFloat(cfg.World.SpawnMargin, 0, cfg.World.HalfSize/2)

	// --- economy ---
	cfg.Economy.FoodGrowth = clampFloat(cfg.Economy.FoodGrowth, 0, 10)
	cfg.Economy.FoodValue = clampFloat(cfg.Economy.FoodValue, 0, 10)
	cfg.Economy.KillBonus = clampFloat(cfg.Economy.KillBonus, 0, 1)
	cfg.Economy.KillSizeRatio = clampFloat(cfg.Economy.KillSizeRatio, 1.0, 5.0)
	cfg.Economy.LootRadius = clampFloat(cfg.Economy.LootRadius, 1, 500)
	cfg.Economy.LootRatePerTick = clampFloat(cfg.Economy.LootRatePerTick, 0.01, 100)
	cfg.Economy.CorpseResidueMin = clampFloat(cfg.Economy.CorpseResidueMin, 0, 1)
	cfg.Economy.CorpseExpirySec = clampFloat(cfg.Economy.CorpseExpirySec, 1, 600)
}
