package logic

import (
	"log"
	"sync"
	"time"
)

// GameLoop drives one room: a fixed-rate simulation ticker and an
// independent idle-sweep ticker, both stopped through StopChan so tests
// can start and tear the loop down deterministically.
type GameLoop struct {
	GameState    *GameState
	SnapshotChan chan WorldSnapshot
	StopChan     chan struct{}

	stopOnce sync.Once
}

func NewGameLoop(cfg *GameConfig, sink SettlementSink) *GameLoop {
	return &GameLoop{
		GameState:    NewGameState(cfg, sink),
		SnapshotChan: make(chan WorldSnapshot, 1),
		StopChan:     make(chan struct{}),
	}
}

func (gl *GameLoop) Run() {
	cfg := gl.GameState.Config
	tick := time.NewTicker(time.Second / time.Duration(cfg.Server.TickRateHz))
	defer tick.Stop()
	sweep := time.NewTicker(time.Duration(cfg.Server.SweepIntervalSec) * time.Second)
	defer sweep.Stop()

	for {
		select {
		case <-tick.C:
			if gl.GameState.PlayerCount() == 0 {
				continue
			}
			gl.safeTick()
			// Hand the snapshot to the network hub without ever
			// blocking on a slow consumer.
			select {
			case gl.SnapshotChan <- gl.GameState.Snapshot():
			default:
			}

		case <-sweep.C:
			timeout := time.Duration(cfg.Server.IdleTimeoutSec) * time.Second
			gl.GameState.SweepIdle(timeout)

		case <-gl.StopChan:
			return
		}
	}
}

// safeTick keeps a faulty tick from taking down the process: the fault is
// logged and that room simply skips the cycle.
func (gl *GameLoop) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tick: recovered from simulation fault: %v", r)
		}
	}()
	gl.GameState.UpdateTick()
}

func (gl *GameLoop) Stop() {
	gl.stopOnce.Do(func() { close(gl.StopChan) })
}
