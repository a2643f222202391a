package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/udisondev/magecombat/internal/combat"
	"github.com/udisondev/magecombat/internal/world"
)

// DefaultTickInterval is used when New gets a non-positive interval.
const DefaultTickInterval = 100 * time.Millisecond

// Simulation owns the world on a single goroutine. Attribute stores are not
// locked, so every mutation goes through Submit.
type Simulation struct {
	world    *world.World
	engine   *combat.Engine
	interval time.Duration
	commands chan Command

	ticks    atomic.Uint64
	executed atomic.Uint64
}

// New creates a simulation. queueSize bounds pending commands.
func New(w *world.World, engine *combat.Engine, interval time.Duration, queueSize int) *Simulation {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Simulation{
		world:    w,
		engine:   engine,
		interval: interval,
		commands: make(chan Command, queueSize),
	}
}

// Submit queues cmd, blocking until it is accepted or ctx is done.
// Commands run in submission order.
func (s *Simulation) Submit(ctx context.Context, cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("submitting nil command")
	}
	select {
	case s.commands <- cmd:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("submitting %T: %w", cmd, ctx.Err())
	}
}

// Run executes commands and ticks until ctx is cancelled.
func (s *Simulation) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("simulation started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopping",
				"ticks", s.ticks.Load(),
				"commands", s.executed.Load())
			return nil

		case cmd := <-s.commands:
			s.execute(cmd)

		case <-ticker.C:
			s.Step(s.interval)
		}
	}
}

// Step advances every participant's effects by dt and clears the effects of
// dead participants. It must only be called from the goroutine running Run,
// or when Run is not running.
func (s *Simulation) Step(dt time.Duration) {
	s.ticks.Add(1)
	for _, c := range s.world.All() {
		if c.IsDead() {
			if c.Effects().Count() > 0 {
				c.Effects().RemoveAll()
			}
			continue
		}
		s.engine.AdvanceEffects(c, dt)
	}
}

// Ticks returns the number of completed steps.
func (s *Simulation) Ticks() uint64 {
	return s.ticks.Load()
}

// Executed returns the number of executed commands.
func (s *Simulation) Executed() uint64 {
	return s.executed.Load()
}

func (s *Simulation) execute(cmd Command) {
	cmd.execute(s)
	s.executed.Add(1)
}
