package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/magecombat/internal/character"
	"github.com/udisondev/magecombat/internal/combat"
	"github.com/udisondev/magecombat/internal/config"
	"github.com/udisondev/magecombat/internal/data"
	"github.com/udisondev/magecombat/internal/db"
	"github.com/udisondev/magecombat/internal/model"
	"github.com/udisondev/magecombat/internal/replication"
	"github.com/udisondev/magecombat/internal/sim"
	"github.com/udisondev/magecombat/internal/world"
)

const (
	playerName  = "Merlin"
	enemyName   = "Orc"
	castEvery   = time.Second
	shutdownMax = 5 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := config.Path()
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("combatsim starting", "config", cfgPath, "log_level", cfg.LogLevel)

	registry, err := loadRegistry(cfg.RegistryPath)
	if err != nil {
		return err
	}

	w := world.New(registry)
	engine := combat.NewEngine(registry, newRand(cfg.Seed))
	engine.SetLookupFunc(w.Lookup)

	pub := replication.NewPublisher(cfg.ReplicationQueue)
	defer pub.Close()
	engine.SetApplyFunc(pub.PublishContext)

	engine.SetFloatingTextFunc(func(ft combat.FloatingText) {
		slog.Debug("floating text",
			"viewer", ft.Viewer,
			"target", ft.Target,
			"value", ft.Value,
			"critical", ft.Critical)
	})
	engine.SetExpFunc(func(g combat.ExpGrant) {
		slog.Info("experience granted",
			"recipient", g.Recipient,
			"amount", g.Amount,
			"total", g.Total,
			"level", g.NewLevel)
	})

	// Optional persistence
	var store *playerStore
	if cfg.Database.Enabled {
		store, err = openPlayerStore(ctx, cfg.Database.DSN())
		if err != nil {
			return err
		}
		defer store.Close()
	}

	player, err := spawnPlayer(ctx, w, store)
	if err != nil {
		return err
	}
	pub.Track(player.ObjectID(), player.Attributes())

	enemy, err := w.SpawnEnemy(enemyName, model.ClassWarrior, player.Level())
	if err != nil {
		return fmt.Errorf("spawning enemy: %w", err)
	}
	pub.Track(enemy.ObjectID(), enemy.Attributes())

	var target atomic.Uint32
	target.Store(enemy.ObjectID())

	// Callbacks run on the simulation goroutine, so respawning here is safe.
	engine.SetDeathFunc(func(victim, killer combat.Participant) {
		if victim.IsPlayerControlled() {
			return
		}
		pub.Untrack(victim.ObjectID())
		w.Remove(victim.ObjectID())

		next, err := w.SpawnEnemy(enemyName, model.ClassWarrior, player.Level())
		if err != nil {
			slog.Error("respawning enemy", "error", err)
			return
		}
		pub.Track(next.ObjectID(), next.Attributes())
		target.Store(next.ObjectID())
	})

	simulation := sim.New(w, engine, cfg.TickInterval, cfg.CommandQueue)
	replica := replication.NewReplica()
	frames, unsubscribe := pub.Subscribe()
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := simulation.Run(gctx); err != nil {
			return fmt.Errorf("simulation: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting replica")
		if err := replica.Run(gctx, frames); err != nil {
			return fmt.Errorf("replica: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return castLoop(gctx, simulation, player.ObjectID(), &target)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("simulation finished",
		"ticks", simulation.Ticks(),
		"commands", simulation.Executed(),
		"frames_dropped", pub.Dropped(),
		"replicated_objects", len(replica.Projection().Objects()))

	if store != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), shutdownMax)
		defer cancel()
		if err := store.Save(saveCtx, player); err != nil {
			return err
		}
	}
	return nil
}

// castLoop casts a fireball at the current target every castEvery.
func castLoop(ctx context.Context, s *sim.Simulation, caster model.ObjectID, target *atomic.Uint32) error {
	spec := combat.DamageSpec{
		Magnitudes:   map[model.DamageType]float64{model.DamageTypeFire: 12},
		AbilityLevel: 1,
		DamageType:   model.DamageTypeFire,
		Debuff:       combat.DebuffSpec{Chance: 0.2, Damage: 3, Frequency: 1, Duration: 5},
		DeathImpulse: model.Vector{X: 0, Y: 0, Z: 600},
	}

	ticker := time.NewTicker(castEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := s.Submit(ctx, sim.Damage{Source: caster, Target: target.Load(), Spec: spec})
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("submitting cast: %w", err)
			}
		}
	}
}

func loadRegistry(path string) (*data.Registry, error) {
	if path == "" {
		return data.Default(), nil
	}
	registry, err := data.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	return registry, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// playerStore persists the demo player between runs.
type playerStore struct {
	database *db.DB
	repo     *db.CharacterRepository
	id       int64
}

func openPlayerStore(ctx context.Context, dsn string) (*playerStore, error) {
	database, err := db.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, dsn); err != nil {
		database.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	return &playerStore{database: database, repo: db.NewCharacterRepository(database.Pool())}, nil
}

func (s *playerStore) Close() {
	s.database.Close()
}

func (s *playerStore) Save(ctx context.Context, c *character.Character) error {
	if err := s.repo.Save(ctx, s.id, c.Progress()); err != nil {
		return fmt.Errorf("saving player: %w", err)
	}
	slog.Info("player saved", "id", s.id, "level", c.Level(), "exp", c.Exp())
	return nil
}

// spawnPlayer restores the player from store, creating the record on first run.
func spawnPlayer(ctx context.Context, w *world.World, store *playerStore) (*character.Character, error) {
	if store == nil {
		c, err := w.SpawnPlayer(playerName, model.ClassMage, 1)
		if err != nil {
			return nil, fmt.Errorf("spawning player: %w", err)
		}
		return c, nil
	}

	rec, err := store.repo.LoadByName(ctx, playerName)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		store.id = rec.ID
		c, err := w.RestorePlayer(rec.Name, rec.Class, rec.Progress)
		if err != nil {
			return nil, fmt.Errorf("restoring player: %w", err)
		}
		slog.Info("player restored", "id", rec.ID, "level", c.Level(), "exp", c.Exp())
		return c, nil
	}

	c, err := w.SpawnPlayer(playerName, model.ClassMage, 1)
	if err != nil {
		return nil, fmt.Errorf("spawning player: %w", err)
	}
	if store.id, err = store.repo.Create(ctx, c.Name(), c.Class(), c.Progress()); err != nil {
		return nil, fmt.Errorf("creating player record: %w", err)
	}
	slog.Info("player created", "id", store.id)
	return c, nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
