// Command aisim runs the ship AI headless against a mission and streams HUD snapshots.
//
// Usage:
//
//	aisim                 run the configured mission
//	aisim import <file>   store a mission file in the database
//	aisim list            list missions stored in the database
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jg18/fs2open.github.com/internal/ai"
	"github.com/jg18/fs2open.github.com/internal/config"
	"github.com/jg18/fs2open.github.com/internal/data"
	"github.com/jg18/fs2open.github.com/internal/db"
	"github.com/jg18/fs2open.github.com/internal/hudfeed"
	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/physics"
	"github.com/jg18/fs2open.github.com/internal/scenario"
	"github.com/jg18/fs2open.github.com/internal/world"
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

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfgPath := config.ConfigPath()
	cfg, err := config.LoadEngine(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)
	ai.TraceShip(cfg.DebugShip)

	if len(args) > 0 {
		switch args[0] {
		case "import":
			if len(args) != 2 {
				return errors.New("usage: aisim import <mission.yaml>")
			}
			return importMission(ctx, cfg, args[1])
		case "list":
			return listMissions(ctx, cfg)
		default:
			return fmt.Errorf("unknown command %q", args[0])
		}
	}
	return simulate(ctx, cfg)
}

func simulate(ctx context.Context, cfg config.Engine) error {
	slog.Info("aisim starting",
		"log_level", cfg.LogLevel,
		"tick_rate", cfg.TickRate,
		"skill", cfg.SkillLevel,
		"profile", cfg.AIProfile)

	tables, err := data.LoadTables(cfg.Tables.AIClasses, cfg.Tables.AIProfiles, cfg.Tables.ShipClasses)
	if err != nil {
		return fmt.Errorf("loading tables: %w", err)
	}

	mission, err := loadMission(ctx, cfg)
	if err != nil {
		return err
	}

	w := world.New(cfg.MaxObjects)
	mgr := ai.NewManager(w, ai.Config{
		MaxSlots:          cfg.MaxAISlots,
		PathArenaSize:     cfg.PathArenaSize,
		GoalCheckInterval: cfg.GoalCheckInterval,
		TickRate:          cfg.TickRate,
		Seed:              cfg.Seed,
	})
	mgr.SetIntegrator(physics.NewIntegrator())
	mgr.SetDepartFunc(func(ship *model.Object, via model.Handle) {
		slog.Info("ship departed", "ship", ship.Name, "via_bay", !via.IsNone())
	})

	built, err := scenario.Build(mission, w, mgr, tables, scenario.BuildOptions{
		Profile: cfg.AIProfile,
		Skill:   cfg.SkillLevel,
	})
	if err != nil {
		return fmt.Errorf("building mission %q: %w", mission.Name, err)
	}
	slog.Info("mission loaded", "mission", mission.Name, "ships", len(built.Ships), "ai", mgr.Count())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := mgr.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("AI manager: %w", err)
		}
		return nil
	})

	if cfg.HUD.Enabled {
		hub := hudfeed.NewHub(mgr, cfg.HUD.PublishInterval)
		g.Go(func() error {
			return hub.Run(gctx)
		})

		mux := http.NewServeMux()
		mux.HandleFunc("/hud", hub.HandleWebSocket)
		srv := &http.Server{
			Addr:              cfg.HUD.BindAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			slog.Info("starting HUD feed", "addr", cfg.HUD.BindAddress)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HUD feed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulator error: %w", err)
	}
	slog.Info("aisim stopped", "departed_or_destroyed", len(built.Ships)-mgr.Count())
	return nil
}

func loadMission(ctx context.Context, cfg config.Engine) (*scenario.Mission, error) {
	if cfg.Mission.Source == "file" {
		m, err := scenario.Load(cfg.Mission.Path)
		if err != nil {
			return nil, fmt.Errorf("loading mission file: %w", err)
		}
		return m, nil
	}

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	m, err := database.Missions().Load(ctx, cfg.Mission.Name)
	if err != nil {
		return nil, fmt.Errorf("loading mission from database: %w", err)
	}
	return m, nil
}

func openDatabase(ctx context.Context, cfg config.Engine) (*db.DB, error) {
	dsn := cfg.Database.DSN()
	database, err := db.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if _, err := db.RunMigrations(ctx, dsn); err != nil {
		database.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database connected")
	return database, nil
}

func importMission(ctx context.Context, cfg config.Engine, path string) error {
	m, err := scenario.Load(path)
	if err != nil {
		return err
	}
	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Missions().Save(ctx, m); err != nil {
		return fmt.Errorf("saving mission: %w", err)
	}
	slog.Info("mission imported", "mission", m.Name, "ships", len(m.Ships))
	return nil
}

func listMissions(ctx context.Context, cfg config.Engine) error {
	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	missions, err := database.Missions().List(ctx)
	if err != nil {
		return err
	}
	for _, m := range missions {
		fmt.Printf("%-24s %3d ships  %s  %s\n", m.Name, m.Ships, m.UpdatedAt.Format(time.DateTime), m.Description)
	}
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
