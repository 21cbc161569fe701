package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/undergroundpolice/server/internal/config"
	coresys "github.com/undergroundpolice/server/internal/core/system"
	"github.com/undergroundpolice/server/internal/data"
	"github.com/undergroundpolice/server/internal/police"
	"github.com/undergroundpolice/server/internal/scripting"
	"github.com/undergroundpolice/server/internal/system"
	"github.com/undergroundpolice/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, authoritative bool) {
	role := "replica"
	if authoritative {
		role = "authoritative"
	}
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        Underground Police  v0.1.0         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mServer:\033[0m %s \033[90m(%s)\033[0m\n\n", serverName, role)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.Authoritative)

	// 3. Load static data
	printSection("Data")
	blocks, err := data.LoadBlockTable(cfg.Scenario.BlockList)
	if err != nil {
		return fmt.Errorf("block list: %w", err)
	}
	printStat("Block types", blocks.Count())

	// 4. Build the world. The police subscribes before the scenario is
	// applied so it sees every initial structure.
	worldState := world.NewState(cfg.Server.Authoritative)

	var pol *police.Police
	if cfg.Police.Enabled {
		pol = police.New(worldState, log)
		pol.Load()
	}

	if cfg.Scenario.World != "" {
		scenario, err := data.LoadScenario(cfg.Scenario.World)
		if err != nil {
			return fmt.Errorf("world: %w", err)
		}
		if err := scenario.Apply(worldState, blocks); err != nil {
			return fmt.Errorf("apply world: %w", err)
		}
	}

	// 5. Scenario scripts
	engine, err := scripting.NewEngine(cfg.Scenario.ScriptsDir, worldState, blocks, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()

	printStat("Terrain volumes", worldState.TerrainCount())
	printStat("Structures", worldState.StructureCount())
	printStat("Components", worldState.ComponentCount())
	if pol != nil && pol.Enabled() {
		printOK("Underground police enabled")
	}
	fmt.Println()

	// 6. Create systems and register with runner
	runner := newRunner(worldState, pol, engine, log)

	// 7. Start simulation loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("Ready")
	printReady(fmt.Sprintf("Simulation loop started (tick: %s)", cfg.Simulation.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if pol != nil {
				pol.Unload()
				st := pol.Stats()
				log.Info("police stopped",
					zap.Uint64("passes", st.Passes),
					zap.Uint64("components", st.Components),
					zap.Uint64("removed", st.Removed),
				)
			}
			log.Info("server stopped")
			return nil
		}
	}
}

// newRunner registers the simulation systems. The police hook is left out
// entirely unless Load succeeded.
func newRunner(ws *world.State, pol *police.Police, scripts system.Ticker, log *zap.Logger) *coresys.Runner {
	runner := coresys.NewRunner()
	if pol != nil && pol.Enabled() {
		runner.Register(pol)
	}
	runner.Register(system.NewScenarioSystem(scripts))
	runner.Register(system.NewCleanupSystem(ws, log))
	return runner
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
