package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable that overrides DefaultPath.
const (
	EnvPath     = "UNDERGROUND_CONFIG"
	DefaultPath = "config/server.toml"
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Simulation SimulationConfig `toml:"simulation"`
	Police     PoliceConfig     `toml:"police"`
	Logging    LoggingConfig    `toml:"logging"`
	Scenario   ScenarioConfig   `toml:"scenario"`
}

type ServerConfig struct {
	Name          string `toml:"name"`
	Authoritative bool   `toml:"authoritative"` // only the authoritative instance runs the police
	StartTime     int64  // set at boot, not from config
}

type SimulationConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
}

type PoliceConfig struct {
	Enabled bool `toml:"enabled"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ScenarioConfig struct {
	BlockList  string `toml:"block_list"`
	World      string `toml:"world"`
	ScriptsDir string `toml:"scripts_dir"`
}

// Path returns the config path from the environment, or DefaultPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %s", c.Simulation.TickRate)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name:          "UndergroundPolice",
			Authoritative: true,
		},
		Simulation: SimulationConfig{
			TickRate: 100 * time.Millisecond,
		},
		Police: PoliceConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scenario: ScenarioConfig{
			BlockList:  "data/yaml/block_list.yaml",
			World:      "data/yaml/world.yaml",
			ScriptsDir: "scripts",
		},
	}
}
