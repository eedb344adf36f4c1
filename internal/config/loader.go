package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the configuration. Keys missing from a file keep their defaults.
// Search order: customPath -> ~/.snakesim/config.yaml -> ./configs/snakesim.yaml -> embedded default
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Default(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Default(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return Default(), fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath("config.yaml"), filepath.Join("configs", "snakesim.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := parse(data); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snakesim", filename)
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Board.Width > 0, "board.width must be positive, got %d", c.Board.Width)
	check(c.Board.Height > 0, "board.height must be positive, got %d", c.Board.Height)
	check(c.Play.TickRate > 0, "play.tick_rate must be positive, got %d", c.Play.TickRate)
	check(c.Train.Width > 0, "train.width must be positive, got %d", c.Train.Width)
	check(c.Train.Height > 0, "train.height must be positive, got %d", c.Train.Height)
	check(c.Train.Episodes >= 0, "train.episodes must not be negative, got %d", c.Train.Episodes)
	check(c.Train.Hidden > 0, "train.hidden must be positive, got %d", c.Train.Hidden)
	check(c.Train.LearningRate > 0, "train.learning_rate must be positive, got %g", c.Train.LearningRate)
	check(c.Train.Gamma >= 0 && c.Train.Gamma <= 1, "train.gamma must be in [0,1], got %g", c.Train.Gamma)
	check(inUnit(c.Train.EpsilonStart), "train.epsilon_start must be in [0,1], got %g", c.Train.EpsilonStart)
	check(inUnit(c.Train.EpsilonMin), "train.epsilon_min must be in [0,1], got %g", c.Train.EpsilonMin)
	check(c.Train.EpsilonDecay >= 0, "train.epsilon_decay must not be negative, got %g", c.Train.EpsilonDecay)
	check(c.Train.BatchSize > 0, "train.batch_size must be positive, got %d", c.Train.BatchSize)
	check(c.Train.MemorySize > 0, "train.memory_size must be positive, got %d", c.Train.MemorySize)
	check(c.Server.MaxEnvs > 0, "server.max_envs must be positive, got %d", c.Server.MaxEnvs)

	return errors.Join(errs...)
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
