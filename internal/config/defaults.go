package config

import (
	_ "embed"
)

//go:embed defaults/snakesim.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Width:  32,
			Height: 24,
		},
		Play: PlayConfig{
			Policy:    "human",
			TickRate:  10,
			ModelPath: "~/.snakesim/model.json",
			ReplayDir: "",
		},
		Train: TrainConfig{
			Width:        12,
			Height:       12,
			Episodes:     500,
			Hidden:       256,
			LearningRate: 0.001,
			Gamma:        0.9,
			EpsilonStart: 1.0,
			EpsilonDecay: 0.001,
			EpsilonMin:   0.01,
			BatchSize:    1000,
			MemorySize:   100_000,
			ModelPath:    "~/.snakesim/model.json",
		},
		Server: ServerConfig{
			SSHAddr:     ":23234",
			HostKeyPath: ".ssh/snakesim_ed25519",
			GymAddr:     ":8080",
			MaxEnvs:     64,
		},
		Storage: StorageConfig{
			Path: "~/.snakesim/snakesim.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
