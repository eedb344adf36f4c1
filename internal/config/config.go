// Package config provides YAML-based configuration loading for the snake
// simulator, its trainer and its servers.
package config

// Config is the complete runtime configuration.
type Config struct {
	Board   BoardConfig   `yaml:"board"`
	Play    PlayConfig    `yaml:"play"`
	Train   TrainConfig   `yaml:"train"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// BoardConfig defines the grid dimensions in cells.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PlayConfig defines interactive play parameters.
type PlayConfig struct {
	Policy    string `yaml:"policy"`     // "human" or a registered policy id
	TickRate  int    `yaml:"tick_rate"`  // Steps per second
	ModelPath string `yaml:"model_path"` // Q-network used by the qnet policy
	ReplayDir string `yaml:"replay_dir"` // Empty disables replay recording
}

// TrainConfig defines the Q-learning hyperparameters.
type TrainConfig struct {
	// Training board, independent of the play board.
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Episodes     int     `yaml:"episodes"`
	Hidden       int     `yaml:"hidden"`
	LearningRate float64 `yaml:"learning_rate"`
	Gamma        float64 `yaml:"gamma"`
	EpsilonStart float64 `yaml:"epsilon_start"`
	EpsilonDecay float64 `yaml:"epsilon_decay"` // Subtracted after every episode
	EpsilonMin   float64 `yaml:"epsilon_min"`
	BatchSize    int     `yaml:"batch_size"`
	MemorySize   int     `yaml:"memory_size"`
	ModelPath    string  `yaml:"model_path"`
}

// ServerConfig defines the SSH and gym listeners.
type ServerConfig struct {
	SSHAddr     string `yaml:"ssh_addr"`
	HostKeyPath string `yaml:"host_key_path"`
	GymAddr     string `yaml:"gym_addr"`
	MaxEnvs     int    `yaml:"max_envs"` // Upper bound on concurrent gym environments
}

// StorageConfig defines where episodes are persisted.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
