package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, expected nil", err)
	}
}

func TestEmbeddedDefaultsMatchDefault(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded YAML failed to parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded YAML = %+v, expected %+v", cfg, Default())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "board:\n  width: 12\n  height: 9\ntrain:\n  gamma: 0.5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) failed: %v", path, err)
	}
	if cfg.Board.Width != 12 || cfg.Board.Height != 9 {
		t.Errorf("board = %+v, expected 12x9", cfg.Board)
	}
	if cfg.Train.Width != 12 || cfg.Train.Height != 12 {
		t.Errorf("train board = %dx%d, expected the 12x12 default", cfg.Train.Width, cfg.Train.Height)
	}
	if cfg.Train.Gamma != 0.5 {
		t.Errorf("train.gamma = %v, expected 0.5", cfg.Train.Gamma)
	}
	// untouched keys keep defaults
	if cfg.Train.BatchSize != Default().Train.BatchSize {
		t.Errorf("train.batch_size = %d, expected default %d", cfg.Train.BatchSize, Default().Train.BatchSize)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(bad, []byte("board: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(invalid, []byte("board:\n  width: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", filepath.Join(dir, "missing.yaml"), "failed to read config"},
		{"malformed yaml", bad, "failed to parse config"},
		{"out of range", invalid, "board.width"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.path)
			if err == nil {
				t.Fatalf("Load(%q) should fail", tc.path)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should contain %q", err, tc.want)
			}
		})
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	// nothing on disk: embedded defaults
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() without files = %+v, expected defaults", cfg)
	}

	// local configs directory
	if err := os.MkdirAll(filepath.Join(work, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(work, "configs", "snakesim.yaml"), []byte("board:\n  width: 15\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ = Load("")
	if cfg.Board.Width != 15 {
		t.Errorf("local config width = %d, expected 15", cfg.Board.Width)
	}

	// user directory wins over local
	if err := os.MkdirAll(filepath.Join(home, ".snakesim"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(home, ".snakesim", "config.yaml"), []byte("board:\n  width: 21\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ = Load("")
	if cfg.Board.Width != 21 {
		t.Errorf("user config width = %d, expected 21", cfg.Board.Width)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Board.Width = 0 }, "board.width"},
		{"zero train height", func(c *Config) { c.Train.Height = 0 }, "train.height"},
		{"zero tick rate", func(c *Config) { c.Play.TickRate = 0 }, "play.tick_rate"},
		{"negative learning rate", func(c *Config) { c.Train.LearningRate = -0.1 }, "train.learning_rate"},
		{"gamma above one", func(c *Config) { c.Train.Gamma = 1.5 }, "train.gamma"},
		{"epsilon below zero", func(c *Config) { c.Train.EpsilonStart = -0.2 }, "train.epsilon_start"},
		{"zero batch", func(c *Config) { c.Train.BatchSize = 0 }, "train.batch_size"},
		{"zero memory", func(c *Config) { c.Train.MemorySize = 0 }, "train.memory_size"},
		{"zero envs", func(c *Config) { c.Server.MaxEnvs = 0 }, "server.max_envs"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Validate() = %q, expected mention of %q", err, tc.want)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in, want string
	}{
		{"~/.snakesim/x.db", filepath.Join(home, ".snakesim/x.db")},
		{"/tmp/x.db", "/tmp/x.db"},
		{"relative.db", "relative.db"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := ExpandHome(tc.in); got != tc.want {
			t.Errorf("ExpandHome(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}
