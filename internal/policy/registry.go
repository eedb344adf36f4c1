// Package policy provides a global registry of automatic snake drivers.
// Policies register themselves in init() functions, allowing the CLI, the
// terminal UI and the SSH server to pick a driver by name.
package policy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/snakesim/internal/games/snake"
)

// Policy chooses a relative turn from an observation.
// Policies see only the encoded observation, never the game itself.
type Policy interface {
	// ID returns a unique identifier (e.g., "greedy", "qnet").
	// Used for CLI flags and episode storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Decide picks the turn to apply before the next step.
	Decide(obs snake.Observation) snake.Turn
}

// Options configure a policy instance.
type Options struct {
	Seed      uint64 // random source for stochastic policies
	ModelPath string // network file for learned policies
}

// Info contains metadata about a registered policy.
type Info struct {
	ID          string
	Title       string
	Description string
}

// Factory creates a new instance of a policy.
type Factory func(opts Options) (Policy, error)

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
	mu        sync.RWMutex
)

// Register adds a policy factory to the registry.
// Panics if a policy with the same ID is already registered.
func Register(info Info, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[info.ID]; exists {
		panic(fmt.Sprintf("policy: %q already registered", info.ID))
	}

	factories[info.ID] = f
	infos[info.ID] = info
}

// List returns information about all registered policies, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new policy by its ID.
// Returns an error if the ID is not registered or the factory fails.
func Create(id string, opts Options) (Policy, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("policy: unknown policy %q", id)
	}

	p, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("policy: cannot create %q: %w", id, err)
	}
	return p, nil
}

// Exists checks if a policy with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
