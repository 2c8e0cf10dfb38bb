// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, so the platform can
// discover and instantiate them without hardcoded dependencies.
package registry

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/chroma-arcade/internal/core"
)

// Game is the interface every arcade game implements.
// Games contain pure logic with no Bubble Tea dependency; the platform
// handles input mapping, timing and rendering.
type Game interface {
	// ID returns a unique identifier used by CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes or resets the game state.
	// Called once at start and again when restarting after game over.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one platform tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the pre-cleared screen.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

// Control describes one input binding for help screens.
type Control struct {
	Keys   string
	Action string
}

// Documented is implemented by games that publish their controls.
type Documented interface {
	Controls() []Control
}

// Autopiloted is implemented by games that can play themselves.
type Autopiloted interface {
	SetAutopilot(on bool)
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID       string
	Title    string
	Controls []Control
}

// Factory creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f

	g := f()
	info := GameInfo{ID: id, Title: g.Title()}
	if d, ok := g.(Documented); ok {
		info.Controls = d.Controls()
	}
	infos[id] = info
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}
	slices.SortFunc(result, func(a, b GameInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return result
}

// Info returns the metadata of a registered game.
func Info(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	info, ok := infos[id]
	return info, ok
}

// Create instantiates a new game by its ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// unregister removes a game. Only used by tests.
func unregister(id string) {
	mu.Lock()
	defer mu.Unlock()

	delete(factories, id)
	delete(infos, id)
}
