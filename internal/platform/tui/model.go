package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakesim/internal/core"
	"github.com/vovakirdan/snakesim/internal/games/snake"
	"github.com/vovakirdan/snakesim/internal/policy"
	"github.com/vovakirdan/snakesim/internal/storage"
)

// HumanDriver is the driver id for keyboard control.
const HumanDriver = "human"

// EpisodeRecorder persists finished episodes. *storage.Store satisfies it.
type EpisodeRecorder interface {
	SaveEpisode(e storage.Episode) (int64, error)
}

// Options configure a game model.
type Options struct {
	Runtime   core.RuntimeConfig
	Policy    policy.Policy   // nil means keyboard control
	Recorder  EpisodeRecorder // optional
	ReplayDir string          // optional; a replay is written per episode
	Logger    *log.Logger
	// Embedded makes Back return to the caller instead of quitting.
	Embedded bool
}

// Model is the Bubble Tea model for one snake session. Episodes restart in
// place, each with a fresh seed.
type Model struct {
	opts       Options
	game       *snake.Game
	replay     *snake.Replay
	screen     *core.Screen
	keys       *KeyMapper
	inputFrame core.InputFrame
	seed       uint64
	reward     int
	paused     bool
	quitting   bool
	backToMenu bool
	recorded   bool // whether the current episode has been saved
}

// NewModel creates a model and starts the first episode.
// A zero Runtime.Seed picks a time-based seed.
func NewModel(opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	m := Model{
		opts:       opts,
		screen:     core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		keys:       NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
	if err := m.startEpisode(opts.Runtime.Seed); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Driver returns the id of whoever steers the snake.
func (m Model) Driver() string {
	if m.opts.Policy == nil {
		return HumanDriver
	}
	return m.opts.Policy.ID()
}

// Game exposes the running game for inspection.
func (m Model) Game() *snake.Game {
	return m.game
}

// Paused reports whether the simulation is paused.
func (m Model) Paused() bool {
	return m.paused
}

func (m *Model) startEpisode(seed uint64) error {
	if seed == 0 {
		seed = newSeed()
	}
	g, err := snake.NewSeeded(m.opts.Runtime.BoardW, m.opts.Runtime.BoardH, seed)
	if err != nil {
		return err
	}
	if err := g.Start(); err != nil {
		return err
	}
	m.game = g
	m.seed = seed
	m.replay = snake.NewReplay(seed, m.opts.Runtime.BoardW, m.opts.Runtime.BoardH)
	m.reward = 0
	m.recorded = false
	m.paused = false
	return nil
}

func newSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input. Actions are buffered until the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		if path, err := m.saveScreenshot(); err != nil {
			m.opts.Logger.Warn("screenshot failed", "err", err)
		} else {
			m.opts.Logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		if m.opts.Embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case core.ActionNone:
		return m, nil
	}

	// Keyboard steering has no effect while a policy drives.
	if action.IsSteering() && m.opts.Policy != nil {
		return m, nil
	}
	m.inputFrame.Set(action)
	return m, nil
}

// handleTick applies buffered input and advances the game by one step.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.tick()
	m.inputFrame.Clear()
	return m, tickCmd(m.opts.Runtime.TickRate)
}

func (m *Model) tick() {
	if m.inputFrame.Has(core.ActionRestart) && m.game.State() == snake.StateTerminated {
		if err := m.startEpisode(0); err != nil {
			m.opts.Logger.Error("restart failed", "err", err)
		}
		return
	}
	if m.inputFrame.Has(core.ActionPause) && m.game.State() == snake.StateRunning {
		m.paused = !m.paused
	}
	if m.paused || m.game.State() != snake.StateRunning {
		return
	}

	if err := m.steer(); err != nil {
		m.opts.Logger.Error("observation failed", "err", err)
		return
	}

	res, err := m.game.Step()
	if err != nil {
		m.opts.Logger.Error("step failed", "err", err)
		return
	}
	m.reward += res.Reward
	if res.Terminal {
		m.finishEpisode(res)
	}
}

// steer applies either the policy decision or the last keyboard steering
// action, and records it in the replay.
func (m *Model) steer() error {
	if m.opts.Policy != nil {
		obs, err := m.game.Observation()
		if err != nil {
			return err
		}
		t := m.opts.Policy.Decide(obs)
		m.game.SetRelativeTurn(t)
		m.replay.RecordTurn(t)
		return nil
	}

	switch m.inputFrame.Last {
	case core.ActionUp:
		m.setHeading(snake.HeadingUp)
	case core.ActionDown:
		m.setHeading(snake.HeadingDown)
	case core.ActionLeft:
		m.setHeading(snake.HeadingLeft)
	case core.ActionRight:
		m.setHeading(snake.HeadingRight)
	case core.ActionTurnLeft:
		m.game.SetRelativeTurn(snake.TurnLeft)
		m.replay.RecordTurn(snake.TurnLeft)
	case core.ActionTurnRight:
		m.game.SetRelativeTurn(snake.TurnRight)
		m.replay.RecordTurn(snake.TurnRight)
	default:
		m.replay.RecordTurn(snake.TurnStraight)
	}
	return nil
}

func (m *Model) setHeading(h snake.Heading) {
	m.game.SetAbsoluteHeading(h)
	m.replay.RecordHeading(h)
}

// finishEpisode stores the episode and its replay once per game over.
func (m *Model) finishEpisode(res snake.StepResult) {
	if m.recorded {
		return
	}
	m.recorded = true
	m.replay.SetFinal(res)

	logger := m.opts.Logger.With("driver", m.Driver(), "seed", m.seed)
	logger.Info("episode finished", "score", res.Score, "death", m.game.Death(), "ticks", m.game.Age())

	if m.opts.Recorder != nil {
		_, err := m.opts.Recorder.SaveEpisode(storage.Episode{
			Policy: m.Driver(),
			Seed:   m.seed,
			Score:  res.Score,
			Reward: m.reward,
			Ticks:  m.game.Age(),
			Death:  m.game.Death().String(),
			Width:  m.opts.Runtime.BoardW,
			Height: m.opts.Runtime.BoardH,
		})
		if err != nil {
			logger.Warn("cannot record episode", "err", err)
		}
	}

	if m.opts.ReplayDir != "" {
		name := fmt.Sprintf("%s_%d.json", m.Driver(), m.seed)
		if err := m.replay.Save(filepath.Join(m.opts.ReplayDir, name)); err != nil {
			logger.Warn("cannot save replay", "err", err)
		}
	}
}

// saveScreenshot writes the current frame to ~/.snakesim/screenshots.
func (m *Model) saveScreenshot() (string, error) {
	m.draw()

	dir := filepath.Join(os.Getenv("HOME"), ".snakesim", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.Driver(), timestamp))
	return path, os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

func (m *Model) draw() {
	snake.Render(m.game, m.screen, m.Driver())
	if m.paused {
		m.screen.DrawTextCentered(m.screen.Height()/2, " PAUSED - P to resume ")
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a standalone Bubble Tea program with a new model.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}
