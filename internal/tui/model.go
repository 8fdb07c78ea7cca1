package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/appsimple/internal/showcase"
	"github.com/csheth/appsimple/internal/typewriter"
)

// Config wires runtime options into the preview program.
type Config struct {
	Typing typewriter.Options
	Items  []showcase.Item
	// Stagger spaces out the item reveal after typing completes.
	Stagger time.Duration
	// Hyperlinks emits OSC 8 links instead of footnoted styled text.
	Hyperlinks bool
	Logger     *zap.Logger
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	caret := spinner.New()
	caret.Spinner = spinner.Spinner{Frames: []string{"▌", " "}, FPS: time.Second / 2}
	caret.Style = caretStyle

	m := &model{
		config: config,
		buffer: typewriter.NewBuffer(),
		sched:  newTeaScheduler(),
		caret:  caret,
		layout: newPageLayout(),
		logger: config.Logger,
	}

	opts := config.Typing
	if opts.Target == "" {
		opts.Target = typewriter.DefaultOptions().Target
	}
	opts.Scheduler = m.sched
	opts.OnComplete = m.onTypingComplete
	m.animator = typewriter.New(typewriter.Page{opts.Target: m.buffer}, opts)
	return m
}

type model struct {
	config   Config
	buffer   *typewriter.Buffer
	sched    *teaScheduler
	animator *typewriter.Animator
	caret    spinner.Model
	layout   pageLayout
	logger   *zap.Logger

	run           int
	justCompleted bool
	completions   int
	revealed      int
	helpVisible   bool
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.start(), m.caret.Tick)
}

// start begins a new run; reveal messages from older runs are ignored.
func (m *model) start() tea.Cmd {
	m.run++
	m.revealed = 0
	m.justCompleted = false
	m.animator.Restart()
	m.logger.Debug("typing run started", zap.Int("run", m.run))
	return m.sched.Drain()
}

func (m *model) onTypingComplete() {
	m.justCompleted = true
	m.completions++
	m.logger.Info("typing complete",
		zap.Int("run", m.run),
		zap.Int("items", len(m.config.Items)),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.caret, cmd = m.caret.Update(msg)
		return m, cmd
	case timerFiredMsg:
		msg.fn()
		return m, m.afterStep()
	case revealMsg:
		if msg.run != m.run {
			return m, nil
		}
		if msg.index+1 > m.revealed {
			m.revealed = msg.index + 1
			m.logger.Debug("option revealed", zap.Int("index", msg.index))
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "r":
		return m, m.start()
	case "s":
		m.animator.Finish()
		return m, m.afterStep()
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	}
	return m, nil
}

// afterStep schedules whatever the animator queued and, once typing has just
// finished, the staggered item reveal.
func (m *model) afterStep() tea.Cmd {
	cmds := []tea.Cmd{m.sched.Drain()}
	if m.justCompleted {
		m.justCompleted = false
		cmds = append(cmds, m.revealCmds()...)
	}
	return tea.Batch(cmds...)
}

func (m *model) revealCmds() []tea.Cmd {
	delays := showcase.Delays(len(m.config.Items), m.config.Stagger)
	cmds := make([]tea.Cmd, 0, len(delays))
	run := m.run
	for i, d := range delays {
		index := i
		cmds = append(cmds, tea.Tick(d, func(time.Time) tea.Msg {
			return revealMsg{run: run, index: index}
		}))
	}
	return cmds
}
