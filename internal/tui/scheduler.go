package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// timerFiredMsg carries an animator callback back into the update loop so
// every reveal runs on the program goroutine.
type timerFiredMsg struct {
	fn func()
}

type scheduledCall struct {
	delay time.Duration
	fn    func()
}

// teaScheduler queues animator callbacks until the next Drain turns them
// into tea.Tick commands.
type teaScheduler struct {
	mu      sync.Mutex
	pending []scheduledCall
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{}
}

func (s *teaScheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, scheduledCall{delay: d, fn: fn})
}

func (s *teaScheduler) Drain() tea.Cmd {
	s.mu.Lock()
	calls := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(calls) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(calls))
	for _, call := range calls {
		fn := call.fn
		cmds = append(cmds, tea.Tick(call.delay, func(time.Time) tea.Msg {
			return timerFiredMsg{fn: fn}
		}))
	}
	return tea.Batch(cmds...)
}

func (s *teaScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
