package typewriter

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler schedules callbacks on runtime timers. Callbacks run on
// their own goroutine.
type TimerScheduler struct{}

// After implements Scheduler.
func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// ManualScheduler is a virtual clock. Nothing runs until Advance or RunAll is
// called, which makes animations deterministic in tests and lets callers
// compute a full reveal without waiting.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []manualTask
}

type manualTask struct {
	at  time.Duration
	seq int
	fn  func()
}

// After implements Scheduler.
func (s *ManualScheduler) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.tasks = append(s.tasks, manualTask{at: s.now + d, seq: s.seq, fn: fn})
}

// Now reports the virtual time elapsed.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending reports how many callbacks are waiting.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Advance moves the clock forward by d, running every callback that comes
// due, including ones scheduled by earlier callbacks within the window.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	ran := 0
	for {
		task, ok := s.pop(target)
		if !ok {
			break
		}
		task.fn()
		ran++
	}

	s.mu.Lock()
	if s.now < target {
		s.now = target
	}
	s.mu.Unlock()
	return ran
}

// RunAll drains the queue, jumping the clock to each callback in turn. It
// stops after limit callbacks when limit is positive.
func (s *ManualScheduler) RunAll(limit int) int {
	ran := 0
	for limit <= 0 || ran < limit {
		task, ok := s.pop(-1)
		if !ok {
			break
		}
		task.fn()
		ran++
	}
	return ran
}

// pop removes the earliest task due at or before until; a negative until
// accepts any task.
func (s *ManualScheduler) pop(until time.Duration) (manualTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tasks) == 0 {
		return manualTask{}, false
	}
	sort.Slice(s.tasks, func(i, j int) bool {
		if s.tasks[i].at == s.tasks[j].at {
			return s.tasks[i].seq < s.tasks[j].seq
		}
		return s.tasks[i].at < s.tasks[j].at
	})
	next := s.tasks[0]
	if until >= 0 && next.at > until {
		return manualTask{}, false
	}
	s.tasks = s.tasks[1:]
	if next.at > s.now {
		s.now = next.at
	}
	return next, true
}
