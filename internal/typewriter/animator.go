package typewriter

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// State is the position of an animator in its reveal cycle.
type State int

const (
	StateIdle State = iota
	StateDelaying
	StateTyping
	StatePausing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDelaying:
		return "delaying"
	case StateTyping:
		return "typing"
	case StatePausing:
		return "pausing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Animator reveals configured text into one container, one character per
// scheduled callback. Each run is tagged with a generation; callbacks from a
// superseded run do nothing.
type Animator struct {
	mu       sync.Mutex
	opts     Options
	target   Container
	registry *Registry
	rand     Rand
	sched    Scheduler

	gen      uint64
	state    State
	segments []Segment
	seg      int
	char     int
	runes    []rune
	chars    []string
	wrapper  Wrapper
}

// New binds an animator to the container named by opts.Target. When the
// document has no such container the animator is inert.
func New(doc Document, opts Options) *Animator {
	a := &Animator{
		opts:     opts,
		registry: opts.registry(),
		rand:     opts.rand(),
		sched:    opts.Scheduler,
	}
	if a.sched == nil {
		a.sched = TimerScheduler{}
	}
	if doc != nil {
		if c, ok := doc.Container(opts.Target); ok {
			a.target = c
		}
	}
	return a
}

// Start begins a run. Calling it on a running animator restarts it.
func (a *Animator) Start() {
	a.Restart()
}

// Restart clears the target, recomputes the segments and schedules the
// first character after the initial delay. Pending callbacks of the previous
// run are abandoned.
func (a *Animator) Restart() {
	a.mu.Lock()
	if a.target == nil {
		a.mu.Unlock()
		return
	}
	a.gen++
	gen := a.gen
	a.target.Reset()
	a.segments = Split(a.opts.Text, a.registry.Tokens())
	a.seg, a.char = 0, 0
	a.runes, a.chars = nil, nil
	a.wrapper = nil
	a.state = StateDelaying
	delay := a.opts.InitialDelay
	a.mu.Unlock()

	a.sched.After(delay, func() { a.step(gen) })
}

// Stop abandons the current run, leaving revealed text in place.
func (a *Animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.state = StateIdle
	a.wrapper = nil
}

// Finish reveals the rest of the current run at once and completes it.
func (a *Animator) Finish() {
	a.mu.Lock()
	if a.target == nil || a.state == StateIdle || a.state == StateDone {
		a.mu.Unlock()
		return
	}
	a.gen++
	for a.seg < len(a.segments) {
		seg := a.segments[a.seg]
		if a.char == 0 {
			a.runes, a.chars = splitChars(seg.Text)
			a.wrapper = a.openWrapper(seg)
		}
		a.write(strings.Join(a.chars[a.char:], ""))
		a.seg++
		a.char = 0
		a.wrapper = nil
	}
	done := a.complete()
	a.mu.Unlock()
	done()
}

// State reports the current state.
func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Segments returns the segments of the current run.
func (a *Animator) Segments() []Segment {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Segment(nil), a.segments...)
}

// Attached reports whether the target container was found.
func (a *Animator) Attached() bool {
	return a.target != nil
}

func (a *Animator) step(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || a.state == StateIdle || a.state == StateDone {
		a.mu.Unlock()
		return
	}
	if a.seg >= len(a.segments) {
		done := a.complete()
		a.mu.Unlock()
		done()
		return
	}

	a.state = StateTyping
	seg := a.segments[a.seg]
	if a.char == 0 {
		a.runes, a.chars = splitChars(seg.Text)
		a.wrapper = a.openWrapper(seg)
	}
	a.write(a.chars[a.char])
	delay := CharDelay(a.opts, a.runes, a.char, a.rand)
	a.char++

	if a.char >= len(a.runes) {
		if a.seg == len(a.segments)-1 {
			a.seg++
			a.wrapper = nil
			done := a.complete()
			a.mu.Unlock()
			done()
			return
		}
		delay += SegmentPause(a.opts, a.segments, a.seg)
		a.seg++
		a.char = 0
		a.wrapper = nil
		a.state = StatePausing
	}
	a.mu.Unlock()

	a.sched.After(delay, func() { a.step(gen) })
}

// splitChars decodes s rune by rune and keeps the source bytes of each
// rune, so invalid UTF-8 is revealed unchanged.
func splitChars(s string) ([]rune, []string) {
	runes := make([]rune, 0, len(s))
	chars := make([]string, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		runes = append(runes, r)
		chars = append(chars, s[i:i+size])
		i += size
	}
	return runes, chars
}

func (a *Animator) openWrapper(seg Segment) Wrapper {
	if !seg.Special {
		return nil
	}
	return a.target.OpenWrapper(resolveLink(a.registry, seg.Text))
}

func (a *Animator) write(text string) {
	if a.wrapper != nil {
		a.wrapper.WriteText(text)
		return
	}
	a.target.WriteText(text)
}

// complete moves to StateDone and returns the callback to run once the lock
// is released.
func (a *Animator) complete() func() {
	a.state = StateDone
	if cb := a.opts.OnComplete; cb != nil {
		return cb
	}
	return func() {}
}

// resolveLink returns the registry entry for token, or an unlinked
// placeholder carrying the token when none exists.
func resolveLink(reg *Registry, token string) Link {
	if link, ok := reg.Lookup(token); ok {
		return link
	}
	return Link{Token: token, Style: "special"}
}

// Render writes every segment into c at once.
func Render(c Container, segments []Segment, reg *Registry) {
	c.Reset()
	for _, seg := range segments {
		if seg.Special {
			c.OpenWrapper(resolveLink(reg, seg.Text)).WriteText(seg.Text)
			continue
		}
		c.WriteText(seg.Text)
	}
}

// PlannedSegment is a segment with its precomputed reveal schedule.
type PlannedSegment struct {
	Segment
	Link     *Link `json:"link,omitempty"`
	DelaysMS []int `json:"delaysMs"`
	PauseMS  int   `json:"pauseMs"`
}

// Plan computes the full reveal schedule for opts without running it.
func Plan(opts Options) []PlannedSegment {
	reg := opts.registry()
	rnd := opts.rand()
	segments := Split(opts.Text, reg.Tokens())
	plan := make([]PlannedSegment, 0, len(segments))
	for i, seg := range segments {
		runes, _ := splitChars(seg.Text)
		ps := PlannedSegment{Segment: seg, DelaysMS: make([]int, len(runes))}
		if seg.Special {
			link := resolveLink(reg, seg.Text)
			ps.Link = &link
		}
		for j := range runes {
			ps.DelaysMS[j] = millis(CharDelay(opts, runes, j, rnd))
		}
		if i < len(segments)-1 {
			ps.PauseMS = millis(SegmentPause(opts, segments, i))
		}
		plan = append(plan, ps)
	}
	return plan
}

func millis(d time.Duration) int {
	return int(d / time.Millisecond)
}
