package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/appsimple/internal/showcase"
	"github.com/csheth/appsimple/internal/typewriter"
)

const testText = "Hi AppSimple. Ship it."

func newTestModel(t *testing.T) *model {
	t.Helper()
	opts := typewriter.DefaultOptions()
	opts.Text = testText
	opts.BaseSpeed = time.Millisecond
	opts.InitialDelay = time.Millisecond
	opts.LongPause = time.Millisecond
	opts.ShortPause = time.Millisecond
	opts.WordPauseProbability = 0
	opts.Rand = typewriter.NewRand(3)
	opts.Registry = typewriter.NewRegistry(typewriter.Link{Token: "AppSimple", URL: "https://appsimple.io", Style: "brand"})

	teaModel, ok := New(Config{
		Typing: opts,
		Items: []showcase.Item{
			{Title: "Consulting", Description: "Strategy and delivery."},
			{Title: "Apps", Description: "Mobile and web builds."},
		},
		Stagger: time.Millisecond,
	}).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	return teaModel
}

// drive runs cmd and every command it produces until nothing is left,
// feeding messages back through Update. Caret ticks are dropped so the loop
// terminates.
func drive(t *testing.T, m *model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 10000 {
			t.Fatal("command loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg:
		default:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestTypingRunRevealsTextThenItems(t *testing.T) {
	m := newTestModel(t)
	drive(t, m, m.Init())

	if got := m.buffer.Text(); got != testText {
		t.Fatalf("typed text mismatch: got %q want %q", got, testText)
	}
	if m.completions != 1 {
		t.Fatalf("expected one completion, got %d", m.completions)
	}
	if m.revealed != 2 {
		t.Fatalf("expected both items revealed, got %d", m.revealed)
	}
	if m.animator.State() != typewriter.StateDone {
		t.Fatalf("animator should be done, got %s", m.animator.State())
	}

	view := m.View()
	for _, want := range []string{"AppSimple", "https://appsimple.io", "Consulting", "Apps", "Options 2/2"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestItemsHiddenWhileTyping(t *testing.T) {
	m := newTestModel(t)
	_ = m.Init()
	if view := m.View(); strings.Contains(view, "Consulting") {
		t.Fatalf("items should stay hidden before typing completes:\n%s", view)
	}
	if view := m.View(); strings.Contains(view, "https://appsimple.io") {
		t.Fatalf("footnote should wait until the link is fully typed:\n%s", view)
	}
}

func TestRestartSupersedesPendingRun(t *testing.T) {
	m := newTestModel(t)
	first := m.Init()
	_, second := m.Update(keyPress('r'))
	drive(t, m, tea.Batch(first, second))

	if got := m.buffer.Text(); got != testText {
		t.Fatalf("restart should not duplicate output, got %q", got)
	}
	if m.completions != 1 {
		t.Fatalf("stale run must not complete, got %d completions", m.completions)
	}
	if m.run != 2 {
		t.Fatalf("expected run counter 2, got %d", m.run)
	}
}

func TestSkipCompletesImmediately(t *testing.T) {
	m := newTestModel(t)
	pending := m.Init()
	_, cmd := m.Update(keyPress('s'))

	if got := m.buffer.Text(); got != testText {
		t.Fatalf("skip should reveal everything, got %q", got)
	}
	if m.completions != 1 {
		t.Fatalf("expected completion after skip, got %d", m.completions)
	}
	drive(t, m, tea.Batch(pending, cmd))
	if m.completions != 1 {
		t.Fatalf("pending reveals must not complete again, got %d", m.completions)
	}
	if m.revealed != 2 {
		t.Fatalf("expected items revealed after skip, got %d", m.revealed)
	}
}

func TestRevealFromOldRunIgnored(t *testing.T) {
	m := newTestModel(t)
	_ = m.Init()
	m.Update(revealMsg{run: m.run - 1, index: 1})
	if m.revealed != 0 {
		t.Fatalf("stale reveal applied: %d", m.revealed)
	}
	m.Update(revealMsg{run: m.run, index: 0})
	if m.revealed != 1 {
		t.Fatalf("current reveal not applied: %d", m.revealed)
	}
}

func TestHelpAndQuitKeys(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyPress('?'))
	if !m.helpVisible {
		t.Fatal("? should toggle help on")
	}
	if view := m.View(); !strings.Contains(view, "Restart typing") {
		t.Fatalf("legend missing from view:\n%s", view)
	}

	_, cmd := m.Update(keyPress('q'))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit the program")
	}
}

func TestHyperlinkModeEmitsOSC8(t *testing.T) {
	m := newTestModel(t)
	m.config.Hyperlinks = true
	m.buffer.OpenWrapper(typewriter.Link{Token: "AppSimple", URL: "https://appsimple.io"}).WriteText("AppSimple")

	view := m.heroView()
	if !strings.Contains(view, "\x1b]8;;https://appsimple.io") {
		t.Fatalf("expected OSC 8 hyperlink, got %q", view)
	}
	if m.footnotesView() != "" {
		t.Fatal("footnotes should be omitted when hyperlinks are enabled")
	}
}

func TestSchedulerDrain(t *testing.T) {
	s := newTeaScheduler()
	if s.Drain() != nil {
		t.Fatal("empty drain should return nil")
	}
	s.After(time.Millisecond, func() {})
	s.After(2*time.Millisecond, func() {})
	if s.Len() != 2 {
		t.Fatalf("expected two pending calls, got %d", s.Len())
	}
	if s.Drain() == nil {
		t.Fatal("drain should batch pending calls")
	}
	if s.Len() != 0 {
		t.Fatalf("drain should empty the queue, got %d", s.Len())
	}
}
