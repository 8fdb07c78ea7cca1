package typewriter

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"
)

const (
	punctuation       = ".,:;!?"
	punctuationFactor = 1.2
	longWordFactor    = 0.85
	longWordMinRunes  = 5
	longWordMinDepth  = 4
)

// Rand is the randomness source for delay jitter. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Options configures one animator instance.
type Options struct {
	Text   string
	Target string

	BaseSpeed            time.Duration
	SpeedVariation       float64
	InitialDelay         time.Duration
	LongPause            time.Duration
	ShortPause           time.Duration
	WordPauseProbability float64
	Thinking             [2]time.Duration

	// Registry defaults to DefaultRegistry when nil.
	Registry *Registry
	// OnComplete runs once after the last character of a run is revealed.
	OnComplete func()

	Rand      Rand
	Scheduler Scheduler
}

// DefaultOptions returns the stock timing used by the hero animation.
func DefaultOptions() Options {
	return Options{
		Target:               "typing-text",
		BaseSpeed:            70 * time.Millisecond,
		SpeedVariation:       0.3,
		InitialDelay:         time.Second,
		LongPause:            700 * time.Millisecond,
		ShortPause:           250 * time.Millisecond,
		WordPauseProbability: 0.1,
		Thinking:             [2]time.Duration{200 * time.Millisecond, 600 * time.Millisecond},
	}
}

func (o Options) registry() *Registry {
	if o.Registry == nil {
		return DefaultRegistry()
	}
	return o.Registry
}

func (o Options) rand() Rand {
	if o.Rand == nil {
		return globalRand{}
	}
	return o.Rand
}

// CharDelay returns how long to wait after revealing runes[idx].
func CharDelay(o Options, runes []rune, idx int, rnd Rand) time.Duration {
	if idx < 0 || idx >= len(runes) {
		return o.BaseSpeed
	}
	base := float64(o.BaseSpeed)
	ch := runes[idx]
	switch {
	case strings.ContainsRune(punctuation, ch):
		return time.Duration(math.Round(base * punctuationFactor))
	case ch == ' ':
		delay := o.BaseSpeed
		if o.WordPauseProbability > 0 && rnd.Float64() < o.WordPauseProbability {
			delay += thinkingPause(o.Thinking, rnd)
		}
		return delay
	}
	jitter := 1 - o.SpeedVariation/2 + rnd.Float64()*o.SpeedVariation
	speed := base * jitter
	if depth, length := wordPosition(runes, idx); length >= longWordMinRunes && depth >= longWordMinDepth {
		speed *= longWordFactor
	}
	return time.Duration(math.Round(speed))
}

func thinkingPause(bounds [2]time.Duration, rnd Rand) time.Duration {
	lo, hi := bounds[0], bounds[1]
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(math.Round(rnd.Float64()*float64(hi-lo)))
}

// wordPosition reports the 1-based position of runes[idx] inside its word
// and the word length in runes.
func wordPosition(runes []rune, idx int) (int, int) {
	start := idx
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	end := idx
	for end < len(runes) && !unicode.IsSpace(runes[end]) {
		end++
	}
	return idx - start + 1, end - start
}

// SegmentPause is the extra wait after segments[i] has been fully typed.
func SegmentPause(o Options, segments []Segment, i int) time.Duration {
	if i < 0 || i >= len(segments) {
		return 0
	}
	switch {
	case segments[i].EndOfSentence:
		return o.LongPause
	case segments[i].Special:
		return o.ShortPause
	case i+1 < len(segments) && segments[i+1].Special:
		return o.ShortPause
	}
	return 0
}
