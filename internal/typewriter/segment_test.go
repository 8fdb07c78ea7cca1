package typewriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIsolatesSpecialTokens(t *testing.T) {
	got := Split("Hi AppSimple.", []string{"AppSimple"})
	want := []Segment{
		{Text: "Hi "},
		{Text: "AppSimple", Special: true},
		{Text: ".", EndOfSentence: true},
	}
	assert.Equal(t, want, got)
}

func TestSplitSentenceBoundaries(t *testing.T) {
	got := Split("A. B.", nil)
	want := []Segment{
		{Text: "A. ", EndOfSentence: true},
		{Text: "B.", EndOfSentence: true},
	}
	assert.Equal(t, want, got)
}

func TestSplitCases(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		specials []string
		want     []Segment
	}{
		{name: "empty", text: "", want: nil},
		{name: "plain tail", text: "no terminator here", want: []Segment{{Text: "no terminator here"}}},
		{
			name: "question and exclamation",
			text: "Why? Because! Done",
			want: []Segment{
				{Text: "Why? ", EndOfSentence: true},
				{Text: "Because! ", EndOfSentence: true},
				{Text: "Done"},
			},
		},
		{
			name: "ellipsis stays together",
			text: "Wait... ok",
			want: []Segment{
				{Text: "Wait... ", EndOfSentence: true},
				{Text: "ok"},
			},
		},
		{
			name:     "special at start",
			text:     "AppSimple builds apps.",
			specials: []string{"AppSimple"},
			want: []Segment{
				{Text: "AppSimple", Special: true},
				{Text: " builds apps.", EndOfSentence: true},
			},
		},
		{
			name:     "special containing a terminator",
			text:     "Visit appsimple.io today.",
			specials: []string{"appsimple.io"},
			want: []Segment{
				{Text: "Visit "},
				{Text: "appsimple.io", Special: true},
				{Text: " today.", EndOfSentence: true},
			},
		},
		{
			name:     "longest token wins at the same offset",
			text:     "Meet AppSimple Labs.",
			specials: []string{"AppSimple", "AppSimple Labs"},
			want: []Segment{
				{Text: "Meet "},
				{Text: "AppSimple Labs", Special: true},
				{Text: ".", EndOfSentence: true},
			},
		},
		{
			name:     "adjacent specials",
			text:     "AB",
			specials: []string{"A", "B"},
			want: []Segment{
				{Text: "A", Special: true},
				{Text: "B", Special: true},
			},
		},
		{
			name:     "special starting inside a terminator run",
			text:     "Hi..io now",
			specials: []string{".io"},
			want: []Segment{
				{Text: "Hi.", EndOfSentence: true},
				{Text: ".io", Special: true},
				{Text: " now"},
			},
		},
		{
			name:     "special starting on the second terminator",
			text:     "Wait!?Go",
			specials: []string{"?Go"},
			want: []Segment{
				{Text: "Wait!", EndOfSentence: true},
				{Text: "?Go", Special: true},
			},
		},
		{
			name:     "special starting on the absorbed space",
			text:     "Hi. Go there",
			specials: []string{" Go"},
			want: []Segment{
				{Text: "Hi.", EndOfSentence: true},
				{Text: " Go", Special: true},
				{Text: " there"},
			},
		},
		{
			name:     "empty special ignored",
			text:     "Hello.",
			specials: []string{""},
			want:     []Segment{{Text: "Hello.", EndOfSentence: true}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Split(tc.text, tc.specials))
		})
	}
}

func TestSplitRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"Integrating AI into your business processes.",
		"Hi AppSimple. AppSimple? AppSimple!AppSimple",
		"...!!??",
		"Ünïcödé text. With AppSimple and émojis 🚀!",
		"trailing space. ",
		"AppSimpleAppSimple",
	}
	specialSets := [][]string{nil, {"AppSimple"}, {"AppSimple", "Simple", "."}, {"e", ""}}
	for _, in := range inputs {
		for _, specials := range specialSets {
			segments := Split(in, specials)
			require.Equal(t, in, Join(segments), "specials=%q", specials)
			for _, seg := range segments {
				require.NotEmpty(t, seg.Text, "input=%q specials=%q", in, specials)
			}
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := "We build with AppSimple. Fast? Yes!"
	first := Split(text, []string{"AppSimple"})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Split(text, []string{"AppSimple"}))
	}
}

func TestRegistryOrderAndReplace(t *testing.T) {
	reg := NewRegistry(
		Link{Token: "B", URL: "https://b.example"},
		Link{Token: "A", URL: "https://a.example"},
		Link{Token: "B", URL: "https://b2.example"},
		Link{Token: ""},
	)
	assert.Equal(t, []string{"B", "A"}, reg.Tokens())
	link, ok := reg.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, "https://b2.example", link.URL)
	_, ok = reg.Lookup("C")
	assert.False(t, ok)

	var nilReg *Registry
	_, ok = nilReg.Lookup("A")
	assert.False(t, ok)
	assert.Zero(t, nilReg.Len())
}
