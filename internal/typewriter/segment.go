package typewriter

import "strings"

// Segment is a contiguous run of the source text. Special segments are exact
// occurrences of a registry token; the rest is ordinary text split at
// sentence boundaries.
type Segment struct {
	Text          string `json:"text"`
	Special       bool   `json:"special,omitempty"`
	EndOfSentence bool   `json:"endOfSentence,omitempty"`
}

const sentenceTerminators = ".?!"

// Split segments text, isolating every occurrence of the given special
// strings. Concatenating the Text of the result always reproduces text.
func Split(text string, specials []string) []Segment {
	var segments []Segment
	emit := func(seg Segment) {
		if seg.Text != "" {
			segments = append(segments, seg)
		}
	}

	pos := 0
	for pos < len(text) {
		rest := text[pos:]
		specialAt, specialLen := nextSpecial(rest, specials)
		termAt := strings.IndexAny(rest, sentenceTerminators)

		switch {
		case specialAt >= 0 && (termAt < 0 || specialAt <= termAt):
			emit(Segment{Text: rest[:specialAt]})
			emit(Segment{Text: rest[specialAt : specialAt+specialLen], Special: true})
			pos += specialAt + specialLen
		case termAt >= 0:
			// The terminator run and its trailing space stop where a
			// special begins.
			end := termAt + 1
			for end < len(rest) && strings.IndexByte(sentenceTerminators, rest[end]) >= 0 && !specialStarts(rest[end:], specials) {
				end++
			}
			if end < len(rest) && rest[end] == ' ' && !specialStarts(rest[end:], specials) {
				end++
			}
			emit(Segment{Text: rest[:end], EndOfSentence: true})
			pos += end
		default:
			emit(Segment{Text: rest})
			pos = len(text)
		}
	}
	return segments
}

// nextSpecial returns the byte offset and length of the earliest special
// occurrence in s. The longest token wins when several start at the same
// offset.
func nextSpecial(s string, specials []string) (int, int) {
	at, length := -1, 0
	for _, token := range specials {
		if token == "" {
			continue
		}
		idx := strings.Index(s, token)
		if idx < 0 {
			continue
		}
		if at < 0 || idx < at || (idx == at && len(token) > length) {
			at, length = idx, len(token)
		}
	}
	return at, length
}

func specialStarts(s string, specials []string) bool {
	for _, token := range specials {
		if token != "" && strings.HasPrefix(s, token) {
			return true
		}
	}
	return false
}

// Join concatenates segment texts in order.
func Join(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}
