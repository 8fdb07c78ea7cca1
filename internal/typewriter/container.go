package typewriter

import (
	"html"
	"strings"
	"sync"
)

// Document resolves target containers by id.
type Document interface {
	Container(id string) (Container, bool)
}

// Container receives revealed text.
type Container interface {
	Reset()
	WriteText(text string)
	// OpenWrapper starts a link element. Link.URL is empty when the token had
	// no registry entry; the text is then styled but not linked.
	OpenWrapper(link Link) Wrapper
}

// Wrapper is an open link element inside a Container.
type Wrapper interface {
	WriteText(text string)
}

// Page is a Document backed by a fixed set of containers.
type Page map[string]Container

// Container implements Document.
func (p Page) Container(id string) (Container, bool) {
	c, ok := p[id]
	if !ok || c == nil {
		return nil, false
	}
	return c, true
}

// Node is one child of a Buffer: a text run, or a wrapper when Link is set.
type Node struct {
	Text string
	Link *Link
}

// Buffer is an in-memory Container. It is safe for concurrent use.
type Buffer struct {
	mu    sync.Mutex
	nodes []Node
	epoch int
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Reset implements Container. Wrappers opened before the reset become inert.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nodes = nil
	b.epoch++
}

// WriteText implements Container.
func (b *Buffer) WriteText(text string) {
	if text == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if n := len(b.nodes); n > 0 && b.nodes[n-1].Link == nil {
		b.nodes[n-1].Text += text
		return
	}
	b.nodes = append(b.nodes, Node{Text: text})
}

// OpenWrapper implements Container.
func (b *Buffer) OpenWrapper(link Link) Wrapper {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := link
	b.nodes = append(b.nodes, Node{Link: &l})
	return &bufferWrapper{buf: b, index: len(b.nodes) - 1, epoch: b.epoch}
}

type bufferWrapper struct {
	buf   *Buffer
	index int
	epoch int
}

func (w *bufferWrapper) WriteText(text string) {
	w.buf.mu.Lock()
	defer w.buf.mu.Unlock()
	if w.epoch != w.buf.epoch || w.index >= len(w.buf.nodes) {
		return
	}
	w.buf.nodes[w.index].Text += text
}

// Nodes returns a snapshot of the buffer contents.
func (b *Buffer) Nodes() []Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Node, len(b.nodes))
	for i, n := range b.nodes {
		out[i] = n
		if n.Link != nil {
			l := *n.Link
			out[i].Link = &l
		}
	}
	return out
}

// Text returns the revealed text without markup.
func (b *Buffer) Text() string {
	var sb strings.Builder
	for _, n := range b.Nodes() {
		sb.WriteString(n.Text)
	}
	return sb.String()
}

// HTML renders the revealed content as escaped markup.
func (b *Buffer) HTML() string {
	var sb strings.Builder
	for _, n := range b.Nodes() {
		if n.Link == nil {
			sb.WriteString(html.EscapeString(n.Text))
			continue
		}
		class := "typed-link"
		if n.Link.Style != "" {
			class += " typed-link--" + html.EscapeString(n.Link.Style)
		}
		if n.Link.URL == "" {
			sb.WriteString(`<span class="` + class + `">`)
			sb.WriteString(html.EscapeString(n.Text))
			sb.WriteString(`</span>`)
			continue
		}
		sb.WriteString(`<a href="` + html.EscapeString(n.Link.URL) + `" class="` + class + `">`)
		sb.WriteString(html.EscapeString(n.Text))
		sb.WriteString(`</a>`)
	}
	return sb.String()
}
