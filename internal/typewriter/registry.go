package typewriter

// Link is the hyperlink target for a special token. Style is a free-form hint
// the renderer maps to a class name or terminal style.
type Link struct {
	Token string `json:"token" yaml:"token"`
	URL   string `json:"url" yaml:"url"`
	Style string `json:"style,omitempty" yaml:"style"`
}

// Registry is an ordered token to Link mapping. The zero value is empty and
// ready to use.
type Registry struct {
	links []Link
	index map[string]int
}

// NewRegistry builds a registry. A later link with the same token replaces
// the earlier one in place.
func NewRegistry(links ...Link) *Registry {
	r := &Registry{}
	for _, link := range links {
		r.Add(link)
	}
	return r
}

// Add registers or replaces a link. Empty tokens are ignored.
func (r *Registry) Add(link Link) {
	if link.Token == "" {
		return
	}
	if r.index == nil {
		r.index = map[string]int{}
	}
	if i, ok := r.index[link.Token]; ok {
		r.links[i] = link
		return
	}
	r.index[link.Token] = len(r.links)
	r.links = append(r.links, link)
}

// Lookup returns the link registered for token.
func (r *Registry) Lookup(token string) (Link, bool) {
	if r == nil {
		return Link{}, false
	}
	i, ok := r.index[token]
	if !ok {
		return Link{}, false
	}
	return r.links[i], true
}

// Tokens lists registered tokens in registration order.
func (r *Registry) Tokens() []string {
	if r == nil {
		return nil
	}
	tokens := make([]string, 0, len(r.links))
	for _, link := range r.links {
		tokens = append(tokens, link.Token)
	}
	return tokens
}

// Links returns a copy of the registered links.
func (r *Registry) Links() []Link {
	if r == nil {
		return nil
	}
	return append([]Link(nil), r.links...)
}

// Len reports the number of registered tokens.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.links)
}

var defaultLinks = []Link{
	{Token: "AppSimple", URL: "https://appsimple.io", Style: "brand"},
}

// DefaultRegistry returns the built-in registry used when no specials are
// configured.
func DefaultRegistry() *Registry {
	return NewRegistry(defaultLinks...)
}
