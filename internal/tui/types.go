package tui

const heroTagline = "Applied AI engineering, typed out live."

const (
	minBoxWidth          = 40
	boxHorizontalPadding = 4
	boxChrome            = 6
)

type revealMsg struct {
	run   int
	index int
}

type keyHint struct {
	Key         string
	Description string
}
