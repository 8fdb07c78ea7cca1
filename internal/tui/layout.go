package tui

type pageLayout struct {
	windowWidth  int
	windowHeight int
	boxWidth     int
	wrapWidth    int
}

func newPageLayout() pageLayout {
	return pageLayout{
		boxWidth:  76,
		wrapWidth: 76 - boxChrome,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	inner := width - boxHorizontalPadding
	if inner < minBoxWidth {
		inner = minBoxWidth
	}
	l.boxWidth = inner
	l.wrapWidth = inner - boxChrome
}
