package ui

const (
	filterWidth  = 57
	filterHeight = 25
	minLogHeight = 3
)

// Rect is a screen region.
type Rect struct {
	X, Y, Width, Height int
}

func (r Rect) apply(p Placeable) {
	if p != nil {
		p.SetRect(r.X, r.Y, r.Width, r.Height)
	}
}

// Layout splits the screen: the last row is the status line, overlays cover
// everything above it, and the main view shares that area with the packet
// log underneath.
type Layout struct {
	Width, Height int
	Main          Rect
	Log           Rect
	Overlay       Rect
	Filter        Rect
}

func ComputeLayout(width, height int) Layout {
	width = max(width, 0)
	height = max(height, 0)
	body := max(height-1, 0)
	logHeight := min(max(minLogHeight, body/3), body)

	l := Layout{Width: width, Height: height}
	l.Overlay = Rect{0, 0, width, body}
	l.Main = Rect{0, 0, width, body - logHeight}
	l.Log = Rect{0, body - logHeight, width, logHeight}

	fw := min(filterWidth, width)
	fh := min(filterHeight, body)
	fx := min(max(width/2-15, 0), width-fw)
	fy := min(max(height/2-15, 0), body-fh)
	l.Filter = Rect{fx, fy, fw, fh}
	return l
}
