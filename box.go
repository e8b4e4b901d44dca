package vtview

import (
	"github.com/gdamore/tcell/v2"
)

// Box is the base of every primitive in this package. It has a position, a
// background, optional borders with a title, and focus state. Primitives embed
// a Box and draw their content into its inner rectangle.
type Box struct {
	x, y, width, height int

	// Cached inner rect. A negative innerX means it must be recomputed.
	innerX, innerY, innerWidth, innerHeight int

	backgroundColor tcell.Color
	// Leave the cells below the box alone, e.g. for overlays.
	dontClear bool

	borders     Borders
	borderSet   BorderSet
	borderStyle tcell.Style

	title      string
	titleStyle tcell.Style

	hasFocus bool
}

// NewBox returns a Box without a border.
func NewBox() *Box {
	return &Box{
		width:           15,
		height:          10,
		innerX:          -1,
		backgroundColor: Styles.PrimitiveBackgroundColor,
		borderStyle:     tcell.StyleDefault.Foreground(Styles.BorderColor).Background(Styles.PrimitiveBackgroundColor),
		borderSet:       BorderSetPlain(),
		titleStyle:      tcell.StyleDefault.Foreground(Styles.TitleColor),
	}
}

// GetRect returns the position of the box: x, y, width and height.
func (b *Box) GetRect() (int, int, int, int) {
	return b.x, b.y, b.width, b.height
}

// GetInnerRect returns the rect left for content once the borders and the
// title are taken away. Width and height are never negative.
func (b *Box) GetInnerRect() (int, int, int, int) {
	if b.innerX >= 0 {
		return b.innerX, b.innerY, b.innerWidth, b.innerHeight
	}

	x, y, width, height := b.GetRect()
	if b.title != "" || b.borders.Has(BordersTop) {
		y++
		height--
	}
	if b.borders.Has(BordersBottom) {
		height--
	}
	if b.borders.Has(BordersLeft) {
		x++
		width--
	}
	if b.borders.Has(BordersRight) {
		width--
	}
	return x, y, max(width, 0), max(height, 0)
}

// SetRect moves and resizes the box. Containers such as the application root
// or a resizing layer call this on every draw.
func (b *Box) SetRect(x, y, width, height int) {
	if b.x == x && b.y == y && b.width == width && b.height == height {
		return
	}
	b.x, b.y, b.width, b.height = x, y, width, height
	b.innerX = -1
}

// InRect returns whether the screen position (x, y) is inside the box.
func (b *Box) InRect(x, y int) bool {
	return Rect{X: b.x, Y: b.y, Width: b.width, Height: b.height}.Contains(x, y)
}

// InputHandler returns no command.
func (b *Box) InputHandler(event *tcell.EventKey) Command {
	return nil
}

// MouseHandler focuses the box on a left click inside its rectangle.
func (b *Box) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	if action == MouseLeftDown && b.InRect(event.Position()) {
		return nil, SetFocusCommand{Target: b}
	}
	return nil, nil
}

// SetBackgroundColor sets the color the box is cleared with.
func (b *Box) SetBackgroundColor(color tcell.Color) *Box {
	b.backgroundColor = color
	b.borderStyle = b.borderStyle.Background(color)
	return b
}

// SetDontClear disables clearing the background before the box is drawn.
func (b *Box) SetDontClear(dontClear bool) *Box {
	b.dontClear = dontClear
	return b
}

// SetBorders sets which borders to draw.
func (b *Box) SetBorders(flag Borders) *Box {
	if b.borders != flag {
		b.borders = flag
		b.innerX = -1
	}
	return b
}

// SetBorderSet sets the glyphs of the border.
func (b *Box) SetBorderSet(borderSet BorderSet) *Box {
	b.borderSet = borderSet
	return b
}

// SetBorderStyle sets the style of the border.
func (b *Box) SetBorderStyle(style tcell.Style) *Box {
	b.borderStyle = style
	return b
}

// SetTitle sets the title shown centered in the top row.
func (b *Box) SetTitle(title string) *Box {
	if b.title != title {
		b.title = title
		b.innerX = -1
	}
	return b
}

// Draw draws this primitive onto the screen.
func (b *Box) Draw(screen tcell.Screen) {
	b.DrawForSubclass(screen, b)
}

// DrawForSubclass draws the background, the borders and the title of a
// primitive p that embeds this box. Call it first thing in p's Draw.
func (b *Box) DrawForSubclass(screen tcell.Screen, p Primitive) {
	if b.width <= 0 || b.height <= 0 {
		return
	}

	if !b.dontClear {
		background := tcell.StyleDefault.Background(b.backgroundColor)
		for y := b.y; y < b.y+b.height; y++ {
			for x := b.x; x < b.x+b.width; x++ {
				screen.SetContent(x, y, ' ', nil, background)
			}
		}
	}

	if b.borders != BordersNone && b.width >= 2 && b.height >= 2 {
		b.drawBorders(screen)
	}

	if b.title != "" && b.width >= 4 {
		_, printed := PrintWithStyle(screen, b.title, b.x+1, b.y, b.width-2, AlignmentCenter, b.titleStyle)
		if TaggedStringWidth(b.title) > printed && printed > 0 {
			putString(screen, b.x+b.width-2, b.y, SemigraphicsHorizontalEllipsis, b.titleStyle)
		}
	}

	b.innerX = -1
	b.innerX, b.innerY, b.innerWidth, b.innerHeight = b.GetInnerRect()
}

func (b *Box) drawBorders(screen tcell.Screen) {
	left, top := b.x, b.y
	right, bottom := b.x+b.width-1, b.y+b.height-1
	set, style := b.borderSet, b.borderStyle

	for x := left + 1; x < right; x++ {
		if b.borders.Has(BordersTop) {
			putString(screen, x, top, set.Top, style)
		}
		if b.borders.Has(BordersBottom) {
			putString(screen, x, bottom, set.Bottom, style)
		}
	}
	for y := top + 1; y < bottom; y++ {
		if b.borders.Has(BordersLeft) {
			putString(screen, left, y, set.Left, style)
		}
		if b.borders.Has(BordersRight) {
			putString(screen, right, y, set.Right, style)
		}
	}

	corners := []struct {
		flag Borders
		x, y int
		s    string
	}{
		{BordersTop | BordersLeft, left, top, set.TopLeft},
		{BordersTop | BordersRight, right, top, set.TopRight},
		{BordersBottom | BordersLeft, left, bottom, set.BottomLeft},
		{BordersBottom | BordersRight, right, bottom, set.BottomRight},
	}
	for _, c := range corners {
		if b.borders.Has(c.flag) {
			putString(screen, c.x, c.y, c.s, style)
		}
	}
}

// Focus is called when this primitive receives focus.
func (b *Box) Focus(delegate func(p Primitive)) {
	b.hasFocus = true
}

// Blur is called when this primitive loses focus.
func (b *Box) Blur() {
	b.hasFocus = false
}

// HasFocus returns whether or not this primitive has focus.
func (b *Box) HasFocus() bool {
	return b.hasFocus
}

var _ Primitive = &Box{}
