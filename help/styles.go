package help

import (
	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/vtview"
)

type Styles struct {
	ShortKeyStyle       tcell.Style
	ShortDescStyle      tcell.Style
	ShortSeparatorStyle tcell.Style

	FullKeyStyle       tcell.Style
	FullDescStyle      tcell.Style
	FullSeparatorStyle tcell.Style

	EllipsisStyle tcell.Style
}

// DefaultStyles dims keys and separators against the theme's primary text.
func DefaultStyles() Styles {
	normal := tcell.StyleDefault.
		Foreground(vtview.Styles.PrimaryTextColor).
		Background(vtview.Styles.PrimitiveBackgroundColor)
	dim := normal.Foreground(vtview.Styles.TertiaryTextColor)
	return Styles{
		ShortKeyStyle:       dim,
		ShortDescStyle:      normal,
		ShortSeparatorStyle: dim.Dim(true),
		FullKeyStyle:        dim,
		FullDescStyle:       normal,
		FullSeparatorStyle:  dim.Dim(true),
		EllipsisStyle:       dim.Dim(true),
	}
}
