package vtview

// BorderSet defines various borders used when primitives are drawn.
type BorderSet struct {
	Top         string
	Bottom      string
	Left        string
	Right       string
	TopLeft     string
	TopRight    string
	BottomLeft  string
	BottomRight string
}

// BorderSetPlain returns single light lines with square corners.
func BorderSetPlain() BorderSet {
	return BorderSet{
		Top:         BoxDrawingsLightHorizontal,
		Bottom:      BoxDrawingsLightHorizontal,
		Left:        BoxDrawingsLightVertical,
		Right:       BoxDrawingsLightVertical,
		TopLeft:     BoxDrawingsLightDownAndRight,
		TopRight:    BoxDrawingsLightDownAndLeft,
		BottomLeft:  BoxDrawingsLightUpAndRight,
		BottomRight: BoxDrawingsLightUpAndLeft,
	}
}

// BorderSetRound returns single light lines with rounded corners.
func BorderSetRound() BorderSet {
	set := BorderSetPlain()
	set.TopLeft = BoxDrawingsLightArcDownAndRight
	set.TopRight = BoxDrawingsLightArcDownAndLeft
	set.BottomLeft = BoxDrawingsLightArcUpAndRight
	set.BottomRight = BoxDrawingsLightArcUpAndLeft
	return set
}

// Borders is a bit set selecting which sides of a Box get a border.
type Borders uint

const (
	BordersTop Borders = 1 << iota
	BordersBottom
	BordersLeft
	BordersRight

	BordersNone Borders = 0
	BordersAll  Borders = BordersTop | BordersBottom | BordersLeft | BordersRight
)

// Has reports whether all sides in flag are set.
func (b Borders) Has(flag Borders) bool {
	return b&flag == flag
}
