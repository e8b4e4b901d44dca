package vtview

// Semigraphics provides easy access to Unicode characters for drawing.
const (
	// General Punctuation U+2000-U+206F
	SemigraphicsHorizontalEllipsis = "\u2026" // …

	// Box Drawing U+2500-U+257F
	BoxDrawingsLightHorizontal       = "\u2500" // ─
	BoxDrawingsLightVertical         = "\u2502" // │
	BoxDrawingsLightDownAndRight     = "\u250c" // ┌
	BoxDrawingsLightDownAndLeft      = "\u2510" // ┐
	BoxDrawingsLightUpAndRight       = "\u2514" // └
	BoxDrawingsLightUpAndLeft        = "\u2518" // ┘
	BoxDrawingsLightVerticalAndRight = "\u251c" // ├
	BoxDrawingsLightArcDownAndRight  = "\u256d" // ╭
	BoxDrawingsLightArcDownAndLeft   = "\u256e" // ╮
	BoxDrawingsLightArcUpAndLeft     = "\u256f" // ╯
	BoxDrawingsLightArcUpAndRight    = "\u2570" // ╰

	// Block Elements U+2580-U+259F
	BlockFullBlock   = "\u2588" // █
	BlockLightShade  = "\u2591" // ░
	BlockMediumShade = "\u2592" // ▒

	// Geometric Shapes U+25A0-U+25FF
	GeometricBlackRightPointingTriangle = "\u25b6" // ▶
	GeometricWhiteCircle                = "\u25cb" // ○
	GeometricBlackCircle                = "\u25cf" // ●
)
