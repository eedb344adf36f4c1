package core

// Color is a foreground color for a screen cell. The terminal front end maps
// each value to an ANSI 256-color code.
type Color uint8

// Base palette.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorWhite
	ColorBrightGreen
	ColorGray
)

// Board element colors.
const (
	ColorWall    = ColorGray
	ColorApple   = ColorRed
	ColorHead    = ColorBrightGreen
	ColorBody    = ColorBlue
	ColorOverlay = ColorWhite
)
