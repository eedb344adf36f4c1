package snake

import (
	"fmt"

	"github.com/vovakirdan/snakesim/internal/core"
)

// hudHeight is the number of screen rows above the board.
const hudHeight = 2

// Layout describes where the board sits on a screen.
type Layout struct {
	OffsetX  int
	OffsetY  int
	TooSmall bool
}

// LayoutFor centers a board with its wall frame below the HUD.
func LayoutFor(b Board, screenW, screenH int) Layout {
	frameW := b.Width + 2
	frameH := b.Height + 2
	if screenW < frameW || screenH < frameH+hudHeight {
		return Layout{TooSmall: true}
	}
	return Layout{
		OffsetX: (screenW - frameW) / 2,
		OffsetY: hudHeight,
	}
}

// Render draws the HUD, walls, apple and snake into dst.
// title is shown on the HUD line, typically the driving policy.
func Render(g *Game, dst *core.Screen, title string) {
	dst.Clear()

	hud := fmt.Sprintf(" Snake [%s] - Score: %d  Age: %d  Hunger: %d",
		title, g.Score(), g.Age(), g.StarveCounter())
	dst.DrawText(0, 0, hud)
	for x := range dst.Width() {
		dst.SetColored(x, 1, '─', core.ColorWall)
	}

	layout := LayoutFor(g.board, dst.Width(), dst.Height())
	if layout.TooSmall {
		dst.DrawTextCentered(dst.Height()/2, "Window too small")
		return
	}

	frame := core.NewRect(layout.OffsetX, layout.OffsetY, g.board.Width+2, g.board.Height+2)
	dst.DrawBox(frame, core.ColorWall)

	cell := func(p core.Vector, r rune, c core.Color) {
		if g.board.Contains(p) {
			dst.SetColored(frame.X+1+p.X, frame.Y+1+p.Y, r, c)
		}
	}

	if g.state != StateIdle {
		cell(g.apple, '●', core.ColorApple)
	}
	body := g.Body()
	for i := len(body) - 1; i >= 0; i-- {
		if i == 0 {
			cell(body[i], headRune(g.Heading()), core.ColorHead)
		} else {
			cell(body[i], 'o', core.ColorBody)
		}
	}

	switch g.state {
	case StateTerminated:
		drawOverlay(dst, "Game Over", fmt.Sprintf("%s - score %d - R to restart", g.death, g.Score()))
	case StateIdle:
		drawOverlay(dst, "Snake", "Press R to start")
	}
}

func headRune(h core.Vector) rune {
	switch h {
	case core.Up:
		return '^'
	case core.Down:
		return 'v'
	case core.Left:
		return '<'
	default:
		return '>'
	}
}

// drawOverlay draws a centered two-line message box.
func drawOverlay(dst *core.Screen, line1, line2 string) {
	w := core.Max(len([]rune(line1)), len([]rune(line2))) + 4
	h := 5
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)
	for y := box.Y + 1; y < box.Bottom()-1; y++ {
		for x := box.X + 1; x < box.Right()-1; x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(box, core.ColorOverlay)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}
