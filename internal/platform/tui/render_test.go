package tui

import (
	"testing"

	"github.com/vovakirdan/snakesim/internal/core"
)

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.DrawText(0, 0, "ab")
	s.SetColored(2, 0, '●', core.ColorApple)
	s.SetColored(0, 1, 'o', core.ColorBody)

	// Styles render without escape codes when no terminal is attached.
	expected := "ab● \no   "
	if got := RenderScreen(s); got != expected {
		t.Errorf("RenderScreen() = %q, expected %q", got, expected)
	}
}

func TestCenterText(t *testing.T) {
	tests := []struct {
		text     string
		width    int
		expected string
	}{
		{"ab", 6, "  ab"},
		{"abc", 6, " abc"},
		{"toolong", 3, "toolong"},
	}
	for _, tt := range tests {
		if got := centerText(tt.text, tt.width); got != tt.expected {
			t.Errorf("centerText(%q, %d) = %q, expected %q", tt.text, tt.width, got, tt.expected)
		}
	}
}
