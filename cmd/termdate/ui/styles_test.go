package ui

import "testing"

func TestThemeByName(t *testing.T) {
	if ThemeByName("light").IsDark {
		t.Fatal("light theme should not be dark")
	}
	if !ThemeByName("dark").IsDark {
		t.Fatal("dark theme should be dark")
	}
	// Unknown names fall back to dark.
	if !ThemeByName("mauve").IsDark {
		t.Fatal("unknown theme should default to dark")
	}
}

func TestCountdownStyleShifts(t *testing.T) {
	s := DefaultStyles(DarkTheme())

	tests := []struct {
		remaining int
		want      string
	}{
		{10, s.CountdownHigh.Render("x")},
		{3, s.CountdownMid.Render("x")},
		{2, s.CountdownMid.Render("x")},
		{1, s.CountdownLow.Render("x")},
		{0, s.CountdownLow.Render("x")},
	}
	for _, tt := range tests {
		got := s.CountdownStyle(tt.remaining).Render("x")
		if got != tt.want {
			t.Errorf("remaining=%d: wrong style", tt.remaining)
		}
	}
}
