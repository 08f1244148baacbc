package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown when the interactive mode
// starts on a TTY.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Subtle gradient from indigo to rose.
	lines := []struct {
		text  string
		color string
	}{
		{"  ______                 _ _", "#818cf8"},
		{" |  ____|               | (_)", "#8b87fa"},
		{" | |__   ___ _ __   __ _| |_  ___ _ __", "#a78bfa"},
		{" |  __| / __| '_ \\ / _` | | |/ _ \\ '__|", "#c084fc"},
		{" | |____\\__ \\ |_) | (_| | | |  __/ |", "#e879f9"},
		{" |______|___/ .__/ \\__,_|_|_|\\___|_|", "#f472b6"},
		{"            | |", "#fb7185"},
		{"            |_|", "#fb7185"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println()
}
