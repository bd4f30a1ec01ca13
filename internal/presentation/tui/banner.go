package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Quester ASCII art banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Amber/Rose)
	lines := []termenv.Style{
		termenv.String("   ____                  _            ").Foreground(p.Color("#fbbf24")),
		termenv.String("  / __ \\__  _____  _____| |_ ___ _ __ ").Foreground(p.Color("#f59e0b")),
		termenv.String(" | |  | \\ \\/ / _ \\/ __|_   _/ _ \\ '__|").Foreground(p.Color("#f97316")),
		termenv.String(" | |__| |\\  /  __/\\__ \\ | ||  __/ |   ").Foreground(p.Color("#fb7185")),
		termenv.String("  \\___\\_\\ \\/ \\___||___/ |_| \\___|_|   ").Foreground(p.Color("#f43f5e")),
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintf(w, "  %s\n\n", termenv.String("v"+version).Faint())
}
