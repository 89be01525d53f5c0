package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Nexus.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Subtle gradient from indigo toward rose.
	s1 := termenv.String("  _   _                     ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String(" | \\ | | _____  ___   _ ___ ").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" |  \\| |/ _ \\ \\/ / | | / __|").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" | |\\  |  __/>  <| |_| \\__ \\").Foreground(p.Color("#e879f9"))
	s5 := termenv.String(" |_| \\_|\\___/_/\\_\\\\__,_|___/").Foreground(p.Color("#f472b6"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
