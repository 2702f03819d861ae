package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown when the server starts.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// A subtle gradient, indigo fading to rose, one color per line.
	s1 := termenv.String("                                          __  _").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("  ___   _ __    ___   ___   ___   _ __   / _|(_)  __ _").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" / _ \\ | '_ \\  / _ \\ / __| / _ \\ | '_ \\ | |_ | | / _` |").Foreground(p.Color("#c084fc"))
	s4 := termenv.String("| (_) || | | ||  __/| (__ | (_) || | | ||  _|| || (_| |").Foreground(p.Color("#e879f9"))
	s5 := termenv.String(" \\___/ |_| |_| \\___| \\___| \\___/ |_| |_||_|  |_| \\__, |").Foreground(p.Color("#f472b6"))
	s6 := termenv.String("                                                 |___/").Foreground(p.Color("#fb7185"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println()
	fmt.Println(termenv.String("  v" + strings.TrimSpace(version)).Faint())
	fmt.Println()
}
