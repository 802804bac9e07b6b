package ui

import (
	"os"
	"sync"
)

// Theme defines a color scheme for terminal output.
// Each field contains an ANSI escape code for the corresponding color category.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Primary is the accent used for names and values.
	Primary string
	// Secondary is used for labels and less prominent text.
	Secondary string
	// Success marks matching results and completed runs.
	Success string
	// Warning marks timeouts and cancellations.
	Warning string
	// Error marks failures and mismatches.
	Error string
	// Info is used for section headers.
	Info string
	// Bold is the escape code for bold text.
	Bold string
	// Underline is the escape code for underlined text.
	Underline string
	// Reset clears all formatting.
	Reset string
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;51m",  // Cyan
		Secondary: "\033[38;5;245m", // Grey
		Success:   "\033[38;5;82m",  // Bright green
		Warning:   "\033[38;5;220m", // Yellow
		Error:     "\033[38;5;196m", // Red
		Info:      "\033[38;5;141m", // Purple
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme is optimized for light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;25m",  // Dark blue
		Secondary: "\033[38;5;240m", // Dark grey
		Success:   "\033[38;5;28m",  // Dark green
		Warning:   "\033[38;5;130m", // Orange
		Error:     "\033[38;5;124m", // Dark red
		Info:      "\033[38;5;54m",  // Dark purple
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or --no-color is given.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the currently active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme changes the active theme by name: "dark", "light" or "none".
// Unknown names select the dark theme.
func SetTheme(name string) {
	switch name {
	case "light":
		SetCurrentTheme(LightTheme)
	case "none":
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// InitTheme selects the theme from the --no-color flag and the NO_COLOR
// environment variable (https://no-color.org/). Any value of NO_COLOR,
// including an empty one, disables colors. Otherwise LANTERNCALC_THEME
// picks the theme by name.
func InitTheme(noColor bool) {
	if noColor {
		SetCurrentTheme(NoColorTheme)
		return
	}
	if _, exists := lookupNoColor(); exists {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetTheme(os.Getenv("LANTERNCALC_THEME"))
}

// IsColorEnabled reports whether the active theme emits escape codes.
func IsColorEnabled() bool {
	return GetCurrentTheme().Name != NoColorTheme.Name
}

func lookupNoColor() (string, bool) {
	return os.LookupEnv("NO_COLOR")
}
