package ui

// The Color* functions return the escape code of the active theme for a
// semantic role. With NoColorTheme they all return "".

// ColorReset returns the code that clears all formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed returns the error color.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen returns the success color.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue returns the secondary color.
func ColorBlue() string { return GetCurrentTheme().Secondary }

// ColorMagenta returns the info color.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorCyan returns the primary accent color.
func ColorCyan() string { return GetCurrentTheme().Primary }

// ColorBold returns the bold code.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the underline code.
func ColorUnderline() string { return GetCurrentTheme().Underline }
