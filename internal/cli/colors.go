package cli

import (
	"fmt"
	"os"
)

const (
	ResetCode = "\033[0m"
	BoldCode  = "\033[1m"
	DimCode   = "\033[2m"
	Red       = "\033[31m"
	Green     = "\033[32m"
	Yellow    = "\033[33m"
	Blue      = "\033[34m"
	Purple    = "\033[35m"
	Cyan      = "\033[36m"
)

// RGB represents a TrueColor
type RGB struct {
	R, G, B float64
}

var (
	BrandBlue   = RGB{0, 120, 255}
	BrandPurple = RGB{189, 52, 235}
)

// disableColor is a cached check for the environment variable
var disableColor = checkNoColor()

func checkNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// Enabled reports whether ANSI colors should be emitted.
func Enabled() bool {
	return !disableColor
}

// Style wraps text in a specific color code
func Style(text string, colorCode string) string {
	if disableColor {
		return text
	}
	return fmt.Sprintf("%s%s%s", colorCode, text, ResetCode)
}

// ColorizeRGB returns text wrapped in ANSI TrueColor escape codes
func ColorizeRGB(text string, c RGB) string {
	if disableColor {
		return text
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm%s\033[0m", int(c.R), int(c.G), int(c.B), text)
}

// Lerp interpolates between two colors; progress is clamped to [0, 1].
func Lerp(start, end RGB, progress float64) RGB {
	progress = max(0, min(1, progress))
	return RGB{
		R: start.R + (end.R-start.R)*progress,
		G: start.G + (end.G-start.G)*progress,
		B: start.B + (end.B-start.B)*progress,
	}
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", int(c.R), int(c.G), int(c.B))
}

// Gradient returns the text colored with a linear interpolation between start and end colors
// based on the progress (0.0 to 1.0)
func Gradient(text string, start, end RGB, progress float64) string {
	if disableColor {
		return text
	}
	return ColorizeRGB(text, Lerp(start, end, progress))
}

func CheckMark() string {
	return Style("✔", Green)
}

func Arrow() string {
	return Style("➜", Blue)
}

func CrossMark() string {
	return Style("✘", Red)
}
