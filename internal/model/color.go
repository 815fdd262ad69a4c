package model

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned for colors that cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// NamedColors maps palette names to hex values.
var NamedColors = map[string]string{
	"white":  "#ffffff",
	"black":  "#000000",
	"red":    "#ff0000",
	"green":  "#00ff00",
	"blue":   "#0000ff",
	"yellow": "#ffff00",
	"orange": "#ffa500",
	"cyan":   "#00ffff",
	"pink":   "#ff69b4",
	"grey":   "#808080",
	"gray":   "#808080",
}

// NormalizeColor converts #rgb, #rrggbb or a named color into lower-case
// #rrggbb.
func NormalizeColor(s string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidColor)
	}
	if hex, ok := NamedColors[v]; ok {
		return hex, nil
	}
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	if len(v) != 4 && len(v) != 7 {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	c, err := colorful.Hex(v)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c.Hex(), nil
}

// ColorFromRGB converts float RGB components in [0, 1] to #rrggbb.
func ColorFromRGB(r, g, b float64) string {
	return colorful.Color{R: r, G: g, B: b}.Clamped().Hex()
}

// IsDark reports whether a color is dark enough to need a light foreground.
func IsDark(hex string) bool {
	c, err := colorful.Hex(hex)
	if err != nil {
		return false
	}
	l, _, _ := c.Lab()
	return l < 0.5
}

// RGB returns the float components of a color accepted by NormalizeColor.
func RGB(s string) (r, g, b float64, err error) {
	hex, err := NormalizeColor(s)
	if err != nil {
		return 0, 0, 0, err
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c.R, c.G, c.B, nil
}
