package ui2d

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Overlay palette.
var (
	ColorTransparent  = Color{0, 0, 0, 0}
	ColorWhite        = Color{1, 1, 1, 1}
	ColorButtonNormal = Color{0.12, 0.12, 0.16, 0.85}
	ColorButtonHover  = Color{0.22, 0.22, 0.3, 0.9}
	ColorButtonActive = Color{0.1, 0.3, 0.5, 0.95}
	ColorBorder       = Color{0.35, 0.35, 0.45, 1}
	ColorText         = Color{0.92, 0.92, 0.92, 1}
)

// RGBA creates a color from 8-bit RGBA values (0-255).
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}
