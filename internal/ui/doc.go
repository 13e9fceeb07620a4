// Package ui holds the color themes shared by the plain line output and the
// terminal renderer. It honors --no-color and the NO_COLOR convention.
package ui
