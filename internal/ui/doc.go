// Package ui holds the terminal styles shared by CLI output.
//
// [Palette] wraps a handful of [lipgloss.Style] values (title, success, error, warning, help text).
// Rendering degrades to plain text when the output is not a terminal.
package ui
