// Package diag prints styled CLI diagnostics.
package diag

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions
var (
	// Colors
	primaryColor = lipgloss.Color("#3b82f6") // Blue
	successColor = lipgloss.Color("#10b981") // Green
	warningColor = lipgloss.Color("#f59e0b") // Yellow
	errorColor   = lipgloss.Color("#ef4444") // Red
	mutedColor   = lipgloss.Color("#94a3b8") // Muted gray

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	pathStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// Successf prints a success line to stdout.
func Successf(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Warnf prints a warning line to stderr.
func Warnf(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, warningStyle.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints an error line to stderr.
func Errorf(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Mutedf prints a low-emphasis line to stdout.
func Mutedf(format string, args ...interface{}) {
	fmt.Println(mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Path styles a file path for embedding in a message.
func Path(p string) string {
	return pathStyle.Render(p)
}
