// Package cli holds the styled terminal output used outside the TUI
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#A40000") // Reel red
	accentColor  = lipgloss.Color("#FFA500") // Orange
	successColor = lipgloss.Color("#00AA00") // Green
	mutedColor   = lipgloss.Color("#888888") // Gray
	textColor    = lipgloss.Color("#FFFFFF") // White
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	PromptStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)
)

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("asciireel ▶"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a non-fatal problem
func PrintWarning(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningStyle.Render("Warning:"), message)
}

// PrintKeyValue prints one aligned "key: value" line
func PrintKeyValue(w io.Writer, key string, value interface{}) {
	fmt.Fprintf(w, " %s %s\n", KeyStyle.Render(fmt.Sprintf("%-10s", key+":")), ValueStyle.Render(fmt.Sprint(value)))
}

// WaitForEnter prints prompt and blocks until a line is read from r
func WaitForEnter(w io.Writer, r io.Reader, prompt string) error {
	fmt.Fprintf(w, "\n%s ", PromptStyle.Render(prompt))
	if _, err := bufio.NewReader(r).ReadString('\n'); err != nil && err != io.EOF {
		return fmt.Errorf("failed to read from terminal: %w", err)
	}
	return nil
}
