// Package printer renders CLI output for warren commands, including the
// colorised board view shown by `warren look` and `warren watch`.
package printer

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

func init() {
	// Force color output even when not connected to TTY
	// Users can disable with NO_COLOR environment variable
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

// Success prints a success message in green with a checkmark prefix
func Success(format string, a ...any) {
	green.Printf("✓ %s", fmt.Sprintf(format, a...))
}

// Info prints an informational message in the default color
func Info(format string, a ...any) {
	fmt.Printf(format, a...)
}

// Warning prints a warning message in yellow with a warning prefix
func Warning(format string, a ...any) {
	yellow.Printf("⚠️  %s", fmt.Sprintf(format, a...))
}

// Error prints a formatted error with an optional suggestion to stderr and
// returns a plain error for Cobra (not printed again due to SilenceErrors).
func Error(title string, explanation string, suggestions []string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)
	fmt.Fprintf(os.Stderr, "%s\n", explanation)

	if len(suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
		if len(suggestions) == 1 {
			fmt.Fprintf(os.Stderr, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(os.Stderr, "Either:\n")
			for i, suggestion := range suggestions {
				fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, suggestion)
			}
		}
	}

	return fmt.Errorf("%s", title)
}

// Board returns a colorised rendering of a board-state view: owned cards in
// green, other face-up cards in cyan, face-down cards unstyled and removed
// cards dimmed. The input is passed through unchanged when colors are off.
func Board(view string) string {
	lines := strings.Split(view, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "my "):
			lines[i] = green.Sprint(line)
		case strings.HasPrefix(line, "up "):
			lines[i] = cyan.Sprint(line)
		case line == "none":
			lines[i] = faint.Sprint(line)
		}
	}
	return strings.Join(lines, "\n")
}

// Println prints a plain message (for output that doesn't need coloring)
func Println(a ...any) {
	fmt.Println(a...)
}

// Printf prints a plain formatted message (for output that doesn't need coloring)
func Printf(format string, a ...any) {
	fmt.Printf(format, a...)
}
