// Package output prints user-facing console messages with color
package output

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Success prints a green success notice
func Success(msg string) {
	color.New(color.FgGreen, color.Bold).Fprintf(color.Output, "✓ %s\n", msg)
}

// Failure prints a failure message to stderr. Bug-class failures carry a
// hint that the user likely hit an internal inconsistency.
func Failure(err error, bug bool) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(color.Error, "✗ %v\n", err)
	if bug {
		fmt.Fprintln(os.Stderr, "This looks like a bug. Please report it with the logs above.")
	}
}

// PrintSchemes prints a header followed by the given scheme names
func PrintSchemes(header string, names []string) {
	color.New(color.Bold).Println(header)
	cyan := color.New(color.FgCyan)
	for _, name := range names {
		cyan.Printf("  %s\n", name)
	}
}
