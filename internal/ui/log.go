package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// logOutput is where status lines go, stderr so stdout stays clean for listings
var logOutput io.Writer = os.Stderr

// Info prints a status line
func Info(format string, args ...any) {
	fmt.Fprintf(logOutput, "%s %s\n", color.CyanString("[info]"), fmt.Sprintf(format, args...))
}

// Warn prints a warning line
func Warn(format string, args ...any) {
	fmt.Fprintf(logOutput, "%s %s\n", color.New(color.FgYellow, color.Bold).Sprint("[WARN]"), color.YellowString(format, args...))
}

// Error prints an error line
func Error(format string, args ...any) {
	fmt.Fprintf(logOutput, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("[ERROR]"), color.RedString(format, args...))
}

// SetOutput redirects status lines and returns the previous writer
func SetOutput(w io.Writer) io.Writer {
	prev := logOutput
	logOutput = w
	return prev
}
