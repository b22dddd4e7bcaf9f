package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Usage is the one-line command synopsis.
const Usage = "Usage: pinga [--silent] [--exclude-response-headers] [--version] <config.json>"

// ConsoleFormatter writes diagnostics for a human, normally to stderr.
type ConsoleFormatter struct {
	writer  io.Writer
	noColor bool
	red     *color.Color
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.red = color.New(color.FgRed)
	if useColor(f.writer, f.noColor) {
		f.red.EnableColor()
	} else {
		f.red.DisableColor()
	}
	return f
}

// useColor reports whether escapes may be written to w: it must be a
// terminal and neither the setting nor NO_COLOR or TERM=dumb turn them off.
func useColor(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	file, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// FormatError writes a configuration or setup error message on its own line.
func (f *ConsoleFormatter) FormatError(msg string) {
	fmt.Fprintf(f.writer, "%s\n", f.red.Sprint(msg))
}

// FormatTransportError reports a request that never completed.
func (f *ConsoleFormatter) FormatTransportError(err error) {
	fmt.Fprintf(f.writer, "\n%s %v\n", f.red.Sprint("Request failed:"), err)
}

func (f *ConsoleFormatter) FormatUsage() {
	fmt.Fprintf(f.writer, "%s\n", Usage)
}
