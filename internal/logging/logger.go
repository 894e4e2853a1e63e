package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger wraps the charmbracelet logger used by the CLI.
type Logger struct {
	*log.Logger
	buffer *bytes.Buffer
}

// New creates a logger writing to w at the given level.
func New(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: "netsuite-connector"})
	l.SetLevel(level)
	return &Logger{Logger: l}
}

// CreateLogger builds the stderr logger. DEBUG=1 switches on debug output
// with timestamps and callers.
func CreateLogger() *Logger {
	if os.Getenv("DEBUG") == "1" {
		l := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			Prefix:          "netsuite-connector",
		})
		l.SetLevel(log.DebugLevel)
		return &Logger{Logger: l}
	}
	return New(os.Stderr, log.InfoLevel)
}

// NewTestLogger logs at debug level into a buffer.
func NewTestLogger() *Logger {
	buf := &bytes.Buffer{}
	l := New(buf, log.DebugLevel)
	l.buffer = buf
	return l
}

// Output returns what a test logger has written so far.
func (l *Logger) Output() string {
	if l.buffer == nil {
		return ""
	}
	return l.buffer.String()
}

// ParseLevel maps a level name such as "debug" or "warn" to a log level.
func ParseLevel(s string) (log.Level, error) {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
