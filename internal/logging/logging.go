// Package logging provides the run log: plain lines to stdout, or to an
// append-only file when a log path is set. The batch is the only writer.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Logger writes run output to its destination and operational messages to
// the standard streams.
type Logger struct {
	mu   sync.Mutex
	dest io.Writer
	file *os.File
	path string
}

// New returns a Logger. With an empty path all run output goes to stdout;
// otherwise it is appended to the file at path, creating parent directories
// as needed.
func New(path string) (*Logger, error) {
	l := &Logger{dest: os.Stdout}
	if path == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.dest = f
	l.file = f
	l.path = path
	return l, nil
}

// Path returns the log file path, empty when logging to stdout.
func (l *Logger) Path() string { return l.path }

// ToFile reports whether run output goes to a file.
func (l *Logger) ToFile() bool { return l.file != nil }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Line writes one formatted line to the run log destination.
func (l *Logger) Line(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.dest, format+"\n", args...)
}

// Writer returns a destination for subprocess output. Writes are serialized
// with Line so analyzer output never splices into driver lines.
func (l *Logger) Writer() io.Writer {
	return lockedWriter{l}
}

// Warn writes an operational warning to stderr, mirrored into the log file
// when one is open.
func (l *Logger) Warn(format string, args ...any) {
	l.message("warning: ", format, args...)
}

// Errorf writes an operational error to stderr, mirrored into the log file
// when one is open.
func (l *Logger) Errorf(format string, args ...any) {
	l.message("error: ", format, args...)
}

func (l *Logger) message(prefix, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	text := prefix + fmt.Sprintf(format, args...) + "\n"
	io.WriteString(os.Stderr, text)
	if l.file != nil {
		io.WriteString(l.file, text)
	}
}

type lockedWriter struct{ l *Logger }

func (w lockedWriter) Write(p []byte) (int, error) {
	w.l.mu.Lock()
	defer w.l.mu.Unlock()
	return w.l.dest.Write(p)
}
