package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Logger writes to a file so the terminal UI keeps stdout to itself
type Logger struct {
	*log.Logger
	file *os.File
}

// New opens (or creates) the log file at path. If the file cannot be opened
// the logger discards output and the error is returned alongside it.
func New(path, level string) (*Logger, error) {
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.SetOutput(io.Discard)
		return &Logger{Logger: logger}, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger.SetOutput(io.Discard)
		return &Logger{Logger: logger}, fmt.Errorf("logging: open log file: %w", err)
	}
	logger.SetOutput(f)
	return &Logger{Logger: logger, file: f}, nil
}

// Session returns an entry tagged with a fresh id for this process run
func (l *Logger) Session() *log.Entry {
	return l.WithField("session", uuid.NewString())
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
