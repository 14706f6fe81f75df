// Package logging provides the structured logger used across replyscore.
package logging

import (
	"io"
	"os"

	"github.com/baditaflorin/l"
	"github.com/ppiankov/replyscore/internal/model"
)

// Logger is the logging port used by scoring, validation and pipeline code
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Close() error
}

// structuredLogger adapts l.Logger to Logger
type structuredLogger struct {
	logger l.Logger
}

// New creates a logger writing to w (stderr when nil)
func New(cfg model.LoggingConfig, w io.Writer) (Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:     w,
		JsonFormat: cfg.JSON,
		AsyncWrite: true,
		BufferSize: 64 * 1024,
		AddSource:  cfg.Source,
	})
	if err != nil {
		return nil, err
	}

	return &structuredLogger{logger: logger}, nil
}

func (s *structuredLogger) Debug(msg string, keysAndValues ...interface{}) {
	s.logger.Debug(msg, keysAndValues...)
}

func (s *structuredLogger) Info(msg string, keysAndValues ...interface{}) {
	s.logger.Info(msg, keysAndValues...)
}

func (s *structuredLogger) Warn(msg string, keysAndValues ...interface{}) {
	s.logger.Warn(msg, keysAndValues...)
}

func (s *structuredLogger) Error(msg string, keysAndValues ...interface{}) {
	s.logger.Error(msg, keysAndValues...)
}

// Close flushes buffered output
func (s *structuredLogger) Close() error {
	return s.logger.Close()
}

// Nop returns a logger that discards everything
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Close() error                 { return nil }
