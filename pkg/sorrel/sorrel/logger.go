package sorrel

import (
	"io"

	"github.com/sambeau/sorrel/pkg/sorrel/evaluator"
)

// Logger is re-exported so embedders can supply print() sinks without
// importing the evaluator package.
type Logger = evaluator.Logger

// StdoutLogger returns the default logger that writes to stdout.
func StdoutLogger() Logger {
	return evaluator.DefaultLogger
}

// WriterLogger returns a logger that writes to w.
func WriterLogger(w io.Writer) Logger {
	return evaluator.NewWriterLogger(w)
}

// BufferedLogger collects output in memory; see its String method.
type BufferedLogger = evaluator.BufferedLogger

// NewBufferedLogger returns a logger that collects output in memory.
func NewBufferedLogger() *BufferedLogger {
	return evaluator.NewBufferedLogger()
}

// NullLogger returns a logger that discards everything.
func NullLogger() Logger {
	return &evaluator.NullLogger{}
}
