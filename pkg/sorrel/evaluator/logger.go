package evaluator

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Logger receives print() output. Scripts never write to stdout directly;
// routing output through the environment's Logger lets embedders and tests
// capture it.
type Logger interface {
	Log(values ...interface{})
	LogLine(values ...interface{})
}

// defaultStdoutLogger is the default logger that writes to stdout
type defaultStdoutLogger struct{}

func (l *defaultStdoutLogger) Log(values ...interface{}) {
	for i, v := range values {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(v)
	}
}

func (l *defaultStdoutLogger) LogLine(values ...interface{}) {
	for i, v := range values {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(v)
	}
	fmt.Println()
}

// DefaultLogger is the default stdout logger
var DefaultLogger Logger = &defaultStdoutLogger{}

// WriterLogger writes print() output to any io.Writer.
type WriterLogger struct {
	W io.Writer
}

func NewWriterLogger(w io.Writer) *WriterLogger {
	return &WriterLogger{W: w}
}

func (l *WriterLogger) Log(values ...interface{}) {
	for i, v := range values {
		if i > 0 {
			fmt.Fprint(l.W, " ")
		}
		fmt.Fprint(l.W, v)
	}
}

func (l *WriterLogger) LogLine(values ...interface{}) {
	l.Log(values...)
	fmt.Fprintln(l.W)
}

// BufferedLogger collects print() output in memory, for tests and for
// capture modes where output is inspected after the run.
type BufferedLogger struct {
	mu sync.Mutex
	sb strings.Builder
}

func NewBufferedLogger() *BufferedLogger {
	return &BufferedLogger{}
}

func (l *BufferedLogger) Log(values ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, v := range values {
		if i > 0 {
			l.sb.WriteString(" ")
		}
		fmt.Fprint(&l.sb, v)
	}
}

func (l *BufferedLogger) LogLine(values ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, v := range values {
		if i > 0 {
			l.sb.WriteString(" ")
		}
		fmt.Fprint(&l.sb, v)
	}
	l.sb.WriteString("\n")
}

// String returns everything logged so far.
func (l *BufferedLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sb.String()
}

// Reset discards everything logged so far.
func (l *BufferedLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sb.Reset()
}

// NullLogger discards all output.
type NullLogger struct{}

func (l *NullLogger) Log(values ...interface{})     {}
func (l *NullLogger) LogLine(values ...interface{}) {}
