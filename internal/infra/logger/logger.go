package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

type Logger struct {
	mu            *sync.Mutex
	sink          *log.Logger
	stdout        io.Writer
	level         Level
	includeStdout bool
	component     string
	file          io.Closer
}

func New(filePath string, level Level, includeStdout bool) (*Logger, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	l := NewWithWriter(f, level)
	l.includeStdout = includeStdout
	l.file = f
	return l, nil
}

// Close releases the log file opened by New. Loggers from NewWithWriter own nothing.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// NewWithWriter logs to w only. Used by tests and by the CLI when no log file is wanted.
func NewWithWriter(w io.Writer, level Level) *Logger {
	return &Logger{
		mu:     &sync.Mutex{},
		sink:   log.New(w, "", 0),
		stdout: os.Stdout,
		level:  level,
	}
}

// Named returns a logger sharing the same sinks that tags every line with component.
func (l *Logger) Named(component string) *Logger {
	child := *l
	child.component = component
	return &child
}

func (l *Logger) log(lvl Level, prefix string, format string, v ...interface{}) {
	if lvl < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, v...)
	fullMsg := fmt.Sprintf("%s [%s] %s", timestamp, prefix, msg)
	if l.component != "" {
		fullMsg = fmt.Sprintf("%s [%s] [%s] %s", timestamp, prefix, l.component, msg)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sink.Println(fullMsg)

	// Debug stays in the file so the console only shows what an operator needs
	if l.includeStdout && lvl >= LevelInfo {
		fmt.Fprintln(l.stdout, fullMsg)
	}
}

func ParseLevel(lvl string) Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Debug(f string, v ...any) { l.log(LevelDebug, "DEBUG", f, v...) }
func (l *Logger) Info(f string, v ...any)  { l.log(LevelInfo, "INFO", f, v...) }
func (l *Logger) Warn(f string, v ...any)  { l.log(LevelWarn, "WARN", f, v...) }
func (l *Logger) Error(f string, v ...any) { l.log(LevelError, "ERROR", f, v...) }
func (l *Logger) Fatal(f string, v ...any) { l.log(LevelFatal, "FATAL", f, v...); os.Exit(1) }

func (l *Logger) Write(p []byte) (n int, err error) {
	// Echo and other libraries often include a newline at the end
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		l.Info("%s", msg)
	}
	return len(p), nil
}
