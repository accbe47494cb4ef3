package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// ConsoleHook writes formatted log entries to an io.Writer. The router
// is expected to run under a process supervisor that captures stdout,
// so unlike the file-rotating logger this is based on, there is no
// file hook: stdout is the only sink.
type ConsoleHook struct {
	Writer    *os.File
	Formatter logrus.Formatter
}

func (hook *ConsoleHook) Fire(entry *logrus.Entry) error {
	line, err := hook.Formatter.Format(entry)
	if err != nil {
		return err
	}

	_, err = hook.Writer.Write(line)
	return err
}

func (hook *ConsoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Logger wraps a configured *logrus.Logger with the router's caller
// formatting.
type Logger struct {
	*logrus.Logger
}

// NewLogger builds a Logger that writes leveled, colorized lines to
// stdout with the calling file:line prettified relative to the
// process's working directory.
func NewLogger() *Logger {
	l := logrus.New()

	callerPrettifier := func(frame *runtime.Frame) (function string, file string) {
		_, filename, line, ok := runtime.Caller(9)
		if !ok {
			return "", ""
		}
		if strings.Contains(filename, "pkg/logger/log.go") {
			_, filename, line, ok = runtime.Caller(10)
			if !ok {
				return "", ""
			}
		}

		relPath, err := filepath.Rel(rootDir(), filename)
		if err != nil {
			relPath = filename
		}

		return fmt.Sprintf("%s:%d", relPath, line), ""
	}

	consoleFormatter := &logrus.TextFormatter{
		ForceColors:      true,
		FullTimestamp:    true,
		CallerPrettyfier: callerPrettifier,
	}

	l.AddHook(&ConsoleHook{Writer: os.Stdout, Formatter: consoleFormatter})
	l.SetOutput(io.Discard)
	l.SetReportCaller(true)

	return &Logger{l}
}

// FlushLog is a no-op for the console-only logger, kept so callers that
// defer logger.FlushLog() around process shutdown don't need to change
// if a sink with buffering is reintroduced later.
func (l *Logger) FlushLog() {}

func rootDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
