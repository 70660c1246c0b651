package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process-wide logger. Production gets JSON lines; every other
// environment gets human-readable text with full timestamps.
func New(level, env string) *logrus.Logger {
	return NewWithOutput(os.Stdout, level, env)
}

// NewWithOutput is New with an explicit writer.
func NewWithOutput(out io.Writer, level, env string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	if env == "production" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// Discard returns a logger that drops everything. Handy for tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
