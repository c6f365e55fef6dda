package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the logging surface used across the directory cache packages.
// It provides a consistent way to log messages at different levels (Info, Debug, Warn, Error) with optional formatting.
type Logger interface {
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

// make sure stdLogger implements the Logger interface.
var _ Logger = (*stdLogger)(nil)

type stdLogger struct {
	entry *logrus.Entry
}

func (l *stdLogger) Info(args ...interface{})                  { l.entry.Info(args...) }
func (l *stdLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *stdLogger) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l *stdLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *stdLogger) Warn(args ...interface{})                  { l.entry.Warn(args...) }
func (l *stdLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *stdLogger) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l *stdLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// make sure suppressedLogger implements the Logger interface.
var _ Logger = (*suppressedLogger)(nil)

type suppressedLogger struct{}

func (l *suppressedLogger) Info(args ...interface{})                  {}
func (l *suppressedLogger) Infof(format string, args ...interface{})  {}
func (l *suppressedLogger) Debug(args ...interface{})                 {}
func (l *suppressedLogger) Debugf(format string, args ...interface{}) {}
func (l *suppressedLogger) Warn(args ...interface{})                  {}
func (l *suppressedLogger) Warnf(format string, args ...interface{})  {}
func (l *suppressedLogger) Error(args ...interface{})                 {}
func (l *suppressedLogger) Errorf(format string, args ...interface{}) {}

// Options configures a logger created with NewWithOptions.
type Options struct {
	Level      string
	Output     io.Writer
	Suppressed bool
}

// New creates a logger tagged with the given component name.
func New(name string, suppressed, debug bool) Logger {
	level := "info"
	if debug {
		level = "debug"
	}
	return NewWithOptions(name, Options{Level: level, Suppressed: suppressed})
}

// NewWithOptions creates a logger tagged with the given component name.
// Unknown levels fall back to info.
func NewWithOptions(name string, opts Options) Logger {
	if opts.Suppressed {
		return &suppressedLogger{}
	}

	l := logrus.New()
	l.SetOutput(os.Stdout)
	if opts.Output != nil {
		l.SetOutput(opts.Output)
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   opts.Output != nil,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		PadLevelText:    true,
	})

	return &stdLogger{entry: l.WithField("component", name)}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &suppressedLogger{}
}
