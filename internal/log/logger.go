// Package log is the application logger. It keeps a small leveled API on top
// of logrus and knows how to attach the fields carried by application errors.
package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"pdfmerge/internal/errors"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger wraps a logrus logger together with the file it may be writing to.
type Logger struct {
	base  *logrus.Logger
	level logrus.Level
	file  *os.File
	out   io.Writer
	json  bool
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sends log lines to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.out = w
	}
}

// WithJSON switches to JSON lines.
func WithJSON() Option {
	return func(l *Logger) {
		l.json = true
	}
}

// WithFile tees output into the named file in addition to stdout.
func WithFile(path string) Option {
	return func(l *Logger) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open log file %s: %v\n", path, err)
			return
		}
		l.file = f
	}
}

// WithLevel sets the minimum level by name ("debug", "info", "warn", "error").
func WithLevel(level string) Option {
	return func(l *Logger) {
		lvl, err := logrus.ParseLevel(level)
		if err == nil {
			l.level = lvl
		}
	}
}

// NewLogger creates a logger writing to stdout unless configured otherwise.
func NewLogger(opts ...Option) *Logger {
	l := &Logger{
		base:  logrus.New(),
		level: logrus.InfoLevel,
		out:   os.Stdout,
	}
	// Filtering happens in enabled so that SetDebug applies to every logger.
	l.base.SetLevel(logrus.TraceLevel)
	for _, opt := range opts {
		opt(l)
	}

	out := l.out
	if l.file != nil {
		out = io.MultiWriter(l.out, l.file)
	}
	l.base.SetOutput(out)
	if l.json {
		l.base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg:  "message",
				logrus.FieldKeyTime: "timestamp",
			},
		})
	} else {
		l.base.SetFormatter(&lineFormatter{})
	}
	l.base.AddHook(callerHook{})
	return l
}

// Configure replaces the package logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// SetDebug toggles debug output on every logger.
func SetDebug(debug bool) {
	isDebug = debug
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) entry() *logrus.Entry {
	return logrus.NewEntry(l.base)
}

func (l *Logger) enabled(level logrus.Level) bool {
	if level == logrus.DebugLevel && isDebug {
		return true
	}
	return level <= l.level
}

// With returns an entry carrying fields.
func (l *Logger) With(fields ...Field) *Entry {
	return (&Entry{l: l, e: l.entry()}).With(fields...)
}

// WithContext returns an entry bound to ctx.
func (l *Logger) WithContext(ctx context.Context) *Entry {
	e := l.entry()
	if ctx != nil {
		e = e.WithContext(ctx)
	}
	return &Entry{l: l, e: e}
}

func (l *Logger) Info(args ...interface{})  { l.With().Info(args...) }
func (l *Logger) Warn(args ...interface{})  { l.With().Warn(args...) }
func (l *Logger) Error(args ...interface{}) { l.With().Error(args...) }
func (l *Logger) Debug(args ...interface{}) { l.With().Debug(args...) }

func (l *Logger) Infof(format string, args ...interface{})  { l.With().Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.With().Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.With().Errorf(format, args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.With().Debugf(format, args...) }

// Entry is a log line under construction.
type Entry struct {
	l *Logger
	e *logrus.Entry
}

// With adds fields to a copy of the entry.
func (en *Entry) With(fields ...Field) *Entry {
	data := logrus.Fields{}
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Entry{l: en.l, e: en.e.WithFields(data)}
}

func (en *Entry) log(level logrus.Level, args ...interface{}) {
	if en.l.enabled(level) {
		en.e.Log(level, args...)
	}
}

func (en *Entry) logf(level logrus.Level, format string, args ...interface{}) {
	if en.l.enabled(level) {
		en.e.Logf(level, format, args...)
	}
}

func (en *Entry) Info(args ...interface{})  { en.log(logrus.InfoLevel, args...) }
func (en *Entry) Warn(args ...interface{})  { en.log(logrus.WarnLevel, args...) }
func (en *Entry) Error(args ...interface{}) { en.log(logrus.ErrorLevel, args...) }
func (en *Entry) Debug(args ...interface{}) { en.log(logrus.DebugLevel, args...) }

func (en *Entry) Infof(format string, args ...interface{}) {
	en.logf(logrus.InfoLevel, format, args...)
}
func (en *Entry) Warnf(format string, args ...interface{}) {
	en.logf(logrus.WarnLevel, format, args...)
}
func (en *Entry) Errorf(format string, args ...interface{}) {
	en.logf(logrus.ErrorLevel, format, args...)
}
func (en *Entry) Debugf(format string, args ...interface{}) {
	en.logf(logrus.DebugLevel, format, args...)
}

// LogWithFields starts an entry on the package logger.
func LogWithFields(fields ...Field) *Entry {
	return logger.With(fields...)
}

// LogWithError starts an entry describing err, including the kind and
// the path, parameter or phase of application errors.
func LogWithError(err error) *Entry {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}
	fields := []Field{F("error", err.Error())}

	switch e := err.(type) {
	case *errors.FileError:
		fields = append(fields, F("error_kind", int(e.Kind())), F("path", e.Path()))
	case *errors.ConfigError:
		fields = append(fields, F("error_kind", int(e.Kind())), F("param", e.Param()))
	case *errors.RunError:
		fields = append(fields, F("error_kind", int(e.Kind())))
		if e.Phase() != "" {
			fields = append(fields, F("phase", e.Phase()))
		}
	case *errors.ApplicationError:
		fields = append(fields, F("error_kind", int(e.Kind())))
	}
	return logger.With(fields...)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

// Info logs a formatted message at info level
func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Infof logs a formatted message
func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a message with arguments
func Debug(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.With().Debug(msg)
		return
	}
	logger.With().Debugf(msg+": %v", args...)
}

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Error logs an error message with arguments
func Error(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Error(msg)
		return
	}
	logger.Errorf(msg+": %v", args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// Warn logs a warning message with arguments
func Warn(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Warn(msg)
		return
	}
	logger.Warnf(msg+": %v", args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// lineFormatter renders "[time] LEVEL: message key=value ...".
type lineFormatter struct{}

func (lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	level := strings.ToUpper(e.Level.String())
	if level == "WARNING" {
		level = "WARN"
	}
	fmt.Fprintf(&b, "[%s] %s: %s", e.Time.Format("2006-01-02 15:04:05"), level, e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// callerHook records the first frame outside this file and logrus.
type callerHook struct{}

func (callerHook) Levels() []logrus.Level { return logrus.AllLevels }

func (callerHook) Fire(e *logrus.Entry) error {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "sirupsen/logrus") && !strings.HasSuffix(f.File, "internal/log/logger.go") {
			e.Data["caller"] = fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
			return nil
		}
		if !more {
			return nil
		}
	}
}
