package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level mirrors zerolog's severity levels under the names the rest of the
// codebase already expects.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case INFO:
		return zerolog.InfoLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	case FATAL:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// Config holds logger configuration.
type Config struct {
	Level       string `yaml:"level"`
	Output      string `yaml:"output"` // "stdout", "stderr", or file path
	Component   string `yaml:"component"`
	IncludeFile bool   `yaml:"include_file"`
	JSONFormat  bool   `yaml:"json_format"`
}

// Logger is a thin wrapper over zerolog that preserves the fluent,
// component/trace-scoped call-site API the rest of the codebase uses.
type Logger struct {
	zl        zerolog.Logger
	component string
	traceID   string
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// New creates a new logger from the given configuration.
func New(cfg *Config) *Logger {
	var output io.Writer = os.Stdout
	switch cfg.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			output = f
		}
	}

	if !cfg.JSONFormat {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(output).With().Timestamp().Logger().Level(ParseLevel(cfg.Level).zerolog())
	if cfg.Component != "" {
		zl = zl.With().Str("component", cfg.Component).Logger()
	}
	if cfg.IncludeFile {
		zl = zl.With().Caller().Logger()
	}

	return &Logger{zl: zl, component: cfg.Component}
}

// Default returns the process-wide default logger.
func Default() *Logger {
	once.Do(func() {
		defaultLogger = New(&Config{Level: "INFO", Output: "stdout", Component: "signalengine", JSONFormat: true})
	})
	return defaultLogger
}

// SetDefault replaces the process-wide default logger.
func SetDefault(l *Logger) { defaultLogger = l }

// WithComponent returns a derived logger tagged with the given component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger(), component: component, traceID: l.traceID}
}

// WithTraceID returns a derived logger tagged with the given trace/run id.
func (l *Logger) WithTraceID(traceID string) *Logger {
	return &Logger{zl: l.zl.With().Str("trace_id", traceID).Logger(), component: l.component, traceID: traceID}
}

// WithField returns a derived logger carrying one extra structured field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger(), component: l.component, traceID: l.traceID}
}

// WithFields returns a derived logger carrying several extra structured fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zl: ctx.Logger(), component: l.component, traceID: l.traceID}
}

// WithError returns a derived logger carrying an error field.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return &Logger{zl: l.zl.With().Err(err).Logger(), component: l.component, traceID: l.traceID}
}

// WithDuration returns a derived logger carrying a duration field.
func (l *Logger) WithDuration(d time.Duration) *Logger {
	return &Logger{zl: l.zl.With().Dur("duration", d).Logger(), component: l.component, traceID: l.traceID}
}

func (l *Logger) Debug(msg string, kv ...interface{}) { event(l.zl.Debug(), msg, kv...) }
func (l *Logger) Info(msg string, kv ...interface{})  { event(l.zl.Info(), msg, kv...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { event(l.zl.Warn(), msg, kv...) }
func (l *Logger) Error(msg string, kv ...interface{}) { event(l.zl.Error(), msg, kv...) }
func (l *Logger) Fatal(msg string, kv ...interface{}) { event(l.zl.Fatal(), msg, kv...) }

// event applies trailing key/value pairs (as used throughout the teacher
// codebase, e.g. Info("scan started", "run_id", id, "coins", n)) to a
// zerolog event before firing it.
func event(e *zerolog.Event, msg string, kv ...interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		if err, isErr := kv[i+1].(error); isErr {
			e = e.AnErr(key, err)
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}

// Package-level helpers against the default logger.

func Debug(msg string, kv ...interface{}) { Default().Debug(msg, kv...) }
func Info(msg string, kv ...interface{})  { Default().Info(msg, kv...) }
func Warn(msg string, kv ...interface{})  { Default().Warn(msg, kv...) }
func Error(msg string, kv ...interface{}) { Default().Error(msg, kv...) }
func Fatal(msg string, kv ...interface{}) { Default().Fatal(msg, kv...) }

func WithComponent(component string) *Logger         { return Default().WithComponent(component) }
func WithTraceID(traceID string) *Logger              { return Default().WithTraceID(traceID) }
func WithField(key string, value interface{}) *Logger { return Default().WithField(key, value) }
func WithFields(fields map[string]interface{}) *Logger {
	return Default().WithFields(fields)
}
func WithError(err error) *Logger { return Default().WithError(err) }
