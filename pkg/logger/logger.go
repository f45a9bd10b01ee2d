// Package logger provides a zap-based application logger that stamps every
// entry with the service name and, when present, the request trace id.
package logger

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a logging severity.
type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level, defaulting to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// TraceIDFn extracts a trace id from a context; an empty string means none.
type TraceIDFn func(ctx context.Context) string

// Logger writes structured JSON entries.
type Logger struct {
	z       *zap.SugaredLogger
	traceID TraceIDFn
}

// New constructs a Logger writing to w at or above minLevel.
func New(w io.Writer, minLevel Level, service string, traceIDFn TraceIDFn) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), zapcore.Level(minLevel))
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).With(zap.String("service", service))
	return &Logger{z: z.Sugar(), traceID: traceIDFn}
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return &Logger{z: zap.NewNop().Sugar()}
}

func (l *Logger) with(ctx context.Context, args []any) []any {
	if l.traceID == nil || ctx == nil {
		return args
	}
	if id := l.traceID(ctx); id != "" {
		return append(args, "trace_id", id)
	}
	return args
}

// Debug logs msg with alternating key/value pairs.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.z.Debugw(msg, l.with(ctx, args)...)
}

// Info logs msg with alternating key/value pairs.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.z.Infow(msg, l.with(ctx, args)...)
}

// Warn logs msg with alternating key/value pairs.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.z.Warnw(msg, l.with(ctx, args)...)
}

// Error logs msg with alternating key/value pairs.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.z.Errorw(msg, l.with(ctx, args)...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}
