package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Logger is a minimal interface compatible with stdlib loggers.
type Logger interface {
	Printf(format string, v ...interface{})
}

// LeveledLogger is implemented by loggers that keep levels apart.
type LeveledLogger interface {
	Logger
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// NoopLogger discards all log messages.
type NoopLogger struct{}

func (NoopLogger) Printf(string, ...interface{}) {}

// Debugf logs at debug level when the logger supports levels.
func Debugf(l Logger, format string, v ...interface{}) {
	if l == nil {
		return
	}
	if ll, ok := l.(LeveledLogger); ok {
		ll.Debugf(format, v...)
		return
	}
	l.Printf("DEBUG "+format, v...)
}

// Infof logs at info level.
func Infof(l Logger, format string, v ...interface{}) {
	if l == nil {
		return
	}
	if ll, ok := l.(LeveledLogger); ok {
		ll.Infof(format, v...)
		return
	}
	l.Printf(format, v...)
}

// Warnf logs at warn level.
func Warnf(l Logger, format string, v ...interface{}) {
	if l == nil {
		return
	}
	if ll, ok := l.(LeveledLogger); ok {
		ll.Warnf(format, v...)
		return
	}
	l.Printf("WARN "+format, v...)
}

// Errorf logs at error level.
func Errorf(l Logger, format string, v ...interface{}) {
	if l == nil {
		return
	}
	if ll, ok := l.(LeveledLogger); ok {
		ll.Errorf(format, v...)
		return
	}
	l.Printf("ERROR "+format, v...)
}

// zapLogger adapts a zap logger to the SDK logger interfaces.
type zapLogger struct {
	s *zap.SugaredLogger
}

// FromZap wraps z. A nil z yields a no-op logger.
func FromZap(z *zap.Logger) LeveledLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &zapLogger{s: z.Sugar()}
}

func (l *zapLogger) Printf(format string, v ...interface{}) { l.s.Infof(format, v...) }
func (l *zapLogger) Debugf(format string, v ...interface{}) { l.s.Debugf(format, v...) }
func (l *zapLogger) Infof(format string, v ...interface{})  { l.s.Infof(format, v...) }
func (l *zapLogger) Warnf(format string, v ...interface{})  { l.s.Warnf(format, v...) }
func (l *zapLogger) Errorf(format string, v ...interface{}) { l.s.Errorf(format, v...) }

// FormatKV renders alternating keys and values as " k=v k2=v2".
func FormatKV(keysAndValues ...interface{}) string {
	if len(keysAndValues) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		b.WriteString(" ")
		key := keysAndValues[i]
		val := "(missing)"
		if i+1 < len(keysAndValues) {
			val = fmt.Sprintf("%v", keysAndValues[i+1])
		}
		b.WriteString(fmt.Sprintf("%v=%v", key, val))
	}
	return b.String()
}
