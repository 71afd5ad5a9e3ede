package ringlog

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Logger is a convenience facade over a Runtime and a Producer, offering
// the familiar severity-gated Debug/Info/Warn/Error/Fatal surface on top of
// the tagged-frame core. It registers tagPrintf on first use per Runtime —
// callers mixing Logger with their own RegisterDispatch calls only need to
// avoid tag 1.
//
// A Logger is not safe for concurrent use by multiple goroutines, for the
// same reason a Producer isn't: create one Logger per goroutine that logs,
// sharing a single Runtime underneath.
type Logger struct {
	rt       *Runtime
	producer *Producer
	level    atomic.Int32
}

// NewLogger creates a Logger backed by rt, allocating a fresh Producer.
// RegisterDispatch for tagPrintf is called idempotently the first time any
// Logger is created against rt.
func NewLogger(rt *Runtime) *Logger {
	_ = rt.RegisterDispatch(tagPrintf, dispatchPrintf) // ErrInvalidConfig on duplicate is expected after the first Logger
	l := &Logger{rt: rt, producer: rt.NewProducer()}
	l.level.Store(int32(DEBUG))
	return l
}

// SetLevel updates the minimum severity this Logger will emit.
func (l *Logger) SetLevel(level Severity) {
	l.level.Store(int32(level))
}

func (l *Logger) enabled(level Severity) bool {
	return level >= Severity(l.level.Load())
}

func (l *Logger) emit(level Severity, format string, args []any) {
	if !l.enabled(level) {
		return
	}
	encoded := encodeArgs(format, args)
	frame, err := l.producer.AllocateFrame(tagPrintf, len(encoded))
	if err != nil {
		return
	}
	copy(frame, encoded)
	_ = l.producer.Commit()

	if level == FATAL {
		_ = l.rt.Shutdown(context.Background())
	}
}

func (l *Logger) Debug(v ...any)                 { l.emit(DEBUG, sprintFormat(len(v)), v) }
func (l *Logger) Info(v ...any)                  { l.emit(INFO, sprintFormat(len(v)), v) }
func (l *Logger) Warn(v ...any)                  { l.emit(WARN, sprintFormat(len(v)), v) }
func (l *Logger) Error(v ...any)                 { l.emit(ERROR, sprintFormat(len(v)), v) }
func (l *Logger) Fatal(v ...any)                 { l.emit(FATAL, sprintFormat(len(v)), v) }
func (l *Logger) Debugf(format string, v ...any) { l.emit(DEBUG, format, v) }
func (l *Logger) Infof(format string, v ...any)  { l.emit(INFO, format, v) }
func (l *Logger) Warnf(format string, v ...any)  { l.emit(WARN, format, v) }
func (l *Logger) Errorf(format string, v ...any) { l.emit(ERROR, format, v) }
func (l *Logger) Fatalf(format string, v ...any) { l.emit(FATAL, format, v) }

// DebugWithFields, InfoWithFields, and friends append a rendered field map
// to the message, matching the teacher's *WithFields surface. Field
// rendering happens eagerly on the calling goroutine (map iteration order
// isn't worth deferring) — only the message body itself is deferred to the
// consumer, unlike Debugf/Infof/etc. which defer everything.
func (l *Logger) DebugWithFields(fields map[string]any, v ...any) {
	l.emitWithFields(DEBUG, sprintFormat(len(v)), v, fields)
}
func (l *Logger) InfoWithFields(fields map[string]any, v ...any) {
	l.emitWithFields(INFO, sprintFormat(len(v)), v, fields)
}
func (l *Logger) WarnWithFields(fields map[string]any, v ...any) {
	l.emitWithFields(WARN, sprintFormat(len(v)), v, fields)
}
func (l *Logger) ErrorWithFields(fields map[string]any, v ...any) {
	l.emitWithFields(ERROR, sprintFormat(len(v)), v, fields)
}
func (l *Logger) FatalWithFields(fields map[string]any, v ...any) {
	l.emitWithFields(FATAL, sprintFormat(len(v)), v, fields)
}

func (l *Logger) emitWithFields(level Severity, format string, args []any, fields map[string]any) {
	if !l.enabled(level) {
		return
	}
	rendered := renderFields(fields)
	if rendered != "" {
		format += " %s"
		args = append(append([]any{}, args...), rendered)
	}
	l.emit(level, format, args)
}

func renderFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	s := "{"
	first := true
	for k, v := range fields {
		if !first {
			s += ", "
		}
		first = false
		s += fmt.Sprintf("%s=%v", k, v)
	}
	return s + "}"
}

// sprintFormat builds a format string of n "%v" placeholders separated by
// single spaces, giving
// Debug/Info/Warn/Error/Fatal the same fmt.Sprint-like space-separated
// concatenation behavior the teacher's variadic methods have, without
// calling fmt.Sprint on the calling goroutine.
func sprintFormat(n int) string {
	if n == 0 {
		return ""
	}
	b := make([]byte, 0, 3*n)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, '%', 'v')
	}
	return string(b)
}
