// Package zlog adapts github.com/rs/zerolog to winjector.Logger, mirroring
// the teacher's logiface-zerolog sibling package's role of wrapping a
// zerolog.Logger behind a smaller logging interface.
package zlog

import (
	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger as a winjector.Logger.
type Logger struct {
	z zerolog.Logger
}

// New wraps z as a winjector.Logger.
func New(z zerolog.Logger) *Logger { return &Logger{z: z} }

func (l *Logger) event(e *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}

func (l *Logger) Debug(msg string, kv ...any) { l.event(l.z.Debug(), msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.event(l.z.Info(), msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.event(l.z.Warn(), msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.event(l.z.Error(), msg, kv) }
