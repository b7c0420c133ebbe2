// Package logx builds the zap logger shared by the command line tools.
package logx

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a level name to a zap level. Unknown names mean info.
// "off", "none" and "silent" report ok=false: nothing should be logged.
func ParseLevel(s string) (lvl zapcore.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	case "off", "none", "silent":
		return zapcore.InfoLevel, false
	default:
		return zapcore.InfoLevel, true
	}
}

// New returns a console logger writing to w at the named level. A nil w
// means stderr.
func New(level string, w io.Writer) *zap.Logger {
	lvl, ok := ParseLevel(level)
	if !ok {
		return zap.NewNop()
	}
	if w == nil {
		w = os.Stderr
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeCaller = nil
	enc.CallerKey = ""
	enc.StacktraceKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(zapcore.AddSync(w)),
		lvl,
	)
	return zap.New(core)
}
