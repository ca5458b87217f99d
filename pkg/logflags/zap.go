package logflags

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(enabled bool, name string) Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:      "timestamp",
		LevelKey:     "level",
		NameKey:      "logger",
		MessageKey:   "message",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	if colored {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := zapcore.ErrorLevel
	if enabled {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(zapcore.AddSync(logOut)),
		level,
	)

	return zap.New(core, zap.AddCaller()).Named(name).Sugar()
}

// AccessLogger logs view reads and writes.
func AccessLogger() Logger {
	return newLogger(access, "access")
}

// AttachLogger logs resource open, process resolution and close.
func AttachLogger() Logger {
	return newLogger(attach, "attach")
}

// Nop discards everything.
func Nop() Logger {
	return zap.NewNop().Sugar()
}
