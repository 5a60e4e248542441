// Package logger writes the editor's diagnostics to a log file through zap.
// Packages log through a Named logger so each line carries its component.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	L       *zap.Logger
	S       *zap.SugaredLogger
	logFile *os.File
)

// Init initializes the global logger.
// Logs are written to ~/.config/nedit/nedit.log unless overridden by the environment.
func Init(debug bool) error {
	logPath, err := getLogPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return err
	}

	// Truncated on each run
	logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(logFile),
		level,
	)

	// Skip one frame so callers of Debug/Info/... are reported instead of this file.
	L = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	S = L.Sugar()

	S.Infow("logger initialized", "path", logPath, "debug", debug)
	return nil
}

// Close flushes and closes the logger.
func Close() error {
	var err error
	if L != nil {
		_ = L.Sync()
	}
	if logFile != nil {
		err = logFile.Close()
		logFile = nil
	}
	L, S = nil, nil
	return err
}

func getLogPath() (string, error) {
	if v := os.Getenv("NEDIT_LOG_FILE"); v != "" {
		return v, nil
	}
	if v := os.Getenv("NEDIT_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "nedit.log"), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "nedit", "nedit.log"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nedit", "nedit.log"), nil
}

// Convenience functions; all of them are no-ops until Init succeeds.

func Debug(msg string, keysAndValues ...interface{}) {
	if S != nil {
		S.Debugw(msg, keysAndValues...)
	}
}

func Info(msg string, keysAndValues ...interface{}) {
	if S != nil {
		S.Infow(msg, keysAndValues...)
	}
}

func Warn(msg string, keysAndValues ...interface{}) {
	if S != nil {
		S.Warnw(msg, keysAndValues...)
	}
}

func Error(msg string, keysAndValues ...interface{}) {
	if S != nil {
		S.Errorw(msg, keysAndValues...)
	}
}

// Log is a component logger. It resolves the global logger on every call, so
// one created in a package var before Init starts writing once Init succeeds.
type Log struct {
	name string
}

func Named(name string) Log {
	return Log{name: name}
}

func (l Log) sugar() *zap.SugaredLogger {
	if S == nil {
		return nil
	}
	return S.Named(l.name)
}

func (l Log) Debug(msg string, keysAndValues ...interface{}) {
	if s := l.sugar(); s != nil {
		s.Debugw(msg, keysAndValues...)
	}
}

func (l Log) Info(msg string, keysAndValues ...interface{}) {
	if s := l.sugar(); s != nil {
		s.Infow(msg, keysAndValues...)
	}
}

func (l Log) Warn(msg string, keysAndValues ...interface{}) {
	if s := l.sugar(); s != nil {
		s.Warnw(msg, keysAndValues...)
	}
}

func (l Log) Error(msg string, keysAndValues ...interface{}) {
	if s := l.sugar(); s != nil {
		s.Errorw(msg, keysAndValues...)
	}
}
