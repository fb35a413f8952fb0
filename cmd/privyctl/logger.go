package main

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the CLI logger. Logs go to stderr unless a log file is
// configured.
func newLogger(s logSettings, stderr io.Writer) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	switch strings.ToLower(s.Level) {
	case "debug":
		level.SetLevel(zap.DebugLevel)
	case "info":
		level.SetLevel(zap.InfoLevel)
	case "warn", "warning", "":
		level.SetLevel(zap.WarnLevel)
	case "error":
		level.SetLevel(zap.ErrorLevel)
	default:
		return nil, fmt.Errorf("invalid log level %q: want debug, info, warn or error", s.Level)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if strings.ToLower(s.Format) == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	var ws zapcore.WriteSyncer
	if s.File != "" {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   s.File,
			MaxSize:    max(s.MaxSizeMB, 1),
			MaxBackups: 3,
			Compress:   true,
		})
	} else {
		ws = zapcore.AddSync(stderr)
	}

	return zap.New(zapcore.NewCore(encoder, ws, level)), nil
}
