package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"sol-paper-ledger/internal/models"
)

var log *zap.Logger

// InitLogger initializes the zap logger from the log configuration.
func InitLogger(cfg models.LogConfig) {
	logLevel := zap.NewAtomicLevel()
	if err := logLevel.UnmarshalText([]byte(cfg.Level)); err != nil {
		logLevel.SetLevel(zap.InfoLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)

	var cores []zapcore.Core

	output := strings.ToLower(cfg.Output)
	if output == "file" || output == "both" {
		// lumberjack handles rotation of the log file.
		lumberjackLogger := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		fileWriter := zapcore.AddSync(lumberjackLogger)
		cores = append(cores, zapcore.NewCore(consoleEncoder, fileWriter, logLevel))
	}

	if output == "console" || output == "both" {
		consoleWriter := zapcore.AddSync(os.Stderr)
		cores = append(cores, zapcore.NewCore(consoleEncoder, consoleWriter, logLevel))
	}

	// Fall back to console output on a misconfigured output mode.
	if len(cores) == 0 {
		consoleWriter := zapcore.AddSync(os.Stderr)
		cores = append(cores, zapcore.NewCore(consoleEncoder, consoleWriter, logLevel))
	}

	core := zapcore.NewTee(cores...)
	log = zap.New(core, zap.AddCaller())
}

// L returns the global logger instance.
func L() *zap.Logger {
	if log == nil {
		// Emergency logger if InitLogger was never called.
		l, _ := zap.NewDevelopment()
		return l
	}
	return log
}

// S returns the global sugared logger instance.
func S() *zap.SugaredLogger {
	return L().Sugar()
}
