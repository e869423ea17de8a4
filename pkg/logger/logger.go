package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var l *zap.SugaredLogger = zap.NewNop().Sugar()

// Init 初始化全局日志，level: debug/info/warn/error
func Init(level string) error {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	l = logger.Sugar()
	return nil
}

func Debugf(format string, args ...interface{}) { l.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { l.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { l.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { l.Errorf(format, args...) }

// Sync 刷新日志缓冲区，进程退出前调用
func Sync() error {
	return l.Sync()
}
