package logger

import (
	"os"
	"smart_assessment_backend/internal/config"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 在 InitLogger 之前是 no-op，测试中可以直接使用
var Log = zap.NewNop()

// Level 运行时可调整的日志级别，配置热加载时通过 SetLevel 修改
var Level = zap.NewAtomicLevelAt(zap.InfoLevel)

// ParseLevel 空字符串按运行模式取默认值，无法识别的级别退回 info
func ParseLevel(name, mode string) zapcore.Level {
	name = strings.TrimSpace(name)
	if name == "" {
		if mode == "debug" {
			return zap.DebugLevel
		}
		return zap.InfoLevel
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return zap.InfoLevel
	}
	return lvl
}

func newEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// InitLogger 文件输出 JSON，控制台输出可读格式，两者共用 Level
func InitLogger(cfg *config.Config) {
	Level.SetLevel(ParseLevel(cfg.Log.Level, cfg.Server.Mode))
	encoderConfig := newEncoderConfig()

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   true,
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, Level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), Level),
	)

	Log = zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.Fields(zap.String("service", "smart-assessment")),
	)
}

// SetLevel 供配置热加载调用
func SetLevel(cfg *config.Config) {
	next := ParseLevel(cfg.Log.Level, cfg.Server.Mode)
	if Level.Level() != next {
		Log.Info("Log level changed", zap.Stringer("from", Level.Level()), zap.Stringer("to", next))
		Level.SetLevel(next)
	}
}

// Sync 刷新缓冲；stdout 在部分平台上 Sync 会报错，忽略即可
func Sync() {
	_ = Log.Sync()
}
