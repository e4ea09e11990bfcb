package log

import "go.uber.org/zap"

var logger = newDefault()

func newDefault() *zap.Logger {
	lg, _ := zap.NewProduction(zap.WithCaller(false))
	return lg
}

// 替换缺省logger（如接入上层服务已有的zap实例）
func SetLogger(lg *zap.Logger) {
	if lg != nil {
		logger = lg
	}
}

func Sync() error {
	return logger.Sync()
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}
