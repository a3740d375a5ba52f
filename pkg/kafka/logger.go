package kafka

import (
	"go.uber.org/zap"
)

// ZapLoggerAdapter 把 kafka-go 的 printf 风格日志适配到 zap。
type ZapLoggerAdapter struct {
	l *zap.SugaredLogger
}

// NewZapLoggerAdapter 创建适配器。
func NewZapLoggerAdapter(l *zap.Logger) *ZapLoggerAdapter {
	return &ZapLoggerAdapter{l: l.Sugar()}
}

func (a *ZapLoggerAdapter) Printf(format string, args ...interface{}) {
	a.l.Infof(format, args...)
}

// ErrorLogger 返回错误级别的适配器入口，供 kafka.Reader 的 ErrorLogger 使用。
func (a *ZapLoggerAdapter) ErrorLogger() func(string, ...interface{}) {
	return func(format string, args ...interface{}) {
		a.l.Errorf(format, args...)
	}
}
