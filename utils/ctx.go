package utils

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const (
	loggerKey ctxKey = "ROS_LOGGER"
	logIDKey  ctxKey = "ROS_LOG_ID"
	fieldsKey ctxKey = "ROS_LOG_FIELDS"
)

// NewCtx 返回一个已放入logger的ctx，用来传递给CtxInfo
func NewCtx(logger *logrus.Logger, logID uint16) context.Context {
	ctx := context.Background()
	if logger != nil {
		ctx = context.WithValue(ctx, loggerKey, logger)
	}
	ctx = context.WithValue(ctx, logIDKey, logID)
	return ctx
}

// WithFields 在ctx内追加用于打印日志的fields，同名field会被覆盖
func WithFields(ctx context.Context, fields logrus.Fields) context.Context {
	merged := logrus.Fields{}
	if val, ok := ctx.Value(fieldsKey).(logrus.Fields); ok {
		for k, v := range val {
			merged[k] = v
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, fieldsKey, merged)
}

// Logger 返回ctx内的logger，没有时返回标准logger
func Logger(ctx context.Context) *logrus.Logger {
	if val, ok := ctx.Value(loggerKey).(*logrus.Logger); ok {
		return val
	}
	return logrus.StandardLogger()
}
