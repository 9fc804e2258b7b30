package config

import (
	"context"
	"os"

	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"github.com/sirupsen/logrus"
)

var (
	logg *logrus.Logger
)

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		logg.SetLevel(logrus.DebugLevel)
	case "info":
		logg.SetLevel(logrus.InfoLevel)
	case "warn":
		logg.SetLevel(logrus.WarnLevel)
	default:
		logg.SetLevel(logrus.ErrorLevel)
	}
}

// requestFields picks the request identity out of ctx. Lines from the same
// request share a correlationId so support can grep one id across the whole
// call chain.
func requestFields(ctx context.Context, fields logrus.Fields) logrus.Fields {
	if ctx == nil {
		return fields
	}
	if cid, ok := utils.GetCorrelationIdFromContext(ctx); ok && cid != "" {
		fields["correlationId"] = cid
	}
	if username, ok := utils.GetUsernameFromContext(ctx); ok && username != "" {
		fields["username"] = username
	}
	return fields
}

func LogError(ctx context.Context, logger *logrus.Logger, moduleName string, funcName string, contextName string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  contextName,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(requestFields(ctx, fields)).Error(err.Error())
}

func LogInfo(ctx context.Context, logger *logrus.Logger, moduleName string, funcName string, msg string) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
	}
	logger.WithFields(requestFields(ctx, fields)).Info(msg)
}
