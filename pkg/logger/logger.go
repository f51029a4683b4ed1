package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewNamed creates a zap logger named after the service. Development gets
// console output; everything else gets production JSON with ISO8601
// timestamps.
func NewNamed(appEnv, service string) (*zap.Logger, error) {
	if appEnv == "development" {
		log, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		return log.Named(service), nil
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	config := zap.NewProductionConfig()
	config.EncoderConfig = encoderConfig

	log, err := config.Build()
	if err != nil {
		return nil, err
	}
	return log.Named(service), nil
}
