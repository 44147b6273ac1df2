// Package logging builds the process-wide zap logger.
// Both binaries log to stderr: for the one-shot adapter stdout is reserved
// for the JSON verdict, so nothing else may ever write there.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production zap logger tagged with the service name.
func New(service string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("service", service)), nil
}

// MustNew is New, panicking on error. Logger construction only fails on
// invalid configuration, which is a programming error here.
func MustNew(service string) *zap.Logger {
	log, err := New(service)
	if err != nil {
		panic(err)
	}
	return log
}
