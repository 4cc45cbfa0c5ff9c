// Package loggertest provides loggers for tests.
package loggertest

import (
	"go.uber.org/zap/zaptest"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/logger"
)

// New creates a Logger that writes to the test's log.
func New(t zaptest.TestingT) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}
