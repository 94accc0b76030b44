// Package testutil holds helpers shared across test packages.
package testutil

import (
	"io"

	"github.com/okorneva/cloudstore/internal/logger"
)

// MakeNoopLogger returns a Logger that discards everything.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
