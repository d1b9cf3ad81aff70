package qpdf

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/qpdf-go/engine"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the qpdf package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the logger of this package and of the engine package.
// This must be called before any documents are opened.
func SetLogger(l *zap.Logger) {
	logger = l
	engine.SetLogger(l.Named("engine"))
}
