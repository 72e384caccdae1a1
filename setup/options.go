package setup

import (
	"go.uber.org/zap"

	"github.com/wippyai/vssetup/abi"
)

type options struct {
	factory abi.Factory
	logger  *zap.Logger
}

// Option configures New.
type Option func(*options)

// WithFactory replaces the COM class factory. Tests pass a
// setuptest.Service here.
func WithFactory(f abi.Factory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithLogger sets the logger for one configuration and its handles.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
