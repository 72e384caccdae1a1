package vssetup

import (
	"context"

	"github.com/wippyai/vssetup/com"
	"github.com/wippyai/vssetup/setup"
)

// runApartment runs fn on a thread with COM initialised.
var runApartment = com.Run

// With opens the setup configuration on a thread with COM initialised in
// the multithreaded apartment and calls fn with it. The configuration and
// every handle obtained through it are released before With returns,
// whether fn succeeds or fails.
func With(ctx context.Context, fn func(*setup.Configuration) error, opts ...setup.Option) error {
	return runApartment(ctx, com.MultiThreaded, func(ctx context.Context) error {
		cfg, err := setup.New(opts...)
		if err != nil {
			return err
		}
		defer cfg.Close()
		return fn(cfg)
	})
}
