// Package setup binds the Visual Studio setup configuration service.
//
// The service is a COM server that lists installed Visual Studio
// instances. This package forwards calls to it and converts the results
// to Go values; it performs no computation of its own.
//
// # Lifetime
//
// Every object obtained from the service is owned by the Configuration
// it came from. Close on a handle releases its native reference exactly
// once; Configuration.Close releases everything still open:
//
//	err := com.Run(ctx, com.MultiThreaded, func(ctx context.Context) error {
//	    cfg, err := setup.New()
//	    if err != nil {
//	        return err
//	    }
//	    defer cfg.Close()
//
//	    for inst, err := range cfg.Instances(false) {
//	        if err != nil {
//	            return err
//	        }
//	        name, _ := inst.DisplayName(com.LocaleUserDefault)
//	        fmt.Println(name)
//	    }
//	    return nil
//	})
//
// Calls on a closed handle fail with errors.KindClosed and never reach the
// service.
//
// # Errors
//
// A failed call returns *errors.Error whose cause is the com.HRESULT the
// service produced, unchanged:
//
//	var hr com.HRESULT
//	if errors.As(err, &hr) && hr == com.E_NOTFOUND { ... }
//
// Optional results the service may omit (product, error state, properties,
// runtime error, catalog info) come back as nil with a nil error.
//
// # Threading
//
// COM must be initialized on the calling thread (com.Enter or com.Run).
// A Configuration and its handles must stay on that goroutine.
package setup
