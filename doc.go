// Package vssetup reads the Visual Studio setup configuration on Windows.
//
// The Visual Studio installer records every installation it manages in a
// COM service. This module binds that service and ships a command-line tool
// built on it:
//
//	vssetup/             Root package with the With helper
//	├── setup/           Configuration, instances, packages, property stores
//	│   └── setuptest/   In-memory service for tests
//	├── com/             Apartment lifecycle, HRESULT, GUID, VARIANT, FILETIME
//	├── abi/             Go mirror of the vendor interfaces
//	├── resource/        Handle table that releases native references once
//	├── errors/          Structured errors carrying the native HRESULT
//	└── cmd/vssetup/     list, browse, prereq and parse-version commands
//
// # Quick Start
//
// With initialises COM on a dedicated thread, opens the configuration and
// releases everything when fn returns:
//
//	err := vssetup.With(ctx, func(cfg *setup.Configuration) error {
//	    for inst, err := range cfg.Instances(false) {
//	        if err != nil {
//	            return err
//	        }
//	        path, err := inst.InstallationPath()
//	        if err != nil {
//	            return err
//	        }
//	        fmt.Println(path)
//	    }
//	    return nil
//	})
//
// # Errors
//
// Failures from the service come back as *errors.Error with the HRESULT as
// the cause, so errors.As(err, &hr) recovers the exact native code.
// On platforms other than Windows every call fails with E_NOTIMPL.
//
// # Thread Safety
//
// A Configuration and everything obtained from it must be used from the
// goroutine that opened it. With takes care of this; callers that manage
// COM themselves should use com.Enter.
package vssetup
