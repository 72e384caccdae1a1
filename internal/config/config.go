// Package config loads the settings of the vssetup command.
//
// Values come from, in increasing precedence: built-in defaults, a YAML
// file, VSSETUP_* environment variables and command-line flags. The file
// is decoded strictly; unknown keys are an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/wippyai/vssetup/com"
	"github.com/wippyai/vssetup/errors"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the effective configuration.
type Config struct {
	// Locale is an LCID as accepted by com.ParseLCID.
	Locale string `yaml:"locale"`
	// Format is the output format of list.
	Format string `yaml:"format"`
	// All includes incomplete instances in list and browse.
	All bool `yaml:"all"`
	// Packages includes the package list of every instance.
	Packages bool `yaml:"packages"`
	// Arch selects the MSVC toolset prereq looks for: amd64 or arm64.
	Arch string `yaml:"arch"`
	Log  Log    `yaml:"log"`
}

// Log configures the diagnostic logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Locale: "user",
		Format: FormatText,
		Arch:   hostArch(),
		Log: Log{
			Level:  "warn",
			Format: "console",
		},
	}
}

func hostArch() string {
	if runtime.GOARCH == "arm64" {
		return "arm64"
	}
	return "amd64"
}

// DefaultPath returns the per-user config file location. It returns ""
// when the user config directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vssetup", "config.yaml")
}

// LCID resolves Locale.
func (c Config) LCID() (com.LCID, error) {
	return com.ParseLCID(c.Locale)
}

var (
	formats    = []string{FormatText, FormatJSON, FormatYAML}
	arches     = []string{"amd64", "arm64"}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := c.LCID(); err != nil {
		return invalid("locale", c.Locale, err)
	}
	for _, f := range []struct {
		key     string
		value   string
		allowed []string
	}{
		{"format", c.Format, formats},
		{"arch", c.Arch, arches},
		{"log.level", c.Log.Level, logLevels},
		{"log.format", c.Log.Format, logFormats},
	} {
		if !slices.Contains(f.allowed, f.value) {
			return invalid(f.key, f.value, fmt.Errorf("want one of %v", f.allowed))
		}
	}
	return nil
}

func invalid(key, value string, cause error) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(value).
		Detail("%s %q", key, value).
		Cause(cause).
		Build()
}
