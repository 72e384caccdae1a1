package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/vssetup/errors"
)

// Environment variables read by Load.
const (
	EnvLocale    = "VSSETUP_LOCALE"
	EnvFormat    = "VSSETUP_FORMAT"
	EnvAll       = "VSSETUP_ALL"
	EnvPackages  = "VSSETUP_PACKAGES"
	EnvArch      = "VSSETUP_ARCH"
	EnvLogLevel  = "VSSETUP_LOG_LEVEL"
	EnvLogFormat = "VSSETUP_LOG_FORMAT"
)

// Loader reads a Config from a file and the environment.
type Loader struct {
	// Path is the YAML file. Empty skips the file.
	Path string
	// Required makes a missing file an error. The default path is
	// optional; a path given explicitly is not.
	Required bool
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// Logger records where each override came from.
	Logger *zap.Logger
}

// NewLoader returns a loader for path.
func NewLoader(path string, required bool) *Loader {
	return &Loader{Path: path, Required: required}
}

// Load applies defaults, then the file, then the environment. The result
// is not validated; callers apply their flag overrides first and then call
// Validate.
func (l *Loader) Load() (Config, error) {
	cfg := Default()
	log := l.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if l.Path != "" {
		file, err := l.loadFile(l.Path)
		switch {
		case err == nil:
			log.Debug("config file loaded", zap.String("path", l.Path))
			file.merge(&cfg)
		case !l.Required && stderrors.Is(err, fs.ErrNotExist):
			log.Debug("no config file", zap.String("path", l.Path))
		default:
			return cfg, err
		}
	}

	if err := l.mergeEnv(&cfg, log); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// fileConfig mirrors Config with pointers so unset keys keep their
// defaults.
type fileConfig struct {
	Locale   *string `yaml:"locale"`
	Format   *string `yaml:"format"`
	All      *bool   `yaml:"all"`
	Packages *bool   `yaml:"packages"`
	Arch     *string `yaml:"arch"`
	Log      struct {
		Level  *string `yaml:"level"`
		Format *string `yaml:"format"`
	} `yaml:"log"`
}

func (f *fileConfig) merge(cfg *Config) {
	set(&cfg.Locale, f.Locale)
	set(&cfg.Format, f.Format)
	set(&cfg.All, f.All)
	set(&cfg.Packages, f.Packages)
	set(&cfg.Arch, f.Arch)
	set(&cfg.Log.Level, f.Log.Level)
	set(&cfg.Log.Format, f.Log.Format)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (l *Loader) loadFile(path string) (*fileConfig, error) {
	path = filepath.Clean(path)
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".yaml" && ext != ".yml" {
		return nil, errors.InvalidData(errors.PhaseConfig, "unsupported config format "+ext+" (only YAML)", nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read "+path)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		if err == io.EOF {
			return &fc, nil
		}
		return nil, errors.InvalidData(errors.PhaseConfig, "parse "+path, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.InvalidData(errors.PhaseConfig, path+" contains more than one document", nil)
	}
	return &fc, nil
}

func (l *Loader) lookup(key string) (string, bool) {
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, ok := lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (l *Loader) mergeEnv(cfg *Config, log *zap.Logger) error {
	for _, s := range []struct {
		key string
		dst *string
	}{
		{EnvLocale, &cfg.Locale},
		{EnvFormat, &cfg.Format},
		{EnvArch, &cfg.Arch},
		{EnvLogLevel, &cfg.Log.Level},
		{EnvLogFormat, &cfg.Log.Format},
	} {
		if v, ok := l.lookup(s.key); ok {
			log.Debug("using environment variable", zap.String("key", s.key), zap.String("value", v))
			*s.dst = v
		}
	}
	for _, b := range []struct {
		key string
		dst *bool
	}{
		{EnvAll, &cfg.All},
		{EnvPackages, &cfg.Packages},
	} {
		v, ok := l.lookup(b.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return invalid(b.key, v, err)
		}
		log.Debug("using environment variable", zap.String("key", b.key), zap.Bool("value", parsed))
		*b.dst = parsed
	}
	return nil
}
