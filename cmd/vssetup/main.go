// Command vssetup lists and inspects Visual Studio installations and
// checks that the native build prerequisites are in place.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/vssetup"
	"github.com/wippyai/vssetup/com"
	"github.com/wippyai/vssetup/internal/config"
	"github.com/wippyai/vssetup/internal/logging"
	"github.com/wippyai/vssetup/internal/prereq"
	"github.com/wippyai/vssetup/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, newApp(), os.Args[1:])
	stop()
	os.Exit(code)
}

// app carries the command dependencies so tests can replace them.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// with runs fn against a configuration inside a COM apartment.
	with      func(ctx context.Context, fn func(*setup.Configuration) error, opts ...setup.Option) error
	runner    prereq.Runner
	findSDK   func(arch string) (string, bool)
	lookupEnv func(string) (string, bool)
	// terminal reports whether stdin and stdout are interactive.
	terminal func() bool
	// runProgram runs a bubbletea model to completion and returns the
	// final model.
	runProgram func(m tea.Model, opts ...tea.ProgramOption) (tea.Model, error)

	configPath string
	logLevel   string
	logFormat  string

	cfg        config.Config
	log        *zap.Logger
	restoreLog func()
}

func newApp() *app {
	return &app{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		with:      vssetup.With,
		runner:    prereq.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr},
		findSDK:   prereq.InstalledSDK,
		lookupEnv: os.LookupEnv,
		terminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
		runProgram: func(m tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
			return tea.NewProgram(m, opts...).Run()
		},
		log: zap.NewNop(),
	}
}

// execute runs the command line and returns the process exit code: 0 on
// success, otherwise the HRESULT of the failure.
func execute(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if a.restoreLog != nil {
		a.restoreLog()
		a.restoreLog = nil
	}
	if err == nil {
		return 0
	}
	// The prereq command has already explained a missing installation.
	if err != prereq.ErrNoInstance {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
	return int(com.CodeOf(err))
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "vssetup",
		Short:         "Query Visual Studio installations",
		Long:          "vssetup queries the Visual Studio setup configuration service for installed instances.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: console, json")

	root.AddCommand(
		newListCmd(a),
		newInstanceCmd(a),
		newBrowseCmd(a),
		newPrereqCmd(a),
		newParseVersionCmd(a),
		newPolicyCmd(a),
	)
	return root
}

// setup loads the configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	path, required := a.configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}
	loader := config.NewLoader(path, required)
	loader.LookupEnv = a.lookupEnv

	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: a.stderr,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.log = log
	a.restoreLog = logging.Install(log)
	log.Debug("configuration loaded", zap.String("path", path), zap.String("format", cfg.Format))
	return nil
}

// applyFlags copies the flags set on cmd over cfg, so that a flag wins
// over an invalid environment or file value.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	for name, dst := range map[string]*string{
		"log-level":  &cfg.Log.Level,
		"log-format": &cfg.Log.Format,
		"format":     &cfg.Format,
		"arch":       &cfg.Arch,
		"lcid":       &cfg.Locale,
	} {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	for name, dst := range map[string]*bool{
		"all":      &cfg.All,
		"packages": &cfg.Packages,
	} {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetBool(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

// lcid resolves the --lcid flag of cmd, falling back to the configured
// locale.
func (a *app) lcid(cmd *cobra.Command) (com.LCID, error) {
	if f := cmd.Flags().Lookup("lcid"); f != nil && f.Changed {
		return com.ParseLCID(f.Value.String())
	}
	return a.cfg.LCID()
}
