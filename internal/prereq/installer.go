package prereq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/wippyai/vssetup/errors"
)

// Runner starts an external program and waits for it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.PhaseExec, errors.KindUnexpected, err, name)
	}
	return nil
}

// Plan is the outcome of a check: the chosen candidate and what it lacks.
type Plan struct {
	Candidate Candidate
	// Found lists the components already present.
	Found []string
	// SDKVersion is the installed Windows SDK, empty when none was found.
	SDKVersion string

	MissingMSVC bool
	MissingSDK  bool
	// Add lists the components to install.
	Add []string
}

// Complete reports whether nothing needs to be installed.
func (p *Plan) Complete() bool {
	return !p.MissingMSVC && !p.MissingSDK
}

// Installer drives the Visual Studio installer.
type Installer struct {
	Runner Runner
	Arch   string
	// FindSDK reports the installed Windows SDK version. Defaults to
	// InstalledSDK.
	FindSDK func(arch string) (string, bool)
	// TempDir holds the export file. Defaults to os.TempDir.
	TempDir string
	Logger  *zap.Logger
}

func (in *Installer) logger() *zap.Logger {
	if in.Logger == nil {
		return zap.NewNop()
	}
	return in.Logger
}

// Check ranks cands, picks the best and reports what it lacks.
func (in *Installer) Check(cands []Candidate) (*Plan, error) {
	if len(cands) == 0 {
		return nil, ErrNoInstance
	}
	Rank(cands)
	best := cands[0]
	plan := &Plan{Candidate: best}

	if best.MSVC != "" {
		plan.Found = append(plan.Found, best.MSVC)
	}
	findSDK := in.FindSDK
	if findSDK == nil {
		findSDK = InstalledSDK
	}
	if v, ok := findSDK(in.Arch); ok {
		plan.SDKVersion = v
	}
	plan.MissingMSVC = best.MSVC == ""
	plan.MissingSDK = plan.SDKVersion == ""
	return plan, nil
}

// Resolve fills plan.Add. A missing SDK is chosen from the components
// the installer's export offers for the product.
func (in *Installer) Resolve(ctx context.Context, plan *Plan) error {
	plan.Add = nil
	if plan.MissingMSVC {
		plan.Add = append(plan.Add, ToolsetFor(in.Arch))
	}
	if plan.MissingSDK {
		ids, err := in.Export(ctx, plan.Candidate)
		if err != nil {
			return err
		}
		sdk, ok := HighestSDK(ids)
		if !ok {
			return errors.NotFound(errors.PhaseExec, "component", "Windows SDK")
		}
		plan.Add = append(plan.Add, sdk.ID)
	}
	in.logger().Debug("install plan",
		zap.String("product", plan.Candidate.Product.String()),
		zap.String("path", plan.Candidate.InstallPath),
		zap.Strings("add", plan.Add))
	return nil
}

// ExportArgs returns the installer arguments that write the components
// available to c into config.
func ExportArgs(c Candidate, config string) []string {
	return []string{
		"export", "--quiet", "--noUpdateInstaller", "--noWeb",
		"--config", config,
		"--installPath", c.InstallPath,
		"--productId", c.Product.ID(),
		"--add", c.Product.Workload(),
		"--includeRecommended",
		"--includeOptional",
	}
}

// ModifyArgs returns the installer arguments that add components to c.
func ModifyArgs(c Candidate, components []string) []string {
	args := []string{
		"modify",
		"--installPath", c.InstallPath,
		"--focusedUi",
		"--addProductLang", "En-us",
	}
	for _, id := range components {
		args = append(args, "--add", id)
	}
	return args
}

// vsconfig is the file written by the installer's export command.
type vsconfig struct {
	Version    string   `json:"version"`
	Components []string `json:"components"`
}

// Export runs the installer's export command and returns the component
// ids it lists.
func (in *Installer) Export(ctx context.Context, c Candidate) ([]string, error) {
	f, err := os.CreateTemp(in.TempDir, "vsconfig-*.json")
	if err != nil {
		return nil, errors.Wrap(errors.PhaseExec, errors.KindUnexpected, err, "create export file")
	}
	path := f.Name()
	_ = f.Close()
	defer os.Remove(path)

	in.logger().Debug("exporting components", zap.String("setup", c.SetupPath), zap.String("config", path))
	if err := in.Runner.Run(ctx, c.SetupPath, ExportArgs(c, path)...); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseExec, errors.KindNotFound, err, "read export file")
	}
	if len(data) == 0 {
		// The installer leaves the file empty when another instance of it
		// is running.
		return nil, errors.InvalidData(errors.PhaseExec, "export file is empty; is the installer already running?", nil)
	}
	var cfg vsconfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.InvalidData(errors.PhaseExec, "parse export file", err)
	}
	return cfg.Components, nil
}

// Install runs the installer's modify command for plan.
func (in *Installer) Install(ctx context.Context, plan *Plan) error {
	if len(plan.Add) == 0 {
		return nil
	}
	c := plan.Candidate
	in.logger().Info("running installer", zap.String("setup", c.SetupPath), zap.Strings("add", plan.Add))
	if err := in.Runner.Run(ctx, c.SetupPath, ModifyArgs(c, plan.Add)...); err != nil {
		return fmt.Errorf("modify %s: %w", c.InstallPath, err)
	}
	return nil
}
