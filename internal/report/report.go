// Package report turns setup instances into plain snapshots and renders
// them as text, JSON or YAML.
package report

import (
	"fmt"
	"time"

	"github.com/wippyai/vssetup/com"
	"github.com/wippyai/vssetup/setup"
)

// Instance is a snapshot of one installation. Optional blocks are nil
// when the service does not support the interface behind them.
type Instance struct {
	DisplayName         string        `json:"displayName" yaml:"displayName"`
	Description         string        `json:"description" yaml:"description"`
	InstanceID          string        `json:"instanceId" yaml:"instanceId"`
	InstallDate         uint64        `json:"installDate" yaml:"installDate"`
	InstalledAt         time.Time     `json:"installedAt" yaml:"installedAt"`
	InstallationName    string        `json:"installationName" yaml:"installationName"`
	InstallationPath    string        `json:"installationPath" yaml:"installationPath"`
	InstallationVersion string        `json:"installationVersion" yaml:"installationVersion"`
	State               string        `json:"state" yaml:"state"`
	StateFlags          uint32        `json:"stateFlags" yaml:"stateFlags"`
	EnginePath          string        `json:"enginePath" yaml:"enginePath"`
	ProductPath         string        `json:"productPath" yaml:"productPath"`
	Launchable          bool          `json:"isLaunchable" yaml:"isLaunchable"`
	Complete            bool          `json:"isComplete" yaml:"isComplete"`
	Product             *Product      `json:"product,omitempty" yaml:"product,omitempty"`
	PropertyStore       Properties    `json:"propertyStore,omitempty" yaml:"propertyStore,omitempty"`
	Properties          Properties    `json:"properties,omitempty" yaml:"properties,omitempty"`
	Catalog             *Catalog      `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Packages            []Package     `json:"packages,omitempty" yaml:"packages,omitempty"`
	Errors              *ErrorSummary `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Package is a snapshot of a package reference.
type Package struct {
	ID          string `json:"id" yaml:"id"`
	UniqueID    string `json:"uniqueId" yaml:"uniqueId"`
	Version     string `json:"version" yaml:"version"`
	Type        string `json:"type" yaml:"type"`
	Branch      string `json:"branch" yaml:"branch"`
	Chip        string `json:"chip" yaml:"chip"`
	IsExtension bool   `json:"isExtension" yaml:"isExtension"`
	Language    string `json:"language" yaml:"language"`
}

// Product is the product package of an instance.
type Product struct {
	Package            `yaml:",inline"`
	IsInstalled        bool `json:"isInstalled" yaml:"isInstalled"`
	SupportsExtensions bool `json:"supportsExtensions" yaml:"supportsExtensions"`
}

// Catalog is the catalog an instance was installed from.
type Catalog struct {
	IsPrerelease bool       `json:"isPrerelease" yaml:"isPrerelease"`
	Info         Properties `json:"info,omitempty" yaml:"info,omitempty"`
}

// ErrorSummary describes why an instance is incomplete.
type ErrorSummary struct {
	ErrorLogFilePath string          `json:"errorLogFilePath" yaml:"errorLogFilePath"`
	LogFilePath      string          `json:"logFilePath" yaml:"logFilePath"`
	Failed           []FailedPackage `json:"failedPackages,omitempty" yaml:"failedPackages,omitempty"`
	Skipped          []Package       `json:"skippedPackages,omitempty" yaml:"skippedPackages,omitempty"`
	RuntimeError     *RuntimeError   `json:"runtimeError,omitempty" yaml:"runtimeError,omitempty"`
}

// FailedPackage is a package that failed to install.
type FailedPackage struct {
	Package     `yaml:",inline"`
	LogFilePath string    `json:"logFilePath" yaml:"logFilePath"`
	Description string    `json:"description" yaml:"description"`
	Signature   string    `json:"signature" yaml:"signature"`
	Details     []string  `json:"details,omitempty" yaml:"details,omitempty"`
	Affected    []Package `json:"affectedPackages,omitempty" yaml:"affectedPackages,omitempty"`
	Action      string    `json:"action" yaml:"action"`
	ReturnCode  string    `json:"returnCode" yaml:"returnCode"`
}

// RuntimeError is the error that stopped the installer.
type RuntimeError struct {
	HResult   string `json:"hresult" yaml:"hresult"`
	ClassName string `json:"className" yaml:"className"`
	Message   string `json:"message" yaml:"message"`
}

// Options controls what Collect reads.
type Options struct {
	LCID     com.LCID
	Packages bool
	// Errors reads the error state of incomplete instances.
	Errors bool
}

// reader keeps the first error so a run of getters can be written
// without checking each one.
type reader struct {
	err error
}

func get[T any](r *reader, what string, fn func() (T, error)) T {
	var zero T
	if r.err != nil {
		return zero
	}
	v, err := fn()
	if err != nil {
		r.err = fmt.Errorf("%s: %w", what, err)
		return zero
	}
	return v
}

// optional runs fn and drops an E_NOINTERFACE failure. It reports
// whether the block should be kept.
func optional(r *reader, what string, fn func() error) bool {
	if r.err != nil {
		return false
	}
	err := fn()
	switch {
	case err == nil:
		return true
	case setup.IsUnsupported(err):
		return false
	default:
		r.err = fmt.Errorf("%s: %w", what, err)
		return false
	}
}

// Collect reads a snapshot of inst. Handles opened on the way are closed
// before it returns; inst itself stays open.
func Collect(inst *setup.Instance, opts Options) (*Instance, error) {
	r := &reader{}
	out := &Instance{
		DisplayName: get(r, "display name", func() (string, error) { return inst.DisplayName(opts.LCID) }),
		Description: get(r, "description", func() (string, error) { return inst.Description(opts.LCID) }),
		InstanceID:  get(r, "instance id", inst.InstanceID),
	}
	if ft := get(r, "install date", inst.InstallDate); r.err == nil {
		out.InstallDate = ft.Uint64()
		out.InstalledAt = ft.Time()
	}
	out.InstallationName = get(r, "installation name", inst.InstallationName)
	out.InstallationPath = get(r, "installation path", inst.InstallationPath)
	out.InstallationVersion = get(r, "installation version", inst.InstallationVersion)
	if state := get(r, "state", inst.State); r.err == nil {
		out.State = state.String()
		out.StateFlags = uint32(state)
	}
	out.EnginePath = get(r, "engine path", inst.EnginePath)
	out.ProductPath = get(r, "product path", inst.ProductPath)
	out.Launchable = get(r, "launchable", inst.IsLaunchable)
	out.Complete = get(r, "complete", inst.IsComplete)

	optional(r, "product", func() error {
		p, err := inst.Product()
		if err != nil || p == nil {
			return err
		}
		defer p.Close()
		out.Product, err = product(p)
		return err
	})
	optional(r, "property store", func() error {
		s, err := inst.PropertyStore()
		if err != nil {
			return err
		}
		defer s.Close()
		out.PropertyStore, err = properties(s)
		return err
	})
	optional(r, "properties", func() error {
		s, err := inst.Properties()
		if err != nil || s == nil {
			return err
		}
		defer s.Close()
		out.Properties, err = properties(s)
		return err
	})
	optional(r, "catalog", func() error {
		c, err := inst.Catalog()
		if err != nil {
			return err
		}
		defer c.Close()
		out.Catalog, err = catalog(c)
		return err
	})
	if opts.Packages {
		optional(r, "packages", func() error {
			pkgs, err := inst.Packages()
			if err != nil {
				return err
			}
			defer closeAll(pkgs)
			out.Packages, err = packages(pkgs)
			return err
		})
	}
	if opts.Errors && !out.Complete {
		optional(r, "errors", func() error {
			e, err := inst.Errors()
			if err != nil || e == nil {
				return err
			}
			defer e.Close()
			out.Errors, err = errorSummary(e)
			return err
		})
	}

	if r.err != nil {
		return nil, r.err
	}
	return out, nil
}

func closeAll[T interface{ Close() error }](items []T) {
	for _, item := range items {
		_ = item.Close()
	}
}

func pkg(p *setup.PackageReference) (Package, error) {
	r := &reader{}
	out := Package{
		ID:          get(r, "id", p.ID),
		UniqueID:    get(r, "unique id", p.UniqueID),
		Version:     get(r, "version", p.Version),
		Type:        get(r, "type", p.Type),
		Branch:      get(r, "branch", p.Branch),
		Chip:        get(r, "chip", p.Chip),
		IsExtension: get(r, "is extension", p.IsExtension),
		Language:    get(r, "language", p.Language),
	}
	return out, r.err
}

func packages(refs []*setup.PackageReference) ([]Package, error) {
	out := make([]Package, 0, len(refs))
	for _, ref := range refs {
		p, err := pkg(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func product(p *setup.ProductReference) (*Product, error) {
	base, err := pkg(&p.PackageReference)
	if err != nil {
		return nil, err
	}
	r := &reader{}
	out := &Product{
		Package:            base,
		IsInstalled:        get(r, "is installed", p.IsInstalled),
		SupportsExtensions: get(r, "supports extensions", p.SupportsExtensions),
	}
	return out, r.err
}

func properties(s *setup.PropertyStore) (Properties, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	return Properties(all), nil
}

func catalog(c *setup.Catalog) (*Catalog, error) {
	pre, err := c.IsPrerelease()
	if err != nil {
		return nil, err
	}
	out := &Catalog{IsPrerelease: pre}
	info, err := c.Info()
	if err != nil || info == nil {
		return out, err
	}
	defer info.Close()
	out.Info, err = properties(info)
	return out, err
}

func errorSummary(e *setup.ErrorState) (*ErrorSummary, error) {
	r := &reader{}
	out := &ErrorSummary{
		ErrorLogFilePath: get(r, "error log", e.ErrorLogFilePath),
		LogFilePath:      get(r, "log", e.LogFilePath),
	}
	if failed := get(r, "failed packages", e.FailedPackages); r.err == nil {
		defer closeAll(failed)
		for _, f := range failed {
			fp := get(r, "failed package", func() (FailedPackage, error) { return failedPackage(f) })
			out.Failed = append(out.Failed, fp)
		}
	}
	if skipped := get(r, "skipped packages", e.SkippedPackages); r.err == nil {
		defer closeAll(skipped)
		out.Skipped = get(r, "skipped package", func() ([]Package, error) { return packages(skipped) })
	}
	optional(r, "runtime error", func() error {
		info, err := e.RuntimeError()
		if err != nil || info == nil {
			return err
		}
		defer info.Close()
		ir := &reader{}
		out.RuntimeError = &RuntimeError{
			HResult:   get(ir, "hresult", info.HResult).String(),
			ClassName: get(ir, "class name", info.ClassName),
			Message:   get(ir, "message", info.Message),
		}
		return ir.err
	})
	if r.err != nil {
		return nil, r.err
	}
	return out, nil
}

func failedPackage(f *setup.FailedPackageReference) (FailedPackage, error) {
	base, err := pkg(&f.PackageReference)
	if err != nil {
		return FailedPackage{}, err
	}
	r := &reader{}
	out := FailedPackage{
		Package:     base,
		LogFilePath: get(r, "log", f.LogFilePath),
		Description: get(r, "description", f.Description),
		Signature:   get(r, "signature", f.Signature),
		Details:     get(r, "details", f.Details),
		Action:      get(r, "action", f.Action),
		ReturnCode:  get(r, "return code", f.ReturnCode),
	}
	if affected := get(r, "affected packages", f.AffectedPackages); r.err == nil {
		defer closeAll(affected)
		out.Affected = get(r, "affected package", func() ([]Package, error) { return packages(affected) })
	}
	return out, r.err
}
