// Package prereq finds the Visual Studio installation best suited for
// building native code and works out which of the MSVC toolset and the
// Windows SDK it still needs.
package prereq

import (
	"cmp"
	"os"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/vssetup/com"
	"github.com/wippyai/vssetup/errors"
	"github.com/wippyai/vssetup/setup"
)

// DownloadURL is where Visual Studio can be obtained.
const DownloadURL = "https://visualstudio.microsoft.com/"

// ErrNoInstance reports that no usable instance exists. Its code is
// S_FALSE.
var ErrNoInstance = errors.New(errors.PhaseQuery, errors.KindNotFound).
	Detail("Visual Studio is not installed").
	Code(com.S_FALSE).
	Build()

// Product is a Visual Studio edition. Lower values are preferred.
type Product int

const (
	ProductBuildTools Product = iota + 1
	ProductEnterprise
	ProductProfessional
	ProductCommunity
)

var productIDs = map[Product]string{
	ProductBuildTools:   "Microsoft.VisualStudio.Product.BuildTools",
	ProductEnterprise:   "Microsoft.VisualStudio.Product.Enterprise",
	ProductProfessional: "Microsoft.VisualStudio.Product.Professional",
	ProductCommunity:    "Microsoft.VisualStudio.Product.Community",
}

// ParseProduct maps a product package id to a Product.
func ParseProduct(id string) (Product, bool) {
	for p, pid := range productIDs {
		if pid == id {
			return p, true
		}
	}
	return 0, false
}

// ID returns the product package id.
func (p Product) ID() string { return productIDs[p] }

// Workload returns the C++ workload of the product.
func (p Product) Workload() string {
	if p == ProductBuildTools {
		return "Microsoft.VisualStudio.Workload.VCTools"
	}
	return "Microsoft.VisualStudio.Workload.NativeDesktop"
}

func (p Product) String() string {
	return strings.TrimPrefix(p.ID(), "Microsoft.VisualStudio.Product.")
}

// MSVC toolset component ids.
const (
	ToolsetX64   = "Microsoft.VisualStudio.Component.VC.Tools.x86.x64"
	ToolsetARM64 = "Microsoft.VisualStudio.Component.VC.Tools.ARM64"
)

// ToolsetFor returns the toolset component for a GOARCH value.
func ToolsetFor(arch string) string {
	if arch == "arm64" {
		return ToolsetARM64
	}
	return ToolsetX64
}

// SDK is a Windows SDK component.
type SDK struct {
	Version uint32
	ID      string
}

// ParseSDK recognises Microsoft.VisualStudio.Component.Windows1xSDK.<n>.
func ParseSDK(id string) (SDK, bool) {
	parts := strings.Split(id, ".")
	if len(parts) != 5 || parts[0] != "Microsoft" || parts[1] != "VisualStudio" || parts[2] != "Component" {
		return SDK{}, false
	}
	if parts[3] != "Windows10SDK" && parts[3] != "Windows11SDK" {
		return SDK{}, false
	}
	v, err := strconv.ParseUint(parts[4], 10, 32)
	if err != nil {
		return SDK{}, false
	}
	return SDK{Version: uint32(v), ID: id}, true
}

// Compare orders SDKs by version, then id.
func (s SDK) Compare(o SDK) int {
	if c := cmp.Compare(s.Version, o.Version); c != 0 {
		return c
	}
	return strings.Compare(s.ID, o.ID)
}

// HighestSDK returns the newest SDK component among ids.
func HighestSDK(ids []string) (SDK, bool) {
	var best SDK
	found := false
	for _, id := range ids {
		if sdk, ok := ParseSDK(id); ok && (!found || sdk.Compare(best) > 0) {
			best, found = sdk, true
		}
	}
	return best, found
}

// Candidate is an installation that could host the build tools.
type Candidate struct {
	DisplayName string
	Major       int
	Product     Product
	InstallPath string
	SetupPath   string
	// MSVC is the installed toolset component for the target arch, if any.
	MSVC string
	// SDK is the newest SDK component installed with the instance.
	SDK *SDK
}

// Components lists the component ids the candidate has selected.
func (c *Candidate) Components() []string {
	var ids []string
	if c.MSVC != "" {
		ids = append(ids, c.MSVC)
	}
	if c.SDK != nil {
		ids = append(ids, c.SDK.ID)
	}
	return ids
}

// Scanner reads candidates from the setup configuration.
type Scanner struct {
	// Arch is the target GOARCH.
	Arch string
	// LCID selects the display name language.
	LCID   com.LCID
	Getenv func(string) string
	Logger *zap.Logger
}

// Scan returns every launchable instance of a known product at version
// 16 or later. Instances that cannot be read are skipped; a failure of
// the enumeration itself is returned.
func (s *Scanner) Scan(cfg *setup.Configuration) ([]Candidate, error) {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var out []Candidate
	for inst, err := range cfg.Instances(false) {
		if err != nil {
			return nil, err
		}
		c, err := s.candidate(inst)
		_ = inst.Close()
		if err != nil {
			log.Debug("skipping instance", zap.Error(err))
			continue
		}
		if c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *Scanner) candidate(inst *setup.Instance) (*Candidate, error) {
	ref, err := inst.Product()
	if err != nil || ref == nil {
		return nil, err
	}
	id, err := ref.ID()
	_ = ref.Close()
	if err != nil {
		return nil, err
	}
	product, ok := ParseProduct(id)
	if !ok {
		return nil, nil
	}

	version, err := inst.InstallationVersion()
	if err != nil {
		return nil, err
	}
	// A version without a dot has no major part.
	var major int
	if head, _, ok := strings.Cut(version, "."); ok {
		major, _ = strconv.Atoi(head)
	}
	// 2017 and older are untested.
	if major < 16 {
		return nil, nil
	}

	c := &Candidate{Major: major, Product: product}
	if c.InstallPath, err = inst.InstallationPath(); err != nil {
		return nil, err
	}
	if c.DisplayName, err = inst.DisplayName(s.LCID); err != nil {
		return nil, err
	}
	if c.SetupPath, err = s.setupPath(inst); err != nil {
		return nil, err
	}

	pkgs, err := inst.Packages()
	if err != nil {
		return c, nil
	}
	defer func() {
		for _, p := range pkgs {
			_ = p.Close()
		}
	}()
	want := ToolsetFor(s.Arch)
	for _, p := range pkgs {
		id, err := p.ID()
		if err != nil {
			continue
		}
		if sdk, ok := ParseSDK(id); ok {
			if c.SDK == nil || sdk.Compare(*c.SDK) > 0 {
				c.SDK = &sdk
			}
		} else if id == want {
			c.MSVC = id
		}
	}
	return c, nil
}

// setupPath reads setupEngineFilePath, falling back to the installer's
// default location.
func (s *Scanner) setupPath(inst *setup.Instance) (string, error) {
	props, err := inst.Properties()
	if err != nil {
		return "", err
	}
	if props == nil {
		return "", errors.NotFound(errors.PhaseQuery, "property", "setupEngineFilePath")
	}
	defer props.Close()
	v, err := props.Value("setupEngineFilePath")
	if err != nil {
		return "", err
	}
	if path, ok := v.AsString(); ok {
		return path, nil
	}

	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	root := cmp.Or(getenv("ProgramFiles(x86)"), `C:\Program Files (x86)`)
	return strings.TrimRight(root, `\`) + `\Microsoft Visual Studio\installer\setup.exe`, nil
}

// Rank orders candidates best first: those with the toolset, then newer
// major versions, then by product.
func Rank(cands []Candidate) {
	slices.SortStableFunc(cands, func(a, b Candidate) int {
		if (a.MSVC == "") != (b.MSVC == "") {
			if a.MSVC != "" {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(b.Major, a.Major); c != 0 {
			return c
		}
		return cmp.Compare(a.Product, b.Product)
	})
}
