package setup_test

import (
	"errors"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/vssetup/com"
	vserrors "github.com/wippyai/vssetup/errors"
	"github.com/wippyai/vssetup/setup"
	"github.com/wippyai/vssetup/setup/setuptest"
)

// open creates a configuration over svc and checks on cleanup that every
// reference was released exactly once.
func open(t *testing.T, svc *setuptest.Service) *setup.Configuration {
	t.Helper()
	cfg, err := setup.New(setup.WithFactory(svc))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := cfg.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
		if n := svc.Live(); n != 0 {
			t.Errorf("%d objects still referenced after Close", n)
		}
		if v := svc.Violations(); len(v) != 0 {
			t.Errorf("reference violations: %v", v)
		}
	})
	return cfg
}

func hresultOf(t *testing.T, err error) com.HRESULT {
	t.Helper()
	var hr com.HRESULT
	if !errors.As(err, &hr) {
		t.Fatalf("error %v carries no HRESULT", err)
	}
	return hr
}

func kindOf(t *testing.T, err error) vserrors.Kind {
	t.Helper()
	var e *vserrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("error %v is not *errors.Error", err)
	}
	return e.Kind
}

var (
	community = setuptest.InstanceData{
		ID:          "a1b2c3d4",
		Name:        "VisualStudio/17.9.2+34622.214",
		Path:        `C:\Program Files\Microsoft Visual Studio\2022\Community`,
		Version:     "17.9.34622.214",
		DisplayName: "Visual Studio Community 2022",
		State:       0xFFFFFFFF,
		Launchable:  true,
		Complete:    true,
		Product: &setuptest.PackageData{
			ID:          "Microsoft.VisualStudio.Product.Community",
			Version:     "17.9.34622.214",
			Type:        "Product",
			IsInstalled: true,
		},
	}
	buildTools = setuptest.InstanceData{
		ID:          "e5f6a7b8",
		Path:        `C:\BuildTools`,
		Version:     "16.11.34931.43",
		DisplayName: "Visual Studio Build Tools 2019",
		State:       uint32(setup.StateLocal | setup.StateRegistered),
	}
)

func TestNew(t *testing.T) {
	svc := setuptest.New(community)
	cfg := open(t, svc)
	if cfg.Closed() {
		t.Error("new configuration reports closed")
	}
	if n := cfg.Outstanding(); n != 0 {
		t.Errorf("Outstanding() = %d, want 0", n)
	}
	if n := svc.Called("CoCreateInstance"); n != 1 {
		t.Errorf("CoCreateInstance called %d times", n)
	}
}

func TestNew_Failure(t *testing.T) {
	tests := []struct {
		name string
		hr   com.HRESULT
		kind vserrors.Kind
	}{
		{"not initialized", com.CO_E_NOTINITIALIZED, vserrors.KindNotInitialized},
		{"class not registered", com.REGDB_E_CLASSNOTREG, vserrors.KindHRESULT},
		{"access denied", com.E_ACCESSDENIED, vserrors.KindHRESULT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := setuptest.New().Fail("CoCreateInstance", tt.hr)
			cfg, err := setup.New(setup.WithFactory(svc))
			if err == nil {
				cfg.Close()
				t.Fatal("expected error")
			}
			if got := hresultOf(t, err); got != tt.hr {
				t.Errorf("HRESULT = %v, want %v", got, tt.hr)
			}
			if got := kindOf(t, err); got != tt.kind {
				t.Errorf("Kind = %s, want %s", got, tt.kind)
			}
		})
	}
}

func TestConfiguration_CloseReleasesOutstanding(t *testing.T) {
	svc := setuptest.New(community, buildTools)
	cfg, err := setup.New(setup.WithFactory(svc))
	if err != nil {
		t.Fatal(err)
	}

	var insts []*setup.Instance
	for inst, err := range cfg.Instances(true) {
		if err != nil {
			t.Fatal(err)
		}
		insts = append(insts, inst)
	}
	if _, err := insts[0].Product(); err != nil {
		t.Fatal(err)
	}
	if n := cfg.Outstanding(); n != 3 {
		t.Errorf("Outstanding() = %d, want 3", n)
	}

	if err := cfg.Close(); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if n := svc.Live(); n != 0 {
		t.Errorf("Live() = %d after Close", n)
	}
	if v := svc.Violations(); len(v) != 0 {
		t.Errorf("violations: %v", v)
	}

	for _, inst := range insts {
		if !inst.Closed() {
			t.Error("instance open after configuration closed")
		}
		_, err := inst.InstanceID()
		if !vserrors.IsClosed(err) {
			t.Errorf("InstanceID after Close = %v, want closed", err)
		}
		if err := inst.Close(); err != nil {
			t.Errorf("Close on released instance: %v", err)
		}
	}
	if _, err := cfg.EnumInstances(); !vserrors.IsClosed(err) {
		t.Errorf("EnumInstances after Close = %v, want closed", err)
	}
}

func TestConfiguration_HandleCloseIsIdempotent(t *testing.T) {
	svc := setuptest.New(community)
	cfg := open(t, svc)

	inst, err := cfg.InstanceForPath(community.Path)
	if err != nil {
		t.Fatal(err)
	}
	inst.Close()
	inst.Close()
	if cfg.Outstanding() != 0 {
		t.Errorf("Outstanding() = %d", cfg.Outstanding())
	}
	if svc.Live() != 1 {
		t.Errorf("Live() = %d, want only the configuration", svc.Live())
	}
}

func TestConfiguration_InstanceForPath(t *testing.T) {
	svc := setuptest.New(community, buildTools)
	cfg := open(t, svc)

	tests := []struct {
		name string
		path string
		id   string
		hr   com.HRESULT
	}{
		{"root", community.Path, community.ID, com.S_OK},
		{"nested", buildTools.Path + `\VC\Tools`, buildTools.ID, com.S_OK},
		{"case", `c:\buildtools`, buildTools.ID, com.S_OK},
		{"unknown", `D:\elsewhere`, "", com.E_NOTFOUND},
		{"nul", "C:\\Build\x00Tools", "", com.E_INVALIDARG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := cfg.InstanceForPath(tt.path)
			if tt.hr.Failed() {
				if err == nil {
					t.Fatal("expected error")
				}
				if got := hresultOf(t, err); got != tt.hr {
					t.Errorf("HRESULT = %v, want %v", got, tt.hr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			defer inst.Close()
			id, err := inst.InstanceID()
			if err != nil {
				t.Fatal(err)
			}
			if id != tt.id {
				t.Errorf("InstanceID() = %q, want %q", id, tt.id)
			}
		})
	}

	if n := svc.Called("ISetupConfiguration.GetInstanceForPath"); n != 4 {
		t.Errorf("GetInstanceForPath called %d times, NUL input must not reach the service", n)
	}
}

func TestConfiguration_InstanceForCurrentProcess(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := setuptest.New(community)
		svc.CurrentProcess = community.ID
		cfg := open(t, svc)
		inst, err := cfg.InstanceForCurrentProcess()
		if err != nil {
			t.Fatal(err)
		}
		name, err := inst.DisplayName(com.LocaleUserDefault)
		if err != nil {
			t.Fatal(err)
		}
		if name != community.DisplayName {
			t.Errorf("DisplayName() = %q", name)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := setuptest.New(community)
		cfg := open(t, svc)
		_, err := cfg.InstanceForCurrentProcess()
		if got := hresultOf(t, err); got != com.E_NOTFOUND {
			t.Errorf("HRESULT = %v, want E_NOTFOUND", got)
		}
	})

	t.Run("null result", func(t *testing.T) {
		svc := setuptest.New(community)
		svc.Null("ISetupConfiguration.GetInstanceForCurrentProcess")
		cfg := open(t, svc)
		_, err := cfg.InstanceForCurrentProcess()
		if got := kindOf(t, err); got != vserrors.KindNilPointer {
			t.Errorf("Kind = %s, want nil_pointer", got)
		}
		if got := hresultOf(t, err); got != com.E_POINTER {
			t.Errorf("HRESULT = %v, want E_POINTER", got)
		}
	})
}

func TestConfiguration_OptionalInterfaces(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		svc := setuptest.New()
		svc.SharedInstallationPath = `C:\Shared`
		svc.PolicyValues = map[string]com.Variant{"CachePath": com.StringVariant(`D:\cache`)}
		cfg := open(t, svc)

		policy, err := cfg.Policy()
		if err != nil {
			t.Fatal(err)
		}
		path, err := policy.SharedInstallationPath()
		if err != nil || path != `C:\Shared` {
			t.Errorf("SharedInstallationPath() = %q, %v", path, err)
		}
		v, err := policy.Value("CachePath")
		if err != nil {
			t.Fatal(err)
		}
		if s, ok := v.AsString(); !ok || s != `D:\cache` {
			t.Errorf("Value() = %#v", v)
		}
		if _, err := policy.Value("Missing"); hresultOf(t, err) != com.E_NOTFOUND {
			t.Errorf("Value(Missing) = %v", err)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		svc := setuptest.New()
		svc.NoConfiguration2 = true
		svc.NoHelper = true
		svc.NoPolicy = true
		cfg := open(t, svc)

		if _, err := cfg.Helper(); !setup.IsUnsupported(err) {
			t.Errorf("Helper() = %v, want E_NOINTERFACE", err)
		}
		if _, err := cfg.Policy(); !setup.IsUnsupported(err) {
			t.Errorf("Policy() = %v, want E_NOINTERFACE", err)
		}
		if _, err := cfg.EnumAllInstances(); !setup.IsUnsupported(err) {
			t.Errorf("EnumAllInstances() = %v, want E_NOINTERFACE", err)
		}
		if cfg.Outstanding() != 0 {
			t.Errorf("Outstanding() = %d", cfg.Outstanding())
		}
	})
}

func TestConfiguration_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	svc := setuptest.New(community).Fail("ISetupInstance.GetInstallationVersion", com.E_ACCESSDENIED)
	cfg, err := setup.New(setup.WithFactory(svc), setup.WithLogger(zap.New(core)))
	if err != nil {
		t.Fatal(err)
	}

	inst, err := cfg.InstanceForPath(community.Path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := inst.InstallationVersion(); err == nil {
		t.Fatal("expected error")
	}
	cfg.Close()

	var messages []string
	for _, e := range logs.All() {
		messages = append(messages, e.Message)
	}
	for _, want := range []string{"handle created", "call failed", "release", "handle dropped"} {
		if !slices.Contains(messages, want) {
			t.Errorf("missing log %q in %v", want, messages)
		}
	}

	failed := logs.FilterMessage("call failed").All()
	if len(failed) != 1 {
		t.Fatalf("got %d call failed entries", len(failed))
	}
	if m := failed[0].ContextMap()["method"]; m != "GetInstallationVersion" {
		t.Errorf("method = %v", m)
	}
}
