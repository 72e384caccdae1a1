package setup_test

import (
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/vssetup/com"
	vserrors "github.com/wippyai/vssetup/errors"
	"github.com/wippyai/vssetup/setup"
	"github.com/wippyai/vssetup/setup/setuptest"
)

func ids(t *testing.T, insts []*setup.Instance) []string {
	t.Helper()
	out := make([]string, 0, len(insts))
	for _, inst := range insts {
		id, err := inst.InstanceID()
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, id)
	}
	return out
}

func threeInstances() *setuptest.Service {
	return setuptest.New(
		setuptest.InstanceData{ID: "one", Launchable: true},
		setuptest.InstanceData{ID: "two"},
		setuptest.InstanceData{ID: "three", Launchable: true},
	)
}

func TestInstanceEnum_Next(t *testing.T) {
	tests := []struct {
		name    string
		all     bool
		batch   int
		batches [][]string
	}{
		{"launchable one at a time", false, 1, [][]string{{"one"}, {"three"}}},
		{"launchable in one batch", false, 5, [][]string{{"one", "three"}}},
		{"all in pairs", true, 2, [][]string{{"one", "two"}, {"three"}}},
		{"all exact", true, 3, [][]string{{"one", "two", "three"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := threeInstances()
			cfg := open(t, svc)

			e, err := cfg.EnumInstances()
			if tt.all {
				e, err = cfg.EnumAllInstances()
			}
			if err != nil {
				t.Fatal(err)
			}
			defer e.Close()

			var got [][]string
			for {
				batch, err := e.Next(tt.batch)
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatal(err)
				}
				got = append(got, ids(t, batch))
			}
			if diff := cmp.Diff(tt.batches, got); diff != "" {
				t.Errorf("batches mismatch (-want +got):\n%s", diff)
			}

			// io.EOF is sticky.
			if _, err := e.Next(1); err != io.EOF {
				t.Errorf("Next after end = %v, want io.EOF", err)
			}
		})
	}
}

func TestInstanceEnum_NextInvalidCount(t *testing.T) {
	svc := threeInstances()
	cfg := open(t, svc)
	e, err := cfg.EnumInstances()
	if err != nil {
		t.Fatal(err)
	}

	for _, n := range []int{0, -1} {
		_, err := e.Next(n)
		if got := hresultOf(t, err); got != com.E_INVALIDARG {
			t.Errorf("Next(%d) HRESULT = %v, want E_INVALIDARG", n, got)
		}
	}
	if n := svc.Called("IEnumSetupInstances.Next"); n != 0 {
		t.Errorf("service saw %d Next calls", n)
	}
}

func TestInstanceEnum_OverReport(t *testing.T) {
	svc := threeInstances()
	svc.OverReport = true
	cfg := open(t, svc)

	e, err := cfg.EnumAllInstances()
	if err != nil {
		t.Fatal(err)
	}
	before := svc.Live()

	batch, err := e.Next(2)
	if batch != nil {
		t.Errorf("got %d instances from a bad batch", len(batch))
	}
	if got := kindOf(t, err); got != vserrors.KindUnexpected {
		t.Errorf("Kind = %s, want unexpected", got)
	}
	if got := hresultOf(t, err); got != com.E_UNEXPECTED {
		t.Errorf("HRESULT = %v, want E_UNEXPECTED", got)
	}
	if svc.Live() != before {
		t.Errorf("Live() = %d, want %d: returned objects must be released", svc.Live(), before)
	}
	if cfg.Outstanding() != 1 {
		t.Errorf("Outstanding() = %d, want only the enumerator", cfg.Outstanding())
	}
}

func TestInstanceEnum_EmptySuccess(t *testing.T) {
	svc := threeInstances()
	svc.Null("IEnumSetupInstances.Next")
	cfg := open(t, svc)

	e, err := cfg.EnumInstances()
	if err != nil {
		t.Fatal(err)
	}
	batch, err := e.Next(2)
	if batch != nil {
		t.Errorf("got %d instances", len(batch))
	}
	if err == io.EOF {
		t.Fatal("S_OK without objects ended the enumeration")
	}
	if got := kindOf(t, err); got != vserrors.KindNilPointer {
		t.Errorf("Kind = %s, want nil pointer", got)
	}
}

func TestInstanceEnum_Failure(t *testing.T) {
	svc := threeInstances().Fail("IEnumSetupInstances.Next", com.E_ACCESSDENIED)
	cfg := open(t, svc)

	e, err := cfg.EnumInstances()
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.Next(1)
	if got := hresultOf(t, err); got != com.E_ACCESSDENIED {
		t.Errorf("HRESULT = %v, want E_ACCESSDENIED", got)
	}
}

func TestInstanceEnum_SkipResetClone(t *testing.T) {
	svc := threeInstances()
	cfg := open(t, svc)

	e, err := cfg.EnumAllInstances()
	if err != nil {
		t.Fatal(err)
	}

	ok, err := e.Skip(1)
	if err != nil || !ok {
		t.Fatalf("Skip(1) = %v, %v", ok, err)
	}

	clone, err := e.Clone()
	if err != nil {
		t.Fatal(err)
	}

	batch, err := clone.Next(5)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"two", "three"}, ids(t, batch)); diff != "" {
		t.Errorf("clone mismatch (-want +got):\n%s", diff)
	}

	ok, err = e.Skip(10)
	if err != nil || ok {
		t.Errorf("Skip(10) = %v, %v, want false", ok, err)
	}
	if _, err := e.Next(1); err != io.EOF {
		t.Errorf("Next after skip past end = %v", err)
	}

	if err := e.Reset(); err != nil {
		t.Fatal(err)
	}
	batch, err = e.Next(1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"one"}, ids(t, batch)); diff != "" {
		t.Errorf("after reset (-want +got):\n%s", diff)
	}

	if _, err := e.Skip(-1); hresultOf(t, err) != com.E_INVALIDARG {
		t.Errorf("Skip(-1) = %v", err)
	}
}

func TestInstanceEnum_CloneNull(t *testing.T) {
	svc := threeInstances()
	svc.Null("IEnumSetupInstances.Clone")
	cfg := open(t, svc)

	e, err := cfg.EnumInstances()
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.Clone()
	if got := kindOf(t, err); got != vserrors.KindNilPointer {
		t.Errorf("Kind = %s, want nil_pointer", got)
	}
}

func TestInstances(t *testing.T) {
	t.Run("launchable", func(t *testing.T) {
		cfg := open(t, threeInstances())
		var got []*setup.Instance
		for inst, err := range cfg.Instances(false) {
			if err != nil {
				t.Fatal(err)
			}
			got = append(got, inst)
		}
		if diff := cmp.Diff([]string{"one", "three"}, ids(t, got)); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
		// Only the yielded instances remain; the enumerator is closed.
		if cfg.Outstanding() != 2 {
			t.Errorf("Outstanding() = %d, want 2", cfg.Outstanding())
		}
	})

	t.Run("error is yielded", func(t *testing.T) {
		svc := threeInstances().Fail("IEnumSetupInstances.Next", com.E_OUTOFMEMORY)
		cfg := open(t, svc)

		var errs []error
		for inst, err := range cfg.Instances(true) {
			if inst != nil {
				t.Error("instance yielded alongside error")
			}
			errs = append(errs, err)
		}
		if len(errs) != 1 {
			t.Fatalf("got %d yields, want exactly one error", len(errs))
		}
		if got := hresultOf(t, errs[0]); got != com.E_OUTOFMEMORY {
			t.Errorf("HRESULT = %v", got)
		}
	})

	t.Run("enumerator creation fails", func(t *testing.T) {
		svc := threeInstances()
		svc.NoConfiguration2 = true
		cfg := open(t, svc)

		n := 0
		for _, err := range cfg.Instances(true) {
			n++
			if !setup.IsUnsupported(err) {
				t.Errorf("err = %v, want E_NOINTERFACE", err)
			}
		}
		if n != 1 {
			t.Errorf("got %d yields", n)
		}
	})

	t.Run("early break", func(t *testing.T) {
		svc := threeInstances()
		cfg := open(t, svc)
		for inst, err := range cfg.Instances(true) {
			if err != nil {
				t.Fatal(err)
			}
			inst.Close()
			break
		}
		if cfg.Outstanding() != 0 {
			t.Errorf("Outstanding() = %d after break", cfg.Outstanding())
		}
	})
}
