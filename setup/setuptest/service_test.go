package setuptest

import (
	"testing"

	"github.com/wippyai/vssetup/com"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
		ok   bool
	}{
		{"17.8.34330.188", 17<<48 | 8<<32 | 34330<<16 | 188, true},
		{"16.0", 16 << 48, true},
		{"1", 1 << 48, true},
		{"", 0, false},
		{"1.2.3.4.5", 0, false},
		{"1.x", 0, false},
		{"70000", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseVersion(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseVersion(%q) = %#x, %v; want %#x, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseVersionRange(t *testing.T) {
	v16, _ := ParseVersion("16.0")
	v17, _ := ParseVersion("17.0")

	tests := []struct {
		in     string
		lo, hi uint64
		ok     bool
	}{
		{"[16.0,17.0)", v16, v17 - 1, true},
		{"[16.0,17.0]", v16, v17, true},
		{"(16.0,]", v16 + 1, ^uint64(0), true},
		{"16.0", v16, ^uint64(0), true},
		{"[16.0]", v16, v16, true},
		{"[17.0,16.0]", 0, 0, false},
		{"[16.0,17.0", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lo, hi, ok := ParseVersionRange(tt.in)
			if ok != tt.ok || lo != tt.lo || hi != tt.hi {
				t.Errorf("ParseVersionRange(%q) = %#x, %#x, %v", tt.in, lo, hi, ok)
			}
		})
	}
}

func TestReferenceCounting(t *testing.T) {
	svc := New(InstanceData{ID: "a", Launchable: true})

	cfg, hr := svc.CreateConfiguration()
	if hr != com.S_OK {
		t.Fatalf("CreateConfiguration = %v", hr)
	}
	enum, hr := cfg.EnumInstances()
	if hr != com.S_OK {
		t.Fatalf("EnumInstances = %v", hr)
	}
	if svc.Live() != 2 {
		t.Fatalf("Live = %d, want 2", svc.Live())
	}

	enum.Release()
	enum.Release()
	if v := svc.Violations(); len(v) != 1 {
		t.Fatalf("Violations = %v, want one double release", v)
	}

	if hr := enum.Skip(1); hr != com.RO_E_CLOSED {
		t.Errorf("call after release = %v, want RO_E_CLOSED", hr)
	}

	cfg.Release()
	if svc.Live() != 0 {
		t.Errorf("Live = %d, want 0", svc.Live())
	}
}

func TestEnumerationFilter(t *testing.T) {
	svc := New(
		InstanceData{ID: "complete", Launchable: true},
		InstanceData{ID: "partial"},
	)
	cfg, _ := svc.CreateConfiguration()
	defer cfg.Release()

	count := func(all bool) int {
		enum, _ := cfg.EnumInstances()
		if all {
			enum.Release()
			enum, _ = cfg.EnumAllInstances()
		}
		defer enum.Release()
		items, _, _ := enum.Next(10)
		for _, it := range items {
			it.Release()
		}
		return len(items)
	}

	if n := count(false); n != 1 {
		t.Errorf("EnumInstances yielded %d, want 1", n)
	}
	if n := count(true); n != 2 {
		t.Errorf("EnumAllInstances yielded %d, want 2", n)
	}
}

func TestFail(t *testing.T) {
	svc := New().Fail("CoCreateInstance", com.REGDB_E_CLASSNOTREG)
	if _, hr := svc.CreateConfiguration(); hr != com.REGDB_E_CLASSNOTREG {
		t.Fatalf("hr = %v", hr)
	}
	if svc.Called("CoCreateInstance") != 1 {
		t.Error("call not recorded")
	}
}
