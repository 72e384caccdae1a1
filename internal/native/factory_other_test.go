//go:build !windows

package native

import (
	"testing"

	"github.com/wippyai/vssetup/com"
)

func TestFactoryUnsupported(t *testing.T) {
	cfg, hr := NewFactory().CreateConfiguration()
	if hr != com.E_NOTIMPL {
		t.Fatalf("hr = %v, want E_NOTIMPL", hr)
	}
	if cfg != nil {
		t.Fatal("expected nil configuration")
	}
}
