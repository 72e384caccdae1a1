//go:build windows

package native

import (
	"testing"
	"unsafe"

	"github.com/wippyai/vssetup/com"
)

func TestNativeLayout(t *testing.T) {
	ptr := unsafe.Sizeof(uintptr(0))

	if got, want := unsafe.Sizeof(variant{}), 8+2*ptr; got != want {
		t.Errorf("sizeof(VARIANT) = %d, want %d", got, want)
	}
	if got := unsafe.Sizeof(com.GUID{}); got != 16 {
		t.Errorf("sizeof(GUID) = %d, want 16", got)
	}
	if got := unsafe.Sizeof(com.Filetime{}); got != 8 {
		t.Errorf("sizeof(FILETIME) = %d, want 8", got)
	}
	if got, want := unsafe.Offsetof(safeArray{}.pvData), 12+(ptr-4); got != want {
		t.Errorf("offsetof(SAFEARRAY.pvData) = %d, want %d", got, want)
	}
}

func TestTakeBSTRNil(t *testing.T) {
	if s := takeBSTR(nil); s != "" {
		t.Errorf("takeBSTR(nil) = %q", s)
	}
}
