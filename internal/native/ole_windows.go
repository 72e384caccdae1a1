//go:build windows

package native

import (
	"syscall"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/wippyai/vssetup/com"
)

var (
	modole32             = windows.NewLazySystemDLL("ole32.dll")
	procCoCreateInstance = modole32.NewProc("CoCreateInstance")

	modoleaut32          = windows.NewLazySystemDLL("oleaut32.dll")
	procSysStringLen     = modoleaut32.NewProc("SysStringLen")
	procSysFreeString    = modoleaut32.NewProc("SysFreeString")
	procSafeArrayLock    = modoleaut32.NewProc("SafeArrayLock")
	procSafeArrayUnlock  = modoleaut32.NewProc("SafeArrayUnlock")
	procSafeArrayDestroy = modoleaut32.NewProc("SafeArrayDestroy")
	procVariantClear     = modoleaut32.NewProc("VariantClear")
)

const clsctxAll = 0x1 | 0x2 | 0x4 | 0x10

// IUnknown slots shared by every interface.
const (
	slotQueryInterface = 0
	slotAddRef         = 1
	slotRelease        = 2
)

func toHRESULT(r uintptr) com.HRESULT {
	return com.HRESULT(int32(uint32(r)))
}

// object is the native layout of a COM object: a pointer to its vtable.
// The array bound only has to cover the largest slot used.
type object struct {
	vtbl *[24]uintptr
}

func (o *object) AddRef() uint32 {
	r, _, _ := syscall.SyscallN(o.vtbl[slotAddRef], uintptr(unsafe.Pointer(o)))
	return uint32(r)
}

func (o *object) Release() uint32 {
	r, _, _ := syscall.SyscallN(o.vtbl[slotRelease], uintptr(unsafe.Pointer(o)))
	return uint32(r)
}

func (o *object) queryInterface(iid com.GUID) (*object, com.HRESULT) {
	var out *object
	r, _, _ := syscall.SyscallN(o.vtbl[slotQueryInterface],
		uintptr(unsafe.Pointer(o)),
		uintptr(unsafe.Pointer(&iid)),
		uintptr(unsafe.Pointer(&out)))
	hr := toHRESULT(r)
	if hr.Failed() {
		return nil, hr
	}
	if out == nil {
		return nil, com.E_POINTER
	}
	return out, hr
}

// via runs fn against the interface iid of o. The extra reference taken
// by QueryInterface is dropped before returning.
func (o *object) via(iid com.GUID, fn func(*object) com.HRESULT) com.HRESULT {
	q, hr := o.queryInterface(iid)
	if hr.Failed() {
		return hr
	}
	defer q.Release()
	return fn(q)
}

func (o *object) call(slot int) com.HRESULT {
	r, _, _ := syscall.SyscallN(o.vtbl[slot], uintptr(unsafe.Pointer(o)))
	return toHRESULT(r)
}

func (o *object) callUint32(slot int, v uint32) com.HRESULT {
	r, _, _ := syscall.SyscallN(o.vtbl[slot], uintptr(unsafe.Pointer(o)), uintptr(v))
	return toHRESULT(r)
}

func (o *object) getObject(slot int) (*object, com.HRESULT) {
	var out *object
	r, _, _ := syscall.SyscallN(o.vtbl[slot], uintptr(unsafe.Pointer(o)), uintptr(unsafe.Pointer(&out)))
	hr := toHRESULT(r)
	if hr.Failed() {
		return nil, hr
	}
	return out, hr
}

func (o *object) getObjectString(slot int, s string) (*object, com.HRESULT) {
	p, err := windows.UTF16PtrFromString(s)
	if err != nil {
		return nil, com.E_INVALIDARG
	}
	var out *object
	r, _, _ := syscall.SyscallN(o.vtbl[slot],
		uintptr(unsafe.Pointer(o)),
		uintptr(unsafe.Pointer(p)),
		uintptr(unsafe.Pointer(&out)))
	hr := toHRESULT(r)
	if hr.Failed() {
		return nil, hr
	}
	return out, hr
}

func (o *object) getBSTR(slot int) (string, com.HRESULT) {
	var b *uint16
	r, _, _ := syscall.SyscallN(o.vtbl[slot], uintptr(unsafe.Pointer(o)), uintptr(unsafe.Pointer(&b)))
	s := takeBSTR(b)
	return s, toHRESULT(r)
}

func (o *object) getBSTRLCID(slot int, lcid com.LCID) (string, com.HRESULT) {
	var b *uint16
	r, _, _ := syscall.SyscallN(o.vtbl[slot],
		uintptr(unsafe.Pointer(o)),
		uintptr(lcid),
		uintptr(unsafe.Pointer(&b)))
	s := takeBSTR(b)
	return s, toHRESULT(r)
}

func (o *object) getBSTRString(slot int, in string) (string, com.HRESULT) {
	p, err := windows.UTF16PtrFromString(in)
	if err != nil {
		return "", com.E_INVALIDARG
	}
	var b *uint16
	r, _, _ := syscall.SyscallN(o.vtbl[slot],
		uintptr(unsafe.Pointer(o)),
		uintptr(unsafe.Pointer(p)),
		uintptr(unsafe.Pointer(&b)))
	s := takeBSTR(b)
	return s, toHRESULT(r)
}

func (o *object) getBool(slot int) (bool, com.HRESULT) {
	var v int16 // VARIANT_BOOL
	r, _, _ := syscall.SyscallN(o.vtbl[slot], uintptr(unsafe.Pointer(o)), uintptr(unsafe.Pointer(&v)))
	return v != 0, toHRESULT(r)
}

func (o *object) getUint32(slot int) (uint32, com.HRESULT) {
	var v uint32
	r, _, _ := syscall.SyscallN(o.vtbl[slot], uintptr(unsafe.Pointer(o)), uintptr(unsafe.Pointer(&v)))
	return v, toHRESULT(r)
}

func (o *object) getFiletime(slot int) (com.Filetime, com.HRESULT) {
	var ft com.Filetime
	r, _, _ := syscall.SyscallN(o.vtbl[slot], uintptr(unsafe.Pointer(o)), uintptr(unsafe.Pointer(&ft)))
	return ft, toHRESULT(r)
}

func (o *object) getArray(slot int) (*safeArray, com.HRESULT) {
	var sa *safeArray
	r, _, _ := syscall.SyscallN(o.vtbl[slot], uintptr(unsafe.Pointer(o)), uintptr(unsafe.Pointer(&sa)))
	hr := toHRESULT(r)
	if hr.Failed() {
		return nil, hr
	}
	return sa, hr
}

func (o *object) getArrayLCID(slot int, lcid com.LCID) (*safeArray, com.HRESULT) {
	var sa *safeArray
	r, _, _ := syscall.SyscallN(o.vtbl[slot],
		uintptr(unsafe.Pointer(o)),
		uintptr(lcid),
		uintptr(unsafe.Pointer(&sa)))
	hr := toHRESULT(r)
	if hr.Failed() {
		return nil, hr
	}
	return sa, hr
}

func (o *object) getVariant(slot int, name string) (com.Variant, com.HRESULT) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return com.Variant{}, com.E_INVALIDARG
	}
	var v variant
	r, _, _ := syscall.SyscallN(o.vtbl[slot],
		uintptr(unsafe.Pointer(o)),
		uintptr(unsafe.Pointer(p)),
		uintptr(unsafe.Pointer(&v)))
	return takeVariant(&v), toHRESULT(r)
}

func (o *object) getVariantLCID(slot int, name string, lcid com.LCID) (com.Variant, com.HRESULT) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return com.Variant{}, com.E_INVALIDARG
	}
	var v variant
	r, _, _ := syscall.SyscallN(o.vtbl[slot],
		uintptr(unsafe.Pointer(o)),
		uintptr(unsafe.Pointer(p)),
		uintptr(lcid),
		uintptr(unsafe.Pointer(&v)))
	return takeVariant(&v), toHRESULT(r)
}

// BSTR

func bstrString(b *uint16) string {
	if b == nil {
		return ""
	}
	n, _, _ := procSysStringLen.Call(uintptr(unsafe.Pointer(b)))
	return string(utf16.Decode(unsafe.Slice(b, int(n))))
}

// takeBSTR copies b and frees it.
func takeBSTR(b *uint16) string {
	if b == nil {
		return ""
	}
	s := bstrString(b)
	procSysFreeString.Call(uintptr(unsafe.Pointer(b)))
	return s
}

// SAFEARRAY

type safeArrayBound struct {
	cElements uint32
	lLbound   int32
}

type safeArray struct {
	cDims      uint16
	fFeatures  uint16
	cbElements uint32
	cLocks     uint32
	pvData     unsafe.Pointer
	rgsabound  [1]safeArrayBound
}

// drain locks sa, hands its elements to fn and destroys the array.
// Destroying an interface array releases its elements, so fn must AddRef
// anything it keeps.
func drain(sa *safeArray, fn func(data unsafe.Pointer, n int)) com.HRESULT {
	defer procSafeArrayDestroy.Call(uintptr(unsafe.Pointer(sa)))

	r, _, _ := procSafeArrayLock.Call(uintptr(unsafe.Pointer(sa)))
	if hr := toHRESULT(r); hr.Failed() {
		return hr
	}
	defer procSafeArrayUnlock.Call(uintptr(unsafe.Pointer(sa)))

	if sa.cDims != 1 {
		return com.E_UNEXPECTED
	}
	fn(sa.pvData, int(sa.rgsabound[0].cElements))
	return com.S_OK
}

func drainObjects(sa *safeArray) ([]*object, com.HRESULT) {
	var out []*object
	hr := drain(sa, func(data unsafe.Pointer, n int) {
		if n == 0 {
			return
		}
		out = make([]*object, 0, n)
		for _, o := range unsafe.Slice((**object)(data), n) {
			if o == nil {
				continue
			}
			o.AddRef()
			out = append(out, o)
		}
	})
	if hr.Failed() {
		for _, o := range out {
			o.Release()
		}
		return nil, hr
	}
	return out, hr
}

func drainStrings(sa *safeArray) ([]string, com.HRESULT) {
	var out []string
	hr := drain(sa, func(data unsafe.Pointer, n int) {
		if n == 0 {
			return
		}
		out = make([]string, 0, n)
		for _, b := range unsafe.Slice((**uint16)(data), n) {
			out = append(out, bstrString(b))
		}
	})
	if hr.Failed() {
		return nil, hr
	}
	return out, hr
}

// requiredObjects reads an interface array that must be present.
func requiredObjects(sa *safeArray, hr com.HRESULT) ([]*object, com.HRESULT) {
	if hr.Failed() {
		return nil, hr
	}
	if sa == nil {
		return nil, com.E_POINTER
	}
	return drainObjects(sa)
}

// optionalObjects reads an interface array the server may omit.
func optionalObjects(sa *safeArray, hr com.HRESULT) ([]*object, com.HRESULT) {
	if hr.Failed() || sa == nil {
		return nil, hr
	}
	return drainObjects(sa)
}

func requiredStrings(sa *safeArray, hr com.HRESULT) ([]string, com.HRESULT) {
	if hr.Failed() {
		return nil, hr
	}
	if sa == nil {
		return nil, com.E_POINTER
	}
	return drainStrings(sa)
}

// VARIANT

type variant struct {
	vt        uint16
	reserved1 uint16
	reserved2 uint16
	reserved3 uint16
	val       [2]uintptr
}

// takeVariant converts v and clears it.
func takeVariant(v *variant) com.Variant {
	vt := com.VARTYPE(v.vt)
	bits := *(*uint64)(unsafe.Pointer(&v.val))
	var str string
	if vt == com.VT_BSTR {
		str = bstrString(*(**uint16)(unsafe.Pointer(&v.val)))
	}
	out := com.DecodeVariant(vt, bits, str)
	procVariantClear.Call(uintptr(unsafe.Pointer(v)))
	return out
}
