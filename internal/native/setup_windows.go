//go:build windows

package native

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/wippyai/vssetup/abi"
	"github.com/wippyai/vssetup/com"
)

// Vtable slots after the three IUnknown entries.
const (
	// ISetupConfiguration, ISetupConfiguration2
	slotEnumInstances                = 3
	slotGetInstanceForCurrentProcess = 4
	slotGetInstanceForPath           = 5
	slotEnumAllInstances             = 6

	// IEnumSetupInstances
	slotNext  = 3
	slotSkip  = 4
	slotReset = 5
	slotClone = 6

	// ISetupInstance, ISetupInstance2
	slotGetInstanceID          = 3
	slotGetInstallDate         = 4
	slotGetInstallationName    = 5
	slotGetInstallationPath    = 6
	slotGetInstallationVersion = 7
	slotGetDisplayName         = 8
	slotGetDescription         = 9
	slotResolvePath            = 10
	slotGetState               = 11
	slotGetPackages            = 12
	slotGetProduct             = 13
	slotGetProductPath         = 14
	slotGetErrors              = 15
	slotIsLaunchable           = 16
	slotIsComplete             = 17
	slotGetProperties          = 18
	slotGetEnginePath          = 19

	// ISetupPackageReference
	slotPackageID          = 3
	slotPackageVersion     = 4
	slotPackageChip        = 5
	slotPackageLanguage    = 6
	slotPackageBranch      = 7
	slotPackageType        = 8
	slotPackageUniqueID    = 9
	slotPackageIsExtension = 10

	// ISetupProductReference, ISetupProductReference2
	slotGetIsInstalled        = 11
	slotGetSupportsExtensions = 12

	// ISetupFailedPackageReference2, ISetupFailedPackageReference3
	slotFailedLogFilePath      = 11
	slotFailedDescription      = 12
	slotFailedSignature        = 13
	slotFailedDetails          = 14
	slotFailedAffectedPackages = 15
	slotFailedAction           = 16
	slotFailedReturnCode       = 17

	// ISetupErrorState, ISetupErrorState2, ISetupErrorState3
	slotGetFailedPackages   = 3
	slotGetSkippedPackages  = 4
	slotGetErrorLogFilePath = 5
	slotGetLogFilePath      = 6
	slotGetRuntimeError     = 7

	// ISetupErrorInfo
	slotGetErrorHResult   = 3
	slotGetErrorClassName = 4
	slotGetErrorMessage   = 5

	// ISetupPropertyStore, ISetupLocalizedPropertyStore
	slotGetNames = 3
	slotGetValue = 4

	// ISetupLocalizedProperties
	slotGetLocalizedProperties        = 3
	slotGetLocalizedChannelProperties = 4

	// ISetupInstanceCatalog
	slotGetCatalogInfo = 3
	slotIsPrerelease   = 4

	// ISetupPolicy
	slotGetSharedInstallationPath = 3
	slotPolicyGetValue            = 4

	// ISetupHelper
	slotParseVersion      = 3
	slotParseVersionRange = 4
)

// Factory creates the setup configuration service through CoCreateInstance.
type Factory struct{}

// NewFactory returns the COM-backed factory.
func NewFactory() *Factory {
	return &Factory{}
}

// CreateConfiguration instantiates SetupConfiguration. COM must already be
// initialized on the calling thread.
func (*Factory) CreateConfiguration() (abi.Configuration, com.HRESULT) {
	if err := procCoCreateInstance.Find(); err != nil {
		return nil, com.E_NOTIMPL
	}
	clsid := abi.CLSIDSetupConfiguration
	iid := abi.IIDSetupConfiguration
	var out *object
	r, _, _ := procCoCreateInstance.Call(
		uintptr(unsafe.Pointer(&clsid)),
		0,
		clsctxAll,
		uintptr(unsafe.Pointer(&iid)),
		uintptr(unsafe.Pointer(&out)))
	hr := toHRESULT(r)
	if hr.Failed() {
		return nil, hr
	}
	if out == nil {
		return nil, com.E_POINTER
	}
	return &configuration{out}, hr
}

type configuration struct{ *object }

func (c *configuration) EnumInstances() (abi.EnumInstances, com.HRESULT) {
	o, hr := c.getObject(slotEnumInstances)
	return newEnum(o), hr
}

func (c *configuration) GetInstanceForCurrentProcess() (abi.Instance, com.HRESULT) {
	o, hr := c.getObject(slotGetInstanceForCurrentProcess)
	return newInstance(o), hr
}

func (c *configuration) GetInstanceForPath(path string) (abi.Instance, com.HRESULT) {
	o, hr := c.getObjectString(slotGetInstanceForPath, path)
	return newInstance(o), hr
}

func (c *configuration) EnumAllInstances() (abi.EnumInstances, com.HRESULT) {
	var o *object
	hr := c.via(abi.IIDSetupConfiguration2, func(q *object) com.HRESULT {
		var hr com.HRESULT
		o, hr = q.getObject(slotEnumAllInstances)
		return hr
	})
	return newEnum(o), hr
}

func (c *configuration) QueryHelper() (abi.Helper, com.HRESULT) {
	o, hr := c.queryInterface(abi.IIDSetupHelper)
	if o == nil {
		return nil, hr
	}
	return &helper{o}, hr
}

func (c *configuration) QueryPolicy() (abi.Policy, com.HRESULT) {
	o, hr := c.queryInterface(abi.IIDSetupPolicy)
	if o == nil {
		return nil, hr
	}
	return &policy{o}, hr
}

type enumInstances struct{ *object }

func newEnum(o *object) abi.EnumInstances {
	if o == nil {
		return nil
	}
	return &enumInstances{o}
}

func (e *enumInstances) Next(celt uint32) ([]abi.Instance, uint32, com.HRESULT) {
	if celt == 0 {
		return nil, 0, com.E_INVALIDARG
	}
	buf := make([]*object, celt)
	var fetched uint32
	r, _, _ := syscall.SyscallN(e.vtbl[slotNext],
		uintptr(unsafe.Pointer(e.object)),
		uintptr(celt),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&fetched)))
	hr := toHRESULT(r)
	if hr.Failed() {
		return nil, 0, hr
	}
	n := min(fetched, celt)
	items := make([]abi.Instance, 0, n)
	for _, o := range buf[:n] {
		if o != nil {
			items = append(items, &instance{o})
		}
	}
	return items, fetched, hr
}

func (e *enumInstances) Skip(celt uint32) com.HRESULT {
	return e.callUint32(slotSkip, celt)
}

func (e *enumInstances) Reset() com.HRESULT {
	return e.call(slotReset)
}

func (e *enumInstances) Clone() (abi.EnumInstances, com.HRESULT) {
	o, hr := e.getObject(slotClone)
	return newEnum(o), hr
}

type instance struct{ *object }

func newInstance(o *object) abi.Instance {
	if o == nil {
		return nil
	}
	return &instance{o}
}

func (i *instance) GetInstanceID() (string, com.HRESULT) {
	return i.getBSTR(slotGetInstanceID)
}

func (i *instance) GetInstallDate() (com.Filetime, com.HRESULT) {
	return i.getFiletime(slotGetInstallDate)
}

func (i *instance) GetInstallationName() (string, com.HRESULT) {
	return i.getBSTR(slotGetInstallationName)
}

func (i *instance) GetInstallationPath() (string, com.HRESULT) {
	return i.getBSTR(slotGetInstallationPath)
}

func (i *instance) GetInstallationVersion() (string, com.HRESULT) {
	return i.getBSTR(slotGetInstallationVersion)
}

func (i *instance) GetDisplayName(lcid com.LCID) (string, com.HRESULT) {
	return i.getBSTRLCID(slotGetDisplayName, lcid)
}

func (i *instance) GetDescription(lcid com.LCID) (string, com.HRESULT) {
	return i.getBSTRLCID(slotGetDescription, lcid)
}

func (i *instance) ResolvePath(relative string) (string, com.HRESULT) {
	return i.getBSTRString(slotResolvePath, relative)
}

// instance2 runs fn against ISetupInstance2.
func (i *instance) instance2(fn func(*object) com.HRESULT) com.HRESULT {
	return i.via(abi.IIDSetupInstance2, fn)
}

func (i *instance) string2(slot int) (string, com.HRESULT) {
	var s string
	hr := i.instance2(func(q *object) com.HRESULT {
		var hr com.HRESULT
		s, hr = q.getBSTR(slot)
		return hr
	})
	return s, hr
}

func (i *instance) bool2(slot int) (bool, com.HRESULT) {
	var b bool
	hr := i.instance2(func(q *object) com.HRESULT {
		var hr com.HRESULT
		b, hr = q.getBool(slot)
		return hr
	})
	return b, hr
}

func (i *instance) object2(slot int) (*object, com.HRESULT) {
	var o *object
	hr := i.instance2(func(q *object) com.HRESULT {
		var hr com.HRESULT
		o, hr = q.getObject(slot)
		return hr
	})
	return o, hr
}

func (i *instance) GetState() (uint32, com.HRESULT) {
	var state uint32
	hr := i.instance2(func(q *object) com.HRESULT {
		var hr com.HRESULT
		state, hr = q.getUint32(slotGetState)
		return hr
	})
	return state, hr
}

func (i *instance) GetPackages() ([]abi.PackageReference, com.HRESULT) {
	var objs []*object
	hr := i.instance2(func(q *object) com.HRESULT {
		var hr com.HRESULT
		objs, hr = requiredObjects(q.getArray(slotGetPackages))
		return hr
	})
	return packageRefs(objs), hr
}

func (i *instance) GetProduct() (abi.ProductReference, com.HRESULT) {
	o, hr := i.object2(slotGetProduct)
	if o == nil {
		return nil, hr
	}
	return &productReference{packageReference{o}}, hr
}

func (i *instance) GetProductPath() (string, com.HRESULT) {
	return i.string2(slotGetProductPath)
}

func (i *instance) GetErrors() (abi.ErrorState, com.HRESULT) {
	o, hr := i.object2(slotGetErrors)
	if o == nil {
		return nil, hr
	}
	return &errorState{o}, hr
}

func (i *instance) IsLaunchable() (bool, com.HRESULT) {
	return i.bool2(slotIsLaunchable)
}

func (i *instance) IsComplete() (bool, com.HRESULT) {
	return i.bool2(slotIsComplete)
}

func (i *instance) GetProperties() (abi.PropertyStore, com.HRESULT) {
	o, hr := i.object2(slotGetProperties)
	if o == nil {
		return nil, hr
	}
	return &propertyStore{o}, hr
}

func (i *instance) GetEnginePath() (string, com.HRESULT) {
	return i.string2(slotGetEnginePath)
}

func (i *instance) QueryCatalog() (abi.Catalog, com.HRESULT) {
	o, hr := i.queryInterface(abi.IIDSetupInstanceCatalog)
	if o == nil {
		return nil, hr
	}
	return &catalog{o}, hr
}

func (i *instance) QueryPropertyStore() (abi.PropertyStore, com.HRESULT) {
	o, hr := i.queryInterface(abi.IIDSetupPropertyStore)
	if o == nil {
		return nil, hr
	}
	return &propertyStore{o}, hr
}

func (i *instance) QueryLocalizedProperties() (abi.LocalizedProperties, com.HRESULT) {
	o, hr := i.queryInterface(abi.IIDSetupLocalizedProperties)
	if o == nil {
		return nil, hr
	}
	return &localizedProperties{o}, hr
}

type packageReference struct{ *object }

func packageRefs(objs []*object) []abi.PackageReference {
	if objs == nil {
		return nil
	}
	out := make([]abi.PackageReference, len(objs))
	for i, o := range objs {
		out[i] = &packageReference{o}
	}
	return out
}

func (p *packageReference) GetID() (string, com.HRESULT) {
	return p.getBSTR(slotPackageID)
}

func (p *packageReference) GetVersion() (string, com.HRESULT) {
	return p.getBSTR(slotPackageVersion)
}

func (p *packageReference) GetChip() (string, com.HRESULT) {
	return p.getBSTR(slotPackageChip)
}

func (p *packageReference) GetLanguage() (string, com.HRESULT) {
	return p.getBSTR(slotPackageLanguage)
}

func (p *packageReference) GetBranch() (string, com.HRESULT) {
	return p.getBSTR(slotPackageBranch)
}

func (p *packageReference) GetType() (string, com.HRESULT) {
	return p.getBSTR(slotPackageType)
}

func (p *packageReference) GetUniqueID() (string, com.HRESULT) {
	return p.getBSTR(slotPackageUniqueID)
}

func (p *packageReference) GetIsExtension() (bool, com.HRESULT) {
	return p.getBool(slotPackageIsExtension)
}

func (p *packageReference) QueryPropertyStore() (abi.PropertyStore, com.HRESULT) {
	o, hr := p.queryInterface(abi.IIDSetupPropertyStore)
	if o == nil {
		return nil, hr
	}
	return &propertyStore{o}, hr
}

// viaBool reads a VARIANT_BOOL from slot of interface iid.
func (p *packageReference) viaBool(iid com.GUID, slot int) (bool, com.HRESULT) {
	var b bool
	hr := p.via(iid, func(q *object) com.HRESULT {
		var hr com.HRESULT
		b, hr = q.getBool(slot)
		return hr
	})
	return b, hr
}

func (p *packageReference) viaString(iid com.GUID, slot int) (string, com.HRESULT) {
	var s string
	hr := p.via(iid, func(q *object) com.HRESULT {
		var hr com.HRESULT
		s, hr = q.getBSTR(slot)
		return hr
	})
	return s, hr
}

type productReference struct{ packageReference }

func (p *productReference) GetIsInstalled() (bool, com.HRESULT) {
	return p.viaBool(abi.IIDSetupProductReference, slotGetIsInstalled)
}

func (p *productReference) GetSupportsExtensions() (bool, com.HRESULT) {
	return p.viaBool(abi.IIDSetupProductReference2, slotGetSupportsExtensions)
}

type failedPackageReference struct{ packageReference }

func (f *failedPackageReference) GetLogFilePath() (string, com.HRESULT) {
	return f.viaString(abi.IIDSetupFailedPackageReference2, slotFailedLogFilePath)
}

func (f *failedPackageReference) GetDescription() (string, com.HRESULT) {
	return f.viaString(abi.IIDSetupFailedPackageReference2, slotFailedDescription)
}

func (f *failedPackageReference) GetSignature() (string, com.HRESULT) {
	return f.viaString(abi.IIDSetupFailedPackageReference2, slotFailedSignature)
}

func (f *failedPackageReference) GetDetails() ([]string, com.HRESULT) {
	var details []string
	hr := f.via(abi.IIDSetupFailedPackageReference2, func(q *object) com.HRESULT {
		var hr com.HRESULT
		details, hr = requiredStrings(q.getArray(slotFailedDetails))
		return hr
	})
	return details, hr
}

func (f *failedPackageReference) GetAffectedPackages() ([]abi.PackageReference, com.HRESULT) {
	var objs []*object
	hr := f.via(abi.IIDSetupFailedPackageReference2, func(q *object) com.HRESULT {
		var hr com.HRESULT
		objs, hr = optionalObjects(q.getArray(slotFailedAffectedPackages))
		return hr
	})
	return packageRefs(objs), hr
}

func (f *failedPackageReference) GetAction() (string, com.HRESULT) {
	return f.viaString(abi.IIDSetupFailedPackageReference3, slotFailedAction)
}

func (f *failedPackageReference) GetReturnCode() (string, com.HRESULT) {
	return f.viaString(abi.IIDSetupFailedPackageReference3, slotFailedReturnCode)
}

type errorState struct{ *object }

func (e *errorState) GetFailedPackages() ([]abi.FailedPackageReference, com.HRESULT) {
	objs, hr := optionalObjects(e.getArray(slotGetFailedPackages))
	if objs == nil {
		return nil, hr
	}
	out := make([]abi.FailedPackageReference, len(objs))
	for i, o := range objs {
		out[i] = &failedPackageReference{packageReference{o}}
	}
	return out, hr
}

func (e *errorState) GetSkippedPackages() ([]abi.PackageReference, com.HRESULT) {
	objs, hr := optionalObjects(e.getArray(slotGetSkippedPackages))
	return packageRefs(objs), hr
}

func (e *errorState) viaString(iid com.GUID, slot int) (string, com.HRESULT) {
	var s string
	hr := e.via(iid, func(q *object) com.HRESULT {
		var hr com.HRESULT
		s, hr = q.getBSTR(slot)
		return hr
	})
	return s, hr
}

func (e *errorState) GetErrorLogFilePath() (string, com.HRESULT) {
	return e.viaString(abi.IIDSetupErrorState2, slotGetErrorLogFilePath)
}

func (e *errorState) GetLogFilePath() (string, com.HRESULT) {
	return e.viaString(abi.IIDSetupErrorState2, slotGetLogFilePath)
}

func (e *errorState) GetRuntimeError() (abi.ErrorInfo, com.HRESULT) {
	var o *object
	hr := e.via(abi.IIDSetupErrorState3, func(q *object) com.HRESULT {
		var hr com.HRESULT
		o, hr = q.getObject(slotGetRuntimeError)
		return hr
	})
	if o == nil {
		return nil, hr
	}
	return &errorInfo{o}, hr
}

type errorInfo struct{ *object }

func (e *errorInfo) GetErrorHResult() (com.HRESULT, com.HRESULT) {
	v, hr := e.getUint32(slotGetErrorHResult)
	return com.HRESULT(int32(v)), hr
}

func (e *errorInfo) GetErrorClassName() (string, com.HRESULT) {
	return e.getBSTR(slotGetErrorClassName)
}

func (e *errorInfo) GetErrorMessage() (string, com.HRESULT) {
	return e.getBSTR(slotGetErrorMessage)
}

type propertyStore struct{ *object }

func (p *propertyStore) GetNames() ([]string, com.HRESULT) {
	return requiredStrings(p.getArray(slotGetNames))
}

func (p *propertyStore) GetValue(name string) (com.Variant, com.HRESULT) {
	return p.getVariant(slotGetValue, name)
}

type localizedProperties struct{ *object }

func (l *localizedProperties) GetLocalizedProperties() (abi.LocalizedPropertyStore, com.HRESULT) {
	o, hr := l.getObject(slotGetLocalizedProperties)
	if o == nil {
		return nil, hr
	}
	return &localizedPropertyStore{o}, hr
}

func (l *localizedProperties) GetLocalizedChannelProperties() (abi.LocalizedPropertyStore, com.HRESULT) {
	o, hr := l.getObject(slotGetLocalizedChannelProperties)
	if o == nil {
		return nil, hr
	}
	return &localizedPropertyStore{o}, hr
}

type localizedPropertyStore struct{ *object }

func (l *localizedPropertyStore) GetNames(lcid com.LCID) ([]string, com.HRESULT) {
	return requiredStrings(l.getArrayLCID(slotGetNames, lcid))
}

func (l *localizedPropertyStore) GetValue(name string, lcid com.LCID) (com.Variant, com.HRESULT) {
	return l.getVariantLCID(slotGetValue, name, lcid)
}

type catalog struct{ *object }

func (c *catalog) GetCatalogInfo() (abi.PropertyStore, com.HRESULT) {
	o, hr := c.getObject(slotGetCatalogInfo)
	if o == nil {
		return nil, hr
	}
	return &propertyStore{o}, hr
}

func (c *catalog) IsPrerelease() (bool, com.HRESULT) {
	return c.getBool(slotIsPrerelease)
}

type policy struct{ *object }

func (p *policy) GetSharedInstallationPath() (string, com.HRESULT) {
	return p.getBSTR(slotGetSharedInstallationPath)
}

func (p *policy) GetValue(name string) (com.Variant, com.HRESULT) {
	return p.getVariant(slotPolicyGetValue, name)
}

type helper struct{ *object }

func (h *helper) ParseVersion(version string) (uint64, com.HRESULT) {
	p, err := windows.UTF16PtrFromString(version)
	if err != nil {
		return 0, com.E_INVALIDARG
	}
	var v uint64
	r, _, _ := syscall.SyscallN(h.vtbl[slotParseVersion],
		uintptr(unsafe.Pointer(h.object)),
		uintptr(unsafe.Pointer(p)),
		uintptr(unsafe.Pointer(&v)))
	return v, toHRESULT(r)
}

func (h *helper) ParseVersionRange(versionRange string) (uint64, uint64, com.HRESULT) {
	p, err := windows.UTF16PtrFromString(versionRange)
	if err != nil {
		return 0, 0, com.E_INVALIDARG
	}
	var lo, hi uint64
	r, _, _ := syscall.SyscallN(h.vtbl[slotParseVersionRange],
		uintptr(unsafe.Pointer(h.object)),
		uintptr(unsafe.Pointer(p)),
		uintptr(unsafe.Pointer(&lo)),
		uintptr(unsafe.Pointer(&hi)))
	return lo, hi, toHRESULT(r)
}
