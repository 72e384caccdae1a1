package setup

import (
	"github.com/wippyai/vssetup/abi"
	"github.com/wippyai/vssetup/com"
	"github.com/wippyai/vssetup/errors"
)

// Instance is one Visual Studio installation (ISetupInstance and
// ISetupInstance2).
type Instance struct {
	handle
}

func (i *Instance) str(method string, fn func(abi.Instance) (string, com.HRESULT)) (string, error) {
	return invoke(&i.handle, errors.PhaseQuery, method, fn)
}

// InstanceID returns the unique instance identifier.
func (i *Instance) InstanceID() (string, error) {
	return i.str("GetInstanceId", abi.Instance.GetInstanceID)
}

// InstallDate returns when the instance was installed.
func (i *Instance) InstallDate() (com.Filetime, error) {
	return invoke(&i.handle, errors.PhaseQuery, "GetInstallDate", abi.Instance.GetInstallDate)
}

func (i *Instance) InstallationName() (string, error) {
	return i.str("GetInstallationName", abi.Instance.GetInstallationName)
}

func (i *Instance) InstallationPath() (string, error) {
	return i.str("GetInstallationPath", abi.Instance.GetInstallationPath)
}

func (i *Instance) InstallationVersion() (string, error) {
	return i.str("GetInstallationVersion", abi.Instance.GetInstallationVersion)
}

// DisplayName returns the product name localized for lcid.
func (i *Instance) DisplayName(lcid com.LCID) (string, error) {
	return i.str("GetDisplayName", func(obj abi.Instance) (string, com.HRESULT) {
		return obj.GetDisplayName(lcid)
	})
}

// Description returns the product description localized for lcid.
func (i *Instance) Description(lcid com.LCID) (string, error) {
	return i.str("GetDescription", func(obj abi.Instance) (string, com.HRESULT) {
		return obj.GetDescription(lcid)
	})
}

// ResolvePath joins a path relative to the installation root.
func (i *Instance) ResolvePath(relative string) (string, error) {
	if err := checkString("relative path", relative); err != nil {
		return "", err
	}
	return i.str("ResolvePath", func(obj abi.Instance) (string, com.HRESULT) {
		return obj.ResolvePath(relative)
	})
}

// State returns which parts of the instance are present.
func (i *Instance) State() (InstanceState, error) {
	s, err := invoke(&i.handle, errors.PhaseQuery, "GetState", abi.Instance.GetState)
	return InstanceState(s), err
}

// Packages returns every package installed in the instance.
func (i *Instance) Packages() ([]*PackageReference, error) {
	objs, err := invoke(&i.handle, errors.PhaseQuery, "GetPackages", abi.Instance.GetPackages)
	if err != nil {
		return nil, err
	}
	if objs == nil {
		objs = []abi.PackageReference{}
	}
	return adoptAll(i.owner, typePackage, objs, newPackageReference)
}

// Product returns the product package, or nil if the service reports none.
func (i *Instance) Product() (*ProductReference, error) {
	obj, err := invoke(&i.handle, errors.PhaseQuery, "GetProduct", abi.Instance.GetProduct)
	if err != nil || obj == nil {
		return nil, err
	}
	h, err := i.owner.adopt(typeProduct, obj)
	if err != nil {
		return nil, err
	}
	return &ProductReference{PackageReference{h}}, nil
}

func (i *Instance) ProductPath() (string, error) {
	return i.str("GetProductPath", abi.Instance.GetProductPath)
}

// Errors returns the error state, or nil when the instance has none.
func (i *Instance) Errors() (*ErrorState, error) {
	obj, err := invoke(&i.handle, errors.PhaseQuery, "GetErrors", abi.Instance.GetErrors)
	if err != nil || obj == nil {
		return nil, err
	}
	h, err := i.owner.adopt(typeErrorState, obj)
	if err != nil {
		return nil, err
	}
	return &ErrorState{h}, nil
}

func (i *Instance) IsLaunchable() (bool, error) {
	return invoke(&i.handle, errors.PhaseQuery, "IsLaunchable", abi.Instance.IsLaunchable)
}

func (i *Instance) IsComplete() (bool, error) {
	return invoke(&i.handle, errors.PhaseQuery, "IsComplete", abi.Instance.IsComplete)
}

// Properties returns the additional instance properties, or nil when
// there are none.
func (i *Instance) Properties() (*PropertyStore, error) {
	obj, err := invoke(&i.handle, errors.PhaseQuery, "GetProperties", abi.Instance.GetProperties)
	if err != nil || obj == nil {
		return nil, err
	}
	return i.owner.propertyStore(obj)
}

func (i *Instance) EnginePath() (string, error) {
	return i.str("GetEnginePath", abi.Instance.GetEnginePath)
}

// Catalog returns ISetupInstanceCatalog. IsUnsupported reports whether a
// failure means the instance does not implement it.
func (i *Instance) Catalog() (*Catalog, error) {
	obj, err := invoke(&i.handle, errors.PhaseQuery, "QueryInterface(ISetupInstanceCatalog)", abi.Instance.QueryCatalog)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.NilPointer(errors.PhaseQuery, i.iface(), "QueryInterface(ISetupInstanceCatalog)")
	}
	h, err := i.owner.adopt(typeCatalog, obj)
	if err != nil {
		return nil, err
	}
	return &Catalog{h}, nil
}

// PropertyStore returns the ISetupPropertyStore implemented by the
// instance itself.
func (i *Instance) PropertyStore() (*PropertyStore, error) {
	obj, err := invoke(&i.handle, errors.PhaseQuery, "QueryInterface(ISetupPropertyStore)", abi.Instance.QueryPropertyStore)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.NilPointer(errors.PhaseQuery, i.iface(), "QueryInterface(ISetupPropertyStore)")
	}
	return i.owner.propertyStore(obj)
}

// LocalizedProperties returns ISetupLocalizedProperties.
func (i *Instance) LocalizedProperties() (*LocalizedProperties, error) {
	obj, err := invoke(&i.handle, errors.PhaseQuery, "QueryInterface(ISetupLocalizedProperties)", abi.Instance.QueryLocalizedProperties)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.NilPointer(errors.PhaseQuery, i.iface(), "QueryInterface(ISetupLocalizedProperties)")
	}
	h, err := i.owner.adopt(typeLocalizedProperties, obj)
	if err != nil {
		return nil, err
	}
	return &LocalizedProperties{h}, nil
}
