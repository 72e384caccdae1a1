package setup

import (
	"github.com/wippyai/vssetup/abi"
	"github.com/wippyai/vssetup/com"
	"github.com/wippyai/vssetup/errors"
)

// Property is one name/value pair from a property store.
type Property struct {
	Name  string
	Value com.Variant
}

// PropertyStore is ISetupPropertyStore.
type PropertyStore struct {
	handle
}

func (c *Configuration) propertyStore(obj abi.PropertyStore) (*PropertyStore, error) {
	h, err := c.adopt(typePropertyStore, obj)
	if err != nil {
		return nil, err
	}
	return &PropertyStore{h}, nil
}

// Names returns the property names.
func (p *PropertyStore) Names() ([]string, error) {
	return invoke(&p.handle, errors.PhaseQuery, "GetNames", abi.PropertyStore.GetNames)
}

// Value returns the named property.
func (p *PropertyStore) Value(name string) (com.Variant, error) {
	if err := checkString("property name", name); err != nil {
		return com.Variant{}, err
	}
	return invoke(&p.handle, errors.PhaseQuery, "GetValue", func(obj abi.PropertyStore) (com.Variant, com.HRESULT) {
		return obj.GetValue(name)
	})
}

// All returns every property in the order the service lists the names.
func (p *PropertyStore) All() ([]Property, error) {
	names, err := p.Names()
	if err != nil {
		return nil, err
	}
	props := make([]Property, 0, len(names))
	for _, name := range names {
		v, err := p.Value(name)
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Name: name, Value: v})
	}
	return props, nil
}

// LocalizedProperties is ISetupLocalizedProperties.
type LocalizedProperties struct {
	handle
}

func (l *LocalizedProperties) store(method string, fn func(abi.LocalizedProperties) (abi.LocalizedPropertyStore, com.HRESULT)) (*LocalizedPropertyStore, error) {
	obj, err := invoke(&l.handle, errors.PhaseQuery, method, fn)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.NilPointer(errors.PhaseQuery, l.iface(), method)
	}
	h, err := l.owner.adopt(typeLocalizedPropertyStore, obj)
	if err != nil {
		return nil, err
	}
	return &LocalizedPropertyStore{h}, nil
}

// Properties returns the localized instance properties.
func (l *LocalizedProperties) Properties() (*LocalizedPropertyStore, error) {
	return l.store("GetLocalizedProperties", abi.LocalizedProperties.GetLocalizedProperties)
}

// ChannelProperties returns the localized channel properties.
func (l *LocalizedProperties) ChannelProperties() (*LocalizedPropertyStore, error) {
	return l.store("GetLocalizedChannelProperties", abi.LocalizedProperties.GetLocalizedChannelProperties)
}

// LocalizedPropertyStore is ISetupLocalizedPropertyStore.
type LocalizedPropertyStore struct {
	handle
}

func (l *LocalizedPropertyStore) Names(lcid com.LCID) ([]string, error) {
	return invoke(&l.handle, errors.PhaseQuery, "GetNames", func(obj abi.LocalizedPropertyStore) ([]string, com.HRESULT) {
		return obj.GetNames(lcid)
	})
}

func (l *LocalizedPropertyStore) Value(name string, lcid com.LCID) (com.Variant, error) {
	if err := checkString("property name", name); err != nil {
		return com.Variant{}, err
	}
	return invoke(&l.handle, errors.PhaseQuery, "GetValue", func(obj abi.LocalizedPropertyStore) (com.Variant, com.HRESULT) {
		return obj.GetValue(name, lcid)
	})
}

func (l *LocalizedPropertyStore) All(lcid com.LCID) ([]Property, error) {
	names, err := l.Names(lcid)
	if err != nil {
		return nil, err
	}
	props := make([]Property, 0, len(names))
	for _, name := range names {
		v, err := l.Value(name, lcid)
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Name: name, Value: v})
	}
	return props, nil
}

// Catalog is ISetupInstanceCatalog.
type Catalog struct {
	handle
}

// Info returns the catalog properties, or nil when there are none.
func (c *Catalog) Info() (*PropertyStore, error) {
	obj, err := invoke(&c.handle, errors.PhaseQuery, "GetCatalogInfo", abi.Catalog.GetCatalogInfo)
	if err != nil || obj == nil {
		return nil, err
	}
	return c.owner.propertyStore(obj)
}

func (c *Catalog) IsPrerelease() (bool, error) {
	return invoke(&c.handle, errors.PhaseQuery, "IsPrerelease", abi.Catalog.IsPrerelease)
}

// Policy is ISetupPolicy.
type Policy struct {
	handle
}

func (p *Policy) SharedInstallationPath() (string, error) {
	return invoke(&p.handle, errors.PhaseQuery, "GetSharedInstallationPath", abi.Policy.GetSharedInstallationPath)
}

func (p *Policy) Value(name string) (com.Variant, error) {
	if err := checkString("policy name", name); err != nil {
		return com.Variant{}, err
	}
	return invoke(&p.handle, errors.PhaseQuery, "GetValue", func(obj abi.Policy) (com.Variant, com.HRESULT) {
		return obj.GetValue(name)
	})
}

// Helper is ISetupHelper.
type Helper struct {
	handle
}

// ParseVersion parses a dotted version into its packed form.
func (h *Helper) ParseVersion(version string) (Version, error) {
	if err := checkString("version", version); err != nil {
		return 0, err
	}
	v, err := invoke(&h.handle, errors.PhaseQuery, "ParseVersion", func(obj abi.Helper) (uint64, com.HRESULT) {
		return obj.ParseVersion(version)
	})
	return Version(v), err
}

// ParseVersionRange parses a version range such as "[16.0,17.0)" into
// inclusive bounds.
func (h *Helper) ParseVersionRange(versionRange string) (Version, Version, error) {
	if err := checkString("version range", versionRange); err != nil {
		return 0, 0, err
	}
	bounds, err := invoke(&h.handle, errors.PhaseQuery, "ParseVersionRange", func(obj abi.Helper) ([2]uint64, com.HRESULT) {
		lo, hi, hr := obj.ParseVersionRange(versionRange)
		return [2]uint64{lo, hi}, hr
	})
	return Version(bounds[0]), Version(bounds[1]), err
}
