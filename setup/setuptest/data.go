package setuptest

import "github.com/wippyai/vssetup/com"

// InstanceData describes one fake installation.
type InstanceData struct {
	ID          string
	Name        string
	Path        string
	Version     string
	InstallDate com.Filetime

	// DisplayName is returned for any locale without an entry in
	// DisplayNames. Description works the same way.
	DisplayName  string
	DisplayNames map[com.LCID]string
	Description  string
	Descriptions map[com.LCID]string

	State       uint32
	Launchable  bool
	Complete    bool
	ProductPath string
	EnginePath  string

	// Product is nil when the service reports no product.
	Product  *PackageData
	Packages []PackageData

	// Properties backs ISetupInstance2::GetProperties. Nil reports none.
	Properties map[string]com.Variant
	// InstanceProperties backs the ISetupPropertyStore implemented by the
	// instance itself. Nil means the interface is not supported.
	InstanceProperties map[string]com.Variant

	// Catalog is nil when ISetupInstanceCatalog is not supported.
	Catalog *CatalogData
	// Errors is nil when the instance reports no error state.
	Errors *ErrorStateData
	// Localized is nil when ISetupLocalizedProperties is not supported.
	Localized *LocalizedData
}

// PackageData describes a package or product reference.
type PackageData struct {
	ID          string
	Version     string
	Chip        string
	Language    string
	Branch      string
	Type        string
	UniqueID    string
	IsExtension bool

	// Product only.
	IsInstalled        bool
	SupportsExtensions bool

	// Properties is nil when ISetupPropertyStore is not supported.
	Properties map[string]com.Variant
}

// FailedPackageData describes a package that failed to install.
type FailedPackageData struct {
	PackageData
	LogFilePath string
	Description string
	Signature   string
	Details     []string
	Affected    []PackageData
	Action      string
	ReturnCode  string
}

// ErrorStateData describes the error state of an incomplete instance.
type ErrorStateData struct {
	Failed           []FailedPackageData
	Skipped          []PackageData
	ErrorLogFilePath string
	LogFilePath      string
	RuntimeError     *ErrorInfoData
}

// ErrorInfoData describes a runtime error.
type ErrorInfoData struct {
	HResult   com.HRESULT
	ClassName string
	Message   string
}

// CatalogData describes ISetupInstanceCatalog.
type CatalogData struct {
	Info       map[string]com.Variant
	Prerelease bool
}

// LocalizedData describes ISetupLocalizedProperties.
type LocalizedData struct {
	Properties map[com.LCID]map[string]string
	Channel    map[com.LCID]map[string]string
}
