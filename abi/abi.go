package abi

import "github.com/wippyai/vssetup/com"

// Unknown is the common base of every object handed out by the service.
type Unknown interface {
	// Release drops one reference and returns the remaining count.
	Release() uint32
}

// Factory creates the root configuration object.
type Factory interface {
	CreateConfiguration() (Configuration, com.HRESULT)
}

// Configuration is ISetupConfiguration with ISetupConfiguration2 folded in.
type Configuration interface {
	Unknown
	EnumInstances() (EnumInstances, com.HRESULT)
	GetInstanceForCurrentProcess() (Instance, com.HRESULT)
	GetInstanceForPath(path string) (Instance, com.HRESULT)
	// EnumAllInstances requires ISetupConfiguration2.
	EnumAllInstances() (EnumInstances, com.HRESULT)
	QueryHelper() (Helper, com.HRESULT)
	QueryPolicy() (Policy, com.HRESULT)
}

// EnumInstances is IEnumSetupInstances.
type EnumInstances interface {
	Unknown
	// Next returns the objects stored by the service and the count it
	// reported. The count can exceed len(items) if the service misbehaves;
	// the items returned are still owned by the caller.
	Next(celt uint32) (items []Instance, fetched uint32, hr com.HRESULT)
	Skip(celt uint32) com.HRESULT
	Reset() com.HRESULT
	Clone() (EnumInstances, com.HRESULT)
}

// Instance is ISetupInstance with ISetupInstance2 folded in, plus the
// optional interfaces reachable by QueryInterface.
type Instance interface {
	Unknown
	GetInstanceID() (string, com.HRESULT)
	GetInstallDate() (com.Filetime, com.HRESULT)
	GetInstallationName() (string, com.HRESULT)
	GetInstallationPath() (string, com.HRESULT)
	GetInstallationVersion() (string, com.HRESULT)
	GetDisplayName(lcid com.LCID) (string, com.HRESULT)
	GetDescription(lcid com.LCID) (string, com.HRESULT)
	ResolvePath(relative string) (string, com.HRESULT)

	GetState() (uint32, com.HRESULT)
	// GetPackages returns com.E_POINTER when the service yields no array.
	GetPackages() ([]PackageReference, com.HRESULT)
	// GetProduct may return a nil reference with a success code.
	GetProduct() (ProductReference, com.HRESULT)
	GetProductPath() (string, com.HRESULT)
	GetErrors() (ErrorState, com.HRESULT)
	IsLaunchable() (bool, com.HRESULT)
	IsComplete() (bool, com.HRESULT)
	GetProperties() (PropertyStore, com.HRESULT)
	GetEnginePath() (string, com.HRESULT)

	QueryCatalog() (Catalog, com.HRESULT)
	QueryPropertyStore() (PropertyStore, com.HRESULT)
	QueryLocalizedProperties() (LocalizedProperties, com.HRESULT)
}

// PackageReference is ISetupPackageReference.
type PackageReference interface {
	Unknown
	GetID() (string, com.HRESULT)
	GetVersion() (string, com.HRESULT)
	GetChip() (string, com.HRESULT)
	GetLanguage() (string, com.HRESULT)
	GetBranch() (string, com.HRESULT)
	GetType() (string, com.HRESULT)
	GetUniqueID() (string, com.HRESULT)
	GetIsExtension() (bool, com.HRESULT)
	QueryPropertyStore() (PropertyStore, com.HRESULT)
}

// ProductReference is the package reference returned by GetProduct, with
// ISetupProductReference and ISetupProductReference2 reachable from it.
type ProductReference interface {
	PackageReference
	GetIsInstalled() (bool, com.HRESULT)
	GetSupportsExtensions() (bool, com.HRESULT)
}

// FailedPackageReference is ISetupFailedPackageReference with its
// second and third revisions folded in.
type FailedPackageReference interface {
	PackageReference
	GetLogFilePath() (string, com.HRESULT)
	GetDescription() (string, com.HRESULT)
	GetSignature() (string, com.HRESULT)
	GetDetails() ([]string, com.HRESULT)
	// GetAffectedPackages returns nil with a success code when the service
	// yields no array.
	GetAffectedPackages() ([]PackageReference, com.HRESULT)
	GetAction() (string, com.HRESULT)
	GetReturnCode() (string, com.HRESULT)
}

// ErrorState is ISetupErrorState with its second and third revisions.
type ErrorState interface {
	Unknown
	GetFailedPackages() ([]FailedPackageReference, com.HRESULT)
	GetSkippedPackages() ([]PackageReference, com.HRESULT)
	GetErrorLogFilePath() (string, com.HRESULT)
	GetLogFilePath() (string, com.HRESULT)
	GetRuntimeError() (ErrorInfo, com.HRESULT)
}

// ErrorInfo is ISetupErrorInfo.
type ErrorInfo interface {
	Unknown
	GetErrorHResult() (com.HRESULT, com.HRESULT)
	GetErrorClassName() (string, com.HRESULT)
	GetErrorMessage() (string, com.HRESULT)
}

// PropertyStore is ISetupPropertyStore.
type PropertyStore interface {
	Unknown
	GetNames() ([]string, com.HRESULT)
	GetValue(name string) (com.Variant, com.HRESULT)
}

// LocalizedProperties is ISetupLocalizedProperties.
type LocalizedProperties interface {
	Unknown
	GetLocalizedProperties() (LocalizedPropertyStore, com.HRESULT)
	GetLocalizedChannelProperties() (LocalizedPropertyStore, com.HRESULT)
}

// LocalizedPropertyStore is ISetupLocalizedPropertyStore.
type LocalizedPropertyStore interface {
	Unknown
	GetNames(lcid com.LCID) ([]string, com.HRESULT)
	GetValue(name string, lcid com.LCID) (com.Variant, com.HRESULT)
}

// Catalog is ISetupInstanceCatalog.
type Catalog interface {
	Unknown
	GetCatalogInfo() (PropertyStore, com.HRESULT)
	IsPrerelease() (bool, com.HRESULT)
}

// Policy is ISetupPolicy.
type Policy interface {
	Unknown
	GetSharedInstallationPath() (string, com.HRESULT)
	GetValue(name string) (com.Variant, com.HRESULT)
}

// Helper is ISetupHelper.
type Helper interface {
	Unknown
	ParseVersion(version string) (uint64, com.HRESULT)
	ParseVersionRange(versionRange string) (minVersion, maxVersion uint64, hr com.HRESULT)
}
