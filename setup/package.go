package setup

import (
	"github.com/wippyai/vssetup/abi"
	"github.com/wippyai/vssetup/com"
	"github.com/wippyai/vssetup/errors"
)

// PackageReference identifies a package (ISetupPackageReference).
type PackageReference struct {
	handle
}

func newPackageReference(h handle) *PackageReference {
	return &PackageReference{h}
}

func (p *PackageReference) str(method string, fn func(abi.PackageReference) (string, com.HRESULT)) (string, error) {
	return invoke(&p.handle, errors.PhaseQuery, method, fn)
}

func (p *PackageReference) ID() (string, error) {
	return p.str("GetId", abi.PackageReference.GetID)
}

func (p *PackageReference) Version() (string, error) {
	return p.str("GetVersion", abi.PackageReference.GetVersion)
}

func (p *PackageReference) Chip() (string, error) {
	return p.str("GetChip", abi.PackageReference.GetChip)
}

func (p *PackageReference) Language() (string, error) {
	return p.str("GetLanguage", abi.PackageReference.GetLanguage)
}

func (p *PackageReference) Branch() (string, error) {
	return p.str("GetBranch", abi.PackageReference.GetBranch)
}

func (p *PackageReference) Type() (string, error) {
	return p.str("GetType", abi.PackageReference.GetType)
}

// UniqueID combines the identifying fields into one string.
func (p *PackageReference) UniqueID() (string, error) {
	return p.str("GetUniqueId", abi.PackageReference.GetUniqueID)
}

func (p *PackageReference) IsExtension() (bool, error) {
	return invoke(&p.handle, errors.PhaseQuery, "GetIsExtension", abi.PackageReference.GetIsExtension)
}

// PropertyStore returns the ISetupPropertyStore of the package.
func (p *PackageReference) PropertyStore() (*PropertyStore, error) {
	obj, err := invoke(&p.handle, errors.PhaseQuery, "QueryInterface(ISetupPropertyStore)", abi.PackageReference.QueryPropertyStore)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.NilPointer(errors.PhaseQuery, p.iface(), "QueryInterface(ISetupPropertyStore)")
	}
	return p.owner.propertyStore(obj)
}

// ProductReference is the product package of an instance.
type ProductReference struct {
	PackageReference
}

func (p *ProductReference) IsInstalled() (bool, error) {
	return invoke(&p.handle, errors.PhaseQuery, "GetIsInstalled", abi.ProductReference.GetIsInstalled)
}

func (p *ProductReference) SupportsExtensions() (bool, error) {
	return invoke(&p.handle, errors.PhaseQuery, "GetSupportsExtensions", abi.ProductReference.GetSupportsExtensions)
}

// FailedPackageReference is a package that failed to install.
type FailedPackageReference struct {
	PackageReference
}

func (f *FailedPackageReference) fstr(method string, fn func(abi.FailedPackageReference) (string, com.HRESULT)) (string, error) {
	return invoke(&f.handle, errors.PhaseQuery, method, fn)
}

func (f *FailedPackageReference) LogFilePath() (string, error) {
	return f.fstr("GetLogFilePath", abi.FailedPackageReference.GetLogFilePath)
}

func (f *FailedPackageReference) Description() (string, error) {
	return f.fstr("GetDescription", abi.FailedPackageReference.GetDescription)
}

func (f *FailedPackageReference) Signature() (string, error) {
	return f.fstr("GetSignature", abi.FailedPackageReference.GetSignature)
}

func (f *FailedPackageReference) Details() ([]string, error) {
	return invoke(&f.handle, errors.PhaseQuery, "GetDetails", abi.FailedPackageReference.GetDetails)
}

// AffectedPackages returns the packages affected by the failure. It
// returns nil when the service reports no list.
func (f *FailedPackageReference) AffectedPackages() ([]*PackageReference, error) {
	objs, err := invoke(&f.handle, errors.PhaseQuery, "GetAffectedPackages", abi.FailedPackageReference.GetAffectedPackages)
	if err != nil {
		return nil, err
	}
	return adoptAll(f.owner, typePackage, objs, newPackageReference)
}

func (f *FailedPackageReference) Action() (string, error) {
	return f.fstr("GetAction", abi.FailedPackageReference.GetAction)
}

func (f *FailedPackageReference) ReturnCode() (string, error) {
	return f.fstr("GetReturnCode", abi.FailedPackageReference.GetReturnCode)
}

// ErrorState describes why an instance is incomplete.
type ErrorState struct {
	handle
}

// FailedPackages returns nil when the service reports no list.
func (e *ErrorState) FailedPackages() ([]*FailedPackageReference, error) {
	objs, err := invoke(&e.handle, errors.PhaseQuery, "GetFailedPackages", abi.ErrorState.GetFailedPackages)
	if err != nil {
		return nil, err
	}
	return adoptAll(e.owner, typeFailedPackage, objs, func(h handle) *FailedPackageReference {
		return &FailedPackageReference{PackageReference{h}}
	})
}

// SkippedPackages returns nil when the service reports no list.
func (e *ErrorState) SkippedPackages() ([]*PackageReference, error) {
	objs, err := invoke(&e.handle, errors.PhaseQuery, "GetSkippedPackages", abi.ErrorState.GetSkippedPackages)
	if err != nil {
		return nil, err
	}
	return adoptAll(e.owner, typePackage, objs, newPackageReference)
}

func (e *ErrorState) ErrorLogFilePath() (string, error) {
	return invoke(&e.handle, errors.PhaseQuery, "GetErrorLogFilePath", abi.ErrorState.GetErrorLogFilePath)
}

func (e *ErrorState) LogFilePath() (string, error) {
	return invoke(&e.handle, errors.PhaseQuery, "GetLogFilePath", abi.ErrorState.GetLogFilePath)
}

// RuntimeError returns the error that stopped the installer, or nil.
func (e *ErrorState) RuntimeError() (*ErrorInfo, error) {
	obj, err := invoke(&e.handle, errors.PhaseQuery, "GetRuntimeError", abi.ErrorState.GetRuntimeError)
	if err != nil || obj == nil {
		return nil, err
	}
	h, err := e.owner.adopt(typeErrorInfo, obj)
	if err != nil {
		return nil, err
	}
	return &ErrorInfo{h}, nil
}

// ErrorInfo is ISetupErrorInfo.
type ErrorInfo struct {
	handle
}

// HResult returns the code the installer failed with. It is data, not a
// failure of this call.
func (e *ErrorInfo) HResult() (com.HRESULT, error) {
	return invoke(&e.handle, errors.PhaseQuery, "GetErrorHResult", abi.ErrorInfo.GetErrorHResult)
}

func (e *ErrorInfo) ClassName() (string, error) {
	return invoke(&e.handle, errors.PhaseQuery, "GetErrorClassName", abi.ErrorInfo.GetErrorClassName)
}

func (e *ErrorInfo) Message() (string, error) {
	return invoke(&e.handle, errors.PhaseQuery, "GetErrorMessage", abi.ErrorInfo.GetErrorMessage)
}
