package setuptest

import (
	"strings"

	"github.com/wippyai/vssetup/abi"
	"github.com/wippyai/vssetup/com"
)

type instance struct {
	ref
	data InstanceData
}

func (s *Service) newInstance(data InstanceData) *instance {
	return &instance{ref: s.newRef("ISetupInstance"), data: data}
}

func (i *instance) GetInstanceID() (string, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance.GetInstanceId"); failed {
		return "", hr
	}
	return i.data.ID, com.S_OK
}

func (i *instance) GetInstallDate() (com.Filetime, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance.GetInstallDate"); failed {
		return com.Filetime{}, hr
	}
	return i.data.InstallDate, com.S_OK
}

func (i *instance) GetInstallationName() (string, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance.GetInstallationName"); failed {
		return "", hr
	}
	return i.data.Name, com.S_OK
}

func (i *instance) GetInstallationPath() (string, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance.GetInstallationPath"); failed {
		return "", hr
	}
	return i.data.Path, com.S_OK
}

func (i *instance) GetInstallationVersion() (string, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance.GetInstallationVersion"); failed {
		return "", hr
	}
	return i.data.Version, com.S_OK
}

func localized(byLCID map[com.LCID]string, lcid com.LCID, fallback string) string {
	if s, ok := byLCID[lcid]; ok {
		return s
	}
	return fallback
}

func (i *instance) GetDisplayName(lcid com.LCID) (string, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance.GetDisplayName"); failed {
		return "", hr
	}
	return localized(i.data.DisplayNames, lcid, i.data.DisplayName), com.S_OK
}

func (i *instance) GetDescription(lcid com.LCID) (string, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance.GetDescription"); failed {
		return "", hr
	}
	return localized(i.data.Descriptions, lcid, i.data.Description), com.S_OK
}

func (i *instance) ResolvePath(relative string) (string, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance.ResolvePath"); failed {
		return "", hr
	}
	if strings.ContainsRune(relative, 0) {
		return "", com.E_INVALIDARG
	}
	root := strings.TrimRight(i.data.Path, `\`)
	relative = strings.TrimLeft(relative, `\`)
	if relative == "" {
		return root, com.S_OK
	}
	return root + `\` + relative, com.S_OK
}

func (i *instance) GetState() (uint32, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance2.GetState"); failed {
		return 0, hr
	}
	return i.data.State, com.S_OK
}

func (i *instance) GetPackages() ([]abi.PackageReference, com.HRESULT) {
	const method = "ISetupInstance2.GetPackages"
	if hr, failed := i.enter(method); failed {
		return nil, hr
	}
	if i.null(method) {
		return nil, com.E_POINTER
	}
	return i.svc.newPackages(i.data.Packages), com.S_OK
}

func (i *instance) GetProduct() (abi.ProductReference, com.HRESULT) {
	const method = "ISetupInstance2.GetProduct"
	if hr, failed := i.enter(method); failed {
		return nil, hr
	}
	if i.data.Product == nil || i.null(method) {
		return nil, com.S_OK
	}
	return &productReference{packageReference{ref: i.svc.newRef("ISetupPackageReference"), data: *i.data.Product}}, com.S_OK
}

func (i *instance) GetProductPath() (string, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance2.GetProductPath"); failed {
		return "", hr
	}
	return i.data.ProductPath, com.S_OK
}

func (i *instance) GetErrors() (abi.ErrorState, com.HRESULT) {
	const method = "ISetupInstance2.GetErrors"
	if hr, failed := i.enter(method); failed {
		return nil, hr
	}
	if i.data.Errors == nil || i.null(method) {
		return nil, com.S_OK
	}
	return &errorState{ref: i.svc.newRef("ISetupErrorState"), data: *i.data.Errors}, com.S_OK
}

func (i *instance) IsLaunchable() (bool, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance2.IsLaunchable"); failed {
		return false, hr
	}
	return i.data.Launchable, com.S_OK
}

func (i *instance) IsComplete() (bool, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance2.IsComplete"); failed {
		return false, hr
	}
	return i.data.Complete, com.S_OK
}

func (i *instance) GetProperties() (abi.PropertyStore, com.HRESULT) {
	const method = "ISetupInstance2.GetProperties"
	if hr, failed := i.enter(method); failed {
		return nil, hr
	}
	if i.data.Properties == nil || i.null(method) {
		return nil, com.S_OK
	}
	return i.svc.newPropertyStore(i.data.Properties), com.S_OK
}

func (i *instance) GetEnginePath() (string, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance2.GetEnginePath"); failed {
		return "", hr
	}
	return i.data.EnginePath, com.S_OK
}

func (i *instance) QueryCatalog() (abi.Catalog, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance.QueryCatalog"); failed {
		return nil, hr
	}
	if i.data.Catalog == nil {
		return nil, com.E_NOINTERFACE
	}
	return &catalog{ref: i.svc.newRef("ISetupInstanceCatalog"), data: *i.data.Catalog}, com.S_OK
}

func (i *instance) QueryPropertyStore() (abi.PropertyStore, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance.QueryPropertyStore"); failed {
		return nil, hr
	}
	if i.data.InstanceProperties == nil {
		return nil, com.E_NOINTERFACE
	}
	return i.svc.newPropertyStore(i.data.InstanceProperties), com.S_OK
}

func (i *instance) QueryLocalizedProperties() (abi.LocalizedProperties, com.HRESULT) {
	if hr, failed := i.enter("ISetupInstance.QueryLocalizedProperties"); failed {
		return nil, hr
	}
	if i.data.Localized == nil {
		return nil, com.E_NOINTERFACE
	}
	return &localizedProperties{ref: i.svc.newRef("ISetupLocalizedProperties"), data: *i.data.Localized}, com.S_OK
}

type packageReference struct {
	ref
	data PackageData
}

func (s *Service) newPackages(list []PackageData) []abi.PackageReference {
	out := make([]abi.PackageReference, len(list))
	for i, p := range list {
		out[i] = &packageReference{ref: s.newRef("ISetupPackageReference"), data: p}
	}
	return out
}

func (p *packageReference) str(method, value string) (string, com.HRESULT) {
	if hr, failed := p.enter("ISetupPackageReference." + method); failed {
		return "", hr
	}
	return value, com.S_OK
}

func (p *packageReference) GetID() (string, com.HRESULT) {
	return p.str("GetId", p.data.ID)
}

func (p *packageReference) GetVersion() (string, com.HRESULT) {
	return p.str("GetVersion", p.data.Version)
}

func (p *packageReference) GetChip() (string, com.HRESULT) {
	return p.str("GetChip", p.data.Chip)
}

func (p *packageReference) GetLanguage() (string, com.HRESULT) {
	return p.str("GetLanguage", p.data.Language)
}

func (p *packageReference) GetBranch() (string, com.HRESULT) {
	return p.str("GetBranch", p.data.Branch)
}

func (p *packageReference) GetType() (string, com.HRESULT) {
	return p.str("GetType", p.data.Type)
}

func (p *packageReference) GetUniqueID() (string, com.HRESULT) {
	return p.str("GetUniqueId", p.data.UniqueID)
}

func (p *packageReference) GetIsExtension() (bool, com.HRESULT) {
	if hr, failed := p.enter("ISetupPackageReference.GetIsExtension"); failed {
		return false, hr
	}
	return p.data.IsExtension, com.S_OK
}

func (p *packageReference) QueryPropertyStore() (abi.PropertyStore, com.HRESULT) {
	if hr, failed := p.enter("ISetupPackageReference.QueryPropertyStore"); failed {
		return nil, hr
	}
	if p.data.Properties == nil {
		return nil, com.E_NOINTERFACE
	}
	return p.svc.newPropertyStore(p.data.Properties), com.S_OK
}

type productReference struct {
	packageReference
}

func (p *productReference) GetIsInstalled() (bool, com.HRESULT) {
	if hr, failed := p.enter("ISetupProductReference.GetIsInstalled"); failed {
		return false, hr
	}
	return p.data.IsInstalled, com.S_OK
}

func (p *productReference) GetSupportsExtensions() (bool, com.HRESULT) {
	if hr, failed := p.enter("ISetupProductReference2.GetSupportsExtensions"); failed {
		return false, hr
	}
	return p.data.SupportsExtensions, com.S_OK
}

type failedPackageReference struct {
	packageReference
	failed FailedPackageData
}

func (f *failedPackageReference) str2(method, value string) (string, com.HRESULT) {
	if hr, failed := f.enter(method); failed {
		return "", hr
	}
	return value, com.S_OK
}

func (f *failedPackageReference) GetLogFilePath() (string, com.HRESULT) {
	return f.str2("ISetupFailedPackageReference2.GetLogFilePath", f.failed.LogFilePath)
}

func (f *failedPackageReference) GetDescription() (string, com.HRESULT) {
	return f.str2("ISetupFailedPackageReference2.GetDescription", f.failed.Description)
}

func (f *failedPackageReference) GetSignature() (string, com.HRESULT) {
	return f.str2("ISetupFailedPackageReference2.GetSignature", f.failed.Signature)
}

func (f *failedPackageReference) GetDetails() ([]string, com.HRESULT) {
	const method = "ISetupFailedPackageReference2.GetDetails"
	if hr, failed := f.enter(method); failed {
		return nil, hr
	}
	if f.null(method) {
		return nil, com.E_POINTER
	}
	return append([]string{}, f.failed.Details...), com.S_OK
}

func (f *failedPackageReference) GetAffectedPackages() ([]abi.PackageReference, com.HRESULT) {
	if hr, failed := f.enter("ISetupFailedPackageReference2.GetAffectedPackages"); failed {
		return nil, hr
	}
	if f.failed.Affected == nil {
		return nil, com.S_OK
	}
	return f.svc.newPackages(f.failed.Affected), com.S_OK
}

func (f *failedPackageReference) GetAction() (string, com.HRESULT) {
	return f.str2("ISetupFailedPackageReference3.GetAction", f.failed.Action)
}

func (f *failedPackageReference) GetReturnCode() (string, com.HRESULT) {
	return f.str2("ISetupFailedPackageReference3.GetReturnCode", f.failed.ReturnCode)
}

type errorState struct {
	ref
	data ErrorStateData
}

func (e *errorState) GetFailedPackages() ([]abi.FailedPackageReference, com.HRESULT) {
	if hr, failed := e.enter("ISetupErrorState.GetFailedPackages"); failed {
		return nil, hr
	}
	if e.data.Failed == nil {
		return nil, com.S_OK
	}
	out := make([]abi.FailedPackageReference, len(e.data.Failed))
	for i, f := range e.data.Failed {
		out[i] = &failedPackageReference{
			packageReference: packageReference{ref: e.svc.newRef("ISetupFailedPackageReference"), data: f.PackageData},
			failed:           f,
		}
	}
	return out, com.S_OK
}

func (e *errorState) GetSkippedPackages() ([]abi.PackageReference, com.HRESULT) {
	if hr, failed := e.enter("ISetupErrorState.GetSkippedPackages"); failed {
		return nil, hr
	}
	if e.data.Skipped == nil {
		return nil, com.S_OK
	}
	return e.svc.newPackages(e.data.Skipped), com.S_OK
}

func (e *errorState) GetErrorLogFilePath() (string, com.HRESULT) {
	if hr, failed := e.enter("ISetupErrorState2.GetErrorLogFilePath"); failed {
		return "", hr
	}
	return e.data.ErrorLogFilePath, com.S_OK
}

func (e *errorState) GetLogFilePath() (string, com.HRESULT) {
	if hr, failed := e.enter("ISetupErrorState2.GetLogFilePath"); failed {
		return "", hr
	}
	return e.data.LogFilePath, com.S_OK
}

func (e *errorState) GetRuntimeError() (abi.ErrorInfo, com.HRESULT) {
	if hr, failed := e.enter("ISetupErrorState3.GetRuntimeError"); failed {
		return nil, hr
	}
	if e.data.RuntimeError == nil {
		return nil, com.S_OK
	}
	return &errorInfo{ref: e.svc.newRef("ISetupErrorInfo"), data: *e.data.RuntimeError}, com.S_OK
}

type errorInfo struct {
	ref
	data ErrorInfoData
}

func (e *errorInfo) GetErrorHResult() (com.HRESULT, com.HRESULT) {
	if hr, failed := e.enter("ISetupErrorInfo.GetErrorHResult"); failed {
		return 0, hr
	}
	return e.data.HResult, com.S_OK
}

func (e *errorInfo) GetErrorClassName() (string, com.HRESULT) {
	if hr, failed := e.enter("ISetupErrorInfo.GetErrorClassName"); failed {
		return "", hr
	}
	return e.data.ClassName, com.S_OK
}

func (e *errorInfo) GetErrorMessage() (string, com.HRESULT) {
	if hr, failed := e.enter("ISetupErrorInfo.GetErrorMessage"); failed {
		return "", hr
	}
	return e.data.Message, com.S_OK
}

type catalog struct {
	ref
	data CatalogData
}

func (c *catalog) GetCatalogInfo() (abi.PropertyStore, com.HRESULT) {
	const method = "ISetupInstanceCatalog.GetCatalogInfo"
	if hr, failed := c.enter(method); failed {
		return nil, hr
	}
	if c.data.Info == nil || c.null(method) {
		return nil, com.S_OK
	}
	return c.svc.newPropertyStore(c.data.Info), com.S_OK
}

func (c *catalog) IsPrerelease() (bool, com.HRESULT) {
	if hr, failed := c.enter("ISetupInstanceCatalog.IsPrerelease"); failed {
		return false, hr
	}
	return c.data.Prerelease, com.S_OK
}

type localizedProperties struct {
	ref
	data LocalizedData
}

func (l *localizedProperties) GetLocalizedProperties() (abi.LocalizedPropertyStore, com.HRESULT) {
	const method = "ISetupLocalizedProperties.GetLocalizedProperties"
	if hr, failed := l.enter(method); failed {
		return nil, hr
	}
	if l.null(method) {
		return nil, com.S_OK
	}
	return &localizedPropertyStore{ref: l.svc.newRef("ISetupLocalizedPropertyStore"), values: l.data.Properties}, com.S_OK
}

func (l *localizedProperties) GetLocalizedChannelProperties() (abi.LocalizedPropertyStore, com.HRESULT) {
	const method = "ISetupLocalizedProperties.GetLocalizedChannelProperties"
	if hr, failed := l.enter(method); failed {
		return nil, hr
	}
	if l.null(method) {
		return nil, com.S_OK
	}
	return &localizedPropertyStore{ref: l.svc.newRef("ISetupLocalizedPropertyStore"), values: l.data.Channel}, com.S_OK
}

type localizedPropertyStore struct {
	ref
	values map[com.LCID]map[string]string
}

func (l *localizedPropertyStore) GetNames(lcid com.LCID) ([]string, com.HRESULT) {
	if hr, failed := l.enter("ISetupLocalizedPropertyStore.GetNames"); failed {
		return nil, hr
	}
	return sortedKeys(l.values[lcid]), com.S_OK
}

func (l *localizedPropertyStore) GetValue(name string, lcid com.LCID) (com.Variant, com.HRESULT) {
	if hr, failed := l.enter("ISetupLocalizedPropertyStore.GetValue"); failed {
		return com.Variant{}, hr
	}
	s, ok := l.values[lcid][name]
	if !ok {
		return com.Variant{}, com.E_NOTFOUND
	}
	return com.StringVariant(s), com.S_OK
}
