package report

import (
	"bytes"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/vssetup/com"
	"github.com/wippyai/vssetup/setup"
	"github.com/wippyai/vssetup/setup/setuptest"
)

var installed = time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC)

func community() setuptest.InstanceData {
	return setuptest.InstanceData{
		ID:          "a1b2c3d4",
		Name:        "VisualStudio/17.9.2+34622.214",
		Path:        `C:\VS\Community`,
		Version:     "17.9.34622.214",
		InstallDate: com.TimeToFiletime(installed),
		DisplayName: "Visual Studio Community 2022",
		Description: "IDE",
		State:       0xFFFFFFFF,
		Launchable:  true,
		Complete:    true,
		ProductPath: `Common7\IDE\devenv.exe`,
		EnginePath:  `C:\Installer`,
		Product: &setuptest.PackageData{
			ID:          "Microsoft.VisualStudio.Product.Community",
			Version:     "17.9.34622.214",
			Type:        "Product",
			IsInstalled: true,
		},
		Properties: map[string]com.Variant{
			"nickname":   com.StringVariant("main"),
			"campaignId": com.SignedVariant(-1),
		},
		InstanceProperties: map[string]com.Variant{
			"setupEngineFilePath": com.StringVariant(`C:\Installer\setup.exe`),
		},
		Catalog: &setuptest.CatalogData{
			Info: map[string]com.Variant{"productLineVersion": com.StringVariant("2022")},
		},
		Packages: []setuptest.PackageData{
			{ID: "Microsoft.VisualStudio.Component.VC.Tools.x86.x64", Version: "17.9.33519.126", Type: "Component"},
		},
	}
}

// collect opens svc and snapshots every instance.
func collect(t *testing.T, svc *setuptest.Service, opts Options) []*Instance {
	t.Helper()
	cfg, err := setup.New(setup.WithFactory(svc))
	require.NoError(t, err)

	var out []*Instance
	for inst, err := range cfg.Instances(true) {
		require.NoError(t, err)
		snap, err := Collect(inst, opts)
		require.NoError(t, err)
		out = append(out, snap)
		require.NoError(t, inst.Close())
	}
	assert.Zero(t, cfg.Outstanding(), "Collect must close what it opens")
	require.NoError(t, cfg.Close())
	assert.Zero(t, svc.Live())
	assert.Empty(t, svc.Violations())
	return out
}

func TestCollect(t *testing.T) {
	snaps := collect(t, setuptest.New(community()), Options{LCID: com.LocaleUserDefault, Packages: true})
	require.Len(t, snaps, 1)
	got := snaps[0]

	assert.Equal(t, "Visual Studio Community 2022", got.DisplayName)
	assert.Equal(t, "a1b2c3d4", got.InstanceID)
	assert.Equal(t, com.TimeToFiletime(installed).Uint64(), got.InstallDate)
	assert.True(t, got.InstalledAt.Equal(installed))
	assert.Equal(t, "Complete", got.State)
	assert.Equal(t, uint32(0xFFFFFFFF), got.StateFlags)
	assert.True(t, got.Launchable)

	require.NotNil(t, got.Product)
	assert.Equal(t, "Microsoft.VisualStudio.Product.Community", got.Product.ID)
	assert.True(t, got.Product.IsInstalled)

	assert.Equal(t, Properties{
		{Name: "setupEngineFilePath", Value: com.StringVariant(`C:\Installer\setup.exe`)},
	}, got.PropertyStore)
	assert.Len(t, got.Properties, 2)

	require.NotNil(t, got.Catalog)
	assert.False(t, got.Catalog.IsPrerelease)
	assert.Len(t, got.Catalog.Info, 1)

	require.Len(t, got.Packages, 1)
	assert.Equal(t, "Component", got.Packages[0].Type)
	assert.Nil(t, got.Errors)
}

func TestCollect_OptionalBlocks(t *testing.T) {
	data := setuptest.InstanceData{ID: "bare", State: uint32(setup.StateLocal)}
	snaps := collect(t, setuptest.New(data), Options{Packages: false, Errors: true})
	require.Len(t, snaps, 1)
	got := snaps[0]

	assert.Nil(t, got.Product)
	assert.Nil(t, got.PropertyStore)
	assert.Nil(t, got.Properties)
	assert.Nil(t, got.Catalog)
	assert.Nil(t, got.Packages)
	assert.Nil(t, got.Errors)
	assert.Equal(t, "Incomplete(local)", got.State)
}

func TestCollect_Errors(t *testing.T) {
	data := setuptest.InstanceData{
		ID:    "broken",
		State: uint32(setup.StateLocal),
		Errors: &setuptest.ErrorStateData{
			Failed: []setuptest.FailedPackageData{{
				PackageData: setuptest.PackageData{ID: "Microsoft.VisualCpp.Redist.14"},
				Details:     []string{"exit code 1638"},
				Affected:    []setuptest.PackageData{{ID: "Microsoft.VisualStudio.Component.VC.Redist"}},
				ReturnCode:  "1638",
			}},
			Skipped:      []setuptest.PackageData{{ID: "skipped"}},
			LogFilePath:  `C:\Temp\dd_setup.log`,
			RuntimeError: &setuptest.ErrorInfoData{HResult: com.E_FAIL, Message: "boom"},
		},
	}
	snaps := collect(t, setuptest.New(data), Options{Errors: true})
	require.Len(t, snaps, 1)
	e := snaps[0].Errors
	require.NotNil(t, e)

	require.Len(t, e.Failed, 1)
	assert.Equal(t, "Microsoft.VisualCpp.Redist.14", e.Failed[0].ID)
	assert.Equal(t, []string{"exit code 1638"}, e.Failed[0].Details)
	assert.Equal(t, []Package{{ID: "Microsoft.VisualStudio.Component.VC.Redist"}}, e.Failed[0].Affected)
	assert.Equal(t, []Package{{ID: "skipped"}}, e.Skipped)
	require.NotNil(t, e.RuntimeError)
	assert.Equal(t, com.E_FAIL.String(), e.RuntimeError.HResult)
	assert.Equal(t, "boom", e.RuntimeError.Message)
}

func TestCollect_Failure(t *testing.T) {
	svc := setuptest.New(community()).Fail("ISetupPackageReference.GetChip", com.E_ACCESSDENIED)
	cfg, err := setup.New(setup.WithFactory(svc))
	require.NoError(t, err)
	defer cfg.Close()

	inst, err := cfg.InstanceForPath(`C:\VS\Community`)
	require.NoError(t, err)

	_, err = Collect(inst, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product")
	assert.Equal(t, com.E_ACCESSDENIED, com.CodeOf(err))
	assert.Equal(t, 1, cfg.Outstanding(), "only the instance stays open")
}

func TestWriteText(t *testing.T) {
	snaps := collect(t, setuptest.New(community(), setuptest.InstanceData{ID: "second"}), Options{Packages: true})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, snaps))

	ticks := com.TimeToFiletime(installed).Uint64()
	want := `displayName: Visual Studio Community 2022
description: IDE
instanceId: a1b2c3d4
installDate: FILETIME(` + strconv.FormatUint(ticks, 10) + `)
installationName: VisualStudio/17.9.2+34622.214
installationPath: C:\VS\Community
installationVersion: 17.9.34622.214
state: Complete
enginePath: C:\Installer
productPath: Common7\IDE\devenv.exe
product: {
    id: Microsoft.VisualStudio.Product.Community
    uniqueId:
    version: 17.9.34622.214
    type: Product
    branch:
    chip:
    isExtension: false
    language:
    isInstalled: true
    supportsExtensions: false
}
propertyStore: {
    setupEngineFilePath: C:\Installer\setup.exe
}
properties: {
    campaignId: -1
    nickname: main
}
catalog: {
    isPrerelease: false
    productLineVersion: 2022
}
packages: [
    {
        id: Microsoft.VisualStudio.Component.VC.Tools.x86.x64
        uniqueId:
        version: 17.9.33519.126
        type: Component
        branch:
        chip:
        isExtension: false
        language:
    }
]

displayName:
description:
instanceId: second
installDate: FILETIME(0)
installationName:
installationPath:
installationVersion:
state: None
enginePath:
productPath:
packages: [
]
`
	assert.Equal(t, want, buf.String())
}

func TestWriteJSON(t *testing.T) {
	snaps := collect(t, setuptest.New(community()), Options{})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, snaps))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "a1b2c3d4", decoded[0]["instanceId"])
	assert.Equal(t, map[string]any{"campaignId": float64(-1), "nickname": "main"}, decoded[0]["properties"])
	assert.NotContains(t, decoded[0], "packages")

	// Property order is preserved.
	assert.Contains(t, buf.String(), `"properties": {
      "campaignId": -1,
      "nickname": "main"
    }`)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	snaps := collect(t, setuptest.New(community()), Options{})

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, snaps))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "a1b2c3d4", decoded[0]["instanceId"])
	assert.Equal(t, map[string]any{"campaignId": -1, "nickname": "main"}, decoded[0]["properties"])

	product, ok := decoded[0]["product"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Microsoft.VisualStudio.Product.Community", product["id"], "package fields are inlined")
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, "xml", nil))
}
