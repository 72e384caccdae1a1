package setup_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/vssetup/com"
	vserrors "github.com/wippyai/vssetup/errors"
	"github.com/wippyai/vssetup/setup"
	"github.com/wippyai/vssetup/setup/setuptest"
)

var variantEqual = cmp.Comparer(func(a, b com.Variant) bool { return a == b })

func TestPropertyStore(t *testing.T) {
	data := community
	data.Properties = map[string]com.Variant{
		"nickname":         com.StringVariant("main"),
		"channelId":        com.StringVariant("VisualStudio.17.Release"),
		"campaignId":       com.SignedVariant(-1),
		"setupEngineFixed": com.BoolVariant(true),
	}
	data.InstanceProperties = map[string]com.Variant{"instanceId": com.StringVariant(data.ID)}
	inst := firstInstance(t, setuptest.New(data))

	props, err := inst.Properties()
	if err != nil {
		t.Fatal(err)
	}

	t.Run("All", func(t *testing.T) {
		got, err := props.All()
		if err != nil {
			t.Fatal(err)
		}
		want := []setup.Property{
			{Name: "campaignId", Value: com.SignedVariant(-1)},
			{Name: "channelId", Value: com.StringVariant("VisualStudio.17.Release")},
			{Name: "nickname", Value: com.StringVariant("main")},
			{Name: "setupEngineFixed", Value: com.BoolVariant(true)},
		}
		if diff := cmp.Diff(want, got, variantEqual); diff != "" {
			t.Errorf("properties mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := props.Value("nope")
		if got := hresultOf(t, err); got != com.E_NOTFOUND {
			t.Errorf("HRESULT = %v, want E_NOTFOUND", got)
		}
	})

	t.Run("nul name", func(t *testing.T) {
		_, err := props.Value("nick\x00name")
		if got := kindOf(t, err); got != vserrors.KindInvalidInput {
			t.Errorf("Kind = %s", got)
		}
		if got := hresultOf(t, err); got != com.E_INVALIDARG {
			t.Errorf("HRESULT = %v", got)
		}
	})

	t.Run("instance store", func(t *testing.T) {
		store, err := inst.PropertyStore()
		if err != nil {
			t.Fatal(err)
		}
		names, err := store.Names()
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"instanceId"}, names); diff != "" {
			t.Errorf("names (-want +got):\n%s", diff)
		}
	})
}

func TestPropertyStore_NamesNull(t *testing.T) {
	data := community
	data.Properties = map[string]com.Variant{"a": com.BoolVariant(false)}
	svc := setuptest.New(data)
	svc.Null("ISetupPropertyStore.GetNames")
	inst := firstInstance(t, svc)

	props, err := inst.Properties()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := props.All(); hresultOf(t, err) != com.E_POINTER {
		t.Errorf("All() = %v, want E_POINTER", err)
	}
}

func TestCatalog(t *testing.T) {
	data := community
	data.Catalog = &setuptest.CatalogData{
		Info: map[string]com.Variant{
			"productDisplayVersion": com.StringVariant("17.9.2"),
			"productLineVersion":    com.StringVariant("2022"),
		},
		Prerelease: true,
	}
	inst := firstInstance(t, setuptest.New(data))

	catalog, err := inst.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	pre, err := catalog.IsPrerelease()
	if err != nil || !pre {
		t.Errorf("IsPrerelease() = %v, %v", pre, err)
	}
	info, err := catalog.Info()
	if err != nil {
		t.Fatal(err)
	}
	v, err := info.Value("productDisplayVersion")
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := v.AsString(); s != "17.9.2" {
		t.Errorf("productDisplayVersion = %v", v)
	}

	t.Run("no info", func(t *testing.T) {
		data := community
		data.Catalog = &setuptest.CatalogData{}
		inst := firstInstance(t, setuptest.New(data))
		catalog, err := inst.Catalog()
		if err != nil {
			t.Fatal(err)
		}
		info, err := catalog.Info()
		if err != nil || info != nil {
			t.Errorf("Info() = %v, %v, want nil, nil", info, err)
		}
	})
}

func TestLocalizedProperties(t *testing.T) {
	const german com.LCID = 0x0407
	data := community
	data.Localized = &setuptest.LocalizedData{
		Properties: map[com.LCID]map[string]string{
			com.LocaleUserDefault: {"name": "Community", "description": "IDE"},
			german:                {"name": "Gemeinschaft"},
		},
		Channel: map[com.LCID]map[string]string{
			com.LocaleUserDefault: {"channelName": "Release"},
		},
	}
	inst := firstInstance(t, setuptest.New(data))

	loc, err := inst.LocalizedProperties()
	if err != nil {
		t.Fatal(err)
	}

	props, err := loc.Properties()
	if err != nil {
		t.Fatal(err)
	}
	got, err := props.All(com.LocaleUserDefault)
	if err != nil {
		t.Fatal(err)
	}
	want := []setup.Property{
		{Name: "description", Value: com.StringVariant("IDE")},
		{Name: "name", Value: com.StringVariant("Community")},
	}
	if diff := cmp.Diff(want, got, variantEqual); diff != "" {
		t.Errorf("user default (-want +got):\n%s", diff)
	}

	v, err := props.Value("name", german)
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := v.AsString(); s != "Gemeinschaft" {
		t.Errorf("german name = %v", v)
	}
	if _, err := props.Value("description", german); hresultOf(t, err) != com.E_NOTFOUND {
		t.Errorf("missing german description = %v", err)
	}

	channel, err := loc.ChannelProperties()
	if err != nil {
		t.Fatal(err)
	}
	names, err := channel.Names(com.LocaleUserDefault)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"channelName"}, names); diff != "" {
		t.Errorf("channel names (-want +got):\n%s", diff)
	}
}

func TestLocalizedProperties_Null(t *testing.T) {
	data := community
	data.Localized = &setuptest.LocalizedData{}
	svc := setuptest.New(data)
	svc.Null("ISetupLocalizedProperties.GetLocalizedChannelProperties")
	inst := firstInstance(t, svc)

	loc, err := inst.LocalizedProperties()
	if err != nil {
		t.Fatal(err)
	}
	_, err = loc.ChannelProperties()
	if got := kindOf(t, err); got != vserrors.KindNilPointer {
		t.Errorf("Kind = %s, want nil_pointer", got)
	}
}

func TestHelper(t *testing.T) {
	cfg := open(t, setuptest.New())
	helper, err := cfg.Helper()
	if err != nil {
		t.Fatal(err)
	}

	t.Run("ParseVersion", func(t *testing.T) {
		tests := []struct {
			in   string
			want setup.Version
			hr   com.HRESULT
		}{
			{"17.9.34622.214", setup.MakeVersion(17, 9, 34622, 214), com.S_OK},
			{"16.0", setup.MakeVersion(16, 0, 0, 0), com.S_OK},
			{"1.2.3.4.5", 0, com.E_INVALIDARG},
			{"abc", 0, com.E_INVALIDARG},
			{"1\x00", 0, com.E_INVALIDARG},
		}
		for _, tt := range tests {
			got, err := helper.ParseVersion(tt.in)
			if tt.hr.Failed() {
				if got := hresultOf(t, err); got != tt.hr {
					t.Errorf("ParseVersion(%q) HRESULT = %v, want %v", tt.in, got, tt.hr)
				}
				continue
			}
			if err != nil {
				t.Errorf("ParseVersion(%q): %v", tt.in, err)
				continue
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	})

	t.Run("ParseVersionRange", func(t *testing.T) {
		tests := []struct {
			in     string
			lo, hi setup.Version
		}{
			{"[16.0,17.0)", setup.MakeVersion(16, 0, 0, 0), setup.MakeVersion(17, 0, 0, 0) - 1},
			{"[17.9,17.9]", setup.MakeVersion(17, 9, 0, 0), setup.MakeVersion(17, 9, 0, 0)},
			{"17.0", setup.MakeVersion(17, 0, 0, 0), setup.Version(^uint64(0))},
		}
		for _, tt := range tests {
			lo, hi, err := helper.ParseVersionRange(tt.in)
			if err != nil {
				t.Errorf("ParseVersionRange(%q): %v", tt.in, err)
				continue
			}
			if lo != tt.lo || hi != tt.hi {
				t.Errorf("ParseVersionRange(%q) = %v, %v, want %v, %v", tt.in, lo, hi, tt.lo, tt.hi)
			}
		}

		if _, _, err := helper.ParseVersionRange("[17.0,16.0]"); hresultOf(t, err) != com.E_INVALIDARG {
			t.Errorf("inverted range = %v", err)
		}
	})
}
