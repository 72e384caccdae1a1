package prereq

import (
	"cmp"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Registry key under HKLM listing installed Windows Kits.
const installedRootsKey = `SOFTWARE\Microsoft\Windows Kits\Installed Roots`

func sdkArchDir(arch string) string {
	if arch == "arm64" {
		return "arm64"
	}
	return "x64"
}

// compareVersions compares dotted numeric versions such as 10.0.22621.0.
// Non-numeric parts compare as zero.
func compareVersions(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := range max(len(as), len(bs)) {
		var x, y uint64
		if i < len(as) {
			x, _ = strconv.ParseUint(as[i], 10, 64)
		}
		if i < len(bs) {
			y, _ = strconv.ParseUint(bs[i], 10, 64)
		}
		if c := cmp.Compare(x, y); c != 0 {
			return c
		}
	}
	return 0
}

// newestSDK returns the highest version under root whose import
// libraries exist for arch.
func newestSDK(root string, versions []string, arch string, exists func(string) bool) (string, bool) {
	versions = slices.Clone(versions)
	slices.SortFunc(versions, func(a, b string) int { return compareVersions(b, a) })
	for _, v := range versions {
		if !strings.HasPrefix(v, "10.") {
			continue
		}
		if exists(filepath.Join(root, "Lib", v, "um", sdkArchDir(arch), "kernel32.lib")) {
			return v, true
		}
	}
	return "", false
}
