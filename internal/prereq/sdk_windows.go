//go:build windows

package prereq

import (
	"os"

	"golang.org/x/sys/windows/registry"
)

// InstalledSDK returns the newest Windows 10/11 SDK usable for arch.
func InstalledSDK(arch string) (string, bool) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, installedRootsKey, registry.READ|registry.WOW64_32KEY)
	if err != nil {
		return "", false
	}
	defer k.Close()

	root, _, err := k.GetStringValue("KitsRoot10")
	if err != nil {
		return "", false
	}
	versions, err := k.ReadSubKeyNames(0)
	if err != nil {
		return "", false
	}
	return newestSDK(root, versions, arch, func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	})
}
