//go:build !windows

package prereq

// InstalledSDK reports no SDK outside Windows.
func InstalledSDK(string) (string, bool) {
	return "", false
}
