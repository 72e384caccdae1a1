package setup

import "fmt"

// Version is a version packed as four 16-bit fields, major first, as
// returned by ISetupHelper.
type Version uint64

// MakeVersion packs the four fields.
func MakeVersion(major, minor, build, revision uint16) Version {
	return Version(uint64(major)<<48 | uint64(minor)<<32 | uint64(build)<<16 | uint64(revision))
}

func (v Version) Major() uint16    { return uint16(v >> 48) }
func (v Version) Minor() uint16    { return uint16(v >> 32) }
func (v Version) Build() uint16    { return uint16(v >> 16) }
func (v Version) Revision() uint16 { return uint16(v) }

// String returns the dotted form with all four fields.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major(), v.Minor(), v.Build(), v.Revision())
}
