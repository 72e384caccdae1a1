package com

import "time"

// Ticks between 1601-01-01 and 1970-01-01 in 100ns units.
const filetimeUnixEpoch = 116444736000000000

// Filetime is the native FILETIME structure.
type Filetime struct {
	LowDateTime  uint32
	HighDateTime uint32
}

// Uint64 returns the 100ns tick count since 1601-01-01 UTC.
func (ft Filetime) Uint64() uint64 {
	return uint64(ft.HighDateTime)<<32 | uint64(ft.LowDateTime)
}

// Time converts ft to a UTC time.Time.
func (ft Filetime) Time() time.Time {
	return FiletimeToTime(ft.Uint64())
}

// FiletimeToTime converts a tick count since 1601-01-01 UTC.
// Zero maps to the zero time.Time.
func FiletimeToTime(ticks uint64) time.Time {
	if ticks == 0 {
		return time.Time{}
	}
	delta := int64(ticks) - filetimeUnixEpoch
	sec := delta / 10_000_000
	nsec := (delta % 10_000_000) * 100
	if nsec < 0 {
		sec--
		nsec += 1_000_000_000
	}
	return time.Unix(sec, nsec).UTC()
}

// TimeToFiletime is the inverse of FiletimeToTime.
func TimeToFiletime(t time.Time) Filetime {
	if t.IsZero() {
		return Filetime{}
	}
	ticks := uint64(t.Unix()*10_000_000 + int64(t.Nanosecond())/100 + filetimeUnixEpoch)
	return Filetime{LowDateTime: uint32(ticks), HighDateTime: uint32(ticks >> 32)}
}
