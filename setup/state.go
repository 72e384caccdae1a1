package setup

import (
	"fmt"
	"strings"
)

// InstanceState is the set of parts of an instance that are present.
type InstanceState uint32

const (
	StateNone             InstanceState = 0
	StateLocal            InstanceState = 1
	StateRegistered       InstanceState = 2
	StateNoRebootRequired InstanceState = 4
	StateNoErrors         InstanceState = 8
	StateComplete         InstanceState = 0xFFFFFFFF
)

var stateFlags = []struct {
	flag InstanceState
	name string
}{
	{StateLocal, "local"},
	{StateRegistered, "registered"},
	{StateNoRebootRequired, "noRebootRequired"},
	{StateNoErrors, "noErrors"},
}

// Has reports whether every bit of flag is set.
func (s InstanceState) Has(flag InstanceState) bool {
	return s&flag == flag
}

// String returns "None", "Complete" or "Incomplete(flag|flag)".
func (s InstanceState) String() string {
	switch s {
	case StateNone:
		return "None"
	case StateComplete:
		return "Complete"
	}
	var parts []string
	rest := s
	for _, f := range stateFlags {
		if s.Has(f.flag) {
			parts = append(parts, f.name)
			rest &^= f.flag
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%X", uint32(rest)))
	}
	return "Incomplete(" + strings.Join(parts, "|") + ")"
}
