package com

import (
	"fmt"
	"strconv"
)

// LCID is a Windows locale identifier.
type LCID uint32

const (
	LocaleInvariant     LCID = 0x007F
	LocaleUserDefault   LCID = 0x0400
	LocaleSystemDefault LCID = 0x0800
)

// ParseLCID accepts decimal, 0x-prefixed hex, and the names
// "user", "system" and "invariant".
func ParseLCID(s string) (LCID, error) {
	switch s {
	case "user", "":
		return LocaleUserDefault, nil
	case "system":
		return LocaleSystemDefault, nil
	case "invariant":
		return LocaleInvariant, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("parse lcid %q: %w", s, err)
	}
	return LCID(v), nil
}

func (l LCID) String() string {
	return fmt.Sprintf("0x%04X", uint32(l))
}
