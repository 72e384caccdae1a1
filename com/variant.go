package com

import (
	"fmt"
	"strconv"
)

// VARTYPE is the discriminant of a native VARIANT.
type VARTYPE uint16

const (
	VT_EMPTY VARTYPE = 0
	VT_NULL  VARTYPE = 1
	VT_I2    VARTYPE = 2
	VT_I4    VARTYPE = 3
	VT_BSTR  VARTYPE = 8
	VT_BOOL  VARTYPE = 11
	VT_I1    VARTYPE = 16
	VT_UI1   VARTYPE = 17
	VT_UI2   VARTYPE = 18
	VT_UI4   VARTYPE = 19
	VT_I8    VARTYPE = 20
	VT_UI8   VARTYPE = 21
)

// VariantKind classifies the subset of VARIANT types the setup service returns.
type VariantKind uint8

const (
	VariantUnknown VariantKind = iota
	VariantString
	VariantBool
	VariantSigned
	VariantUnsigned
)

func (k VariantKind) String() string {
	switch k {
	case VariantString:
		return "string"
	case VariantBool:
		return "bool"
	case VariantSigned:
		return "signed"
	case VariantUnsigned:
		return "unsigned"
	default:
		return "unknown"
	}
}

// Variant is a Go copy of a VARIANT value. It holds no native memory.
type Variant struct {
	str  string
	i    int64
	u    uint64
	vt   VARTYPE
	kind VariantKind
	b    bool
}

func StringVariant(s string) Variant { return Variant{kind: VariantString, vt: VT_BSTR, str: s} }
func BoolVariant(b bool) Variant     { return Variant{kind: VariantBool, vt: VT_BOOL, b: b} }
func SignedVariant(v int64) Variant  { return Variant{kind: VariantSigned, vt: VT_I8, i: v} }
func UnsignedVariant(v uint64) Variant {
	return Variant{kind: VariantUnsigned, vt: VT_UI8, u: v}
}

// UnknownVariant records a VARIANT whose type the binding does not decode.
func UnknownVariant(vt VARTYPE) Variant { return Variant{kind: VariantUnknown, vt: vt} }

// DecodeVariant builds a Variant from a VARTYPE and the low 64 bits of the
// VARIANT payload. Integer payloads are narrowed to the width named by vt
// before widening, so a VT_I4 of -1 decodes as -1.
func DecodeVariant(vt VARTYPE, bits uint64, str string) Variant {
	switch vt {
	case VT_BSTR:
		return Variant{kind: VariantString, vt: vt, str: str}
	case VT_BOOL:
		return Variant{kind: VariantBool, vt: vt, b: int16(bits) != 0}
	case VT_I1:
		return Variant{kind: VariantSigned, vt: vt, i: int64(int8(bits))}
	case VT_I2:
		return Variant{kind: VariantSigned, vt: vt, i: int64(int16(bits))}
	case VT_I4:
		return Variant{kind: VariantSigned, vt: vt, i: int64(int32(bits))}
	case VT_I8:
		return Variant{kind: VariantSigned, vt: vt, i: int64(bits)}
	case VT_UI1:
		return Variant{kind: VariantUnsigned, vt: vt, u: uint64(uint8(bits))}
	case VT_UI2:
		return Variant{kind: VariantUnsigned, vt: vt, u: uint64(uint16(bits))}
	case VT_UI4:
		return Variant{kind: VariantUnsigned, vt: vt, u: uint64(uint32(bits))}
	case VT_UI8:
		return Variant{kind: VariantUnsigned, vt: vt, u: bits}
	default:
		return UnknownVariant(vt)
	}
}

func (v Variant) Kind() VariantKind { return v.kind }
func (v Variant) VT() VARTYPE       { return v.vt }

func (v Variant) AsString() (string, bool) { return v.str, v.kind == VariantString }
func (v Variant) AsBool() (bool, bool)     { return v.b, v.kind == VariantBool }
func (v Variant) AsInt64() (int64, bool)   { return v.i, v.kind == VariantSigned }
func (v Variant) AsUint64() (uint64, bool) { return v.u, v.kind == VariantUnsigned }

// Interface returns the value as a plain Go value, nil for unknown types.
func (v Variant) Interface() any {
	switch v.kind {
	case VariantString:
		return v.str
	case VariantBool:
		return v.b
	case VariantSigned:
		return v.i
	case VariantUnsigned:
		return v.u
	default:
		return nil
	}
}

// String renders the value without type decoration.
func (v Variant) String() string {
	switch v.kind {
	case VariantString:
		return v.str
	case VariantBool:
		return strconv.FormatBool(v.b)
	case VariantSigned:
		return strconv.FormatInt(v.i, 10)
	case VariantUnsigned:
		return strconv.FormatUint(v.u, 10)
	default:
		return "<unknown>"
	}
}

// GoString renders integers with their signedness, e.g. "[int]-3".
func (v Variant) GoString() string {
	switch v.kind {
	case VariantSigned:
		return "[int]" + strconv.FormatInt(v.i, 10)
	case VariantUnsigned:
		return "[uint]" + strconv.FormatUint(v.u, 10)
	case VariantUnknown:
		return fmt.Sprintf("<unknown vt=%d>", v.vt)
	default:
		return v.String()
	}
}
