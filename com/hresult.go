package com

import (
	"errors"
	"fmt"
)

// HRESULT is a native COM result code.
// Negative values are failures; S_OK and S_FALSE are both successes.
type HRESULT int32

const (
	S_OK    HRESULT = 0
	S_FALSE HRESULT = 1

	E_NOTIMPL           HRESULT = -0x7fffbfff // 0x80004001
	E_NOINTERFACE       HRESULT = -0x7fffbffe // 0x80004002
	E_POINTER           HRESULT = -0x7fffbffd // 0x80004003
	E_ABORT             HRESULT = -0x7fffbffc // 0x80004004
	E_FAIL              HRESULT = -0x7fffbffb // 0x80004005
	E_UNEXPECTED        HRESULT = -0x7fff0001 // 0x8000FFFF
	E_ACCESSDENIED      HRESULT = -0x7ff8fffb // 0x80070005
	E_HANDLE            HRESULT = -0x7ff8fffa // 0x80070006
	E_OUTOFMEMORY       HRESULT = -0x7ff8fff2 // 0x8007000E
	E_INVALIDARG        HRESULT = -0x7ff8ffa9 // 0x80070057
	E_FILENOTFOUND      HRESULT = -0x7ff8fffe // 0x80070002
	E_NOTFOUND          HRESULT = -0x7ff8fb70 // 0x80070490
	RO_E_CLOSED         HRESULT = -0x7fffffed // 0x80000013
	RPC_E_CHANGED_MODE  HRESULT = -0x7ffefefa // 0x80010106
	CO_E_NOTINITIALIZED HRESULT = -0x7ffbfe10 // 0x800401F0
	REGDB_E_CLASSNOTREG HRESULT = -0x7ffbfeac // 0x80040154
)

type hresultInfo struct {
	name string
	msg  string
}

var knownHRESULTs = map[HRESULT]hresultInfo{
	S_OK:                {"S_OK", "success"},
	S_FALSE:             {"S_FALSE", "success (false)"},
	E_NOTIMPL:           {"E_NOTIMPL", "not implemented"},
	E_NOINTERFACE:       {"E_NOINTERFACE", "no such interface supported"},
	E_POINTER:           {"E_POINTER", "invalid pointer"},
	E_ABORT:             {"E_ABORT", "operation aborted"},
	E_FAIL:              {"E_FAIL", "unspecified failure"},
	E_UNEXPECTED:        {"E_UNEXPECTED", "catastrophic failure"},
	E_ACCESSDENIED:      {"E_ACCESSDENIED", "access denied"},
	E_HANDLE:            {"E_HANDLE", "invalid handle"},
	E_OUTOFMEMORY:       {"E_OUTOFMEMORY", "out of memory"},
	E_INVALIDARG:        {"E_INVALIDARG", "invalid argument"},
	E_FILENOTFOUND:      {"E_FILENOTFOUND", "file not found"},
	E_NOTFOUND:          {"E_NOTFOUND", "element not found"},
	RO_E_CLOSED:         {"RO_E_CLOSED", "object has been closed"},
	RPC_E_CHANGED_MODE:  {"RPC_E_CHANGED_MODE", "cannot change thread mode after it is set"},
	CO_E_NOTINITIALIZED: {"CO_E_NOTINITIALIZED", "CoInitialize has not been called"},
	REGDB_E_CLASSNOTREG: {"REGDB_E_CLASSNOTREG", "class not registered"},
}

// Succeeded reports whether hr is a success code.
func (hr HRESULT) Succeeded() bool { return hr >= 0 }

// Failed reports whether hr is a failure code.
func (hr HRESULT) Failed() bool { return hr < 0 }

// Facility returns the facility field.
func (hr HRESULT) Facility() uint16 { return uint16((uint32(hr) >> 16) & 0x1fff) }

// Code returns the code field.
func (hr HRESULT) Code() uint16 { return uint16(uint32(hr) & 0xffff) }

// Name returns the symbolic name for well-known codes, or "" otherwise.
func (hr HRESULT) Name() string {
	return knownHRESULTs[hr].name
}

// Err returns nil for success codes and hr otherwise.
func (hr HRESULT) Err() error {
	if hr.Succeeded() {
		return nil
	}
	return hr
}

// Error implements error.
func (hr HRESULT) Error() string {
	if info, ok := knownHRESULTs[hr]; ok {
		return fmt.Sprintf("%s (0x%08X): %s", info.name, uint32(hr), info.msg)
	}
	return fmt.Sprintf("HRESULT 0x%08X", uint32(hr))
}

// String returns the hex form, prefixed by the symbolic name when known.
func (hr HRESULT) String() string {
	if name := hr.Name(); name != "" {
		return fmt.Sprintf("%s(0x%08X)", name, uint32(hr))
	}
	return fmt.Sprintf("0x%08X", uint32(hr))
}

// HRESULTFromWin32 maps a Win32 error code into FACILITY_WIN32.
func HRESULTFromWin32(code uint32) HRESULT {
	if int32(code) <= 0 {
		return HRESULT(int32(code))
	}
	return HRESULT(int32((code & 0xffff) | (7 << 16) | 0x80000000))
}

// CodeOf returns the HRESULT carried by err.
// It returns S_OK for nil and E_FAIL when the chain holds no HRESULT.
func CodeOf(err error) HRESULT {
	if err == nil {
		return S_OK
	}
	var hr HRESULT
	if errors.As(err, &hr) {
		return hr
	}
	return E_FAIL
}
