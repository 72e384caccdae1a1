//go:build windows

package com

import "golang.org/x/sys/windows"

var (
	modole32           = windows.NewLazySystemDLL("ole32.dll")
	procCoInitializeEx = modole32.NewProc("CoInitializeEx")
	procCoUninitialize = modole32.NewProc("CoUninitialize")
)

type ole32Runtime struct{}

func platformRuntime() runtimeAPI { return ole32Runtime{} }

func (ole32Runtime) CoInitializeEx(coinit uint32) HRESULT {
	if err := procCoInitializeEx.Find(); err != nil {
		return E_NOTIMPL
	}
	r, _, _ := procCoInitializeEx.Call(0, uintptr(coinit))
	return HRESULT(int32(uint32(r)))
}

func (ole32Runtime) CoUninitialize() {
	if procCoUninitialize.Find() != nil {
		return
	}
	procCoUninitialize.Call()
}
