//go:build !windows

package com

// unsupportedRuntime reports E_NOTIMPL; COM only exists on Windows.
type unsupportedRuntime struct{}

func platformRuntime() runtimeAPI { return unsupportedRuntime{} }

func (unsupportedRuntime) CoInitializeEx(uint32) HRESULT { return E_NOTIMPL }

func (unsupportedRuntime) CoUninitialize() {}
