//go:build !windows

package native

import (
	"github.com/wippyai/vssetup/abi"
	"github.com/wippyai/vssetup/com"
)

// Factory is the non-Windows stand-in for the COM class factory.
type Factory struct{}

// NewFactory returns a factory that always reports E_NOTIMPL.
func NewFactory() *Factory {
	return &Factory{}
}

// CreateConfiguration fails with E_NOTIMPL; the service only exists on Windows.
func (*Factory) CreateConfiguration() (abi.Configuration, com.HRESULT) {
	return nil, com.E_NOTIMPL
}
