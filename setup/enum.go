package setup

import (
	"fmt"
	"io"
	"iter"

	"go.uber.org/zap"

	"github.com/wippyai/vssetup/abi"
	"github.com/wippyai/vssetup/com"
	"github.com/wippyai/vssetup/errors"
)

// InstanceEnum is IEnumSetupInstances.
type InstanceEnum struct {
	handle
}

// Next returns up to n instances. At the end of the enumeration it returns
// io.EOF. A short batch is returned without error; the following call
// reports io.EOF.
//
// If the service claims to have fetched more than n objects, every object
// it returned is released and the error carries E_UNEXPECTED.
func (e *InstanceEnum) Next(n int) ([]*Instance, error) {
	if n < 1 || uint64(n) > uint64(^uint32(0)) {
		return nil, errors.New(errors.PhaseEnumerate, errors.KindInvalidInput).
			Interface(e.iface()).
			Method("Next").
			Value(n).
			Detail("batch size %d out of range", n).
			Code(com.E_INVALIDARG).
			Build()
	}
	obj, err := object[abi.EnumInstances](&e.handle)
	if err != nil {
		return nil, err
	}

	celt := uint32(n)
	items, fetched, hr := obj.Next(celt)
	if hr.Failed() {
		releaseAll(items)
		return nil, e.fail(errors.PhaseEnumerate, "Next", hr)
	}
	if fetched > celt {
		releaseAll(items)
		e.owner.log.Warn("enumerator fetched more than requested",
			zap.Uint32("requested", celt), zap.Uint32("fetched", fetched))
		return nil, errors.Unexpected(errors.PhaseEnumerate, e.iface(), "Next",
			fmt.Sprintf("fetched %d of %d requested", fetched, celt))
	}
	if len(items) == 0 {
		if hr == com.S_FALSE {
			return nil, io.EOF
		}
		// Only S_FALSE ends the enumeration; S_OK with nothing fetched is a broken enumerator.
		return nil, errors.NilPointer(errors.PhaseEnumerate, e.iface(), "Next")
	}

	return adoptAll(e.owner, typeInstance, items, func(h handle) *Instance {
		return &Instance{h}
	})
}

func releaseAll[A abi.Unknown](objs []A) {
	for _, o := range objs {
		o.Release()
	}
}

// Skip advances past n instances. It reports false when fewer than n
// remained.
func (e *InstanceEnum) Skip(n int) (bool, error) {
	if n < 0 || uint64(n) > uint64(^uint32(0)) {
		return false, errors.New(errors.PhaseEnumerate, errors.KindInvalidInput).
			Interface(e.iface()).
			Method("Skip").
			Value(n).
			Detail("count %d out of range", n).
			Code(com.E_INVALIDARG).
			Build()
	}
	hr, err := invoke(&e.handle, errors.PhaseEnumerate, "Skip", func(obj abi.EnumInstances) (com.HRESULT, com.HRESULT) {
		hr := obj.Skip(uint32(n))
		return hr, hr
	})
	if err != nil {
		return false, err
	}
	return hr != com.S_FALSE, nil
}

// Reset rewinds the enumeration.
func (e *InstanceEnum) Reset() error {
	_, err := invoke(&e.handle, errors.PhaseEnumerate, "Reset", func(obj abi.EnumInstances) (struct{}, com.HRESULT) {
		return struct{}{}, obj.Reset()
	})
	return err
}

// Clone returns an independent enumerator at the same position.
func (e *InstanceEnum) Clone() (*InstanceEnum, error) {
	obj, err := invoke(&e.handle, errors.PhaseEnumerate, "Clone", abi.EnumInstances.Clone)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.NilPointer(errors.PhaseEnumerate, e.iface(), "Clone")
	}
	h, err := e.owner.adopt(typeEnum, obj)
	if err != nil {
		return nil, err
	}
	return &InstanceEnum{h}, nil
}

// All yields the remaining instances one at a time. A failure is yielded
// once and ends the sequence.
func (e *InstanceEnum) All() iter.Seq2[*Instance, error] {
	return func(yield func(*Instance, error) bool) {
		for {
			batch, err := e.Next(1)
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			for i, inst := range batch {
				if !yield(inst, nil) {
					for _, rest := range batch[i+1:] {
						rest.Close()
					}
					return
				}
			}
		}
	}
}
