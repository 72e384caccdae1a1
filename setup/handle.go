package setup

import (
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/vssetup/abi"
	"github.com/wippyai/vssetup/com"
	"github.com/wippyai/vssetup/errors"
	"github.com/wippyai/vssetup/resource"
)

// Resource type IDs, one per wrapped interface.
const (
	typeConfiguration uint32 = iota + 1
	typeEnum
	typeInstance
	typePackage
	typeProduct
	typeFailedPackage
	typeErrorState
	typeErrorInfo
	typePropertyStore
	typeLocalizedProperties
	typeLocalizedPropertyStore
	typeCatalog
	typePolicy
	typeHelper
)

var interfaceNames = map[uint32]string{
	typeConfiguration:          "ISetupConfiguration",
	typeEnum:                   "IEnumSetupInstances",
	typeInstance:               "ISetupInstance",
	typePackage:                "ISetupPackageReference",
	typeProduct:                "ISetupProductReference",
	typeFailedPackage:          "ISetupFailedPackageReference",
	typeErrorState:             "ISetupErrorState",
	typeErrorInfo:              "ISetupErrorInfo",
	typePropertyStore:          "ISetupPropertyStore",
	typeLocalizedProperties:    "ISetupLocalizedProperties",
	typeLocalizedPropertyStore: "ISetupLocalizedPropertyStore",
	typeCatalog:                "ISetupInstanceCatalog",
	typePolicy:                 "ISetupPolicy",
	typeHelper:                 "ISetupHelper",
}

func interfaceName(typ uint32) string {
	if name, ok := interfaceNames[typ]; ok {
		return name
	}
	return "IUnknown"
}

// releaser is the table entry for one native reference.
type releaser struct {
	obj   abi.Unknown
	log   *zap.Logger
	iface string
}

// Drop releases the reference. The table calls it at most once.
func (r *releaser) Drop() {
	remaining := r.obj.Release()
	if ce := r.log.Check(zap.DebugLevel, "release"); ce != nil {
		ce.Write(zap.String("interface", r.iface), zap.Uint32("remaining", remaining))
	}
}

// handle ties a wrapper to its entry in the owning configuration's table.
type handle struct {
	owner *Configuration
	id    resource.Handle
	typ   uint32
}

// Close releases the native reference. Closing twice is a no-op.
func (h *handle) Close() error {
	if h.owner == nil {
		return nil
	}
	h.owner.table.Remove(h.id)
	return nil
}

// Closed reports whether the reference has been released, either by
// Close or by closing the owning configuration.
func (h *handle) Closed() bool {
	if h.owner == nil {
		return true
	}
	_, ok := h.owner.table.Get(h.id)
	return !ok
}

func (h *handle) iface() string {
	return interfaceName(h.typ)
}

// object returns the live abi object behind h as O.
func object[O abi.Unknown](h *handle) (O, error) {
	var zero O
	if h.owner == nil {
		return zero, errors.Closed(h.iface())
	}
	v, ok := h.owner.table.Get(h.id)
	if !ok {
		return zero, errors.Closed(h.iface())
	}
	o, ok := v.(*releaser).obj.(O)
	if !ok {
		return zero, errors.New(errors.PhaseQuery, errors.KindUnexpected).
			Interface(h.iface()).
			Detail("handle holds %T", v.(*releaser).obj).
			Code(com.E_NOINTERFACE).
			Build()
	}
	return o, nil
}

// invoke calls fn on the live object behind h. A failure code comes back
// unchanged as the cause of the returned error.
func invoke[O abi.Unknown, T any](h *handle, phase errors.Phase, method string, fn func(O) (T, com.HRESULT)) (T, error) {
	var zero T
	obj, err := object[O](h)
	if err != nil {
		return zero, err
	}
	v, hr := fn(obj)
	if hr.Failed() {
		if u, ok := any(v).(abi.Unknown); ok && u != nil {
			u.Release()
		}
		return zero, h.fail(phase, method, hr)
	}
	return v, nil
}

func (h *handle) fail(phase errors.Phase, method string, hr com.HRESULT) error {
	err := errors.Call(phase, h.iface(), method, hr)
	if h.owner != nil {
		if ce := h.owner.log.Check(zap.DebugLevel, "call failed"); ce != nil {
			ce.Write(zap.String("interface", h.iface()), zap.String("method", method), zap.Stringer("hresult", hr))
		}
	}
	return err
}

// adopt registers obj with the table. If the table is already closed obj
// is released immediately.
func (c *Configuration) adopt(typ uint32, obj abi.Unknown) (handle, error) {
	r := &releaser{obj: obj, log: c.log, iface: interfaceName(typ)}
	id := c.table.Insert(typ, r)
	if id == 0 {
		obj.Release()
		return handle{}, errors.Closed(interfaceName(typ))
	}
	return handle{owner: c, id: id, typ: typ}, nil
}

type closer interface {
	Close() error
}

// adoptAll registers every object in objs. On failure everything adopted
// so far is closed and the rest released, so nothing leaks.
func adoptAll[A abi.Unknown, W closer](c *Configuration, typ uint32, objs []A, wrap func(handle) W) ([]W, error) {
	if objs == nil {
		return nil, nil
	}
	out := make([]W, 0, len(objs))
	for i, o := range objs {
		h, err := c.adopt(typ, o)
		if err != nil {
			for _, rest := range objs[i+1:] {
				rest.Release()
			}
			for _, w := range out {
				w.Close()
			}
			return nil, err
		}
		out = append(out, wrap(h))
	}
	return out, nil
}

// checkString rejects strings the native side cannot represent.
func checkString(what, s string) error {
	if strings.ContainsRune(s, 0) {
		return errors.New(errors.PhaseMarshal, errors.KindInvalidInput).
			Value(s).
			Detail("%s contains NUL", what).
			Code(com.E_INVALIDARG).
			Build()
	}
	return nil
}
