package setup

import (
	"iter"

	"go.uber.org/zap"

	"github.com/wippyai/vssetup/abi"
	"github.com/wippyai/vssetup/com"
	"github.com/wippyai/vssetup/errors"
	"github.com/wippyai/vssetup/internal/native"
	"github.com/wippyai/vssetup/resource"
)

// Configuration is the root of the setup configuration service. It owns
// every handle obtained through it; Close releases them all.
//
// A Configuration and its handles belong to one goroutine, which must have
// COM initialized (see com.Run).
type Configuration struct {
	handle
	table       *resource.UnifiedTable
	log         *zap.Logger
	unsubscribe func()
}

// New creates the setup configuration service. The native failure code,
// such as CO_E_NOTINITIALIZED or REGDB_E_CLASSNOTREG, is the cause of the
// returned error.
func New(opts ...Option) (*Configuration, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.factory == nil {
		o.factory = native.NewFactory()
	}
	if o.logger == nil {
		o.logger = Logger()
	}

	obj, hr := o.factory.CreateConfiguration()
	if hr.Failed() {
		if hr == com.CO_E_NOTINITIALIZED {
			return nil, errors.NotInitialized(errors.PhaseCreate, "COM", hr)
		}
		return nil, errors.New(errors.PhaseCreate, errors.KindHRESULT).
			Interface("SetupConfiguration").
			Method("CoCreateInstance").
			Code(hr).
			Build()
	}
	if obj == nil {
		return nil, errors.NilPointer(errors.PhaseCreate, "SetupConfiguration", "CoCreateInstance")
	}

	c := &Configuration{
		table: resource.NewTable(),
		log:   o.logger,
	}
	c.unsubscribe = c.table.Subscribe(resource.ObserverFunc(c.onResourceEvent))

	h, err := c.adopt(typeConfiguration, obj)
	if err != nil {
		return nil, err
	}
	c.handle = h
	return c, nil
}

func (c *Configuration) onResourceEvent(e resource.Event) {
	if ce := c.log.Check(zap.DebugLevel, "handle "+e.Type.String()); ce != nil {
		ce.Write(
			zap.String("interface", interfaceName(e.TypeID)),
			zap.Uint32("handle", uint32(e.Handle)),
			zap.Int("outstanding", c.table.Len()),
		)
	}
}

// Close releases every handle still open, newest first, and then the
// configuration itself. It is safe to call more than once.
func (c *Configuration) Close() error {
	if c.table.Closed() {
		return nil
	}
	n := c.Outstanding()
	err := c.table.Close()
	if n > 0 {
		c.log.Debug("released outstanding handles on close", zap.Int("count", n))
	}
	c.unsubscribe()
	return err
}

// Outstanding returns the number of open handles obtained through c,
// not counting c itself.
func (c *Configuration) Outstanding() int {
	return c.table.Len() - c.table.CountType(typeConfiguration)
}

func (c *Configuration) enumerate(method string, fn func(abi.Configuration) (abi.EnumInstances, com.HRESULT)) (*InstanceEnum, error) {
	obj, err := invoke(&c.handle, errors.PhaseEnumerate, method, fn)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.NilPointer(errors.PhaseEnumerate, c.iface(), method)
	}
	h, err := c.adopt(typeEnum, obj)
	if err != nil {
		return nil, err
	}
	return &InstanceEnum{h}, nil
}

// EnumInstances enumerates launchable instances.
func (c *Configuration) EnumInstances() (*InstanceEnum, error) {
	return c.enumerate("EnumInstances", abi.Configuration.EnumInstances)
}

// EnumAllInstances enumerates all instances, including incomplete ones.
// It requires ISetupConfiguration2.
func (c *Configuration) EnumAllInstances() (*InstanceEnum, error) {
	return c.enumerate("EnumAllInstances", abi.Configuration.EnumAllInstances)
}

// Instances yields instances one at a time. With all set it includes
// incomplete instances. A failure is yielded once and ends the sequence.
// The enumerator is closed when the sequence ends; yielded instances stay
// open until closed by the caller or by c.Close.
func (c *Configuration) Instances(all bool) iter.Seq2[*Instance, error] {
	return func(yield func(*Instance, error) bool) {
		open := c.EnumInstances
		if all {
			open = c.EnumAllInstances
		}
		e, err := open()
		if err != nil {
			yield(nil, err)
			return
		}
		defer e.Close()
		for inst, err := range e.All() {
			if !yield(inst, err) {
				return
			}
		}
	}
}

func (c *Configuration) instance(method string, fn func(abi.Configuration) (abi.Instance, com.HRESULT)) (*Instance, error) {
	obj, err := invoke(&c.handle, errors.PhaseQuery, method, fn)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.NilPointer(errors.PhaseQuery, c.iface(), method)
	}
	h, err := c.adopt(typeInstance, obj)
	if err != nil {
		return nil, err
	}
	return &Instance{h}, nil
}

// InstanceForCurrentProcess returns the instance that owns the running
// process. The service reports E_NOTFOUND when there is none.
func (c *Configuration) InstanceForCurrentProcess() (*Instance, error) {
	return c.instance("GetInstanceForCurrentProcess", abi.Configuration.GetInstanceForCurrentProcess)
}

// InstanceForPath returns the instance installed at or above path.
func (c *Configuration) InstanceForPath(path string) (*Instance, error) {
	if err := checkString("path", path); err != nil {
		return nil, err
	}
	return c.instance("GetInstanceForPath", func(obj abi.Configuration) (abi.Instance, com.HRESULT) {
		return obj.GetInstanceForPath(path)
	})
}

// Helper returns ISetupHelper.
func (c *Configuration) Helper() (*Helper, error) {
	obj, err := invoke(&c.handle, errors.PhaseQuery, "QueryInterface(ISetupHelper)", abi.Configuration.QueryHelper)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.NilPointer(errors.PhaseQuery, c.iface(), "QueryInterface(ISetupHelper)")
	}
	h, err := c.adopt(typeHelper, obj)
	if err != nil {
		return nil, err
	}
	return &Helper{h}, nil
}

// Policy returns ISetupPolicy.
func (c *Configuration) Policy() (*Policy, error) {
	obj, err := invoke(&c.handle, errors.PhaseQuery, "QueryInterface(ISetupPolicy)", abi.Configuration.QueryPolicy)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.NilPointer(errors.PhaseQuery, c.iface(), "QueryInterface(ISetupPolicy)")
	}
	h, err := c.adopt(typePolicy, obj)
	if err != nil {
		return nil, err
	}
	return &Policy{h}, nil
}

// IsUnsupported reports whether err means the service does not implement
// an optional interface.
func IsUnsupported(err error) bool {
	return errors.IsCode(err, com.E_NOINTERFACE)
}
