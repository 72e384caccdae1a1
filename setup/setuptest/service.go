// Package setuptest provides an in-memory setup configuration service.
//
// Service implements abi.Factory. Every object it hands out starts with one
// reference and records its releases, so tests can assert that a binding
// released everything exactly once:
//
//	svc := setuptest.New(setuptest.InstanceData{ID: "a", Launchable: true})
//	cfg, err := setup.New(setup.WithFactory(svc))
//	...
//	cfg.Close()
//	if svc.Live() != 0 || len(svc.Violations()) != 0 { ... }
//
// Failures are injected per method with Fail, keyed "Interface.Method"
// using the vendor interface names, for example
// "ISetupInstance.GetDisplayName" or "IEnumSetupInstances.Next".
package setuptest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/wippyai/vssetup/abi"
	"github.com/wippyai/vssetup/com"
)

// Service is a fake setup configuration service.
type Service struct {
	Instances []InstanceData

	// CurrentProcess is the ID returned by GetInstanceForCurrentProcess.
	CurrentProcess string

	SharedInstallationPath string
	PolicyValues           map[string]com.Variant

	// NoConfiguration2 makes EnumAllInstances fail with E_NOINTERFACE.
	NoConfiguration2 bool
	// NoHelper and NoPolicy disable the optional configuration interfaces.
	NoHelper bool
	NoPolicy bool

	// OverReport makes the enumerator report more fetched objects than
	// requested.
	OverReport bool

	mu         sync.Mutex
	faults     map[string]com.HRESULT
	nulls      map[string]bool
	live       int
	created    int
	violations []string
	calls      []string
}

// New returns a service holding instances.
func New(instances ...InstanceData) *Service {
	return &Service{Instances: instances}
}

// Fail makes method return hr.
func (s *Service) Fail(method string, hr com.HRESULT) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.faults == nil {
		s.faults = make(map[string]com.HRESULT)
	}
	s.faults[method] = hr
	return s
}

// Null makes method succeed without producing its object. For methods
// whose native array is required this reports E_POINTER, as the native
// layer does.
func (s *Service) Null(method string) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nulls == nil {
		s.nulls = make(map[string]bool)
	}
	s.nulls[method] = true
	return s
}

// Live returns the number of objects with outstanding references.
func (s *Service) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Created returns the number of objects handed out.
func (s *Service) Created() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

// Violations lists double releases and calls on released objects.
func (s *Service) Violations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.violations...)
}

// Calls lists every method invoked, in order.
func (s *Service) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Called reports how many times method was invoked.
func (s *Service) Called(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == method {
			n++
		}
	}
	return n
}

// CreateConfiguration implements abi.Factory. Fault key "CoCreateInstance".
func (s *Service) CreateConfiguration() (abi.Configuration, com.HRESULT) {
	s.mu.Lock()
	s.calls = append(s.calls, "CoCreateInstance")
	hr, failed := s.faults["CoCreateInstance"]
	s.mu.Unlock()
	if failed {
		return nil, hr
	}
	return &configuration{ref: s.newRef("ISetupConfiguration")}, com.S_OK
}

// ref is the reference count shared by every fake object.
type ref struct {
	svc   *Service
	name  string
	count int
}

func (s *Service) newRef(name string) ref {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live++
	s.created++
	return ref{svc: s, name: name, count: 1}
}

func (r *ref) Release() uint32 {
	s := r.svc
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.count <= 0 {
		s.violations = append(s.violations, "double release of "+r.name)
		return 0
	}
	r.count--
	if r.count == 0 {
		s.live--
	}
	return uint32(r.count)
}

// enter records a call and returns the injected failure, if any.
func (r *ref) enter(method string) (com.HRESULT, bool) {
	s := r.svc
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, method)
	if r.count <= 0 {
		s.violations = append(s.violations, "call "+method+" on released "+r.name)
		return com.RO_E_CLOSED, true
	}
	if hr, ok := s.faults[method]; ok {
		return hr, true
	}
	return com.S_OK, false
}

func (r *ref) null(method string) bool {
	r.svc.mu.Lock()
	defer r.svc.mu.Unlock()
	return r.svc.nulls[method]
}

func (s *Service) find(id string) (InstanceData, bool) {
	for _, inst := range s.Instances {
		if inst.ID == id {
			return inst, true
		}
	}
	return InstanceData{}, false
}

type configuration struct {
	ref
}

func (c *configuration) enumerate(method string, all bool) (abi.EnumInstances, com.HRESULT) {
	if hr, failed := c.enter(method); failed {
		return nil, hr
	}
	if c.null(method) {
		return nil, com.S_OK
	}
	var list []InstanceData
	for _, inst := range c.svc.Instances {
		if all || inst.Launchable {
			list = append(list, inst)
		}
	}
	return &enumInstances{ref: c.svc.newRef("IEnumSetupInstances"), items: list}, com.S_OK
}

func (c *configuration) EnumInstances() (abi.EnumInstances, com.HRESULT) {
	return c.enumerate("ISetupConfiguration.EnumInstances", false)
}

func (c *configuration) EnumAllInstances() (abi.EnumInstances, com.HRESULT) {
	if c.svc.NoConfiguration2 {
		c.enter("ISetupConfiguration2.EnumAllInstances")
		return nil, com.E_NOINTERFACE
	}
	return c.enumerate("ISetupConfiguration2.EnumAllInstances", true)
}

func (c *configuration) GetInstanceForCurrentProcess() (abi.Instance, com.HRESULT) {
	const method = "ISetupConfiguration.GetInstanceForCurrentProcess"
	if hr, failed := c.enter(method); failed {
		return nil, hr
	}
	if c.null(method) {
		return nil, com.S_OK
	}
	inst, ok := c.svc.find(c.svc.CurrentProcess)
	if !ok {
		return nil, com.E_NOTFOUND
	}
	return c.svc.newInstance(inst), com.S_OK
}

func (c *configuration) GetInstanceForPath(path string) (abi.Instance, com.HRESULT) {
	const method = "ISetupConfiguration.GetInstanceForPath"
	if hr, failed := c.enter(method); failed {
		return nil, hr
	}
	if c.null(method) {
		return nil, com.S_OK
	}
	if strings.ContainsRune(path, 0) {
		return nil, com.E_INVALIDARG
	}
	want := strings.ToLower(strings.TrimRight(path, `\/`))
	for _, inst := range c.svc.Instances {
		root := strings.ToLower(strings.TrimRight(inst.Path, `\/`))
		if root == "" {
			continue
		}
		if want == root || strings.HasPrefix(want, root+`\`) || strings.HasPrefix(want, root+"/") {
			return c.svc.newInstance(inst), com.S_OK
		}
	}
	return nil, com.E_NOTFOUND
}

func (c *configuration) QueryHelper() (abi.Helper, com.HRESULT) {
	if hr, failed := c.enter("ISetupConfiguration.QueryHelper"); failed {
		return nil, hr
	}
	if c.svc.NoHelper {
		return nil, com.E_NOINTERFACE
	}
	return &helper{ref: c.svc.newRef("ISetupHelper")}, com.S_OK
}

func (c *configuration) QueryPolicy() (abi.Policy, com.HRESULT) {
	if hr, failed := c.enter("ISetupConfiguration.QueryPolicy"); failed {
		return nil, hr
	}
	if c.svc.NoPolicy {
		return nil, com.E_NOINTERFACE
	}
	return &policy{ref: c.svc.newRef("ISetupPolicy")}, com.S_OK
}

type enumInstances struct {
	ref
	items []InstanceData
	pos   int
}

func (e *enumInstances) Next(celt uint32) ([]abi.Instance, uint32, com.HRESULT) {
	if hr, failed := e.enter("IEnumSetupInstances.Next"); failed {
		return nil, 0, hr
	}
	if celt == 0 {
		return nil, 0, com.E_INVALIDARG
	}
	if e.null("IEnumSetupInstances.Next") {
		return nil, 0, com.S_OK
	}
	var out []abi.Instance
	for uint32(len(out)) < celt && e.pos < len(e.items) {
		out = append(out, e.svc.newInstance(e.items[e.pos]))
		e.pos++
	}
	fetched := uint32(len(out))
	if e.svc.OverReport && fetched > 0 {
		return out, celt + 1, com.S_OK
	}
	if fetched < celt {
		return out, fetched, com.S_FALSE
	}
	return out, fetched, com.S_OK
}

func (e *enumInstances) Skip(celt uint32) com.HRESULT {
	if hr, failed := e.enter("IEnumSetupInstances.Skip"); failed {
		return hr
	}
	remaining := len(e.items) - e.pos
	if int(celt) > remaining {
		e.pos = len(e.items)
		return com.S_FALSE
	}
	e.pos += int(celt)
	return com.S_OK
}

func (e *enumInstances) Reset() com.HRESULT {
	if hr, failed := e.enter("IEnumSetupInstances.Reset"); failed {
		return hr
	}
	e.pos = 0
	return com.S_OK
}

func (e *enumInstances) Clone() (abi.EnumInstances, com.HRESULT) {
	const method = "IEnumSetupInstances.Clone"
	if hr, failed := e.enter(method); failed {
		return nil, hr
	}
	if e.null(method) {
		return nil, com.S_OK
	}
	return &enumInstances{ref: e.svc.newRef("IEnumSetupInstances"), items: e.items, pos: e.pos}, com.S_OK
}

type helper struct {
	ref
}

func (h *helper) ParseVersion(version string) (uint64, com.HRESULT) {
	if hr, failed := h.enter("ISetupHelper.ParseVersion"); failed {
		return 0, hr
	}
	v, ok := ParseVersion(version)
	if !ok {
		return 0, com.E_INVALIDARG
	}
	return v, com.S_OK
}

func (h *helper) ParseVersionRange(versionRange string) (uint64, uint64, com.HRESULT) {
	if hr, failed := h.enter("ISetupHelper.ParseVersionRange"); failed {
		return 0, 0, hr
	}
	lo, hi, ok := ParseVersionRange(versionRange)
	if !ok {
		return 0, 0, com.E_INVALIDARG
	}
	return lo, hi, com.S_OK
}

// ParseVersion packs up to four dotted 16-bit fields into a uint64 the
// way ISetupHelper does.
func ParseVersion(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return 0, false
	}
	var v uint64
	for i := 0; i < 4; i++ {
		var field uint64
		if i < len(parts) {
			n, err := strconv.ParseUint(parts[i], 10, 16)
			if err != nil {
				return 0, false
			}
			field = n
		}
		v = v<<16 | field
	}
	return v, true
}

// ParseVersionRange parses "[lo,hi]" style ranges. Brackets are inclusive,
// parentheses exclusive. A bare version is a minimum with no maximum.
func ParseVersionRange(s string) (uint64, uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	if s[0] != '[' && s[0] != '(' {
		v, ok := ParseVersion(s)
		return v, ^uint64(0), ok
	}
	last := s[len(s)-1]
	if len(s) < 3 || (last != ']' && last != ')') {
		return 0, 0, false
	}
	lhs, rhs, found := strings.Cut(s[1:len(s)-1], ",")
	if !found {
		v, ok := ParseVersion(lhs)
		return v, v, ok && s[0] == '[' && last == ']'
	}

	lo, hi := uint64(0), ^uint64(0)
	if strings.TrimSpace(lhs) != "" {
		v, ok := ParseVersion(lhs)
		if !ok {
			return 0, 0, false
		}
		lo = v
		if s[0] == '(' {
			lo++
		}
	}
	if strings.TrimSpace(rhs) != "" {
		v, ok := ParseVersion(rhs)
		if !ok {
			return 0, 0, false
		}
		hi = v
		if last == ')' {
			hi--
		}
	}
	if lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}

type policy struct {
	ref
}

func (p *policy) GetSharedInstallationPath() (string, com.HRESULT) {
	if hr, failed := p.enter("ISetupPolicy.GetSharedInstallationPath"); failed {
		return "", hr
	}
	return p.svc.SharedInstallationPath, com.S_OK
}

func (p *policy) GetValue(name string) (com.Variant, com.HRESULT) {
	if hr, failed := p.enter("ISetupPolicy.GetValue"); failed {
		return com.Variant{}, hr
	}
	v, ok := p.svc.PolicyValues[name]
	if !ok {
		return com.Variant{}, com.E_NOTFOUND
	}
	return v, com.S_OK
}

type propertyStore struct {
	ref
	values map[string]com.Variant
}

func (s *Service) newPropertyStore(values map[string]com.Variant) *propertyStore {
	return &propertyStore{ref: s.newRef("ISetupPropertyStore"), values: values}
}

func (p *propertyStore) GetNames() ([]string, com.HRESULT) {
	const method = "ISetupPropertyStore.GetNames"
	if hr, failed := p.enter(method); failed {
		return nil, hr
	}
	if p.null(method) {
		return nil, com.E_POINTER
	}
	return sortedKeys(p.values), com.S_OK
}

func (p *propertyStore) GetValue(name string) (com.Variant, com.HRESULT) {
	if hr, failed := p.enter("ISetupPropertyStore.GetValue"); failed {
		return com.Variant{}, hr
	}
	v, ok := p.values[name]
	if !ok {
		return com.Variant{}, com.E_NOTFOUND
	}
	return v, com.S_OK
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Service) String() string {
	return fmt.Sprintf("setuptest.Service{instances: %d, live: %d}", len(s.Instances), s.Live())
}
