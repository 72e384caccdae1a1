package resource

import (
	"testing"
)

const (
	typeEnum uint32 = iota + 1
	typeInstance
	typePackage
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

func TestUnifiedTable_Basic(t *testing.T) {
	table := NewTable()
	inst := &comObject{name: "ISetupInstance"}

	h := table.Insert(typeInstance, inst)
	if h == 0 {
		t.Fatal("Insert returned handle 0")
	}
	if v, ok := table.Get(h); !ok || v != inst {
		t.Fatalf("Get = %v, %v", v, ok)
	}
	if _, ok := table.GetTyped(h, typeInstance); !ok {
		t.Fatal("GetTyped with the inserted type failed")
	}
	if _, ok := table.GetTyped(h, typePackage); ok {
		t.Fatal("GetTyped with another type succeeded")
	}

	if v, ok := table.Remove(h); !ok || v != inst {
		t.Fatalf("Remove = %v, %v", v, ok)
	}
	if inst.releases != 1 {
		t.Fatalf("releases = %d, want 1", inst.releases)
	}
	if _, ok := table.Remove(h); ok {
		t.Fatal("second Remove succeeded")
	}
	if inst.releases != 1 {
		t.Fatal("second Remove released again")
	}
	if table.Len() != 0 {
		t.Fatalf("Len = %d", table.Len())
	}
}

func TestUnifiedTable_StaleHandle(t *testing.T) {
	table := NewTable()
	first := &comObject{name: "first"}
	second := &comObject{name: "second"}

	h := table.Insert(typeInstance, first)
	table.Remove(h)
	table.Insert(typeInstance, second)

	if _, ok := table.Remove(h); ok {
		t.Fatal("stale handle removed a live resource")
	}
	if second.releases != 0 {
		t.Fatal("stale handle released the new object")
	}
}

func TestUnifiedTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	unsubscribe := table.Subscribe(obs)

	h := table.Insert(typeEnum, "enum")
	if len(obs.events) != 1 || obs.events[0].Type != EventCreated || obs.events[0].Handle != h {
		t.Fatalf("events = %+v", obs.events)
	}
	if obs.events[0].TypeID != typeEnum {
		t.Fatalf("TypeID = %d", obs.events[0].TypeID)
	}

	table.Remove(h)
	if len(obs.events) != 2 || obs.events[1].Type != EventDropped {
		t.Fatalf("events = %+v", obs.events)
	}
	if obs.events[1].TypeID != typeEnum {
		t.Fatal("dropped event lost its type")
	}

	table.Remove(h)
	if len(obs.events) != 2 {
		t.Fatal("second Remove notified")
	}

	unsubscribe()
	table.Insert(typeEnum, "other")
	if len(obs.events) != 2 {
		t.Fatal("notified after unsubscribe")
	}
}

func TestUnifiedTable_ObserverReentry(t *testing.T) {
	table := NewTable()

	// Observers may query the table they observe.
	var lens []int
	table.Subscribe(ObserverFunc(func(Event) {
		lens = append(lens, table.Len())
	}))

	h := table.Insert(typeInstance, "a")
	table.Insert(typePackage, "b")
	table.Remove(h)

	want := []int{1, 2, 1}
	if len(lens) != len(want) {
		t.Fatalf("lens = %v", lens)
	}
	for i := range want {
		if lens[i] != want[i] {
			t.Fatalf("lens = %v, want %v", lens, want)
		}
	}
}

func TestUnifiedTable_CountType(t *testing.T) {
	table := NewTable()
	table.Insert(typeEnum, "enum")
	table.Insert(typeInstance, "a")
	table.Insert(typeInstance, "b")

	if n := table.CountType(typeInstance); n != 2 {
		t.Fatalf("CountType = %d", n)
	}
	if n := table.Len() - table.CountType(typeEnum); n != 2 {
		t.Fatalf("non-enum count = %d", n)
	}
}

func TestUnifiedTable_Close(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	cfg := &comObject{name: "ISetupConfiguration"}
	inst := &comObject{name: "ISetupInstance"}
	table.Insert(typeEnum, cfg)
	table.Insert(typeInstance, inst)

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !table.Closed() {
		t.Fatal("Closed() = false")
	}
	if cfg.releases != 1 || inst.releases != 1 {
		t.Fatalf("releases = %d, %d", cfg.releases, inst.releases)
	}

	if len(obs.events) != 4 {
		t.Fatalf("events = %d, want 4", len(obs.events))
	}
	if obs.events[2].Value != inst || obs.events[3].Value != cfg {
		t.Fatalf("drop order: %v, %v", obs.events[2].Value, obs.events[3].Value)
	}

	if h := table.Insert(typeInstance, "late"); h != 0 {
		t.Fatal("Insert succeeded after Close")
	}
	if err := table.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if cfg.releases != 1 {
		t.Fatal("second Close released again")
	}
}

func TestUnifiedTable_ClearOrder(t *testing.T) {
	table := NewTable()

	var order []any
	table.Subscribe(ObserverFunc(func(e Event) {
		if e.Type == EventDropped {
			order = append(order, e.Value)
		}
	}))

	table.Insert(typeEnum, "enum")
	table.Insert(typeInstance, "instance")
	table.Insert(typePackage, "package")
	table.Clear()

	want := []any{"package", "instance", "enum"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if table.Closed() {
		t.Fatal("Clear closed the table")
	}
	if h := table.Insert(typeEnum, "again"); h == 0 {
		t.Fatal("Insert failed after Clear")
	}
}
