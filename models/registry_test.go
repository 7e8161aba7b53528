package models

import "testing"

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	if len(reg) != 11 {
		t.Fatalf("got %d properties, want 11", len(reg))
	}

	names := reg.Names()
	if names[0] != "Flamingo" || names[len(names)-1] != "Las Eras" {
		t.Errorf("order changed: %v", names)
	}

	seen := make(map[string]bool)
	for _, e := range reg {
		if seen[e.ID] {
			t.Errorf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestRegistryHas(t *testing.T) {
	reg := DefaultRegistry()
	if !reg.Has("Los Amigos") {
		t.Error("Los Amigos should be registered")
	}
	if reg.Has("los amigos") || reg.Has("Unknown") {
		t.Error("Has must be an exact match")
	}
}

func TestTimeSeriesCloneIsIndependent(t *testing.T) {
	ts := TimeSeries{{Label: "w1", Properties: map[string]PropertyPeriodSummary{"Arena": {Count: 1}}}}
	c := ts.Clone()
	c[0].Properties["Arena"] = PropertyPeriodSummary{Count: 9}
	c[0].Label = "changed"

	if ts[0].Properties["Arena"].Count != 1 || ts[0].Label != "w1" {
		t.Errorf("clone shares state: %+v", ts[0])
	}
	if TimeSeries(nil).Clone() != nil {
		t.Error("nil clone should stay nil")
	}
}

func TestDiagnosticsAdd(t *testing.T) {
	d := Diagnostics{RowsSeen: 2, SkippedSource: 1}
	d.Add(Diagnostics{RowsSeen: 3, SkippedMalformed: 1, ReservationsKept: 2})
	want := Diagnostics{RowsSeen: 5, SkippedSource: 1, SkippedMalformed: 1, ReservationsKept: 2}
	if d != want {
		t.Errorf("got %+v, want %+v", d, want)
	}
}
