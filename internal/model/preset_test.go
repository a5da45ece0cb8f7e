package model

import (
	"testing"
)

func TestNewJointPreset(t *testing.T) {
	p := NewJointPreset("Drawer", "12mm ply drawer sides", DefaultParameters())
	if len(p.ID) != 8 {
		t.Errorf("expected 8 character ID, got %q", p.ID)
	}
	if p.CreatedAt == "" || p.CreatedAt != p.UpdatedAt {
		t.Errorf("expected matching timestamps, got %q / %q", p.CreatedAt, p.UpdatedAt)
	}
	q := NewJointPreset("Drawer", "", DefaultParameters())
	if p.ID == q.ID {
		t.Error("expected unique IDs")
	}
}

func TestPresetStore(t *testing.T) {
	store := NewPresetStore()
	a := NewJointPreset("Small box", "", DefaultParameters())
	b := NewJointPreset("Chest", "", DefaultParameters())
	store.Add(a)
	store.Add(b)

	if got := store.Names(); len(got) != 2 || got[0] != "Small box" || got[1] != "Chest" {
		t.Errorf("unexpected names %v", got)
	}
	if store.FindByName("Chest") == nil {
		t.Error("expected to find Chest by name")
	}

	params := DefaultParameters()
	params.FingerCount = 9
	if !store.Update(b.ID, params) {
		t.Fatal("expected update to succeed")
	}
	if store.FindByID(b.ID).Parameters.FingerCount != 9 {
		t.Error("update did not change parameters")
	}
	if store.Update("missing", params) {
		t.Error("expected update of unknown ID to fail")
	}

	if !store.Remove(a.ID) {
		t.Fatal("expected remove to succeed")
	}
	if store.Remove(a.ID) {
		t.Error("expected second remove to fail")
	}
	if len(store.Presets) != 1 || store.FindByID(a.ID) != nil {
		t.Errorf("unexpected store after remove: %+v", store.Presets)
	}
}
