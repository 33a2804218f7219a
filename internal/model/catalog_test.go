package model

import (
	"testing"
)

func TestNewItemDescriptorAssignsID(t *testing.T) {
	d := NewItemDescriptor("Shield", 2, 2, "shield.png")
	if len(d.ID) != 8 {
		t.Errorf("expected 8-char id, got %q", d.ID)
	}
	if d.Area() != 4 {
		t.Errorf("expected area 4, got %d", d.Area())
	}
	if !d.Valid() {
		t.Error("expected descriptor to be valid")
	}

	other := NewItemDescriptor("Shield", 2, 2, "shield.png")
	if other.ID == d.ID {
		t.Error("expected distinct ids for separately created descriptors")
	}
}

func TestDefaultCatalogIsValid(t *testing.T) {
	cat := DefaultCatalog()
	if len(cat.Items) == 0 {
		t.Fatal("expected default items")
	}
	if err := cat.Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
}

func TestCatalogValidateRejectsZeroDimension(t *testing.T) {
	cat := Catalog{Items: []ItemDescriptor{{ID: "a", Name: "Flat", Width: 0, Height: 2}}}
	if err := cat.Validate(); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestCatalogValidateRejectsDuplicateIDs(t *testing.T) {
	cat := Catalog{Items: []ItemDescriptor{
		{ID: "dup", Name: "One", Width: 1, Height: 1},
		{ID: "dup", Name: "Two", Width: 1, Height: 1},
	}}
	if err := cat.Validate(); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestCatalogFind(t *testing.T) {
	cat := DefaultCatalog()
	sword := cat.FindByName("sword")
	if sword == nil {
		t.Fatal("expected to find Sword case-insensitively")
	}
	if sword.Width != 1 || sword.Height != 3 {
		t.Errorf("unexpected sword footprint %dx%d", sword.Width, sword.Height)
	}
	if got := cat.FindByID(sword.ID); got == nil || got.Name != "Sword" {
		t.Errorf("FindByID returned %v", got)
	}
	if cat.FindByID("missing") != nil {
		t.Error("expected nil for unknown id")
	}
	if cat.FindByName("Anvil") != nil {
		t.Error("expected nil for unknown name")
	}
}

func TestCatalogNames(t *testing.T) {
	cat := Catalog{Items: []ItemDescriptor{{Name: "A"}, {Name: "B"}}}
	names := cat.Names()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestCatalogMergeSkipsDuplicates(t *testing.T) {
	base := Catalog{Items: []ItemDescriptor{{ID: "a", Name: "A", Width: 1, Height: 1}}}
	added := base.Merge(Catalog{Items: []ItemDescriptor{
		{ID: "a", Name: "A again", Width: 1, Height: 1},
		{ID: "b", Name: "B", Width: 2, Height: 1},
	}})
	if added != 1 {
		t.Errorf("expected 1 added, got %d", added)
	}
	if len(base.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(base.Items))
	}
}
