package schema

import (
	"errors"
	"testing"

	"github.com/immunekb/cytokb/internal/domain"
)

func TestDefault_ResolveKnownColumn(t *testing.T) {
	reg := Default()

	col, ok := reg.Resolve("cytokine_name")
	if !ok {
		t.Fatal("expected cytokine_name to resolve")
	}
	if col.Name() != "cytokine_name" {
		t.Errorf("expected name cytokine_name, got %s", col.Name())
	}
	if col.Kind() != Categorical {
		t.Errorf("expected categorical kind, got %s", col.Kind())
	}
	if !col.Searchable() {
		t.Error("expected cytokine_name to be searchable")
	}
	if !col.Filterable() {
		t.Error("expected cytokine_name to be filterable")
	}
}

func TestDefault_ResolveUnknownColumn(t *testing.T) {
	reg := Default()

	if _, ok := reg.Resolve("drop table"); ok {
		t.Error("expected unknown name not to resolve")
	}
	if _, ok := reg.Resolve(""); ok {
		t.Error("expected empty name not to resolve")
	}
}

func TestDefault_IDNotFilterable(t *testing.T) {
	reg := Default()

	col, ok := reg.Resolve("id")
	if !ok {
		t.Fatal("expected id to resolve")
	}
	if col.Filterable() {
		t.Error("id must not be filterable")
	}
	for _, c := range reg.Filterable() {
		if c.Name() == "id" {
			t.Error("Filterable() must not include id")
		}
	}
}

func TestDefault_SearchableSet(t *testing.T) {
	reg := Default()

	want := map[string]bool{
		"cytokine_name":   true,
		"cell_type":       true,
		"cytokine_effect": true,
		"species":         true,
		"regulated_genes": true,
	}
	got := reg.Searchable()
	if len(got) != len(want) {
		t.Fatalf("expected %d searchable columns, got %d", len(want), len(got))
	}
	for _, c := range got {
		if !want[c.Name()] {
			t.Errorf("unexpected searchable column %s", c.Name())
		}
	}
}

func TestDefault_SortColumnsResolve(t *testing.T) {
	reg := Default()

	if _, ok := reg.Resolve(SortColumn); !ok {
		t.Errorf("sort column %s must be in the registry", SortColumn)
	}
	if _, ok := reg.Resolve(TieBreakColumn); !ok {
		t.Errorf("tie-break column %s must be in the registry", TieBreakColumn)
	}
}

func TestProjection_EmptyYieldsDefault(t *testing.T) {
	reg := Default()

	proj, err := reg.Projection(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := proj.Names()
	if len(names) != len(defaultProjection) {
		t.Fatalf("expected %d default columns, got %d", len(defaultProjection), len(names))
	}
	for i, n := range names {
		if n != defaultProjection[i] {
			t.Errorf("default projection[%d]: expected %s, got %s", i, defaultProjection[i], n)
		}
	}
}

func TestProjection_ExplicitFields(t *testing.T) {
	reg := Default()

	proj, err := reg.Projection([]string{"species", "cytokine_name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := proj.Names()
	if len(names) != 2 || names[0] != "species" || names[1] != "cytokine_name" {
		t.Errorf("expected request order [species cytokine_name], got %v", names)
	}
}

func TestProjection_DedupesAndTrims(t *testing.T) {
	reg := Default()

	proj, err := reg.Projection([]string{" species ", "species", "", "id"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := proj.Names()
	if len(names) != 2 || names[0] != "species" || names[1] != "id" {
		t.Errorf("expected [species id], got %v", names)
	}
}

func TestProjection_BlankOnlyFallsBackToDefault(t *testing.T) {
	reg := Default()

	proj, err := reg.Projection([]string{" ", "", "\t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := proj.Names()
	if len(names) != len(defaultProjection) {
		t.Fatalf("blank-only field list must yield the default subset, got %v", names)
	}
	for i, n := range names {
		if n != defaultProjection[i] {
			t.Errorf("default projection[%d]: expected %s, got %s", i, defaultProjection[i], n)
		}
	}
}

func TestProjection_UnknownFieldsCollected(t *testing.T) {
	reg := Default()

	_, err := reg.Projection([]string{"species", "bogus", "also_bogus"})
	if err == nil {
		t.Fatal("expected error for unknown fields")
	}
	if !errors.Is(err, domain.ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn, got %v", err)
	}

	var fe *domain.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldError, got %T", err)
	}
	if fe.Field != "fields" {
		t.Errorf("expected field 'fields', got %q", fe.Field)
	}
}

func TestKind_String(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{Text, "text"},
		{Categorical, "categorical"},
		{Numeric, "numeric"},
		{Kind(42), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("Kind(%d).String(): expected %s, got %s", tc.kind, tc.want, got)
		}
	}
}
