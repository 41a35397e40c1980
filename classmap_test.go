package annvis

import (
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func TestParseClassMap(t *testing.T) {
	got, err := ParseClassMap([]string{"scratch=1", " bubble = 2", "pinhole=3", "tin_ash=4"})
	if err != nil {
		t.Fatalf("ParseClassMap() error = %v", err)
	}
	want := ClassMap{"scratch": 1, "bubble": 2, "pinhole": 3, "tin_ash": 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseClassMap() = %v, want %v", got, want)
	}

	for _, bad := range [][]string{
		{"scratch"},
		{"scratch=one"},
		{"=1"},
		{"a=1=2"},
		{"a=1", "a=2"},
	} {
		if _, err := ParseClassMap(bad); err == nil {
			t.Errorf("ParseClassMap(%q) succeeded, want error", bad)
		}
	}
}

func TestLoadClassMap(t *testing.T) {
	got, err := LoadClassMap(filepath.Join("testdata", "classes.json"))
	if err != nil {
		t.Fatalf("LoadClassMap() error = %v", err)
	}
	want := ClassMap{"scratch": 1, "bubble": 2, "pinhole": 3, "tin_ash": 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadClassMap() = %v, want %v", got, want)
	}

	if _, err := LoadClassMap(filepath.Join("testdata", "coco.json")); err == nil {
		t.Error("LoadClassMap() on a COCO file succeeded, want error")
	}
}

func TestClassMapNormalize(t *testing.T) {
	tests := []struct {
		name        string
		classes     ClassMap
		wantIndices map[string]int
		wantCatalog ClassCatalog
	}{
		{
			name:        "one based",
			classes:     ClassMap{"scratch": 1, "bubble": 2, "pinhole": 3, "tin_ash": 4},
			wantIndices: map[string]int{"scratch": 0, "bubble": 1, "pinhole": 2, "tin_ash": 3},
			wantCatalog: ClassCatalog{"scratch", "bubble", "pinhole", "tin_ash"},
		},
		{
			name:        "zero based",
			classes:     ClassMap{"a": 0, "b": 1},
			wantIndices: map[string]int{"a": 0, "b": 1},
			wantCatalog: ClassCatalog{"a", "b"},
		},
		{
			name:        "non contiguous",
			classes:     ClassMap{"a": 10, "b": 13, "c": 11},
			wantIndices: map[string]int{"a": 0, "b": 3, "c": 1},
			wantCatalog: ClassCatalog{"a", "c", "class_12", "b"},
		},
		{
			name:        "negative",
			classes:     ClassMap{"a": -2, "b": 0},
			wantIndices: map[string]int{"a": 0, "b": 2},
			wantCatalog: ClassCatalog{"a", "class_-1", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indices, catalog, err := tt.classes.Normalize()
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if !reflect.DeepEqual(indices, tt.wantIndices) {
				t.Errorf("Normalize() indices = %v, want %v", indices, tt.wantIndices)
			}
			if !reflect.DeepEqual(catalog, tt.wantCatalog) {
				t.Errorf("Normalize() catalog = %v, want %v", catalog, tt.wantCatalog)
			}
			for name, i := range indices {
				if catalog.Name(i) != name {
					t.Errorf("catalog.Name(%d) = %q, want %q", i, catalog.Name(i), name)
				}
			}
		})
	}
}

// The normalization must be a pure shift: the minimum becomes zero, and order and distinctness of
// the ids are preserved.
func TestClassMapNormalizeIsShift(t *testing.T) {
	classes := ClassMap{"a": 7, "b": 3, "c": 42, "d": 5, "e": 6}
	indices, catalog, err := classes.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return classes[names[i]] < classes[names[j]] })

	if got := indices[names[0]]; got != 0 {
		t.Errorf("smallest index = %d, want 0", got)
	}
	shift := classes[names[0]] - indices[names[0]]
	seen := make(map[int]bool)
	for i, name := range names {
		idx := indices[name]
		if classes[name]-idx != shift {
			t.Errorf("index of %q = %d, not shifted by %d from %d", name, idx, shift, classes[name])
		}
		if i > 0 && idx <= indices[names[i-1]] {
			t.Errorf("index of %q = %d does not preserve the id order", name, idx)
		}
		if seen[idx] {
			t.Errorf("index %d assigned twice", idx)
		}
		seen[idx] = true
		if !catalog.Contains(idx) {
			t.Errorf("index %d of %q is not in the catalog", idx, name)
		}
	}
}

func TestClassMapNormalizeInvalid(t *testing.T) {
	for _, classes := range []ClassMap{
		nil,
		{},
		{"a": 1, "b": 1},
		{"": 1},
		{"a": 0, "b": maxCatalogSize},
		{"a": -5000000000000000000, "b": 5000000000000000000},
		{"a": math.MinInt, "b": math.MaxInt},
	} {
		_, _, err := classes.Normalize()
		var precondition *PreconditionError
		if !errors.As(err, &precondition) {
			t.Errorf("Normalize(%v) error = %v, want *PreconditionError", classes, err)
		}
	}
}

func TestClassMapNormalizeWideIDRange(t *testing.T) {
	parsed, err := ParseClassMap([]string{"a=-9223372036854775808", "b=9223372036854775807"})
	if err != nil {
		t.Fatalf("ParseClassMap() error = %v", err)
	}
	loaded, err := LoadClassMap(writeFile(t, t.TempDir(), "classes.json",
		`{"a": -5000000000000000000, "b": 5000000000000000000}`))
	if err != nil {
		t.Fatalf("LoadClassMap() error = %v", err)
	}

	for _, classes := range []ClassMap{parsed, loaded} {
		_, _, err := classes.Normalize()
		var precondition *PreconditionError
		if !errors.As(err, &precondition) {
			t.Errorf("Normalize(%v) error = %v, want *PreconditionError", classes, err)
		}
	}
}
