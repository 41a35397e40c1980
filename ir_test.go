package annvis

import (
	"reflect"
	"testing"
)

func TestClassCatalog(t *testing.T) {
	c := ClassCatalog{"x", "y"}

	if c.Name(1) != "y" || c.Name(2) != "" || c.Name(-1) != "" {
		t.Errorf("Name() returned unexpected values")
	}
	if c.Index("x") != 0 || c.Index("z") != -1 {
		t.Errorf("Index() returned unexpected values")
	}
	if !c.Contains(0) || c.Contains(2) {
		t.Errorf("Contains() returned unexpected values")
	}
}

func TestBoxScale(t *testing.T) {
	b := Box{10, 20, 30, 40}
	if got, want := b.Scale(0.5, 2), (Box{5, 40, 15, 80}); got != want {
		t.Errorf("Scale() = %v, want %v", got, want)
	}
	if b != (Box{10, 20, 30, 40}) {
		t.Errorf("Scale() modified the receiver")
	}
}

func TestImageRecordsFilter(t *testing.T) {
	captureLog(t)
	catalog := ClassCatalog{"scratch", "bubble", "pinhole"}
	newData := func() ImageRecords {
		return ImageRecords{
			{FileName: "a.jpg", Annotations: []Annotation{
				{Box: Box{0, 0, 10, 10}, Label: 0},
				{Box: Box{0, 0, 2, 10}, Label: 1},
				{Box: Box{0, 0, 10, 10}, Label: 2},
			}},
			{FileName: "b.jpg", Annotations: []Annotation{
				{Box: Box{0, 0, 1, 1}, Label: 1},
			}},
		}
	}

	t.Run("labels", func(t *testing.T) {
		data := newData()
		data.Filter([]string{"bubble", "pinhole", "unknown"}, catalog, 0, 0)
		want := []int{1, 2}
		var got []int
		for _, a := range data[0].Annotations {
			got = append(got, a.Label)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("labels after Filter() = %v, want %v", got, want)
		}
		if len(data) != 2 || len(data[1].Annotations) != 1 {
			t.Errorf("Filter() changed the records: %+v", data)
		}
	})

	t.Run("size", func(t *testing.T) {
		data := newData()
		data.Filter(nil, catalog, 5, 5)
		if len(data[0].Annotations) != 2 || len(data[1].Annotations) != 0 {
			t.Errorf("Filter() = %+v", data)
		}
		if data.NumAnnotations() != 2 {
			t.Errorf("NumAnnotations() = %d, want 2", data.NumAnnotations())
		}
	})
}
