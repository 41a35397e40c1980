package annvis

import (
	"testing"
)

func TestXYWHToXYXY(t *testing.T) {
	tests := []struct {
		x, y, w, h float64
		want       Box
	}{
		{10, 20, 30, 40, Box{10, 20, 40, 60}},
		{0, 0, 0, 0, Box{0, 0, 0, 0}},
		{1.5, 2.25, 0.5, 0.75, Box{1.5, 2.25, 2, 3}},
		{-4, -3, 2, 1, Box{-4, -3, -2, -2}},
	}

	for _, tt := range tests {
		got := XYWHToXYXY(tt.x, tt.y, tt.w, tt.h)
		if got != tt.want {
			t.Errorf("XYWHToXYXY(%v, %v, %v, %v) = %v, want %v", tt.x, tt.y, tt.w, tt.h, got, tt.want)
		}
		if got[2] < got[0] || got[3] < got[1] {
			t.Errorf("XYWHToXYXY(%v, %v, %v, %v) = %v is inverted", tt.x, tt.y, tt.w, tt.h, got)
		}
		if got.Width() != tt.w || got.Height() != tt.h {
			t.Errorf("size of %v = %vx%v, want %vx%v", got, got.Width(), got.Height(), tt.w, tt.h)
		}
	}
}

func TestCOCOLabel(t *testing.T) {
	for id := int64(1); id <= 80; id++ {
		if got := COCOLabel(id); got != int(id-1) {
			t.Errorf("COCOLabel(%d) = %d, want %d", id, got, id-1)
		}
	}
}

func TestVOCBox(t *testing.T) {
	got, err := VOCBox("48", " 240 ", "195.5", "371\n")
	if err != nil {
		t.Fatalf("VOCBox() error = %v", err)
	}
	if want := (Box{48, 240, 195.5, 371}); got != want {
		t.Errorf("VOCBox() = %v, want %v", got, want)
	}

	invalid := [][4]string{
		{"a", "0", "1", "1"},
		{"0", "0", "", "1"},
		{"10", "0", "5", "1"}, // xmax < xmin
		{"0", "10", "5", "1"}, // ymax < ymin
	}
	for _, v := range invalid {
		if _, err := VOCBox(v[0], v[1], v[2], v[3]); err == nil {
			t.Errorf("VOCBox(%q) succeeded, want error", v)
		}
	}
}
