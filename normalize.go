package annvis

// Conversions from the format specific box and label encodings to the canonical representation.

import (
	"fmt"
	"strconv"
	"strings"
)

// XYWHToXYXY converts a box given by its top-left corner and size, as used by COCO, to the
// canonical x1, y1, x2, y2 form.
func XYWHToXYXY(x, y, w, h float64) Box {
	return Box{x, y, x + w, y + h}
}

// COCOLabel converts a 1-based COCO category id to the canonical 0-based class index.
func COCOLabel(categoryID int64) int {
	return int(categoryID - 1)
}

// VOCBox converts the text values of a Pascal VOC bndbox element to a canonical box. The VOC
// coordinates are already in x1, y1, x2, y2 order, so they are only parsed.
func VOCBox(xmin, ymin, xmax, ymax string) (Box, error) {
	var b Box
	for i, s := range [4]string{xmin, ymin, xmax, ymax} {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Box{}, fmt.Errorf("invalid coordinate %q: %v", s, err)
		}
		b[i] = v
	}
	if !b.valid() {
		return Box{}, fmt.Errorf("inverted bounding box %v", b)
	}
	return b, nil
}
