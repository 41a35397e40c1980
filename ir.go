package annvis

// The intermediate annotation representation shared by all input formats.

import (
	"log"
)

// Box is an axis-aligned bounding box in the canonical form: absolute x1, y1, x2, y2 pixel offsets
// from the top-left corner of the image, with x2 >= x1 and y2 >= y1.
type Box [4]float64

// Width is the box width.
func (b Box) Width() float64 {
	return b[2] - b[0]
}

// Height is the box height.
func (b Box) Height() float64 {
	return b[3] - b[1]
}

// Scale returns a copy of b with the x coordinates multiplied by sx and the y coordinates by sy.
func (b Box) Scale(sx, sy float64) Box {
	return Box{b[0] * sx, b[1] * sy, b[2] * sx, b[3] * sy}
}

// valid reports whether the box has non-negative width and height.
func (b Box) valid() bool {
	return b[2] >= b[0] && b[3] >= b[1]
}

// ClassCatalog is the ordered list of class names. The index of a name is its canonical class
// index.
type ClassCatalog []string

// Name returns the class name for the canonical index i, or the empty string if i is out of range.
func (c ClassCatalog) Name(i int) string {
	if !c.Contains(i) {
		return ""
	}
	return c[i]
}

// Contains reports whether i is a valid canonical class index.
func (c ClassCatalog) Contains(i int) bool {
	return i >= 0 && i < len(c)
}

// Index returns the canonical index of the class name, or -1 if the catalog does not contain it.
func (c ClassCatalog) Index(name string) int {
	for i, v := range c {
		if v == name {
			return i
		}
	}
	return -1
}

// Annotation is a single labelled object.
type Annotation struct {
	Box     Box
	Label   int    // Canonical class index into the ClassCatalog.
	ImageID string // The identifier of the ImageRecord the annotation belongs to.
}

// ImageRecord is the annotation metadata for a single image.
type ImageRecord struct {
	Annotations []Annotation
	FileName    string // The image file name, relative to the image directory.
	ID          string // COCO: the decimal image id. XML: the annotation file name.
}

// AnnotationSet converts the record's annotations to the representation consumed by a Renderer.
func (r ImageRecord) AnnotationSet() AnnotationSet {
	set := AnnotationSet{
		Boxes:  make([]Box, len(r.Annotations)),
		Labels: make([]int, len(r.Annotations)),
	}
	for i, a := range r.Annotations {
		set.Boxes[i] = a.Box
		set.Labels[i] = a.Label
	}
	return set
}

// AnnotationSet is the canonical annotation set of one image: parallel slices of boxes and class
// indices.
type AnnotationSet struct {
	Boxes  []Box
	Labels []int
}

// Len is the number of annotations in the set.
func (s AnnotationSet) Len() int {
	return len(s.Boxes)
}

// ImageRecords is the annotation metadata for a list of images.
type ImageRecords []ImageRecord

// NumAnnotations is the total number of annotations over all records.
func (data ImageRecords) NumAnnotations() int {
	n := 0
	for _, r := range data {
		n += len(r.Annotations)
	}
	return n
}

// Filter filters out annotations whose class is not one of classNames, or whose bounding box is
// narrower than minBboxWidth or lower than minBboxHeight. An empty classNames keeps all classes.
//
// Records are kept even when all of their annotations are removed. Whether empty records are
// rendered is decided by the caller.
func (data ImageRecords) Filter(classNames []string, catalog ClassCatalog,
		minBboxWidth, minBboxHeight float64) {

	// Resolve the class names to canonical indices.
	var keep map[int]bool
	if len(classNames) > 0 {
		keep = make(map[int]bool, len(classNames))
		for _, name := range classNames {
			if i := catalog.Index(name); i >= 0 {
				keep[i] = true
			} else {
				log.Printf("Unknown class %q in label filter", name)
			}
		}
	}

	numBefore := data.NumAnnotations()

	for dataIdx := range data {
		d := &data[dataIdx]

		kept := d.Annotations[:0]
		for _, a := range d.Annotations {
			// Filter by bbox size.
			if minBboxWidth > a.Box.Width() || minBboxHeight > a.Box.Height() {
				continue
			}

			// Filter by class.
			if keep != nil && !keep[a.Label] {
				continue
			}

			kept = append(kept, a)
		}
		d.Annotations = kept
	}

	log.Printf("Filtered out %d labels", numBefore-data.NumAnnotations())
}
