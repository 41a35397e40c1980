package annvis

// COCO specific functionality.

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strconv"
)

// COCOImage is an entry of the top-level "images" list.
type COCOImage struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
}

// COCOAnnotation is an entry of the top-level "annotations" list.
type COCOAnnotation struct {
	ImageID    int64     `json:"image_id"`
	BBox       []float64 `json:"bbox"` // x, y, width, height
	CategoryID int64     `json:"category_id"`
}

// COCOCategory is an entry of the top-level "categories" list.
type COCOCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// COCODataset defines the parts of a COCO annotation file used here. The lists are pointers so
// that an absent key can be told apart from an empty list.
type COCODataset struct {
	Images      *[]COCOImage      `json:"images"`
	Annotations *[]COCOAnnotation `json:"annotations"`
	Categories  *[]COCOCategory   `json:"categories"`
}

// FromCOCO reads and parses the COCO annotations from the JSON file at path.
//
// Every image yields an ImageRecord, also those without annotations. Images with malformed
// annotations are logged and skipped. The category ids must be 1-based and contiguous, in the order
// of the categories list, as they are converted to class indices by subtracting one.
func FromCOCO(path string) (ImageRecords, ClassCatalog, error) {
	if !hasExt(path, ".json") {
		return nil, nil, &PreconditionError{Path: path, Reason: "COCO annotations must be a .json file"}
	}

	if _, err := os.Stat(path); err != nil {
		return nil, nil, &PreconditionError{Path: path, Reason: "annotation path does not exist"}
	}

	enc, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, nil, &FormatError{Path: path, Err: err}
	}

	var coco COCODataset
	if err := json.Unmarshal(enc, &coco); err != nil {
		return nil, nil, &FormatError{Path: path, Err: err}
	}
	switch {
	case coco.Images == nil:
		return nil, nil, formatErrorf(path, "missing key %q", "images")
	case coco.Annotations == nil:
		return nil, nil, formatErrorf(path, "missing key %q", "annotations")
	case coco.Categories == nil:
		return nil, nil, formatErrorf(path, "missing key %q", "categories")
	}

	catalog, err := cocoCatalog(*coco.Categories)
	if err != nil {
		return nil, nil, &FormatError{Path: path, Err: err}
	}

	// Group the annotations by image, keeping their order.
	byImage := make(map[int64][]COCOAnnotation, len(*coco.Images))
	for _, a := range *coco.Annotations {
		byImage[a.ImageID] = append(byImage[a.ImageID], a)
	}

	log.Printf("Parsing COCO labels for %d images", len(*coco.Images))

	data := make(ImageRecords, 0, len(*coco.Images))
	for _, img := range *coco.Images {
		record, err := cocoImageRecord(img, byImage[img.ID], catalog)
		if err != nil {
			log.Printf("Error while parsing, skipping image %d (%q) in %q: %v",
				img.ID, img.FileName, path, err)
			continue
		}
		data = append(data, record)
	}

	return data, catalog, nil
}

// cocoCatalog builds the ClassCatalog from the categories list and validates that the category ids
// are 1, 2, 3, ... in list order.
func cocoCatalog(categories []COCOCategory) (ClassCatalog, error) {
	catalog := make(ClassCatalog, len(categories))
	for i, c := range categories {
		if COCOLabel(c.ID) != i {
			return nil, fmt.Errorf("category %q has id %d, expected %d: category ids must be"+
					" contiguous and start at 1", c.Name, c.ID, i+1)
		}
		catalog[i] = c.Name
	}
	return catalog, nil
}

// cocoImageRecord converts one image and its annotations to the intermediate representation.
func cocoImageRecord(img COCOImage, annotations []COCOAnnotation, catalog ClassCatalog) (
		ImageRecord, error) {

	if img.FileName == "" {
		return ImageRecord{}, fmt.Errorf("missing file_name")
	}

	id := strconv.FormatInt(img.ID, 10)
	record := ImageRecord{
		Annotations: make([]Annotation, 0, len(annotations)),
		FileName:    img.FileName,
		ID:          id,
	}
	for i, a := range annotations {
		if len(a.BBox) != 4 {
			return ImageRecord{}, fmt.Errorf("annotation %d: bbox has %d values, expected 4",
				i, len(a.BBox))
		}
		if a.BBox[2] < 0 || a.BBox[3] < 0 {
			return ImageRecord{}, fmt.Errorf("annotation %d: negative bbox size %v", i, a.BBox)
		}
		label := COCOLabel(a.CategoryID)
		if !catalog.Contains(label) {
			return ImageRecord{}, fmt.Errorf("annotation %d: unknown category_id %d",
				i, a.CategoryID)
		}

		record.Annotations = append(record.Annotations, Annotation{
			Box:     XYWHToXYXY(a.BBox[0], a.BBox[1], a.BBox[2], a.BBox[3]),
			Label:   label,
			ImageID: id,
		})
	}

	return record, nil
}
