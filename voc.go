package annvis

// Pascal VOC XML specific functionality.

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Default file extensions for VOC input.
const (
	DefaultVOCExt      = ".xml" // Annotation files.
	DefaultVOCImageExt = "jpg"  // Images of annotation files without a filename element.
)

// VOCOptions configures FromVOC. Zero values select the defaults.
type VOCOptions struct {
	Ext      string // The annotation file extension, with the dot.
	ImageExt string // The image extension used when a file has no filename element, without the dot.
}

func (o VOCOptions) withDefaults() VOCOptions {
	if o.Ext == "" {
		o.Ext = DefaultVOCExt
	} else if !strings.HasPrefix(o.Ext, ".") {
		o.Ext = "." + o.Ext
	}
	if o.ImageExt == "" {
		o.ImageExt = DefaultVOCImageExt
	}
	o.ImageExt = strings.TrimPrefix(o.ImageExt, ".")
	return o
}

// FromVOC reads and parses Pascal VOC annotations from path, which is either a single annotation
// file or a directory. In a directory, all files with the annotation file extension are parsed,
// non-recursively and in lexical order.
//
// Class names are resolved through classes, whose ids are shifted to start at zero. The returned
// ClassCatalog is indexed by these shifted ids.
//
// Files without objects are logged as empty and skipped. Files with malformed annotations or
// unknown class names are logged and skipped.
func FromVOC(path string, classes ClassMap, opts VOCOptions) (ImageRecords, ClassCatalog, error) {
	opts = opts.withDefaults()

	indices, catalog, err := classes.Normalize()
	if err != nil {
		return nil, nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, &PreconditionError{Path: path, Reason: "annotation path does not exist"}
	}

	var labelFiles []string
	if info.IsDir() {
		if labelFiles, err = filesByExtInDir(path, opts.Ext); err != nil {
			return nil, nil, err
		}
	} else {
		if !hasExt(path, opts.Ext) {
			return nil, nil, &PreconditionError{
				Path:   path,
				Reason: fmt.Sprintf("VOC annotations must be %s files", opts.Ext),
			}
		}
		labelFiles = []string{path}
	}
	log.Printf("Parsing VOC labels for %d files", len(labelFiles))

	data := make(ImageRecords, 0, len(labelFiles))
	for _, labelPath := range labelFiles {
		record, err := parseVOCFile(labelPath, indices, opts.ImageExt)
		if errors.Is(err, ErrEmptyAnnotations) {
			log.Printf("image %s is empty, skipping %q", record.FileName, labelPath)
			continue
		} else if err != nil {
			log.Printf("Error while parsing, skipping %q: %v", labelPath, err)
			continue
		}
		data = append(data, record)
	}

	return data, catalog, nil
}

// parseVOCFile parses the annotation file at path. Class names are mapped to canonical indices
// through indices.
//
// If the file has no objects, it returns the record without annotations and ErrEmptyAnnotations.
func parseVOCFile(path string, indices map[string]int, imageExt string) (
		record ImageRecord, err error) {

	f, err := os.Open(path)
	if err != nil {
		return ImageRecord{}, err
	}
	defer closeWithErrCheck(f, &err)

	root, err := ParseXML(f)
	if err != nil {
		return ImageRecord{}, &FormatError{Path: path, Err: err}
	}

	return vocImageRecord(path, root, indices, imageExt)
}

// vocImageRecord converts the parsed XML tree of the annotation file at path to the intermediate
// representation.
func vocImageRecord(path string, root *XMLNode, indices map[string]int, imageExt string) (
		ImageRecord, error) {

	if root.Tag != "annotation" {
		return ImageRecord{}, formatErrorf(path, "unexpected root element <%s>", root.Tag)
	}

	id := filepath.Base(path)
	record := ImageRecord{ID: id}

	// Derive the image name from the annotation file name if it is not given.
	if name, ok := root.ChildText("filename"); ok && name != "" {
		record.FileName = name
	} else {
		_, baseNoExt, _, err := splitPath(id)
		if err != nil {
			baseNoExt = id
		}
		record.FileName = baseNoExt + "." + imageExt
	}

	objects := root.ChildrenByTag("object")
	if len(objects) == 0 {
		return record, ErrEmptyAnnotations
	}

	record.Annotations = make([]Annotation, 0, len(objects))
	for i, obj := range objects {
		a, err := vocAnnotation(obj, indices)
		if err != nil {
			return ImageRecord{}, formatErrorf(path, "object %d: %v", i, err)
		}
		a.ImageID = id
		record.Annotations = append(record.Annotations, a)
	}

	return record, nil
}

// vocAnnotation converts a single object element.
func vocAnnotation(obj *XMLNode, indices map[string]int) (Annotation, error) {
	name, ok := obj.ChildText("name")
	if !ok {
		return Annotation{}, fmt.Errorf("missing <name>")
	}
	label, ok := indices[name]
	if !ok {
		return Annotation{}, fmt.Errorf("unknown class %q", name)
	}

	bndbox, ok := obj.Child("bndbox")
	if !ok {
		return Annotation{}, fmt.Errorf("missing <bndbox>")
	}
	var coords [4]string
	for i, tag := range [4]string{"xmin", "ymin", "xmax", "ymax"} {
		if coords[i], ok = bndbox.ChildText(tag); !ok {
			return Annotation{}, fmt.Errorf("missing <%s> in <bndbox>", tag)
		}
	}
	box, err := VOCBox(coords[0], coords[1], coords[2], coords[3])
	if err != nil {
		return Annotation{}, err
	}

	return Annotation{Box: box, Label: label}, nil
}
