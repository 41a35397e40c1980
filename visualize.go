package annvis

// The visualization run: precondition checks and the sequential render loop.

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Config configures a visualization run.
type Config struct {
	ImageDir  string // The directory with the source images.
	OutDir    string // The directory the rendered images are written to.
	Show      bool   // Passed on to the Renderer.
	KeepEmpty bool   // Render images without annotations instead of skipping them.
}

// Summary counts the outcome of a visualization run.
type Summary struct {
	Rendered int // Images written to the output directory.
	Empty    int // Images skipped because they have no annotations.
	Failed   int // Images that could not be rendered.
}

func (s Summary) String() string {
	return fmt.Sprintf("%d rendered, %d empty, %d failed", s.Rendered, s.Empty, s.Failed)
}

// CheckPaths returns a *PreconditionError naming the first of annotationPath, cfg.ImageDir and
// cfg.OutDir that does not exist. The directories must be directories.
func CheckPaths(annotationPath string, cfg Config) error {
	if _, err := os.Stat(annotationPath); err != nil {
		return &PreconditionError{Path: annotationPath, Reason: "annotation path does not exist"}
	}
	for _, v := range []struct{ path, what string }{
		{cfg.ImageDir, "image directory"},
		{cfg.OutDir, "output directory"},
	} {
		info, err := os.Stat(v.path)
		if err != nil {
			return &PreconditionError{Path: v.path, Reason: v.what + " does not exist"}
		}
		if !info.IsDir() {
			return &PreconditionError{Path: v.path, Reason: v.what + " is not a directory"}
		}
	}
	return nil
}

// VisualizeCOCO renders the annotations of the COCO file at jsonPath.
func VisualizeCOCO(jsonPath string, cfg Config, r Renderer) (Summary, error) {
	if err := CheckPaths(jsonPath, cfg); err != nil {
		return Summary{}, err
	}
	data, catalog, err := FromCOCO(jsonPath)
	if err != nil {
		return Summary{}, err
	}
	return Visualize(data, catalog, cfg, r), nil
}

// VisualizeVOC renders the annotations of the VOC file or directory at path.
func VisualizeVOC(path string, classes ClassMap, opts VOCOptions, cfg Config, r Renderer) (
		Summary, error) {

	if err := CheckPaths(path, cfg); err != nil {
		return Summary{}, err
	}
	data, catalog, err := FromVOC(path, classes, opts)
	if err != nil {
		return Summary{}, err
	}
	return Visualize(data, catalog, cfg, r), nil
}

// Visualize renders the records one at a time. Per image failures are logged and counted, but do
// not stop the run.
func Visualize(data ImageRecords, catalog ClassCatalog, cfg Config, r Renderer) Summary {
	var s Summary
	n := len(data)
	for i, record := range data {
		if err := visualizeRecord(record, catalog, cfg, r); errors.Is(err, ErrEmptyAnnotations) {
			log.Printf("[%d/%d] image %s is empty, skipping", i+1, n, record.FileName)
			s.Empty++
		} else if err != nil {
			log.Printf("[%d/%d] Failed to render %s: %v", i+1, n, record.FileName, err)
			s.Failed++
		} else {
			log.Printf("[%d/%d] %s", i+1, n, record.FileName)
			s.Rendered++
		}
	}

	log.Printf("Visualized %d images: %v", n, s)
	return s
}

// visualizeRecord renders a single record. It returns ErrEmptyAnnotations if the record is skipped
// because it has no annotations.
func visualizeRecord(record ImageRecord, catalog ClassCatalog, cfg Config, r Renderer) error {
	if len(record.Annotations) == 0 && !cfg.KeepEmpty {
		return ErrEmptyAnnotations
	}

	imagePath := filepath.Join(cfg.ImageDir, record.FileName)
	if _, err := os.Stat(imagePath); err != nil {
		return fmt.Errorf("image file not found: %v", err)
	}
	outPath := filepath.Join(cfg.OutDir, record.FileName)

	return r.Render(imagePath, record.AnnotationSet(), catalog, cfg.Show, outPath)
}
