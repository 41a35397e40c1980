// Draws COCO and Pascal VOC ground truth bounding boxes onto their images.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sensorable/annvis"
)

var (
	inputFormat format // The annotation format.

	labelFileOrDirPath string // The COCO file, or the VOC file or directory.
	imageDirPath       string // The input directory with the annotated images.
	imageOutDirPath    string // The output directory for rendered images.
	labelExt           string // The VOC annotation file extension.
	imageExt           string // The image extension for VOC files without a filename element.

	classMappings    string // A comma-separated string of name=id class mappings (voc).
	classMapFilePath string // A JSON file with the name to id class mappings (voc).

	keepEmpty bool // Render images without annotations.
	show      bool // Log a per image summary of the rendered boxes.

	filterLabels        string  // A comma-separated string of classes to keep (empty keeps all).
	filterMinBboxWidth  float64 // The minimum bounding box width.
	filterMinBboxHeight float64 // The minimum bounding box height.

	lineWidth               float64 // The box outline width.
	imageJPEGQuality        int     // The JPEG quality for JPEG outputs.
	imageResizeLonger       int     // The target length for the longer side of the image.
	imageResizeShorter      int     // The target length for the shorter side of the image.
	imageDownsamplingFilter string  // The algorithm to use when downsampling.
	imageUpsamplingFilter   string  // The algorithm to use when upsampling.
)

type format int

// The known annotation formats.
const (
	Unknown format = iota // If an unknown format is specified.
	COCO
	VOC
)

func formatFrom(s string) format {
	switch strings.ToLower(s) {
	case "coco":
		return COCO
	case "voc", "xml":
		return VOC
	}
	return Unknown
}

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr, "  coco options:\t-labels <file.json> -images <dir> -out <dir>")
		_, _ = fmt.Fprintln(os.Stderr, "  voc options:\t-labels <file.xml|dir> -images <dir> -out <dir>"+
				" (-classes name=id[,...] | -classes-file <file.json>)")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	printUsageAndExit := func(msg ...interface{}) {
		log.Print(msg...)
		flag.Usage()
		os.Exit(1)
	}

	// Format arguments.
	from := flag.String("format", "", "The annotation `format` {coco, voc}")

	// Path arguments.
	flag.StringVar(&labelFileOrDirPath, "labels", labelFileOrDirPath,
		"The `path` to the annotation file (coco, voc) or directory (voc)")
	flag.StringVar(&imageDirPath, "images", imageDirPath,
		"The `path` to the image input directory")
	flag.StringVar(&imageOutDirPath, "out", imageOutDirPath,
		"The `path` to the output directory for the rendered images")
	flag.StringVar(&labelExt, "label-ext", annvis.DefaultVOCExt,
		"The file `extension` of VOC annotation files")
	flag.StringVar(&imageExt, "image-ext", annvis.DefaultVOCImageExt,
		"The image file `extension` for VOC annotations without a filename element")

	// Class arguments.
	flag.StringVar(&classMappings, "classes", classMappings,
		"Comma-separated list of name=id class mappings (voc only)")
	flag.StringVar(&classMapFilePath, "classes-file", classMapFilePath,
		"The `path` to a JSON object of name: id class mappings (voc only)")

	// Run arguments.
	flag.BoolVar(&keepEmpty, "keep-empty", keepEmpty,
		"Render images without annotations (after filters) instead of skipping them; voc files"+
				" without objects are always skipped")
	flag.BoolVar(&show, "show", show, "Log the number of boxes per class for each rendered image")

	// Filter arguments.
	flag.StringVar(&filterLabels, "filter-labels", filterLabels,
		"Comma-separated list of classes to draw (empty string draws all)")
	flag.Float64Var(&filterMinBboxWidth, "min-bbox-width", filterMinBboxWidth,
		"The min. required width in `pixels` for object bounding boxes (before resizing)")
	flag.Float64Var(&filterMinBboxHeight, "min-bbox-height", filterMinBboxHeight,
		"The min. required height in `pixels` for object bounding boxes (before resizing)")

	// Image processing arguments.
	flag.Float64Var(&lineWidth, "line-width", 2, "The bounding box outline width in `pixels`")
	flag.IntVar(&imageJPEGQuality, "jpeg-quality", 90,
		"The quality to use when encoding JPEGs [1, 100]")
	flag.IntVar(&imageResizeLonger, "resize-longer", imageResizeLonger,
		"The target `length` for the longer side of the image (zero to keep aspect ratio)")
	flag.IntVar(&imageResizeShorter, "resize-shorter", imageResizeShorter,
		"The target `length` for the shorter side of the image (zero to keep aspect ratio)")
	flag.StringVar(&imageDownsamplingFilter, "downsample-filter", "box",
		"The filter to use when downsampling an image {nearest, box, linear, gaussian, lanczos}")
	flag.StringVar(&imageUpsamplingFilter, "upsample-filter", "linear",
		"The filter to use when upsampling an image {nearest, box, linear, gaussian, lanczos}")

	// Parse and validate flags.
	flag.Parse()

	inputFormat = formatFrom(*from)
	if inputFormat == Unknown {
		printUsageAndExit("Unsupported annotation format")
	}

	// Validate path arguments.
	if labelFileOrDirPath == "" || imageDirPath == "" || imageOutDirPath == "" {
		printUsageAndExit("Missing annotation, image or output path argument")
	}
	labelFileOrDirPath = filepath.Clean(labelFileOrDirPath)
	imageDirPath = filepath.Clean(imageDirPath)
	imageOutDirPath = filepath.Clean(imageOutDirPath)
	if imageDirPath == imageOutDirPath {
		printUsageAndExit("The image input and output paths cannot be identical")
	}

	// Validate class arguments.
	if inputFormat == VOC && (classMappings == "") == (classMapFilePath == "") {
		printUsageAndExit("Exactly one of -classes and -classes-file is required for voc")
	}

	// Validate image processing arguments.
	if lineWidth <= 0 {
		printUsageAndExit("Invalid value for -line-width")
	}
	if imageResizeLonger < 0 || imageResizeShorter < 0 {
		printUsageAndExit("Invalid resize length")
	}
	if imageJPEGQuality < 1 || imageJPEGQuality > 100 {
		imageJPEGQuality = 92
		log.Print("Invalid JPEG quality, setting it to ", imageJPEGQuality)
	}
}

func main() {
	cfg := annvis.Config{
		ImageDir:  imageDirPath,
		OutDir:    imageOutDirPath,
		Show:      show,
		KeepEmpty: keepEmpty,
	}
	if err := annvis.CheckPaths(labelFileOrDirPath, cfg); err != nil {
		log.Fatal("Invalid input: ", err)
	}

	renderer, err := newRenderer()
	if err != nil {
		log.Fatal("Invalid image processing options: ", err)
	}

	// Parse input.
	var data annvis.ImageRecords
	var catalog annvis.ClassCatalog
	switch inputFormat {
	case COCO:
		data, catalog, err = annvis.FromCOCO(labelFileOrDirPath)
	case VOC:
		var classes annvis.ClassMap
		if classes, err = loadClassMap(); err != nil {
			log.Fatal("Invalid class mappings: ", err)
		}
		opts := annvis.VOCOptions{Ext: labelExt, ImageExt: imageExt}
		data, catalog, err = annvis.FromVOC(labelFileOrDirPath, classes, opts)
	default:
		err = fmt.Errorf("unsupported annotation format")
	}
	if err != nil {
		log.Fatal("Failed to parse the input: ", err)
	}
	log.Printf("Parsed %d labels for %d images in %d classes",
		data.NumAnnotations(), len(data), len(catalog))

	// Apply filters.
	if filterLabels != "" || filterMinBboxWidth > 0 || filterMinBboxHeight > 0 {
		var classNames []string
		if filterLabels != "" {
			classNames = strings.Split(filterLabels, ",")
		}
		data.Filter(classNames, catalog, filterMinBboxWidth, filterMinBboxHeight)
	}

	summary := annvis.Visualize(data, catalog, cfg, renderer)
	log.Print("Total number of rendered images: ", summary.Rendered)
}

// newRenderer returns the renderer configured by the image processing flags.
func newRenderer() (*annvis.ImageRenderer, error) {
	r := annvis.NewImageRenderer()
	r.LineWidth = lineWidth
	r.JPEGQuality = imageJPEGQuality
	r.LongerSide = imageResizeLonger
	r.ShorterSide = imageResizeShorter

	var err error
	if r.Downsample, err = annvis.ResampleFilter(imageDownsamplingFilter); err != nil {
		return nil, err
	}
	if r.Upsample, err = annvis.ResampleFilter(imageUpsamplingFilter); err != nil {
		return nil, err
	}
	return r, nil
}

// loadClassMap reads the class mappings from -classes or -classes-file.
func loadClassMap() (annvis.ClassMap, error) {
	if classMapFilePath != "" {
		return annvis.LoadClassMap(filepath.Clean(classMapFilePath))
	}
	return annvis.ParseClassMap(strings.Split(classMappings, ","))
}
