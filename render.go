package annvis

// Drawing of annotation sets onto images.

import (
	"fmt"
	"image"
	"image/draw"
	"log"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Renderer draws an annotation set onto the image at imagePath and writes the result to outPath.
// If show is true the renderer also presents the result to the user in whatever way it supports.
type Renderer interface {
	Render(imagePath string, set AnnotationSet, classes ClassCatalog, show bool, outPath string) error
}

// ImageRenderer is a Renderer that draws boxes and class names with draw2d and encodes the output
// with imaging. The output encoding follows the file extension of the output path.
//
// Since there is no display to show images on, show logs a summary of the drawn boxes instead.
type ImageRenderer struct {
	LineWidth   float64 // Box outline width in output pixels.
	JPEGQuality int     // In [1, 100].

	// Optional resizing of the output. Zero for both sides keeps the image size.
	LongerSide, ShorterSide int
	Downsample, Upsample    imaging.ResampleFilter
}

// NewImageRenderer returns an ImageRenderer with 2px outlines, JPEG quality 90 and no resizing.
func NewImageRenderer() *ImageRenderer {
	return &ImageRenderer{
		LineWidth:   2,
		JPEGQuality: 90,
		Downsample:  imaging.Box,
		Upsample:    imaging.Linear,
	}
}

// Render implements Renderer.
func (r *ImageRenderer) Render(imagePath string, set AnnotationSet, classes ClassCatalog,
		show bool, outPath string) error {

	if len(set.Boxes) != len(set.Labels) {
		return fmt.Errorf("%d boxes but %d labels", len(set.Boxes), len(set.Labels))
	}
	for _, l := range set.Labels {
		if !classes.Contains(l) {
			return fmt.Errorf("class index %d out of range [0, %d)", l, len(classes))
		}
	}

	img, err := loadImage(imagePath)
	if err != nil {
		return err
	}

	// Resize first, so that outlines and text are not resampled.
	boxes := set.Boxes
	if r.LongerSide > 0 || r.ShorterSide > 0 {
		var sx, sy float64
		img, sx, sy = resizeImage(img, r.LongerSide, r.ShorterSide, r.Downsample, r.Upsample)
		boxes = make([]Box, len(set.Boxes))
		for i, b := range set.Boxes {
			boxes[i] = b.Scale(sx, sy)
		}
	}

	canvas := toRGBA(img)
	r.draw(canvas, boxes, set.Labels, classes)

	if err := saveImage(outPath, canvas, r.JPEGQuality); err != nil {
		return err
	}

	if show {
		log.Printf("%s: %s", outPath, summarizeLabels(set.Labels, classes))
	}

	return nil
}

// draw draws the outlines of all boxes first and the labels on top, so that labels are not hidden
// by neighbouring outlines.
func (r *ImageRenderer) draw(canvas *image.RGBA, boxes []Box, labels []int, classes ClassCatalog) {
	gc := draw2dimg.NewGraphicContext(canvas)
	gc.SetLineWidth(r.LineWidth)

	for i, b := range boxes {
		gc.SetStrokeColor(classColor(labels[i]))
		draw2dkit.Rectangle(gc, b[0], b[1], b[2], b[3])
		gc.Stroke()
	}

	face := basicfont.Face7x13
	metrics := face.Metrics()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()
	const pad = 2

	for i, b := range boxes {
		text := classes.Name(labels[i])
		textWidth := font.MeasureString(face, text).Ceil()
		bg := classColor(labels[i])

		// Place the label above the box, or inside it at the top if there is no room.
		x := b[0] - r.LineWidth/2
		top := b[1] - r.LineWidth/2 - float64(textHeight+2*pad)
		if top < 0 {
			top = b[1] + r.LineWidth/2
		}

		gc.SetFillColor(bg)
		draw2dkit.Rectangle(gc, x, top, x+float64(textWidth+2*pad), top+float64(textHeight+2*pad))
		gc.Fill()

		d := font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(textColor(bg)),
			Face: face,
			Dot:  fixed.P(int(x)+pad, int(top)+pad+metrics.Ascent.Ceil()),
		}
		d.DrawString(text)
	}
}

// toRGBA returns img as an *image.RGBA with its origin at (0, 0), as required by draw2dimg.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Src)
	return canvas
}

// summarizeLabels formats the number of boxes per class, e.g. "3 boxes (bubble x2, scratch x1)".
func summarizeLabels(labels []int, classes ClassCatalog) string {
	counts := make(map[string]int)
	for _, l := range labels {
		counts[classes.Name(l)]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s x%d", name, counts[name])
	}

	s := fmt.Sprintf("%d boxes", len(labels))
	if len(parts) > 0 {
		s += " (" + strings.Join(parts, ", ") + ")"
	}
	return s
}
