// Package pdf stamps a shared image onto rectangular regions of a PDF.
//
// Functions:
//   - StampAll: Stamps the image at one rectangle on every page.
//     Inputs: PDF reader, image bytes, rectangle, output writer.
//     Output: Result, error if the document or image cannot be processed.
//   - StampPlacements: Stamps the image at each placement on its page.
//     Placements on pages the document does not have are dropped.
//     Inputs: PDF reader, image bytes, placements, output writer.
//     Output: Result, error if the document or image cannot be processed.
//   - ParsePlacements: Decodes and normalizes a JSON placement list.
//   - PageCount: Returns the number of pages of a PDF.
//
// Coordinates use a top-left origin in points (72 points = 1 inch), measured
// against the visible page: the crop box, or the media box when a page has
// none. Nothing in this package touches the
// filesystem; the input reader and image bytes are never modified.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Result describes what a stamping call did.
type Result struct {
	PageCount int
	// Stamped maps a 1-based page number to the number of images drawn on it.
	Stamped map[int]int
	// Dropped holds the placements whose page is outside the document, in input order.
	Dropped []Placement
}

// newConfiguration returns a fresh pdfcpu configuration. pdfcpu records the
// running command in its configuration, so one is never shared between calls.
func newConfiguration() *model.Configuration {
	return model.NewDefaultConfiguration()
}

func rewind(rs io.ReadSeeker) error {
	_, err := rs.Seek(0, io.SeekStart)
	return err
}

// PageCount returns the number of pages of the PDF read from rs.
func PageCount(rs io.ReadSeeker) (int, error) {
	if err := rewind(rs); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDocumentOpen, err)
	}
	n, err := pdfapi.PageCount(rs, newConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDocumentOpen, err)
	}
	return n, nil
}

// pageHeights returns the height of every page's visible area in points.
func pageHeights(rs io.ReadSeeker) ([]float64, error) {
	if err := rewind(rs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentOpen, err)
	}
	boxes, err := pdfapi.Boxes(rs, nil, newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentOpen, err)
	}
	heights := make([]float64, len(boxes))
	for i, pb := range boxes {
		if heights[i], err = viewportHeight(pb); err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrDocumentOpen, i+1, err)
		}
	}
	return heights, nil
}

// viewportHeight is the height of the area pdfcpu anchors stamps to: the
// crop box, falling back to the media box. Pages rotated by 90 or 270
// degrees are seen sideways, so their width is used.
func viewportHeight(pb model.PageBoundaries) (float64, error) {
	var r *types.Rectangle
	switch {
	case pb.Crop != nil && pb.Crop.Rect != nil:
		r = pb.Crop.Rect
	case pb.Media != nil && pb.Media.Rect != nil:
		r = pb.Media.Rect
	default:
		return 0, errors.New("page has no media box")
	}
	if pb.Rot%180 != 0 {
		return r.Width(), nil
	}
	return r.Height(), nil
}

// StampAll stamps img at r on every page of doc and writes the new document to out.
func StampAll(doc io.ReadSeeker, img []byte, r Rect, out io.Writer) (*Result, error) {
	heights, err := pageHeights(doc)
	if err != nil {
		return nil, err
	}
	placements := make([]Placement, len(heights))
	for i := range heights {
		placements[i] = r.OnPage(i + 1)
	}
	return stamp(doc, heights, img, placements, out)
}

// StampPlacements stamps img at every placement and writes the new document
// to out. Placements on the same page are drawn in list order, so later ones
// end up on top. A placement whose page is outside the document is dropped
// and reported in Result.Dropped.
func StampPlacements(doc io.ReadSeeker, img []byte, placements []Placement, out io.Writer) (*Result, error) {
	heights, err := pageHeights(doc)
	if err != nil {
		return nil, err
	}
	return stamp(doc, heights, img, placements, out)
}

func stamp(doc io.ReadSeeker, heights []float64, img []byte, placements []Placement, out io.Writer) (*Result, error) {
	src, err := decodeImage(img)
	if err != nil {
		return nil, err
	}

	res := &Result{PageCount: len(heights), Stamped: make(map[int]int)}
	for _, p := range placements {
		if p.Page < 1 || p.Page > len(heights) {
			res.Dropped = append(res.Dropped, p)
		}
	}

	groups := GroupByPage(placements)
	fitted := make(map[[2]float64]*stampImage)
	m := make(map[int][]*model.Watermark)
	for page := 1; page <= len(heights); page++ {
		for _, p := range groups[page] {
			key := [2]float64{p.Width, p.Height}
			si, ok := fitted[key]
			if !ok {
				si, err = fitImage(src, p.Width, p.Height)
				if err != nil {
					return nil, fmt.Errorf("page %d: %w", page, err)
				}
				fitted[key] = si
			}
			wm, err := watermark(si, p, heights[page-1])
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", page, err)
			}
			m[page] = append(m[page], wm)
			res.Stamped[page]++
		}
	}

	if err := rewind(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentOpen, err)
	}
	if len(m) == 0 {
		if _, err := io.Copy(out, doc); err != nil {
			return nil, fmt.Errorf("failed to write document: %w", err)
		}
		return res, nil
	}

	// Render into memory first so out never sees a partial document.
	var buf bytes.Buffer
	if err := pdfapi.AddWatermarksSliceMap(doc, &buf, m, newConfiguration()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompositing, err)
	}
	if _, err := buf.WriteTo(out); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return res, nil
}

// userSpaceOrigin converts the top-left box r into the lower-left corner of
// the same box in PDF user space, whose origin is the bottom-left page corner.
func userSpaceOrigin(r Rect, pageHeight float64) (llx, lly float64) {
	_, maxY := r.Max()
	return r.X, pageHeight - maxY
}

// placeImage returns the absolute scale and user space lower-left corner that
// draw a pw x ph pixel image as large as fits inside r, centered on the axis
// with slack.
func placeImage(r Rect, pw, ph int, pageHeight float64) (scale, llx, lly float64) {
	scale = fitScale(pw, ph, r.Width, r.Height)
	llx, lly = userSpaceOrigin(r, pageHeight)
	llx += (r.Width - float64(pw)*scale) / 2
	lly += (r.Height - float64(ph)*scale) / 2
	return scale, llx, lly
}

// watermark builds an opaque, unrotated pdfcpu stamp drawing si inside the
// box of p.
func watermark(si *stampImage, p Placement, pageHeight float64) (*model.Watermark, error) {
	scale, llx, lly := placeImage(p.Rect(), si.width, si.height, pageHeight)
	desc := fmt.Sprintf("scale:%g abs, pos:bl, rot:0, op:1", scale)

	wm, err := pdfapi.ImageWatermarkForReader(bytes.NewReader(si.data), desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompositing, err)
	}

	// Manually override positioning
	wm.Dx, wm.Dy = llx, lly
	wm.Scale = scale
	wm.ScaleAbs = true
	return wm, nil
}
