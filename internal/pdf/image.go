package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// Highest pixel density kept in a fitted stamp, in pixels per point.
	maxStampDensity = 4.0

	maxStampPixels = 16 << 20
)

// stampImage is a PNG ready to be drawn into one stamp box.
type stampImage struct {
	data   []byte
	width  int
	height int
}

func decodeImage(b []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", ErrCompositing, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrCompositing)
	}
	return img, nil
}

// fitScale is the points per pixel that make a pw x ph image as large as
// possible inside a w x h box without changing its aspect ratio.
func fitScale(pw, ph int, w, h float64) float64 {
	return math.Min(w/float64(pw), h/float64(ph))
}

// fitImage prepares src for a w x h point box. The aspect ratio of src is
// kept. Sources denser than maxStampDensity once fitted are downscaled.
func fitImage(src image.Image, w, h float64) (*stampImage, error) {
	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return nil, fmt.Errorf("%w: empty stamp rectangle %gx%g", ErrCompositing, w, h)
	}

	sb := src.Bounds()
	pw, ph := sb.Dx(), sb.Dy()
	ratio := math.Min(1, maxStampDensity*fitScale(pw, ph, w, h))
	if px := float64(pw) * float64(ph) * ratio * ratio; px > maxStampPixels {
		ratio *= math.Sqrt(maxStampPixels / px)
	}

	var dst image.Image = src
	if ratio < 1 {
		pw = max(1, int(math.Round(float64(pw)*ratio)))
		ph = max(1, int(math.Round(float64(ph)*ratio)))
		scaled := image.NewNRGBA(image.Rect(0, 0, pw, ph))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, sb, draw.Src, nil)
		dst = scaled
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("%w: encode image: %w", ErrCompositing, err)
	}
	return &stampImage{data: buf.Bytes(), width: pw, height: ph}, nil
}
