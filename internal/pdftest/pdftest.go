// Package pdftest builds small PDF documents and images for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
)

// Letter is the US Letter page size in points.
var Letter = [2]float64{612, 792}

// Content is the content stream of every generated page: a small grey square.
const Content = "0.5 g 36 36 72 72 re f"

// Document returns a well-formed PDF with n pages of the given size. Each
// page paints Content so that pages are not empty.
func Document(n int, width, height float64) []byte {
	return build(n, fmt.Sprintf("/MediaBox [0 0 %g %g]", width, height))
}

// CroppedDocument is Document with every page's visible area limited to
// crop, given as [llx lly urx ury].
func CroppedDocument(n int, width, height float64, crop [4]float64) []byte {
	return build(n, fmt.Sprintf("/MediaBox [0 0 %g %g] /CropBox [%g %g %g %g]",
		width, height, crop[0], crop[1], crop[2], crop[3]))
}

func build(n int, boxes string) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	// 1: catalog, 2: page tree, then a page and its content stream per page.
	kids := make([]string, n)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))

	for i := 0; i < n; i++ {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R %s /Resources << >> /Contents %d 0 R >>", boxes, 4+2*i))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(Content), Content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// LetterDocument returns an n page US Letter PDF.
func LetterDocument(n int) []byte {
	return Document(n, Letter[0], Letter[1])
}

// PNG returns a w x h image filled with c, encoded as PNG.
func PNG(w, h int, c color.Color) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
