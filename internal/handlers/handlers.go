// Package handlers provides HTTP handlers for the PDF stamping API.
//
// This package contains the health probe and the two stamping endpoints:
// one rectangle on every page, or a list of placements each on its own page.
//
// Example usage:
//
//	h := handlers.NewAPIHandler(uploadStore, retention, maxUploadSize)
//	r := chi.NewRouter()
//	r.Post("/pdf/stamp", h.StampPDF)
//
// All handlers are designed to be used with the chi router.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-stamppdf/internal/pdf"
	"go-stamppdf/internal/store"
	"go-stamppdf/internal/utils"
)

// DefaultMaxUploadSize bounds a whole stamping request.
const DefaultMaxUploadSize = 25 * 1024 * 1024

type APIHandler struct {
	Store         store.Store
	Retention     *store.Retention
	MaxUploadSize int64
}

func NewAPIHandler(s store.Store, retention *store.Retention, maxUploadSize int64) *APIHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}
	return &APIHandler{Store: s, Retention: retention, MaxUploadSize: maxUploadSize}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Type    string `json:"type" example:"error"`
	Message string `json:"message"`
}

// HealthResponse is the body of the health probe.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[ERROR] writing JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Type: "error", Message: msg})
}

// writeStampError maps engine and store errors onto HTTP statuses: input
// shape problems are client errors, everything else is a server error.
func writeStampError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
	case errors.Is(err, pdf.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pdf.ErrDocumentOpen):
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to open PDF: %v", err))
	case errors.Is(err, pdf.ErrCompositing):
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to stamp image: %v", err))
	default:
		writeError(w, http.StatusInternalServerError, "Failed to process request")
	}
}

// Health godoc
// @Summary      Health probe
// @Description  Reports that the service is up. Has no side effects.
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       / [get]
// @Router       /health [get]
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// stampRequest is a parsed multipart stamping request.
type stampRequest struct {
	pdf       []byte
	pdfName   string
	image     []byte
	imageName string
}

func (h *APIHandler) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadSize)
	if err := r.ParseMultipartForm(h.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: malformed multipart form: %v", pdf.ErrInvalidInput, err)
	}
	return nil
}

func readFormFile(r *http.Request, field string) ([]byte, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: missing %q file", pdf.ErrInvalidInput, field)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %q file: %w", field, err)
	}
	return data, header, nil
}

func readFiles(r *http.Request) (*stampRequest, error) {
	pdfData, pdfHeader, err := readFormFile(r, "pdf")
	if err != nil {
		return nil, err
	}
	imgData, imgHeader, err := readFormFile(r, "image")
	if err != nil {
		return nil, err
	}
	return &stampRequest{
		pdf:       pdfData,
		pdfName:   pdfHeader.Filename,
		image:     imgData,
		imageName: imgHeader.Filename,
	}, nil
}

// formFloat parses a required numeric form field.
func formFloat(r *http.Request, field string) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, fmt.Errorf("%w: missing field %q", pdf.ErrInvalidInput, field)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: field %q must be a number", pdf.ErrInvalidInput, field)
	}
	return v, nil
}

func formRect(r *http.Request) (pdf.Rect, error) {
	var rect pdf.Rect
	fields := []struct {
		name string
		dst  *float64
	}{
		{"x", &rect.X},
		{"y", &rect.Y},
		{"width", &rect.Width},
		{"height", &rect.Height},
	}
	for _, f := range fields {
		v, err := formFloat(r, f.name)
		if err != nil {
			return pdf.Rect{}, err
		}
		*f.dst = v
	}
	return rect, nil
}

// downloadName is the attachment name offered to the client.
func downloadName(original string) string {
	name := utils.SanitizeFilename(original)
	if name == "" || name == "." {
		return "stamped.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return "stamped_" + name
}

// stampFunc runs the engine against the request's document and image.
type stampFunc func(doc io.ReadSeeker, img []byte, out io.Writer) (*pdf.Result, error)

// render persists both uploads and renders the stamped document into the
// store. The output is closed, and so complete, when render returns.
func (h *APIHandler) render(req *stampRequest, run stampFunc) (string, *pdf.Result, error) {
	pdfName, err := h.Store.Save(".pdf", bytes.NewReader(req.pdf))
	if err != nil {
		return "", nil, fmt.Errorf("failed to save PDF upload: %w", err)
	}
	if _, err := h.Store.Save(req.imageName, bytes.NewReader(req.image)); err != nil {
		return "", nil, fmt.Errorf("failed to save image upload: %w", err)
	}

	outName := "stamped_" + pdfName
	dst, err := h.Store.Create(outName)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create output file: %w", err)
	}
	res, err := run(bytes.NewReader(req.pdf), req.image, dst)
	if closeErr := dst.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to write output file: %w", closeErr)
	}
	if err != nil {
		if rmErr := h.Store.Remove(outName); rmErr != nil && !errors.Is(rmErr, store.ErrNotFound) {
			log.Printf("[ERROR] removing failed output %s: %v", outName, rmErr)
		}
		return "", nil, err
	}
	return outName, res, nil
}

// stamp renders the request, bounds the store and serves the result.
// Eviction runs before serving, so the response never races it.
func (h *APIHandler) stamp(w http.ResponseWriter, r *http.Request, req *stampRequest, run stampFunc) {
	start := time.Now()
	outName, res, err := h.render(req, run)
	h.enforceRetention()
	if err != nil {
		log.Printf("[ERROR] stamping %q: %v", req.pdfName, err)
		writeStampError(w, err)
		return
	}
	log.Printf("[INFO] stamped %s: %d pages, %d stamps, %d placements dropped in %s",
		outName, res.PageCount, countStamps(res), len(res.Dropped), time.Since(start))

	out, err := h.Store.Open(outName)
	if err != nil {
		log.Printf("[ERROR] opening output file: %v", err)
		writeError(w, http.StatusInternalServerError, "Output file not available")
		return
	}
	defer out.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(req.pdfName)))
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeContent(w, r, outName, time.Time{}, out)
}

func countStamps(res *pdf.Result) int {
	n := 0
	for _, c := range res.Stamped {
		n += c
	}
	return n
}

func (h *APIHandler) enforceRetention() {
	if h.Retention != nil {
		h.Retention.Enforce()
	}
}

// StampPDF godoc
// @Summary      Stamp an image on every page
// @Description  Overlays the image at the same rectangle on every page of the PDF.
// @Description  Coordinates are in points with a top-left origin.
// @Tags         stamp
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        pdf     formData  file    true  "PDF document"
// @Param        image   formData  file    true  "Image to stamp (PNG, JPEG, GIF, WebP, BMP, TIFF)"
// @Param        x       formData  number  true  "Left edge in points"
// @Param        y       formData  number  true  "Top edge in points"
// @Param        width   formData  number  true  "Width in points"
// @Param        height  formData  number  true  "Height in points"
// @Success      200  {file}    file           "Stamped PDF"
// @Failure      400  {object}  ErrorResponse  "Invalid input"
// @Failure      413  {object}  ErrorResponse  "Upload too large"
// @Failure      500  {object}  ErrorResponse  "Document or image could not be processed"
// @Router       /pdf/stamp [post]
func (h *APIHandler) StampPDF(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeStampError(w, err)
		return
	}
	rect, err := formRect(r)
	if err != nil {
		writeStampError(w, err)
		return
	}
	req, err := readFiles(r)
	if err != nil {
		writeStampError(w, err)
		return
	}

	h.stamp(w, r, req, func(doc io.ReadSeeker, img []byte, out io.Writer) (*pdf.Result, error) {
		return pdf.StampAll(doc, img, rect, out)
	})
}

// StampPDFMulti godoc
// @Summary      Stamp an image at several placements
// @Description  Overlays the image at each placement on its page. Placements is a JSON
// @Description  array of {x, y, width, height, page}; missing fields default to
// @Description  x=0, y=0, width=100, height=50, page=1. Placements on pages the document
// @Description  does not have are ignored.
// @Tags         stamp
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        pdf         formData  file    true  "PDF document"
// @Param        image       formData  file    true  "Image to stamp (PNG, JPEG, GIF, WebP, BMP, TIFF)"
// @Param        placements  formData  string  true  "JSON array of placements"
// @Success      200  {file}    file           "Stamped PDF"
// @Failure      400  {object}  ErrorResponse  "Invalid input"
// @Failure      413  {object}  ErrorResponse  "Upload too large"
// @Failure      500  {object}  ErrorResponse  "Document or image could not be processed"
// @Router       /pdf/stamp/multi [post]
func (h *APIHandler) StampPDFMulti(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeStampError(w, err)
		return
	}
	placements, err := pdf.ParsePlacements([]byte(r.FormValue("placements")))
	if err != nil {
		writeStampError(w, err)
		return
	}
	req, err := readFiles(r)
	if err != nil {
		writeStampError(w, err)
		return
	}

	h.stamp(w, r, req, func(doc io.ReadSeeker, img []byte, out io.Writer) (*pdf.Result, error) {
		return pdf.StampPlacements(doc, img, placements, out)
	})
}
