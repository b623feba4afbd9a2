package handlers

import (
	"bytes"
	"errors"
	"image/color"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"go-stamppdf/internal/pdftest"
	"go-stamppdf/internal/store"
)

func multipartRequest(t *testing.T, target string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	part, err := writer.CreateFormFile("pdf", "report.pdf")
	require.NoError(t, err)
	_, err = part.Write(pdftest.LetterDocument(2))
	require.NoError(t, err)
	part, err = writer.CreateFormFile("image", "stamp.png")
	require.NoError(t, err)
	_, err = part.Write(pdftest.PNG(20, 10, color.Black))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// brokenStore fails every write.
type brokenStore struct {
	store.Store
}

func (brokenStore) Save(string, io.Reader) (string, error) {
	return "", errors.New("disk full")
}

// stickyStore keeps every file it is asked to remove.
type stickyStore struct {
	*store.Memory
}

func (stickyStore) Remove(string) error {
	return errors.New("read-only file system")
}

type brokenPruner struct{}

func (brokenPruner) Prune(int) (int, error) {
	return 0, errors.New("permission denied")
}

func TestDownloadName(t *testing.T) {
	require.Equal(t, "stamped_report.pdf", downloadName("report.pdf"))
	require.Equal(t, "stamped_my_report.pdf", downloadName("my report"))
	require.Equal(t, "stamped_passwd.pdf", downloadName("../../etc/passwd"))
	require.Equal(t, "stamped.pdf", downloadName(""))
}

func TestStampPDFStoreFailure(t *testing.T) {
	h := NewAPIHandler(brokenStore{store.NewMemory()}, nil, 0)
	rec := httptest.NewRecorder()
	h.StampPDF(rec, multipartRequest(t, "/pdf/stamp", map[string]string{
		"x": "0", "y": "0", "width": "20", "height": "10",
	}))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"type":"error","message":"Failed to process request"}`, rec.Body.String())
}

func TestFailedOutputRemovalIsLogged(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	mem := store.NewMemory()
	h := NewAPIHandler(stickyStore{mem}, nil, 0)
	rec := httptest.NewRecorder()
	h.StampPDF(rec, multipartRequest(t, "/pdf/stamp", map[string]string{
		"x": "0", "y": "0", "width": "0", "height": "10",
	}))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Failed to stamp image")
	require.Contains(t, logs.String(), "[ERROR] removing failed output stamped_")
	require.Contains(t, logs.String(), "read-only file system")
}

func TestEvictionFailureIsNotSurfaced(t *testing.T) {
	mem := store.NewMemory()
	h := NewAPIHandler(mem, store.NewRetention(brokenPruner{}, 1), 0)
	rec := httptest.NewRecorder()
	h.StampPDFMulti(rec, multipartRequest(t, "/pdf/stamp/multi", map[string]string{
		"placements": `[{"x":5,"y":5,"width":20,"height":10,"page":2}]`,
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	require.Len(t, mem.Names(), 3)
}

func TestStampPDFMultiRejectsObjectPayload(t *testing.T) {
	mem := store.NewMemory()
	h := NewAPIHandler(mem, nil, 0)
	rec := httptest.NewRecorder()
	h.StampPDFMulti(rec, multipartRequest(t, "/pdf/stamp/multi", map[string]string{
		"placements": `{"x":5,"y":5}`,
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid input")
	require.Empty(t, mem.Names())
}

func TestHealth(t *testing.T) {
	h := NewAPIHandler(store.NewMemory(), nil, 0)
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
