package pdf

import "errors"

// Error taxonomy of the stamping engine. Callers match with errors.Is.
var (
	// ErrInvalidInput reports a malformed placement payload or request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDocumentOpen reports input bytes that cannot be parsed as a PDF.
	ErrDocumentOpen = errors.New("cannot open document")
	// ErrCompositing reports an image that cannot be decoded or inserted.
	ErrCompositing = errors.New("cannot composite image")
)
