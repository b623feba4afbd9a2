// Package utils provides utility functions for filename sanitization and UUID generation.
//
// Functions:
//   - SanitizeFilename: Returns a safe filename for storage or download headers.
//     Input: string (filename)
//     Output: string (sanitized filename)
//   - SanitizeExt: Returns a safe, lower-case file extension including the dot.
//     Input: string (extension or filename)
//     Output: string (extension, empty if unusable)
//   - GenerateUUID: Returns a new UUID string.
//     Output: string (UUID)
//
// Used by the upload store and the handlers for safe file handling and unique IDs.
package utils

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	extPattern  = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)
)

func SanitizeFilename(name string) string {
	base := filepath.Base(name)
	safe := unsafeChars.ReplaceAllString(base, "_")
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe
}

func SanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if !extPattern.MatchString(ext) {
		return ""
	}
	return ext
}

func GenerateUUID() string {
	return uuid.New().String()
}
