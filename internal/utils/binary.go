package utils

import (
	"bytes"
	"net/http"
	"unicode/utf8"
)

// sniffLength defines the maximum number of bytes inspected when detecting binary content.
const sniffLength = 8000

// IsBinary reports whether the provided content appears to be binary data.
// Only the leading sniffLength bytes are inspected.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	sample := data
	if len(sample) > sniffLength {
		sample = sample[:sniffLength]
		for trimmed := 0; trimmed < utf8.UTFMax && !utf8.Valid(sample); trimmed++ {
			sample = sample[:len(sample)-1]
		}
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	return !utf8.Valid(sample)
}

// DetectMimeType returns the MIME type sniffed from the leading bytes of content.
func DetectMimeType(data []byte) string {
	sample := data
	if len(sample) > sniffLength {
		sample = sample[:sniffLength]
	}
	return http.DetectContentType(sample)
}
