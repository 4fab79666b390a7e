package gateway

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const defaultImageType = "image/jpeg"

// DataURI inlines raw image bytes as a base64 data URI.
func DataURI(data []byte, contentType string) string {
	if contentType == "" {
		contentType = defaultImageType
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// NormalizeDataURI accepts a data URI or a bare base64 payload, the latter
// assumed to be JPEG.
func NormalizeDataURI(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyInput
	}
	if !strings.HasPrefix(s, "data:") {
		return "data:" + defaultImageType + ";base64," + s, nil
	}

	header, payload, ok := strings.Cut(s, ",")
	if !ok || payload == "" {
		return "", fmt.Errorf("%w: data URI without payload", ErrEmptyInput)
	}
	mime := strings.TrimPrefix(header, "data:")
	mime, _, _ = strings.Cut(mime, ";")
	if mime == "" {
		return "data:" + defaultImageType + ";base64," + payload, nil
	}
	return s, nil
}
