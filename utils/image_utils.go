package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DataURL is an inline image captured on the device, e.g. a camera frame.
type DataURL struct {
	ContentType string
	Data        []byte
}

// IsDataURL reports whether s carries an inline payload rather than a link.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ParseDataURL decodes a base64 data URL of the form
// data:<content-type>;base64,<payload>.
func ParseDataURL(s string) (DataURL, error) {
	if !IsDataURL(s) {
		return DataURL{}, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return DataURL{}, fmt.Errorf("data URL has no payload")
	}
	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return DataURL{}, fmt.Errorf("data URL must be base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return DataURL{}, fmt.Errorf("invalid base64 payload: %v", err)
	}
	return DataURL{ContentType: strings.ToLower(contentType), Data: data}, nil
}

// Extension returns the file extension matching the content type.
func (d DataURL) Extension() string {
	switch d.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ""
}

// ExtractObjectPath extracts storage object path from full Firebase URL
func ExtractObjectPath(url string) (string, error) {
	const prefix = "https://storage.googleapis.com/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("invalid URL")
	}

	// Remove prefix and bucket name
	path := strings.TrimPrefix(url, prefix)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid URL format")
	}

	return parts[1], nil
}
