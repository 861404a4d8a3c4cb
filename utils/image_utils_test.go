package utils

import (
	"encoding/base64"
	"testing"
)

func TestParseDataURL(t *testing.T) {
	raw := "data:image/PNG;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	d, err := ParseDataURL(raw)
	if err != nil {
		t.Fatal(err)
	}
	if d.ContentType != "image/png" || string(d.Data) != "png-bytes" {
		t.Errorf("unexpected data URL %+v", d)
	}
	if d.Extension() != ".png" {
		t.Errorf("expected .png, got %q", d.Extension())
	}
}

func TestParseDataURLRejectsMalformed(t *testing.T) {
	tests := []string{
		"https://example.com/a.png",
		"data:image/png;base64",
		"data:image/png,plain-text",
		"data:image/png;base64,!!!",
	}
	for _, raw := range tests {
		if _, err := ParseDataURL(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestExtractObjectPathValid(t *testing.T) {
	path, err := ExtractObjectPath("https://storage.googleapis.com/my-bucket/profiles/u1/photo.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if path != "profiles/u1/photo.jpg" {
		t.Errorf("expected 'profiles/u1/photo.jpg', got '%s'", path)
	}
}

func TestExtractObjectPathInvalidPrefix(t *testing.T) {
	if _, err := ExtractObjectPath("https://example.com/my-bucket/profiles/photo.jpg"); err == nil {
		t.Fatal("expected error for invalid prefix")
	}
}

func TestExtractObjectPathNoBucketSeparator(t *testing.T) {
	if _, err := ExtractObjectPath("https://storage.googleapis.com/nobucket"); err == nil {
		t.Fatal("expected error for no bucket separator")
	}
}
