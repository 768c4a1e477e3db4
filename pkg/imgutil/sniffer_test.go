package imgutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetectHeader(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   Kind
	}{
		{"png", []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}, KindPNG},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0}, KindJPEG},
		{"tiff le", []byte{0x49, 0x49, 0x2a, 0x00, 8, 0, 0, 0}, KindTIFF},
		{"tiff be", []byte{0x4d, 0x4d, 0x00, 0x2a, 0, 0, 0, 8}, KindTIFF},
		{"gif", []byte("GIF89a\x01\x00"), KindGIF},
		{"webp", []byte("RIFF\x10\x00\x00\x00WEBPVP8 "), KindWEBP},
		{"bmp", []byte("BM\x00\x00\x00\x00\x00\x00"), KindBMP},
		{"svg", []byte("  <svg xmlns=\"http"), KindSVG},
		{"xml prolog", []byte("\xef\xbb\xbf<?xml version"), KindSVG},
		{"doctype", []byte(`<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">`), KindSVG},
		{"leading comment", []byte("<!-- Generator: Sketch -->\n<svg width=\"24\">"), KindSVG},
		{"prolog comment doctype", []byte("<?xml version=\"1.0\"?>\n<!-- x -->\n<!doctype svg>\n<svg>"), KindSVG},
		{"comment then html", []byte("<!-- page --><html><body>"), KindUnknown},
		{"text", []byte("hello world"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectHeader(tt.header)
			if err != nil {
				t.Fatalf("DetectHeader: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSniffReaderCommentedSVG(t *testing.T) {
	body := "<!-- " + strings.Repeat("exported by an editor ", 10) + "-->\n<svg viewBox=\"0 0 10 10\"></svg>"
	kind, err := SniffReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("SniffReader: %v", err)
	}
	if kind != KindSVG {
		t.Fatalf("got %s, want svg", kind)
	}
}

func TestDetectHeaderTooShort(t *testing.T) {
	if _, err := DetectHeader([]byte{0x89, 0x50}); err == nil {
		t.Fatal("expected error for short header")
	}
}

func TestSniffReaderShortInput(t *testing.T) {
	kind, err := SniffReader(bytes.NewReader([]byte("GIF89a\x01\x00\x01\x00")))
	if err != nil {
		t.Fatalf("SniffReader: %v", err)
	}
	if kind != KindGIF {
		t.Fatalf("got %s, want gif", kind)
	}
}

func TestSniffFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.svg")
	if err := os.WriteFile(path, []byte(`<svg viewBox="0 0 10 10"></svg>`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	kind, err := SniffFile(path)
	if err != nil {
		t.Fatalf("SniffFile: %v", err)
	}
	if kind != KindSVG {
		t.Fatalf("got %s, want svg", kind)
	}
	if kind.HasExif() {
		t.Fatal("svg should not report exif support")
	}
}
