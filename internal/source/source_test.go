package source

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"manifestify/internal/errs"
	"manifestify/pkg/imgutil"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadValidSquare(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.png")
	writePNG(t, path, 1024, 1024)

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Width != 1024 || img.Height != 1024 || img.Kind != imgutil.KindPNG {
		t.Fatalf("unexpected image %+v", img)
	}

	clone := img.Clone()
	clone.Set(0, 0, color.NRGBA{})
	if _, _, _, a := img.Pixels().At(0, 0).RGBA(); a == 0 {
		t.Fatal("Clone must not share pixels with the source")
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"too small", 400, 400},
		{"not square", 600, 512},
		{"narrow", 511, 1024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "icon.png")
			writePNG(t, path, tt.w, tt.h)
			_, err := Load(path)
			if !errors.Is(err, errs.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(unknown, []byte("just some text here"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(unknown); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for unknown format, got %v", err)
	}

	truncated := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(truncated, []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0, 0}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(truncated)
	if !errors.Is(err, errs.ErrValidation) || !errors.Is(err, errs.ErrDecode) {
		t.Fatalf("expected validation+decode error, got %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.png")); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for missing file, got %v", err)
	}
}

func TestLoadJPEGWithoutExif(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 512, 512))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "icon.jpg")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Kind != imgutil.KindJPEG || loaded.Width != 512 {
		t.Fatalf("unexpected image %+v", loaded)
	}

	orientation, err := readOrientation(bytes.NewReader(buf.Bytes()))
	if err != nil || orientation != 1 {
		t.Fatalf("expected upright orientation, got %d (%v)", orientation, err)
	}
}

func TestApplyOrientation(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.NRGBA{R: 0xff, A: 0xff})

	rotated := applyOrientation(img, 6)
	if b := rotated.Bounds(); b.Dx() != 2 || b.Dy() != 4 {
		t.Fatalf("orientation 6 should swap axes, got %v", b)
	}
	if r, _, _, _ := rotated.At(1, 0).RGBA(); r == 0 {
		t.Fatal("orientation 6 should move the top-left pixel to the top-right")
	}

	if same := applyOrientation(img, 1); same != image.Image(img) {
		t.Fatal("orientation 1 should return the input unchanged")
	}
}

func TestLoadSVG(t *testing.T) {
	dir := t.TempDir()
	square := filepath.Join(dir, "icon.svg")
	body := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64"><rect x="8" y="8" width="48" height="48" fill="#ff0000"/></svg>`
	if err := os.WriteFile(square, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	img, err := Load(square)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Width != svgRasterSize || img.Height != svgRasterSize || img.Kind != imgutil.KindSVG {
		t.Fatalf("unexpected image %+v", img)
	}
	if _, _, _, a := img.Pixels().At(svgRasterSize/2, svgRasterSize/2).RGBA(); a == 0 {
		t.Fatal("expected the rect to be rendered in the centre")
	}

	wide := filepath.Join(dir, "wide.svg")
	body = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 32"><rect width="64" height="32"/></svg>`
	if err := os.WriteFile(wide, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(wide); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for wide svg, got %v", err)
	}
}
