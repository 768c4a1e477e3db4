package trace

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/srwiley/oksvg"

	"manifestify/internal/errs"
	"manifestify/internal/source"
)

func loadSquare(t *testing.T, background color.NRGBA) *source.Image {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 512, 512))
	for y := 0; y < 512; y++ {
		for x := 0; x < 512; x++ {
			c := background
			if x >= 128 && x < 384 && y >= 128 && y < 384 {
				c = color.NRGBA{A: 0xff}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "icon.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := source.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return src
}

func TestTracePathMergesRows(t *testing.T) {
	mask := []bool{
		false, false, false, false,
		false, true, true, false,
		false, true, true, false,
		true, false, false, false,
	}
	got := tracePath(mask, 4)
	want := "M1 1h2v2h-2zM0 3h1v1h-1z"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTraceOpaqueSource(t *testing.T) {
	src := loadSquare(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	svg, err := Trace(src)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if !strings.Contains(svg, `width="512" height="512"`) {
		t.Fatalf("unexpected svg header: %.120s", svg)
	}
	if !strings.Contains(svg, "<path") {
		t.Fatal("expected a traced path")
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		t.Fatalf("generated svg does not parse: %v", err)
	}
	if icon.ViewBox.W != gridSize || icon.ViewBox.H != gridSize {
		t.Fatalf("unexpected viewBox %+v", icon.ViewBox)
	}
}

func TestTraceTransparentSource(t *testing.T) {
	src := loadSquare(t, color.NRGBA{})

	svg, err := Trace(src)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	// The opaque square covers grid cells 64..191.
	if !strings.Contains(svg, "M64 64h128v128h-128z") {
		t.Fatalf("expected the opaque square as one rectangle, got %.300s", svg)
	}
}

func TestTraceDeterministic(t *testing.T) {
	src := loadSquare(t, color.NRGBA{})
	a, _ := Trace(src)
	b, _ := Trace(src)
	if a != b {
		t.Fatal("trace output differs between runs")
	}
}

func TestWrite(t *testing.T) {
	src := loadSquare(t, color.NRGBA{})
	dir := t.TempDir()

	n, err := Write(src, dir)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "icons", "safari-pinned-tab-icon.svg"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != n {
		t.Fatalf("reported %d bytes, file has %d", n, info.Size())
	}
}

func TestTraceEmptySource(t *testing.T) {
	if _, err := Trace(&source.Image{}); !errors.Is(err, errs.ErrTrace) {
		t.Fatalf("expected trace error, got %v", err)
	}
}
