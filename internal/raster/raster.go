package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"manifestify/internal/catalog"
	"manifestify/internal/errs"
	"manifestify/internal/source"
)

// Render resizes a private copy of src to the spec's square size. When the
// spec takes a background and fill is non-nil, the result is flattened onto
// an opaque canvas of that color.
func Render(src *source.Image, spec catalog.IconSpec, fill color.Color) image.Image {
	pixels := src.Clone()

	dst := image.NewNRGBA(image.Rect(0, 0, spec.Size, spec.Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), pixels, pixels.Bounds(), draw.Src, nil)

	if !spec.Background || fill == nil {
		return dst
	}
	return Composite(dst, fill)
}

// Composite draws img at (0,0) over a canvas filled with fill.
func Composite(img image.Image, fill color.Color) image.Image {
	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetColor(opaque(fill))
	dc.Clear()
	dc.DrawImage(img, 0, 0)
	return dc.Image()
}

// WritePNG encodes img to path through a temp file in the destination
// directory, creating parent directories as needed. It returns the number
// of bytes written.
func WritePNG(path string, img image.Image) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", errs.ErrWrite, path, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".manifestify-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", errs.ErrWrite, path, err)
	}
	defer os.Remove(tmpFile.Name())

	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(tmpFile, img); err != nil {
		_ = tmpFile.Close()
		return 0, fmt.Errorf("%w: %s: %w", errs.ErrWrite, path, err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return 0, fmt.Errorf("%w: %s: %w", errs.ErrWrite, path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", errs.ErrWrite, path, err)
	}

	if err := ReplaceFile(tmpFile.Name(), path); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", errs.ErrWrite, path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", errs.ErrWrite, path, err)
	}
	return info.Size(), nil
}

// OutputPath joins a catalog path onto the output directory.
func OutputPath(outputDir, specPath string) string {
	return filepath.Join(outputDir, filepath.FromSlash(specPath))
}

// ReplaceFile renames tmpPath over destPath, removing destPath first on
// platforms where rename does not overwrite.
func ReplaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

func opaque(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: 0xffff}
}
