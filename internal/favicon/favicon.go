// Package favicon packs several PNG-compressed sizes of the source icon
// into one multi-resolution ICO file.
package favicon

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"

	"manifestify/internal/catalog"
	"manifestify/internal/errs"
	"manifestify/internal/raster"
	"manifestify/internal/source"
)

// Sizes are the frames written into favicon.ico.
var Sizes = []int{16, 24, 32, 48, 64, 128, 256}

const (
	headerSize = 6
	entrySize  = 16
)

// Write packs src into favicon.ico under outputDir and returns the number
// of bytes written.
func Write(src *source.Image, outputDir string) (int64, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, src.Clone(), Sizes); err != nil {
		return 0, err
	}

	out := raster.OutputPath(outputDir, catalog.FaviconPath)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return 0, fmt.Errorf("%w: %w: %s: %w", errs.ErrPack, errs.ErrWrite, out, err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("%w: %w: %s: %w", errs.ErrPack, errs.ErrWrite, out, err)
	}
	return int64(buf.Len()), nil
}

// Encode writes an ICO container holding img resized to each of sizes.
func Encode(w io.Writer, img image.Image, sizes []int) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("%w: empty image", errs.ErrPack)
	}
	if len(sizes) == 0 {
		return fmt.Errorf("%w: no frame sizes", errs.ErrPack)
	}

	frames := make([][]byte, 0, len(sizes))
	for _, size := range sizes {
		if size <= 0 || size > 256 {
			return fmt.Errorf("%w: frame size %d out of range", errs.ErrPack, size)
		}
		frame := resize.Resize(uint(size), uint(size), img, resize.Lanczos3)
		var fb bytes.Buffer
		if err := png.Encode(&fb, frame); err != nil {
			return fmt.Errorf("%w: %dx%d frame: %w", errs.ErrPack, size, size, err)
		}
		frames = append(frames, fb.Bytes())
	}

	header := &bytes.Buffer{}
	header.Write([]byte{0, 0, 1, 0}) // reserved, type 1 = icon
	binary.Write(header, binary.LittleEndian, uint16(len(frames)))

	offset := headerSize + entrySize*len(frames)
	for i, data := range frames {
		dim := byte(sizes[i])
		if sizes[i] >= 256 {
			dim = 0
		}
		header.WriteByte(dim)
		header.WriteByte(dim)
		header.WriteByte(0)                                   // palette size
		header.WriteByte(0)                                   // reserved
		binary.Write(header, binary.LittleEndian, uint16(1))  // planes
		binary.Write(header, binary.LittleEndian, uint16(32)) // bits per pixel
		binary.Write(header, binary.LittleEndian, uint32(len(data)))
		binary.Write(header, binary.LittleEndian, uint32(offset))
		offset += len(data)
	}

	if _, err := w.Write(header.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrPack, err)
	}
	for _, data := range frames {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrPack, err)
		}
	}
	return nil
}
