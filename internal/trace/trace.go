// Package trace turns the source icon into a single-color SVG silhouette
// for Safari's pinned-tab mask icon.
package trace

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/draw"

	"manifestify/internal/catalog"
	"manifestify/internal/errs"
	"manifestify/internal/raster"
	"manifestify/internal/source"
)

// gridSize is the resolution the source is sampled at before tracing.
const gridSize = 256

// Write traces src and writes the SVG under outputDir. It returns the
// number of bytes written.
func Write(src *source.Image, outputDir string) (int64, error) {
	svg, err := Trace(src)
	if err != nil {
		return 0, err
	}

	out := raster.OutputPath(outputDir, catalog.MaskIconPath)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return 0, fmt.Errorf("%w: %w: %s: %w", errs.ErrTrace, errs.ErrWrite, out, err)
	}
	if err := os.WriteFile(out, []byte(svg), 0o644); err != nil {
		return 0, fmt.Errorf("%w: %w: %s: %w", errs.ErrTrace, errs.ErrWrite, out, err)
	}
	return int64(len(svg)), nil
}

// Trace renders the silhouette of src as an SVG document.
func Trace(src *source.Image) (string, error) {
	if src == nil || src.Width <= 0 || src.Height <= 0 {
		return "", fmt.Errorf("%w: empty source", errs.ErrTrace)
	}

	grid := image.NewNRGBA(image.Rect(0, 0, gridSize, gridSize))
	draw.ApproxBiLinear.Scale(grid, grid.Bounds(), src.Pixels(), src.Pixels().Bounds(), draw.Src, nil)

	mask := inkMask(grid)
	path := tracePath(mask, gridSize)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%d" height="%d" viewBox="0 0 %d %d">`,
		src.Width, src.Height, gridSize, gridSize)
	if path != "" {
		fmt.Fprintf(&b, `<path fill="black" stroke="none" fill-rule="evenodd" d="%s"/>`, path)
	}
	b.WriteString("</svg>\n")
	return b.String(), nil
}

// inkMask marks the pixels that belong to the silhouette. Sources with
// transparency trace their opaque area; opaque sources trace the pixels
// darker than the mean luminance.
func inkMask(img *image.NRGBA) []bool {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	mask := make([]bool, n)

	transparent := false
	var total float64
	lum := make([]float64, n)
	for i := 0; i < n; i++ {
		p := img.Pix[i*4 : i*4+4]
		if p[3] < 0x80 {
			transparent = true
		}
		lum[i] = 0.299*float64(p[0]) + 0.587*float64(p[1]) + 0.114*float64(p[2])
		total += lum[i]
	}

	if transparent {
		for i := 0; i < n; i++ {
			mask[i] = img.Pix[i*4+3] >= 0x80
		}
		return mask
	}

	threshold := total / float64(n)
	for i := 0; i < n; i++ {
		mask[i] = lum[i] < threshold
	}
	return mask
}

type span struct {
	x, y, w, h int
}

// tracePath merges horizontal runs of ink into rectangles, extending a
// rectangle downwards while the run below has the same extent.
func tracePath(mask []bool, size int) string {
	var done []span
	open := map[[2]int]*span{}

	for y := 0; y < size; y++ {
		next := map[[2]int]*span{}
		for x := 0; x < size; {
			if !mask[y*size+x] {
				x++
				continue
			}
			start := x
			for x < size && mask[y*size+x] {
				x++
			}
			key := [2]int{start, x}
			if s, ok := open[key]; ok {
				s.h++
				next[key] = s
				delete(open, key)
			} else {
				next[key] = &span{x: start, y: y, w: x - start, h: 1}
			}
		}
		for _, s := range open {
			done = append(done, *s)
		}
		open = next
	}
	for _, s := range open {
		done = append(done, *s)
	}

	slices.SortFunc(done, func(a, b span) int {
		if a.y != b.y {
			return a.y - b.y
		}
		return a.x - b.x
	})

	var b strings.Builder
	for _, s := range done {
		fmt.Fprintf(&b, "M%d %dh%dv%dh-%dz", s.x, s.y, s.w, s.h, s.w)
	}
	return b.String()
}
