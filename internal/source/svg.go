package source

import (
	"fmt"
	"image"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// svgRasterSize is the edge length vector sources are rendered at.
const svgRasterSize = 1024

func rasterizeSVG(r io.Reader) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.WarnErrorMode)
	if err != nil {
		return nil, err
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("svg has no usable viewBox")
	}
	if w != h {
		return nil, fmt.Errorf("svg viewBox is not square (%gx%g)", w, h)
	}

	icon.SetTarget(0, 0, svgRasterSize, svgRasterSize)
	rgba := image.NewRGBA(image.Rect(0, 0, svgRasterSize, svgRasterSize))
	scanner := rasterx.NewScannerGV(svgRasterSize, svgRasterSize, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(svgRasterSize, svgRasterSize, scanner), 1)
	return rgba, nil
}
