package source

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"manifestify/internal/errs"
	"manifestify/pkg/imgutil"
)

// MinSize is the smallest accepted edge length of a source icon.
const MinSize = 512

// Image is a decoded, validated source icon. Its pixels must not be
// modified; tasks call Clone before touching them.
type Image struct {
	Path   string
	Kind   imgutil.Kind
	Width  int
	Height int

	pixels *image.NRGBA
}

// Pixels exposes the shared raster for read-only use.
func (img *Image) Pixels() image.Image {
	return img.pixels
}

// Clone returns a private copy of the raster.
func (img *Image) Clone() *image.NRGBA {
	return imaging.Clone(img.pixels)
}

// Load decodes and validates the icon at path. Every failure wraps
// errs.ErrValidation.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}

	kind, err := imgutil.SniffReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrValidation, path, err)
	}

	var decoded image.Image
	switch kind {
	case imgutil.KindUnknown:
		return nil, fmt.Errorf("%w: %s: unsupported image format", errs.ErrValidation, path)
	case imgutil.KindSVG:
		decoded, err = rasterizeSVG(bytes.NewReader(data))
	default:
		decoded, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w: %w", errs.ErrValidation, path, errs.ErrDecode, err)
	}

	if kind.HasExif() {
		// Unreadable EXIF is treated as upright.
		if orientation, err := readOrientation(bytes.NewReader(data)); err == nil {
			decoded = applyOrientation(decoded, orientation)
		}
	}

	bounds := decoded.Bounds()
	if err := Validate(bounds.Dx(), bounds.Dy()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Image{
		Path:   path,
		Kind:   kind,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		pixels: imaging.Clone(decoded),
	}, nil
}

// Validate checks the size and aspect constraints of a source icon.
func Validate(width, height int) error {
	if width < MinSize || height < MinSize {
		return fmt.Errorf("%w: image must be at least %dx%d pixels, got %dx%d",
			errs.ErrValidation, MinSize, MinSize, width, height)
	}
	if width != height {
		return fmt.Errorf("%w: image is not square (%dx%d)", errs.ErrValidation, width, height)
	}
	return nil
}
