package source

import (
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	exif "github.com/dsoprea/go-exif/v3"
)

// readOrientation returns the EXIF Orientation value (1-8), or 1 when the
// file carries no EXIF block or no orientation tag.
func readOrientation(rs io.ReadSeeker) (int, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 1, err
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		if errorsIsNoExif(err) {
			return 1, nil
		}
		return 1, err
	}

	for _, tag := range tags {
		if tag.TagName != "Orientation" {
			continue
		}
		switch v := tag.Value.(type) {
		case []uint16:
			if len(v) > 0 {
				return normalizeOrientation(int(v[0])), nil
			}
		default:
			if n, convErr := strconv.Atoi(strings.TrimSpace(tag.FormattedFirst)); convErr == nil {
				return normalizeOrientation(n), nil
			}
		}
	}
	return 1, nil
}

func normalizeOrientation(v int) int {
	if v < 1 || v > 8 {
		return 1
	}
	return v
}

// applyOrientation rotates and flips img so it displays upright.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func errorsIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
