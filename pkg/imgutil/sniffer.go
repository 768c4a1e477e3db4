package imgutil

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// Kind identifies a supported source image type.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
	KindTIFF
	KindGIF
	KindBMP
	KindWEBP
	KindSVG
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	case KindTIFF:
		return "tiff"
	case KindGIF:
		return "gif"
	case KindBMP:
		return "bmp"
	case KindWEBP:
		return "webp"
	case KindSVG:
		return "svg"
	default:
		return "unknown"
	}
}

// HasExif reports whether images of this kind may carry an EXIF block.
func (k Kind) HasExif() bool {
	return k == KindJPEG || k == KindTIFF
}

// HeaderSize is the number of leading bytes SniffReader hands to
// DetectHeader. Binary signatures need 12; the rest leaves room for an XML
// prolog, comments or a doctype ahead of an <svg> root.
const HeaderSize = 512

var (
	pngSig    = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig   = []byte{0xff, 0xd8, 0xff}
	tiffSigLE = []byte{0x49, 0x49, 0x2a, 0x00}
	tiffSigBE = []byte{0x4d, 0x4d, 0x00, 0x2a}
	gifSig87  = []byte("GIF87a")
	gifSig89  = []byte("GIF89a")
	bmpSig    = []byte("BM")
	riffSig   = []byte("RIFF")
	webpSig   = []byte("WEBP")
	utf8BOM   = []byte{0xef, 0xbb, 0xbf}
)

// DetectHeader inspects the first bytes of a file for known signatures.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < 8 {
		return KindUnknown, errors.New("header too short")
	}

	switch {
	case hasPrefix(header, jpegSig):
		return KindJPEG, nil
	case hasPrefix(header, pngSig):
		return KindPNG, nil
	case hasPrefix(header, tiffSigLE), hasPrefix(header, tiffSigBE):
		return KindTIFF, nil
	case hasPrefix(header, gifSig87), hasPrefix(header, gifSig89):
		return KindGIF, nil
	case len(header) >= 12 && hasPrefix(header, riffSig) && bytes.Equal(header[8:12], webpSig):
		return KindWEBP, nil
	case hasPrefix(header, bmpSig):
		return KindBMP, nil
	case looksLikeSVG(header):
		return KindSVG, nil
	}

	return KindUnknown, nil
}

// SniffFile reads the first bytes of a file to determine its type.
func SniffFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads up to HeaderSize bytes from r and determines its type.
// Inputs shorter than HeaderSize are accepted as long as DetectHeader can
// work with them.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return KindUnknown, err
	}

	return DetectHeader(header[:n])
}

// looksLikeSVG skips the prolog, comments and doctype that may precede the
// root element. A window that ends inside that preamble counts as SVG only
// if an XML prolog was seen.
func looksLikeSVG(header []byte) bool {
	rest := bytes.TrimPrefix(header, utf8BOM)
	sawProlog := false
	for {
		rest = bytes.TrimLeft(rest, " \t\r\n")

		var end []byte
		switch {
		case hasPrefix(rest, []byte("<svg")):
			return true
		case isSVGDoctype(rest):
			return true
		case hasPrefix(rest, []byte("<?")):
			sawProlog = true
			end = []byte("?>")
		case hasPrefix(rest, []byte("<!--")):
			end = []byte("-->")
		case hasPrefix(rest, []byte("<!")):
			end = []byte(">")
		default:
			return len(rest) == 0 && sawProlog
		}

		i := bytes.Index(rest, end)
		if i < 0 {
			return sawProlog
		}
		rest = rest[i+len(end):]
	}
}

func isSVGDoctype(buf []byte) bool {
	const doctype = "<!DOCTYPE svg"
	if len(buf) < len(doctype) {
		return false
	}
	return bytes.EqualFold(buf[:len(doctype)], []byte(doctype))
}

func hasPrefix(buf, prefix []byte) bool {
	return bytes.HasPrefix(buf, prefix)
}
