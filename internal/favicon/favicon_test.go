package favicon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	ico "github.com/sergeymakinen/go-ico"

	"manifestify/internal/errs"
	"manifestify/internal/source"
)

func loadSource(t *testing.T) *source.Image {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 512, 512))
	for y := 0; y < 512; y++ {
		for x := 0; x < 512; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x / 2), G: 0x40, B: uint8(y / 2), A: 0xff})
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

func TestEncodeDirectory(t *testing.T) {
	src := loadSource(t)

	var buf bytes.Buffer
	if err := Encode(&buf, src.Clone(), Sizes); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data := buf.Bytes()

	if binary.LittleEndian.Uint16(data[2:4]) != 1 {
		t.Fatal("expected icon type 1")
	}
	count := int(binary.LittleEndian.Uint16(data[4:6]))
	if count != len(Sizes) {
		t.Fatalf("expected %d frames, got %d", len(Sizes), count)
	}

	for i, size := range Sizes {
		entry := data[headerSize+i*entrySize : headerSize+(i+1)*entrySize]
		want := size
		if want == 256 {
			want = 0
		}
		if int(entry[0]) != want || int(entry[1]) != want {
			t.Fatalf("frame %d: directory says %dx%d", i, entry[0], entry[1])
		}

		length := binary.LittleEndian.Uint32(entry[8:12])
		offset := binary.LittleEndian.Uint32(entry[12:16])
		frame, err := png.Decode(bytes.NewReader(data[offset : offset+length]))
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if b := frame.Bounds(); b.Dx() != size || b.Dy() != size {
			t.Fatalf("frame %d: got %v, want %d", i, b, size)
		}
	}

	decoded, err := ico.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ico.Decode: %v", err)
	}
	if decoded.Bounds().Empty() {
		t.Fatal("decoded icon is empty")
	}
}

func TestEncodeRejectsBadSizes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for _, sizes := range [][]int{nil, {0}, {512}} {
		if err := Encode(&bytes.Buffer{}, img, sizes); !errors.Is(err, errs.ErrPack) {
			t.Fatalf("sizes %v: expected pack error, got %v", sizes, err)
		}
	}
	if err := Encode(&bytes.Buffer{}, image.NewNRGBA(image.Rectangle{}), Sizes); !errors.Is(err, errs.ErrPack) {
		t.Fatalf("expected pack error for empty image, got %v", err)
	}
}

func TestWrite(t *testing.T) {
	src := loadSource(t)
	dir := t.TempDir()

	n, err := Write(src, dir)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "favicon.ico"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != n {
		t.Fatalf("reported %d bytes, file has %d", n, info.Size())
	}
}
