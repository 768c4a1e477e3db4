package optimize

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// stripPNG copies a PNG from r to w, dropping metadata chunks that carry
// nothing needed to render the icon.
func stripPNG(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return err
	}
	if !bytes.Equal(sig, pngSignature) {
		return fmt.Errorf("invalid PNG signature")
	}
	if _, err := bw.Write(sig); err != nil {
		return err
	}

	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		length := binary.BigEndian.Uint32(lenBuf)

		typeBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, typeBuf); err != nil {
			return err
		}
		chunkName := string(typeBuf)

		if shouldDropChunk(chunkName) {
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return err
			}
			continue
		}

		if _, err := bw.Write(lenBuf); err != nil {
			return err
		}
		if _, err := bw.Write(typeBuf); err != nil {
			return err
		}
		if _, err := io.CopyN(bw, br, int64(length)+4); err != nil {
			return err
		}

		if chunkName == "IEND" {
			break
		}
	}

	return bw.Flush()
}

func shouldDropChunk(chunkName string) bool {
	switch chunkName {
	case "tEXt", "zTXt", "iTXt", "eXIf", "tIME":
		return true
	default:
		return false
	}
}

// readIHDR returns the dimensions recorded in a PNG header chunk.
func readIHDR(r io.Reader) (width, height int, err error) {
	br := bufio.NewReader(r)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return 0, 0, err
	}
	if !bytes.Equal(sig, pngSignature) {
		return 0, 0, errors.New("invalid PNG signature")
	}

	head := make([]byte, 16)
	if _, err := io.ReadFull(br, head); err != nil {
		return 0, 0, err
	}
	if string(head[4:8]) != "IHDR" || binary.BigEndian.Uint32(head[0:4]) != 13 {
		return 0, 0, errors.New("PNG does not start with IHDR")
	}
	return int(binary.BigEndian.Uint32(head[8:12])), int(binary.BigEndian.Uint32(head[12:16])), nil
}
