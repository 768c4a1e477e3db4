package descriptor

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"manifestify/internal/catalog"
	"manifestify/internal/config"
)

const xmlProlog = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// BrowserConfig renders browserconfig.xml with one squareNxNlogo element
// per tile icon followed by the tile color.
func BrowserConfig(opts config.Options, icons catalog.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xmlProlog)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	open := func(name string, attrs ...xml.Attr) error {
		return enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
	}
	closeTag := func(name string) error {
		return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
	}

	for _, name := range []string{"browserconfig", "msapplication", "tile"} {
		if err := open(name); err != nil {
			return nil, fmt.Errorf("encode browserconfig: %w", err)
		}
	}

	for _, spec := range icons.TileConfig() {
		name := fmt.Sprintf("square%slogo", spec.Sizes())
		if err := open(name, xml.Attr{Name: xml.Name{Local: "src"}, Value: spec.Path}); err != nil {
			return nil, fmt.Errorf("encode browserconfig: %w", err)
		}
		if err := closeTag(name); err != nil {
			return nil, fmt.Errorf("encode browserconfig: %w", err)
		}
	}

	if err := enc.EncodeElement(opts.TileColor(), xml.StartElement{Name: xml.Name{Local: "TileColor"}}); err != nil {
		return nil, fmt.Errorf("encode browserconfig: %w", err)
	}

	for _, name := range []string{"tile", "msapplication", "browserconfig"} {
		if err := closeTag(name); err != nil {
			return nil, fmt.Errorf("encode browserconfig: %w", err)
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("encode browserconfig: %w", err)
	}

	buf.WriteString("\n")
	return buf.Bytes(), nil
}
