package catalog

import (
	"fmt"

	"github.com/samber/lo"
)

// Head-tag roles used in the generated markup.
const (
	HeadAppleTouchIcon = "apple-touch-icon"
	HeadIcon           = "icon"
)

// Fixed-path assets that sit outside the raster catalog.
const (
	FaviconPath  = "/favicon.ico"
	MaskIconPath = "/icons/safari-pinned-tab-icon.svg"
)

const typePNG = "image/png"

// IconSpec describes one output raster.
type IconSpec struct {
	Path       string
	Size       int
	Type       string
	Head       string
	Background bool
	Manifest   bool
	TileConfig bool
}

// Sizes renders the spec dimension the way manifests and link tags expect it.
func (s IconSpec) Sizes() string {
	return fmt.Sprintf("%dx%d", s.Size, s.Size)
}

// Catalog is an ordered, read-only list of icon specs.
type Catalog []IconSpec

var defaultCatalog = Catalog{
	apple(57), apple(72), apple(76), apple(114), apple(120), apple(144), apple(152), apple(180),

	{Path: iconPath("android", 192), Size: 192, Type: typePNG, Head: HeadIcon, Background: true},

	pwa(36), pwa(48), pwa(72), pwa(96), pwa(128), pwa(144), pwa(192), pwa(384), pwa(512),

	tile(70), tile(150), tile(310),

	favicon(16), favicon(32), favicon(48), favicon(256),
}

// Default returns a copy of the built-in catalog.
func Default() Catalog {
	return append(Catalog(nil), defaultCatalog...)
}

func (c Catalog) Manifest() Catalog {
	return lo.Filter(c, func(s IconSpec, _ int) bool { return s.Manifest })
}

func (c Catalog) TileConfig() Catalog {
	return lo.Filter(c, func(s IconSpec, _ int) bool { return s.TileConfig })
}

func (c Catalog) Head() Catalog {
	return lo.Filter(c, func(s IconSpec, _ int) bool { return s.Head != "" })
}

// TileImage returns the tile spec of the given size.
func (c Catalog) TileImage(size int) (IconSpec, bool) {
	return lo.Find(c.TileConfig(), func(s IconSpec) bool { return s.Size == size })
}

func iconPath(platform string, size int) string {
	return fmt.Sprintf("/icons/%s-icon-%dx%d.png", platform, size, size)
}

func apple(size int) IconSpec {
	return IconSpec{Path: iconPath("apple", size), Size: size, Type: typePNG, Head: HeadAppleTouchIcon, Background: true}
}

func pwa(size int) IconSpec {
	return IconSpec{Path: iconPath("pwa", size), Size: size, Type: typePNG, Background: true, Manifest: true}
}

func tile(size int) IconSpec {
	return IconSpec{Path: iconPath("ms", size), Size: size, Type: typePNG, Background: true, TileConfig: true}
}

func favicon(size int) IconSpec {
	return IconSpec{Path: fmt.Sprintf("/icons/favicon-%dx%d.png", size, size), Size: size, Type: typePNG, Head: HeadIcon}
}
