package descriptor

import (
	"fmt"
	"html"
	"strings"

	"manifestify/internal/catalog"
	"manifestify/internal/config"
)

// DefaultMaskColor is the mask-icon color used when no icon background
// color was given.
const DefaultMaskColor = "#000000"

const tileImageSize = 150

// HeadMarkup renders the tags to paste into the page <head>: static meta
// tags, one link per head icon in catalog order, and the manifest link as
// the last line.
func HeadMarkup(opts config.Options, icons catalog.Catalog) string {
	name := html.EscapeString(opts.Name)
	tileColor := html.EscapeString(opts.TileColor())

	lines := []string{
		`<meta name="viewport" content="minimum-scale=1, initial-scale=1, width=device-width, shrink-to-fit=no, user-scalable=no, viewport-fit=cover" />`,
		fmt.Sprintf(`<meta name="application-name" content="%s" />`, name),
		fmt.Sprintf(`<meta name="theme-color" content="%s" />`, tileColor),
		`<meta name="mobile-web-app-capable" content="yes" />`,
		`<meta name="apple-mobile-web-app-capable" content="yes" />`,
		`<meta name="apple-mobile-web-app-status-bar-style" content="default" />`,
		fmt.Sprintf(`<meta name="apple-mobile-web-app-title" content="%s" />`, name),
		`<meta name="format-detection" content="telephone=no" />`,
		fmt.Sprintf(`<meta name="msapplication-TileColor" content="%s" />`, tileColor),
	}
	if tile, ok := icons.TileImage(tileImageSize); ok {
		lines = append(lines, fmt.Sprintf(`<meta name="msapplication-TileImage" content="%s" />`, tile.Path))
	}
	lines = append(lines,
		fmt.Sprintf(`<meta name="msapplication-config" content="/%s" />`, BrowserConfigFile),
		`<meta name="msapplication-tap-highlight" content="no" />`,
		fmt.Sprintf(`<link rel="mask-icon" href="%s" color="%s" />`, catalog.MaskIconPath, html.EscapeString(maskColor(opts))),
	)

	for _, spec := range icons.Head() {
		lines = append(lines, fmt.Sprintf(`<link rel="%s" href="%s" type="%s" sizes="%s" />`,
			spec.Head, spec.Path, spec.Type, spec.Sizes()))
	}

	lines = append(lines, fmt.Sprintf(`<link rel="manifest" href="/%s" />`, ManifestFile))
	return strings.Join(lines, "\n")
}

func maskColor(opts config.Options) string {
	if opts.IconBackgroundColor != "" {
		return opts.IconBackgroundColor
	}
	return DefaultMaskColor
}
