// Package descriptor renders the documents that accompany the generated
// icons: the web app manifest, the Microsoft tile config and the HTML head
// markup. All of them are pure functions of the options and the catalog.
package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"manifestify/internal/catalog"
	"manifestify/internal/config"
	"manifestify/internal/errs"
)

const (
	ManifestFile      = "manifest.json"
	BrowserConfigFile = "browserconfig.xml"
)

// Field order here is the key order in manifest.json.
type manifest struct {
	Name            string         `json:"name"`
	BackgroundColor string         `json:"background_color,omitempty"`
	Categories      []string       `json:"categories,omitempty"`
	Description     string         `json:"description,omitempty"`
	Dir             string         `json:"dir,omitempty"`
	Display         string         `json:"display,omitempty"`
	IARCRatingID    string         `json:"iarc_rating_id,omitempty"`
	Lang            string         `json:"lang,omitempty"`
	Orientation     string         `json:"orientation,omitempty"`
	Scope           string         `json:"scope,omitempty"`
	ShortName       string         `json:"short_name,omitempty"`
	StartURL        string         `json:"start_url,omitempty"`
	ThemeColor      string         `json:"theme_color,omitempty"`
	Icons           []manifestIcon `json:"icons"`
}

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// Manifest renders manifest.json from the manifest icons of the catalog.
// Unset options are left out entirely.
func Manifest(opts config.Options, icons catalog.Catalog) ([]byte, error) {
	m := manifest{
		Name:            opts.Name,
		BackgroundColor: opts.BackgroundColor,
		Categories:      opts.Categories,
		Description:     opts.Description,
		Dir:             opts.Dir,
		Display:         opts.Display,
		IARCRatingID:    opts.IARCRatingID,
		Lang:            opts.Lang,
		Orientation:     opts.Orientation,
		Scope:           opts.Scope,
		ShortName:       opts.ShortName,
		StartURL:        opts.StartURL,
		ThemeColor:      opts.ThemeColor,
		Icons: lo.Map(icons.Manifest(), func(s catalog.IconSpec, _ int) manifestIcon {
			return manifestIcon{Src: s.Path, Sizes: s.Sizes(), Type: s.Type}
		}),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes a descriptor document into dir.
func WriteFile(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrWrite, dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrWrite, path, err)
	}
	return nil
}
