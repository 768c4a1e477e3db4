package config

import (
	"errors"
	"fmt"
	"slices"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultThemeColor is used for tile and head markup when no theme color
// was supplied. The manifest still omits theme_color in that case.
const DefaultThemeColor = "#000000"

// DefaultOptimizer is the PNG optimizer probed when none is configured.
const DefaultOptimizer = "optipng"

var (
	DirChoices         = []string{"auto", "ltr", "rtl"}
	DisplayChoices     = []string{"fullscreen", "standalone", "minimal-ui", "browser"}
	OrientationChoices = []string{
		"any",
		"natural",
		"landscape",
		"landscape-primary",
		"landscape-secondary",
		"portrait",
		"portrait-primary",
		"portrait-secondary",
	}
)

// Options is the resolved flag set for one run. Empty strings mean the
// option was not supplied.
type Options struct {
	OutputDir           string
	IconPath            string
	IconBackgroundColor string

	Name            string
	ShortName       string
	Description     string
	Categories      []string
	Lang            string
	Dir             string
	Display         string
	ThemeColor      string
	BackgroundColor string
	StartURL        string
	Scope           string
	Orientation     string
	IARCRatingID    string

	Quiet      bool
	Optimizer  string
	NoOptimize bool
	Watch      bool
}

// TileColor is the theme color, falling back to DefaultThemeColor.
func (o Options) TileColor() string {
	if o.ThemeColor == "" {
		return DefaultThemeColor
	}
	return o.ThemeColor
}

// Validate checks required fields, enum choices and the icon fill color.
func (o Options) Validate() error {
	var problems []error
	if o.IconPath == "" {
		problems = append(problems, errors.New("icon path is required"))
	}
	if o.Name == "" {
		problems = append(problems, errors.New("name is required"))
	}
	if err := checkChoice("dir", o.Dir, DirChoices); err != nil {
		problems = append(problems, err)
	}
	if err := checkChoice("display", o.Display, DisplayChoices); err != nil {
		problems = append(problems, err)
	}
	if err := checkChoice("orientation", o.Orientation, OrientationChoices); err != nil {
		problems = append(problems, err)
	}
	if o.IconBackgroundColor != "" {
		if _, err := ParseColor(o.IconBackgroundColor); err != nil {
			problems = append(problems, err)
		}
	}
	return errors.Join(problems...)
}

// ParseColor parses a #rgb or #rrggbb color.
func ParseColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: expected #rgb or #rrggbb", s)
	}
	return c, nil
}

func checkChoice(name, value string, choices []string) error {
	if value == "" || slices.Contains(choices, value) {
		return nil
	}
	return fmt.Errorf("invalid %s %q (choose from %v)", name, value, choices)
}
