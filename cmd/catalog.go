package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"manifestify/internal/catalog"
	"manifestify/internal/tui"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List every icon manifestify generates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printCatalog(cmd.OutOrStdout(), catalog.Default())
		return nil
	},
}

func printCatalog(out io.Writer, icons catalog.Catalog) {
	pathWidth := 0
	for _, spec := range icons {
		pathWidth = max(pathWidth, len(spec.Path))
	}

	for _, spec := range icons {
		fmt.Fprintf(out, "%s  %s  %s\n",
			catalogPathStyle.Render(spec.Path+strings.Repeat(" ", pathWidth-len(spec.Path))),
			catalogSizeStyle.Render(fmt.Sprintf("%9s", spec.Sizes())),
			catalogRolesStyle.Render(strings.Join(roles(spec), ", ")),
		)
	}
	fmt.Fprintf(out, "%s\n", catalogDimStyle.Render(fmt.Sprintf("%d rasters, plus %s and %s", len(icons), catalog.FaviconPath, catalog.MaskIconPath)))
}

func roles(spec catalog.IconSpec) []string {
	var out []string
	if spec.Head != "" {
		out = append(out, "head:"+spec.Head)
	}
	if spec.Manifest {
		out = append(out, "manifest")
	}
	if spec.TileConfig {
		out = append(out, "tile")
	}
	if spec.Background {
		out = append(out, "background")
	}
	return out
}

var (
	catalogPathStyle  = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	catalogSizeStyle  = lipgloss.NewStyle().Foreground(tui.ColorInk)
	catalogRolesStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	catalogDimStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(catalogCmd)
}
