package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/benoitkugler/boardsvg/svgtheme"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme [id]",
	Short: "List the pieces of a theme",
	Long: `Read the stylesheet of a theme and list its pieces, with the artwork
file of each one. Pieces whose artwork can't be used are marked as missing.

Examples:
  boardsvg theme merida
  boardsvg theme -v shogi`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	id := e.cfg.Theme
	if len(args) == 1 {
		id = args[0]
	}

	theme := e.registry.Populate(id)
	symbols := theme.Symbols()
	if len(symbols) == 0 {
		return fmt.Errorf("theme %s has no pieces (looked for %s)", id, svgtheme.StylesheetPath(id))
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "SYMBOL\tCOLOR\tASSET\tSTATUS\n")
	for _, symbol := range symbols {
		rule, _ := theme.Rule(symbol)
		status := "ok"
		if fragment, ok := theme.Fragment(symbol); !ok {
			status = "missing"
		} else if fragment == "" {
			status = "no size"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", symbol, rule.Color, svgtheme.AssetPath(id, rule.URL), status)
	}
	return w.Flush()
}
