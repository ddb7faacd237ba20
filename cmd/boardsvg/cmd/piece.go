package cmd

import (
	"fmt"

	"github.com/benoitkugler/boardsvg/board"
	"github.com/benoitkugler/boardsvg/svgboard"
	"github.com/spf13/cobra"
)

var pieceCmd = &cobra.Command{
	Use:   "piece <symbol>",
	Short: "Render a single piece of a theme",
	Long: `Render one piece, scaled to a square. Uppercase symbols are white pieces,
lowercase ones black, and a leading "p" selects the promoted version.

Examples:
  boardsvg piece K
  boardsvg piece pr --theme shogi --size 128 -o dragon.svg`,
	Args: cobra.ExactArgs(1),
	RunE: runPiece,
}

func init() {
	rootCmd.AddCommand(pieceCmd)
}

func runPiece(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	theme := e.registry.Populate(e.cfg.Theme)
	doc, err := svgboard.RenderPiece(theme, board.NewPiece(args[0]), e.cfg.Size)
	if err != nil {
		return fmt.Errorf("theme %s: %w", e.cfg.Theme, err)
	}
	return writeOutput(cmd, doc)
}
