package cmd

import (
	"fmt"

	"github.com/benoitkugler/boardsvg/board"
	"github.com/benoitkugler/boardsvg/svgarrow"
	"github.com/benoitkugler/boardsvg/svgboard"
	"github.com/spf13/cobra"
)

var (
	flip        bool
	black       bool
	check       string
	lastMove    string
	squares     []string
	arrows      []string
	colors      map[string]string
	coordinates bool
	borders     bool
	labels      string
	background  string
)

var boardCmd = &cobra.Command{
	Use:   "board <fen>",
	Short: "Render a position given in FEN",
	Long: `Render the piece placement of a FEN string. Boards of any size are
supported, as well as promoted pieces ("+p" or "P~").

Examples:
  boardsvg board "4k3/8/8/8/8/8/8/4K3 w" --check e1 --coordinates
  boardsvg board "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR" --arrows e2e4,g1f3:red
  boardsvg board "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL" --labels shogi --coordinates
  boardsvg board "8/8/8/8/8/8/8/8" --colors "square light=#eee" --background wood.png`,
	Args: cobra.ExactArgs(1),
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)

	boardCmd.Flags().BoolVarP(&flip, "flip", "f", false, "flip the board")
	boardCmd.Flags().BoolVarP(&black, "black", "b", false, "show the board from the black side")
	boardCmd.Flags().StringVar(&check, "check", "", "square in check")
	boardCmd.Flags().StringVar(&lastMove, "lastmove", "", "last move, as in e2e4")
	boardCmd.Flags().StringSliceVar(&squares, "squares", nil, "squares to mark with a cross")
	boardCmd.Flags().StringSliceVar(&arrows, "arrows", nil, "arrows, as in e2e4 or e2e4:red")
	boardCmd.Flags().StringToStringVar(&colors, "colors", nil, "color overrides, as in \"square light=#eee\"")
	boardCmd.Flags().BoolVarP(&coordinates, "coordinates", "c", false, "draw the coordinates")
	boardCmd.Flags().BoolVar(&borders, "borders", false, "account for borders around the board")
	boardCmd.Flags().StringVar(&labels, "labels", "algebraic", "coordinates style (algebraic, shogi or numeric)")
	boardCmd.Flags().StringVar(&background, "background", "", "background image, under images/board")
}

// boardOptions converts the flags to rendering options.
func boardOptions(size int) (svgboard.Options, error) {
	opts := svgboard.Options{
		Flipped:     flip,
		Colors:      colors,
		Coordinates: coordinates,
		Borders:     borders,
		Background:  background,
		Width:       size,
		Height:      size,
	}
	if black {
		opts.Orientation = board.Black
	}

	style, ok := svgboard.LabelStyles[labels]
	if !ok {
		return opts, fmt.Errorf("unknown labels style %q", labels)
	}
	opts.Labels = style

	if check != "" {
		sq, err := board.ParseSquare(check)
		if err != nil {
			return opts, fmt.Errorf("invalid check square: %w", err)
		}
		opts.Check = &sq
	}
	if lastMove != "" {
		m, err := board.ParseMove(lastMove)
		if err != nil {
			return opts, fmt.Errorf("invalid last move: %w", err)
		}
		opts.LastMove = &m
	}
	for _, name := range squares {
		sq, err := board.ParseSquare(name)
		if err != nil {
			return opts, fmt.Errorf("invalid highlighted square: %w", err)
		}
		opts.Squares = append(opts.Squares, sq)
	}
	for _, s := range arrows {
		a, err := svgarrow.Parse(s)
		if err != nil {
			return opts, fmt.Errorf("invalid arrow: %w", err)
		}
		opts.Arrows = append(opts.Arrows, a)
	}
	return opts, nil
}

func runBoard(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	grid, err := board.ParseFEN(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse FEN: %w", err)
	}
	opts, err := boardOptions(e.cfg.Size)
	if err != nil {
		return err
	}

	theme := e.registry.Populate(e.cfg.Theme)
	renderer := svgboard.NewRenderer(e.registry.FS(), e.logger)
	doc, err := renderer.Render(theme, grid, opts)
	if err != nil {
		return fmt.Errorf("failed to render board: %w", err)
	}
	return writeOutput(cmd, doc)
}
