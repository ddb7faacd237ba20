package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// fenLexer tokenizes the piece placement field of a FEN string.
// Digits group into empty square runs, so "10" is a run of ten.
var fenLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Letter", Pattern: `[A-Za-z]`},
	{Name: "Punct", Pattern: `[/+~]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type fenPlacement struct {
	Ranks []*fenRank `@@ ( "/" @@ )*`
}

type fenRank struct {
	Cells []*fenCell `@@+`
}

type fenCell struct {
	Empty int       `  @Int`
	Piece *fenPiece `| @@`
}

// "+" prefixes a promoted piece (shogi style), "~" suffixes
// one (crazyhouse style).
type fenPiece struct {
	Promoted bool   `@"+"?`
	Letter   string `@Letter`
	Tilde    bool   `@"~"?`
}

func (c *fenCell) width() int {
	if c.Piece != nil {
		return 1
	}
	return c.Empty
}

// ErrRaggedPlacement is returned when the ranks of a placement
// don't have the same number of files.
var ErrRaggedPlacement = errors.New("ranks of unequal width")

// Parser reads the placement field of FEN strings.
type Parser struct {
	parser *participle.Parser[fenPlacement]
}

// NewParser creates a new FEN placement parser.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[fenPlacement](
		participle.Lexer(fenLexer),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// placementField isolates the board part of a full FEN:
// trailing fields and a bracketed pocket are ignored.
func placementField(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return ""
	}
	placement := fields[0]
	if i := strings.IndexByte(placement, '['); i >= 0 {
		placement = placement[:i]
	}
	return placement
}

// Parse builds a Grid from a FEN string.
func (p *Parser) Parse(fen string) (*Grid, error) {
	placement, err := p.parser.ParseString("", placementField(fen))
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	rows := len(placement.Ranks)
	cols := 0
	for _, cell := range placement.Ranks[0].Cells {
		cols += cell.width()
	}

	grid := NewGrid(rows, cols)
	for row, rank := range placement.Ranks {
		col := 0
		for _, cell := range rank.Cells {
			if cell.Piece == nil {
				col += cell.Empty
				continue
			}
			if col >= cols {
				return nil, fmt.Errorf("rank %d: %w", rows-row, ErrRaggedPlacement)
			}
			symbol := cell.Piece.Letter
			if cell.Piece.Promoted || cell.Piece.Tilde {
				symbol = "p" + symbol
			}
			grid.Set(row, col, NewPiece(symbol))
			col++
		}
		if col != cols {
			return nil, fmt.Errorf("rank %d: %w", rows-row, ErrRaggedPlacement)
		}
	}
	return grid, nil
}

// ParseFEN is a convenience wrapper building a one-off Parser.
func ParseFEN(fen string) (*Grid, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	return p.Parse(fen)
}
