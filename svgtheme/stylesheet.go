package svgtheme

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/benoitkugler/boardsvg/board"
)

// Markers looked for in the stylesheet lines.
const (
	ruleMarker     = "piece."
	ruleEndMarker  = "-piece"
	promotedMarker = "promoted"
	urlMarker      = "url"
	urlOpen        = "url("
	urlClose       = ")"

	// PromotedPrefix is prepended to the symbol of promoted pieces.
	PromotedPrefix = "p"
)

// sides whose presence in a rule line selects the white pieces
var whiteMarkers = [...]string{"white", "ally"}

// Rule associates a piece symbol to the path of its artwork,
// relative to the stylesheet.
type Rule struct {
	Symbol string
	Color  board.Color
	URL    string
}

type scanState uint8

const (
	seekingRule scanState = iota
	haveSymbolNeedURL
	haveURLNeedSymbol
)

func (s scanState) String() string {
	switch s {
	case seekingRule:
		return "seeking-rule"
	case haveSymbolNeedURL:
		return "have-symbol-need-url"
	case haveURLNeedSymbol:
		return "have-url-need-symbol"
	default:
		return "<invalid state>"
	}
}

// ruleScanner extracts the symbol -> url associations of a piece
// stylesheet. This is not a CSS parser: each line is only searched
// for the markers above, and a rule is emitted as soon as both
// a symbol and an url have been seen, in any order.
type ruleScanner struct {
	state scanState

	color    board.Color
	symbol   string
	url      string
	promoted bool

	rules []Rule
}

func (sc *ruleScanner) reset() {
	sc.state = seekingRule
	sc.color, sc.symbol, sc.url, sc.promoted = board.White, "", "", false
}

// feed processes one line of the stylesheet.
func (sc *ruleScanner) feed(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if strings.Contains(line, ruleMarker) {
		sc.color = board.Black
		for _, m := range whiteMarkers {
			if strings.Contains(line, m) {
				sc.color = board.White
				break
			}
		}
		if symbol := between(line, ruleMarker, ruleEndMarker); symbol != "" {
			sc.symbol = symbol
		}
		if strings.Contains(line, promotedMarker) {
			sc.promoted = true
		}
	}
	if strings.Contains(line, urlMarker) {
		if url := trimQuotes(between(line, urlOpen, urlClose)); url != "" {
			sc.url = url
		}
	}

	hasSymbol, hasURL := sc.symbol != "", sc.url != ""
	switch sc.state {
	case seekingRule:
		switch {
		case hasSymbol && hasURL:
			sc.emit()
		case hasSymbol:
			sc.state = haveSymbolNeedURL
		case hasURL:
			sc.state = haveURLNeedSymbol
		}
	case haveSymbolNeedURL:
		// a new selector replaces the pending symbol
		if hasURL {
			sc.emit()
		}
	case haveURLNeedSymbol:
		if hasSymbol {
			sc.emit()
		}
	}
}

func (sc *ruleScanner) emit() {
	symbol := sc.symbol
	if sc.color == board.White {
		runes := []rune(symbol)
		runes[len(runes)-1] = unicode.ToUpper(runes[len(runes)-1])
		symbol = string(runes)
	}
	if sc.promoted {
		symbol = PromotedPrefix + symbol
	}
	sc.rules = append(sc.rules, Rule{Symbol: symbol, Color: sc.color, URL: sc.url})
	sc.reset()
}

// between returns the text enclosed by the first `open` and the
// following `close`, or an empty string.
func between(line, open, close string) string {
	start := strings.Index(line, open)
	if start < 0 {
		return ""
	}
	start += len(open)
	end := strings.Index(line[start:], close)
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(line[start : start+end])
}

func trimQuotes(s string) string {
	if len(s) > 0 && (s[0] == '\'' || s[0] == '"') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '\'' || s[len(s)-1] == '"') {
		s = s[:len(s)-1]
	}
	return s
}

// ParseStylesheet returns the rules found in a piece stylesheet,
// in order of appearance.
func ParseStylesheet(r io.Reader) ([]Rule, error) {
	var sc ruleScanner
	sc.reset()
	lines := bufio.NewScanner(r)
	for lines.Scan() {
		sc.feed(lines.Text())
	}
	if err := lines.Err(); err != nil {
		return nil, err
	}
	return sc.rules, nil
}
