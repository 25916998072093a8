package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// CellRef is a parsed A1-style cell address. Row and Col are 0-based
// internally; A1 notation (1-based rows, letter columns) exists only at
// the lexer and display boundaries. The absolute flags record `$` pins so
// the address can be re-emitted exactly.
type CellRef struct {
	Col    int
	Row    int
	AbsCol bool
	AbsRow bool
	Sheet  string // display label, empty for the current sheet
}

// String re-emits the reference in A1 notation, including `$` flags and a
// quoted sheet qualifier when present
func (r CellRef) String() string {
	var b strings.Builder
	if r.Sheet != "" {
		b.WriteByte('\'')
		b.WriteString(r.Sheet)
		b.WriteString("'!")
	}
	if r.AbsCol {
		b.WriteByte('$')
	}
	b.WriteString(columnLetters(r.Col))
	if r.AbsRow {
		b.WriteByte('$')
	}
	b.WriteString(strconv.Itoa(r.Row + 1))
	return b.String()
}

// FormulaRef is a reference descriptor extracted during parsing for
// dependency tracking. It names what a formula touches without resolving
// or evaluating anything: the optional sheet label, the column name (named
// variant only), and the raw display text as written.
type FormulaRef struct {
	Sheet   string
	Column  string
	Display string
}

// columnLetters converts a 0-based column index to letters
// (0 -> A, 25 -> Z, 26 -> AA)
func columnLetters(col int) string {
	if col < 0 {
		return ""
	}
	var letters []byte
	for {
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col = col/26 - 1
		if col < 0 {
			break
		}
	}
	return string(letters)
}

// columnIndex converts column letters to a 0-based index
// (A -> 0, Z -> 25, AA -> 26)
func columnIndex(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("empty column letters")
	}
	col := 0
	for i, ch := range strings.ToUpper(letters) {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column letter %q", string(ch))
		}
		col = col*26 + int(ch-'A')
		if i < len(letters)-1 {
			col++ // positional notation: AA follows Z
		}
	}
	return col, nil
}
