package formula

// TokenType represents different types of tokens in formulas
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenCellRef   // A1 variant: A1, $B$2, 'Jan'!C3
	TokenColumnRef // named variant: {Revenue}, {Jan.Revenue}, bare identifier
	TokenFunction
	TokenOperator // + - * /
	TokenLeftParen
	TokenRightParen
	TokenComma
	TokenColon
)

// Token represents a lexical token with position information
type Token struct {
	Type  TokenType
	Value string
	Pos   int // rune position in input
}

// character classification constants. slightly easier to read.
const (
	charNull       = 0
	charTab        = '\t'
	charNewline    = '\n'
	charReturn     = '\r'
	charSpace      = ' '
	charApostrophe = '\''
	charLParen     = '('
	charRParen     = ')'
	charAsterisk   = '*'
	charPlus       = '+'
	charComma      = ','
	charMinus      = '-'
	charPeriod     = '.'
	charSlash      = '/'
	charColon      = ':'
	charEqual      = '='
	charDollar     = '$'
	charUnderscore = '_'
	charExclaim    = '!'
	charLCurly     = '{'
	charRCurly     = '}'
)

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlphaNumeric(ch rune) bool {
	return isAlpha(ch) || isDigit(ch)
}
