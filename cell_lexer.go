package formula

// cellLexer tokenizes A1-style spreadsheet formulas. A single leading '='
// is accepted and skipped; everything else must be a number, cell
// reference, range punctuation, function name, operator, or parenthesis.
type cellLexer struct {
	runes []rune // UTF-8 aware representation
	pos   int
}

// lexCellFormula converts A1-style formula text into a token stream. The
// returned error is always a *EvalError of kind KindLex carrying the
// offending position.
func lexCellFormula(input string) ([]Token, error) {
	l := &cellLexer{runes: []rune(input)}

	// strip a single optional leading '='
	l.skipWhitespace()
	if l.current() == charEqual {
		l.pos++
	}

	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *cellLexer) current() rune {
	if l.pos >= len(l.runes) {
		return charNull
	}
	return l.runes[l.pos]
}

func (l *cellLexer) peek(offset int) rune {
	pos := l.pos + offset
	if pos >= len(l.runes) || pos < 0 {
		return charNull
	}
	return l.runes[pos]
}

func (l *cellLexer) substring(start, end int) string {
	if start < 0 || end > len(l.runes) || start > end {
		return ""
	}
	return string(l.runes[start:end])
}

func (l *cellLexer) skipWhitespace() {
	for l.pos < len(l.runes) {
		ch := l.current()
		if ch == charSpace || ch == charTab || ch == charNewline || ch == charReturn {
			l.pos++
		} else {
			break
		}
	}
}

func (l *cellLexer) next() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.runes) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	startPos := l.pos
	ch := l.current()

	// numbers: integer or decimal, no exponent, no sign (the parser owns
	// unary minus)
	if isDigit(ch) || (ch == charPeriod && isDigit(l.peek(1))) {
		return l.scanNumber(), nil
	}

	// single-quoted sheet qualifier
	if ch == charApostrophe {
		return l.scanQuotedSheetRef()
	}

	// absolute-column reference starting with $
	if ch == charDollar {
		return l.scanCellBody(startPos)
	}

	switch ch {
	case charLParen:
		l.pos++
		return Token{Type: TokenLeftParen, Value: "(", Pos: startPos}, nil
	case charRParen:
		l.pos++
		return Token{Type: TokenRightParen, Value: ")", Pos: startPos}, nil
	case charComma:
		l.pos++
		return Token{Type: TokenComma, Value: ",", Pos: startPos}, nil
	case charColon:
		l.pos++
		return Token{Type: TokenColon, Value: ":", Pos: startPos}, nil
	case charPlus, charMinus, charAsterisk, charSlash:
		l.pos++
		return Token{Type: TokenOperator, Value: string(ch), Pos: startPos}, nil
	}

	if isAlpha(ch) || ch == charUnderscore {
		return l.scanIdentifierOrCell(startPos)
	}

	return Token{}, newEvalErrorAt(KindLex, startPos, "unexpected character %q", string(ch))
}

// scanNumber scans an integer or decimal literal
func (l *cellLexer) scanNumber() Token {
	startPos := l.pos
	for l.pos < len(l.runes) && isDigit(l.current()) {
		l.pos++
	}
	if l.current() == charPeriod && isDigit(l.peek(1)) {
		l.pos++ // consume '.'
		for l.pos < len(l.runes) && isDigit(l.current()) {
			l.pos++
		}
	}
	return Token{Type: TokenNumber, Value: l.substring(startPos, l.pos), Pos: startPos}
}

// scanIdentifierOrCell scans a run of identifier characters and classifies
// it by lookahead: a '(' makes it a function name, a valid letters+digits
// shape makes it a cell reference
func (l *cellLexer) scanIdentifierOrCell(startPos int) (Token, error) {
	for l.pos < len(l.runes) && (isAlphaNumeric(l.current()) || l.current() == charUnderscore || l.current() == charDollar) {
		l.pos++
	}
	value := l.substring(startPos, l.pos)

	// function iff the next non-whitespace character is '('
	save := l.pos
	l.skipWhitespace()
	if l.current() == charLParen {
		return Token{Type: TokenFunction, Value: toUpperASCII(value), Pos: startPos}, nil
	}
	l.pos = save

	if isCellText(value) {
		return Token{Type: TokenCellRef, Value: value, Pos: startPos}, nil
	}

	if !hasDigits(value) {
		return Token{}, newEvalErrorAt(KindLex, startPos, "cell reference %q missing row digits", value)
	}
	return Token{}, newEvalErrorAt(KindLex, startPos, "invalid cell reference %q", value)
}

// scanQuotedSheetRef scans a 'Sheet Name'!A1 style reference into a single
// cell token carrying the full raw text
func (l *cellLexer) scanQuotedSheetRef() (Token, error) {
	startPos := l.pos
	l.pos++ // consume opening quote

	for l.pos < len(l.runes) && l.current() != charApostrophe {
		l.pos++
	}
	if l.pos >= len(l.runes) {
		return Token{}, newEvalErrorAt(KindLex, startPos, "unterminated sheet name")
	}
	l.pos++ // consume closing quote

	if l.current() != charExclaim {
		return Token{}, newEvalErrorAt(KindLex, l.pos, "missing '!' after sheet name")
	}
	l.pos++ // consume '!'

	return l.scanCellBody(startPos)
}

// scanCellBody scans the [$]letters[$]digits portion of a cell reference.
// startPos marks where the full reference began, including any
// already-consumed sheet qualifier.
func (l *cellLexer) scanCellBody(startPos int) (Token, error) {
	bodyStart := l.pos

	if l.current() == charDollar {
		l.pos++
	}
	letterStart := l.pos
	for l.pos < len(l.runes) && isAlpha(l.current()) {
		l.pos++
	}
	if l.pos == letterStart {
		return Token{}, newEvalErrorAt(KindLex, bodyStart, "cell reference missing column letters")
	}
	if l.current() == charDollar {
		l.pos++
	}
	digitStart := l.pos
	for l.pos < len(l.runes) && isDigit(l.current()) {
		l.pos++
	}
	if l.pos == digitStart {
		return Token{}, newEvalErrorAt(KindLex, bodyStart, "cell reference %q missing row digits", l.substring(bodyStart, l.pos))
	}

	return Token{Type: TokenCellRef, Value: l.substring(startPos, l.pos), Pos: startPos}, nil
}

// isCellText checks whether a string has the letters-then-digits shape of
// a cell reference, with optional $ before either part
func isCellText(s string) bool {
	runes := []rune(s)
	i := 0
	if i < len(runes) && runes[i] == charDollar {
		i++
	}
	letterStart := i
	for i < len(runes) && isAlpha(runes[i]) {
		i++
	}
	if i == letterStart {
		return false
	}
	if i < len(runes) && runes[i] == charDollar {
		i++
	}
	digitStart := i
	for i < len(runes) && isDigit(runes[i]) {
		i++
	}
	return i > digitStart && i == len(runes)
}

func hasDigits(s string) bool {
	for _, ch := range s {
		if isDigit(ch) {
			return true
		}
	}
	return false
}

// toUpperASCII converts a string to uppercase
func toUpperASCII(s string) string {
	result := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch >= 'a' && ch <= 'z' {
			ch -= 32
		}
		result = append(result, ch)
	}
	return string(result)
}
