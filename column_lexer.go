package formula

// columnLexer tokenizes named-column formulas. Column references are
// delimited by curly braces; bare identifiers are references unless
// lookahead finds a '(' right after them, which makes them function names.
// There is no leading marker to strip.
type columnLexer struct {
	runes []rune
	pos   int
}

// lexColumnFormula converts named-column formula text into a token stream
func lexColumnFormula(input string) ([]Token, error) {
	l := &columnLexer{runes: []rune(input)}

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

func (l *columnLexer) current() rune {
	if l.pos >= len(l.runes) {
		return charNull
	}
	return l.runes[l.pos]
}

func (l *columnLexer) peek(offset int) rune {
	pos := l.pos + offset
	if pos >= len(l.runes) || pos < 0 {
		return charNull
	}
	return l.runes[pos]
}

func (l *columnLexer) substring(start, end int) string {
	if start < 0 || end > len(l.runes) || start > end {
		return ""
	}
	return string(l.runes[start:end])
}

func (l *columnLexer) skipWhitespace() {
	for l.pos < len(l.runes) {
		ch := l.current()
		if ch == charSpace || ch == charTab || ch == charNewline || ch == charReturn {
			l.pos++
		} else {
			break
		}
	}
}

func (l *columnLexer) next() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.runes) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	startPos := l.pos
	ch := l.current()

	if isDigit(ch) || (ch == charPeriod && isDigit(l.peek(1))) {
		return l.scanNumber(), nil
	}

	if ch == charLCurly {
		return l.scanBracedReference()
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
	case charPlus, charMinus, charAsterisk, charSlash:
		l.pos++
		return Token{Type: TokenOperator, Value: string(ch), Pos: startPos}, nil
	}

	if isAlpha(ch) || ch == charUnderscore {
		return l.scanIdentifier(startPos), nil
	}

	return Token{}, newEvalErrorAt(KindLex, startPos, "unexpected character %q", string(ch))
}

func (l *columnLexer) scanNumber() Token {
	startPos := l.pos
	for l.pos < len(l.runes) && isDigit(l.current()) {
		l.pos++
	}
	if l.current() == charPeriod && isDigit(l.peek(1)) {
		l.pos++
		for l.pos < len(l.runes) && isDigit(l.current()) {
			l.pos++
		}
	}
	return Token{Type: TokenNumber, Value: l.substring(startPos, l.pos), Pos: startPos}
}

// scanBracedReference scans {Column} or {Sheet.Column}. The token value is
// the raw inner text; splitting on the first dot is the parser's job.
func (l *columnLexer) scanBracedReference() (Token, error) {
	startPos := l.pos
	l.pos++ // consume '{'

	innerStart := l.pos
	for l.pos < len(l.runes) && l.current() != charRCurly {
		l.pos++
	}
	if l.pos >= len(l.runes) {
		return Token{}, newEvalErrorAt(KindLex, startPos, "unterminated column reference")
	}

	inner := l.substring(innerStart, l.pos)
	l.pos++ // consume '}'
	return Token{Type: TokenColumnRef, Value: inner, Pos: startPos}, nil
}

// scanIdentifier scans a bare identifier: a function name iff, skipping
// whitespace, the next character is '('; otherwise a column reference
func (l *columnLexer) scanIdentifier(startPos int) Token {
	for l.pos < len(l.runes) && (isAlphaNumeric(l.current()) || l.current() == charUnderscore) {
		l.pos++
	}
	value := l.substring(startPos, l.pos)

	save := l.pos
	l.skipWhitespace()
	if l.current() == charLParen {
		return Token{Type: TokenFunction, Value: toUpperASCII(value), Pos: startPos}
	}
	l.pos = save

	return Token{Type: TokenColumnRef, Value: value, Pos: startPos}
}
