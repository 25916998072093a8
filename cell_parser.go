package formula

import (
	"strconv"
	"strings"
)

// cellParser builds an AST from A1-style tokens. Grammar:
//
//	expression := term (('+'|'-') term)*
//	term       := factor (('*'|'/') factor)*
//	factor     := '-' factor | primary
//	primary    := NUMBER | cell | range | function '(' args ')' | '(' expression ')'
//	range      := CELL_REF ':' CELL_REF
//
// Function names are not validated here; the evaluator rejects names it
// does not recognize.
type cellParser struct {
	tokens []Token
	pos    int
	refs   []FormulaRef
}

// ParseCellFormula parses an A1-style formula (leading '=' optional) into
// an AST plus the flat list of cell and range references it mentions. The
// reference list covers everything parsed before a failure, so dependency
// extraction still sees partial results on malformed input.
func ParseCellFormula(input string) (Node, []FormulaRef, error) {
	tokens, err := lexCellFormula(input)
	if err != nil {
		return nil, nil, err
	}

	p := &cellParser{tokens: tokens}
	if p.current().Type == TokenEOF {
		return nil, nil, newEvalErrorAt(KindParse, p.current().Pos, "empty formula")
	}

	node, err := p.parseExpression()
	if err != nil {
		return nil, p.refs, err
	}
	if p.current().Type != TokenEOF {
		return nil, p.refs, newEvalErrorAt(KindParse, p.current().Pos, "unexpected token %q after expression", p.current().Value)
	}
	return node, p.refs, nil
}

func (p *cellParser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *cellParser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

// parseExpression handles addition and subtraction
func (p *cellParser) parseExpression() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenOperator {
		var op BinaryOp
		switch p.current().Value {
		case "+":
			op = OpAdd
		case "-":
			op = OpSubtract
		default:
			return left, nil
		}
		p.pos++

		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{
			Op:    op,
			Left:  left,
			Right: right,
			Pos:   NodePosition{Start: left.Position().Start, End: right.Position().End},
		}
	}
	return left, nil
}

// parseTerm handles multiplication and division
func (p *cellParser) parseTerm() (Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenOperator {
		var op BinaryOp
		switch p.current().Value {
		case "*":
			op = OpMultiply
		case "/":
			op = OpDivide
		default:
			return left, nil
		}
		p.pos++

		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{
			Op:    op,
			Left:  left,
			Right: right,
			Pos:   NodePosition{Start: left.Position().Start, End: right.Position().End},
		}
	}
	return left, nil
}

// parseFactor handles unary minus, which binds tighter than '*' and '/'
func (p *cellParser) parseFactor() (Node, error) {
	tok := p.current()
	if tok.Type == TokenOperator && tok.Value == "-" {
		p.pos++
		operand, err := p.parseFactor() // recurse for chained unary minus
		if err != nil {
			return nil, err
		}
		return &UnaryNode{
			Operand: operand,
			Pos:     NodePosition{Start: tok.Pos, End: operand.Position().End},
		}, nil
	}
	return p.parsePrimary()
}

func (p *cellParser) parsePrimary() (Node, error) {
	tok := p.current()

	switch tok.Type {
	case TokenNumber:
		p.pos++
		val, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, newEvalErrorAt(KindParse, tok.Pos, "invalid number %q", tok.Value)
		}
		return &NumberNode{
			Value: val,
			Pos:   NodePosition{Start: tok.Pos, End: tok.Pos + len([]rune(tok.Value))},
		}, nil

	case TokenCellRef:
		p.pos++
		return p.parseCellOrRange(tok)

	case TokenFunction:
		return p.parseFunctionCall()

	case TokenLeftParen:
		p.pos++
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		closing := p.current()
		if closing.Type != TokenRightParen {
			return nil, newEvalErrorAt(KindParse, closing.Pos, "expected closing parenthesis")
		}
		p.pos++
		return &GroupNode{
			Expr: inner,
			Pos:  NodePosition{Start: tok.Pos, End: closing.Pos + 1},
		}, nil

	case TokenEOF:
		return nil, newEvalErrorAt(KindParse, tok.Pos, "unexpected end of expression")

	default:
		return nil, newEvalErrorAt(KindParse, tok.Pos, "unexpected token %q", tok.Value)
	}
}

// parseCellOrRange turns a cell token into a CellNode, or a RangeNode when
// a colon and second cell follow
func (p *cellParser) parseCellOrRange(tok Token) (Node, error) {
	start, err := parseCellText(tok.Value, tok.Pos)
	if err != nil {
		return nil, err
	}

	if p.current().Type != TokenColon {
		p.refs = append(p.refs, FormulaRef{Sheet: start.Sheet, Display: tok.Value})
		return &CellNode{
			Ref: start,
			Pos: NodePosition{Start: tok.Pos, End: tok.Pos + len([]rune(tok.Value))},
		}, nil
	}
	p.pos++ // consume ':'

	endTok := p.current()
	if endTok.Type != TokenCellRef {
		return nil, newEvalErrorAt(KindParse, endTok.Pos, "expected cell reference after ':'")
	}
	p.pos++

	end, err := parseCellText(endTok.Value, endTok.Pos)
	if err != nil {
		return nil, err
	}
	if end.Sheet != "" {
		return nil, newEvalErrorAt(KindParse, endTok.Pos, "cross-sheet ranges are not supported")
	}

	sheet := start.Sheet
	start.Sheet = ""
	display := tok.Value + ":" + endTok.Value
	p.refs = append(p.refs, FormulaRef{Sheet: sheet, Display: display})

	return &RangeNode{
		Sheet: sheet,
		Start: start,
		End:   end,
		Pos:   NodePosition{Start: tok.Pos, End: endTok.Pos + len([]rune(endTok.Value))},
	}, nil
}

func (p *cellParser) parseFunctionCall() (Node, error) {
	funcTok := p.advance()

	if p.current().Type != TokenLeftParen {
		return nil, newEvalErrorAt(KindParse, p.current().Pos, "expected '(' after function name")
	}
	p.pos++

	args := []Node{}
	if p.current().Type == TokenRightParen {
		closing := p.advance()
		return &CallNode{
			Name: funcTok.Value,
			Args: args,
			Pos:  NodePosition{Start: funcTok.Pos, End: closing.Pos + 1},
		}, nil
	}

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		switch p.current().Type {
		case TokenRightParen:
			closing := p.advance()
			return &CallNode{
				Name: funcTok.Value,
				Args: args,
				Pos:  NodePosition{Start: funcTok.Pos, End: closing.Pos + 1},
			}, nil
		case TokenComma:
			p.pos++
		default:
			return nil, newEvalErrorAt(KindParse, p.current().Pos, "expected ',' or ')' in function arguments")
		}
	}
}

// parseCellText parses the raw text of a cell token, e.g. "B5", "$A$1",
// or "'Jan'!C3", into a CellRef with 0-based indices
func parseCellText(raw string, pos int) (CellRef, error) {
	var ref CellRef
	body := raw

	// split off a quoted sheet qualifier
	if strings.HasPrefix(body, "'") {
		idx := strings.Index(body, "'!")
		if idx < 0 {
			return ref, newEvalErrorAt(KindLex, pos, "missing '!' after sheet name")
		}
		ref.Sheet = body[1:idx]
		body = body[idx+2:]
	}

	if strings.HasPrefix(body, "$") {
		ref.AbsCol = true
		body = body[1:]
	}

	letterEnd := 0
	for letterEnd < len(body) && isAlpha(rune(body[letterEnd])) {
		letterEnd++
	}
	if letterEnd == 0 {
		return ref, newEvalErrorAt(KindLex, pos, "cell reference %q missing column letters", raw)
	}

	col, err := columnIndex(body[:letterEnd])
	if err != nil {
		return ref, newEvalErrorAt(KindLex, pos, "invalid cell reference %q", raw)
	}
	ref.Col = col
	body = body[letterEnd:]

	if strings.HasPrefix(body, "$") {
		ref.AbsRow = true
		body = body[1:]
	}

	rowNum, err := strconv.Atoi(body)
	if err != nil || rowNum < 1 {
		return ref, newEvalErrorAt(KindLex, pos, "cell reference %q missing row digits", raw)
	}
	ref.Row = rowNum - 1 // 1-based in notation, 0-based internally

	return ref, nil
}
