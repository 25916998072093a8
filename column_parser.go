package formula

import (
	"strconv"
	"strings"
)

// columnFunctions is the fixed allow-list for the named-column variant.
// Unknown names are rejected at parse time since arity is not yet known.
var columnFunctions = map[string]bool{
	"SUM":     true,
	"AVERAGE": true,
	"COUNT":   true,
	"MIN":     true,
	"MAX":     true,
}

// columnParser builds an AST from named-column tokens. It shares the
// grammar shape of the A1 parser minus ranges, and additionally collects
// every column reference it encounters into a flat dependency list.
type columnParser struct {
	tokens []Token
	pos    int
	refs   []FormulaRef
}

// ParseColumnFormula parses a named-column formula such as
// "{Revenue} - {Cost}" or "SUM({Jan.Revenue})" into an AST plus the flat
// list of column references it mentions. References are appended as they
// are encountered, so the list covers everything parsed before a failure.
func ParseColumnFormula(input string) (Node, []FormulaRef, error) {
	tokens, err := lexColumnFormula(input)
	if err != nil {
		return nil, nil, err
	}

	p := &columnParser{tokens: tokens}
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

func (p *columnParser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *columnParser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

func (p *columnParser) parseExpression() (Node, error) {
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

func (p *columnParser) parseTerm() (Node, error) {
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

func (p *columnParser) parseFactor() (Node, error) {
	tok := p.current()
	if tok.Type == TokenOperator && tok.Value == "-" {
		p.pos++
		operand, err := p.parseFactor()
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

func (p *columnParser) parsePrimary() (Node, error) {
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

	case TokenColumnRef:
		p.pos++
		return p.parseColumnRef(tok), nil

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

// parseColumnRef splits a reference on its first dot into an optional
// sheet label and the column name, records it in the dependency list, and
// recognizes the {column} placeholder as an explicit aggregate-self node
func (p *columnParser) parseColumnRef(tok Token) Node {
	display := "{" + tok.Value + "}"
	// the token position marks the '{'; the span covers both braces
	pos := NodePosition{Start: tok.Pos, End: tok.Pos + len([]rune(tok.Value)) + 2}

	sheet := ""
	name := strings.TrimSpace(tok.Value)
	if idx := strings.Index(tok.Value, "."); idx >= 0 {
		sheet = strings.TrimSpace(tok.Value[:idx])
		name = strings.TrimSpace(tok.Value[idx+1:])
	}

	p.refs = append(p.refs, FormulaRef{Sheet: sheet, Column: name, Display: display})

	if sheet == "" && strings.EqualFold(name, "column") {
		return &AggregateSelfNode{Pos: pos}
	}
	return &ColumnNode{Sheet: sheet, Name: name, Display: display, Pos: pos}
}

func (p *columnParser) parseFunctionCall() (Node, error) {
	funcTok := p.advance()

	if !columnFunctions[funcTok.Value] {
		return nil, newEvalErrorAt(KindParse, funcTok.Pos, "unknown function %q", funcTok.Value)
	}

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
