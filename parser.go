package main

// Parser builds a syntax tree from tokens using precedence climbing.
// Syntax errors are reported to the lexer's ErrorCollector; the offending
// statement is skipped up to the next ';' and replaced by an ErrorStatement.
type Parser struct {
	lexer *Lexer
	cur   Token
}

func NewParser(l *Lexer) *Parser {
	p := &Parser{lexer: l}
	p.next()
	return p
}

// Parse parses a whole program. It returns nil if the program has no
// statements, after reporting an error.
func Parse(input []byte, errs *ErrorCollector) *StatementList {
	return NewParser(NewLexer(input, errs)).ParseProgram()
}

func (p *Parser) next() {
	p.cur = p.lexer.NextToken()
}

func (p *Parser) errorf(loc Location, format string, args ...any) {
	if p.lexer.Errors != nil {
		p.lexer.Errors.Report(loc, format, args...)
	}
}

// expected reports that the current token is not what the grammar needs.
// ILLEGAL tokens were already reported by the lexer.
func (p *Parser) expected(what string) {
	if p.cur.Type == ILLEGAL {
		return
	}
	got := "'" + p.cur.Literal + "'"
	if p.cur.Type == EOF {
		got = "end of input"
	}
	p.errorf(p.cur.Location, "expected %s but got %s", what, got)
}

// ParseProgram parses statements until EOF.
func (p *Parser) ParseProgram() *StatementList {
	var list *StatementList
	for p.cur.Type != EOF {
		stmt := p.ParseStatement()
		loc := stmt.Loc()
		if list != nil {
			loc = Span(list.Location, loc)
		}
		list = NewStatementList(loc, list, stmt)
	}
	if list == nil {
		p.expected("a statement")
	}
	return list
}

// ParseStatement parses `expression ;`.
func (p *Parser) ParseStatement() Node {
	start := p.cur.Location
	expr, ok := p.parseExpressionWithPrecedence(0)
	if ok {
		if p.cur.Type == SEMICOLON {
			loc := Span(start, p.cur.Location)
			p.next()
			return NewExpressionStatement(loc, expr)
		}
		p.expected("';'")
	}
	return p.skipStatement(start)
}

// skipStatement discards tokens through the next ';'.
func (p *Parser) skipStatement(start Location) Node {
	end := p.cur.Location
	for p.cur.Type != SEMICOLON && p.cur.Type != EOF {
		end = p.cur.Location
		p.next()
	}
	if p.cur.Type == SEMICOLON {
		end = p.cur.Location
		p.next()
	}
	return NewErrorStatement(Span(start, end))
}

// precedence returns the binding power of a binary operator token, or 0.
func precedence(tokenType TokenType) int {
	switch tokenType {
	case ASSIGN:
		return 1
	case PLUS, MINUS:
		return 2
	case ASTERISK, SLASH:
		return 3
	default:
		return 0
	}
}

func binaryOpFor(tokenType TokenType) BinaryOp {
	switch tokenType {
	case ASSIGN:
		return OpAssign
	case PLUS:
		return OpAdd
	case MINUS:
		return OpSubtract
	case ASTERISK:
		return OpMultiply
	case SLASH:
		return OpDivide
	default:
		panic("not a binary operator: " + string(tokenType))
	}
}

// ParseExpression parses a single expression.
func (p *Parser) ParseExpression() (Node, bool) {
	return p.parseExpressionWithPrecedence(0)
}

func (p *Parser) parseExpressionWithPrecedence(minPrec int) (Node, bool) {
	left, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}

	for precedence(p.cur.Type) > 0 && precedence(p.cur.Type) >= minPrec {
		opToken := p.cur
		prec := precedence(opToken.Type)
		p.next()

		// Assignment is right-associative; everything else is
		// left-associative.
		nextMinPrec := prec + 1
		if opToken.Type == ASSIGN {
			nextMinPrec = prec
			if _, isIdent := left.(*Identifier); !isIdent {
				p.errorf(left.Loc(), "left side of assignment must be an identifier")
				return nil, false
			}
		}

		right, ok := p.parseExpressionWithPrecedence(nextMinPrec)
		if !ok {
			return nil, false
		}
		left = NewBinaryOperation(Span(left.Loc(), right.Loc()), binaryOpFor(opToken.Type), left, right)
	}
	return left, true
}

func (p *Parser) parsePrimary() (Node, bool) {
	switch p.cur.Type {
	case NUMBER:
		node := NewNumber(p.cur.Location, p.cur.Literal)
		p.next()
		return node, true

	case IDENT:
		node := NewIdentifier(p.cur.Location, p.cur.Literal)
		p.next()
		return node, true

	case LPAREN:
		p.next()
		expr, ok := p.parseExpressionWithPrecedence(0)
		if !ok {
			return nil, false
		}
		if p.cur.Type != RPAREN {
			p.expected("')'")
			return nil, false
		}
		p.next()
		return expr, true

	default:
		p.expected("an expression")
		return nil, false
	}
}
