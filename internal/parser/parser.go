// Package parser implements algoscript's recursive-descent parser:
// unlimited single-token lookahead via an index, indentation bookkeeping
// against an expected level plus a "bonus" counter for nested control
// blocks, and variable-declaration bookkeeping against a shared,
// process-global symbol table.
package parser

import (
	"fmt"

	"github.com/algoscript/algoscript/internal/ast"
	algoerrors "github.com/algoscript/algoscript/internal/errors"
	"github.com/algoscript/algoscript/internal/token"
	"github.com/algoscript/algoscript/internal/types"
)

var scalarTypes = map[string]types.TypeTag{
	"int":   types.Int,
	"float": types.Float,
	"str":   types.Str,
	"bool":  types.Bool,
}

var arrayTypes = map[string]types.TypeTag{
	"int":   types.ArrayInt,
	"float": types.ArrayFloat,
	"str":   types.ArrayStr,
	"bool":  types.ArrayBool,
}

// builtinNames is the fixed set of intrinsic names the grammar recognizes
// specially before falling back to the generic call shape.
var builtinNames = map[string]bool{
	"print": true, "get": true, "run": true,
	"SQRT": true, "nombreAleatoire": true, "size": true,
	"create_array": true,
}

// parenArgBuiltins take a parenthesised, comma-separated argument list
// (create_array, nombreAleatoire, size) rather than the bare
// comma-separated or newline-terminated shapes `print`/`get` use.
var parenArgBuiltins = map[string]bool{
	"create_array": true, "nombreAleatoire": true, "size": true,
}

// Parser walks a flat token list produced by the lexer.
type Parser struct {
	toks []token.Token
	idx  int
	cur  token.Token

	indentLvl      int
	expectedIndent int
	bonusIndent    int

	// Global is the single flat declaration table every var_decls region
	// registers into, regardless of whether it's the Algo header or a
	// function's parameter list or local declarations — a name may be
	// declared at most once per process-global scope.
	Global *types.SymbolTable
}

// New creates a Parser over tokens, with a fresh global declaration table.
func New(toks []token.Token) *Parser {
	p := &Parser{toks: toks, Global: types.New(nil)}
	p.cur = p.toks[0]
	return p
}

func (p *Parser) advance() token.Token {
	p.idx++
	if p.idx < len(p.toks) {
		p.cur = p.toks[p.idx]
	}
	return p.cur
}

func (p *Parser) reverse(n int) {
	p.idx -= n
	if p.idx >= 0 && p.idx < len(p.toks) {
		p.cur = p.toks[p.idx]
	}
}

// Parse parses the whole token stream into top-level nodes: each is
// either an *ast.FunctionDef or an *ast.Block (the Algo body), or — for
// the short `run "file"` program shape — a single *ast.Call.
func (p *Parser) Parse() ([]ast.Node, error) {
	if p.cur.Kind == token.IDENT && p.cur.Value == "run" {
		n, err := p.runCommand()
		if err != nil {
			return nil, err
		}
		return []ast.Node{n}, nil
	}

	var out []ast.Node
	for p.cur.Kind != token.EOF {
		if p.cur.Kind == token.KEYWORD && p.cur.Value != "function" && p.cur.Value != "Algo" {
			return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected '+', '-', '*', or '/'")
		}
		n, err := p.algoOrFuncBlock()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (p *Parser) runCommand() (ast.Node, error) {
	start := p.cur.Start
	p.advance()
	if p.cur.Kind != token.STRING {
		return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected string after 'run'")
	}
	fnTok := p.cur
	fileNode := &ast.String{Base: ast.Base{Start: fnTok.Start, StopPos: fnTok.End}, Tok: fnTok}
	p.advance()
	callee := &ast.VarAccess{Base: ast.Base{Start: start, StopPos: fnTok.End}, Name: "run"}
	return &ast.Call{Base: ast.Base{Start: start, StopPos: fnTok.End}, Callee: callee, Args: []ast.Node{fileNode}}, nil
}

func (p *Parser) algoOrFuncBlock() (ast.Node, error) {
	p.skipNewlines()
	if err := p.checkIndentLevel(false); err != nil {
		return nil, err
	}

	if p.cur.Kind == token.KEYWORD && p.cur.Value == "Algo" {
		p.expectedIndent++
		p.advance()
		body, err := p.mainBody()
		if err != nil {
			return nil, err
		}
		return body, nil
	}
	if p.cur.Kind == token.KEYWORD && p.cur.Value == "function" {
		p.expectedIndent++
		return p.funcDef()
	}
	return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected Algo")
}

// mainBody parses the shared "var_decls Begin statements End" tail used
// by both the Algo block and function bodies.
func (p *Parser) mainBody() (*ast.Block, error) {
	p.skipNewlines()

	for p.cur.Kind == token.IDENT {
		if err := p.checkIndentLevel(false); err != nil {
			return nil, err
		}
		if err := p.varDeclaration(); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
	p.expectedIndent--

	p.skipNewlines()
	if err := p.checkIndentLevel(false); err != nil {
		return nil, err
	}
	if !(p.cur.Kind == token.KEYWORD && p.cur.Value == "Begin") {
		return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected Begin")
	}
	p.expectedIndent++
	p.advance()
	p.skipNewlines()

	body, err := p.statements()
	if err != nil {
		return nil, err
	}
	p.expectedIndent--

	if err := p.checkIndentLevel(false); err != nil {
		return nil, err
	}
	if !(p.cur.Kind == token.KEYWORD && p.cur.Value == "End") {
		return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected End")
	}
	p.advance()
	p.skipNewlines()
	return body, nil
}

func (p *Parser) skipNewlines() {
	for p.cur.Kind == token.NEWLINE || p.cur.Kind == token.INDENT {
		if p.cur.Kind == token.INDENT {
			if lvl, ok := p.cur.Value.(int); ok {
				p.indentLvl = lvl
			}
		}
		p.advance()
	}
}

// checkIndentLevel errors when the observed indent disagrees with
// expectedIndent+bonusIndent, consuming one bonus level of slack when the
// mismatch happens after at least one statement of a control block has
// already parsed (must forces a hard error regardless of the bonus).
func (p *Parser) checkIndentLevel(must bool) error {
	if p.indentLvl != p.expectedIndent+p.bonusIndent {
		if p.bonusIndent == 0 || must {
			return algoerrors.NewIndentation(p.cur.Start, p.cur.End,
				fmt.Sprintf("expected indentation level %d, got %d", p.expectedIndent+p.bonusIndent, p.indentLvl))
		}
		p.bonusIndent--
	}
	return nil
}

func (p *Parser) expect(kind token.Kind, display string) error {
	if p.cur.Kind != kind {
		return algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected '"+display+"'")
	}
	p.advance()
	return nil
}

func (p *Parser) expectKeyword(value, display string) error {
	if !p.cur.Matches(token.KEYWORD, value) {
		if display == "" {
			display = value
		}
		return algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected '"+display+"'")
	}
	p.advance()
	return nil
}

// varDeclaration parses one `name (, name)* : type` line (or, for a
// function parameter, a single `name : type`) and registers each name in
// the shared global declaration table.
func (p *Parser) varDeclaration() error {
	_, err := p.varDeclarationNames(false)
	return err
}

func (p *Parser) varDeclarationNames(isParam bool) ([]token.Token, error) {
	var names []token.Token
	names = append(names, p.cur)
	p.advance()

	for !isParam && p.cur.Kind == token.COMMA {
		p.advance()
		if p.cur.Kind != token.IDENT {
			return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected identifier")
		}
		names = append(names, p.cur)
		p.advance()
	}

	if err := p.expect(token.COLON, ":"); err != nil {
		return nil, err
	}

	var tag types.TypeTag
	if p.cur.Kind == token.IDENT && p.cur.Value == "array" {
		p.advance()
		if !(p.cur.Kind == token.IDENT && p.cur.Value == "of") {
			return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected 'of' after 'array'")
		}
		p.advance()
		scalar, _ := p.cur.Value.(string)
		t, ok := arrayTypes[scalar]
		if p.cur.Kind != token.IDENT || !ok {
			return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected a valid type (int, float, str or bool) after 'of'")
		}
		tag = t
		p.advance()
	} else {
		scalar, _ := p.cur.Value.(string)
		t, ok := scalarTypes[scalar]
		if p.cur.Kind != token.IDENT || !ok {
			return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected 'int', 'float', 'str', 'bool' or 'array'")
		}
		tag = t
		p.advance()
	}

	for _, n := range names {
		name, _ := n.Value.(string)
		if p.Global.IsDeclaredHere(name) {
			return nil, algoerrors.NewInvalidSyntax(n.Start, n.End, fmt.Sprintf("Variable '%s' is already declared", name))
		}
		p.Global.Declare(name, tag)
	}
	return names, nil
}

func (p *Parser) statements() (*ast.Block, error) {
	start := p.cur.Start
	var stmts []ast.Node
	tmpBonus := p.bonusIndent

	p.skipNewlines()
	if err := p.checkIndentLevel(false); err != nil {
		return nil, err
	}

	stmt, err := p.statement()
	if err != nil {
		return nil, err
	}
	stmts = append(stmts, stmt)

	for {
		p.skipNewlines()
		if p.cur.Matches(token.KEYWORD, "End") {
			break
		}
		if err := p.checkIndentLevel(false); err != nil {
			return nil, err
		}
		if p.bonusIndent < tmpBonus {
			break
		}
		save := p.idx
		stmt, err := p.statement()
		if err != nil {
			p.reverse(p.idx - save)
			break
		}
		stmts = append(stmts, stmt)
	}

	return &ast.Block{Base: ast.Base{Start: start, StopPos: p.cur.End}, Statements: stmts}, nil
}

func (p *Parser) statement() (ast.Node, error) {
	start := p.cur.Start
	if p.cur.Matches(token.KEYWORD, "return") {
		p.advance()
		save := p.idx
		expr, err := p.expr()
		if err != nil {
			p.reverse(p.idx - save)
			expr = nil
		}
		return &ast.Return{Base: ast.Base{Start: start, StopPos: p.cur.End}, Value: expr}, nil
	}

	expr, err := p.expr()
	if err != nil {
		return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected int, float, identifier, '+', '-', or '('")
	}
	return expr, nil
}

// expr handles assignment (`ident index* <-- expr`) before falling
// through to the logic/comparison/arithmetic precedence chain.
func (p *Parser) expr() (ast.Node, error) {
	startIdx := p.idx

	if p.cur.Kind == token.IDENT {
		varTok := p.cur
		p.advance()

		var indices []ast.Node
		for p.cur.Kind == token.LBRACK {
			p.advance()
			idx, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(token.RBRACK, "]"); err != nil {
				return nil, err
			}
			indices = append(indices, idx)
		}

		if p.cur.Kind == token.EQ {
			p.advance()
			value, err := p.expr()
			if err != nil {
				return nil, err
			}
			name, _ := varTok.Value.(string)
			if len(indices) > 0 {
				target := &ast.IndexAccess{
					Base:   ast.Base{Start: varTok.Start, StopPos: value.End()},
					Target: &ast.VarAccess{Base: ast.Base{Start: varTok.Start, StopPos: varTok.End}, Name: name},
					Index:  indices,
				}
				return &ast.IndexAssign{Base: ast.Base{Start: varTok.Start, StopPos: value.End()}, Target: target, Value: value}, nil
			}
			return &ast.VarAssign{Base: ast.Base{Start: varTok.Start, StopPos: value.End()}, Name: name, Value: value}, nil
		}

		p.reverse(p.idx - startIdx)
	}

	node, err := p.binOpKeyword(p.compExpr, "and", "or")
	if err != nil {
		return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected int, float, identifier, '+', '-', '(', or an expression")
	}
	return node, nil
}

func (p *Parser) compExpr() (ast.Node, error) {
	if p.cur.Matches(token.KEYWORD, "not") {
		op := p.cur
		p.advance()
		operand, err := p.compExpr()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: ast.Base{Start: op.Start, StopPos: operand.End()}, Op: op, Operand: operand}, nil
	}

	node, err := p.binOp(p.arithExpr, token.EE, token.NE, token.LT, token.GT, token.LTE, token.GTE)
	if err != nil {
		return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected int, float, '+', '-', '(' or 'not'")
	}
	return node, nil
}

func (p *Parser) arithExpr() (ast.Node, error) {
	return p.binOp(p.term, token.PLUS, token.MINUS)
}

func (p *Parser) term() (ast.Node, error) {
	return p.binOp(p.factor, token.MULT, token.DIV, token.MOD)
}

func (p *Parser) factor() (ast.Node, error) {
	tok := p.cur
	if tok.Kind == token.PLUS || tok.Kind == token.MINUS {
		p.advance()
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: ast.Base{Start: tok.Start, StopPos: operand.End()}, Op: tok, Operand: operand}, nil
	}
	return p.power()
}

// power is right-associative via factor recursion: `a ** b ** c` parses as
// `a ** (b ** c)`.
func (p *Parser) power() (ast.Node, error) {
	left, err := p.call()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == token.POW {
		op := p.cur
		p.advance()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Base: ast.Base{Start: left.Pos(), StopPos: right.End()}, Left: left, Op: op, Right: right}, nil
	}
	return left, nil
}

// call recognizes the built-in call shapes before falling back to the
// generic `atom ( args )` form.
func (p *Parser) call() (ast.Node, error) {
	atom, err := p.atom()
	if err != nil {
		return nil, err
	}

	if va, ok := atom.(*ast.VarAccess); ok && builtinNames[va.Name] {
		return p.builtinCall(va)
	}

	if p.cur.Kind == token.LPAREN {
		p.advance()
		var args []ast.Node
		if p.cur.Kind == token.RPAREN {
			p.advance()
		} else {
			arg, err := p.expr()
			if err != nil {
				return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected ')', int, float, identifier, '+', '-', or '('")
			}
			args = append(args, arg)
			for p.cur.Kind == token.COMMA {
				p.advance()
				arg, err := p.expr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}
			if p.cur.Kind != token.RPAREN {
				return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected ',' or ')'")
			}
			p.advance()
		}
		return &ast.Call{Base: ast.Base{Start: atom.Pos(), StopPos: p.cur.End}, Callee: atom, Args: args}, nil
	}

	return atom, nil
}

func (p *Parser) builtinCall(callee *ast.VarAccess) (ast.Node, error) {
	name := callee.Name

	if p.cur.Kind == token.NEWLINE {
		return &ast.Call{Base: callee.Base, Callee: callee}, nil
	}

	switch {
	case name == "get":
		return p.getCall(callee)
	case parenArgBuiltins[name]:
		if err := p.expect(token.LPAREN, "("); err != nil {
			return nil, err
		}
		var args []ast.Node
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		for p.cur.Kind == token.COMMA {
			p.advance()
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		if err := p.expect(token.RPAREN, ")"); err != nil {
			return nil, err
		}
		return &ast.Call{Base: ast.Base{Start: callee.Start, StopPos: p.cur.End}, Callee: callee, Args: args}, nil
	default: // print, and any other bare-comma call shape
		var args []ast.Node
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		for p.cur.Kind == token.COMMA {
			p.advance()
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return &ast.Call{Base: ast.Base{Start: callee.Start, StopPos: p.cur.End}, Callee: callee, Args: args}, nil
	}
}

// getCall parses `get ident ('[' expr ']')*` (index-path form into an
// array) or the legacy `get ident (, ident)*` multi-target shape. The
// identifier tokens are kept as raw VarAccess nodes rather than being
// evaluated as rvalues. The interpreter stores the input line into the
// first identifier (through the index path when it is an array); it
// rejects the multi-target shape at run time, so only one scalar is read
// per `get`.
func (p *Parser) getCall(callee *ast.VarAccess) (ast.Node, error) {
	if p.cur.Kind != token.IDENT {
		return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected identifier after 'get'")
	}
	firstName, _ := p.cur.Value.(string)
	firstTok := p.cur
	args := []ast.Node{&ast.VarAccess{Base: ast.Base{Start: firstTok.Start, StopPos: firstTok.End}, Name: firstName}}

	tag, _ := p.Global.GetType(firstName)
	if tag.IsArray() {
		p.advance()
		for p.cur.Kind == token.LBRACK {
			p.advance()
			idx, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, idx)
			if err := p.expect(token.RBRACK, "]"); err != nil {
				return nil, err
			}
		}
	} else {
		p.advance()
		for p.cur.Kind == token.COMMA {
			p.advance()
			if p.cur.Kind != token.IDENT {
				return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected identifier")
			}
			name, _ := p.cur.Value.(string)
			args = append(args, &ast.VarAccess{Base: ast.Base{Start: p.cur.Start, StopPos: p.cur.End}, Name: name})
			p.advance()
		}
	}
	return &ast.Call{Base: ast.Base{Start: callee.Start, StopPos: p.cur.End}, Callee: callee, Args: args}, nil
}

func (p *Parser) atom() (ast.Node, error) {
	tok := p.cur

	switch {
	case tok.Kind == token.INT || tok.Kind == token.FLOAT:
		p.advance()
		return &ast.Number{Base: ast.Base{Start: tok.Start, StopPos: tok.End}, Tok: tok}, nil

	case tok.Matches(token.KEYWORD, "true"):
		p.advance()
		return &ast.Number{Base: ast.Base{Start: tok.Start, StopPos: tok.End},
			Tok: token.Token{Kind: token.INT, Value: int64(1), Start: tok.Start, End: tok.End}}, nil

	case tok.Matches(token.KEYWORD, "false"):
		p.advance()
		return &ast.Number{Base: ast.Base{Start: tok.Start, StopPos: tok.End},
			Tok: token.Token{Kind: token.INT, Value: int64(0), Start: tok.Start, End: tok.End}}, nil

	case tok.Kind == token.STRING:
		p.advance()
		return &ast.String{Base: ast.Base{Start: tok.Start, StopPos: tok.End}, Tok: tok}, nil

	case tok.Kind == token.IDENT:
		name, _ := tok.Value.(string)
		p.advance()
		var node ast.Node = &ast.VarAccess{Base: ast.Base{Start: tok.Start, StopPos: tok.End}, Name: name}

		var indices []ast.Node
		for p.cur.Kind == token.LBRACK {
			p.advance()
			idx, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(token.RBRACK, "]"); err != nil {
				return nil, err
			}
			indices = append(indices, idx)
		}
		if len(indices) > 0 {
			node = &ast.IndexAccess{Base: ast.Base{Start: tok.Start, StopPos: p.cur.End}, Target: node, Index: indices}
		}
		return node, nil

	case tok.Kind == token.LPAREN:
		p.advance()
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN, ")"); err != nil {
			return nil, err
		}
		return inner, nil

	case tok.Kind == token.LBRACK:
		p.advance()
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RBRACK, "]"); err != nil {
			return nil, err
		}
		return &ast.List{Base: ast.Base{Start: tok.Start, StopPos: inner.End()}, Elements: []ast.Node{inner}}, nil

	case tok.Matches(token.KEYWORD, "if"):
		return p.ifExpr()

	case tok.Matches(token.KEYWORD, "for"):
		return p.forExpr()

	case tok.Matches(token.KEYWORD, "while"):
		return p.whileExpr()
	}

	return nil, algoerrors.NewInvalidSyntax(tok.Start, tok.End, "Expected int, float, identifier, '+', '-', or '('")
}

func (p *Parser) ifExpr() (ast.Node, error) {
	start := p.cur.Start
	if err := p.expectKeyword("if", ""); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	_ = p.expectKeyword("then", "") // original tolerates a missing 'then' silently

	var cases []ast.IfCase

	if p.cur.Kind == token.NEWLINE {
		p.bonusIndent++
		p.skipNewlines()
		if err := p.checkIndentLevel(true); err != nil {
			return nil, err
		}
		body, err := p.statements()
		if err != nil {
			return nil, err
		}
		cases = append(cases, ast.IfCase{Cond: cond, Body: body, DiscardValue: true})
	} else {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		cases = append(cases, ast.IfCase{Cond: cond, Body: stmt, DiscardValue: false})
	}

	more, elseCase, err := p.ifOrElse()
	if err != nil {
		return nil, err
	}
	cases = append(cases, more...)

	return &ast.If{Base: ast.Base{Start: start, StopPos: p.cur.End}, Cases: cases, Else: elseCase}, nil
}

func (p *Parser) ifOrElse() ([]ast.IfCase, *ast.IfCase, error) {
	if !p.cur.Matches(token.KEYWORD, "else") {
		return nil, nil, nil
	}
	p.advance()

	if p.cur.Matches(token.KEYWORD, "if") {
		nested, err := p.ifExpr()
		if err != nil {
			return nil, nil, err
		}
		ifNode := nested.(*ast.If)
		return ifNode.Cases, ifNode.Else, nil
	}

	if p.cur.Kind == token.NEWLINE {
		p.bonusIndent++
		p.skipNewlines()
		if err := p.checkIndentLevel(true); err != nil {
			return nil, nil, err
		}
		body, err := p.statements()
		if err != nil {
			return nil, nil, err
		}
		return nil, &ast.IfCase{Body: body, DiscardValue: true}, nil
	}

	stmt, err := p.statement()
	if err != nil {
		return nil, nil, err
	}
	return nil, &ast.IfCase{Body: stmt, DiscardValue: false}, nil
}

func (p *Parser) whileExpr() (ast.Node, error) {
	start := p.cur.Start
	if err := p.expectKeyword("while", ""); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.NEWLINE {
		return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected at least one argument in the while loop")
	}
	p.bonusIndent++
	p.skipNewlines()
	if err := p.checkIndentLevel(true); err != nil {
		return nil, err
	}
	body, err := p.statements()
	if err != nil {
		return nil, err
	}
	return &ast.While{Base: ast.Base{Start: start, StopPos: p.cur.End}, Cond: cond, Body: body, DiscardValue: true}, nil
}

func (p *Parser) forExpr() (ast.Node, error) {
	start := p.cur.Start
	if err := p.expectKeyword("for", ""); err != nil {
		return nil, err
	}
	if p.cur.Kind != token.IDENT {
		return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected identifier")
	}
	varName, _ := p.cur.Value.(string)
	p.advance()

	if err := p.expect(token.EQ, "<--"); err != nil {
		return nil, err
	}
	from, err := p.expr()
	if err != nil {
		return nil, err
	}

	var dir ast.ForDirection
	switch {
	case p.cur.Matches(token.KEYWORD, "to"):
		dir = ast.To
		p.advance()
	case p.cur.Matches(token.KEYWORD, "downto"):
		dir = ast.Downto
		p.advance()
	default:
		return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected 'to' or 'downto'")
	}

	to, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.NEWLINE {
		return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected at least one argument in the for loop")
	}
	p.bonusIndent++
	p.skipNewlines()
	if err := p.checkIndentLevel(true); err != nil {
		return nil, err
	}
	body, err := p.statements()
	if err != nil {
		return nil, err
	}
	return &ast.For{Base: ast.Base{Start: start, StopPos: p.cur.End}, Var: varName, From: from, To: to, Body: body, Direction: dir, DiscardValue: true}, nil
}

func (p *Parser) funcDef() (ast.Node, error) {
	start := p.cur.Start
	if err := p.expectKeyword("function", ""); err != nil {
		return nil, err
	}
	if p.cur.Kind != token.IDENT {
		return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected identifier")
	}
	name, _ := p.cur.Value.(string)
	p.advance()

	if err := p.expect(token.LPAREN, "("); err != nil {
		return nil, err
	}

	var params []ast.Param
	if p.cur.Kind == token.IDENT {
		names, err := p.varDeclarationNames(true)
		if err != nil {
			return nil, err
		}
		pname, _ := names[0].Value.(string)
		tag, _ := p.Global.GetType(pname)
		params = append(params, ast.Param{Name: pname, Type: string(tag)})

		for p.cur.Kind == token.COMMA {
			p.advance()
			names, err := p.varDeclarationNames(true)
			if err != nil {
				return nil, err
			}
			pname, _ := names[0].Value.(string)
			tag, _ := p.Global.GetType(pname)
			params = append(params, ast.Param{Name: pname, Type: string(tag)})
		}
	}

	if err := p.expect(token.RPAREN, "identifier or )"); err != nil {
		return nil, err
	}

	var returnType string
	if p.cur.Kind == token.COLON {
		p.advance()
		if p.cur.Kind == token.IDENT && p.cur.Value == "array" {
			p.advance()
			if !(p.cur.Kind == token.IDENT && p.cur.Value == "of") {
				return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected 'of' after 'array'")
			}
			p.advance()
			scalar, _ := p.cur.Value.(string)
			t, ok := arrayTypes[scalar]
			if p.cur.Kind != token.IDENT || !ok {
				return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected a valid type (int, float, str, bool) after 'of'")
			}
			returnType = string(t)
		} else {
			scalar, _ := p.cur.Value.(string)
			t, ok := scalarTypes[scalar]
			if p.cur.Kind != token.IDENT || !ok {
				return nil, algoerrors.NewInvalidSyntax(p.cur.Start, p.cur.End, "Expected return type (int, float, str, bool)")
			}
			returnType = string(t)
		}
		p.advance()
	}

	if err := p.expect(token.NEWLINE, "newline"); err != nil {
		return nil, err
	}

	body, err := p.mainBody()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDef{Base: ast.Base{Start: start, StopPos: p.cur.End}, Name: name, Params: params, ReturnType: returnType, Body: body}, nil
}

// binOp implements the classic left-associative precedence-climbing
// helper shared by arith/term/comp, parametrized over the next-tighter
// production and the set of operator kinds accepted at this level.
func (p *Parser) binOp(next func() (ast.Node, error), kinds ...token.Kind) (ast.Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for containsKind(kinds, p.cur.Kind) {
		op := p.cur
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Base: ast.Base{Start: left.Pos(), StopPos: right.End()}, Left: left, Op: op, Right: right}
	}
	return left, nil
}

// binOpKeyword is binOp's counterpart for keyword-valued operators
// ("and"/"or") which share token.Kind == KEYWORD and are distinguished by
// token Value instead.
func (p *Parser) binOpKeyword(next func() (ast.Node, error), keywords ...string) (ast.Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.KEYWORD && containsStr(keywords, fmt.Sprint(p.cur.Value)) {
		op := p.cur
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Base: ast.Base{Start: left.Pos(), StopPos: right.End()}, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func containsKind(kinds []token.Kind, k token.Kind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

func containsStr(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
