package parser

import (
	"testing"

	"github.com/algoscript/algoscript/internal/ast"
	"github.com/algoscript/algoscript/internal/lexer"
)

func parseSrc(t *testing.T, src string) []ast.Node {
	t.Helper()
	toks, err := lexer.New("t.algo", src).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	p := New(toks)
	nodes, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return nodes
}

func TestParseSimpleAlgoBlock(t *testing.T) {
	nodes := parseSrc(t, "Algo\n    x: int\nBegin\n    x <-- 2 + 3*4\n    print x\nEnd\n")
	if len(nodes) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(nodes))
	}
	block, ok := nodes[0].(*ast.Block)
	if !ok {
		t.Fatalf("expected *ast.Block, got %T", nodes[0])
	}
	if len(block.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block.Statements))
	}
	if _, ok := block.Statements[0].(*ast.VarAssign); !ok {
		t.Errorf("statement 0: expected *ast.VarAssign, got %T", block.Statements[0])
	}
	if _, ok := block.Statements[1].(*ast.Call); !ok {
		t.Errorf("statement 1: expected *ast.Call, got %T", block.Statements[1])
	}
}

func TestParseFunctionDefThenAlgo(t *testing.T) {
	src := "function f(x: int): int\nBegin\n    return x*x\nEnd\n\nAlgo\n    y: int\nBegin\n    y <-- f(5)\nEnd\n"
	nodes := parseSrc(t, src)
	if len(nodes) != 2 {
		t.Fatalf("expected a function def and an algo block, got %d nodes", len(nodes))
	}
	if _, ok := nodes[0].(*ast.FunctionDef); !ok {
		t.Errorf("node 0: expected *ast.FunctionDef, got %T", nodes[0])
	}
	if _, ok := nodes[1].(*ast.Block); !ok {
		t.Errorf("node 1: expected *ast.Block, got %T", nodes[1])
	}
}

func TestParseRunCommandShortForm(t *testing.T) {
	nodes := parseSrc(t, `run "other.algo"`)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	call, ok := nodes[0].(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", nodes[0])
	}
	callee, ok := call.Callee.(*ast.VarAccess)
	if !ok || callee.Name != "run" {
		t.Errorf("expected callee 'run', got %#v", call.Callee)
	}
}

func TestParseForLoopIndentedBlock(t *testing.T) {
	src := "Algo\n    i: int\nBegin\n    for i <-- 1 to 3\n        print i\nEnd\n"
	nodes := parseSrc(t, src)
	block := nodes[0].(*ast.Block)
	forNode, ok := block.Statements[0].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", block.Statements[0])
	}
	if forNode.Direction != ast.To {
		t.Errorf("expected To direction, got %v", forNode.Direction)
	}
	if !forNode.DiscardValue {
		t.Errorf("indented for-block should discard its value")
	}
}

func TestParseIndentationErrorOnNestedBlockFirstStatement(t *testing.T) {
	// the body of `while` is under-indented on its very first statement:
	// this must hard-fail rather than silently treat the block as empty.
	src := "Algo\n    n: int\nBegin\n    while n < 3\n    print n\nEnd\n"
	toks, err := lexer.New("t.algo", src).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, err = New(toks).Parse()
	if err == nil {
		t.Fatal("expected an indentation error on the while body's first statement")
	}
}

func TestParseIfElseChain(t *testing.T) {
	src := "Algo\n    n: int\nBegin\n    if n == 1 then\n        print \"one\"\n    else if n == 2 then\n        print \"two\"\n    else\n        print \"other\"\nEnd\n"
	nodes := parseSrc(t, src)
	block := nodes[0].(*ast.Block)
	ifNode, ok := block.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", block.Statements[0])
	}
	if len(ifNode.Cases) != 2 {
		t.Fatalf("expected 2 if-cases, got %d", len(ifNode.Cases))
	}
	if ifNode.Else == nil {
		t.Fatal("expected an else arm")
	}
}

func TestParseIndexAssignment(t *testing.T) {
	src := "Algo\n    T: array of int\nBegin\n    T <-- create_array(3)\n    T[0] <-- 10\nEnd\n"
	nodes := parseSrc(t, src)
	block := nodes[0].(*ast.Block)
	if _, ok := block.Statements[1].(*ast.IndexAssign); !ok {
		t.Errorf("expected *ast.IndexAssign, got %T", block.Statements[1])
	}
}
