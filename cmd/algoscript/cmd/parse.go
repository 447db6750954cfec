package cmd

import (
	"fmt"
	"os"

	"github.com/algoscript/algoscript/internal/ast"
	"github.com/algoscript/algoscript/internal/lexer"
	"github.com/algoscript/algoscript/internal/parser"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse an algoscript file and display its AST",
	Long: `Parse algoscript source and display the Abstract Syntax Tree,
one indented line per node.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	filename := args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	toks, err := lexer.New(filename, string(data)).Tokenize()
	if err != nil {
		return fmt.Errorf("lexing failed: %w", err)
	}
	nodes, err := parser.New(toks).Parse()
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	fmt.Printf("Program (%d top-level nodes)\n", len(nodes))
	for _, n := range nodes {
		dumpNode(n, 1)
	}
	return nil
}

func dumpNode(n ast.Node, indent int) {
	pad := indentOf(indent)
	switch v := n.(type) {
	case *ast.Number:
		fmt.Printf("%sNumber: %v\n", pad, v.Tok.Value)
	case *ast.String:
		fmt.Printf("%sString: %q\n", pad, v.Tok.Value)
	case *ast.List:
		fmt.Printf("%sList (%d elements)\n", pad, len(v.Elements))
		for _, e := range v.Elements {
			dumpNode(e, indent+1)
		}
	case *ast.VarAccess:
		fmt.Printf("%sVarAccess: %s\n", pad, v.Name)
	case *ast.VarAssign:
		fmt.Printf("%sVarAssign: %s\n", pad, v.Name)
		dumpNode(v.Value, indent+1)
	case *ast.BinOp:
		fmt.Printf("%sBinOp: %v\n", pad, v.Op.Value)
		dumpNode(v.Left, indent+1)
		dumpNode(v.Right, indent+1)
	case *ast.UnaryOp:
		fmt.Printf("%sUnaryOp: %v\n", pad, v.Op.Value)
		dumpNode(v.Operand, indent+1)
	case *ast.If:
		fmt.Printf("%sIf (%d case(s), else=%v)\n", pad, len(v.Cases), v.Else != nil)
		for _, c := range v.Cases {
			fmt.Printf("%s  Cond:\n", pad)
			dumpNode(c.Cond, indent+2)
			fmt.Printf("%s  Body:\n", pad)
			dumpNode(c.Body, indent+2)
		}
		if v.Else != nil {
			fmt.Printf("%s  Else:\n", pad)
			dumpNode(v.Else.Body, indent+2)
		}
	case *ast.For:
		fmt.Printf("%sFor %s\n", pad, v.Var)
		dumpNode(v.From, indent+1)
		dumpNode(v.To, indent+1)
		dumpNode(v.Body, indent+1)
	case *ast.While:
		fmt.Printf("%sWhile\n", pad)
		dumpNode(v.Cond, indent+1)
		dumpNode(v.Body, indent+1)
	case *ast.FunctionDef:
		fmt.Printf("%sFunctionDef: %s (%d params)\n", pad, v.Name, len(v.Params))
		dumpNode(v.Body, indent+1)
	case *ast.Call:
		fmt.Printf("%sCall (%d args)\n", pad, len(v.Args))
		dumpNode(v.Callee, indent+1)
		for _, a := range v.Args {
			dumpNode(a, indent+1)
		}
	case *ast.Return:
		fmt.Printf("%sReturn\n", pad)
		if v.Value != nil {
			dumpNode(v.Value, indent+1)
		}
	case *ast.IndexAccess:
		fmt.Printf("%sIndexAccess\n", pad)
		dumpNode(v.Target, indent+1)
		for _, i := range v.Index {
			dumpNode(i, indent+1)
		}
	case *ast.IndexAssign:
		fmt.Printf("%sIndexAssign\n", pad)
		dumpNode(v.Target, indent+1)
		dumpNode(v.Value, indent+1)
	case *ast.Block:
		fmt.Printf("%sBlock (%d statements)\n", pad, len(v.Statements))
		for _, s := range v.Statements {
			dumpNode(s, indent+1)
		}
	default:
		fmt.Printf("%s%T\n", pad, n)
	}
}

func indentOf(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "  "
	}
	return s
}
