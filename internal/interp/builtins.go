package interp

import (
	"context"
	"math"
	"strings"

	"github.com/algoscript/algoscript/internal/ast"
	"github.com/algoscript/algoscript/internal/values"
)

// fixedArity is the exact parameter count every non-variadic built-in
// requires; 'print' and 'create_array' accept any arity, and 'get' is
// handled entirely by evalGetCall before reaching here.
var fixedArity = map[string]int{
	"run":             1,
	"SQRT":            1,
	"nombreAleatoire": 2,
	"size":            1,
}

// callBuiltin dispatches a built-in call by name, after args have already
// been evaluated left to right in the caller's scope.
func (it *Interpreter) callBuiltin(ctx context.Context, name string, node *ast.Call, args []values.Value) (values.Value, error) {
	if want, ok := fixedArity[name]; ok && len(args) != want {
		if len(args) > want {
			return nil, it.rtErr(node.Pos(), "%d too many arguments passed into '%s'\nExpected %d arguments, got %d",
				len(args)-want, name, want, len(args))
		}
		return nil, it.rtErr(node.Pos(), "%d too few arguments passed into '%s'\nExpected %d arguments, got %d",
			want-len(args), name, want, len(args))
	}

	switch name {
	case "print":
		return it.builtinPrint(ctx, node, args)
	case "run":
		return it.builtinRun(ctx, node, args)
	case "SQRT":
		return it.builtinSqrt(node, args)
	case "nombreAleatoire":
		return it.builtinRandom(node, args)
	case "size":
		return it.builtinSize(node, args)
	case "create_array":
		return it.builtinCreateArray(node, args)
	}
	return nil, it.rtErr(node.Pos(), "no built-in named '%s'", name)
}

func (it *Interpreter) builtinPrint(ctx context.Context, node *ast.Call, args []values.Value) (values.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	if err := it.Host.Write(strings.Join(parts, " ")); err != nil {
		return nil, it.rtErr(node.Pos(), "host write failed: %s", err)
	}
	if err := it.yield(ctx, node.Pos()); err != nil {
		return nil, err
	}
	return values.Null(), nil
}

func (it *Interpreter) builtinRun(ctx context.Context, node *ast.Call, args []values.Value) (values.Value, error) {
	fn, ok := args[0].(values.String)
	if !ok {
		return nil, it.rtErr(node.Pos(), "Second argument must be string")
	}
	text, err := it.Host.ReadFile(fn.Val)
	if err != nil {
		return nil, it.rtErr(node.Pos(), "Failed to load script \"%s\"\n%s", fn.Val, err)
	}
	if err := it.Run(ctx, fn.Val, text); err != nil {
		return nil, it.rtErr(node.Pos(), "Failed to finish executing script \"%s\"\n%s", fn.Val, err)
	}
	return values.Null(), nil
}

func (it *Interpreter) builtinSqrt(node *ast.Call, args []values.Value) (values.Value, error) {
	n, ok := args[0].(values.Number)
	if !ok {
		return nil, it.rtErr(node.Pos(), "Argument must be a number, got '%s'", args[0].Type())
	}
	return values.NewFloat(math.Sqrt(n.Val)), nil
}

func (it *Interpreter) builtinRandom(node *ast.Call, args []values.Value) (values.Value, error) {
	a, ok1 := args[0].(values.Number)
	b, ok2 := args[1].(values.Number)
	if !ok1 || !ok2 {
		return nil, it.rtErr(node.Pos(), "Arguments must be numbers")
	}
	lo, hi := a.Int(), b.Int()
	if hi < lo {
		lo, hi = hi, lo
	}
	return values.NewInt(int64(lo + it.Rand.Intn(hi-lo+1))), nil
}

func (it *Interpreter) builtinSize(node *ast.Call, args []values.Value) (values.Value, error) {
	list, ok := args[0].(values.List)
	if !ok {
		return nil, it.rtErr(node.Pos(), "Argument to 'size' must be an array")
	}
	return values.NewInt(int64(len(list.Elements))), nil
}

func (it *Interpreter) builtinCreateArray(node *ast.Call, args []values.Value) (values.Value, error) {
	if len(args) == 0 {
		return nil, it.rtErr(node.Pos(), "create_array requires at least one dimension")
	}
	dims := make([]int, len(args))
	for i, a := range args {
		n, ok := a.(values.Number)
		if !ok {
			return nil, it.rtErr(node.Pos(), "Dimension must be a number")
		}
		dims[i] = n.Int()
	}
	return makeNestedArray(dims), nil
}

// makeNestedArray builds a k-dimensional rectangular list: innermost
// elements are empty strings, the outer dimension (dims[0]) being the
// outermost list length.
func makeNestedArray(dims []int) values.List {
	if len(dims) == 1 {
		elems := make([]values.Value, dims[0])
		for i := range elems {
			elems[i] = values.NewString("")
		}
		return values.NewList(elems)
	}
	elems := make([]values.Value, dims[0])
	for i := range elems {
		elems[i] = makeNestedArray(dims[1:])
	}
	return values.NewList(elems)
}
