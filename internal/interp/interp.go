// Package interp is algoscript's tree-walking evaluator: it dispatches on
// the concrete ast.Node type, threads a lexically-scoped types.SymbolTable
// per call, and funnels every cooperative suspension point through a
// single yield helper rather than scattering them across every
// statement.
package interp

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"strconv"

	"github.com/algoscript/algoscript/internal/ast"
	algoerrors "github.com/algoscript/algoscript/internal/errors"
	"github.com/algoscript/algoscript/internal/host"
	"github.com/algoscript/algoscript/internal/lexer"
	"github.com/algoscript/algoscript/internal/parser"
	"github.com/algoscript/algoscript/internal/token"
	"github.com/algoscript/algoscript/internal/types"
	"github.com/algoscript/algoscript/internal/values"
)

// Interpreter runs one or more algoscript programs against a host. A
// single Interpreter may be reused across Run calls; each call resets the
// global scope before running, so one top-level run never sees state left
// over from a previous one.
type Interpreter struct {
	Host host.Host
	Rand *rand.Rand

	// MaxSteps bounds the number of suspension points before execution is
	// aborted as if cancelled, a belt-and-braces aid on top of ctx
	// cancellation. Zero means no limit.
	MaxSteps int

	steps int
	stack []algoerrors.Frame
}

// New creates an Interpreter backed by h, seeding its PRNG from seed (used
// by the nombreAleatoire built-in).
func New(h host.Host, seed int64) *Interpreter {
	return &Interpreter{Host: h, Rand: rand.New(rand.NewSource(seed))}
}

// outcome is the interpreter's result carrier: a Value plus a flag
// distinguishing a normal value from a propagating `return`. Errors are
// returned alongside, not folded into outcome, since Go already has a
// dedicated error channel.
type outcome struct {
	value    values.Value
	isReturn bool
}

func val(v values.Value) (outcome, error) { return outcome{value: v}, nil }

// Run lexes, parses, and interprets src under the given file name, using a
// freshly bootstrapped global scope.
func (it *Interpreter) Run(ctx context.Context, file, src string) error {
	toks, err := lexer.New(file, src).Tokenize()
	if err != nil {
		return err
	}
	p := parser.New(toks)
	nodes, err := p.Parse()
	if err != nil {
		return err
	}
	return it.runProgram(ctx, p.Global, nodes)
}

func (it *Interpreter) runProgram(ctx context.Context, global *types.SymbolTable, nodes []ast.Node) error {
	it.bootstrap(global)
	it.stack = append(it.stack, algoerrors.Frame{DisplayName: "<program>"})
	defer func() { it.stack = it.stack[:len(it.stack)-1] }()

	for _, n := range nodes {
		if fn, ok := n.(*ast.FunctionDef); ok {
			global.Set(fn.Name, it.makeFunction(fn, global))
		}
	}

	for _, n := range nodes {
		switch n.(type) {
		case *ast.FunctionDef:
			continue
		default:
			if _, err := it.eval(ctx, n, global); err != nil {
				return err
			}
		}
	}
	return nil
}

// bootstrap (re-)populates the pre-bound names, plus the fixed built-in
// set, directly into global's value map — it never
// touches global's declared-type map, which the parser already owns.
func (it *Interpreter) bootstrap(global *types.SymbolTable) {
	global.Set("NULL", values.Null())
	global.Set("true", values.NewInt(1))
	global.Set("false", values.NewInt(0))
	global.Set("Pi", values.NewFloat(3.141592653589793))

	for _, name := range []string{"print", "get", "run", "SQRT", "nombreAleatoire", "size", "create_array"} {
		global.Set(name, values.BuiltIn{Name: name})
	}
}

func (it *Interpreter) makeFunction(def *ast.FunctionDef, closure *types.SymbolTable) values.Function {
	params := make([]string, len(def.Params))
	for i, p := range def.Params {
		params[i] = p.Name
	}
	return values.Function{Name: def.Name, Params: params, ReturnType: def.ReturnType, Body: def.Body, Closure: closure}
}

// yield is the single suspension mechanism: it hands control to the Go
// scheduler and checks ctx for cancellation.
func (it *Interpreter) yield(ctx context.Context, pos token.Position) error {
	runtime.Gosched()
	if ctx.Err() != nil {
		return algoerrors.NewRuntimeError(pos, pos, "Execution stopped by user", it.stack)
	}
	it.steps++
	if it.MaxSteps > 0 && it.steps > it.MaxSteps {
		return algoerrors.NewRuntimeError(pos, pos, "Execution stopped by user", it.stack)
	}
	return nil
}

func (it *Interpreter) rtErr(pos token.Position, format string, a ...any) error {
	return algoerrors.NewRuntimeError(pos, pos, fmt.Sprintf(format, a...), it.stack)
}

func (it *Interpreter) rtErrSpan(start, end token.Position, format string, a ...any) error {
	return algoerrors.NewRuntimeError(start, end, fmt.Sprintf(format, a...), it.stack)
}

// eval dispatches on the concrete node type. It returns (outcome, error);
// callers of compound nodes must check err first, then outcome.isReturn,
// before using outcome.value.
func (it *Interpreter) eval(ctx context.Context, node ast.Node, scope *types.SymbolTable) (outcome, error) {
	switch n := node.(type) {
	case *ast.Number:
		if f, ok := n.Tok.Value.(float64); ok {
			return val(values.NewFloat(f))
		}
		iv, _ := n.Tok.Value.(int64)
		return val(values.NewInt(iv))

	case *ast.String:
		s, _ := n.Tok.Value.(string)
		return val(values.NewString(s))

	case *ast.List:
		elems := make([]values.Value, 0, len(n.Elements))
		for _, e := range n.Elements {
			if err := it.yield(ctx, n.Pos()); err != nil {
				return outcome{}, err
			}
			out, err := it.eval(ctx, e, scope)
			if err != nil || out.isReturn {
				return out, err
			}
			elems = append(elems, out.value)
		}
		return val(values.NewList(elems))

	case *ast.VarAccess:
		return it.evalVarAccess(n, scope)

	case *ast.VarAssign:
		return it.evalVarAssign(ctx, n, scope)

	case *ast.BinOp:
		return it.evalBinOp(ctx, n, scope)

	case *ast.UnaryOp:
		return it.evalUnaryOp(ctx, n, scope)

	case *ast.If:
		return it.evalIf(ctx, n, scope)

	case *ast.For:
		return it.evalFor(ctx, n, scope)

	case *ast.While:
		return it.evalWhile(ctx, n, scope)

	case *ast.FunctionDef:
		fn := it.makeFunction(n, scope)
		if n.Name != "" {
			scope.Set(n.Name, fn)
		}
		return val(fn)

	case *ast.Call:
		return it.evalCall(ctx, n, scope)

	case *ast.Return:
		if n.Value == nil {
			return outcome{value: values.Null(), isReturn: true}, nil
		}
		out, err := it.eval(ctx, n.Value, scope)
		if err != nil {
			return outcome{}, err
		}
		return outcome{value: out.value, isReturn: true}, nil

	case *ast.IndexAccess:
		return it.evalIndexAccess(ctx, n, scope)

	case *ast.IndexAssign:
		return it.evalIndexAssign(ctx, n, scope)

	case *ast.Block:
		for _, stmt := range n.Statements {
			out, err := it.eval(ctx, stmt, scope)
			if err != nil || out.isReturn {
				return out, err
			}
		}
		return val(values.Null())
	}

	return outcome{}, it.rtErr(node.Pos(), "no evaluator defined for %T", node)
}

func (it *Interpreter) evalVarAccess(n *ast.VarAccess, scope *types.SymbolTable) (outcome, error) {
	if v, ok := scope.Get(n.Name); ok {
		return val(v.(values.Value))
	}
	if _, declared := scope.GetType(n.Name); declared {
		return val(values.Null())
	}
	return outcome{}, it.rtErr(n.Pos(), "'%s' is not defined", n.Name)
}

func (it *Interpreter) evalVarAssign(ctx context.Context, n *ast.VarAssign, scope *types.SymbolTable) (outcome, error) {
	tag, declared := scope.GetType(n.Name)
	if !declared {
		return outcome{}, it.rtErr(n.Pos(), "Variable '%s' is not declared", n.Name)
	}
	out, err := it.eval(ctx, n.Value, scope)
	if err != nil || out.isReturn {
		return out, err
	}
	if err := checkScalarType(n.Name, tag, out.value); err != nil {
		return outcome{}, it.rtErrSpan(n.Value.Pos(), n.Value.End(), "%s", err)
	}
	scope.Set(n.Name, out.value)
	return val(out.value)
}

func checkScalarType(name string, tag types.TypeTag, v values.Value) error {
	switch tag {
	case types.Int, types.Float, types.Bool:
		if _, ok := v.(values.Number); !ok {
			return fmt.Errorf("Variable '%s' is of type '%s', but got '%s'", name, tag, v.Type())
		}
	case types.Str:
		if _, ok := v.(values.String); !ok {
			return fmt.Errorf("Variable '%s' is of type '%s', but got '%s'", name, tag, v.Type())
		}
	}
	return nil
}

// evalBinOp evaluates operands left-to-right. 'and' and 'or' short-circuit
// on the left operand's truthiness without evaluating the right one.
func (it *Interpreter) evalBinOp(ctx context.Context, n *ast.BinOp, scope *types.SymbolTable) (outcome, error) {
	left, err := it.eval(ctx, n.Left, scope)
	if err != nil || left.isReturn {
		return left, err
	}

	if n.Op.Kind == token.KEYWORD {
		word, _ := n.Op.Value.(string)
		switch word {
		case "and":
			if !left.value.IsTrue() {
				return val(values.NewInt(0))
			}
			right, err := it.eval(ctx, n.Right, scope)
			if err != nil || right.isReturn {
				return right, err
			}
			return val(boolToNumber(right.value.IsTrue()))
		case "or":
			if left.value.IsTrue() {
				return val(values.NewInt(1))
			}
			right, err := it.eval(ctx, n.Right, scope)
			if err != nil || right.isReturn {
				return right, err
			}
			return val(boolToNumber(right.value.IsTrue()))
		}
	}

	right, err := it.eval(ctx, n.Right, scope)
	if err != nil || right.isReturn {
		return right, err
	}

	result, opErr := applyBinOp(n.Op.Kind, left.value, right.value)
	if opErr != nil {
		// Anchor on the right operand (e.g. the divisor in "10 / 0"), not
		// the whole binop, so the caret underlines the offending operand.
		return outcome{}, it.rtErrSpan(n.Right.Pos(), n.Right.End(), "%s", friendlyOpError(opErr))
	}
	return val(result)
}

func boolToNumber(b bool) values.Value {
	if b {
		return values.NewInt(1)
	}
	return values.NewInt(0)
}

func applyBinOp(kind token.Kind, left, right values.Value) (values.Value, error) {
	switch kind {
	case token.PLUS:
		return left.Add(right)
	case token.MINUS:
		return left.Sub(right)
	case token.MULT:
		return left.Mul(right)
	case token.DIV:
		return left.Div(right)
	case token.FLOORDIV:
		return left.FloorDiv(right)
	case token.MOD:
		return left.Mod(right)
	case token.POW:
		return left.Pow(right)
	case token.EE:
		return left.Eq(right)
	case token.NE:
		return left.Ne(right)
	case token.LT:
		return left.Lt(right)
	case token.GT:
		return left.Gt(right)
	case token.LTE:
		return left.Lte(right)
	case token.GTE:
		return left.Gte(right)
	}
	return nil, fmt.Errorf("no operator for %s", kind)
}

func friendlyOpError(err error) string {
	switch {
	case err == values.ErrDivByZero:
		return "Division by 0"
	case err == values.ErrIllegalOperation:
		return "Illegal operation"
	default:
		return err.Error()
	}
}

func (it *Interpreter) evalUnaryOp(ctx context.Context, n *ast.UnaryOp, scope *types.SymbolTable) (outcome, error) {
	operand, err := it.eval(ctx, n.Operand, scope)
	if err != nil || operand.isReturn {
		return operand, err
	}

	var result values.Value
	var opErr error
	switch {
	case n.Op.Kind == token.MINUS:
		result, opErr = operand.value.Mul(values.NewInt(-1))
	case n.Op.Kind == token.PLUS:
		result = operand.value
	case n.Op.Matches(token.KEYWORD, "not"):
		result, opErr = operand.value.Not()
	default:
		return outcome{}, it.rtErr(n.Pos(), "unknown unary operator")
	}
	if opErr != nil {
		return outcome{}, it.rtErrSpan(n.Pos(), n.End(), "%s", friendlyOpError(opErr))
	}
	return val(result)
}

func (it *Interpreter) evalIf(ctx context.Context, n *ast.If, scope *types.SymbolTable) (outcome, error) {
	for _, c := range n.Cases {
		cond, err := it.eval(ctx, c.Cond, scope)
		if err != nil || cond.isReturn {
			return cond, err
		}
		if cond.value.IsTrue() {
			body, err := it.eval(ctx, c.Body, scope)
			if err != nil || body.isReturn {
				return body, err
			}
			if c.DiscardValue {
				return val(values.Null())
			}
			return val(body.value)
		}
	}
	if n.Else != nil {
		body, err := it.eval(ctx, n.Else.Body, scope)
		if err != nil || body.isReturn {
			return body, err
		}
		if n.Else.DiscardValue {
			return val(values.Null())
		}
		return val(body.value)
	}
	return val(values.Null())
}

func (it *Interpreter) evalWhile(ctx context.Context, n *ast.While, scope *types.SymbolTable) (outcome, error) {
	for {
		if err := it.yield(ctx, n.Pos()); err != nil {
			return outcome{}, err
		}
		cond, err := it.eval(ctx, n.Cond, scope)
		if err != nil || cond.isReturn {
			return cond, err
		}
		if !cond.value.IsTrue() {
			break
		}
		body, err := it.eval(ctx, n.Body, scope)
		if err != nil || body.isReturn {
			return body, err
		}
	}
	return val(values.Null())
}

func (it *Interpreter) evalFor(ctx context.Context, n *ast.For, scope *types.SymbolTable) (outcome, error) {
	from, err := it.eval(ctx, n.From, scope)
	if err != nil || from.isReturn {
		return from, err
	}
	to, err := it.eval(ctx, n.To, scope)
	if err != nil || to.isReturn {
		return to, err
	}
	fromN, ok1 := from.value.(values.Number)
	toN, ok2 := to.value.(values.Number)
	if !ok1 || !ok2 {
		return outcome{}, it.rtErr(n.Pos(), "'for' bounds must be numbers")
	}

	i := fromN.Val
	step := 1.0
	cond := func() bool { return i <= toN.Val }
	if n.Direction == ast.Downto {
		step = -1.0
		cond = func() bool { return i >= toN.Val }
	}

	for cond() {
		if err := it.yield(ctx, n.Pos()); err != nil {
			return outcome{}, err
		}
		scope.Set(n.Var, values.NewInt(int64(i)))
		i += step
		body, err := it.eval(ctx, n.Body, scope)
		if err != nil || body.isReturn {
			return body, err
		}
	}
	return val(values.Null())
}

func (it *Interpreter) evalIndexAccess(ctx context.Context, n *ast.IndexAccess, scope *types.SymbolTable) (outcome, error) {
	cur, err := it.eval(ctx, n.Target, scope)
	if err != nil || cur.isReturn {
		return cur, err
	}
	current := cur.value

	for _, idxNode := range n.Index {
		idxOut, err := it.eval(ctx, idxNode, scope)
		if err != nil || idxOut.isReturn {
			return idxOut, err
		}
		num, ok := idxOut.value.(values.Number)
		if !ok {
			return outcome{}, it.rtErr(idxNode.Pos(), "The index must be a number")
		}
		list, ok := current.(values.List)
		if !ok {
			return outcome{}, it.rtErr(n.Pos(), "Non-indexable type: %s", current.Type())
		}
		i := num.Int()
		if i < 0 || i >= len(list.Elements) {
			return outcome{}, it.rtErr(n.Pos(), "Index access error (probably out of bounds)")
		}
		current = list.Elements[i]
	}
	return val(current)
}

func (it *Interpreter) evalIndexAssign(ctx context.Context, n *ast.IndexAssign, scope *types.SymbolTable) (outcome, error) {
	targetOut, err := it.eval(ctx, n.Target.Target, scope)
	if err != nil || targetOut.isReturn {
		return targetOut, err
	}
	list, ok := targetOut.value.(values.List)
	if !ok {
		return outcome{}, it.rtErr(n.Pos(), "Non-indexable type: %s", targetOut.value.Type())
	}

	indices := make([]int, 0, len(n.Target.Index))
	for _, idxNode := range n.Target.Index {
		idxOut, err := it.eval(ctx, idxNode, scope)
		if err != nil || idxOut.isReturn {
			return idxOut, err
		}
		num, ok := idxOut.value.(values.Number)
		if !ok {
			return outcome{}, it.rtErr(idxNode.Pos(), "The index must be a number")
		}
		indices = append(indices, num.Int())
	}

	valueOut, err := it.eval(ctx, n.Value, scope)
	if err != nil || valueOut.isReturn {
		return valueOut, err
	}

	current := list.Elements
	for _, idx := range indices[:len(indices)-1] {
		if idx < 0 || idx >= len(current) {
			return outcome{}, it.rtErr(n.Pos(), "Out-of-bounds index or invalid format")
		}
		inner, ok := current[idx].(values.List)
		if !ok {
			return outcome{}, it.rtErr(n.Pos(), "Out-of-bounds index or invalid format")
		}
		current = inner.Elements
	}
	last := indices[len(indices)-1]
	if last < 0 || last >= len(current) {
		return outcome{}, it.rtErr(n.Pos(), "Out-of-bounds index or invalid format")
	}
	current[last] = valueOut.value
	return val(valueOut.value)
}

func (it *Interpreter) evalCall(ctx context.Context, n *ast.Call, scope *types.SymbolTable) (outcome, error) {
	if callee, ok := n.Callee.(*ast.VarAccess); ok && callee.Name == "get" {
		return it.evalGetCall(ctx, n, scope)
	}

	calleeOut, err := it.eval(ctx, n.Callee, scope)
	if err != nil || calleeOut.isReturn {
		return calleeOut, err
	}

	args := make([]values.Value, 0, len(n.Args))
	for _, a := range n.Args {
		argOut, err := it.eval(ctx, a, scope)
		if err != nil || argOut.isReturn {
			return argOut, err
		}
		args = append(args, argOut.value)
	}

	if err := it.yield(ctx, n.Pos()); err != nil {
		return outcome{}, err
	}

	switch callee := calleeOut.value.(type) {
	case values.BuiltIn:
		v, err := it.callBuiltin(ctx, callee.Name, n, args)
		if err != nil {
			return outcome{}, err
		}
		return val(v)
	case values.Function:
		v, err := it.callFunction(ctx, callee, n, args)
		if err != nil {
			return outcome{}, err
		}
		return val(v)
	default:
		return outcome{}, it.rtErr(n.Pos(), "value is not callable")
	}
}

func (it *Interpreter) callFunction(ctx context.Context, fn values.Function, node *ast.Call, args []values.Value) (values.Value, error) {
	if len(args) != len(fn.Params) {
		if len(args) > len(fn.Params) {
			return nil, it.rtErr(node.Pos(), "%d too many arguments passed into '%s'\nExpected %d arguments, got %d",
				len(args)-len(fn.Params), fn.Name, len(fn.Params), len(args))
		}
		return nil, it.rtErr(node.Pos(), "%d too few arguments passed into '%s'\nExpected %d arguments, got %d",
			len(fn.Params)-len(args), fn.Name, len(fn.Params), len(args))
	}

	callScope := types.New(fn.Closure)
	for i, p := range fn.Params {
		callScope.Set(p, args[i])
	}

	it.stack = append(it.stack, algoerrors.Frame{Pos: node.Pos(), DisplayName: displayName(fn.Name)})
	defer func() { it.stack = it.stack[:len(it.stack)-1] }()

	out, err := it.eval(ctx, fn.Body, callScope)
	if err != nil {
		return nil, err
	}
	if out.isReturn {
		return out.value, nil
	}
	return values.Null(), nil
}

func displayName(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}

// evalGetCall implements the 'get' built-in's lvalue arg shape: Args[0]
// is always a raw identifier naming the store target, never evaluated as
// an rvalue.
func (it *Interpreter) evalGetCall(ctx context.Context, n *ast.Call, scope *types.SymbolTable) (outcome, error) {
	if err := it.yield(ctx, n.Pos()); err != nil {
		return outcome{}, err
	}

	if len(n.Args) == 0 {
		text, err := it.readLine(ctx, n.Pos())
		if err != nil {
			return outcome{}, err
		}
		return val(values.NewString(text))
	}

	targetTok, ok := n.Args[0].(*ast.VarAccess)
	if !ok {
		return outcome{}, it.rtErr(n.Pos(), "Expected identifier after 'get'")
	}

	var indices []int
	if len(n.Args) > 1 {
		tag, _ := scope.GetType(targetTok.Name)
		if !tag.IsArray() {
			return outcome{}, it.rtErr(n.Pos(), "Cannot store into 'get' Expected array as first argument")
		}
		for _, idxNode := range n.Args[1:] {
			idxOut, err := it.eval(ctx, idxNode, scope)
			if err != nil || idxOut.isReturn {
				return idxOut, err
			}
			num, ok := idxOut.value.(values.Number)
			if !ok {
				return outcome{}, it.rtErr(idxNode.Pos(), "Invalid array index")
			}
			indices = append(indices, num.Int())
		}
	}

	text, err := it.readLine(ctx, n.Pos())
	if err != nil {
		return outcome{}, err
	}

	var stored values.Value
	if iv, convErr := strconv.ParseInt(text, 10, 64); convErr == nil {
		stored = values.NewInt(iv)
	} else {
		stored = values.NewString(text)
	}

	if len(indices) == 0 {
		scope.Set(targetTok.Name, stored)
		return val(stored)
	}

	targetVal, ok := scope.Get(targetTok.Name)
	if !ok {
		return outcome{}, it.rtErr(n.Pos(), "'%s' is not defined", targetTok.Name)
	}
	list, ok := targetVal.(values.List)
	if !ok {
		return outcome{}, it.rtErr(n.Pos(), "Non-indexable type: %s", targetVal.(values.Value).Type())
	}
	current := list.Elements
	for _, idx := range indices[:len(indices)-1] {
		if idx < 0 || idx >= len(current) {
			return outcome{}, it.rtErr(n.Pos(), "Out-of-bounds index or invalid format")
		}
		inner, ok := current[idx].(values.List)
		if !ok {
			return outcome{}, it.rtErr(n.Pos(), "Out-of-bounds index or invalid format")
		}
		current = inner.Elements
	}
	last := indices[len(indices)-1]
	if last < 0 || last >= len(current) {
		return outcome{}, it.rtErr(n.Pos(), "Out-of-bounds index or invalid format")
	}
	current[last] = stored
	return val(stored)
}

func (it *Interpreter) readLine(ctx context.Context, pos token.Position) (string, error) {
	text, err := it.Host.ReadLine(ctx, "")
	if err != nil {
		return "", it.rtErr(pos, "host read failed: %s", err)
	}
	return text, nil
}
