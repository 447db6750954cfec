// Package values implements algoscript's runtime value model: a tagged
// variant (Number | String | List | Function | BuiltIn) behind a Value
// interface, with a total table of operator methods so the interpreter's
// BinOp/UnaryOp dispatch never needs a type switch for arithmetic.
package values

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/algoscript/algoscript/internal/ast"
	"github.com/algoscript/algoscript/internal/types"
)

// ErrIllegalOperation is returned by an operator method when the operand
// types don't support the operation.
var ErrIllegalOperation = errors.New("illegal operation")

// ErrDivByZero is returned by Div/FloorDiv/Mod when the divisor is zero.
var ErrDivByZero = errors.New("division by 0")

// Value is the runtime representation of every algoscript datum. Every
// operator method defaults to ErrIllegalOperation via the embedded base,
// so a concrete type only needs to override what it actually supports.
type Value interface {
	Type() string
	IsTrue() bool
	String() string
	Copy() Value

	Add(Value) (Value, error)
	Sub(Value) (Value, error)
	Mul(Value) (Value, error)
	Div(Value) (Value, error)
	FloorDiv(Value) (Value, error)
	Mod(Value) (Value, error)
	Pow(Value) (Value, error)
	Eq(Value) (Value, error)
	Ne(Value) (Value, error)
	Lt(Value) (Value, error)
	Gt(Value) (Value, error)
	Lte(Value) (Value, error)
	Gte(Value) (Value, error)
	And(Value) (Value, error)
	Or(Value) (Value, error)
	Not() (Value, error)
}

// base implements every operator as ErrIllegalOperation; concrete types
// embed it and override only the operations they support.
type base struct{}

func (base) Add(Value) (Value, error)      { return nil, ErrIllegalOperation }
func (base) Sub(Value) (Value, error)      { return nil, ErrIllegalOperation }
func (base) Mul(Value) (Value, error)      { return nil, ErrIllegalOperation }
func (base) Div(Value) (Value, error)      { return nil, ErrIllegalOperation }
func (base) FloorDiv(Value) (Value, error) { return nil, ErrIllegalOperation }
func (base) Mod(Value) (Value, error)      { return nil, ErrIllegalOperation }
func (base) Pow(Value) (Value, error)      { return nil, ErrIllegalOperation }
func (base) Eq(Value) (Value, error)       { return nil, ErrIllegalOperation }
func (base) Ne(Value) (Value, error)       { return nil, ErrIllegalOperation }
func (base) Lt(Value) (Value, error)       { return nil, ErrIllegalOperation }
func (base) Gt(Value) (Value, error)       { return nil, ErrIllegalOperation }
func (base) Lte(Value) (Value, error)      { return nil, ErrIllegalOperation }
func (base) Gte(Value) (Value, error)      { return nil, ErrIllegalOperation }
func (base) And(Value) (Value, error)      { return nil, ErrIllegalOperation }
func (base) Or(Value) (Value, error)       { return nil, ErrIllegalOperation }
func (base) Not() (Value, error)           { return nil, ErrIllegalOperation }

// Number holds one numeric slot. IsInt tracks whether the value was
// produced from an integer-typed expression so print can render it without
// a trailing ".0"; a boolean is represented as Number 0/1.
type Number struct {
	base
	Val   float64
	IsInt bool
}

// NewInt builds an integral Number.
func NewInt(v int64) Number { return Number{Val: float64(v), IsInt: true} }

// NewFloat builds a floating Number.
func NewFloat(v float64) Number { return Number{Val: v, IsInt: false} }

// Null is the canonical "absence" value (Number 0).
func Null() Number { return NewInt(0) }

func (n Number) Type() string  { return "Number" }
func (n Number) IsTrue() bool  { return n.Val != 0 }
func (n Number) Copy() Value   { return n }
func (n Number) Int() int      { return int(n.Val) }
func (n Number) String() string {
	if n.IsInt {
		return strconv.FormatInt(int64(n.Val), 10)
	}
	s := strconv.FormatFloat(n.Val, 'f', -1, 64)
	return s
}

func asNumber(v Value) (Number, bool) {
	n, ok := v.(Number)
	return n, ok
}

func boolNumber(b bool) Number {
	if b {
		return NewInt(1)
	}
	return NewInt(0)
}

// arithResult reports whether the result of an arithmetic op on two
// Numbers should render as an integer (both operands integral) or a float.
func arithResult(a, b Number, v float64) Number {
	return Number{Val: v, IsInt: a.IsInt && b.IsInt}
}

func (n Number) Add(o Value) (Value, error) {
	if r, ok := asNumber(o); ok {
		return arithResult(n, r, n.Val+r.Val), nil
	}
	return nil, ErrIllegalOperation
}

func (n Number) Sub(o Value) (Value, error) {
	if r, ok := asNumber(o); ok {
		return arithResult(n, r, n.Val-r.Val), nil
	}
	return nil, ErrIllegalOperation
}

func (n Number) Mul(o Value) (Value, error) {
	if r, ok := asNumber(o); ok {
		return arithResult(n, r, n.Val*r.Val), nil
	}
	return nil, ErrIllegalOperation
}

func (n Number) Div(o Value) (Value, error) {
	r, ok := asNumber(o)
	if !ok {
		return nil, ErrIllegalOperation
	}
	if r.Val == 0 {
		return nil, ErrDivByZero
	}
	// `/` performs integer division when both operands are ints.
	if n.IsInt && r.IsInt {
		return NewInt(int64(n.Val) / int64(r.Val)), nil
	}
	return NewFloat(n.Val / r.Val), nil
}

func (n Number) FloorDiv(o Value) (Value, error) {
	return n.Div(o)
}

func (n Number) Mod(o Value) (Value, error) {
	r, ok := asNumber(o)
	if !ok {
		return nil, ErrIllegalOperation
	}
	if r.Val == 0 {
		return nil, ErrDivByZero
	}
	if n.IsInt && r.IsInt {
		return NewInt(int64(n.Val) % int64(r.Val)), nil
	}
	mod := n.Val - r.Val*float64(int64(n.Val/r.Val))
	return NewFloat(mod), nil
}

func (n Number) Pow(o Value) (Value, error) {
	r, ok := asNumber(o)
	if !ok {
		return nil, ErrIllegalOperation
	}
	return arithResult(n, r, math.Pow(n.Val, r.Val)), nil
}

func (n Number) Eq(o Value) (Value, error) {
	if r, ok := asNumber(o); ok {
		return boolNumber(n.Val == r.Val), nil
	}
	return nil, ErrIllegalOperation
}

func (n Number) Ne(o Value) (Value, error) {
	if r, ok := asNumber(o); ok {
		return boolNumber(n.Val != r.Val), nil
	}
	return nil, ErrIllegalOperation
}

func (n Number) Lt(o Value) (Value, error) {
	if r, ok := asNumber(o); ok {
		return boolNumber(n.Val < r.Val), nil
	}
	return nil, ErrIllegalOperation
}

func (n Number) Gt(o Value) (Value, error) {
	if r, ok := asNumber(o); ok {
		return boolNumber(n.Val > r.Val), nil
	}
	return nil, ErrIllegalOperation
}

func (n Number) Lte(o Value) (Value, error) {
	if r, ok := asNumber(o); ok {
		return boolNumber(n.Val <= r.Val), nil
	}
	return nil, ErrIllegalOperation
}

func (n Number) Gte(o Value) (Value, error) {
	if r, ok := asNumber(o); ok {
		return boolNumber(n.Val >= r.Val), nil
	}
	return nil, ErrIllegalOperation
}

func (n Number) And(o Value) (Value, error) {
	if r, ok := asNumber(o); ok {
		return boolNumber(n.IsTrue() && r.IsTrue()), nil
	}
	return nil, ErrIllegalOperation
}

func (n Number) Or(o Value) (Value, error) {
	if r, ok := asNumber(o); ok {
		return boolNumber(n.IsTrue() || r.IsTrue()), nil
	}
	return nil, ErrIllegalOperation
}

func (n Number) Not() (Value, error) {
	return boolNumber(n.Val == 0), nil
}

// String is algoscript's byte-safe text value.
type String struct {
	base
	Val string
}

func NewString(s string) String { return String{Val: s} }

func (s String) Type() string { return "String" }
func (s String) IsTrue() bool { return len(s.Val) > 0 }
func (s String) String() string { return s.Val }
func (s String) Copy() Value  { return s }

// Add concatenates; the right operand is stringified if it isn't already a
// String.
func (s String) Add(o Value) (Value, error) {
	return NewString(s.Val + o.String()), nil
}

func (s String) Mul(o Value) (Value, error) {
	n, ok := asNumber(o)
	if !ok {
		return nil, ErrIllegalOperation
	}
	return NewString(strings.Repeat(s.Val, n.Int())), nil
}

// List is an ordered, independently mutable sequence of Values; it may
// nest to arbitrary depth and is created only via create_array or a list
// literal.
type List struct {
	base
	Elements []Value
}

func NewList(elems []Value) List { return List{Elements: elems} }

func (l List) Type() string { return "List" }
func (l List) IsTrue() bool { return len(l.Elements) > 0 }
func (l List) Copy() Value  { return l }

func (l List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// Div implements the `list / n` index-access shorthand.
func (l List) Div(o Value) (Value, error) {
	n, ok := asNumber(o)
	if !ok {
		return nil, ErrIllegalOperation
	}
	idx := n.Int()
	if idx < 0 || idx >= len(l.Elements) {
		return nil, fmt.Errorf("%w: index %d out of bounds", ErrIllegalOperation, idx)
	}
	return l.Elements[idx], nil
}

// Function is a user-defined callable: its parameter names, body AST, an
// optional declared return type, and the scope it closes over.
type Function struct {
	base
	Name       string
	Params     []string
	ReturnType string
	Body       ast.Node
	Closure    *types.SymbolTable
}

func (f Function) Type() string   { return "Function" }
func (f Function) IsTrue() bool   { return true }
func (f Function) Copy() Value    { return f }
func (f Function) String() string { return fmt.Sprintf("<function %s>", displayName(f.Name)) }

// BuiltIn is a named intrinsic dispatched by name in internal/interp.
type BuiltIn struct {
	base
	Name string
}

func (b BuiltIn) Type() string   { return "BuiltIn" }
func (b BuiltIn) IsTrue() bool   { return true }
func (b BuiltIn) Copy() Value    { return b }
func (b BuiltIn) String() string { return fmt.Sprintf("<built-in function %s>", displayName(b.Name)) }

func displayName(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}
