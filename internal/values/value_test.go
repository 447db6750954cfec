package values

import (
	"errors"
	"testing"
)

func TestNumberArithmetic(t *testing.T) {
	cases := []struct {
		name    string
		a, b    Number
		op      func(a Number, b Value) (Value, error)
		want    float64
		wantInt bool
	}{
		{"add ints", NewInt(2), NewInt(3), Number.Add, 5, true},
		{"add mixed float", NewInt(2), NewFloat(1.5), Number.Add, 3.5, false},
		{"mul", NewInt(3), NewInt(4), Number.Mul, 12, true},
		{"int div", NewInt(7), NewInt(2), Number.Div, 3, true},
		{"float div", NewFloat(7), NewInt(2), Number.Div, 3.5, false},
		{"mod", NewInt(7), NewInt(3), Number.Mod, 1, true},
		{"pow", NewInt(2), NewInt(3), Number.Pow, 8, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.op(c.a, c.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			n := got.(Number)
			if n.Val != c.want {
				t.Errorf("got %v, want %v", n.Val, c.want)
			}
			if n.IsInt != c.wantInt {
				t.Errorf("IsInt got %v, want %v", n.IsInt, c.wantInt)
			}
		})
	}
}

func TestNumberDivisionByZero(t *testing.T) {
	_, err := NewInt(1).Div(NewInt(0))
	if !errors.Is(err, ErrDivByZero) {
		t.Fatalf("expected ErrDivByZero, got %v", err)
	}
}

func TestNumberIllegalOperation(t *testing.T) {
	_, err := NewInt(1).Add(NewString("x"))
	if !errors.Is(err, ErrIllegalOperation) {
		t.Fatalf("expected ErrIllegalOperation, got %v", err)
	}
}

func TestStringConcatCoercesRight(t *testing.T) {
	got, err := NewString("n=").Add(NewInt(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(String).Val != "n=5" {
		t.Errorf("got %q, want %q", got.(String).Val, "n=5")
	}
}

func TestStringEqIllegalAgainstNonString(t *testing.T) {
	_, err := NewString("a").Eq(NewInt(1))
	if !errors.Is(err, ErrIllegalOperation) {
		t.Fatalf("String.Eq against a Number should be Illegal operation, got %v", err)
	}
}

func TestStringEqIllegalAgainstString(t *testing.T) {
	// String has no comparison operators at all: equality between two
	// strings is as unsupported as equality against any other type.
	_, err := NewString("a").Eq(NewString("a"))
	if !errors.Is(err, ErrIllegalOperation) {
		t.Fatalf("String.Eq against a String should be Illegal operation, got %v", err)
	}
	_, err = NewString("a").Ne(NewString("b"))
	if !errors.Is(err, ErrIllegalOperation) {
		t.Fatalf("String.Ne against a String should be Illegal operation, got %v", err)
	}
}

func TestListDivIndexShorthand(t *testing.T) {
	list := NewList([]Value{NewInt(10), NewInt(20), NewInt(30)})
	got, err := list.Div(NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(Number).Val != 20 {
		t.Errorf("got %v, want 20", got)
	}
}

func TestListDivOutOfRange(t *testing.T) {
	list := NewList([]Value{NewInt(10)})
	_, err := list.Div(NewInt(5))
	if !errors.Is(err, ErrIllegalOperation) {
		t.Fatalf("expected ErrIllegalOperation wrapping out-of-bounds, got %v", err)
	}
}

func TestIsTrue(t *testing.T) {
	if NewInt(0).IsTrue() {
		t.Error("Number 0 should be falsy")
	}
	if !NewInt(1).IsTrue() {
		t.Error("Number 1 should be truthy")
	}
	if NewString("").IsTrue() {
		t.Error("empty string should be falsy")
	}
	if !NewString("x").IsTrue() {
		t.Error("non-empty string should be truthy")
	}
	if NewList(nil).IsTrue() {
		t.Error("empty list should be falsy")
	}
	if !NewList([]Value{NewInt(1)}).IsTrue() {
		t.Error("non-empty list should be truthy")
	}
}

func TestNumberPrintRendering(t *testing.T) {
	if got := NewInt(3).String(); got != "3" {
		t.Errorf("integral number should render without a decimal point, got %q", got)
	}
	if got := NewFloat(3.5).String(); got != "3.5" {
		t.Errorf("got %q, want %q", got, "3.5")
	}
}

func TestNot(t *testing.T) {
	got, _ := NewInt(0).Not()
	if !got.(Number).IsTrue() {
		t.Error("not(0) should be true")
	}
	got, _ = NewInt(1).Not()
	if got.(Number).IsTrue() {
		t.Error("not(1) should be false")
	}
}
