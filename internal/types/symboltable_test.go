package types

import "testing"

func TestDeclareAndGetType(t *testing.T) {
	s := New(nil)
	s.Declare("x", Int)
	tag, ok := s.GetType("x")
	if !ok || tag != Int {
		t.Fatalf("got (%v, %v), want (%v, true)", tag, ok, Int)
	}
}

func TestGetClimbsParentChain(t *testing.T) {
	global := New(nil)
	global.Set("x", 42)
	child := New(global)

	v, ok := child.Get("x")
	if !ok || v != 42 {
		t.Fatalf("got (%v, %v), want (42, true)", v, ok)
	}
}

func TestSetNeverMutatesParent(t *testing.T) {
	global := New(nil)
	global.Set("x", 1)
	child := New(global)

	child.Set("x", 2)

	if v, _ := child.Get("x"); v != 2 {
		t.Errorf("child should see its own binding, got %v", v)
	}
	if v, _ := global.Get("x"); v != 1 {
		t.Errorf("parent's binding must be unaffected by the child's Set, got %v", v)
	}
}

func TestIsDeclaredHereDoesNotClimb(t *testing.T) {
	global := New(nil)
	global.Declare("x", Int)
	child := New(global)

	if child.IsDeclaredHere("x") {
		t.Error("IsDeclaredHere should not see a parent scope's declaration")
	}
	if !global.IsDeclaredHere("x") {
		t.Error("global scope should see its own declaration")
	}
}

func TestIsArray(t *testing.T) {
	cases := map[TypeTag]bool{
		Int: false, Float: false, Str: false, Bool: false,
		ArrayInt: true, ArrayFloat: true, ArrayStr: true, ArrayBool: true,
	}
	for tag, want := range cases {
		if got := tag.IsArray(); got != want {
			t.Errorf("%s.IsArray() = %v, want %v", tag, got, want)
		}
	}
}
