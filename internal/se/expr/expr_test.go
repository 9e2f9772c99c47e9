package expr

import (
	"bytes"
	"testing"

	"github.com/kolkov/libse/internal/se/typetag"
)

func TestAnyDistinctnessAcrossSameName(t *testing.T) {
	a := NewAny(typetag.Int32, "x")
	b := NewAny(typetag.Int32, "x")
	if a.ObjectID() == b.ObjectID() {
		t.Fatal("two NewAny(..., \"x\") calls produced the same object id")
	}
	if a.Name() != "x" || b.Name() != "x" {
		t.Fatal("Name() did not round-trip")
	}
}

func TestNaryRequiresAtLeastTwoChildren(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic constructing a one-child Nary")
		}
	}()
	NewNary(ADD, typetag.Int32, NewValue(typetag.Int32, 1))
}

func TestNaryCommutative(t *testing.T) {
	cases := []struct {
		op   NaryOp
		want bool
	}{
		{ADD, true},
		{SUB, false},
		{MUL, true},
		{LSS, false},
		{EQL, true},
		{LAND, true},
	}
	for _, c := range cases {
		if got := c.op.Commutative(); got != c.want {
			t.Errorf("%v.Commutative() = %v, want %v", c.op, got, c.want)
		}
	}
}

func TestWriteFormatsPostorder(t *testing.T) {
	// (a + 2)
	a := NewAny(typetag.Int32, "a")
	two := NewValue(typetag.Int32, 2)
	sum := NewNary(ADD, typetag.Int32, a, two)

	var buf bytes.Buffer
	Write(&buf, sum)

	want := "[a]2+"
	if got := buf.String(); got != want {
		t.Fatalf("Write = %q, want %q", got, want)
	}
}

func TestWriteInfixMatchesOperationOnAnyExpr(t *testing.T) {
	// original_source/test/any_test.cpp's OperationOnAnyExpr: a = any_int("A");
	// a = a + 2; a.get_reflect_value().get_expr()->write(out) == "([A]+2)".
	a := NewAny(typetag.Int32, "A")
	two := NewValue(typetag.Int32, 2)
	sum := NewNary(ADD, typetag.Int32, a, two)

	var buf bytes.Buffer
	WriteInfix(&buf, sum)

	want := "([A]+2)"
	if got := buf.String(); got != want {
		t.Fatalf("WriteInfix = %q, want %q", got, want)
	}
}

func TestWriteInfixParenthesizesUnaryAndTernary(t *testing.T) {
	a := NewAny(typetag.Bool, "p")
	not := NewUnary(LNOT, typetag.Bool, a)

	var buf bytes.Buffer
	WriteInfix(&buf, not)
	if got, want := buf.String(), "(![p])"; got != want {
		t.Fatalf("WriteInfix(unary) = %q, want %q", got, want)
	}

	x := NewAny(typetag.Int32, "x")
	y := NewValue(typetag.Int32, 0)
	sel := NewTernary(typetag.Int32, not, x, y)
	buf.Reset()
	WriteInfix(&buf, sel)
	if got, want := buf.String(), "((![p]) ? [x] : 0)"; got != want {
		t.Fatalf("WriteInfix(ternary) = %q, want %q", got, want)
	}
}

func TestWritePostorderMatchesCompositeExample(t *testing.T) {
	// original_source/test/visitor_test.cpp's ExprTest.PostorderVisit, adapted
	// to this package's own Write rather than a hand-written Visitor:
	// ite(!(A < 5), (char)C, D + E + F) -> "[A]5<![C]char[D][E][F]+".
	a := NewAny(typetag.Int32, "A")
	five := NewValue(typetag.Int32, 5)
	lss := NewNary(LSS, typetag.Bool, a, five)
	not := NewUnary(LNOT, typetag.Bool, lss)

	c := NewAny(typetag.Int32, "C")
	cast := NewCast(typetag.Int8, c)

	d := NewAny(typetag.Int32, "D")
	e := NewAny(typetag.Int32, "E")
	f := NewAny(typetag.Int32, "F")
	sum := NewNary(ADD, typetag.Int32, d, e, f)

	ite := NewTernary(typetag.Int32, not, cast, sum)

	var buf bytes.Buffer
	Write(&buf, ite)

	want := "[A]5<![C]char[D][E][F]+"
	if got := buf.String(); got != want {
		t.Fatalf("Write = %q, want %q", got, want)
	}
}

func TestWriteBoolLiteral(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, NewValue(typetag.Bool, 1))
	if got := buf.String(); got != "true" {
		t.Fatalf("Write(bool true) = %q, want %q", got, "true")
	}
}

func TestWalkUnknownNodeKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic walking a node that isn't one of the six sealed variants")
		}
	}()
	Walk[struct{}](printer{}, fakeNode{})
}

type fakeNode struct{}

func (fakeNode) Kind() Kind        { return KindValue }
func (fakeNode) Type() typetag.Tag { return typetag.Int32 }
func (fakeNode) isNode()           {}

func TestWalkAllAppliesInOrder(t *testing.T) {
	children := []Node{
		NewValue(typetag.Int32, 1),
		NewValue(typetag.Int32, 2),
		NewValue(typetag.Int32, 3),
	}
	var buf bytes.Buffer
	got := WalkAll[struct{}](printer{&buf}, children)
	if len(got) != 3 {
		t.Fatalf("WalkAll returned %d results, want 3", len(got))
	}
	if want := "123"; buf.String() != want {
		t.Fatalf("WalkAll visited in wrong order: got %q, want %q", buf.String(), want)
	}
}
