// Package typetag describes the primitive scalar types that flow through the
// expression and read-instruction DAGs.
//
// A Tag is a first-class descriptor of a value's type, used at encoding time
// to pick SMT sort widths (internal/se/smt.Sort). It never carries a value
// itself.
package typetag

// Tag identifies a primitive scalar type supported by the recording engine.
type Tag uint8

// The supported scalar types, widened left to right.
const (
	Bool Tag = iota
	Int8
	Uint8
	Int16
	Int32
	Int64
)

// Width returns the bit width used to encode values of this type as an SMT
// bitvector. Bool reports 1; the encoder gives Bool the boolean sort rather
// than a 1-bit bitvector.
func (t Tag) Width() int {
	switch t {
	case Bool:
		return 1
	case Int8, Uint8:
		return 8
	case Int16:
		return 16
	case Int32:
		return 32
	case Int64:
		return 64
	default:
		panic("typetag: unknown tag")
	}
}

// Signed reports whether values of this type are interpreted as signed
// bitvectors during comparison and cast.
func (t Tag) Signed() bool {
	switch t {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// String names the tag for diagnostics and pretty-printing.
func (t Tag) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int8:
		return "char"
	case Uint8:
		return "uchar"
	case Int16:
		return "short"
	case Int32:
		return "int"
	case Int64:
		return "long"
	default:
		return "?"
	}
}
