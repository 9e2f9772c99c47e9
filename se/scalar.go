package se

import "github.com/kolkov/libse/internal/se/typetag"

// Scalar is the set of Go types the recording engine understands. It
// mirrors internal/se/typetag's enumeration exactly; a type outside this
// set simply cannot name a Sym[T] or Var[T].
type Scalar interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~int32 | ~int64
}

func tagOf[T Scalar]() typetag.Tag {
	var zero T
	switch any(zero).(type) {
	case bool:
		return typetag.Bool
	case int8:
		return typetag.Int8
	case uint8:
		return typetag.Uint8
	case int16:
		return typetag.Int16
	case int32:
		return typetag.Int32
	case int64:
		return typetag.Int64
	default:
		panic("se: unsupported scalar type")
	}
}

func bitsOf[T Scalar](v T) uint64 {
	switch x := any(v).(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int8:
		return uint64(uint8(x))
	case uint8:
		return uint64(x)
	case int16:
		return uint64(uint16(x))
	case int32:
		return uint64(uint32(x))
	case int64:
		return uint64(x)
	default:
		panic("se: unsupported scalar type")
	}
}

func valueOf[T Scalar](tag typetag.Tag, bits uint64) T {
	var out T
	switch any(out).(type) {
	case bool:
		return any(bits&1 != 0).(T)
	case int8:
		return any(int8(bits)).(T)
	case uint8:
		return any(uint8(bits)).(T)
	case int16:
		return any(int16(bits)).(T)
	case int32:
		return any(int32(bits)).(T)
	case int64:
		return any(int64(bits)).(T)
	default:
		panic("se: unsupported scalar type")
	}
}
