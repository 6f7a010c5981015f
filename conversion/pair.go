package conversion

import (
	"fmt"
	"reflect"
)

// ConvertiblePair identifies one conversion direction from a source type to a
// target type. It is an immutable value: equality and hashing are structural
// over the two type identities, which lets the registry use the same pair both
// as a set element and as a cache key.
type ConvertiblePair struct {
	Source reflect.Type
	Target reflect.Type
}

// NewConvertiblePair builds a pair from two reflect types. Both types are
// required; a pair with a missing side is a contract violation.
func NewConvertiblePair(source, target reflect.Type) ConvertiblePair {
	if source == nil || target == nil {
		panic("conversion: ConvertiblePair requires non-nil source and target types")
	}
	return ConvertiblePair{Source: source, Target: target}
}

// PairOf builds a ConvertiblePair from two type parameters.
func PairOf[S, T any]() ConvertiblePair {
	return ConvertiblePair{Source: TypeOf[S](), Target: TypeOf[T]()}
}

// TypeOf returns the reflect.Type for T without needing a value of T.
// It works for interface types as well, which reflect.TypeOf(value) cannot do.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (p ConvertiblePair) String() string {
	return fmt.Sprintf("%s -> %s", p.Source, p.Target)
}
