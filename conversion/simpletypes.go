package conversion

import (
	"math/big"
	"net"
	"reflect"
	"time"

	"github.com/gocql/gocql"
)

// cassandraSimpleTypes are the Go types gocql marshals into Cassandra column
// values without further decomposition. Values of these types never need a
// custom conversion before they hit the wire.
var cassandraSimpleTypes = func() map[reflect.Type]struct{} {
	types := []reflect.Type{
		TypeOf[string](),
		TypeOf[bool](),
		TypeOf[int](),
		TypeOf[int8](),
		TypeOf[int16](),
		TypeOf[int32](),
		TypeOf[int64](),
		TypeOf[float32](),
		TypeOf[float64](),
		TypeOf[[]byte](),
		TypeOf[time.Time](),
		TypeOf[gocql.UUID](),
		TypeOf[*big.Int](),
		TypeOf[net.IP](),
	}
	set := make(map[reflect.Type]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}()

// isCassandraSimpleType reports whether t belongs to the native type set.
func isCassandraSimpleType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	_, ok := cassandraSimpleTypes[t]
	return ok
}

// SimpleTypeHolder answers whether a type can be stored by Cassandra without
// nested mapping. It is seeded with the driver-native types and extended with
// the custom simple types collected during converter registration: a type
// with a writing conversion into a native type is simple as far as the object
// mapper is concerned, even if it is not primitive-like.
type SimpleTypeHolder struct {
	custom map[reflect.Type]struct{}
}

// NewSimpleTypeHolder creates a holder extended with the given custom types.
func NewSimpleTypeHolder(custom ...reflect.Type) *SimpleTypeHolder {
	set := make(map[reflect.Type]struct{}, len(custom))
	for _, t := range custom {
		set[t] = struct{}{}
	}
	return &SimpleTypeHolder{custom: set}
}

// IsSimpleType reports whether t is driver-native or a registered custom
// simple type.
func (h *SimpleTypeHolder) IsSimpleType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if isCassandraSimpleType(t) {
		return true
	}
	_, ok := h.custom[t]
	return ok
}
