package conversion

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUnsupportedConverter is returned when a registered object implements none
// of the three recognized converter shapes (Converter, ConverterFactory,
// PairConverter). Registry construction aborts on it; there is no partially
// constructed registry.
var ErrUnsupportedConverter = errors.New("conversion: object implements none of Converter, ConverterFactory or PairConverter")

// Converter converts values of a single source type into a single target type.
type Converter interface {
	SourceType() reflect.Type
	TargetType() reflect.Type
	Convert(value any) (any, error)
}

// ConverterFactory produces converters from one source type into arbitrary
// targets within a target family. The family types describe the pair the
// factory is registered under; ConverterFor narrows to a concrete target.
type ConverterFactory interface {
	SourceType() reflect.Type
	TargetType() reflect.Type
	ConverterFor(target reflect.Type) (Converter, error)
}

// PairConverter declares an explicit list of (source, target) pairs it
// handles. Each declared pair is registered individually.
type PairConverter interface {
	ConvertibleTypes() []ConvertiblePair
	Convert(value any, target reflect.Type) (any, error)
}

// capabilities is the optional interface a converter implements to tag itself
// as a reading converter, a writing converter, or both. A converter without it
// (or with both reporting false) still has its pairs extracted, but they are
// added to neither directional set.
type capabilities interface {
	IsReading() bool
	IsWriting() bool
}

// ConverterDescriptor is the uniform registration record derived from a
// converter object, produced once at construction time and never mutated.
type ConverterDescriptor struct {
	Pair      ConvertiblePair
	IsReading bool
	IsWriting bool
}

// extractDescriptors resolves the shape of a converter object into one
// descriptor per declared pair. Shape checks run in a fixed order so that an
// object implementing several shapes registers under the most expressive one.
func extractDescriptors(converter any) ([]ConverterDescriptor, error) {
	if converter == nil {
		return nil, errors.New("conversion: converter must not be nil")
	}

	var isReading, isWriting bool
	if caps, ok := converter.(capabilities); ok {
		isReading = caps.IsReading()
		isWriting = caps.IsWriting()
	}

	switch c := converter.(type) {
	case PairConverter:
		pairs := c.ConvertibleTypes()
		descriptors := make([]ConverterDescriptor, 0, len(pairs))
		for _, pair := range pairs {
			descriptors = append(descriptors, ConverterDescriptor{
				Pair:      pair,
				IsReading: isReading,
				IsWriting: isWriting,
			})
		}
		return descriptors, nil
	case ConverterFactory:
		return []ConverterDescriptor{{
			Pair:      NewConvertiblePair(c.SourceType(), c.TargetType()),
			IsReading: isReading,
			IsWriting: isWriting,
		}}, nil
	case Converter:
		return []ConverterDescriptor{{
			Pair:      NewConvertiblePair(c.SourceType(), c.TargetType()),
			IsReading: isReading,
			IsWriting: isWriting,
		}}, nil
	}

	return nil, fmtUnsupported(converter)
}

func fmtUnsupported(converter any) error {
	return fmt.Errorf("%w: %T", ErrUnsupportedConverter, converter)
}

// TypedConverter is the Converter built by NewConverter. Its source and target
// types are recovered from the type parameters, so no value inspection is
// needed at registration time.
type TypedConverter[S, T any] struct {
	fn      func(S) (T, error)
	reading bool
	writing bool
}

// NewConverter wraps a conversion function into a registrable converter.
// Tag the result with Reading and/or Writing before registering it; untagged
// converters are not added to either directional pair set.
func NewConverter[S, T any](fn func(S) (T, error)) *TypedConverter[S, T] {
	if fn == nil {
		panic("conversion: NewConverter requires a non-nil function")
	}
	return &TypedConverter[S, T]{fn: fn}
}

// Reading tags the converter for the read path (database value into domain
// value). Returns the receiver for chaining.
func (c *TypedConverter[S, T]) Reading() *TypedConverter[S, T] {
	c.reading = true
	return c
}

// Writing tags the converter for the write path (domain value into a
// database-native value). Returns the receiver for chaining.
func (c *TypedConverter[S, T]) Writing() *TypedConverter[S, T] {
	c.writing = true
	return c
}

func (c *TypedConverter[S, T]) IsReading() bool { return c.reading }
func (c *TypedConverter[S, T]) IsWriting() bool { return c.writing }

func (c *TypedConverter[S, T]) SourceType() reflect.Type { return TypeOf[S]() }
func (c *TypedConverter[S, T]) TargetType() reflect.Type { return TypeOf[T]() }

func (c *TypedConverter[S, T]) Convert(value any) (any, error) {
	source, ok := value.(S)
	if !ok {
		return nil, fmt.Errorf("conversion: expected value of type %s, got %T", TypeOf[S](), value)
	}
	return c.fn(source)
}

// TypedFactory is the ConverterFactory built by NewFactory. S is the source
// type, T the target family; requested targets must be assignable to T.
type TypedFactory[S, T any] struct {
	fn      func(target reflect.Type) (Converter, error)
	reading bool
	writing bool
}

// NewFactory wraps a converter-producing function into a registrable factory.
func NewFactory[S, T any](fn func(target reflect.Type) (Converter, error)) *TypedFactory[S, T] {
	if fn == nil {
		panic("conversion: NewFactory requires a non-nil function")
	}
	return &TypedFactory[S, T]{fn: fn}
}

// Reading tags the factory for the read path. Returns the receiver.
func (f *TypedFactory[S, T]) Reading() *TypedFactory[S, T] {
	f.reading = true
	return f
}

// Writing tags the factory for the write path. Returns the receiver.
func (f *TypedFactory[S, T]) Writing() *TypedFactory[S, T] {
	f.writing = true
	return f
}

func (f *TypedFactory[S, T]) IsReading() bool { return f.reading }
func (f *TypedFactory[S, T]) IsWriting() bool { return f.writing }

func (f *TypedFactory[S, T]) SourceType() reflect.Type { return TypeOf[S]() }
func (f *TypedFactory[S, T]) TargetType() reflect.Type { return TypeOf[T]() }

func (f *TypedFactory[S, T]) ConverterFor(target reflect.Type) (Converter, error) {
	if target == nil {
		return nil, errors.New("conversion: factory target type must not be nil")
	}
	if !target.AssignableTo(TypeOf[T]()) {
		return nil, fmt.Errorf("conversion: factory for family %s cannot produce %s", TypeOf[T](), target)
	}
	return f.fn(target)
}

// MultiConverter is the PairConverter built by NewPairConverter. It carries
// the declared pairs verbatim; callers decide which target to convert into.
type MultiConverter struct {
	pairs   []ConvertiblePair
	fn      func(value any, target reflect.Type) (any, error)
	reading bool
	writing bool
}

// NewPairConverter wraps a multi-pair conversion function and its declared
// pairs into a registrable converter.
func NewPairConverter(pairs []ConvertiblePair, fn func(value any, target reflect.Type) (any, error)) *MultiConverter {
	if fn == nil {
		panic("conversion: NewPairConverter requires a non-nil function")
	}
	return &MultiConverter{pairs: append([]ConvertiblePair(nil), pairs...), fn: fn}
}

// Reading tags the converter for the read path. Returns the receiver.
func (m *MultiConverter) Reading() *MultiConverter {
	m.reading = true
	return m
}

// Writing tags the converter for the write path. Returns the receiver.
func (m *MultiConverter) Writing() *MultiConverter {
	m.writing = true
	return m
}

func (m *MultiConverter) IsReading() bool { return m.reading }
func (m *MultiConverter) IsWriting() bool { return m.writing }

func (m *MultiConverter) ConvertibleTypes() []ConvertiblePair {
	return append([]ConvertiblePair(nil), m.pairs...)
}

func (m *MultiConverter) Convert(value any, target reflect.Type) (any, error) {
	return m.fn(value, target)
}
