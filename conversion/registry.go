package conversion

import (
	"reflect"

	"github.com/goliatone/go-cassandra-mapper/internal/typecache"
)

const (
	readConverterNotSimple  = "registering converter from %s to %s as reading converter although it doesn't convert from a Cassandra supported type; check the capability tags on the converter"
	writeConverterNotSimple = "registering converter from %s to %s as writing converter although it doesn't convert to a Cassandra supported type; check the capability tags on the converter"
)

// CustomConversions captures the custom converters known to an object mapper.
// It essentially builds up two ordered sets of type pairs Cassandra values can
// be converted from and into. Source types of writing conversions are treated
// as simple: they need neither deeper inspection nor nested mapping, so the
// registry also acts as the factory for the SimpleTypeHolder.
//
// A registry is constructed once and is immutable afterwards; the resolution
// caches are the only mutable state and are safe for concurrent use.
type CustomConversions struct {
	readingPairs []ConvertiblePair
	writingPairs []ConvertiblePair
	readingSet   map[ConvertiblePair]struct{}
	writingSet   map[ConvertiblePair]struct{}

	customSimpleTypes map[reflect.Type]struct{}
	simpleTypes       *SimpleTypeHolder

	// flattened converter list in reverse registration order, see
	// RegisterConvertersIn
	converters []any

	readTargets     *typecache.Cache[ConvertiblePair]
	writeTargets    *typecache.Cache[ConvertiblePair]
	rawWriteTargets *typecache.Cache[reflect.Type]

	diag Diagnostics
}

// Option customizes registry construction.
type Option func(*CustomConversions)

// WithDiagnostics injects the sink that receives non-fatal registration
// warnings. The default sink discards them.
func WithDiagnostics(d Diagnostics) Option {
	return func(c *CustomConversions) {
		if d != nil {
			c.diag = d
		}
	}
}

// New builds a registry from the given converters. User converters are
// registered first and the built-in groups are appended after them, so user
// converters override the defaults: pair iteration order is registration
// order and resolution takes the first match.
//
// Construction fails on the first converter that matches none of the three
// recognized shapes; there is no partially constructed registry.
func New(converters []any, opts ...Option) (*CustomConversions, error) {
	c := &CustomConversions{
		readingSet:        make(map[ConvertiblePair]struct{}),
		writingSet:        make(map[ConvertiblePair]struct{}),
		customSimpleTypes: make(map[reflect.Type]struct{}),
		readTargets:       typecache.New[ConvertiblePair](),
		writeTargets:      typecache.New[ConvertiblePair](),
		rawWriteTargets:   typecache.New[reflect.Type](),
		diag:              nopDiagnostics{},
	}
	for _, opt := range opts {
		opt(c)
	}

	builtin := builtinConverters()
	toRegister := make([]any, 0, len(converters)+len(builtin))
	toRegister = append(toRegister, converters...)
	toRegister = append(toRegister, builtin...)

	for _, converter := range toRegister {
		descriptors, err := extractDescriptors(converter)
		if err != nil {
			return nil, err
		}
		for _, descriptor := range descriptors {
			c.register(descriptor)
		}
	}

	// Reversed so that execution engines fed via RegisterConvertersIn see the
	// built-in defaults first and user converters last, letting the user
	// registrations override them.
	c.converters = make([]any, len(toRegister))
	for i, converter := range toRegister {
		c.converters[len(toRegister)-1-i] = converter
	}

	custom := make([]reflect.Type, 0, len(c.customSimpleTypes))
	for t := range c.customSimpleTypes {
		custom = append(custom, t)
	}
	c.simpleTypes = NewSimpleTypeHolder(custom...)

	return c, nil
}

// register folds one descriptor into the directional pair sets. A descriptor
// that is neither reading nor writing is dropped from both sets; its pair was
// still extracted, which keeps shape validation in place.
func (c *CustomConversions) register(descriptor ConverterDescriptor) {
	pair := descriptor.Pair

	if descriptor.IsReading {
		if _, seen := c.readingSet[pair]; !seen {
			c.readingSet[pair] = struct{}{}
			c.readingPairs = append(c.readingPairs, pair)
		}
		if !isCassandraSimpleType(pair.Source) {
			c.diag.Warnf(readConverterNotSimple, pair.Source, pair.Target)
		}
	}

	if descriptor.IsWriting {
		if _, seen := c.writingSet[pair]; !seen {
			c.writingSet[pair] = struct{}{}
			c.writingPairs = append(c.writingPairs, pair)
		}
		c.customSimpleTypes[pair.Source] = struct{}{}
		if !isCassandraSimpleType(pair.Target) {
			c.diag.Warnf(writeConverterNotSimple, pair.Source, pair.Target)
		}
	}
}

// SimpleTypeHolder returns the holder seeded with the driver-native types and
// extended with the custom simple types collected at construction.
func (c *CustomConversions) SimpleTypeHolder() *SimpleTypeHolder {
	return c.simpleTypes
}

// IsSimpleType reports whether the given type is considered simple: either
// driver-native or covered by a registered writing converter.
func (c *CustomConversions) IsSimpleType(t reflect.Type) bool {
	return c.simpleTypes.IsSimpleType(t)
}

// CustomWriteTarget returns the type a value of sourceType should be
// converted into before storage, if a custom writing conversion is
// registered. The second return is false when no conversion exists.
func (c *CustomConversions) CustomWriteTarget(sourceType reflect.Type) (reflect.Type, bool) {
	requireSource(sourceType)
	return c.rawWriteTargets.LoadOrCompute(sourceType, func() reflect.Type {
		return customTarget(sourceType, nil, c.writingPairs, c.writingSet)
	})
}

// CustomWriteTargetTo resolves a write conversion toward a requested target
// type. The returned type may be less specific than the requested one when
// only an assignability match exists. A nil requested target delegates to
// CustomWriteTarget.
func (c *CustomConversions) CustomWriteTargetTo(sourceType, requestedTargetType reflect.Type) (reflect.Type, bool) {
	if requestedTargetType == nil {
		return c.CustomWriteTarget(sourceType)
	}
	requireSource(sourceType)

	key := ConvertiblePair{Source: sourceType, Target: requestedTargetType}
	return c.writeTargets.LoadOrCompute(key, func() reflect.Type {
		return customTarget(sourceType, requestedTargetType, c.writingPairs, c.writingSet)
	})
}

// CustomReadTarget resolves a reading conversion from a database-native source
// type toward a requested domain target type. Both arguments are required; a
// nil requested target resolves to nothing without consulting the cache.
func (c *CustomConversions) CustomReadTarget(sourceType, requestedTargetType reflect.Type) (reflect.Type, bool) {
	if requestedTargetType == nil {
		return nil, false
	}
	requireSource(sourceType)

	key := ConvertiblePair{Source: sourceType, Target: requestedTargetType}
	return c.readTargets.LoadOrCompute(key, func() reflect.Type {
		return customTarget(sourceType, requestedTargetType, c.readingPairs, c.readingSet)
	})
}

// HasCustomWriteTarget reports whether any writing conversion covers
// sourceType.
func (c *CustomConversions) HasCustomWriteTarget(sourceType reflect.Type) bool {
	_, ok := c.CustomWriteTarget(sourceType)
	return ok
}

// HasCustomWriteTargetTo reports whether a writing conversion from sourceType
// toward requestedTargetType exists.
func (c *CustomConversions) HasCustomWriteTargetTo(sourceType, requestedTargetType reflect.Type) bool {
	_, ok := c.CustomWriteTargetTo(sourceType, requestedTargetType)
	return ok
}

// HasCustomReadTarget reports whether a reading conversion from sourceType
// toward requestedTargetType exists.
func (c *CustomConversions) HasCustomReadTarget(sourceType, requestedTargetType reflect.Type) bool {
	_, ok := c.CustomReadTarget(sourceType, requestedTargetType)
	return ok
}

// ConverterRegistry is the port into an external conversion-execution engine.
// RegisterConvertersIn dispatches every known converter into it by shape.
type ConverterRegistry interface {
	AddConverter(c Converter)
	AddConverterFactory(f ConverterFactory)
	AddPairConverter(p PairConverter)
}

// RegisterConvertersIn populates the given engine with every registered
// converter, in reverse registration order. A converter may register under
// more than one shape; one matching none is a hard failure.
func (c *CustomConversions) RegisterConvertersIn(registry ConverterRegistry) error {
	for _, converter := range c.converters {
		added := false

		if pc, ok := converter.(PairConverter); ok {
			registry.AddPairConverter(pc)
			added = true
		}
		if factory, ok := converter.(ConverterFactory); ok {
			registry.AddConverterFactory(factory)
			added = true
		}
		if conv, ok := converter.(Converter); ok {
			registry.AddConverter(conv)
			added = true
		}

		if !added {
			return fmtUnsupported(converter)
		}
	}
	return nil
}

// customTarget inspects the given pairs for one whose source is compatible
// with sourceType, checking target assignability when a target is requested.
// An exact pair match short-circuits the scan; otherwise the first match in
// insertion order wins. Pure: reads pairs, mutates nothing.
func customTarget(sourceType, requestedTargetType reflect.Type, pairs []ConvertiblePair, exact map[ConvertiblePair]struct{}) reflect.Type {
	if requestedTargetType != nil {
		if _, ok := exact[ConvertiblePair{Source: sourceType, Target: requestedTargetType}]; ok {
			return requestedTargetType
		}
	}

	for _, pair := range pairs {
		if !sourceType.AssignableTo(pair.Source) {
			continue
		}
		if requestedTargetType == nil || requestedTargetType.AssignableTo(pair.Target) {
			return pair.Target
		}
	}

	return nil
}

// requireSource enforces the resolution contract: a missing source type is a
// programming error, not a recoverable condition.
func requireSource(sourceType reflect.Type) {
	if sourceType == nil {
		panic("conversion: source type must not be nil")
	}
}
