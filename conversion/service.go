package conversion

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNoConverter is returned by Service.Convert when no registered converter
// covers the requested conversion.
var ErrNoConverter = errors.New("conversion: no converter registered for requested conversion")

// Interface assertion to ensure Service can be fed by RegisterConvertersIn.
var _ ConverterRegistry = (*Service)(nil)

type executable func(value any) (any, error)

// Service is a minimal conversion-execution engine. It accepts converters by
// shape through the ConverterRegistry port and executes conversions by exact
// pair, by assignability over the registered pairs, or through a factory.
//
// Re-registering a pair replaces the previous converter, which is why the
// registry hands converters over in reverse registration order: defaults go
// in first, user converters last, and the user converters win.
type Service struct {
	converters map[ConvertiblePair]executable
	pairs      []ConvertiblePair
	factories  []ConverterFactory
}

// NewService creates an empty conversion service.
func NewService() *Service {
	return &Service{converters: make(map[ConvertiblePair]executable)}
}

// AddConverter registers a single-pair converter.
func (s *Service) AddConverter(c Converter) {
	pair := NewConvertiblePair(c.SourceType(), c.TargetType())
	s.put(pair, c.Convert)
}

// AddConverterFactory registers a converter factory. Later factories take
// precedence over earlier ones for overlapping families.
func (s *Service) AddConverterFactory(f ConverterFactory) {
	s.factories = append(s.factories, f)
}

// AddPairConverter registers a converter under each of its declared pairs.
func (s *Service) AddPairConverter(p PairConverter) {
	for _, pair := range p.ConvertibleTypes() {
		target := pair.Target
		s.put(pair, func(value any) (any, error) {
			return p.Convert(value, target)
		})
	}
}

func (s *Service) put(pair ConvertiblePair, fn executable) {
	if _, exists := s.converters[pair]; !exists {
		s.pairs = append(s.pairs, pair)
	}
	s.converters[pair] = fn
}

// CanConvert reports whether Convert would find a converter from source to
// target without executing anything.
func (s *Service) CanConvert(source, target reflect.Type) bool {
	if source == nil || target == nil {
		return false
	}
	if source.AssignableTo(target) {
		return true
	}
	if _, ok := s.converters[ConvertiblePair{Source: source, Target: target}]; ok {
		return true
	}
	for _, pair := range s.pairs {
		if source.AssignableTo(pair.Source) && pair.Target.AssignableTo(target) {
			return true
		}
	}
	for _, factory := range s.factories {
		if source.AssignableTo(factory.SourceType()) && target.AssignableTo(factory.TargetType()) {
			return true
		}
	}
	return false
}

// Convert converts value into the target type. Resolution order: identity,
// exact registered pair, first assignability match over registered pairs in
// registration order, then factories from most recently registered backwards.
func (s *Service) Convert(value any, target reflect.Type) (any, error) {
	if value == nil {
		return nil, errors.New("conversion: cannot convert a nil value")
	}
	if target == nil {
		return nil, errors.New("conversion: target type must not be nil")
	}

	source := reflect.TypeOf(value)
	if source.AssignableTo(target) {
		return value, nil
	}

	if fn, ok := s.converters[ConvertiblePair{Source: source, Target: target}]; ok {
		return fn(value)
	}

	for _, pair := range s.pairs {
		if source.AssignableTo(pair.Source) && pair.Target.AssignableTo(target) {
			return s.converters[pair](value)
		}
	}

	for i := len(s.factories) - 1; i >= 0; i-- {
		factory := s.factories[i]
		if !source.AssignableTo(factory.SourceType()) || !target.AssignableTo(factory.TargetType()) {
			continue
		}
		converter, err := factory.ConverterFor(target)
		if err != nil {
			return nil, fmt.Errorf("conversion: factory for %s failed: %w", target, err)
		}
		return converter.Convert(value)
	}

	return nil, fmt.Errorf("%w: %s -> %s", ErrNoConverter, source, target)
}
