// Package conversion implements the custom conversion registry that sits
// between plain Go domain values and Cassandra column values.
//
// # Overview
//
// The package exports two main pieces:
//
//   - CustomConversions: an immutable registry of converter descriptors that
//     resolves, for a source type and an optional requested target type, which
//     registered conversion applies
//   - Service: a small conversion-execution engine that actually runs
//     conversions, populated from the registry via RegisterConvertersIn
//
// A registry is built once from an ordered list of converter objects. User
// converters come first, then the built-in groups (UUID, temporal, net) in a
// fixed sequence, so user converters take precedence: resolution scans pairs
// in insertion order and the first match wins.
//
// # Converter shapes
//
// Three shapes are recognized at registration time:
//
//   - Converter: one source type, one target type
//   - ConverterFactory: a source type and a target family; concrete targets
//     are produced on demand
//   - PairConverter: an explicit list of (source, target) pairs
//
// The generic constructors NewConverter, NewFactory and NewPairConverter
// recover source and target types from their type parameters:
//
//	uuidToText := conversion.NewConverter(func(id uuid.UUID) (string, error) {
//		return id.String(), nil
//	}).Writing()
//
//	conversions, err := conversion.New([]any{uuidToText})
//
// A converter tags itself for the read path, the write path, or both. An
// untagged converter still passes shape validation but lands in neither
// directional pair set.
//
// # Resolution and caching
//
// CustomWriteTarget, CustomWriteTargetTo and CustomReadTarget look for a
// matching pair using assignability, not identity: a registered interface
// source type matches every type implementing it. An exact pair match for the
// requested target short-circuits the scan. Outcomes, including "no conversion
// exists", are memoized in concurrent caches that live as long as the
// registry; after warm-up every lookup is a single map read.
//
// The registry itself never blocks and holds no locks around the immutable
// pair sets. Publish it after construction and share it freely across
// goroutines.
//
// # Simple types
//
// Source types of writing conversions are "custom simple types": the mapper
// can store them after one conversion, with no nested decomposition. The
// SimpleTypeHolder combines those with the types the driver marshals natively,
// and IsSimpleType answers for both.
//
// # Diagnostics
//
// Registering a reading converter whose source is not driver-native, or a
// writing converter whose target is not driver-native, is suspicious but
// permitted. The registry reports these through an injected Diagnostics sink
// instead of a process-wide logger; LogrusDiagnostics adapts a logrus logger.
//
// # See Also
//
// For executing CQL and mapping row values through a registry, see the
// cassandra package.
package conversion
