package cassandra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-cassandra-mapper/conversion"
)

// ErrNotFound is returned by SelectOne when the statement matched no rows.
var ErrNotFound = errors.New("cassandra: no rows returned")

// Row is a single result row keyed by column name. Values carry the
// driver-native types; use ReadColumn or ScanColumn to map them into domain
// types through the conversion registry.
type Row map[string]any

// Template executes CQL against a session and maps values through a custom
// conversion registry: bound values with a custom write target are converted
// before they reach the driver, and result columns can be read back into
// domain types when a reading conversion exists.
type Template struct {
	session     Session
	conversions *conversion.CustomConversions
	service     *conversion.Service
	log         logrus.FieldLogger
}

// TemplateOption customizes template construction.
type TemplateOption func(*Template)

// WithLogger sets the logger used for non-fatal template events.
func WithLogger(log logrus.FieldLogger) TemplateOption {
	return func(t *Template) {
		if log != nil {
			t.log = log
		}
	}
}

// NewTemplate builds a template over the given session and conversion
// registry. The registry's converters are loaded into a private execution
// service; a converter with an unrecognized shape aborts construction.
func NewTemplate(session Session, conversions *conversion.CustomConversions, opts ...TemplateOption) (*Template, error) {
	if session == nil {
		return nil, errors.New("cassandra: session must not be nil")
	}
	if conversions == nil {
		return nil, errors.New("cassandra: conversion registry must not be nil")
	}

	service := conversion.NewService()
	if err := conversions.RegisterConvertersIn(service); err != nil {
		return nil, err
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	t := &Template{
		session:     session,
		conversions: conversions,
		service:     service,
		log:         discard,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Conversions returns the registry backing this template.
func (t *Template) Conversions() *conversion.CustomConversions {
	return t.conversions
}

// Execute runs a statement that produces no rows, converting bound values
// first.
func (t *Template) Execute(ctx context.Context, stmt string, values ...any) error {
	bound, err := t.bindValues(values)
	if err != nil {
		return err
	}
	return t.session.Exec(ctx, stmt, bound...)
}

// Select runs a query and returns all matching rows.
func (t *Template) Select(ctx context.Context, stmt string, values ...any) ([]Row, error) {
	bound, err := t.bindValues(values)
	if err != nil {
		return nil, err
	}

	raw, err := t.session.Query(ctx, stmt, bound...)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(raw))
	for i, r := range raw {
		rows[i] = Row(r)
	}
	return rows, nil
}

// SelectOne runs a query expected to match at most one row. ErrNotFound is
// returned when it matches none; extra rows are ignored with a log entry.
func (t *Template) SelectOne(ctx context.Context, stmt string, values ...any) (Row, error) {
	rows, err := t.Select(ctx, stmt, values...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	if len(rows) > 1 {
		t.log.Warnf("cassandra: SelectOne matched %d rows, using the first", len(rows))
	}
	return rows[0], nil
}

// ReadColumn maps a column value into the target type. Values already
// assignable to the target pass through; otherwise a reading conversion must
// be registered for the pair.
func (t *Template) ReadColumn(row Row, column string, target reflect.Type) (any, error) {
	value, ok := row[column]
	if !ok {
		return nil, fmt.Errorf("cassandra: column %q not present in row", column)
	}
	if value == nil {
		return nil, nil
	}

	source := reflect.TypeOf(value)
	if target == nil || source.AssignableTo(target) {
		return value, nil
	}

	if resolved, ok := t.conversions.CustomReadTarget(source, target); ok {
		return t.service.Convert(value, resolved)
	}
	return nil, fmt.Errorf("cassandra: no reading conversion from %s to %s for column %q", source, target, column)
}

// ScanColumn is a type-safe wrapper around Template.ReadColumn.
func ScanColumn[T any](t *Template, row Row, column string) (T, error) {
	var zero T

	value, err := t.ReadColumn(row, column, conversion.TypeOf[T]())
	if err != nil {
		return zero, err
	}
	if value == nil {
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cassandra: column %q resolved to %T, want %s", column, value, conversion.TypeOf[T]())
	}
	return typed, nil
}

// bindValues converts every bound value that has a custom write target.
// Values without one are passed to the driver untouched.
func (t *Template) bindValues(values []any) ([]any, error) {
	if len(values) == 0 {
		return values, nil
	}

	out := make([]any, len(values))
	for i, value := range values {
		if value == nil {
			out[i] = nil
			continue
		}

		source := reflect.TypeOf(value)
		target, ok := t.conversions.CustomWriteTarget(source)
		if !ok {
			out[i] = value
			continue
		}

		converted, err := t.service.Convert(value, target)
		if err != nil {
			return nil, fmt.Errorf("cassandra: converting bound value %d (%s): %w", i, source, err)
		}
		out[i] = converted
	}
	return out, nil
}
