// Package schema declares introspectable data shapes. A Schema validates
// values at the serialization boundary and renders itself as an OpenAPI
// schema for the generated document.
package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/minerdev/codenames-api/internal/openapi"
	"github.com/minerdev/codenames-api/pkg/validation"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	validation.UseJSONNames(v)
	return v
}

// Schema describes one struct shape.
type Schema struct {
	name string
	typ  reflect.Type
	doc  *openapi.Schema
}

// Of builds the schema of struct type T. It panics when T is not a struct.
func Of[T any](name string) *Schema {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		panic(fmt.Sprintf("schema: %s is not a struct", typ))
	}
	return &Schema{name: name, typ: typ, doc: buildObject(typ)}
}

// Name is the component name used in the OpenAPI document.
func (s *Schema) Name() string { return s.name }

// Type is the Go type the schema was built from.
func (s *Schema) Type() reflect.Type { return s.typ }

// OpenAPI returns the documentation form of the schema.
func (s *Schema) OpenAPI() *openapi.Schema { return s.doc }

// Validate checks that value is of the declared type (or a non-nil pointer
// to it) and satisfies every validate rule.
func (s *Schema) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return &ValidationError{Schema: s.name, Details: map[string]string{"payload": "is nil"}}
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != s.typ {
		got := "nil"
		if rv.IsValid() {
			got = rv.Type().String()
		}
		return &ValidationError{
			Schema:  s.name,
			Details: map[string]string{"payload": fmt.Sprintf("expected %s, got %s", s.typ, got)},
		}
	}
	if err := validate.Struct(rv.Interface()); err != nil {
		return &ValidationError{Schema: s.name, Details: validation.ToDetails(err), Err: err}
	}
	return nil
}

// ValidationError reports a value that does not conform to its schema.
type ValidationError struct {
	Schema  string
	Details map[string]string
	Err     error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Details[k])
	}
	return fmt.Sprintf("schema %s: validation failed: %s", e.Schema, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return e.Err }

func buildObject(typ reflect.Type) *openapi.Schema {
	out := &openapi.Schema{Type: "object", Properties: map[string]*openapi.Schema{}}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name := validation.JSONName(field)
		if name == "" {
			continue
		}
		out.Properties[name] = buildType(field.Type)
		if hasRule(field.Tag.Get("validate"), "required") {
			out.Required = append(out.Required, name)
		}
	}
	return out
}

func buildType(typ reflect.Type) *openapi.Schema {
	switch typ.Kind() {
	case reflect.Pointer:
		return buildType(typ.Elem())
	case reflect.String:
		return &openapi.Schema{Type: "string"}
	case reflect.Bool:
		return &openapi.Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &openapi.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &openapi.Schema{Type: "number"}
	case reflect.Slice, reflect.Array:
		return &openapi.Schema{Type: "array", Items: buildType(typ.Elem())}
	case reflect.Struct:
		return buildObject(typ)
	default:
		return &openapi.Schema{Type: "object"}
	}
}

func hasRule(tag, rule string) bool {
	for _, r := range strings.Split(tag, ",") {
		if strings.TrimSpace(r) == rule {
			return true
		}
	}
	return false
}
