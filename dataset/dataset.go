// Package dataset implements the tabular-dataset contract the resolution core
// hands its artifact to: schema-validated, immutable tables with row-level
// filtering and persistence. There is no inheritance chain; each concrete
// record type carries its own schema and the capabilities are plain
// functions and methods.
package dataset

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// FieldType is the logical type of a schema field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeFloat   FieldType = "float"
	TypeBool    FieldType = "boolean"
)

// Field describes one expected column.
type Field struct {
	Name     string
	Type     FieldType
	Nullable bool
}

// Schema is the ordered set of columns an artifact must carry.
type Schema struct {
	Fields []Field
}

// SchemaError reports a structural mismatch between a record type and its
// expected schema. Schema failures are contract violations: they propagate
// immediately and are never recovered.
type SchemaError struct {
	Missing    []string
	Unexpected []string
	Duplicated []string
	Mismatched []string
}

func (e *SchemaError) Error() string {
	parts := []string{}
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing fields: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected fields: %s", strings.Join(e.Unexpected, ", ")))
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, fmt.Sprintf("duplicated fields: %s", strings.Join(e.Duplicated, ", ")))
	}
	if len(e.Mismatched) > 0 {
		parts = append(parts, fmt.Sprintf("type mismatches: %s", strings.Join(e.Mismatched, ", ")))
	}

	return "dataset: schema validation failed: " + strings.Join(parts, "; ")
}

func (e *SchemaError) empty() bool {
	return len(e.Missing) == 0 && len(e.Unexpected) == 0 && len(e.Duplicated) == 0 && len(e.Mismatched) == 0
}

// Validate checks a record struct type against the schema: field presence,
// nullability, type, and duplication, using the struct's csv tags as column
// names. rec may be a struct value or a pointer to one.
func (s Schema) Validate(rec interface{}) error {
	t := reflect.TypeOf(rec)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("dataset: cannot validate non-struct type %s", t)
	}

	got := make(map[string]reflect.StructField)
	serr := &SchemaError{}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := columnName(f)
		if name == "" {
			continue
		}

		if _, ok := got[name]; ok {
			serr.Duplicated = append(serr.Duplicated, name)
			continue
		}
		got[name] = f
	}

	want := make(map[string]Field, len(s.Fields))
	for _, f := range s.Fields {
		want[f.Name] = f

		sf, ok := got[f.Name]
		if !ok {
			serr.Missing = append(serr.Missing, f.Name)
			continue
		}

		ft, nullable := fieldType(sf.Type)
		if ft != f.Type {
			serr.Mismatched = append(serr.Mismatched, fmt.Sprintf("%s is %s, want %s", f.Name, ft, f.Type))
		}
		if nullable && !f.Nullable {
			serr.Mismatched = append(serr.Mismatched, fmt.Sprintf("%s is nullable, want non-nullable", f.Name))
		}
	}

	for name := range got {
		if _, ok := want[name]; !ok {
			serr.Unexpected = append(serr.Unexpected, name)
		}
	}

	if serr.empty() {
		return nil
	}

	return serr
}

func columnName(f reflect.StructField) string {
	tag := f.Tag.Get("csv")
	if tag == "-" {
		return ""
	}
	if tag != "" {
		return strings.Split(tag, ",")[0]
	}

	return f.Name
}

var (
	nullStringType = reflect.TypeOf(null.String{})
	nullIntType    = reflect.TypeOf(null.Int{})
	nullFloatType  = reflect.TypeOf(null.Float{})
	nullBoolType   = reflect.TypeOf(null.Bool{})
)

func fieldType(t reflect.Type) (FieldType, bool) {
	switch t {
	case nullStringType:
		return TypeString, true
	case nullIntType:
		return TypeInteger, true
	case nullFloatType:
		return TypeFloat, true
	case nullBoolType:
		return TypeBool, true
	}

	switch t.Kind() {
	case reflect.String:
		return TypeString, false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger, false
	case reflect.Float32, reflect.Float64:
		return TypeFloat, false
	case reflect.Bool:
		return TypeBool, false
	}

	return FieldType(t.String()), false
}
