package codec

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/leofalp/aicall/internal/jsonschema"
)

// Schema validates a decoded value of type T. Implementations receive the
// value after structural JSON decoding has already succeeded, so they only
// need to express semantic constraints (required fields, allowed values,
// cross-field rules).
type Schema[T any] interface {
	Validate(value T) error
}

// SchemaFunc adapts a plain function to the [Schema] interface.
type SchemaFunc[T any] func(value T) error

func (f SchemaFunc[T]) Validate(value T) error {
	return f(value)
}

// Any returns a schema that accepts every structurally valid document. Use it
// when JSON well-formedness is the only requirement.
func Any[T any]() Schema[T] {
	return SchemaFunc[T](func(T) error { return nil })
}

// StructSchema derives a [Schema] from the struct type T by reflection.
// Fields are required unless they are pointers or carry the json omitempty
// option; a `jsonschema:"required"` tag forces requirement. Validation
// rejects required fields left at their decoded zero value for kinds where
// zero means absent: empty strings, nil slices, nil maps, and nil pointers.
// Numeric and boolean fields are structural-only since their zero values are
// legitimate data. Only top-level fields are checked.
//
// StructSchema panics if T is not a struct (or pointer to struct); the type
// argument is a compile-time choice, so misuse is a programming error.
func StructSchema[T any]() Schema[T] {
	doc, err := jsonschema.Generate[T]()
	if err != nil {
		panic("codec: " + err.Error())
	}

	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	index := make(map[string]int)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("json") == "-" {
			continue
		}
		index[jsonFieldName(field)] = i
	}

	return &structSchema[T]{required: doc.Required, fieldIndex: index}
}

type structSchema[T any] struct {
	required   []string
	fieldIndex map[string]int
}

func (s *structSchema[T]) Validate(value T) error {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return fmt.Errorf("required object is null")
		}
		v = v.Elem()
	}

	var missing []string
	for _, name := range s.required {
		i, ok := s.fieldIndex[name]
		if !ok {
			continue
		}
		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			if field.String() == "" {
				missing = append(missing, name)
			}
		case reflect.Slice, reflect.Map, reflect.Ptr, reflect.Interface:
			if field.IsNil() {
				missing = append(missing, name)
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// jsonFieldName resolves the wire name of a struct field the same way
// encoding/json does: the json tag when present, the Go name otherwise.
func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	if commaIdx := strings.Index(tag, ","); commaIdx != -1 {
		if name := tag[:commaIdx]; name != "" {
			return name
		}
		return field.Name
	}
	return tag
}
