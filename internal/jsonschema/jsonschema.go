package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema describes the expected shape of a JSON document. It follows the JSON
// Schema vocabulary closely enough to be rendered for documentation and to
// drive required-field validation of decoded API payloads.
type Schema struct {
	// Type specifies the data type (e.g., "object", "array", "string", "number")
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of an object, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// For array types, defines the schema of items in the array
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties controls whether properties not defined in Properties are allowed
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Enum lists the allowed values, converted to the field's natural type
	Enum []any `json:"enum,omitempty"`
}

// Generate builds a Schema from the struct type T by reflection. Field names
// come from json tags when present. A field is required unless it is a
// pointer or carries the omitempty option; a `jsonschema:"required"` tag
// forces it, `jsonschema:"description=..."` attaches documentation, and
// repeated `jsonschema:"enum=..."` entries enumerate the allowed values.
// Recursive types are cut off with a bare object schema rather than a
// reference, which is sufficient for the flat error envelopes this library
// validates.
func Generate[T any]() (*Schema, error) {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("jsonschema: cannot generate schema for non-struct type %s", t)
	}
	return structSchema(t, make(map[reflect.Type]bool))
}

func structSchema(t reflect.Type, visited map[reflect.Type]bool) (*Schema, error) {
	if visited[t] {
		// Cycle guard: recursion collapses to an untyped object.
		return &Schema{Type: "object"}, nil
	}
	visited[t] = true
	defer delete(visited, t)

	schema := &Schema{Type: "object", Properties: map[string]*Schema{}}
	required := make([]string, 0)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := field.Name
		isOmitEmpty := false
		if jsonTag != "" {
			if commaIdx := strings.Index(jsonTag, ","); commaIdx != -1 {
				if name := jsonTag[:commaIdx]; name != "" {
					fieldName = name
				}
				isOmitEmpty = strings.Contains(jsonTag[commaIdx:], "omitempty")
			} else {
				fieldName = jsonTag
			}
		}

		propSchema, err := fieldSchema(field.Type, visited)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		isRequiredByTag, err := applyTag(field.Type, field.Tag, propSchema)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		schema.Properties[fieldName] = propSchema

		if (field.Type.Kind() != reflect.Ptr && !isOmitEmpty) || isRequiredByTag {
			required = append(required, fieldName)
		}
	}

	if len(required) > 0 {
		schema.Required = required
	}
	return schema, nil
}

// applyTag parses the jsonschema struct tag. It understands
// "description=...", repeatable "enum=..." entries, and the bare "required"
// marker, and reports whether the field was forced required.
func applyTag(fieldType reflect.Type, tag reflect.StructTag, schema *Schema) (bool, error) {
	jsonSchemaTag := tag.Get("jsonschema")
	if jsonSchemaTag == "" {
		return false, nil
	}

	isRequired := false
	for _, item := range strings.Split(jsonSchemaTag, ",") {
		switch kv := strings.SplitN(item, "=", 2); {
		case len(kv) == 2 && kv[0] == "description":
			schema.Description = kv[1]
		case len(kv) == 2 && kv[0] == "enum":
			value, err := enumValue(fieldType, kv[1])
			if err != nil {
				return false, err
			}
			schema.Enum = append(schema.Enum, value)
		case kv[0] == "required":
			isRequired = true
		}
	}
	return isRequired, nil
}

// enumValue converts a tag literal to the field's kind so enum entries render
// with their natural JSON type.
func enumValue(t reflect.Type, raw string) (any, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return raw, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not an integer: %w", raw, err)
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not a number: %w", raw, err)
		}
		return v, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not a bool: %w", raw, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("enum tag unsupported for %s fields", t.Kind())
	}
}

func fieldSchema(t reflect.Type, visited map[reflect.Type]bool) (*Schema, error) {
	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil
	case reflect.Slice, reflect.Array:
		items, err := fieldSchema(t.Elem(), visited)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case reflect.Map:
		values, err := fieldSchema(t.Elem(), visited)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: values}, nil
	case reflect.Ptr:
		return fieldSchema(t.Elem(), visited)
	case reflect.Struct:
		return structSchema(t, visited)
	default:
		return &Schema{Type: "object"}, nil
	}
}

// JsonString converts the Schema to its JSON representation.
// indent: optional bool parameter. If true, formats JSON with indentation.
// If false or omitted, returns compact JSON.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	shouldIndent := false
	if len(indent) > 0 {
		shouldIndent = indent[0]
	}

	var jsonBytes []byte
	var err error
	if shouldIndent {
		jsonBytes, err = json.MarshalIndent(s, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// String returns the compact JSON representation of the schema.
// Returns an error message if marshalling fails.
func (s *Schema) String() string {
	jsonStr, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return jsonStr
}
