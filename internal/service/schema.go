package service

import "fmt"

// Kind is the expected type of a schema field.
type Kind string

// Field kinds.
const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindList   Kind = "list"
)

// Field declares one parameter of a service call.
type Field struct {
	Name     string
	Kind     Kind
	Required bool

	// Default is applied when the field is absent and not required.
	// Nil means no default.
	Default any

	// Min and Max bound int and float fields when non-nil.
	Min *float64
	Max *float64
}

// Schema is the declared parameter set of a service call.
type Schema struct {
	Fields []Field
}

// NewSchema builds a schema from field declarations.
func NewSchema(fields ...Field) Schema {
	return Schema{Fields: fields}
}

// Ptr returns a pointer to v, for inline Min/Max bounds.
func Ptr(v float64) *float64 { return &v }

// Apply validates params against the schema and returns a new map with
// defaults filled in. The input map is not modified.
//
// Validation order per field: presence (ErrMissingField), type
// (ErrInvalidField), range (ErrOutOfRange). Parameters not declared in the
// schema are rejected with ErrInvalidField.
func (s Schema) Apply(params map[string]any) (map[string]any, error) {
	declared := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		declared[f.Name] = true
	}
	for name := range params {
		if !declared[name] {
			return nil, fmt.Errorf("%w: unknown parameter %q", ErrInvalidField, name)
		}
	}

	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		raw, present := params[f.Name]
		if !present {
			if f.Required {
				return nil, fmt.Errorf("%w: %q", ErrMissingField, f.Name)
			}
			if f.Default != nil {
				out[f.Name] = f.Default
			}
			continue
		}

		value, err := coerce(f, raw)
		if err != nil {
			return nil, err
		}
		out[f.Name] = value
	}
	return out, nil
}

// coerce checks the value against the field's kind and bounds.
// JSON decoding delivers all numbers as float64, so int fields accept
// float64 values without a fractional part.
func coerce(f Field, raw any) (any, error) {
	switch f.Kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, typeError(f, raw)
		}
		return s, nil

	case KindInt:
		var n int64
		switch v := raw.(type) {
		case int:
			n = int64(v)
		case int64:
			n = v
		case float64:
			if v != float64(int64(v)) {
				return nil, typeError(f, raw)
			}
			n = int64(v)
		default:
			return nil, typeError(f, raw)
		}
		if err := checkRange(f, float64(n)); err != nil {
			return nil, err
		}
		return int(n), nil

	case KindFloat:
		var n float64
		switch v := raw.(type) {
		case float64:
			n = v
		case int:
			n = float64(v)
		case int64:
			n = float64(v)
		default:
			return nil, typeError(f, raw)
		}
		if err := checkRange(f, n); err != nil {
			return nil, err
		}
		return n, nil

	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, typeError(f, raw)
		}
		return b, nil

	case KindList:
		switch v := raw.(type) {
		case []any:
			return v, nil
		case []string:
			out := make([]any, len(v))
			for i, s := range v {
				out[i] = s
			}
			return out, nil
		default:
			return nil, typeError(f, raw)
		}

	default:
		return nil, fmt.Errorf("%w: field %q has unknown kind %q", ErrInvalidField, f.Name, f.Kind)
	}
}

func typeError(f Field, raw any) error {
	return fmt.Errorf("%w: %q expects %s, got %T", ErrInvalidField, f.Name, f.Kind, raw)
}

func checkRange(f Field, n float64) error {
	if f.Min != nil && n < *f.Min {
		return fmt.Errorf("%w: %q = %v, minimum %v", ErrOutOfRange, f.Name, n, *f.Min)
	}
	if f.Max != nil && n > *f.Max {
		return fmt.Errorf("%w: %q = %v, maximum %v", ErrOutOfRange, f.Name, n, *f.Max)
	}
	return nil
}
