package schema

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/atvirokodosprendimai/travelapi/internal/core/domain"
)

// emailPattern requires a local part, an "@" and a domain with at least one dot.
const emailPattern = `^[^@\s]+@[^@\s.]+(\.[^@\s.]+)+$`

var emailRe = regexp.MustCompile(emailPattern)

type ErrorKind string

const (
	MissingField  ErrorKind = "missing_field"
	TypeMismatch  ErrorKind = "type_mismatch"
	InvalidFormat ErrorKind = "invalid_format"
)

// ValidationError describes the first field that failed validation.
// Field is a path: nested sequence elements appear as "items[1].type".
// Expected holds the JSON type for TypeMismatch and the format name
// (email, enum, date) for InvalidFormat.
type ValidationError struct {
	Kind     ErrorKind
	Field    string
	Expected string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("%s: field required", e.Field)
	case TypeMismatch:
		return fmt.Sprintf("%s: expected %s", e.Field, e.Expected)
	default:
		return fmt.Sprintf("%s: invalid %s format", e.Field, e.Expected)
	}
}

func (e *ValidationError) under(prefix string) *ValidationError {
	return &ValidationError{Kind: e.Kind, Field: prefix + "." + e.Field, Expected: e.Expected}
}

// Input is an undecoded payload as produced by encoding/json.
type Input map[string]any

// Validate checks in against s and returns the normalized record.
//
// Required fields are checked for presence first, in declaration order, so a
// missing field is reported even when an earlier field is malformed. Values
// are then checked in declaration order. The first failure is returned.
func Validate(s *Schema, in Input) (Record, error) {
	for _, f := range s.Fields {
		if _, ok := in[f.Name]; f.Required && !ok {
			return nil, &ValidationError{Kind: MissingField, Field: f.Name}
		}
	}

	rec := make(Record, len(s.Fields))
	for _, f := range s.Fields {
		raw, ok := in[f.Name]
		if !ok || raw == nil {
			if f.Required {
				return nil, &ValidationError{Kind: TypeMismatch, Field: f.Name, Expected: f.Kind.JSONType()}
			}
			rec[f.Name] = defaultValue(f)
			continue
		}
		v, err := coerce(f, raw)
		if err != nil {
			return nil, err
		}
		rec[f.Name] = v
	}
	return rec, nil
}

func defaultValue(f Field) any {
	if f.Kind == KindRecords {
		return []Record{}
	}
	return nil
}

func coerce(f Field, raw any) (any, error) {
	if f.Kind == KindRecords {
		return coerceRecords(f, raw)
	}

	s, ok := raw.(string)
	if !ok {
		return nil, &ValidationError{Kind: TypeMismatch, Field: f.Name, Expected: f.Kind.JSONType()}
	}
	switch f.Kind {
	case KindEmail:
		if !emailRe.MatchString(s) {
			return nil, &ValidationError{Kind: InvalidFormat, Field: f.Name, Expected: "email"}
		}
	case KindEnum:
		if !slices.Contains(f.Enum, s) {
			return nil, &ValidationError{Kind: InvalidFormat, Field: f.Name, Expected: "enum"}
		}
	case KindDate:
		d, err := domain.ParseDate(s)
		if err != nil {
			return nil, &ValidationError{Kind: InvalidFormat, Field: f.Name, Expected: "date"}
		}
		return d, nil
	}
	return s, nil
}

func coerceRecords(f Field, raw any) (any, error) {
	elems, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Kind: TypeMismatch, Field: f.Name, Expected: "array"}
	}
	out := make([]Record, 0, len(elems))
	for i, el := range elems {
		path := f.Name + "[" + strconv.Itoa(i) + "]"
		in, ok := asInput(el)
		if !ok {
			return nil, &ValidationError{Kind: TypeMismatch, Field: path, Expected: "object"}
		}
		rec, err := Validate(f.Elem, in)
		if err != nil {
			if ve, ok := err.(*ValidationError); ok {
				return nil, ve.under(path)
			}
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func asInput(v any) (Input, bool) {
	switch m := v.(type) {
	case map[string]any:
		return Input(m), true
	case Input:
		return m, true
	default:
		return nil, false
	}
}
