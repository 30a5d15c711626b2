package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
)

var fieldPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Document is a raw stored mapping. Values are whatever encoding/json
// produced when the document was read back.
type Document map[string]any

// ToDocument converts a serializable value into its canonical document form.
func ToDocument(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("decode document: %T is not an object", v)
	}
	return doc, nil
}

// String returns the string stored under key, or "" when it is absent or not a string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// OptString returns nil unless a string is stored under key.
func (d Document) OptString(key string) *string {
	s, ok := d[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// Objects returns the object elements of the sequence stored under key.
// Elements that are not objects are skipped.
func (d Document) Objects(key string) []Document {
	raw, ok := d[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Document, 0, len(raw))
	for _, el := range raw {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Document(m))
	}
	return out
}

// Filter is an exact-match conjunction over top-level document fields.
type Filter map[string]string

func (f Filter) Validate() error {
	for field := range f {
		if !fieldPattern.MatchString(field) {
			return ErrInvalidFilter
		}
	}
	return nil
}

// Fields returns the filter's field names in a stable order.
func (f Filter) Fields() []string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
