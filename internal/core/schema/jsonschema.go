package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

const datePattern = `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`

// JSONSchema renders s as a draft 7 JSON Schema document.
func JSONSchema(s *Schema) map[string]any {
	doc := objectSchema(s)
	doc["$schema"] = "http://json-schema.org/draft-07/schema#"
	doc["title"] = s.Name
	return doc
}

func objectSchema(s *Schema) map[string]any {
	props := make(map[string]any, len(s.Fields))
	required := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		props[f.Name] = fieldSchema(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func fieldSchema(f Field) map[string]any {
	out := map[string]any{}
	if f.Required {
		out["type"] = f.Kind.JSONType()
	} else {
		out["type"] = []string{f.Kind.JSONType(), "null"}
	}
	if f.Description != "" {
		out["description"] = f.Description
	}

	switch f.Kind {
	case KindEmail:
		// No "format": format email parses addresses more strictly than emailPattern.
		out["pattern"] = emailPattern
	case KindDate:
		out["format"] = "date"
		out["pattern"] = datePattern
	case KindEnum:
		values := make([]any, 0, len(f.Enum)+1)
		for _, v := range f.Enum {
			values = append(values, v)
		}
		if !f.Required {
			values = append(values, nil)
		}
		out["enum"] = values
	case KindRecords:
		out["items"] = objectSchema(f.Elem)
	}
	return out
}

// Catalog holds the compiled JSON Schema of every entity, keyed by collection.
type Catalog struct {
	docs     map[string]json.RawMessage
	compiled map[string]*santhosh.Schema
}

func NewCatalog(schemas ...*Schema) (*Catalog, error) {
	if len(schemas) == 0 {
		schemas = All()
	}
	c := &Catalog{
		docs:     make(map[string]json.RawMessage, len(schemas)),
		compiled: make(map[string]*santhosh.Schema, len(schemas)),
	}
	for _, s := range schemas {
		doc, err := json.Marshal(JSONSchema(s))
		if err != nil {
			return nil, fmt.Errorf("encode %s schema: %w", s.Name, err)
		}
		compiled, err := compile(s.Collection(), doc)
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", s.Name, err)
		}
		c.docs[s.Collection()] = doc
		c.compiled[s.Collection()] = compiled
	}
	return c, nil
}

func compile(name string, doc []byte) (*santhosh.Schema, error) {
	compiler := santhosh.NewCompiler()
	compiler.Draft = santhosh.Draft7
	compiler.AssertFormat = true
	url := name + ".json"
	if err := compiler.AddResource(url, bytes.NewReader(doc)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

// Document returns the rendered JSON Schema for a collection.
func (c *Catalog) Document(collection string) (json.RawMessage, bool) {
	doc, ok := c.docs[strings.ToLower(collection)]
	return doc, ok
}

// Conforms checks a decoded JSON value against the collection's JSON Schema.
func (c *Catalog) Conforms(collection string, v any) error {
	sch, ok := c.compiled[strings.ToLower(collection)]
	if !ok {
		return fmt.Errorf("no schema for collection %q", collection)
	}
	if err := sch.Validate(v); err != nil {
		var ve *santhosh.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%s document: %s", collection, strings.Join(leafMessages(ve), "; "))
		}
		return err
	}
	return nil
}

func leafMessages(ve *santhosh.ValidationError) []string {
	if len(ve.Causes) == 0 {
		return []string{ve.InstanceLocation + ": " + ve.Message}
	}
	var msgs []string
	for _, cause := range ve.Causes {
		msgs = append(msgs, leafMessages(cause)...)
	}
	return msgs
}
