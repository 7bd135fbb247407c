// Package schema describes the flat field records requested from a structured-extraction
// backend and gates backend output against them.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldType is the JSON type of a single extracted field.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
)

// Field describes one property of an extracted record.
type Field struct {
	Name        string
	Type        FieldType
	Format      string
	Description string
}

// Object is an ordered set of nullable fields.
type Object struct {
	Name   string
	Fields []Field

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// NewObject creates an Object. Name identifies the schema in errors and logs.
func NewObject(name string, fields ...Field) *Object {
	return &Object{Name: name, Fields: fields}
}

// FieldNames returns the field names in declaration order.
func (o *Object) FieldNames() []string {
	names := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		names[i] = f.Name
	}
	return names
}

// JSONSchema renders the object as a draft 2020-12 JSON Schema. Every property
// also admits null and none is required: a missing property reads as null.
func (o *Object) JSONSchema() map[string]any {
	props := make(map[string]any, len(o.Fields))
	for _, f := range o.Fields {
		p := map[string]any{
			"type": []any{string(f.Type), "null"},
		}
		if f.Format != "" {
			p["format"] = f.Format
		}
		if f.Description != "" {
			p["description"] = f.Description
		}
		props[f.Name] = p
	}
	return map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"properties": props,
	}
}

func (o *Object) compile() (*jsonschema.Schema, error) {
	o.once.Do(func() {
		b, err := json.Marshal(o.JSONSchema())
		if err != nil {
			o.err = fmt.Errorf("marshal schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		url := o.Name + ".schema.json"
		if err := c.AddResource(url, bytes.NewReader(b)); err != nil {
			o.err = fmt.Errorf("add schema resource: %w", err)
			return
		}
		o.compiled, o.err = c.Compile(url)
		if o.err != nil {
			o.err = fmt.Errorf("compile schema: %w", o.err)
		}
	})
	return o.compiled, o.err
}

// Validate checks that doc type-checks against the object schema.
func (o *Object) Validate(doc map[string]any) error {
	s, err := o.compile()
	if err != nil {
		return err
	}
	// jsonschema expects values as produced by encoding/json, so round-trip
	// anything that may have been built by hand.
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%s schema validation: %w", o.Name, err)
	}
	return nil
}

// Decode validates doc and then decodes it into out.
func (o *Object) Decode(doc map[string]any, out any) error {
	if err := o.Validate(doc); err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s record: %w", o.Name, err)
	}
	return nil
}
