// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// SchemaDocument is the resolved root of a configuration schema.
type SchemaDocument struct {
	Properties  map[string]*SchemaProperty
	Title       string
	Description string
	Type        string
	Required    []string
}

// SchemaProperty is one named field definition, possibly with nested properties.
type SchemaProperty struct {
	// Default holds the raw default value when HasDefault is set.
	Default any
	// Examples keeps the raw "examples" keyword value; a list of strings is expected.
	Examples any
	// Deprecated is nil when the keyword is absent.
	Deprecated *bool
	Items      *SchemaProperty
	Properties map[string]*SchemaProperty

	Title       string
	Description string
	Note        string
	Pattern     string
	Type        TypeList
	Enum        []string
	// OptionsAre lists allowed option labels when enum is not used.
	OptionsAre []string
	AllOf      []*SchemaProperty
	HasDefault bool
}

// TypeList holds one or more allowed primitive type names.
type TypeList []string

// UnmarshalJSON accepts either a single type name or a list of names.
func (list *TypeList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*list = TypeList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("type must be string or string list: %w", err)
	}

	*list = TypeList(many)
	return nil
}

// String joins type names with ", ".
func (list TypeList) String() string {
	return strings.Join(list, ", ")
}

// IsDeprecated reports whether property is explicitly marked deprecated.
func (prop *SchemaProperty) IsDeprecated() bool {
	return prop != nil && prop.Deprecated != nil && *prop.Deprecated
}

// SortedPropertyNames returns property keys in lexicographic order.
func (prop *SchemaProperty) SortedPropertyNames() []string {
	if prop == nil {
		return nil
	}

	return sortedPropertyKeys(prop.Properties)
}

// SortedPropertyNames returns top-level property keys in lexicographic order.
func (doc *SchemaDocument) SortedPropertyNames() []string {
	if doc == nil {
		return nil
	}

	return sortedPropertyKeys(doc.Properties)
}

// ParseDocument decodes schema bytes and builds a document without resolving references.
func ParseDocument(schemaBytes []byte) (*SchemaDocument, error) {
	raw, err := decodeJSONDocument(schemaBytes)
	if err != nil {
		return nil, err
	}

	return NewDocument(raw)
}

// NewDocument builds a typed document from a resolved JSON value.
func NewDocument(resolved any) (*SchemaDocument, error) {
	root, ok := resolved.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w, got %T", ErrSchemaRootType, resolved)
	}

	return &SchemaDocument{
		Title:       asString(root["title"]),
		Description: asString(root["description"]),
		Type:        asString(root["type"]),
		Properties:  propertyMap(root["properties"]),
		Required:    asStringSlice(root["required"]),
	}, nil
}

// NewProperty builds a typed property from one JSON schema object.
// Non-object values produce an empty property.
func NewProperty(raw any) *SchemaProperty {
	object, ok := raw.(map[string]any)
	if !ok {
		return &SchemaProperty{}
	}

	prop := &SchemaProperty{
		Title:       asString(object["title"]),
		Description: asString(object["description"]),
		Note:        asString(object["note"]),
		Pattern:     asString(object["pattern"]),
		Type:        typeList(object["type"]),
		Enum:        enumStrings(object["enum"]),
		OptionsAre:  asStringSlice(object["optionsAre"]),
		Properties:  propertyMap(object["properties"]),
	}

	if value, ok := asBool(object["deprecated"]); ok {
		prop.Deprecated = &value
	}

	if value, ok := object["default"]; ok {
		prop.Default = value
		prop.HasDefault = true
	}

	if value, ok := object["examples"]; ok {
		prop.Examples = value
	}

	if items, ok := object["items"].(map[string]any); ok {
		prop.Items = NewProperty(items)
	}

	if allOf, ok := object["allOf"].([]any); ok {
		prop.AllOf = make([]*SchemaProperty, 0, len(allOf))
		for _, fragment := range allOf {
			prop.AllOf = append(prop.AllOf, NewProperty(fragment))
		}
	}

	return prop
}

// decodeJSONDocument decodes raw JSON bytes into a generic value tree.
// Numbers stay json.Number so defaults keep their literal text.
func decodeJSONDocument(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	var trailing any
	if err := decoder.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after top-level value", ErrDecodeSchema)
	}

	return raw, nil
}

// propertyMap converts a "properties" keyword value into typed properties.
func propertyMap(raw any) map[string]*SchemaProperty {
	object, ok := raw.(map[string]any)
	if !ok || len(object) == 0 {
		return nil
	}

	out := make(map[string]*SchemaProperty, len(object))
	for key, value := range object {
		out[key] = NewProperty(value)
	}

	return out
}

// typeList reads "type" as string or list of strings.
func typeList(raw any) TypeList {
	if text := asString(raw); text != "" {
		return TypeList{text}
	}

	values := asStringSlice(raw)
	if len(values) == 0 {
		return nil
	}

	return TypeList(values)
}

// enumStrings renders enum members as display strings; non-string members use JSON text.
func enumStrings(raw any) []string {
	values := asSlice(raw)
	if len(values) == 0 {
		return nil
	}

	out := make([]string, 0, len(values))
	for _, value := range values {
		switch typed := value.(type) {
		case string:
			out = append(out, typed)
		case json.Number:
			out = append(out, typed.String())
		default:
			out = append(out, mustJSONInline(value))
		}
	}

	return out
}

// sortedPropertyKeys returns deterministic sorted keys for property maps.
func sortedPropertyKeys(values map[string]*SchemaProperty) []string {
	out := make([]string, 0, len(values))
	for key := range values {
		out = append(out, key)
	}

	sort.Strings(out)
	return out
}

// sortedKeys returns deterministic sorted keys for generic JSON objects.
func sortedKeys(values map[string]any) []string {
	out := make([]string, 0, len(values))
	for key := range values {
		out = append(out, key)
	}

	sort.Strings(out)
	return out
}

// asString returns value as string or empty text.
func asString(value any) string {
	text, _ := value.(string)
	return text
}

// asBool returns value as bool and presence flag.
func asBool(value any) (bool, bool) {
	typed, ok := value.(bool)
	return typed, ok
}

// asSlice returns value as generic list or nil.
func asSlice(value any) []any {
	switch typed := value.(type) {
	case []any:
		return typed
	case []string:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, item)
		}

		return out
	default:
		return nil
	}
}

// asStringSlice returns string members of a list, skipping other values.
func asStringSlice(value any) []string {
	items := asSlice(value)
	if len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		text, ok := item.(string)
		if !ok {
			continue
		}

		out = append(out, text)
	}

	if len(out) == 0 {
		return nil
	}

	return out
}
