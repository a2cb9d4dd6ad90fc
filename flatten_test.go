// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenReturnsPropertyWithoutAllOfUnchanged(t *testing.T) {
	t.Parallel()

	prop := &SchemaProperty{Type: TypeList{"string"}, Description: "plain"}
	assert.Same(t, prop, Flatten(prop))
	assert.Nil(t, Flatten(nil))
}

func TestFlattenEmptyAllOfIsIdentity(t *testing.T) {
	t.Parallel()

	base := &SchemaProperty{Type: TypeList{"object"}, Title: "Base", AllOf: []*SchemaProperty{}}
	assert.Same(t, base, Flatten(base))
}

func TestFlattenLastFragmentWinsForScalars(t *testing.T) {
	t.Parallel()

	prop := NewProperty(mustDecode(t, `{
  "allOf": [
    {"type": "string"},
    {"type": "number", "default": 1}
  ]
}`))

	got := Flatten(prop)
	assert.Equal(t, TypeList{"number"}, got.Type)
	assert.True(t, got.HasDefault)
	assert.Equal(t, json.Number("1"), got.Default)
	assert.Nil(t, got.AllOf)
}

func TestFlattenKeepsEarlierScalarsMissingFromLaterFragments(t *testing.T) {
	t.Parallel()

	prop := NewProperty(mustDecode(t, `{
  "description": "base",
  "allOf": [
    {"pattern": "^[a-z]+$", "enum": ["a", "b"]},
    {"description": "override"}
  ]
}`))

	got := Flatten(prop)
	assert.Equal(t, "^[a-z]+$", got.Pattern)
	assert.Equal(t, []string{"a", "b"}, got.Enum)
	assert.Equal(t, "override", got.Description)
}

func TestFlattenUnionsPropertiesByKey(t *testing.T) {
	t.Parallel()

	prop := NewProperty(mustDecode(t, `{
  "properties": {"base": {"type": "string"}},
  "allOf": [
    {"properties": {"a": {"type": "string"}}},
    {"properties": {"b": {"type": "integer"}}}
  ]
}`))

	got := Flatten(prop)
	assert.Equal(t, []string{"a", "b", "base"}, got.SortedPropertyNames())
	assert.NotContains(t, prop.Properties, "a", "input properties map was modified")
}

func TestFlattenNestedAllOf(t *testing.T) {
	t.Parallel()

	prop := NewProperty(mustDecode(t, `{
  "allOf": [
    {
      "allOf": [
        {"type": "object", "properties": {"inner": {"type": "boolean"}}},
        {"deprecated": true}
      ]
    },
    {"properties": {"outer": {"type": "string"}}}
  ]
}`))

	got := Flatten(prop)
	assert.True(t, got.IsDeprecated(), "nested deprecated flag was lost")
	assert.Equal(t, []string{"inner", "outer"}, got.SortedPropertyNames())
}

func TestFlattenIsIdempotent(t *testing.T) {
	t.Parallel()

	prop := NewProperty(mustDecode(t, `{
  "allOf": [
    {"type": "object", "properties": {"a": {"type": "string"}}},
    {"note": "careful"}
  ]
}`))

	once := Flatten(prop)
	assert.Same(t, once, Flatten(once))
}

func TestFlattenScalarOnlyFragmentsYieldNoProperties(t *testing.T) {
	t.Parallel()

	prop := NewProperty(mustDecode(t, `{"allOf": [{"type": "string"}, {"pattern": "x"}]}`))
	assert.Empty(t, Flatten(prop).Properties)
}

func mustDecode(t *testing.T, body string) any {
	t.Helper()

	raw, err := decodeJSONDocument([]byte(body))
	require.NoError(t, err, "decode fixture")

	return raw
}
