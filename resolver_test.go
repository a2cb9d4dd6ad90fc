// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefResolverExpandsLocalPointers(t *testing.T) {
	t.Parallel()

	raw := mustDecode(t, `{
  "definitions": {
    "a~b": {"type": "string"},
    "list": [{"type": "integer"}],
    "with/slash": {"type": "boolean"}
  },
  "properties": {
    "tilde": {"$ref": "#/definitions/a~0b"},
    "index": {"$ref": "#/definitions/list/0"},
    "slash": {"$ref": "#/definitions/with~1slash"}
  }
}`)

	resolved, err := NewRefResolver("", nil, nil).Resolve(context.Background(), raw)
	require.NoError(t, err)

	properties := resolved.(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string"}, properties["tilde"])
	assert.Equal(t, map[string]any{"type": "integer"}, properties["index"])
	assert.Equal(t, map[string]any{"type": "boolean"}, properties["slash"])
}

func TestRefResolverDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	raw := mustDecode(t, `{"$defs": {"x": {"type": "string"}}, "properties": {"a": {"$ref": "#/$defs/x"}}}`)

	_, err := NewRefResolver("", nil, nil).Resolve(context.Background(), raw)
	require.NoError(t, err)

	a := raw.(map[string]any)["properties"].(map[string]any)["a"]
	assert.Equal(t, map[string]any{"$ref": "#/$defs/x"}, a)
}

func TestRefResolverSiblingKeywordsOverrideTarget(t *testing.T) {
	t.Parallel()

	raw := mustDecode(t, `{
  "$defs": {"port": {"type": "integer", "description": "generic"}},
  "properties": {"http": {"$ref": "#/$defs/port", "description": "HTTP port", "default": 80}}
}`)

	resolved, err := NewRefResolver("", nil, nil).Resolve(context.Background(), raw)
	require.NoError(t, err)

	httpPort := resolved.(map[string]any)["properties"].(map[string]any)["http"]
	assert.Equal(t, map[string]any{"type": "integer", "description": "HTTP port", "default": json.Number("80")}, httpPort)
}

func TestRefResolverLeavesCyclesInPlace(t *testing.T) {
	t.Parallel()

	raw := mustDecode(t, `{
  "$defs": {
    "node": {
      "type": "object",
      "properties": {"child": {"$ref": "#/$defs/node"}}
    }
  },
  "properties": {"tree": {"$ref": "#/$defs/node"}}
}`)

	resolver := NewRefResolver("", nil, nil)
	resolved, err := resolver.Resolve(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, resolver.HasCircularRefs())

	tree := resolved.(map[string]any)["properties"].(map[string]any)["tree"].(map[string]any)
	child := tree["properties"].(map[string]any)["child"]
	assert.Equal(t, map[string]any{"$ref": "#/$defs/node"}, child)

	doc, err := NewDocument(resolved)
	require.NoError(t, err)

	root := NewRenderer(Options{}).RenderDocument(doc)
	assert.NotNil(t, root.Find(KindCollapsible))
}

func TestRefResolverMissingPointer(t *testing.T) {
	t.Parallel()

	raw := mustDecode(t, `{"properties": {"a": {"$ref": "#/$defs/missing"}}}`)

	_, err := NewRefResolver("", nil, nil).Resolve(context.Background(), raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#/$defs/missing")
}

func TestRefResolverDepthLimit(t *testing.T) {
	t.Parallel()

	var body strings.Builder
	body.WriteString(`{"$defs": {`)
	for index := 0; index <= MaxRefDepth+1; index++ {
		if index > 0 {
			body.WriteString(",")
		}

		fmt.Fprintf(&body, `"d%d": {"properties": {"next": {"$ref": "#/$defs/d%d"}}}`, index, index+1)
	}

	fmt.Fprintf(&body, `, "d%d": {"type": "string"}}, "properties": {"start": {"$ref": "#/$defs/d0"}}}`, MaxRefDepth+2)

	_, err := NewRefResolver("", nil, nil).Resolve(context.Background(), mustDecode(t, body.String()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReferenceDepth))
}

func TestRefResolverFetchesExternalDocumentsOnce(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/common.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"$defs": {"level": {"enum": ["debug", "info"]}, "port": {"type": "integer"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	raw := mustDecode(t, `{"properties": {
  "level": {"$ref": "common.json#/$defs/level"},
  "port": {"$ref": "common.json#/$defs/port"}
}}`)

	loader := NewLoader(WithHTTPClient(server.Client()))
	resolver := NewRefResolver(server.URL+"/schemas/../schema.json", loader.fetchDocument, nil)

	resolved, err := resolver.Resolve(context.Background(), raw)
	require.NoError(t, err)

	properties := resolved.(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"enum": []any{"debug", "info"}}, properties["level"])
	assert.Equal(t, map[string]any{"type": "integer"}, properties["port"])
	assert.Equal(t, int32(1), requests.Load())
}

func TestRefResolverExternalWithoutFetcher(t *testing.T) {
	t.Parallel()

	raw := mustDecode(t, `{"properties": {"a": {"$ref": "other.json#/a"}}}`)

	_, err := NewRefResolver("", nil, nil).Resolve(context.Background(), raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a document fetcher")
}

func TestResolveLocation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		base     string
		location string
		want     string
	}{
		{"https://example.com/a/schema.json", "common.json", "https://example.com/a/common.json"},
		{"https://example.com/a/schema.json", "../b/common.json", "https://example.com/b/common.json"},
		{"https://example.com/a/schema.json", "https://cdn.example.com/x.json", "https://cdn.example.com/x.json"},
		{"/etc/app/schema.json", "common.yaml", "/etc/app/common.yaml"},
		{"", "common.yaml", "common.yaml"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, resolveLocation(tc.base, tc.location), "%s + %s", tc.base, tc.location)
	}
}

func TestResolverFuncIsUsedByLoader(t *testing.T) {
	t.Parallel()

	var called atomic.Bool
	resolver := ResolverFunc(func(_ context.Context, document any) (any, error) {
		called.Store(true)
		return document, nil
	})

	loader := NewLoader(WithResolver(resolver))
	resolved, err := loader.resolve(context.Background(), "", map[string]any{"title": "x"})
	require.NoError(t, err)
	assert.True(t, called.Load())
	assert.Equal(t, map[string]any{"title": "x"}, resolved)
}
