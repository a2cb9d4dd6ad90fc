// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
)

// MaxRefDepth is the maximum nesting of $ref expansion on one path.
const MaxRefDepth = 100

// Resolver replaces every $ref pointer in a JSON value with its target.
type Resolver interface {
	Resolve(ctx context.Context, document any) (any, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, document any) (any, error)

// Resolve calls fn(ctx, document).
func (fn ResolverFunc) Resolve(ctx context.Context, document any) (any, error) {
	return fn(ctx, document)
}

// DocumentFetcher loads raw bytes and content type for an external document location.
type DocumentFetcher func(ctx context.Context, location string) ([]byte, string, error)

// RefResolver expands local JSON pointers and external document references.
//
// A reference that is already being expanded on the current path is left in
// place, so recursive schemas produce a bounded tree instead of an error.
type RefResolver struct {
	fetch    DocumentFetcher
	logger   *slog.Logger
	baseURL  string
	circular atomic.Bool
}

// NewRefResolver creates resolver for documents loaded from baseURL.
// External references fail when fetch is nil.
func NewRefResolver(baseURL string, fetch DocumentFetcher, logger *slog.Logger) *RefResolver {
	return &RefResolver{
		baseURL: strings.TrimSpace(baseURL),
		fetch:   fetch,
		logger:  loggerOrDiscard(logger),
	}
}

// HasCircularRefs reports whether the last Resolve call left cyclic references in place.
func (r *RefResolver) HasCircularRefs() bool {
	return r.circular.Load()
}

// Resolve returns a dereferenced copy of document; the input is not modified.
func (r *RefResolver) Resolve(ctx context.Context, document any) (any, error) {
	run := &resolveRun{
		resolver:  r,
		documents: map[string]any{documentKey(r.baseURL): document},
		active:    make(map[string]bool),
	}

	out, err := run.expand(ctx, document, r.baseURL, 0)
	r.circular.Store(run.circular)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// resolveRun holds per-call resolution state.
type resolveRun struct {
	resolver  *RefResolver
	documents map[string]any
	active    map[string]bool
	circular  bool
}

// expand copies value and replaces $ref objects relative to base document.
func (run *resolveRun) expand(ctx context.Context, value any, base string, depth int) (any, error) {
	if depth > MaxRefDepth {
		return nil, fmt.Errorf("%w: limit %d", ErrReferenceDepth, MaxRefDepth)
	}

	switch typed := value.(type) {
	case map[string]any:
		if ref, ok := typed["$ref"].(string); ok {
			return run.expandReference(ctx, typed, ref, base, depth)
		}

		out := make(map[string]any, len(typed))
		for key, item := range typed {
			expanded, err := run.expand(ctx, item, base, depth)
			if err != nil {
				return nil, err
			}

			out[key] = expanded
		}

		return out, nil
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			expanded, err := run.expand(ctx, item, base, depth)
			if err != nil {
				return nil, err
			}

			out = append(out, expanded)
		}

		return out, nil
	default:
		return typed, nil
	}
}

// expandReference replaces one $ref object with its target merged with sibling keywords.
func (run *resolveRun) expandReference(ctx context.Context, object map[string]any, ref, base string, depth int) (any, error) {
	location, fragment := splitReference(ref)
	target := base
	if location != "" {
		target = resolveLocation(base, location)
	}

	key := documentKey(target) + "#" + fragment
	if run.active[key] {
		run.circular = true
		run.resolver.logger.Warn("cyclic reference left in place", "ref", ref)
		return maps.Clone(object), nil
	}

	document, err := run.document(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", ref, err)
	}

	resolved, err := resolveJSONPointer(document, fragment)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", ref, err)
	}

	run.active[key] = true
	defer delete(run.active, key)

	expanded, err := run.expand(ctx, resolved, target, depth+1)
	if err != nil {
		return nil, err
	}

	if len(object) == 1 {
		return expanded, nil
	}

	targetObject, ok := expanded.(map[string]any)
	if !ok {
		return expanded, nil
	}

	out := maps.Clone(targetObject)
	for keyword, item := range object {
		if keyword == "$ref" {
			continue
		}

		sibling, err := run.expand(ctx, item, base, depth)
		if err != nil {
			return nil, err
		}

		out[keyword] = sibling
	}

	return out, nil
}

// document returns cached or fetched document for location.
func (run *resolveRun) document(ctx context.Context, location string) (any, error) {
	key := documentKey(location)
	if document, ok := run.documents[key]; ok {
		return document, nil
	}

	if run.resolver.fetch == nil {
		return nil, fmt.Errorf("external reference %q requires a document fetcher", location)
	}

	run.resolver.logger.Debug("fetch referenced document", "location", key)
	data, contentType, err := run.resolver.fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	document, err := decodeSchemaBytes(data, key, contentType)
	if err != nil {
		return nil, err
	}

	run.documents[key] = document
	return document, nil
}

// splitReference separates document location and JSON pointer fragment.
func splitReference(ref string) (string, string) {
	location, fragment, _ := strings.Cut(strings.TrimSpace(ref), "#")
	return location, fragment
}

// documentKey strips fragment from location.
func documentKey(location string) string {
	key, _, _ := strings.Cut(strings.TrimSpace(location), "#")
	return key
}

// resolveLocation resolves relative reference location against base document location.
func resolveLocation(base, location string) string {
	refURL, err := url.Parse(location)
	if err == nil && refURL.Scheme != "" {
		return location
	}

	baseURL, err := url.Parse(base)
	if err == nil && refURL != nil && baseURL.Scheme != "" && len(baseURL.Scheme) > 1 {
		return baseURL.ResolveReference(refURL).String()
	}

	if filepath.IsAbs(location) || strings.TrimSpace(base) == "" {
		return location
	}

	return filepath.Join(filepath.Dir(base), location)
}

// resolveJSONPointer resolves JSON pointer fragment from document root.
func resolveJSONPointer(root any, fragment string) (any, error) {
	if fragment == "" || fragment == "/" {
		return root, nil
	}

	if !strings.HasPrefix(fragment, "/") {
		return nil, fmt.Errorf("unsupported pointer %q", "#"+fragment)
	}

	current := root
	tokens := strings.Split(strings.TrimPrefix(fragment, "/"), "/")
	for index, token := range tokens {
		token = decodeJSONPointerToken(token)

		switch typed := current.(type) {
		case map[string]any:
			next, exists := typed[token]
			if !exists {
				return nil, fmt.Errorf("pointer #/%s not found", strings.Join(tokens[:index+1], "/"))
			}

			current = next
		case []any:
			position, err := strconv.Atoi(token)
			if err != nil || position < 0 || position >= len(typed) {
				return nil, fmt.Errorf("invalid array index %q in pointer #/%s", token, strings.Join(tokens[:index+1], "/"))
			}

			current = typed[position]
		default:
			return nil, fmt.Errorf("cannot traverse %T at #/%s", typed, strings.Join(tokens[:index], "/"))
		}
	}

	return current, nil
}

// decodeJSONPointerToken unescapes one JSON pointer token.
func decodeJSONPointerToken(token string) string {
	if unescaped, err := url.PathUnescape(token); err == nil {
		token = unescaped
	}

	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// resolverOrDefault returns resolver or RefResolver for base location.
func resolverOrDefault(resolver Resolver, fetch DocumentFetcher, base string, logger *slog.Logger) Resolver {
	if resolver != nil {
		return resolver
	}

	return NewRefResolver(base, fetch, logger)
}
