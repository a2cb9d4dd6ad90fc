// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// defaultHeadingLevel is the heading rank of top-level property sections.
	defaultHeadingLevel = 2
	// maxHeadingLevel caps heading rank for deeply nested options.
	maxHeadingLevel = 6
	// defaultWrapWidth wraps plain description paragraphs at this width.
	defaultWrapWidth = 80
	// defaultListMarker is used when caller does not provide list marker style.
	defaultListMarker = "*"
	// defaultExampleLanguage is the fence tag searched in example strings.
	defaultExampleLanguage = "yaml"
	// availableOptionsTitle labels the collapsible nested options section.
	availableOptionsTitle = "Available Options"
	// deprecatedBadge labels deprecated property headings.
	deprecatedBadge = "Deprecated"
)

const (
	// FormatMarkdown writes CommonMark documentation.
	FormatMarkdown OutputFormat = "markdown"
	// FormatJSON writes the render tree as JSON.
	FormatJSON OutputFormat = "json"
)

// OutputFormat selects how the render tree is serialized.
type OutputFormat string

// Options configures rendering. The zero value renders full documentation.
type Options struct {
	// Markdown renders description, note and commentary text; PlainMarkdown when nil.
	Markdown MarkdownRenderer
	// Logger receives diagnostics; discarded when nil.
	Logger *slog.Logger
	// TracerProvider overrides the global OpenTelemetry tracer provider.
	TracerProvider trace.TracerProvider
	// MeterProvider overrides the global OpenTelemetry meter provider.
	MeterProvider metric.MeterProvider
	// Resolver dereferences $ref pointers; a RefResolver when nil.
	Resolver Resolver

	// Title overrides schema title in the page heading.
	Title string
	// ExampleLanguage is the fence tag of example code blocks ("yaml" when empty).
	ExampleLanguage string
	// ListMarker is the unordered list marker used in normalized descriptions.
	ListMarker string
	// Format selects output serialization for Render helpers.
	Format OutputFormat

	// HeadingLevel is the heading rank of top-level properties (2 when zero).
	HeadingLevel int
	// WrapWidth wraps plain description paragraphs (80 when zero).
	WrapWidth int

	// OmitNestedOptions disables "Available Options" sections for nested properties.
	OmitNestedOptions bool
	// SynthesizeExamples generates a YAML example for object properties without examples.
	SynthesizeExamples bool
	// OmitTableOfContents drops the table of contents from the page.
	OmitTableOfContents bool
}

// Render resolves references in schema bytes and renders documentation.
func Render(schemaBytes []byte, opt Options) (string, error) {
	raw, err := decodeSchemaBytes(schemaBytes, "", "")
	if err != nil {
		return "", err
	}

	return renderRaw(context.Background(), "", raw, opt)
}

// RenderFile reads JSON or YAML schema from file and renders documentation.
func RenderFile(path string, opt Options) (string, error) {
	schemaBytes, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadSchemaFile, err)
	}

	raw, err := decodeSchemaBytes(schemaBytes, path, "")
	if err != nil {
		return "", err
	}

	return renderRaw(context.Background(), path, raw, opt)
}

// RenderURL loads schema from URL or path and renders documentation.
func RenderURL(ctx context.Context, source string, opt Options) (string, error) {
	state := newOptionsLoader(opt).Load(ctx, source)
	if state.Kind != StateReady {
		return "", state.Err
	}

	return RenderDocument(ctx, state.Document, opt)
}

// RenderDocument renders an already resolved document in selected format.
func RenderDocument(ctx context.Context, doc *SchemaDocument, opt Options) (string, error) {
	format, err := normalizeOutputFormat(opt.Format)
	if err != nil {
		return "", err
	}

	renderer := NewRenderer(opt)
	root := renderer.RenderDocumentContext(ctx, doc)

	var out bytes.Buffer
	switch format {
	case FormatJSON:
		err = WriteJSON(&out, root)
	default:
		err = WriteMarkdown(&out, root)
	}

	if err != nil {
		return "", err
	}

	return out.String(), nil
}

// renderRaw resolves decoded schema relative to base location and renders it.
func renderRaw(ctx context.Context, base string, raw any, opt Options) (string, error) {
	resolved, err := newOptionsLoader(opt).resolve(ctx, base, raw)
	if err != nil {
		return "", err
	}

	doc, err := NewDocument(resolved)
	if err != nil {
		return "", err
	}

	return RenderDocument(ctx, doc, opt)
}

// newOptionsLoader creates loader sharing resolver, logger and telemetry of opt.
func newOptionsLoader(opt Options) *Loader {
	return NewLoader(
		WithResolver(opt.Resolver),
		WithLogger(opt.Logger),
		WithTracerProvider(opt.TracerProvider),
		WithMeterProvider(opt.MeterProvider),
	)
}

// normalizeOutputFormat validates output format and falls back to markdown.
func normalizeOutputFormat(format OutputFormat) (OutputFormat, error) {
	normalized := OutputFormat(strings.ToLower(strings.TrimSpace(string(format))))
	switch normalized {
	case "", "md", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownOutputFormat, format)
	}
}
