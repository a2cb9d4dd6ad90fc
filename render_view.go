// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Renderer builds render trees from schema documents.
type Renderer struct {
	markdown MarkdownRenderer
	logger   *slog.Logger
	tracer   trace.Tracer
	options  Options
}

// NewRenderer creates renderer with normalized options.
func NewRenderer(opt Options) *Renderer {
	opt.HeadingLevel = normalizeHeadingLevel(opt.HeadingLevel)
	opt.ExampleLanguage = normalizeExampleLanguage(opt.ExampleLanguage)
	opt.WrapWidth = normalizeWrapWidth(opt.WrapWidth)
	opt.ListMarker = normalizeListMarker(opt.ListMarker)

	markdown := opt.Markdown
	if markdown == nil {
		markdown = PlainMarkdown{WrapWidth: opt.WrapWidth, ListMarker: opt.ListMarker}
	}

	return &Renderer{
		options:  opt,
		markdown: markdown,
		logger:   loggerOrDiscard(opt.Logger),
		tracer:   newTracer(opt.TracerProvider),
	}
}

// RenderDocument builds the page tree: title, description, contents and sections.
func (renderer *Renderer) RenderDocument(doc *SchemaDocument) *Node {
	return renderer.RenderDocumentContext(context.Background(), doc)
}

// RenderDocumentContext is RenderDocument with a parent context for tracing.
func (renderer *Renderer) RenderDocumentContext(ctx context.Context, doc *SchemaDocument) *Node {
	root := &Node{Kind: KindDocument}
	if doc == nil {
		return root
	}

	names := doc.SortedPropertyNames()
	_, span := renderer.tracer.Start(ctx, "confdoc.render",
		trace.WithAttributes(attribute.Int("confdoc.properties", len(names))),
	)
	defer span.End()

	anchors := newAnchorRegistry()
	topAnchors := anchors.claimNames(names)

	title := sanitizeText(renderer.options.Title)
	if title == "" {
		title = sanitizeText(doc.Title)
	}

	if title != "" {
		root.appendChild(&Node{Kind: KindHeading, Level: 1, Text: title, Anchor: anchors.claim(headingAnchor(title))})
	}

	if strings.TrimSpace(doc.Description) != "" {
		root.appendChild(renderer.markdown.RenderMarkdown(doc.Description))
	}

	if !renderer.options.OmitTableOfContents && len(names) > 0 {
		root.appendChild(renderer.tableOfContents(doc, names, topAnchors))
	}

	for _, name := range names {
		root.appendChild(renderer.renderProperty(name, topAnchors[name], doc.Properties[name], 0, anchors))
	}

	renderer.logger.Debug("rendered schema document", "properties", len(names))
	return root
}

// TableOfContents lists top-level properties in lexicographic order.
func (renderer *Renderer) TableOfContents(doc *SchemaDocument) *Node {
	if doc == nil {
		return &Node{Kind: KindList}
	}

	names := doc.SortedPropertyNames()
	return renderer.tableOfContents(doc, names, newAnchorRegistry().claimNames(names))
}

// tableOfContents links names to already claimed section anchors.
func (renderer *Renderer) tableOfContents(doc *SchemaDocument, names []string, anchors map[string]string) *Node {
	list := &Node{Kind: KindList}
	for _, name := range names {
		effective := Flatten(doc.Properties[name])
		link := &Node{Kind: KindLink, Text: name, Anchor: anchors[name]}
		if effective.IsDeprecated() {
			link.Deprecated = true
			link.Badge = deprecatedBadge
		}

		list.appendChild(link)
	}

	return list
}

// RenderProperty renders one property section at nesting depth (0 for top level).
func (renderer *Renderer) RenderProperty(name string, prop *SchemaProperty, depth int) *Node {
	anchors := newAnchorRegistry()
	return renderer.renderProperty(name, anchors.claim(headingAnchor(name)), prop, depth, anchors)
}

// renderProperty renders heading, description, details, examples, note and nested options.
func (renderer *Renderer) renderProperty(name, anchor string, prop *SchemaProperty, depth int, anchors *anchorRegistry) *Node {
	section := &Node{Kind: KindSection, Anchor: anchor}
	effective := Flatten(prop)
	if effective == nil {
		effective = &SchemaProperty{}
	}

	heading := &Node{
		Kind:   KindHeading,
		Level:  renderer.headingLevel(depth),
		Text:   name,
		Anchor: anchor,
	}

	if effective.IsDeprecated() {
		heading.Deprecated = true
		heading.Badge = deprecatedBadge
	}

	section.appendChild(heading)

	if strings.TrimSpace(effective.Description) != "" {
		section.appendChild(renderer.markdown.RenderMarkdown(effective.Description))
	}

	if rows := detailRows(effective); len(rows) > 0 {
		section.appendChild(&Node{Kind: KindTable, Rows: rows})
	}

	switch {
	case effective.Examples != nil:
		section.appendChild(renderer.RenderExamples(effective.Examples))
	case renderer.options.SynthesizeExamples && len(effective.Properties) > 0:
		section.appendChild(renderer.synthesizedExample(name, effective))
	}

	if strings.TrimSpace(effective.Note) != "" {
		callout := &Node{Kind: KindCallout}
		callout.appendChild(renderer.markdown.RenderMarkdown(effective.Note))
		section.appendChild(callout)
	}

	if !renderer.options.OmitNestedOptions && len(effective.Properties) > 0 {
		nested := &Node{Kind: KindCollapsible, Text: availableOptionsTitle}
		for _, key := range effective.SortedPropertyNames() {
			nested.appendChild(renderer.renderProperty(key, anchors.claim(nestedAnchor(anchor, key)), effective.Properties[key], depth+1, anchors))
		}

		section.appendChild(nested)
	}

	return section
}

// synthesizedExample renders generated YAML example or nothing when generation fails.
func (renderer *Renderer) synthesizedExample(name string, prop *SchemaProperty) *Node {
	data, err := GenerateExampleYAML(name, prop)
	if err != nil {
		renderer.logger.Warn("skip generated example", "property", name, "error", err)
		return nil
	}

	node := &Node{Kind: KindExample}
	node.appendChild(&Node{Kind: KindCode, Language: "yaml", Text: strings.TrimRight(string(data), "\n")})
	return node
}

// headingLevel maps nesting depth to heading rank.
func (renderer *Renderer) headingLevel(depth int) int {
	level := renderer.options.HeadingLevel + max(depth, 0)
	return min(level, maxHeadingLevel)
}

// normalizeHeadingLevel validates base heading rank and falls back to default.
func normalizeHeadingLevel(level int) int {
	if level <= 0 {
		return defaultHeadingLevel
	}

	return min(level, maxHeadingLevel)
}
