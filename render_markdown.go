// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MarkdownRenderer turns markdown text from schema fields into a render node.
type MarkdownRenderer interface {
	RenderMarkdown(text string) *Node
}

// MarkdownRendererFunc adapts a function to MarkdownRenderer.
type MarkdownRendererFunc func(text string) *Node

// RenderMarkdown calls fn(text).
func (fn MarkdownRendererFunc) RenderMarkdown(text string) *Node {
	return fn(text)
}

// PlainMarkdown keeps markdown source and normalizes paragraphs and list markers.
type PlainMarkdown struct {
	// ListMarker is "*" or "-".
	ListMarker string
	// WrapWidth wraps plain paragraphs; zero uses the default width.
	WrapWidth int
}

// RenderMarkdown returns a markdown node or nil for blank text.
func (md PlainMarkdown) RenderMarkdown(text string) *Node {
	formatted := formatDescriptionMarkdown(text, normalizeWrapWidth(md.WrapWidth), md.ListMarker)
	if formatted == "" {
		return nil
	}

	return &Node{Kind: KindMarkdown, Text: formatted}
}

// HTMLMarkdown converts markdown to HTML with GitHub flavored extensions.
type HTMLMarkdown struct {
	engine goldmark.Markdown
}

// NewHTMLMarkdown creates goldmark backed markdown renderer.
func NewHTMLMarkdown() *HTMLMarkdown {
	return &HTMLMarkdown{
		engine: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// RenderMarkdown returns an HTML node, or a markdown node when conversion fails.
func (md *HTMLMarkdown) RenderMarkdown(text string) *Node {
	text = strings.TrimSpace(normalizeLineEndings(text))
	if text == "" {
		return nil
	}

	var out bytes.Buffer
	if err := md.engine.Convert([]byte(text), &out); err != nil {
		return &Node{Kind: KindMarkdown, Text: text}
	}

	return &Node{Kind: KindHTML, Text: strings.TrimSpace(out.String())}
}

// mustJSONInline marshals values as single-line JSON text without HTML escaping.
func mustJSONInline(value any) string {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return fmt.Sprintf("%v", value)
	}

	return strings.TrimRight(out.String(), "\n")
}

// sanitizeText trims and squashes repeated whitespace in plain text fields.
func sanitizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// normalizeWrapWidth validates wrap width and falls back to default.
func normalizeWrapWidth(value int) int {
	if value <= 0 {
		return defaultWrapWidth
	}

	return value
}

// normalizeListMarker validates list marker and falls back to default.
func normalizeListMarker(value string) string {
	switch strings.TrimSpace(value) {
	case "-":
		return "-"
	default:
		return defaultListMarker
	}
}

// formatDescriptionMarkdown wraps plain paragraphs and preserves markdown structures.
func formatDescriptionMarkdown(text string, wrapWidth int, listMarker string) string {
	text = strings.TrimSpace(normalizeLineEndings(text))
	if text == "" {
		return ""
	}

	listMarker = normalizeListMarker(listMarker)

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	paragraph := make([]string, 0, 4)
	inFence := false

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}

		out = append(out, wrapParagraph(strings.Join(paragraph, " "), wrapWidth)...)
		paragraph = paragraph[:0]
	}

	appendBlank := func() {
		if len(out) == 0 || out[len(out)-1] == "" {
			return
		}

		out = append(out, "")
	}

	for _, rawLine := range lines {
		line := strings.TrimRight(rawLine, " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "```"):
			flushParagraph()
			out = append(out, line)
			inFence = !inFence
		case inFence:
			out = append(out, line)
		case trimmed == "":
			flushParagraph()
			appendBlank()
		case isMarkdownStructuredLine(line):
			flushParagraph()
			normalized := normalizeListLine(line, listMarker)
			if isListLine(normalized) && len(out) > 0 && out[len(out)-1] != "" && !isMarkdownStructuredLine(out[len(out)-1]) {
				appendBlank()
			}

			out = append(out, normalized)
		default:
			paragraph = append(paragraph, trimmed)
		}
	}

	flushParagraph()
	return strings.Join(out, "\n")
}

// isListLine reports whether line is unordered or ordered markdown list item.
func isListLine(line string) bool {
	_, _, ok := splitListMarker(strings.TrimSpace(line))
	return ok
}

// isMarkdownStructuredLine reports whether line must bypass normal paragraph wrapping.
func isMarkdownStructuredLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	if strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
		return true
	}

	for _, prefix := range []string{"#", ">", "|", "```", "---", "***", "___", "<"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}

	return isListLine(trimmed)
}

// normalizeListLine rewrites list markers and nesting indentation; other lines pass through.
func normalizeListLine(line, listMarker string) string {
	if strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
		if !isListLine(line) {
			return line
		}
	}

	marker, content, ok := splitListMarker(strings.TrimSpace(line))
	if !ok {
		return line
	}

	if marker == "-" || marker == "*" || marker == "+" {
		marker = listMarker
	}

	level := leadingIndentColumns(line) / 2
	normalized := strings.Repeat("  ", level) + marker
	if content != "" {
		normalized += " " + content
	}

	return normalized
}

// splitListMarker separates list marker ("-", "*", "+", "1." or "1)") from item content.
func splitListMarker(trimmed string) (string, string, bool) {
	if len(trimmed) < 2 {
		return "", "", false
	}

	switch trimmed[0] {
	case '-', '*', '+':
		if trimmed[1] != ' ' && trimmed[1] != '\t' {
			return "", "", false
		}

		return trimmed[:1], strings.TrimSpace(trimmed[1:]), true
	}

	index := 0
	for index < len(trimmed) && trimmed[index] >= '0' && trimmed[index] <= '9' {
		index++
	}

	if index == 0 || index+1 >= len(trimmed) {
		return "", "", false
	}

	if trimmed[index] != '.' && trimmed[index] != ')' {
		return "", "", false
	}

	if trimmed[index+1] != ' ' && trimmed[index+1] != '\t' {
		return "", "", false
	}

	return trimmed[:index+1], strings.TrimSpace(trimmed[index+1:]), true
}

// leadingIndentColumns returns visual indentation width for leading spaces and tabs.
func leadingIndentColumns(line string) int {
	columns := 0
	for _, r := range line {
		switch r {
		case ' ':
			columns++
		case '\t':
			columns += 4
		default:
			return columns
		}
	}

	return columns
}

// wrapParagraph wraps one plain paragraph to max rune width.
func wrapParagraph(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	out := make([]string, 0, 2)
	current := words[0]
	currentLen := utf8.RuneCountInString(current)

	for _, word := range words[1:] {
		wordLen := utf8.RuneCountInString(word)
		if currentLen+1+wordLen <= width {
			current += " " + word
			currentLen += 1 + wordLen
			continue
		}

		out = append(out, current)
		current = word
		currentLen = wordLen
	}

	return append(out, current)
}

// normalizeLineEndings converts CRLF/CR to LF.
func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// normalizeMarkdownOutput collapses extra blank lines outside fenced blocks.
func normalizeMarkdownOutput(text string) string {
	lines := strings.Split(normalizeLineEndings(text), "\n")
	out := make([]string, 0, len(lines))

	inFence := false
	previousBlank := true
	for _, rawLine := range lines {
		line := strings.TrimRight(rawLine, " \t")
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out = append(out, line)
			previousBlank = false
			continue
		}

		if !inFence && trimmed == "" {
			if !previousBlank {
				out = append(out, "")
			}

			previousBlank = true
			continue
		}

		previousBlank = false
		out = append(out, line)
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

// escapeInline escapes backticks in inline code markdown segments.
func escapeInline(value string) string {
	return strings.ReplaceAll(value, "`", "\\`")
}

// escapeTableCell keeps cell text on one row and escapes column separators.
func escapeTableCell(value string) string {
	value = strings.ReplaceAll(normalizeLineEndings(value), "\n", " ")
	return strings.ReplaceAll(value, "|", "\\|")
}

// ensureTrailingNewline guarantees exactly one trailing newline in output.
func ensureTrailingNewline(value string) string {
	return strings.TrimRight(value, "\n") + "\n"
}
