// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// noExamplesText is shown when "examples" is not a list of strings.
const noExamplesText = "No examples available."

// fencePatterns caches compiled fence matchers per example language.
var fencePatterns sync.Map

// SplitExample separates the first fenced code block tagged with language
// from the surrounding commentary.
//
// The code is dedented so its least indented line starts at column zero.
// Without a matching block the code is empty and the whole text is commentary.
func SplitExample(raw, language string) (commentary, code string) {
	raw = normalizeLineEndings(raw)
	match := fencePattern(language).FindStringSubmatchIndex(raw)
	if match == nil {
		return strings.TrimSpace(raw), ""
	}

	code = dedent(raw[match[2]:match[3]])
	commentary = strings.TrimSpace(raw[:match[0]] + raw[match[1]:])
	return commentary, code
}

// fencePattern returns compiled matcher for a fenced block in language.
func fencePattern(language string) *regexp.Regexp {
	language = normalizeExampleLanguage(language)
	if cached, ok := fencePatterns.Load(language); ok {
		return cached.(*regexp.Regexp)
	}

	pattern := regexp.MustCompile("(?s)```" + regexp.QuoteMeta(language) + "[ \t]*\n(.*?)```")
	actual, _ := fencePatterns.LoadOrStore(language, pattern)
	return actual.(*regexp.Regexp)
}

// dedent removes the minimum common leading whitespace of non-blank lines
// and drops blank lines around the block.
func dedent(text string) string {
	lines := strings.Split(text, "\n")

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}

	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}

	lines = lines[start:end]
	if len(lines) == 0 {
		return ""
	}

	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		width := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || width < indent {
			indent = width
		}
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}

		out = append(out, strings.TrimRight(line[indent:], " \t"))
	}

	return strings.Join(out, "\n")
}

// exampleStrings returns raw examples when value is a non-empty list of strings.
func exampleStrings(raw any) ([]string, bool) {
	switch typed := raw.(type) {
	case []string:
		return typed, len(typed) > 0
	case []any:
		if len(typed) == 0 {
			return nil, false
		}

		out := make([]string, 0, len(typed))
		for _, item := range typed {
			text, ok := item.(string)
			if !ok {
				return nil, false
			}

			out = append(out, text)
		}

		return out, true
	default:
		return nil, false
	}
}

// RenderExamples renders raw examples as one example block or a tab group.
// Values that are not a list of strings render a placeholder.
func (renderer *Renderer) RenderExamples(raw any) *Node {
	examples, ok := exampleStrings(raw)
	if !ok {
		return &Node{Kind: KindPlaceholder, Text: noExamplesText}
	}

	if len(examples) == 1 {
		return renderer.renderExample(examples[0])
	}

	group := &Node{Kind: KindTabGroup, Selected: 0}
	for index, example := range examples {
		tab := &Node{Kind: KindTab, Text: "Example " + strconv.Itoa(index+1)}
		tab.appendChild(renderer.renderExample(example))
		group.appendChild(tab)
	}

	return group
}

// renderExample splits one example into commentary and code nodes.
func (renderer *Renderer) renderExample(raw string) *Node {
	commentary, code := SplitExample(raw, renderer.options.ExampleLanguage)

	node := &Node{Kind: KindExample}
	if commentary != "" {
		node.appendChild(renderer.markdown.RenderMarkdown(commentary))
	}

	if code != "" {
		node.appendChild(&Node{
			Kind:     KindCode,
			Language: normalizeExampleLanguage(renderer.options.ExampleLanguage),
			Text:     code,
		})
	}

	return node
}

// normalizeExampleLanguage falls back to default fence language.
func normalizeExampleLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return defaultExampleLanguage
	}

	return language
}
