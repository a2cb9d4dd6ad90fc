// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown writes render tree as a CommonMark page.
//
// Collapsible sections and tabs use <details> blocks; the selected tab is open.
func WriteMarkdown(w io.Writer, root *Node) error {
	text := ensureTrailingNewline(normalizeMarkdownOutput(markdownBlock(root)))
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

// markdownBlock renders one node and its children as markdown block text.
func markdownBlock(node *Node) string {
	if node == nil {
		return ""
	}

	switch node.Kind {
	case KindHeading:
		return markdownHeading(node)
	case KindMarkdown, KindHTML:
		return node.Text
	case KindTable:
		return markdownTable(node.Rows)
	case KindCode:
		return "```" + node.Language + "\n" + node.Text + "\n```"
	case KindPlaceholder:
		return "_" + node.Text + "_"
	case KindList:
		return markdownLinks(node.Children)
	case KindCallout:
		return markdownCallout(node)
	case KindCollapsible:
		return markdownDetails(node.Text, false, node.Children)
	case KindTabGroup:
		parts := make([]string, 0, len(node.Children))
		for index, tab := range node.Children {
			parts = append(parts, markdownDetails(tab.Text, index == node.Selected, tab.Children))
		}

		return strings.Join(parts, "\n\n")
	default:
		return markdownChildren(node.Children)
	}
}

// markdownChildren joins child blocks with blank lines.
func markdownChildren(children []*Node) string {
	parts := make([]string, 0, len(children))
	for _, child := range children {
		block := markdownBlock(child)
		if strings.TrimSpace(block) == "" {
			continue
		}

		parts = append(parts, block)
	}

	return strings.Join(parts, "\n\n")
}

// markdownHeading renders heading with explicit anchor for property sections.
func markdownHeading(node *Node) string {
	level := min(max(node.Level, 1), maxHeadingLevel)
	heading := strings.Repeat("#", level) + " " + markdownLabel(node)
	if node.Anchor == "" || level == 1 {
		return heading
	}

	return fmt.Sprintf("<a id=%q></a>\n\n%s", node.Anchor, heading)
}

// markdownLabel renders node text with strikethrough and badge when deprecated.
func markdownLabel(node *Node) string {
	if !node.Deprecated {
		return node.Text
	}

	label := "~~" + node.Text + "~~"
	if node.Badge != "" {
		label += " `" + escapeInline(node.Badge) + "`"
	}

	return label
}

// markdownTable renders details rows as two-column table.
func markdownTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, "| Field | Value |", "| --- | --- |")
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("| %s | `%s` |", escapeTableCell(row.Field), escapeTableCell(escapeInline(row.Value))))
	}

	return strings.Join(lines, "\n")
}

// markdownLinks renders table of contents links.
func markdownLinks(links []*Node) string {
	lines := make([]string, 0, len(links))
	for _, link := range links {
		if link == nil {
			continue
		}

		label := "[" + link.Text + "](#" + link.Anchor + ")"
		if link.Deprecated {
			label = "[~~" + link.Text + "~~](#" + link.Anchor + ")"
			if link.Badge != "" {
				label += " `" + escapeInline(link.Badge) + "`"
			}
		}

		lines = append(lines, defaultListMarker+" "+label)
	}

	return strings.Join(lines, "\n")
}

// markdownCallout renders callout content as quoted note.
func markdownCallout(node *Node) string {
	body := markdownChildren(node.Children)
	lines := []string{"> **Note**", ">"}
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			lines = append(lines, ">")
			continue
		}

		lines = append(lines, "> "+line)
	}

	return strings.Join(lines, "\n")
}

// markdownDetails renders children inside a <details> block.
func markdownDetails(summary string, open bool, children []*Node) string {
	tag := "<details>"
	if open {
		tag = "<details open>"
	}

	return tag + "\n<summary>" + summary + "</summary>\n\n" + markdownChildren(children) + "\n\n</details>"
}
