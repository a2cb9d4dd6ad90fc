// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

// NodeKind identifies the type of a render tree node.
type NodeKind string

const (
	// KindDocument is the page root.
	KindDocument NodeKind = "document"
	// KindSection groups everything rendered for one property.
	KindSection NodeKind = "section"
	// KindHeading is a heading with Level, Text and Anchor.
	KindHeading NodeKind = "heading"
	// KindMarkdown carries markdown source in Text.
	KindMarkdown NodeKind = "markdown"
	// KindHTML carries pre-rendered HTML in Text.
	KindHTML NodeKind = "html"
	// KindTable carries field/value Rows.
	KindTable NodeKind = "table"
	// KindCollapsible is a titled section hidden by default.
	KindCollapsible NodeKind = "collapsible"
	// KindTabGroup holds Tab children; Selected is the default tab index.
	KindTabGroup NodeKind = "tab_group"
	// KindTab is one selectable tab labeled by Text.
	KindTab NodeKind = "tab"
	// KindCallout highlights a note.
	KindCallout NodeKind = "callout"
	// KindExample groups commentary and code of one example.
	KindExample NodeKind = "example"
	// KindCode is a code block with Language.
	KindCode NodeKind = "code"
	// KindPlaceholder is a plain notice shown instead of missing content.
	KindPlaceholder NodeKind = "placeholder"
	// KindList is an ordered list of Link children.
	KindList NodeKind = "list"
	// KindLink points to Anchor with Text label.
	KindLink NodeKind = "link"
)

// Node is one element of the framework-agnostic render tree.
// It carries data only; layout and styling belong to the consumer.
type Node struct {
	Kind       NodeKind   `json:"kind"`
	Text       string     `json:"text,omitempty"`
	Anchor     string     `json:"anchor,omitempty"`
	Badge      string     `json:"badge,omitempty"`
	Language   string     `json:"language,omitempty"`
	Rows       []TableRow `json:"rows,omitempty"`
	Children   []*Node    `json:"children,omitempty"`
	Level      int        `json:"level,omitempty"`
	Selected   int        `json:"selected,omitempty"`
	Deprecated bool       `json:"deprecated,omitempty"`
}

// TableRow is one field/value line of a details table.
type TableRow struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// appendChild adds non-nil child nodes.
func (node *Node) appendChild(children ...*Node) {
	for _, child := range children {
		if child == nil {
			continue
		}

		node.Children = append(node.Children, child)
	}
}

// Find returns the first node of kind in depth-first order, or nil.
func (node *Node) Find(kind NodeKind) *Node {
	if node == nil {
		return nil
	}

	if node.Kind == kind {
		return node
	}

	for _, child := range node.Children {
		if found := child.Find(kind); found != nil {
			return found
		}
	}

	return nil
}

// FindAll returns every node of kind in depth-first order.
func (node *Node) FindAll(kind NodeKind) []*Node {
	if node == nil {
		return nil
	}

	var out []*Node
	if node.Kind == kind {
		out = append(out, node)
	}

	for _, child := range node.Children {
		out = append(out, child.FindAll(kind)...)
	}

	return out
}
