// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// headingAnchor converts heading text into a markdown anchor slug.
// Every underscore and whitespace run becomes a single dash and diacritics are dropped.
func headingAnchor(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return ""
	}

	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), trimmed)
	if err == nil {
		trimmed = folded
	}

	var out strings.Builder
	out.Grow(len(trimmed))

	lastDash := false
	for _, r := range trimmed {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			out.WriteRune(r)
			lastDash = false
		case unicode.IsSpace(r), r == '-', r == '_', r == '.':
			if lastDash || out.Len() == 0 {
				continue
			}

			out.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(out.String(), "-")
}

// nestedAnchor joins parent anchor and child name into a unique anchor.
func nestedAnchor(parent, name string) string {
	child := headingAnchor(name)
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + "-" + child
	}
}

// anchorRegistry hands out document-unique anchors; repeats get -1, -2 suffixes.
type anchorRegistry struct {
	used map[string]int
}

func newAnchorRegistry() *anchorRegistry {
	return &anchorRegistry{used: make(map[string]int)}
}

// claim returns anchor, or the first free numbered variant when it is taken.
func (registry *anchorRegistry) claim(anchor string) string {
	count, taken := registry.used[anchor]
	if !taken {
		registry.used[anchor] = 0
		return anchor
	}

	for {
		count++
		candidate := anchor + "-" + strconv.Itoa(count)
		if _, exists := registry.used[candidate]; exists {
			continue
		}

		registry.used[anchor] = count
		registry.used[candidate] = 0
		return candidate
	}
}

// claimNames claims heading anchors for names in the given order.
func (registry *anchorRegistry) claimNames(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[name] = registry.claim(headingAnchor(name))
	}

	return out
}
