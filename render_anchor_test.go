// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadingAnchor(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"log_level":        "log-level",
		"max__open_files":  "max-open-files",
		"Service Config":   "service-config",
		"tls.cert_file":    "tls-cert-file",
		"_private_":        "private",
		"Überprüfung":      "uberprufung",
		"rate-limit (rps)": "rate-limit-rps",
		"   ":              "",
	}

	for input, want := range cases {
		input, want := input, want
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, want, headingAnchor(input))
		})
	}
}

func TestNestedAnchor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "server-cert-file", nestedAnchor("server", "cert_file"))
	assert.Equal(t, "cert-file", nestedAnchor("", "cert_file"))
	assert.Equal(t, "server", nestedAnchor("server", "***"))
}

func TestAnchorRegistrySuffixesRepeats(t *testing.T) {
	t.Parallel()

	registry := newAnchorRegistry()
	assert.Equal(t, "a-b", registry.claim("a-b"))
	assert.Equal(t, "a-b-1", registry.claim("a-b"))
	assert.Equal(t, "a-b-2", registry.claim("a-b"))

	// A literal name that looks like a suffixed anchor is skipped over.
	registry = newAnchorRegistry()
	assert.Equal(t, "x-1", registry.claim("x-1"))
	assert.Equal(t, "x", registry.claim("x"))
	assert.Equal(t, "x-2", registry.claim("x"))
}

func TestAnchorRegistryClaimNames(t *testing.T) {
	t.Parallel()

	anchors := newAnchorRegistry().claimNames([]string{"a-b", "a_b", "c"})
	assert.Equal(t, map[string]string{"a-b": "a-b", "a_b": "a-b-1", "c": "c"}, anchors)
}
