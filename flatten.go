// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import "maps"

// Flatten merges allOf fragments into one effective property.
//
// A property without allOf is returned unchanged. Otherwise each fragment is
// flattened recursively and merged in array order: scalar keywords present in
// a fragment overwrite earlier values, and properties are unioned by key with
// later fragments replacing earlier entries for the same key.
// Neither the input nor its fragments are modified.
func Flatten(prop *SchemaProperty) *SchemaProperty {
	if prop == nil || len(prop.AllOf) == 0 {
		return prop
	}

	acc := *prop
	acc.AllOf = nil
	if prop.Properties != nil {
		acc.Properties = maps.Clone(prop.Properties)
	}

	for _, fragment := range prop.AllOf {
		mergeFragment(&acc, Flatten(fragment))
	}

	return &acc
}

// mergeFragment overlays one flattened fragment onto accumulator.
func mergeFragment(acc, fragment *SchemaProperty) {
	if fragment == nil {
		return
	}

	if len(fragment.Type) > 0 {
		acc.Type = fragment.Type
	}

	if fragment.HasDefault {
		acc.Default = fragment.Default
		acc.HasDefault = true
	}

	if fragment.Enum != nil {
		acc.Enum = fragment.Enum
	}

	if fragment.Description != "" {
		acc.Description = fragment.Description
	}

	if fragment.Pattern != "" {
		acc.Pattern = fragment.Pattern
	}

	if fragment.OptionsAre != nil {
		acc.OptionsAre = fragment.OptionsAre
	}

	if fragment.Note != "" {
		acc.Note = fragment.Note
	}

	if fragment.Title != "" {
		acc.Title = fragment.Title
	}

	if fragment.Deprecated != nil {
		acc.Deprecated = fragment.Deprecated
	}

	if fragment.Items != nil {
		acc.Items = fragment.Items
	}

	if fragment.Examples != nil {
		acc.Examples = fragment.Examples
	}

	if len(fragment.Properties) == 0 {
		return
	}

	if acc.Properties == nil {
		acc.Properties = make(map[string]*SchemaProperty, len(fragment.Properties))
	}

	maps.Copy(acc.Properties, fragment.Properties)
}
