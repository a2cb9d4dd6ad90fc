// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import "strings"

// Details table field labels.
const (
	fieldType    = "Type"
	fieldDefault = "Default"
	fieldEnum    = "Enum"
	fieldOptions = "Options"
	fieldPattern = "Pattern"
)

// detailRows renders present type/default/enum/options/pattern fields in fixed order.
func detailRows(prop *SchemaProperty) []TableRow {
	if prop == nil {
		return nil
	}

	out := make([]TableRow, 0, 5)

	if len(prop.Type) > 0 {
		out = append(out, TableRow{Field: fieldType, Value: prop.Type.String()})
	}

	if prop.HasDefault {
		out = append(out, TableRow{Field: fieldDefault, Value: mustJSONInline(prop.Default)})
	}

	if len(prop.Enum) > 0 {
		out = append(out, TableRow{Field: fieldEnum, Value: strings.Join(prop.Enum, ", ")})
	}

	if len(prop.OptionsAre) > 0 {
		out = append(out, TableRow{Field: fieldOptions, Value: strings.Join(prop.OptionsAre, ", ")})
	}

	if prop.Pattern != "" {
		out = append(out, TableRow{Field: fieldPattern, Value: prop.Pattern})
	}

	return out
}
