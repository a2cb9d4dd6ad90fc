// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

/*
Package confdoc renders configuration JSON Schema documents into reference pages.

A page has a table of contents, one section per property with a details table
(type, default, enum, options, pattern), worked examples, notes and nested
"Available Options" revealed by allOf composition. Rendering produces a
framework-agnostic tree of Node values that can be written as CommonMark or
JSON, or handed to a UI layer directly.

Render schema bytes:

	md, err := confdoc.Render(schemaBytes, confdoc.Options{
		Title: "Config Reference",
	})
	if err != nil {
		return err
	}

	fmt.Println(md)

Load a remote schema and observe the load state:

	loader := confdoc.NewLoader()
	session := loader.Start(ctx, "https://example.com/config.schema.json")

	state := session.Wait()
	if state.Kind == confdoc.StateError {
		fmt.Println(state.ErrorText())
		return nil
	}

	tree := confdoc.NewRenderer(confdoc.Options{}).RenderDocument(state.Document)
	return confdoc.WriteMarkdown(os.Stdout, tree)

Merge allOf fragments of one property:

	effective := confdoc.Flatten(doc.Properties["server"])
	fmt.Println(effective.SortedPropertyNames())

Split an example string into commentary and code:

	commentary, code := confdoc.SplitExample(raw, "yaml")
*/
package confdoc
