// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// maxExampleDepth bounds generated example nesting.
const maxExampleDepth = 32

// exampleScalarPlaceholders provides fallback values for scalar schema types.
var exampleScalarPlaceholders = map[string]any{
	"string":  "<string>",
	"number":  0,
	"integer": 0,
	"boolean": false,
	"null":    nil,
}

// GenerateExampleYAML builds a YAML example for one property from defaults,
// enum values and type placeholders. Keys carry title/description comments.
func GenerateExampleYAML(name string, prop *SchemaProperty) ([]byte, error) {
	value, err := exampleNode(prop, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeExampleYAML, err)
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	key := yamlScalarNode("!!str", name)
	key.HeadComment = propertyComment(prop)
	root.Content = append(root.Content, key, value)

	data, err := marshalExampleYAMLNode(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeExampleYAML, err)
	}

	return data, nil
}

// exampleNode recursively builds YAML node for one effective property.
func exampleNode(prop *SchemaProperty, depth int) (*yaml.Node, error) {
	effective := Flatten(prop)
	if effective == nil || depth > maxExampleDepth {
		return yamlScalarNode("!!null", "null"), nil
	}

	if len(effective.Properties) > 0 {
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range effective.SortedPropertyNames() {
			child := effective.Properties[key]
			value, err := exampleNode(child, depth+1)
			if err != nil {
				return nil, err
			}

			keyNode := yamlScalarNode("!!str", key)
			keyNode.HeadComment = propertyComment(child)
			node.Content = append(node.Content, keyNode, value)
		}

		return node, nil
	}

	if effective.HasDefault {
		return yamlNodeForValue(effective.Default)
	}

	if len(effective.Enum) > 0 {
		return yamlScalarNode("!!str", effective.Enum[0]), nil
	}

	if len(effective.OptionsAre) > 0 {
		return yamlScalarNode("!!str", effective.OptionsAre[0]), nil
	}

	schemaType := primaryType(effective.Type)
	if schemaType == "array" || effective.Items != nil {
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if effective.Items != nil {
			item, err := exampleNode(effective.Items, depth+1)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, item)
		}

		return node, nil
	}

	if schemaType == "object" {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}

	if value, ok := exampleScalarPlaceholders[schemaType]; ok {
		return yamlNodeForValue(value)
	}

	return yamlScalarNode("!!null", "null"), nil
}

// primaryType returns first non-null type name.
func primaryType(types TypeList) string {
	for _, name := range types {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" && name != "null" {
			return name
		}
	}

	if len(types) > 0 {
		return strings.ToLower(strings.TrimSpace(types[0]))
	}

	return ""
}

// propertyComment builds YAML key comment from property title and description.
func propertyComment(prop *SchemaProperty) string {
	effective := Flatten(prop)
	if effective == nil {
		return ""
	}

	title := strings.TrimSpace(effective.Title)
	description := strings.TrimSpace(effective.Description)

	switch {
	case title == "" && description == "":
		return ""
	case title == "" || title == description:
		return normalizeYAMLComment(description)
	case description == "":
		return normalizeYAMLComment(title)
	default:
		return normalizeYAMLComment(title + "\n" + description)
	}
}

// normalizeYAMLComment drops blank lines from comment body.
func normalizeYAMLComment(comment string) string {
	lines := strings.Split(normalizeLineEndings(comment), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		out = append(out, strings.TrimRight(line, " \t"))
	}

	return strings.Join(out, "\n")
}

// marshalExampleYAMLNode serializes node as YAML document with two-space indent.
func marshalExampleYAMLNode(node *yaml.Node) ([]byte, error) {
	document := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{node},
	}

	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(2)

	if err := encoder.Encode(document); err != nil {
		return nil, err
	}

	if err := encoder.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// yamlNodeForValue builds deterministic yaml.Node tree from JSON-like value.
func yamlNodeForValue(value any) (*yaml.Node, error) {
	switch typed := value.(type) {
	case nil:
		return yamlScalarNode("!!null", "null"), nil

	case bool:
		return yamlScalarNode("!!bool", strconv.FormatBool(typed)), nil

	case string:
		return yamlScalarNode("!!str", typed), nil

	case int:
		return yamlScalarNode("!!int", strconv.Itoa(typed)), nil

	case int64:
		return yamlScalarNode("!!int", strconv.FormatInt(typed, 10)), nil

	case uint64:
		return yamlScalarNode("!!int", strconv.FormatUint(typed, 10)), nil

	case json.Number:
		literal := typed.String()
		if _, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return yamlScalarNode("!!int", literal), nil
		}

		if _, err := strconv.ParseUint(literal, 10, 64); err == nil {
			return yamlScalarNode("!!int", literal), nil
		}

		// YAML resolves fractions and out of range integers as floats.
		return yamlScalarNode("!!float", literal), nil

	case float64:
		if typed == math.Trunc(typed) && math.Abs(typed) < 1<<53 {
			return yamlScalarNode("!!int", strconv.FormatInt(int64(typed), 10)), nil
		}

		return yamlScalarNode("!!float", strconv.FormatFloat(typed, 'g', -1, 64)), nil

	case map[string]any:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range sortedKeys(typed) {
			valueNode, err := yamlNodeForValue(typed[key])
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, yamlScalarNode("!!str", key), valueNode)
		}

		return node, nil

	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typed {
			valueNode, err := yamlNodeForValue(item)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, valueNode)
		}

		return node, nil

	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return nil, err
		}

		normalized, err := decodeJSONDocument(data)
		if err != nil {
			return nil, err
		}

		return yamlNodeForValue(normalized)
	}
}

// yamlScalarNode creates one scalar yaml.Node with explicit tag.
func yamlScalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   tag,
		Value: value,
	}
}
