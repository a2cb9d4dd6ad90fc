// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/woozymasta/confdoc"
)

// renderConfig is the YAML config file layout of render settings.
type renderConfig struct {
	Source             string `yaml:"source"`
	Output             string `yaml:"output"`
	Format             string `yaml:"format"`
	Title              string `yaml:"title"`
	ExampleLanguage    string `yaml:"exampleLanguage"`
	ListMarker         string `yaml:"listMarker"`
	HeadingLevel       int    `yaml:"headingLevel"`
	WrapWidth          int    `yaml:"wrapWidth"`
	OmitNestedOptions  bool   `yaml:"omitNestedOptions"`
	SynthesizeExamples bool   `yaml:"synthesizeExamples"`
	OmitContents       bool   `yaml:"omitTableOfContents"`
	HTML               bool   `yaml:"html"`
}

// readRenderConfig reads render settings from YAML file.
func readRenderConfig(configPath string) (*renderConfig, error) {
	fileData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", configPath, err)
	}

	var config renderConfig
	if err := yaml.Unmarshal(fileData, &config); err != nil {
		return nil, fmt.Errorf("unmarshal config file %q: %w", configPath, err)
	}

	return &config, nil
}

// loadRenderSettings merges config file values with explicit flags and positional args.
func loadRenderSettings(renderFlags renderFlags, source, outputPath string) (*renderConfig, error) {
	settings := &renderConfig{}
	if strings.TrimSpace(renderFlags.ConfigPath) != "" {
		config, err := readRenderConfig(renderFlags.ConfigPath)
		if err != nil {
			return nil, err
		}

		settings = config
	}

	overrideString(&settings.Source, source)
	overrideString(&settings.Output, outputPath)
	overrideString(&settings.Format, renderFlags.Format)
	overrideString(&settings.Title, renderFlags.Title)
	overrideString(&settings.ExampleLanguage, renderFlags.ExampleLanguage)
	overrideString(&settings.ListMarker, renderFlags.ListMarker)

	if renderFlags.HeadingLevel != 0 {
		settings.HeadingLevel = renderFlags.HeadingLevel
	}
	if renderFlags.WrapWidth != 0 {
		settings.WrapWidth = renderFlags.WrapWidth
	}

	settings.OmitNestedOptions = settings.OmitNestedOptions || renderFlags.OmitNestedOptions
	settings.SynthesizeExamples = settings.SynthesizeExamples || renderFlags.SynthesizeExamples
	settings.OmitContents = settings.OmitContents || renderFlags.OmitContents
	settings.HTML = settings.HTML || renderFlags.HTML

	if settings.HeadingLevel < 0 || settings.HeadingLevel > 6 {
		return nil, fmt.Errorf("heading level must be between 1 and 6, got %d", settings.HeadingLevel)
	}

	return settings, nil
}

// options converts merged settings to render options.
func (settings *renderConfig) options(logger *slog.Logger) confdoc.Options {
	options := confdoc.Options{
		Logger:              logger,
		Title:               settings.Title,
		ExampleLanguage:     settings.ExampleLanguage,
		ListMarker:          settings.ListMarker,
		Format:              confdoc.OutputFormat(settings.Format),
		HeadingLevel:        settings.HeadingLevel,
		WrapWidth:           settings.WrapWidth,
		OmitNestedOptions:   settings.OmitNestedOptions,
		SynthesizeExamples:  settings.SynthesizeExamples,
		OmitTableOfContents: settings.OmitContents,
	}

	if settings.HTML {
		options.Markdown = confdoc.NewHTMLMarkdown()
	}

	return options
}

func overrideString(target *string, value string) {
	if strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}
