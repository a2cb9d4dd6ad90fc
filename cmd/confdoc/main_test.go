// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestRunRenderWritesMarkdownToStdout(t *testing.T) {
	t.Parallel()

	schemaPath := writeSchemaFixture(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", schemaPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	out := stdout.String()
	assertContains(t, out, "# Demo Config\n")
	assertContains(t, out, "* [log_level](#log-level)\n* [server](#server)")
	assertContains(t, out, "## server")
	assertContains(t, out, "<summary>Available Options</summary>")
	assertContains(t, out, "### port")
}

func TestRunRenderFromStdin(t *testing.T) {
	t.Parallel()

	stdin := strings.NewReader(`{"properties": {"name": {"type": "string", "description": "Service name."}}}`)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := runWithIO([]string{"render", "--no-toc"}, stdin, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	assertContains(t, stdout.String(), "## name")
	assertContains(t, stdout.String(), "Service name.")
	assertNotContains(t, stdout.String(), "* [name](#name)")
}

func TestRunRenderEmptyStdin(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := runWithIO([]string{"render"}, strings.NewReader("  \n"), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}

	assertContains(t, stderr.String(), "read schema input:")
}

func TestRunRenderWritesOutputFile(t *testing.T) {
	t.Parallel()

	schemaPath := writeSchemaFixture(t)
	outputPath := filepath.Join(t.TempDir(), "config.md")

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "--omit-nested", "--heading-level", "3", schemaPath, outputPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if stdout.Len() != 0 {
		t.Fatalf("stdout should be empty when writing file: %s", stdout.String())
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}

	assertContains(t, string(data), "### server")
	assertNotContains(t, string(data), "Available Options")
}

func TestRunRenderJSONFormat(t *testing.T) {
	t.Parallel()

	schemaPath := writeSchemaFixture(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "--format", "json", schemaPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	var tree struct {
		Kind     string `json:"kind"`
		Children []struct {
			Kind string `json:"kind"`
		} `json:"children"`
	}

	if err := json.Unmarshal(stdout.Bytes(), &tree); err != nil {
		t.Fatalf("decode JSON output: %v\n%s", err, stdout.String())
	}

	if tree.Kind != "document" || len(tree.Children) == 0 {
		t.Fatalf("unexpected tree: %+v", tree)
	}
}

func TestRunRenderFromURL(t *testing.T) {
	t.Parallel()

	body, err := os.ReadFile(writeSchemaFixture(t))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/config.schema.json" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", server.URL + "/config.schema.json"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	assertContains(t, stdout.String(), "# Demo Config")

	stdout.Reset()
	stderr.Reset()
	code = run([]string{"render", server.URL + "/missing.json"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}

	assertContains(t, stderr.String(), "Error loading schema: 404")
}

func TestRunRenderWithConfigFile(t *testing.T) {
	t.Parallel()

	schemaPath := writeSchemaFixture(t)
	configPath := filepath.Join(t.TempDir(), "confdoc.yaml")
	config := "source: " + schemaPath + "\ntitle: From Config\nomitTableOfContents: true\nsynthesizeExamples: true\nomitNestedOptions: true\n"
	if err := os.WriteFile(configPath, []byte(config), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "--config", configPath, "--title", "From Flag"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	out := stdout.String()
	assertContains(t, out, "# From Flag")
	assertNotContains(t, out, "# From Config")
	assertNotContains(t, out, "* [server](#server)")
	assertContains(t, out, "```yaml\nserver:\n")
}

func TestRunRenderMissingConfigFile(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "--config", filepath.Join(t.TempDir(), "missing.yaml")}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}

	assertContains(t, stderr.String(), "read config file")
}

func TestRunRenderHTMLDescriptions(t *testing.T) {
	t.Parallel()

	schemaPath := writeSchemaFixture(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "--html", schemaPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	assertContains(t, stdout.String(), "<p>Verbosity of <code>stderr</code> logs.</p>")
}

func TestRunRenderInvalidFormat(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "--format", "pdf"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected exit code 2, got %d, stderr: %s", code, stderr.String())
	}

	assertContains(t, stderr.String(), "Invalid value")
}

func TestRunRenderMissingInputFile(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", filepath.Join(t.TempDir(), "missing.json")}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}

	assertContains(t, stderr.String(), "Error loading schema: read schema file")
}

func TestRunSplitFromStdin(t *testing.T) {
	t.Parallel()

	stdin := strings.NewReader("Intro text.\n```yaml\n  foo: 1\n    bar: 2\n```\n")

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := runWithIO([]string{"split"}, stdin, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	want := "commentary:\nIntro text.\n\ncode:\nfoo: 1\n  bar: 2\n"
	if stdout.String() != want {
		t.Fatalf("split output = %q, want %q", stdout.String(), want)
	}
}

func TestRunSplitFromFileWithLanguage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "example.txt")
	if err := os.WriteFile(path, []byte("```json\n    {\"a\": 1}\n```\nTrailing words."), 0o600); err != nil {
		t.Fatalf("write example: %v", err)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"split", "-e", "json", path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	assertContains(t, stdout.String(), "commentary:\nTrailing words.\n")
	assertContains(t, stdout.String(), "code:\n{\"a\": 1}\n")
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"version"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	assertContains(t, stdout.String(), "version:  dev")
}

func TestRunHelpExitsZero(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "--help"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	assertContains(t, stdout.String(), "Usage:")
	assertContains(t, stdout.String(), "--omit-nested")
}

func TestRunReturnsErrorForMissingCommand(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected exit code 2, got %d, stderr: %s", code, stderr.String())
	}
}

func TestLoadRenderSettingsRejectsHeadingLevel(t *testing.T) {
	t.Parallel()

	_, err := loadRenderSettings(renderFlags{HeadingLevel: 7}, "", "")
	if err == nil {
		t.Fatal("expected heading level error")
	}
}

func writeSchemaFixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	body := `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$ref": "#/$defs/Config",
  "$defs": {
    "Port": {"type": "integer", "default": 8080},
    "Config": {
      "title": "Demo Config",
      "type": "object",
      "properties": {
        "log_level": {
          "type": "string",
          "enum": ["debug", "info"],
          "description": "Verbosity of ` + "`stderr`" + ` logs."
        },
        "server": {
          "allOf": [
            {"type": "object", "properties": {"host": {"type": "string", "default": "localhost"}}},
            {"properties": {"port": {"$ref": "#/$defs/Port"}}}
          ]
        }
      }
    }
  }
}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write schema fixture: %v", err)
	}

	return path
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()

	if !strings.Contains(haystack, needle) {
		t.Fatalf("missing substring %q in:\n%s", needle, haystack)
	}
}

func assertNotContains(t *testing.T, haystack, needle string) {
	t.Helper()

	if strings.Contains(haystack, needle) {
		t.Fatalf("unexpected substring %q in:\n%s", needle, haystack)
	}
}
