// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

// confdoc renders configuration reference pages from JSON Schema.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/confdoc"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/woozymasta/confdoc"
	_buildTime string
)

// cliOptions describes confdoc CLI flags and subcommands.
type cliOptions struct {
	Version versionCommand `command:"version" description:"Print version information"`
	Render  renderCommand  `command:"render" description:"Render schema from URL, file or stdin into documentation"`
	Split   splitCommand   `command:"split" description:"Split example text into commentary and code"`
}

// renderFlags groups page rendering flags.
type renderFlags struct {
	ConfigPath         string `short:"c" long:"config" description:"YAML config file with render settings"`
	Format             string `short:"o" long:"format" description:"Output format" choice:"markdown" choice:"json"`
	Title              string `short:"T" long:"title" description:"Page title (defaults to schema title)"`
	ExampleLanguage    string `short:"e" long:"example-language" description:"Fence language of example code blocks (default yaml)"`
	ListMarker         string `short:"l" long:"list-marker" description:"Unordered list marker for normalized descriptions" choice:"-" choice:"*"`
	HeadingLevel       int    `short:"H" long:"heading-level" description:"Heading level of top-level properties (default 2)"`
	WrapWidth          int    `short:"w" long:"wrap" description:"Wrap width for plain text descriptions (default 80)"`
	OmitNestedOptions  bool   `long:"omit-nested" description:"Do not render Available Options sections"`
	SynthesizeExamples bool   `long:"synthesize-examples" description:"Generate YAML examples for object properties without examples"`
	OmitContents       bool   `long:"no-toc" description:"Do not render table of contents"`
	HTML               bool   `long:"html" description:"Render markdown fields as HTML"`
	Verbose            bool   `short:"v" long:"verbose" description:"Log debug diagnostics to stderr"`
}

// renderCommand renders schema documentation.
type renderCommand struct {
	runner *cliRunner
	Args   struct {
		Source string `positional-arg-name:"source" description:"Schema URL or file path (optional; config source or stdin when omitted)"`
		Output string `positional-arg-name:"output" description:"Output file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	RenderFlags renderFlags `group:"Render"`
}

// Execute runs render subcommand.
func (command *renderCommand) Execute(_ []string) error {
	return command.runner.runRender(command.RenderFlags, command.Args.Source, command.Args.Output)
}

// splitCommand prints commentary and code of one example.
type splitCommand struct {
	runner *cliRunner
	Args   struct {
		Input string `positional-arg-name:"input" description:"Example text file (optional; stdin when omitted)"`
	} `positional-args:"yes"`

	Language string `short:"e" long:"example-language" description:"Fence language of the example code block" default:"yaml"`
}

// Execute runs split subcommand.
func (command *splitCommand) Execute(_ []string) error {
	return command.runner.runSplit(command.Language, command.Args.Input)
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	programName string
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	printVersionInfo(command.runner.stdout)
	return nil
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "confdoc"
	}

	runner := cliRunner{
		programName: filepath.Base(programName),
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// runRender loads schema, renders documentation and writes it to stdout or file.
func (runner *cliRunner) runRender(renderFlags renderFlags, source, outputPath string) error {
	settings, err := loadRenderSettings(renderFlags, source, outputPath)
	if err != nil {
		return err
	}

	logger := runner.newLogger(renderFlags.Verbose)
	options := settings.options(logger)

	ctx := context.Background()
	var rendered string
	if settings.Source == "" {
		schemaBytes, err := runner.readStdin()
		if err != nil {
			return fmt.Errorf("read schema input: %w", err)
		}

		rendered, err = confdoc.Render(schemaBytes, options)
		if err != nil {
			return fmt.Errorf("render schema: %w", err)
		}
	} else {
		state := confdoc.NewLoader(confdoc.WithLogger(logger)).Load(ctx, settings.Source)
		if state.Kind == confdoc.StateError {
			return errors.New(state.ErrorText())
		}

		rendered, err = confdoc.RenderDocument(ctx, state.Document, options)
		if err != nil {
			return fmt.Errorf("render schema: %w", err)
		}
	}

	return runner.writeOutput(settings.Output, rendered)
}

// runSplit prints commentary and code of one example text.
func (runner *cliRunner) runSplit(language, inputPath string) error {
	var data []byte
	var err error
	if strings.TrimSpace(inputPath) == "" {
		data, err = runner.readStdin()
	} else {
		data, err = os.ReadFile(inputPath)
	}

	if err != nil {
		return fmt.Errorf("read example input: %w", err)
	}

	commentary, code := confdoc.SplitExample(string(data), language)
	_, err = fmt.Fprintf(runner.stdout, "commentary:\n%s\n\ncode:\n%s\n", commentary, code)
	return err
}

// readStdin reads non-empty input from stdin.
func (runner *cliRunner) readStdin() ([]byte, error) {
	data, err := io.ReadAll(runner.stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("read stdin: empty input")
	}

	return data, nil
}

// writeOutput writes rendered text to stdout or file.
func (runner *cliRunner) writeOutput(outputPath, rendered string) error {
	if strings.TrimSpace(outputPath) == "" {
		if _, err := io.WriteString(runner.stdout, rendered); err != nil {
			return fmt.Errorf("write output to stdout: %w", err)
		}

		return nil
	}

	if err := os.WriteFile(outputPath, []byte(rendered), 0o600); err != nil {
		return fmt.Errorf("write output file %q: %w", outputPath, err)
	}

	return nil
}

// newLogger creates stderr text logger; debug level when verbose.
func (runner *cliRunner) newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(runner.stderr, &slog.HandlerOptions{Level: level}))
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	//nolint:gosec // CLI writes plain-text diagnostics to terminal streams, not HTTP responses.
	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Version.runner = runner
	options.Render.runner = runner
	options.Split.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	return err
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"render": strings.TrimSpace(fmt.Sprintf(`
Render configuration reference from JSON Schema.
Source may be an http(s) URL, a file path or stdin; output goes to file argument or stdout.
Settings from --config are overridden by explicit flags.

Examples:
> $ %s render https://example.com/config.schema.json > config.md
> $ %s render -o json schema.json tree.json
> $ cat schema.yaml | %s render --synthesize-examples
`, programName, programName, programName)),
		"split": strings.TrimSpace(fmt.Sprintf(`
Split example text into commentary and dedented code block.

Examples:
> $ %s split example.txt
> $ cat example.txt | %s split -e json
`, programName, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

func printVersionInfo(output io.Writer) {
	_, _ = fmt.Fprintf(output, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, os.Args[0], Version, Commit, BuildTime)
}
