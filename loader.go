// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

// errorTextPrefix prefixes user facing load failures.
const errorTextPrefix = "Error loading schema: "

const (
	// StateLoading means the document request has not completed yet.
	StateLoading StateKind = iota
	// StateError means fetch, decode or resolution failed.
	StateError
	// StateReady means the resolved document is available.
	StateReady
)

// StateKind is the phase of a schema load.
type StateKind int

// String returns lowercase state name.
func (kind StateKind) String() string {
	switch kind {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// State is the observable result of a schema load.
type State struct {
	// Document is set in StateReady.
	Document *SchemaDocument
	// Err is set in StateError.
	Err error
	// Message is the human readable failure in StateError.
	Message string
	Kind    StateKind
}

// ErrorText returns the user facing error line, or empty text outside StateError.
func (state State) ErrorText() string {
	if state.Kind != StateError {
		return ""
	}

	return errorTextPrefix + state.Message
}

// LoaderOption configures Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for document requests.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(loader *Loader) {
		if client != nil {
			loader.client = client
		}
	}
}

// WithResolver replaces the default RefResolver.
func WithResolver(resolver Resolver) LoaderOption {
	return func(loader *Loader) {
		loader.resolver = resolver
	}
}

// WithLogger sets diagnostics logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(loader *Loader) {
		loader.logger = loggerOrDiscard(logger)
	}
}

// WithTracerProvider sets a custom tracer provider.
func WithTracerProvider(provider trace.TracerProvider) LoaderOption {
	return func(loader *Loader) {
		loader.tracer = newTracer(provider)
	}
}

// WithMeterProvider sets a custom meter provider.
func WithMeterProvider(provider metric.MeterProvider) LoaderOption {
	return func(loader *Loader) {
		loader.loads = newLoadCounter(provider)
	}
}

// Loader fetches a schema document, resolves references and builds the typed document.
// Each load issues one request and keeps no state between loads.
type Loader struct {
	client   *http.Client
	resolver Resolver
	logger   *slog.Logger
	tracer   trace.Tracer
	loads    metric.Int64Counter
}

// NewLoader creates loader with default HTTP client and RefResolver.
func NewLoader(opts ...LoaderOption) *Loader {
	loader := &Loader{
		client: http.DefaultClient,
		logger: loggerOrDiscard(nil),
		tracer: newTracer(nil),
		loads:  newLoadCounter(nil),
	}

	for _, opt := range opts {
		opt(loader)
	}

	return loader
}

// Load fetches and resolves source synchronously and returns the final state.
// Source is an http(s) URL, a file URL or a local path.
func (loader *Loader) Load(ctx context.Context, source string) State {
	ctx, span := loader.tracer.Start(ctx, "confdoc.load",
		trace.WithAttributes(attribute.String("confdoc.source", source)),
	)
	defer span.End()

	doc, err := loader.load(ctx, source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		loader.loads.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", StateError.String())))
		loader.logger.Debug("schema load failed", "source", source, "error", err)

		return State{Kind: StateError, Err: err, Message: err.Error()}
	}

	span.SetStatus(codes.Ok, "")
	loader.loads.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", StateReady.String())))
	loader.logger.Debug("schema loaded", "source", source, "properties", len(doc.Properties))

	return State{Kind: StateReady, Document: doc}
}

// Start runs Load in a goroutine and returns the session observing it.
func (loader *Loader) Start(ctx context.Context, source string) *Session {
	session := &Session{
		done:  make(chan struct{}),
		state: State{Kind: StateLoading},
	}

	go session.finish(loader.Load(ctx, source))
	return session
}

// load runs fetch, decode, resolve and build steps; panics become ErrLoadPanic.
func (loader *Loader) load(ctx context.Context, source string) (doc *SchemaDocument, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", ErrLoadPanic, recovered)
		}
	}()

	data, contentType, err := loader.fetchDocument(ctx, source)
	if err != nil {
		return nil, err
	}

	raw, err := decodeSchemaBytes(data, source, contentType)
	if err != nil {
		return nil, err
	}

	resolved, err := loader.resolve(ctx, source, raw)
	if err != nil {
		return nil, err
	}

	return NewDocument(resolved)
}

// resolve runs configured resolver inside a trace span.
func (loader *Loader) resolve(ctx context.Context, source string, raw any) (any, error) {
	ctx, span := loader.tracer.Start(ctx, "confdoc.resolve")
	defer span.End()

	resolver := resolverOrDefault(loader.resolver, loader.fetchDocument, source, loader.logger)
	resolved, err := resolver.Resolve(ctx, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %w", ErrResolve, err)
	}

	return resolved, nil
}

// fetchDocument reads document bytes and content type from URL or local path.
func (loader *Loader) fetchDocument(ctx context.Context, location string) ([]byte, string, error) {
	parsed, err := url.Parse(location)
	if err == nil {
		switch strings.ToLower(parsed.Scheme) {
		case "http", "https":
			return loader.fetchHTTP(ctx, location)
		case "file":
			location = parsed.Path
		}
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrReadSchemaFile, err)
	}

	return data, "", nil
}

// fetchHTTP issues one GET request accepting JSON.
func (loader *Loader) fetchHTTP(ctx context.Context, location string) ([]byte, string, error) {
	ctx, span := loader.tracer.Start(ctx, "confdoc.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("url.full", location)),
	)
	defer span.End()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, "", &FetchError{URL: location, Err: err}
	}

	request.Header.Set("Accept", "application/json")

	response, err := loader.client.Do(request)
	if err != nil {
		span.RecordError(err)
		return nil, "", &FetchError{URL: location, Err: err}
	}
	defer func() {
		_ = response.Body.Close()
	}()

	span.SetAttributes(attribute.Int("http.response.status_code", response.StatusCode))
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		span.SetStatus(codes.Error, response.Status)
		return nil, "", &FetchError{URL: location, StatusCode: response.StatusCode, Status: response.Status}
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, "", &FetchError{URL: location, StatusCode: response.StatusCode, Err: err}
	}

	return data, response.Header.Get("Content-Type"), nil
}

// decodeSchemaBytes decodes YAML when location has a .yaml/.yml extension or
// content type is a YAML media type, JSON otherwise.
func decodeSchemaBytes(data []byte, location, contentType string) (any, error) {
	if !isYAMLLocation(location) && !isYAMLMediaType(contentType) {
		return decodeJSONDocument(data)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	return raw, nil
}

// isYAMLLocation reports whether URL or file path ends with a YAML extension.
func isYAMLLocation(location string) bool {
	location = strings.TrimSpace(location)
	if parsed, err := url.Parse(location); err == nil && parsed.Scheme != "" && parsed.Opaque == "" {
		location = parsed.Path
	}

	switch strings.ToLower(path.Ext(filepath.ToSlash(location))) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// isYAMLMediaType reports whether content type names YAML, e.g. application/yaml or text/x-yaml.
func isYAMLMediaType(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	default:
		return strings.HasSuffix(mediaType, "+yaml")
	}
}

// Session observes one asynchronous load.
type Session struct {
	done  chan struct{}
	state State
	mu    sync.Mutex
}

// State returns StateLoading until the load completes, then the final state.
func (session *Session) State() State {
	session.mu.Lock()
	defer session.mu.Unlock()

	return session.state
}

// Done is closed when the session leaves StateLoading.
func (session *Session) Done() <-chan struct{} {
	return session.done
}

// Wait blocks until the load completes and returns the final state.
func (session *Session) Wait() State {
	<-session.done
	return session.State()
}

// finish stores final state once.
func (session *Session) finish(state State) {
	session.mu.Lock()
	if session.state.Kind != StateLoading {
		session.mu.Unlock()
		return
	}

	session.state = state
	session.mu.Unlock()
	close(session.done)
}
