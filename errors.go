// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/confdoc

package confdoc

import (
	"errors"
	"strings"
)

var (
	// ErrReadSchemaFile is returned when schema file loading fails.
	ErrReadSchemaFile = errors.New("read schema file")
	// ErrDecodeSchema is returned when schema JSON or YAML decoding fails.
	ErrDecodeSchema = errors.New("decode schema")
	// ErrSchemaRootType is returned when schema root is not an object.
	ErrSchemaRootType = errors.New("schema root must be object")
	// ErrFetch matches any *FetchError.
	ErrFetch = errors.New("fetch schema")
	// ErrResolve is returned when reference resolution fails.
	ErrResolve = errors.New("resolve schema references")
	// ErrLoadPanic is returned when a load step or injected resolver panics.
	ErrLoadPanic = errors.New("schema load panicked")
	// ErrReferenceDepth is returned when $ref nesting exceeds MaxRefDepth.
	ErrReferenceDepth = errors.New("reference nesting too deep")
	// ErrUnknownOutputFormat is returned when requested output format is not supported.
	ErrUnknownOutputFormat = errors.New("unknown output format")
	// ErrEncodeExampleYAML is returned when synthesized example YAML encoding fails.
	ErrEncodeExampleYAML = errors.New("encode example yaml")
	// ErrWriteOutput is returned when a writer fails to emit the render tree.
	ErrWriteOutput = errors.New("write output")
)

// FetchError describes a failed schema document retrieval.
type FetchError struct {
	// URL is the requested document location.
	URL string
	// Status is the HTTP status line, empty for transport failures.
	Status string
	// Err is the underlying transport or read failure.
	Err error
	// StatusCode is the HTTP status code, zero for transport failures.
	StatusCode int
}

// Error returns the HTTP status line or the underlying failure message.
func (e *FetchError) Error() string {
	if strings.TrimSpace(e.Status) != "" {
		return e.Status
	}

	if e.Err != nil {
		return e.Err.Error()
	}

	return "fetch " + e.URL + " failed"
}

// Unwrap returns the underlying failure.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports ErrFetch equivalence for errors.Is.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}
