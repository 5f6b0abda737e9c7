// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package readera parses Readera JSON exports and extracts annotation
// records from them.
package readera

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Sentinel errors for the fatal failure classes. Callers match them with
// errors.Is and abort the run.
var (
	// ErrFileNotFound indicates the export path is missing or unreadable.
	ErrFileNotFound = errors.New("file not found")

	// ErrMalformedInput indicates the export is not valid JSON.
	ErrMalformedInput = errors.New("malformed input")

	// ErrSchema indicates the export lacks the expected top-level shape.
	ErrSchema = errors.New("unexpected schema")
)

// Load reads the file at path and parses it as JSON. Shape checks happen
// in Extract; Load only guarantees the bytes were valid JSON. It returns
// no partial result: any failure aborts the whole run.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		// The decoder error carries the byte offset of the problem.
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, path, err)
	}

	return root, nil
}
