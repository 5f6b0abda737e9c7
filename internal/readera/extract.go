// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package readera

import (
	"fmt"
	"math"
	"strconv"

	"github.com/BlueDude11/Readera-annotation-note-extractor/pkg/types"
)

// Export schema keys. The export is a JSON object whose "docs" array holds
// one entry per book; each entry nests its metadata under "data" and its
// notes under "citations".
const (
	docsKey      = "docs"
	metaKey      = "data"
	citationsKey = "citations"

	titleKey         = "doc_title"
	fallbackTitleKey = "doc_file_name_title"

	pageKey  = "note_page"
	quoteKey = "note_body"
	noteKey  = "note_extra"
)

// Extract walks the parsed export and builds one Annotation per citation.
// Records follow document order, then citation order within a document.
// A missing or mistyped top-level docs array is an ErrSchema failure;
// malformed individual entries are skipped silently.
func Extract(root any) ([]types.Annotation, error) {
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is not a JSON object", ErrSchema)
	}
	docs, ok := obj[docsKey].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q array at top level", ErrSchema, docsKey)
	}

	var records []types.Annotation

	for _, d := range docs {
		doc, ok := d.(map[string]any)
		if !ok {
			continue
		}
		meta, ok := doc[metaKey].(map[string]any)
		if !ok {
			continue
		}

		title := resolveTitle(meta)

		citations, ok := doc[citationsKey].([]any)
		if !ok || len(citations) == 0 {
			continue
		}

		for _, c := range citations {
			citation, ok := c.(map[string]any)
			if !ok {
				continue
			}
			records = append(records, types.Annotation{
				BookTitle: title,
				Page:      pageField(citation, pageKey),
				Quote:     stringField(citation, quoteKey),
				Note:      stringField(citation, noteKey),
			})
		}
	}

	return records, nil
}

// resolveTitle picks the display title for a document's metadata object:
// doc_title, then doc_file_name_title, then the placeholder. An entry is
// never dropped for lacking a title.
func resolveTitle(meta map[string]any) string {
	if t := stringField(meta, titleKey); t != "" {
		return t
	}
	if t := stringField(meta, fallbackTitleKey); t != "" {
		return t
	}
	return types.UnknownTitle
}

// stringField reads an optional field as display text, defaulting to the
// empty string. Non-string values are formatted rather than rejected.
func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	return displayText(v)
}

// pageField reads an optional page identifier, defaulting to the
// placeholder marker when absent or empty.
func pageField(m map[string]any, key string) string {
	if s := stringField(m, key); s != "" {
		return s
	}
	return types.PagePlaceholder
}

// displayText renders a decoded JSON value as text. JSON numbers arrive
// as float64; integral ones print without a fractional part so page 12
// never shows up as 12.000000.
func displayText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
