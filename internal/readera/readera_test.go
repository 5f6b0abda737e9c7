// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package readera

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/BlueDude11/Readera-annotation-note-extractor/pkg/types"
)

// writeExport writes a JSON export fixture and returns its path.
func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("want ErrFileNotFound, got %v", err)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeExport(t, `{"docs": [`)
	_, err := Load(path)
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("want ErrMalformedInput, got %v", err)
	}
}

func TestLoadValidJSON(t *testing.T) {
	path := writeExport(t, `{"docs": [], "version": 3}`)
	root, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := root.(map[string]any); !ok {
		t.Fatalf("want object root, got %T", root)
	}
}

func TestExtractSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		root any
	}{
		{"nil root", nil},
		{"non-object root", []any{}},
		{"missing docs", map[string]any{"version": 3.0}},
		{"docs not an array", map[string]any{"docs": "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.root)
			if !errors.Is(err, ErrSchema) {
				t.Fatalf("want ErrSchema, got %v", err)
			}
		})
	}
}

func TestExtractFullDocument(t *testing.T) {
	root := map[string]any{
		"docs": []any{
			map[string]any{
				"data": map[string]any{"doc_title": "Dune"},
				"citations": []any{
					map[string]any{
						"note_page":  12.0,
						"note_body":  "Fear is the mind-killer.",
						"note_extra": "Litany against fear.",
					},
				},
			},
		},
	}

	records, err := Extract(root)
	if err != nil {
		t.Fatal(err)
	}
	want := types.Annotation{
		BookTitle: "Dune",
		Page:      "12",
		Quote:     "Fear is the mind-killer.",
		Note:      "Litany against fear.",
	}
	if len(records) != 1 || records[0] != want {
		t.Fatalf("got %+v, want [%+v]", records, want)
	}
}

func TestExtractTitleResolution(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
		want string
	}{
		{"doc_title preferred", map[string]any{"doc_title": "A", "doc_file_name_title": "B"}, "A"},
		{"fallback to file name title", map[string]any{"doc_file_name_title": "B"}, "B"},
		{"empty doc_title falls back", map[string]any{"doc_title": "", "doc_file_name_title": "B"}, "B"},
		{"neither present", map[string]any{}, types.UnknownTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := map[string]any{
				"docs": []any{
					map[string]any{
						"data":      tt.meta,
						"citations": []any{map[string]any{"note_body": "q"}},
					},
				},
			}
			records, err := Extract(root)
			if err != nil {
				t.Fatal(err)
			}
			if len(records) != 1 || records[0].BookTitle != tt.want {
				t.Fatalf("got %+v, want title %q", records, tt.want)
			}
		})
	}
}

func TestExtractFieldDefaults(t *testing.T) {
	root := map[string]any{
		"docs": []any{
			map[string]any{
				"data":      map[string]any{"doc_title": "Sparse"},
				"citations": []any{map[string]any{}},
			},
		},
	}

	records, err := Extract(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Page != types.PagePlaceholder {
		t.Errorf("page: got %q, want %q", rec.Page, types.PagePlaceholder)
	}
	if rec.Quote != "" || rec.Note != "" {
		t.Errorf("quote/note: got %q/%q, want empty", rec.Quote, rec.Note)
	}
}

func TestExtractSkipRules(t *testing.T) {
	root := map[string]any{
		"docs": []any{
			// No metadata object: skipped entirely.
			map[string]any{"citations": []any{map[string]any{"note_body": "q"}}},
			// Empty citations: contributes nothing.
			map[string]any{"data": map[string]any{"doc_title": "Empty"}, "citations": []any{}},
			// No citations key at all.
			map[string]any{"data": map[string]any{"doc_title": "Bare"}},
			// Two citations: contributes two records.
			map[string]any{
				"data": map[string]any{"doc_title": "Kept"},
				"citations": []any{
					map[string]any{"note_page": "1", "note_body": "first"},
					map[string]any{"note_page": "2", "note_body": "second"},
				},
			},
			// Non-object doc entry: skipped.
			"garbage",
		},
	}

	records, err := Extract(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("want 2 records, got %d: %+v", len(records), records)
	}
	for i, want := range []string{"first", "second"} {
		if records[i].BookTitle != "Kept" || records[i].Quote != want {
			t.Errorf("record %d: got %+v", i, records[i])
		}
	}
}

func TestDisplayText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"42a", "42a"},
		{12.0, "12"},
		{12.5, "12.5"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := displayText(tt.in); got != tt.want {
			t.Errorf("displayText(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadThenExtractCountsCitations(t *testing.T) {
	path := writeExport(t, `{
		"docs": [
			{"data": {"doc_title": "One"}, "citations": [{"note_body": "a"}, {"note_body": "b"}]},
			{"data": {"doc_title": "Two"}, "citations": []},
			{"data": {"doc_title": "Three"}, "citations": [{"note_body": "c"}]}
		]
	}`)

	root, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	records, err := Extract(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("want 3 records, got %d", len(records))
	}
}
