// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render emits grouped annotations as console text or as one PDF
// document per book.
package render

import (
	"fmt"
	"io"

	"github.com/BlueDude11/Readera-annotation-note-extractor/pkg/types"
)

// RecordSeparator is the separator line printed after every console
// record, the last one included.
const RecordSeparator = "--------------------"

// Console writes every group's records to w in a fixed four-line layout.
// An empty group list produces a single informational message.
func Console(w io.Writer, groups []types.BookGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No annotations found.")
		return
	}

	for _, g := range groups {
		for _, rec := range g.Records {
			fmt.Fprintf(w, "Book: %s\n", g.Title)
			fmt.Fprintf(w, "Page: %s\n", rec.Page)
			fmt.Fprintf(w, "Quote: %q\n", rec.Quote)
			fmt.Fprintf(w, "Annotation: %q\n", rec.Note)
			fmt.Fprintln(w, RecordSeparator)
		}
	}
}
