// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for the
// readera-extract pipeline.
package types

// PagePlaceholder is the display value used when a citation carries no
// page number.
const PagePlaceholder = "N/A"

// UnknownTitle is the resolved title for a document that carries neither
// doc_title nor doc_file_name_title.
const UnknownTitle = "Unknown Book"

// Annotation is one extracted note: a quoted passage and the user's
// comment on it, tied to a page of a book. All fields are display text;
// an Annotation is never mutated after extraction.
type Annotation struct {
	// BookTitle is the resolved title of the book the note belongs to.
	BookTitle string `json:"book_title" yaml:"book_title"`

	// Page is the page identifier as display text. Numeric pages from the
	// export are formatted without a fractional part.
	Page string `json:"page" yaml:"page"`

	// Quote is the highlighted passage. Empty when the export omits it.
	Quote string `json:"quote" yaml:"quote"`

	// Note is the user's own comment on the quote. Empty when omitted.
	Note string `json:"note" yaml:"note"`
}

// BookGroup holds all annotations that resolved to one book title, in
// extraction order.
type BookGroup struct {
	// Title is the group key; it equals BookTitle on every record below.
	Title string `json:"title" yaml:"title"`

	// Records are the book's annotations in document-then-citation order.
	Records []Annotation `json:"records" yaml:"records"`
}

// GroupByBook partitions records into one BookGroup per distinct title.
// Groups appear in order of first occurrence and records keep their
// relative order; exact duplicate records are preserved as separate rows.
func GroupByBook(records []Annotation) []BookGroup {
	index := make(map[string]int, len(records))
	var groups []BookGroup

	for _, rec := range records {
		i, ok := index[rec.BookTitle]
		if !ok {
			i = len(groups)
			index[rec.BookTitle] = i
			groups = append(groups, BookGroup{Title: rec.BookTitle})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}

	return groups
}
