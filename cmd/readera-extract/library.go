// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BlueDude11/Readera-annotation-note-extractor/internal/library"
	"github.com/BlueDude11/Readera-annotation-note-extractor/pkg/types"
)

// --- index subcommand ---

var indexCmd = &cobra.Command{
	Use:   "index <export.json>",
	Short: "Ingest an export into the annotation library",
	Long: `Index runs the extraction pipeline and stores the results in a local
SQLite library with full-text indexing over quotes and notes. Re-indexing
an export replaces each book's previous annotations instead of duplicating
them.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	records, err := loadAndExtract(args[0])
	if err != nil {
		return err
	}
	groups := types.GroupByBook(records)
	if len(groups) == 0 {
		fmt.Fprintln(os.Stdout, "No annotations found.")
		return nil
	}

	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), groups, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d book(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over the annotation library",
	Long: `Search matches the query against indexed quotes and notes using FTS5
and prints ranked results. Use --book to restrict the search to one title.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	book, _ := cmd.Flags().GetString("book")
	results, err := store.Search(context.Background(), args[0], book)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []library.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-30s  %-8s  %-40s  %s\n",
		"Rank", "Book", "Page", "Quote", "Note")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-30s  %-8s  %-40s  %s\n",
			r.Rank, truncate(r.BookTitle, 30), truncate(r.Page, 8),
			truncate(r.Quote, 40), truncate(r.Note, 40))
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	for _, cmd := range []*cobra.Command{indexCmd, searchCmd} {
		cmd.Flags().String("db", "", "library database file (default: library.db)")
		cmd.Flags().Int("max-results", 0, "maximum number of search results")
	}
	searchCmd.Flags().String("book", "", "restrict search to one book title")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
}
