// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlueDude11/Readera-annotation-note-extractor/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := types.LibraryConfig{
		DBPath:     filepath.Join(t.TempDir(), "library.db"),
		MaxResults: 20,
	}
	store, err := NewStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testGroups() []types.BookGroup {
	return types.GroupByBook([]types.Annotation{
		{BookTitle: "Dune", Page: "12", Quote: "Fear is the mind-killer.", Note: "Litany against fear."},
		{BookTitle: "Dune", Page: "40", Quote: "The spice must flow.", Note: "Economics of Arrakis."},
		{BookTitle: "Hyperion", Page: "3", Quote: "The Consul played his Steinway.", Note: "Opening image."},
	})
}

func TestIngestAndSearch(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	var buf strings.Builder
	summary, err := store.Ingest(ctx, testGroups(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Indexed)
	assert.Equal(t, 0, summary.Updated)
	assert.False(t, summary.HasFailures())
	assert.Contains(t, buf.String(), "indexed Dune (2 annotations)")

	results, err := store.Search(ctx, "spice", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Dune", results[0].BookTitle)
	assert.Equal(t, "40", results[0].Page)
	assert.Equal(t, 1, results[0].Rank)
}

func TestSearchMatchesNotes(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.Ingest(ctx, testGroups(), io.Discard)
	require.NoError(t, err)

	results, err := store.Search(ctx, "Arrakis", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "The spice must flow.", results[0].Quote)
}

func TestSearchBookFilter(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.Ingest(ctx, testGroups(), io.Discard)
	require.NoError(t, err)

	// "the" appears in both books; the filter keeps only Hyperion.
	results, err := store.Search(ctx, "the", "Hyperion")
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, "Hyperion", r.BookTitle)
	}
	assert.NotEmpty(t, results)
}

// Re-ingesting the same export replaces rows instead of duplicating them.
func TestReingestReplaces(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.Ingest(ctx, testGroups(), io.Discard)
	require.NoError(t, err)

	summary, err := store.Ingest(ctx, testGroups(), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Indexed)
	assert.Equal(t, 2, summary.Updated)

	groups, err := store.Books(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	for _, g := range groups {
		switch g.Title {
		case "Dune":
			assert.Len(t, g.Records, 2)
		case "Hyperion":
			assert.Len(t, g.Records, 1)
		default:
			t.Fatalf("unexpected group %q", g.Title)
		}
	}
}

func TestSearchEmptyLibrary(t *testing.T) {
	store := testStore(t)
	results, err := store.Search(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMaxResultsCap(t *testing.T) {
	cfg := types.LibraryConfig{
		DBPath:     filepath.Join(t.TempDir(), "library.db"),
		MaxResults: 1,
	}
	store, err := NewStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	_, err = store.Ingest(ctx, testGroups(), io.Discard)
	require.NoError(t, err)

	results, err := store.Search(ctx, "the", "")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
