package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFavorites struct {
	books map[string][]Book
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{books: make(map[string][]Book)}
}

func (f *fakeFavorites) Get(ctx context.Context, userID string) ([]Book, error) {
	return f.books[userID], nil
}

func (f *fakeFavorites) Add(ctx context.Context, userID string, book Book) (Outcome, error) {
	for _, existing := range f.books[userID] {
		if existing.Title == book.Title && existing.Author == book.Author {
			return OutcomeAlreadyExists, nil
		}
	}
	f.books[userID] = append(f.books[userID], book)
	return OutcomeAdded, nil
}

func TestLocateBookHandler(t *testing.T) {
	handler := LocateBookHandler()

	result, err := handler(context.Background(), map[string]any{"book_title": "Dune"})
	require.NoError(t, err)

	var location map[string]string
	require.NoError(t, json.Unmarshal([]byte(result), &location))
	assert.Equal(t, "Dune", location["book_title"])
	assert.NotEmpty(t, location["address"])

	branches := make(map[string]bool, len(branchLocations))
	for _, l := range branchLocations {
		branches[l.Branch] = true
	}
	assert.True(t, branches[location["branch"]], "branch %q must be a known branch", location["branch"])
}

func TestLocateBookHandlerRequiresTitle(t *testing.T) {
	handler := LocateBookHandler()
	_, err := handler(context.Background(), map[string]any{})
	assert.Error(t, err)
}

func TestSaveBookHandler(t *testing.T) {
	store := newFakeFavorites()
	handler := SaveBookHandler(store, "patron-1")

	result, err := handler(context.Background(), map[string]any{
		"title":  "Dune",
		"author": "Frank Herbert",
		"year":   1965,
	})
	require.NoError(t, err)
	assert.Equal(t, `Saved "Dune" by Frank Herbert to favorites.`, result)

	saved := store.books["patron-1"]
	require.Len(t, saved, 1)
	assert.Equal(t, 1965, saved[0].Year)

	result, err = handler(context.Background(), map[string]any{
		"title":  "Dune",
		"author": "Frank Herbert",
	})
	require.NoError(t, err)
	assert.Equal(t, `"Dune" by Frank Herbert is already in favorites.`, result)
}

func TestSaveBookHandlerRequiresTitleAndAuthor(t *testing.T) {
	handler := SaveBookHandler(newFakeFavorites(), "patron-1")
	_, err := handler(context.Background(), map[string]any{"title": "Dune"})
	assert.Error(t, err)
}

func TestListFavoritesHandler(t *testing.T) {
	store := newFakeFavorites()
	handler := ListFavoritesHandler(store, "patron-1")

	result, err := handler(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "No favorites saved.", result)

	_, err = store.Add(context.Background(), "patron-1", Book{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)

	result, err = handler(context.Background(), map[string]any{})
	require.NoError(t, err)

	var books []Book
	require.NoError(t, json.Unmarshal([]byte(result), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
}

func TestPlaceOnHoldHandler(t *testing.T) {
	handler := PlaceOnHoldHandler()

	result, err := handler(context.Background(), map[string]any{"title": "Dune"})
	require.NoError(t, err)
	assert.Equal(t, "Dune placed on hold.", result)

	_, err = handler(context.Background(), map[string]any{})
	assert.Error(t, err)
}

func TestRenewBookHandler(t *testing.T) {
	handler := RenewBookHandler()

	result, err := handler(context.Background(), map[string]any{"title": "Dune"})
	require.NoError(t, err)

	expected := fmt.Sprintf("Dune renewed, expires on %s", time.Now().Add(renewalPeriod).Format("2006-01-02"))
	assert.Equal(t, expected, result)
}
