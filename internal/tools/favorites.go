package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Book is a record in a user's favorites list.
type Book struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher,omitempty"`
	Year        int    `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
}

type Outcome string

const (
	OutcomeAdded         Outcome = "added"
	OutcomeAlreadyExists Outcome = "already_exists"
)

// FavoritesStore keeps per-user favorite books, keyed case-insensitively by
// (title, author).
type FavoritesStore interface {
	Get(ctx context.Context, userID string) ([]Book, error)
	Add(ctx context.Context, userID string, book Book) (Outcome, error)
}

func SaveBookHandler(store FavoritesStore, userID string) Handler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		book := Book{
			Title:  stringArg(args, "title"),
			Author: stringArg(args, "author"),
		}
		if book.Title == "" || book.Author == "" {
			return "", fmt.Errorf("title and author arguments are required")
		}

		book.Publisher = stringArg(args, "publisher")
		book.Description = stringArg(args, "description")
		if year, ok := args["year"].(int); ok {
			book.Year = year
		}

		outcome, err := store.Add(ctx, userID, book)
		if err != nil {
			return "", fmt.Errorf("failed to save book: %w", err)
		}

		if outcome == OutcomeAlreadyExists {
			return fmt.Sprintf("%q by %s is already in favorites.", book.Title, book.Author), nil
		}
		return fmt.Sprintf("Saved %q by %s to favorites.", book.Title, book.Author), nil
	}
}

func ListFavoritesHandler(store FavoritesStore, userID string) Handler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		books, err := store.Get(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("failed to load favorites: %w", err)
		}

		if len(books) == 0 {
			return "No favorites saved.", nil
		}

		data, err := json.Marshal(books)
		if err != nil {
			return "", fmt.Errorf("failed to encode favorites: %w", err)
		}
		return string(data), nil
	}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
