package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jaxonlabs/jaxon/internal/tools"
)

// Favorites persists per-user favorite books in a redis hash. HSetNX keeps
// add idempotent under the case-insensitive (title, author) key, so
// concurrent handlers never double-write one book.
type Favorites struct {
	redis *RedisClient
}

func NewFavorites(redis *RedisClient) *Favorites {
	return &Favorites{redis: redis}
}

func favoritesKey(userID string) string {
	return fmt.Sprintf("favorites:%s", userID)
}

func favoriteField(title, author string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(author))
}

func (f *Favorites) Add(ctx context.Context, userID string, book tools.Book) (tools.Outcome, error) {
	data, err := json.Marshal(book)
	if err != nil {
		return "", fmt.Errorf("failed to marshal book: %w", err)
	}

	added, err := f.redis.HSetNX(ctx, favoritesKey(userID), favoriteField(book.Title, book.Author), data)
	if err != nil {
		return "", fmt.Errorf("failed to store favorite: %w", err)
	}

	if !added {
		return tools.OutcomeAlreadyExists, nil
	}
	return tools.OutcomeAdded, nil
}

func (f *Favorites) Get(ctx context.Context, userID string) ([]tools.Book, error) {
	fields, err := f.redis.HGetAll(ctx, favoritesKey(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	books := make([]tools.Book, 0, len(fields))
	for field, data := range fields {
		var book tools.Book
		if err := json.Unmarshal([]byte(data), &book); err != nil {
			return nil, fmt.Errorf("failed to unmarshal favorite %s: %w", field, err)
		}
		books = append(books, book)
	}

	// Redis hashes are unordered; keep the listing deterministic.
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}
