package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jaxonlabs/jaxon/internal/agent"
)

var ErrConversationNotFound = errors.New("conversation not found")

const conversationTTL = 24 * time.Hour

type storedConversation struct {
	ConversationID string          `json:"conversation_id"`
	Messages       []agent.Message `json:"messages"`
}

// Conversations persists whole transcripts between turns. The in-memory
// transcript stays the unit of work during a turn; this is plumbing around
// it.
type Conversations struct {
	redis *RedisClient
}

func NewConversations(redis *RedisClient) *Conversations {
	return &Conversations{redis: redis}
}

func conversationKey(id string) string {
	return fmt.Sprintf("conversation:%s", id)
}

func (c *Conversations) Set(ctx context.Context, id string, messages []agent.Message) error {
	data, err := json.Marshal(storedConversation{ConversationID: id, Messages: messages})
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	if err := c.redis.Set(ctx, conversationKey(id), data, conversationTTL); err != nil {
		return fmt.Errorf("failed to store conversation: %w", err)
	}
	return nil
}

func (c *Conversations) Get(ctx context.Context, id string) ([]agent.Message, error) {
	data, err := c.redis.Get(ctx, conversationKey(id))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	var stored storedConversation
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return stored.Messages, nil
}

func (c *Conversations) Delete(ctx context.Context, id string) error {
	if err := c.redis.Del(ctx, conversationKey(id)); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}
