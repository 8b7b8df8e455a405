package tools

import (
	"context"
	"fmt"
	"time"
)

const renewalPeriod = 30 * 24 * time.Hour

// PlaceOnHoldHandler places a title on hold for the user.
func PlaceOnHoldHandler() Handler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		title, ok := args["title"].(string)
		if !ok || title == "" {
			return "", fmt.Errorf("title argument is required")
		}
		return fmt.Sprintf("%s placed on hold.", title), nil
	}
}

// RenewBookHandler extends a loan by the standard renewal period.
func RenewBookHandler() Handler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		title, ok := args["title"].(string)
		if !ok || title == "" {
			return "", fmt.Errorf("title argument is required")
		}

		expiration := time.Now().Add(renewalPeriod).Format("2006-01-02")
		return fmt.Sprintf("%s renewed, expires on %s", title, expiration), nil
	}
}
