package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
)

// Location is a library branch where a title can be picked up.
type Location struct {
	Branch  string `json:"branch"`
	Address string `json:"address"`
}

var branchLocations = []Location{
	{Branch: "Main Library", Address: "303 N. Laura St., Jacksonville, FL 32202"},
	{Branch: "Argyle Branch", Address: "7973 Old Middleburg Road S, Jacksonville, FL 32222"},
	{Branch: "Beaches Branch", Address: "600 3rd Street, Neptune Beach, FL 32266"},
	{Branch: "Bill Brinton Murray Hill Branch", Address: "918 Edgewood Avenue South, Jacksonville, FL 32205"},
	{Branch: "Bradham and Brooks Branch", Address: "1755 Edgewood Avenue W, Jacksonville, FL 32208"},
	{Branch: "Brentwood Branch", Address: "3725 Pearl Street, Jacksonville, FL 32206"},
	{Branch: "Brown Eastside Branch", Address: "1390 Harrison Street, Jacksonville, FL 32206"},
	{Branch: "Charles Webb Wesconnett Regional", Address: "6887 103rd Street, Jacksonville, FL 32210"},
	{Branch: "Dallas Graham Branch", Address: "2304 Myrtle Avenue N, Jacksonville, FL 32209"},
	{Branch: "Highlands Regional", Address: "1826 Dunn Avenue, Jacksonville, FL 32218"},
}

// LocateBookHandler reports which branch currently holds a title. The
// catalog lookup itself is simulated against the fixed branch list.
func LocateBookHandler() Handler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		title, ok := args["book_title"].(string)
		if !ok || title == "" {
			return "", fmt.Errorf("book_title argument is required")
		}

		location := branchLocations[rand.Intn(len(branchLocations))]

		data, err := json.Marshal(map[string]string{
			"book_title": title,
			"branch":     location.Branch,
			"address":    location.Address,
		})
		if err != nil {
			return "", fmt.Errorf("failed to encode location: %w", err)
		}
		return string(data), nil
	}
}
