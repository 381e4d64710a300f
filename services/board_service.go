package services

import (
	"context"

	"github.com/applysink/applysink/providers"
)

// SearchBoard Runs a read-only search against one provider's board.
func SearchBoard(ctx context.Context, providerName, query string) ([]providers.Listing, error) {
	info, err := apply.registry.Lookup(providerName)
	if err != nil {
		return nil, err
	}

	return info.Provider().Search(ctx, query)
}

// FetchPosting Fetches one posting with its screening questions.
func FetchPosting(ctx context.Context, providerName, externalID string) (*providers.Posting, error) {
	info, err := apply.registry.Lookup(providerName)
	if err != nil {
		return nil, err
	}

	return info.Provider().FetchDetail(ctx, externalID)
}
