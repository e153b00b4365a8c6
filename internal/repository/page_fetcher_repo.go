package repository

import "context"

// PageFetcher defines the contract for retrieving a page's raw HTML.
type PageFetcher interface {
	// Fetch performs a single GET of url and returns the response body.
	Fetch(ctx context.Context, url string) (string, error)
}
