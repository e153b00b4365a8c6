package filesystem

import (
	"context"
	"fmt"
)

// fakeFetcher serves pages from a map and counts calls.
type fakeFetcher struct {
	pages map[string]string
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls++
	page, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("get %s: unexpected status 404 Not Found", url)
	}
	return page, nil
}
