package utils

import (
	"net/url"
	"strings"
)

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(strings.TrimSpace(relative))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}

// ResolveHref resolves href against base. When either side does not parse, the raw
// href is returned unchanged so one bad link never fails a whole page.
func ResolveHref(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	abs, err := ToAbsoluteURL(baseURL, href)
	if err != nil {
		return href
	}
	return abs
}
