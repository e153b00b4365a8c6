package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// NoMainContent is stored when a chapter page has no main-content element.
const NoMainContent = "<p>No main-content element found</p>"

// navLinkTexts are the anchor texts removed from chapter bodies, compared case-insensitively.
var navLinkTexts = []string{"Previous Chapter", "Next Chapter"}

// ExtractChapterBody returns the outer HTML of the main-content element of a chapter page
// with its previous/next navigation anchors removed. A page without the element yields
// NoMainContent.
func ExtractChapterBody(htmlContent, mainContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse chapter html: %w", err)
	}

	content := doc.Find(mainContent).First()
	if content.Length() == 0 {
		return NoMainContent, nil
	}

	content.Find("a").Each(func(_ int, a *goquery.Selection) {
		if isNavLink(a.Text()) {
			a.Remove()
		}
	})

	body, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("render main content: %w", err)
	}
	return body, nil
}

func isNavLink(text string) bool {
	text = strings.TrimSpace(text)
	for _, nav := range navLinkTexts {
		if strings.EqualFold(text, nav) {
			return true
		}
	}
	return false
}

// FailurePlaceholder is the escaped paragraph cached in place of a chapter that could not be fetched.
func FailurePlaceholder(url string, cause error) string {
	return fmt.Sprintf("<p>Failed to load chapter from %s: %s</p>",
		html.EscapeString(url), html.EscapeString(cause.Error()))
}
