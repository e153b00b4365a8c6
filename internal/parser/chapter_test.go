package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractChapterBody_StripsNavLinks(t *testing.T) {
	doc := `<html><body><nav>site</nav><div id="main-content">` +
		`<a href="/c1">Previous Chapter</a>` +
		`<p>It was a dark night.</p>` +
		`<a href="/c3"> next chapter </a>` +
		`<a href="/glossary">Next Chapters list</a>` +
		`</div></body></html>`

	body, err := ExtractChapterBody(doc, "#main-content")
	if err != nil {
		t.Fatalf("ExtractChapterBody: %v", err)
	}
	if !strings.HasPrefix(body, `<div id="main-content">`) {
		t.Errorf("body is not the outer markup: %s", body)
	}
	if strings.Contains(body, "/c1") || strings.Contains(body, "/c3") {
		t.Errorf("navigation links survived: %s", body)
	}
	if !strings.Contains(body, "Next Chapters list") {
		t.Errorf("non-exact match was removed: %s", body)
	}
	if !strings.Contains(body, "<p>It was a dark night.</p>") {
		t.Errorf("content missing: %s", body)
	}
	if strings.Contains(body, "site") {
		t.Errorf("content outside main element leaked: %s", body)
	}
}

func TestExtractChapterBody_NoMainContent(t *testing.T) {
	body, err := ExtractChapterBody(`<html><body><p>x</p></body></html>`, "#main-content")
	if err != nil {
		t.Fatalf("ExtractChapterBody: %v", err)
	}
	if body != NoMainContent {
		t.Errorf("body = %q, want placeholder", body)
	}
}

func TestFailurePlaceholder_Escapes(t *testing.T) {
	got := FailurePlaceholder("https://x/c?a=1&b=<2>", errors.New(`status "503"`))
	want := `<p>Failed to load chapter from https://x/c?a=1&amp;b=&lt;2&gt;: status &#34;503&#34;</p>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}
