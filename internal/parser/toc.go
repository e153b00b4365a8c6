// Package parser extracts the table of contents and chapter bodies from the novel site's markup.
package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/novelpack/internal/entity"
	"github.com/user/novelpack/pkg/utils"
)

// TocSelectors locate the parts of a table-of-contents page.
type TocSelectors struct {
	Contents      string // the contents section
	VolumeWrapper string // one element per volume inside Contents
	VolumeTitle   string // heading inside a wrapper
	ChapterLinks  string // chapter anchors inside a wrapper
}

// ParseToc extracts volume titles and chapter links from a table-of-contents page.
// Relative hrefs are resolved against baseURL. A page without a contents section
// or without volume wrappers yields entity.ErrTocNotFound.
func ParseToc(htmlContent, baseURL string, sel TocSelectors) (*entity.TableOfContents, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse toc html: %w", err)
	}

	contents := doc.Find(sel.Contents).First()
	if contents.Length() == 0 {
		return nil, fmt.Errorf("%w: no element matches %q", entity.ErrTocNotFound, sel.Contents)
	}
	wrappers := contents.Find(sel.VolumeWrapper)
	if wrappers.Length() == 0 {
		return nil, fmt.Errorf("%w: no element matches %q", entity.ErrTocNotFound, sel.VolumeWrapper)
	}

	toc := entity.NewOrderedMap[[]entity.ChapterLink]()
	wrappers.Each(func(i int, w *goquery.Selection) {
		position := i + 1
		title := strings.TrimSpace(w.Find(sel.VolumeTitle).First().Text())
		if title == "" {
			title = fmt.Sprintf("Untitled %d", position)
		}
		title = entity.DisambiguateKey(title, position, toc.Has)

		links := []entity.ChapterLink{}
		w.Find(sel.ChapterLinks).Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			links = append(links, entity.ChapterLink{
				Name: strings.TrimSpace(a.Text()),
				URL:  utils.ResolveHref(baseURL, href),
			})
		})
		toc.Set(title, links)
	})
	return toc, nil
}
