package epub

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/user/novelpack/internal/entity"
)

// generateChapterXHTML wraps the n-th chapter body under its heading.
func (b *Builder) generateChapterXHTML(n int, ch entity.ChapterContent) (string, error) {
	body, err := toXHTML(ch.BodyHTML)
	if err != nil {
		return "", err
	}
	heading := escapeXML(chapterHeading(n, ch.Name))

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops" xml:lang="%[1]s" lang="%[1]s">
<head>
  <title>%[2]s</title>
  <link rel="stylesheet" type="text/css" href="../styles/style.css"/>
</head>
<body>
  <section epub:type="chapter">
    <h1 id="%[3]s">%[2]s</h1>
`, escapeXML(b.opts.Language), heading, chapterID(n))
	sb.WriteString(body)
	sb.WriteString("\n  </section>\n</body>\n</html>\n")
	return sb.String(), nil
}

// generateCoverXHTML creates the cover page showing images/cover.jpg.
func (b *Builder) generateCoverXHTML(v *volume) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops" xml:lang="%[1]s" lang="%[1]s">
<head>
  <title>%[2]s</title>
  <link rel="stylesheet" type="text/css" href="styles/style.css"/>
</head>
<body class="cover">
  <section epub:type="cover">
    <img src="images/cover.jpg" alt="%[2]s"/>
  </section>
</body>
</html>
`, escapeXML(b.opts.Language), escapeXML(v.title))
}

// toXHTML re-serializes an HTML fragment as well-formed XHTML: void elements are
// self-closed, attributes quoted and entities resolved. script and style elements are
// dropped since html.Render writes their text unescaped. Content is otherwise unchanged.
func toXHTML(fragment string) (string, error) {
	parent := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), parent)
	if err != nil {
		return "", fmt.Errorf("parse chapter body: %w", err)
	}
	var sb strings.Builder
	for _, n := range nodes {
		if isRawText(n) {
			continue
		}
		dropRawText(n)
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("render chapter body: %w", err)
		}
	}
	return sb.String(), nil
}

func isRawText(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style)
}

// dropRawText removes script and style elements below n.
func dropRawText(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isRawText(c) {
			n.RemoveChild(c)
		} else {
			dropRawText(c)
		}
		c = next
	}
}
