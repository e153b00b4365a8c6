package epub

import (
	"fmt"
	"strings"
)

// generatePackage creates the content.opf package document.
func (b *Builder) generatePackage(v *volume) string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="pub-id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
`)
	fmt.Fprintf(&sb, "    <dc:identifier id=\"pub-id\">%s</dc:identifier>\n", v.id)
	fmt.Fprintf(&sb, "    <dc:title>%s</dc:title>\n", escapeXML(v.title))
	fmt.Fprintf(&sb, "    <dc:creator>%s</dc:creator>\n", escapeXML(b.opts.Author))
	fmt.Fprintf(&sb, "    <dc:language>%s</dc:language>\n", escapeXML(b.opts.Language))
	fmt.Fprintf(&sb, "    <meta property=\"dcterms:modified\">%s</meta>\n", b.opts.ModifiedAt.Format("2006-01-02T15:04:05Z"))
	if len(v.cover) > 0 {
		sb.WriteString("    <meta name=\"cover\" content=\"cover-image\"/>\n")
	}
	sb.WriteString("  </metadata>\n\n")

	sb.WriteString("  <manifest>\n")
	sb.WriteString("    <item id=\"nav\" href=\"nav.xhtml\" media-type=\"application/xhtml+xml\" properties=\"nav\"/>\n")
	sb.WriteString("    <item id=\"ncx\" href=\"toc.ncx\" media-type=\"application/x-dtbncx+xml\"/>\n")
	sb.WriteString("    <item id=\"style\" href=\"styles/style.css\" media-type=\"text/css\"/>\n")
	if len(v.cover) > 0 {
		sb.WriteString("    <item id=\"cover-image\" href=\"images/cover.jpg\" media-type=\"image/jpeg\" properties=\"cover-image\"/>\n")
		sb.WriteString("    <item id=\"cover\" href=\"cover.xhtml\" media-type=\"application/xhtml+xml\"/>\n")
	}
	for i := range v.chapters {
		fmt.Fprintf(&sb, "    <item id=\"%s\" href=\"chapters/%s\" media-type=\"application/xhtml+xml\"/>\n",
			chapterID(i+1), chapterFile(i+1))
	}
	sb.WriteString("  </manifest>\n\n")

	// Reading order: cover, nav, chapters.
	sb.WriteString("  <spine toc=\"ncx\">\n")
	if len(v.cover) > 0 {
		sb.WriteString("    <itemref idref=\"cover\"/>\n")
	}
	sb.WriteString("    <itemref idref=\"nav\"/>\n")
	for i := range v.chapters {
		fmt.Fprintf(&sb, "    <itemref idref=\"%s\"/>\n", chapterID(i+1))
	}
	sb.WriteString("  </spine>\n")

	sb.WriteString("</package>\n")
	return sb.String()
}

// escapeXML escapes special XML characters.
func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)
