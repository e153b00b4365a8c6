package epub

import (
	"fmt"
	"strings"
)

// generateNavigation creates the nav.xhtml navigation document. Every link targets the
// chapter heading anchor.
func (b *Builder) generateNavigation(v *volume) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops" xml:lang="%[1]s" lang="%[1]s">
<head>
  <title>%[2]s</title>
  <link rel="stylesheet" type="text/css" href="styles/style.css"/>
</head>
<body>
  <nav epub:type="toc" id="toc">
    <h1>%[2]s</h1>
    <ol>
`, escapeXML(b.opts.Language), escapeXML(v.title))

	for i, ch := range v.chapters {
		n := i + 1
		fmt.Fprintf(&sb, "      <li><a href=\"chapters/%s#%s\">%s</a></li>\n",
			chapterFile(n), chapterID(n), escapeXML(chapterHeading(n, ch.Name)))
	}

	sb.WriteString(`    </ol>
  </nav>
</body>
</html>
`)
	return sb.String()
}

// generateNCX creates the toc.ncx for EPUB 2 readers.
func (b *Builder) generateNCX(v *volume) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="%s"/>
    <meta name="dtb:depth" content="1"/>
    <meta name="dtb:totalPageCount" content="0"/>
    <meta name="dtb:maxPageNumber" content="0"/>
  </head>
  <docTitle>
    <text>%s</text>
  </docTitle>
  <navMap>
`, v.id, escapeXML(v.title))

	for i, ch := range v.chapters {
		n := i + 1
		fmt.Fprintf(&sb, "    <navPoint id=\"navpoint-%d\" playOrder=\"%d\">\n", n, n)
		fmt.Fprintf(&sb, "      <navLabel><text>%s</text></navLabel>\n", escapeXML(chapterHeading(n, ch.Name)))
		fmt.Fprintf(&sb, "      <content src=\"chapters/%s#%s\"/>\n", chapterFile(n), chapterID(n))
		sb.WriteString("    </navPoint>\n")
	}

	sb.WriteString(`  </navMap>
</ncx>
`)
	return sb.String()
}
