// Package epub writes one EPUB 3 container per volume from resolved chapter content.
package epub

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/user/novelpack/internal/entity"
)

const (
	mimetype      = "application/epub+zip"
	defaultLang   = "en"
	defaultAuthor = "Unknown"
)

// zipEpoch is the earliest time a zip header can carry.
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Options holds the metadata shared by every volume of one novel.
type Options struct {
	Author   string
	Language string // ISO 639-1 code
	// Source seeds the name-based identifier, normally the table-of-contents URL.
	Source string
	// ModifiedAt stamps dcterms:modified and every zip entry. Equal inputs with
	// equal ModifiedAt produce identical files.
	ModifiedAt time.Time
}

// Builder creates EPUB files.
type Builder struct {
	opts Options
}

// NewBuilder creates a builder, filling blank metadata with defaults.
func NewBuilder(opts Options) *Builder {
	if opts.Author == "" {
		opts.Author = defaultAuthor
	}
	if opts.Language == "" {
		opts.Language = defaultLang
	}
	if opts.ModifiedAt.Before(zipEpoch) {
		opts.ModifiedAt = zipEpoch
	}
	opts.ModifiedAt = opts.ModifiedAt.UTC().Truncate(time.Second)
	return &Builder{opts: opts}
}

// volume is one book being written.
type volume struct {
	title    string
	id       string
	chapters []entity.ChapterContent
	cover    []byte
}

// Build writes the volume to outputPath. An existing file at that path is deleted first.
// cover is optional JPEG data placed first in reading order.
func (b *Builder) Build(volumeTitle string, chapters []entity.ChapterContent, outputPath string, cover []byte) error {
	if err := os.Remove(outputPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove existing output: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := b.WriteTo(f, volumeTitle, chapters, cover); err != nil {
		f.Close()
		os.Remove(outputPath)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// WriteTo writes the EPUB container for one volume to w.
func (b *Builder) WriteTo(w io.Writer, volumeTitle string, chapters []entity.ChapterContent, cover []byte) error {
	v := &volume{
		title:    volumeTitle,
		id:       b.Identifier(volumeTitle),
		chapters: chapters,
		cover:    cover,
	}

	zw := zip.NewWriter(w)

	// mimetype must be the first entry and stored uncompressed.
	if err := b.writeEntry(zw, "mimetype", zip.Store, []byte(mimetype)); err != nil {
		return err
	}
	if err := b.writeEntry(zw, "META-INF/container.xml", zip.Deflate, []byte(containerXML)); err != nil {
		return err
	}
	if err := b.writeEntry(zw, "OEBPS/content.opf", zip.Deflate, []byte(b.generatePackage(v))); err != nil {
		return err
	}
	if err := b.writeEntry(zw, "OEBPS/nav.xhtml", zip.Deflate, []byte(b.generateNavigation(v))); err != nil {
		return err
	}
	if err := b.writeEntry(zw, "OEBPS/toc.ncx", zip.Deflate, []byte(b.generateNCX(v))); err != nil {
		return err
	}
	if err := b.writeEntry(zw, "OEBPS/styles/style.css", zip.Deflate, []byte(defaultStylesheet)); err != nil {
		return err
	}
	if len(v.cover) > 0 {
		if err := b.writeEntry(zw, "OEBPS/images/cover.jpg", zip.Store, v.cover); err != nil {
			return err
		}
		if err := b.writeEntry(zw, "OEBPS/cover.xhtml", zip.Deflate, []byte(b.generateCoverXHTML(v))); err != nil {
			return err
		}
	}
	for i, ch := range v.chapters {
		content, err := b.generateChapterXHTML(i+1, ch)
		if err != nil {
			return fmt.Errorf("failed to convert chapter %d: %w", i+1, err)
		}
		if err := b.writeEntry(zw, "OEBPS/chapters/"+chapterFile(i+1), zip.Deflate, []byte(content)); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish epub: %w", err)
	}
	return nil
}

func (b *Builder) writeEntry(zw *zip.Writer, name string, method uint16, data []byte) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   method,
		Modified: b.opts.ModifiedAt,
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Identifier returns the stable urn:uuid identifier of a volume of this novel.
func (b *Builder) Identifier(volumeTitle string) string {
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(b.opts.Source+"#"+volumeTitle)).String()
}

// chapterID is the manifest id and heading anchor of the n-th chapter (1-based).
func chapterID(n int) string {
	return fmt.Sprintf("chapter%03d", n)
}

func chapterFile(n int) string {
	return chapterID(n) + ".xhtml"
}

// chapterHeading is the display title of the n-th chapter.
func chapterHeading(n int, name string) string {
	return fmt.Sprintf("Chapter %d: %s", n, name)
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

const defaultStylesheet = `body {
  font-family: Georgia, "Times New Roman", serif;
  font-size: 1em;
  line-height: 1.6;
  margin: 1em;
}

h1 {
  font-size: 1.5em;
  margin: 1.5em 0 1em;
  text-align: center;
}

p {
  margin: 0.5em 0;
  text-indent: 1.5em;
}

nav ol {
  list-style: none;
  padding-left: 0;
}

.cover {
  margin: 0;
  padding: 0;
  text-align: center;
}

.cover img {
  max-width: 100%;
  max-height: 100%;
}
`
