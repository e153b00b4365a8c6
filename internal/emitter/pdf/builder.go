// Package pdf writes one PDF per volume by printing a composed HTML document.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/user/novelpack/internal/entity"
	"github.com/user/novelpack/internal/repository"
)

// pdfcpu must not create its config directory under the user's home.
var disableConfigDir sync.Once

// Builder renders volumes through a PDFRenderer.
type Builder struct {
	renderer repository.PDFRenderer
	logger   *zap.Logger
}

// NewBuilder creates a PDF builder.
func NewBuilder(renderer repository.PDFRenderer, l *zap.Logger) *Builder {
	disableConfigDir.Do(api.DisableConfigDir)
	return &Builder{renderer: renderer, logger: l}
}

// Build renders the volume to outputPath. An existing file at that path is deleted first.
// The written file must parse as a PDF with at least one page.
func (b *Builder) Build(ctx context.Context, volumeTitle string, chapters []entity.ChapterContent, outputPath string) error {
	if err := os.Remove(outputPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove existing output: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := b.renderer.RenderPDF(ctx, ComposeHTML(volumeTitle, chapters))
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	pages, err := pageCount(outputPath)
	if err != nil {
		os.Remove(outputPath)
		return err
	}
	b.logger.Debug("pdf written", zap.String("path", outputPath), zap.Int("pages", pages))
	return nil
}

func pageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("rendered PDF %s has no pages", path)
	}
	return n, nil
}

// ComposeHTML concatenates a volume into one document: the volume title, then for each
// chapter a "Chapter n: name" heading followed by its body HTML as stored.
func ComposeHTML(volumeTitle string, chapters []entity.ChapterContent) string {
	title := html.EscapeString(volumeTitle)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%[1]s</title>
<style>%[2]s</style>
</head>
<body>
<h1>%[1]s</h1>
`, title, stylesheet)
	for i, ch := range chapters {
		fmt.Fprintf(&sb, "<h2>Chapter %d: %s</h2>\n", i+1, html.EscapeString(ch.Name))
		sb.WriteString(ch.BodyHTML)
		sb.WriteString("\n")
	}
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

const stylesheet = `
body { font-family: Georgia, "Times New Roman", serif; line-height: 1.6; margin: 2em; }
h1 { text-align: center; margin-bottom: 2em; }
h2 { page-break-before: always; margin-top: 0; }
p { margin: 0.5em 0; }
`
