package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/user/novelpack/internal/entity"
	"github.com/user/novelpack/internal/repository"
	"github.com/user/novelpack/pkg/metrics"
)

// Format is an output document format. Its value is also the file extension.
type Format string

const (
	FormatEPUB Format = "epub"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatEPUB, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want epub or pdf)", entity.ErrUserInput, s)
	}
}

// EPUBEmitter writes one volume as an EPUB.
type EPUBEmitter interface {
	Build(volumeTitle string, chapters []entity.ChapterContent, outputPath string, cover []byte) error
}

// PDFEmitter writes one volume as a PDF.
type PDFEmitter interface {
	Build(ctx context.Context, volumeTitle string, chapters []entity.ChapterContent, outputPath string) error
}

// Publisher turns a chapter map into one document per volume.
type Publisher interface {
	Publish(ctx context.Context, chapters *entity.ChapterMap, progress entity.ProgressFunc) ([]string, error)
}

type publishUseCase struct {
	format  Format
	epub    EPUBEmitter
	pdf     PDFEmitter
	layout  repository.OutputLayout
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewPublishUseCase creates a publisher for format. Only the emitter of that format is used
// and the other may be nil.
func NewPublishUseCase(format Format, epub EPUBEmitter, pdf PDFEmitter, layout repository.OutputLayout, m *metrics.Metrics, l *zap.Logger) Publisher {
	return &publishUseCase{
		format:  format,
		epub:    epub,
		pdf:     pdf,
		layout:  layout,
		metrics: m,
		logger:  l,
	}
}

// Publish emits the volumes sequentially in map order and returns the written paths.
// progress counts emitted chapters against the total of the map.
func (uc *publishUseCase) Publish(ctx context.Context, chapters *entity.ChapterMap, progress entity.ProgressFunc) ([]string, error) {
	if progress == nil {
		progress = func(int, int) {}
	}

	var cover []byte
	if uc.format == FormatEPUB {
		var err error
		if cover, err = uc.layout.ReadCover(); err != nil {
			return nil, err
		}
	}

	total := 0
	for i := 0; i < chapters.Len(); i++ {
		_, list := chapters.At(i)
		total += len(list)
	}

	var written []string
	done := 0
	for i := 0; i < chapters.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		title, list := chapters.At(i)
		path := uc.layout.VolumePath(title, string(uc.format))

		if err := uc.emit(ctx, title, list, path, cover); err != nil {
			return written, fmt.Errorf("failed to emit volume %q: %w", title, err)
		}
		uc.metrics.IncVolume(string(uc.format))
		written = append(written, path)

		done += len(list)
		progress(done, total)
		uc.logger.Info("volume written",
			zap.String("volume", title), zap.String("format", string(uc.format)),
			zap.String("path", path), zap.Int("chapters", len(list)))
	}
	return written, nil
}

func (uc *publishUseCase) emit(ctx context.Context, title string, list []entity.ChapterContent, path string, cover []byte) error {
	switch uc.format {
	case FormatPDF:
		return uc.pdf.Build(ctx, title, list, path)
	default:
		return uc.epub.Build(title, list, path, cover)
	}
}
