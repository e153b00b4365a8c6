package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/novelpack/internal/adapter/chromedp_renderer"
	"github.com/user/novelpack/internal/adapter/filesystem"
	"github.com/user/novelpack/internal/adapter/httpfetch"
	"github.com/user/novelpack/internal/emitter/epub"
	"github.com/user/novelpack/internal/emitter/pdf"
	"github.com/user/novelpack/internal/entity"
	"github.com/user/novelpack/internal/parser"
	"github.com/user/novelpack/internal/repository"
	"github.com/user/novelpack/internal/usecase"
	"github.com/user/novelpack/pkg/config"
	"github.com/user/novelpack/pkg/logger"
	"github.com/user/novelpack/pkg/metrics"
	"github.com/user/novelpack/pkg/utils"
)

type runOptions struct {
	format  string
	offline bool
}

func (a *app) newRunCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [url] [volumeIndex]",
		Short: "Fetch (or load) chapters and write one document per volume",
		Long: `Scrape the table of contents at url (default: the configured toc_url), resolve
every chapter through the on-disk cache and write one document per volume
into volumes/.

volumeIndex selects a single volume by its 1-based position; the default is
all volumes. With --offline the manifest of the last online run replaces the
table of contents and nothing is fetched.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 2 {
				return fmt.Errorf("%w: accepts at most 2 args, received %d", entity.ErrUserInput, len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", string(usecase.FormatEPUB), "output format: epub or pdf")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "rebuild from the cache manifest without network access")
	cmd.Flags().Bool("merge-manifest", false, "keep manifest entries of volumes not processed by this run")
	_ = a.v.BindPFlag("merge_manifest", cmd.Flags().Lookup("merge-manifest"))
	return cmd
}

func (a *app) run(ctx context.Context, opts *runOptions, args []string) error {
	cfg := a.cfg
	format, err := usecase.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	log := logger.New(a.stderr, cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	m := metrics.New()
	if cfg.MetricsFile != "" {
		defer func() {
			if werr := m.WriteTextfile(cfg.MetricsFile); werr != nil {
				log.Warn("failed to write metrics file", zap.String("path", cfg.MetricsFile), zap.Error(werr))
			}
		}()
	}

	root, err := resolveRoot(cfg.RootDir)
	if err != nil {
		return err
	}
	layout := filesystem.NewLayout(root)

	req := usecase.AcquireRequest{Mode: entity.ModeOnline, TocURL: cfg.TocURL}
	if len(args) > 0 && args[0] != "" {
		req.TocURL = args[0]
	}
	if len(args) > 1 {
		req.Volume = args[1]
	}
	if opts.offline {
		req.Mode = entity.ModeOffline
	}
	log.Info("run started",
		zap.String("mode", req.Mode.String()), zap.String("root", root),
		zap.String("format", string(format)), zap.String("volume", req.Volume))

	var fetcher repository.PageFetcher
	if req.Mode == entity.ModeOnline {
		if err := layout.EnsureExists(); err != nil {
			return err
		}
		identity, err := httpfetch.NewIdentity(cfg.UserAgent, cfg.ProxyURL)
		if err != nil {
			return fmt.Errorf("%w: %w", entity.ErrUserInput, err)
		}
		fetcher = httpfetch.NewFetcher(identity, m, log)
	}

	cache := filesystem.NewChapterCache(layout.ChaptersDir(), fetcher, cfg.Selectors.MainContent, m, log)
	manifests := filesystem.NewManifestStore(layout.ManifestPath())
	acquirer := usecase.NewAcquisitionUseCase(fetcher, cache, manifests, usecase.AcquisitionConfig{
		Selectors:     tocSelectors(cfg.Selectors),
		MergeManifest: cfg.MergeManifest,
	}, m, log)

	res, err := acquirer.Acquire(ctx, req, progressLogger(log, "acquire"))
	if errors.Is(err, entity.ErrTocNotFound) {
		log.Warn("no table of contents on the page, nothing to do", zap.String("url", req.TocURL), zap.Error(err))
		return nil
	}
	if err != nil {
		return err
	}

	var epubEmitter usecase.EPUBEmitter
	var pdfEmitter usecase.PDFEmitter
	switch format {
	case usecase.FormatPDF:
		renderer := chromedp_renderer.NewRenderer(ctx, cfg.ChromePath, log)
		defer renderer.Close()
		pdfEmitter = pdf.NewBuilder(renderer, log)
	default:
		epubEmitter = epub.NewBuilder(epub.Options{
			Author:     cfg.Author,
			Language:   cfg.Language,
			Source:     res.Manifest.TocURL,
			ModifiedAt: res.Manifest.GeneratedUTC,
		})
	}

	publisher := usecase.NewPublishUseCase(format, epubEmitter, pdfEmitter, layout, m, log)
	paths, err := publisher.Publish(ctx, res.Chapters, progressLogger(log, "emit"))
	for _, p := range paths {
		fmt.Fprintln(a.stdout, p)
	}
	if err != nil {
		return err
	}
	log.Info("run finished", zap.Int("volumes", len(paths)))
	return nil
}

// resolveRoot returns the configured root, or discovers one from the working directory.
func resolveRoot(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrConsistency, err)
	}
	root, err := utils.FindProjectRoot(wd)
	if err != nil {
		return "", fmt.Errorf("%w: %w (create a chapters/ directory or pass --root)", entity.ErrConsistency, err)
	}
	return root, nil
}

func tocSelectors(s config.Selectors) parser.TocSelectors {
	return parser.TocSelectors{
		Contents:      s.Contents,
		VolumeWrapper: s.VolumeWrapper,
		VolumeTitle:   s.VolumeTitle,
		ChapterLinks:  s.ChapterLinks,
	}
}

// progressLogger reports each step of a pass as current/total plus a fraction.
func progressLogger(l *zap.Logger, pass string) entity.ProgressFunc {
	return func(current, total int) {
		fraction := 1.0
		if total > 0 {
			fraction = float64(current) / float64(total)
		}
		l.Info("progress",
			zap.String("pass", pass),
			zap.Int("current", current),
			zap.Int("total", total),
			zap.Float64("progress", fraction))
	}
}
