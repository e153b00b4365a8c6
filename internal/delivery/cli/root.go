// Package cli is the command-line delivery layer and the composition root.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/user/novelpack/internal/entity"
	"github.com/user/novelpack/pkg/config"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	stdout  io.Writer
	stderr  io.Writer
}

// Execute runs the command line in args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		err = fmt.Errorf("%w: %w", entity.ErrUserInput, err)
	}
	if err != nil && !errors.Is(err, entity.ErrTocNotFound) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return ExitCode(err)
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "novelpack",
		Short: "Scrape, cache and package web novels into EPUB or PDF volumes",
		Long: `novelpack scrapes a web novel's table of contents, caches every chapter on
disk and packages the cached chapters into one EPUB or PDF file per volume.

Chapters are fetched once. After a complete online run, --offline rebuilds
the same documents from the cache alone.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return fmt.Errorf("%w: %w", entity.ErrUserInput, err)
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", entity.ErrUserInput, err)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./novelpack.yaml or ~/.novelpack/novelpack.yaml)")
	flags.String("root", "", "project root holding chapters/, volumes/ and assets/ (default: discovered from the working directory)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: json or console")
	flags.String("metrics-file", "", "write prometheus metrics to this file on exit")
	_ = a.v.BindPFlag("root_dir", flags.Lookup("root"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("metrics_file", flags.Lookup("metrics-file"))

	root.AddCommand(a.newRunCommand())
	root.AddCommand(a.newVersionCommand())
	return root
}
