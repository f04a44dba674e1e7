package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/bazelrc/format"
	"github.com/dhamidi/bazelrc/project"
	"github.com/dhamidi/bazelrc/rcfile"
	"github.com/dhamidi/bazelrc/workspace"
)

// errDiagnostics makes check exit non-zero once the diagnostics have been
// printed.
var errDiagnostics = errors.New("rc files have errors")

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var jobs int
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Report lexical errors in rc files",
		Long: `Report lexical errors in rc files.

Without arguments every rc file below the current directory is checked.
Directories are searched with the include and exclude patterns from
bazelrc.toml; files are checked as given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			renderer := format.NewTextRenderer(out, opts.useColor(out))

			if watch {
				if len(args) > 1 {
					return fmt.Errorf("--watch takes at most one directory")
				}
				root := "."
				if len(args) == 1 {
					root = args[0]
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return watchDir(ctx, root, opts.config, interval, renderer, out)
			}

			paths, err := checkPaths(args, opts.config)
			if err != nil {
				return err
			}
			failed, err := checkFiles(cmd.Context(), paths, opts.config.MaxFileSize, jobs, renderer, out)
			if err != nil {
				return err
			}
			if failed {
				return errDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "number of files parsed in parallel")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and re-check files when they change")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "polling interval for --watch")

	return cmd
}

// checkPaths expands the command line arguments into rc files.
func checkPaths(args []string, cfg *project.Config) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		p, err := project.Load(arg, cfg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p.Files...)
	}
	return paths, nil
}

type checkResult struct {
	source  string
	outcome rcfile.ParseOutcome
	err     error
}

// checkFiles parses paths concurrently and reports them in the given order.
// It returns true when any file had errors or could not be read.
func checkFiles(ctx context.Context, paths []string, limit int64, jobs int, renderer *format.TextRenderer, out io.Writer) (bool, error) {
	results := make([]checkResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := project.ReadSource(path, limit)
			if err != nil {
				results[i].err = err
				return nil
			}
			results[i] = checkResult{source: source, outcome: rcfile.Parse(source)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}

	failed := false
	for i, path := range paths {
		r := results[i]
		if r.err != nil {
			failed = true
			fmt.Fprintf(out, "%s: %s\n", path, r.err)
			continue
		}
		if r.outcome.HasErrors() {
			failed = true
		}
		if err := renderer.Render(path, r.source, r.outcome.Errors); err != nil {
			return failed, err
		}
	}
	log.Infof("checked %d files", len(paths))
	return failed, nil
}

// watchDir re-checks rc files below root whenever they change, until ctx is
// cancelled.
func watchDir(ctx context.Context, root string, cfg *project.Config, interval time.Duration, renderer *format.TextRenderer, out io.Writer) error {
	ws := workspace.New(root, cfg)
	fw := workspace.NewFileWatcher(ws, func(path string, doc *workspace.Document) {
		if doc == nil {
			fmt.Fprintf(out, "%s: removed\n", path)
			return
		}
		if !doc.Outcome.HasErrors() {
			fmt.Fprintf(out, "%s: ok\n", path)
			return
		}
		if err := renderer.Render(path, doc.Content, doc.Outcome.Errors); err != nil {
			log.Errorf("render %s: %s", path, err)
		}
	})

	fw.Scan()
	fw.SetInterval(interval)
	fw.Start()
	log.Infof("watching %s", root)

	<-ctx.Done()
	fw.Stop()
	return nil
}
