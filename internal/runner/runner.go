// Package runner walks the requested paths, runs every enabled check on each
// file and merges the findings into one deterministic report.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"sync"
	"time"

	"github.com/skelly-dev/lint8/internal/checks"
	"github.com/skelly-dev/lint8/internal/diag"
	"github.com/skelly-dev/lint8/internal/engine"
	"github.com/skelly-dev/lint8/internal/ignore"
	"github.com/skelly-dev/lint8/internal/parser"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures a Runner.
type Options struct {
	Languages *parser.Registry
	Checks    []checks.Enabled
	Ignore    checks.IgnoreSet
	Matcher   *ignore.Matcher
	Jobs      int // <= 0 means GOMAXPROCS
	Logger    *zap.Logger
	// Progress, when set, is called once per finished file. Calls are
	// serialized.
	Progress func(path string, done, total int)
}

// FileResult holds one file's diagnostics in check registration order.
type FileResult struct {
	Path        string
	Diagnostics []diag.Diagnostic
	Failed      bool // unreadable, unparsable, or an engine failed
}

// Result is the merged outcome of one run.
type Result struct {
	Files       []FileResult
	Diagnostics []diag.Diagnostic
}

// Count is the number of diagnostics, the run's failure signal.
func (r *Result) Count() int {
	return len(r.Diagnostics)
}

// Runner owns the parse cache for one run.
type Runner struct {
	opts  Options
	cache *parser.Cache
}

func New(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		opts:  opts,
		cache: parser.NewCache(opts.Languages),
	}
}

// Cache exposes the run's parse cache.
func (r *Runner) Cache() *parser.Cache {
	return r.cache
}

// Process analyses paths and returns every diagnostic ordered by file
// (argument order, then walk order) and, within a file, by check
// registration order. Per-file failures become ParseFailure diagnostics;
// only cancellation of ctx makes Process fail.
func (r *Runner) Process(ctx context.Context, paths []string) (*Result, error) {
	start := time.Now()
	targets := parser.CollectFiles(paths, r.opts.Languages, r.opts.Matcher)
	r.opts.Logger.Debug("collected files",
		zap.Int("targets", len(targets)),
		zap.Int("checks", len(r.opts.Checks)),
		zap.Int("jobs", r.opts.Jobs))

	results := make([]FileResult, len(targets))
	var (
		progressMu sync.Mutex
		done       int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(r.opts.Jobs, len(targets))))
	for i, target := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.processFile(gctx, target)
			if err != nil {
				return err
			}
			res.Diagnostics = r.opts.Ignore.Filter(res.Diagnostics)
			results[i] = res

			if r.opts.Progress != nil {
				progressMu.Lock()
				done++
				r.opts.Progress(target.Path, done, len(targets))
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{Files: results}
	for _, res := range results {
		out.Diagnostics = append(out.Diagnostics, res.Diagnostics...)
	}
	r.opts.Logger.Debug("run finished",
		zap.Int("files", len(results)),
		zap.Int("diagnostics", out.Count()),
		zap.Int64("parses", r.cache.Parses()),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

func (r *Runner) processFile(ctx context.Context, target parser.Target) (FileResult, error) {
	res := FileResult{Path: target.Path}
	if target.Err != nil {
		r.opts.Logger.Warn("cannot access path", zap.String("path", target.Path), zap.Error(target.Err))
		res.Failed = true
		res.Diagnostics = []diag.Diagnostic{
			diag.New(target.Path, 1, 0, diag.ParseFailure, fmt.Sprintf("cannot access path: %v", unwrapPathError(target.Err)), ""),
		}
		return res, nil
	}

	file, err := r.cache.Get(target.Path)
	if err != nil {
		r.opts.Logger.Warn("parse failed", zap.String("path", target.Path), zap.Error(err))
		res.Failed = true
		res.Diagnostics = []diag.Diagnostic{parseFailure(target.Path, err)}
		return res, nil
	}

	for _, enabled := range r.opts.Checks {
		found, err := enabled.Check.Evaluate(ctx, file)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			r.opts.Logger.Warn("check failed",
				zap.String("path", target.Path),
				zap.String("check", enabled.Name),
				zap.Error(err))
			res.Failed = true
			res.Diagnostics = append(res.Diagnostics, checkFailure(file, enabled.Name, err))
			continue
		}
		res.Diagnostics = append(res.Diagnostics, found...)
	}
	return res, nil
}

func parseFailure(path string, err error) diag.Diagnostic {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		if parseErr.Line > 0 {
			return diag.New(path, parseErr.Line, parseErr.Column, diag.ParseFailure,
				fmt.Sprintf("cannot parse file: %v", parseErr.Err), parseErr.Source)
		}
		return diag.New(path, 1, 0, diag.ParseFailure, fmt.Sprintf("cannot read file: %v", unwrapPathError(parseErr.Err)), "")
	}
	return diag.New(path, 1, 0, diag.ParseFailure, fmt.Sprintf("cannot parse file: %v", err), "")
}

func checkFailure(file *parser.SourceFile, check string, err error) diag.Diagnostic {
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		detail := engErr.Stderr
		if detail == "" && engErr.Err != nil {
			detail = engErr.Err.Error()
		}
		return diag.AtLine(file.Path, file.Lines, 1, 0, diag.ParseFailure,
			fmt.Sprintf("%s failed: %s", engErr.Engine, detail))
	}
	return diag.AtLine(file.Path, file.Lines, 1, 0, diag.ParseFailure, fmt.Sprintf("%s failed: %v", check, err))
}

// unwrapPathError drops the path prefix of *fs.PathError; the diagnostic
// already names the file.
func unwrapPathError(err error) error {
	if pathErr, ok := err.(*fs.PathError); ok {
		return pathErr.Err
	}
	return err
}
