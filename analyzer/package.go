package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/effectlint/analyzer/linage"
	"golang.org/x/sync/errgroup"
)

// Analyze analyzes a file or, when URL is a directory, every matching file under it
func (a *Analyzer) Analyze(ctx context.Context, URL string) ([]*linage.Finding, error) {
	object, err := a.fs.Object(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s: %w", URL, err)
	}
	if object.IsDir() {
		return a.AnalyzeDir(ctx, URL)
	}
	return a.AnalyzeFile(ctx, URL)
}

// AnalyzeDir walks a directory tree and analyzes every matching source file in parallel
func (a *Analyzer) AnalyzeDir(ctx context.Context, root string) ([]*linage.Finding, error) {
	files, err := a.sourceFiles(ctx, root)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("walked", slog.String("root", root), slog.Int("files", len(files)))
	results := make([][]*linage.Finding, len(files))
	group, ctx := errgroup.WithContext(ctx)
	limit := a.concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	group.SetLimit(limit)
	for i, URL := range files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			findings, err := a.AnalyzeFile(ctx, URL)
			if err != nil {
				return err
			}
			results[i] = findings
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	var all []*linage.Finding
	for _, findings := range results {
		all = append(all, findings...)
	}
	return linage.SortFindings(all), nil
}

// sourceFiles lists the URLs of files accepted by the matcher under root
func (a *Analyzer) sourceFiles(ctx context.Context, root string) ([]string, error) {
	var files []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return a.match(info), nil
		}
		if a.match(info) {
			files = append(files, url.Join(baseURL, parent, info.Name()))
		}
		return true, nil
	}
	if err := a.fs.Walk(ctx, root, visitor); err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}
