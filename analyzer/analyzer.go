package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/viant/afs"
	"github.com/viant/effectlint/analyzer/linage"
	"github.com/viant/effectlint/inspector/graph"
	"github.com/viant/effectlint/inspector/jsx"
)

const defaultCacheSize = 512

// Analyzer runs the effect rules over component sources
type Analyzer struct {
	settings    settings
	logger      *slog.Logger
	cacheSize   int
	cache       *lru.Cache[uint64, []*linage.Finding]
	concurrency int
	match       MatcherFn
	fs          afs.Service
	inspector   *jsx.Inspector
}

// New creates an analyzer
func New(options ...Option) *Analyzer {
	a := &Analyzer{
		settings:  defaultSettings(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		cacheSize: defaultCacheSize,
		match:     JSXFiles,
		inspector: jsx.NewInspector(),
	}
	for _, option := range options {
		option(a)
	}
	if a.fs == nil {
		a.fs = afs.New()
	}
	if a.cacheSize > 0 {
		cache, err := lru.New[uint64, []*linage.Finding](a.cacheSize)
		if err != nil {
			a.logger.Warn("cache disabled", slog.Int("size", a.cacheSize), slog.Any("error", err))
		}
		a.cache = cache
	}
	a.logger.Debug("analyzer", slog.Any("settings", &a.settings), slog.Int("cacheSize", a.cacheSize))
	return a
}

// AnalyzeSource analyzes in-memory source; path selects the grammar and is reported in findings
func (a *Analyzer) AnalyzeSource(path string, src []byte) ([]*linage.Finding, error) {
	return a.analyze(context.Background(), path, src)
}

// AnalyzeFile downloads and analyzes a single file
func (a *Analyzer) AnalyzeFile(ctx context.Context, URL string) ([]*linage.Finding, error) {
	src, err := a.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", URL, err)
	}
	return a.analyze(ctx, URL, src)
}

func (a *Analyzer) analyze(ctx context.Context, path string, src []byte) ([]*linage.Finding, error) {
	key, err := graph.Hash([]byte(path), src)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint %s: %w", path, err)
	}
	if a.cache != nil {
		if findings, ok := a.cache.Get(key); ok {
			a.logger.Debug("cache hit", slog.String("file", path))
			return cloneFindings(findings), nil
		}
	}
	file, err := a.inspector.Inspect(ctx, path, src)
	if err != nil {
		return nil, err
	}
	if file.HasErrors {
		a.logger.Warn("source has syntax errors, analyzing recovered tree", slog.String("file", path))
	}
	var findings []*linage.Finding
	for _, component := range file.Components {
		findings = append(findings, newPass(&a.settings, a.logger, file, component).run()...)
	}
	findings = linage.SortFindings(findings)
	if a.cache != nil {
		a.cache.Add(key, cloneFindings(findings))
	}
	return findings, nil
}

// cloneFindings copies findings and their sites so callers cannot alter cached results
func cloneFindings(findings []*linage.Finding) []*linage.Finding {
	result := make([]*linage.Finding, len(findings))
	for i, finding := range findings {
		clone := *finding
		if finding.Site != nil {
			site := *finding.Site
			clone.Site = &site
		}
		result[i] = &clone
	}
	return result
}
