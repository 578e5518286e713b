package analyzer

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/effectlint/analyzer/linage"
)

type Option func(*Analyzer)

// MatcherFn decides whether a walked file or directory is analyzed (or descended into)
type MatcherFn func(info os.FileInfo) bool

// settings are the options that affect classification
type settings struct {
	effectHooks []string
	stateHooks  []string
	rules       map[linage.RuleKind]bool
}

func defaultSettings() settings {
	return settings{
		effectHooks: []string{"useEffect", "useLayoutEffect", "useInsertionEffect"},
		stateHooks:  []string{"useState"},
		rules:       map[linage.RuleKind]bool{linage.DerivedState: true, linage.ManagesParent: true},
	}
}

func (s *settings) enabled(rule linage.RuleKind) bool {
	return s.rules[rule]
}

// LogValue implements [slog.LogValuer].
func (s *settings) LogValue() slog.Value {
	var rules []string
	for _, rule := range linage.Rules {
		if s.rules[rule] {
			rules = append(rules, string(rule))
		}
	}
	return slog.GroupValue(
		slog.Any("effectHooks", s.effectHooks),
		slog.Any("stateHooks", s.stateHooks),
		slog.Any("rules", rules),
	)
}

// WithEffectHooks replaces the effect hook names (matched directly and as React.<name>)
func WithEffectHooks(hooks ...string) Option {
	return func(a *Analyzer) {
		if len(hooks) > 0 {
			a.settings.effectHooks = hooks
		}
	}
}

// WithStateHooks replaces the state hook names
func WithStateHooks(hooks ...string) Option {
	return func(a *Analyzer) {
		if len(hooks) > 0 {
			a.settings.stateHooks = hooks
		}
	}
}

// WithRules enables only the given rules
func WithRules(rules ...linage.RuleKind) Option {
	return func(a *Analyzer) {
		a.settings.rules = map[linage.RuleKind]bool{}
		for _, rule := range rules {
			a.settings.rules[rule] = true
		}
	}
}

// WithLogger sets the logger; the default discards everything
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithCacheSize sets the number of file results kept in memory; zero disables the cache
func WithCacheSize(size int) Option {
	return func(a *Analyzer) {
		a.cacheSize = size
	}
}

// WithConcurrency limits the number of files analyzed in parallel by AnalyzeDir
func WithConcurrency(limit int) Option {
	return func(a *Analyzer) {
		a.concurrency = limit
	}
}

func WithFileMatcher(matcher MatcherFn) Option {
	return func(a *Analyzer) {
		a.match = matcher
	}
}

// WithFS sets the storage service used to read files and walk directories
func WithFS(fs afs.Service) Option {
	return func(a *Analyzer) {
		a.fs = fs
	}
}

var sourceExtensions = map[string]bool{
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
}

// JSXFiles matches JavaScript/TypeScript sources and skips dependency and build output dirs
func JSXFiles(info os.FileInfo) bool {
	name := info.Name()
	if info.IsDir() {
		switch name {
		case "node_modules", "dist", "build", "coverage", "out":
			return false
		}
		return !strings.HasPrefix(name, ".") || name == "." || name == ".."
	}
	if strings.HasSuffix(name, ".d.ts") {
		return false
	}
	return sourceExtensions[filepath.Ext(name)]
}
