package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/viant/afs"
	"github.com/viant/effectlint/analyzer"
	"github.com/viant/effectlint/analyzer/linage"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the working directory
const DefaultFile = ".effectlint.yaml"

// ErrUnknownRule is returned for a rule name that is not supported
var ErrUnknownRule = errors.New("unknown rule")

// Config represents linter configuration
type Config struct {
	Rules       map[string]bool `yaml:"rules"`
	EffectHooks []string        `yaml:"effectHooks"`
	StateHooks  []string        `yaml:"stateHooks"`
	CacheSize   int             `yaml:"cacheSize"`
}

// Default returns the configuration with all rules enabled and React hook names
func Default() *Config {
	ret := &Config{
		Rules:       map[string]bool{},
		EffectHooks: []string{"useEffect", "useLayoutEffect", "useInsertionEffect"},
		StateHooks:  []string{"useState"},
		CacheSize:   512,
	}
	for _, rule := range linage.Rules {
		ret.Rules[string(rule)] = true
	}
	return ret
}

// Load reads the YAML config at URL over the defaults; a missing file yields the defaults
func Load(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	ret := Default()
	exists, err := fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check config %s: %w", URL, err)
	}
	if !exists {
		return ret, nil
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", URL, err)
	}
	if err = ret.decode(data); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return ret, nil
}

// Parse decodes YAML config data over the defaults
func Parse(data []byte) (*Config, error) {
	ret := Default()
	if err := ret.decode(data); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Config) decode(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return c.Validate()
}

// Validate checks that every configured rule is supported
func (c *Config) Validate() error {
	var unknown []string
	for name := range c.Rules {
		if !isRule(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %v", ErrUnknownRule, unknown)
	}
	return nil
}

// Disable turns the named rules off
func (c *Config) Disable(names ...string) error {
	for _, name := range names {
		if !isRule(name) {
			return fmt.Errorf("%w: %s", ErrUnknownRule, name)
		}
		c.Rules[name] = false
	}
	return nil
}

// Enabled returns the enabled rules
func (c *Config) Enabled() []linage.RuleKind {
	var ret []linage.RuleKind
	for _, rule := range linage.Rules {
		if enabled, ok := c.Rules[string(rule)]; !ok || enabled {
			ret = append(ret, rule)
		}
	}
	return ret
}

// Options converts the config to analyzer options
func (c *Config) Options() []analyzer.Option {
	return []analyzer.Option{
		analyzer.WithRules(c.Enabled()...),
		analyzer.WithEffectHooks(c.EffectHooks...),
		analyzer.WithStateHooks(c.StateHooks...),
		analyzer.WithCacheSize(c.CacheSize),
	}
}

func isRule(name string) bool {
	for _, rule := range linage.Rules {
		if string(rule) == name {
			return true
		}
	}
	return false
}
