package analyzer

import (
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/effectlint/analyzer/linage"
	"github.com/viant/effectlint/inspector/graph"
	"github.com/viant/effectlint/inspector/jsx"
)

// pass holds the state of a single component analysis; nothing in it outlives the component
type pass struct {
	settings  *settings
	logger    *slog.Logger
	path      string
	src       []byte
	component *graph.Component
	root      *linage.Scope
	externals map[string]*linage.Binding

	callees  map[*linage.Binding]calleeKind
	purity   map[*linage.Binding]linage.FunctionSummary
	visiting map[*linage.Binding]int
	derived  map[*linage.Binding]linage.Provenance
	deriving map[*linage.Binding]bool
	calling  map[*linage.Binding]bool
	levels   map[*linage.Binding]bool
	env      []*envFrame

	findings []*linage.Finding
}

func newPass(s *settings, logger *slog.Logger, file *graph.File, component *graph.Component) *pass {
	return &pass{
		settings:  s,
		logger:    logger,
		path:      file.Path,
		src:       file.Source,
		component: component,
		externals: map[string]*linage.Binding{},
		callees:   map[*linage.Binding]calleeKind{},
		purity:    map[*linage.Binding]linage.FunctionSummary{},
		visiting:  map[*linage.Binding]int{},
		derived:   map[*linage.Binding]linage.Provenance{},
		deriving:  map[*linage.Binding]bool{},
		calling:   map[*linage.Binding]bool{},
		levels:    map[*linage.Binding]bool{},
	}
}

// envFrame binds the parameters of an entered function to argument provenance;
// derived values read while it is the innermost frame are memoized with it
type envFrame struct {
	params  map[*linage.Binding]linage.Provenance
	derived map[*linage.Binding]linage.Provenance
}

// run classifies bindings, then every effect in the component body
func (p *pass) run() []*linage.Finding {
	p.classify()
	effects := p.effects()
	p.logger.Debug("component",
		slog.String("file", p.path),
		slog.String("component", p.component.Name),
		slog.Int("effects", len(effects)))
	for _, e := range effects {
		if p.settings.enabled(linage.DerivedState) {
			p.derivedState(e)
		}
		if p.settings.enabled(linage.ManagesParent) && p.managesParent(e) {
			p.report(linage.ManagesParent, nil, e.Call)
		}
	}
	return p.findings
}

// resolve returns the binding an identifier refers to; unresolved names are external references
func (p *pass) resolve(n *sitter.Node) *linage.Binding {
	name := jsx.Content(n, p.src)
	scope := p.root.Innermost(n.StartByte(), n.EndByte())
	if scope == nil {
		scope = p.root
	}
	if b := scope.Find(name); b != nil {
		return b
	}
	return p.external(name)
}

func (p *pass) external(name string) *linage.Binding {
	b, ok := p.externals[name]
	if !ok {
		b = &linage.Binding{Name: name, Kind: linage.ExternalRef}
		p.externals[name] = b
	}
	return b
}

func (p *pass) isGlobal(b *linage.Binding) bool {
	return b != nil && b.Kind == linage.ExternalRef && b.Node == nil
}

// lookupEnv returns the argument provenance bound to a parameter by an enclosing call
func (p *pass) lookupEnv(b *linage.Binding) (linage.Provenance, bool) {
	for i := len(p.env) - 1; i >= 0; i-- {
		if prov, ok := p.env[i].params[b]; ok {
			return prov, true
		}
	}
	return linage.Provenance{}, false
}

func (p *pass) pushEnv(params map[*linage.Binding]linage.Provenance) func() {
	p.env = append(p.env, &envFrame{params: params, derived: map[*linage.Binding]linage.Provenance{}})
	return func() {
		p.env = p.env[:len(p.env)-1]
	}
}

// bindParams binds each parameter pattern of fn to the provenance at the same position
// componentLevel returns true if b is declared outside every function nested in the component;
// such bindings never read call-bound parameters
func (p *pass) componentLevel(b *linage.Binding) bool {
	if level, ok := p.levels[b]; ok {
		return level
	}
	level := true
	for n := b.Node; n != nil; n = n.Parent() {
		if jsx.IsFunction(n) {
			fn := p.component.Node
			level = fn == nil || (n.StartByte() == fn.StartByte() && n.EndByte() == fn.EndByte())
			break
		}
	}
	p.levels[b] = level
	return level
}

func (p *pass) bindParams(fn *sitter.Node, args []linage.Provenance, fallback linage.Provenance) map[*linage.Binding]linage.Provenance {
	frame := map[*linage.Binding]linage.Provenance{}
	for i, param := range jsx.FunctionParams(fn) {
		prov := fallback
		if i < len(args) {
			prov = args[i]
		}
		for _, id := range jsx.PatternIdentifiers(param) {
			if b := p.resolve(id); b.Kind == linage.Param {
				frame[b] = prov
			}
		}
	}
	return frame
}

func (p *pass) report(rule linage.RuleKind, state *linage.Binding, site *sitter.Node) {
	finding := &linage.Finding{
		Rule:      rule,
		Binding:   state,
		Component: p.component.Name,
		Site:      linage.NewCodeLocation(p.path, site),
	}
	if state != nil {
		finding.State = state.Name
	}
	p.logger.Debug("finding",
		slog.String("rule", string(rule)),
		slog.String("state", finding.State),
		slog.String("component", finding.Component),
		slog.Int("line", finding.Site.LineNumber))
	p.findings = append(p.findings, finding)
}

// hookNamespace is the only receiver a hook is recognized on as a member (React.useEffect)
const hookNamespace = "React"

// matchesHook reports whether a callee name is one of the hooks, directly or on the React namespace
func matchesHook(name string, hooks []string) bool {
	if name == "" {
		return false
	}
	member, isMember := strings.CutPrefix(name, hookNamespace+".")
	for _, hook := range hooks {
		if name == hook || (isMember && member == hook) {
			return true
		}
	}
	return false
}

func (p *pass) hookName(call *sitter.Node) string {
	return jsx.CalleeName(call.ChildByFieldName("function"), p.src)
}

func (p *pass) isEffectHook(call *sitter.Node) bool {
	return call.Type() == "call_expression" && matchesHook(p.hookName(call), p.settings.effectHooks)
}

func (p *pass) isStateHook(call *sitter.Node) bool {
	return call.Type() == "call_expression" && matchesHook(p.hookName(call), p.settings.stateHooks)
}

var opaqueHooks = []string{"useCallback", "useMemo"}

// isOpaqueHook returns true for hook calls whose callbacks are registered rather than run
func (p *pass) isOpaqueHook(call *sitter.Node) bool {
	return p.isEffectHook(call) || (call.Type() == "call_expression" && matchesHook(p.hookName(call), opaqueHooks))
}
