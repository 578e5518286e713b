package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/effectlint/analyzer/linage"
	"github.com/viant/effectlint/inspector/jsx"
)

// effect is a single effect hook invocation
type effect struct {
	Call     *sitter.Node   // Hook call expression
	Hook     string         // Hook name as written, e.g. React.useEffect
	Callback *sitter.Node   // Function node run by the hook
	Deps     []*sitter.Node // Dependency list entries
	HasDeps  bool           // Dependency list present
}

// effects collects the effect hook calls of the component body; nested callbacks cannot call hooks
func (p *pass) effects() []*effect {
	var result []*effect
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if jsx.IsFunction(n) {
			return
		}
		if p.isEffectHook(n) {
			if e := p.newEffect(n); e != nil {
				result = append(result, e)
			}
		}
		for _, child := range jsx.NamedChildren(n) {
			visit(child)
		}
	}
	body := jsx.FunctionBody(p.component.Node)
	if body == nil {
		return nil
	}
	if body.Type() != "statement_block" {
		visit(body)
		return result
	}
	for _, child := range jsx.NamedChildren(body) {
		visit(child)
	}
	return result
}

func (p *pass) newEffect(call *sitter.Node) *effect {
	args := jsx.CallArguments(call)
	if len(args) == 0 {
		return nil
	}
	e := &effect{Call: call, Hook: p.hookName(call)}
	callback := jsx.Unwrap(args[0])
	switch {
	case jsx.IsFunctionLiteral(callback):
		e.Callback = callback
	case callback.Type() == "identifier":
		if b := p.resolve(callback); b.Kind == linage.LocalFunction {
			e.Callback = b.Func
		}
	}
	if e.Callback == nil {
		return nil
	}
	if len(args) > 1 {
		if deps := jsx.Unwrap(args[1]); deps.Type() == "array" {
			e.HasDeps = true
			e.Deps = jsx.NamedChildren(deps)
		}
	}
	return e
}

// derivedState reports every setter site in the effect whose argument is computable during render
func (p *pass) derivedState(e *effect) {
	p.collectSites(jsx.FunctionBody(e.Callback), nil, map[*linage.Binding]bool{})
}

// collectSites walks statements run by the effect; at is the outer call sites are reported at
// once a pure local function has been entered
func (p *pass) collectSites(n *sitter.Node, at *sitter.Node, entered map[*linage.Binding]bool) {
	if n == nil || jsx.IsFunction(n) {
		return
	}
	if n.Type() == "call_expression" {
		site := at
		if site == nil {
			site = n
		}
		c := p.classifyCallee(n)
		switch c.Kind {
		case calleeSetter:
			p.setterSite(c.Binding.State(), site, p.setterArgument(c.Binding, n))
		case calleeLocal:
			if !entered[c.Binding] && p.purityOf(c.Binding) == linage.Pure {
				entered[c.Binding] = true
				restore := p.pushEnv(p.bindParams(c.Binding.Func, p.arguments(n), linage.Tainted(linage.Pure)))
				body := jsx.FunctionBody(c.Binding.Func)
				if body != nil && body.Type() == "statement_block" {
					for _, child := range jsx.NamedChildren(body) {
						p.collectSites(child, site, entered)
					}
				} else {
					p.collectSites(body, site, entered)
				}
				restore()
				delete(entered, c.Binding)
			}
		case calleePureMethod, calleeMutation:
			if implicitSetterMethod(c.Method) {
				if state := p.stateTarget(c.Receiver); state != nil {
					p.setterSite(state, site, unionAll(p.arguments(n)))
				}
			}
		}
	}
	for _, child := range jsx.NamedChildren(n) {
		p.collectSites(child, at, entered)
	}
}

// setterArgument evaluates the value passed to a setter; an updater function gets the current state as its first parameter
func (p *pass) setterArgument(setter *linage.Binding, call *sitter.Node) linage.Provenance {
	args := jsx.CallArguments(call)
	if len(args) == 0 {
		return linage.Tainted(linage.Pure)
	}
	arg := jsx.Unwrap(args[0])
	if jsx.IsFunctionLiteral(arg) {
		var current []linage.Provenance
		if state := setter.State(); state != nil {
			current = append(current, linage.Source(state))
		}
		return p.functionValue(arg, p.bindParams(arg, current, linage.Tainted(linage.Pure)))
	}
	return p.provenance(arg)
}

// stateTarget returns the state value an in-place call writes, if the receiver is one
func (p *pass) stateTarget(receiver *sitter.Node) *linage.Binding {
	root := jsx.RootIdentifier(receiver)
	if root == nil {
		return nil
	}
	b := p.resolve(root)
	switch b.Kind {
	case linage.StateValue:
		return b
	case linage.Derived:
		prov := p.bindingProvenance(b)
		if !prov.External && len(prov.Sources) == 1 && prov.Sources[0].Kind == linage.StateValue {
			return prov.Sources[0]
		}
	}
	return nil
}

func (p *pass) setterSite(state *linage.Binding, site *sitter.Node, prov linage.Provenance) {
	if state == nil || !prov.Derivable() {
		return
	}
	p.report(linage.DerivedState, state, site)
}

// managesParent returns true if the effect only forwards props to a parent through a callback prop
func (p *pass) managesParent(e *effect) bool {
	if !e.HasDeps || len(e.Deps) == 0 {
		return false
	}
	for _, dep := range e.Deps {
		if !p.provenance(dep).OnlyProps() {
			return false
		}
	}
	scan := &parentScan{start: e.Callback.StartByte(), end: e.Callback.EndByte()}
	for _, child := range jsx.NamedChildren(e.Callback) {
		if !p.scanParent(child, scan) {
			return false
		}
	}
	return scan.readsProp
}

type parentScan struct {
	start, end uint32
	readsProp  bool
}

// scanParent returns false as soon as the effect does anything besides reading props and calling prop callbacks
func (p *pass) scanParent(n *sitter.Node, scan *parentScan) bool {
	switch n.Type() {
	case "identifier", "shorthand_property_identifier":
		b := p.resolve(n)
		switch b.Kind {
		case linage.StateValue, linage.StateSetter:
			return false
		case linage.Prop:
			scan.readsProp = true
		case linage.Derived:
			prov := p.bindingProvenance(b)
			if prov.HasKind(linage.StateValue) {
				return false
			}
			if prov.HasKind(linage.Prop) {
				scan.readsProp = true
			}
		}
	case "call_expression":
		if !p.parentCall(n) {
			return false
		}
	case "new_expression":
		return false
	case "assignment_expression", "augmented_assignment_expression":
		if !p.localTarget(n.ChildByFieldName("left"), scan.start, scan.end) {
			return false
		}
	case "update_expression":
		if !p.localTarget(n.ChildByFieldName("argument"), scan.start, scan.end) {
			return false
		}
	}
	for _, child := range jsx.NamedChildren(n) {
		if !p.scanParent(child, scan) {
			return false
		}
	}
	return true
}

// parentCall returns true for calls a parent-notifying effect may make
func (p *pass) parentCall(call *sitter.Node) bool {
	c := p.classifyCallee(call)
	switch c.Kind {
	case calleePureUtility:
		return true
	case calleePureMethod:
		if p.provenance(c.Receiver).OnlyProps() {
			return true
		}
	case calleeSetter, calleeLocal, calleeMutation, calleeImpureUtility:
		return false
	}
	return p.provenance(call.ChildByFieldName("function")).OnlyProps()
}
