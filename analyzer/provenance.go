package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/effectlint/analyzer/linage"
	"github.com/viant/effectlint/inspector/jsx"
)

// provenance computes the reactive sources and purity an expression's value depends on
func (p *pass) provenance(n *sitter.Node) linage.Provenance {
	n = jsx.Unwrap(n)
	if n == nil {
		return linage.Tainted(linage.Pure)
	}
	if literalTypes[n.Type()] {
		return linage.Tainted(linage.Pure)
	}
	if jsx.IsFunctionLiteral(n) {
		return p.functionValue(n, nil)
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier":
		return p.bindingProvenance(p.resolve(n))
	case "this", "super":
		return linage.Untracked()
	case "binary_expression", "unary_expression", "ternary_expression", "sequence_expression",
		"template_substitution", "array", "object", "spread_element", "computed_property_name":
		return p.union(jsx.NamedChildren(n))
	case "template_string":
		var substitutions []*sitter.Node
		for _, child := range jsx.NamedChildren(n) {
			if child.Type() == "template_substitution" {
				substitutions = append(substitutions, child)
			}
		}
		return p.union(substitutions)
	case "pair":
		prov := p.provenance(n.ChildByFieldName("value"))
		if key := n.ChildByFieldName("key"); key != nil && key.Type() == "computed_property_name" {
			prov = prov.Union(p.provenance(key))
		}
		return prov
	case "member_expression":
		return p.provenance(n.ChildByFieldName("object"))
	case "subscript_expression":
		return p.provenance(n.ChildByFieldName("object")).Union(p.provenance(n.ChildByFieldName("index")))
	case "call_expression":
		return p.callProvenance(n)
	case "new_expression", "await_expression", "yield_expression",
		"assignment_expression", "augmented_assignment_expression", "update_expression":
		return linage.Tainted(linage.Impure)
	}
	return linage.Tainted(linage.Unknown)
}

func (p *pass) union(nodes []*sitter.Node) linage.Provenance {
	result := linage.Tainted(linage.Pure)
	for _, n := range nodes {
		result = result.Union(p.provenance(n))
	}
	return result
}

// bindingProvenance returns the provenance of reading a binding
func (p *pass) bindingProvenance(b *linage.Binding) linage.Provenance {
	if b.Reassigned {
		return linage.Tainted(linage.Unknown)
	}
	if prov, ok := p.lookupEnv(b); ok {
		return prov
	}
	switch b.Kind {
	case linage.Prop, linage.StateValue:
		return linage.Source(b)
	case linage.ExternalRef, linage.Param:
		return linage.Untracked()
	case linage.Derived:
		return p.derivedProvenance(b)
	}
	return linage.Tainted(linage.Pure)
}

// derivedProvenance evaluates the initializer of a derived binding, memoized per binding
func (p *pass) derivedProvenance(b *linage.Binding) linage.Provenance {
	memo := p.derivedMemo(b)
	if prov, ok := memo[b]; ok {
		return prov
	}
	if p.deriving[b] {
		return linage.Tainted(linage.Unknown)
	}
	p.deriving[b] = true
	prov := p.provenance(b.Init)
	delete(p.deriving, b)
	memo[b] = prov
	return prov
}

// derivedMemo returns the pass memo for component level bindings, otherwise the innermost frame memo
func (p *pass) derivedMemo(b *linage.Binding) map[*linage.Binding]linage.Provenance {
	if len(p.env) == 0 || p.componentLevel(b) {
		return p.derived
	}
	return p.env[len(p.env)-1].derived
}

// arguments returns the provenance of each call argument
func (p *pass) arguments(call *sitter.Node) []linage.Provenance {
	args := jsx.CallArguments(call)
	result := make([]linage.Provenance, len(args))
	for i, arg := range args {
		result[i] = p.provenance(arg)
	}
	return result
}

func unionAll(provs []linage.Provenance) linage.Provenance {
	result := linage.Tainted(linage.Pure)
	for _, prov := range provs {
		result = result.Union(prov)
	}
	return result
}

// callProvenance dispatches on the callee kind
func (p *pass) callProvenance(call *sitter.Node) linage.Provenance {
	c := p.classifyCallee(call)
	args := p.arguments(call)
	all := unionAll(args)
	switch c.Kind {
	case calleeLocal:
		return p.localCallProvenance(c.Binding, args, all)
	case calleePureUtility:
		return all
	case calleePureMethod:
		return p.provenance(c.Receiver).Union(all)
	case calleeMutation:
		return p.provenance(c.Receiver).Union(all).WithPurity(linage.Impure)
	}
	return all.WithPurity(linage.Impure)
}

// localCallProvenance evaluates the returns of a pure local function with its parameters bound to the arguments
func (p *pass) localCallProvenance(b *linage.Binding, args []linage.Provenance, all linage.Provenance) linage.Provenance {
	if p.purityOf(b) != linage.Pure {
		return all.WithPurity(linage.Impure)
	}
	if p.calling[b] {
		return all
	}
	p.calling[b] = true
	defer delete(p.calling, b)
	restore := p.pushEnv(p.bindParams(b.Func, args, linage.Tainted(linage.Pure)))
	defer restore()
	return all.Union(p.returnProvenance(b.Func))
}

// functionValue evaluates a function literal used as a value: the purity of its body joined
// with the provenance of what it returns; parameters are pure unless bound by frame
func (p *pass) functionValue(fn *sitter.Node, frame map[*linage.Binding]linage.Provenance) linage.Provenance {
	purity, _ := p.inspect(fn, 0)
	params := p.bindParams(fn, nil, linage.Tainted(linage.Pure))
	for b, prov := range frame {
		params[b] = prov
	}
	restore := p.pushEnv(params)
	defer restore()
	return p.returnProvenance(fn).WithPurity(purity)
}

// returnProvenance unions the returned expressions of a function, ignoring nested functions
func (p *pass) returnProvenance(fn *sitter.Node) linage.Provenance {
	body := jsx.FunctionBody(fn)
	if body == nil {
		return linage.Tainted(linage.Pure)
	}
	if body.Type() != "statement_block" {
		return p.provenance(body)
	}
	var returns []*sitter.Node
	var collect func(n *sitter.Node)
	collect = func(n *sitter.Node) {
		for _, child := range jsx.NamedChildren(n) {
			if jsx.IsFunction(child) || child.Type() == "class_declaration" || child.Type() == "class" {
				continue
			}
			if child.Type() == "return_statement" {
				returns = append(returns, jsx.NamedChildren(child)...)
				continue
			}
			collect(child)
		}
	}
	collect(body)
	return p.union(returns)
}
