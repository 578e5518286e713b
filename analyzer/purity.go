package analyzer

import (
	"math"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/effectlint/analyzer/linage"
	"github.com/viant/effectlint/inspector/jsx"
)

const (
	maxPurityDepth = 16
	noLink         = math.MaxInt
)

// purityOf returns the memoized purity of a local function
func (p *pass) purityOf(b *linage.Binding) linage.Purity {
	purity, _ := p.functionPurity(b, 0)
	return purity
}

// functionPurity checks a local function, returning its purity and the lowest visiting index
// the result provisionally depended on (noLink when it depended on none)
func (p *pass) functionPurity(b *linage.Binding, depth int) (linage.Purity, int) {
	if summary, ok := p.purity[b]; ok {
		return summary.Purity, noLink
	}
	if index, ok := p.visiting[b]; ok {
		return linage.Pure, index
	}
	if depth >= maxPurityDepth || b.Func == nil {
		return linage.Impure, noLink
	}
	index := len(p.visiting)
	p.visiting[b] = index
	purity, low := p.inspect(b.Func, depth+1)
	delete(p.visiting, b)
	if purity == linage.Impure || low >= index {
		p.purity[b] = linage.FunctionSummary{Purity: purity}
		return purity, noLink
	}
	return purity, low
}

// inspect walks a function looking for disqualifying operations; registered hook callbacks are opaque
func (p *pass) inspect(fn *sitter.Node, depth int) (linage.Purity, int) {
	low := noLink
	start, end := fn.StartByte(), fn.EndByte()
	var visit func(n *sitter.Node) bool
	visit = func(n *sitter.Node) bool {
		switch n.Type() {
		case "call_expression":
			if p.isOpaqueHook(n) {
				return true
			}
			if !p.pureCall(n, start, end, depth, &low) {
				return false
			}
		case "new_expression":
			return false
		case "assignment_expression", "augmented_assignment_expression":
			if !p.localTarget(n.ChildByFieldName("left"), start, end) {
				return false
			}
		case "update_expression":
			if !p.localTarget(n.ChildByFieldName("argument"), start, end) {
				return false
			}
		}
		for _, child := range jsx.NamedChildren(n) {
			if !visit(child) {
				return false
			}
		}
		return true
	}
	for _, child := range jsx.NamedChildren(fn) {
		if child.Type() == "identifier" && child == fn.ChildByFieldName("name") {
			continue
		}
		if !visit(child) {
			return linage.Impure, noLink
		}
	}
	return linage.Pure, low
}

func (p *pass) pureCall(call *sitter.Node, start, end uint32, depth int, low *int) bool {
	c := p.classifyCallee(call)
	switch c.Kind {
	case calleeSetter, calleePureUtility, calleePureMethod:
		return true
	case calleeLocal:
		purity, link := p.functionPurity(c.Binding, depth)
		if link < *low {
			*low = link
		}
		return purity == linage.Pure
	case calleeMutation:
		return p.localReceiver(c.Receiver, start, end)
	}
	return false
}

// localReceiver returns true if a mutated receiver is declared inside the byte range or is a fresh value
func (p *pass) localReceiver(receiver *sitter.Node, start, end uint32) bool {
	if root := jsx.RootIdentifier(receiver); root != nil {
		return p.resolve(root).DeclaredWithin(start, end)
	}
	base := jsx.Unwrap(receiver)
	for base != nil && (base.Type() == "member_expression" || base.Type() == "subscript_expression") {
		base = jsx.Unwrap(base.ChildByFieldName("object"))
	}
	if base == nil {
		return false
	}
	switch base.Type() {
	case "array", "object", "call_expression", "string", "template_string":
		return true
	}
	return false
}

// localTarget returns true if an assignment target is rooted in a binding declared inside the byte range
func (p *pass) localTarget(target *sitter.Node, start, end uint32) bool {
	target = jsx.Unwrap(target)
	if target == nil {
		return false
	}
	switch target.Type() {
	case "object_pattern", "array_pattern":
		for _, id := range jsx.PatternIdentifiers(target) {
			if !p.resolve(id).DeclaredWithin(start, end) {
				return false
			}
		}
		return true
	}
	root := jsx.RootIdentifier(target)
	if root == nil {
		return false
	}
	return p.resolve(root).DeclaredWithin(start, end)
}
