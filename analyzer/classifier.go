package analyzer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/effectlint/analyzer/linage"
	"github.com/viant/effectlint/inspector/jsx"
)

var literalTypes = map[string]bool{
	"string": true, "number": true, "true": true, "false": true,
	"null": true, "undefined": true, "regex": true,
}

// classify builds the component scope tree and tags every local binding with its reactive kind
func (p *pass) classify() {
	fn := p.component.Node
	p.root = linage.NewScope(nil, p.component.Name, "component", fn.StartByte(), fn.EndByte())
	p.root.Name = p.component.Name
	for _, param := range jsx.FunctionParams(fn) {
		for _, id := range jsx.PatternIdentifiers(param) {
			p.declare(p.root, id, linage.Prop, nil)
		}
	}
	p.walkFunctionBody(jsx.FunctionBody(fn), p.root)
	p.root.Sort()
	p.markReassigned(fn)
}

func (p *pass) declare(scope *linage.Scope, id *sitter.Node, kind linage.ReactiveKind, init *sitter.Node) *linage.Binding {
	b := &linage.Binding{
		Name:     jsx.Content(id, p.src),
		Kind:     kind,
		Node:     id,
		Init:     init,
		Location: linage.NewCodeLocation(p.path, id),
	}
	scope.Declare(b)
	return b
}

func (p *pass) openScope(parent *linage.Scope, kind string, n *sitter.Node) *linage.Scope {
	id := fmt.Sprintf("%s.%s@%d", parent.ID, kind, n.StartByte())
	return linage.NewScope(parent, id, kind, n.StartByte(), n.EndByte())
}

// walkFunctionBody declares the statements of a function body directly in the function scope
func (p *pass) walkFunctionBody(body *sitter.Node, scope *linage.Scope) {
	if body == nil {
		return
	}
	if body.Type() != "statement_block" {
		p.walkScopes(body, scope)
		return
	}
	for _, child := range jsx.NamedChildren(body) {
		p.walkScopes(child, scope)
	}
}

func (p *pass) walkScopes(n *sitter.Node, scope *linage.Scope) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "statement_block", "switch_body", "class_body":
		block := p.openScope(scope, "block", n)
		for _, child := range jsx.NamedChildren(n) {
			p.walkScopes(child, block)
		}
		return
	case "for_statement":
		block := p.openScope(scope, "block", n)
		for _, child := range jsx.NamedChildren(n) {
			p.walkScopes(child, block)
		}
		return
	case "for_in_statement":
		block := p.openScope(scope, "block", n)
		right := n.ChildByFieldName("right")
		if n.ChildByFieldName("kind") != nil {
			for _, id := range jsx.PatternIdentifiers(n.ChildByFieldName("left")) {
				p.declare(block, id, linage.Derived, right)
			}
		}
		p.walkScopes(right, block)
		p.walkScopes(n.ChildByFieldName("body"), block)
		return
	case "catch_clause":
		catch := p.openScope(scope, "catch", n)
		for _, id := range jsx.PatternIdentifiers(n.ChildByFieldName("parameter")) {
			p.declare(catch, id, linage.Param, nil)
		}
		p.walkFunctionBody(n.ChildByFieldName("body"), catch)
		return
	case "function_declaration", "generator_function_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			b := p.declare(scope, name, linage.LocalFunction, nil)
			b.Func = n
		}
		p.walkFunction(n, scope)
		return
	case "class_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			p.declare(scope, name, linage.Derived, n)
		}
	case "variable_declarator":
		p.declarator(n, scope)
		p.walkScopes(n.ChildByFieldName("value"), scope)
		return
	}
	if jsx.IsFunctionLiteral(n) {
		p.walkFunction(n, scope)
		return
	}
	for _, child := range jsx.NamedChildren(n) {
		p.walkScopes(child, scope)
	}
}

func (p *pass) walkFunction(fn *sitter.Node, parent *linage.Scope) {
	scope := p.openScope(parent, "function", fn)
	if name := fn.ChildByFieldName("name"); name != nil {
		scope.Name = jsx.Content(name, p.src)
	}
	for _, param := range jsx.FunctionParams(fn) {
		for _, id := range jsx.PatternIdentifiers(param) {
			p.declare(scope, id, linage.Param, nil)
		}
	}
	p.walkFunctionBody(jsx.FunctionBody(fn), scope)
}

func (p *pass) declarator(n *sitter.Node, scope *linage.Scope) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	value := jsx.Unwrap(n.ChildByFieldName("value"))
	if value != nil && p.isStateHook(value) {
		if name.Type() == "array_pattern" {
			p.declareState(name, value, scope)
			return
		}
		for _, id := range jsx.PatternIdentifiers(name) {
			p.declare(scope, id, linage.ExternalRef, value)
		}
		return
	}
	if name.Type() == "identifier" && jsx.IsFunctionLiteral(value) {
		b := p.declare(scope, name, linage.LocalFunction, nil)
		b.Func = value
		return
	}
	kind := linage.Derived
	if value == nil || literalTypes[value.Type()] {
		kind = linage.Literal
	}
	for _, id := range jsx.PatternIdentifiers(name) {
		p.declare(scope, id, kind, value)
	}
}

// declareState declares the value/setter pair destructured from a state hook call
func (p *pass) declareState(pattern, call *sitter.Node, scope *linage.Scope) {
	elements := jsx.ArrayPatternElements(pattern)
	element := func(i int) *sitter.Node {
		if i < len(elements) && elements[i] != nil && elements[i].Type() == "identifier" {
			return elements[i]
		}
		return nil
	}
	valueNode, setterNode := element(0), element(1)
	if valueNode == nil && setterNode == nil {
		return
	}
	hook := p.hookName(call)
	valueName := jsx.Content(valueNode, p.src)
	setterName := jsx.Content(setterNode, p.src)
	if valueNode == nil {
		valueName = stateName(setterName)
	}
	value, setter := linage.NewStatePair(hook, valueName, setterName)
	value.Init = call
	if valueNode != nil {
		value.Node = valueNode
		value.Location = linage.NewCodeLocation(p.path, valueNode)
		scope.Declare(value)
	}
	if setterNode != nil {
		setter.Node = setterNode
		setter.Location = linage.NewCodeLocation(p.path, setterNode)
		scope.Declare(setter)
	}
}

// stateName derives a state name from its setter: setCount -> count
func stateName(setter string) string {
	name := strings.TrimPrefix(setter, "set")
	if name == "" {
		return setter
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

// markReassigned flags local bindings that are assignment or update targets
func (p *pass) markReassigned(n *sitter.Node) {
	var target *sitter.Node
	switch n.Type() {
	case "assignment_expression", "augmented_assignment_expression":
		target = n.ChildByFieldName("left")
	case "update_expression":
		target = n.ChildByFieldName("argument")
	case "for_in_statement":
		if n.ChildByFieldName("kind") == nil {
			target = n.ChildByFieldName("left")
		}
	}
	if target = jsx.Unwrap(target); target != nil && target.Type() == "identifier" {
		if b := p.resolve(target); b.Node != nil {
			b.Reassigned = true
		}
	}
	for _, child := range jsx.NamedChildren(n) {
		p.markReassigned(child)
	}
}
