package jsx

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Content returns the source text of a node
func Content(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}

// NamedChildren returns the named children of a node, skipping comments
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		children = append(children, child)
	}
	return children
}

// IsFunction returns true for function literals and declarations
func IsFunction(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case "arrow_function", "function", "function_expression", "generator_function",
		"function_declaration", "generator_function_declaration", "method_definition":
		return true
	}
	return false
}

// IsFunctionLiteral returns true for function expressions and arrow functions
func IsFunctionLiteral(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case "arrow_function", "function", "function_expression", "generator_function":
		return true
	}
	return false
}

// Unwrap strips parentheses and TypeScript-only wrappers around an expression
func Unwrap(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "parenthesized_expression", "non_null_expression", "as_expression", "satisfies_expression", "type_assertion":
			children := NamedChildren(n)
			if len(children) == 0 {
				return n
			}
			// the expression precedes the type in as/satisfies; type_assertion puts the type first
			if n.Type() == "type_assertion" {
				n = children[len(children)-1]
			} else {
				n = children[0]
			}
		default:
			return n
		}
	}
	return n
}

// FunctionBody returns the body of a function node; for concise arrows it is an expression
func FunctionBody(fn *sitter.Node) *sitter.Node {
	if fn == nil {
		return nil
	}
	return fn.ChildByFieldName("body")
}

// FunctionParams returns the parameter patterns of a function node
func FunctionParams(fn *sitter.Node) []*sitter.Node {
	if fn == nil {
		return nil
	}
	if single := fn.ChildByFieldName("parameter"); single != nil {
		return []*sitter.Node{single}
	}
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var result []*sitter.Node
	for _, param := range NamedChildren(params) {
		switch param.Type() {
		case "required_parameter", "optional_parameter":
			if pattern := param.ChildByFieldName("pattern"); pattern != nil {
				result = append(result, pattern)
			}
		default:
			result = append(result, param)
		}
	}
	return result
}

// PatternIdentifiers returns the identifier nodes bound by a declaration or parameter pattern
func PatternIdentifiers(pattern *sitter.Node) []*sitter.Node {
	if pattern == nil {
		return nil
	}
	switch pattern.Type() {
	case "identifier", "shorthand_property_identifier_pattern", "shorthand_property_identifier":
		return []*sitter.Node{pattern}
	case "assignment_pattern", "object_assignment_pattern":
		return PatternIdentifiers(pattern.ChildByFieldName("left"))
	case "pair_pattern":
		return PatternIdentifiers(pattern.ChildByFieldName("value"))
	case "required_parameter", "optional_parameter":
		return PatternIdentifiers(pattern.ChildByFieldName("pattern"))
	case "object_pattern", "array_pattern", "rest_pattern":
		var result []*sitter.Node
		for _, child := range NamedChildren(pattern) {
			result = append(result, PatternIdentifiers(child)...)
		}
		return result
	}
	return nil
}

// ArrayPatternElements returns the elements of an array pattern by position; holes are nil
func ArrayPatternElements(pattern *sitter.Node) []*sitter.Node {
	var result []*sitter.Node
	var current *sitter.Node
	seen := false
	for i := 0; i < int(pattern.ChildCount()); i++ {
		child := pattern.Child(i)
		switch child.Type() {
		case "[", "comment":
		case ",":
			result = append(result, current)
			current, seen = nil, false
		case "]":
			if seen {
				result = append(result, current)
			}
		default:
			current, seen = child, true
		}
	}
	return result
}

// CallArguments returns the argument expressions of a call or new expression
func CallArguments(call *sitter.Node) []*sitter.Node {
	if call == nil {
		return nil
	}
	args := call.ChildByFieldName("arguments")
	if args == nil || args.Type() != "arguments" {
		return nil
	}
	return NamedChildren(args)
}

// CalleeName returns the dotted name of a callee made of identifiers and property names,
// e.g. "useEffect", "React.useEffect" or "JSON.stringify"; it returns "" for other shapes
func CalleeName(callee *sitter.Node, src []byte) string {
	callee = Unwrap(callee)
	if callee == nil {
		return ""
	}
	switch callee.Type() {
	case "identifier":
		return Content(callee, src)
	case "member_expression":
		object := CalleeName(callee.ChildByFieldName("object"), src)
		property := callee.ChildByFieldName("property")
		if object == "" || property == nil {
			return ""
		}
		return object + "." + Content(property, src)
	}
	return ""
}

// RootIdentifier returns the leftmost identifier of a member/subscript chain
func RootIdentifier(n *sitter.Node) *sitter.Node {
	for n != nil {
		n = Unwrap(n)
		switch n.Type() {
		case "identifier":
			return n
		case "member_expression", "subscript_expression":
			n = n.ChildByFieldName("object")
		default:
			return nil
		}
	}
	return nil
}
