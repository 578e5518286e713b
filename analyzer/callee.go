package analyzer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/effectlint/analyzer/linage"
	"github.com/viant/effectlint/inspector/jsx"
)

// calleeKind is the resolved shape of a call target
type calleeKind int

const (
	calleeUnknown       calleeKind = iota // shape the analyzer cannot see into
	calleeLocal                           // function declared in the component
	calleeSetter                          // state setter
	calleePureUtility                     // known pure global (JSON.stringify, Math.max, ...)
	calleeImpureUtility                   // known impure global (fetch, Date.now, console.*, ...)
	calleePureMethod                      // value method on any receiver (map, filter, concat, ...)
	calleeMutation                        // in-place mutating method (push, splice, sort, ...)
	calleeProp                            // callback prop
	calleeExternal                        // unrecognized import, module-level or global function
)

var calleeNames = map[calleeKind]string{
	calleeUnknown:       "unknown",
	calleeLocal:         "local",
	calleeSetter:        "setter",
	calleePureUtility:   "pure-utility",
	calleeImpureUtility: "impure-utility",
	calleePureMethod:    "pure-method",
	calleeMutation:      "mutation",
	calleeProp:          "prop",
	calleeExternal:      "external",
}

func (k calleeKind) String() string {
	return calleeNames[k]
}

// callee is the classified target of a call expression
type callee struct {
	Kind     calleeKind
	Binding  *linage.Binding // identifier callee binding, or the receiver root of a member call
	Method   string          // property name of a member call
	Receiver *sitter.Node    // object of a member call
}

var pureUtilities = map[string]bool{
	"JSON.stringify": true, "JSON.parse": true,
	"String": true, "Number": true, "Boolean": true,
	"parseInt": true, "parseFloat": true, "isNaN": true, "isFinite": true,
	"encodeURI": true, "decodeURI": true, "encodeURIComponent": true, "decodeURIComponent": true,
	"Math.abs": true, "Math.max": true, "Math.min": true, "Math.round": true, "Math.floor": true,
	"Math.ceil": true, "Math.sqrt": true, "Math.pow": true, "Math.sign": true, "Math.trunc": true,
	"Object.keys": true, "Object.values": true, "Object.entries": true, "Object.fromEntries": true,
	"Array.isArray": true, "Array.from": true, "Array.of": true,
	"Number.isInteger": true, "Number.isNaN": true, "Number.parseFloat": true, "Number.parseInt": true,
}

var impureUtilities = map[string]bool{
	"fetch": true, "setTimeout": true, "setInterval": true, "clearTimeout": true, "clearInterval": true,
	"requestAnimationFrame": true, "cancelAnimationFrame": true, "queueMicrotask": true,
	"Math.random": true, "Date.now": true, "Date": true, "performance.now": true,
	"alert": true, "confirm": true, "prompt": true, "WebSocket": true, "XMLHttpRequest": true,
}

var impureNamespaces = []string{
	"crypto.", "localStorage.", "sessionStorage.", "console.", "document.", "window.",
	"navigator.", "history.", "location.", "indexedDB.",
}

var pureMethods = map[string]bool{
	"concat": true, "map": true, "filter": true, "slice": true, "join": true, "includes": true,
	"indexOf": true, "lastIndexOf": true, "find": true, "findIndex": true, "findLast": true,
	"findLastIndex": true, "some": true, "every": true, "reduce": true, "reduceRight": true,
	"flat": true, "flatMap": true, "at": true, "forEach": true, "toString": true,
	"toUpperCase": true, "toLowerCase": true, "trim": true, "trimStart": true, "trimEnd": true,
	"split": true, "substring": true, "substr": true, "startsWith": true, "endsWith": true,
	"padStart": true, "padEnd": true, "replace": true, "replaceAll": true, "repeat": true,
	"charAt": true, "toFixed": true, "toSorted": true, "toReversed": true, "toSpliced": true,
	"with": true, "keys": true, "values": true, "entries": true, "localeCompare": true,
	"toLocaleString": true,
}

var mutatingMethods = map[string]bool{
	"push": true, "pop": true, "shift": true, "unshift": true, "splice": true, "sort": true,
	"reverse": true, "fill": true, "copyWithin": true, "set": true, "add": true, "delete": true,
	"clear": true,
}

// implicitSetterMethod returns true for member calls that count as writing the receiver state
func implicitSetterMethod(method string) bool {
	return mutatingMethods[method] || method == "concat"
}

// globalKind classifies the dotted name of an unshadowed global
func globalKind(name string) calleeKind {
	if pureUtilities[name] {
		return calleePureUtility
	}
	if impureUtilities[name] {
		return calleeImpureUtility
	}
	for _, prefix := range impureNamespaces {
		if strings.HasPrefix(name, prefix) {
			return calleeImpureUtility
		}
	}
	return calleeUnknown
}

// classifyCallee resolves the target of a call or new expression
func (p *pass) classifyCallee(call *sitter.Node) callee {
	target := call.ChildByFieldName("function")
	if target == nil {
		target = call.ChildByFieldName("constructor")
	}
	target = jsx.Unwrap(target)
	if target == nil {
		return callee{Kind: calleeUnknown}
	}
	switch target.Type() {
	case "identifier":
		b := p.resolve(target)
		return callee{Kind: p.bindingCallee(b, jsx.Content(target, p.src)), Binding: b}
	case "member_expression":
		object := target.ChildByFieldName("object")
		property := target.ChildByFieldName("property")
		method := jsx.Content(property, p.src)
		var root *linage.Binding
		if rootNode := jsx.RootIdentifier(object); rootNode != nil {
			root = p.resolve(rootNode)
		}
		result := callee{Binding: root, Method: method, Receiver: object}
		if root != nil && root.Kind == linage.ExternalRef && root.Node == nil {
			if name := jsx.CalleeName(target, p.src); name != "" {
				if kind := globalKind(name); kind != calleeUnknown {
					result.Kind = kind
					return result
				}
			}
		}
		switch {
		case pureMethods[method]:
			result.Kind = calleePureMethod
		case mutatingMethods[method]:
			result.Kind = calleeMutation
		default:
			result.Kind = calleeUnknown
			if root != nil && root.Kind == linage.ExternalRef {
				result.Kind = calleeExternal
			}
		}
		return result
	}
	return callee{Kind: calleeUnknown}
}

// bindingCallee maps an identifier callee binding to its callee kind, memoized per binding
func (p *pass) bindingCallee(b *linage.Binding, name string) calleeKind {
	if kind, ok := p.callees[b]; ok {
		return kind
	}
	kind := calleeUnknown
	switch b.Kind {
	case linage.LocalFunction:
		kind = calleeLocal
	case linage.StateSetter:
		kind = calleeSetter
	case linage.Prop:
		kind = calleeProp
	case linage.ExternalRef:
		kind = calleeExternal
		if b.Node == nil {
			if global := globalKind(name); global != calleeUnknown {
				kind = global
			}
		}
	}
	p.callees[b] = kind
	return kind
}
