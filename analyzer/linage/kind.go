package linage

// ReactiveKind tags the origin of a binding declared in (or visible from) a component
type ReactiveKind int

const (
	Literal       ReactiveKind = iota // literal value or declaration without initializer
	Prop                              // component parameter
	StateValue                        // first element of a state hook tuple
	StateSetter                       // second element of a state hook tuple
	LocalFunction                     // function declared in the component
	ExternalRef                       // import, module-level variable, global or unrecognized shape
	Derived                           // local value computed from an initializer expression
	Param                             // parameter of a nested local function
)

var kindNames = map[ReactiveKind]string{
	Literal:       "literal",
	Prop:          "prop",
	StateValue:    "state",
	StateSetter:   "setter",
	LocalFunction: "function",
	ExternalRef:   "external",
	Derived:       "derived",
	Param:         "param",
}

func (k ReactiveKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsReactive returns true for tracked reactive sources (props and state values)
func (k ReactiveKind) IsReactive() bool {
	return k == Prop || k == StateValue
}
