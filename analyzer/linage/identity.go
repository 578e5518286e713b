package linage

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Binding represents a named value in a component's scope
type Binding struct {
	Name       string        // Identifier name
	Kind       ReactiveKind  // Reactive origin
	Hook       string        // State hook that produced the binding (state values and setters)
	Node       *sitter.Node  // Declaring identifier, nil for external references
	Init       *sitter.Node  // Initializer expression (derived bindings)
	Func       *sitter.Node  // Function node (local functions)
	Pair       *Binding      // Setter -> state value, state value -> setter
	Reassigned bool          // Target of an assignment or update somewhere in the component
	Location   *CodeLocation // Declaration site
}

// NewStatePair creates a state value and its setter, cross-linked
func NewStatePair(hook, valueName, setterName string) (*Binding, *Binding) {
	value := &Binding{Name: valueName, Kind: StateValue, Hook: hook}
	setter := &Binding{Name: setterName, Kind: StateSetter, Hook: hook}
	value.Pair = setter
	setter.Pair = value
	return value, setter
}

// State returns the state value a setter writes, or nil for other kinds
func (b *Binding) State() *Binding {
	if b == nil || b.Kind != StateSetter {
		return nil
	}
	return b.Pair
}

// DeclaredWithin returns true if the binding is declared inside the given byte range
func (b *Binding) DeclaredWithin(start, end uint32) bool {
	if b == nil || b.Node == nil {
		return false
	}
	return b.Node.StartByte() >= start && b.Node.EndByte() <= end
}

func (b *Binding) String() string {
	if b == nil {
		return "<nil>"
	}
	return b.Kind.String() + ":" + b.Name
}
