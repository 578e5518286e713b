package linage

import "sort"

// Scope represents a lexical scope inside a component
type Scope struct {
	ID       string              `yaml:"id"`                 // Unique scope ID, hierarchical like "Form.block@120"
	Kind     string              `yaml:"kind"`               // component, function, block, catch
	Name     string              `yaml:"name,omitempty"`     // Function name, empty for anonymous blocks
	Parent   *Scope              `yaml:"-"`                  // Enclosing scope, nil for the component scope
	Children []*Scope            `yaml:"children,omitempty"` // Nested scopes ordered by start offset
	Symbols  map[string]*Binding `yaml:"-"`                  // Bindings declared in this scope
	Start    uint32              `yaml:"start"`              // Start byte offset
	End      uint32              `yaml:"end"`                // End byte offset
}

// NewScope creates a child scope; a nil parent makes a root scope
func NewScope(parent *Scope, id, kind string, start, end uint32) *Scope {
	scope := &Scope{ID: id, Kind: kind, Parent: parent, Symbols: map[string]*Binding{}, Start: start, End: end}
	if parent != nil {
		parent.Children = append(parent.Children, scope)
	}
	return scope
}

// Declare registers a binding in the scope; a later declaration with the same name wins
func (s *Scope) Declare(b *Binding) {
	if b == nil || b.Name == "" {
		return
	}
	s.Symbols[b.Name] = b
}

// Find looks up a name in this scope and its parents
func (s *Scope) Find(name string) *Binding {
	for scope := s; scope != nil; scope = scope.Parent {
		if b, ok := scope.Symbols[name]; ok {
			return b
		}
	}
	return nil
}

// Contains returns true if the byte range lies within the scope
func (s *Scope) Contains(start, end uint32) bool {
	return start >= s.Start && end <= s.End
}

// Innermost returns the deepest scope containing the byte range, or nil if outside this scope
func (s *Scope) Innermost(start, end uint32) *Scope {
	if !s.Contains(start, end) {
		return nil
	}
	current := s
	for {
		children := current.Children
		idx := sort.Search(len(children), func(i int) bool { return children[i].End >= end })
		var next *Scope
		for ; idx < len(children); idx++ {
			child := children[idx]
			if child.Start > start {
				break
			}
			if child.Contains(start, end) {
				next = child
				break
			}
		}
		if next == nil {
			return current
		}
		current = next
	}
}

// Sort orders children by start offset, recursively
func (s *Scope) Sort() {
	sort.SliceStable(s.Children, func(i, j int) bool {
		return s.Children[i].Start < s.Children[j].Start
	})
	for _, child := range s.Children {
		child.Sort()
	}
}
