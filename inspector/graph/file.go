package graph

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// File represents a parsed JavaScript/TypeScript source file
type File struct {
	Path       string       // File path
	Language   string       // javascript, tsx or typescript
	Hash       uint64       // Content fingerprint
	Source     []byte       // Raw source
	Root       *sitter.Node // Syntax tree root
	HasErrors  bool         // Parser had to recover from syntax errors
	Components []*Component // Top-level component and hook functions
	Imports    []Import     // Imports used in this file

	componentMap map[string]int
}

// Import represents an imported binding
type Import struct {
	Name string // Local name
	Path string // Module specifier
}

// Component represents a top-level function that may use hooks
type Component struct {
	Name     string       // Declared name, empty for anonymous default exports
	Kind     string       // function, arrow or expression
	Exported bool         // Declared in an export statement
	Node     *sitter.Node // Function node (function_declaration, arrow_function, function_expression)
	Location *Location    // Location of the function in the source code
}

// Location represents a byte span and its starting position
type Location struct {
	Start  int // Start byte offset
	End    int // End byte offset
	Line   int // 1-based start line
	Column int // 1-based start column
}

// NewLocation creates a location spanning the node
func NewLocation(n *sitter.Node) *Location {
	point := n.StartPoint()
	return &Location{
		Start:  int(n.StartByte()),
		End:    int(n.EndByte()),
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
	}
}

// AddComponent appends a component to the file
func (f *File) AddComponent(component *Component) {
	f.Components = append(f.Components, component)
	if f.componentMap != nil && component.Name != "" {
		if _, ok := f.componentMap[component.Name]; !ok {
			f.componentMap[component.Name] = len(f.Components) - 1
		}
	}
}

// LookupComponent retrieves a component by name from the file
func (f *File) LookupComponent(name string) *Component {
	if f.componentMap == nil {
		f.IndexComponents()
	}
	if idx, ok := f.componentMap[name]; ok && idx < len(f.Components) {
		return f.Components[idx]
	}
	return nil
}

// IndexComponents rebuilds the component lookup index
func (f *File) IndexComponents() {
	f.componentMap = make(map[string]int)
	for i, component := range f.Components {
		if component == nil || component.Name == "" {
			continue
		}
		if _, ok := f.componentMap[component.Name]; !ok {
			f.componentMap[component.Name] = i
		}
	}
}
