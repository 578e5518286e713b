package linage

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// RuleKind identifies the rule a finding belongs to
type RuleKind string

const (
	DerivedState  RuleKind = "no-derived-state"
	ManagesParent RuleKind = "no-manage-parent"
)

// Rules lists all supported rules
var Rules = []RuleKind{DerivedState, ManagesParent}

// CodeLocation represents a location in the code
type CodeLocation struct {
	FilePath    string `yaml:"filePath" json:"filePath"`                           // File path
	LineNumber  int    `yaml:"lineNumber" json:"lineNumber"`                       // 1-based line number
	ColumnStart int    `yaml:"columnStart,omitempty" json:"columnStart,omitempty"` // 1-based starting column
	LineEnd     int    `yaml:"lineEnd,omitempty" json:"lineEnd,omitempty"`         // 1-based end line
	ColumnEnd   int    `yaml:"columnEnd,omitempty" json:"columnEnd,omitempty"`     // 1-based end column
	StartByte   uint32 `yaml:"-" json:"-"`
	EndByte     uint32 `yaml:"-" json:"-"`
}

// NewCodeLocation creates a location spanning the node
func NewCodeLocation(path string, n *sitter.Node) *CodeLocation {
	if n == nil {
		return &CodeLocation{FilePath: path}
	}
	start, end := n.StartPoint(), n.EndPoint()
	return &CodeLocation{
		FilePath:    path,
		LineNumber:  int(start.Row) + 1,
		ColumnStart: int(start.Column) + 1,
		LineEnd:     int(end.Row) + 1,
		ColumnEnd:   int(end.Column) + 1,
		StartByte:   n.StartByte(),
		EndByte:     n.EndByte(),
	}
}

// Finding is a single rule violation
type Finding struct {
	Rule      RuleKind      `yaml:"rule" json:"rule"`
	State     string        `yaml:"state,omitempty" json:"state,omitempty"` // Offending state name (derived state only)
	Binding   *Binding      `yaml:"-" json:"-"`
	Component string        `yaml:"component,omitempty" json:"component,omitempty"`
	Site      *CodeLocation `yaml:"site" json:"site"`
}
