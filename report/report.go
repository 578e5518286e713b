package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/viant/effectlint/analyzer/linage"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by Write for an unsupported output format
var ErrUnknownFormat = errors.New("unknown report format")

// Output formats
const (
	Text  = "text"
	JSON  = "json"
	YAML  = "yaml"
	SARIF = "sarif"
)

// Formats lists the supported output formats
var Formats = []string{Text, JSON, YAML, SARIF}

// Message ids
const (
	AvoidDerivedState   = "avoidDerivedState"
	AvoidManagingParent = "avoidManagingParent"
)

type message struct {
	id          string
	template    string
	description string
}

var messages = map[linage.RuleKind]message{
	linage.DerivedState: {
		id:          AvoidDerivedState,
		template:    `Avoid storing derived state. Compute "{{state}}" directly during render, optionally with useMemo if it is expensive.`,
		description: "State set in an effect is computed purely from props or other state.",
	},
	linage.ManagesParent: {
		id:          AvoidManagingParent,
		template:    "Avoid making parent components depend on a child component's effect. Lift the logic up to the parent or call the callback where the change happens.",
		description: "Effect only passes props back to the parent.",
	},
}

// Diagnostic is the user facing form of a finding
type Diagnostic struct {
	Rule      string            `yaml:"rule" json:"rule"`
	MessageID string            `yaml:"messageId" json:"messageId"`
	Message   string            `yaml:"message" json:"message"`
	Data      map[string]string `yaml:"data,omitempty" json:"data,omitempty"`
	Component string            `yaml:"component,omitempty" json:"component,omitempty"`
	File      string            `yaml:"file" json:"file"`
	Line      int               `yaml:"line" json:"line"`
	Column    int               `yaml:"column" json:"column"`
	EndLine   int               `yaml:"endLine" json:"endLine"`
	EndColumn int               `yaml:"endColumn" json:"endColumn"`
}

// Diagnostics maps findings to diagnostics, preserving order
func Diagnostics(findings []*linage.Finding) []*Diagnostic {
	result := make([]*Diagnostic, 0, len(findings))
	for _, finding := range findings {
		result = append(result, NewDiagnostic(finding))
	}
	return result
}

// NewDiagnostic creates a diagnostic for the finding
func NewDiagnostic(finding *linage.Finding) *Diagnostic {
	msg, ok := messages[finding.Rule]
	if !ok {
		msg = message{id: string(finding.Rule), template: string(finding.Rule)}
	}
	diag := &Diagnostic{
		Rule:      string(finding.Rule),
		MessageID: msg.id,
		Component: finding.Component,
	}
	if finding.Rule == linage.DerivedState {
		diag.Data = map[string]string{"state": finding.State}
	}
	diag.Message = expand(msg.template, diag.Data)
	if site := finding.Site; site != nil {
		diag.File = site.FilePath
		diag.Line, diag.Column = site.LineNumber, site.ColumnStart
		diag.EndLine, diag.EndColumn = site.LineEnd, site.ColumnEnd
	}
	return diag
}

func expand(template string, data map[string]string) string {
	for key, value := range data {
		template = strings.ReplaceAll(template, "{{"+key+"}}", value)
	}
	return template
}

// Write renders diagnostics to w in the given format
func Write(w io.Writer, format string, diags []*Diagnostic) error {
	switch strings.ToLower(format) {
	case "", Text:
		return writeText(w, diags)
	case JSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(diags)
	case YAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(diags); err != nil {
			return err
		}
		return encoder.Close()
	case SARIF:
		data, err := ToSARIF(diags)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

func writeText(w io.Writer, diags []*Diagnostic) error {
	for _, diag := range diags {
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s (%s)\n", diag.File, diag.Line, diag.Column, diag.Message, diag.Rule); err != nil {
			return err
		}
	}
	if len(diags) == 0 {
		return nil
	}
	noun := "problems"
	if len(diags) == 1 {
		noun = "problem"
	}
	_, err := fmt.Fprintf(w, "\n%d %s\n", len(diags), noun)
	return err
}
