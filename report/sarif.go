package report

import (
	"encoding/json"

	"github.com/viant/effectlint/analyzer/linage"
)

const (
	toolName     = "effectlint"
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	Physical sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// ToSARIF renders diagnostics as a SARIF 2.1.0 log
func ToSARIF(diags []*Diagnostic) ([]byte, error) {
	results := make([]sarifResult, 0, len(diags))
	for _, diag := range diags {
		results = append(results, sarifResult{
			RuleID:  diag.Rule,
			Level:   "warning",
			Message: sarifMessage{Text: diag.Message},
			Locations: []sarifLoc{{Physical: sarifPhys{
				ArtifactLocation: sarifArt{URI: diag.File},
				Region: sarifRegion{
					StartLine:   diag.Line,
					StartColumn: diag.Column,
					EndLine:     diag.EndLine,
					EndColumn:   diag.EndColumn,
				},
			}}},
		})
	}
	var rules []sarifRule
	for _, rule := range linage.Rules {
		rules = append(rules, sarifRule{ID: string(rule), ShortDescription: sarifMessage{Text: messages[rule].description}})
	}
	s := sarif{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs:    []sarifRun{{Tool: sarifTool{Driver: sarifDriver{Name: toolName, Rules: rules}}, Results: results}},
	}
	return json.MarshalIndent(s, "", "  ")
}
