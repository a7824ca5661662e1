package report

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/skelly-dev/lint8/internal/diag"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
)

// SARIF writing (2.1.0 minimal)
type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
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
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}
type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name,omitempty"`
	ShortDescription sarifMessage `json:"shortDescription"`
}
type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}
type sarifMessage struct {
	Text string `json:"text"`
}
type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}
type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}
type sarifArtifactLocation struct {
	URI string `json:"uri"`
}
type sarifRegion struct {
	StartLine   int           `json:"startLine"`
	StartColumn int           `json:"startColumn"` // 1-based
	Snippet     *sarifMessage `json:"snippet,omitempty"`
}

func writeSARIF(w io.Writer, items []diag.Diagnostic, opts Options) error {
	name := opts.ToolName
	if name == "" {
		name = "lint8"
	}
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: name, Version: opts.ToolVersion}},
		Results: []sarifResult{},
	}

	ruleIndex := map[diag.Code]int{}
	for _, d := range items {
		idx, ok := ruleIndex[d.Code]
		if !ok {
			idx = len(run.Tool.Driver.Rules)
			ruleIndex[d.Code] = idx
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, ruleFor(d))
		}

		region := sarifRegion{StartLine: d.Line, StartColumn: d.Column + 1}
		if d.Source != "" {
			region.Snippet = &sarifMessage{Text: d.Source}
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:    string(d.Code),
			RuleIndex: idx,
			Level:     levelFor(d.Code),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: filepath.ToSlash(d.Path)},
					Region:           region,
				},
			}},
		})
	}

	log := sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&log)
}

func ruleFor(d diag.Diagnostic) sarifRule {
	if info, ok := diag.Lookup(d.Code); ok {
		return sarifRule{ID: string(d.Code), Name: info.Name, ShortDescription: sarifMessage{Text: info.Summary}}
	}
	// style codes are not in the table; their message describes them
	return sarifRule{ID: string(d.Code), ShortDescription: sarifMessage{Text: d.Message}}
}

func levelFor(code diag.Code) string {
	switch {
	case code == diag.ParseFailure:
		return "error"
	case code.IsStyle():
		return "note"
	default:
		return "warning"
	}
}
