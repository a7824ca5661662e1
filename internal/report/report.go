// Package report renders run results as text, JSON or SARIF.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/skelly-dev/lint8/internal/diag"
	"github.com/skelly-dev/lint8/internal/runner"
)

// Format selects an output encoding.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

// ParseFormat validates a --format value.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatSARIF:
		return FormatSARIF, nil
	default:
		return "", fmt.Errorf("invalid format %q (expected text, json, or sarif)", value)
	}
}

// Options tunes rendering.
type Options struct {
	Color       bool // text only
	ToolName    string
	ToolVersion string
}

// Write renders res to w.
func Write(w io.Writer, format Format, res *runner.Result, opts Options) error {
	switch format {
	case FormatText, "":
		return writeText(w, res.Diagnostics, opts.Color)
	case FormatJSON:
		return writeJSON(w, res)
	case FormatSARIF:
		return writeSARIF(w, res.Diagnostics, opts)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

type palette struct {
	location *color.Color
	custom   *color.Color
	style    *color.Color
	failure  *color.Color
	caret    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		location: color.New(color.Bold),
		custom:   color.New(color.FgRed, color.Bold),
		style:    color.New(color.FgYellow),
		failure:  color.New(color.FgMagenta, color.Bold),
		caret:    color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.location, p.custom, p.style, p.failure, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) code(code diag.Code) *color.Color {
	switch {
	case code == diag.ParseFailure:
		return p.failure
	case code.IsStyle():
		return p.style
	default:
		return p.custom
	}
}

func writeText(w io.Writer, items []diag.Diagnostic, colored bool) error {
	if !colored {
		for _, d := range items {
			if _, err := fmt.Fprintln(w, d.Render()); err != nil {
				return err
			}
		}
		return nil
	}

	p := newPalette(true)
	for _, d := range items {
		location := fmt.Sprintf("%s:%d:%d:", d.Path, d.Line, d.Column)
		_, err := fmt.Fprintf(w, "%s %s %s\n%s\n%s\n",
			p.location.Sprint(location),
			p.code(d.Code).Sprint(string(d.Code)),
			d.Message,
			d.Source,
			p.caret.Sprint(d.Caret()))
		if err != nil {
			return err
		}
	}
	return nil
}

type jsonReport struct {
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Count       int               `json:"count"`
	Files       int               `json:"files"`
}

func writeJSON(w io.Writer, res *runner.Result) error {
	out := jsonReport{
		Diagnostics: res.Diagnostics,
		Count:       res.Count(),
		Files:       len(res.Files),
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []diag.Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
