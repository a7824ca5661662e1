package checks

import (
	"context"

	"github.com/skelly-dev/lint8/internal/diag"
	"github.com/skelly-dev/lint8/internal/engine"
	"github.com/skelly-dev/lint8/internal/parser"
)

// StyleAdapter reports the style engine's findings with their native E/W
// codes. The engine receives the ignore list itself; Filter catches
// whatever it could not express.
type StyleAdapter struct {
	Engine engine.Engine
	Ignore IgnoreSet
}

func (a StyleAdapter) Evaluate(ctx context.Context, file *parser.SourceFile) ([]diag.Diagnostic, error) {
	messages, err := a.Engine.Run(ctx, file)
	if err != nil {
		return nil, err
	}
	out := make([]diag.Diagnostic, 0, len(messages))
	for _, m := range messages {
		out = append(out, diag.AtLine(file.Path, file.Lines, m.Line, m.Column, m.Code, m.Text))
	}
	diag.SortByPosition(out)
	return a.Ignore.Filter(out), nil
}

// ReferenceAdapter reports the reference engine's findings under their F
// codes. Wildcard-import usage is always dropped in favour of
// NoWildcardImport.
type ReferenceAdapter struct {
	Engine engine.Engine
	Ignore IgnoreSet
}

func (a ReferenceAdapter) Evaluate(ctx context.Context, file *parser.SourceFile) ([]diag.Diagnostic, error) {
	messages, err := a.Engine.Run(ctx, file)
	if err != nil {
		return nil, err
	}
	out := make([]diag.Diagnostic, 0, len(messages))
	for _, m := range messages {
		if m.Code == diag.ImportStarUsed {
			continue
		}
		out = append(out, diag.AtLine(file.Path, file.Lines, m.Line, m.Column, m.Code, m.Text))
	}
	diag.SortByPosition(out)
	return a.Ignore.Filter(out), nil
}

var (
	_ Check = StyleAdapter{}
	_ Check = ReferenceAdapter{}
)
