package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/skelly-dev/lint8/internal/diag"
	"github.com/skelly-dev/lint8/internal/parser"
	"github.com/skelly-dev/lint8/internal/pyast"
	"go.uber.org/zap"
)

const absoluteImportFeature = "absolute_import"

// AbsoluteImport requires "from __future__ import absolute_import" (or a
// wildcard future import) as the first statement of every file.
type AbsoluteImport struct{}

func (AbsoluteImport) Evaluate(_ context.Context, file *parser.SourceFile) ([]diag.Diagnostic, error) {
	var first pyast.Node
	if file.Module != nil {
		first = file.Module.First
	}
	if imp, ok := first.(*pyast.ImportFrom); ok && imp.Future && imp.Imports(absoluteImportFeature) {
		return nil, nil
	}
	return []diag.Diagnostic{
		diag.AtLine(file.Path, file.Lines, 1, 0, diag.AbsoluteImport,
			`file missing "from __future__ import absolute_import"`),
	}, nil
}

// NoWildcardImport flags "from module import *".
type NoWildcardImport struct{}

func (NoWildcardImport) Evaluate(_ context.Context, file *parser.SourceFile) ([]diag.Diagnostic, error) {
	var out []diag.Diagnostic
	for _, n := range file.Module.OfKind(pyast.KindImportFrom) {
		imp := n.(*pyast.ImportFrom)
		if !imp.Wildcard {
			continue
		}
		line := file.Line(imp.LineNo)
		out = append(out, diag.AtLine(file.Path, file.Lines, imp.LineNo, columnOf(line, "*"),
			diag.WildcardImport, "use of import *"))
	}
	return out, nil
}

// NoBroadExcept flags bare except clauses and "except Exception". Tuples
// of types are not inspected.
type NoBroadExcept struct {
	Logger *zap.Logger
}

const universalException = "Exception"

// MatchBroadExcept classifies an except clause type.
func MatchBroadExcept(t pyast.ExceptType) MatchResult {
	switch t.Kind {
	case pyast.ExceptBare:
		return Match
	case pyast.ExceptName:
		if t.Name == universalException {
			return Match
		}
		return NoMatch
	case pyast.ExceptAttribute:
		return NoMatch
	default:
		return Unsupported
	}
}

func (c NoBroadExcept) Evaluate(_ context.Context, file *parser.SourceFile) ([]diag.Diagnostic, error) {
	var out []diag.Diagnostic
	for _, n := range file.Module.OfKind(pyast.KindExceptHandler) {
		handler := n.(*pyast.ExceptHandler)
		switch MatchBroadExcept(handler.Type) {
		case Match:
			line := file.Line(handler.LineNo)
			out = append(out, diag.AtLine(file.Path, file.Lines, handler.LineNo, exceptColon(line),
				diag.BroadExcept, "use of empty/broad except"))
		case Unsupported:
			if c.Logger != nil {
				c.Logger.Debug("except clause type not inspected",
					zap.String("path", file.Path),
					zap.Int("line", handler.LineNo),
					zap.String("type", handler.Type.Text))
			}
		}
	}
	return out, nil
}

// exceptColon finds the colon closing the clause header: the first one after
// the "except" keyword, else the first on the line.
func exceptColon(line string) int {
	if kw := strings.Index(line, "except"); kw >= 0 {
		if i := strings.Index(line[kw:], ":"); i >= 0 {
			return kw + i
		}
	}
	return columnOf(line, ":")
}

// NoPrint flags print statements and print() calls.
type NoPrint struct{}

func (NoPrint) Evaluate(_ context.Context, file *parser.SourceFile) ([]diag.Diagnostic, error) {
	var out []diag.Diagnostic
	for _, n := range file.Module.OfKind(pyast.KindPrint) {
		line := file.Line(n.Line())
		out = append(out, diag.AtLine(file.Path, file.Lines, n.Line(), columnOf(line, "print"),
			diag.PrintStatement, "use of print"))
	}
	return out, nil
}

const pprintModule = "pprint"

// NoPprintImport flags any import of the pprint module. The caret points at
// a "*" on the line when there is one, otherwise at column 0.
type NoPprintImport struct{}

func (NoPprintImport) Evaluate(_ context.Context, file *parser.SourceFile) ([]diag.Diagnostic, error) {
	var out []diag.Diagnostic
	for _, n := range file.Module.OfKind(pyast.KindImport, pyast.KindImportFrom) {
		if !importsPprint(n) {
			continue
		}
		line := file.Line(n.Line())
		out = append(out, diag.AtLine(file.Path, file.Lines, n.Line(), columnOf(line, "*"),
			diag.PprintImport, "use of pprint import"))
	}
	return out, nil
}

func importsPprint(n pyast.Node) bool {
	switch n := n.(type) {
	case *pyast.Import:
		for _, module := range n.Modules {
			if module == pprintModule || strings.HasPrefix(module, pprintModule+".") {
				return true
			}
		}
	case *pyast.ImportFrom:
		return n.Module == pprintModule || strings.HasPrefix(n.Module, pprintModule+".")
	}
	return false
}

var functionNamePattern = regexp.MustCompile(`^[a-z_]+$`)

const defKeywordWidth = len("def ")

// NamingConvention requires function names made of lowercase letters and
// underscores only.
type NamingConvention struct{}

func (NamingConvention) Evaluate(_ context.Context, file *parser.SourceFile) ([]diag.Diagnostic, error) {
	var out []diag.Diagnostic
	for _, n := range file.Module.OfKind(pyast.KindFunctionDef) {
		def := n.(*pyast.FunctionDef)
		if functionNamePattern.MatchString(def.Name) {
			continue
		}
		out = append(out, diag.AtLine(file.Path, file.Lines, def.LineNo, def.KeywordColumn+defKeywordWidth,
			diag.FunctionNaming, fmt.Sprintf("function name %q is not lower_case_with_underscores", def.Name)))
	}
	return out, nil
}

var (
	_ Check = AbsoluteImport{}
	_ Check = NoWildcardImport{}
	_ Check = NoBroadExcept{}
	_ Check = NoPrint{}
	_ Check = NoPprintImport{}
	_ Check = NamingConvention{}
)
