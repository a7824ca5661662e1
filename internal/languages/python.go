package languages

import (
	"context"

	"github.com/skelly-dev/lint8/internal/diag"
	"github.com/skelly-dev/lint8/internal/parser"
	"github.com/skelly-dev/lint8/internal/pyast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// LanguagePython is the registry name of the Python front end.
const LanguagePython = "python"

// PythonParser implements parsing for Python source files.
// It is safe for concurrent use: each Parse call owns its tree-sitter parser.
type PythonParser struct{}

// NewPythonParser creates a new Python parser
func NewPythonParser() *PythonParser {
	return &PythonParser{}
}

func (p *PythonParser) Language() string {
	return LanguagePython
}

func (p *PythonParser) Extensions() []string {
	return []string{".py"}
}

func (p *PythonParser) Parse(filename string, content []byte) (*parser.SourceFile, error) {
	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(python.GetLanguage())

	masked, futures := pyast.MaskWildcardFutures(content)
	tree, err := sp.ParseCtx(context.Background(), nil, masked)
	if err != nil {
		return nil, &parser.ParseError{Path: filename, Err: err}
	}
	defer tree.Close()

	lines := parser.SplitLines(content)
	root := tree.RootNode()
	if root.HasError() {
		line, column := firstErrorPoint(root)
		return nil, &parser.ParseError{
			Path:   filename,
			Line:   line,
			Column: column,
			Source: diag.LineAt(lines, line),
			Err:    parser.ErrSyntax,
		}
	}

	return &parser.SourceFile{
		Path:     filename,
		Language: LanguagePython,
		Content:  content,
		Lines:    lines,
		Module:   pyast.Build(root, masked, futures...),
	}, nil
}

// firstErrorPoint finds the earliest ERROR or MISSING node in the tree and
// returns its 1-based line and 0-based column.
func firstErrorPoint(node *sitter.Node) (int, int) {
	if node.IsError() || node.IsMissing() {
		point := node.StartPoint()
		return int(point.Row) + 1, int(point.Column)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		return firstErrorPoint(child)
	}
	point := node.StartPoint()
	return int(point.Row) + 1, int(point.Column)
}

var _ parser.LanguageParser = (*PythonParser)(nil)
