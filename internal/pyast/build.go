package pyast

import (
	"bytes"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

const futureModule = "__future__"

// Build extracts the recognised constructs from a tree-sitter Python tree.
// root must be the tree's "module" node and content the parsed source.
// futures are the statements removed by MaskWildcardFutures; they are placed
// among the top-level statements by line.
func Build(root *sitter.Node, content []byte, futures ...*ImportFrom) *Module {
	b := &builder{content: content, module: &Module{Nodes: make([]Node, 0)}}
	if root == nil {
		for _, f := range futures {
			b.statement(f)
		}
		return b.module
	}

	pending := futures
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		start, end := int(child.StartPoint().Row)+1, int(child.EndPoint().Row)+1
		for len(pending) > 0 && pending[0].LineNo < start {
			b.statement(pending[0])
			pending = pending[1:]
		}
		// A masked line inside a multi-line statement was string content.
		for len(pending) > 0 && pending[0].LineNo <= end {
			pending = pending[1:]
		}
		if child.Type() == "comment" {
			continue
		}
		b.module.Statements++
		own := b.visit(child)
		if b.module.Statements == 1 {
			b.module.First = own
		}
	}
	for _, f := range pending {
		b.statement(f)
	}
	return b.module
}

var wildcardFuture = regexp.MustCompile(`^from[ \t]+__future__[ \t]+import[ \t]*\*[ \t]*(#.*)?$`)

// MaskWildcardFutures blanks every unindented "from __future__ import *"
// line, which the grammar has no rule for, and returns the statements it
// removed in line order. Byte offsets are unchanged. content is returned as
// is when there is nothing to mask.
func MaskWildcardFutures(content []byte) ([]byte, []*ImportFrom) {
	var (
		masked  []byte
		futures []*ImportFrom
	)
	offset := 0
	for lineNo := 1; offset <= len(content); lineNo++ {
		end := bytes.IndexByte(content[offset:], '\n')
		if end < 0 {
			end = len(content) - offset
		}
		line := bytes.TrimSuffix(content[offset:offset+end], []byte("\r"))
		if wildcardFuture.Match(line) {
			if masked == nil {
				masked = bytes.Clone(content)
			}
			for i := range line {
				masked[offset+i] = ' '
			}
			futures = append(futures, &ImportFrom{
				LineNo:   lineNo,
				Module:   futureModule,
				Names:    []string{"*"},
				Wildcard: true,
				Future:   true,
			})
		}
		offset += end + 1
	}
	if masked == nil {
		return content, nil
	}
	return masked, futures
}

func (b *builder) statement(n Node) {
	b.module.Statements++
	b.module.Nodes = append(b.module.Nodes, n)
	if b.module.Statements == 1 {
		b.module.First = n
	}
}

type builder struct {
	content []byte
	module  *Module
}

// visit records n and its descendants in pre-order and returns the node
// built for n itself, if any.
func (b *builder) visit(n *sitter.Node) Node {
	own := b.convert(n)
	if own != nil {
		b.module.Nodes = append(b.module.Nodes, own)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil {
			b.visit(child)
		}
	}
	return own
}

func (b *builder) convert(n *sitter.Node) Node {
	switch n.Type() {
	case "import_statement":
		return &Import{LineNo: lineOf(n), Modules: b.importedNames(n)}

	case "future_import_statement":
		return &ImportFrom{
			LineNo: lineOf(n),
			Module: futureModule,
			Names:  b.importedNames(n),
			Future: true,
		}

	case "import_from_statement":
		module := ""
		if moduleNode := n.ChildByFieldName("module_name"); moduleNode != nil {
			module = strings.TrimSpace(moduleNode.Content(b.content))
		}
		stmt := &ImportFrom{
			LineNo: lineOf(n),
			Module: module,
			Names:  b.importedNames(n),
			Future: module == futureModule,
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child != nil && child.Type() == "wildcard_import" {
				stmt.Wildcard = true
			}
		}
		return stmt

	case "except_clause", "except_group_clause":
		return &ExceptHandler{LineNo: lineOf(n), Type: b.exceptType(n)}

	case "function_definition":
		return b.functionDef(n)

	case "print_statement":
		return &Print{LineNo: lineOf(n), Statement: true}

	case "call":
		fn := n.ChildByFieldName("function")
		if fn != nil && fn.Type() == "identifier" && fn.Content(b.content) == "print" {
			return &Print{LineNo: lineOf(n)}
		}

	case "expression_statement":
		// A bare "print" on its own line is an empty Python 2 print statement.
		if n.NamedChildCount() == 1 {
			expr := n.NamedChild(0)
			if expr != nil && expr.Type() == "identifier" && expr.Content(b.content) == "print" {
				return &Print{LineNo: lineOf(n), Statement: true}
			}
		}
	}
	return nil
}

// importedNames collects the "name" fields of an import statement, using the
// imported (not aliased) name for "x as y".
func (b *builder) importedNames(n *sitter.Node) []string {
	names := make([]string, 0)
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) != "name" {
			continue
		}
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.Type() == "aliased_import" {
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				child = nameNode
			}
		}
		if name := strings.TrimSpace(child.Content(b.content)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (b *builder) exceptType(n *sitter.Node) ExceptType {
	var expr *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "block", "comment":
			continue
		}
		expr = child
		break
	}
	if expr == nil {
		return ExceptType{Kind: ExceptBare}
	}
	if expr.Type() == "as_pattern" && expr.NamedChildCount() > 0 {
		expr = expr.NamedChild(0)
	}
	return b.classifyExceptType(expr)
}

func (b *builder) classifyExceptType(expr *sitter.Node) ExceptType {
	text := strings.TrimSpace(expr.Content(b.content))
	switch expr.Type() {
	case "identifier":
		return ExceptType{Kind: ExceptName, Name: text, Text: text}
	case "attribute":
		return ExceptType{Kind: ExceptAttribute, Name: text, Text: text}
	case "tuple":
		return ExceptType{Kind: ExceptTuple, Text: text}
	case "parenthesized_expression":
		if expr.NamedChildCount() == 1 {
			inner := b.classifyExceptType(expr.NamedChild(0))
			inner.Text = text
			return inner
		}
	case "expression_list":
		// Python 2 "except Type, name:" binds name; the type comes first.
		if expr.NamedChildCount() > 0 {
			inner := b.classifyExceptType(expr.NamedChild(0))
			inner.Text = text
			return inner
		}
	}
	return ExceptType{Kind: ExceptOther, Text: text}
}

func (b *builder) functionDef(n *sitter.Node) *FunctionDef {
	def := &FunctionDef{LineNo: lineOf(n), KeywordColumn: int(n.StartPoint().Column)}
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		def.Name = nameNode.Content(b.content)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "async":
			def.Async = true
		case "def":
			def.LineNo = lineOf(child)
			def.KeywordColumn = int(child.StartPoint().Column)
			return def
		}
	}
	return def
}

func lineOf(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}
