// Package pyast exposes the handful of Python syntax constructs the lint
// checks inspect as a closed set of node types.
//
// Only line numbers are carried for statements whose column would have to be
// recovered from the source text anyway (imports, except clauses, print).
// Function definitions carry the column of their "def" keyword.
package pyast

// Kind enumerates the node variants. Every Node returns exactly one Kind.
type Kind uint8

const (
	KindImport Kind = iota
	KindImportFrom
	KindExceptHandler
	KindFunctionDef
	KindPrint
)

func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindImportFrom:
		return "import-from"
	case KindExceptHandler:
		return "except-handler"
	case KindFunctionDef:
		return "function-def"
	case KindPrint:
		return "print"
	default:
		return "unknown"
	}
}

// Node is implemented only by the types in this package.
type Node interface {
	Kind() Kind
	Line() int
	sealed()
}

// Import is "import a, b.c as d".
type Import struct {
	LineNo  int
	Modules []string
}

// ImportFrom is "from module import names" including __future__ imports.
type ImportFrom struct {
	LineNo   int
	Module   string
	Names    []string
	Wildcard bool
	Future   bool
}

// ExceptHandler is one except clause of a try statement.
type ExceptHandler struct {
	LineNo int
	Type   ExceptType
}

// FunctionDef is a function or method definition.
type FunctionDef struct {
	LineNo        int
	Name          string
	KeywordColumn int
	Async         bool
}

// Print is a Python 2 print statement or a call to print().
type Print struct {
	LineNo    int
	Statement bool
}

func (*Import) Kind() Kind        { return KindImport }
func (*ImportFrom) Kind() Kind    { return KindImportFrom }
func (*ExceptHandler) Kind() Kind { return KindExceptHandler }
func (*FunctionDef) Kind() Kind   { return KindFunctionDef }
func (*Print) Kind() Kind         { return KindPrint }

func (n *Import) Line() int        { return n.LineNo }
func (n *ImportFrom) Line() int    { return n.LineNo }
func (n *ExceptHandler) Line() int { return n.LineNo }
func (n *FunctionDef) Line() int   { return n.LineNo }
func (n *Print) Line() int         { return n.LineNo }

func (*Import) sealed()        {}
func (*ImportFrom) sealed()    {}
func (*ExceptHandler) sealed() {}
func (*FunctionDef) sealed()   {}
func (*Print) sealed()         {}

// Imports reports whether the statement brings in name, or everything via "*".
func (n *ImportFrom) Imports(name string) bool {
	if n.Wildcard {
		return true
	}
	for _, imported := range n.Names {
		if imported == name || imported == "*" {
			return true
		}
	}
	return false
}

// ExceptTypeKind classifies the declared type of an except clause.
type ExceptTypeKind uint8

const (
	// ExceptBare is "except:" with no type.
	ExceptBare ExceptTypeKind = iota
	// ExceptName is a single plain name such as "except ValueError".
	ExceptName
	// ExceptAttribute is a dotted name such as "except socket.error".
	ExceptAttribute
	// ExceptTuple is a tuple of types such as "except (A, B)".
	ExceptTuple
	// ExceptOther is any other expression (calls, subscripts, ...).
	ExceptOther
)

// ExceptType is the declared exception type of a handler.
type ExceptType struct {
	Kind ExceptTypeKind
	Name string // set for ExceptName and ExceptAttribute
	Text string // raw source of the type expression
}

// Module is the extracted view of one parsed file.
type Module struct {
	// Nodes holds every recognised construct in source (pre-)order.
	Nodes []Node
	// First is the node for the first top-level statement when that
	// statement is one of the recognised kinds, nil otherwise.
	First Node
	// Statements counts top-level statements, comments excluded.
	Statements int
}

// OfKind returns the nodes of the given kinds, preserving source order.
func (m *Module) OfKind(kinds ...Kind) []Node {
	if m == nil {
		return nil
	}
	out := make([]Node, 0)
	for _, n := range m.Nodes {
		for _, kind := range kinds {
			if n.Kind() == kind {
				out = append(out, n)
				break
			}
		}
	}
	return out
}
