package languages

import "github.com/skelly-dev/lint8/internal/parser"

// NewDefaultRegistry creates a registry with the Python front end, which also
// handles explicitly named files without a .py extension.
func NewDefaultRegistry() *parser.Registry {
	r := parser.NewRegistry()

	r.Register(NewPythonParser())
	r.SetFallback(LanguagePython)

	return r
}
