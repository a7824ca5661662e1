package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LanguageParser defines the interface each language front end implements
type LanguageParser interface {
	// Language returns the language name (e.g., "python")
	Language() string

	// Extensions returns file extensions this parser handles
	Extensions() []string

	// Parse turns file content into a SourceFile, or fails with *ParseError
	Parse(filename string, content []byte) (*SourceFile, error)
}

// Registry holds all registered language parsers
type Registry struct {
	parsers   map[string]LanguageParser // language name -> parser
	extToLang map[string]string         // extension -> language name
	fallback  string
}

// NewRegistry creates a new parser registry
func NewRegistry() *Registry {
	return &Registry{
		parsers:   make(map[string]LanguageParser),
		extToLang: make(map[string]string),
	}
}

// Register adds a language parser to the registry
func (r *Registry) Register(p LanguageParser) {
	lang := p.Language()
	r.parsers[lang] = p
	for _, ext := range p.Extensions() {
		r.extToLang[strings.ToLower(ext)] = lang
	}
}

// SetFallback names the language used for explicitly requested files whose
// extension is not registered.
func (r *Registry) SetFallback(lang string) {
	r.fallback = lang
}

// GetParserForFile returns the parser registered for the file's extension
func (r *Registry) GetParserForFile(filename string) (LanguageParser, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	lang, ok := r.extToLang[ext]
	if !ok {
		return nil, false
	}
	parser, ok := r.parsers[lang]
	return parser, ok
}

// Matches reports whether directory walks should pick up the file.
func (r *Registry) Matches(filename string) bool {
	_, ok := r.GetParserForFile(filename)
	return ok
}

// SupportedExtensions returns all supported file extensions, sorted
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.extToLang))
	for ext := range r.extToLang {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ParseFile reads and parses a single file. Files with an unknown extension
// go to the fallback parser.
func (r *Registry) ParseFile(path string) (*SourceFile, error) {
	parser, ok := r.GetParserForFile(path)
	if !ok {
		parser, ok = r.parsers[r.fallback]
	}
	if !ok {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("no parser for %q", filepath.Ext(path))}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	file, err := parser.Parse(path, content)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return nil, err
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	return file, nil
}
