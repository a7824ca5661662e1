package checks

import (
	"github.com/skelly-dev/lint8/internal/diag"
	"github.com/skelly-dev/lint8/internal/engine"
	"go.uber.org/zap"
)

// Kind tells structural rules from engine adapters.
type Kind uint8

const (
	KindStructural Kind = iota
	KindAdapter
)

func (k Kind) String() string {
	if k == KindAdapter {
		return "adapter"
	}
	return "structural"
}

// Descriptor binds a check to its code. Adapters report many codes and are
// described by their category instead.
type Descriptor struct {
	Name     string
	Code     diag.Code
	Category diag.Category
	Kind     Kind
	WebOnly  bool

	build func(Options) Check
}

// Options selects and configures the checks of one run.
type Options struct {
	Web       bool
	Ignore    IgnoreSet
	Style     engine.Engine // nil disables the style adapter
	Reference engine.Engine // nil disables the reference adapter
	Logger    *zap.Logger
}

// Enabled is a descriptor with its ready-to-run check.
type Enabled struct {
	Descriptor
	Check Check
}

// descriptors is the registration order, which is also the order in which
// each file's diagnostics are reported. Codes come from the diag table and
// do not depend on this order.
var descriptors = []Descriptor{
	{Name: "AbsoluteImportRequirement", Code: diag.AbsoluteImport, Category: diag.CategoryStructural,
		build: func(Options) Check { return AbsoluteImport{} }},
	{Name: "NoWildcardImport", Code: diag.WildcardImport, Category: diag.CategoryStructural,
		build: func(Options) Check { return NoWildcardImport{} }},
	{Name: "NoBroadExceptClause", Code: diag.BroadExcept, Category: diag.CategoryStructural,
		build: func(o Options) Check { return NoBroadExcept{Logger: o.Logger} }},
	{Name: "NoPrintStatement", Code: diag.PrintStatement, Category: diag.CategoryStructural, WebOnly: true,
		build: func(Options) Check { return NoPrint{} }},
	{Name: "NoPprintWildcardImport", Code: diag.PprintImport, Category: diag.CategoryStructural, WebOnly: true,
		build: func(Options) Check { return NoPprintImport{} }},
	{Name: "NamingConvention", Code: diag.FunctionNaming, Category: diag.CategoryStructural,
		build: func(Options) Check { return NamingConvention{} }},
	{Name: "StyleCheckAdapter", Category: diag.CategoryStyleError, Kind: KindAdapter,
		build: func(o Options) Check {
			if o.Style == nil {
				return nil
			}
			return StyleAdapter{Engine: o.Style, Ignore: o.Ignore}
		}},
	{Name: "ReferenceCheckAdapter", Category: diag.CategoryReference, Kind: KindAdapter,
		build: func(o Options) Check {
			if o.Reference == nil {
				return nil
			}
			return ReferenceAdapter{Engine: o.Reference, Ignore: o.Ignore}
		}},
}

// Registry is the fixed set of known checks.
type Registry struct {
	descriptors []Descriptor
	byCode      map[diag.Code]int
}

// NewRegistry returns the registry of all built-in checks. It panics when
// two structural checks share a code or a code is missing from the table.
func NewRegistry() *Registry {
	r := &Registry{
		descriptors: descriptors,
		byCode:      make(map[diag.Code]int),
	}
	for i, d := range r.descriptors {
		if d.Kind != KindStructural {
			continue
		}
		if _, ok := diag.Lookup(d.Code); !ok {
			panic("checks: code " + string(d.Code) + " is not in the code table")
		}
		if _, dup := r.byCode[d.Code]; dup {
			panic("checks: duplicate code " + string(d.Code))
		}
		r.byCode[d.Code] = i
	}
	return r
}

// Descriptors returns every check in registration order.
func (r *Registry) Descriptors() []Descriptor {
	return append([]Descriptor(nil), r.descriptors...)
}

// Lookup returns the descriptor of the check that reports code.
func (r *Registry) Lookup(code diag.Code) (Descriptor, bool) {
	if i, ok := r.byCode[code]; ok {
		return r.descriptors[i], true
	}
	for _, d := range r.descriptors {
		if d.Kind != KindAdapter {
			continue
		}
		switch {
		case code.IsStyle() && d.Category == diag.CategoryStyleError:
			return d, true
		case code.Category() == diag.CategoryReference && d.Category == diag.CategoryReference:
			return d, true
		}
	}
	return Descriptor{}, false
}

// Enabled builds the checks that should run under opts, in registration
// order. Web-only checks need opts.Web; ignored structural checks are
// skipped outright; adapters need an engine.
func (r *Registry) Enabled(opts Options) []Enabled {
	var out []Enabled
	for _, d := range r.descriptors {
		if d.WebOnly && !opts.Web {
			continue
		}
		if d.Kind == KindStructural && opts.Ignore.Has(d.Code) {
			continue
		}
		check := d.build(opts)
		if check == nil {
			continue
		}
		out = append(out, Enabled{Descriptor: d, Check: check})
	}
	return out
}
