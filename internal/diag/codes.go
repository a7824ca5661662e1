package diag

import "strings"

// Code is a stable diagnostic identifier such as "L002" or "E501".
// The first byte is the category, the rest a numeric suffix.
type Code string

// Category groups codes by the component that produces them.
type Category byte

const (
	CategoryStructural Category = 'L'
	CategoryStyleError Category = 'E'
	CategoryStyleWarn  Category = 'W'
	CategoryReference  Category = 'F'
)

// Category returns the code's category prefix, or 0 for an empty code.
func (c Code) Category() Category {
	if c == "" {
		return 0
	}
	return Category(c[0])
}

// IsStyle reports whether the code belongs to the style engine (E/W).
func (c Code) IsStyle() bool {
	cat := c.Category()
	return cat == CategoryStyleError || cat == CategoryStyleWarn
}

func (c Code) String() string {
	return string(c)
}

// Normalize upper-cases and trims a user supplied code.
func Normalize(raw string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(raw)))
}

// Structural codes. Published codes are never renumbered or reused.
const (
	ParseFailure   Code = "L000"
	AbsoluteImport Code = "L001"
	WildcardImport Code = "L002"
	BroadExcept    Code = "L003"
	PrintStatement Code = "L004"
	PprintImport   Code = "L005"
	FunctionNaming Code = "L006"
)

// Reference engine codes, one per native message kind. The numbering
// follows flake8's assignment for pyflakes messages.
const (
	UnusedImport               Code = "F401"
	ImportShadowedByLoopVar    Code = "F402"
	ImportStarUsed             Code = "F403"
	LateFutureImport           Code = "F404"
	ImportStarUsage            Code = "F405"
	ImportStarNotPermitted     Code = "F406"
	FutureFeatureNotDefined    Code = "F407"
	PercentFormatInvalid       Code = "F501"
	PercentFormatMapping       Code = "F502"
	PercentFormatSequence      Code = "F503"
	PercentFormatExtraNamed    Code = "F504"
	PercentFormatMissingArg    Code = "F505"
	PercentFormatMixed         Code = "F506"
	PercentFormatCountMismatch Code = "F507"
	PercentFormatStarSequence  Code = "F508"
	PercentFormatUnsupported   Code = "F509"
	DotFormatInvalid           Code = "F521"
	DotFormatExtraNamed        Code = "F522"
	DotFormatExtraPositional   Code = "F523"
	DotFormatMissingArg        Code = "F524"
	DotFormatMixedNumbering    Code = "F525"
	FStringMissingPlaceholders Code = "F541"
	MultiValueRepeatedKey      Code = "F601"
	MultiValueRepeatedVariable Code = "F602"
	TooManyStarredExpressions  Code = "F621"
	TwoStarredExpressions      Code = "F622"
	AssertTuple                Code = "F631"
	IsLiteral                  Code = "F632"
	InvalidPrintSyntax         Code = "F633"
	IfTuple                    Code = "F634"
	BreakOutsideLoop           Code = "F701"
	ContinueOutsideLoop        Code = "F702"
	YieldOutsideFunction       Code = "F704"
	ReturnOutsideFunction      Code = "F706"
	DefaultExceptNotLast       Code = "F707"
	ForwardAnnotationSyntax    Code = "F722"
	RedefinedWhileUnused       Code = "F811"
	UndefinedName              Code = "F821"
	UndefinedExport            Code = "F822"
	UndefinedLocal             Code = "F823"
	DuplicateArgument          Code = "F831"
	UnusedVariable             Code = "F841"
	UnusedAnnotation           Code = "F842"
	RaiseNotImplemented        Code = "F901"
	UnknownReference           Code = "F999"
)

// Info describes one entry of the code table.
type Info struct {
	Code    Code   `json:"code"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

var table = []Info{
	{ParseFailure, "ParseFailure", "file could not be read, parsed or analysed"},
	{AbsoluteImport, "AbsoluteImportRequirement", `file missing "from __future__ import absolute_import"`},
	{WildcardImport, "NoWildcardImport", "use of import *"},
	{BroadExcept, "NoBroadExceptClause", "use of empty/broad except"},
	{PrintStatement, "NoPrintStatement", "use of print"},
	{PprintImport, "NoPprintWildcardImport", "use of pprint import"},
	{FunctionNaming, "NamingConvention", "function name is not lower_case_with_underscores"},

	{UnusedImport, "UnusedImport", "module imported but unused"},
	{ImportShadowedByLoopVar, "ImportShadowedByLoopVar", "import shadowed by loop variable"},
	{ImportStarUsed, "ImportStarUsed", "'from module import *' used"},
	{LateFutureImport, "LateFutureImport", "__future__ import not at the beginning of the file"},
	{ImportStarUsage, "ImportStarUsage", "name may be undefined, or defined from star imports"},
	{ImportStarNotPermitted, "ImportStarNotPermitted", "'from module import *' only allowed at module level"},
	{FutureFeatureNotDefined, "FutureFeatureNotDefined", "__future__ feature is not defined"},
	{PercentFormatInvalid, "PercentFormatInvalidFormat", "'...' % ... has invalid format string"},
	{PercentFormatMapping, "PercentFormatExpectedMapping", "'...' % ... expected mapping"},
	{PercentFormatSequence, "PercentFormatExpectedSequence", "'...' % ... expected sequence"},
	{PercentFormatExtraNamed, "PercentFormatExtraNamedArguments", "'...' % ... has unused named arguments"},
	{PercentFormatMissingArg, "PercentFormatMissingArgument", "'...' % ... is missing arguments for placeholders"},
	{PercentFormatMixed, "PercentFormatMixedPositionalAndNamed", "'...' % ... has mixed positional and named placeholders"},
	{PercentFormatCountMismatch, "PercentFormatPositionalCountMismatch", "'...' % ... placeholder and substitution counts differ"},
	{PercentFormatStarSequence, "PercentFormatStarRequiresSequence", "'...' % ... `*` specifier requires sequence"},
	{PercentFormatUnsupported, "PercentFormatUnsupportedFormatCharacter", "'...' % ... has unsupported format character"},
	{DotFormatInvalid, "StringDotFormatInvalidFormat", "'...'.format(...) has invalid format string"},
	{DotFormatExtraNamed, "StringDotFormatExtraNamedArguments", "'...'.format(...) has unused named arguments"},
	{DotFormatExtraPositional, "StringDotFormatExtraPositionalArguments", "'...'.format(...) has unused positional arguments"},
	{DotFormatMissingArg, "StringDotFormatMissingArgument", "'...'.format(...) is missing arguments for placeholders"},
	{DotFormatMixedNumbering, "StringDotFormatMixingAutomatic", "'...'.format(...) mixes automatic and manual numbering"},
	{FStringMissingPlaceholders, "FStringMissingPlaceholders", "f-string is missing placeholders"},
	{MultiValueRepeatedKey, "MultiValueRepeatedKeyLiteral", "dictionary key repeated with different values"},
	{MultiValueRepeatedVariable, "MultiValueRepeatedKeyVariable", "dictionary key variable repeated with different values"},
	{TooManyStarredExpressions, "TooManyExpressionsInStarredAssignment", "too many expressions in star-unpacking assignment"},
	{TwoStarredExpressions, "TwoStarredExpressions", "two starred expressions in assignment"},
	{AssertTuple, "AssertTuple", "assertion test is a tuple, which is always true"},
	{IsLiteral, "IsLiteral", "use ==/!= to compare constant literals"},
	{InvalidPrintSyntax, "InvalidPrintSyntax", "use of >> is invalid with print function"},
	{IfTuple, "IfTuple", "'if tuple literal' is always true"},
	{BreakOutsideLoop, "BreakOutsideLoop", "'break' outside loop"},
	{ContinueOutsideLoop, "ContinueOutsideLoop", "'continue' not properly in loop"},
	{YieldOutsideFunction, "YieldOutsideFunction", "'yield' or 'await' outside function"},
	{ReturnOutsideFunction, "ReturnOutsideFunction", "'return' outside function"},
	{DefaultExceptNotLast, "DefaultExceptNotLast", "default 'except:' must be last"},
	{ForwardAnnotationSyntax, "ForwardAnnotationSyntaxError", "syntax error in forward annotation"},
	{RedefinedWhileUnused, "RedefinedWhileUnused", "redefinition of unused name"},
	{UndefinedName, "UndefinedName", "undefined name"},
	{UndefinedExport, "UndefinedExport", "undefined name in __all__"},
	{UndefinedLocal, "UndefinedLocal", "local variable referenced before assignment"},
	{DuplicateArgument, "DuplicateArgument", "duplicate argument in function definition"},
	{UnusedVariable, "UnusedVariable", "local variable is assigned to but never used"},
	{UnusedAnnotation, "UnusedAnnotation", "local variable is annotated but never used"},
	{RaiseNotImplemented, "RaiseNotImplemented", "'raise NotImplemented' should be 'raise NotImplementedError'"},
	{UnknownReference, "UnknownReferenceMessage", "unrecognized pyflakes message"},
}

var byCode = func() map[Code]Info {
	m := make(map[Code]Info, len(table))
	for _, info := range table {
		if _, dup := m[info.Code]; dup {
			panic("diag: duplicate code " + string(info.Code))
		}
		m[info.Code] = info
	}
	return m
}()

// Lookup returns the table entry for code. Style engine codes are not listed.
func Lookup(code Code) (Info, bool) {
	info, ok := byCode[code]
	return info, ok
}

// Table returns a copy of the code table in publication order.
func Table() []Info {
	out := make([]Info, len(table))
	copy(out, table)
	return out
}
