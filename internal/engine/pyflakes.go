package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/skelly-dev/lint8/internal/diag"
	"go.uber.org/zap"
)

const (
	PyflakesName   = "pyflakes"
	PyflakesBinary = "pyflakes"
)

var referenceLine = regexp.MustCompile(`^[^:]*:(\d+):(?:(\d+):)? (.*)$`)

type referenceKind struct {
	code    diag.Code
	pattern *regexp.Regexp
}

// referenceKinds maps pyflakes message text to codes. Entries are tried in
// order; the first match wins, so more specific texts come first.
var referenceKinds = []referenceKind{
	{diag.UnusedImport, regexp.MustCompile(`^'.+' imported but unused`)},
	{diag.ImportShadowedByLoopVar, regexp.MustCompile(`^import '.+' from line \d+ shadowed by loop variable`)},
	{diag.ImportStarUsed, regexp.MustCompile(`^'from .+ import \*' used; unable to detect undefined names`)},
	{diag.LateFutureImport, regexp.MustCompile(`^from __future__ imports must occur at the beginning of the file`)},
	{diag.ImportStarUsage, regexp.MustCompile(`^'.+' may be undefined, or defined from star imports`)},
	{diag.ImportStarNotPermitted, regexp.MustCompile(`^'from .+ import \*' only allowed at module level`)},
	{diag.FutureFeatureNotDefined, regexp.MustCompile(`^future feature .+ is not defined`)},
	{diag.PercentFormatInvalid, regexp.MustCompile(`^'\.\.\.' % \.\.\. has invalid format string`)},
	{diag.PercentFormatMapping, regexp.MustCompile(`^'\.\.\.' % \.\.\. expected mapping but got`)},
	{diag.PercentFormatSequence, regexp.MustCompile(`^'\.\.\.' % \.\.\. expected sequence but got`)},
	{diag.PercentFormatExtraNamed, regexp.MustCompile(`^'\.\.\.' % \.\.\. has unused named argument`)},
	{diag.PercentFormatMissingArg, regexp.MustCompile(`^'\.\.\.' % \.\.\. is missing argument`)},
	{diag.PercentFormatMixed, regexp.MustCompile(`^'\.\.\.' % \.\.\. has mixed positional and named placeholders`)},
	{diag.PercentFormatCountMismatch, regexp.MustCompile(`^'\.\.\.' % \.\.\. has \d+ placeholder\(s\) but \d+ substitution`)},
	{diag.PercentFormatStarSequence, regexp.MustCompile("^'\\.\\.\\.' % \\.\\.\\. `\\*` specifier requires sequence")},
	{diag.PercentFormatUnsupported, regexp.MustCompile(`^'\.\.\.' % \.\.\. has unsupported format character`)},
	{diag.DotFormatInvalid, regexp.MustCompile(`^'\.\.\.'\.format\(\.\.\.\) has invalid format string`)},
	{diag.DotFormatExtraNamed, regexp.MustCompile(`^'\.\.\.'\.format\(\.\.\.\) has unused named argument`)},
	{diag.DotFormatExtraPositional, regexp.MustCompile(`^'\.\.\.'\.format\(\.\.\.\) has unused arguments at position`)},
	{diag.DotFormatMissingArg, regexp.MustCompile(`^'\.\.\.'\.format\(\.\.\.\) is missing argument`)},
	{diag.DotFormatMixedNumbering, regexp.MustCompile(`^'\.\.\.'\.format\(\.\.\.\) mixes automatic and manual numbering`)},
	{diag.FStringMissingPlaceholders, regexp.MustCompile(`^f-string is missing placeholders`)},
	{diag.MultiValueRepeatedVariable, regexp.MustCompile(`^dictionary key variable .+ repeated with different values`)},
	{diag.MultiValueRepeatedKey, regexp.MustCompile(`^dictionary key .+ repeated with different values`)},
	{diag.TooManyStarredExpressions, regexp.MustCompile(`^too many expressions in star-unpacking assignment`)},
	{diag.TwoStarredExpressions, regexp.MustCompile(`^two starred expressions in assignment`)},
	{diag.AssertTuple, regexp.MustCompile(`^assertion is always true`)},
	{diag.IsLiteral, regexp.MustCompile(`^use ==/!= to compare constant literals`)},
	{diag.InvalidPrintSyntax, regexp.MustCompile(`^use of >> is invalid with print function`)},
	{diag.IfTuple, regexp.MustCompile(`^'if tuple literal' is always true`)},
	{diag.BreakOutsideLoop, regexp.MustCompile(`^'break' outside loop`)},
	{diag.ContinueOutsideLoop, regexp.MustCompile(`^'continue' not properly in loop`)},
	{diag.YieldOutsideFunction, regexp.MustCompile(`^'(yield|yield from|await)' outside function`)},
	{diag.ReturnOutsideFunction, regexp.MustCompile(`^'return' outside function`)},
	{diag.DefaultExceptNotLast, regexp.MustCompile(`^default 'except:' must be last`)},
	{diag.ForwardAnnotationSyntax, regexp.MustCompile(`^syntax error in forward annotation`)},
	{diag.RedefinedWhileUnused, regexp.MustCompile(`^redefinition of unused '.+' from line \d+`)},
	{diag.UndefinedExport, regexp.MustCompile(`^undefined name '.+' in __all__`)},
	{diag.UndefinedName, regexp.MustCompile(`^undefined name '.+'`)},
	{diag.UndefinedLocal, regexp.MustCompile(`^local variable '.+' .*referenced before assignment`)},
	{diag.DuplicateArgument, regexp.MustCompile(`^duplicate argument '.+' in function definition`)},
	{diag.UnusedVariable, regexp.MustCompile(`^local variable '.+' is assigned to but never used`)},
	{diag.UnusedAnnotation, regexp.MustCompile(`^local variable '.+' is annotated but never used`)},
	{diag.RaiseNotImplemented, regexp.MustCompile(`^'raise NotImplemented' should be 'raise NotImplementedError'`)},
}

// NewPyflakes builds the reference engine. pyflakes reads stdin when given
// no file arguments.
func NewPyflakes(cfg Config, logger *zap.Logger) *Command {
	binary := cfg.Binary
	if binary == "" {
		binary = PyflakesBinary
	}
	return NewCommand(PyflakesName, binary, cfg.Args, ParseReferenceOutput, logger)
}

// ClassifyReference returns the code for a pyflakes message text, or
// diag.UnknownReference when no kind matches.
func ClassifyReference(text string) diag.Code {
	for _, kind := range referenceKinds {
		if kind.pattern.MatchString(text) {
			return kind.code
		}
	}
	return diag.UnknownReference
}

// ParseReferenceOutput parses pyflakes records of the form
// "path:line:col: text" or, for older releases, "path:line: text".
func ParseReferenceOutput(output string) []Message {
	var messages []Message
	for _, line := range strings.Split(output, "\n") {
		m := referenceLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		lineNo, _ := strconv.Atoi(m[1])
		col := 0
		if m[2] != "" {
			col, _ = strconv.Atoi(m[2])
			col--
		}
		messages = append(messages, Message{
			Line:   lineNo,
			Column: max(col, 0),
			Code:   ClassifyReference(m[3]),
			Text:   m[3],
		})
	}
	return messages
}
