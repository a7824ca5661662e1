package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/skelly-dev/lint8/internal/diag"
	"go.uber.org/zap"
)

const (
	PycodestyleName   = "pycodestyle"
	PycodestyleBinary = "pycodestyle"
)

// DefaultStyleIgnore is pycodestyle's built-in ignore list. Passing
// --ignore replaces it, so it is re-added alongside user codes.
var DefaultStyleIgnore = []string{"E121", "E123", "E126", "E226", "E24", "E704", "W503", "W504"}

var styleLine = regexp.MustCompile(`^[^:]*:(\d+):(\d+): ([EW]\d+) (.*)$`)

// NewPycodestyle builds the style engine. ignore holds the E/W codes the
// caller suppresses; other codes are dropped.
func NewPycodestyle(cfg Config, ignore []diag.Code, logger *zap.Logger) *Command {
	binary := cfg.Binary
	if binary == "" {
		binary = PycodestyleBinary
	}

	var args []string
	if cfg.MaxLineLength > 0 {
		args = append(args, fmt.Sprintf("--max-line-length=%d", cfg.MaxLineLength))
	}
	if codes := styleIgnoreList(ignore); len(codes) > 0 {
		args = append(args, "--ignore="+strings.Join(codes, ","))
	}
	args = append(args, cfg.Args...)
	args = append(args, "-")

	return NewCommand(PycodestyleName, binary, args, ParseStyleOutput, logger)
}

func styleIgnoreList(ignore []diag.Code) []string {
	var user []string
	for _, code := range ignore {
		if code.IsStyle() {
			user = append(user, string(code))
		}
	}
	if len(user) == 0 {
		return nil
	}
	return append(append([]string(nil), DefaultStyleIgnore...), user...)
}

// ParseStyleOutput parses pycodestyle's default "path:line:col: CODE text"
// records. Columns are converted to 0-based; other lines are skipped.
func ParseStyleOutput(output string) []Message {
	var messages []Message
	for _, line := range strings.Split(output, "\n") {
		m := styleLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		lineNo, _ := strconv.Atoi(m[1])
		col, _ := strconv.Atoi(m[2])
		messages = append(messages, Message{
			Line:   lineNo,
			Column: max(col-1, 0),
			Code:   diag.Code(m[3]),
			Text:   m[4],
		})
	}
	return messages
}
