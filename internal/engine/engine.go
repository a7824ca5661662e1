// Package engine drives the external Python analysis tools (pycodestyle and
// pyflakes) as subprocesses and parses their native output.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/skelly-dev/lint8/internal/diag"
	"github.com/skelly-dev/lint8/internal/parser"
	"go.uber.org/zap"
)

// Message is one native finding reported by an engine.
type Message struct {
	Line   int // 1-based
	Column int // 0-based
	Code   diag.Code
	Text   string
}

// Engine analyses one file and reports its native messages.
type Engine interface {
	Name() string
	Run(ctx context.Context, file *parser.SourceFile) ([]Message, error)
}

// Config selects and tunes an engine binary.
type Config struct {
	Binary        string
	Args          []string
	MaxLineLength int
}

// Error is returned when an engine process fails for a reason other than
// reporting findings.
type Error struct {
	Engine string
	Path   string
	Status int // -1 when the process never ran
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s failed on %s", e.Engine, e.Path)
	if e.Status >= 0 {
		msg += fmt.Sprintf(" (exit %d)", e.Status)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// OutputParser turns an engine's stdout into messages.
type OutputParser func(output string) []Message

// Command runs an engine binary with the file content on stdin.
//
// Both supported tools exit 0 when clean and 1 when they reported findings;
// any other status, or status 1 with nothing on stdout but a complaint on
// stderr, is a failure.
type Command struct {
	name   string
	binary string
	args   []string
	parse  OutputParser
	logger *zap.Logger
}

// NewCommand creates a Command. A nil logger disables logging.
func NewCommand(name, binary string, args []string, parse OutputParser, logger *zap.Logger) *Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Command{
		name:   name,
		binary: binary,
		args:   append([]string(nil), args...),
		parse:  parse,
		logger: logger.With(zap.String("engine", name)),
	}
}

func (c *Command) Name() string {
	return c.name
}

// Args returns the argument list passed to the binary.
func (c *Command) Args() []string {
	return append([]string(nil), c.args...)
}

func (c *Command) Run(ctx context.Context, file *parser.SourceFile) ([]Message, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, c.args...)
	cmd.Stdin = bytes.NewReader(file.Content)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("running engine",
		zap.String("path", file.Path),
		zap.String("command", c.binary+" "+strings.Join(c.args, " ")))

	status := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &Error{Engine: c.name, Path: file.Path, Status: -1, Err: err}
		}
		status = exitErr.ExitCode()
	}

	excerpt := firstLine(stderr.String())
	switch {
	case status == 0:
	case status == 1 && (strings.TrimSpace(stdout.String()) != "" || excerpt == ""):
	default:
		return nil, &Error{
			Engine: c.name,
			Path:   file.Path,
			Status: status,
			Stderr: excerpt,
			Err:    fmt.Errorf("unexpected exit status %d", status),
		}
	}

	messages := c.parse(stdout.String())
	c.logger.Debug("engine finished",
		zap.String("path", file.Path),
		zap.Int("messages", len(messages)))
	return messages, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

var _ Engine = (*Command)(nil)
