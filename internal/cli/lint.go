package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/skelly-dev/lint8/internal/checks"
	"github.com/skelly-dev/lint8/internal/config"
	"github.com/skelly-dev/lint8/internal/diag"
	"github.com/skelly-dev/lint8/internal/engine"
	"github.com/skelly-dev/lint8/internal/fileutil"
	"github.com/skelly-dev/lint8/internal/ignore"
	"github.com/skelly-dev/lint8/internal/languages"
	"github.com/skelly-dev/lint8/internal/report"
	"github.com/skelly-dev/lint8/internal/runner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func RunLint(cmd *cobra.Command, args []string) error {
	listCodes, err := OptionalBoolFlag(cmd, "list-codes")
	if err != nil {
		return err
	}
	if listCodes {
		return printCodes(cmd.OutOrStdout())
	}
	if len(args) == 0 {
		return errors.New("requires at least one path")
	}

	format, err := ParseOutputFormat(cmd)
	if err != nil {
		return err
	}
	colors, err := ParseColorMode(cmd)
	if err != nil {
		return err
	}
	showProgress, err := OptionalBoolFlag(cmd, "progress")
	if err != nil {
		return err
	}
	outputPath, err := OptionalStringFlag(cmd, "output")
	if err != nil {
		return err
	}

	logger, err := loggerFromFlags(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	s, err := resolveSettings(cmd, args, workDir)
	if err != nil {
		return err
	}
	if s.ConfigPath != "" {
		logger.Debug("loaded config", zap.String("path", s.ConfigPath))
	}

	matcher := ignore.NewMatcher(s.Exclude)

	style, reference, err := buildEngines(s, logger)
	if err != nil {
		return err
	}
	enabled := checks.NewRegistry().Enabled(checks.Options{
		Web:       s.Web,
		Ignore:    s.Ignore,
		Style:     style,
		Reference: reference,
		Logger:    logger,
	})

	progress := newProgressReporter(cmd.ErrOrStderr(), "lint", showProgress)
	r := runner.New(runner.Options{
		Languages: languages.NewDefaultRegistry(),
		Checks:    enabled,
		Ignore:    s.Ignore,
		Matcher:   matcher,
		Jobs:      s.Jobs,
		Logger:    logger,
		Progress:  progress.Update,
	})
	res, err := r.Process(cmd.Context(), s.Paths)
	if err != nil {
		return err
	}
	progress.Done(len(res.Files), res.Count())

	if err := writeReport(cmd, format, colors, outputPath, res, logger); err != nil {
		return err
	}

	if res.Count() > 0 {
		return &FindingsError{Count: res.Count()}
	}
	return nil
}

// writeReport sends text to stderr and json/sarif to stdout, or everything
// to outputPath when set.
func writeReport(cmd *cobra.Command, format report.Format, colors colorMode, outputPath string, res *runner.Result, logger *zap.Logger) error {
	opts := report.Options{ToolVersion: cmd.Root().Version}
	if outputPath != "" {
		var buf bytes.Buffer
		if err := report.Write(&buf, format, res, opts); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		wrote, err := fileutil.WriteIfChanged(outputPath, buf.Bytes())
		if err != nil {
			return fmt.Errorf("failed to write report to %s: %w", outputPath, err)
		}
		logger.Debug("report written", zap.String("path", outputPath), zap.Bool("changed", wrote))
		return nil
	}

	out := cmd.OutOrStdout()
	if format == report.FormatText {
		out = cmd.ErrOrStderr()
	}
	opts.Color = useColor(colors, out)
	if err := report.Write(out, format, res, opts); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// buildEngines returns the configured engines. A default binary missing
// from PATH disables its engine with a warning; an explicitly configured
// one that cannot be found is an error.
func buildEngines(s *settings, logger *zap.Logger) (engine.Engine, engine.Engine, error) {
	if s.NoEngines {
		return nil, nil, nil
	}

	var style, reference engine.Engine
	if s.Style.IsEnabled() {
		binary, ok, err := locateEngine(s.Style, engine.PycodestyleBinary)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			style = engine.NewPycodestyle(engineConfig(s.Style, binary), s.Ignore.StyleCodes(), logger)
		} else {
			logger.Warn("pycodestyle not found, style checks disabled")
		}
	}
	if s.Reference.IsEnabled() {
		binary, ok, err := locateEngine(s.Reference, engine.PyflakesBinary)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			reference = engine.NewPyflakes(engineConfig(s.Reference, binary), logger)
		} else {
			logger.Warn("pyflakes not found, reference checks disabled")
		}
	}
	return style, reference, nil
}

func locateEngine(cfg config.EngineConfig, fallback string) (string, bool, error) {
	binary := cfg.Binary
	if binary == "" {
		binary = fallback
	}
	path, err := exec.LookPath(binary)
	if err == nil {
		return path, true, nil
	}
	if cfg.Binary != "" {
		return "", false, fmt.Errorf("engine binary %q: %w", cfg.Binary, err)
	}
	return "", false, nil
}

func engineConfig(cfg config.EngineConfig, binary string) engine.Config {
	return engine.Config{
		Binary:        binary,
		Args:          cfg.Args,
		MaxLineLength: cfg.MaxLineLength,
	}
}

func useColor(mode colorMode, w io.Writer) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && os.Getenv("TERM") != "dumb" && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func printCodes(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, info := range diag.Table() {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Code, info.Name, info.Summary); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(tw, "E*/W*\tpycodestyle\tpassed through from pycodestyle"); err != nil {
		return err
	}
	return tw.Flush()
}
