package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(w io.Writer, level string, verbose bool) (*zap.Logger, error) {
	if verbose {
		level = "debug"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), lvl)
	return zap.New(core).Named("lint8"), nil
}

func loggerFromFlags(cmd *cobra.Command) (*zap.Logger, error) {
	level, err := OptionalStringFlag(cmd, "log-level")
	if err != nil {
		return nil, err
	}
	verbose, err := OptionalBoolFlag(cmd, "verbose")
	if err != nil {
		return nil, err
	}
	return newLogger(cmd.ErrOrStderr(), level, verbose)
}
