package cli

import (
	"fmt"
	"os"

	"github.com/skelly-dev/lint8/internal/checks"
	"github.com/skelly-dev/lint8/internal/config"
	"github.com/spf13/cobra"
)

// settings is the merged view of defaults, config file, environment and
// flags for one run.
type settings struct {
	ConfigPath string
	Paths      []string
	Ignore     checks.IgnoreSet
	Web        bool
	Jobs       int
	Exclude    []string // ignore file patterns, then config excludes
	NoEngines  bool
	Style      config.EngineConfig
	Reference  config.EngineConfig
}

func resolveSettings(cmd *cobra.Command, args []string, workDir string) (*settings, error) {
	configPath, err := OptionalStringFlag(cmd, "config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath, workDir)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	exclude, err := cfg.Excludes(workDir)
	if err != nil {
		return nil, err
	}

	s := &settings{
		ConfigPath: cfg.Path,
		Paths:      args,
		Web:        cfg.Web,
		Jobs:       cfg.Jobs,
		Exclude:    exclude,
		Style:      cfg.Style,
		Reference:  cfg.Reference,
	}

	ignoreFlags, err := cmd.Flags().GetStringArray("ignore")
	if err != nil {
		return nil, fmt.Errorf("failed to read --ignore flag: %w", err)
	}
	s.Ignore = checks.ParseIgnoreSet(append(append([]string(nil), cfg.Ignore...), ignoreFlags...))

	if flagChanged(cmd, "web") {
		if s.Web, err = OptionalBoolFlag(cmd, "web"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "jobs") {
		if s.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to read --jobs flag: %w", err)
		}
		if s.Jobs < 0 {
			return nil, fmt.Errorf("invalid --jobs %d (must be >= 0)", s.Jobs)
		}
	}
	if s.NoEngines, err = OptionalBoolFlag(cmd, "no-engines"); err != nil {
		return nil, err
	}
	return s, nil
}
