package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lint8 [flags] <path>...",
		Short: "Lint Python sources with stable, suppressible diagnostic codes",
		Long: `lint8 runs a set of structural checks over Python files, together with
pycodestyle and pyflakes when they are installed, and reports every finding
with a stable code (L = lint8, E/W = pycodestyle, F = pyflakes).

Directories are searched recursively for .py files. Settings are read from
the nearest .lint8.toml or .lint8.yaml, then the environment, then flags.
The exit status is 0 when nothing was reported and nonzero otherwise.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          RunLint,
	}

	flags := rootCmd.Flags()
	flags.StringArray("ignore", nil, "Diagnostic codes to suppress (comma-separated, repeatable)")
	flags.BoolP("web", "w", false, "Enable web-centric checks (no print, no pprint)")
	flags.String("config", "", "Config file (default: nearest .lint8.toml, .lint8.yaml or .lint8.yml)")
	flags.String("format", "text", "Output format: text|json|sarif")
	flags.StringP("output", "o", "", "Write the report to a file instead of stdout/stderr")
	flags.String("color", "auto", "Colorize text output: auto|always|never")
	flags.IntP("jobs", "j", 0, "Files analysed in parallel (default: number of CPUs)")
	flags.Bool("no-engines", false, "Skip pycodestyle and pyflakes")
	flags.Bool("list-codes", false, "Print the diagnostic code table and exit")
	flags.Bool("progress", false, "Show a progress line on a terminal")
	flags.String("log-level", "error", "Log level: debug|info|warn|error")
	flags.BoolP("verbose", "v", false, "Shorthand for --log-level=debug")

	rootCmd.SetVersionTemplate("lint8 {{.Version}}\n")
	return rootCmd
}
