package cli

import (
	"fmt"
	"strings"

	"github.com/skelly-dev/lint8/internal/report"
	"github.com/spf13/cobra"
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return false, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

// flagChanged reports whether the user set the flag explicitly.
func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func ParseOutputFormat(cmd *cobra.Command) (report.Format, error) {
	value, err := OptionalStringFlag(cmd, "format")
	if err != nil {
		return "", err
	}
	return report.ParseFormat(value)
}

type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

func ParseColorMode(cmd *cobra.Command) (colorMode, error) {
	value, err := OptionalStringFlag(cmd, "color")
	if err != nil {
		return "", err
	}
	switch mode := colorMode(strings.ToLower(value)); mode {
	case "":
		return colorAuto, nil
	case colorAuto, colorAlways, colorNever:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid --color %q (expected auto, always, or never)", value)
	}
}
