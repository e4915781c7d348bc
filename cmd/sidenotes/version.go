package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/marcus/sidenotes/internal/config"
	"github.com/marcus/sidenotes/internal/styles"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sidenotes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sidenotes version %s\n", effectiveVersion(Version))
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(e.configPath); err == nil && !force {
			return fmt.Errorf("%s exists, use --force to overwrite", e.configPath)
		}
		if err := config.SaveTo(e.configPath, config.Default()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), e.configPath)
		return nil
	},
}

var configBackgroundCmd = &cobra.Command{
	Use:       "background <name>",
	Short:     "Set the default background variant",
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.Backgrounds,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		if !styles.IsValidTheme(args[0]) {
			return fmt.Errorf("unknown background %q (one of %v)", args[0], styles.ListThemes())
		}
		return config.SaveBackground(e.configPath, args[0])
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configBackgroundCmd)
	rootCmd.AddCommand(versionCmd, configCmd)
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	// Fall back to VCS info
	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision == "" {
		return "devel"
	}
	ver := "devel+" + revision
	if len(ver) > 20 {
		ver = ver[:20]
	}
	if dirty {
		ver += "+dirty"
	}
	return ver
}
