package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"appdetect/pkg/config"
)

var (
	forceInit bool

	configKeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	configSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage appdetect configuration",
	Long:  `Inspect or create the config.ini file that holds timeouts, the archive backend and the log level.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Long: `Write the effective configuration, defaults plus any --archiver or
--probe-timeout overrides, to the config file. An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.GetConfigPath()
		}

		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}

		if err := cfg.SaveConfig(path); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", configSuccessStyle.Render("Wrote"), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the configuration in effect: the config file plus any flag overrides.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{
				"probe_timeout":   cfg.ProbeTimeout.String(),
				"archive_backend": cfg.ArchiveBackend,
				"archive_timeout": cfg.ArchiveTimeout.String(),
				"log_level":       cfg.LogLevel,
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", configKeyStyle.Render("probe_timeout:  "), cfg.ProbeTimeout)
		fmt.Fprintf(out, "%s %s\n", configKeyStyle.Render("archive_backend:"), cfg.ArchiveBackend)
		fmt.Fprintf(out, "%s %s\n", configKeyStyle.Render("archive_timeout:"), cfg.ArchiveTimeout)
		fmt.Fprintf(out, "%s %s\n", configKeyStyle.Render("log_level:      "), cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")
}
