package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"appdetect/pkg/archive"
	"appdetect/pkg/config"
)

const Version = "1.0.0"

// errUndetermined is returned by detect when no checker matched
var errUndetermined = errors.New("could not classify this application")

var (
	jsonOutput      bool
	skipInteractive bool
	verbose         bool
	configPath      string
	backendFlag     string
	probeTimeout    time.Duration

	cfg *config.Config

	logoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	endingMsgStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("170")).Bold(true)
)

const Logo = `
  __ _ _ __  _ __   __| | ___| |_ ___  ___| |_
 / _' | '_ \| '_ \ / _' |/ _ \ __/ _ \/ __| __|
| (_| | |_) | |_) | (_| |  __/ ||  __/ (__| |_
 \__,_| .__/| .__/ \__,_|\___|\__\___|\___|\__|
      |_|   |_|
`

var rootCmd = &cobra.Command{
	Use:   "appdetect [APP_PATH]",
	Short: "Identify the web framework of an unpacked application",
	Long: Logo + `
appdetect inspects an application directory, or the single .war archive inside it,
and reports which runtime framework it contains together with its default memory
allocation and, where one is known, the command that starts it.

Recognizes Rails, Rack, Sinatra, Java web apps (Spring, Grails, Lift), Node.js,
PHP, Django and plain WSGI applications.`,
	Version:           Version,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runDetect,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	if errors.Is(err, errUndetermined) {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		stop()
		os.Exit(2)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	stop()
	os.Exit(1)
}

// setup loads the config file, applies flag overrides and attaches a logger
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("archiver") {
		loaded.ArchiveBackend = backendFlag
	}
	if cmd.Flags().Changed("probe-timeout") {
		loaded.ProbeTimeout = probeTimeout
	}
	if verbose {
		loaded.LogLevel = "debug"
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	level, err := log.ParseLevel(loaded.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	cfg = loaded
	cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
	return nil
}

// openArchive returns the archive backend selected by config and flags
func openArchive() (archive.Service, error) {
	return archive.Open(cfg.ArchiveBackend, cfg.ArchiveTimeout)
}

func isTerminal() bool {
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func init() {
	rootCmd.SetVersionTemplate("appdetect version {{.Version}}\n")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(frameworksCmd)
	rootCmd.AddCommand(entriesCmd, packCmd, unpackCmd)

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON (disables interactive mode)")
	rootCmd.PersistentFlags().BoolVar(&skipInteractive, "no-interactive", false, "Skip the progress spinner (for CI/automation)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.appdetect/config.ini)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "archiver", config.DefaultArchiveBackend, "Archive backend: native or command")
	rootCmd.Flags().StringVar(&expectKey, "expect", "", "Fail unless this framework key is detected")
	detectCmd.Flags().StringVar(&expectKey, "expect", "", "Fail unless this framework key is detected")

	rootCmd.PersistentFlags().DurationVar(&probeTimeout, "probe-timeout", config.DefaultProbeTimeout, "Timeout for listing a .war archive")
}
