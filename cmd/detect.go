package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"appdetect/cmd/ui/detection"
	"appdetect/cmd/ui/spinner"
	"appdetect/pkg/detector"
	"appdetect/pkg/framework"
)

// detectCmd runs the detection pipeline against a directory
var detectCmd = &cobra.Command{
	Use:   "detect [APP_PATH]",
	Short: "Detect the framework of an application directory",
	Long: Logo + `
Runs the Rails, Rack, Java, Sinatra, Node, PHP, Django and WSGI checks in that order
and reports the first one that matches. Exits with status 2 when nothing matched.

With --expect KEY the command also fails when a different framework is detected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

var expectKey string

// jsonResult is the --json shape; framework fields are absent when undetermined
type jsonResult struct {
	Detected      bool   `json:"detected"`
	DefaultMemory string `json:"default_mem,omitempty"`
	*detector.Descriptor
}

func runDetect(cmd *cobra.Command, args []string) error {
	appPath := "."
	if len(args) > 0 {
		appPath = args[0]
	}
	appPath = filepath.Clean(appPath)

	var expected framework.ID
	if expectKey != "" {
		id, ok := framework.Parse(strings.ToLower(expectKey))
		if !ok {
			return fmt.Errorf("unknown framework '%s' for --expect (see 'appdetect frameworks')", expectKey)
		}
		expected = id
	}

	info, err := os.Stat(appPath)
	if err != nil {
		return fmt.Errorf("cannot access path '%s': %w", appPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path '%s' is not a directory", appPath)
	}

	logger := loggerFromContext(cmd.Context())

	svc, err := openArchive()
	if err != nil {
		return err
	}
	d := detector.New(svc,
		detector.WithLogger(logger),
		detector.WithProbeTimeout(cfg.ProbeTimeout),
	)

	var (
		desc detector.Descriptor
		ok   bool
	)

	interactive := !jsonOutput && !skipInteractive && isTerminal()
	if interactive {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", logoStyle.Render(Logo))

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		runErr := spinner.Run("Detecting framework...", cancel, func() {
			desc, ok, err = d.Detect(ctx, appPath)
		})
		if runErr != nil {
			return runErr
		}
	} else {
		desc, ok, err = d.Detect(cmd.Context(), appPath)
	}

	if err != nil {
		logger.Error("detection failed", "path", appPath, "err", err)
		return fmt.Errorf("detection failed: %w", err)
	}

	if jsonOutput {
		result := jsonResult{Detected: ok}
		if ok {
			result.Descriptor = &desc
		} else {
			result.DefaultMemory = framework.DefaultMemory
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else if ok {
		fmt.Fprintln(cmd.OutOrStdout(), detection.Render(appPath, desc))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), detection.RenderUndetermined(appPath))
	}

	if !ok {
		return errUndetermined
	}
	if expected != 0 && desc.Framework != expected.String() {
		return fmt.Errorf("expected %s but detected %s", expected, desc.Framework)
	}
	if interactive {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", endingMsgStyle.Render("Run 'appdetect --json' for machine-readable output"))
	}
	return nil
}
