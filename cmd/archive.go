package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var entriesCmd = &cobra.Command{
	Use:   "entries ARCHIVE",
	Short: "List the member names of an archive without extracting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openArchive()
		if err != nil {
			return err
		}

		ctx, cancel := archiveContext(cmd.Context())
		defer cancel()

		listing, err := svc.ListEntries(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), listing)
		return nil
	},
}

var packCmd = &cobra.Command{
	Use:   "pack DIR ARCHIVE",
	Short: "Pack an application directory into a zip archive",
	Long: `Pack an application directory into a zip archive.

Backup files (*~, #*#), logs (*.log) and the .git directory are left out.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openArchive()
		if err != nil {
			return err
		}

		ctx, cancel := archiveContext(cmd.Context())
		defer cancel()

		logger := loggerFromContext(cmd.Context())
		logger.Debug("packing", "src", args[0], "dest", args[1], "backend", cfg.ArchiveBackend)

		if err := svc.Pack(ctx, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to pack %s: %w", args[0], err)
		}
		logger.Info("packed", "archive", args[1])
		return nil
	},
}

var unpackCmd = &cobra.Command{
	Use:   "unpack ARCHIVE DIR",
	Short: "Extract a zip archive into a directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openArchive()
		if err != nil {
			return err
		}

		ctx, cancel := archiveContext(cmd.Context())
		defer cancel()

		if err := svc.Unpack(ctx, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to unpack %s: %w", args[0], err)
		}
		loggerFromContext(cmd.Context()).Info("unpacked", "dest", args[1])
		return nil
	},
}

// archiveContext bounds a whole archive command by the configured timeout
func archiveContext(parent context.Context) (context.Context, context.CancelFunc) {
	if cfg.ArchiveTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, cfg.ArchiveTimeout)
}
