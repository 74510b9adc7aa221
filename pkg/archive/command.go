package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Command drives the system zip and unzip binaries. Every invocation is bounded
// by Timeout and the child process is reaped on every exit path.
type Command struct {
	Timeout time.Duration
	ZipBin  string
	Unzip   string
}

// NewCommand creates a command backend; a zero timeout disables the bound
func NewCommand(timeout time.Duration) *Command {
	return &Command{
		Timeout: timeout,
		ZipBin:  "zip",
		Unzip:   "unzip",
	}
}

// ListEntries returns the output of `unzip -l`, which carries one member per line
func (c *Command) ListEntries(ctx context.Context, archivePath string) (string, error) {
	out, err := c.run(ctx, "", c.Unzip, "-l", archivePath)
	if err != nil {
		return "", err
	}
	return out, nil
}

func (c *Command) Pack(ctx context.Context, srcDir, destArchive string) error {
	dest, err := filepath.Abs(destArchive)
	if err != nil {
		return err
	}

	args := []string{"-y", "-q", "-r", dest, ".", "-x"}
	args = append(args, PackExclusions...)

	_, err = c.run(ctx, srcDir, c.ZipBin, args...)
	return err
}

func (c *Command) Unpack(ctx context.Context, archivePath, destDir string) error {
	_, err := c.run(ctx, "", c.Unzip, "-q", archivePath, "-d", destDir)
	return err
}

func (c *Command) run(ctx context.Context, dir, name string, args ...string) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%s failed (exit %d): %s: %w", name, exitErr.ExitCode(), strings.TrimSpace(stderr.String()), err)
		}
		return "", fmt.Errorf("%s failed: %w", name, err)
	}

	return stdout.String(), nil
}
