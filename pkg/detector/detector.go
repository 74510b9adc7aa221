package detector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"appdetect/pkg/archive"
	"appdetect/pkg/framework"
)

// Detector runs checkers in priority order and stops at the first match
type Detector struct {
	lister       archive.Lister
	checkers     []Checker
	logger       *log.Logger
	probeTimeout time.Duration
}

// Option configures a Detector
type Option func(*Detector)

// WithLogger routes debug output of the pipeline to l
func WithLogger(l *log.Logger) Option {
	return func(d *Detector) { d.logger = l }
}

// WithCheckers replaces the default checker list; order is priority order
func WithCheckers(checkers ...Checker) Option {
	return func(d *Detector) { d.checkers = checkers }
}

// WithProbeTimeout bounds each archive listing made while detecting
func WithProbeTimeout(timeout time.Duration) Option {
	return func(d *Detector) { d.probeTimeout = timeout }
}

// New creates a Detector that inspects packaged apps through lister
func New(lister archive.Lister, opts ...Option) *Detector {
	d := &Detector{
		lister: lister,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.checkers == nil {
		d.checkers = DefaultCheckers(d.lister, d.probeTimeout)
	}
	return d
}

// DefaultCheckers returns the checkers in priority order. Anchored and cheap
// checks come first; the loose PHP extension scan and the Python markers last.
func DefaultCheckers(lister archive.Lister, probeTimeout time.Duration) []Checker {
	return []Checker{
		RailsChecker(),
		RackChecker(),
		JavaChecker(lister, probeTimeout),
		SinatraChecker(),
		NodeChecker(),
		PHPChecker(),
		DjangoChecker(),
		WSGIChecker(),
	}
}

// Detect classifies the application in dir. When no checker matches it returns
// false with a nil error, which callers must keep apart from a failure.
func (d *Detector) Detect(ctx context.Context, dir string) (Descriptor, bool, error) {
	snap, err := NewSnapshot(dir)
	if err != nil {
		return Descriptor{}, false, &ListingError{Root: dir, Err: err}
	}
	d.logger.Debug("snapshot taken", "root", dir, "files", len(snap.Files))

	return d.run(ctx, snap)
}

func (d *Detector) run(ctx context.Context, snap *Snapshot) (Descriptor, bool, error) {
	for _, c := range d.checkers {
		if err := ctx.Err(); err != nil {
			return Descriptor{}, false, probeErr(c.Name(), "", err)
		}

		d.logger.Debug("running checker", "checker", c.Name())
		out, err := c.Check(ctx, snap)
		if err != nil {
			var pe *ProbeError
			if !errors.As(err, &pe) {
				err = probeErr(c.Name(), "", err)
			}
			return Descriptor{}, false, err
		}
		if !out.Matched {
			continue
		}

		entry, found := framework.Lookup(out.Framework)
		if !found {
			return Descriptor{}, false, fmt.Errorf("%s checker produced id %d: %w", c.Name(), out.Framework, ErrUnregistered)
		}
		d.logger.Debug("framework detected", "checker", c.Name(), "framework", entry.Key, "exec", out.Exec)

		return Descriptor{
			Framework:   entry.Key,
			Memory:      entry.Memory,
			Description: entry.Description,
			Exec:        out.Exec,
		}, true, nil
	}

	d.logger.Debug("no checker matched", "root", snap.Root)
	return Descriptor{}, false, nil
}

// DetectFramework classifies dir using the native zip backend
func DetectFramework(ctx context.Context, dir string) (Descriptor, bool, error) {
	return New(archive.NewZip()).Detect(ctx, dir)
}
