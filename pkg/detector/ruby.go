package detector

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"appdetect/pkg/framework"
)

const (
	// maxParallelReads bounds concurrent file reads inside a single checker
	maxParallelReads = 8

	// sinatraScanLimit is how much of each .rb file is read; the require must open the file
	sinatraScanLimit = 64 << 10
)

var utf8BOM = []byte("\xef\xbb\xbf")

var sinatraRequire = regexp.MustCompile(`^\s*require[\s(]*['"]sinatra['"]`)

// RailsChecker matches apps carrying config/environment.rb
func RailsChecker() Checker {
	return fileChecker{name: "rails", marker: "config/environment.rb", id: framework.Rails}
}

// RackChecker matches apps with a rackup file
func RackChecker() Checker {
	return fileChecker{name: "rack", marker: "config.ru", id: framework.Rack}
}

type sinatraChecker struct{}

// SinatraChecker matches the first .rb file, in snapshot order, whose content
// opens with a require of sinatra
func SinatraChecker() Checker {
	return sinatraChecker{}
}

func (sinatraChecker) Name() string { return "sinatra" }

func (c sinatraChecker) Check(ctx context.Context, s *Snapshot) (Outcome, error) {
	var candidates []string
	for _, f := range s.Files {
		if strings.HasSuffix(f, ".rb") {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return Outcome{}, nil
	}

	matched := make([]bool, len(candidates))
	errs := make([]error, len(candidates))

	// files after the earliest match so far cannot change the result
	var first atomic.Int64
	first.Store(int64(len(candidates)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)

	for i, f := range candidates {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if int64(i) > first.Load() {
				return nil
			}
			content, err := s.ReadPrefix(f, sinatraScanLimit)
			if err != nil {
				if !isAbsent(err) {
					errs[i] = err
				}
				return nil
			}
			if sinatraRequire.Match(bytes.TrimPrefix(content, utf8BOM)) {
				matched[i] = true
				for {
					cur := first.Load()
					if int64(i) >= cur || first.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Outcome{}, probeErr(c.Name(), "", err)
	}

	// walk in snapshot order so the result does not depend on scheduling
	for i, f := range candidates {
		if errs[i] != nil {
			return Outcome{}, probeErr(c.Name(), f, errs[i])
		}
		if matched[i] {
			return Outcome{Matched: true, Framework: framework.Sinatra, Exec: "ruby " + f}, nil
		}
	}
	return Outcome{}, nil
}
