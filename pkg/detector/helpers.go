package detector

import (
	"context"

	"appdetect/pkg/framework"
)

// fileChecker matches when a single marker file exists under the root
type fileChecker struct {
	name   string
	marker string
	id     framework.ID
}

func (c fileChecker) Name() string { return c.name }

func (c fileChecker) Check(ctx context.Context, s *Snapshot) (Outcome, error) {
	ok, err := s.Has(c.marker)
	if err != nil {
		return Outcome{}, probeErr(c.name, c.marker, err)
	}
	if !ok {
		return Outcome{}, nil
	}
	return match(c.id), nil
}

// firstExisting returns the first candidate present in the snapshot root, in order
func firstExisting(s *Snapshot, candidates []string) (string, error) {
	for _, c := range candidates {
		ok, err := s.Has(c)
		if err != nil {
			return c, err
		}
		if ok {
			return c, nil
		}
	}
	return "", nil
}
