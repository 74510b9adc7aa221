package detector

import (
	"context"

	"appdetect/pkg/framework"
)

type phpChecker struct{}

// PHPChecker matches when any file in the tree has a .php extension. It has no
// structural anchor, which is why it runs after the anchored checkers.
func PHPChecker() Checker {
	return phpChecker{}
}

func (phpChecker) Name() string { return "php" }

func (phpChecker) Check(_ context.Context, s *Snapshot) (Outcome, error) {
	if !s.ContainsExt(".php") {
		return Outcome{}, nil
	}
	return match(framework.PHP), nil
}
