package detector

import (
	"context"

	"appdetect/pkg/framework"
)

// Descriptor represents the result of framework detection
type Descriptor struct {
	Framework   string `json:"id"`
	Memory      string `json:"mem"`
	Description string `json:"description"`
	Exec        string `json:"exec,omitempty"`
}

// Outcome is what a checker reports when it does not fail. The zero value abstains.
type Outcome struct {
	Matched   bool
	Framework framework.ID
	Exec      string
}

// Checker evaluates one framework hypothesis against a snapshot. A non-nil
// error aborts detection; absence of evidence must be reported as a zero Outcome.
type Checker interface {
	Name() string
	Check(ctx context.Context, s *Snapshot) (Outcome, error)
}

func match(id framework.ID) Outcome {
	return Outcome{Matched: true, Framework: id}
}
