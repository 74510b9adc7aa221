package detector

import (
	"context"

	"appdetect/pkg/framework"
)

// nodeEntrypoints are probed in this order; the first one present wins
var nodeEntrypoints = []string{"server.js", "app.js", "index.js", "main.js"}

type nodeChecker struct{}

// NodeChecker matches a Node.js app by its entrypoint script
func NodeChecker() Checker {
	return nodeChecker{}
}

func (nodeChecker) Name() string { return "node" }

func (c nodeChecker) Check(ctx context.Context, s *Snapshot) (Outcome, error) {
	file, err := firstExisting(s, nodeEntrypoints)
	if err != nil {
		return Outcome{}, probeErr(c.Name(), file, err)
	}
	if file == "" {
		return Outcome{}, nil
	}
	return Outcome{Matched: true, Framework: framework.Node, Exec: "node " + file}, nil
}
