package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/eudoxa/internal/eudoxa"
	"github.com/HendryAvila/eudoxa/internal/metrics"
	"github.com/HendryAvila/eudoxa/internal/sessions"
)

// ClosureTool handles the eudoxa_closure MCP tool.
type ClosureTool struct {
	mgr       *sessions.Manager
	met       *metrics.Metrics
	maxPasses int
}

// NewClosureTool creates a ClosureTool. maxPasses is the default pass bound;
// zero runs to the fixpoint.
func NewClosureTool(mgr *sessions.Manager, met *metrics.Metrics, maxPasses int) *ClosureTool {
	return &ClosureTool{mgr: mgr, met: met, maxPasses: maxPasses}
}

// Definition returns the MCP tool definition for eudoxa_closure.
func (t *ClosureTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_closure",
		mcp.WithDescription(
			"Derive every fact entailed by the asserted relations (transitivity, inverses, "+
				"differences and their negative forms). Stops at the first contradiction and "+
				"reports it. With apply=true (default) a consistent result replaces the model's facts.",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithBoolean("apply",
			mcp.Description("Keep the derived facts (default: true). False only previews them."),
		),
		mcp.WithNumber("max_passes",
			mcp.Description("Stop after this many passes; 0 runs to the fixpoint"),
		),
	)
}

// Handle processes the eudoxa_closure tool call.
func (t *ClosureTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session"); r != nil {
		return r, nil
	}
	apply := boolArg(req, "apply", true)
	opts := eudoxa.ClosureOptions{MaxPasses: intArg(req, "max_passes", t.maxPasses)}
	if opts.MaxPasses < 0 {
		return mcp.NewToolResultError("'max_passes' must not be negative"), nil
	}
	id := req.GetString("session", "")

	var (
		res     *eudoxa.ClosureResult
		applied bool
	)
	run := func(m *eudoxa.Model) {
		start := time.Now()
		res = m.Closure(opts)
		t.met.ObserveClosure(res, time.Since(start))
	}

	var err error
	if apply {
		_, err = t.mgr.Update(ctx, id, func(m *eudoxa.Model) (eudoxa.Outcome, error) {
			run(m)
			if !res.Consistent() {
				return eudoxa.Outcome{Collisions: res.Collisions}, nil
			}
			if err := m.ApplyClosure(res); err != nil {
				return eudoxa.Outcome{}, err
			}
			applied = true
			return res.Outcome, nil
		})
	} else {
		err = t.mgr.View(ctx, id, func(m *eudoxa.Model) error {
			run(m)
			return nil
		})
	}
	if err != nil {
		return errorResult("closure failed", err), nil
	}

	var sb strings.Builder
	sb.WriteString("## Closure\n\n")
	fmt.Fprintf(&sb, "- **Passes**: %d\n", res.Passes)
	fmt.Fprintf(&sb, "- **Converged**: %t\n", res.Converged)
	fmt.Fprintf(&sb, "- **Derived facts**: %d\n", len(res.Adds))
	fmt.Fprintf(&sb, "- **Applied**: %t\n", applied)
	if !res.Consistent() {
		sb.WriteString("\n**Contradiction**: the asserted relations are inconsistent. " +
			"Nothing was applied; revise the assertions involved.\n")
		writeTrail(&sb, "Collision", res.Collisions)
		writeTrail(&sb, "Derived before the collision", res.Adds)
		return mcp.NewToolResultError(sb.String()), nil
	}
	writeTrail(&sb, "Derived", res.Adds)
	return mcp.NewToolResultText(sb.String()), nil
}
