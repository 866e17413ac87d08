package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/eudoxa/internal/eudoxa"
	"github.com/HendryAvila/eudoxa/internal/sessions"
)

// AddConsequenceTool handles the eudoxa_add_consequence MCP tool.
type AddConsequenceTool struct {
	mgr *sessions.Manager
}

// NewAddConsequenceTool creates an AddConsequenceTool.
func NewAddConsequenceTool(mgr *sessions.Manager) *AddConsequenceTool {
	return &AddConsequenceTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_add_consequence.
func (t *AddConsequenceTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_add_consequence",
		mcp.WithDescription(
			"Name a consequence (an option being decided on) by giving one level per aspect. "+
				"Every registered aspect must be covered; unknown levels are created.",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Consequence name, e.g. 'Laptop A'"),
		),
		mcp.WithObject("levels",
			mcp.Required(),
			mcp.Description("Aspect to level mapping, e.g. {\"Cost\": \"100\", \"Quality\": \"Good\"}. "+
				"Text 'Cost=100, Quality=Good' is accepted too."),
		),
	)
}

// Handle processes the eudoxa_add_consequence tool call.
func (t *AddConsequenceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session", "name"); r != nil {
		return r, nil
	}
	levels, err := levelsArg(req, "levels")
	if err != nil {
		return errorResult("invalid levels", err), nil
	}
	name := strings.TrimSpace(req.GetString("name", ""))

	var display string
	_, err = t.mgr.Update(ctx, req.GetString("session", ""), func(m *eudoxa.Model) (eudoxa.Outcome, error) {
		if err := m.AddConsequence(name, levels); err != nil {
			return eudoxa.Outcome{}, err
		}
		c, err := m.Consequence(name)
		display = m.Format(c)
		return eudoxa.Outcome{}, err
	})
	if err != nil {
		return errorResult("failed to add consequence", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Consequence %q = %s added", name, display)), nil
}

// ─── RemoveConsequenceTool ──────────────────────────────────────────────────

// RemoveConsequenceTool handles the eudoxa_remove_consequence MCP tool.
type RemoveConsequenceTool struct {
	mgr *sessions.Manager
}

// NewRemoveConsequenceTool creates a RemoveConsequenceTool.
func NewRemoveConsequenceTool(mgr *sessions.Manager) *RemoveConsequenceTool {
	return &RemoveConsequenceTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_remove_consequence.
func (t *RemoveConsequenceTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_remove_consequence",
		mcp.WithDescription("Remove a named consequence. Its levels stay registered."),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Consequence name"),
		),
	)
}

// Handle processes the eudoxa_remove_consequence tool call.
func (t *RemoveConsequenceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session", "name"); r != nil {
		return r, nil
	}
	name := req.GetString("name", "")

	var removed bool
	_, err := t.mgr.Update(ctx, req.GetString("session", ""), func(m *eudoxa.Model) (eudoxa.Outcome, error) {
		removed = m.RemoveConsequence(name)
		return eudoxa.Outcome{}, nil
	})
	if err != nil {
		return errorResult("failed to remove consequence", err), nil
	}
	if !removed {
		return mcp.NewToolResultError(fmt.Sprintf("consequence %q not found", name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Consequence %q removed", name)), nil
}

// ─── ConsequenceSpaceTool ───────────────────────────────────────────────────

// ConsequenceSpaceTool handles the eudoxa_consequence_space MCP tool.
type ConsequenceSpaceTool struct {
	mgr *sessions.Manager
}

// NewConsequenceSpaceTool creates a ConsequenceSpaceTool.
func NewConsequenceSpaceTool(mgr *sessions.Manager) *ConsequenceSpaceTool {
	return &ConsequenceSpaceTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_consequence_space.
func (t *ConsequenceSpaceTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_consequence_space",
		mcp.WithDescription(
			"Enumerate the consequence space (every combination of levels, '?' for undefined) "+
				"and list the named consequences.",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Index of the first combination to show (default: 0)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Number of combinations to show (default: 50)"),
		),
	)
}

// Handle processes the eudoxa_consequence_space tool call.
func (t *ConsequenceSpaceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session"); r != nil {
		return r, nil
	}
	offset := intArg(req, "offset", 0)
	limit := intArg(req, "limit", 50)
	if offset < 0 || limit < 1 {
		return mcp.NewToolResultError("'offset' must be >= 0 and 'limit' >= 1"), nil
	}

	var sb strings.Builder
	err := t.mgr.View(ctx, req.GetString("session", ""), func(m *eudoxa.Model) error {
		total := m.SpaceSize()
		page := m.Space(offset, limit)
		fmt.Fprintf(&sb, "## Consequence space (%d)\n\n", total)
		fmt.Fprintf(&sb, "Aspects: %s\n\n", strings.Join(m.AspectNames(), ", "))
		for i, c := range page {
			fmt.Fprintf(&sb, "%d. %s\n", offset+i+1, m.Format(c))
		}
		if end := offset + len(page); end < total {
			fmt.Fprintf(&sb, "\n… %d more (use offset=%d)\n", total-end, end)
		}

		named := m.Consequences()
		if len(named) > 0 {
			fmt.Fprintf(&sb, "\n### Named consequences (%d)\n\n", len(named))
			for _, nc := range named {
				fmt.Fprintf(&sb, "- **%s** = %s\n", nc.Name, m.Format(nc.Levels))
			}
		}
		return nil
	})
	if err != nil {
		return errorResult("failed to read consequence space", err), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ─── DominatesTool ──────────────────────────────────────────────────────────

// DominatesTool handles the eudoxa_dominates MCP tool.
type DominatesTool struct {
	mgr *sessions.Manager
}

// NewDominatesTool creates a DominatesTool.
func NewDominatesTool(mgr *sessions.Manager) *DominatesTool {
	return &DominatesTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_dominates.
func (t *DominatesTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_dominates",
		mcp.WithDescription(
			"Test whether one named consequence dominates another: at least as good on every "+
				"aspect and strictly better on one. Answers true, false or indeterminate "+
				"(some level relation is still unknown).",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithString("from",
			mcp.Required(),
			mcp.Description("Name of the candidate dominating consequence"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Name of the candidate dominated consequence"),
		),
	)
}

// Handle processes the eudoxa_dominates tool call.
func (t *DominatesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session", "from", "to"); r != nil {
		return r, nil
	}
	from, to := req.GetString("from", ""), req.GetString("to", "")

	var v eudoxa.Verdict
	err := t.mgr.View(ctx, req.GetString("session", ""), func(m *eudoxa.Model) error {
		var err error
		v, err = m.DominatesNamed(from, to)
		return err
	})
	if err != nil {
		return errorResult("dominance test failed", err), nil
	}

	msg := fmt.Sprintf("%q dominates %q: **%s**", from, to, v)
	if v == eudoxa.VerdictIndeterminate {
		msg += "\n\nSome level relations are unknown. Assert them or run `eudoxa_closure`."
	}
	return mcp.NewToolResultText(msg), nil
}

// ─── DominanceTableTool ─────────────────────────────────────────────────────

// DominanceTableTool handles the eudoxa_dominance_table MCP tool.
type DominanceTableTool struct {
	mgr *sessions.Manager
}

// NewDominanceTableTool creates a DominanceTableTool.
func NewDominanceTableTool(mgr *sessions.Manager) *DominanceTableTool {
	return &DominanceTableTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_dominance_table.
func (t *DominanceTableTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_dominance_table",
		mcp.WithDescription(
			"Test dominance between every pair of named consequences and show the reduced "+
				"dominance graph. Consequences with undefined aspects are skipped.",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
	)
}

// Handle processes the eudoxa_dominance_table tool call.
func (t *DominanceTableTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session"); r != nil {
		return r, nil
	}

	var (
		table *eudoxa.DominanceTable
		graph *eudoxa.Graph
	)
	err := t.mgr.View(ctx, req.GetString("session", ""), func(m *eudoxa.Model) error {
		var err error
		if table, err = m.DominanceTable(); err != nil {
			return err
		}
		graph, err = m.DominanceGraph()
		return err
	})
	if err != nil {
		return errorResult("dominance table failed", err), nil
	}

	var sb strings.Builder
	sb.WriteString("## Dominance\n\n")
	if len(table.Dominates) == 0 {
		sb.WriteString("No consequence dominates another.\n")
	}
	for _, p := range table.Dominates {
		fmt.Fprintf(&sb, "- %s DOM %s\n", p.From, p.To)
	}
	if len(graph.Edges) > 0 {
		sb.WriteString("\n### Reduced graph\n\n")
		for _, e := range graph.Edges {
			fmt.Fprintf(&sb, "- %s → %s\n", e.From, e.To)
		}
	}
	if len(table.Indeterminate) > 0 {
		fmt.Fprintf(&sb, "\n### Indeterminate (%d)\n\n", len(table.Indeterminate))
		for _, p := range table.Indeterminate {
			fmt.Fprintf(&sb, "- %s ? %s\n", p.From, p.To)
		}
	}
	if len(table.Incomplete) > 0 {
		fmt.Fprintf(&sb, "\nSkipped (undefined aspects): %s\n", strings.Join(table.Incomplete, ", "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
