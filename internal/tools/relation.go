package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/eudoxa/internal/eudoxa"
	"github.com/HendryAvila/eudoxa/internal/metrics"
	"github.com/HendryAvila/eudoxa/internal/sessions"
)

const levelRelationHelp = "Relation of level_a to level_b: BT (≻ strictly better), BTE (⪰ better or equal), " +
	"EQ (∼ equal), WTE (⪯ worse or equal), WT (≺ strictly worse), or '' to clear"

// SetLevelRelationTool handles the eudoxa_set_level_relation MCP tool.
type SetLevelRelationTool struct {
	mgr *sessions.Manager
	met *metrics.Metrics
}

// NewSetLevelRelationTool creates a SetLevelRelationTool.
func NewSetLevelRelationTool(mgr *sessions.Manager, met *metrics.Metrics) *SetLevelRelationTool {
	return &SetLevelRelationTool{mgr: mgr, met: met}
}

// Definition returns the MCP tool definition for eudoxa_set_level_relation.
func (t *SetLevelRelationTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_set_level_relation",
		mcp.WithDescription(
			"Assert how two levels of one aspect compare, e.g. Cost 100 is strictly better than 200. "+
				"Facts already known are never overwritten: a conflicting assertion reports the "+
				"collisions and keeps only the writes that did not conflict.",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithString("aspect",
			mcp.Required(),
			mcp.Description("Aspect name"),
		),
		mcp.WithString("level_a",
			mcp.Required(),
			mcp.Description("First level"),
		),
		mcp.WithString("relation",
			mcp.Required(),
			mcp.Description(levelRelationHelp),
		),
		mcp.WithString("level_b",
			mcp.Required(),
			mcp.Description("Second level"),
		),
	)
}

// Handle processes the eudoxa_set_level_relation tool call.
func (t *SetLevelRelationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session", "aspect", "level_a", "level_b"); r != nil {
		return r, nil
	}
	rel, err := eudoxa.ParseLevelRelation(req.GetString("relation", ""))
	if err != nil {
		return errorResult("invalid relation", err), nil
	}
	aspect, la, lb := req.GetString("aspect", ""), req.GetString("level_a", ""), req.GetString("level_b", "")

	out, err := t.mgr.Update(ctx, req.GetString("session", ""), func(m *eudoxa.Model) (eudoxa.Outcome, error) {
		return m.SetLevelRelation(aspect, la, rel, lb)
	})
	t.met.ObserveAssertion("level_relation", out, err)
	if err != nil {
		return errorResult("failed to set relation", err), nil
	}
	return outcomeResult(fmt.Sprintf("%s: %s %s %s", aspect, la, rel.Name(), lb), out), nil
}

// ─── GetLevelRelationTool ───────────────────────────────────────────────────

// GetLevelRelationTool handles the eudoxa_get_level_relation MCP tool.
type GetLevelRelationTool struct {
	mgr *sessions.Manager
}

// NewGetLevelRelationTool creates a GetLevelRelationTool.
func NewGetLevelRelationTool(mgr *sessions.Manager) *GetLevelRelationTool {
	return &GetLevelRelationTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_get_level_relation.
func (t *GetLevelRelationTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_get_level_relation",
		mcp.WithDescription(
			"Read the known relation between two levels of an aspect. Without level_a and "+
				"level_b, show the whole level-by-level grid and the ordering graph.",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithString("aspect",
			mcp.Required(),
			mcp.Description("Aspect name"),
		),
		mcp.WithString("level_a",
			mcp.Description("First level"),
		),
		mcp.WithString("level_b",
			mcp.Description("Second level"),
		),
	)
}

// Handle processes the eudoxa_get_level_relation tool call.
func (t *GetLevelRelationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session", "aspect"); r != nil {
		return r, nil
	}
	aspect, la, lb := req.GetString("aspect", ""), req.GetString("level_a", ""), req.GetString("level_b", "")
	if (la == "") != (lb == "") {
		return mcp.NewToolResultError("give both 'level_a' and 'level_b', or neither"), nil
	}

	var sb strings.Builder
	err := t.mgr.View(ctx, req.GetString("session", ""), func(m *eudoxa.Model) error {
		if la != "" {
			rel, err := m.LevelRelation(aspect, la, lb)
			if err != nil {
				return err
			}
			if rel == eudoxa.RelUnknown {
				fmt.Fprintf(&sb, "%s: the relation of %s to %s is unknown.", aspect, la, lb)
			} else {
				fmt.Fprintf(&sb, "%s: %s %s %s (%s)", aspect, la, rel, lb, rel.Name())
			}
			return nil
		}
		return writeGrid(&sb, m, aspect)
	})
	if err != nil {
		return errorResult("failed to read relation", err), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func writeGrid(sb *strings.Builder, m *eudoxa.Model, aspect string) error {
	ids, grid, err := m.RelationGrid(aspect)
	if err != nil {
		return err
	}
	g, err := m.LevelGraph(aspect)
	if err != nil {
		return err
	}
	fmt.Fprintf(sb, "## %s levels (%d)\n\n", aspect, len(ids))
	if len(ids) == 0 {
		sb.WriteString("No levels yet.\n")
		return nil
	}
	sb.WriteString("| |")
	for _, id := range ids {
		fmt.Fprintf(sb, " %s |", id)
	}
	sb.WriteString("\n|---|" + strings.Repeat("---|", len(ids)) + "\n")
	for i, id := range ids {
		fmt.Fprintf(sb, "| **%s** |", id)
		for j := range ids {
			cell := grid[i][j].String()
			if cell == "" {
				cell = "?"
			}
			fmt.Fprintf(sb, " %s |", cell)
		}
		sb.WriteString("\n")
	}
	if len(g.Edges) > 0 {
		sb.WriteString("\n### Order (reduced)\n\n")
		for _, e := range g.Edges {
			fmt.Fprintf(sb, "- %s → %s\n", e.From, e.To)
		}
	}
	return nil
}

// ─── SetDiffRelationTool ────────────────────────────────────────────────────

// SetDiffRelationTool handles the eudoxa_set_diff_relation MCP tool.
type SetDiffRelationTool struct {
	mgr *sessions.Manager
	met *metrics.Metrics
}

// NewSetDiffRelationTool creates a SetDiffRelationTool.
func NewSetDiffRelationTool(mgr *sessions.Manager, met *metrics.Metrics) *SetDiffRelationTool {
	return &SetDiffRelationTool{mgr: mgr, met: met}
}

// Definition returns the MCP tool definition for eudoxa_set_diff_relation.
func (t *SetDiffRelationTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_set_diff_relation",
		mcp.WithDescription(
			"Compare two value differences, possibly of different aspects: e.g. going from "+
				"Cost 200 to 100 is worth at least as much as going from Quality Poor to Good. "+
				"Leave from/to empty for the aspect's zero difference.",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithString("aspect_a",
			mcp.Required(),
			mcp.Description("Aspect of the first difference"),
		),
		mcp.WithString("from_a",
			mcp.Description("Start level of the first difference"),
		),
		mcp.WithString("to_a",
			mcp.Description("End level of the first difference"),
		),
		mcp.WithString("relation",
			mcp.Required(),
			mcp.Description("GT (⊐), GTE (⊒), DEQ (≜), LTE (⊑) or LT (⊏)"),
		),
		mcp.WithString("aspect_b",
			mcp.Required(),
			mcp.Description("Aspect of the second difference"),
		),
		mcp.WithString("from_b",
			mcp.Description("Start level of the second difference"),
		),
		mcp.WithString("to_b",
			mcp.Description("End level of the second difference"),
		),
	)
}

// Handle processes the eudoxa_set_diff_relation tool call.
func (t *SetDiffRelationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session", "aspect_a", "aspect_b"); r != nil {
		return r, nil
	}
	rel, err := eudoxa.ParseDiffRelation(req.GetString("relation", ""))
	if err != nil {
		return errorResult("invalid relation", err), nil
	}
	ab := eudoxa.Diff(req.GetString("aspect_a", ""), req.GetString("from_a", ""), req.GetString("to_a", ""))
	cd := eudoxa.Diff(req.GetString("aspect_b", ""), req.GetString("from_b", ""), req.GetString("to_b", ""))

	out, err := t.mgr.Update(ctx, req.GetString("session", ""), func(m *eudoxa.Model) (eudoxa.Outcome, error) {
		return m.SetDiffRelation(ab, rel, cd)
	})
	t.met.ObserveAssertion("diff_relation", out, err)
	if err != nil {
		return errorResult("failed to set relation", err), nil
	}
	return outcomeResult(fmt.Sprintf("%s %s %s", ab, rel, cd), out), nil
}

// ─── ChangeSignTool ─────────────────────────────────────────────────────────

// ChangeSignTool handles the eudoxa_change_sign MCP tool.
type ChangeSignTool struct {
	mgr *sessions.Manager
}

// NewChangeSignTool creates a ChangeSignTool.
func NewChangeSignTool(mgr *sessions.Manager) *ChangeSignTool {
	return &ChangeSignTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_change_sign.
func (t *ChangeSignTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_change_sign",
		mcp.WithDescription(
			"Tell whether changing an aspect from one level to another is an improvement "+
				"(positive), a loss (negative), neutral (zero), or unknown.",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithString("aspect",
			mcp.Required(),
			mcp.Description("Aspect name"),
		),
		mcp.WithString("from",
			mcp.Required(),
			mcp.Description("Level changed from"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Level changed to"),
		),
	)
}

// Handle processes the eudoxa_change_sign tool call.
func (t *ChangeSignTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session", "aspect", "from", "to"); r != nil {
		return r, nil
	}
	aspect, from, to := req.GetString("aspect", ""), req.GetString("from", ""), req.GetString("to", "")

	var sign eudoxa.Sign
	err := t.mgr.View(ctx, req.GetString("session", ""), func(m *eudoxa.Model) error {
		var err error
		sign, err = m.Sign(aspect, from, to)
		return err
	})
	if err != nil {
		return errorResult("failed to evaluate sign", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s: %s → %s is %s\n\n", aspect, from, to, sign)
	fmt.Fprintf(&sb, "- positive: %t\n- non-negative: %t\n- zero: %t\n- non-positive: %t\n- negative: %t\n",
		sign.Positive, sign.NonNegative, sign.Zero, sign.NonPositive, sign.Negative)
	return mcp.NewToolResultText(sb.String()), nil
}
