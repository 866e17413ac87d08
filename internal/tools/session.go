package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/eudoxa/internal/eudoxa"
	"github.com/HendryAvila/eudoxa/internal/sessions"
)

// SessionCreateTool handles the eudoxa_session_create MCP tool.
type SessionCreateTool struct {
	mgr *sessions.Manager
}

// NewSessionCreateTool creates a SessionCreateTool.
func NewSessionCreateTool(mgr *sessions.Manager) *SessionCreateTool {
	return &SessionCreateTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_session_create.
func (t *SessionCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_session_create",
		mcp.WithDescription(
			"Start a decision session: an empty model of aspects, levels and consequences, "+
				"or one rebuilt from a saved record. Returns the session id every other tool needs.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Human-readable session name, e.g. 'laptop purchase'"),
		),
		mcp.WithString("record",
			mcp.Description("Optional model record as YAML or JSON, as produced by `eudoxa dump`"),
		),
	)
}

// Handle processes the eudoxa_session_create tool call.
func (t *SessionCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "name"); r != nil {
		return r, nil
	}
	var rec *eudoxa.Record
	if text := req.GetString("record", ""); strings.TrimSpace(text) != "" {
		var err error
		if rec, err = eudoxa.ParseRecord([]byte(text)); err != nil {
			return errorResult("invalid record", err), nil
		}
	}

	sess, err := t.mgr.Create(ctx, req.GetString("name", ""), rec)
	if err != nil {
		return errorResult("failed to create session", err), nil
	}

	var sb strings.Builder
	sb.WriteString("## Session created\n\n")
	fmt.Fprintf(&sb, "- **ID**: `%s`\n", sess.ID)
	fmt.Fprintf(&sb, "- **Name**: %s\n", sess.Name)
	sb.WriteString("\nNext: add aspects with `eudoxa_add_aspect`.\n")
	return mcp.NewToolResultText(sb.String()), nil
}

// ─── SessionListTool ────────────────────────────────────────────────────────

// SessionListTool handles the eudoxa_session_list MCP tool.
type SessionListTool struct {
	mgr *sessions.Manager
}

// NewSessionListTool creates a SessionListTool.
func NewSessionListTool(mgr *sessions.Manager) *SessionListTool {
	return &SessionListTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_session_list.
func (t *SessionListTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_session_list",
		mcp.WithDescription("List stored decision sessions, most recently updated first."),
	)
}

// Handle processes the eudoxa_session_list tool call.
func (t *SessionListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := t.mgr.List(ctx)
	if err != nil {
		return errorResult("failed to list sessions", err), nil
	}
	if len(list) == 0 {
		return mcp.NewToolResultText("No sessions yet. Create one with `eudoxa_session_create`."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Sessions (%d)\n\n", len(list))
	sb.WriteString("| ID | Name | Revision | Updated |\n|---|---|---|---|\n")
	for _, s := range list {
		fmt.Fprintf(&sb, "| `%s` | %s | %d | %s |\n", s.ID, s.Name, s.Revision, s.UpdatedAt)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ─── SessionDeleteTool ──────────────────────────────────────────────────────

// SessionDeleteTool handles the eudoxa_session_delete MCP tool.
type SessionDeleteTool struct {
	mgr *sessions.Manager
}

// NewSessionDeleteTool creates a SessionDeleteTool.
func NewSessionDeleteTool(mgr *sessions.Manager) *SessionDeleteTool {
	return &SessionDeleteTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_session_delete.
func (t *SessionDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_session_delete",
		mcp.WithDescription("Delete a session, its model and its derivation log. This cannot be undone."),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
	)
}

// Handle processes the eudoxa_session_delete tool call.
func (t *SessionDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session"); r != nil {
		return r, nil
	}
	id := req.GetString("session", "")
	if err := t.mgr.Delete(ctx, id); err != nil {
		return errorResult("failed to delete session", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session `%s` deleted", id)), nil
}

// ─── DerivationsTool ────────────────────────────────────────────────────────

// DerivationsTool handles the eudoxa_derivations MCP tool.
type DerivationsTool struct {
	mgr *sessions.Manager
}

// NewDerivationsTool creates a DerivationsTool.
func NewDerivationsTool(mgr *sessions.Manager) *DerivationsTool {
	return &DerivationsTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_derivations.
func (t *DerivationsTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_derivations",
		mcp.WithDescription(
			"Show the provenance log of a session: which assertion or inference rule "+
				"set or rejected each fact, oldest first.",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Number of latest entries to show (default: 20, 0 for all)"),
		),
	)
}

// Handle processes the eudoxa_derivations tool call.
func (t *DerivationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session"); r != nil {
		return r, nil
	}
	logged, err := t.mgr.Derivations(ctx, req.GetString("session", ""), intArg(req, "limit", 20))
	if err != nil {
		return errorResult("failed to read derivations", err), nil
	}
	if len(logged) == 0 {
		return mcp.NewToolResultText("No derivations logged yet."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Derivations (%d)\n\n", len(logged))
	for _, d := range logged {
		fmt.Fprintf(&sb, "- #%d %s: %s = %s (was %s) by %s", d.ID, d.Kind, d.Fact, d.Value, d.Prior, d.Rule)
		if len(d.Operands) > 0 {
			fmt.Fprintf(&sb, " from %s", strings.Join(d.Operands, ", "))
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}
