package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/eudoxa/internal/eudoxa"
	"github.com/HendryAvila/eudoxa/internal/sessions"
)

// AddAspectTool handles the eudoxa_add_aspect MCP tool.
type AddAspectTool struct {
	mgr *sessions.Manager
}

// NewAddAspectTool creates an AddAspectTool.
func NewAddAspectTool(mgr *sessions.Manager) *AddAspectTool {
	return &AddAspectTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_add_aspect.
func (t *AddAspectTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_add_aspect",
		mcp.WithDescription(
			"Register an aspect (criterion) such as Cost or Quality, optionally with its levels. "+
				"Every existing consequence gets the aspect as undefined.",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Aspect name, unique within the session"),
		),
		mcp.WithString("kind",
			mcp.Description("Level value kind. Defaults to 'str'."),
			mcp.DefaultString("str"),
			mcp.Enum("int", "float", "str"),
		),
		mcp.WithString("description",
			mcp.Description("What the aspect measures"),
		),
		mcp.WithString("levels",
			mcp.Description("Optional comma-separated levels to add right away, e.g. 'Low, Medium, High'"),
		),
	)
}

// Handle processes the eudoxa_add_aspect tool call.
func (t *AddAspectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session", "name"); r != nil {
		return r, nil
	}
	kind, err := eudoxa.ParseKind(req.GetString("kind", "str"))
	if err != nil {
		return errorResult("invalid kind", err), nil
	}
	name := strings.TrimSpace(req.GetString("name", ""))
	var levels []string
	for _, l := range strings.Split(req.GetString("levels", ""), ",") {
		if l = strings.TrimSpace(l); l != "" {
			levels = append(levels, l)
		}
	}
	for _, l := range levels {
		if err := kind.Validate(l); err != nil {
			return errorResult("invalid level", err), nil
		}
	}

	var size int
	_, err = t.mgr.Update(ctx, req.GetString("session", ""), func(m *eudoxa.Model) (eudoxa.Outcome, error) {
		if _, err := m.AddAspect(name, kind, req.GetString("description", "")); err != nil {
			return eudoxa.Outcome{}, err
		}
		for _, l := range levels {
			if _, err := m.AddLevel(name, l, ""); err != nil {
				return eudoxa.Outcome{}, err
			}
		}
		size = m.SpaceSize()
		return eudoxa.Outcome{}, nil
	})
	if err != nil {
		return errorResult("failed to add aspect", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Aspect added: %s\n\n", name)
	fmt.Fprintf(&sb, "- **Kind**: %s\n", kind)
	if len(levels) > 0 {
		fmt.Fprintf(&sb, "- **Levels**: %s\n", strings.Join(levels, ", "))
	}
	fmt.Fprintf(&sb, "- **Consequence space**: %d\n", size)
	if len(levels) > 1 {
		sb.WriteString("\nNext: order the levels with `eudoxa_set_level_relation`.\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ─── AddLevelTool ───────────────────────────────────────────────────────────

// AddLevelTool handles the eudoxa_add_level MCP tool.
type AddLevelTool struct {
	mgr *sessions.Manager
}

// NewAddLevelTool creates an AddLevelTool.
func NewAddLevelTool(mgr *sessions.Manager) *AddLevelTool {
	return &AddLevelTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_add_level.
func (t *AddLevelTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_add_level",
		mcp.WithDescription(
			"Add a level to an aspect. Adding an existing level is a no-op. "+
				"The consequence space grows by the new level times the other aspects.",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithString("aspect",
			mcp.Required(),
			mcp.Description("Aspect name"),
		),
		mcp.WithString("level",
			mcp.Required(),
			mcp.Description("Level identifier; must parse as the aspect's kind"),
		),
		mcp.WithString("description",
			mcp.Description("Optional level description"),
		),
	)
}

// Handle processes the eudoxa_add_level tool call.
func (t *AddLevelTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session", "aspect", "level"); r != nil {
		return r, nil
	}
	aspect := req.GetString("aspect", "")
	level := strings.TrimSpace(req.GetString("level", ""))

	var (
		added bool
		size  int
	)
	_, err := t.mgr.Update(ctx, req.GetString("session", ""), func(m *eudoxa.Model) (eudoxa.Outcome, error) {
		var err error
		added, err = m.AddLevel(aspect, level, req.GetString("description", ""))
		size = m.SpaceSize()
		return eudoxa.Outcome{}, err
	})
	if err != nil {
		return errorResult("failed to add level", err), nil
	}
	if !added {
		return mcp.NewToolResultText(fmt.Sprintf("Level %q already exists in %s; nothing changed.", level, aspect)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"## Level added\n\n- **Aspect**: %s\n- **Level**: %s\n- **Consequence space**: %d\n",
		aspect, level, size,
	)), nil
}
