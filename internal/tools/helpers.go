// Package tools implements the MCP tool handlers of the decision engine.
//
// Each tool is a struct that receives its dependencies through its
// constructor, describes itself with Definition() and serves calls with
// Handle(). Every tool except the session ones takes a "session" argument
// and works on that session's model through sessions.Manager, which
// serializes access and persists changes.
//
// Validation failures come back as tool errors (IsError set) so the host
// can show them to the model; results are markdown.
package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/eudoxa/internal/errors"
	"github.com/HendryAvila/eudoxa/internal/eudoxa"
)

// trailLimit caps how many derivations a result lists.
const trailLimit = 25

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// missing returns an error result naming the first empty required argument.
func missing(req mcp.CallToolRequest, keys ...string) *mcp.CallToolResult {
	for _, k := range keys {
		if strings.TrimSpace(req.GetString(k, "")) == "" {
			return mcp.NewToolResultError(fmt.Sprintf("'%s' is required", k))
		}
	}
	return nil
}

// errorResult renders err with its hints and, for contradictions, the
// colliding facts.
func errorResult(action string, err error) *mcp.CallToolResult {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %v", action, err)
	for _, h := range errors.GetAllHints(err) {
		fmt.Fprintf(&sb, "\nHint: %s", h)
	}
	var ce *eudoxa.ContradictionError
	if errors.As(err, &ce) {
		sb.WriteString("\n")
		writeTrail(&sb, "Collisions", ce.Collisions)
	}
	return mcp.NewToolResultError(sb.String())
}

// writeTrail lists up to trailLimit derivations under a heading.
func writeTrail(sb *strings.Builder, title string, trail []eudoxa.Derivation) {
	if len(trail) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n### %s (%d)\n\n", title, len(trail))
	for i, d := range trail {
		if i == trailLimit {
			fmt.Fprintf(sb, "- … %d more\n", len(trail)-trailLimit)
			break
		}
		fmt.Fprintf(sb, "- %s\n", d)
	}
}

// outcomeResult reports the writes of an assertion. Collisions make it a
// tool error; the non-colliding writes are kept either way.
func outcomeResult(title string, out eudoxa.Outcome) *mcp.CallToolResult {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", title)
	if out.Consistent() {
		fmt.Fprintf(&sb, "%d fact(s) changed.\n", len(out.Adds))
		writeTrail(&sb, "Changes", out.Adds)
		return mcp.NewToolResultText(sb.String())
	}
	fmt.Fprintf(&sb, "**Contradiction**: %d collision(s). The %d non-conflicting write(s) were kept; "+
		"existing facts were not overwritten.\n", len(out.Collisions), len(out.Adds))
	writeTrail(&sb, "Collisions", out.Collisions)
	writeTrail(&sb, "Changes", out.Adds)
	return mcp.NewToolResultError(sb.String())
}

// levelsArg reads a consequence mapping given either as an object
// {"Cost": "100"} or as text "Cost=100, Quality=Good".
func levelsArg(req mcp.CallToolRequest, key string) (map[string]string, error) {
	out := make(map[string]string)
	switch v := req.GetArguments()[key].(type) {
	case map[string]any:
		for k, x := range v {
			out[strings.TrimSpace(k)] = strings.TrimSpace(fmt.Sprint(x))
		}
	case string:
		for _, pair := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
			k, val, ok := strings.Cut(pair, "=")
			if !ok {
				return nil, errors.NewInvalidRequest("%q is not aspect=level", strings.TrimSpace(pair))
			}
			out[strings.TrimSpace(k)] = strings.TrimSpace(val)
		}
	case nil:
		return nil, errors.NewInvalidRequest("'%s' is required", key)
	default:
		return nil, errors.NewInvalidRequest("'%s' must be an object or aspect=level text", key)
	}
	return out, nil
}
