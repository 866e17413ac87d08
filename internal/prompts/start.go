// Package prompts implements the MCP prompt handlers of the decision engine.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to run a sequence of tools. Unlike tools (which the AI
// calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the eudoxa-start MCP prompt.
// It walks the AI through framing a new decision.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("eudoxa-start",
		mcp.WithPromptDescription(
			"Frame a new decision: name the options, pick the aspects they differ on, "+
				"and order the levels of each aspect without assigning any numbers.",
		),
		mcp.WithArgument("decision",
			mcp.ArgumentDescription("What is being decided, e.g. 'which laptop to buy'"),
		),
	)
}

// Handle processes the eudoxa-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	decision := "my decision"
	if args := req.Params.Arguments; args != nil {
		if d, ok := args["decision"]; ok && d != "" {
			decision = d
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Start decision: %s", decision),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Help me decide %s.\n\n"+
						"Please:\n"+
						"1. Run `eudoxa_session_create` with name='%s'\n"+
						"2. Ask me which options I am choosing between and which aspects matter\n"+
						"3. Register each aspect and its levels with `eudoxa_add_aspect`\n"+
						"4. For every aspect, ask me how its levels compare and record each answer "+
						"with `eudoxa_set_level_relation`. Never invent an ordering I did not state\n"+
						"5. Name my options with `eudoxa_add_consequence`\n"+
						"6. Run `eudoxa_closure`, then `eudoxa_dominance_table`, and explain which "+
						"options are dominated and which comparisons are still open\n\n"+
						"If a tool reports a contradiction, show me the colliding statements and ask "+
						"which one I want to keep.",
					decision, decision,
				)),
			},
		},
	}, nil
}
