package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the eudoxa-status MCP prompt.
// It instructs the AI to summarize where a decision session stands.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("eudoxa-status",
		mcp.WithPromptDescription(
			"Summarize a decision session: aspects, named options, open comparisons "+
				"and what to ask next.",
		),
		mcp.WithArgument("session",
			mcp.ArgumentDescription("Session ID. Omit to pick from the session list."),
		),
	)
}

// Handle processes the eudoxa-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	first := "Run `eudoxa_session_list` and ask me which session to review."
	if id := req.Params.Arguments["session"]; id != "" {
		first = fmt.Sprintf("Use session `%s`.", id)
	}

	return &mcp.GetPromptResult{
		Description: "Decision session status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					first + "\n\n" +
						"Then:\n" +
						"1. Run `eudoxa_consequence_space` and list the aspects and named options\n" +
						"2. Run `eudoxa_dominance_table` and show which options are dominated\n" +
						"3. For every indeterminate pair, name the level comparisons that are still unknown " +
						"(use `eudoxa_get_level_relation`)\n" +
						"4. Suggest the one question whose answer would settle the most pairs",
				),
			},
		},
	}, nil
}
