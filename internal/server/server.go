// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it opens the session store, builds the
// session manager and injects it into the tools, prompts and resources.
// No decision logic lives here, only wiring.
package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/eudoxa/internal/config"
	"github.com/HendryAvila/eudoxa/internal/errors"
	"github.com/HendryAvila/eudoxa/internal/metrics"
	"github.com/HendryAvila/eudoxa/internal/prompts"
	"github.com/HendryAvila/eudoxa/internal/resources"
	"github.com/HendryAvila/eudoxa/internal/sessions"
	"github.com/HendryAvila/eudoxa/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Tool is what every handler in internal/tools provides.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the session store and must be
// called on shutdown (typically via defer). met may be nil.
func New(cfg *config.Config, log *zap.SugaredLogger, met *metrics.Metrics) (*server.MCPServer, func(), error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	// --- Create shared dependencies ---

	store, err := sessions.New(sessions.Config{DataDir: cfg.DataDir})
	if err != nil {
		return nil, noop, errors.Wrap(err, "opening session store")
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Warnw("session store close", "error", err)
		}
	}
	mgr := sessions.NewManager(store, log.Named("sessions"))

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"eudoxa",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	for _, t := range Tools(mgr, met, cfg.Closure.MaxPasses) {
		s.AddTool(t.Definition(), t.Handle)
	}

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(mgr)
	s.AddResource(resourceHandler.SessionsResource(), resourceHandler.HandleSessions)
	s.AddResourceTemplate(resourceHandler.RecordTemplate(), resourceHandler.HandleRecord)

	log.Infow("server ready", "version", Version, "data_dir", cfg.DataDir)
	return s, cleanup, nil
}

// Tools returns every tool handler, in the order a session is usually built.
func Tools(mgr *sessions.Manager, met *metrics.Metrics, maxPasses int) []Tool {
	return []Tool{
		// Sessions
		tools.NewSessionCreateTool(mgr),
		tools.NewSessionListTool(mgr),
		tools.NewSessionDeleteTool(mgr),
		tools.NewDerivationsTool(mgr),

		// Registry
		tools.NewAddAspectTool(mgr),
		tools.NewAddLevelTool(mgr),

		// Relations
		tools.NewSetLevelRelationTool(mgr, met),
		tools.NewGetLevelRelationTool(mgr),
		tools.NewSetDiffRelationTool(mgr, met),
		tools.NewChangeSignTool(mgr),
		tools.NewClosureTool(mgr, met, maxPasses),

		// Consequences
		tools.NewAddConsequenceTool(mgr),
		tools.NewRemoveConsequenceTool(mgr),
		tools.NewConsequenceSpaceTool(mgr),
		tools.NewDominatesTool(mgr),
		tools.NewDominanceTableTool(mgr),

		// Spreadsheets
		tools.NewExportXLSXTool(mgr),
		tools.NewImportXLSXTool(mgr, met),
	}
}

// noop is the cleanup returned when nothing was opened.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use eudoxa effectively.
func serverInstructions() string {
	return `You have access to eudoxa, a qualitative decision engine.

## WHAT IT DOES

eudoxa compares options (consequences) described by levels of several
aspects (criteria) without ever turning preferences into numbers. The user
states orderings such as "Cost 100 is better than Cost 200" or "going from
Poor to Good quality is worth more than going from 200 to 100 cost"; eudoxa
derives every consequence of those statements and reports which options
dominate which.

## WORKFLOW

1. eudoxa_session_create: one session per decision
2. eudoxa_add_aspect / eudoxa_add_level: the criteria and their levels
3. eudoxa_set_level_relation: order levels within one aspect
4. eudoxa_set_diff_relation: compare improvements across aspects
5. eudoxa_add_consequence: the options being decided on
6. eudoxa_closure: derive everything the statements entail
7. eudoxa_dominates / eudoxa_dominance_table: read the answer

## RULES

- Only record preferences the user actually stated. Never guess an order.
- Known facts are never overwritten. A contradiction comes back as a tool
  error listing the colliding facts; ask the user which statement to revise.
- "indeterminate" means some level comparison is still unknown. Ask about it.
- eudoxa_derivations shows why a fact is known.
- eudoxa_export_xlsx / eudoxa_import_xlsx move a session to and from a
  spreadsheet the user can edit.`
}
