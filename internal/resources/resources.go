// Package resources implements MCP resource handlers for decision sessions.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (eudoxa://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/eudoxa/internal/errors"
	"github.com/HendryAvila/eudoxa/internal/eudoxa"
	"github.com/HendryAvila/eudoxa/internal/sessions"
)

const (
	sessionsURI    = "eudoxa://sessions"
	recordTemplate = "eudoxa://sessions/{id}/record"
)

// Handler manages the eudoxa resource endpoints.
type Handler struct {
	mgr *sessions.Manager
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(mgr *sessions.Manager) *Handler {
	return &Handler{mgr: mgr}
}

// SessionsResource returns the MCP resource definition for the session list.
func (h *Handler) SessionsResource() mcp.Resource {
	return mcp.NewResource(
		sessionsURI,
		"Decision sessions",
		mcp.WithResourceDescription("Stored decision sessions with their revision and timestamps"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSessions returns the session list as JSON.
func (h *Handler) HandleSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list, err := h.mgr.List(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if list == nil {
		list = []sessions.Session{}
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling sessions")
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// RecordTemplate returns the MCP resource template for a session's model
// record.
func (h *Handler) RecordTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		recordTemplate,
		"Decision model record",
		mcp.WithTemplateDescription("Aspects, levels, named consequences and known facts of one session, as YAML"),
		mcp.WithTemplateMIMEType("application/yaml"),
	)
}

// HandleRecord returns the model record of the session named in the URI.
func (h *Handler) HandleRecord(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id, err := sessionID(req.Params.URI)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	var data []byte
	err = h.mgr.View(ctx, id, func(m *eudoxa.Model) error {
		var err error
		data, err = m.Record().YAML()
		return err
	})
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/yaml",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
