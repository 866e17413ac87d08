package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/eudoxa/internal/errors"
	"github.com/HendryAvila/eudoxa/internal/eudoxa"
	"github.com/HendryAvila/eudoxa/internal/metrics"
	"github.com/HendryAvila/eudoxa/internal/sessions"
	"github.com/HendryAvila/eudoxa/internal/tabular"
)

// ExportXLSXTool handles the eudoxa_export_xlsx MCP tool.
type ExportXLSXTool struct {
	mgr *sessions.Manager
}

// NewExportXLSXTool creates an ExportXLSXTool.
func NewExportXLSXTool(mgr *sessions.Manager) *ExportXLSXTool {
	return &ExportXLSXTool{mgr: mgr}
}

// Definition returns the MCP tool definition for eudoxa_export_xlsx.
func (t *ExportXLSXTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_export_xlsx",
		mcp.WithDescription(
			"Write the session to an .xlsx workbook: one |ASP| sheet per aspect with its "+
				"level grid, the |CONS| consequences, the |DOM| dominance table and the |VDCM| matrix.",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Destination file path, e.g. './decision.xlsx'"),
		),
	)
}

// Handle processes the eudoxa_export_xlsx tool call.
func (t *ExportXLSXTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session", "path"); r != nil {
		return r, nil
	}
	path := filepath.Clean(req.GetString("path", ""))

	var wb *tabular.Workbook
	err := t.mgr.View(ctx, req.GetString("session", ""), func(m *eudoxa.Model) error {
		var err error
		wb, err = tabular.Export(m)
		return err
	})
	if err != nil {
		return errorResult("export failed", err), nil
	}
	if err := writeWorkbook(path, wb); err != nil {
		return errorResult("export failed", err), nil
	}

	names := make([]string, 0, len(wb.Sheets))
	for _, s := range wb.Sheets {
		names = append(names, s.Name)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Workbook written to `%s`\n\nSheets: %s",
		path, strings.Join(names, ", "))), nil
}

func writeWorkbook(path string, wb *tabular.Workbook) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating workbook file")
	}
	if err := tabular.WriteXLSX(f, wb); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "closing workbook file")
}

// ─── ImportXLSXTool ─────────────────────────────────────────────────────────

// ImportXLSXTool handles the eudoxa_import_xlsx MCP tool.
type ImportXLSXTool struct {
	mgr *sessions.Manager
	met *metrics.Metrics
}

// NewImportXLSXTool creates an ImportXLSXTool.
func NewImportXLSXTool(mgr *sessions.Manager, met *metrics.Metrics) *ImportXLSXTool {
	return &ImportXLSXTool{mgr: mgr, met: met}
}

// Definition returns the MCP tool definition for eudoxa_import_xlsx.
func (t *ImportXLSXTool) Definition() mcp.Tool {
	return mcp.NewTool("eudoxa_import_xlsx",
		mcp.WithDescription(
			"Load an .xlsx workbook in the export layout into a session. Aspects and levels are "+
				"added, grid relations are asserted (blank cells are skipped) and |CONS| rows become "+
				"named consequences.",
		),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workbook file path"),
		),
	)
}

// Handle processes the eudoxa_import_xlsx tool call.
func (t *ImportXLSXTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := missing(req, "session", "path"); r != nil {
		return r, nil
	}
	path := filepath.Clean(req.GetString("path", ""))

	f, err := os.Open(path)
	if err != nil {
		return errorResult("import failed", errors.Wrap(err, "opening workbook")), nil
	}
	defer f.Close()
	wb, err := tabular.ReadXLSX(f)
	if err != nil {
		return errorResult("import failed", err), nil
	}

	out, err := t.mgr.Update(ctx, req.GetString("session", ""), func(m *eudoxa.Model) (eudoxa.Outcome, error) {
		return tabular.Import(m, wb)
	})
	t.met.ObserveAssertion("import", out, err)
	if err != nil {
		return errorResult("import failed", err), nil
	}
	return outcomeResult(fmt.Sprintf("Imported %s", filepath.Base(path)), out), nil
}
