package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/eudoxa/internal/eudoxa"
	"github.com/HendryAvila/eudoxa/internal/metrics"
	"github.com/HendryAvila/eudoxa/internal/sessions"
)

// --- Test helpers ---

type handler interface {
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// newTestManager opens a session manager over a store in a temp dir.
func newTestManager(t *testing.T) *sessions.Manager {
	t.Helper()
	store, err := sessions.New(sessions.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("setup: open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return sessions.NewManager(store, nil)
}

// newSession creates an empty session and returns its id.
func newSession(t *testing.T, mgr *sessions.Manager) string {
	t.Helper()
	sess, err := mgr.Create(context.Background(), "test", nil)
	if err != nil {
		t.Fatalf("setup: create session: %v", err)
	}
	return sess.ID
}

// newDecision creates a session with Cost (Low, High) and Quality
// (Poor, Good) and the consequences best, worst and mixed.
func newDecision(t *testing.T, mgr *sessions.Manager) string {
	t.Helper()
	id := newSession(t, mgr)
	_, err := mgr.Update(context.Background(), id, func(m *eudoxa.Model) (eudoxa.Outcome, error) {
		for _, a := range []struct {
			name   string
			levels []string
		}{
			{"Cost", []string{"Low", "High"}},
			{"Quality", []string{"Poor", "Good"}},
		} {
			if _, err := m.AddAspect(a.name, eudoxa.KindText, ""); err != nil {
				return eudoxa.Outcome{}, err
			}
			for _, l := range a.levels {
				if _, err := m.AddLevel(a.name, l, ""); err != nil {
					return eudoxa.Outcome{}, err
				}
			}
		}
		for _, nc := range []eudoxa.NamedConsequence{
			{Name: "best", Levels: eudoxa.Consequence{"Cost": "Low", "Quality": "Good"}},
			{Name: "worst", Levels: eudoxa.Consequence{"Cost": "High", "Quality": "Poor"}},
			{Name: "mixed", Levels: eudoxa.Consequence{"Cost": "Low", "Quality": "Poor"}},
		} {
			if err := m.AddConsequence(nc.Name, nc.Levels); err != nil {
				return eudoxa.Outcome{}, err
			}
		}
		return eudoxa.Outcome{}, nil
	})
	if err != nil {
		t.Fatalf("setup: build decision: %v", err)
	}
	return id
}

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// call runs a tool and fails the test on a Go error.
func call(t *testing.T, h handler, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	result, err := h.Handle(context.Background(), makeReq(args))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	return result
}

// mustSucceed runs a tool and fails the test on an error result.
func mustSucceed(t *testing.T, h handler, args map[string]interface{}) string {
	t.Helper()
	result := call(t, h, args)
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}
	return getResultText(result)
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// --- Session tools ---

func TestSessionCreateTool_Handle_Success(t *testing.T) {
	mgr := newTestManager(t)
	text := mustSucceed(t, NewSessionCreateTool(mgr), map[string]interface{}{"name": "laptop"})

	if !strings.Contains(text, "Session created") {
		t.Errorf("result should contain 'Session created', got: %s", text)
	}
	list, err := mgr.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "laptop" {
		t.Fatalf("expected one session named laptop, got %+v", list)
	}
	if !strings.Contains(text, list[0].ID) {
		t.Errorf("result should contain the session id %s", list[0].ID)
	}
}

func TestSessionCreateTool_Handle_FromRecord(t *testing.T) {
	mgr := newTestManager(t)
	record := `
aspects:
  - name: Size
    kind: str
    levels:
      - id: S
      - id: M
`
	mustSucceed(t, NewSessionCreateTool(mgr), map[string]interface{}{"name": "sized", "record": record})

	list, _ := mgr.List(context.Background())
	if len(list) != 1 {
		t.Fatalf("expected one session, got %d", len(list))
	}
	err := mgr.View(context.Background(), list[0].ID, func(m *eudoxa.Model) error {
		if got := m.SpaceSize(); got != 2 {
			t.Errorf("SpaceSize = %d, want 2", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestSessionCreateTool_Handle_Errors(t *testing.T) {
	mgr := newTestManager(t)
	tool := NewSessionCreateTool(mgr)

	if r := call(t, tool, map[string]interface{}{}); !isErrorResult(r) {
		t.Error("missing name should be an error")
	}
	if r := call(t, tool, map[string]interface{}{"name": "x", "record": "aspects: [unclosed"}); !isErrorResult(r) {
		t.Error("malformed record should be an error")
	}
}

func TestSessionListTool_Handle(t *testing.T) {
	mgr := newTestManager(t)
	tool := NewSessionListTool(mgr)

	if text := mustSucceed(t, tool, nil); !strings.Contains(text, "No sessions") {
		t.Errorf("empty list should say so, got: %s", text)
	}
	id := newSession(t, mgr)
	text := mustSucceed(t, tool, nil)
	if !strings.Contains(text, id) || !strings.Contains(text, "Sessions (1)") {
		t.Errorf("list should contain the session, got: %s", text)
	}
}

func TestSessionDeleteTool_Handle(t *testing.T) {
	mgr := newTestManager(t)
	id := newSession(t, mgr)
	tool := NewSessionDeleteTool(mgr)

	mustSucceed(t, tool, map[string]interface{}{"session": id})
	if r := call(t, tool, map[string]interface{}{"session": id}); !isErrorResult(r) {
		t.Error("deleting twice should be an error")
	}
}

func TestDerivationsTool_Handle(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	tool := NewDerivationsTool(mgr)

	if text := mustSucceed(t, tool, map[string]interface{}{"session": id}); !strings.Contains(text, "No derivations") {
		t.Errorf("fresh session should have no derivations, got: %s", text)
	}

	mustSucceed(t, NewSetLevelRelationTool(mgr, nil), map[string]interface{}{
		"session": id, "aspect": "Cost", "level_a": "Low", "relation": "BT", "level_b": "High",
	})
	text := mustSucceed(t, tool, map[string]interface{}{"session": id, "limit": float64(0)})
	if !strings.Contains(text, "Derivations (4)") {
		t.Errorf("a strict relation writes four facts, got: %s", text)
	}
	if !strings.Contains(text, "level-relation") {
		t.Errorf("derivations should name the rule, got: %s", text)
	}

	text = mustSucceed(t, tool, map[string]interface{}{"session": id, "limit": float64(1)})
	if !strings.Contains(text, "Derivations (1)") {
		t.Errorf("limit should cap the entries, got: %s", text)
	}
}

func TestTools_UnknownSession(t *testing.T) {
	mgr := newTestManager(t)
	cases := map[string]handler{
		"add_aspect":       NewAddAspectTool(mgr),
		"consequence":      NewConsequenceSpaceTool(mgr),
		"dominance_table":  NewDominanceTableTool(mgr),
		"closure":          NewClosureTool(mgr, nil, 0),
		"derivations":      NewDerivationsTool(mgr),
		"get_level_relate": NewGetLevelRelationTool(mgr),
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			r := call(t, h, map[string]interface{}{"session": "nope", "name": "Cost", "aspect": "Cost"})
			if !isErrorResult(r) {
				t.Errorf("unknown session should be an error, got: %s", getResultText(r))
			}
		})
	}
}

// --- Aspect tools ---

func TestAddAspectTool_Handle_Success(t *testing.T) {
	mgr := newTestManager(t)
	id := newSession(t, mgr)

	text := mustSucceed(t, NewAddAspectTool(mgr), map[string]interface{}{
		"session": id, "name": "Cost", "kind": "int", "levels": "100, 200, 300",
	})
	if !strings.Contains(text, "Aspect added: Cost") {
		t.Errorf("result should name the aspect, got: %s", text)
	}
	if !strings.Contains(text, "Consequence space**: 3") {
		t.Errorf("result should report a space of 3, got: %s", text)
	}

	err := mgr.View(context.Background(), id, func(m *eudoxa.Model) error {
		a, err := m.Aspect("Cost")
		if err != nil {
			return err
		}
		if a.Kind() != eudoxa.KindInt {
			t.Errorf("kind = %s, want int", a.Kind())
		}
		if got := strings.Join(a.LevelIDs(), ","); got != "100,200,300" {
			t.Errorf("levels = %s", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestAddAspectTool_Handle_Errors(t *testing.T) {
	mgr := newTestManager(t)
	id := newSession(t, mgr)
	tool := NewAddAspectTool(mgr)

	if r := call(t, tool, map[string]interface{}{"session": id, "name": "Cost", "kind": "date"}); !isErrorResult(r) {
		t.Error("unknown kind should be an error")
	}
	if r := call(t, tool, map[string]interface{}{"session": id, "name": "Cost", "kind": "int", "levels": "10, ten"}); !isErrorResult(r) {
		t.Error("level not matching the kind should be an error")
	}
	err := mgr.View(context.Background(), id, func(m *eudoxa.Model) error {
		if len(m.Aspects()) != 0 {
			t.Error("rejected calls should not register the aspect")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}

	mustSucceed(t, tool, map[string]interface{}{"session": id, "name": "Cost"})
	if r := call(t, tool, map[string]interface{}{"session": id, "name": "Cost"}); !isErrorResult(r) {
		t.Error("duplicate aspect should be an error")
	}
}

func TestAddLevelTool_Handle(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	tool := NewAddLevelTool(mgr)

	text := mustSucceed(t, tool, map[string]interface{}{"session": id, "aspect": "Cost", "level": "Mid"})
	if !strings.Contains(text, "Consequence space**: 6") {
		t.Errorf("three costs by two qualities is 6, got: %s", text)
	}
	text = mustSucceed(t, tool, map[string]interface{}{"session": id, "aspect": "Cost", "level": "Mid"})
	if !strings.Contains(text, "already exists") {
		t.Errorf("second add should be a no-op, got: %s", text)
	}
	if r := call(t, tool, map[string]interface{}{"session": id, "aspect": "Weight", "level": "1"}); !isErrorResult(r) {
		t.Error("unknown aspect should be an error")
	}
}

// --- Relation tools ---

func TestSetLevelRelationTool_Handle_Success(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	met := metrics.New()

	text := mustSucceed(t, NewSetLevelRelationTool(mgr, met), map[string]interface{}{
		"session": id, "aspect": "Cost", "level_a": "Low", "relation": "≻", "level_b": "High",
	})
	if !strings.Contains(text, "4 fact(s) changed") {
		t.Errorf("expected four changed facts, got: %s", text)
	}

	text = mustSucceed(t, NewGetLevelRelationTool(mgr), map[string]interface{}{
		"session": id, "aspect": "Cost", "level_a": "High", "level_b": "Low",
	})
	if !strings.Contains(text, "strictly-worse") {
		t.Errorf("the reverse relation should read strictly-worse, got: %s", text)
	}
}

func TestSetLevelRelationTool_Handle_Contradiction(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	tool := NewSetLevelRelationTool(mgr, metrics.New())
	args := map[string]interface{}{
		"session": id, "aspect": "Cost", "level_a": "Low", "relation": "BT", "level_b": "High",
	}
	mustSucceed(t, tool, args)

	args["relation"] = "WT"
	result := call(t, tool, args)
	if !isErrorResult(result) {
		t.Fatalf("contradicting assertion should be an error result")
	}
	text := getResultText(result)
	if !strings.Contains(text, "Contradiction") || !strings.Contains(text, "collision") {
		t.Errorf("result should report the collisions, got: %s", text)
	}

	err := mgr.View(context.Background(), id, func(m *eudoxa.Model) error {
		rel, err := m.LevelRelation("Cost", "Low", "High")
		if err != nil {
			return err
		}
		if rel != eudoxa.Better {
			t.Errorf("existing facts must not be overwritten, got %s", rel.Name())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestSetLevelRelationTool_Handle_Errors(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	tool := NewSetLevelRelationTool(mgr, nil)

	if r := call(t, tool, map[string]interface{}{
		"session": id, "aspect": "Cost", "level_a": "Low", "relation": "much-better", "level_b": "High",
	}); !isErrorResult(r) {
		t.Error("unknown relation should be an error")
	}
	if r := call(t, tool, map[string]interface{}{
		"session": id, "aspect": "Cost", "level_a": "Low", "relation": "BT", "level_b": "Free",
	}); !isErrorResult(r) {
		t.Error("unknown level should be an error")
	}
}

func TestGetLevelRelationTool_Handle_Grid(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	mustSucceed(t, NewSetLevelRelationTool(mgr, nil), map[string]interface{}{
		"session": id, "aspect": "Quality", "level_a": "Good", "relation": "BT", "level_b": "Poor",
	})

	tool := NewGetLevelRelationTool(mgr)
	text := mustSucceed(t, tool, map[string]interface{}{"session": id, "aspect": "Quality"})
	if !strings.Contains(text, "Quality levels (2)") {
		t.Errorf("grid header missing, got: %s", text)
	}
	if !strings.Contains(text, "Good → Poor") {
		t.Errorf("grid should list the order edge, got: %s", text)
	}

	if r := call(t, tool, map[string]interface{}{"session": id, "aspect": "Quality", "level_a": "Good"}); !isErrorResult(r) {
		t.Error("a single level should be an error")
	}
}

func TestSetDiffRelationTool_Handle(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	tool := NewSetDiffRelationTool(mgr, metrics.New())

	text := mustSucceed(t, tool, map[string]interface{}{
		"session": id,
		"aspect_a": "Cost", "from_a": "High", "to_a": "Low",
		"relation": "GTE",
		"aspect_b": "Quality", "from_b": "Poor", "to_b": "Good",
	})
	if !strings.Contains(text, "1 fact(s) changed") {
		t.Errorf("GTE writes one fact, got: %s", text)
	}

	err := mgr.View(context.Background(), id, func(m *eudoxa.Model) error {
		got := m.Matrix().Get(eudoxa.Diff("Cost", "High", "Low"), eudoxa.Diff("Quality", "Poor", "Good"))
		if got != eudoxa.True {
			t.Errorf("fact = %s, want true", got.Name())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}

	if r := call(t, tool, map[string]interface{}{
		"session": id, "aspect_a": "Cost", "relation": "GT", "aspect_b": "Weight",
	}); !isErrorResult(r) {
		t.Error("unknown aspect should be an error")
	}
}

func TestChangeSignTool_Handle(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	tool := NewChangeSignTool(mgr)
	args := map[string]interface{}{"session": id, "aspect": "Cost", "from": "Low", "to": "High"}

	if text := mustSucceed(t, tool, args); !strings.Contains(text, "is unknown") {
		t.Errorf("sign should start unknown, got: %s", text)
	}
	mustSucceed(t, NewSetLevelRelationTool(mgr, nil), map[string]interface{}{
		"session": id, "aspect": "Cost", "level_a": "Low", "relation": "BT", "level_b": "High",
	})
	if text := mustSucceed(t, tool, args); !strings.Contains(text, "is positive") {
		t.Errorf("the diff from the better level should be positive, got: %s", text)
	}
}

// --- Closure ---

func sizeChain(t *testing.T, mgr *sessions.Manager) string {
	t.Helper()
	id := newSession(t, mgr)
	mustSucceed(t, NewAddAspectTool(mgr), map[string]interface{}{"session": id, "name": "Size", "levels": "S, M, L"})
	set := NewSetLevelRelationTool(mgr, nil)
	mustSucceed(t, set, map[string]interface{}{"session": id, "aspect": "Size", "level_a": "S", "relation": "BT", "level_b": "M"})
	mustSucceed(t, set, map[string]interface{}{"session": id, "aspect": "Size", "level_a": "M", "relation": "BT", "level_b": "L"})
	return id
}

func TestClosureTool_Handle_Apply(t *testing.T) {
	mgr := newTestManager(t)
	id := sizeChain(t, mgr)
	met := metrics.New()

	text := mustSucceed(t, NewClosureTool(mgr, met, 0), map[string]interface{}{"session": id})
	if !strings.Contains(text, "Converged**: true") || !strings.Contains(text, "Applied**: true") {
		t.Errorf("closure should converge and apply, got: %s", text)
	}

	err := mgr.View(context.Background(), id, func(m *eudoxa.Model) error {
		rel, err := m.LevelRelation("Size", "S", "L")
		if err != nil {
			return err
		}
		if rel != eudoxa.Better {
			t.Errorf("S vs L = %s, want strictly-better", rel.Name())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestClosureTool_Handle_Preview(t *testing.T) {
	mgr := newTestManager(t)
	id := sizeChain(t, mgr)

	text := mustSucceed(t, NewClosureTool(mgr, nil, 0), map[string]interface{}{"session": id, "apply": false})
	if !strings.Contains(text, "Applied**: false") {
		t.Errorf("preview should not apply, got: %s", text)
	}
	err := mgr.View(context.Background(), id, func(m *eudoxa.Model) error {
		rel, err := m.LevelRelation("Size", "S", "L")
		if err != nil {
			return err
		}
		if rel != eudoxa.RelUnknown {
			t.Errorf("preview leaked derived facts: %s", rel.Name())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestClosureTool_Handle_Contradiction(t *testing.T) {
	mgr := newTestManager(t)
	id := sizeChain(t, mgr)
	mustSucceed(t, NewSetLevelRelationTool(mgr, nil), map[string]interface{}{
		"session": id, "aspect": "Size", "level_a": "L", "relation": "BT", "level_b": "S",
	})

	result := call(t, NewClosureTool(mgr, nil, 0), map[string]interface{}{"session": id})
	if !isErrorResult(result) {
		t.Fatalf("a cycle should make closure fail")
	}
	text := getResultText(result)
	if !strings.Contains(text, "Contradiction") || !strings.Contains(text, "Applied**: false") {
		t.Errorf("result should report the contradiction, got: %s", text)
	}
}

func TestClosureTool_Handle_NegativePasses(t *testing.T) {
	mgr := newTestManager(t)
	id := newSession(t, mgr)
	if r := call(t, NewClosureTool(mgr, nil, 0), map[string]interface{}{"session": id, "max_passes": float64(-1)}); !isErrorResult(r) {
		t.Error("negative max_passes should be an error")
	}
}

// --- Consequences and dominance ---

func TestAddConsequenceTool_Handle(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	tool := NewAddConsequenceTool(mgr)

	text := mustSucceed(t, tool, map[string]interface{}{
		"session": id, "name": "pricey", "levels": map[string]interface{}{"Cost": "High", "Quality": "Good"},
	})
	if !strings.Contains(text, "⟨High, Good⟩") {
		t.Errorf("result should show the consequence, got: %s", text)
	}

	mustSucceed(t, tool, map[string]interface{}{
		"session": id, "name": "cheap", "levels": "Cost=Free, Quality=Poor",
	})
	err := mgr.View(context.Background(), id, func(m *eudoxa.Model) error {
		a, _ := m.Aspect("Cost")
		if !a.HasLevel("Free") {
			t.Error("unknown level should be created")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}

	if r := call(t, tool, map[string]interface{}{"session": id, "name": "best", "levels": "Cost=Low, Quality=Good"}); !isErrorResult(r) {
		t.Error("duplicate name should be an error")
	}
	if r := call(t, tool, map[string]interface{}{"session": id, "name": "half", "levels": "Cost=Low"}); !isErrorResult(r) {
		t.Error("missing aspect should be an error")
	}
	if r := call(t, tool, map[string]interface{}{"session": id, "name": "odd", "levels": "Cost"}); !isErrorResult(r) {
		t.Error("malformed levels should be an error")
	}
}

func TestRemoveConsequenceTool_Handle(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	tool := NewRemoveConsequenceTool(mgr)

	mustSucceed(t, tool, map[string]interface{}{"session": id, "name": "mixed"})
	if r := call(t, tool, map[string]interface{}{"session": id, "name": "mixed"}); !isErrorResult(r) {
		t.Error("removing a missing consequence should be an error")
	}
}

func TestConsequenceSpaceTool_Handle(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	tool := NewConsequenceSpaceTool(mgr)

	text := mustSucceed(t, tool, map[string]interface{}{"session": id})
	if !strings.Contains(text, "Consequence space (4)") {
		t.Errorf("2x2 levels give a space of 4, got: %s", text)
	}
	if !strings.Contains(text, "Named consequences (3)") || !strings.Contains(text, "**best** = ⟨Low, Good⟩") {
		t.Errorf("named consequences missing, got: %s", text)
	}

	text = mustSucceed(t, tool, map[string]interface{}{"session": id, "offset": float64(1), "limit": float64(2)})
	if !strings.Contains(text, "1 more (use offset=3)") {
		t.Errorf("paging hint missing, got: %s", text)
	}
	if r := call(t, tool, map[string]interface{}{"session": id, "limit": float64(0)}); !isErrorResult(r) {
		t.Error("zero limit should be an error")
	}
}

func TestDominatesTool_Handle(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	tool := NewDominatesTool(mgr)
	args := map[string]interface{}{"session": id, "from": "best", "to": "worst"}

	if text := mustSucceed(t, tool, args); !strings.Contains(text, "**indeterminate**") {
		t.Errorf("nothing asserted should be indeterminate, got: %s", text)
	}

	set := NewSetLevelRelationTool(mgr, nil)
	mustSucceed(t, set, map[string]interface{}{"session": id, "aspect": "Cost", "level_a": "Low", "relation": "BT", "level_b": "High"})
	mustSucceed(t, set, map[string]interface{}{"session": id, "aspect": "Quality", "level_a": "Good", "relation": "BT", "level_b": "Poor"})

	if text := mustSucceed(t, tool, args); !strings.Contains(text, "**true**") {
		t.Errorf("best should dominate worst, got: %s", text)
	}
	if r := call(t, tool, map[string]interface{}{"session": id, "from": "best", "to": "ghost"}); !isErrorResult(r) {
		t.Error("unknown consequence should be an error")
	}
}

func TestDominanceTableTool_Handle(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	tool := NewDominanceTableTool(mgr)

	text := mustSucceed(t, tool, map[string]interface{}{"session": id})
	if !strings.Contains(text, "No consequence dominates another") || !strings.Contains(text, "Indeterminate") {
		t.Errorf("unordered levels leave everything indeterminate, got: %s", text)
	}

	set := NewSetLevelRelationTool(mgr, nil)
	mustSucceed(t, set, map[string]interface{}{"session": id, "aspect": "Cost", "level_a": "Low", "relation": "BT", "level_b": "High"})
	mustSucceed(t, set, map[string]interface{}{"session": id, "aspect": "Quality", "level_a": "Good", "relation": "BT", "level_b": "Poor"})

	text = mustSucceed(t, tool, map[string]interface{}{"session": id})
	for _, want := range []string{"best DOM worst", "best DOM mixed", "mixed DOM worst", "best → mixed", "mixed → worst"} {
		if !strings.Contains(text, want) {
			t.Errorf("result should contain %q, got: %s", want, text)
		}
	}
	if strings.Contains(text, "best → worst") {
		t.Errorf("reduced graph should drop the transitive edge, got: %s", text)
	}
}

// --- Spreadsheet ---

func TestExportImportXLSXTools(t *testing.T) {
	mgr := newTestManager(t)
	id := newDecision(t, mgr)
	mustSucceed(t, NewSetLevelRelationTool(mgr, nil), map[string]interface{}{
		"session": id, "aspect": "Cost", "level_a": "Low", "relation": "BT", "level_b": "High",
	})
	path := filepath.Join(t.TempDir(), "decision.xlsx")

	text := mustSucceed(t, NewExportXLSXTool(mgr), map[string]interface{}{"session": id, "path": path})
	if !strings.Contains(text, "|ASP| Cost") || !strings.Contains(text, "|CONS|") {
		t.Errorf("result should list the sheets, got: %s", text)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("workbook not written: %v", err)
	}

	target := newSession(t, mgr)
	mustSucceed(t, NewImportXLSXTool(mgr, metrics.New()), map[string]interface{}{"session": target, "path": path})

	err := mgr.View(context.Background(), target, func(m *eudoxa.Model) error {
		rel, err := m.LevelRelation("Cost", "Low", "High")
		if err != nil {
			return err
		}
		if rel != eudoxa.Better {
			t.Errorf("imported relation = %s, want strictly-better", rel.Name())
		}
		if got := len(m.Consequences()); got != 3 {
			t.Errorf("imported %d consequences, want 3", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestImportXLSXTool_Handle_Errors(t *testing.T) {
	mgr := newTestManager(t)
	id := newSession(t, mgr)
	tool := NewImportXLSXTool(mgr, nil)

	if r := call(t, tool, map[string]interface{}{"session": id, "path": filepath.Join(t.TempDir(), "none.xlsx")}); !isErrorResult(r) {
		t.Error("missing file should be an error")
	}
	junk := filepath.Join(t.TempDir(), "junk.xlsx")
	if err := os.WriteFile(junk, []byte("not a workbook"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := call(t, tool, map[string]interface{}{"session": id, "path": junk}); !isErrorResult(r) {
		t.Error("garbage file should be an error")
	}
}
