package resources

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/eudoxa/internal/eudoxa"
	"github.com/HendryAvila/eudoxa/internal/sessions"
)

func newTestHandler(t *testing.T) (*Handler, *sessions.Manager) {
	t.Helper()
	store, err := sessions.New(sessions.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("setup: open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	mgr := sessions.NewManager(store, nil)
	return NewHandler(mgr), mgr
}

func readReq(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func contentText(t *testing.T, contents []mcp.ResourceContents) mcp.TextResourceContents {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("expected one content, got %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected text contents, got %T", contents[0])
	}
	return tc
}

func TestHandleSessions(t *testing.T) {
	h, mgr := newTestHandler(t)

	out, err := h.HandleSessions(context.Background(), readReq(sessionsURI))
	if err != nil {
		t.Fatalf("HandleSessions: %v", err)
	}
	if got := strings.TrimSpace(contentText(t, out).Text); got != "[]" {
		t.Errorf("empty store should give [], got %s", got)
	}

	sess, err := mgr.Create(context.Background(), "laptop", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	out, err = h.HandleSessions(context.Background(), readReq(sessionsURI))
	if err != nil {
		t.Fatalf("HandleSessions: %v", err)
	}
	tc := contentText(t, out)
	if tc.MIMEType != "application/json" {
		t.Errorf("MIMEType = %s", tc.MIMEType)
	}
	var list []sessions.Session
	if err := json.Unmarshal([]byte(tc.Text), &list); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(list) != 1 || list[0].ID != sess.ID || list[0].Name != "laptop" {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestHandleRecord(t *testing.T) {
	h, mgr := newTestHandler(t)
	ctx := context.Background()
	sess, err := mgr.Create(ctx, "sized", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err = mgr.Update(ctx, sess.ID, func(m *eudoxa.Model) (eudoxa.Outcome, error) {
		if _, err := m.AddAspect("Size", eudoxa.KindText, ""); err != nil {
			return eudoxa.Outcome{}, err
		}
		_, err := m.AddLevel("Size", "S", "")
		return eudoxa.Outcome{}, err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	uri := "eudoxa://sessions/" + sess.ID + "/record"
	out, err := h.HandleRecord(ctx, readReq(uri))
	if err != nil {
		t.Fatalf("HandleRecord: %v", err)
	}
	tc := contentText(t, out)
	if tc.MIMEType != "application/yaml" || tc.URI != uri {
		t.Errorf("unexpected contents header: %s %s", tc.MIMEType, tc.URI)
	}
	rec, err := eudoxa.ParseRecord([]byte(tc.Text))
	if err != nil {
		t.Fatalf("record does not parse: %v", err)
	}
	if len(rec.Aspects) != 1 || rec.Aspects[0].Name != "Size" {
		t.Errorf("unexpected record: %+v", rec.Aspects)
	}
}

func TestHandleRecord_Errors(t *testing.T) {
	h, _ := newTestHandler(t)
	for _, uri := range []string{
		"eudoxa://sessions/missing/record",
		"eudoxa://sessions//record",
		"eudoxa://other/x/record",
	} {
		out, err := h.HandleRecord(context.Background(), readReq(uri))
		if err != nil {
			t.Fatalf("%s: HandleRecord returned a Go error: %v", uri, err)
		}
		if tc := contentText(t, out); !strings.HasPrefix(tc.Text, "Error:") {
			t.Errorf("%s: expected an error resource, got %s", uri, tc.Text)
		}
	}
}

func TestSessionID(t *testing.T) {
	id, err := sessionID("eudoxa://sessions/abc-123/record")
	if err != nil || id != "abc-123" {
		t.Errorf("sessionID = %q, %v", id, err)
	}
	if _, err := sessionID("eudoxa://sessions/a/b/record"); err == nil {
		t.Error("nested path should be rejected")
	}
}
