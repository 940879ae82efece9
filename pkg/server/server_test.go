package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/tomoemon/emil/pkg/config"
	"github.com/tomoemon/emil/pkg/logging"
)

// newTestServer returns a Server shared across every test in this
// package. telemetry.NewProvider registers its instruments with the
// global Prometheus registry, so constructing a second Server per
// process risks a duplicate-registration error; all handler tests
// below exercise the one shared instance instead.
var (
	sharedServerOnce sync.Once
	sharedServer     *Server
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sharedServerOnce.Do(func() {
		cfg := config.DefaultServerConfig()
		s, err := New(cfg, config.DefaultRuleConfig(), config.DefaultRuntimeConfig(), logging.Nop())
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		sharedServer = s
	})
	return sharedServer
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)
	return rec
}

// TestServerEndToEnd walks the full lifecycle a client would: upload a
// rule pack, build an automaton against display text, step it by
// keystroke, reset it, and render it as Graphviz.
func TestServerEndToEnd(t *testing.T) {
	s := newTestServer(t)

	rulePackBody := map[string]interface{}{
		"entries": []map[string]string{
			{"input": "ka", "output": "か"},
			{"input": "ca", "output": "か"},
		},
	}
	rec := doRequest(t, s, http.MethodPost, "/api/v1/rules", rulePackBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/v1/rules status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var packResp rulePackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &packResp); err != nil {
		t.Fatalf("unmarshal rule pack response: %v", err)
	}
	if packResp.RuleID == "" {
		t.Fatal("rule pack response has empty RuleID")
	}

	rec = doRequest(t, s, http.MethodPost, "/api/v1/rules/"+packResp.RuleID+"/automatons",
		buildAutomatonRequest{Text: "か"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST .../automatons status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var atResp automatonResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &atResp); err != nil {
		t.Fatalf("unmarshal automaton response: %v", err)
	}
	if atResp.AutomatonID == "" {
		t.Fatal("automaton response has empty AutomatonID")
	}
	if atResp.Finished {
		t.Error("freshly built automaton reports Finished = true")
	}

	base := "/api/v1/automatons/" + atResp.AutomatonID

	rec = doRequest(t, s, http.MethodPost, base+"/input", keystrokeRequest{Chars: "k"})
	var keyResp keystrokeResponse
	mustUnmarshal(t, rec, &keyResp)
	if !keyResp.Succeeded || keyResp.Outputted != "" || keyResp.Finished {
		t.Fatalf("after 'k': %+v", keyResp)
	}

	rec = doRequest(t, s, http.MethodPost, base+"/input", keystrokeRequest{Chars: "a"})
	mustUnmarshal(t, rec, &keyResp)
	if !keyResp.Succeeded || keyResp.Outputted != "か" || !keyResp.Finished {
		t.Fatalf("after 'a': %+v", keyResp)
	}

	rec = doRequest(t, s, http.MethodPost, base+"/input", keystrokeRequest{Chars: "x"})
	mustUnmarshal(t, rec, &keyResp)
	if keyResp.Succeeded {
		t.Error("keystroke on a finished automaton unexpectedly succeeded")
	}

	rec = doRequest(t, s, http.MethodPost, base+"/reset", nil)
	var resetResp automatonResponse
	mustUnmarshal(t, rec, &resetResp)
	if resetResp.Outputted != "" || resetResp.Finished {
		t.Fatalf("after reset: %+v", resetResp)
	}

	rec = doRequest(t, s, http.MethodGet, base+"/graphviz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET .../graphviz status = %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("digraph")) {
		t.Errorf("graphviz body missing digraph header: %s", rec.Body.String())
	}
}

func mustUnmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if rec.Code < 200 || rec.Code >= 300 {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal response: %v, body = %s", err, rec.Body.String())
	}
}

func TestServerRejectsSchemaInvalidRulePack(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/rules", map[string]interface{}{
		"entries": []map[string]string{{"output": "か"}}, // missing required "input"
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestServerBuildAutomatonUnknownRule(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/rules/does-not-exist/automatons", buildAutomatonRequest{Text: "か"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServerBuildAutomatonRejectsOversizedText(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/rules", map[string]interface{}{
		"entries": []map[string]string{{"input": "ka", "output": "か"}},
	})
	var packResp rulePackResponse
	mustUnmarshal(t, rec, &packResp)

	oversized := strings.Repeat("あ", 300) // DefaultRuntimeConfig caps at 256 runes
	rec = doRequest(t, s, http.MethodPost, "/api/v1/rules/"+packResp.RuleID+"/automatons",
		buildAutomatonRequest{Text: oversized})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
}

func TestServerHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = doRequest(t, s, http.MethodGet, "/health/live", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health/live status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestServerUnknownAutomatonKeystroke(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/automatons/does-not-exist/input", keystrokeRequest{Chars: "k"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
