package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/xeipuuv/gojsonschema"

	"github.com/tomoemon/emil/pkg/graph"
	"github.com/tomoemon/emil/pkg/rule"
	"github.com/tomoemon/emil/pkg/viz"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	return body, true
}

// handleCreateRulePack validates and parses a rule pack, storing it in
// the rule registry keyed by a fresh UUID.
func (s *Server) handleCreateRulePack(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	schemaLoader := gojsonschema.NewStringLoader(rulePackSchema)
	docLoader := gojsonschema.NewBytesLoader(body)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if !result.Valid() {
		s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "rule pack failed schema validation",
			"issues": schemaIssues(result),
		})
		return
	}

	var req rulePackRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg := s.ruleCfg
	cfg.AllowDirectNextInput = req.AllowDirectNextInput
	if req.MaxEntries > 0 {
		cfg.MaxEntries = req.MaxEntries
	}
	if req.DirectInputtableExpr != "" {
		cfg.DirectInputtableExpr = req.DirectInputtableExpr
		cfg.Alphabet = []rune(req.Alphabet)
	}

	r2, err := rule.NewWithLogger(req.toEntries(), cfg, s.logger)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	id := s.rules.put(r2)
	s.writeJSON(w, http.StatusCreated, rulePackResponse{RuleID: id})
}

func schemaIssues(result *gojsonschema.Result) []string {
	issues := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		issues = append(issues, e.String())
	}
	return issues
}

// handleBuildAutomaton builds an automaton for the given rule pack and
// display text, storing it in the automaton registry.
func (s *Server) handleBuildAutomaton(w http.ResponseWriter, r *http.Request) {
	ruleID := r.PathValue("ruleID")
	ruleSet, ok := s.rules.get(ruleID)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "rule pack not found"})
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	var req buildAutomatonRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	at, err := graph.BuildWithObservers(r.Context(), ruleSet, req.Text, s.runtimeCfg, s.logger, s.telemetry)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	id := s.automatons.put(at)
	s.writeJSON(w, http.StatusCreated, automatonResponse{
		AutomatonID: id,
		Inputted:    at.Inputted(),
		Outputted:   at.Outputted(),
		Finished:    at.Finished(),
	})
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	s.handleKeystroke(w, r, true)
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	s.handleKeystroke(w, r, false)
}

func (s *Server) handleKeystroke(w http.ResponseWriter, r *http.Request, mutate bool) {
	id := r.PathValue("id")
	at, ok := s.automatons.get(id)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "automaton not found"})
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	var req keystrokeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var result = at.Test(req.Chars)
	if mutate {
		result = at.Input(req.Chars)
	}
	s.telemetry.RecordKeystroke(r.Context(), result.Succeeded)

	passed := make([]string, len(result.PassedEntries))
	for i, e := range result.PassedEntries {
		passed[i] = e.Output
	}
	s.writeJSON(w, http.StatusOK, keystrokeResponse{
		Succeeded: result.Succeeded,
		Inputted:  at.Inputted(),
		Outputted: at.Outputted(),
		Finished:  at.Finished(),
		Passed:    passed,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	at, ok := s.automatons.get(id)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "automaton not found"})
		return
	}
	at.Reset()
	s.writeJSON(w, http.StatusOK, automatonResponse{
		AutomatonID: id,
		Inputted:    at.Inputted(),
		Outputted:   at.Outputted(),
		Finished:    at.Finished(),
	})
}

func (s *Server) handleGraphviz(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	at, ok := s.automatons.get(id)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "automaton not found"})
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, viz.Render(at))
}
