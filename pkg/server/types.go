package server

import "github.com/tomoemon/emil/pkg/rule"

// rulePackRequest is the body of POST /api/v1/rules.
type rulePackRequest struct {
	Entries []struct {
		Input  string `json:"input"`
		Output string `json:"output"`
		Next   string `json:"next"`
	} `json:"entries"`
	DirectInputtableExpr string `json:"direct_inputtable_expr"`
	Alphabet             string `json:"alphabet"`
	AllowDirectNextInput bool   `json:"allow_direct_next_input"`
	MaxEntries           int    `json:"max_entries"`
}

func (req rulePackRequest) toEntries() []rule.Entry {
	entries := make([]rule.Entry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = rule.Entry{Input: e.Input, Output: e.Output, Next: e.Next}
	}
	return entries
}

type rulePackResponse struct {
	RuleID string `json:"rule_id"`
}

// buildAutomatonRequest is the body of POST /api/v1/rules/{ruleID}/automatons.
type buildAutomatonRequest struct {
	Text string `json:"text"`
}

type automatonResponse struct {
	AutomatonID string `json:"automaton_id"`
	Inputted    string `json:"inputted"`
	Outputted   string `json:"outputted"`
	Finished    bool   `json:"finished"`
}

// keystrokeRequest is the body of the input/test endpoints.
type keystrokeRequest struct {
	Chars string `json:"chars"`
}

type keystrokeResponse struct {
	Succeeded bool     `json:"succeeded"`
	Inputted  string   `json:"inputted"`
	Outputted string   `json:"outputted"`
	Finished  bool     `json:"finished"`
	Passed    []string `json:"passed_outputs"`
}

type errorResponse struct {
	Error string `json:"error"`
}
