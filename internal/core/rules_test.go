package core

import (
	"context"
	"testing"

	"mattercore/pkg/domain"
)

// evaluateRules runs one rule over a hand-built snapshot, bypassing the
// transition operations so inconsistent graphs can be planted directly.
func evaluateRules(t *testing.T, rule domain.Rule, state domain.Snapshot) domain.Result {
	t.Helper()
	res, err := rule.Evaluate(context.Background(), snapshotView{state: &state}, nil)
	if err != nil {
		t.Fatalf("rule evaluation failed: %v", err)
	}
	return res
}

func TestReferentialClosureRuleFlagsDanglingRefs(t *testing.T) {
	state := domain.Snapshot{
		Clients: []domain.Client{{Base: domain.Base{ID: "cl-1"}, Name: "C", CaseIDs: []string{"ca-gone"}}},
		Cases:   []domain.Case{{Base: domain.Base{ID: "ca-1"}, Title: "M", ClientID: "cl-gone"}},
		Documents: []domain.Document{
			{Base: domain.Base{ID: "doc-1"}, Title: "D", CaseIDs: []string{"ca-gone"}},
		},
		TimeEntries: []domain.TimeEntry{{Base: domain.Base{ID: "te-1"}, CaseID: "ca-gone"}},
	}
	res := evaluateRules(t, ReferentialClosureRule{}, state)
	if len(res.Violations) != 4 {
		t.Fatalf("expected 4 violations, got %d: %+v", len(res.Violations), res.Violations)
	}
	for _, v := range res.Violations {
		if v.Severity != domain.SeverityWarn {
			t.Fatalf("integrity rules must warn, not %s", v.Severity)
		}
		if v.Rule != "referential_closure" {
			t.Fatalf("unexpected rule name %q", v.Rule)
		}
	}
}

func TestLinkSymmetryRuleFlagsOneWayEdges(t *testing.T) {
	state := domain.Snapshot{
		Clients: []domain.Client{{Base: domain.Base{ID: "cl-1"}, Name: "C", CaseIDs: []string{"ca-1"}}},
		Cases: []domain.Case{{
			Base: domain.Base{ID: "ca-1"}, Title: "M", ClientID: "", // case does not point back
			DocumentIDs: []string{}, ResearchIDs: []string{},
		}},
		Documents: []domain.Document{{
			Base: domain.Base{ID: "doc-1"}, Title: "D", CaseIDs: []string{"ca-1"}, // case missing back-link
		}},
	}
	res := evaluateRules(t, LinkSymmetryRule{}, state)
	if len(res.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %+v", len(res.Violations), res.Violations)
	}
}

func TestRulesSilentOnConsistentState(t *testing.T) {
	s := newTestStore()
	run(t, s, func(tx *Transaction) {
		client := tx.CreateClient(domain.Client{Name: "Clean Client"})
		c := tx.CreateCase(domain.Case{Title: "Clean matter", ClientID: client.ID})
		tx.CreateDocument(domain.Document{Title: "Clean doc", CaseIDs: []string{c.ID}})
		tx.LogTime(domain.TimeEntry{CaseID: c.ID, Hours: 1})
	})
	state := s.ExportState()
	for _, rule := range []domain.Rule{ReferentialClosureRule{}, LinkSymmetryRule{}} {
		if res := evaluateRules(t, rule, state); len(res.Violations) != 0 {
			t.Fatalf("%s flagged a consistent graph: %+v", rule.Name(), res.Violations)
		}
	}
}
