package core

import (
	"context"
	"fmt"

	"mattercore/pkg/domain"
)

// ReferentialClosureRule verifies that every outbound reference in the
// workspace points at an entity that actually exists. The transition engine
// maintains this invariant itself, so a violation indicates an engine bug;
// the rule reports warnings and never blocks a commit.
type ReferentialClosureRule struct{}

// Name identifies the rule in violation reports.
func (ReferentialClosureRule) Name() string { return "referential_closure" }

// Evaluate walks every reference edge and reports the dangling ones.
func (r ReferentialClosureRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	var result domain.Result
	live := map[string]struct{}{}
	for _, c := range view.Cases() {
		live[c.ID] = struct{}{}
	}
	for _, c := range view.Cases() {
		if c.ClientID != "" {
			if _, ok := view.FindClient(c.ClientID); !ok {
				result.Violations = append(result.Violations, violation(r.Name(),
					fmt.Sprintf("case %s references missing client %s", c.ID, c.ClientID)))
			}
		}
	}
	for _, cl := range view.Clients() {
		for _, caseID := range cl.CaseIDs {
			if _, ok := live[caseID]; !ok {
				result.Violations = append(result.Violations, violation(r.Name(),
					fmt.Sprintf("client %s lists missing case %s", cl.ID, caseID)))
			}
		}
	}
	for _, d := range view.Documents() {
		for _, caseID := range d.CaseIDs {
			if _, ok := live[caseID]; !ok {
				result.Violations = append(result.Violations, violation(r.Name(),
					fmt.Sprintf("document %s references missing case %s", d.ID, caseID)))
			}
		}
	}
	for _, item := range view.Research() {
		for _, caseID := range item.CaseIDs {
			if _, ok := live[caseID]; !ok {
				result.Violations = append(result.Violations, violation(r.Name(),
					fmt.Sprintf("research %s references missing case %s", item.ID, caseID)))
			}
		}
	}
	for _, t := range view.TimeEntries() {
		if _, ok := live[t.CaseID]; !ok {
			result.Violations = append(result.Violations, violation(r.Name(),
				fmt.Sprintf("time entry %s references missing case %s", t.ID, t.CaseID)))
		}
	}
	return result, nil
}

func violation(rule, message string) domain.Violation {
	return domain.Violation{Rule: rule, Severity: domain.SeverityWarn, Message: message}
}
