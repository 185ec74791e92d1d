package core

import (
	"context"
	"fmt"

	"mattercore/pkg/domain"
)

// LinkSymmetryRule checks the bidirectional links the transition engine is
// responsible for keeping in lockstep: client.caseIds with case.clientId, and
// case.documentIds / case.researchIds with the attachment side. Like
// ReferentialClosureRule it is a tripwire for engine bugs, warn only.
type LinkSymmetryRule struct{}

// Name identifies the rule in violation reports.
func (LinkSymmetryRule) Name() string { return "link_symmetry" }

// Evaluate reports every one-directional edge.
func (r LinkSymmetryRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	var result domain.Result
	report := func(format string, args ...any) {
		result.Violations = append(result.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	for _, cl := range view.Clients() {
		for _, caseID := range cl.CaseIDs {
			c, ok := view.FindCase(caseID)
			if ok && c.ClientID != cl.ID {
				report("client %s lists case %s but the case is owned by %q", cl.ID, caseID, c.ClientID)
			}
		}
	}
	for _, c := range view.Cases() {
		if c.ClientID != "" {
			if cl, ok := view.FindClient(c.ClientID); ok && !containsID(cl.CaseIDs, c.ID) {
				report("case %s is owned by client %s but missing from its case list", c.ID, cl.ID)
			}
		}
	}

	docs := map[string]domain.Document{}
	for _, d := range view.Documents() {
		docs[d.ID] = d
		for _, caseID := range d.CaseIDs {
			if c, ok := view.FindCase(caseID); ok && !containsID(c.DocumentIDs, d.ID) {
				report("document %s links case %s but the case does not link back", d.ID, caseID)
			}
		}
	}
	res := map[string]domain.ResearchItem{}
	for _, item := range view.Research() {
		res[item.ID] = item
		for _, caseID := range item.CaseIDs {
			if c, ok := view.FindCase(caseID); ok && !containsID(c.ResearchIDs, item.ID) {
				report("research %s links case %s but the case does not link back", item.ID, caseID)
			}
		}
	}
	for _, c := range view.Cases() {
		for _, docID := range c.DocumentIDs {
			if d, ok := docs[docID]; ok && !containsID(d.CaseIDs, c.ID) {
				report("case %s lists document %s but the document does not link back", c.ID, docID)
			}
		}
		for _, resID := range c.ResearchIDs {
			if item, ok := res[resID]; ok && !containsID(item.CaseIDs, c.ID) {
				report("case %s lists research %s but the item does not link back", c.ID, resID)
			}
		}
	}
	return result, nil
}
