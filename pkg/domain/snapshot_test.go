package domain

import (
	"testing"
	"time"
)

func TestSnapshotCloneIsDeep(t *testing.T) {
	now := time.Now().UTC()
	original := Snapshot{
		Clients: []Client{{
			Base:    Base{ID: "cl-1", CreatedAt: now, UpdatedAt: now},
			Name:    "Meridian Housing Trust",
			CaseIDs: []string{"ca-1"},
		}},
		Cases: []Case{{
			Base:        Base{ID: "ca-1", CreatedAt: now, UpdatedAt: now},
			Title:       "Meridian lease dispute",
			ClientID:    "cl-1",
			CaseType:    CaseRestorative,
			Stage:       StageIntake,
			Status:      StatusActive,
			Priority:    PriorityMedium,
			Team:        []string{"dana"},
			Tags:        []string{"housing"},
			DocumentIDs: []string{},
			ResearchIDs: []string{},
			Restorative: EmptyRestorativeProfile(),
		}},
		Documents:   []Document{},
		Research:    []ResearchItem{},
		TimeEntries: []TimeEntry{},
		Activity:    []ActivityItem{},
	}

	cp := original.Clone()
	cp.Clients[0].CaseIDs[0] = "mutated"
	cp.Cases[0].Team[0] = "mutated"
	cp.Cases[0].Restorative.CarePlan = "mutated"

	if original.Clients[0].CaseIDs[0] != "ca-1" {
		t.Fatalf("clone shares client CaseIDs backing array")
	}
	if original.Cases[0].Team[0] != "dana" {
		t.Fatalf("clone shares case Team backing array")
	}
	if original.Cases[0].Restorative.CarePlan != "" {
		t.Fatalf("clone shares restorative profile pointer")
	}
}

func TestLiveCaseIDs(t *testing.T) {
	s := Snapshot{Cases: []Case{
		{Base: Base{ID: "ca-1"}},
		{Base: Base{ID: "ca-2"}},
	}}
	live := s.LiveCaseIDs()
	if len(live) != 2 {
		t.Fatalf("expected 2 live cases, got %d", len(live))
	}
	if _, ok := live["ca-1"]; !ok {
		t.Fatalf("missing ca-1")
	}
	if _, ok := live["ca-3"]; ok {
		t.Fatalf("ca-3 should not be live")
	}
}

func TestValidatorsRejectUnknownValues(t *testing.T) {
	if ValidCaseStage("archived") {
		t.Fatalf("archived is not a stage")
	}
	if !ValidCaseStage(StageBriefing) {
		t.Fatalf("briefing is a stage")
	}
	if ValidCaseCategory("criminal") {
		t.Fatalf("criminal is not a category")
	}
	if !ValidFormStatus(FormNotApplicable) {
		t.Fatalf("n/a is a form status")
	}
	if ValidActivityKind("case_deleted") {
		t.Fatalf("case_deleted is not a journal kind")
	}
}
