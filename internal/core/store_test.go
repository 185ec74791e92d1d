package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mattercore/pkg/domain"
)

// newTestStore returns a store with deterministic clock and id sequence.
func newTestStore() *MemoryStore {
	s := NewMemoryStore(nil)
	seq := 0
	s.idFn = func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	s.nowFn = func() time.Time {
		base = base.Add(time.Minute)
		return base
	}
	return s
}

func run(t *testing.T, s *MemoryStore, fn func(tx *Transaction)) {
	t.Helper()
	if _, err := s.RunInTransaction(context.Background(), func(tx *Transaction) error {
		fn(tx)
		return nil
	}); err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestClientCaseLifecycle(t *testing.T) {
	s := newTestStore()

	var client domain.Client
	run(t, s, func(tx *Transaction) {
		client = tx.CreateClient(domain.Client{Name: "Acme Logistics", CaseIDs: []string{"bogus"}})
	})
	if client.ID == "" {
		t.Fatalf("client id not assigned")
	}
	if len(client.CaseIDs) != 0 {
		t.Fatalf("caller-supplied CaseIDs must be discarded, got %v", client.CaseIDs)
	}

	var c domain.Case
	run(t, s, func(tx *Transaction) {
		c = tx.CreateCase(domain.Case{
			Title:    "Acme v. Harbor Freight",
			ClientID: client.ID,
			CaseType: "bogus-category",
			Stage:    "bogus-stage",
		})
	})
	if c.CaseType != domain.CaseLegal || c.Stage != domain.StageIntake {
		t.Fatalf("invalid enums must fall back to defaults: %s / %s", c.CaseType, c.Stage)
	}
	if c.ClientName != "Acme Logistics" {
		t.Fatalf("cached client name not adopted: %q", c.ClientName)
	}

	state := s.ExportState()
	if len(state.Clients[0].CaseIDs) != 1 || state.Clients[0].CaseIDs[0] != c.ID {
		t.Fatalf("client back-link missing: %v", state.Clients[0].CaseIDs)
	}

	// Renaming the client rewrites the cached name on owned cases.
	run(t, s, func(tx *Transaction) {
		if _, ok := tx.UpdateClient(client.ID, domain.ClientPatch{Name: domain.Set("Acme Holdings")}); !ok {
			t.Fatalf("update client failed")
		}
	})
	state = s.ExportState()
	if state.Cases[0].ClientName != "Acme Holdings" {
		t.Fatalf("rename not propagated: %q", state.Cases[0].ClientName)
	}
}

func TestUpdateCaseOwnershipMove(t *testing.T) {
	s := newTestStore()
	var first, second domain.Client
	var c domain.Case
	run(t, s, func(tx *Transaction) {
		first = tx.CreateClient(domain.Client{Name: "First Client"})
		second = tx.CreateClient(domain.Client{Name: "Second Client"})
		c = tx.CreateCase(domain.Case{Title: "Transfer matter", ClientID: first.ID})
	})

	run(t, s, func(tx *Transaction) {
		if _, ok := tx.UpdateCase(c.ID, domain.CasePatch{ClientID: domain.Set(second.ID)}); !ok {
			t.Fatalf("ownership move failed")
		}
	})
	state := s.ExportState()
	if len(state.Clients[0].CaseIDs) != 0 {
		t.Fatalf("old owner still lists the case")
	}
	if len(state.Clients[1].CaseIDs) != 1 || state.Clients[1].CaseIDs[0] != c.ID {
		t.Fatalf("new owner missing the case")
	}
	if state.Cases[0].ClientName != "Second Client" {
		t.Fatalf("cached name did not follow the new owner: %q", state.Cases[0].ClientName)
	}

	// Clearing ownership detaches but keeps the display name.
	run(t, s, func(tx *Transaction) {
		tx.UpdateCase(c.ID, domain.CasePatch{ClientID: domain.Clear[string]()})
	})
	state = s.ExportState()
	if state.Cases[0].ClientID != "" {
		t.Fatalf("detach did not clear ClientID")
	}
	if state.Cases[0].ClientName != "Second Client" {
		t.Fatalf("detach must keep the cached name, got %q", state.Cases[0].ClientName)
	}
	if len(state.Clients[1].CaseIDs) != 0 {
		t.Fatalf("detached case still listed by client")
	}

	// Moving to an unknown client is a no-op.
	run(t, s, func(tx *Transaction) {
		tx.UpdateCase(c.ID, domain.CasePatch{ClientID: domain.Set("missing")})
	})
	if got := s.ExportState().Cases[0].ClientID; got != "" {
		t.Fatalf("unknown client id must not be adopted, got %q", got)
	}
}

func TestUpdateCaseTriStateDeadline(t *testing.T) {
	s := newTestStore()
	var c domain.Case
	run(t, s, func(tx *Transaction) {
		c = tx.CreateCase(domain.Case{Title: "Deadline matter", NextDeadline: "2026-03-01"})
	})

	// Undefined field leaves the deadline alone.
	run(t, s, func(tx *Transaction) {
		tx.UpdateCase(c.ID, domain.CasePatch{Title: domain.Set("Deadline matter v2")})
	})
	if got := s.ExportState().Cases[0].NextDeadline; got != "2026-03-01" {
		t.Fatalf("deadline must survive unrelated patch, got %q", got)
	}

	// Clear removes it.
	run(t, s, func(tx *Transaction) {
		tx.UpdateCase(c.ID, domain.CasePatch{NextDeadline: domain.Clear[string]()})
	})
	if got := s.ExportState().Cases[0].NextDeadline; got != "" {
		t.Fatalf("deadline not cleared, got %q", got)
	}
}

func TestUpdateCaseClientNameClear(t *testing.T) {
	s := newTestStore()
	var cl domain.Client
	var c domain.Case
	run(t, s, func(tx *Transaction) {
		cl = tx.CreateClient(domain.Client{Name: "Named Client"})
		c = tx.CreateCase(domain.Case{Title: "Display matter", ClientID: cl.ID})
	})

	run(t, s, func(tx *Transaction) {
		tx.UpdateCase(c.ID, domain.CasePatch{ClientName: domain.Clear[string]()})
	})
	state := s.ExportState()
	if state.Cases[0].ClientName != "" {
		t.Fatalf("cached name not cleared, got %q", state.Cases[0].ClientName)
	}
	if state.Cases[0].ClientID != cl.ID {
		t.Fatalf("clearing the display name must not touch ownership")
	}

	run(t, s, func(tx *Transaction) {
		tx.UpdateCase(c.ID, domain.CasePatch{ClientName: domain.Set("Override Name")})
	})
	if got := s.ExportState().Cases[0].ClientName; got != "Override Name" {
		t.Fatalf("explicit display name not applied, got %q", got)
	}
}

func TestDocumentLinkingAndRelink(t *testing.T) {
	s := newTestStore()
	var caseA, caseB domain.Case
	var doc domain.Document
	run(t, s, func(tx *Transaction) {
		caseA = tx.CreateCase(domain.Case{Title: "Case A"})
		caseB = tx.CreateCase(domain.Case{Title: "Case B"})
		doc = tx.CreateDocument(domain.Document{
			Title:   "Motion to dismiss",
			CaseIDs: []string{caseA.ID, "dead-case", caseA.ID},
		})
	})
	if len(doc.CaseIDs) != 1 || doc.CaseIDs[0] != caseA.ID {
		t.Fatalf("dead and duplicate case refs must be dropped: %v", doc.CaseIDs)
	}
	state := s.ExportState()
	if len(state.Cases[0].DocumentIDs) != 1 || state.Cases[0].DocumentIDs[0] != doc.ID {
		t.Fatalf("case A missing document back-link")
	}

	run(t, s, func(tx *Transaction) {
		if _, ok := tx.UpdateDocument(doc.ID, domain.DocumentPatch{
			CaseIDs: domain.Set([]string{caseB.ID}),
		}); !ok {
			t.Fatalf("document update failed")
		}
	})
	state = s.ExportState()
	if len(state.Cases[0].DocumentIDs) != 0 {
		t.Fatalf("case A should have lost the back-link")
	}
	if len(state.Cases[1].DocumentIDs) != 1 || state.Cases[1].DocumentIDs[0] != doc.ID {
		t.Fatalf("case B missing document back-link")
	}
}

func TestResearchLinking(t *testing.T) {
	s := newTestStore()
	var c domain.Case
	var r domain.ResearchItem
	run(t, s, func(tx *Transaction) {
		c = tx.CreateCase(domain.Case{Title: "Research matter"})
		r = tx.CreateResearch(domain.ResearchItem{
			Title:   "Adverse possession standards",
			CaseIDs: []string{c.ID},
			Status:  "nonsense",
		})
	})
	if r.Status != domain.ResearchInProgress {
		t.Fatalf("invalid status must default, got %q", r.Status)
	}
	state := s.ExportState()
	if len(state.Cases[0].ResearchIDs) != 1 || state.Cases[0].ResearchIDs[0] != r.ID {
		t.Fatalf("case missing research back-link")
	}
}

func TestLogTimeAgainstMissingCase(t *testing.T) {
	s := newTestStore()
	var ok bool
	run(t, s, func(tx *Transaction) {
		_, ok = tx.LogTime(domain.TimeEntry{CaseID: "missing", Hours: 2})
	})
	if ok {
		t.Fatalf("logging against a missing case must report false")
	}
	state := s.ExportState()
	if len(state.TimeEntries) != 0 || len(state.Activity) != 0 {
		t.Fatalf("no-op must leave no trace: %d entries, %d activity", len(state.TimeEntries), len(state.Activity))
	}
}

func TestLogTimeSnapshotsCaseName(t *testing.T) {
	s := newTestStore()
	var c domain.Case
	var entry domain.TimeEntry
	run(t, s, func(tx *Transaction) {
		c = tx.CreateCase(domain.Case{Title: "Original title"})
		entry, _ = tx.LogTime(domain.TimeEntry{CaseID: c.ID, Hours: -3, Activity: "drafting"})
	})
	if entry.CaseName != "Original title" {
		t.Fatalf("case name not snapshotted: %q", entry.CaseName)
	}
	if entry.Hours != 0 {
		t.Fatalf("negative hours must clamp to zero, got %v", entry.Hours)
	}

	// Renaming the case later does not rewrite the snapshot.
	run(t, s, func(tx *Transaction) {
		tx.UpdateCase(c.ID, domain.CasePatch{Title: domain.Set("Renamed title")})
	})
	if got := s.ExportState().TimeEntries[0].CaseName; got != "Original title" {
		t.Fatalf("time entry snapshot must not follow renames, got %q", got)
	}
}

func TestRestorativeProfileOperations(t *testing.T) {
	s := newTestStore()
	var legal, resto domain.Case
	run(t, s, func(tx *Transaction) {
		legal = tx.CreateCase(domain.Case{Title: "Legal matter", CaseType: domain.CaseLegal})
		resto = tx.CreateCase(domain.Case{Title: "Circle matter", CaseType: domain.CaseRestorative})
	})
	if resto.Restorative == nil || resto.MockTrial != nil {
		t.Fatalf("restorative case must carry exactly its own profile")
	}
	if resto.Restorative.Forms.Consent != domain.FormPending {
		t.Fatalf("synthesized forms must be pending")
	}

	run(t, s, func(tx *Transaction) {
		if _, ok := tx.SaveRestorativeProfile(legal.ID, domain.RestorativeProfile{}); ok {
			t.Fatalf("saving a restorative profile on a legal case must be a no-op")
		}
		if _, ok := tx.AppendRestorativeSession(resto.ID, domain.RestorativeSession{
			Date:        "2026-02-10",
			Facilitator: "Rowan",
		}); !ok {
			t.Fatalf("append session failed")
		}
	})
	state := s.ExportState()
	sessions := state.Cases[1].Restorative.Sessions
	if len(sessions) != 1 || sessions[0].Facilitator != "Rowan" {
		t.Fatalf("session not appended: %+v", sessions)
	}
}

func TestMockTrialRounds(t *testing.T) {
	s := newTestStore()
	var c domain.Case
	run(t, s, func(tx *Transaction) {
		c = tx.CreateCase(domain.Case{Title: "Regional qualifier", CaseType: domain.CaseMockTrial})
	})

	var round domain.MockTrialRound
	run(t, s, func(tx *Transaction) {
		round, _ = tx.ScheduleMockTrialRound(c.ID, domain.MockTrialRound{
			Name:    "Round 1",
			Outcome: &domain.RoundOutcome{Verdict: "pre-filled"},
		})
	})
	if round.ID == "" {
		t.Fatalf("round id not assigned")
	}
	if round.Outcome != nil {
		t.Fatalf("scheduling must strip any caller-supplied outcome")
	}

	run(t, s, func(tx *Transaction) {
		if _, ok := tx.ScoreMockTrialRound(c.ID, "missing-round", domain.RoundOutcome{}); ok {
			t.Fatalf("scoring an unknown round must be a no-op")
		}
	})

	var scored domain.MockTrialRound
	run(t, s, func(tx *Transaction) {
		scored, _ = tx.ScoreMockTrialRound(c.ID, round.ID, domain.RoundOutcome{
			ProsecutionScore: 87,
			DefenseScore:     82,
			Verdict:          "prosecution",
		})
	})
	if scored.Outcome == nil || scored.Outcome.ProsecutionScore != 87 {
		t.Fatalf("outcome not recorded: %+v", scored.Outcome)
	}
}

func TestActivityJournalRecordsMutations(t *testing.T) {
	s := newTestStore()
	run(t, s, func(tx *Transaction) {
		client := tx.CreateClient(domain.Client{Name: "Journal client"})
		c := tx.CreateCase(domain.Case{Title: "Journal case", ClientID: client.ID})
		tx.LogTime(domain.TimeEntry{CaseID: c.ID, Hours: 1.5})
	})
	activity := s.ExportState().Activity
	if len(activity) != 3 {
		t.Fatalf("expected 3 journal entries, got %d", len(activity))
	}
	if activity[0].Kind != domain.ActivityTimeLogged {
		t.Fatalf("newest entry should be the time log, got %s", activity[0].Kind)
	}
	if activity[0].Label != "Time logged: 1.5h on Journal case" {
		t.Fatalf("unexpected label %q", activity[0].Label)
	}
	if activity[2].Kind != domain.ActivityClientCreated {
		t.Fatalf("oldest entry should be the client creation, got %s", activity[2].Kind)
	}
}

func TestTransactionIsolation(t *testing.T) {
	s := newTestStore()
	wantErr := fmt.Errorf("abort")
	_, err := s.RunInTransaction(context.Background(), func(tx *Transaction) error {
		tx.CreateClient(domain.Client{Name: "Phantom"})
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("expected abort error, got %v", err)
	}
	if got := len(s.ExportState().Clients); got != 0 {
		t.Fatalf("aborted transaction leaked state: %d clients", got)
	}
}
