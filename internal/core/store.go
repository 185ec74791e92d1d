package core

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"mattercore/pkg/domain"
)

// MemoryStore holds the live workspace graph and applies transitions to it.
// Every mutation runs through RunInTransaction against a deep copy of the
// state; the copy replaces the live state only after the transition function
// returns. Rules registered on the engine are evaluated over the resulting
// state and reported, never enforced; the transition operations themselves
// keep the graph's back-links consistent.
type MemoryStore struct {
	mu     sync.RWMutex
	state  domain.Snapshot
	engine *domain.RulesEngine
	nowFn  func() time.Time
	idFn   func() string
}

// NewMemoryStore constructs an empty store backed by the provided rules
// engine (nil for none).
func NewMemoryStore(engine *domain.RulesEngine) *MemoryStore {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &MemoryStore{
		state:  domain.EmptySnapshot(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
		idFn:   uuid.NewString,
	}
}

// ImportState replaces the live state with an already-normalized snapshot.
func (s *MemoryStore) ImportState(snapshot domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = snapshot.Clone()
}

// ExportState returns a deep copy of the live state.
func (s *MemoryStore) ExportState() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Transaction represents one transition applied to a copy of the store state.
type Transaction struct {
	store   *MemoryStore
	state   domain.Snapshot
	changes []domain.Change
	now     time.Time
}

// RunInTransaction executes fn within a transactional copy of the store
// state, evaluates registered rules over the result, and commits. fn errors
// abort the commit; rule violations do not.
func (s *MemoryStore) RunInTransaction(ctx context.Context, fn func(tx *Transaction) error) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Transaction{
		store: s,
		state: s.state.Clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return domain.Result{}, err
	}

	var result domain.Result
	if s.engine != nil {
		view := snapshotView{state: &tx.state}
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return domain.Result{}, err
		}
		result = res
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *MemoryStore) View(ctx context.Context, fn func(domain.RuleView) error) error {
	s.mu.RLock()
	snapshot := s.state.Clone()
	s.mu.RUnlock()
	return fn(snapshotView{state: &snapshot})
}

// Changed reports whether the transaction recorded any mutation.
func (tx *Transaction) Changed() bool { return len(tx.changes) > 0 }

func (tx *Transaction) recordChange(change domain.Change) {
	tx.changes = append(tx.changes, change)
}

func (tx *Transaction) logActivity(kind domain.ActivityKind, label string, caseIDs []string) {
	item := domain.ActivityItem{
		ID:        tx.store.idFn(),
		Kind:      kind,
		Label:     label,
		CaseIDs:   append([]string{}, caseIDs...),
		Timestamp: tx.now,
	}
	tx.state.Activity = appendActivity(tx.state.Activity, item)
}

// index helpers --------------------------------------------------------------

func (tx *Transaction) clientIndex(id string) int {
	for i := range tx.state.Clients {
		if tx.state.Clients[i].ID == id {
			return i
		}
	}
	return -1
}

func (tx *Transaction) caseIndex(id string) int {
	for i := range tx.state.Cases {
		if tx.state.Cases[i].ID == id {
			return i
		}
	}
	return -1
}

func (tx *Transaction) documentIndex(id string) int {
	for i := range tx.state.Documents {
		if tx.state.Documents[i].ID == id {
			return i
		}
	}
	return -1
}

func (tx *Transaction) researchIndex(id string) int {
	for i := range tx.state.Research {
		if tx.state.Research[i].ID == id {
			return i
		}
	}
	return -1
}

func (tx *Transaction) timeEntryIndex(id string) int {
	for i := range tx.state.TimeEntries {
		if tx.state.TimeEntries[i].ID == id {
			return i
		}
	}
	return -1
}

// client operations ----------------------------------------------------------

// CreateClient stores a new client. The caller never controls CaseIDs; the
// ownership set is maintained by case transitions alone.
func (tx *Transaction) CreateClient(c domain.Client) domain.Client {
	if c.ID == "" || tx.clientIndex(c.ID) >= 0 {
		c.ID = tx.store.idFn()
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	c.CaseIDs = []string{}
	tx.state.Clients = append(tx.state.Clients, domain.CloneClient(c))
	tx.recordChange(domain.Change{Entity: EntityClient, Action: ActionCreate, After: domain.CloneClient(c)})
	tx.logActivity(domain.ActivityClientCreated, "Client added: "+c.Name, nil)
	return domain.CloneClient(c)
}

// UpdateClient applies a partial patch to a client. A renamed client's name
// is propagated into the cached ClientName of every case it owns.
func (tx *Transaction) UpdateClient(id string, patch domain.ClientPatch) (domain.Client, bool) {
	idx := tx.clientIndex(id)
	if idx < 0 {
		return domain.Client{}, false
	}
	c := &tx.state.Clients[idx]
	before := domain.CloneClient(*c)

	patch.Name.Apply(&c.Name)
	patch.Organization.Apply(&c.Organization)
	patch.Email.Apply(&c.Email)
	patch.Phone.Apply(&c.Phone)
	patch.Notes.Apply(&c.Notes)
	c.UpdatedAt = tx.now

	if name, ok := patch.Name.Value(); ok && name != before.Name {
		for i := range tx.state.Cases {
			if tx.state.Cases[i].ClientID == id {
				tx.state.Cases[i].ClientName = name
			}
		}
	}

	tx.recordChange(domain.Change{Entity: EntityClient, Action: ActionUpdate, Before: before, After: domain.CloneClient(*c)})
	tx.logActivity(domain.ActivityClientUpdated, "Client updated: "+c.Name, nil)
	return domain.CloneClient(*c), true
}

// case operations ------------------------------------------------------------

// CreateCase stores a new case. Enum fields falling outside their sets take
// the documented defaults, the category profile is synthesized when missing,
// and an owning client (when resolvable) gains the back-link.
func (tx *Transaction) CreateCase(c domain.Case) domain.Case {
	if c.ID == "" || tx.caseIndex(c.ID) >= 0 {
		c.ID = tx.store.idFn()
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	c.DocumentIDs = []string{}
	c.ResearchIDs = []string{}
	if c.Team == nil {
		c.Team = []string{}
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if !domain.ValidCaseCategory(c.CaseType) {
		c.CaseType = domain.DefaultCategory
	}
	if !domain.ValidCaseStage(c.Stage) {
		c.Stage = domain.DefaultStage
	}
	if !domain.ValidCaseStatus(c.Status) {
		c.Status = domain.DefaultStatus
	}
	if !domain.ValidCasePriority(c.Priority) {
		c.Priority = domain.DefaultPriority
	}
	syncProfile(&c)

	if c.ClientID != "" {
		if ci := tx.clientIndex(c.ClientID); ci >= 0 {
			client := &tx.state.Clients[ci]
			client.CaseIDs = appendUnique(client.CaseIDs, c.ID)
			client.UpdatedAt = tx.now
			c.ClientName = client.Name
		} else {
			c.ClientID = ""
		}
	}

	tx.state.Cases = append(tx.state.Cases, domain.CloneCase(c))
	tx.recordChange(domain.Change{Entity: EntityCase, Action: ActionCreate, After: domain.CloneCase(c)})
	tx.logActivity(domain.ActivityCaseCreated, "Case opened: "+c.Title, []string{c.ID})
	return domain.CloneCase(c)
}

// UpdateCase applies a partial patch. Ownership moves (ClientID set or
// cleared) reconcile the old and new client's CaseIDs in the same transition.
func (tx *Transaction) UpdateCase(id string, patch domain.CasePatch) (domain.Case, bool) {
	idx := tx.caseIndex(id)
	if idx < 0 {
		return domain.Case{}, false
	}
	c := &tx.state.Cases[idx]
	before := domain.CloneCase(*c)

	patch.MatterNumber.Apply(&c.MatterNumber)
	patch.Title.Apply(&c.Title)
	patch.PracticeArea.Apply(&c.PracticeArea)
	patch.LeadOwner.Apply(&c.LeadOwner)
	patch.OpenDate.Apply(&c.OpenDate)
	patch.NextDeadline.Apply(&c.NextDeadline)
	patch.Description.Apply(&c.Description)
	patch.RiskNotes.Apply(&c.RiskNotes)
	patch.Program.Apply(&c.Program)
	if team, ok := patch.Team.Value(); ok {
		c.Team = append([]string{}, team...)
	}
	if tags, ok := patch.Tags.Value(); ok {
		c.Tags = append([]string{}, tags...)
	}
	if v, ok := patch.Stage.Value(); ok && domain.ValidCaseStage(v) {
		c.Stage = v
	}
	if v, ok := patch.Status.Value(); ok && domain.ValidCaseStatus(v) {
		c.Status = v
	}
	if v, ok := patch.Priority.Value(); ok && domain.ValidCasePriority(v) {
		c.Priority = v
	}

	if patch.ClientID.Defined() {
		newID, _ := patch.ClientID.Value()
		tx.moveCaseOwnership(c, newID)
	}
	// Explicit display-name patch wins over the name adopted from a new
	// owner. Clear empties the cached name without touching ownership.
	if patch.ClientName.Defined() {
		name, _ := patch.ClientName.Value()
		c.ClientName = name
	}

	c.UpdatedAt = tx.now
	tx.recordChange(domain.Change{Entity: EntityCase, Action: ActionUpdate, Before: before, After: domain.CloneCase(*c)})
	tx.logActivity(domain.ActivityCaseUpdated, "Case updated: "+c.Title, []string{c.ID})
	return domain.CloneCase(*c), true
}

// moveCaseOwnership relinks a case to newClientID ("" detaches). The cached
// ClientName follows the new owner but survives a detach. Unknown client ids
// leave ownership untouched.
func (tx *Transaction) moveCaseOwnership(c *domain.Case, newClientID string) {
	if newClientID == c.ClientID {
		return
	}
	var target *domain.Client
	if newClientID != "" {
		ci := tx.clientIndex(newClientID)
		if ci < 0 {
			return
		}
		target = &tx.state.Clients[ci]
	}
	if c.ClientID != "" {
		if prev := tx.clientIndex(c.ClientID); prev >= 0 {
			tx.state.Clients[prev].CaseIDs = removeString(tx.state.Clients[prev].CaseIDs, c.ID)
			tx.state.Clients[prev].UpdatedAt = tx.now
		}
	}
	if target == nil {
		c.ClientID = ""
		return
	}
	target.CaseIDs = appendUnique(target.CaseIDs, c.ID)
	target.UpdatedAt = tx.now
	c.ClientID = newClientID
	c.ClientName = target.Name
}

// document operations --------------------------------------------------------

// CreateDocument stores a new document, linking it to every live case in its
// CaseIDs set (dead references are dropped up front).
func (tx *Transaction) CreateDocument(d domain.Document) domain.Document {
	if d.ID == "" || tx.documentIndex(d.ID) >= 0 {
		d.ID = tx.store.idFn()
	}
	d.CreatedAt = tx.now
	d.UpdatedAt = tx.now
	if !domain.ValidDocumentStatus(d.Status) {
		d.Status = domain.DocumentDrafting
	}
	if d.ExternalRef != nil && !domain.ValidExternalDocKind(d.ExternalRef.Kind) {
		d.ExternalRef.Kind = domain.ExternalDoc
	}
	d.CaseIDs = tx.liveCaseIDs(d.CaseIDs)
	for _, caseID := range d.CaseIDs {
		ci := tx.caseIndex(caseID)
		tx.state.Cases[ci].DocumentIDs = appendUnique(tx.state.Cases[ci].DocumentIDs, d.ID)
	}

	tx.state.Documents = append(tx.state.Documents, domain.CloneDocument(d))
	tx.recordChange(domain.Change{Entity: EntityDocument, Action: ActionCreate, After: domain.CloneDocument(d)})
	tx.logActivity(domain.ActivityDocumentCreated, "Document added: "+d.Title, d.CaseIDs)
	return domain.CloneDocument(d)
}

// UpdateDocument applies a partial patch. A supplied CaseIDs set is
// reconciled in both directions: cases dropped from the set lose the
// back-link, newly referenced cases gain it.
func (tx *Transaction) UpdateDocument(id string, patch domain.DocumentPatch) (domain.Document, bool) {
	idx := tx.documentIndex(id)
	if idx < 0 {
		return domain.Document{}, false
	}
	d := &tx.state.Documents[idx]
	before := domain.CloneDocument(*d)

	patch.Title.Apply(&d.Title)
	patch.Type.Apply(&d.Type)
	patch.Owner.Apply(&d.Owner)
	patch.DueDate.Apply(&d.DueDate)
	patch.Version.Apply(&d.Version)
	patch.LastTouchedBy.Apply(&d.LastTouchedBy)
	patch.Summary.Apply(&d.Summary)
	patch.ExternalRef.Apply(&d.ExternalRef)
	patch.Jurisdiction.Apply(&d.Jurisdiction)
	if v, ok := patch.Status.Value(); ok && domain.ValidDocumentStatus(v) {
		d.Status = v
	}
	if ids, ok := patch.CaseIDs.Value(); ok {
		next := tx.liveCaseIDs(ids)
		tx.relinkCases(d.CaseIDs, next, id, backlinkDocuments)
		d.CaseIDs = next
	}

	d.UpdatedAt = tx.now
	tx.recordChange(domain.Change{Entity: EntityDocument, Action: ActionUpdate, Before: before, After: domain.CloneDocument(*d)})
	tx.logActivity(domain.ActivityDocumentUpdated, "Document updated: "+d.Title, d.CaseIDs)
	return domain.CloneDocument(*d), true
}

// research operations --------------------------------------------------------

// CreateResearch stores a new research item with the same case-link handling
// as documents.
func (tx *Transaction) CreateResearch(r domain.ResearchItem) domain.ResearchItem {
	if r.ID == "" || tx.researchIndex(r.ID) >= 0 {
		r.ID = tx.store.idFn()
	}
	r.CreatedAt = tx.now
	r.UpdatedAt = tx.now
	if !domain.ValidResearchStatus(r.Status) {
		r.Status = domain.ResearchInProgress
	}
	if r.Analysts == nil {
		r.Analysts = []string{}
	}
	if r.Authorities == nil {
		r.Authorities = []domain.Authority{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	r.CaseIDs = tx.liveCaseIDs(r.CaseIDs)
	for _, caseID := range r.CaseIDs {
		ci := tx.caseIndex(caseID)
		tx.state.Cases[ci].ResearchIDs = appendUnique(tx.state.Cases[ci].ResearchIDs, r.ID)
	}

	tx.state.Research = append(tx.state.Research, domain.CloneResearch(r))
	tx.recordChange(domain.Change{Entity: EntityResearch, Action: ActionCreate, After: domain.CloneResearch(r)})
	tx.logActivity(domain.ActivityResearchCreated, "Research added: "+r.Title, r.CaseIDs)
	return domain.CloneResearch(r)
}

// UpdateResearch applies a partial patch with bidirectional case-link
// reconciliation.
func (tx *Transaction) UpdateResearch(id string, patch domain.ResearchPatch) (domain.ResearchItem, bool) {
	idx := tx.researchIndex(id)
	if idx < 0 {
		return domain.ResearchItem{}, false
	}
	r := &tx.state.Research[idx]
	before := domain.CloneResearch(*r)

	patch.Title.Apply(&r.Title)
	patch.Issue.Apply(&r.Issue)
	patch.Jurisdiction.Apply(&r.Jurisdiction)
	patch.NextAction.Apply(&r.NextAction)
	patch.Summary.Apply(&r.Summary)
	if v, ok := patch.Status.Value(); ok && domain.ValidResearchStatus(v) {
		r.Status = v
	}
	if v, ok := patch.Analysts.Value(); ok {
		r.Analysts = append([]string{}, v...)
	}
	if v, ok := patch.Authorities.Value(); ok {
		r.Authorities = append([]domain.Authority{}, v...)
	}
	if v, ok := patch.Tags.Value(); ok {
		r.Tags = append([]string{}, v...)
	}
	if ids, ok := patch.CaseIDs.Value(); ok {
		next := tx.liveCaseIDs(ids)
		tx.relinkCases(r.CaseIDs, next, id, backlinkResearch)
		r.CaseIDs = next
	}

	r.UpdatedAt = tx.now
	tx.recordChange(domain.Change{Entity: EntityResearch, Action: ActionUpdate, Before: before, After: domain.CloneResearch(*r)})
	tx.logActivity(domain.ActivityResearchUpdated, "Research updated: "+r.Title, r.CaseIDs)
	return domain.CloneResearch(*r), true
}

// time operations ------------------------------------------------------------

// LogTime stores a new time entry. The target case must exist; otherwise the
// call is a silent no-op.
func (tx *Transaction) LogTime(t domain.TimeEntry) (domain.TimeEntry, bool) {
	ci := tx.caseIndex(t.CaseID)
	if ci < 0 {
		return domain.TimeEntry{}, false
	}
	if t.ID == "" || tx.timeEntryIndex(t.ID) >= 0 {
		t.ID = tx.store.idFn()
	}
	t.CreatedAt = tx.now
	t.UpdatedAt = tx.now
	t.CaseName = tx.state.Cases[ci].Title
	if t.Hours < 0 {
		t.Hours = 0
	}
	if !domain.ValidTimeEntryStatus(t.Status) {
		t.Status = domain.TimeDraft
	}

	tx.state.TimeEntries = append(tx.state.TimeEntries, t)
	tx.recordChange(domain.Change{Entity: EntityTimeEntry, Action: ActionCreate, After: t})
	label := "Time logged: " + strconv.FormatFloat(t.Hours, 'f', -1, 64) + "h on " + t.CaseName
	tx.logActivity(domain.ActivityTimeLogged, label, []string{t.CaseID})
	return t, true
}

// UpdateTimeEntry applies a partial patch. Moving the entry to another case
// is honored only when that case exists and refreshes the cached case name.
func (tx *Transaction) UpdateTimeEntry(id string, patch domain.TimeEntryPatch) (domain.TimeEntry, bool) {
	idx := tx.timeEntryIndex(id)
	if idx < 0 {
		return domain.TimeEntry{}, false
	}
	t := &tx.state.TimeEntries[idx]
	before := *t

	if caseID, ok := patch.CaseID.Value(); ok && caseID != t.CaseID {
		if ci := tx.caseIndex(caseID); ci >= 0 {
			t.CaseID = caseID
			t.CaseName = tx.state.Cases[ci].Title
		}
	}
	patch.Author.Apply(&t.Author)
	patch.Activity.Apply(&t.Activity)
	patch.Date.Apply(&t.Date)
	patch.Notes.Apply(&t.Notes)
	if h, ok := patch.Hours.Value(); ok && h >= 0 {
		t.Hours = h
	}
	if v, ok := patch.Status.Value(); ok && domain.ValidTimeEntryStatus(v) {
		t.Status = v
	}

	t.UpdatedAt = tx.now
	tx.recordChange(domain.Change{Entity: EntityTimeEntry, Action: ActionUpdate, Before: before, After: *t})
	tx.logActivity(domain.ActivityTimeLogged, "Time entry updated: "+t.CaseName, []string{t.CaseID})
	return *t, true
}

// profile operations ---------------------------------------------------------

// SaveRestorativeProfile replaces the restorative profile on a case. The case
// must exist and carry the restorative category; otherwise nothing happens.
func (tx *Transaction) SaveRestorativeProfile(caseID string, p domain.RestorativeProfile) (domain.Case, bool) {
	idx := tx.caseIndex(caseID)
	if idx < 0 || tx.state.Cases[idx].CaseType != domain.CaseRestorative {
		return domain.Case{}, false
	}
	c := &tx.state.Cases[idx]
	before := domain.CloneCase(*c)

	sanitizeRestorativeProfile(&p)
	c.Restorative = domain.CloneRestorativeProfile(&p)
	c.UpdatedAt = tx.now

	tx.recordChange(domain.Change{Entity: EntityCase, Action: ActionUpdate, Before: before, After: domain.CloneCase(*c)})
	tx.logActivity(domain.ActivityCaseUpdated, "Restorative profile saved: "+c.Title, []string{c.ID})
	return domain.CloneCase(*c), true
}

// AppendRestorativeSession appends a session to a restorative case's
// profile, synthesizing an empty profile first if none exists.
func (tx *Transaction) AppendRestorativeSession(caseID string, session domain.RestorativeSession) (domain.Case, bool) {
	idx := tx.caseIndex(caseID)
	if idx < 0 || tx.state.Cases[idx].CaseType != domain.CaseRestorative {
		return domain.Case{}, false
	}
	c := &tx.state.Cases[idx]
	before := domain.CloneCase(*c)

	if c.Restorative == nil {
		c.Restorative = domain.EmptyRestorativeProfile()
	}
	c.Restorative.Sessions = append(c.Restorative.Sessions, session)
	c.UpdatedAt = tx.now

	tx.recordChange(domain.Change{Entity: EntityCase, Action: ActionUpdate, Before: before, After: domain.CloneCase(*c)})
	tx.logActivity(domain.ActivityCaseUpdated, "Restorative session logged: "+c.Title, []string{c.ID})
	return domain.CloneCase(*c), true
}

// ScheduleMockTrialRound appends an unscored round to a mock-trial case's
// profile. The round id is assigned when absent.
func (tx *Transaction) ScheduleMockTrialRound(caseID string, round domain.MockTrialRound) (domain.MockTrialRound, bool) {
	idx := tx.caseIndex(caseID)
	if idx < 0 || tx.state.Cases[idx].CaseType != domain.CaseMockTrial {
		return domain.MockTrialRound{}, false
	}
	c := &tx.state.Cases[idx]
	before := domain.CloneCase(*c)

	if c.MockTrial == nil {
		c.MockTrial = domain.EmptyMockTrialProfile()
	}
	if round.ID == "" {
		round.ID = tx.store.idFn()
	}
	if round.JudgePanel == nil {
		round.JudgePanel = []string{}
	}
	round.Outcome = nil
	c.MockTrial.Rounds = append(c.MockTrial.Rounds, round)
	c.UpdatedAt = tx.now

	tx.recordChange(domain.Change{Entity: EntityCase, Action: ActionUpdate, Before: before, After: domain.CloneCase(*c)})
	tx.logActivity(domain.ActivityCaseUpdated, "Round scheduled: "+round.Name+" - "+c.Title, []string{c.ID})
	return c.MockTrial.Rounds[len(c.MockTrial.Rounds)-1], true
}

// ScoreMockTrialRound records the outcome of a previously scheduled round.
// Unknown case or round ids leave the state untouched.
func (tx *Transaction) ScoreMockTrialRound(caseID, roundID string, outcome domain.RoundOutcome) (domain.MockTrialRound, bool) {
	idx := tx.caseIndex(caseID)
	if idx < 0 || tx.state.Cases[idx].CaseType != domain.CaseMockTrial || tx.state.Cases[idx].MockTrial == nil {
		return domain.MockTrialRound{}, false
	}
	c := &tx.state.Cases[idx]
	ri := -1
	for i := range c.MockTrial.Rounds {
		if c.MockTrial.Rounds[i].ID == roundID {
			ri = i
			break
		}
	}
	if ri < 0 {
		return domain.MockTrialRound{}, false
	}
	before := domain.CloneCase(*c)

	c.MockTrial.Rounds[ri].Outcome = &outcome
	c.UpdatedAt = tx.now

	tx.recordChange(domain.Change{Entity: EntityCase, Action: ActionUpdate, Before: before, After: domain.CloneCase(*c)})
	tx.logActivity(domain.ActivityCaseUpdated, "Round scored: "+c.MockTrial.Rounds[ri].Name+" - "+c.Title, []string{c.ID})
	return c.MockTrial.Rounds[ri], true
}

// shared helpers -------------------------------------------------------------

// syncProfile makes the nested profile agree with the case category: the
// matching profile exists (synthesized empty when absent), the other is nil.
func syncProfile(c *domain.Case) {
	switch c.CaseType {
	case domain.CaseRestorative:
		if c.Restorative == nil {
			c.Restorative = domain.EmptyRestorativeProfile()
		}
		c.MockTrial = nil
	case domain.CaseMockTrial:
		if c.MockTrial == nil {
			c.MockTrial = domain.EmptyMockTrialProfile()
		}
		c.Restorative = nil
	default:
		c.Restorative = nil
		c.MockTrial = nil
	}
}

func sanitizeRestorativeProfile(p *domain.RestorativeProfile) {
	if p.Participants == nil {
		p.Participants = []domain.Participant{}
	}
	if p.Sessions == nil {
		p.Sessions = []domain.RestorativeSession{}
	}
	if !domain.ValidFormStatus(p.Forms.Consent) {
		p.Forms.Consent = domain.FormPending
	}
	if !domain.ValidFormStatus(p.Forms.SafetyPlan) {
		p.Forms.SafetyPlan = domain.FormPending
	}
	if !domain.ValidFormStatus(p.Forms.MediaRelease) {
		p.Forms.MediaRelease = domain.FormPending
	}
}

// liveCaseIDs filters ids down to cases present in the transaction state,
// dropping duplicates while preserving order.
func (tx *Transaction) liveCaseIDs(ids []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if tx.caseIndex(id) >= 0 {
			out = append(out, id)
		}
	}
	return out
}

type backlinkSet uint8

const (
	backlinkDocuments backlinkSet = iota
	backlinkResearch
)

// relinkCases moves the back-link refID between the case link sets implied by
// prev and next.
func (tx *Transaction) relinkCases(prev, next []string, refID string, set backlinkSet) {
	nextSet := make(map[string]struct{}, len(next))
	for _, id := range next {
		nextSet[id] = struct{}{}
	}
	for _, id := range prev {
		if _, keep := nextSet[id]; keep {
			continue
		}
		if ci := tx.caseIndex(id); ci >= 0 {
			c := &tx.state.Cases[ci]
			if set == backlinkDocuments {
				c.DocumentIDs = removeString(c.DocumentIDs, refID)
			} else {
				c.ResearchIDs = removeString(c.ResearchIDs, refID)
			}
		}
	}
	prevSet := make(map[string]struct{}, len(prev))
	for _, id := range prev {
		prevSet[id] = struct{}{}
	}
	for _, id := range next {
		if _, had := prevSet[id]; had {
			continue
		}
		ci := tx.caseIndex(id)
		c := &tx.state.Cases[ci]
		if set == backlinkDocuments {
			c.DocumentIDs = appendUnique(c.DocumentIDs, refID)
		} else {
			c.ResearchIDs = appendUnique(c.ResearchIDs, refID)
		}
	}
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeString(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
