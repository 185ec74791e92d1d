// Package domain defines the persistent entities, value types, and rule
// evaluation primitives of the matter-tracking workspace store.
//
// JSON tags mirror the persisted snapshot format (camelCase, top-level
// arrays) so that previously written snapshots round-trip unchanged.
package domain

import "time"

// EntityType identifies the kind of record stored in the workspace graph.
type EntityType string

// Supported entity type identifiers used in Change records and audit entries.
const (
	// EntityClient identifies a client record.
	EntityClient EntityType = "client"
	// EntityCase identifies a case (matter) record.
	EntityCase EntityType = "case"
	// EntityDocument identifies a document record.
	EntityDocument EntityType = "document"
	// EntityResearch identifies a research item record.
	EntityResearch EntityType = "research"
	// EntityTimeEntry identifies a time entry record.
	EntityTimeEntry EntityType = "time_entry"
)

// CaseCategory tags the variant of work a case represents.
type CaseCategory string

// Case categories determine which nested profile a case carries.
const (
	CaseLegal       CaseCategory = "legal"
	CaseRestorative CaseCategory = "restorative"
	CaseMockTrial   CaseCategory = "mock_trial"
)

// CaseStage is the workflow stage of a case. The set is flat: any stage may
// follow any other, validity is membership only.
type CaseStage string

// Workflow stages. There is intentionally no ordering or transition graph.
const (
	StageIntake        CaseStage = "intake"
	StageInvestigation CaseStage = "investigation"
	StageDiscovery     CaseStage = "discovery"
	StageBriefing      CaseStage = "briefing"
	StageHearing       CaseStage = "hearing"
	StageAppeal        CaseStage = "appeal"
	StageClosed        CaseStage = "closed"
)

// CaseStatus captures whether a matter is being actively worked.
type CaseStatus string

// Case statuses.
const (
	StatusActive CaseStatus = "active"
	StatusOnHold CaseStatus = "on_hold"
	StatusClosed CaseStatus = "closed"
)

// CasePriority ranks matters for triage views.
type CasePriority string

// Case priorities.
const (
	PriorityLow    CasePriority = "low"
	PriorityMedium CasePriority = "medium"
	PriorityHigh   CasePriority = "high"
)

// Defaults applied when a persisted or supplied value fails membership checks.
const (
	DefaultStage    = StageIntake
	DefaultStatus   = StatusActive
	DefaultPriority = PriorityMedium
	DefaultCategory = CaseLegal
)

// DocumentStatus enumerates the drafting workflow of a document.
type DocumentStatus string

// Document statuses.
const (
	DocumentDrafting  DocumentStatus = "Drafting"
	DocumentInReview  DocumentStatus = "In Review"
	DocumentFinalized DocumentStatus = "Finalized"
)

// ExternalDocKind labels the editor surface behind an external document link.
type ExternalDocKind string

// External document kinds.
const (
	ExternalDoc     ExternalDocKind = "doc"
	ExternalSheet   ExternalDocKind = "sheet"
	ExternalSlide   ExternalDocKind = "slide"
	ExternalForm    ExternalDocKind = "form"
	ExternalDrawing ExternalDocKind = "drawing"
)

// ResearchStatus enumerates the research workflow states.
type ResearchStatus string

// Research statuses.
const (
	ResearchInProgress  ResearchStatus = "In Progress"
	ResearchNeedsUpdate ResearchStatus = "Needs Update"
	ResearchReady       ResearchStatus = "Ready for Briefing"
)

// TimeEntryStatus enumerates billing workflow states for logged time.
type TimeEntryStatus string

// Time entry statuses.
const (
	TimeDraft     TimeEntryStatus = "Draft"
	TimeSubmitted TimeEntryStatus = "Submitted"
	TimeApproved  TimeEntryStatus = "Approved"
)

// ActivityKind is the closed set of events the activity journal records.
type ActivityKind string

// Activity kinds.
const (
	ActivityClientCreated   ActivityKind = "client_created"
	ActivityClientUpdated   ActivityKind = "client_updated"
	ActivityCaseCreated     ActivityKind = "case_created"
	ActivityCaseUpdated     ActivityKind = "case_updated"
	ActivityDocumentCreated ActivityKind = "document_created"
	ActivityDocumentUpdated ActivityKind = "document_updated"
	ActivityResearchCreated ActivityKind = "research_created"
	ActivityResearchUpdated ActivityKind = "research_updated"
	ActivityTimeLogged      ActivityKind = "time_logged"
)

// ActivityLimit bounds the journal; older entries are discarded, not archived.
const ActivityLimit = 25

// Base contains common fields for all workspace records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Client represents a person or organization that owns matters.
//
// CaseIDs is maintained by the transition engine and the normalizer only; it
// always mirrors the set of cases whose ClientID points here.
type Client struct {
	Base
	Name         string   `json:"name"`
	Organization string   `json:"organization,omitempty"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	CaseIDs      []string `json:"caseIds"`
}

// Case is the central work-tracking record. Depending on CaseType it carries
// at most one of the two nested profiles; the other is always nil.
type Case struct {
	Base
	MatterNumber string       `json:"matterNumber"`
	Title        string       `json:"title"`
	ClientID     string       `json:"clientId,omitempty"`
	ClientName   string       `json:"client,omitempty"` // display cache; identity is ClientID
	CaseType     CaseCategory `json:"caseType"`
	Stage        CaseStage    `json:"stage"`
	Status       CaseStatus   `json:"status"`
	PracticeArea string       `json:"practiceArea,omitempty"`
	LeadOwner    string       `json:"leadOwner,omitempty"`
	Team         []string     `json:"team"`
	OpenDate     string       `json:"openDate,omitempty"`
	NextDeadline string       `json:"nextDeadline,omitempty"`
	Description  string       `json:"description,omitempty"`
	Priority     CasePriority `json:"priority"`
	Tags         []string     `json:"tags"`
	RiskNotes    string       `json:"riskNotes,omitempty"`
	Program      string       `json:"program,omitempty"`
	DocumentIDs  []string     `json:"documentIds"`
	ResearchIDs  []string     `json:"researchIds"`

	Restorative *RestorativeProfile `json:"restorativeProfile,omitempty"`
	MockTrial   *MockTrialProfile   `json:"mockTrialProfile,omitempty"`
}

// Document is a work product linked to one or more cases. A document left
// with no case links is orphaned and pruned at load time.
type Document struct {
	Base
	CaseIDs       []string          `json:"caseIds"`
	Title         string            `json:"title"`
	Type          string            `json:"type"`
	Owner         string            `json:"owner,omitempty"`
	DueDate       string            `json:"dueDate,omitempty"`
	Status        DocumentStatus    `json:"status"`
	Version       string            `json:"version,omitempty"`
	LastTouchedBy string            `json:"lastTouchedBy,omitempty"`
	Summary       string            `json:"summary,omitempty"`
	ExternalRef   *ExternalDocRef   `json:"externalRef,omitempty"`
	Jurisdiction  *JurisdictionInfo `json:"jurisdiction,omitempty"`
}

// ExternalDocRef links a document to an external editable surface.
type ExternalDocRef struct {
	URL  string          `json:"url"`
	Kind ExternalDocKind `json:"kind"`
}

// JurisdictionInfo describes where a document will be filed and under which
// rules.
type JurisdictionInfo struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Rules      []string `json:"rules"`
	FilingNote string   `json:"filingNote,omitempty"`
}

// ResearchItem tracks a legal research thread linked to one or more cases.
// Same orphan-pruning behavior as Document.
type ResearchItem struct {
	Base
	CaseIDs      []string       `json:"caseIds"`
	Title        string         `json:"title"`
	Issue        string         `json:"issue,omitempty"`
	Jurisdiction string         `json:"jurisdiction,omitempty"`
	Status       ResearchStatus `json:"status"`
	NextAction   string         `json:"nextAction,omitempty"`
	Analysts     []string       `json:"analysts"`
	Summary      string         `json:"summary,omitempty"`
	Authorities  []Authority    `json:"authorities"`
	Tags         []string       `json:"tags"`
}

// Authority cites a source relied on by a research item.
type Authority struct {
	Citation string `json:"citation"`
	Court    string `json:"court,omitempty"`
	Holding  string `json:"holding,omitempty"`
}

// TimeEntry records work logged against a case. CaseName is a display
// snapshot taken when the entry is written; CaseID is authoritative.
type TimeEntry struct {
	Base
	CaseID   string          `json:"caseId"`
	CaseName string          `json:"caseName,omitempty"`
	Author   string          `json:"author,omitempty"`
	Activity string          `json:"activity"`
	Hours    float64         `json:"hours"`
	Date     string          `json:"date,omitempty"`
	Status   TimeEntryStatus `json:"status"`
	Notes    string          `json:"notes,omitempty"`
}

// ActivityItem is one journal entry. The journal is derived data, bounded to
// ActivityLimit entries newest first; it is never authoritative.
type ActivityItem struct {
	ID        string       `json:"id"`
	Kind      ActivityKind `json:"kind"`
	Label     string       `json:"label"`
	CaseIDs   []string     `json:"caseIds"`
	Timestamp time.Time    `json:"timestamp"`
}
