package domain

type fieldOp uint8

const (
	fieldUnchanged fieldOp = iota
	fieldClear
	fieldSet
)

// Field carries one field of a partial update. Its zero value leaves the
// target untouched; Set supplies a new value; Clear resets the target to its
// zero value. The three states are distinct: a cleared field is not the same
// as an omitted one.
type Field[T any] struct {
	op    fieldOp
	value T
}

// Set returns a field that assigns v.
func Set[T any](v T) Field[T] { return Field[T]{op: fieldSet, value: v} }

// Clear returns a field that resets the target to its zero value.
func Clear[T any]() Field[T] { return Field[T]{op: fieldClear} }

// IsSet reports whether the field assigns a value.
func (f Field[T]) IsSet() bool { return f.op == fieldSet }

// IsClear reports whether the field clears the target.
func (f Field[T]) IsClear() bool { return f.op == fieldClear }

// Defined reports whether the field changes the target at all.
func (f Field[T]) Defined() bool { return f.op != fieldUnchanged }

// Value returns the assigned value and whether one was set.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.op == fieldSet
}

// Apply writes the field onto target according to its state.
func (f Field[T]) Apply(target *T) {
	switch f.op {
	case fieldSet:
		*target = f.value
	case fieldClear:
		var zero T
		*target = zero
	}
}

// ClientPatch is a partial update for a client.
type ClientPatch struct {
	Name         Field[string]
	Organization Field[string]
	Email        Field[string]
	Phone        Field[string]
	Notes        Field[string]
}

// CasePatch is a partial update for a case.
//
// ClientID moves case ownership: Set links the case to another client (and
// refreshes the cached name), Clear detaches it without touching the cached
// name. ClientName updates only the display cache and never changes
// ownership. NextDeadline and RiskNotes honor Clear as "field removed".
type CasePatch struct {
	MatterNumber Field[string]
	Title        Field[string]
	ClientID     Field[string]
	ClientName   Field[string]
	Stage        Field[CaseStage]
	Status       Field[CaseStatus]
	Priority     Field[CasePriority]
	PracticeArea Field[string]
	LeadOwner    Field[string]
	Team         Field[[]string]
	OpenDate     Field[string]
	NextDeadline Field[string]
	Description  Field[string]
	Tags         Field[[]string]
	RiskNotes    Field[string]
	Program      Field[string]
}

// DocumentPatch is a partial update for a document. Setting CaseIDs
// reconciles case back-links in both directions.
type DocumentPatch struct {
	CaseIDs       Field[[]string]
	Title         Field[string]
	Type          Field[string]
	Owner         Field[string]
	DueDate       Field[string]
	Status        Field[DocumentStatus]
	Version       Field[string]
	LastTouchedBy Field[string]
	Summary       Field[string]
	ExternalRef   Field[*ExternalDocRef]
	Jurisdiction  Field[*JurisdictionInfo]
}

// ResearchPatch is a partial update for a research item.
type ResearchPatch struct {
	CaseIDs      Field[[]string]
	Title        Field[string]
	Issue        Field[string]
	Jurisdiction Field[string]
	Status       Field[ResearchStatus]
	NextAction   Field[string]
	Analysts     Field[[]string]
	Summary      Field[string]
	Authorities  Field[[]Authority]
	Tags         Field[[]string]
}

// TimeEntryPatch is a partial update for a time entry. Setting CaseID is
// honored only when the target case exists; the cached case name follows.
type TimeEntryPatch struct {
	CaseID   Field[string]
	Author   Field[string]
	Activity Field[string]
	Hours    Field[float64]
	Date     Field[string]
	Status   Field[TimeEntryStatus]
	Notes    Field[string]
}
