package domain

// StorageKey is the fixed key the persistence gateways read and write the
// snapshot under (file name stem, table bucket, or object key).
const StorageKey = "matter-workspace-state"

// Snapshot is the full serialized state of the store at a point in time.
// Slice order is preserved through persistence round-trips.
type Snapshot struct {
	Clients     []Client       `json:"clients"`
	Cases       []Case         `json:"cases"`
	Documents   []Document     `json:"documents"`
	Research    []ResearchItem `json:"research"`
	TimeEntries []TimeEntry    `json:"timeEntries"`
	Activity    []ActivityItem `json:"activity"`
}

// EmptySnapshot returns the pristine initial state.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Clients:     []Client{},
		Cases:       []Case{},
		Documents:   []Document{},
		Research:    []ResearchItem{},
		TimeEntries: []TimeEntry{},
		Activity:    []ActivityItem{},
	}
}

// Clone returns a deep copy sharing no mutable state with the receiver.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Clients:     make([]Client, len(s.Clients)),
		Cases:       make([]Case, len(s.Cases)),
		Documents:   make([]Document, len(s.Documents)),
		Research:    make([]ResearchItem, len(s.Research)),
		TimeEntries: make([]TimeEntry, len(s.TimeEntries)),
		Activity:    make([]ActivityItem, len(s.Activity)),
	}
	for i, c := range s.Clients {
		out.Clients[i] = CloneClient(c)
	}
	for i, c := range s.Cases {
		out.Cases[i] = CloneCase(c)
	}
	for i, d := range s.Documents {
		out.Documents[i] = CloneDocument(d)
	}
	for i, r := range s.Research {
		out.Research[i] = CloneResearch(r)
	}
	for i, t := range s.TimeEntries {
		out.TimeEntries[i] = t
	}
	for i, a := range s.Activity {
		out.Activity[i] = CloneActivity(a)
	}
	return out
}

// LiveCaseIDs returns the set of case ids present in the snapshot.
func (s Snapshot) LiveCaseIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(s.Cases))
	for _, c := range s.Cases {
		out[c.ID] = struct{}{}
	}
	return out
}

// CloneClient deep-copies a client.
func CloneClient(c Client) Client {
	c.CaseIDs = cloneStrings(c.CaseIDs)
	return c
}

// CloneCase deep-copies a case including its nested profile.
func CloneCase(c Case) Case {
	c.Team = cloneStrings(c.Team)
	c.Tags = cloneStrings(c.Tags)
	c.DocumentIDs = cloneStrings(c.DocumentIDs)
	c.ResearchIDs = cloneStrings(c.ResearchIDs)
	c.Restorative = CloneRestorativeProfile(c.Restorative)
	c.MockTrial = CloneMockTrialProfile(c.MockTrial)
	return c
}

// CloneRestorativeProfile deep-copies a restorative profile; nil stays nil.
func CloneRestorativeProfile(p *RestorativeProfile) *RestorativeProfile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Intake != nil {
		intake := *p.Intake
		cp.Intake = &intake
	}
	cp.Participants = append([]Participant(nil), p.Participants...)
	cp.Sessions = append([]RestorativeSession(nil), p.Sessions...)
	return &cp
}

// CloneMockTrialProfile deep-copies a mock-trial profile; nil stays nil.
func CloneMockTrialProfile(p *MockTrialProfile) *MockTrialProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Rounds = make([]MockTrialRound, len(p.Rounds))
	for i, r := range p.Rounds {
		r.JudgePanel = cloneStrings(r.JudgePanel)
		if r.Outcome != nil {
			outcome := *r.Outcome
			r.Outcome = &outcome
		}
		cp.Rounds[i] = r
	}
	return &cp
}

// CloneDocument deep-copies a document.
func CloneDocument(d Document) Document {
	d.CaseIDs = cloneStrings(d.CaseIDs)
	if d.ExternalRef != nil {
		ref := *d.ExternalRef
		d.ExternalRef = &ref
	}
	if d.Jurisdiction != nil {
		j := *d.Jurisdiction
		j.Rules = cloneStrings(j.Rules)
		d.Jurisdiction = &j
	}
	return d
}

// CloneResearch deep-copies a research item.
func CloneResearch(r ResearchItem) ResearchItem {
	r.CaseIDs = cloneStrings(r.CaseIDs)
	r.Analysts = cloneStrings(r.Analysts)
	r.Authorities = append([]Authority(nil), r.Authorities...)
	r.Tags = cloneStrings(r.Tags)
	return r
}

// CloneActivity deep-copies an activity entry.
func CloneActivity(a ActivityItem) ActivityItem {
	a.CaseIDs = cloneStrings(a.CaseIDs)
	return a
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
