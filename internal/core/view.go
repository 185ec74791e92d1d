package core

import "mattercore/pkg/domain"

// snapshotView adapts a Snapshot to the domain.RuleView contract. Accessors
// return clones so rules cannot mutate transactional state.
type snapshotView struct {
	state *domain.Snapshot
}

var _ domain.RuleView = snapshotView{}

func (v snapshotView) Clients() []domain.Client {
	out := make([]domain.Client, len(v.state.Clients))
	for i, c := range v.state.Clients {
		out[i] = domain.CloneClient(c)
	}
	return out
}

func (v snapshotView) Cases() []domain.Case {
	out := make([]domain.Case, len(v.state.Cases))
	for i, c := range v.state.Cases {
		out[i] = domain.CloneCase(c)
	}
	return out
}

func (v snapshotView) Documents() []domain.Document {
	out := make([]domain.Document, len(v.state.Documents))
	for i, d := range v.state.Documents {
		out[i] = domain.CloneDocument(d)
	}
	return out
}

func (v snapshotView) Research() []domain.ResearchItem {
	out := make([]domain.ResearchItem, len(v.state.Research))
	for i, r := range v.state.Research {
		out[i] = domain.CloneResearch(r)
	}
	return out
}

func (v snapshotView) TimeEntries() []domain.TimeEntry {
	return append([]domain.TimeEntry{}, v.state.TimeEntries...)
}

func (v snapshotView) Activity() []domain.ActivityItem {
	out := make([]domain.ActivityItem, len(v.state.Activity))
	for i, a := range v.state.Activity {
		out[i] = domain.CloneActivity(a)
	}
	return out
}

func (v snapshotView) FindClient(id string) (domain.Client, bool) {
	for _, c := range v.state.Clients {
		if c.ID == id {
			return domain.CloneClient(c), true
		}
	}
	return domain.Client{}, false
}

func (v snapshotView) FindCase(id string) (domain.Case, bool) {
	for _, c := range v.state.Cases {
		if c.ID == id {
			return domain.CloneCase(c), true
		}
	}
	return domain.Case{}, false
}
