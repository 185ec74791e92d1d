package core

import (
	"sort"

	"mattercore/pkg/domain"
)

// appendActivity prepends item to the journal, keeps it newest-first, and
// trims it to domain.ActivityLimit entries. Entries past the bound are gone
// for good; the journal is derived data, not an archive.
func appendActivity(journal []domain.ActivityItem, item domain.ActivityItem) []domain.ActivityItem {
	out := make([]domain.ActivityItem, 0, len(journal)+1)
	out = append(out, item)
	out = append(out, journal...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > domain.ActivityLimit {
		out = out[:domain.ActivityLimit]
	}
	return out
}
