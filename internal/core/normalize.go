package core

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"mattercore/pkg/domain"
)

// Demo fixtures shipped with early builds. Once a snapshot has been written
// they must never resurface, so the normalizer drops them by id and, for
// robustness against edits, by folded display name.
var (
	placeholderClientIDs = map[string]struct{}{
		"client-1": {},
		"client-2": {},
		"client-3": {},
	}
	placeholderClientNames = map[string]struct{}{
		"jordan avery":                       {},
		"riverside neighborhood association": {},
		"harbor point holdings":              {},
	}
	placeholderCaseIDs = map[string]struct{}{
		"case-1": {},
		"case-2": {},
		"case-3": {},
	}
	placeholderCaseNames = map[string]struct{}{
		"avery v harbor point holdings": {},
		"riverside community mediation": {},
		"state v rivera mock trial":     {},
	}
)

// Normalizer converts an untrusted persisted snapshot into a valid graph. It
// never fails: malformed records are skipped, malformed fields degrade to
// documented defaults, and dangling references are repaired or dropped.
type Normalizer struct {
	nowFn func() time.Time
	idFn  func() string
}

// NewNormalizer returns a normalizer using wall-clock time and random ids.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		nowFn: func() time.Time { return time.Now().UTC() },
		idFn:  uuid.NewString,
	}
}

// Normalize reconstructs a snapshot from raw persisted bytes. Any input that
// is not a JSON object yields the pristine empty state.
func (n *Normalizer) Normalize(raw []byte) domain.Snapshot {
	state := domain.EmptySnapshot()
	if len(raw) == 0 {
		return state
	}
	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil || root == nil {
		return state
	}
	now := n.nowFn()

	clientsRaw := rawObjects(root["clients"])
	casesRaw := rawObjects(root["cases"])
	documentsRaw := rawObjects(root["documents"])
	researchRaw := rawObjects(root["research"])
	timeRaw := rawObjects(root["timeEntries"])
	activityRaw := rawObjects(root["activity"])

	state.Clients = n.rebuildClients(clientsRaw, now)
	state.Cases = n.rebuildCases(casesRaw, now)
	n.resolveCaseClients(&state, now)

	live := state.LiveCaseIDs()
	owners := map[string]string{}
	for _, c := range state.Cases {
		owners[c.ID] = c.ClientID
	}
	for i := range state.Clients {
		state.Clients[i].CaseIDs = ownedCaseIDs(state.Clients[i].CaseIDs, state.Clients[i].ID, owners)
	}
	for i := range state.Cases {
		if state.Cases[i].ClientID == "" {
			continue
		}
		for j := range state.Clients {
			if state.Clients[j].ID == state.Cases[i].ClientID {
				state.Clients[j].CaseIDs = appendUnique(state.Clients[j].CaseIDs, state.Cases[i].ID)
			}
		}
	}

	state.Documents = n.rebuildDocuments(documentsRaw, live, now)
	state.Research = n.rebuildResearch(researchRaw, live, now)
	reconcileCaseLinks(&state)
	state.TimeEntries = n.rebuildTimeEntries(timeRaw, &state, now)
	state.Activity = n.rebuildActivity(activityRaw, live, now)

	// Distinguish "never initialized" from "user deleted everything": when
	// nothing survived and the raw input carried no dependent records at
	// all, hand back the pristine state instead of a near-empty patched one.
	if len(state.Clients) == 0 && len(state.Cases) == 0 &&
		len(documentsRaw) == 0 && len(researchRaw) == 0 && len(timeRaw) == 0 {
		return domain.EmptySnapshot()
	}
	return state
}

func (n *Normalizer) rebuildClients(raw []map[string]any, now time.Time) []domain.Client {
	out := []domain.Client{}
	seen := map[string]struct{}{}
	for _, m := range raw {
		name := strings.TrimSpace(str(m, "name"))
		if name == "" {
			continue
		}
		id := str(m, "id")
		if _, drop := placeholderClientIDs[id]; drop {
			continue
		}
		if _, drop := placeholderClientNames[foldName(name)]; drop {
			continue
		}
		if id == "" {
			id = n.idFn()
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, domain.Client{
			Base:         baseOf(m, id, now),
			Name:         name,
			Organization: str(m, "organization"),
			Email:        str(m, "email"),
			Phone:        str(m, "phone"),
			Notes:        str(m, "notes"),
			CaseIDs:      dedupe(strSlice(m, "caseIds")),
		})
	}
	return out
}

func (n *Normalizer) rebuildCases(raw []map[string]any, now time.Time) []domain.Case {
	out := []domain.Case{}
	seen := map[string]struct{}{}
	for _, m := range raw {
		title := strings.TrimSpace(str(m, "title"))
		if title == "" {
			continue
		}
		id := str(m, "id")
		if _, drop := placeholderCaseIDs[id]; drop {
			continue
		}
		if _, drop := placeholderCaseNames[foldName(title)]; drop {
			continue
		}
		if id == "" {
			id = n.idFn()
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		clientName := str(m, "client")
		if clientName == "" {
			clientName = str(m, "clientName")
		}
		c := domain.Case{
			Base:         baseOf(m, id, now),
			MatterNumber: str(m, "matterNumber"),
			Title:        title,
			ClientID:     str(m, "clientId"),
			ClientName:   strings.TrimSpace(clientName),
			CaseType:     domain.CaseCategory(str(m, "caseType")),
			Stage:        domain.CaseStage(str(m, "stage")),
			Status:       domain.CaseStatus(str(m, "status")),
			PracticeArea: str(m, "practiceArea"),
			LeadOwner:    str(m, "leadOwner"),
			Team:         strSlice(m, "team"),
			OpenDate:     str(m, "openDate"),
			NextDeadline: str(m, "nextDeadline"),
			Description:  str(m, "description"),
			Priority:     domain.CasePriority(str(m, "priority")),
			Tags:         strSlice(m, "tags"),
			RiskNotes:    str(m, "riskNotes"),
			Program:      str(m, "program"),
			DocumentIDs:  dedupe(strSlice(m, "documentIds")),
			ResearchIDs:  dedupe(strSlice(m, "researchIds")),
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
		if rp, ok := obj(m, "restorativeProfile"); ok {
			c.Restorative = n.rebuildRestorativeProfile(rp)
		}
		if mt, ok := obj(m, "mockTrialProfile"); ok {
			c.MockTrial = n.rebuildMockTrialProfile(mt)
		}
		syncProfile(&c)
		out = append(out, c)
	}
	return out
}

// resolveCaseClients repairs every case's owner reference. A live clientId
// adopts the client's canonical name; a dead clientId (or none) with a cached
// name finds or creates a client by case-insensitive name match.
func (n *Normalizer) resolveCaseClients(state *domain.Snapshot, now time.Time) {
	for i := range state.Cases {
		c := &state.Cases[i]
		if c.ClientID != "" {
			if cl := findClientByID(state.Clients, c.ClientID); cl != nil {
				c.ClientName = cl.Name
				continue
			}
			c.ClientID = ""
		}
		if c.ClientName == "" {
			continue
		}
		if _, purged := placeholderClientNames[foldName(c.ClientName)]; purged {
			c.ClientName = ""
			continue
		}
		cl := findClientByName(state.Clients, c.ClientName)
		if cl == nil {
			created := domain.Client{
				Base:    domain.Base{ID: n.idFn(), CreatedAt: now, UpdatedAt: now},
				Name:    c.ClientName,
				CaseIDs: []string{},
			}
			state.Clients = append(state.Clients, created)
			cl = &state.Clients[len(state.Clients)-1]
		}
		c.ClientID = cl.ID
		c.ClientName = cl.Name
	}
}

func (n *Normalizer) rebuildRestorativeProfile(m map[string]any) *domain.RestorativeProfile {
	p := domain.EmptyRestorativeProfile()
	if im, ok := obj(m, "intake"); ok {
		p.Intake = &domain.RestorativeIntake{
			ReferralSource:       str(im, "referralSource"),
			IncidentSummary:      str(im, "incidentSummary"),
			Goals:                str(im, "goals"),
			SupportNeeds:         str(im, "supportNeeds"),
			RiskFactors:          str(im, "riskFactors"),
			PreferredFacilitator: str(im, "preferredFacilitator"),
			Notes:                str(im, "notes"),
		}
	}
	for _, pm := range objSlice(m, "participants") {
		name := strings.TrimSpace(str(pm, "name"))
		if name == "" {
			continue
		}
		p.Participants = append(p.Participants, domain.Participant{
			Name:    name,
			Role:    str(pm, "role"),
			Contact: str(pm, "contact"),
		})
	}
	if fm, ok := obj(m, "forms"); ok {
		p.Forms.Consent = formStatus(fm, "consent")
		p.Forms.SafetyPlan = formStatus(fm, "safetyPlan")
		p.Forms.MediaRelease = formStatus(fm, "mediaRelease")
	}
	p.CarePlan = str(m, "carePlan")
	for _, sm := range objSlice(m, "sessions") {
		p.Sessions = append(p.Sessions, domain.RestorativeSession{
			Date:         str(sm, "date"),
			Facilitator:  str(sm, "facilitator"),
			FocusArea:    str(sm, "focusArea"),
			Summary:      str(sm, "summary"),
			Agreements:   str(sm, "agreements"),
			FollowUpDate: str(sm, "followUpDate"),
		})
	}
	return p
}

func (n *Normalizer) rebuildMockTrialProfile(m map[string]any) *domain.MockTrialProfile {
	p := domain.EmptyMockTrialProfile()
	p.TeamName = str(m, "teamName")
	if role := domain.TeamRole(str(m, "role")); domain.ValidTeamRole(role) {
		p.Role = role
	}
	p.Opponent = str(m, "opponent")
	p.CasePacket = str(m, "casePacket")
	p.StrategyNotes = str(m, "strategyNotes")
	seen := map[string]struct{}{}
	for _, rm := range objSlice(m, "rounds") {
		round := domain.MockTrialRound{
			ID:          str(rm, "id"),
			Name:        str(rm, "name"),
			ScheduledAt: str(rm, "scheduledAt"),
			Venue:       str(rm, "venue"),
			JudgePanel:  strSlice(rm, "judgePanel"),
		}
		if round.ID == "" {
			round.ID = n.idFn()
		}
		if _, dup := seen[round.ID]; dup {
			continue
		}
		seen[round.ID] = struct{}{}
		if om, ok := obj(rm, "outcome"); ok {
			round.Outcome = &domain.RoundOutcome{
				ProsecutionScore: num(om, "prosecutionScore"),
				DefenseScore:     num(om, "defenseScore"),
				Verdict:          str(om, "verdict"),
				Notes:            str(om, "notes"),
			}
		}
		p.Rounds = append(p.Rounds, round)
	}
	return p
}

func (n *Normalizer) rebuildDocuments(raw []map[string]any, live map[string]struct{}, now time.Time) []domain.Document {
	out := []domain.Document{}
	seen := map[string]struct{}{}
	for _, m := range raw {
		title := strings.TrimSpace(str(m, "title"))
		if title == "" {
			continue
		}
		caseIDs := intersectIDs(dedupe(strSlice(m, "caseIds")), live)
		if len(caseIDs) == 0 {
			continue // orphaned
		}
		id := str(m, "id")
		if id == "" {
			id = n.idFn()
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		d := domain.Document{
			Base:          baseOf(m, id, now),
			CaseIDs:       caseIDs,
			Title:         title,
			Type:          str(m, "type"),
			Owner:         str(m, "owner"),
			DueDate:       str(m, "dueDate"),
			Status:        domain.DocumentStatus(str(m, "status")),
			Version:       str(m, "version"),
			LastTouchedBy: str(m, "lastTouchedBy"),
			Summary:       str(m, "summary"),
		}
		if !domain.ValidDocumentStatus(d.Status) {
			d.Status = domain.DocumentDrafting
		}
		if em, ok := obj(m, "externalRef"); ok {
			if url := str(em, "url"); url != "" {
				kind := domain.ExternalDocKind(str(em, "kind"))
				if !domain.ValidExternalDocKind(kind) {
					kind = domain.ExternalDoc
				}
				d.ExternalRef = &domain.ExternalDocRef{URL: url, Kind: kind}
			}
		}
		if jm, ok := obj(m, "jurisdiction"); ok {
			if label := str(jm, "label"); label != "" || str(jm, "id") != "" {
				d.Jurisdiction = &domain.JurisdictionInfo{
					ID:         str(jm, "id"),
					Label:      label,
					Rules:      strSlice(jm, "rules"),
					FilingNote: str(jm, "filingNote"),
				}
			}
		}
		out = append(out, d)
	}
	return out
}

func (n *Normalizer) rebuildResearch(raw []map[string]any, live map[string]struct{}, now time.Time) []domain.ResearchItem {
	out := []domain.ResearchItem{}
	seen := map[string]struct{}{}
	for _, m := range raw {
		title := strings.TrimSpace(str(m, "title"))
		if title == "" {
			continue
		}
		caseIDs := intersectIDs(dedupe(strSlice(m, "caseIds")), live)
		if len(caseIDs) == 0 {
			continue // orphaned
		}
		id := str(m, "id")
		if id == "" {
			id = n.idFn()
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		r := domain.ResearchItem{
			Base:         baseOf(m, id, now),
			CaseIDs:      caseIDs,
			Title:        title,
			Issue:        str(m, "issue"),
			Jurisdiction: str(m, "jurisdiction"),
			Status:       domain.ResearchStatus(str(m, "status")),
			NextAction:   str(m, "nextAction"),
			Analysts:     strSlice(m, "analysts"),
			Summary:      str(m, "summary"),
			Authorities:  []domain.Authority{},
			Tags:         strSlice(m, "tags"),
		}
		if !domain.ValidResearchStatus(r.Status) {
			r.Status = domain.ResearchInProgress
		}
		for _, am := range objSlice(m, "authorities") {
			citation := strings.TrimSpace(str(am, "citation"))
			if citation == "" {
				continue
			}
			r.Authorities = append(r.Authorities, domain.Authority{
				Citation: citation,
				Court:    str(am, "court"),
				Holding:  str(am, "holding"),
			})
		}
		out = append(out, r)
	}
	return out
}

func (n *Normalizer) rebuildTimeEntries(raw []map[string]any, state *domain.Snapshot, now time.Time) []domain.TimeEntry {
	out := []domain.TimeEntry{}
	seen := map[string]struct{}{}
	for _, m := range raw {
		caseID := str(m, "caseId")
		caseTitle, live := "", false
		for i := range state.Cases {
			if state.Cases[i].ID == caseID {
				caseTitle, live = state.Cases[i].Title, true
				break
			}
		}
		if !live {
			continue
		}
		id := str(m, "id")
		if id == "" {
			id = n.idFn()
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		t := domain.TimeEntry{
			Base:     baseOf(m, id, now),
			CaseID:   caseID,
			CaseName: caseTitle,
			Author:   str(m, "author"),
			Activity: str(m, "activity"),
			Hours:    num(m, "hours"),
			Date:     str(m, "date"),
			Status:   domain.TimeEntryStatus(str(m, "status")),
			Notes:    str(m, "notes"),
		}
		if t.Hours < 0 {
			t.Hours = 0
		}
		if !domain.ValidTimeEntryStatus(t.Status) {
			t.Status = domain.TimeDraft
		}
		out = append(out, t)
	}
	return out
}

func (n *Normalizer) rebuildActivity(raw []map[string]any, live map[string]struct{}, now time.Time) []domain.ActivityItem {
	out := []domain.ActivityItem{}
	for _, m := range raw {
		kind := domain.ActivityKind(str(m, "kind"))
		label := strings.TrimSpace(str(m, "label"))
		if !domain.ValidActivityKind(kind) || label == "" {
			continue
		}
		related := dedupe(strSlice(m, "caseIds"))
		filtered := []string{}
		for _, id := range related {
			if _, drop := placeholderCaseIDs[id]; drop {
				continue
			}
			if _, ok := live[id]; ok {
				filtered = append(filtered, id)
			}
		}
		// An entry that referenced cases now all dead is stale; one that
		// never referenced cases is global and stays.
		if len(related) > 0 && len(filtered) == 0 {
			continue
		}
		id := str(m, "id")
		if id == "" {
			id = n.idFn()
		}
		out = append(out, domain.ActivityItem{
			ID:        id,
			Kind:      kind,
			Label:     label,
			CaseIDs:   filtered,
			Timestamp: timeAt(m, "timestamp", now),
		})
	}
	if len(out) == 0 {
		return out
	}
	return appendActivity(out[1:], out[0])
}

// reconcileCaseLinks repairs the case side of the document and research
// many-to-many links: stale ids are filtered out, missing back-links added.
func reconcileCaseLinks(state *domain.Snapshot) {
	docsByID := map[string]*domain.Document{}
	for i := range state.Documents {
		docsByID[state.Documents[i].ID] = &state.Documents[i]
	}
	resByID := map[string]*domain.ResearchItem{}
	for i := range state.Research {
		resByID[state.Research[i].ID] = &state.Research[i]
	}
	for i := range state.Cases {
		c := &state.Cases[i]
		kept := []string{}
		for _, id := range c.DocumentIDs {
			if d, ok := docsByID[id]; ok && containsID(d.CaseIDs, c.ID) {
				kept = append(kept, id)
			}
		}
		c.DocumentIDs = kept
		kept = []string{}
		for _, id := range c.ResearchIDs {
			if r, ok := resByID[id]; ok && containsID(r.CaseIDs, c.ID) {
				kept = append(kept, id)
			}
		}
		c.ResearchIDs = kept
	}
	for i := range state.Documents {
		d := &state.Documents[i]
		for _, caseID := range d.CaseIDs {
			for j := range state.Cases {
				if state.Cases[j].ID == caseID {
					state.Cases[j].DocumentIDs = appendUnique(state.Cases[j].DocumentIDs, d.ID)
				}
			}
		}
	}
	for i := range state.Research {
		r := &state.Research[i]
		for _, caseID := range r.CaseIDs {
			for j := range state.Cases {
				if state.Cases[j].ID == caseID {
					state.Cases[j].ResearchIDs = appendUnique(state.Cases[j].ResearchIDs, r.ID)
				}
			}
		}
	}
}

// tolerant decoding helpers --------------------------------------------------

// rawObjects decodes a JSON array of objects, skipping elements of any other
// shape. A missing or malformed array yields nil.
func rawObjects(raw json.RawMessage) []map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		var m map[string]any
		if err := json.Unmarshal(item, &m); err != nil || m == nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

func str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func num(m map[string]any, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

func strSlice(m map[string]any, key string) []string {
	out := []string{}
	arr, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, item := range arr {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func obj(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key].(map[string]any)
	return v, ok
}

func objSlice(m map[string]any, key string) []map[string]any {
	arr, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if o, ok := item.(map[string]any); ok {
			out = append(out, o)
		}
	}
	return out
}

func timeAt(m map[string]any, key string, fallback time.Time) time.Time {
	s, ok := m[key].(string)
	if !ok {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	return fallback
}

func baseOf(m map[string]any, id string, now time.Time) domain.Base {
	return domain.Base{
		ID:        id,
		CreatedAt: timeAt(m, "createdAt", now),
		UpdatedAt: timeAt(m, "updatedAt", now),
	}
}

func formStatus(m map[string]any, key string) domain.FormStatus {
	s := domain.FormStatus(str(m, key))
	if !domain.ValidFormStatus(s) {
		return domain.FormPending
	}
	return s
}

func findClientByID(clients []domain.Client, id string) *domain.Client {
	for i := range clients {
		if clients[i].ID == id {
			return &clients[i]
		}
	}
	return nil
}

func findClientByName(clients []domain.Client, name string) *domain.Client {
	for i := range clients {
		if strings.EqualFold(clients[i].Name, name) {
			return &clients[i]
		}
	}
	return nil
}

// ownedCaseIDs keeps only identifiers of cases that name clientID as their
// owner. A client listing a live case owned by someone else is as stale a
// link as one listing a dead case.
func ownedCaseIDs(ids []string, clientID string, owners map[string]string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if owner, ok := owners[id]; ok && owner == clientID {
			out = append(out, id)
		}
	}
	return out
}

func intersectIDs(ids []string, live map[string]struct{}) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := live[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldName lowercases, strips diacritics, and collapses runs of
// non-alphanumerics to single spaces so fixture names match despite cosmetic
// edits.
func foldName(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	if out, _, err := transform.String(diacriticStripper, lowered); err == nil {
		lowered = out
	}
	var b strings.Builder
	pendingSpace := false
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}
