package core

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mattercore/pkg/domain"
)

// Service is the application-facing surface of the workspace store. It owns
// the in-memory state, loads and repairs the persisted snapshot on Init, and
// schedules a best-effort background save after every state-changing
// operation. Mutations never fail for data-shape reasons: operations aimed at
// missing targets report false and leave state untouched.
type Service struct {
	store      *MemoryStore
	storage    domain.SnapshotStorage
	saver      *snapshotSaver
	logger     *zap.Logger
	metrics    MetricsRecorder
	normalizer *Normalizer
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger replaces the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics installs a metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithRules replaces the default integrity rules engine.
func WithRules(engine *domain.RulesEngine) Option {
	return func(s *Service) { s.store.engine = engine }
}

// NewService constructs a service backed by the supplied snapshot storage.
// Call Init before use.
func NewService(storage domain.SnapshotStorage, opts ...Option) *Service {
	engine := domain.NewRulesEngine()
	engine.Register(ReferentialClosureRule{})
	engine.Register(LinkSymmetryRule{})
	s := &Service{
		store:      NewMemoryStore(engine),
		storage:    storage,
		logger:     zap.NewNop(),
		metrics:    noopMetrics{},
		normalizer: NewNormalizer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying in-memory store.
func (s *Service) Store() *MemoryStore {
	return s.store
}

// Init loads the persisted snapshot, normalizes it, and starts the background
// saver. When a snapshot existed, the repaired form is written back so later
// loads see a clean graph. A missing snapshot yields the empty workspace.
func (s *Service) Init(ctx context.Context) error {
	s.ready()
	payload, ok, err := s.storage.Load(ctx)
	if err != nil {
		return err
	}
	state := s.normalizer.Normalize(payload)
	s.store.ImportState(state)
	s.saver = newSnapshotSaver(s.storage, s.logger, s.metrics)
	s.logger.Info("workspace loaded",
		zap.String("driver", s.storage.Driver()),
		zap.Bool("existing", ok),
		zap.Int("clients", len(state.Clients)),
		zap.Int("cases", len(state.Cases)),
		zap.Int("documents", len(state.Documents)),
		zap.Int("research", len(state.Research)),
		zap.Int("timeEntries", len(state.TimeEntries)))
	if ok {
		s.saver.Enqueue(s.store.ExportState())
	}
	return nil
}

// Close flushes any pending save and stops the saver.
func (s *Service) Close() {
	if s.saver != nil {
		s.saver.Close()
	}
}

func (s *Service) ready() {
	if s == nil || s.store == nil {
		panic("mattercore: Service must be constructed with NewService")
	}
}

// mutate runs fn in a transaction, reports violations, records metrics, and
// schedules a snapshot save when state changed. The save is fire-and-forget.
func (s *Service) mutate(ctx context.Context, op string, fn func(tx *Transaction)) {
	s.ready()
	start := time.Now()
	changed := false
	result, err := s.store.RunInTransaction(ctx, func(tx *Transaction) error {
		fn(tx)
		changed = tx.Changed()
		return nil
	})
	if err != nil {
		// Only context cancellation reaches here; the mutation was discarded.
		s.logger.Warn("transaction aborted", zap.String("op", op), zap.Error(err))
		return
	}
	if n := len(result.Violations); n > 0 {
		s.metrics.ObserveViolations(n)
		for _, v := range result.Violations {
			s.logger.Warn("integrity rule violation",
				zap.String("op", op),
				zap.String("rule", v.Rule),
				zap.String("severity", string(v.Severity)),
				zap.String("message", v.Message))
		}
	}
	s.metrics.ObserveOperation(op, time.Since(start), changed)
	if changed && s.saver != nil {
		s.saver.Enqueue(s.store.ExportState())
	}
}

// State returns a deep copy of the current workspace.
func (s *Service) State() domain.Snapshot {
	s.ready()
	return s.store.ExportState()
}

// Clients returns all clients in persisted order.
func (s *Service) Clients() []domain.Client {
	return s.State().Clients
}

// Cases returns all cases in persisted order.
func (s *Service) Cases() []domain.Case {
	return s.State().Cases
}

// Documents returns all documents in persisted order.
func (s *Service) Documents() []domain.Document {
	return s.State().Documents
}

// Research returns all research items in persisted order.
func (s *Service) Research() []domain.ResearchItem {
	return s.State().Research
}

// TimeEntries returns all time entries in persisted order.
func (s *Service) TimeEntries() []domain.TimeEntry {
	return s.State().TimeEntries
}

// Activity returns the journal, newest first.
func (s *Service) Activity() []domain.ActivityItem {
	return s.State().Activity
}

// FindClient returns the client with the given id.
func (s *Service) FindClient(id string) (domain.Client, bool) {
	for _, c := range s.State().Clients {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Client{}, false
}

// FindCase returns the case with the given id.
func (s *Service) FindCase(id string) (domain.Case, bool) {
	for _, c := range s.State().Cases {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Case{}, false
}

// FindDocument returns the document with the given id.
func (s *Service) FindDocument(id string) (domain.Document, bool) {
	for _, d := range s.State().Documents {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Document{}, false
}

// FindResearch returns the research item with the given id.
func (s *Service) FindResearch(id string) (domain.ResearchItem, bool) {
	for _, r := range s.State().Research {
		if r.ID == id {
			return r, true
		}
	}
	return domain.ResearchItem{}, false
}

// FindTimeEntry returns the time entry with the given id.
func (s *Service) FindTimeEntry(id string) (domain.TimeEntry, bool) {
	for _, e := range s.State().TimeEntries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.TimeEntry{}, false
}

// CreateClient adds a client and returns it with server-assigned fields set.
func (s *Service) CreateClient(ctx context.Context, client domain.Client) domain.Client {
	var created domain.Client
	s.mutate(ctx, "create_client", func(tx *Transaction) {
		created = tx.CreateClient(client)
	})
	return created
}

// UpdateClient applies a partial patch to a client. A renamed client's name
// is propagated into the display cache of every case it owns.
func (s *Service) UpdateClient(ctx context.Context, id string, patch domain.ClientPatch) (domain.Client, bool) {
	var updated domain.Client
	var ok bool
	s.mutate(ctx, "update_client", func(tx *Transaction) {
		updated, ok = tx.UpdateClient(id, patch)
	})
	return updated, ok
}

// CreateCase adds a case, resolving its client link and nested profile.
func (s *Service) CreateCase(ctx context.Context, c domain.Case) domain.Case {
	var created domain.Case
	s.mutate(ctx, "create_case", func(tx *Transaction) {
		created = tx.CreateCase(c)
	})
	return created
}

// UpdateCase applies a partial patch to a case, including ownership moves.
func (s *Service) UpdateCase(ctx context.Context, id string, patch domain.CasePatch) (domain.Case, bool) {
	var updated domain.Case
	var ok bool
	s.mutate(ctx, "update_case", func(tx *Transaction) {
		updated, ok = tx.UpdateCase(id, patch)
	})
	return updated, ok
}

// CreateDocument adds a document linked to the surviving subset of the
// referenced cases.
func (s *Service) CreateDocument(ctx context.Context, d domain.Document) domain.Document {
	var created domain.Document
	s.mutate(ctx, "create_document", func(tx *Transaction) {
		created = tx.CreateDocument(d)
	})
	return created
}

// UpdateDocument applies a partial patch to a document.
func (s *Service) UpdateDocument(ctx context.Context, id string, patch domain.DocumentPatch) (domain.Document, bool) {
	var updated domain.Document
	var ok bool
	s.mutate(ctx, "update_document", func(tx *Transaction) {
		updated, ok = tx.UpdateDocument(id, patch)
	})
	return updated, ok
}

// CreateResearch adds a research item.
func (s *Service) CreateResearch(ctx context.Context, r domain.ResearchItem) domain.ResearchItem {
	var created domain.ResearchItem
	s.mutate(ctx, "create_research", func(tx *Transaction) {
		created = tx.CreateResearch(r)
	})
	return created
}

// UpdateResearch applies a partial patch to a research item.
func (s *Service) UpdateResearch(ctx context.Context, id string, patch domain.ResearchPatch) (domain.ResearchItem, bool) {
	var updated domain.ResearchItem
	var ok bool
	s.mutate(ctx, "update_research", func(tx *Transaction) {
		updated, ok = tx.UpdateResearch(id, patch)
	})
	return updated, ok
}

// LogTime records hours against a live case. Logging against an unknown case
// is a silent no-op reported as false.
func (s *Service) LogTime(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, bool) {
	var created domain.TimeEntry
	var ok bool
	s.mutate(ctx, "log_time", func(tx *Transaction) {
		created, ok = tx.LogTime(entry)
	})
	return created, ok
}

// UpdateTimeEntry applies a partial patch to a time entry.
func (s *Service) UpdateTimeEntry(ctx context.Context, id string, patch domain.TimeEntryPatch) (domain.TimeEntry, bool) {
	var updated domain.TimeEntry
	var ok bool
	s.mutate(ctx, "update_time_entry", func(tx *Transaction) {
		updated, ok = tx.UpdateTimeEntry(id, patch)
	})
	return updated, ok
}

// SaveRestorativeProfile replaces the restorative payload of a restorative
// case. Cases of other categories are left untouched.
func (s *Service) SaveRestorativeProfile(ctx context.Context, caseID string, p domain.RestorativeProfile) (domain.Case, bool) {
	var updated domain.Case
	var ok bool
	s.mutate(ctx, "save_restorative_profile", func(tx *Transaction) {
		updated, ok = tx.SaveRestorativeProfile(caseID, p)
	})
	return updated, ok
}

// AppendRestorativeSession appends a facilitated session record, creating an
// empty profile first when the case has none.
func (s *Service) AppendRestorativeSession(ctx context.Context, caseID string, session domain.RestorativeSession) (domain.Case, bool) {
	var updated domain.Case
	var ok bool
	s.mutate(ctx, "append_restorative_session", func(tx *Transaction) {
		updated, ok = tx.AppendRestorativeSession(caseID, session)
	})
	return updated, ok
}

// ScheduleMockTrialRound adds an unscored round to a mock-trial case.
func (s *Service) ScheduleMockTrialRound(ctx context.Context, caseID string, round domain.MockTrialRound) (domain.MockTrialRound, bool) {
	var created domain.MockTrialRound
	var ok bool
	s.mutate(ctx, "schedule_mock_trial_round", func(tx *Transaction) {
		created, ok = tx.ScheduleMockTrialRound(caseID, round)
	})
	return created, ok
}

// ScoreMockTrialRound records the outcome of a previously scheduled round.
func (s *Service) ScoreMockTrialRound(ctx context.Context, caseID, roundID string, outcome domain.RoundOutcome) (domain.MockTrialRound, bool) {
	var scored domain.MockTrialRound
	var ok bool
	s.mutate(ctx, "score_mock_trial_round", func(tx *Transaction) {
		scored, ok = tx.ScoreMockTrialRound(caseID, roundID, outcome)
	})
	return scored, ok
}
