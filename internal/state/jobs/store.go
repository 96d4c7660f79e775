// Package jobs owns the client-side job collection: the canonical listing,
// the active filter, the derived filtered view and the saved/applied
// membership sets.
//
// FilteredJobs is never edited directly. Every operation that touches Jobs
// or Filters recomputes it, with one documented exception in AddJob.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/domain/job"
	"jobboard/internal/infrastructure/persistence"
)

var ErrNoAPI = errors.New("no jobs api configured")

// API is the network collaborator for postings.
type API interface {
	ListJobs(ctx context.Context) ([]job.Job, error)
	GetJob(ctx context.Context, id string) (job.Job, error)
	CreateJob(ctx context.Context, in job.NewJob) (job.Job, error)
}

// State is an immutable snapshot of the store. Slices are owned by the
// caller.
type State struct {
	Jobs         []job.Job  `json:"jobs"`
	FilteredJobs []job.Job  `json:"filteredJobs"`
	SavedJobs    []job.Job  `json:"savedJobs"`
	AppliedJobs  []job.Job  `json:"appliedJobs"`
	Filters      job.Filter `json:"filters"`
}

// Persisted is the subset that survives restarts.
type Persisted struct {
	SavedJobs   []job.Job `json:"savedJobs"`
	AppliedJobs []job.Job `json:"appliedJobs"`
}

type Listener func(State)

type Store struct {
	mu    sync.Mutex
	state State

	api     API
	storage persistence.Storage[Persisted]
	logger  *log.Logger
	newID   func() string
	now     func() time.Time

	strictAdd     bool
	reapplyOnLoad bool

	listenerMu sync.RWMutex
	listeners  map[int]Listener
	nextID     int
}

type Option func(*Store)

func WithAPI(api API) Option { return func(s *Store) { s.api = api } }

func WithStorage(st persistence.Storage[Persisted]) Option {
	return func(s *Store) { s.storage = st }
}

func WithLogger(l *log.Logger) Option { return func(s *Store) { s.logger = l } }

func WithIDGenerator(fn func() string) Option { return func(s *Store) { s.newID = fn } }

func WithClock(fn func() time.Time) Option { return func(s *Store) { s.now = fn } }

// WithStrictAdd makes AddJob and PostJob include the new job in the filtered
// view only when it satisfies the active filter.
func WithStrictAdd() Option { return func(s *Store) { s.strictAdd = true } }

// WithReapplyOnLoad makes SetJobs run the active filter over the new
// collection instead of showing it unfiltered.
func WithReapplyOnLoad() Option { return func(s *Store) { s.reapplyOnLoad = true } }

func New(opts ...Option) *Store {
	s := &Store{
		state: State{
			Jobs:         []job.Job{},
			FilteredJobs: []job.Job{},
			SavedJobs:    []job.Job{},
			AppliedJobs:  []job.Job{},
			Filters:      job.DefaultFilter(),
		},
		newID:     uuid.NewString,
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive the snapshot after every change. The
// returned func removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

// SetJobs replaces the collection. The filter value is kept; the view is the
// whole collection unless WithReapplyOnLoad is set.
func (s *Store) SetJobs(jobs []job.Job) State {
	return s.update("set_jobs", func(st *State) bool {
		st.Jobs = job.CloneAll(jobs)
		if st.Jobs == nil {
			st.Jobs = []job.Job{}
		}
		if s.reapplyOnLoad {
			st.FilteredJobs = st.Filters.Apply(st.Jobs)
		} else {
			st.FilteredJobs = slices.Clone(st.Jobs)
		}
		return true
	})
}

// SetFilters merges p into the active filter and recomputes the view from
// the full collection. An empty patch still recomputes.
func (s *Store) SetFilters(p job.FilterPatch) State {
	return s.update("set_filters", func(st *State) bool {
		st.Filters = st.Filters.Merge(p)
		st.FilteredJobs = st.Filters.Apply(st.Jobs)
		return true
	})
}

func (s *Store) ResetFilters() State {
	return s.update("reset_filters", func(st *State) bool {
		st.Filters = job.DefaultFilter()
		st.FilteredJobs = slices.Clone(st.Jobs)
		return true
	})
}

// SaveJob adds the job with jobID to the saved set. Unknown ids and jobs
// already saved are ignored.
func (s *Store) SaveJob(jobID string) State {
	return s.update("save_job", func(st *State) bool {
		var ok bool
		st.SavedJobs, ok = addMember(st.SavedJobs, st.Jobs, jobID)
		return ok
	})
}

func (s *Store) UnsaveJob(jobID string) State {
	return s.update("unsave_job", func(st *State) bool {
		var ok bool
		st.SavedJobs, ok = removeMember(st.SavedJobs, jobID)
		return ok
	})
}

// ApplyToJob records an application. A second application to the same id is
// ignored here; surfacing "already applied" is the network layer's job.
func (s *Store) ApplyToJob(jobID string) State {
	return s.update("apply_job", func(st *State) bool {
		var ok bool
		st.AppliedJobs, ok = addMember(st.AppliedJobs, st.Jobs, jobID)
		return ok
	})
}

// AddJob materializes in with a fresh id and the current time and appends
// it to the collection. Without WithStrictAdd the job is appended to the
// filtered view even if the active filter would reject it.
func (s *Store) AddJob(in job.NewJob) (job.Job, State) {
	var created job.Job
	st := s.update("add_job", func(st *State) bool {
		created = in.Materialize(s.freshIDLocked(st.Jobs), s.now())
		s.appendLocked(st, created)
		return true
	})
	return created, st
}

func (s *Store) IsSaved(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.state.SavedJobs, jobID) >= 0
}

func (s *Store) IsApplied(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.state.AppliedJobs, jobID) >= 0
}

// Job looks jobID up in the local collection.
func (s *Store) Job(jobID string) (job.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.state.Jobs, jobID)
	if i < 0 {
		return job.Job{}, false
	}
	return s.state.Jobs[i].Clone(), true
}

// Reload fetches the listing from the API and passes it to SetJobs.
func (s *Store) Reload(ctx context.Context) (State, error) {
	if s.api == nil {
		return s.Snapshot(), ErrNoAPI
	}
	list, err := s.api.ListJobs(ctx)
	if err != nil {
		s.logf("[Jobs] Reload error err=%v", err)
		return s.Snapshot(), fmt.Errorf("list jobs: %w", err)
	}
	s.logf("[Jobs] Reloaded count=%d", len(list))
	return s.SetJobs(list), nil
}

// Fetch loads one posting from the API without touching store state. A miss
// is job.ErrNotFound. Without an API the local collection is consulted.
func (s *Store) Fetch(ctx context.Context, jobID string) (job.Job, error) {
	if s.api == nil {
		j, ok := s.Job(jobID)
		if !ok {
			return job.Job{}, job.ErrNotFound
		}
		return j, nil
	}
	j, err := s.api.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return j, nil
}

// PostJob creates the posting through the API and appends the server's copy
// the same way AddJob does.
func (s *Store) PostJob(ctx context.Context, in job.NewJob) (job.Job, State, error) {
	if s.api == nil {
		return job.Job{}, s.Snapshot(), ErrNoAPI
	}
	created, err := s.api.CreateJob(ctx, in)
	if err != nil {
		s.logf("[Jobs] PostJob error err=%v", err)
		return job.Job{}, s.Snapshot(), fmt.Errorf("create job: %w", err)
	}
	st := s.update("post_job", func(st *State) bool {
		if indexOf(st.Jobs, created.ID) >= 0 {
			return false
		}
		s.appendLocked(st, created)
		return true
	})
	return created, st, nil
}

// Restore loads the persisted saved/applied sets. The listing and filters
// are left alone; they come from Reload.
func (s *Store) Restore(ctx context.Context) (State, error) {
	if s.storage == nil {
		return s.Snapshot(), nil
	}
	p, ok, err := s.storage.Load(ctx)
	if err != nil {
		s.logf("[Persist] Jobs restore error err=%v", err)
		return s.Snapshot(), err
	}
	if !ok {
		return s.Snapshot(), nil
	}

	s.mu.Lock()
	s.state.SavedJobs = dedupe(p.SavedJobs)
	s.state.AppliedJobs = dedupe(p.AppliedJobs)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logf("[Persist] Jobs restored saved=%d applied=%d", len(snap.SavedJobs), len(snap.AppliedJobs))
	s.notify(snap)
	return snap, nil
}

func (s *Store) update(op string, fn func(st *State) bool) State {
	s.mu.Lock()
	changed := fn(&s.state)
	snap := s.snapshotLocked()
	if changed {
		s.persistLocked(op)
	}
	s.mu.Unlock()

	if changed {
		s.notify(snap)
	}
	return snap
}

func (s *Store) persistLocked(op string) {
	if s.storage == nil {
		return
	}
	p := Persisted{
		SavedJobs:   job.CloneAll(s.state.SavedJobs),
		AppliedJobs: job.CloneAll(s.state.AppliedJobs),
	}
	if err := s.storage.Save(context.Background(), p); err != nil {
		s.logf("[Persist] Jobs save error op=%s err=%v", op, err)
	}
}

func (s *Store) notify(snap State) {
	s.listenerMu.RLock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.listenerMu.RUnlock()

	for _, l := range ls {
		l(snap)
	}
}

func (s *Store) appendLocked(st *State, j job.Job) {
	st.Jobs = append(st.Jobs, j)
	if !s.strictAdd || st.Filters.Matches(j) {
		st.FilteredJobs = append(st.FilteredJobs, j)
	}
}

func (s *Store) freshIDLocked(existing []job.Job) string {
	for {
		id := s.newID()
		if id != "" && indexOf(existing, id) < 0 {
			return id
		}
	}
}

func (s *Store) snapshotLocked() State {
	return State{
		Jobs:         job.CloneAll(s.state.Jobs),
		FilteredJobs: job.CloneAll(s.state.FilteredJobs),
		SavedJobs:    job.CloneAll(s.state.SavedJobs),
		AppliedJobs:  job.CloneAll(s.state.AppliedJobs),
		Filters:      s.state.Filters.Clone(),
	}
}

func (s *Store) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func addMember(set, source []job.Job, jobID string) ([]job.Job, bool) {
	if indexOf(set, jobID) >= 0 {
		return set, false
	}
	i := indexOf(source, jobID)
	if i < 0 {
		return set, false
	}
	return append(set, source[i].Clone()), true
}

func removeMember(set []job.Job, jobID string) ([]job.Job, bool) {
	i := indexOf(set, jobID)
	if i < 0 {
		return set, false
	}
	return slices.DeleteFunc(slices.Clone(set), func(j job.Job) bool { return j.ID == jobID }), true
}

func indexOf(jobs []job.Job, id string) int {
	return slices.IndexFunc(jobs, func(j job.Job) bool { return j.ID == id })
}

func dedupe(jobs []job.Job) []job.Job {
	out := make([]job.Job, 0, len(jobs))
	for _, j := range jobs {
		if indexOf(out, j.ID) >= 0 {
			continue
		}
		out = append(out, j.Clone())
	}
	return out
}
