// Package movements holds the client-side state for one movement collection
// (transactions or debts): the fetched list, the pagination cursor and the
// aggregate sums derived from it. The store is an explicit, constructed
// container with a defined lifecycle — Init on session start, Reset on
// logout — never ambient global state.
package movements

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"moneytrack/internal/core"
	"moneytrack/internal/log"
	"moneytrack/internal/notify"
)

// API is the remote surface the store depends on. *api.Client implements it.
type API interface {
	ListMovements(ctx context.Context, resource core.Resource, userID string, page, limit int, filter core.FilterSpec) ([]core.Movement, error)
	CreateMovement(ctx context.Context, resource core.Resource, draft core.Draft, userID string) (core.Movement, error)
	UpdateMovement(ctx context.Context, resource core.Resource, id string, draft core.Draft, userID string) (core.Movement, error)
	DeleteMovement(ctx context.Context, resource core.Resource, id string) error
}

// Store mirrors the server-side list for one user and one resource. List
// order is whatever the server returned: creates append at the end, updates
// replace in place, removals close the gap. Every mutation installs a fresh
// slice, so snapshots handed out earlier never change underneath a reader.
type Store struct {
	resource core.Resource
	api      API
	notifier notify.Notifier
	logger   *log.Logger

	mu         sync.Mutex
	userID     string
	list       []core.Movement
	page       int
	isLastPage bool
	filter     core.FilterSpec
	onMutation []func()
}

type Option func(*Store)

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger.WithComponent(log.ComponentMovements) }
}

func NewStore(resource core.Resource, client API, notifier notify.Notifier, opts ...Option) *Store {
	s := &Store{
		resource: resource,
		api:      client,
		notifier: notifier,
		logger:   log.New(log.Config{Component: log.ComponentMovements}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init binds the store to a user at session start. Any state left over from
// a previous user is discarded.
func (s *Store) Init(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.clearLocked()
}

// Reset clears the list, the pagination cursor and everything derived from
// them. Called on logout or user switch; calling it twice is the same as
// calling it once.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Store) clearLocked() {
	s.list = nil
	s.page = 0
	s.isLastPage = false
	s.notifyMutationLocked()
}

// OnMutation registers a hook fired after every successful mutation and on
// reset. The cached balance reader hangs its invalidation here so cached
// totals can never outlive the list they were derived from.
func (s *Store) OnMutation(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMutation = append(s.onMutation, fn)
}

func (s *Store) notifyMutationLocked() {
	for _, fn := range s.onMutation {
		fn()
	}
}

// SetFilter installs a new filter and clears the fetched list: a filter
// change always means a fresh paginated fetch, never client-side
// re-filtering or merging of result sets.
func (s *Store) SetFilter(filter core.FilterSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	s.list = nil
	s.page = 0
	s.isLastPage = false
}

// FetchPage loads one page and appends it to the list in server order. A
// page shorter than limit marks the list as exhausted. On failure the list
// is left unchanged and the failure is reported once; the store never
// retries on its own.
func (s *Store) FetchPage(ctx context.Context, page, limit int) error {
	if page < 1 || limit < 1 {
		return fmt.Errorf("fetch page: page and limit must be at least 1 (got %d, %d)", page, limit)
	}

	s.mu.Lock()
	userID := s.userID
	filter := s.filter
	s.mu.Unlock()

	fetched, err := s.api.ListMovements(ctx, s.resource, userID, page, limit, filter)
	if err != nil {
		s.logger.WarnContext(ctx, "Fetch failed",
			log.FieldResource, string(s.resource),
			log.FieldPage, page,
			log.FieldError, err.Error())
		s.notifier.Notify(ctx, notify.Notification{
			Level:   notify.LevelError,
			Message: "Could not load movements",
		})
		return fmt.Errorf("fetch page %d: %w", page, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]core.Movement, 0, len(s.list)+len(fetched))
	next = append(next, s.list...)
	next = append(next, fetched...)
	s.list = next
	s.page = page
	s.isLastPage = len(fetched) < limit

	s.logger.DebugContext(ctx, "Page fetched",
		log.FieldResource, string(s.resource),
		log.FieldPage, page,
		log.FieldCount, len(fetched))
	return nil
}

// Create validates the draft, persists it and appends the canonical server
// record to the end of the list. Validation failures never reach the
// network.
func (s *Store) Create(ctx context.Context, draft core.Draft) (core.Movement, error) {
	if err := s.validate(ctx, draft); err != nil {
		return core.Movement{}, err
	}

	s.mu.Lock()
	userID := s.userID
	s.mu.Unlock()

	created, err := s.api.CreateMovement(ctx, s.resource, draft, userID)
	if err != nil {
		s.reportMutationFailed(ctx, log.OpCreate, err)
		return core.Movement{}, fmt.Errorf("create movement: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]core.Movement, 0, len(s.list)+1)
	next = append(next, s.list...)
	next = append(next, created)
	s.list = next
	s.notifyMutationLocked()

	s.logger.InfoContext(ctx, "Movement created",
		log.FieldResource, string(s.resource),
		log.FieldMovementID, created.ID,
		log.FieldKind, string(created.Kind),
		log.FieldAmount, created.Amount)
	return created, nil
}

// Update replaces the record at its existing position with the server
// response, preserving the position the user last saw. The id must already
// be in the list; a miss is a caller bug, reported loudly rather than
// swallowed or crashed on. A draft identical to the existing record is
// rejected before any request is sent.
func (s *Store) Update(ctx context.Context, id string, draft core.Draft) (core.Movement, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	var existing core.Movement
	if idx >= 0 {
		existing = s.list[idx]
	}
	userID := s.userID
	s.mu.Unlock()

	if idx < 0 {
		s.reportNotFound(ctx, log.OpUpdate, id)
		return core.Movement{}, fmt.Errorf("update %q: %w", id, core.ErrNotFound)
	}
	if err := s.validate(ctx, draft); err != nil {
		return core.Movement{}, err
	}
	if draft.Equals(existing, s.resource) {
		s.notifier.Notify(ctx, notify.Notification{
			Level:   notify.LevelWarn,
			Message: "There were no changes to save",
		})
		return core.Movement{}, core.ErrNoChanges
	}

	updated, err := s.api.UpdateMovement(ctx, s.resource, id, draft, userID)
	if err != nil {
		s.reportMutationFailed(ctx, log.OpUpdate, err)
		return core.Movement{}, fmt.Errorf("update movement: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The index may have shifted while the request was in flight.
	idx = s.indexLocked(id)
	if idx < 0 {
		s.reportNotFound(ctx, log.OpUpdate, id)
		return core.Movement{}, fmt.Errorf("update %q: %w", id, core.ErrNotFound)
	}
	next := make([]core.Movement, len(s.list))
	copy(next, s.list)
	next[idx] = updated
	s.list = next
	s.notifyMutationLocked()

	s.logger.InfoContext(ctx, "Movement updated",
		log.FieldResource, string(s.resource),
		log.FieldMovementID, updated.ID)
	return updated, nil
}

// Remove deletes the record, preserving the relative order of the rest.
// Same existence precondition as Update.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	s.mu.Unlock()

	if idx < 0 {
		s.reportNotFound(ctx, log.OpDelete, id)
		return fmt.Errorf("remove %q: %w", id, core.ErrNotFound)
	}

	if err := s.api.DeleteMovement(ctx, s.resource, id); err != nil {
		s.reportMutationFailed(ctx, log.OpDelete, err)
		return fmt.Errorf("remove movement: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx = s.indexLocked(id)
	if idx < 0 {
		s.reportNotFound(ctx, log.OpDelete, id)
		return fmt.Errorf("remove %q: %w", id, core.ErrNotFound)
	}
	next := make([]core.Movement, 0, len(s.list)-1)
	next = append(next, s.list[:idx]...)
	next = append(next, s.list[idx+1:]...)
	s.list = next
	s.notifyMutationLocked()

	s.logger.InfoContext(ctx, "Movement removed",
		log.FieldResource, string(s.resource),
		log.FieldMovementID, id)
	return nil
}

// Movements returns a snapshot of the current list.
func (s *Store) Movements() []core.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Movement, len(s.list))
	copy(out, s.list)
	return out
}

// IsLastPage reports whether the last fetch returned a short page.
func (s *Store) IsLastPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLastPage
}

// Page returns the last fetched page number, 0 before any fetch.
func (s *Store) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Resource returns the collection this store mirrors.
func (s *Store) Resource() core.Resource {
	return s.resource
}

// SumWhere sums the amounts of the movements matching the predicate. It is
// recomputed from the list on every call, so it can never disagree with the
// list it was derived from.
func (s *Store) SumWhere(pred func(core.Movement) bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, m := range s.list {
		if pred(m) {
			total += m.Amount
		}
	}
	return total
}

// SumKind sums the amounts of one kind.
func (s *Store) SumKind(kind core.Kind) int64 {
	return s.SumWhere(func(m core.Movement) bool { return m.Kind == kind })
}

// Balance returns credits minus debits over the loaded list.
func (s *Store) Balance() int64 {
	var credit, debit int64
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.list {
		if m.Kind.Credit() {
			credit += m.Amount
		} else {
			debit += m.Amount
		}
	}
	return credit - debit
}

func (s *Store) indexLocked(id string) int {
	// Linear scan: personal-finance lists are small and order matters more
	// than lookup speed.
	for i, m := range s.list {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) validate(ctx context.Context, draft core.Draft) error {
	if err := draft.Validate(s.resource); err != nil {
		s.logger.DebugContext(ctx, "Draft rejected",
			log.FieldResource, string(s.resource),
			log.FieldOperation, log.OpValidate,
			log.FieldError, err.Error())
		message := err.Error()
		if errors.Is(err, core.ErrEmptyFields) {
			message = "All fields are required"
		}
		s.notifier.Notify(ctx, notify.Notification{
			Level:   notify.LevelWarn,
			Message: message,
		})
		return err
	}
	return nil
}

func (s *Store) reportMutationFailed(ctx context.Context, op string, err error) {
	s.logger.WarnContext(ctx, "Mutation failed",
		log.FieldResource, string(s.resource),
		log.FieldOperation, op,
		log.FieldError, err.Error())
	s.notifier.Notify(ctx, notify.Notification{
		Level:   notify.LevelError,
		Message: "Could not save changes",
	})
}

func (s *Store) reportNotFound(ctx context.Context, op, id string) {
	// A miss here means the caller passed an id that was never loaded: a
	// logic bug upstream, not a user mistake.
	s.logger.ErrorContext(ctx, "Movement not in loaded list",
		log.FieldResource, string(s.resource),
		log.FieldOperation, op,
		log.FieldMovementID, id)
	s.notifier.Notify(ctx, notify.Notification{
		Level:   notify.LevelError,
		Message: "Movement not found",
	})
}
