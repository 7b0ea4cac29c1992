// Package session holds the application state for one dashboard session: the
// user profile, the dashboard payload, the transaction list, and the joint
// loading flag. The store is constructed explicitly and passed to whoever
// needs it; there is no package-level instance.
package session

import (
	"context"
	"errors"
	"sync"

	"fiba/internal/core"
	applog "fiba/internal/log"

	"golang.org/x/sync/errgroup"
)

// Backend is the slice of the API facade the store drives.
type Backend interface {
	DashboardData(ctx context.Context) (core.Dashboard, error)
	Transactions(ctx context.Context, q core.Query) ([]core.Transaction, error)
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, tx core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	UserProfile(ctx context.Context) (core.UserProfile, error)
	UpdateUserProfile(ctx context.Context, profile core.UserProfile) (core.UserProfile, error)
}

// ErrClosed is returned by operations on a torn-down store.
var ErrClosed = errors.New("session closed")

// Store is the session state container. All state access is mutex-guarded;
// unlike the single-threaded environment this design came from, callers may
// hit it from concurrent request handlers.
//
// Superseding loads are not cancelled: when two Load calls overlap, the last
// response to resolve wins and overwrites state. Known race, kept to match
// the observable behavior of the original; see DESIGN.md.
type Store struct {
	backend Backend
	logger  *applog.Logger

	mu           sync.RWMutex
	user         core.UserProfile
	dashboard    core.Dashboard
	hasDashboard bool
	transactions []core.Transaction
	loading      bool
	lastErr      error
	closed       bool
}

func New(backend Backend, logger *applog.Logger) *Store {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Store{
		backend: backend,
		logger:  logger.WithComponent(applog.ComponentSession),
	}
}

// Load runs the initial-load sequence: dashboard and transaction list are
// fetched in parallel and both must settle before the session leaves the
// loading state. In degraded mode the facade absorbs read failures, so an
// error here means degraded mode is off or the session was invalidated.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.loading = true
	s.mu.Unlock()

	var (
		dashboard    core.Dashboard
		transactions []core.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dashboard, err = s.backend.DashboardData(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.backend.Transactions(gctx, core.NewQuery())
		return err
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.lastErr = err
	if err != nil {
		s.logger.ErrorContext(ctx, "Initial load failed", applog.FieldError, err.Error())
		return err
	}
	s.dashboard = dashboard
	s.hasDashboard = true
	s.transactions = transactions
	s.logger.InfoContext(ctx, "Session loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldCount, len(transactions))
	return nil
}

// Refresh re-runs the full initial-load sequence. Idempotent.
func (s *Store) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// LoadProfile fetches the account profile into the session.
func (s *Store) LoadProfile(ctx context.Context) error {
	profile, err := s.backend.UserProfile(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.user = profile
	return nil
}

// SaveProfile writes profile changes through the facade. Held state is only
// replaced once the backend confirms.
func (s *Store) SaveProfile(ctx context.Context, profile core.UserProfile) error {
	saved, err := s.backend.UpdateUserProfile(ctx, profile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = saved
	return nil
}

// CreateTransaction records a new transaction through the facade and, on
// success, prepends it to the held list. On failure prior state is unchanged
// and the error goes to the caller; nothing is substituted.
func (s *Store) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	created, err := s.backend.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append([]core.Transaction{created}, s.transactions...)
	return created, nil
}

// UpdateTransaction writes an update through the facade and patches the held
// list on success.
func (s *Store) UpdateTransaction(ctx context.Context, id string, tx core.Transaction) (core.Transaction, error) {
	updated, err := s.backend.UpdateTransaction(ctx, id, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions[i] = updated
			break
		}
	}
	return updated, nil
}

// DeleteTransaction removes a transaction through the facade and drops it
// from the held list on success.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.backend.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.transactions[:0]
	for _, t := range s.transactions {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.transactions = kept
	return nil
}

// Dashboard returns the held dashboard payload; ok is false before the first
// successful load.
func (s *Store) Dashboard() (core.Dashboard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dashboard, s.hasDashboard
}

// Transactions returns a copy of the held transaction list.
func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// User returns the held profile.
func (s *Store) User() core.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether the joint initial load is still in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error recorded by the most recent load, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Invalidate drops all session state. Called when the backend reports the
// credential is no longer valid.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = core.UserProfile{}
	s.dashboard = core.Dashboard{}
	s.hasDashboard = false
	s.transactions = nil
	s.lastErr = nil
	s.logger.Warn("Session state invalidated")
}

// Close tears the session down; subsequent loads fail with ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
