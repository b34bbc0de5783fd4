package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"vibeboxing/internal/combo"
	"vibeboxing/internal/logging"
	"vibeboxing/internal/model"
)

// ComboSync mirrors the signed-in user's combos. The local list changes only
// after the server confirms a write. Operations run one at a time.
type ComboSync struct {
	api    *API
	logger *slog.Logger
	// refetchTimeout bounds the automatic fetch after an identity change.
	refetchTimeout time.Duration

	op sync.Mutex

	mu      sync.RWMutex
	userID  uint
	epoch   uint64
	combos  []model.ComboView
	loading bool
	err     error
	// refreshed is closed when the latest automatic fetch has finished.
	refreshed chan struct{}

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
}

// NewComboSync creates a controller that follows store's identity: the list
// is cleared when the user changes and fetched again for the new one.
func NewComboSync(api *API, store *AuthStore, logger *slog.Logger) *ComboSync {
	if logger == nil {
		logger = logging.Discard()
	}
	done := make(chan struct{})
	close(done)
	s := &ComboSync{
		api:            api,
		logger:         logger,
		refetchTimeout: DefaultTimeout,
		combos:         []model.ComboView{},
		refreshed:      done,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.userID = store.State().UserID()
	s.unsubscribe = store.Subscribe(s.onAuthChange)
	return s
}

// Close stops following the auth store and cancels a pending automatic fetch.
func (s *ComboSync) Close() {
	s.unsubscribe()
	s.cancel()
	s.Wait()
}

// Wait blocks until the automatic fetch started by the last identity change
// has finished.
func (s *ComboSync) Wait() {
	for {
		s.mu.RLock()
		done := s.refreshed
		s.mu.RUnlock()
		<-done

		s.mu.RLock()
		latest := s.refreshed == done
		s.mu.RUnlock()
		if latest {
			return
		}
	}
}

// onAuthChange runs inside the store's notification, so the fetch for a new
// identity happens on its own goroutine; a fetch that loses to a later change
// is dropped by the epoch check.
func (s *ComboSync) onAuthChange(st State) {
	id := st.UserID()
	s.mu.Lock()
	if id == s.userID {
		s.mu.Unlock()
		return
	}
	s.userID = id
	s.epoch++
	s.combos = []model.ComboView{}
	s.err = nil
	if id == 0 {
		s.mu.Unlock()
		return
	}
	done := make(chan struct{})
	s.refreshed = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(s.ctx, s.refetchTimeout)
		defer cancel()
		if err := s.FetchAll(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
			s.logger.Warn("combo refresh after sign-in failed", "error", err)
		}
	}()
}

// Combos returns a copy of the local list, most recently modified first.
func (s *ComboSync) Combos() []model.ComboView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ComboView, len(s.combos))
	copy(out, s.combos)
	return out
}

// Loading reports whether a request is in flight.
func (s *ComboSync) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error of the last operation, if it failed.
func (s *ComboSync) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// start marks a request in flight and returns the identity it runs for.
func (s *ComboSync) start() (uint, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	return s.userID, s.epoch
}

// finish records the outcome. apply runs only when the identity the request
// was made for is still current; the result is dropped otherwise.
func (s *ComboSync) finish(epoch uint64, err error, apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if epoch != s.epoch {
		return ErrSuperseded
	}
	s.err = err
	if err == nil && apply != nil {
		apply()
	}
	return err
}

// FetchAll replaces the local list with the server's. Signed out, the list is
// empty and no request is made.
func (s *ComboSync) FetchAll(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()

	userID, epoch := s.start()
	if userID == 0 {
		return s.finish(epoch, nil, func() { s.combos = []model.ComboView{} })
	}
	combos, err := s.api.ListCombos(ctx)
	return s.finish(epoch, err, func() { s.combos = combos })
}

func validateDraft(draft ComboDraft) (ComboDraft, error) {
	steps, err := combo.Finalize(draft.Steps)
	if err != nil {
		return draft, fmt.Errorf("%w: %v", ErrInvalidCombo, err)
	}
	draft.Steps = steps
	return draft, nil
}

// Create saves a new combo and adds the server's record to the list.
func (s *ComboSync) Create(ctx context.Context, draft ComboDraft) (*model.ComboView, error) {
	draft, err := validateDraft(draft)
	if err != nil {
		return nil, err
	}

	s.op.Lock()
	defer s.op.Unlock()

	userID, epoch := s.start()
	if userID == 0 {
		return nil, s.finish(epoch, ErrNotAuthenticated, nil)
	}
	created, err := s.api.CreateCombo(ctx, draft)
	if err := s.finish(epoch, err, func() {
		s.combos = append([]model.ComboView{*created}, s.combos...)
	}); err != nil {
		return nil, err
	}
	return created, nil
}

// Update replaces a combo and moves it to the front of the list.
func (s *ComboSync) Update(ctx context.Context, id uuid.UUID, draft ComboDraft) (*model.ComboView, error) {
	draft, err := validateDraft(draft)
	if err != nil {
		return nil, err
	}

	s.op.Lock()
	defer s.op.Unlock()

	userID, epoch := s.start()
	if userID == 0 {
		return nil, s.finish(epoch, ErrNotAuthenticated, nil)
	}
	updated, err := s.api.UpdateCombo(ctx, id, draft)
	if err := s.finish(epoch, err, func() {
		rest := make([]model.ComboView, 0, len(s.combos))
		for _, c := range s.combos {
			if c.ID != id {
				rest = append(rest, c)
			}
		}
		s.combos = append([]model.ComboView{*updated}, rest...)
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a combo once the server has deleted it.
func (s *ComboSync) Delete(ctx context.Context, id uuid.UUID) error {
	s.op.Lock()
	defer s.op.Unlock()

	userID, epoch := s.start()
	if userID == 0 {
		return s.finish(epoch, ErrNotAuthenticated, nil)
	}
	err := s.api.DeleteCombo(ctx, id)
	return s.finish(epoch, err, func() {
		rest := make([]model.ComboView, 0, len(s.combos))
		for _, c := range s.combos {
			if c.ID != id {
				rest = append(rest, c)
			}
		}
		s.combos = rest
	})
}
