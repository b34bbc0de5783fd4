// Package repotest provides in-memory repositories for tests that exercise
// services and handlers without a database.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "vibeboxing/internal/errors"
	"vibeboxing/internal/model"
	"vibeboxing/internal/repository"
)

// Store backs both fake repositories so account deletion cascades to combos.
type Store struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]model.User
	combos map[uuid.UUID]model.Combo
	last   time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		nextID: 1,
		users:  make(map[uint]model.User),
		combos: make(map[uuid.UUID]model.Combo),
	}
}

// now returns strictly increasing timestamps so orderings are deterministic.
// Callers hold mu.
func (s *Store) now() time.Time {
	t := time.Now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// Users returns a UserRepository over the store.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Combos returns a ComboRepository over the store.
func (s *Store) Combos() repository.ComboRepository { return &comboRepo{s} }

// PutCombo writes c as-is, bypassing validation. Used to plant corrupt rows.
func (s *Store) PutCombo(c model.Combo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.combos[c.ID] = c
}

type userRepo struct{ s *Store }

var _ repository.UserRepository = (*userRepo)(nil)

func (r *userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return apperrors.ErrEmailTaken
		}
	}
	now := r.s.now()
	user.ID = r.s.nextID
	r.s.nextID++
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *userRepo) UpdateProfile(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Name, u.Phone, u.Age, u.City, u.State = user.Name, user.Phone, user.Age, user.City, user.State
	u.Weight, u.Height, u.Gym, u.ProfileImage = user.Weight, user.Height, user.Gym, user.ProfileImage
	u.UpdatedAt = r.s.now()
	r.s.users[u.ID] = u
	return nil
}

func (r *userRepo) UpdateCredentials(_ context.Context, id uint, hash string, validAfter time.Time) error {
	return r.update(id, func(u *model.User) {
		u.PasswordHash = hash
		u.TokensValidAfter = validAfter
	})
}

func (r *userRepo) RevokeTokens(_ context.Context, id uint, at time.Time) error {
	return r.update(id, func(u *model.User) { u.TokensValidAfter = at })
}

func (r *userRepo) update(id uint, fn func(*model.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	fn(&u)
	r.s.users[id] = u
	return nil
}

func (r *userRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.s.users, id)
	for cid, c := range r.s.combos {
		if c.UserID == id {
			delete(r.s.combos, cid)
		}
	}
	return nil
}

type comboRepo struct{ s *Store }

var _ repository.ComboRepository = (*comboRepo)(nil)

func (r *comboRepo) ListByUser(_ context.Context, userID uint) ([]model.Combo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Combo{}
	for _, c := range r.s.combos {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *comboRepo) FindOwned(_ context.Context, userID uint, id uuid.UUID) (*model.Combo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.combos[id]
	if !ok || c.UserID != userID {
		return nil, apperrors.ErrComboNotFound
	}
	return &c, nil
}

func (r *comboRepo) Create(_ context.Context, c *model.Combo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := r.s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.s.combos[c.ID] = *c
	return nil
}

func (r *comboRepo) UpdateOwned(_ context.Context, userID uint, id uuid.UUID, mutate func(*model.Combo) error) (*model.Combo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.combos[id]
	if !ok || c.UserID != userID {
		return nil, apperrors.ErrComboNotFound
	}
	if err := mutate(&c); err != nil {
		return nil, err
	}
	c.UpdatedAt = r.s.now()
	r.s.combos[id] = c
	return &c, nil
}

func (r *comboRepo) DeleteOwned(_ context.Context, userID uint, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.combos[id]
	if !ok || c.UserID != userID {
		return apperrors.ErrComboNotFound
	}
	delete(r.s.combos, id)
	return nil
}
