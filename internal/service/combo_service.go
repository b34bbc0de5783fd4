package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"vibeboxing/internal/combo"
	apperrors "vibeboxing/internal/errors"
	"vibeboxing/internal/metrics"
	"vibeboxing/internal/model"
	"vibeboxing/internal/repository"
)

// ComboDraft is a complete combo as submitted for creation.
type ComboDraft struct {
	Name   string
	Stance combo.Stance
	Guard  string
	// Steps is either a JSON array of steps or a JSON string holding one.
	Steps json.RawMessage
}

// ComboPatch replaces the fields that are set and keeps the others.
type ComboPatch struct {
	Name   *string
	Stance *combo.Stance
	Guard  *string
	Steps  json.RawMessage
}

// ComboService exposes owner-scoped combo operations.
type ComboService interface {
	List(ctx context.Context, userID uint) ([]model.ComboView, error)
	Get(ctx context.Context, userID uint, id uuid.UUID) (*model.ComboView, error)
	Create(ctx context.Context, userID uint, draft ComboDraft) (*model.ComboView, error)
	Update(ctx context.Context, userID uint, id uuid.UUID, patch ComboPatch) (*model.ComboView, error)
	Delete(ctx context.Context, userID uint, id uuid.UUID) error
	Stats(ctx context.Context, userID uint) (combo.Stats, error)
}

type comboService struct {
	repo    repository.ComboRepository
	metrics *metrics.Metrics
}

// NewComboService creates a new combo service.
func NewComboService(repo repository.ComboRepository, m *metrics.Metrics) ComboService {
	return &comboService{repo: repo, metrics: m}
}

func (s *comboService) List(ctx context.Context, userID uint) ([]model.ComboView, error) {
	combos, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, oops.Code("COMBO_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	views := make([]model.ComboView, 0, len(combos))
	for i := range combos {
		views = append(views, combos[i].View())
	}
	return views, nil
}

func (s *comboService) Get(ctx context.Context, userID uint, id uuid.UUID) (*model.ComboView, error) {
	c, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, wrapComboErr("COMBO_GET_FAILED", id, err)
	}
	v := c.View()
	return &v, nil
}

func (s *comboService) Create(ctx context.Context, userID uint, draft ComboDraft) (view *model.ComboView, err error) {
	defer func() { s.metrics.RecordComboMutation("create", err) }()

	name, guard := strings.TrimSpace(draft.Name), strings.TrimSpace(draft.Guard)
	if name == "" || guard == "" {
		return nil, fmt.Errorf("%w: nome, base, guarda and etapas are required", apperrors.ErrValidation)
	}
	if !draft.Stance.Valid() {
		return nil, fmt.Errorf("%w: base must be %q or %q", apperrors.ErrValidation, combo.StanceOrthodox, combo.StanceSouthpaw)
	}
	blob, err := normalizeSteps(draft.Steps)
	if err != nil {
		return nil, err
	}

	c := &model.Combo{UserID: userID, Name: name, Stance: draft.Stance, Guard: guard, StepsBlob: blob}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, oops.Code("COMBO_CREATE_FAILED").With("user_id", userID).Wrap(err)
	}
	v := c.View()
	return &v, nil
}

func (s *comboService) Update(ctx context.Context, userID uint, id uuid.UUID, patch ComboPatch) (view *model.ComboView, err error) {
	defer func() { s.metrics.RecordComboMutation("update", err) }()

	var blob string
	if len(patch.Steps) > 0 && strings.TrimSpace(string(patch.Steps)) != "null" {
		if blob, err = normalizeSteps(patch.Steps); err != nil {
			return nil, err
		}
	}
	if patch.Stance != nil && !patch.Stance.Valid() {
		return nil, fmt.Errorf("%w: base must be %q or %q", apperrors.ErrValidation, combo.StanceOrthodox, combo.StanceSouthpaw)
	}

	c, err := s.repo.UpdateOwned(ctx, userID, id, func(c *model.Combo) error {
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return fmt.Errorf("%w: nome cannot be empty", apperrors.ErrValidation)
			}
			c.Name = name
		}
		if patch.Stance != nil {
			c.Stance = *patch.Stance
		}
		if patch.Guard != nil {
			guard := strings.TrimSpace(*patch.Guard)
			if guard == "" {
				return fmt.Errorf("%w: guarda cannot be empty", apperrors.ErrValidation)
			}
			c.Guard = guard
		}
		if blob != "" {
			c.StepsBlob = blob
		}
		return nil
	})
	if err != nil {
		return nil, wrapComboErr("COMBO_UPDATE_FAILED", id, err)
	}
	v := c.View()
	return &v, nil
}

func (s *comboService) Delete(ctx context.Context, userID uint, id uuid.UUID) (err error) {
	defer func() { s.metrics.RecordComboMutation("delete", err) }()

	if err := s.repo.DeleteOwned(ctx, userID, id); err != nil {
		return wrapComboErr("COMBO_DELETE_FAILED", id, err)
	}
	return nil
}

func (s *comboService) Stats(ctx context.Context, userID uint) (combo.Stats, error) {
	combos, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return combo.Stats{}, oops.Code("COMBO_STATS_FAILED").With("user_id", userID).Wrap(err)
	}
	collection := make([][]combo.Step, len(combos))
	for i := range combos {
		collection[i] = combo.DecodeSteps(combos[i].StepsBlob)
	}
	return combo.ComputeStats(collection), nil
}

// normalizeSteps parses submitted steps, drops empty authoring steps and
// re-encodes them canonically.
func normalizeSteps(raw json.RawMessage) (string, error) {
	steps, err := combo.ParseSteps(raw)
	if err != nil {
		return "", fmt.Errorf("%w: etapas: %v", apperrors.ErrValidation, err)
	}
	steps, err = combo.Finalize(steps)
	if err != nil {
		return "", fmt.Errorf("%w: etapas: %v", apperrors.ErrValidation, err)
	}
	blob, err := combo.EncodeSteps(steps)
	if err != nil {
		return "", oops.Code("COMBO_ENCODE_FAILED").Wrap(err)
	}
	return blob, nil
}

func wrapComboErr(code string, id uuid.UUID, err error) error {
	if errors.Is(err, apperrors.ErrComboNotFound) || errors.Is(err, apperrors.ErrValidation) {
		return err
	}
	return oops.Code(code).With("combo_id", id.String()).Wrap(err)
}
