package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "vibeboxing/internal/errors"
	"vibeboxing/internal/model"
)

// ComboRepository defines combo persistence operations. Every lookup and
// mutation is scoped to the owning user.
type ComboRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]model.Combo, error)
	FindOwned(ctx context.Context, userID uint, id uuid.UUID) (*model.Combo, error)
	Create(ctx context.Context, combo *model.Combo) error
	// UpdateOwned loads the combo, applies mutate and saves it in one transaction.
	UpdateOwned(ctx context.Context, userID uint, id uuid.UUID, mutate func(*model.Combo) error) (*model.Combo, error)
	DeleteOwned(ctx context.Context, userID uint, id uuid.UUID) error
}

type comboRepository struct {
	db *gorm.DB
}

// NewComboRepository creates a new combo repository.
func NewComboRepository(db *gorm.DB) ComboRepository {
	return &comboRepository{db: db}
}

// ListByUser returns the user's combos, most recently modified first.
func (r *comboRepository) ListByUser(ctx context.Context, userID uint) ([]model.Combo, error) {
	combos := []model.Combo{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("updated_at DESC").Find(&combos).Error; err != nil {
		return nil, err
	}
	return combos, nil
}

// FindOwned finds a combo by ID. Combos of other users are reported as missing.
func (r *comboRepository) FindOwned(ctx context.Context, userID uint, id uuid.UUID) (*model.Combo, error) {
	return findOwned(r.db.WithContext(ctx), userID, id)
}

func findOwned(db *gorm.DB, userID uint, id uuid.UUID) (*model.Combo, error) {
	var c model.Combo
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
		return nil, notFound(err, apperrors.ErrComboNotFound)
	}
	return &c, nil
}

// Create creates a new combo.
func (r *comboRepository) Create(ctx context.Context, combo *model.Combo) error {
	return r.db.WithContext(ctx).Create(combo).Error
}

func (r *comboRepository) UpdateOwned(ctx context.Context, userID uint, id uuid.UUID, mutate func(*model.Combo) error) (*model.Combo, error) {
	var updated *model.Combo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findOwned(tx, userID, id)
		if err != nil {
			return err
		}
		if err := mutate(c); err != nil {
			return err
		}
		if err := tx.Model(c).Select("name", "stance", "guard", "etapas", "updated_at").
			Updates(c).Error; err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *comboRepository) DeleteOwned(ctx context.Context, userID uint, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Combo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrComboNotFound
	}
	return nil
}
