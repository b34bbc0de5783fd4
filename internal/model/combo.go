package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vibeboxing/internal/combo"
)

// Combo is a user-authored sequence of steps. Steps are stored encoded in
// StepsBlob; the structured form lives only in the API representation.
type Combo struct {
	ID        uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uint         `json:"userId" gorm:"not null;index"`
	Name      string       `json:"nome" gorm:"size:255;not null"`
	Stance    combo.Stance `json:"base" gorm:"type:varchar(16);not null"`
	Guard     string       `json:"guarda" gorm:"size:64;not null"`
	StepsBlob string       `json:"-" gorm:"column:etapas;type:text;not null"`
	CreatedAt time.Time    `json:"dataCriacao"`
	UpdatedAt time.Time    `json:"dataModificacao" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Combo) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ComboView is the wire representation of a combo with decoded steps.
type ComboView struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"nome"`
	Stance    combo.Stance `json:"base"`
	Guard     string       `json:"guarda"`
	Steps     []combo.Step `json:"etapas"`
	CreatedAt time.Time    `json:"dataCriacao"`
	UpdatedAt time.Time    `json:"dataModificacao"`
}

// View decodes the stored steps. A corrupt blob becomes an empty list.
func (c *Combo) View() ComboView {
	return ComboView{
		ID:        c.ID,
		Name:      c.Name,
		Stance:    c.Stance,
		Guard:     c.Guard,
		Steps:     combo.DecodeSteps(c.StepsBlob),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
