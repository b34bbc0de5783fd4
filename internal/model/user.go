package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is an account holder. Profile attributes are optional.
type User struct {
	ID           uint                `json:"id" gorm:"primaryKey"`
	Email        string              `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string              `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Name         string              `json:"name" gorm:"size:255"`
	Phone        string              `json:"phone,omitempty" gorm:"size:50"`
	Age          *int                `json:"age,omitempty"`
	City         string              `json:"city,omitempty" gorm:"size:120"`
	State        string              `json:"state,omitempty" gorm:"size:120"`
	Weight       decimal.NullDecimal `json:"weight" gorm:"type:decimal(6,2)"`
	Height       decimal.NullDecimal `json:"height" gorm:"type:decimal(5,2)"`
	Gym          string              `json:"gym,omitempty" gorm:"size:255"`
	ProfileImage string              `json:"profileImage,omitempty" gorm:"size:512"`
	// TokensValidAfter rejects bearer tokens issued before it. Bumped on logout,
	// password change and password reset.
	TokensValidAfter time.Time `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	Combos []Combo `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// ProfileUpdate carries the partial profile fields accepted by PUT /api/user.
// Nil pointers and empty strings leave the stored value untouched.
type ProfileUpdate struct {
	Name         *string             `json:"name"`
	Phone        *string             `json:"phone"`
	Age          *int                `json:"age" validate:"omitempty,min=1,max=120"`
	City         *string             `json:"city"`
	State        *string             `json:"state"`
	Weight       decimal.NullDecimal `json:"weight"`
	Height       decimal.NullDecimal `json:"height"`
	Gym          *string             `json:"gym"`
	ProfileImage *string             `json:"profileImage"`
}

// Apply merges the non-empty fields of p into u.
func (p ProfileUpdate) Apply(u *User) {
	setString := func(dst *string, src *string) {
		if src != nil && *src != "" {
			*dst = *src
		}
	}
	setString(&u.Name, p.Name)
	setString(&u.Phone, p.Phone)
	setString(&u.City, p.City)
	setString(&u.State, p.State)
	setString(&u.Gym, p.Gym)
	setString(&u.ProfileImage, p.ProfileImage)
	if p.Age != nil && *p.Age > 0 {
		age := *p.Age
		u.Age = &age
	}
	if p.Weight.Valid && p.Weight.Decimal.IsPositive() {
		u.Weight = p.Weight
	}
	if p.Height.Valid && p.Height.Decimal.IsPositive() {
		u.Height = p.Height
	}
}
