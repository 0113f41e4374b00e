package models

import (
	"strings"
	"time"
)

type ClassPass struct {
	ID               string     `gorm:"type:uuid;primaryKey" json:"id"`
	StudioName       string     `gorm:"size:100;not null" json:"studioName"`
	TotalClasses     int        `gorm:"not null" json:"totalClasses"`
	RemainingClasses int        `gorm:"not null" json:"remainingClasses"`
	PurchaseDate     time.Time  `gorm:"not null" json:"purchaseDate"`
	ExpirationDate   *time.Time `json:"expirationDate"`
	Cost             int64      `gorm:"not null" json:"cost"` // minor units
	Notes            *string    `json:"notes"`
	CreatedAt        time.Time  `json:"-"`
	UpdatedAt        time.Time  `json:"-"`
}

// PassDraft is the accepted input of the add-pass flow.
type PassDraft struct {
	StudioName     string
	TotalClasses   int
	Cost           int64
	Notes          *string
	ExpirationDate *time.Time
	PurchaseDate   *time.Time
}

// NewClassPass normalizes a draft into a fresh pass: every class is still
// available and the purchase date falls back to now.
func NewClassPass(d PassDraft, now time.Time) ClassPass {
	purchased := now
	if d.PurchaseDate != nil {
		purchased = *d.PurchaseDate
	}
	return ClassPass{
		StudioName:       strings.TrimSpace(d.StudioName),
		TotalClasses:     d.TotalClasses,
		RemainingClasses: d.TotalClasses,
		PurchaseDate:     purchased,
		ExpirationDate:   d.ExpirationDate,
		Cost:             d.Cost,
		Notes:            d.Notes,
	}
}

// PassUpdate lists the fields a generic update may touch. Class counts are
// deliberately absent: they change only through check-in and extend.
type PassUpdate struct {
	StudioName     *string
	Cost           *int64
	Notes          *string
	PurchaseDate   *time.Time
	ExpirationDate *time.Time
	NoExpiration   bool
}

// Apply copies the set fields onto p.
func (u PassUpdate) Apply(p *ClassPass) {
	if u.StudioName != nil {
		p.StudioName = strings.TrimSpace(*u.StudioName)
	}
	if u.Cost != nil {
		p.Cost = *u.Cost
	}
	if u.Notes != nil {
		p.Notes = u.Notes
	}
	if u.PurchaseDate != nil {
		p.PurchaseDate = *u.PurchaseDate
	}
	switch {
	case u.NoExpiration:
		p.ExpirationDate = nil
	case u.ExpirationDate != nil:
		p.ExpirationDate = u.ExpirationDate
	}
}
