package dto

import (
	"time"

	"github.com/Eursukkul/classpass-service/internal/models"
)

type CreatePassRequest struct {
	StudioName     string     `json:"studioName" validate:"notblank,max=100"`
	TotalClasses   int        `json:"totalClasses" validate:"min=1"`
	Cost           int64      `json:"cost" validate:"gte=0,lte=100000000"`
	Notes          *string    `json:"notes"`
	ExpirationDate *time.Time `json:"expirationDate"`
	PurchaseDate   *time.Time `json:"purchaseDate"`
}

func (r CreatePassRequest) Draft() models.PassDraft {
	return models.PassDraft{
		StudioName:     r.StudioName,
		TotalClasses:   r.TotalClasses,
		Cost:           r.Cost,
		Notes:          r.Notes,
		ExpirationDate: r.ExpirationDate,
		PurchaseDate:   r.PurchaseDate,
	}
}

// UpdatePassRequest is a partial update; omitted fields keep their value.
// NoExpiration clears the expiration date.
type UpdatePassRequest struct {
	StudioName     *string    `json:"studioName" validate:"omitnil,notblank,max=100"`
	Cost           *int64     `json:"cost" validate:"omitnil,gte=0,lte=100000000"`
	Notes          *string    `json:"notes"`
	PurchaseDate   *time.Time `json:"purchaseDate"`
	ExpirationDate *time.Time `json:"expirationDate"`
	NoExpiration   bool       `json:"noExpiration"`
}

func (r UpdatePassRequest) Update() models.PassUpdate {
	return models.PassUpdate{
		StudioName:     r.StudioName,
		Cost:           r.Cost,
		Notes:          r.Notes,
		PurchaseDate:   r.PurchaseDate,
		ExpirationDate: r.ExpirationDate,
		NoExpiration:   r.NoExpiration,
	}
}

// CheckInRequest may be empty. instructorName and classDate describe a
// booking, so they need a className.
type CheckInRequest struct {
	ClassName      string     `json:"className" validate:"required_with=InstructorName ClassDate,max=200"`
	InstructorName *string    `json:"instructorName" validate:"omitnil,max=200"`
	ClassDate      *time.Time `json:"classDate"`
}

// Booking returns nil when no class details were sent.
func (r CheckInRequest) Booking() *models.BookingDraft {
	if r.ClassName == "" {
		return nil
	}
	return &models.BookingDraft{
		ClassName:      r.ClassName,
		InstructorName: r.InstructorName,
		ClassDate:      r.ClassDate,
	}
}

// Costs are capped at 100000000 minor units (1,000,000.00) per request.
type ExtendPassRequest struct {
	AdditionalClasses int   `json:"additionalClasses" validate:"lte=10000"`
	AdditionalCost    int64 `json:"additionalCost" validate:"gte=0,lte=100000000"`
}
