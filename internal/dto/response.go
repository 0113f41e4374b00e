package dto

import (
	"time"

	"github.com/Eursukkul/classpass-service/internal/lifecycle"
	"github.com/Eursukkul/classpass-service/internal/models"
	"github.com/Eursukkul/classpass-service/internal/validation"
)

type PassResponse struct {
	ID               string           `json:"id"`
	StudioName       string           `json:"studioName"`
	TotalClasses     int              `json:"totalClasses"`
	RemainingClasses int              `json:"remainingClasses"`
	PurchaseDate     time.Time        `json:"purchaseDate"`
	ExpirationDate   *time.Time       `json:"expirationDate"`
	Cost             int64            `json:"cost"`
	Notes            *string          `json:"notes"`
	Status           lifecycle.Status `json:"status"`
	DaysUntilExpiry  *int             `json:"daysUntilExpiry"`
	UsageRatio       float64          `json:"usageRatio"`
	CanCheckIn       bool             `json:"canCheckIn"`
}

type BookingResponse struct {
	ID             string    `json:"id"`
	PassID         string    `json:"passId"`
	ClassName      string    `json:"className"`
	InstructorName *string   `json:"instructorName"`
	ClassDate      time.Time `json:"classDate"`
	CheckedIn      time.Time `json:"checkedIn"`
}

type SpendingResponse struct {
	Total    int64            `json:"total"`
	ByStudio map[string]int64 `json:"byStudio"`
}

type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors,omitempty"`
}

// ToPassResponse attaches the derived fields as of now.
func ToPassResponse(p *models.ClassPass, now time.Time) PassResponse {
	return PassResponse{
		ID:               p.ID,
		StudioName:       p.StudioName,
		TotalClasses:     p.TotalClasses,
		RemainingClasses: p.RemainingClasses,
		PurchaseDate:     p.PurchaseDate,
		ExpirationDate:   p.ExpirationDate,
		Cost:             p.Cost,
		Notes:            p.Notes,
		Status:           lifecycle.StatusOf(*p, now),
		DaysUntilExpiry:  lifecycle.DaysUntilExpiry(*p, now),
		UsageRatio:       lifecycle.UsageRatio(*p),
		CanCheckIn:       lifecycle.CanCheckIn(*p, now),
	}
}

func ToBookingResponse(b *models.ClassBooking) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		PassID:         b.PassID,
		ClassName:      b.ClassName,
		InstructorName: b.InstructorName,
		ClassDate:      b.ClassDate,
		CheckedIn:      b.CheckedIn,
	}
}

func ToSpendingResponse(s lifecycle.Spending) SpendingResponse {
	return SpendingResponse{Total: s.Total, ByStudio: s.ByStudio}
}
