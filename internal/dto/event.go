package dto

import (
	"time"

	"github.com/Eursukkul/classpass-service/internal/models"
)

// Routing keys published on the pass exchange.
const (
	PassCreated   = "pass.created"
	PassUpdated   = "pass.updated"
	PassCheckedIn = "pass.checked_in"
	PassExtended  = "pass.extended"
	PassDeleted   = "pass.deleted"
	PassExpiring  = "pass.expiring"
)

type PassEvent struct {
	Type             string     `json:"type"`
	PassID           string     `json:"passId"`
	StudioName       string     `json:"studioName"`
	TotalClasses     int        `json:"totalClasses"`
	RemainingClasses int        `json:"remainingClasses"`
	Cost             int64      `json:"cost"`
	ExpirationDate   *time.Time `json:"expirationDate,omitempty"`
	OccurredAt       time.Time  `json:"occurredAt"`
}

func NewPassEvent(eventType string, p *models.ClassPass, at time.Time) PassEvent {
	return PassEvent{
		Type:             eventType,
		PassID:           p.ID,
		StudioName:       p.StudioName,
		TotalClasses:     p.TotalClasses,
		RemainingClasses: p.RemainingClasses,
		Cost:             p.Cost,
		ExpirationDate:   p.ExpirationDate,
		OccurredAt:       at,
	}
}

// EventTime is p's last stored write time, or fallback for a pass that
// carries none.
func EventTime(p *models.ClassPass, fallback time.Time) time.Time {
	if p.UpdatedAt.IsZero() {
		return fallback.UTC()
	}
	return p.UpdatedAt.UTC()
}
