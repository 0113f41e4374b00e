package models

import "time"

// PassActivity is the notifier's last-known view of a pass, rebuilt from
// pass events.
type PassActivity struct {
	PassID           string     `gorm:"type:uuid;primaryKey" json:"passId"`
	StudioName       string     `gorm:"type:varchar(100);not null" json:"studioName"`
	LastEvent        string     `gorm:"type:varchar(32);not null" json:"lastEvent"`
	RemainingClasses int        `gorm:"not null" json:"remainingClasses"`
	TotalClasses     int        `gorm:"not null" json:"totalClasses"`
	ExpirationDate   *time.Time `json:"expirationDate"`
	OccurredAt       time.Time  `gorm:"not null;index" json:"occurredAt"`
}
