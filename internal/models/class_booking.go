package models

import "time"

type ClassBooking struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	PassID         string    `gorm:"type:uuid;not null;index" json:"passId"`
	ClassName      string    `gorm:"not null" json:"className"`
	InstructorName *string   `json:"instructorName"`
	ClassDate      time.Time `gorm:"not null" json:"classDate"`
	CheckedIn      time.Time `gorm:"not null" json:"checkedIn"`
}

// BookingDraft carries the optional class details recorded with a check-in.
type BookingDraft struct {
	ClassName      string
	InstructorName *string
	ClassDate      *time.Time
}

func NewClassBooking(passID string, d BookingDraft, now time.Time) ClassBooking {
	classDate := now
	if d.ClassDate != nil {
		classDate = *d.ClassDate
	}
	return ClassBooking{
		PassID:         passID,
		ClassName:      d.ClassName,
		InstructorName: d.InstructorName,
		ClassDate:      classDate,
		CheckedIn:      now,
	}
}
