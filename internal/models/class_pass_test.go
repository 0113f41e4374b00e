package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewClassPass_Defaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	p := NewClassPass(PassDraft{StudioName: "  CorePower Yoga ", TotalClasses: 10, Cost: 18000}, now)

	assert.Equal(t, "CorePower Yoga", p.StudioName)
	assert.Equal(t, 10, p.TotalClasses)
	assert.Equal(t, 10, p.RemainingClasses)
	assert.Equal(t, now, p.PurchaseDate)
	assert.Nil(t, p.ExpirationDate)
	assert.Nil(t, p.Notes)
	assert.Empty(t, p.ID)
}

func TestNewClassPass_KeepsSuppliedDates(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	purchased := now.AddDate(0, 0, -3)
	expires := now.AddDate(0, 2, 0)

	p := NewClassPass(PassDraft{
		StudioName:     "SoulCycle",
		TotalClasses:   5,
		PurchaseDate:   &purchased,
		ExpirationDate: &expires,
	}, now)

	assert.Equal(t, purchased, p.PurchaseDate)
	assert.Equal(t, expires, *p.ExpirationDate)
}

func TestPassUpdate_Apply(t *testing.T) {
	expires := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	p := ClassPass{StudioName: "Old", TotalClasses: 8, RemainingClasses: 3, Cost: 100, ExpirationDate: &expires}

	name := "Orange Theory"
	cost := int64(16000)
	PassUpdate{StudioName: &name, Cost: &cost}.Apply(&p)

	assert.Equal(t, "Orange Theory", p.StudioName)
	assert.Equal(t, int64(16000), p.Cost)
	assert.Equal(t, 8, p.TotalClasses)
	assert.Equal(t, 3, p.RemainingClasses)
	assert.NotNil(t, p.ExpirationDate)

	PassUpdate{NoExpiration: true}.Apply(&p)
	assert.Nil(t, p.ExpirationDate)
}

func TestNewClassBooking(t *testing.T) {
	now := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)

	b := NewClassBooking("pass-1", BookingDraft{ClassName: "Vinyasa Flow"}, now)

	assert.Equal(t, "pass-1", b.PassID)
	assert.Equal(t, now, b.ClassDate)
	assert.Equal(t, now, b.CheckedIn)
	assert.Nil(t, b.InstructorName)
}
