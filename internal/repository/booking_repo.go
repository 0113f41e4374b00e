package repository

import (
	"context"

	"github.com/Eursukkul/classpass-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.ClassBooking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByPassID(ctx context.Context, passID string) ([]models.ClassBooking, error) {
	var bookings []models.ClassBooking
	if err := r.db.WithContext(ctx).
		Where("pass_id = ?", passID).
		Order("checked_in ASC, id ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
