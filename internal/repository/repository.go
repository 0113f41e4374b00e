package repository

import (
	"context"
	"errors"

	"github.com/Eursukkul/classpass-service/internal/models"
)

var ErrNotFound = errors.New("record not found")

// MutateFunc edits a pass in place while its row is locked. Returning an
// error aborts the mutation and leaves the stored pass unchanged.
type MutateFunc func(p *models.ClassPass) error

type PassRepository interface {
	Create(ctx context.Context, pass *models.ClassPass) error
	FindByID(ctx context.Context, id string) (*models.ClassPass, error)
	FindAll(ctx context.Context) ([]models.ClassPass, error)
	Mutate(ctx context.Context, id string, fn MutateFunc) (*models.ClassPass, error)
	// MutateWithBooking is Mutate that also inserts booking in the same
	// transaction; a failed insert rolls the mutation back. A nil booking
	// behaves like Mutate.
	MutateWithBooking(ctx context.Context, id string, fn MutateFunc, booking *models.ClassBooking) (*models.ClassPass, error)
	// Delete removes the pass and its bookings; false means no such pass.
	Delete(ctx context.Context, id string) (bool, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.ClassBooking) error
	FindByPassID(ctx context.Context, passID string) ([]models.ClassBooking, error)
}

type ActivityRepository interface {
	// Upsert stores a unless the stored row is newer; false means it was skipped.
	Upsert(ctx context.Context, a *models.PassActivity) (bool, error)
	FindByPassID(ctx context.Context, passID string) (*models.PassActivity, error)
	Delete(ctx context.Context, passID string) error
}
