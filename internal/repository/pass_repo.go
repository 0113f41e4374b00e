package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Eursukkul/classpass-service/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type passRepository struct {
	db *gorm.DB
}

func NewPassRepository(db *gorm.DB) PassRepository {
	return &passRepository{db: db}
}

func (r *passRepository) Create(ctx context.Context, pass *models.ClassPass) error {
	if pass.ID == "" {
		pass.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(pass).Error
}

func (r *passRepository) FindByID(ctx context.Context, id string) (*models.ClassPass, error) {
	var pass models.ClassPass
	if err := r.db.WithContext(ctx).First(&pass, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &pass, nil
}

func (r *passRepository) FindAll(ctx context.Context) ([]models.ClassPass, error) {
	var passes []models.ClassPass
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&passes).Error; err != nil {
		return nil, err
	}
	return passes, nil
}

// Mutate locks the pass row for the length of the transaction so concurrent
// check-ins and extensions on the same pass are applied one after another.
func (r *passRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (*models.ClassPass, error) {
	return r.MutateWithBooking(ctx, id, fn, nil)
}

func (r *passRepository) MutateWithBooking(ctx context.Context, id string, fn MutateFunc, booking *models.ClassBooking) (*models.ClassPass, error) {
	var result *models.ClassPass

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pass models.ClassPass
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&pass, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		if err := fn(&pass); err != nil {
			return err
		}

		pass.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&pass).Error; err != nil {
			return err
		}

		if booking != nil {
			if booking.ID == "" {
				booking.ID = uuid.NewString()
			}
			booking.PassID = pass.ID
			if err := tx.Create(booking).Error; err != nil {
				return err
			}
		}
		result = &pass
		return nil
	})

	return result, err
}

func (r *passRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pass_id = ?", id).Delete(&models.ClassBooking{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.ClassPass{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})

	return deleted, err
}

// invalid_text_representation: an id that is not a uuid cannot name a row.
const pgInvalidTextRepresentation = "22P02"

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation {
		return ErrNotFound
	}
	return err
}
