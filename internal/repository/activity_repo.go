package repository

import (
	"context"

	"github.com/Eursukkul/classpass-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activityColumns = []string{"studio_name", "last_event", "remaining_classes", "total_classes", "expiration_date", "occurred_at"}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Upsert(ctx context.Context, a *models.PassActivity) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pass_id"}},
		DoUpdates: clause.AssignmentColumns(activityColumns),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "pass_activities.occurred_at <= excluded.occurred_at"},
		}},
	}).Create(a)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *activityRepository) FindByPassID(ctx context.Context, passID string) (*models.PassActivity, error) {
	var a models.PassActivity
	if err := r.db.WithContext(ctx).First(&a, "pass_id = ?", passID).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *activityRepository) Delete(ctx context.Context, passID string) error {
	return r.db.WithContext(ctx).Where("pass_id = ?", passID).Delete(&models.PassActivity{}).Error
}
