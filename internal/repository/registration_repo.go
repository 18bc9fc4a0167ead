package repository

import (
	"context"

	"github.com/orbis-events/registration-service/internal/models"
	"gorm.io/gorm"
)

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	ConfirmPending(ctx context.Context, id string, fields map[string]any) (bool, error)
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.WithContext(ctx).First(&reg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// Update writes a partial field set against one registration id. Only
// lifecycle fields ever come through here; identity fields are immutable
// after creation.
func (r *registrationRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// ConfirmPending applies fields only while the registration is still
// pending. The status guard lives in the UPDATE itself, so two racing
// confirmation attempts cannot both win: the loser sees no rows affected.
func (r *registrationRepository) ConfirmPending(ctx context.Context, id string, fields map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
