package children

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsa498/devflow/pkg/db/models"
)

// Repository handles child and class enrollment persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, child *models.Child) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Child, error)
	CreateClassEnrollments(ctx context.Context, enrollments []models.ClassEnrollment) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a children repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, child *models.Child) error {
	return r.db.WithContext(ctx).Create(child).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Child, error) {
	var children []models.Child
	if err := r.db.WithContext(ctx).
		Preload("ClassEnrollments").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

func (r *repository) CreateClassEnrollments(ctx context.Context, enrollments []models.ClassEnrollment) error {
	if len(enrollments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&enrollments).Error
}

func (r *repository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Child{}).Error
}
