package programs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsa498/devflow/pkg/db/models"
	"github.com/jsa498/devflow/pkg/enums"
)

// Repository handles program enrollment persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, enrollment *models.ProgramEnrollment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProgramEnrollment, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.ProgramEnrollment, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.ProgramEnrollment, error)
	SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error
	Activate(ctx context.Context, id, userID uuid.UUID, subscriptionID, sessionID string) (bool, error)
	MarkCreationFailed(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a program enrollment repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, enrollment *models.ProgramEnrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProgramEnrollment, error) {
	var enrollment models.ProgramEnrollment
	err := r.db.WithContext(ctx).First(&enrollment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *repository) FindBySessionID(ctx context.Context, sessionID string) (*models.ProgramEnrollment, error) {
	var enrollment models.ProgramEnrollment
	err := r.db.WithContext(ctx).
		First(&enrollment, "stripe_checkout_session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.ProgramEnrollment, error) {
	var enrollment models.ProgramEnrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enums.EnrollmentStatusActive).
		Order("created_at DESC").
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *repository) SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&models.ProgramEnrollment{}).
		Where("id = ?", id).
		Update("stripe_checkout_session_id", sessionID).Error
}

// Activate flips a pending enrollment to active. The update is keyed by id
// AND user id so a forged metadata payload cannot activate another account's
// row, and guarded by the current status so a second activation attempt is a
// no-op. Returns whether a row transitioned.
func (r *repository) Activate(ctx context.Context, id, userID uuid.UUID, subscriptionID, sessionID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProgramEnrollment{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, enums.EnrollmentStatusPendingPayment).
		Updates(map[string]any{
			"status":                     enums.EnrollmentStatusActive,
			"stripe_subscription_id":     subscriptionID,
			"stripe_checkout_session_id": sessionID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) MarkCreationFailed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ProgramEnrollment{}).
		Where("id = ? AND status = ?", id, enums.EnrollmentStatusPendingPayment).
		Update("status", enums.EnrollmentStatusCreationFailed).Error
}
