package imagejobrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"foodfast/internal/core/domain/model/imagejob"
	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/pkg/errs"
)

// GormImageJobRepository implements ImageJobRepository using GORM.
type GormImageJobRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormImageJobRepository creates a new GORM image job repository.
func NewGormImageJobRepository(db *gorm.DB, tracker aggregateTracker) *GormImageJobRepository {
	return &GormImageJobRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new job to the database.
func (r *GormImageJobRepository) Add(ctx context.Context, job *imagejob.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	dto := fromDomain(job)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(job.ID(), job)
	return nil
}

// Update saves an existing job to the database.
func (r *GormImageJobRepository) Update(ctx context.Context, job *imagejob.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	dto := fromDomain(job)
	result := r.db.WithContext(ctx).Model(&JobDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(job.ID(), job)
	return nil
}

// Get retrieves a job by ID.
func (r *GormImageJobRepository) Get(ctx context.Context, id kernel.UUID) (*imagejob.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ClaimPending atomically claims the oldest pending job. The claim is a
// conditional update on the status column: of N workers racing for the same
// row exactly one sees RowsAffected == 1, the rest lose the predicate and
// retry on the next oldest row only through a fresh call. Returns
// imagejob.ErrClaimConflict when no pending job exists or the race was lost.
func (r *GormImageJobRepository) ClaimPending(ctx context.Context) (*imagejob.Job, error) {
	var dto JobDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", imagejob.JobPending.String()).
		Order("created_at, id").
		First(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: queue is empty", imagejob.ErrClaimConflict)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ? AND status = ?", dto.ID, imagejob.JobPending.String()).
		Updates(map[string]any{
			"status":     imagejob.JobProcessing.String(),
			"claimed_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: job %s", imagejob.ErrClaimConflict, dto.ID)
	}

	dto.Status = imagejob.JobProcessing.String()
	dto.ClaimedAt = &now

	job, err := toDomain(dto)
	if err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(job.ID(), job)
	return job, nil
}

// ResetStale returns jobs stuck in processing longer than threshold back to
// pending. Returns the number of jobs recovered.
func (r *GormImageJobRepository) ResetStale(ctx context.Context, threshold time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-threshold)

	result := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("status = ? AND claimed_at < ?", imagejob.JobProcessing.String(), cutoff).
		Updates(map[string]any{
			"status":     imagejob.JobPending.String(),
			"claimed_at": nil,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
