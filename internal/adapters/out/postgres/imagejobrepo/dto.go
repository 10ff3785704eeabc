// Package imagejobrepo provides data transfer objects and mapping functions
// for the image upload job queue. The queue is a regular table: claims are
// conditional status updates, so the database itself guarantees each job has
// at most one worker.
package imagejobrepo

import (
	"time"

	"github.com/google/uuid"

	"foodfast/internal/core/domain/model/imagejob"
	"foodfast/internal/core/domain/model/kernel"
)

// JobDTO represents the database structure for persisting image upload jobs.
// ClaimedAt is adapter bookkeeping for the stale sweep: set when a worker
// claims the job, cleared when the sweep returns it to pending.
type JobDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID `gorm:"type:uuid;index"`
	StorageKey   string    `gorm:"type:varchar(255)"`
	Status       string    `gorm:"type:varchar(16);index"`
	FailReason   string    `gorm:"type:text"`
	CreatedAt    time.Time
	ClaimedAt    *time.Time
	CompletedAt  *time.Time
}

// TableName specifies the database table name for image upload jobs.
func (JobDTO) TableName() string {
	return "image_upload_jobs"
}

func fromDomain(job *imagejob.Job) JobDTO {
	return JobDTO{
		ID:           job.ID().Bytes(),
		RestaurantID: job.RestaurantID().Bytes(),
		StorageKey:   job.StorageKey(),
		Status:       job.Status().String(),
		FailReason:   job.FailReason(),
		CreatedAt:    job.CreatedAt(),
		CompletedAt:  job.CompletedAt(),
	}
}

func toDomain(dto JobDTO) (*imagejob.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	status, err := imagejob.JobStatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	job, err := imagejob.RestoreJob(id, restaurantID, dto.StorageKey, status,
		dto.FailReason, dto.CreatedAt, dto.CompletedAt)
	if err != nil {
		return nil, err
	}

	return &job, nil
}
