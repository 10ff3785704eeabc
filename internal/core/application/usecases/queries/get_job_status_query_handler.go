package queries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodfast/internal/core/domain/model/imagejob"
	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/pkg/errs"
)

// GetJobStatusQueryHandler reads a single job's state from the database.
type GetJobStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetJobStatusQueryHandler creates a handler for job status queries.
func NewGetJobStatusQueryHandler(db *gorm.DB) GetJobStatusQueryHandler {
	return GetJobStatusQueryHandler{db: db}
}

type jobStatusRow struct {
	ID          uuid.UUID  `gorm:"column:id"`
	Status      string     `gorm:"column:status"`
	FailReason  string     `gorm:"column:fail_reason"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

// Handle executes the status query. Returns errs.ErrObjectNotFound when no
// job exists under the given identifier.
func (h GetJobStatusQueryHandler) Handle(
	ctx context.Context,
	query GetJobStatusQuery,
) (GetJobStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetJobStatusQueryResponse{}, err
	}

	var row jobStatusRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			fail_reason,
			created_at,
			completed_at
		FROM image_upload_jobs
		WHERE id = ?
	`, query.JobID().String()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return GetJobStatusQueryResponse{}, errs.NewObjectNotFoundError("jobId", query.JobID())
	}
	if err != nil {
		return GetJobStatusQueryResponse{}, err
	}

	jobID, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return GetJobStatusQueryResponse{}, err
	}

	status, err := imagejob.JobStatusFromString(row.Status)
	if err != nil {
		return GetJobStatusQueryResponse{}, err
	}

	return GetJobStatusQueryResponse{
		ID:          jobID,
		Status:      status,
		FailReason:  row.FailReason,
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
	}, nil
}
