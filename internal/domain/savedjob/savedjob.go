package savedjob

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hiremesh/jobhub/internal/domain/job"
)

var (
	ErrNotFound     = errors.New("saved job not found")
	ErrAlreadySaved = errors.New("job already saved")
)

type SavedJob struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	JobID     string    `json:"jobId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SavedJobWithJob carries the bookmark together with the job it points
// at, as returned by the listing query.
type SavedJobWithJob struct {
	SavedJob
	Job job.Job `json:"job"`
}

type SaveRequest struct {
	JobID string `json:"jobId" binding:"required"`
}

func New(userID, jobID string) SavedJob {
	return SavedJob{
		ID:        uuid.NewString(),
		UserID:    userID,
		JobID:     jobID,
		CreatedAt: time.Now().UTC(),
	}
}
