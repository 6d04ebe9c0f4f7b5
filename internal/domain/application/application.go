package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending     = "pending"
	StatusReviewed    = "reviewed"
	StatusShortlisted = "shortlisted"
	StatusRejected    = "rejected"
	StatusAccepted    = "accepted"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrAlreadyApplied = errors.New("application already exists for this job")
)

func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusShortlisted, StatusRejected, StatusAccepted:
		return true
	default:
		return false
	}
}

type Application struct {
	ID       string `json:"id"`
	JobID    string `json:"jobId"`
	SeekerID string `json:"seekerId"`
	// EmployerID is copied from the job at apply time so status checks
	// never need a join; job ownership is never transferred.
	EmployerID  string    `json:"employerId"`
	Status      string    `json:"status"`
	CoverLetter string    `json:"coverLetter,omitempty"`
	ResumeURL   string    `json:"resumeUrl,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ApplyRequest struct {
	JobID       string `json:"jobId" binding:"required"`
	CoverLetter string `json:"coverLetter" binding:"omitempty,max=5000"`
}

type StatusUpdateRequest struct {
	Status string  `json:"status" binding:"required,oneof=pending reviewed shortlisted rejected accepted"`
	Notes  *string `json:"notes" binding:"omitempty,max=2000"`
}

func New(req ApplyRequest, seekerID, employerID, resumeURL string) Application {
	now := time.Now().UTC()

	return Application{
		ID:          uuid.NewString(),
		JobID:       req.JobID,
		SeekerID:    seekerID,
		EmployerID:  employerID,
		Status:      StatusPending,
		CoverLetter: req.CoverLetter,
		ResumeURL:   resumeURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
