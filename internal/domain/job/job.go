package job

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive = "active"
	StatusClosed = "closed"
)

const (
	TypeFullTime   = "full-time"
	TypePartTime   = "part-time"
	TypeContract   = "contract"
	TypeInternship = "internship"
)

var ErrNotFound = errors.New("job not found")

type Job struct {
	ID               string    `json:"id"`
	EmployerID       string    `json:"employerId"`
	JobTitle         string    `json:"jobTitle"`
	Description      string    `json:"description"`
	Qualifications   string    `json:"qualifications,omitempty"`
	Responsibilities string    `json:"responsibilities,omitempty"`
	Location         string    `json:"location"`
	SalaryRange      string    `json:"salaryRange,omitempty"`
	JobType          string    `json:"jobType"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ListFilter narrows the public listing; nil fields are unused.
type ListFilter struct {
	Location *string
	JobType  *string
	Query    *string
	Limit    int
}

type CreateRequest struct {
	JobTitle         string `json:"jobTitle" binding:"required,min=3,max=150"`
	Description      string `json:"description" binding:"required"`
	Qualifications   string `json:"qualifications" binding:"omitempty,max=5000"`
	Responsibilities string `json:"responsibilities" binding:"omitempty,max=5000"`
	Location         string `json:"location" binding:"required,min=2,max=120"`
	SalaryRange      string `json:"salaryRange" binding:"omitempty,max=80"`
	JobType          string `json:"jobType" binding:"omitempty,oneof=full-time part-time contract internship"`
}

// Partial update: nil means "leave as is", mirroring the public PUT contract.
type UpdateRequest struct {
	JobTitle         *string `json:"jobTitle" binding:"omitempty,min=3,max=150"`
	Description      *string `json:"description" binding:"omitempty"`
	Qualifications   *string `json:"qualifications" binding:"omitempty,max=5000"`
	Responsibilities *string `json:"responsibilities" binding:"omitempty,max=5000"`
	Location         *string `json:"location" binding:"omitempty,min=2,max=120"`
	SalaryRange      *string `json:"salaryRange" binding:"omitempty,max=80"`
	JobType          *string `json:"jobType" binding:"omitempty,oneof=full-time part-time contract internship"`
	Status           *string `json:"status" binding:"omitempty,oneof=active closed"`
}

func NewFromCreateRequest(employerID string, req CreateRequest) Job {
	now := time.Now().UTC()

	jobType := req.JobType

	if jobType == "" {
		jobType = TypeFullTime
	}

	return Job{
		ID:               uuid.NewString(),
		EmployerID:       employerID,
		JobTitle:         req.JobTitle,
		Description:      req.Description,
		Qualifications:   req.Qualifications,
		Responsibilities: req.Responsibilities,
		Location:         req.Location,
		SalaryRange:      req.SalaryRange,
		JobType:          jobType,
		Status:           StatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Apply folds a partial update into an existing job.
func (j Job) Apply(req UpdateRequest) Job {
	if req.JobTitle != nil {
		j.JobTitle = *req.JobTitle
	}
	if req.Description != nil {
		j.Description = *req.Description
	}
	if req.Qualifications != nil {
		j.Qualifications = *req.Qualifications
	}
	if req.Responsibilities != nil {
		j.Responsibilities = *req.Responsibilities
	}
	if req.Location != nil {
		j.Location = *req.Location
	}
	if req.SalaryRange != nil {
		j.SalaryRange = *req.SalaryRange
	}
	if req.JobType != nil {
		j.JobType = *req.JobType
	}
	if req.Status != nil {
		j.Status = *req.Status
	}

	j.UpdatedAt = time.Now().UTC()

	return j
}
