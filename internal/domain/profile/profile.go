package profile

import (
	"errors"
	"time"

	"github.com/hiremesh/jobhub/internal/domain/user"
)

var ErrNotFound = errors.New("profile not found")

// Profile is the closed seeker/employer variant. The concrete shape is
// picked once at the boundary from the identity's role; handlers never
// branch on role strings beyond that.
type Profile interface {
	Role() string
}

type Experience struct {
	JobTitle         string `json:"jobTitle"`
	Company          string `json:"company"`
	Location         string `json:"location,omitempty"`
	StartDate        string `json:"startDate,omitempty"`
	EndDate          string `json:"endDate,omitempty"`
	CurrentlyWorking bool   `json:"currentlyWorking"`
	Description      string `json:"description,omitempty"`
}

type SeekerProfile struct {
	UserID         string       `json:"userId"`
	Location       string       `json:"location,omitempty"`
	Headline       string       `json:"headline,omitempty"`
	ResumeURL      string       `json:"resumeUrl,omitempty"`
	Degree         string       `json:"degree,omitempty"`
	Institution    string       `json:"institution,omitempty"`
	FieldOfStudy   string       `json:"fieldOfStudy,omitempty"`
	GraduationYear string       `json:"graduationYear,omitempty"`
	CGPA           string       `json:"cgpa,omitempty"`
	Experiences    []Experience `json:"experiences,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

func (SeekerProfile) Role() string { return user.RoleSeeker }

type EmployerProfile struct {
	UserID             string    `json:"userId"`
	CompanyName        string    `json:"companyName,omitempty"`
	CompanyWebsite     string    `json:"companyWebsite,omitempty"`
	CompanyDescription string    `json:"companyDescription,omitempty"`
	ContactPhone       string    `json:"contactPhone,omitempty"`
	ContactEmail       string    `json:"contactEmail,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (EmployerProfile) Role() string { return user.RoleEmployer }

// Update payloads. Base fields live on the identity, the rest on the
// role-specific profile row. Nil means "leave as is".

type SeekerUpdateRequest struct {
	Fullname       *string      `json:"fullname" binding:"omitempty,min=1,max=120"`
	Phone          *string      `json:"phone" binding:"omitempty,min=10,max=20"`
	Location       *string      `json:"location" binding:"omitempty,max=120"`
	Headline       *string      `json:"headline" binding:"omitempty,max=200"`
	ResumeURL      *string      `json:"resumeUrl" binding:"omitempty,max=500"`
	Degree         *string      `json:"degree" binding:"omitempty,max=120"`
	Institution    *string      `json:"institution" binding:"omitempty,max=200"`
	FieldOfStudy   *string      `json:"fieldOfStudy" binding:"omitempty,max=120"`
	GraduationYear *string      `json:"graduationYear" binding:"omitempty,max=10"`
	CGPA           *string      `json:"cgpa" binding:"omitempty,max=10"`
	Experiences    []Experience `json:"experiences" binding:"omitempty,dive"`
}

type EmployerUpdateRequest struct {
	Fullname           *string `json:"fullname" binding:"omitempty,min=1,max=120"`
	Phone              *string `json:"phone" binding:"omitempty,min=10,max=20"`
	CompanyName        *string `json:"companyName" binding:"omitempty,max=200"`
	CompanyWebsite     *string `json:"companyWebsite" binding:"omitempty,max=300"`
	CompanyDescription *string `json:"companyDescription" binding:"omitempty,max=5000"`
	ContactPhone       *string `json:"contactPhone" binding:"omitempty,max=20"`
	ContactEmail       *string `json:"contactEmail" binding:"omitempty,email"`
}

func (s SeekerProfile) Apply(req SeekerUpdateRequest) SeekerProfile {
	if req.Location != nil {
		s.Location = *req.Location
	}
	if req.Headline != nil {
		s.Headline = *req.Headline
	}
	if req.ResumeURL != nil {
		s.ResumeURL = *req.ResumeURL
	}
	if req.Degree != nil {
		s.Degree = *req.Degree
	}
	if req.Institution != nil {
		s.Institution = *req.Institution
	}
	if req.FieldOfStudy != nil {
		s.FieldOfStudy = *req.FieldOfStudy
	}
	if req.GraduationYear != nil {
		s.GraduationYear = *req.GraduationYear
	}
	if req.CGPA != nil {
		s.CGPA = *req.CGPA
	}
	if req.Experiences != nil {
		s.Experiences = req.Experiences
	}

	s.UpdatedAt = time.Now().UTC()

	return s
}

func (e EmployerProfile) Apply(req EmployerUpdateRequest) EmployerProfile {
	if req.CompanyName != nil {
		e.CompanyName = *req.CompanyName
	}
	if req.CompanyWebsite != nil {
		e.CompanyWebsite = *req.CompanyWebsite
	}
	if req.CompanyDescription != nil {
		e.CompanyDescription = *req.CompanyDescription
	}
	if req.ContactPhone != nil {
		e.ContactPhone = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		e.ContactEmail = *req.ContactEmail
	}

	e.UpdatedAt = time.Now().UTC()

	return e
}
