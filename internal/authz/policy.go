package authz

import (
	"github.com/hiremesh/jobhub/internal/domain/application"
	"github.com/hiremesh/jobhub/internal/domain/job"
	"github.com/hiremesh/jobhub/internal/domain/savedjob"
)

// Action is the closed set of mutating operations gated by ownership.
type Action string

const (
	ActionUpdateJob           Action = "job.update"
	ActionDeleteJob           Action = "job.delete"
	ActionViewJobApplications Action = "job.view_applications"

	ActionUpdateApplicationStatus Action = "application.update_status"
	ActionWithdrawApplication     Action = "application.withdraw"

	ActionUnsaveJob Action = "savedjob.unsave"
)

type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CanPerform is a pure decision function: no I/O, no clock. The caller is
// responsible for loading the resource first (a missing resource is a 404
// concern and never reaches this check).
//
// Applications carry two distinct relations: the seeker who created the
// application may withdraw it, the employer recorded at apply time may
// manage its status. The employer id is a denormalized copy of the job
// owner, safe because job ownership is never transferred.
func CanPerform(action Action, actingID string, resource any) Decision {
	if actingID == "" {
		return Deny("Missing identity")
	}

	switch res := resource.(type) {
	case job.Job:
		switch action {
		case ActionUpdateJob:
			return ownerOnly(actingID, res.EmployerID, "Not authorized to update this job")
		case ActionDeleteJob:
			return ownerOnly(actingID, res.EmployerID, "Not authorized to delete this job")
		case ActionViewJobApplications:
			return ownerOnly(actingID, res.EmployerID, "Not authorized to view these applications")
		}

	case application.Application:
		switch action {
		case ActionUpdateApplicationStatus:
			return ownerOnly(actingID, res.EmployerID, "Not authorized to update this application")
		case ActionWithdrawApplication:
			return ownerOnly(actingID, res.SeekerID, "Not authorized to delete this application")
		}

	case savedjob.SavedJob:
		if action == ActionUnsaveJob {
			return ownerOnly(actingID, res.UserID, "Not authorized to remove this saved job")
		}
	}

	// fail closed on unknown action/resource pairings
	return Deny("Action not permitted")
}

func ownerOnly(actingID, ownerID, reason string) Decision {
	if actingID == ownerID {
		return Allow()
	}

	return Deny(reason)
}
