package task

import (
	"encoding/json"
	"time"
)

const TypeApplicationReceived = "application.received"

// ApplicationReceivedPayload is queued in the same transaction as the
// application insert; the worker turns it into a notification.
type ApplicationReceivedPayload struct {
	ApplicationID string    `json:"applicationId"`
	JobID         string    `json:"jobId"`
	SeekerID      string    `json:"seekerId"`
	EmployerID    string    `json:"employerId"`
	RequestedAt   time.Time `json:"requestedAt"`
}

func (p ApplicationReceivedPayload) JSON() (json.RawMessage, error) {
	b, err := json.Marshal(p)

	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
