package notifications

import "context"

type SendApplicationReceivedInput struct {
	ApplicationID string
	JobID         string
	JobTitle      string
	SeekerName    string
	EmployerEmail string
}

type Notifier interface {
	SendApplicationReceived(ctx context.Context, input SendApplicationReceivedInput) error
}
