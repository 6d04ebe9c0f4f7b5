package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// LogNotifier is the default provider: it just logs the delivery. A real
// email provider slots in behind the same interface.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) SendApplicationReceived(ctx context.Context, in SendApplicationReceivedInput) error {
	// Optional: simulate slow provider
	if msStr := os.Getenv("NOTIFIER_SLEEP_MS"); msStr != "" {
		ms, _ := strconv.Atoi(msStr)
		if ms > 0 {
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	// Optional: simulate provider outage
	if os.Getenv("NOTIFIER_FAIL") == "1" {
		return fmt.Errorf("provider down (simulated)")
	}

	slog.InfoContext(ctx, "notification.application_received",
		"application_id", in.ApplicationID,
		"job_id", in.JobID,
		"job_title", in.JobTitle,
		"seeker", in.SeekerName,
		"employer_email", in.EmployerEmail,
	)
	return nil
}
