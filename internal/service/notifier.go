package service

import (
	"context"

	"github.com/google/uuid"
	"tandem/internal/domain"
)

// Notifier fans committed writes out to connected clients so the UI can
// refetch. Implementations must never block or fail the calling operation.
type Notifier interface {
	NotifyPaired(couple *domain.Couple)
	NotifyEvent(coupleID uuid.UUID, action string, event *domain.Event)
	NotifyEventDeleted(coupleID, eventID uuid.UUID)
	NotifyGoal(coupleID uuid.UUID, action string, goal *domain.Goal)
	NotifyGoalDeleted(coupleID, goalID uuid.UUID)
	NotifyReminder(coupleID uuid.UUID, action string, reminder *domain.Reminder)
	NotifyReminderDeleted(coupleID, reminderID uuid.UUID)
}

// Mailer is the outbound email side channel. Delivery failure is visible to
// callers but never fatal.
type Mailer interface {
	SendInvitation(ctx context.Context, to, inviterName, link string) error
}
