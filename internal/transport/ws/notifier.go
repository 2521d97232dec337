package ws

import (
	"log"

	"github.com/google/uuid"
	"tandem/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// NotifyPaired goes to both members directly: a freshly paired client has not
// subscribed to the couple feed yet.
func (n *HubNotifier) NotifyPaired(couple *domain.Couple) {
	evt, err := NewEvent(EventTypeCouplePaired, &couple.ID, PairedPayload{Couple: *couple})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToUser(couple.User1ID, evt)
	n.hub.BroadcastToUser(couple.User2ID, evt)
}

func (n *HubNotifier) NotifyEvent(coupleID uuid.UUID, action string, event *domain.Event) {
	evt, err := NewEvent("event."+action, &coupleID, CalendarEventPayload{Event: *event})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToCouple(coupleID, evt, nil)
}

func (n *HubNotifier) NotifyEventDeleted(coupleID, eventID uuid.UUID) {
	evt, err := NewEvent(EventTypeEventDeleted, &coupleID, DeletedPayload{ID: eventID})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToCouple(coupleID, evt, nil)
}

func (n *HubNotifier) NotifyGoal(coupleID uuid.UUID, action string, goal *domain.Goal) {
	evt, err := NewEvent("goal."+action, &coupleID, GoalPayload{Goal: *goal})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToCouple(coupleID, evt, nil)
}

func (n *HubNotifier) NotifyGoalDeleted(coupleID, goalID uuid.UUID) {
	evt, err := NewEvent(EventTypeGoalDeleted, &coupleID, DeletedPayload{ID: goalID})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToCouple(coupleID, evt, nil)
}

func (n *HubNotifier) NotifyReminder(coupleID uuid.UUID, action string, reminder *domain.Reminder) {
	evt, err := NewEvent("reminder."+action, &coupleID, ReminderPayload{Reminder: *reminder})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToCouple(coupleID, evt, nil)
}

func (n *HubNotifier) NotifyReminderDeleted(coupleID, reminderID uuid.UUID) {
	evt, err := NewEvent(EventTypeReminderDeleted, &coupleID, DeletedPayload{ID: reminderID})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToCouple(coupleID, evt, nil)
}
