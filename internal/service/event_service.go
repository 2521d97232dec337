package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"tandem/internal/domain"
	"tandem/internal/repository"
)

var ErrEventNotFound = errors.New("event not found")

type EventService struct {
	eventRepo repository.EventRepository
	couples   *CoupleService
	notifier  Notifier
}

func NewEventService(eventRepo repository.EventRepository, couples *CoupleService, notifier Notifier) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		couples:   couples,
		notifier:  notifier,
	}
}

type EventInput struct {
	Title       string
	Date        time.Time
	Type        string
	Description *string
	Color       string
	Emoji       *string
}

func (s *EventService) List(ctx context.Context, userID uuid.UUID) ([]domain.Event, error) {
	couple, err := s.couples.RequireCouple(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByCouple(ctx, couple.ID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}

func (s *EventService) Create(ctx context.Context, userID uuid.UUID, input EventInput) (*domain.Event, error) {
	couple, err := s.couples.RequireCouple(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	event := &domain.Event{
		ID:          uuid.New(),
		CoupleID:    couple.ID,
		CreatedBy:   userID,
		Title:       input.Title,
		Date:        input.Date,
		Type:        input.Type,
		Description: input.Description,
		Color:       input.Color,
		Emoji:       input.Emoji,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}

	s.notifier.NotifyEvent(couple.ID, "created", event)
	return event, nil
}

func (s *EventService) Update(ctx context.Context, userID, eventID uuid.UUID, input EventInput) (*domain.Event, error) {
	couple, event, err := s.ownedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	event.Title = input.Title
	event.Date = input.Date
	event.Type = input.Type
	event.Description = input.Description
	event.Color = input.Color
	event.Emoji = input.Emoji
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("updating event: %w", err)
	}

	s.notifier.NotifyEvent(couple.ID, "updated", event)
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, userID, eventID uuid.UUID) error {
	couple, _, err := s.ownedEvent(ctx, userID, eventID)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}

	s.notifier.NotifyEventDeleted(couple.ID, eventID)
	return nil
}

// ownedEvent loads the event and checks it belongs to the caller's couple.
// Events outside the couple look like not-found on purpose.
func (s *EventService) ownedEvent(ctx context.Context, userID, eventID uuid.UUID) (*domain.Couple, *domain.Event, error) {
	couple, err := s.couples.RequireCouple(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if event == nil || event.CoupleID != couple.ID {
		return nil, nil, ErrEventNotFound
	}
	return couple, event, nil
}
