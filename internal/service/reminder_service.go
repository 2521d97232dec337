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

var ErrReminderNotFound = errors.New("reminder not found")

type ReminderService struct {
	reminderRepo repository.ReminderRepository
	couples      *CoupleService
	notifier     Notifier
}

func NewReminderService(reminderRepo repository.ReminderRepository, couples *CoupleService, notifier Notifier) *ReminderService {
	return &ReminderService{
		reminderRepo: reminderRepo,
		couples:      couples,
		notifier:     notifier,
	}
}

type ReminderInput struct {
	Title   string
	DueDate *time.Time
	Shared  bool
}

func (s *ReminderService) List(ctx context.Context, userID uuid.UUID) ([]domain.Reminder, error) {
	couple, err := s.couples.RequireCouple(ctx, userID)
	if err != nil {
		return nil, err
	}

	reminders, err := s.reminderRepo.ListByCouple(ctx, couple.ID)
	if err != nil {
		return nil, err
	}
	if reminders == nil {
		reminders = []domain.Reminder{}
	}
	return reminders, nil
}

func (s *ReminderService) Create(ctx context.Context, userID uuid.UUID, input ReminderInput) (*domain.Reminder, error) {
	couple, err := s.couples.RequireCouple(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reminder := &domain.Reminder{
		ID:        uuid.New(),
		CoupleID:  couple.ID,
		CreatedBy: userID,
		Title:     input.Title,
		DueDate:   input.DueDate,
		Shared:    input.Shared,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("creating reminder: %w", err)
	}

	s.notifier.NotifyReminder(couple.ID, "created", reminder)
	return reminder, nil
}

func (s *ReminderService) Update(ctx context.Context, userID, reminderID uuid.UUID, input ReminderInput) (*domain.Reminder, error) {
	couple, reminder, err := s.ownedReminder(ctx, userID, reminderID)
	if err != nil {
		return nil, err
	}

	reminder.Title = input.Title
	reminder.DueDate = input.DueDate
	reminder.Shared = input.Shared
	reminder.UpdatedAt = time.Now()

	if err := s.reminderRepo.Update(ctx, reminder); err != nil {
		return nil, fmt.Errorf("updating reminder: %w", err)
	}

	s.notifier.NotifyReminder(couple.ID, "updated", reminder)
	return reminder, nil
}

func (s *ReminderService) SetCompleted(ctx context.Context, userID, reminderID uuid.UUID, completed bool) (*domain.Reminder, error) {
	couple, reminder, err := s.ownedReminder(ctx, userID, reminderID)
	if err != nil {
		return nil, err
	}

	if err := s.reminderRepo.SetCompleted(ctx, reminderID, completed); err != nil {
		return nil, fmt.Errorf("updating reminder completion: %w", err)
	}
	reminder.Completed = completed
	reminder.UpdatedAt = time.Now()

	s.notifier.NotifyReminder(couple.ID, "updated", reminder)
	return reminder, nil
}

func (s *ReminderService) Delete(ctx context.Context, userID, reminderID uuid.UUID) error {
	couple, _, err := s.ownedReminder(ctx, userID, reminderID)
	if err != nil {
		return err
	}

	if err := s.reminderRepo.Delete(ctx, reminderID); err != nil {
		return err
	}

	s.notifier.NotifyReminderDeleted(couple.ID, reminderID)
	return nil
}

func (s *ReminderService) ownedReminder(ctx context.Context, userID, reminderID uuid.UUID) (*domain.Couple, *domain.Reminder, error) {
	couple, err := s.couples.RequireCouple(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	reminder, err := s.reminderRepo.GetByID(ctx, reminderID)
	if err != nil {
		return nil, nil, err
	}
	if reminder == nil || reminder.CoupleID != couple.ID {
		return nil, nil, ErrReminderNotFound
	}
	return couple, reminder, nil
}
