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

var (
	ErrGoalNotFound    = errors.New("goal not found")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
)

type GoalService struct {
	goalRepo repository.GoalRepository
	couples  *CoupleService
	notifier Notifier
}

func NewGoalService(goalRepo repository.GoalRepository, couples *CoupleService, notifier Notifier) *GoalService {
	return &GoalService{
		goalRepo: goalRepo,
		couples:  couples,
		notifier: notifier,
	}
}

type GoalInput struct {
	Title       string
	Description string
	Color       string
	Emoji       *string
	TargetDate  *time.Time
}

func (s *GoalService) List(ctx context.Context, userID uuid.UUID) ([]domain.Goal, error) {
	couple, err := s.couples.RequireCouple(ctx, userID)
	if err != nil {
		return nil, err
	}

	goals, err := s.goalRepo.ListByCouple(ctx, couple.ID)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []domain.Goal{}
	}
	return goals, nil
}

func (s *GoalService) Create(ctx context.Context, userID uuid.UUID, input GoalInput) (*domain.Goal, error) {
	couple, err := s.couples.RequireCouple(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	goal := &domain.Goal{
		ID:          uuid.New(),
		CoupleID:    couple.ID,
		CreatedBy:   userID,
		Title:       input.Title,
		Description: input.Description,
		Color:       input.Color,
		Emoji:       input.Emoji,
		TargetDate:  input.TargetDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("creating goal: %w", err)
	}

	s.notifier.NotifyGoal(couple.ID, "created", goal)
	return goal, nil
}

func (s *GoalService) Update(ctx context.Context, userID, goalID uuid.UUID, input GoalInput) (*domain.Goal, error) {
	couple, goal, err := s.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Title = input.Title
	goal.Description = input.Description
	goal.Color = input.Color
	goal.Emoji = input.Emoji
	goal.TargetDate = input.TargetDate
	goal.UpdatedAt = time.Now()

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("updating goal: %w", err)
	}

	s.notifier.NotifyGoal(couple.ID, "updated", goal)
	return goal, nil
}

func (s *GoalService) UpdateProgress(ctx context.Context, userID, goalID uuid.UUID, progress int) (*domain.Goal, error) {
	if progress < 0 || progress > 100 {
		return nil, ErrInvalidProgress
	}

	couple, goal, err := s.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if err := s.goalRepo.UpdateProgress(ctx, goalID, progress); err != nil {
		return nil, fmt.Errorf("updating goal progress: %w", err)
	}
	goal.Progress = progress
	goal.UpdatedAt = time.Now()

	s.notifier.NotifyGoal(couple.ID, "updated", goal)
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID uuid.UUID) error {
	couple, _, err := s.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return err
	}

	if err := s.goalRepo.Delete(ctx, goalID); err != nil {
		return err
	}

	s.notifier.NotifyGoalDeleted(couple.ID, goalID)
	return nil
}

func (s *GoalService) ownedGoal(ctx context.Context, userID, goalID uuid.UUID) (*domain.Couple, *domain.Goal, error) {
	couple, err := s.couples.RequireCouple(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, nil, err
	}
	if goal == nil || goal.CoupleID != couple.ID {
		return nil, nil, ErrGoalNotFound
	}
	return couple, goal, nil
}
