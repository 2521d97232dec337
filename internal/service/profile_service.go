package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"tandem/internal/cache"
	"tandem/internal/domain"
	"tandem/internal/repository"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService struct {
	profileRepo repository.ProfileRepository
	cache       *cache.Cache
}

func NewProfileService(profileRepo repository.ProfileRepository, c *cache.Cache) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		cache:       c,
	}
}

type UpdateProfileInput struct {
	FullName     *string `json:"full_name"`
	Bio          *string `json:"bio"`
	AvatarURL    *string `json:"avatar_url"`
	PartnerEmail *string `json:"partner_email"`
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	key := profileCacheKey(userID)

	var cached domain.Profile
	if hit, _ := s.cache.GetJSON(ctx, key, &cached); hit {
		return &cached, nil
	}

	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	s.cache.SetJSON(ctx, key, profile, 0)
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.Profile, error) {
	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &domain.Profile{UserID: userID}
	}

	if input.FullName != nil {
		profile.FullName = *input.FullName
	}
	if input.Bio != nil {
		profile.Bio = input.Bio
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = input.AvatarURL
	}
	if input.PartnerEmail != nil {
		email := normalizeEmail(*input.PartnerEmail)
		profile.PartnerEmail = &email
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	s.cache.Delete(ctx, profileCacheKey(userID))
	return profile, nil
}

// RecordPartnerIntent stores the entered partner email on the caller's
// profile, so the intent survives even when the rest of the connect flow
// fails.
func (s *ProfileService) RecordPartnerIntent(ctx context.Context, userID uuid.UUID, partnerEmail string) error {
	email := normalizeEmail(partnerEmail)
	_, err := s.Update(ctx, userID, UpdateProfileInput{PartnerEmail: &email})
	return err
}

func profileCacheKey(userID uuid.UUID) string {
	return "profile:" + userID.String()
}
