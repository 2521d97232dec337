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

var (
	ErrPartnerNotFound = errors.New("partner not found")
	ErrAlreadyPaired   = errors.New("user already belongs to a couple")
	ErrCannotPairSelf  = errors.New("cannot pair with yourself")
	ErrNotPaired       = errors.New("user is not part of a couple")
)

// CoupleService is the couple registry: it creates and looks up the couple
// relationship and enforces one couple per user.
type CoupleService struct {
	coupleRepo repository.CoupleRepository
	userRepo   repository.UserRepository
	cache      *cache.Cache
}

func NewCoupleService(coupleRepo repository.CoupleRepository, userRepo repository.UserRepository, c *cache.Cache) *CoupleService {
	return &CoupleService{
		coupleRepo: coupleRepo,
		userRepo:   userRepo,
		cache:      c,
	}
}

// FindCoupleForUser returns the user's couple, or (nil, nil) when unpaired.
func (s *CoupleService) FindCoupleForUser(ctx context.Context, userID uuid.UUID) (*domain.Couple, error) {
	key := coupleCacheKey(userID)

	var cached domain.Couple
	if hit, _ := s.cache.GetJSON(ctx, key, &cached); hit {
		return &cached, nil
	}

	couple, err := s.coupleRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple != nil {
		s.cache.SetJSON(ctx, key, couple, 0)
	}
	return couple, nil
}

// RequireCouple is FindCoupleForUser for callers that need membership,
// turning the unpaired case into ErrNotPaired.
func (s *CoupleService) RequireCouple(ctx context.Context, userID uuid.UUID) (*domain.Couple, error) {
	couple, err := s.FindCoupleForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return nil, ErrNotPaired
	}
	return couple, nil
}

// CreateCouple resolves partnerEmail to a registered account and pairs the
// two users. The insert and both profile claims happen in one transaction;
// a member already in a couple surfaces as ErrAlreadyPaired.
func (s *CoupleService) CreateCouple(ctx context.Context, userID uuid.UUID, partnerEmail string) (*domain.Couple, error) {
	partner, err := s.userRepo.GetByEmail(ctx, normalizeEmail(partnerEmail))
	if err != nil {
		return nil, fmt.Errorf("looking up partner: %w", err)
	}
	if partner == nil {
		return nil, ErrPartnerNotFound
	}
	if partner.ID == userID {
		return nil, ErrCannotPairSelf
	}

	couple := domain.NewCouple(userID, partner.ID)
	if err := s.coupleRepo.Create(ctx, couple); err != nil {
		if errors.Is(err, repository.ErrAlreadyPaired) {
			return nil, ErrAlreadyPaired
		}
		return nil, fmt.Errorf("creating couple: %w", err)
	}

	s.invalidatePairing(ctx, couple)
	return couple, nil
}

// invalidatePairing drops both members' cached profile and couple entries
// after a pairing write.
func (s *CoupleService) invalidatePairing(ctx context.Context, couple *domain.Couple) {
	s.cache.Delete(ctx,
		coupleCacheKey(couple.User1ID),
		coupleCacheKey(couple.User2ID),
		profileCacheKey(couple.User1ID),
		profileCacheKey(couple.User2ID),
	)
}

func coupleCacheKey(userID uuid.UUID) string {
	return "couple:user:" + userID.String()
}
