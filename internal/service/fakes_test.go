package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"tandem/internal/domain"
	"tandem/internal/repository"
)

// store is a shared in-memory backing for the fake repositories. A single
// mutex stands in for the database's transaction isolation, so the pairing
// guarantees (one couple per user, single-use tokens) hold under concurrent
// test access just like they do against postgres.
type store struct {
	mu          sync.Mutex
	users       map[uuid.UUID]domain.User
	profiles    map[uuid.UUID]domain.Profile
	couples     map[uuid.UUID]domain.Couple
	invitations map[string]domain.Invitation // keyed by token
}

func newStore() *store {
	return &store{
		users:       make(map[uuid.UUID]domain.User),
		profiles:    make(map[uuid.UUID]domain.Profile),
		couples:     make(map[uuid.UUID]domain.Couple),
		invitations: make(map[string]domain.Invitation),
	}
}

// claimProfiles is the fake's version of the guarded couple_id update: it
// fails unless both members exist with a nil CoupleID. Must be called with
// the lock held.
func (s *store) claimProfiles(c *domain.Couple) error {
	for _, id := range []uuid.UUID{c.User1ID, c.User2ID} {
		p, ok := s.profiles[id]
		if !ok || p.CoupleID != nil {
			return repository.ErrAlreadyPaired
		}
	}
	for _, id := range []uuid.UUID{c.User1ID, c.User2ID} {
		p := s.profiles[id]
		coupleID := c.ID
		p.CoupleID = &coupleID
		s.profiles[id] = p
	}
	s.couples[c.ID] = *c
	return nil
}

// --- users ---

type fakeUserRepo struct{ s *store }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// --- profiles ---

type fakeProfileRepo struct{ s *store }

func (r *fakeProfileRepo) Get(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.profiles[userID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// Like the postgres upsert, CoupleID is never written here.
	if existing, ok := r.s.profiles[profile.UserID]; ok {
		profile.CoupleID = existing.CoupleID
	}
	r.s.profiles[profile.UserID] = *profile
	return nil
}

// --- couples ---

type fakeCoupleRepo struct{ s *store }

func (r *fakeCoupleRepo) Create(_ context.Context, couple *domain.Couple) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.claimProfiles(couple)
}

func (r *fakeCoupleRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Couple, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.couples[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *fakeCoupleRepo) GetByUser(_ context.Context, userID uuid.UUID) (*domain.Couple, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.couples {
		if c.Has(userID) {
			return &c, nil
		}
	}
	return nil, nil
}

// --- invitations ---

type fakeInvitationRepo struct{ s *store }

func (r *fakeInvitationRepo) Create(_ context.Context, inv *domain.Invitation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.invitations[inv.Token] = *inv
	return nil
}

func (r *fakeInvitationRepo) GetByToken(_ context.Context, token string) (*domain.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if inv, ok := r.s.invitations[token]; ok {
		return &inv, nil
	}
	return nil, nil
}

func (r *fakeInvitationRepo) GetPending(_ context.Context, inviterID uuid.UUID, inviteeEmail string) (*domain.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invitations {
		if inv.InviterID == inviterID && inv.InviteeEmail == inviteeEmail && inv.Status == domain.InvitationPending {
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *fakeInvitationRepo) UpdateStatus(_ context.Context, token string, from, to domain.InvitationStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invitations[token]
	if !ok || inv.Status != from {
		return false, nil
	}
	inv.Status = to
	r.s.invitations[token] = inv
	return true, nil
}

func (r *fakeInvitationRepo) Accept(_ context.Context, inv *domain.Invitation, couple *domain.Couple, acceptorID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.invitations[inv.Token]
	if !ok || row.Status != domain.InvitationPending {
		return repository.ErrNotPending
	}

	// Stage the acceptor profile the way the postgres tx does, but only
	// commit anything if the profile claims succeed.
	if _, ok := r.s.profiles[acceptorID]; !ok {
		r.s.profiles[acceptorID] = domain.Profile{UserID: acceptorID}
	}
	if err := r.s.claimProfiles(couple); err != nil {
		return err
	}

	p := r.s.profiles[acceptorID]
	email := row.InviteeEmail
	p.PartnerEmail = &email
	r.s.profiles[acceptorID] = p

	row.Status = domain.InvitationAccepted
	r.s.invitations[inv.Token] = row
	return nil
}

// --- events ---

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]domain.Event)}
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.events[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (r *fakeEventRepo) ListByCouple(_ context.Context, coupleID uuid.UUID) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Event
	for _, e := range r.events {
		if e.CoupleID == coupleID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return errors.New("event not found")
	}
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

// --- side channels ---

type fakeMailer struct {
	mu    sync.Mutex
	sends []string // recipient addresses
	fail  error    // when set, every send fails with this error
}

func (m *fakeMailer) SendInvitation(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sends = append(m.sends, to)
	return nil
}

func (m *fakeMailer) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sends...)
}

type fakeNotifier struct {
	mu     sync.Mutex
	paired []domain.Couple
	feed   []string // "kind.action" entries, e.g. "event.created"
}

func (n *fakeNotifier) NotifyPaired(couple *domain.Couple) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paired = append(n.paired, *couple)
}

func (n *fakeNotifier) NotifyEvent(_ uuid.UUID, action string, _ *domain.Event) {
	n.record("event." + action)
}

func (n *fakeNotifier) NotifyEventDeleted(_, _ uuid.UUID) {
	n.record("event.deleted")
}

func (n *fakeNotifier) NotifyGoal(_ uuid.UUID, action string, _ *domain.Goal) {
	n.record("goal." + action)
}

func (n *fakeNotifier) NotifyGoalDeleted(_, _ uuid.UUID) {
	n.record("goal.deleted")
}

func (n *fakeNotifier) NotifyReminder(_ uuid.UUID, action string, _ *domain.Reminder) {
	n.record("reminder." + action)
}

func (n *fakeNotifier) NotifyReminderDeleted(_, _ uuid.UUID) {
	n.record("reminder.deleted")
}

func (n *fakeNotifier) record(entry string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.feed = append(n.feed, entry)
}

func (n *fakeNotifier) pairedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.paired)
}

// --- wiring ---

type testEnv struct {
	store    *store
	mailer   *fakeMailer
	notifier *fakeNotifier

	profiles    *ProfileService
	couples     *CoupleService
	invitations *InvitationService
	pairing     *PairingService
}

func newTestEnv() *testEnv {
	s := newStore()
	userRepo := &fakeUserRepo{s: s}
	profileRepo := &fakeProfileRepo{s: s}
	coupleRepo := &fakeCoupleRepo{s: s}
	invitationRepo := &fakeInvitationRepo{s: s}

	mailer := &fakeMailer{}
	notifier := &fakeNotifier{}

	profiles := NewProfileService(profileRepo, nil)
	couples := NewCoupleService(coupleRepo, userRepo, nil)
	invitations := NewInvitationService(invitationRepo)
	pairing := NewPairingService(
		couples, invitations, profiles,
		userRepo, profileRepo, invitationRepo,
		mailer, notifier, "https://app.tandem.test",
	)

	return &testEnv{
		store:       s,
		mailer:      mailer,
		notifier:    notifier,
		profiles:    profiles,
		couples:     couples,
		invitations: invitations,
		pairing:     pairing,
	}
}

// addUser seeds an account plus its profile row, mirroring what Register does.
func (e *testEnv) addUser(email, name string) *domain.User {
	u := domain.User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: name,
	}
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.users[u.ID] = u
	e.store.profiles[u.ID] = domain.Profile{UserID: u.ID, FullName: name}
	return &u
}

func (e *testEnv) invitation(token string) *domain.Invitation {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	if inv, ok := e.store.invitations[token]; ok {
		return &inv
	}
	return nil
}
