package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tandem/internal/domain"
)

func TestConnectFastPathPairsExistingAccounts(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")
	bob := env.addUser("bob@example.com", "Bob")

	result, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "Bob@Example.com")
	if err != nil {
		t.Fatalf("ConnectWithPartner: %v", err)
	}
	if !result.Paired {
		t.Fatal("expected immediate pairing when partner has an account")
	}
	if result.Couple == nil || !result.Couple.Has(alice.ID) || !result.Couple.Has(bob.ID) {
		t.Fatalf("couple members wrong: %+v", result.Couple)
	}
	if result.Invitation != nil {
		t.Error("fast path should not issue an invitation")
	}
	if env.notifier.pairedCount() != 1 {
		t.Errorf("paired notifications = %d, want 1", env.notifier.pairedCount())
	}

	profile, err := env.profiles.Get(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("Get profile: %v", err)
	}
	if profile.PartnerEmail == nil || *profile.PartnerEmail != "bob@example.com" {
		t.Errorf("partner email not recorded, got %v", profile.PartnerEmail)
	}
	if profile.CoupleID == nil || *profile.CoupleID != result.Couple.ID {
		t.Errorf("profile not claimed by couple, got %v", profile.CoupleID)
	}
}

func TestConnectIssuesInvitationForUnknownEmail(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	result, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "newcomer@example.com")
	if err != nil {
		t.Fatalf("ConnectWithPartner: %v", err)
	}
	if result.Paired {
		t.Fatal("should not pair with an unregistered email")
	}
	if result.Invitation == nil || result.Invitation.Status != domain.InvitationPending {
		t.Fatalf("expected a pending invitation, got %+v", result.Invitation)
	}
	if len(result.Invitation.Token) < 40 {
		t.Errorf("token too short: %q", result.Invitation.Token)
	}
	wantLink := "https://app.tandem.test/accept-invitation?token=" + result.Invitation.Token
	if result.InvitationLink != wantLink {
		t.Errorf("link = %q, want %q", result.InvitationLink, wantLink)
	}
	if !result.EmailSent {
		t.Error("email should have been sent")
	}
	if got := env.mailer.sentTo(); len(got) != 1 || got[0] != "newcomer@example.com" {
		t.Errorf("mailer sends = %v", got)
	}
}

func TestConnectReinviteReturnsSameToken(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	first, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "newcomer@example.com")
	if err != nil {
		t.Fatalf("first connect: %v", err)
	}
	second, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "newcomer@example.com")
	if err != nil {
		t.Fatalf("second connect: %v", err)
	}

	if second.Invitation.Token != first.Invitation.Token {
		t.Error("re-invite minted a second live token")
	}
}

func TestConnectReplacesStalePendingInvitation(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	first, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "newcomer@example.com")
	if err != nil {
		t.Fatalf("first connect: %v", err)
	}

	// Move past the expiry window for both services' clocks.
	future := time.Now().Add(8 * 24 * time.Hour)
	env.invitations.now = func() time.Time { return future }
	env.pairing.now = func() time.Time { return future }

	second, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "newcomer@example.com")
	if err != nil {
		t.Fatalf("second connect: %v", err)
	}

	if second.Invitation.Token == first.Invitation.Token {
		t.Error("expected a fresh token after the old invitation went stale")
	}
	if old := env.invitation(first.Invitation.Token); old.Status != domain.InvitationExpired {
		t.Errorf("stale invitation status = %q, want expired", old.Status)
	}
	if fresh := env.invitation(second.Invitation.Token); fresh.Status != domain.InvitationPending {
		t.Errorf("fresh invitation status = %q, want pending", fresh.Status)
	}
}

func TestConnectMailerFailureStillIssuesInvitation(t *testing.T) {
	env := newTestEnv()
	env.mailer.fail = errors.New("smtp down")
	alice := env.addUser("alice@example.com", "Alice")

	result, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "newcomer@example.com")
	if err != nil {
		t.Fatalf("ConnectWithPartner: %v", err)
	}
	if result.Invitation == nil {
		t.Fatal("invitation should exist despite the delivery failure")
	}
	if result.EmailSent {
		t.Error("EmailSent should be false")
	}
	if result.EmailError == "" {
		t.Error("EmailError should carry the delivery failure")
	}
	if env.invitation(result.Invitation.Token) == nil {
		t.Error("invitation not persisted")
	}
}

func TestConnectWhenAlreadyPaired(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")
	env.addUser("bob@example.com", "Bob")

	if _, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "bob@example.com"); err != nil {
		t.Fatalf("initial pairing: %v", err)
	}

	// Even inviting an address with no account must fail once paired.
	_, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "third@example.com")
	if !errors.Is(err, ErrAlreadyPaired) {
		t.Fatalf("err = %v, want ErrAlreadyPaired", err)
	}
}

func TestConnectSelf(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	_, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "alice@example.com")
	if !errors.Is(err, ErrCannotPairSelf) {
		t.Fatalf("err = %v, want ErrCannotPairSelf", err)
	}
}

func TestAcceptInvitationPairsAndConsumesToken(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	result, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "bree@example.com")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	token := result.Invitation.Token

	bree := env.addUser("bree@example.com", "Bree")
	couple, err := env.pairing.AcceptInvitation(context.Background(), token, bree.ID)
	if err != nil {
		t.Fatalf("AcceptInvitation: %v", err)
	}
	if !couple.Has(alice.ID) || !couple.Has(bree.ID) {
		t.Fatalf("couple members wrong: %+v", couple)
	}

	if inv := env.invitation(token); inv.Status != domain.InvitationAccepted {
		t.Errorf("invitation status = %q, want accepted", inv.Status)
	}
	if env.notifier.pairedCount() != 1 {
		t.Errorf("paired notifications = %d, want 1", env.notifier.pairedCount())
	}

	breeProfile, err := env.profiles.Get(context.Background(), bree.ID)
	if err != nil {
		t.Fatalf("Get profile: %v", err)
	}
	if breeProfile.PartnerEmail == nil || *breeProfile.PartnerEmail != "bree@example.com" {
		t.Errorf("acceptor partner email = %v, want invited address", breeProfile.PartnerEmail)
	}
	if breeProfile.CoupleID == nil || *breeProfile.CoupleID != couple.ID {
		t.Errorf("acceptor profile not claimed: %v", breeProfile.CoupleID)
	}
}

func TestAcceptUnknownToken(t *testing.T) {
	env := newTestEnv()
	bree := env.addUser("bree@example.com", "Bree")

	_, err := env.pairing.AcceptInvitation(context.Background(), "no-such-token", bree.ID)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestAcceptExpiredInvitation(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	result, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "bree@example.com")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	token := result.Invitation.Token

	env.pairing.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	bree := env.addUser("bree@example.com", "Bree")
	_, err = env.pairing.AcceptInvitation(context.Background(), token, bree.ID)
	if !errors.Is(err, ErrInvitationExpired) {
		t.Fatalf("err = %v, want ErrInvitationExpired", err)
	}

	// The row itself is untouched until someone re-invites or declines.
	if inv := env.invitation(token); inv.Status != domain.InvitationPending {
		t.Errorf("invitation status = %q, want pending", inv.Status)
	}
}

func TestAcceptEmailMismatch(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	result, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "bree@example.com")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	mallory := env.addUser("mallory@example.com", "Mallory")
	_, err = env.pairing.AcceptInvitation(context.Background(), result.Invitation.Token, mallory.ID)
	if !errors.Is(err, ErrEmailMismatch) {
		t.Fatalf("err = %v, want ErrEmailMismatch", err)
	}

	if couple, _ := env.couples.FindCoupleForUser(context.Background(), alice.ID); couple != nil {
		t.Error("no couple should exist after a mismatched accept")
	}
}

func TestAcceptTwice(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	result, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "bree@example.com")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	token := result.Invitation.Token

	bree := env.addUser("bree@example.com", "Bree")
	if _, err := env.pairing.AcceptInvitation(context.Background(), token, bree.ID); err != nil {
		t.Fatalf("first accept: %v", err)
	}

	_, err = env.pairing.AcceptInvitation(context.Background(), token, bree.ID)
	if !errors.Is(err, ErrInvitationUsed) {
		t.Fatalf("err = %v, want ErrInvitationUsed", err)
	}
}

func TestAcceptWhenInviterPairedElsewhere(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	result, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "bree@example.com")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	token := result.Invitation.Token

	// Alice pairs with Bob while the invitation to Bree is still out.
	env.addUser("bob@example.com", "Bob")
	if _, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "bob@example.com"); err != nil {
		t.Fatalf("pair with bob: %v", err)
	}

	bree := env.addUser("bree@example.com", "Bree")
	_, err = env.pairing.AcceptInvitation(context.Background(), token, bree.ID)
	if !errors.Is(err, ErrAlreadyPaired) {
		t.Fatalf("err = %v, want ErrAlreadyPaired", err)
	}

	// The failed acceptance must not consume the token.
	if inv := env.invitation(token); inv.Status != domain.InvitationPending {
		t.Errorf("invitation status = %q, want pending", inv.Status)
	}
}

func TestConcurrentAcceptsCreateOneCouple(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	first, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "bree@example.com")
	if err != nil {
		t.Fatalf("invite bree: %v", err)
	}
	second, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "cato@example.com")
	if err != nil {
		t.Fatalf("invite cato: %v", err)
	}

	bree := env.addUser("bree@example.com", "Bree")
	cato := env.addUser("cato@example.com", "Cato")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = env.pairing.AcceptInvitation(context.Background(), first.Invitation.Token, bree.ID)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = env.pairing.AcceptInvitation(context.Background(), second.Invitation.Token, cato.ID)
	}()
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrAlreadyPaired), errors.Is(err, ErrInvitationUsed):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 || lost != 1 {
		t.Fatalf("won=%d lost=%d, want exactly one winner", won, lost)
	}

	couple, err := env.couples.FindCoupleForUser(context.Background(), alice.ID)
	if err != nil || couple == nil {
		t.Fatalf("alice should be paired: couple=%v err=%v", couple, err)
	}
	if env.notifier.pairedCount() != 1 {
		t.Errorf("paired notifications = %d, want 1", env.notifier.pairedCount())
	}
}

func TestDeclineInvitation(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	result, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "bree@example.com")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	token := result.Invitation.Token

	bree := env.addUser("bree@example.com", "Bree")
	if err := env.pairing.DeclineInvitation(context.Background(), token, bree.ID); err != nil {
		t.Fatalf("DeclineInvitation: %v", err)
	}

	if inv := env.invitation(token); inv.Status != domain.InvitationExpired {
		t.Errorf("invitation status = %q, want expired", inv.Status)
	}

	// A declined invitation can no longer be accepted.
	if _, err := env.pairing.AcceptInvitation(context.Background(), token, bree.ID); !errors.Is(err, ErrInvitationUsed) {
		t.Errorf("accept after decline: err = %v, want ErrInvitationUsed", err)
	}
}

func TestDeclineByWrongUser(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	result, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "bree@example.com")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	mallory := env.addUser("mallory@example.com", "Mallory")
	err = env.pairing.DeclineInvitation(context.Background(), result.Invitation.Token, mallory.ID)
	if !errors.Is(err, ErrEmailMismatch) {
		t.Fatalf("err = %v, want ErrEmailMismatch", err)
	}
}

func TestPreview(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	result, err := env.pairing.ConnectWithPartner(context.Background(), alice.ID, "bree@example.com")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	preview, err := env.pairing.Preview(context.Background(), result.Invitation.Token)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if preview.InviterName != "Alice" {
		t.Errorf("inviter name = %q", preview.InviterName)
	}
	if preview.InviteeEmail != "bree@example.com" {
		t.Errorf("invitee email = %q", preview.InviteeEmail)
	}
	if !preview.Usable {
		t.Error("fresh invitation should be usable")
	}

	if _, err := env.pairing.Preview(context.Background(), "bogus"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("preview of unknown token: err = %v, want ErrInvalidToken", err)
	}
}
