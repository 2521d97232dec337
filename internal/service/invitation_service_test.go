package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"tandem/internal/domain"
)

func TestIssueCreatesPendingInvitation(t *testing.T) {
	env := newTestEnv()
	inviter := uuid.New()

	inv, err := env.invitations.Issue(context.Background(), inviter, "Partner@Example.COM")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if inv.InviteeEmail != "partner@example.com" {
		t.Errorf("invitee email = %q, want lowercased", inv.InviteeEmail)
	}
	if inv.Status != domain.InvitationPending {
		t.Errorf("status = %q, want pending", inv.Status)
	}

	ttl := inv.ExpiresAt.Sub(inv.CreatedAt)
	if ttl != 7*24*time.Hour {
		t.Errorf("ttl = %v, want 7 days", ttl)
	}
}

func TestIssueIsIdempotentWhileUsable(t *testing.T) {
	env := newTestEnv()
	inviter := uuid.New()

	first, err := env.invitations.Issue(context.Background(), inviter, "partner@example.com")
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	second, err := env.invitations.Issue(context.Background(), inviter, "partner@example.com")
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}

	if second.Token != first.Token {
		t.Error("re-issue minted a new token while the old one was usable")
	}
}

func TestIssueDistinctTokensPerInvitee(t *testing.T) {
	env := newTestEnv()
	inviter := uuid.New()

	a, err := env.invitations.Issue(context.Background(), inviter, "one@example.com")
	if err != nil {
		t.Fatalf("issue one: %v", err)
	}
	b, err := env.invitations.Issue(context.Background(), inviter, "two@example.com")
	if err != nil {
		t.Fatalf("issue two: %v", err)
	}

	if a.Token == b.Token {
		t.Error("tokens must be unique")
	}
}

func TestExpireWinsOnlyOnce(t *testing.T) {
	env := newTestEnv()
	inviter := uuid.New()

	inv, err := env.invitations.Issue(context.Background(), inviter, "partner@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	won, err := env.invitations.Expire(context.Background(), inv.Token)
	if err != nil || !won {
		t.Fatalf("first expire: won=%v err=%v", won, err)
	}
	won, err = env.invitations.Expire(context.Background(), inv.Token)
	if err != nil {
		t.Fatalf("second expire: %v", err)
	}
	if won {
		t.Error("second expire should lose the status transition")
	}
}

func TestMarkAcceptedIsNoOpWhenNotPending(t *testing.T) {
	env := newTestEnv()
	inviter := uuid.New()

	inv, err := env.invitations.Issue(context.Background(), inviter, "partner@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := env.invitations.Expire(context.Background(), inv.Token); err != nil {
		t.Fatalf("Expire: %v", err)
	}

	if err := env.invitations.MarkAccepted(context.Background(), inv.Token); err != nil {
		t.Fatalf("MarkAccepted: %v", err)
	}
	if got := env.invitation(inv.Token); got.Status != domain.InvitationExpired {
		t.Errorf("status = %q, want expired to be terminal", got.Status)
	}
}

func TestNewInvitationTokenEntropy(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		token, err := newInvitationToken()
		if err != nil {
			t.Fatalf("newInvitationToken: %v", err)
		}
		if len(token) != 43 { // 32 bytes, base64 raw URL
			t.Fatalf("token length = %d, want 43", len(token))
		}
		if seen[token] {
			t.Fatal("duplicate token generated")
		}
		seen[token] = true
	}
}
