package service

import (
	"context"
	"errors"
	"testing"
)

func TestCreateCoupleRequiresRegisteredPartner(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	_, err := env.couples.CreateCouple(context.Background(), alice.ID, "ghost@example.com")
	if !errors.Is(err, ErrPartnerNotFound) {
		t.Fatalf("err = %v, want ErrPartnerNotFound", err)
	}
}

func TestCreateCoupleEnforcesOneCouplePerUser(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")
	env.addUser("bob@example.com", "Bob")
	env.addUser("carol@example.com", "Carol")

	if _, err := env.couples.CreateCouple(context.Background(), alice.ID, "bob@example.com"); err != nil {
		t.Fatalf("first couple: %v", err)
	}

	_, err := env.couples.CreateCouple(context.Background(), alice.ID, "carol@example.com")
	if !errors.Is(err, ErrAlreadyPaired) {
		t.Fatalf("err = %v, want ErrAlreadyPaired", err)
	}
}

func TestFindCoupleForUserReturnsNilWhenUnpaired(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")

	couple, err := env.couples.FindCoupleForUser(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("FindCoupleForUser: %v", err)
	}
	if couple != nil {
		t.Fatalf("couple = %+v, want nil", couple)
	}

	if _, err := env.couples.RequireCouple(context.Background(), alice.ID); !errors.Is(err, ErrNotPaired) {
		t.Fatalf("RequireCouple err = %v, want ErrNotPaired", err)
	}
}

func TestCoupleMemberOrderingIsCanonical(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice@example.com", "Alice")
	bob := env.addUser("bob@example.com", "Bob")

	couple, err := env.couples.CreateCouple(context.Background(), alice.ID, "bob@example.com")
	if err != nil {
		t.Fatalf("CreateCouple: %v", err)
	}

	if couple.User1ID.String() >= couple.User2ID.String() {
		t.Errorf("members not canonically ordered: %s, %s", couple.User1ID, couple.User2ID)
	}
	if couple.PartnerOf(alice.ID) != bob.ID {
		t.Errorf("PartnerOf(alice) = %s, want bob", couple.PartnerOf(alice.ID))
	}
}
