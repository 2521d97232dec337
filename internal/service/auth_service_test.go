package service

import (
	"context"
	"errors"
	"testing"
)

func newAuthService(env *testEnv) *AuthService {
	return NewAuthService(&fakeUserRepo{s: env.store}, &fakeProfileRepo{s: env.store}, "test-secret")
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(env)

	resp, err := auth.Register(context.Background(), RegisterInput{
		Email:       "Alice@Example.com",
		DisplayName: "Alice",
		Password:    "Sunset2024",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercased", resp.User.Email)
	}
	if resp.AccessToken == "" {
		t.Error("missing access token")
	}
	if resp.User.PasswordHash == "" {
		t.Error("password hash not set")
	}

	// Registration must seed the profile row the pairing flow claims later.
	profile, err := env.profiles.Get(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("Get profile: %v", err)
	}
	if profile.FullName != "Alice" {
		t.Errorf("profile full name = %q", profile.FullName)
	}

	login, err := auth.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "Sunset2024",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Error("login returned a different user")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(env)

	input := RegisterInput{Email: "alice@example.com", DisplayName: "Alice", Password: "Sunset2024"}
	if _, err := auth.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := auth.Register(context.Background(), input)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(env)

	if _, err := auth.Register(context.Background(), RegisterInput{
		Email: "alice@example.com", DisplayName: "Alice", Password: "Sunset2024",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := auth.Login(context.Background(), LoginInput{
		Email: "alice@example.com", Password: "wrong-password",
	}); !errors.Is(err, ErrInvalidCreds) {
		t.Fatalf("wrong password: err = %v, want ErrInvalidCreds", err)
	}

	if _, err := auth.Login(context.Background(), LoginInput{
		Email: "nobody@example.com", Password: "Sunset2024",
	}); !errors.Is(err, ErrInvalidCreds) {
		t.Fatalf("unknown email: err = %v, want ErrInvalidCreds", err)
	}
}
