package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

const testSecret = "test-secret"

func newAuthFixture() (*AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	return NewAuthService(repo, testSecret, time.Hour, zerolog.Nop()), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "alice", "s3cret", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("role %q, want default user", user.Role)
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Fatalf("password stored without hashing")
	}
}

func TestRegister_Duplicates(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "alice", "pw", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Same email, same username, and cross matches all collide.
	cases := []struct{ email, username string }{
		{"alice@example.com", "alice"},
		{"alice@example.com", "other"},
		{"other@example.com", "alice"},
	}
	for _, c := range cases {
		if _, err := svc.Register(ctx, c.email, c.username, "pw", ""); !errors.Is(err, domain.ErrUserExists) {
			t.Fatalf("register(%q, %q): got %v, want ErrUserExists", c.email, c.username, err)
		}
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	for _, c := range []struct{ email, username, password string }{
		{"", "u", "p"}, {"e@x.com", "", "p"}, {"e@x.com", "u", ""},
	} {
		if _, err := svc.Register(ctx, c.email, c.username, c.password, ""); err == nil {
			t.Fatalf("register(%q, %q, %q): expected error", c.email, c.username, c.password)
		}
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice@example.com", "alice", "s3cret", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := svc.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("returned user %q, want %q", user.ID, registered.ID)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if claims["sub"] != registered.ID {
		t.Fatalf("sub %v, want %q", claims["sub"], registered.ID)
	}
	if claims["role"] != "admin" {
		t.Fatalf("role claim %v", claims["role"])
	}
	if claims["username"] != "alice" {
		t.Fatalf("username claim %v", claims["username"])
	}
	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		t.Fatalf("exp claim missing or in the past: %v", claims["exp"])
	}
}

func TestLogin_BadCredentialsIndistinguishable(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "alice", "s3cret", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, wrongPw := svc.Login(ctx, "alice@example.com", "wrong")
	_, _, unknown := svc.Login(ctx, "nobody@example.com", "whatever")

	if !errors.Is(wrongPw, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", wrongPw)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", unknown)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()

	first, err := svc.EnsureAdmin(ctx, "admin@example.com", "admin", "bootpw")
	if err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if first.Role != domain.RoleAdmin {
		t.Fatalf("role %q, want admin", first.Role)
	}

	second, err := svc.EnsureAdmin(ctx, "admin@example.com", "admin", "different")
	if err != nil {
		t.Fatalf("second ensure admin: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second call created a new account: %q vs %q", second.ID, first.ID)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected a single account, have %d", len(repo.users))
	}

	// The original password still works.
	if _, _, err := svc.Login(ctx, "admin@example.com", "bootpw"); err != nil {
		t.Fatalf("login after re-bootstrap: %v", err)
	}
}
