package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return domain.ErrUserExists
	}
	clone := *user
	r.users[user.Username] = &clone
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func newTestAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, AuthConfig{
		JWTSecret:  "secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, zerolog.Nop())
}

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Signup(context.Background(), "alice", "pass123", domain.RoleFarmer)
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if !VerifyPassword("pass123", user.PasswordHash) {
		t.Fatalf("stored hash does not match password")
	}
	if user.Role != domain.RoleFarmer {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if _, ok := repo.users["alice"]; !ok {
		t.Fatalf("user was not persisted")
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Signup(context.Background(), "", "pass", domain.RoleBuyer); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty username, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), "bob", "", domain.RoleBuyer); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty password, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), "bob", "pass", domain.Role("admin")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad role, got %v", err)
	}
}

func TestAuthService_Signup_UsernameMustBePrintableASCII(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	for _, name := range []string{"田中", "Łukasz", "tab\there", strings.Repeat("a", domain.MaxUsernameLength+1)} {
		if _, err := svc.Signup(context.Background(), name, "pass", domain.RoleFarmer); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%q: expected ErrValidation, got %v", name, err)
		}
	}
	if len(repo.users) != 0 {
		t.Fatalf("rejected usernames must not be stored, got %d", len(repo.users))
	}
	if _, err := svc.Signup(context.Background(), "o'brien-2", "pass", domain.RoleFarmer); err != nil {
		t.Fatalf("ascii punctuation must be accepted: %v", err)
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Signup(context.Background(), "bob", "pass", domain.RoleBuyer); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	// A different password and role must not matter.
	if _, err := svc.Signup(context.Background(), "bob", "other", domain.RoleFarmer); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Signup(context.Background(), "carol", "s3cret", domain.RoleBuyer); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != string(domain.RoleBuyer) {
		t.Fatalf("expected role %s, got %v", domain.RoleBuyer, claims["role"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatalf("expected exp claim")
	}
}

func TestAuthService_Login_TrimsUsername(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Signup(context.Background(), "  frank ", "pw", domain.RoleFarmer); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	_, user, err := svc.Login(context.Background(), " frank  ", "pw")
	if err != nil {
		t.Fatalf("login with surrounding spaces failed: %v", err)
	}
	if user.Username != "frank" {
		t.Fatalf("unexpected user %q", user.Username)
	}
	if _, _, err := svc.Login(context.Background(), "   ", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for blank username, got %v", err)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	_, _ = svc.Signup(context.Background(), "dave", "goodpass", domain.RoleBuyer)
	if _, _, err := svc.Login(context.Background(), "dave", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_VerifyToken_RoundTrip(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	token, err := svc.IssueToken(domain.Identity{Username: "erin", Role: domain.RoleFarmer})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Username != "erin" || id.Role != domain.RoleFarmer {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_VerifyToken_Rejects(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	valid, _ := svc.IssueToken(domain.Identity{Username: "erin", Role: domain.RoleBuyer})

	otherSecret := NewAuthService(newStubUserRepo(), AuthConfig{JWTSecret: "other", BcryptCost: bcrypt.MinCost}, zerolog.Nop())
	forged, _ := otherSecret.IssueToken(domain.Identity{Username: "erin", Role: domain.RoleFarmer})

	expiring := newTestAuthService(newStubUserRepo())
	expiring.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiring.IssueToken(domain.Identity{Username: "erin", Role: domain.RoleBuyer})

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		Username: "erin",
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "erin",
		"role":     "buyer",
		"iss":      tokenIssuer,
	}).SignedString([]byte("secret"))

	cases := map[string]string{
		"garbage":   "not-a-token",
		"tampered":  valid + "x",
		"forged":    forged,
		"expired":   expired,
		"bad role":  badRole,
		"no expiry": noExpiry,
		"empty":     "",
	}
	for name, token := range cases {
		if _, err := svc.VerifyToken(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}
