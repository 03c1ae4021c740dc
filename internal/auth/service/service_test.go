package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"room_portal_backend/internal/auth/repository"
	"room_portal_backend/internal/auth/token"
	"room_portal_backend/internal/events"
	"room_portal_backend/platform/apperr"
	"room_portal_backend/platform/logger"
)

type fakeStore struct {
	users  map[string]repository.User
	tokens map[string]time.Time // hash -> expiry
	revoked map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[string]repository.User),
		tokens:  make(map[string]time.Time),
		revoked: make(map[string]bool),
	}
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*repository.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return &u, nil
}

func (f *fakeStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.users[email]
	return ok, nil
}

func (f *fakeStore) InsertToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	f.tokens[tokenHash] = expiresAt
	return nil
}

func (f *fakeStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	f.revoked[tokenHash] = true
	return nil
}

func (f *fakeStore) IsTokenLive(ctx context.Context, tokenHash string) (bool, error) {
	expiry, ok := f.tokens[tokenHash]
	if !ok || f.revoked[tokenHash] {
		return false, nil
	}
	return expiry.After(time.Now()), nil
}

type fakeConfig struct{}

func (fakeConfig) GetJWTAccessSecret() string        { return "test-secret" }
func (fakeConfig) GetAccessTokenTTL() time.Duration  { return time.Hour }

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(ctx context.Context, event events.Event) {
	f.published = append(f.published, event)
}
func (f *fakeBus) PublishSync(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}
func (f *fakeBus) Subscribe(eventName string, handler events.Handler) {}

func seedUser(store *fakeStore, status string) repository.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	u := repository.User{
		ID:           uuid.New(),
		Name:         "Maria Silva",
		Email:        "maria@example.com",
		PasswordHash: string(hash),
		Role:         "CUSTOMER",
		Status:       status,
	}
	store.users[u.Email] = u
	return u
}

func newService(store *fakeStore, bus *fakeBus) *Service {
	return New(store, fakeConfig{}, bus, logger.New("test"))
}

func TestLoginIssuesPersistedToken(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	user := seedUser(store, "ACTIVE")
	svc := newService(store, bus)

	accessToken, got, err := svc.Login(context.Background(), "Maria@Example.com ", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, got.ID)
	}

	parsed, err := jwt.Parse(accessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != user.ID.String() || claims["role"] != "CUSTOMER" || claims["type"] != "access" {
		t.Fatalf("unexpected claims: %v", claims)
	}

	if _, ok := store.tokens[token.HashSHA256(accessToken)]; !ok {
		t.Fatal("expected token hash to be persisted")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected login event, got %d events", len(bus.published))
	}
	if _, ok := bus.published[0].(events.UserLoggedIn); !ok {
		t.Fatalf("expected UserLoggedIn, got %T", bus.published[0])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeStore()
	seedUser(store, "ACTIVE")
	svc := newService(store, &fakeBus{})

	_, _, err := svc.Login(context.Background(), "maria@example.com", "wrong")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newService(newFakeStore(), &fakeBus{})

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	store := newFakeStore()
	seedUser(store, "INACTIVE")
	svc := newService(store, &fakeBus{})

	_, _, err := svc.Login(context.Background(), "maria@example.com", "correct-horse")
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "ACTIVE")
	bus := &fakeBus{}
	svc := newService(store, bus)

	accessToken, _, err := svc.Login(context.Background(), "maria@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if revoked, _ := svc.IsRevoked(context.Background(), accessToken); revoked {
		t.Fatal("fresh token must not be revoked")
	}

	if err := svc.Logout(context.Background(), user.ID, accessToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if revoked, _ := svc.IsRevoked(context.Background(), accessToken); !revoked {
		t.Fatal("token must be revoked after logout")
	}
}

func TestIsRevokedTreatsUnknownTokenAsRevoked(t *testing.T) {
	svc := newService(newFakeStore(), &fakeBus{})

	revoked, err := svc.IsRevoked(context.Background(), "never-issued")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !revoked {
		t.Fatal("unknown tokens must count as revoked")
	}
}

func TestEmailAvailable(t *testing.T) {
	store := newFakeStore()
	seedUser(store, "ACTIVE")
	svc := newService(store, &fakeBus{})

	available, err := svc.EmailAvailable(context.Background(), "MARIA@example.com")
	if err != nil {
		t.Fatalf("EmailAvailable: %v", err)
	}
	if available {
		t.Fatal("taken email reported as available")
	}

	available, err = svc.EmailAvailable(context.Background(), "free@example.com")
	if err != nil {
		t.Fatalf("EmailAvailable: %v", err)
	}
	if !available {
		t.Fatal("free email reported as taken")
	}
}
