package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"room_portal_backend/internal/auth/repository"
	"room_portal_backend/internal/auth/token"
	"room_portal_backend/internal/events"
	"room_portal_backend/platform/apperr"
	"room_portal_backend/platform/config"
	"room_portal_backend/platform/logger"
)

const accessTokenType = "access"

// Store is the persistence surface the service needs.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*repository.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	InsertToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	RevokeByHash(ctx context.Context, tokenHash string) error
	IsTokenLive(ctx context.Context, tokenHash string) (bool, error)
}

type Service struct {
	store Store
	cfg   config.AuthServiceConfig
	bus   events.Bus
	log   *logger.Logger
}

func New(store Store, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, cfg: cfg, bus: bus, log: log}
}

// Login authenticates an email/password pair and issues a signed access
// token whose hash is persisted for revocation.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (string, *repository.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		s.log.AuthEvent("login", email, false, "unknown email")
		return "", nil, apperr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plainPassword)); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return "", nil, apperr.Unauthorized("invalid credentials")
	}

	if user.Status != "ACTIVE" {
		s.log.AuthEvent("login", email, false, "inactive account")
		return "", nil, apperr.Forbidden("account is inactive")
	}

	ttl := s.cfg.GetAccessTokenTTL()
	accessToken, err := s.signJWT(user.ID, user.Role, ttl)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}

	if err := s.store.InsertToken(ctx, user.ID, token.HashSHA256(accessToken), time.Now().Add(ttl)); err != nil {
		return "", nil, err
	}

	s.log.AuthEvent("login", email, true, "")
	s.bus.Publish(ctx, events.NewUserLoggedIn(user.ID, user.Email))

	return accessToken, user, nil
}

// Logout revokes the presented access token.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID, rawToken string) error {
	if err := s.store.RevokeByHash(ctx, token.HashSHA256(rawToken)); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.NewUserLoggedOut(userID))
	return nil
}

// EmailAvailable reports whether an email is free for registration.
func (s *Service) EmailAvailable(ctx context.Context, email string) (bool, error) {
	exists, err := s.store.EmailExists(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// IsRevoked implements httpkit.TokenChecker. Tokens the store never saw are
// treated as revoked.
func (s *Service) IsRevoked(ctx context.Context, rawToken string) (bool, error) {
	live, err := s.store.IsTokenLive(ctx, token.HashSHA256(rawToken))
	if err != nil {
		return false, err
	}
	return !live, nil
}

func (s *Service) signJWT(userID uuid.UUID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"type": accessTokenType,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
