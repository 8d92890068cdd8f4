// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/kicks-catalog/internal/config"
	"github.com/javajoker/kicks-catalog/internal/models"
	"github.com/javajoker/kicks-catalog/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("session is invalid or has expired")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrUserNotFound       = errors.New("user not found")
)

const adminUsername = "admin"

type SessionEvent string

const (
	SessionSignedIn        SessionEvent = "SIGNED_IN"
	SessionSignedOut       SessionEvent = "SIGNED_OUT"
	SessionPasswordUpdated SessionEvent = "USER_UPDATED"
)

type Session struct {
	ID          string    `json:"-"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type UpdatePasswordRequest struct {
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config

	mu        sync.Mutex
	revoked   map[string]time.Time
	listeners map[uint64]func(SessionEvent, *Session)
	nextID    uint64
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	return &AuthService{
		db:        db,
		cfg:       cfg,
		revoked:   make(map[string]time.Time),
		listeners: make(map[uint64]func(SessionEvent, *Session)),
	}
}

// NormalizeIdentifier maps the "admin" shorthand to the configured admin
// email. Any other identifier is used as typed.
func (s *AuthService) NormalizeIdentifier(identifier string) string {
	if strings.EqualFold(strings.TrimSpace(identifier), adminUsername) {
		return s.cfg.Auth.AdminEmail
	}
	return identifier
}

func (s *AuthService) SignIn(ctx context.Context, identifier, password string) (*Session, error) {
	email := s.NormalizeIdentifier(identifier)

	var user models.AdminUser
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := user.CheckPassword(password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
	}

	token, claims, err := utils.GenerateJWT(user.ID, user.Email, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	session := sessionFromClaims(token, claims)
	s.notify(SessionSignedIn, session)
	return session, nil
}

// GetSession returns the session behind token, or nil when the token is
// invalid, expired or signed out.
func (s *AuthService) GetSession(token string) *Session {
	if token == "" {
		return nil
	}
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.SessionID()]
	s.mu.Unlock()
	if revoked {
		return nil
	}
	return sessionFromClaims(token, claims)
}

func (s *AuthService) SignOut(token string) error {
	session := s.GetSession(token)
	if session == nil {
		return ErrInvalidSession
	}

	s.mu.Lock()
	now := time.Now()
	for id, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[session.ID] = session.ExpiresAt
	s.mu.Unlock()

	s.notify(SessionSignedOut, session)
	return nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if len([]rune(newPassword)) < s.cfg.Auth.MinPasswordLength {
		return fmt.Errorf("%w: at least %d characters", ErrPasswordTooShort, s.cfg.Auth.MinPasswordLength)
	}

	var user models.AdminUser
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("password_hash", user.PasswordHash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.notify(SessionPasswordUpdated, &Session{UserID: user.ID, Email: user.Email})
	return nil
}

// OnSessionChange registers fn for sign-in, sign-out and password changes.
// The returned func removes it.
func (s *AuthService) OnSessionChange(fn func(SessionEvent, *Session)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *AuthService) notify(event SessionEvent, session *Session) {
	s.mu.Lock()
	fns := make([]func(SessionEvent, *Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}

func sessionFromClaims(token string, claims *utils.JWTClaims) *Session {
	session := &Session{
		ID:          claims.SessionID(),
		AccessToken: token,
		TokenType:   "Bearer",
		UserID:      claims.UserID,
		Email:       claims.Email,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session
}
