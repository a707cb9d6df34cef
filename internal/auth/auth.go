package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkellerny/Fire-Watch-GUI/models"
)

var (
	// ErrInvalidCredentials is returned on login failure. Unknown username and
	// wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidSession is returned when a token is unknown or expired.
	ErrInvalidSession = errors.New("invalid or expired session")

	// ErrBadUsername and ErrBadPassword reject malformed registration input.
	ErrBadUsername = errors.New("username must be 3-32 characters")
	ErrBadPassword = errors.New("password must be at least 8 characters")
)

// Store is the persistence surface the auth service needs.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// Service handles account registration, login and session validation.
type Service struct {
	store      Store
	sessionTTL time.Duration
	logger     zerolog.Logger
}

// NewService creates an auth service backed by the given store.
func NewService(store Store, sessionTTL time.Duration) *Service {
	if sessionTTL == 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Service{
		store:      store,
		sessionTTL: sessionTTL,
		logger:     log.With().Str("component", "auth").Logger(),
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	if len(username) < 3 || len(username) > 32 {
		return nil, ErrBadUsername
	}
	if len(password) < 8 {
		return nil, ErrBadPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Msg("Registered new account")
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Session, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	now := time.Now().UTC()
	session := &models.Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("Login successful")
	return session, nil
}

// Logout invalidates a session token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to a user ID.
func (s *Service) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalidSession
	}

	session, err := s.store.GetSession(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("looking up session: %w", err)
	}
	if session == nil {
		return 0, ErrInvalidSession
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		// Expired tokens are removed on sight
		_ = s.store.DeleteSession(ctx, token)
		return 0, ErrInvalidSession
	}

	return session.UserID, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, username, current, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrBadPassword
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.store.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("Password changed")
	return nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
