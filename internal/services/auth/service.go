package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/matchawards/internal/dependencies/clock"
	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/metrics"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage"
)

const (
	adminSubject = "coach"
	tokenIssuer  = "matchawards"
)

// Config holds configuration for the auth service
type Config struct {
	// DefaultPIN is assigned by reseeds and PIN resets
	DefaultPIN   string
	MinPINLength int

	// AdminSessionDuration bounds the lifetime of the coach's session token
	AdminSessionDuration time.Duration
	// SessionSecret signs admin session tokens. A random secret is used when empty.
	SessionSecret []byte
	// AdminPassword is checked by the query-param gate
	AdminPassword string

	HashCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		DefaultPIN:           "1234",
		MinPINLength:         4,
		AdminSessionDuration: 2 * time.Hour,
		HashCost:             bcrypt.DefaultCost,
	}
}

// LoginResult tells the presentation layer where to send the user next
type LoginResult struct {
	Player         *model.Player
	IsAdmin        bool
	NeedsPINChange bool
	// AdminSession is set for coach logins only
	AdminSession *AdminSession
}

// UserName is the display name of the logged-in player
func (r *LoginResult) UserName() string {
	return r.Player.Name
}

// AdminSession is a signed, expiring proof of a coach login
type AdminSession struct {
	Token     string
	ExpiresAt time.Time
}

// Service handles PIN verification, PIN management and coach sessions
type Service struct {
	storage   storage.Storage
	clock     clock.Clock
	publisher events.Publisher
	metrics   *metrics.Metrics
	cfg       Config
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, publisher events.Publisher, m *metrics.Metrics, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.DefaultPIN == "" {
		cfg.DefaultPIN = defaults.DefaultPIN
	}
	if cfg.MinPINLength == 0 {
		cfg.MinPINLength = defaults.MinPINLength
	}
	if cfg.AdminSessionDuration == 0 {
		cfg.AdminSessionDuration = defaults.AdminSessionDuration
	}
	if cfg.HashCost == 0 {
		cfg.HashCost = defaults.HashCost
	}
	if len(cfg.SessionSecret) == 0 {
		cfg.SessionSecret = make([]byte, 32)
		_, _ = rand.Read(cfg.SessionSecret)
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		storage:   storage,
		clock:     clock,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
	}
}

// DefaultPIN is the PIN given to new and reset accounts
func (s *Service) DefaultPIN() string {
	return s.cfg.DefaultPIN
}

// HashPIN hashes a PIN for storage
func (s *Service) HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), s.cfg.HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyLogin checks a shirt number and PIN. Coach logins also receive an admin session.
func (s *Service) VerifyLogin(ctx context.Context, shirt model.ShirtNumber, pin string) (*LoginResult, error) {
	player, err := s.Authenticate(ctx, shirt, pin)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			s.metrics.Login(metrics.LoginInvalid)
		}
		return nil, err
	}

	result := &LoginResult{
		Player:         player,
		IsAdmin:        player.IsCoach(),
		NeedsPINChange: player.NeedsPINChange,
	}
	if !result.IsAdmin {
		s.metrics.Login(metrics.LoginPlayer)
		return result, nil
	}

	session, err := s.IssueAdminSession()
	if err != nil {
		return nil, err
	}
	result.AdminSession = session
	s.metrics.Login(metrics.LoginCoach)
	return result, nil
}

// Authenticate returns the player iff the PIN matches the last one set
func (s *Service) Authenticate(ctx context.Context, shirt model.ShirtNumber, pin string) (*model.Player, error) {
	player, err := s.storage.GetPlayer(ctx, shirt)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.PINHash), []byte(pin)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return player, nil
}

// UpdatePIN replaces the PIN of the player identified by shirt number and current PIN
func (s *Service) UpdatePIN(ctx context.Context, shirt model.ShirtNumber, oldPIN, newPIN string) error {
	if len(newPIN) < s.cfg.MinPINLength {
		return model.ErrWeakPIN
	}

	player, err := s.Authenticate(ctx, shirt, oldPIN)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			return model.ErrPlayerNotFound
		}
		return err
	}

	hash, err := s.HashPIN(newPIN)
	if err != nil {
		return err
	}
	return s.setPIN(ctx, player.ShirtNumber, hash, false)
}

// ResetPlayerPIN restores the default PIN and forces a change at next login.
// Callers must have checked admin access. The coach PIN is only set by seeding.
func (s *Service) ResetPlayerPIN(ctx context.Context, shirt model.ShirtNumber) error {
	if shirt.IsCoach() {
		return model.ErrPlayerNotFound
	}
	hash, err := s.HashPIN(s.cfg.DefaultPIN)
	if err != nil {
		return err
	}
	if err := s.setPIN(ctx, shirt, hash, true); err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.Event{
		Type:  events.TypePINReset,
		Topic: events.TopicCoach,
		Data:  map[string]any{"shirt_number": int(shirt)},
	})
	return nil
}

func (s *Service) setPIN(ctx context.Context, shirt model.ShirtNumber, hash string, needsChange bool) error {
	err := s.storage.SetPlayerPIN(ctx, shirt, hash, needsChange, s.clock.Now())
	if err == nil || errors.Is(err, model.ErrPlayerNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", model.ErrPersistence, err)
}

// IssueAdminSession signs a new coach session token
func (s *Service) IssueAdminSession() (*AdminSession, error) {
	now := s.clock.Now()
	expires := now.Add(s.cfg.AdminSessionDuration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(s.cfg.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign admin session: %w", err)
	}
	return &AdminSession{Token: signed, ExpiresAt: expires}, nil
}

// ValidateAdminSession accepts only unexpired coach tokens signed by this service
func (s *Service) ValidateAdminSession(token string) error {
	if token == "" {
		return model.ErrUnauthorized
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.cfg.SessionSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(adminSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return model.ErrUnauthorized
	}
	return nil
}

// CheckAdminPassword compares a shared admin password in constant time
func (s *Service) CheckAdminPassword(password string) error {
	if s.cfg.AdminPassword == "" || password == "" {
		return model.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) != 1 {
		return model.ErrUnauthorized
	}
	return nil
}
