// Package auth handles clinic registration, staff login and session lifecycle.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/config"
	"github.com/maherraissi/MedFlow/internal/domain"
	"github.com/maherraissi/MedFlow/pkg/access"
	"github.com/maherraissi/MedFlow/pkg/metrics"
	"github.com/maherraissi/MedFlow/pkg/session"
	"github.com/maherraissi/MedFlow/pkg/util/password"
)

const (
	defaultMaxLoginAttempts = 5
	defaultLockoutMinutes   = 15
	defaultMinPasswordLen   = 8
)

// redisKeyLoginAttempts returns the Redis key for the failed-login counter.
func redisKeyLoginAttempts(email string) string { return "login:attempts:" + email }

// redisKeyLoginLock returns the Redis key marking a locked account.
func redisKeyLoginLock(email string) string { return "login:lock:" + email }

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type RegisterRequest struct {
	ClinicName string
	Name       string
	Email      string
	Password   string
}

type LoginRequest struct {
	Email    string
	Password string
}

type CompleteInvitationRequest struct {
	Token    string
	Password string
}

// AuthResult is what a successful login or registration hands back.
type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
	Home  string       `json:"home"`
}

// InvitationInfo is the safe subset shown on the set-password page.
type InvitationInfo struct {
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	Role       domain.Role `json:"role"`
	ClinicName string      `json:"clinic_name"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// Register creates a clinic and its first ADMIN user atomically.
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, claims session.Claims) (*domain.User, error)

	// GetInvitation resolves a pending invitation token. Expired tokens are
	// indistinguishable from unknown ones.
	GetInvitation(ctx context.Context, token string) (*InvitationInfo, error)
	// CompleteInvitation sets the invitee's password and activates the account.
	CompleteInvitation(ctx context.Context, req CompleteInvitationRequest) (*AuthResult, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	db       *gorm.DB
	rdb      *redis.Client
	sessions *session.Manager
	cfg      *config.Config
}

func New(db *gorm.DB, rdb *redis.Client, sessions *session.Manager, cfg *config.Config) Service {
	return &authService{db: db, rdb: rdb, sessions: sessions, cfg: cfg}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if strings.TrimSpace(req.ClinicName) == "" {
		return nil, ErrClinicNameRequired
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidName
	}
	emailAddr, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.checkPasswordStrength(req.Password); err != nil {
		return nil, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *domain.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.WithContext(ctx).Model(&domain.User{}).
			Where("email = ?", emailAddr).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if count > 0 {
			return ErrEmailTaken
		}

		clinic := &domain.Clinic{Name: strings.TrimSpace(req.ClinicName)}
		if err := tx.WithContext(ctx).Create(clinic).Error; err != nil {
			return fmt.Errorf("create clinic: %w", err)
		}

		user = &domain.User{
			ClinicID:     clinic.ID,
			Email:        emailAddr,
			Name:         strings.TrimSpace(req.Name),
			PasswordHash: &hash,
			Role:         domain.RoleAdmin,
			Status:       domain.UserStatusActive,
			IsActive:     true,
		}
		if err := tx.WithContext(ctx).Create(user).Error; err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}
		user.Clinic = clinic
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.startSession(ctx, user)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	emailAddr, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Check lockout before touching the database.
	locked, err := s.rdb.Exists(ctx, redisKeyLoginLock(emailAddr)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("check lockout: %w", err)
	}
	if locked > 0 {
		return nil, ErrAccountLocked
	}

	var user domain.User
	err = s.db.WithContext(ctx).
		Where("email = ?", emailAddr).
		Preload("Clinic").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordFailedLogin(ctx, emailAddr)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user.PasswordHash == nil || user.Status != domain.UserStatusActive {
		s.recordFailedLogin(ctx, emailAddr)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	if !password.Match(*user.PasswordHash, req.Password) {
		s.recordFailedLogin(ctx, emailAddr)
		return nil, ErrInvalidCredentials
	}

	s.rdb.Del(ctx, redisKeyLoginAttempts(emailAddr))
	return s.startSession(ctx, &user)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

func (s *authService) Me(ctx context.Context, claims session.Claims) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).
		Where("id = ?", claims.UserID).
		Preload("Clinic").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (s *authService) GetInvitation(ctx context.Context, token string) (*InvitationInfo, error) {
	user, err := s.pendingInvitee(ctx, token)
	if err != nil {
		return nil, err
	}

	info := &InvitationInfo{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
	if user.Clinic != nil {
		info.ClinicName = user.Clinic.Name
	}
	return info, nil
}

func (s *authService) CompleteInvitation(ctx context.Context, req CompleteInvitationRequest) (*AuthResult, error) {
	if err := s.checkPasswordStrength(req.Password); err != nil {
		return nil, err
	}

	user, err := s.pendingInvitee(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"password_hash": hash,
			"status":        domain.UserStatusActive,
			"is_active":     true,
			"invite_token":  nil,
			"invite_expiry": nil,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("activate user: %w", err)
	}

	user.PasswordHash = &hash
	user.Status = domain.UserStatusActive
	user.IsActive = true
	return s.startSession(ctx, user)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// invitationUsable is the acceptance rule for an invite token: the account
// must still be INVITED and the expiry must lie in the future. An expired
// token is invalid even on an exact match.
func invitationUsable(u *domain.User, now time.Time) bool {
	return u.Status == domain.UserStatusInvited &&
		u.InviteExpiry != nil &&
		u.InviteExpiry.After(now)
}

func (s *authService) pendingInvitee(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrInvalidInvitation
	}

	var user domain.User
	err := s.db.WithContext(ctx).
		Where("invite_token = ?", token).
		Preload("Clinic").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInvitation
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	if !invitationUsable(&user, time.Now()) {
		return nil, ErrInvalidInvitation
	}
	return &user, nil
}

func (s *authService) startSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, err := s.sessions.Create(ctx, session.Claims{
		UserID:   user.ID,
		ClinicID: user.ClinicID,
		Role:     access.Role(user.Role),
		Email:    user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &AuthResult{
		Token: token,
		User:  user,
		Home:  access.HomeFor(access.Role(user.Role)),
	}, nil
}

func (s *authService) recordFailedLogin(ctx context.Context, email string) {
	metrics.LoginFailures.Inc()

	maxAttempts := s.cfg.Authentication.MaxLoginAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxLoginAttempts
	}
	lockoutMins := s.cfg.Authentication.LoginLockoutMinutes
	if lockoutMins <= 0 {
		lockoutMins = defaultLockoutMinutes
	}
	lockout := time.Duration(lockoutMins) * time.Minute

	attempts, err := s.rdb.Incr(ctx, redisKeyLoginAttempts(email)).Result()
	if err != nil {
		return
	}
	s.rdb.Expire(ctx, redisKeyLoginAttempts(email), lockout)

	if attempts >= int64(maxAttempts) {
		s.rdb.Set(ctx, redisKeyLoginLock(email), "1", lockout)
		s.rdb.Del(ctx, redisKeyLoginAttempts(email))
	}
}

func (s *authService) checkPasswordStrength(pw string) error {
	minLen := s.cfg.Authentication.MinPasswordLength
	if minLen <= 0 {
		minLen = defaultMinPasswordLen
	}
	if len(pw) < minLen {
		return ErrWeakPassword
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}
