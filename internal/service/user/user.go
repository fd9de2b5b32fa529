// Package user manages clinic staff accounts and invitations.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/config"
	"github.com/maherraissi/MedFlow/internal/domain"
	"github.com/maherraissi/MedFlow/pkg/email"
	"github.com/maherraissi/MedFlow/pkg/util/codes"
	"github.com/maherraissi/MedFlow/pkg/util/password"
)

const (
	defaultInvitationTTLHours = 72
	defaultMinPasswordLen     = 8
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type InviteRequest struct {
	Email string
	Name  string
	Role  domain.Role
}

// CreateUserRequest provisions a ready-to-use staff account, skipping the
// invitation flow. Used when the admin hands over credentials directly.
type CreateUserRequest struct {
	Email    string
	Name     string
	Role     domain.Role
	Password string
}

type UpdateUserRequest struct {
	Name     *string
	Role     *domain.Role
	IsActive *bool
}

type ListUsersRequest struct {
	Page    int
	PerPage int
	Role    *string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, clinicID uuid.UUID, req ListUsersRequest) (*domain.Paginated[domain.User], error)
	GetByID(ctx context.Context, clinicID, userID uuid.UUID) (*domain.User, error)

	// Invite creates an INVITED staff account and emails a set-password link.
	Invite(ctx context.Context, clinicID uuid.UUID, req InviteRequest) (*domain.User, error)

	// ResendInvitation rotates the token and expiry of a pending invitation.
	ResendInvitation(ctx context.Context, clinicID, userID uuid.UUID) (*domain.User, error)

	Create(ctx context.Context, clinicID uuid.UUID, req CreateUserRequest) (*domain.User, error)
	Update(ctx context.Context, clinicID, actorID, userID uuid.UUID, req UpdateUserRequest) (*domain.User, error)

	// SetPassword force-sets a password and activates the account, clearing
	// any outstanding invitation.
	SetPassword(ctx context.Context, clinicID, userID uuid.UUID, password string) error

	ToggleActive(ctx context.Context, clinicID, actorID, userID uuid.UUID) (*domain.User, error)
	Delete(ctx context.Context, clinicID, actorID, userID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type userService struct {
	db     *gorm.DB
	mailer *email.Client
	cfg    *config.Config
}

func New(db *gorm.DB, mailer *email.Client, cfg *config.Config) Service {
	return &userService{db: db, mailer: mailer, cfg: cfg}
}

func (s *userService) List(ctx context.Context, clinicID uuid.UUID, req ListUsersRequest) (*domain.Paginated[domain.User], error) {
	page, perPage := domain.NormalizePage(req.Page, req.PerPage)
	offset := (page - 1) * perPage

	q := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("clinic_id = ?", clinicID)
	if req.Role != nil {
		q = q.Where("role = ?", *req.Role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	var users []domain.User
	err := q.Order("created_at DESC").
		Offset(offset).Limit(perPage).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return domain.NewPaginated(users, int(total), page, perPage), nil
}

func (s *userService) GetByID(ctx context.Context, clinicID, userID uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", userID, clinicID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (s *userService) Invite(ctx context.Context, clinicID uuid.UUID, req InviteRequest) (*domain.User, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidName
	}
	if !domain.KnownRoles[req.Role] {
		return nil, ErrInvalidRole
	}
	if req.Role == domain.RolePatient {
		return nil, ErrNotStaffRole
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, ErrInvalidEmail
	}
	emailAddr := strings.ToLower(addr.Address)

	var count int64
	err = s.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", emailAddr).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	token, err := codes.GenerateInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("generate invitation token: %w", err)
	}

	ttlHours := s.cfg.Authentication.InvitationTTLHours
	if ttlHours <= 0 {
		ttlHours = defaultInvitationTTLHours
	}
	expiry := time.Now().Add(time.Duration(ttlHours) * time.Hour)

	user := &domain.User{
		ClinicID:     clinicID,
		Email:        emailAddr,
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
		Status:       domain.UserStatusInvited,
		IsActive:     false,
		InviteToken:  &token,
		InviteExpiry: &expiry,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create invited user: %w", err)
	}

	s.sendInvitation(ctx, user, token, ttlHours)
	return user, nil
}

func (s *userService) ResendInvitation(ctx context.Context, clinicID, userID uuid.UUID) (*domain.User, error) {
	user, err := s.GetByID(ctx, clinicID, userID)
	if err != nil {
		return nil, err
	}
	if user.Status != domain.UserStatusInvited {
		return nil, ErrNotInvited
	}

	token, err := codes.GenerateInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("generate invitation token: %w", err)
	}

	ttlHours := s.cfg.Authentication.InvitationTTLHours
	if ttlHours <= 0 {
		ttlHours = defaultInvitationTTLHours
	}
	expiry := time.Now().Add(time.Duration(ttlHours) * time.Hour)

	err = s.db.WithContext(ctx).Model(user).
		Updates(map[string]any{"invite_token": token, "invite_expiry": expiry}).Error
	if err != nil {
		return nil, fmt.Errorf("rotate invitation: %w", err)
	}

	user.InviteToken = &token
	user.InviteExpiry = &expiry
	s.sendInvitation(ctx, user, token, ttlHours)
	return user, nil
}

func (s *userService) Create(ctx context.Context, clinicID uuid.UUID, req CreateUserRequest) (*domain.User, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidName
	}
	if !domain.KnownRoles[req.Role] {
		return nil, ErrInvalidRole
	}
	if req.Role == domain.RolePatient {
		return nil, ErrNotStaffRole
	}
	if len(req.Password) < s.minPasswordLen() {
		return nil, ErrWeakPassword
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, ErrInvalidEmail
	}
	emailAddr := strings.ToLower(addr.Address)

	var count int64
	err = s.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", emailAddr).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ClinicID:     clinicID,
		Email:        emailAddr,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: &hash,
		Role:         req.Role,
		Status:       domain.UserStatusActive,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) SetPassword(ctx context.Context, clinicID, userID uuid.UUID, pw string) error {
	if len(pw) < s.minPasswordLen() {
		return ErrWeakPassword
	}

	user, err := s.GetByID(ctx, clinicID, userID)
	if err != nil {
		return err
	}

	hash, err := password.Hash(pw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.db.WithContext(ctx).Model(user).Updates(map[string]any{
		"password_hash": hash,
		"status":        domain.UserStatusActive,
		"is_active":     true,
		"invite_token":  nil,
		"invite_expiry": nil,
	}).Error
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

func (s *userService) ToggleActive(ctx context.Context, clinicID, actorID, userID uuid.UUID) (*domain.User, error) {
	if userID == actorID {
		return nil, ErrSelfDemotion
	}

	user, err := s.GetByID(ctx, clinicID, userID)
	if err != nil {
		return nil, err
	}

	next := !user.IsActive
	err = s.db.WithContext(ctx).Model(user).Update("is_active", next).Error
	if err != nil {
		return nil, fmt.Errorf("toggle user: %w", err)
	}
	user.IsActive = next
	return user, nil
}

func (s *userService) minPasswordLen() int {
	if n := s.cfg.Authentication.MinPasswordLength; n > 0 {
		return n
	}
	return defaultMinPasswordLen
}

func (s *userService) Update(ctx context.Context, clinicID, actorID, userID uuid.UUID, req UpdateUserRequest) (*domain.User, error) {
	user, err := s.GetByID(ctx, clinicID, userID)
	if err != nil {
		return nil, err
	}

	// An admin cannot demote or deactivate themselves; another admin must.
	if userID == actorID && (req.Role != nil || req.IsActive != nil) {
		return nil, ErrSelfDemotion
	}

	updates := map[string]any{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrInvalidName
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		if !domain.KnownRoles[*req.Role] || *req.Role == domain.RolePatient {
			return nil, ErrInvalidRole
		}
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		err = s.db.WithContext(ctx).Model(user).Updates(updates).Error
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, clinicID, actorID, userID uuid.UUID) error {
	if userID == actorID {
		return ErrSelfDemotion
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", userID, clinicID).
		Delete(&domain.User{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// sendInvitation is best effort: the admin can re-invite if delivery fails.
func (s *userService) sendInvitation(ctx context.Context, user *domain.User, token string, ttlHours int) {
	var clinic domain.Clinic
	s.db.WithContext(ctx).First(&clinic, "id = ?", user.ClinicID)

	inviteURL := fmt.Sprintf("%s/auth/set-password?token=%s",
		strings.TrimRight(s.cfg.Server.BaseURL, "/"), token)

	msg := email.BuildInvitationEmail(email.InvitationEmailData{
		Name:          user.Name,
		Email:         user.Email,
		ClinicName:    clinic.Name,
		Role:          string(user.Role),
		InvitationURL: inviteURL,
		ExpiresInHrs:  ttlHours,
	})
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Warn("failed to send invitation email", "user_id", user.ID, "error", err)
	}
}
