package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/maherraissi/MedFlow/internal/api/http/middleware"
	"github.com/maherraissi/MedFlow/internal/service/audit"
	"github.com/maherraissi/MedFlow/internal/service/auth"
	"github.com/maherraissi/MedFlow/pkg/access"
)

type AuthHandler struct {
	svc   auth.Service
	audit audit.Service
}

func NewAuthHandler(svc auth.Service, auditSvc audit.Service) *AuthHandler {
	return &AuthHandler{svc: svc, audit: auditSvc}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func clinicIDFromLocals(c fiber.Ctx) (uuid.UUID, bool) {
	s, hasKey := c.Locals(middleware.LocalsClinicID).(string)
	if !hasKey || s == "" {
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(s)
	return id, err == nil
}

func userIDFromLocals(c fiber.Ctx) (uuid.UUID, bool) {
	s, hasKey := c.Locals(middleware.LocalsUserID).(string)
	if !hasKey || s == "" {
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(s)
	return id, err == nil
}

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return unauthorized(c)
	case errors.Is(err, auth.ErrAccountLocked):
		return tooManyRequests(c, err.Error())
	case errors.Is(err, auth.ErrAccountDisabled):
		return forbidden(c)
	case errors.Is(err, auth.ErrEmailTaken):
		return conflict(c, err.Error())
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidName),
		errors.Is(err, auth.ErrClinicNameRequired):
		return unprocessable(c, err.Error())
	case errors.Is(err, auth.ErrInvalidInvitation):
		return badRequest(c, err.Error())
	case errors.Is(err, auth.ErrSessionNotFound):
		return unauthorized(c)
	default:
		return internalError(c)
	}
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// POST /auth/register
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var body struct {
		ClinicName string `json:"clinic_name"`
		Name       string `json:"name"`
		Email      string `json:"email"`
		Password   string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.svc.Register(c.Context(), auth.RegisterRequest{
		ClinicName: body.ClinicName,
		Name:       body.Name,
		Email:      body.Email,
		Password:   body.Password,
	})
	if err != nil {
		return mapAuthError(c, err)
	}

	h.audit.Record(c.Context(), audit.Entry{
		ClinicID: &result.User.ClinicID,
		UserID:   &result.User.ID,
		Action:   "clinic.registered",
		Entity:   "clinic",
		EntityID: &result.User.ClinicID,
	})

	return created(c, result)
}

// POST /auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.svc.Login(c.Context(), auth.LoginRequest{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return mapAuthError(c, err)
	}

	return ok(c, result)
}

// POST /auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	token, hasToken := middleware.TokenFromFiber(c)
	if !hasToken {
		return unauthorized(c)
	}

	if err := h.svc.Logout(c.Context(), token); err != nil {
		return mapAuthError(c, err)
	}
	return noContent(c)
}

// GET /auth/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	claims, hasClaims := middleware.ClaimsFromFiber(c)
	if !hasClaims {
		return unauthorized(c)
	}

	user, err := h.svc.Me(c.Context(), *claims)
	if err != nil {
		return mapAuthError(c, err)
	}
	return ok(c, user)
}

// GET /auth/invitations/:token
func (h *AuthHandler) GetInvitation(c fiber.Ctx) error {
	info, err := h.svc.GetInvitation(c.Context(), c.Params("token"))
	if err != nil {
		return mapAuthError(c, err)
	}
	return ok(c, info)
}

// POST /auth/invitations/:token/complete
func (h *AuthHandler) CompleteInvitation(c fiber.Ctx) error {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.svc.CompleteInvitation(c.Context(), auth.CompleteInvitationRequest{
		Token:    c.Params("token"),
		Password: body.Password,
	})
	if err != nil {
		return mapAuthError(c, err)
	}

	return ok(c, result)
}

// GET /auth/page-access?path=/dashboard/patients
// Consulted by the frontend before rendering a page, so redirects happen
// with the same table the API gate enforces.
func (h *AuthHandler) PageAccess(c fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return badRequest(c, "path is required")
	}

	var role access.Role
	authenticated := false
	if claims, hasClaims := middleware.ClaimsFromFiber(c); hasClaims {
		role = claims.Role
		authenticated = true
	}

	return ok(c, access.CheckPage(role, authenticated, path))
}
