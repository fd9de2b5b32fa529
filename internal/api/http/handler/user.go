package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/maherraissi/MedFlow/internal/domain"
	"github.com/maherraissi/MedFlow/internal/service/audit"
	"github.com/maherraissi/MedFlow/internal/service/user"
)

type UserHandler struct {
	svc   user.Service
	audit audit.Service
}

func NewUserHandler(svc user.Service, auditSvc audit.Service) *UserHandler {
	return &UserHandler{svc: svc, audit: auditSvc}
}

func mapUserError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		return conflict(c, err.Error())
	case errors.Is(err, user.ErrNotInvited):
		return badRequest(c, err.Error())
	case errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrInvalidName),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrNotStaffRole),
		errors.Is(err, user.ErrWeakPassword):
		return unprocessable(c, err.Error())
	case errors.Is(err, user.ErrSelfDemotion):
		return forbidden(c)
	default:
		return internalError(c)
	}
}

// GET /users
func (h *UserHandler) List(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var q struct {
		Page    int    `query:"page"`
		PerPage int    `query:"per_page"`
		Role    string `query:"role"`
	}
	_ = c.Bind().Query(&q)

	req := user.ListUsersRequest{Page: q.Page, PerPage: q.PerPage}
	if q.Role != "" {
		req.Role = &q.Role
	}

	result, err := h.svc.List(c.Context(), clinicID, req)
	if err != nil {
		return mapUserError(c, err)
	}

	return ok(c, fiber.Map{
		"users":       result.Data,
		"total":       result.Total,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total_pages": result.TotalPages,
	})
}

// POST /users/invite
func (h *UserHandler) Invite(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var body struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	invited, err := h.svc.Invite(c.Context(), clinicID, user.InviteRequest{
		Email: body.Email,
		Name:  body.Name,
		Role:  domain.Role(body.Role),
	})
	if err != nil {
		return mapUserError(c, err)
	}

	if actorID, hasActor := userIDFromLocals(c); hasActor {
		h.audit.Record(c.Context(), audit.Entry{
			ClinicID: &clinicID,
			UserID:   &actorID,
			Action:   "user.invited",
			Entity:   "user",
			EntityID: &invited.ID,
			Meta:     map[string]any{"role": invited.Role, "email": invited.Email},
		})
	}

	return created(c, invited)
}

// POST /users
func (h *UserHandler) Create(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var body struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Role     string `json:"role"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	u, err := h.svc.Create(c.Context(), clinicID, user.CreateUserRequest{
		Email:    body.Email,
		Name:     body.Name,
		Role:     domain.Role(body.Role),
		Password: body.Password,
	})
	if err != nil {
		return mapUserError(c, err)
	}

	if actorID, hasActor := userIDFromLocals(c); hasActor {
		h.audit.Record(c.Context(), audit.Entry{
			ClinicID: &clinicID,
			UserID:   &actorID,
			Action:   "user.created",
			Entity:   "user",
			EntityID: &u.ID,
			Meta:     map[string]any{"role": u.Role, "email": u.Email},
		})
	}

	return created(c, u)
}

// POST /users/:id/resend-invite
func (h *UserHandler) ResendInvitation(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	u, err := h.svc.ResendInvitation(c.Context(), clinicID, userID)
	if err != nil {
		return mapUserError(c, err)
	}

	return ok(c, u)
}

// POST /users/:id/password
func (h *UserHandler) SetPassword(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.svc.SetPassword(c.Context(), clinicID, userID, body.Password); err != nil {
		return mapUserError(c, err)
	}

	return noContent(c)
}

// PATCH /users/:id/toggle
func (h *UserHandler) ToggleActive(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	actorID, hasActor := userIDFromLocals(c)
	if !hasActor {
		return unauthorized(c)
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	u, err := h.svc.ToggleActive(c.Context(), clinicID, actorID, userID)
	if err != nil {
		return mapUserError(c, err)
	}

	h.audit.Record(c.Context(), audit.Entry{
		ClinicID: &clinicID,
		UserID:   &actorID,
		Action:   "user.toggled",
		Entity:   "user",
		EntityID: &u.ID,
		Meta:     map[string]any{"is_active": u.IsActive},
	})

	return ok(c, u)
}

// PATCH /users/:id
func (h *UserHandler) Update(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	actorID, hasActor := userIDFromLocals(c)
	if !hasActor {
		return unauthorized(c)
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	var body struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	u, err := h.svc.Update(c.Context(), clinicID, actorID, userID, user.UpdateUserRequest{
		Name:     body.Name,
		IsActive: body.IsActive,
	})
	if err != nil {
		return mapUserError(c, err)
	}

	return ok(c, u)
}

// PATCH /users/:id/role
func (h *UserHandler) UpdateRole(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	actorID, hasActor := userIDFromLocals(c)
	if !hasActor {
		return unauthorized(c)
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	role := domain.Role(body.Role)
	u, err := h.svc.Update(c.Context(), clinicID, actorID, userID, user.UpdateUserRequest{
		Role: &role,
	})
	if err != nil {
		return mapUserError(c, err)
	}

	h.audit.Record(c.Context(), audit.Entry{
		ClinicID: &clinicID,
		UserID:   &actorID,
		Action:   "user.role_changed",
		Entity:   "user",
		EntityID: &u.ID,
		Meta:     map[string]any{"role": u.Role},
	})

	return ok(c, u)
}

// DELETE /users/:id
func (h *UserHandler) Delete(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	actorID, hasActor := userIDFromLocals(c)
	if !hasActor {
		return unauthorized(c)
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	if err := h.svc.Delete(c.Context(), clinicID, actorID, userID); err != nil {
		return mapUserError(c, err)
	}

	h.audit.Record(c.Context(), audit.Entry{
		ClinicID: &clinicID,
		UserID:   &actorID,
		Action:   "user.deleted",
		Entity:   "user",
		EntityID: &userID,
	})

	return noContent(c)
}
