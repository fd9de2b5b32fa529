// Package audit appends and queries the tenant activity trail.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/internal/domain"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type Entry struct {
	ClinicID *uuid.UUID
	UserID   *uuid.UUID
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Meta     map[string]any
}

type ListEntriesRequest struct {
	Page    int
	PerPage int
	Entity  *string
	Action  *string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// Record appends an entry. Failures are logged and swallowed: the audit
	// trail must never fail the operation it describes.
	Record(ctx context.Context, entry Entry)
	List(ctx context.Context, clinicID uuid.UUID, req ListEntriesRequest) (*domain.Paginated[domain.AuditLog], error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type auditService struct {
	db *gorm.DB
}

func New(db *gorm.DB) Service {
	return &auditService{db: db}
}

func (s *auditService) Record(ctx context.Context, entry Entry) {
	log := &domain.AuditLog{
		ClinicID: entry.ClinicID,
		UserID:   entry.UserID,
		Action:   entry.Action,
		Entity:   entry.Entity,
		EntityID: entry.EntityID,
	}
	if entry.Meta != nil {
		raw, err := json.Marshal(entry.Meta)
		if err != nil {
			slog.Warn("audit meta not serializable", "action", entry.Action, "error", err)
		} else {
			log.Meta = datatypes.JSON(raw)
		}
	}

	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		slog.Error("failed to record audit entry", "action", entry.Action, "entity", entry.Entity, "error", err)
	}
}

func (s *auditService) List(ctx context.Context, clinicID uuid.UUID, req ListEntriesRequest) (*domain.Paginated[domain.AuditLog], error) {
	page, perPage := domain.NormalizePage(req.Page, req.PerPage)
	offset := (page - 1) * perPage

	q := s.db.WithContext(ctx).Model(&domain.AuditLog{}).
		Where("clinic_id = ?", clinicID)
	if req.Entity != nil {
		q = q.Where("entity = ?", *req.Entity)
	}
	if req.Action != nil {
		q = q.Where("action = ?", *req.Action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count audit entries: %w", err)
	}

	var entries []domain.AuditLog
	err := q.Order("created_at DESC").
		Offset(offset).Limit(perPage).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	return domain.NewPaginated(entries, int(total), page, perPage), nil
}
