package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/internal/api/http/middleware"
	"github.com/maherraissi/MedFlow/internal/domain"
	"github.com/maherraissi/MedFlow/internal/service/patient"
)

type stubPatientService struct {
	patients  map[uuid.UUID]*domain.Patient
	createErr error
}

func (s *stubPatientService) Create(ctx context.Context, clinicID uuid.UUID, req patient.CreatePatientRequest) (*domain.Patient, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	p := &domain.Patient{
		ClinicID:  clinicID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	p.ID = uuid.New()
	return p, nil
}

func (s *stubPatientService) GetByID(ctx context.Context, clinicID, patientID uuid.UUID) (*domain.Patient, error) {
	p, found := s.patients[patientID]
	if !found || p.ClinicID != clinicID {
		return nil, patient.ErrPatientNotFound
	}
	return p, nil
}

func (s *stubPatientService) GetByEmail(ctx context.Context, clinicID uuid.UUID, email string) (*domain.Patient, error) {
	return nil, patient.ErrPatientNotFound
}

func (s *stubPatientService) List(ctx context.Context, clinicID uuid.UUID, req patient.ListPatientsRequest) (*domain.Paginated[domain.Patient], error) {
	var out []domain.Patient
	for _, p := range s.patients {
		out = append(out, *p)
	}
	page, perPage := domain.NormalizePage(req.Page, req.PerPage)
	return domain.NewPaginated(out, len(out), page, perPage), nil
}

func (s *stubPatientService) Update(ctx context.Context, clinicID, patientID uuid.UUID, req patient.UpdatePatientRequest) (*domain.Patient, error) {
	return s.GetByID(ctx, clinicID, patientID)
}

func (s *stubPatientService) Delete(ctx context.Context, clinicID, patientID uuid.UUID) error {
	if _, found := s.patients[patientID]; !found {
		return patient.ErrPatientNotFound
	}
	delete(s.patients, patientID)
	return nil
}

func (s *stubPatientService) Records(ctx context.Context, clinicID, patientID uuid.UUID) (*patient.MedicalRecord, error) {
	p, err := s.GetByID(ctx, clinicID, patientID)
	if err != nil {
		return nil, err
	}
	return &patient.MedicalRecord{Patient: p}, nil
}

func (s *stubPatientService) FindOrCreateByEmail(ctx context.Context, tx *gorm.DB, clinicID uuid.UUID, email, firstName, lastName string, phoneNumber *string) (*domain.Patient, error) {
	return nil, patient.ErrPatientNotFound
}

func withClinic(clinicID uuid.UUID) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals(middleware.LocalsClinicID, clinicID.String())
		return c.Next()
	}
}

func newPatientApp(clinicID uuid.UUID, svc patient.Service) *fiber.App {
	app := fiber.New()
	h := NewPatientHandler(svc)

	grp := app.Group("/patients", withClinic(clinicID))
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Get("/:id", h.Get)
	grp.Delete("/:id", h.Delete)

	return app
}

func TestPatientHandlerGet(t *testing.T) {
	clinicID := uuid.New()
	p := &domain.Patient{ClinicID: clinicID, FirstName: "John", LastName: "Smith"}
	p.ID = uuid.New()

	svc := &stubPatientService{patients: map[uuid.UUID]*domain.Patient{p.ID: p}}
	app := newPatientApp(clinicID, svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/patients/"+p.ID.String(), nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data domain.Patient `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "John", body.Data.FirstName)
}

func TestPatientHandlerGetNotFound(t *testing.T) {
	clinicID := uuid.New()
	svc := &stubPatientService{patients: map[uuid.UUID]*domain.Patient{}}
	app := newPatientApp(clinicID, svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/patients/"+uuid.NewString(), nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPatientHandlerGetOtherClinicIs404(t *testing.T) {
	ownerClinic := uuid.New()
	p := &domain.Patient{ClinicID: ownerClinic, FirstName: "Jane", LastName: "Doe"}
	p.ID = uuid.New()
	svc := &stubPatientService{patients: map[uuid.UUID]*domain.Patient{p.ID: p}}

	// Caller's session belongs to a different clinic: the record must be
	// indistinguishable from a missing one.
	app := newPatientApp(uuid.New(), svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/patients/"+p.ID.String(), nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPatientHandlerGetBadID(t *testing.T) {
	clinicID := uuid.New()
	svc := &stubPatientService{patients: map[uuid.UUID]*domain.Patient{}}
	app := newPatientApp(clinicID, svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/patients/not-a-uuid", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPatientHandlerCreate(t *testing.T) {
	clinicID := uuid.New()
	svc := &stubPatientService{patients: map[uuid.UUID]*domain.Patient{}}
	app := newPatientApp(clinicID, svc)

	req := httptest.NewRequest("POST", "/patients/", strings.NewReader(`{"first_name":"John","last_name":"Smith"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestPatientHandlerCreateMapsValidationError(t *testing.T) {
	clinicID := uuid.New()
	svc := &stubPatientService{createErr: patient.ErrInvalidEmail}
	app := newPatientApp(clinicID, svc)

	req := httptest.NewRequest("POST", "/patients/", strings.NewReader(`{"first_name":"John","last_name":"Smith","email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "error")
}

func TestPatientHandlerCreateMapsConflict(t *testing.T) {
	clinicID := uuid.New()
	svc := &stubPatientService{createErr: patient.ErrEmailTaken}
	app := newPatientApp(clinicID, svc)

	req := httptest.NewRequest("POST", "/patients/", strings.NewReader(`{"first_name":"John","last_name":"Smith","email":"dup@example.com"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPatientHandlerDelete(t *testing.T) {
	clinicID := uuid.New()
	p := &domain.Patient{ClinicID: clinicID, FirstName: "John", LastName: "Smith"}
	p.ID = uuid.New()
	svc := &stubPatientService{patients: map[uuid.UUID]*domain.Patient{p.ID: p}}
	app := newPatientApp(clinicID, svc)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/patients/"+p.ID.String(), nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, svc.patients)
}

func TestPatientHandlerMissingClinicContext(t *testing.T) {
	app := fiber.New()
	h := NewPatientHandler(&stubPatientService{})
	app.Get("/patients", h.List)

	resp, err := app.Test(httptest.NewRequest("GET", "/patients", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
