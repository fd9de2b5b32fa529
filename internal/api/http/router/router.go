package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/config"
	"github.com/maherraissi/MedFlow/internal/api/http/handler"
	"github.com/maherraissi/MedFlow/internal/api/http/middleware"
	"github.com/maherraissi/MedFlow/internal/service/appointment"
	"github.com/maherraissi/MedFlow/internal/service/audit"
	"github.com/maherraissi/MedFlow/internal/service/auth"
	"github.com/maherraissi/MedFlow/internal/service/catalog"
	"github.com/maherraissi/MedFlow/internal/service/clinic"
	"github.com/maherraissi/MedFlow/internal/service/consultation"
	"github.com/maherraissi/MedFlow/internal/service/invoice"
	"github.com/maherraissi/MedFlow/internal/service/patient"
	"github.com/maherraissi/MedFlow/internal/service/payment"
	"github.com/maherraissi/MedFlow/internal/service/prescription"
	"github.com/maherraissi/MedFlow/internal/service/user"
	"github.com/maherraissi/MedFlow/pkg/database"
	"github.com/maherraissi/MedFlow/pkg/session"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	DB              *gorm.DB
	Redis           *redis.Client
	Sessions        *session.Manager
	AuthSvc         auth.Service
	UserSvc         user.Service
	ClinicSvc       clinic.Service
	PatientSvc      patient.Service
	CatalogSvc      catalog.Service
	AppointmentSvc  appointment.Service
	ConsultationSvc consultation.Service
	RxSvc           prescription.Service
	InvoiceSvc      invoice.Service
	PaymentSvc      payment.Service
	AuditSvc        audit.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc, r.p.AuditSvc)
	userH := handler.NewUserHandler(r.p.UserSvc, r.p.AuditSvc)
	clinicH := handler.NewClinicHandler(r.p.ClinicSvc)
	patientH := handler.NewPatientHandler(r.p.PatientSvc)
	catalogH := handler.NewCatalogHandler(r.p.CatalogSvc)
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc)
	consultationH := handler.NewConsultationHandler(r.p.ConsultationSvc, r.p.RxSvc)
	rxH := handler.NewPrescriptionHandler(r.p.RxSvc)
	invoiceH := handler.NewInvoiceHandler(r.p.InvoiceSvc, r.p.AuditSvc)
	paymentH := handler.NewPaymentHandler(r.p.PaymentSvc)
	portalH := handler.NewPortalHandler(r.p.PatientSvc, r.p.AppointmentSvc, r.p.InvoiceSvc, r.p.RxSvc)
	auditH := handler.NewAuditHandler(r.p.AuditSvc)

	// 3. Every API route passes session resolution and the capability gate.
	// Public routes are listed in the table too, so the gate is uniform.
	api := app.Group("/api/v1", middleware.Session(r.p.Sessions), middleware.AccessGate())

	authLimiter := middleware.NewAuthLimiter(r.p.Redis)

	// 4. Delegate to sub-files
	r.registerAuthRoutes(api, authH, authLimiter)
	r.registerUserRoutes(api, userH)
	r.registerClinicRoutes(api, clinicH)
	r.registerPatientRoutes(api, patientH)
	r.registerCatalogRoutes(api, catalogH)
	r.registerAppointmentRoutes(api, appointmentH)
	r.registerConsultationRoutes(api, consultationH)
	r.registerPrescriptionRoutes(api, rxH)
	r.registerInvoiceRoutes(api, invoiceH)
	r.registerWebhookRoutes(api, paymentH)
	r.registerPortalRoutes(api, portalH)
	r.registerAuditRoutes(api, auditH)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			return database.Ping(r.p.DB) == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
