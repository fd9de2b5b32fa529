package app

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/config"
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
	"github.com/maherraissi/MedFlow/pkg/email"
	"github.com/maherraissi/MedFlow/pkg/session"
	stripepkg "github.com/maherraissi/MedFlow/pkg/stripe"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideAuthService,
		ProvideUserService,
		ProvideClinicService,
		ProvidePatientService,
		ProvideCatalogService,
		ProvideAppointmentService,
		ProvideConsultationService,
		ProvidePrescriptionService,
		ProvideInvoiceService,
		ProvidePaymentService,
		ProvideAuditService,
	),
)

func ProvideAuthService(db *gorm.DB, rdb *redis.Client, sessions *session.Manager, cfg *config.Config) auth.Service {
	return auth.New(db, rdb, sessions, cfg)
}

func ProvideUserService(db *gorm.DB, emailClient *email.Client, cfg *config.Config) user.Service {
	return user.New(db, emailClient, cfg)
}

func ProvideClinicService(db *gorm.DB) clinic.Service {
	return clinic.New(db)
}

func ProvidePatientService(db *gorm.DB) patient.Service {
	return patient.New(db)
}

func ProvideCatalogService(db *gorm.DB) catalog.Service {
	return catalog.New(db)
}

func ProvideAppointmentService(db *gorm.DB, patients patient.Service, emailClient *email.Client, cfg *config.Config) appointment.Service {
	return appointment.New(db, patients, emailClient, cfg)
}

func ProvideConsultationService(db *gorm.DB) consultation.Service {
	return consultation.New(db)
}

func ProvidePrescriptionService(db *gorm.DB) prescription.Service {
	return prescription.New(db)
}

func ProvideInvoiceService(db *gorm.DB, stripeClient *stripepkg.Client, emailClient *email.Client) invoice.Service {
	return invoice.New(db, stripeClient, emailClient)
}

func ProvidePaymentService(db *gorm.DB, stripeClient *stripepkg.Client) payment.Service {
	return payment.New(db, stripeClient)
}

func ProvideAuditService(db *gorm.DB) audit.Service {
	return audit.New(db)
}
