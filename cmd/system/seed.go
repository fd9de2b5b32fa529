package system

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/config"
	"github.com/maherraissi/MedFlow/internal/domain"
	"github.com/maherraissi/MedFlow/pkg/database"
	"github.com/maherraissi/MedFlow/pkg/util/password"
)

func NewSeedCommand() *cobra.Command {
	var (
		adminEmail    string
		adminPassword string
		clinicName    string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo clinic with an admin account and a service catalog",
		Long: `Seed inserts a clinic, an active admin user and a small set of
bookable services. Intended for local development and demos; it refuses
to run if a user with the given email already exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to read config flag: %w", err)
			}

			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			password.Configure(password.FromCentralConfig(cfg.Password))

			db, err := database.NewGormFromCentral(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			err = db.WithContext(cmd.Context()).Transaction(func(tx *gorm.DB) error {
				var count int64
				if err := tx.Model(&domain.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return fmt.Errorf("user %s already exists, nothing to do", adminEmail)
				}

				clinic := domain.Clinic{Name: clinicName}
				if err := tx.Create(&clinic).Error; err != nil {
					return err
				}

				hash, err := password.Hash(adminPassword)
				if err != nil {
					return err
				}
				admin := domain.User{
					ClinicID:     clinic.ID,
					Email:        adminEmail,
					Name:         "Clinic Admin",
					PasswordHash: &hash,
					Role:         domain.RoleAdmin,
					Status:       domain.UserStatusActive,
					IsActive:     true,
				}
				if err := tx.Create(&admin).Error; err != nil {
					return err
				}

				services := []domain.Service{
					{ClinicID: clinic.ID, Name: "General consultation", DurationMinutes: 30, Price: 60, IsActive: true},
					{ClinicID: clinic.ID, Name: "Follow-up visit", DurationMinutes: 15, Price: 35, IsActive: true},
					{ClinicID: clinic.ID, Name: "Annual check-up", DurationMinutes: 45, Price: 95, IsActive: true},
				}
				return tx.Create(&services).Error
			})
			if err != nil {
				return err
			}

			fmt.Printf("Seeded clinic %q with admin %s\n", clinicName, adminEmail)
			return nil
		},
	}

	cmd.Flags().StringVar(&adminEmail, "admin-email", "admin@medflow.local", "Email for the seeded admin account")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "changeme-now", "Password for the seeded admin account")
	cmd.Flags().StringVar(&clinicName, "clinic-name", "Demo Clinic", "Name of the seeded clinic")

	return cmd
}
