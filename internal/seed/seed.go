// Package seed loads demo fixtures for local development.
package seed

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dhanushramudri/events-backend/internal/repository/dao"
)

const (
	demoAdminEmail    = "admin@example.com"
	demoAdminPassword = "admin1234"
)

// Run inserts a demo admin and a handful of events. It is idempotent: if any
// event already exists, nothing is written.
func Run(db *gorm.DB) error {
	var count int64
	if result := db.Model(&dao.Event{}).Count(&count); result.Error != nil {
		return fmt.Errorf("failed to count events -> %w", result.Error)
	}
	if count > 0 {
		zap.L().Info("demo data already present, skipping seed")
		return nil
	}

	admin, err := seedAdmin(db)
	if err != nil {
		return err
	}

	if err = seedEvents(db, admin.ID); err != nil {
		return err
	}

	zap.L().Info("demo data seeded", zap.String("admin", demoAdminEmail))

	return nil
}

func seedAdmin(db *gorm.DB) (dao.User, error) {
	var admin dao.User
	result := db.First(&admin, "email = ?", demoAdminEmail)
	if result.Error == nil {
		return admin, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return dao.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	admin = dao.User{
		Email:    demoAdminEmail,
		Password: string(hash),
		Role:     "admin",
		Name:     "Demo Admin",
	}
	if result = db.Create(&admin); result.Error != nil {
		return dao.User{}, fmt.Errorf("failed to create demo admin -> %w", result.Error)
	}

	return admin, nil
}

func seedEvents(db *gorm.DB, createdBy uint) error {
	now := time.Now()
	events := []dao.Event{
		{
			Title:                "Go Meetup",
			Category:             "tech",
			Description:          "Monthly Go meetup with lightning talks.",
			Location:             "Community Hall",
			Date:                 now.AddDate(0, 0, 14),
			RegistrationClosesAt: now.AddDate(0, 0, 13),
			Status:               "upcoming",
			Capacity:             50,
			AutoApprove:          true,
			CreatedBy:            createdBy,
		},
		{
			Title:                "Photography Workshop",
			Category:             "arts",
			Description:          "Hands-on workshop, limited seats.",
			Location:             "Studio 3",
			Date:                 now.AddDate(0, 0, 21),
			RegistrationClosesAt: now.AddDate(0, 0, 18),
			Status:               "upcoming",
			Capacity:             12,
			AutoApprove:          false,
			CreatedBy:            createdBy,
		},
		{
			Title:                "City Marathon",
			Category:             "sports",
			Description:          "Annual city marathon, all levels welcome.",
			Location:             "Central Park",
			Date:                 now.AddDate(0, 1, 0),
			RegistrationClosesAt: now.AddDate(0, 0, 25),
			Status:               "upcoming",
			Capacity:             500,
			AutoApprove:          true,
			CreatedBy:            createdBy,
		},
	}

	for i := range events {
		if result := db.Create(&events[i]); result.Error != nil {
			return fmt.Errorf("failed to seed event %q -> %w", events[i].Title, result.Error)
		}
	}

	return nil
}
