package bootstrap

import (
	"log"

	"github.com/mirasbazaar/economy/internal/entity"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.UserBalance{},
		&entity.LedgerEntry{},
		&entity.AchievementUnlock{},
		&entity.Notification{},
	)
}

// SeedDemoUser creates a throwaway account for local development so the
// grant/spend endpoints have something to act on.
func SeedDemoUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("username = ?", "demo").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Demo user already exists, skipping seed")
		return nil
	}

	demoUser := entity.User{
		Username: "demo",
		Email:    "demo@mirasbazaar.local",
	}
	if err := db.Create(&demoUser).Error; err != nil {
		return err
	}

	log.Println("Demo user seeded successfully")
	log.Printf("   ID: %s", demoUser.ID)

	return nil
}
