package db

import (
	"fmt"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema on the global connection
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB creates or updates the schema on conn.
func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	// recipe_tags carries its own model so the composite writer can insert rows directly.
	if err := conn.SetupJoinTable(&model.Recipe{}, "Tags", &model.RecipeTag{}); err != nil {
		logger.Error("Failed to set up recipe_tags join table", err)
		return fmt.Errorf("setup join table: %w", err)
	}

	models := model.All()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return SeedTags(DB)
}

// defaultTags are inserted on an empty tags table so recipes can be created right away.
var defaultTags = []model.Tag{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
	{Name: "Dessert", Color: "#F2C94C", Slug: "dessert"},
	{Name: "Vegan", Color: "#2D9CDB", Slug: "vegan"},
}

// SeedTags inserts the default tag set when the table is empty
func SeedTags(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&model.Tag{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Tags already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding tag data...")

	tags := make([]model.Tag, len(defaultTags))
	copy(tags, defaultTags)
	if err := conn.Create(&tags).Error; err != nil {
		logger.Error("Failed to seed tags", err)
		return err
	}

	logger.Info("Tags seeded successfully", map[string]interface{}{
		"total_tags": len(tags),
	})
	return nil
}
