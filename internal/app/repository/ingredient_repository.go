package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const ingredientBatchSize = 500

type IngredientRepository interface {
	// FindAll lists ingredients ordered by name; a non-empty prefix keeps names
	// starting with it, case-insensitively.
	FindAll(namePrefix string) ([]model.Ingredient, error)
	FindByID(id uint) (*model.Ingredient, error)
	Create(ingredient *model.Ingredient) error
	// BulkCreate inserts ingredients, skipping (name, unit) pairs that already exist.
	// It returns the number of inserted rows.
	BulkCreate(ingredients []model.Ingredient) (int64, error)
	CountUsage(id uint) (int64, error)
	Delete(id uint) error
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) FindAll(namePrefix string) ([]model.Ingredient, error) {
	logger.Debug("Finding ingredients in database", map[string]interface{}{
		"name_prefix": namePrefix,
	})

	query := r.db.Model(&model.Ingredient{})
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(namePrefix)+"%")
	}

	var ingredients []model.Ingredient
	if err := query.Order("name ASC").Order("id ASC").Find(&ingredients).Error; err != nil {
		logger.Error("Failed to find ingredients in database", err, map[string]interface{}{
			"name_prefix": namePrefix,
		})
		return nil, err
	}

	logger.Debug("Ingredients found in database", map[string]interface{}{
		"count": len(ingredients),
	})
	return ingredients, nil
}

func (r *ingredientRepository) FindByID(id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.First(&ingredient, id).Error; err != nil {
		logger.Error("Failed to find ingredient by ID in database", err, map[string]interface{}{
			"ingredient_id": id,
		})
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) Create(ingredient *model.Ingredient) error {
	logger.Debug("Creating ingredient in database", map[string]interface{}{
		"name":             ingredient.Name,
		"measurement_unit": ingredient.MeasurementUnit,
	})

	if err := r.db.Create(ingredient).Error; err != nil {
		logger.Error("Failed to create ingredient in database", err, map[string]interface{}{
			"name": ingredient.Name,
		})
		return err
	}

	logger.Debug("Ingredient created in database", map[string]interface{}{
		"ingredient_id": ingredient.ID,
	})
	return nil
}

func (r *ingredientRepository) BulkCreate(ingredients []model.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}

	logger.Debug("Bulk inserting ingredients", map[string]interface{}{
		"count": len(ingredients),
	})

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
		DoNothing: true,
	}).CreateInBatches(&ingredients, ingredientBatchSize)
	if result.Error != nil {
		logger.Error("Failed to bulk insert ingredients", result.Error)
		return 0, result.Error
	}

	logger.Debug("Ingredients bulk inserted", map[string]interface{}{
		"inserted": result.RowsAffected,
	})
	return result.RowsAffected, nil
}

// CountUsage returns how many recipe occurrences reference the ingredient.
func (r *ingredientRepository) CountUsage(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.IngredientOccurrence{}).Where("ingredient_id = ?", id).Count(&count).Error
	if err != nil {
		logger.Error("Failed to count ingredient usage", err, map[string]interface{}{
			"ingredient_id": id,
		})
		return 0, err
	}
	return count, nil
}

func (r *ingredientRepository) Delete(id uint) error {
	logger.Debug("Deleting ingredient from database", map[string]interface{}{
		"ingredient_id": id,
	})

	result := r.db.Delete(&model.Ingredient{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete ingredient from database", result.Error, map[string]interface{}{
			"ingredient_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Ingredient deleted from database", map[string]interface{}{
		"ingredient_id": id,
	})
	return nil
}
