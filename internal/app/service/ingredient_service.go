package service

import (
	"errors"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIngredientInUse    = errors.New("ingredient is used by recipes and cannot be deleted")
)

// ImportResult summarizes a catalog import.
type ImportResult struct {
	Read     int
	Skipped  int
	Inserted int64
}

type IngredientService interface {
	ListIngredients(namePrefix string) ([]model.Ingredient, error)
	GetIngredient(id uint) (*model.Ingredient, error)
	CreateIngredient(name, measurementUnit string) (*model.Ingredient, error)
	DeleteIngredient(id uint) error
	// ImportIngredients inserts new (name, unit) pairs. Blank rows and pairs repeated
	// within the input are skipped before reaching the database.
	ImportIngredients(items []model.Ingredient) (*ImportResult, error)
}

type ingredientService struct {
	ingredientRepo repository.IngredientRepository
}

func NewIngredientService(ingredientRepo repository.IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepo: ingredientRepo}
}

func (s *ingredientService) ListIngredients(namePrefix string) ([]model.Ingredient, error) {
	return s.ingredientRepo.FindAll(strings.TrimSpace(namePrefix))
}

func (s *ingredientService) GetIngredient(id uint) (*model.Ingredient, error) {
	ingredient, err := s.ingredientRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return ingredient, nil
}

func (s *ingredientService) CreateIngredient(name, measurementUnit string) (*model.Ingredient, error) {
	ingredient := &model.Ingredient{
		Name:            strings.TrimSpace(name),
		MeasurementUnit: strings.TrimSpace(measurementUnit),
	}
	if err := s.ingredientRepo.Create(ingredient); err != nil {
		return nil, err
	}

	logger.Info("Ingredient created", map[string]interface{}{
		"ingredient_id": ingredient.ID,
		"name":          ingredient.Name,
	})
	return ingredient, nil
}

func (s *ingredientService) DeleteIngredient(id uint) error {
	if _, err := s.GetIngredient(id); err != nil {
		return err
	}

	used, err := s.ingredientRepo.CountUsage(id)
	if err != nil {
		return err
	}
	if used > 0 {
		logger.Warn("Ingredient delete rejected: still referenced", map[string]interface{}{
			"ingredient_id": id,
			"occurrences":   used,
		})
		return ErrIngredientInUse
	}

	if err := s.ingredientRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIngredientNotFound
		}
		return err
	}

	logger.Info("Ingredient deleted", map[string]interface{}{
		"ingredient_id": id,
	})
	return nil
}

func (s *ingredientService) ImportIngredients(items []model.Ingredient) (*ImportResult, error) {
	type pair struct{ name, unit string }
	seen := make(map[pair]bool, len(items))
	batch := make([]model.Ingredient, 0, len(items))

	result := &ImportResult{Read: len(items)}
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		unit := strings.TrimSpace(item.MeasurementUnit)
		key := pair{name, unit}
		if name == "" || unit == "" || seen[key] {
			result.Skipped++
			continue
		}
		seen[key] = true
		batch = append(batch, model.Ingredient{Name: name, MeasurementUnit: unit})
	}

	if len(batch) > 0 {
		inserted, err := s.ingredientRepo.BulkCreate(batch)
		if err != nil {
			logger.Error("Ingredient import failed", err, map[string]interface{}{
				"rows": len(batch),
			})
			return nil, err
		}
		result.Inserted = inserted
	}

	logger.Info("Ingredients imported", map[string]interface{}{
		"read":     result.Read,
		"skipped":  result.Skipped,
		"inserted": result.Inserted,
	})
	return result, nil
}
