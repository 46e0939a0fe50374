package repository

import (
	"fmt"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MissingReferenceError reports ids of a composite write that point at no row.
// It unwraps to gorm.ErrRecordNotFound.
type MissingReferenceError struct {
	Field string // "tags" or "ingredients"
	IDs   []uint
}

func (e *MissingReferenceError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("%s: unknown ids %s", e.Field, strings.Join(ids, ","))
}

func (e *MissingReferenceError) Unwrap() error {
	return gorm.ErrRecordNotFound
}

// RecipeFilter narrows the recipe collection. Set predicates are combined with AND.
type RecipeFilter struct {
	FavoritedBy uint // 0 disables
	InCartOf    uint // 0 disables
	AuthorID    uint // 0 disables
	TagSlugs    []string
}

// RecipeComposition is the child collections written together with a recipe row.
type RecipeComposition struct {
	TagIDs      []uint
	Ingredients []model.OccurrenceInput
}

type RecipeRepository interface {
	FindByID(id uint) (*model.Recipe, error)
	FindWithFilter(filter RecipeFilter, offset, limit int) ([]model.Recipe, int64, error)
	FindByAuthor(authorID uint, limit int) ([]model.Recipe, error)
	CountByAuthor(authorID uint) (int64, error)
	// Create inserts the recipe row, its tag set and its occurrences in one transaction.
	Create(recipe *model.Recipe, composition RecipeComposition) error
	// Replace overwrites the scalar fields and set-replaces tags and occurrences in one transaction.
	Replace(recipe *model.Recipe, composition RecipeComposition) error
	Delete(id uint) error
	ListImageKeys() ([]string, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// withAggregate preloads everything the full recipe representation needs.
func withAggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id ASC")
		}).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) FindByID(id uint) (*model.Recipe, error) {
	logger.Debug("Finding recipe by ID in database", map[string]interface{}{
		"recipe_id": id,
	})

	var recipe model.Recipe
	if err := withAggregate(r.db).First(&recipe, id).Error; err != nil {
		logger.Error("Failed to find recipe by ID in database", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}

	logger.Debug("Recipe found by ID in database", map[string]interface{}{
		"recipe_id":   recipe.ID,
		"tags":        len(recipe.Tags),
		"ingredients": len(recipe.Ingredients),
	})
	return &recipe, nil
}

// filtered builds the narrowed recipe query. Membership predicates are IN subqueries,
// so a recipe matching several tags is still counted once.
func (r *recipeRepository) filtered(filter RecipeFilter) *gorm.DB {
	query := r.db.Model(&model.Recipe{})

	if filter.FavoritedBy != 0 {
		query = query.Where("recipes.id IN (?)",
			r.db.Model(&model.Favorite{}).Select("recipe_id").Where("user_id = ?", filter.FavoritedBy))
	}
	if filter.InCartOf != 0 {
		query = query.Where("recipes.id IN (?)",
			r.db.Model(&model.ShoppingCartItem{}).Select("recipe_id").Where("user_id = ?", filter.InCartOf))
	}
	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)",
			r.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
	}

	return query
}

func (r *recipeRepository) FindWithFilter(filter RecipeFilter, offset, limit int) ([]model.Recipe, int64, error) {
	logger.Debug("Finding recipes with filter", map[string]interface{}{
		"favorited_by": filter.FavoritedBy,
		"in_cart_of":   filter.InCartOf,
		"author_id":    filter.AuthorID,
		"tags":         filter.TagSlugs,
		"offset":       offset,
		"limit":        limit,
	})

	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count filtered recipes", err)
		return nil, 0, err
	}

	var recipes []model.Recipe
	err := withAggregate(r.filtered(filter)).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC").
		Offset(offset).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		logger.Error("Failed to find filtered recipes", err)
		return nil, 0, err
	}

	logger.Debug("Filtered recipes found", map[string]interface{}{
		"count": len(recipes),
		"total": total,
	})
	return recipes, total, nil
}

// FindByAuthor returns the author's newest recipes without associations. limit < 0 means all.
func (r *recipeRepository) FindByAuthor(authorID uint, limit int) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := r.db.Where("author_id = ?", authorID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		logger.Error("Failed to find recipes by author", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		logger.Error("Failed to count recipes by author", err, map[string]interface{}{
			"author_id": authorID,
		})
		return 0, err
	}
	return count, nil
}

func (r *recipeRepository) Create(recipe *model.Recipe, composition RecipeComposition) error {
	logger.Debug("Creating recipe in database", map[string]interface{}{
		"author_id":   recipe.AuthorID,
		"tags":        composition.TagIDs,
		"ingredients": len(composition.Ingredients),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, composition); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return insertComposition(tx, recipe.ID, composition)
	})
	if err != nil {
		logger.Error("Failed to create recipe in database", err, map[string]interface{}{
			"author_id": recipe.AuthorID,
		})
		return err
	}

	logger.Debug("Recipe created in database", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	return nil
}

func (r *recipeRepository) Replace(recipe *model.Recipe, composition RecipeComposition) error {
	logger.Debug("Replacing recipe in database", map[string]interface{}{
		"recipe_id":   recipe.ID,
		"tags":        composition.TagIDs,
		"ingredients": len(composition.Ingredients),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, composition); err != nil {
			return err
		}

		result := tx.Model(&model.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"image":        recipe.Image,
			"cooking_time": recipe.CookingTime,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.IngredientOccurrence{}).Error; err != nil {
			return err
		}
		return insertComposition(tx, recipe.ID, composition)
	})
	if err != nil {
		logger.Error("Failed to replace recipe in database", err, map[string]interface{}{
			"recipe_id": recipe.ID,
		})
		return err
	}

	logger.Debug("Recipe replaced in database", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	return nil
}

// checkReferences fails with *MissingReferenceError when a tag or ingredient id does not exist.
func checkReferences(tx *gorm.DB, composition RecipeComposition) error {
	var tagIDs []uint
	if err := tx.Model(&model.Tag{}).Where("id IN ?", composition.TagIDs).Pluck("id", &tagIDs).Error; err != nil {
		return err
	}
	if missing := missingIDs(composition.TagIDs, tagIDs); len(missing) > 0 {
		return &MissingReferenceError{Field: "tags", IDs: missing}
	}

	wanted := make([]uint, len(composition.Ingredients))
	for i, item := range composition.Ingredients {
		wanted[i] = item.IngredientID
	}
	var ingredientIDs []uint
	if err := tx.Model(&model.Ingredient{}).Where("id IN ?", wanted).Pluck("id", &ingredientIDs).Error; err != nil {
		return err
	}
	if missing := missingIDs(wanted, ingredientIDs); len(missing) > 0 {
		return &MissingReferenceError{Field: "ingredients", IDs: missing}
	}
	return nil
}

func missingIDs(wanted, found []uint) []uint {
	present := make(map[uint]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []uint
	for _, id := range wanted {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func insertComposition(tx *gorm.DB, recipeID uint, composition RecipeComposition) error {
	tags := make([]model.RecipeTag, 0, len(composition.TagIDs))
	for _, tagID := range composition.TagIDs {
		tags = append(tags, model.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	if err := tx.Create(&tags).Error; err != nil {
		return err
	}

	occurrences := make([]model.IngredientOccurrence, 0, len(composition.Ingredients))
	for _, item := range composition.Ingredients {
		occurrences = append(occurrences, model.IngredientOccurrence{
			RecipeID:     recipeID,
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
		})
	}
	return tx.Omit(clause.Associations).Create(&occurrences).Error
}

// Delete removes the recipe and every row that belongs to it.
func (r *recipeRepository) Delete(id uint) error {
	logger.Debug("Deleting recipe from database", map[string]interface{}{
		"recipe_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&model.RecipeTag{}, &model.IngredientOccurrence{}, &model.Favorite{}, &model.ShoppingCartItem{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&model.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete recipe from database", err, map[string]interface{}{
			"recipe_id": id,
		})
		return err
	}

	logger.Debug("Recipe deleted from database", map[string]interface{}{
		"recipe_id": id,
	})
	return nil
}

// ListImageKeys returns the storage keys referenced by any recipe.
func (r *recipeRepository) ListImageKeys() ([]string, error) {
	var keys []string
	if err := r.db.Model(&model.Recipe{}).Where("image <> ''").Pluck("image", &keys).Error; err != nil {
		logger.Error("Failed to list recipe image keys", err)
		return nil, err
	}
	return keys, nil
}
