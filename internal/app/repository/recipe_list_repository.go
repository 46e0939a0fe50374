package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// RecipeListRepository manages the (user, recipe) edges of one per-user list.
// The storage layer enforces one edge per pair.
type RecipeListRepository interface {
	List() model.RecipeList
	Add(userID, recipeID uint) error
	// Remove deletes the edge and reports whether it existed.
	Remove(userID, recipeID uint) (bool, error)
	Contains(userID, recipeID uint) (bool, error)
	// ContainsAmong returns which of recipeIDs are in the user's list.
	ContainsAmong(userID uint, recipeIDs []uint) (map[uint]bool, error)
}

type FavoriteRepository interface {
	RecipeListRepository
}

type ShoppingCartRepository interface {
	RecipeListRepository
	// CartIngredients walks the cart in insertion order and returns every ingredient
	// occurrence of every recipe in it, in recipe insertion order.
	CartIngredients(userID uint) ([]model.CartIngredientRow, error)
}

// recipeListRepository is shared by both lists; newRow builds the typed edge.
type recipeListRepository struct {
	db     *gorm.DB
	list   model.RecipeList
	newRow func(userID, recipeID uint) interface{}
}

func (r *recipeListRepository) List() model.RecipeList {
	return r.list
}

func (r *recipeListRepository) Add(userID, recipeID uint) error {
	logger.Debug("Adding recipe to list", map[string]interface{}{
		"list":      r.list,
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	if err := r.db.Create(r.newRow(userID, recipeID)).Error; err != nil {
		logger.Error("Failed to add recipe to list", err, map[string]interface{}{
			"list":      r.list,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return err
	}
	return nil
}

func (r *recipeListRepository) Remove(userID, recipeID uint) (bool, error) {
	logger.Debug("Removing recipe from list", map[string]interface{}{
		"list":      r.list,
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	result := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(r.newRow(0, 0))
	if result.Error != nil {
		logger.Error("Failed to remove recipe from list", result.Error, map[string]interface{}{
			"list":      r.list,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *recipeListRepository) Contains(userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.Model(r.newRow(0, 0)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check list membership", err, map[string]interface{}{
			"list":      r.list,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *recipeListRepository) ContainsAmong(userID uint, recipeIDs []uint) (map[uint]bool, error) {
	members := make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return members, nil
	}

	var ids []uint
	err := r.db.Model(r.newRow(0, 0)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		logger.Error("Failed to load list membership", err, map[string]interface{}{
			"list":    r.list,
			"user_id": userID,
		})
		return nil, err
	}

	for _, id := range ids {
		members[id] = true
	}
	return members, nil
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &recipeListRepository{
		db:   db,
		list: model.ListFavorites,
		newRow: func(userID, recipeID uint) interface{} {
			return &model.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
}

type shoppingCartRepository struct {
	recipeListRepository
}

func NewShoppingCartRepository(db *gorm.DB) ShoppingCartRepository {
	return &shoppingCartRepository{
		recipeListRepository: recipeListRepository{
			db:   db,
			list: model.ListShoppingCart,
			newRow: func(userID, recipeID uint) interface{} {
				return &model.ShoppingCartItem{UserID: userID, RecipeID: recipeID}
			},
		},
	}
}

func (r *shoppingCartRepository) CartIngredients(userID uint) ([]model.CartIngredientRow, error) {
	logger.Debug("Loading shopping cart ingredients", map[string]interface{}{
		"user_id": userID,
	})

	var rows []model.CartIngredientRow
	err := r.db.Table("shopping_cart_items AS sc").
		Select("i.id AS ingredient_id, i.name AS name, i.measurement_unit AS measurement_unit, ri.amount AS amount").
		Joins("JOIN recipe_ingredients AS ri ON ri.recipe_id = sc.recipe_id").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Where("sc.user_id = ?", userID).
		Order("sc.id ASC").
		Order("ri.id ASC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to load shopping cart ingredients", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Shopping cart ingredients loaded", map[string]interface{}{
		"user_id":     userID,
		"occurrences": len(rows),
	})
	return rows, nil
}
