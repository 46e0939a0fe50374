package service

import (
	"errors"
	"fmt"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/metrics"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRecipeAlreadyInList = errors.New("recipe already in list")
	ErrRecipeNotInList     = errors.New("recipe not in list")
	ErrUnknownRecipeList   = errors.New("unknown recipe list")
)

// ShoppingList is the aggregated cart of one user.
type ShoppingList struct {
	UserID uint
	Items  []ShoppingListItem
}

// Render returns the plain text download body.
func (l *ShoppingList) Render() string {
	return RenderShoppingList(l.Items)
}

// Filename is the attachment name of the download.
func (l *ShoppingList) Filename() string {
	return fmt.Sprintf("shopping_cart_%d.txt", l.UserID)
}

type RecipeListService interface {
	Add(list model.RecipeList, userID, recipeID uint) (*model.Recipe, error)
	Remove(list model.RecipeList, userID, recipeID uint) error
	ShoppingList(userID uint) (*ShoppingList, error)
}

type recipeListService struct {
	recipeRepo   repository.RecipeRepository
	favoriteRepo repository.FavoriteRepository
	cartRepo     repository.ShoppingCartRepository
}

func NewRecipeListService(
	recipeRepo repository.RecipeRepository,
	favoriteRepo repository.FavoriteRepository,
	cartRepo repository.ShoppingCartRepository,
) RecipeListService {
	return &recipeListService{
		recipeRepo:   recipeRepo,
		favoriteRepo: favoriteRepo,
		cartRepo:     cartRepo,
	}
}

func (s *recipeListService) repoFor(list model.RecipeList) (repository.RecipeListRepository, error) {
	switch list {
	case model.ListFavorites:
		return s.favoriteRepo, nil
	case model.ListShoppingCart:
		return s.cartRepo, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRecipeList, list)
}

// Add puts the recipe into the list and returns it for the reduced representation.
func (s *recipeListService) Add(list model.RecipeList, userID, recipeID uint) (*model.Recipe, error) {
	logger.Info("Adding recipe to list", map[string]interface{}{
		"list":      list,
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	repo, err := s.repoFor(list)
	if err != nil {
		return nil, err
	}

	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to list: recipe not found", map[string]interface{}{
				"list":      list,
				"recipe_id": recipeID,
			})
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	exists, err := repo.Contains(userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Recipe already in list", map[string]interface{}{
			"list":      list,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return nil, ErrRecipeAlreadyInList
	}

	if err := repo.Add(userID, recipeID); err != nil {
		return nil, err
	}

	logger.Info("Recipe added to list", map[string]interface{}{
		"list":      list,
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	return recipe, nil
}

func (s *recipeListService) Remove(list model.RecipeList, userID, recipeID uint) error {
	logger.Info("Removing recipe from list", map[string]interface{}{
		"list":      list,
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	repo, err := s.repoFor(list)
	if err != nil {
		return err
	}

	if _, err := s.recipeRepo.FindByID(recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	removed, err := repo.Remove(userID, recipeID)
	if err != nil {
		return err
	}
	if !removed {
		logger.Warn("Recipe not in list", map[string]interface{}{
			"list":      list,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return ErrRecipeNotInList
	}
	return nil
}

// ShoppingList re-reads the whole cart on every call.
func (s *recipeListService) ShoppingList(userID uint) (*ShoppingList, error) {
	rows, err := s.cartRepo.CartIngredients(userID)
	if err != nil {
		logger.Error("Failed to load shopping cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	list := &ShoppingList{UserID: userID, Items: AggregateCart(rows)}
	metrics.RecordShoppingList(len(list.Items))

	logger.Info("Shopping list built", map[string]interface{}{
		"user_id":     userID,
		"occurrences": len(rows),
		"items":       len(list.Items),
	})
	return list, nil
}
