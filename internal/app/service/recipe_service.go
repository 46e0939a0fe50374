package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/metrics"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrNotRecipeAuthor = errors.New("only the author can modify this recipe")
)

const (
	msgRequired     = "This field is required."
	msgBlank        = "This field may not be blank."
	msgEmptyList    = "This list may not be empty."
	msgInvalidImage = "Upload a valid image as a base64 data URI."
)

// RecipeInput is a recipe write payload. Nil scalars are absent from the request.
type RecipeInput struct {
	Name        *string
	Text        *string
	Image       *string // base64 data URI
	CookingTime *int
	Tags        []uint
	Ingredients []model.OccurrenceInput
}

// WriteMode selects which scalar fields a write must carry.
type WriteMode int

const (
	ModeCreate  WriteMode = iota // every field
	ModeReplace                  // every field but the image
	ModePatch                    // only tags and ingredients
)

// ValidateRecipeInput checks a payload before anything is written. Tags and
// ingredients are required in every mode because they are always set-replaced.
func ValidateRecipeInput(input RecipeInput, mode WriteMode) error {
	verr := newValidationError()
	scalarsRequired := mode != ModePatch

	switch {
	case input.Name == nil:
		if scalarsRequired {
			verr.Add("name", msgRequired)
		}
	case strings.TrimSpace(*input.Name) == "":
		verr.Add("name", msgBlank)
	case utf8.RuneCountInString(*input.Name) > model.RecipeNameMaxLength:
		verr.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", model.RecipeNameMaxLength))
	}

	switch {
	case input.Text == nil:
		if scalarsRequired {
			verr.Add("text", msgRequired)
		}
	case strings.TrimSpace(*input.Text) == "":
		verr.Add("text", msgBlank)
	}

	if input.CookingTime == nil {
		if scalarsRequired {
			verr.Add("cooking_time", msgRequired)
		}
	} else if msg := checkSmallPositive(*input.CookingTime, model.MinCookingTime); msg != "" {
		verr.Add("cooking_time", msg)
	}

	if input.Image == nil {
		if mode == ModeCreate {
			verr.Add("image", msgRequired)
		}
	} else if strings.TrimSpace(*input.Image) == "" {
		verr.Add("image", msgInvalidImage)
	}

	switch {
	case input.Tags == nil:
		verr.Add("tags", msgRequired)
	case len(input.Tags) == 0:
		verr.Add("tags", msgEmptyList)
	}

	switch {
	case input.Ingredients == nil:
		verr.Add("ingredients", msgRequired)
	case len(input.Ingredients) == 0:
		verr.Add("ingredients", msgEmptyList)
	default:
		seen := make(map[uint]bool, len(input.Ingredients))
		for _, item := range input.Ingredients {
			if item.IngredientID == 0 {
				verr.Add("ingredients", "Every ingredient needs an id.")
				continue
			}
			if seen[item.IngredientID] {
				verr.Add("ingredients", fmt.Sprintf("Ingredient %d is listed more than once.", item.IngredientID))
				continue
			}
			seen[item.IngredientID] = true
			if msg := checkSmallPositive(item.Amount, model.MinAmount); msg != "" {
				verr.Add("ingredients", fmt.Sprintf("Amount of ingredient %d: %s", item.IngredientID, msg))
			}
		}
	}

	return verr.orNil()
}

func checkSmallPositive(v, lower int) string {
	if v < lower {
		return fmt.Sprintf("Ensure this value is greater than or equal to %d.", lower)
	}
	if v > model.MaxSmallInt {
		return fmt.Sprintf("Ensure this value is less than or equal to %d.", model.MaxSmallInt)
	}
	return ""
}

// uniqueIDs drops repeated ids keeping first-seen order.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// RecipeQuery is the raw list filter as received from the client.
type RecipeQuery struct {
	IsFavorited      bool
	IsInShoppingCart bool
	Author           string
	Tags             []string
}

// BuildRecipeFilter resolves a query for viewerID (0 for anonymous). ok is false
// when the query cannot match any recipe.
func BuildRecipeFilter(viewerID uint, query RecipeQuery) (filter repository.RecipeFilter, ok bool) {
	if query.IsFavorited {
		if viewerID == 0 {
			return filter, false
		}
		filter.FavoritedBy = viewerID
	}
	if query.IsInShoppingCart {
		if viewerID == 0 {
			return filter, false
		}
		filter.InCartOf = viewerID
	}
	if query.Author != "" {
		authorID, err := strconv.ParseUint(query.Author, 10, 64)
		if err != nil || authorID == 0 {
			return filter, false
		}
		filter.AuthorID = uint(authorID)
	}
	for _, slug := range query.Tags {
		if slug != "" {
			filter.TagSlugs = append(filter.TagSlugs, slug)
		}
	}
	return filter, true
}

// RecipeFlags are the viewer-relative booleans of a recipe representation.
type RecipeFlags struct {
	Favorited map[uint]bool
	InCart    map[uint]bool
}

type RecipeService interface {
	GetRecipe(id uint) (*model.Recipe, error)
	ListRecipes(viewerID uint, query RecipeQuery, offset, limit int) ([]model.Recipe, int64, error)
	CreateRecipe(ctx context.Context, authorID uint, input RecipeInput) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, userID, recipeID uint, input RecipeInput, mode WriteMode) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, recipeID uint) error
	Flags(viewerID uint, recipeIDs []uint) (*RecipeFlags, error)
}

type recipeService struct {
	recipeRepo   repository.RecipeRepository
	favoriteRepo repository.FavoriteRepository
	cartRepo     repository.ShoppingCartRepository
	images       storage.ImageStorage
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	favoriteRepo repository.FavoriteRepository,
	cartRepo repository.ShoppingCartRepository,
	images storage.ImageStorage,
) RecipeService {
	return &recipeService{
		recipeRepo:   recipeRepo,
		favoriteRepo: favoriteRepo,
		cartRepo:     cartRepo,
		images:       images,
	}
}

func (s *recipeService) GetRecipe(id uint) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Recipe not found", map[string]interface{}{
				"recipe_id": id,
			})
			return nil, ErrRecipeNotFound
		}
		logger.Error("Failed to fetch recipe", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) ListRecipes(viewerID uint, query RecipeQuery, offset, limit int) ([]model.Recipe, int64, error) {
	filter, ok := BuildRecipeFilter(viewerID, query)
	if !ok {
		logger.Debug("Recipe query matches nothing", map[string]interface{}{
			"viewer_id": viewerID,
			"author":    query.Author,
		})
		return []model.Recipe{}, 0, nil
	}

	recipes, total, err := s.recipeRepo.FindWithFilter(filter, offset, limit)
	if err != nil {
		logger.Error("Failed to list recipes", err)
		return nil, 0, err
	}

	logger.Info("Recipes listed", map[string]interface{}{
		"viewer_id": viewerID,
		"count":     len(recipes),
		"total":     total,
	})
	return recipes, total, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, authorID uint, input RecipeInput) (*model.Recipe, error) {
	logger.Info("Creating recipe", map[string]interface{}{
		"author_id": authorID,
	})

	if err := ValidateRecipeInput(input, ModeCreate); err != nil {
		logger.Warn("Recipe input rejected", map[string]interface{}{
			"author_id": authorID,
			"error":     err.Error(),
		})
		metrics.RecordRecipeWrite("create", metrics.OutcomeRejected)
		return nil, err
	}

	imageKey, err := s.saveImage(ctx, *input.Image)
	if err != nil {
		metrics.RecordRecipeWrite("create", outcomeOf(err))
		return nil, err
	}

	recipe := &model.Recipe{
		Name:        strings.TrimSpace(*input.Name),
		Text:        *input.Text,
		Image:       imageKey,
		CookingTime: *input.CookingTime,
		AuthorID:    authorID,
	}

	if err := s.recipeRepo.Create(recipe, compositionOf(input)); err != nil {
		s.discardImage(ctx, imageKey)
		err = translateWriteError(err)
		metrics.RecordRecipeWrite("create", outcomeOf(err))
		logger.Warn("Recipe create failed", map[string]interface{}{
			"author_id": authorID,
			"error":     err.Error(),
		})
		return nil, err
	}

	metrics.RecordRecipeWrite("create", metrics.OutcomeSuccess)
	logger.Info("Recipe created", map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": authorID,
	})
	return s.GetRecipe(recipe.ID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, userID, recipeID uint, input RecipeInput, mode WriteMode) (*model.Recipe, error) {
	logger.Info("Updating recipe", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   userID,
	})

	recipe, err := s.GetRecipe(recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		logger.Warn("Recipe update denied: not the author", map[string]interface{}{
			"recipe_id": recipeID,
			"user_id":   userID,
			"author_id": recipe.AuthorID,
		})
		return nil, ErrNotRecipeAuthor
	}

	if err := ValidateRecipeInput(input, mode); err != nil {
		metrics.RecordRecipeWrite("replace", metrics.OutcomeRejected)
		return nil, err
	}

	if input.Name != nil {
		recipe.Name = strings.TrimSpace(*input.Name)
	}
	if input.Text != nil {
		recipe.Text = *input.Text
	}
	if input.CookingTime != nil {
		recipe.CookingTime = *input.CookingTime
	}

	var newImage string
	if input.Image != nil {
		newImage, err = s.saveImage(ctx, *input.Image)
		if err != nil {
			metrics.RecordRecipeWrite("replace", outcomeOf(err))
			return nil, err
		}
		recipe.Image = newImage
	}

	if err := s.recipeRepo.Replace(recipe, compositionOf(input)); err != nil {
		if newImage != "" {
			s.discardImage(ctx, newImage)
		}
		err = translateWriteError(err)
		metrics.RecordRecipeWrite("replace", outcomeOf(err))
		logger.Warn("Recipe update failed", map[string]interface{}{
			"recipe_id": recipeID,
			"error":     err.Error(),
		})
		return nil, err
	}

	metrics.RecordRecipeWrite("replace", metrics.OutcomeSuccess)
	logger.Info("Recipe updated", map[string]interface{}{
		"recipe_id": recipeID,
	})
	return s.GetRecipe(recipeID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, userID, recipeID uint) error {
	recipe, err := s.GetRecipe(recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		logger.Warn("Recipe delete denied: not the author", map[string]interface{}{
			"recipe_id": recipeID,
			"user_id":   userID,
		})
		return ErrNotRecipeAuthor
	}

	if err := s.recipeRepo.Delete(recipeID); err != nil {
		metrics.RecordRecipeWrite("delete", metrics.OutcomeError)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	s.discardImage(ctx, recipe.Image)

	metrics.RecordRecipeWrite("delete", metrics.OutcomeSuccess)
	logger.Info("Recipe deleted", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   userID,
	})
	return nil
}

func (s *recipeService) Flags(viewerID uint, recipeIDs []uint) (*RecipeFlags, error) {
	favorited, err := s.favoriteRepo.ContainsAmong(viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.cartRepo.ContainsAmong(viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	return &RecipeFlags{Favorited: favorited, InCart: inCart}, nil
}

func (s *recipeService) saveImage(ctx context.Context, dataURI string) (string, error) {
	img, err := storage.DecodeDataURI(dataURI)
	if err != nil {
		if errors.Is(err, storage.ErrImageTooLarge) {
			return "", FieldError("image", fmt.Sprintf("The image may not exceed %d MB.", storage.MaxImageBytes>>20))
		}
		return "", FieldError("image", msgInvalidImage)
	}

	key, err := s.images.Save(ctx, storage.RecipeImageFolder, img.Ext, img.Data)
	if err != nil {
		logger.Error("Failed to store recipe image", err)
		return "", err
	}
	return key, nil
}

// discardImage removes an image no recipe points at; failures are left to the sweep.
func (s *recipeService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		logger.Warn("Failed to delete recipe image", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func compositionOf(input RecipeInput) repository.RecipeComposition {
	return repository.RecipeComposition{
		TagIDs:      uniqueIDs(input.Tags),
		Ingredients: input.Ingredients,
	}
}

// translateWriteError turns unknown tag or ingredient ids into field errors.
func translateWriteError(err error) error {
	var missing *repository.MissingReferenceError
	if errors.As(err, &missing) {
		verr := newValidationError()
		for _, id := range missing.IDs {
			verr.Add(missing.Field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		}
		return verr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecipeNotFound
	}
	return err
}

func outcomeOf(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeError
}
