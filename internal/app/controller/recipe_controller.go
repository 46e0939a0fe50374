package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type RecipeController struct {
	recipeService service.RecipeService
	listService   service.RecipeListService
	presenter     *Presenter
	paginator     *Paginator
}

func NewRecipeController(
	recipeService service.RecipeService,
	listService service.RecipeListService,
	presenter *Presenter,
	paginator *Paginator,
) *RecipeController {
	return &RecipeController{
		recipeService: recipeService,
		listService:   listService,
		presenter:     presenter,
		paginator:     paginator,
	}
}

type RecipeIngredientRequest struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeRequest is the recipe write body. Field rules are checked by the service
// so create, put and patch share one set of messages.
type RecipeRequest struct {
	Name        *string                   `json:"name"`
	Text        *string                   `json:"text"`
	Image       *string                   `json:"image"`
	CookingTime *int                      `json:"cooking_time"`
	Tags        []uint                    `json:"tags"`
	Ingredients []RecipeIngredientRequest `json:"ingredients"`
}

func (r RecipeRequest) input() service.RecipeInput {
	input := service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		Tags:        r.Tags,
	}
	if r.Ingredients != nil {
		input.Ingredients = make([]model.OccurrenceInput, 0, len(r.Ingredients))
		for _, item := range r.Ingredients {
			input.Ingredients = append(input.Ingredients, model.OccurrenceInput{
				IngredientID: item.ID,
				Amount:       item.Amount,
			})
		}
	}
	return input
}

// ListRecipes
// GET /api/recipes/?page=&limit=&is_favorited=&is_in_shopping_cart=&author=&tags=
func (ctrl *RecipeController) ListRecipes(c *gin.Context) {
	page, ok := ctrl.paginator.Parse(c)
	if !ok {
		return
	}

	viewerID := middleware.ViewerID(c)
	query := service.RecipeQuery{
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
		Author:           c.Query("author"),
		Tags:             c.QueryArray("tags"),
	}

	recipes, total, err := ctrl.recipeService.ListRecipes(viewerID, query, page.Offset(), page.Size)
	if err != nil {
		respondStorageError(c, err, "list recipes")
		return
	}

	results, err := ctrl.presenter.Recipes(viewerID, recipes)
	if err != nil {
		respondStorageError(c, err, "list recipes")
		return
	}
	ctrl.paginator.Respond(c, page, total, results)
}

// GetRecipe
// GET /api/recipes/:id/
func (ctrl *RecipeController) GetRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := ctrl.recipeService.GetRecipe(id)
	if err != nil {
		ctrl.respondRecipeError(c, err, "get recipe")
		return
	}
	ctrl.respondRecipe(c, http.StatusOK, recipe)
}

// CreateRecipe
// POST /api/recipes/
func (ctrl *RecipeController) CreateRecipe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	recipe, err := ctrl.recipeService.CreateRecipe(c.Request.Context(), userID, req.input())
	if err != nil {
		ctrl.respondRecipeError(c, err, "create recipe")
		return
	}
	ctrl.respondRecipe(c, http.StatusCreated, recipe)
}

// UpdateRecipe replaces the recipe; PATCH may omit scalar fields
// PUT|PATCH /api/recipes/:id/
func (ctrl *RecipeController) UpdateRecipe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	mode := service.ModeReplace
	if c.Request.Method == http.MethodPatch {
		mode = service.ModePatch
	}

	recipe, err := ctrl.recipeService.UpdateRecipe(c.Request.Context(), userID, id, req.input(), mode)
	if err != nil {
		ctrl.respondRecipeError(c, err, "update recipe")
		return
	}
	ctrl.respondRecipe(c, http.StatusOK, recipe)
}

// DeleteRecipe
// DELETE /api/recipes/:id/
func (ctrl *RecipeController) DeleteRecipe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.recipeService.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		ctrl.respondRecipeError(c, err, "delete recipe")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddToFavorites
// POST /api/recipes/:id/favorite/
func (ctrl *RecipeController) AddToFavorites(c *gin.Context) {
	ctrl.addToList(c, model.ListFavorites)
}

// RemoveFromFavorites
// DELETE /api/recipes/:id/favorite/
func (ctrl *RecipeController) RemoveFromFavorites(c *gin.Context) {
	ctrl.removeFromList(c, model.ListFavorites)
}

// AddToShoppingCart
// POST /api/recipes/:id/shopping_cart/
func (ctrl *RecipeController) AddToShoppingCart(c *gin.Context) {
	ctrl.addToList(c, model.ListShoppingCart)
}

// RemoveFromShoppingCart
// DELETE /api/recipes/:id/shopping_cart/
func (ctrl *RecipeController) RemoveFromShoppingCart(c *gin.Context) {
	ctrl.removeFromList(c, model.ListShoppingCart)
}

func (ctrl *RecipeController) addToList(c *gin.Context, list model.RecipeList) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := ctrl.listService.Add(list, userID, id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeAlreadyInList) {
			apperrors.DomainError(c, fmt.Sprintf("Recipe is already in your %s.", list.Label()))
			return
		}
		ctrl.respondRecipeError(c, err, "add recipe to "+list.Label())
		return
	}

	c.JSON(http.StatusCreated, ctrl.presenter.Minified(*recipe))
}

func (ctrl *RecipeController) removeFromList(c *gin.Context, list model.RecipeList) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.listService.Remove(list, userID, id); err != nil {
		if errors.Is(err, service.ErrRecipeNotInList) {
			apperrors.DomainError(c, fmt.Sprintf("Recipe is not in your %s.", list.Label()))
			return
		}
		ctrl.respondRecipeError(c, err, "remove recipe from "+list.Label())
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart returns the aggregated shopping list as a text attachment
// GET /api/recipes/download_shopping_cart/
func (ctrl *RecipeController) DownloadShoppingCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	list, err := ctrl.listService.ShoppingList(userID)
	if err != nil {
		respondStorageError(c, err, "download shopping cart")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, list.Filename()))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(list.Render()))
}

func (ctrl *RecipeController) respondRecipe(c *gin.Context, status int, recipe *model.Recipe) {
	resp, err := ctrl.presenter.Recipe(middleware.ViewerID(c), *recipe)
	if err != nil {
		respondStorageError(c, err, "get recipe")
		return
	}
	c.JSON(status, resp)
}

func (ctrl *RecipeController) respondRecipeError(c *gin.Context, err error, context string) {
	switch {
	case respondValidationError(c, err):
	case errors.Is(err, service.ErrRecipeNotFound):
		apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found.")
	case errors.Is(err, service.ErrNotRecipeAuthor):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAuthorOnly, "Only the author can change this recipe.")
	default:
		respondStorageError(c, err, context)
	}
}
