package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type IngredientController struct {
	ingredientService service.IngredientService
}

func NewIngredientController(ingredientService service.IngredientService) *IngredientController {
	return &IngredientController{ingredientService: ingredientService}
}

type CreateIngredientRequest struct {
	Name            string `json:"name" binding:"required,max=150"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=20"`
}

// ListIngredients
// GET /api/ingredients/?name=<prefix>
func (ctrl *IngredientController) ListIngredients(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ingredients, err := ctrl.ingredientService.ListIngredients(c.Query("name"))
	if err != nil {
		log.Error("Failed to list ingredients", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, ingredients)
}

// GetIngredient
// GET /api/ingredients/:id/
func (ctrl *IngredientController) GetIngredient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ingredient, err := ctrl.ingredientService.GetIngredient(id)
	if err != nil {
		if errors.Is(err, service.ErrIngredientNotFound) {
			apperrors.NotFound(c, apperrors.IngredientNotFound, "Ingredient not found.")
			return
		}
		respondStorageError(c, err, "get ingredient")
		return
	}

	c.JSON(http.StatusOK, ingredient)
}

// CreateIngredient (admin)
// POST /api/ingredients/
func (ctrl *IngredientController) CreateIngredient(c *gin.Context) {
	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ingredient, err := ctrl.ingredientService.CreateIngredient(req.Name, req.MeasurementUnit)
	if err != nil {
		respondStorageError(c, err, "create ingredient")
		return
	}

	c.JSON(http.StatusCreated, ingredient)
}

// DeleteIngredient (admin)
// DELETE /api/ingredients/:id/
func (ctrl *IngredientController) DeleteIngredient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.ingredientService.DeleteIngredient(id); err != nil {
		switch {
		case errors.Is(err, service.ErrIngredientNotFound):
			apperrors.NotFound(c, apperrors.IngredientNotFound, "Ingredient not found.")
		case errors.Is(err, service.ErrIngredientInUse):
			apperrors.DomainError(c, "The ingredient is used by recipes and cannot be deleted.")
		default:
			// a recipe may have picked the ingredient up after the usage check
			respondStorageError(c, err, "delete ingredient")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
