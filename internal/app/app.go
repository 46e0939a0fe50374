// Package app assembles repositories, services and controllers into an HTTP handler.
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/controller"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
	"github.com/ikkim/foodgram-backend/internal/router"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"gorm.io/gorm"
)

// Revocation both records and checks revoked tokens. It is nil when Redis is off.
type Revocation interface {
	service.TokenRevoker
	middleware.TokenBlacklist
}

// App is the wired application.
type App struct {
	Engine     *gin.Engine
	RecipeRepo repository.RecipeRepository
}

func New(cfg *config.Config, conn *gorm.DB, images storage.ImageStorage, revocation Revocation) *App {
	apperrors.RegisterValidators()

	// Initialize repositories
	userRepo := repository.NewUserRepository(conn)
	subscriptionRepo := repository.NewSubscriptionRepository(conn)
	tagRepo := repository.NewTagRepository(conn)
	ingredientRepo := repository.NewIngredientRepository(conn)
	recipeRepo := repository.NewRecipeRepository(conn)
	favoriteRepo := repository.NewFavoriteRepository(conn)
	cartRepo := repository.NewShoppingCartRepository(conn)

	var (
		revoker   service.TokenRevoker
		blacklist middleware.TokenBlacklist
	)
	if revocation != nil {
		revoker, blacklist = revocation, revocation
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, revoker, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	userService := service.NewUserService(userRepo, subscriptionRepo, recipeRepo)
	tagService := service.NewTagService(tagRepo)
	ingredientService := service.NewIngredientService(ingredientRepo)
	recipeService := service.NewRecipeService(recipeRepo, favoriteRepo, cartRepo, images)
	listService := service.NewRecipeListService(recipeRepo, favoriteRepo, cartRepo)

	// Initialize controllers
	presenter := controller.NewPresenter(images, userService, recipeService)
	paginator := controller.NewPaginator(cfg.Pagination.PageSize, cfg.Server.PublicBaseURL)

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewUserController(authService, userService, presenter, paginator),
		controller.NewTagController(tagService),
		controller.NewIngredientController(ingredientService),
		controller.NewRecipeController(recipeService, listService, presenter, paginator),
		middleware.NewAuthMiddleware(cfg.JWT.Secret, blacklist),
		cfg,
	)

	return &App{
		Engine:     r.Setup(),
		RecipeRepo: recipeRepo,
	}
}
