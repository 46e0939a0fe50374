package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/controller"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/metrics"
	"github.com/ikkim/foodgram-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	authController       *controller.AuthController
	userController       *controller.UserController
	tagController        *controller.TagController
	ingredientController *controller.IngredientController
	recipeController     *controller.RecipeController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	tagController *controller.TagController,
	ingredientController *controller.IngredientController,
	recipeController *controller.RecipeController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		userController:       userController,
		tagController:        tagController,
		ingredientController: ingredientController,
		recipeController:     recipeController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.Middleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Foodgram API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded recipe images, when they live on local disk
	if r.config.Storage.Driver == "" || r.config.Storage.Driver == "local" {
		router.Static(r.config.Storage.MediaURL, r.config.Storage.MediaRoot)
	}

	auth := r.authMiddleware.Authenticate()
	optionalAuth := r.authMiddleware.OptionalAuthenticate()
	adminOnly := r.authMiddleware.RequireRole(model.RoleAdmin)

	api := router.Group("/api")
	{
		token := api.Group("/auth/token")
		{
			token.POST("/login/", r.authController.Login)
			token.POST("/logout/", auth, r.authController.Logout)
		}

		users := api.Group("/users")
		{
			users.POST("/", r.userController.Register)
			users.GET("/", optionalAuth, r.userController.ListUsers)
			users.GET("/me/", auth, r.userController.Me)
			users.POST("/set_password/", auth, r.userController.SetPassword)
			users.GET("/subscriptions/", auth, r.userController.Subscriptions)
			users.GET("/:id/", optionalAuth, r.userController.GetUser)
			users.POST("/:id/subscribe/", auth, r.userController.Subscribe)
			users.DELETE("/:id/subscribe/", auth, r.userController.Unsubscribe)
		}

		tags := api.Group("/tags")
		{
			tags.GET("/", r.tagController.ListTags)
			tags.GET("/:id/", r.tagController.GetTag)
			tags.POST("/", auth, adminOnly, r.tagController.CreateTag)
		}

		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("/", r.ingredientController.ListIngredients)
			ingredients.GET("/:id/", r.ingredientController.GetIngredient)
			ingredients.POST("/", auth, adminOnly, r.ingredientController.CreateIngredient)
			ingredients.DELETE("/:id/", auth, adminOnly, r.ingredientController.DeleteIngredient)
		}

		recipes := api.Group("/recipes")
		{
			recipes.GET("/", optionalAuth, r.recipeController.ListRecipes)
			recipes.POST("/", auth, r.recipeController.CreateRecipe)
			recipes.GET("/download_shopping_cart/", auth, r.recipeController.DownloadShoppingCart)
			recipes.GET("/:id/", optionalAuth, r.recipeController.GetRecipe)
			recipes.PUT("/:id/", auth, r.recipeController.UpdateRecipe)
			recipes.PATCH("/:id/", auth, r.recipeController.UpdateRecipe)
			recipes.DELETE("/:id/", auth, r.recipeController.DeleteRecipe)

			recipes.POST("/:id/favorite/", auth, r.recipeController.AddToFavorites)
			recipes.DELETE("/:id/favorite/", auth, r.recipeController.RemoveFromFavorites)
			recipes.POST("/:id/shopping_cart/", auth, r.recipeController.AddToShoppingCart)
			recipes.DELETE("/:id/shopping_cart/", auth, r.recipeController.RemoveFromShoppingCart)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
