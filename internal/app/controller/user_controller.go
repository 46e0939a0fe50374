package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type UserController struct {
	authService service.AuthService
	userService service.UserService
	presenter   *Presenter
	paginator   *Paginator
}

func NewUserController(
	authService service.AuthService,
	userService service.UserService,
	presenter *Presenter,
	paginator *Paginator,
) *UserController {
	return &UserController{
		authService: authService,
		userService: userService,
		presenter:   presenter,
		paginator:   paginator,
	}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// Register creates an account
// POST /api/users/
func (ctrl *UserController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := ctrl.authService.Register(service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case respondValidationError(c, err):
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.RespondWithFieldErrors(c, map[string][]string{
				"email": {"A user with that email already exists."},
			})
		case errors.Is(err, service.ErrUsernameAlreadyExists):
			apperrors.RespondWithFieldErrors(c, map[string][]string{
				"username": {"A user with that username already exists."},
			})
		default:
			respondStorageError(c, err, "create user")
		}
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"email":      user.Email,
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

// ListUsers
// GET /api/users/
func (ctrl *UserController) ListUsers(c *gin.Context) {
	page, ok := ctrl.paginator.Parse(c)
	if !ok {
		return
	}

	users, total, err := ctrl.userService.ListUsers(page.Offset(), page.Size)
	if err != nil {
		respondStorageError(c, err, "list users")
		return
	}

	results, err := ctrl.presenter.Users(middleware.ViewerID(c), users)
	if err != nil {
		respondStorageError(c, err, "list users")
		return
	}
	ctrl.paginator.Respond(c, page, total, results)
}

// GetUser
// GET /api/users/:id/
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctrl.respondUser(c, id)
}

// Me
// GET /api/users/me/
func (ctrl *UserController) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	ctrl.respondUser(c, userID)
}

func (ctrl *UserController) respondUser(c *gin.Context, id uint) {
	user, err := ctrl.userService.GetUser(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found.")
			return
		}
		respondStorageError(c, err, "get user")
		return
	}

	resp, err := ctrl.presenter.User(middleware.ViewerID(c), *user)
	if err != nil {
		respondStorageError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetPassword
// POST /api/users/set_password/
func (ctrl *UserController) SetPassword(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := ctrl.authService.SetPassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		if respondValidationError(c, err) {
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found.")
			return
		}
		respondStorageError(c, err, "update user")
		return
	}

	c.Status(http.StatusNoContent)
}

// recipesLimit reads ?recipes_limit; anything but a non-negative integer means no limit.
func recipesLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return service.NoRecipesLimit
	}
	return limit
}

// Subscriptions lists authors the user follows
// GET /api/users/subscriptions/
func (ctrl *UserController) Subscriptions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	page, ok := ctrl.paginator.Parse(c)
	if !ok {
		return
	}

	summaries, total, err := ctrl.userService.ListSubscriptions(userID, page.Offset(), page.Size, recipesLimit(c))
	if err != nil {
		respondStorageError(c, err, "list subscriptions")
		return
	}

	results := make([]SubscriptionResponse, 0, len(summaries))
	for _, summary := range summaries {
		results = append(results, ctrl.presenter.Subscription(summary))
	}
	ctrl.paginator.Respond(c, page, total, results)
}

// Subscribe
// POST /api/users/:id/subscribe/
func (ctrl *UserController) Subscribe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := ctrl.userService.Subscribe(userID, authorID, recipesLimit(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found.")
		case errors.Is(err, service.ErrSelfSubscription):
			apperrors.DomainError(c, "You cannot subscribe to yourself.")
		case errors.Is(err, service.ErrAlreadySubscribed):
			apperrors.DomainError(c, "You are already subscribed to this author.")
		default:
			respondStorageError(c, err, "create subscription")
		}
		return
	}

	c.JSON(http.StatusCreated, ctrl.presenter.Subscription(*summary))
}

// Unsubscribe
// DELETE /api/users/:id/subscribe/
func (ctrl *UserController) Unsubscribe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.Unsubscribe(userID, authorID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found.")
		case errors.Is(err, service.ErrNotSubscribed):
			apperrors.DomainError(c, "You are not subscribed to this author.")
		default:
			respondStorageError(c, err, "delete subscription")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
