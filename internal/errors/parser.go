package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a client-safe message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps storage errors to a code and a message without leaking SQL.
// Both PostgreSQL and SQLite wordings are recognised. context is a short verb phrase
// such as "create tag" or "delete ingredient".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Internal server error.",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// PostgreSQL 23505 / SQLite UNIQUE
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(errStrLower, "duplicate key") ||
		strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// PostgreSQL 23503 / SQLite FOREIGN KEY
	if errors.Is(err, gorm.ErrForeignKeyViolated) ||
		strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower, context)
	}

	// PostgreSQL 23502 / SQLite NOT NULL
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing.",
		}
	}

	if strings.Contains(errStrLower, "check constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "Input value is out of range.",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case containsAny(errLower, "idx_tags_name", "tags.name"):
		return ErrorInfo{Code: TagExists, Message: "A tag with this name already exists."}
	case containsAny(errLower, "idx_tags_color", "tags.color"):
		return ErrorInfo{Code: TagExists, Message: "A tag with this color already exists."}
	case containsAny(errLower, "idx_tags_slug", "tags.slug"):
		return ErrorInfo{Code: TagExists, Message: "A tag with this slug already exists."}
	case containsAny(errLower, "idx_ingredients_name_unit", "ingredients.name"):
		return ErrorInfo{Code: IngredientExists, Message: "An ingredient with this name and measurement unit already exists."}
	case containsAny(errLower, "idx_users_email", "users.email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "A user with this email already exists."}
	case containsAny(errLower, "idx_users_username", "users.username"):
		return ErrorInfo{Code: AuthUsernameExists, Message: "A user with this username already exists."}
	case containsAny(errLower, "idx_recipe_ingredients_recipe_ingredient", "recipe_ingredients.recipe_id"):
		return ErrorInfo{Code: ValidationInvalidInput, Message: "An ingredient can appear in a recipe only once."}
	case containsAny(errLower, "idx_favorites_user_recipe", "favorites.user_id",
		"idx_shopping_cart_user_recipe", "shopping_cart_items.user_id"):
		return ErrorInfo{Code: RecipeAlreadyInList, Message: "This recipe is already in this list."}
	case containsAny(errLower, "idx_subscriptions_user_author", "subscriptions.user_id"):
		return ErrorInfo{Code: SubscriptionExists, Message: "You are already subscribed to this author."}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists.",
	}
}

func parseForeignKeyError(errLower string, context string) ErrorInfo {
	contextLower := strings.ToLower(context)

	// deleting a row that is still referenced; SQLite does not say which table
	if strings.Contains(errLower, "still referenced") || strings.Contains(contextLower, "delete") {
		if strings.Contains(contextLower, "ingredient") || strings.Contains(errLower, "recipe_ingredients") {
			return ErrorInfo{
				Code:    IngredientInUse,
				Message: "The ingredient is used by recipes and cannot be deleted.",
			}
		}
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The record is referenced by other data and cannot be deleted.",
		}
	}

	switch {
	case strings.Contains(errLower, "tag_id"):
		return ErrorInfo{Code: TagNotFound, Message: "Referenced tag does not exist."}
	case strings.Contains(errLower, "ingredient_id"):
		return ErrorInfo{Code: IngredientNotFound, Message: "Referenced ingredient does not exist."}
	case strings.Contains(errLower, "recipe_id"):
		return ErrorInfo{Code: RecipeNotFound, Message: "Referenced recipe does not exist."}
	case containsAny(errLower, "user_id", "author_id"):
		return ErrorInfo{Code: UserNotFound, Message: "Referenced user does not exist."}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "Referenced data does not exist.",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "recipe"):
		return "Recipe not found."
	case strings.Contains(contextLower, "ingredient"):
		return "Ingredient not found."
	case strings.Contains(contextLower, "tag"):
		return "Tag not found."
	case strings.Contains(contextLower, "user"), strings.Contains(contextLower, "author"):
		return "User not found."
	}
	return "Not found."
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create the record. Please try again later."
	case strings.Contains(contextLower, "update"):
		return "Failed to update the record. Please try again later."
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete the record. Please try again later."
	}
	return "Internal server error. Please try again later."
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ParseAndRespond parses err and writes it with statusCode
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
