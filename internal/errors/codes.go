package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// Clients map these codes to their own messages.

const (
	// ==================== AUTH_ ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"

	// ==================== AUTHZ_ ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAuthorOnly   = "AUTHZ_AUTHOR_ONLY"

	// ==================== VALIDATION_ ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"

	// ==================== RESOURCE_ ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"
	ResourceInvalidPage   = "RESOURCE_INVALID_PAGE"

	// ==================== RECIPE_ ====================
	RecipeNotFound        = "RECIPE_NOT_FOUND"
	RecipeAlreadyInList   = "RECIPE_ALREADY_IN_LIST"
	RecipeNotInList       = "RECIPE_NOT_IN_LIST"
	IngredientNotFound    = "INGREDIENT_NOT_FOUND"
	IngredientInUse       = "INGREDIENT_IN_USE"
	IngredientExists      = "INGREDIENT_EXISTS"
	TagNotFound           = "TAG_NOT_FOUND"
	TagExists             = "TAG_EXISTS"
	UserNotFound          = "USER_NOT_FOUND"
	SubscriptionSelf      = "SUBSCRIPTION_SELF"
	SubscriptionExists    = "SUBSCRIPTION_EXISTS"
	SubscriptionNotExists = "SUBSCRIPTION_NOT_EXISTS"

	// ==================== UPLOAD_ ====================
	UploadInvalidImage = "UPLOAD_INVALID_IMAGE"
	UploadFailed       = "UPLOAD_FAILED"

	// ==================== INTERNAL_ ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
