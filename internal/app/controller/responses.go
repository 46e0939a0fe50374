package controller

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/storage"
)

type UserResponse struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []model.Tag                `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeMinifiedResponse is the reduced recipe used by list membership and subscriptions.
type RecipeMinifiedResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionResponse is an author followed by the viewer.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeMinifiedResponse `json:"recipes"`
	RecipesCount int64                    `json:"recipes_count"`
}

// Presenter renders models for a given viewer (0 is anonymous).
type Presenter struct {
	images  storage.ImageStorage
	users   service.UserService
	recipes service.RecipeService
}

func NewPresenter(images storage.ImageStorage, users service.UserService, recipes service.RecipeService) *Presenter {
	return &Presenter{images: images, users: users, recipes: recipes}
}

func userResponse(u model.User, subscribed bool) UserResponse {
	return UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func (p *Presenter) Users(viewerID uint, users []model.User) ([]UserResponse, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := p.users.SubscribedAmong(viewerID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u, subscribed[u.ID]))
	}
	return out, nil
}

func (p *Presenter) User(viewerID uint, user model.User) (UserResponse, error) {
	out, err := p.Users(viewerID, []model.User{user})
	if err != nil {
		return UserResponse{}, err
	}
	return out[0], nil
}

func (p *Presenter) Recipes(viewerID uint, recipes []model.Recipe) ([]RecipeResponse, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	flags, err := p.recipes.Flags(viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := p.users.SubscribedAmong(viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		tags := r.Tags
		if tags == nil {
			tags = []model.Tag{}
		}
		ingredients := make([]RecipeIngredientResponse, 0, len(r.Ingredients))
		for _, occ := range r.Ingredients {
			ingredients = append(ingredients, RecipeIngredientResponse{
				ID:              occ.IngredientID,
				Name:            occ.Ingredient.Name,
				MeasurementUnit: occ.Ingredient.MeasurementUnit,
				Amount:          occ.Amount,
			})
		}

		out = append(out, RecipeResponse{
			ID:               r.ID,
			Tags:             tags,
			Author:           userResponse(r.Author, subscribed[r.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      flags.Favorited[r.ID],
			IsInShoppingCart: flags.InCart[r.ID],
			Name:             r.Name,
			Image:            p.images.URL(r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return out, nil
}

func (p *Presenter) Recipe(viewerID uint, recipe model.Recipe) (RecipeResponse, error) {
	out, err := p.Recipes(viewerID, []model.Recipe{recipe})
	if err != nil {
		return RecipeResponse{}, err
	}
	return out[0], nil
}

func (p *Presenter) Minified(recipe model.Recipe) RecipeMinifiedResponse {
	return RecipeMinifiedResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       p.images.URL(recipe.Image),
		CookingTime: recipe.CookingTime,
	}
}

// Subscription renders an author the viewer follows, so is_subscribed is always true.
func (p *Presenter) Subscription(summary service.AuthorSummary) SubscriptionResponse {
	recipes := make([]RecipeMinifiedResponse, 0, len(summary.Recipes))
	for _, r := range summary.Recipes {
		recipes = append(recipes, p.Minified(r))
	}
	return SubscriptionResponse{
		UserResponse: userResponse(summary.Author, true),
		Recipes:      recipes,
		RecipesCount: summary.RecipesCount,
	}
}
