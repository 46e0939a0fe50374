package model

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Subscription{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeTag{},
		&IngredientOccurrence{},
		&Favorite{},
		&ShoppingCartItem{},
	}
}
