package model

import (
	"time"
)

// RecipeList names one of the per-user recipe collections.
type RecipeList string

const (
	ListFavorites    RecipeList = "favorites"
	ListShoppingCart RecipeList = "shopping_cart"
)

// Label is the human readable list name used in messages.
func (l RecipeList) Label() string {
	switch l {
	case ListFavorites:
		return "favorites"
	case ListShoppingCart:
		return "shopping cart"
	}
	return string(l)
}

// Favorite is a (user, recipe) edge of the favorites list.
type Favorite struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_recipe"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorites_user_recipe;index"`
	CreatedAt time.Time

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCartItem is a (user, recipe) edge of the shopping cart.
type ShoppingCartItem struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_shopping_cart_user_recipe"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_shopping_cart_user_recipe;index"`
	CreatedAt time.Time

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (ShoppingCartItem) TableName() string {
	return "shopping_cart_items"
}
