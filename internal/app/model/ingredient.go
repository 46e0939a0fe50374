package model

// Ingredient is catalog data; the (name, measurement_unit) pair is unique.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"type:varchar(150);not null;uniqueIndex:idx_ingredients_name_unit" json:"name"`
	MeasurementUnit string `gorm:"type:varchar(20);not null;uniqueIndex:idx_ingredients_name_unit" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// IngredientOccurrence records that an ingredient appears in a recipe with an amount.
// An ingredient appears at most once per recipe.
type IngredientOccurrence struct {
	ID           uint `gorm:"primarykey"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredients_recipe_ingredient"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredients_recipe_ingredient;index"`
	Amount       int  `gorm:"not null"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (IngredientOccurrence) TableName() string {
	return "recipe_ingredients"
}

// CartIngredientRow is one occurrence reached by walking a user's shopping cart.
type CartIngredientRow struct {
	IngredientID    uint
	Name            string
	MeasurementUnit string
	Amount          int
}
