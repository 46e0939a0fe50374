package model

// Tag is shared reference data attached to recipes.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	Color string `gorm:"type:varchar(7);uniqueIndex;not null" json:"color"` // #RRGGBB
	Slug  string `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}

// RecipeTag represents the many-to-many relationship between recipes and tags
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey;index"`
	TagID    uint `gorm:"primaryKey;index"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
