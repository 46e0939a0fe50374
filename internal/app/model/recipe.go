package model

import (
	"time"
)

const (
	RecipeNameMaxLength = 200
	MinCookingTime      = 1
	MinAmount           = 1
	// Upper bound shared by cooking_time and amount (smallint range).
	MaxSmallInt = 32767
)

// Recipe is the aggregate root: the row plus its tag set and ingredient occurrences.
type Recipe struct {
	ID          uint      `gorm:"primarykey"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Text        string    `gorm:"type:text;not null"`
	Image       string    `gorm:"type:varchar(255);not null"` // storage key
	CookingTime int       `gorm:"not null"`
	AuthorID    uint      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"index"` // publish timestamp
	UpdatedAt   time.Time

	Author      User                   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags        []Tag                  `gorm:"many2many:recipe_tags;"`
	Ingredients []IngredientOccurrence `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// TagIDs returns the ids of the loaded tag set.
func (r *Recipe) TagIDs() []uint {
	ids := make([]uint, 0, len(r.Tags))
	for _, tag := range r.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

// OccurrenceInput is one {ingredient_id, amount} pair of a composite write.
type OccurrenceInput struct {
	IngredientID uint
	Amount       int
}
