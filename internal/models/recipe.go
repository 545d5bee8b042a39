package models

import "time"

// Recipe is owned by its author and composed of quantified ingredients.
type Recipe struct {
	ID          string             `gorm:"primaryKey;type:varchar(36)"`
	AuthorID    string             `gorm:"type:varchar(36);not null;index"`
	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Name        string             `gorm:"type:varchar(256);not null"`
	Image       string             `gorm:"type:varchar(255)"` // storage reference
	Text        string             `gorm:"type:text;not null"`
	CookingTime int                `gorm:"not null"`
	Ingredients []IngredientRecipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time          `gorm:"index"`
	UpdatedAt   time.Time
}

// IngredientRecipe is the join row carrying the amount of one ingredient in one recipe.
type IngredientRecipe struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)"`
	RecipeID     string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient;index"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	Amount       int        `gorm:"not null"`
}

// IngredientAmount is one requested entry of a recipe's ingredient list.
type IngredientAmount struct {
	ID     string `json:"id" validate:"required"`
	Amount int    `json:"amount" validate:"required,min=1"`
}
