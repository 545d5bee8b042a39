package models

import "time"

// RelationKind discriminates the bookmark lists a user keeps for recipes.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
)

// Valid reports whether k is a known relation kind.
func (k RelationKind) Valid() bool {
	return k == RelationFavorite || k == RelationShoppingCart
}

// UserRecipeRelation links a user to a recipe under one RelationKind.
// A (user, recipe, kind) triple is unique.
type UserRecipeRelation struct {
	ID        string       `gorm:"primaryKey;type:varchar(36)"`
	UserID    string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_recipe_kind"`
	RecipeID  string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_recipe_kind;index"`
	Kind      RelationKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_recipe_kind"`
	User      User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe    Recipe       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// ShoppingListItem is one consolidated line of a shopping list.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int64  `json:"amount"`
}
