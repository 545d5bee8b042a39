package models

// Ingredient is a catalog entry. Catalog listings are ordered by name.
type Ingredient struct {
	ID              string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name            string `json:"name" gorm:"type:varchar(128);not null;index" validate:"required,max=128"`
	MeasurementUnit string `json:"measurement_unit" gorm:"type:varchar(64);not null" validate:"required,max=64"`
}
