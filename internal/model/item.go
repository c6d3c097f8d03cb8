package model

import (
	"encoding/json"
	"time"
)

// Item is a content entry belonging to a category. Data is a free-form JSON
// column for per-item custom fields.
type Item struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	Description *string         `json:"description,omitempty" gorm:"type:text"`
	Data        json.RawMessage `json:"data,omitempty" gorm:"type:json"`
	IsActive    bool            `json:"is_active" gorm:"default:true;index"`
	CategoryID  uint            `json:"category_id" gorm:"index;not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
