package model

import "time"

// Category groups items for display. Hidden categories are excluded from
// all public listings.
type Category struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CategoryName string    `json:"category_name" gorm:"uniqueIndex;size:255;not null"`
	DisplayName  string    `json:"display_name" gorm:"size:255;not null"`
	IsVisible    bool      `json:"is_visible" gorm:"default:true;index"`
	DisplayOrder int       `json:"display_order" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
