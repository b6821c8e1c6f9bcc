package models

import "time"

type Product struct {
	ID          string  `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Condition   string  `json:"condition"` // thrift grading, e.g. "Like New", "Good"
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Stock       int     `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	IsActive    bool    `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
