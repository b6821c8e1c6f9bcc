package models

import "time"

type User struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	Username  string  `gorm:"uniqueIndex;not null" json:"username"`
	Email     string  `gorm:"unique" json:"email"`
	Phone     string  `json:"phone"`
	Name      string  `json:"name"`
	Address   Address `gorm:"embedded" json:"address"`
	IsAdmin   bool    `gorm:"not null;default:false" json:"is_admin"`
	Cart      Cart    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders    []Order `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
