package models

import (
	"time"

	"gorm.io/gorm"
)

// Collaborator is the worker profile all training records hang off.
// A User without a Collaborator row cannot take courses or quizzes.
type Collaborator struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	User           User       `json:"-" gorm:"foreignKey:UserID"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	DocumentNumber string     `json:"document_number" gorm:"uniqueIndex"`
	Position       string     `json:"position"`
	Area           string     `json:"area"`
	HireDate       *time.Time `json:"hire_date"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	IsDeleted      bool       `gorm:"default:false"`
}
