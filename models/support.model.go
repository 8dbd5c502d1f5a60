package models

import "gorm.io/gorm"

type SupportTicket struct {
	gorm.Model
	UserID      uint   `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	Status      string `json:"status" gorm:"default:'OPEN'"`      // OPEN, PENDING, CLOSED
	Priority    string `json:"priority" gorm:"default:'MEDIUM'"`  // LOW, MEDIUM, HIGH
	Category    string `json:"category" gorm:"default:'GENERAL'"` // GENERAL, COURSE, QUIZ, CERTIFICATE, ACCOUNT
	IsDeleted   bool   `json:"is_deleted" gorm:"default:false"`
}
