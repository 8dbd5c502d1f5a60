package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is an in-app message for a collaborator (assignment,
// remediation required, certificate expiring, etc.)
type Notification struct {
	gorm.Model
	CollaboratorID uint       `json:"collaborator_id" gorm:"index;not null"`
	Type           string     `json:"type" gorm:"default:'GENERAL'"` // GENERAL, COURSE_ASSIGNED, COURSE_PASSED, QUIZ_FAILED, REMEDIATION_REQUIRED, CERTIFICATE_EXPIRING
	Title          string     `json:"title"`
	Message        string     `json:"message" gorm:"type:text"`
	IsRead         bool       `json:"is_read" gorm:"default:false"`
	ReadAt         *time.Time `json:"read_at"`
	IsDeleted      bool       `gorm:"default:false"`
}
