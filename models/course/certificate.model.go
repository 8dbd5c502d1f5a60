package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion
type Certificate struct {
	gorm.Model
	CollaboratorID    uint       `json:"collaborator_id" gorm:"index;not null"`
	CourseID          uint       `json:"course_id" gorm:"index;not null"`
	CertificateNumber string     `json:"certificate_number" gorm:"unique"`
	IssuedAt          time.Time  `json:"issued_at"`
	ExpiresAt         *time.Time `json:"expires_at"` // nil when the course certification never expires
	ReminderSent      bool       `json:"reminder_sent" gorm:"default:false"`
	IsDeleted         bool       `gorm:"default:false"`
}
