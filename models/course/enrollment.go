package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a collaborator's assignment to a course
type Enrollment struct {
	gorm.Model
	CollaboratorID uint       `json:"collaborator_id" gorm:"index:idx_enroll_collab_course,unique;not null"`
	CourseID       uint       `json:"course_id" gorm:"index:idx_enroll_collab_course,unique;not null"`
	Course         Course     `json:"course" gorm:"foreignKey:CourseID"`
	AssignedBy     *uint      `json:"assigned_by"` // admin user id when assigned, nil on self-enrollment
	DueDate        *time.Time `json:"due_date"`
	IsDeleted      bool       `gorm:"default:false"`
}
