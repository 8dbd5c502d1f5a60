package course

import (
	"time"

	"gorm.io/gorm"
)

// LessonProgress tracks how far a collaborator got through a lesson.
// ViewPercentage never decreases across updates.
type LessonProgress struct {
	gorm.Model
	CollaboratorID uint       `json:"collaborator_id" gorm:"index:idx_lesson_progress,unique;not null"`
	LessonID       uint       `json:"lesson_id" gorm:"index:idx_lesson_progress,unique;not null"`
	CourseID       uint       `json:"course_id" gorm:"index;not null"`
	ViewPercentage int        `json:"view_percentage" gorm:"default:0"` // 0-100
	Completed      bool       `json:"completed" gorm:"default:false"`
	LastViewedAt   time.Time  `json:"last_viewed_at"`
	CompletedAt    *time.Time `json:"completed_at"`
	IsDeleted      bool       `gorm:"default:false"`
}
