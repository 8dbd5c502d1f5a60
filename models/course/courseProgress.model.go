package course

import (
	"time"

	"gorm.io/gorm"
)

// CourseProgress statuses
const (
	ProgressNotStarted = "NOT_STARTED"
	ProgressInProgress = "IN_PROGRESS"
	ProgressPassed     = "PASSED"
	ProgressFailed     = "FAILED"
	ProgressExempted   = "EXEMPTED"
	ProgressExpired    = "EXPIRED"
)

// CourseProgress aggregates a collaborator's lesson completions for a course.
// Created lazily on the first progress update.
type CourseProgress struct {
	gorm.Model
	CollaboratorID  uint       `json:"collaborator_id" gorm:"index:idx_course_progress,unique;not null"`
	CourseID        uint       `json:"course_id" gorm:"index:idx_course_progress,unique;not null"`
	ProgressPercent int        `json:"progress_percent" gorm:"default:0"` // 0-100, ratio of completed lessons
	TimeSpent       int64      `json:"time_spent" gorm:"default:0"`       // accumulated seconds
	Status          string     `json:"status" gorm:"default:'NOT_STARTED'"`
	CompletedAt     *time.Time `json:"completed_at"`
	IsDeleted       bool       `gorm:"default:false"`
}
