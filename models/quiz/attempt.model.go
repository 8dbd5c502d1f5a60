package quiz

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attempt statuses
const (
	AttemptInProgress = "IN_PROGRESS"
	AttemptPassed     = "PASSED"
	AttemptFailed     = "FAILED"
)

// QuizAttempt represents one collaborator run through a quiz. QuestionIDs
// and PointsTotal are frozen at creation; editing the quiz afterwards does
// not change an open attempt.
type QuizAttempt struct {
	gorm.Model
	QuizID               uint           `json:"quiz_id" gorm:"index:idx_quiz_attempt,unique;not null"`
	CollaboratorID       uint           `json:"collaborator_id" gorm:"index:idx_quiz_attempt,unique;not null"`
	AttemptNumber        int            `json:"attempt_number" gorm:"index:idx_quiz_attempt,unique;default:1"`
	Status               string         `json:"status" gorm:"default:'IN_PROGRESS'"` // IN_PROGRESS, PASSED, FAILED
	QuestionIDs          datatypes.JSON `json:"question_ids"` // ordered array of selected question ids
	Answers              datatypes.JSON `json:"answers"`      // map questionId -> answer, shape depends on question type
	Score                float64        `json:"score" gorm:"default:0"` // 0-100
	PointsEarned         int            `json:"points_earned" gorm:"default:0"`
	PointsTotal          int            `json:"points_total" gorm:"default:0"`
	StartedAt            time.Time      `json:"started_at"`
	SubmittedAt          *time.Time     `json:"submitted_at"`
	TimeSpent            int            `json:"time_spent" gorm:"default:0"` // seconds
	RequiresRemediation  bool           `json:"requires_remediation" gorm:"default:false"`
	RemediationCompleted bool           `json:"remediation_completed" gorm:"default:false"`
	IsDeleted            bool           `gorm:"default:false"`
}
