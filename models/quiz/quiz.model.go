package quiz

import "gorm.io/gorm"

// Quiz statuses
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusArchived  = "ARCHIVED"
)

// Quiz holds the grading configuration for a course evaluation
type Quiz struct {
	gorm.Model
	CourseID            uint   `json:"course_id" gorm:"index;not null"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	PassingScore        int    `json:"passing_score" gorm:"default:70"` // percentage, pass is inclusive
	MaxAttempts         int    `json:"max_attempts" gorm:"default:0"`   // 0 = unlimited
	TimeLimit           int    `json:"time_limit" gorm:"default:0"`     // minutes, 0 = none
	ShuffleQuestions    bool   `json:"shuffle_questions" gorm:"default:false"`
	ShuffleOptions      bool   `json:"shuffle_options" gorm:"default:false"`
	QuestionsPerAttempt int    `json:"questions_per_attempt" gorm:"default:0"` // 0 = full pool
	ShowCorrectAnswers  bool   `json:"show_correct_answers" gorm:"default:false"`
	Status              string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, PUBLISHED, ARCHIVED
	IsDeleted           bool   `gorm:"default:false"`
}

// QuizQuestion links a question into a quiz with an optional per-quiz
// point override and a position in the quiz order.
type QuizQuestion struct {
	gorm.Model
	QuizID         uint     `json:"quiz_id" gorm:"index:idx_quiz_question,unique;not null"`
	QuestionID     uint     `json:"question_id" gorm:"index:idx_quiz_question,unique;not null"`
	Question       Question `json:"question" gorm:"foreignKey:QuestionID"`
	PointsOverride *int     `json:"points_override"` // nil = use Question.Points
	OrderIndex     int      `json:"order_index" gorm:"default:0"`
	IsDeleted      bool     `gorm:"default:false"`
}
