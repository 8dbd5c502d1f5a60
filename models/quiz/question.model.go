package quiz

import "gorm.io/gorm"

// Question types
const (
	TypeSingleChoice   = "SINGLE_CHOICE"
	TypeMultipleChoice = "MULTIPLE_CHOICE"
	TypeTrueFalse      = "TRUE_FALSE"
	TypeOrder          = "ORDER"
	TypeFillBlank      = "FILL_BLANK"
)

// Question is a reusable quiz question with its options
type Question struct {
	gorm.Model
	QuestionText string `json:"question_text" gorm:"type:text"`
	Type         string `json:"type" gorm:"default:'SINGLE_CHOICE'"` // SINGLE_CHOICE, MULTIPLE_CHOICE, TRUE_FALSE, ORDER, FILL_BLANK
	Points       int    `json:"points" gorm:"default:1"`
	Explanation  string `json:"explanation" gorm:"type:text"` // shown with submission feedback
	IsDeleted    bool   `gorm:"default:false"`
}

// QuestionOption represents an option for a question. For ORDER questions
// OrderIndex defines the correct sequence; for FILL_BLANK the texts of
// options flagged IsCorrect are the accepted answers.
type QuestionOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}
