package course

import "gorm.io/gorm"

// Lesson represents a unit of content within a course
type Lesson struct {
	gorm.Model
	CourseID            uint   `json:"course_id" gorm:"index;not null"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	ContentType         string `json:"content_type" gorm:"default:'VIDEO'"` // VIDEO, PDF, PPT, HTML
	ContentURL          string `json:"content_url"`
	HTMLContent         string `json:"html_content" gorm:"type:text"` // For HTML type
	DurationSec         int    `json:"duration_sec" gorm:"default:0"` // nominal content length in seconds
	CompletionThreshold int    `json:"completion_threshold" gorm:"default:90"` // viewPercentage needed to complete
	OrderIndex          int    `json:"order_index" gorm:"default:0"`
	IsPublished         bool   `json:"is_published" gorm:"default:false"`
	IsDeleted           bool   `gorm:"default:false"`
}
