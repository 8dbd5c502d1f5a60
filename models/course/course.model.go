package course

import "gorm.io/gorm"

// Course represents a safety/compliance training course
type Course struct {
	gorm.Model
	Title          string `json:"title"`
	Description    string `json:"description"`
	Author         string `json:"author"`
	Duration       int64  `json:"duration" gorm:"default:0"`     // nominal duration in hours
	ValidityMonths int    `json:"validity_months" gorm:"default:0"` // 0 = certification never expires
	Status         string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, PUBLISHED, ARCHIVED
	IsMandatory    bool   `json:"is_mandatory" gorm:"default:false"`
	ThumbnailURL   string `json:"thumbnail_url"`
	IsDeleted      bool   `gorm:"default:false"`
}
