package models

import "time"

// MaterialType enumerates learning material kinds.
type MaterialType string

const (
	MaterialTypeVideo    MaterialType = "video"
	MaterialTypeLink     MaterialType = "link"
	MaterialTypeDocument MaterialType = "document"
	MaterialTypeApp      MaterialType = "app"
	MaterialTypeOther    MaterialType = "other"
)

// LearningMaterial is a resource a teacher shares with a class section.
type LearningMaterial struct {
	ID           string       `db:"id" json:"id"`
	Title        string       `db:"title" json:"title"`
	Description  string       `db:"description" json:"description"`
	MaterialType MaterialType `db:"material_type" json:"material_type"`
	ClassSection string       `db:"class_section" json:"class_section"`
	URL          *string      `db:"url" json:"url,omitempty"`
	FilePath     *string      `db:"file_path" json:"-"`
	FileName     *string      `db:"file_name" json:"file_name,omitempty"`
	File         *FileLink    `db:"-" json:"file,omitempty"`
	UploadedBy   string       `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}
