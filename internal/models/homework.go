package models

import (
	"time"

	"github.com/lib/pq"
)

// Homework is a free-form assignment submitted as text and/or a file.
type Homework struct {
	Assignment
	Attachments pq.StringArray `db:"attachments" json:"-"`
	Files       []FileLink     `db:"-" json:"attachments"`
}

// HomeworkSubmission is a student's single answer to a homework.
type HomeworkSubmission struct {
	ID             string    `db:"id" json:"id"`
	HomeworkID     string    `db:"homework_id" json:"homework_id"`
	StudentID      string    `db:"student_id" json:"student_id"`
	StudentName    string    `db:"student_name" json:"student_name"`
	SubmissionText *string   `db:"submission_text" json:"submission_text,omitempty"`
	FilePath       *string   `db:"file_path" json:"-"`
	FileName       *string   `db:"file_name" json:"file_name,omitempty"`
	File           *FileLink `db:"-" json:"file,omitempty"`
	SubmittedAt    time.Time `db:"submitted_at" json:"submitted_at"`
	IsLate         bool      `db:"is_late" json:"is_late"`
	Grade          *string   `db:"grade" json:"grade,omitempty"`
	Feedback       *string   `db:"feedback" json:"feedback,omitempty"`
}

// FileLink is a signed, expiring download reference to a stored blob.
type FileLink struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
