package dto

import "github.com/noah-isme/shiksha-api/internal/models"

// FileUpload carries an inline base64 file from the web client.
type FileUpload struct {
	FileName string `json:"file_name" validate:"required,max=255"`
	FileData string `json:"file_data" validate:"required,base64"`
}

// AssignmentTarget is the audience part of a create request shared by homework and quizzes.
type AssignmentTarget struct {
	AssignmentType models.AssignmentType `json:"assignment_type" validate:"omitempty,oneof=class individual group"`
	ClassSection   string                `json:"class_section" validate:"max=32"`
	AssignedTo     []string              `json:"assigned_to" validate:"dive,required"`
}

// CreateHomeworkRequest is the POST /homework/create payload.
type CreateHomeworkRequest struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description" validate:"required"`
	DueDate     string       `json:"due_date" validate:"required"`
	Attachments []FileUpload `json:"attachments" validate:"dive"`
	AssignmentTarget
}

// SubmitHomeworkRequest is the POST /homework/submit payload.
type SubmitHomeworkRequest struct {
	HomeworkID     string  `json:"homework_id" validate:"required"`
	SubmissionText *string `json:"submission_text"`
	FileData       *string `json:"file_data" validate:"omitempty,base64"`
	FileName       *string `json:"file_name" validate:"required_with=FileData"`
}

// GradeRequest sets a homework grade. Accepted as JSON body or query parameters.
type GradeRequest struct {
	Grade    string `json:"grade" form:"grade" validate:"required,max=32"`
	Feedback string `json:"feedback" form:"feedback" validate:"max=4000"`
}

// CreateQuizRequest is the POST /quiz/create payload. Total points are derived from questions.
type CreateQuizRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description" validate:"required"`
	Questions   []models.Question `json:"questions" validate:"required,min=1,dive"`
	DueDate     *string           `json:"due_date"`
	AssignmentTarget
}

// SubmitQuizRequest is the POST /quiz/submit payload.
type SubmitQuizRequest struct {
	QuizID  string              `json:"quiz_id" validate:"required"`
	Answers []models.QuizAnswer `json:"answers" validate:"required"`
}

// QuizResult is returned to the student right after submitting.
type QuizResult struct {
	SubmissionID string `json:"submission_id"`
	Score        int    `json:"score"`
	TotalPoints  int    `json:"total_points"`
	IsLate       bool   `json:"is_late"`
}

// FeedbackRequest sets teacher feedback on a quiz submission.
type FeedbackRequest struct {
	Feedback string `json:"feedback" form:"feedback" validate:"required,max=4000"`
}

// StudentFilter narrows GET /homework/students.
type StudentFilter struct {
	ClassSection string `form:"class_section"`
}
