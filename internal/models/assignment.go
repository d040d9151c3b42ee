package models

import (
	"time"

	"github.com/lib/pq"
)

// AssignmentType describes who an assignment targets.
type AssignmentType string

const (
	AssignmentTypeClass      AssignmentType = "class"
	AssignmentTypeIndividual AssignmentType = "individual"
	AssignmentTypeGroup      AssignmentType = "group"
)

// Targeted reports whether the assignment is addressed to listed students rather than a class.
func (t AssignmentType) Targeted() bool {
	return t == AssignmentTypeIndividual || t == AssignmentTypeGroup
}

// Assignment holds the fields homework and quizzes share. Class assignments carry a
// class section and no assignees; individual and group assignments carry assignees only.
type Assignment struct {
	ID             string         `db:"id" json:"id"`
	Title          string         `db:"title" json:"title"`
	Description    string         `db:"description" json:"description"`
	AssignmentType AssignmentType `db:"assignment_type" json:"assignment_type"`
	ClassSection   *string        `db:"class_section" json:"class_section,omitempty"`
	AssignedTo     pq.StringArray `db:"assigned_to" json:"assigned_to"`
	DueDate        *string        `db:"due_date" json:"due_date,omitempty"`
	CreatedBy      string         `db:"created_by" json:"created_by"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	CanSubmit      *bool          `db:"-" json:"can_submit,omitempty"`
}

// Base exposes the shared assignment fields of a homework or quiz.
func (a Assignment) Base() Assignment { return a }

// Assignable is implemented by every record embedding Assignment.
type Assignable interface {
	Base() Assignment
}

// IsAssignedTo reports whether studentID is one of the listed assignees.
func (a Assignment) IsAssignedTo(studentID string) bool {
	for _, id := range a.AssignedTo {
		if id == studentID {
			return true
		}
	}
	return false
}
