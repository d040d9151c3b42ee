package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDueDate reads an ISO-8601 instant. Values without an offset are taken as UTC.
func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised due date %q", raw)
}

// AssignmentResolver decides who may see and submit against an assignment.
type AssignmentResolver struct{}

func NewAssignmentResolver() *AssignmentResolver {
	return &AssignmentResolver{}
}

// Visible reports whether identity may read the assignment. Staff see everything; a
// student sees class work for their own section and targeted work listing their id.
func (r *AssignmentResolver) Visible(identity models.Identity, a models.Assignment) bool {
	switch identity.Role {
	case models.RoleTeacher, models.RolePrincipal:
		return true
	case models.RoleStudent:
	default:
		return false
	}

	switch a.AssignmentType {
	case models.AssignmentTypeClass:
		return a.ClassSection != nil && identity.ClassSection != "" && *a.ClassSection == identity.ClassSection
	case models.AssignmentTypeIndividual, models.AssignmentTypeGroup:
		return a.IsAssignedTo(identity.ID)
	default:
		return false
	}
}

// Resolve is Visible for a lookup that may have found nothing.
func (r *AssignmentResolver) Resolve(identity models.Identity, a *models.Assignment) (bool, error) {
	if a == nil {
		return false, appErrors.ErrNotFound
	}
	return r.Visible(identity, *a), nil
}

// Eligibility returns nil when identity may submit, otherwise the first failing rule in
// the order existence, role, visibility, prior submission.
func (r *AssignmentResolver) Eligibility(identity models.Identity, a *models.Assignment, alreadySubmitted bool) error {
	if a == nil {
		return appErrors.ErrNotFound
	}
	if !identity.IsStudent() {
		return appErrors.ErrForbidden
	}
	if !r.Visible(identity, *a) {
		return appErrors.ErrForbidden
	}
	if alreadySubmitted {
		return appErrors.ErrDuplicateSubmission
	}
	return nil
}

// CanSubmit reports eligibility as a boolean. A missing assignment is an error, not false.
func (r *AssignmentResolver) CanSubmit(identity models.Identity, a *models.Assignment, alreadySubmitted bool) (bool, error) {
	if a == nil {
		return false, appErrors.ErrNotFound
	}
	return r.Eligibility(identity, a, alreadySubmitted) == nil, nil
}

// IsLate compares at against the due date after moving both to UTC. A missing due date
// is never late.
func (r *AssignmentResolver) IsLate(dueDate *string, at time.Time) (bool, error) {
	if dueDate == nil || strings.TrimSpace(*dueDate) == "" {
		return false, nil
	}
	due, err := ParseDueDate(*dueDate)
	if err != nil {
		return false, err
	}
	return at.UTC().After(due), nil
}

// VisibleAssignments filters all down to the records identity may see, keeping order.
func VisibleAssignments[T models.Assignable](r *AssignmentResolver, identity models.Identity, all []T) []T {
	visible := make([]T, 0, len(all))
	for _, item := range all {
		if r.Visible(identity, item.Base()) {
			visible = append(visible, item)
		}
	}
	return visible
}

// normaliseTarget enforces the audience invariants on a create request: class work names
// a section and nobody individually, targeted work names students and no section.
func normaliseTarget(t models.AssignmentType, classSection string, assignedTo []string) (models.AssignmentType, *string, []string, error) {
	if t == "" {
		t = models.AssignmentTypeClass
	}
	classSection = strings.TrimSpace(classSection)

	if t == models.AssignmentTypeClass {
		if classSection == "" {
			return "", nil, nil, appErrors.Clone(appErrors.ErrValidation, "class_section is required for class assignments")
		}
		return t, &classSection, []string{}, nil
	}

	seen := make(map[string]struct{}, len(assignedTo))
	ids := make([]string, 0, len(assignedTo))
	for _, id := range assignedTo {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return "", nil, nil, appErrors.Clone(appErrors.ErrValidation, "assigned_to must name at least one student")
	}
	return t, nil, ids, nil
}
