package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

func strPtr(s string) *string { return &s }

func classAssignment(id, section string) models.Assignment {
	return models.Assignment{ID: id, AssignmentType: models.AssignmentTypeClass, ClassSection: strPtr(section)}
}

func targetedAssignment(id string, t models.AssignmentType, ids ...string) models.Assignment {
	return models.Assignment{ID: id, AssignmentType: t, AssignedTo: ids}
}

func student(id, section string) models.Identity {
	return models.Identity{ID: id, Role: models.RoleStudent, ClassSection: section, FullName: "Student " + id}
}

func teacher(id string) models.Identity {
	return models.Identity{ID: id, Role: models.RoleTeacher, FullName: "Teacher " + id}
}

func TestVisibleClassPartition(t *testing.T) {
	r := NewAssignmentResolver()
	sections := []string{"10A", "10B", "9C"}
	for _, owner := range sections {
		a := classAssignment("hw-"+owner, owner)
		for i, section := range sections {
			s := student(fmt.Sprintf("s-%d", i), section)
			assert.Equal(t, section == owner, r.Visible(s, a), "student in %s reading work for %s", section, owner)
		}
	}
}

func TestVisibleTargetedOnlyForListedStudents(t *testing.T) {
	r := NewAssignmentResolver()
	for _, kind := range []models.AssignmentType{models.AssignmentTypeIndividual, models.AssignmentTypeGroup} {
		a := targetedAssignment("hw-1", kind, "s1", "s2")
		assert.True(t, r.Visible(student("s1", "10A"), a))
		assert.True(t, r.Visible(student("s2", "10B"), a))
		assert.False(t, r.Visible(student("s3", "10A"), a))
	}
}

func TestVisibleTargetedIgnoresClassSection(t *testing.T) {
	r := NewAssignmentResolver()
	a := targetedAssignment("hw-1", models.AssignmentTypeGroup, "s1")
	a.ClassSection = strPtr("10A")
	assert.False(t, r.Visible(student("s9", "10A"), a))
}

func TestVisibleStaffSeeEverything(t *testing.T) {
	r := NewAssignmentResolver()
	a := targetedAssignment("hw-1", models.AssignmentTypeIndividual, "s1")
	assert.True(t, r.Visible(teacher("t1"), a))
	assert.True(t, r.Visible(models.Identity{ID: "p1", Role: models.RolePrincipal}, a))
	assert.False(t, r.Visible(models.Identity{ID: "x", Role: "janitor"}, a))
}

func TestVisibleStudentWithoutSection(t *testing.T) {
	r := NewAssignmentResolver()
	assert.False(t, r.Visible(student("s1", ""), classAssignment("hw", "")))
}

func TestVisibleAssignmentsScenario(t *testing.T) {
	r := NewAssignmentResolver()
	all := []models.Homework{
		{Assignment: classAssignment("class", "10A")},
		{Assignment: targetedAssignment("individual", models.AssignmentTypeIndividual, "s1")},
		{Assignment: targetedAssignment("group", models.AssignmentTypeGroup, "s2", "s3")},
	}

	ids := func(items []models.Homework) []string {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, item.ID)
		}
		return out
	}

	assert.Equal(t, []string{"class", "individual"}, ids(VisibleAssignments(r, student("s1", "10A"), all)))
	assert.Equal(t, []string{"class", "group"}, ids(VisibleAssignments(r, student("s2", "10A"), all)))
	assert.Empty(t, ids(VisibleAssignments(r, student("s4", "10B"), all)))
	assert.Len(t, VisibleAssignments(r, teacher("t1"), all), 3)
}

func TestResolveAndCanSubmitUnknownAssignment(t *testing.T) {
	r := NewAssignmentResolver()
	_, err := r.Resolve(student("s1", "10A"), nil)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	ok, err := r.CanSubmit(student("s1", "10A"), nil, false)
	assert.False(t, ok)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestEligibilityOrder(t *testing.T) {
	r := NewAssignmentResolver()
	a := classAssignment("hw", "10A")

	assert.ErrorIs(t, r.Eligibility(teacher("t1"), &a, false), appErrors.ErrForbidden)
	assert.ErrorIs(t, r.Eligibility(student("s1", "10B"), &a, true), appErrors.ErrForbidden)
	assert.ErrorIs(t, r.Eligibility(student("s1", "10A"), &a, true), appErrors.ErrDuplicateSubmission)
	assert.NoError(t, r.Eligibility(student("s1", "10A"), &a, false))

	ok, err := r.CanSubmit(student("s1", "10A"), &a, false)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.CanSubmit(student("s1", "10A"), &a, true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsLate(t *testing.T) {
	r := NewAssignmentResolver()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour).Format("2006-01-02T15:04:05")
	future := now.Add(time.Hour).Format("2006-01-02T15:04:05.000000")

	late, err := r.IsLate(&past, now)
	require.NoError(t, err)
	assert.True(t, late)

	late, err = r.IsLate(&future, now)
	require.NoError(t, err)
	assert.False(t, late)

	late, err = r.IsLate(nil, now)
	require.NoError(t, err)
	assert.False(t, late)
}

func TestIsLateMixesNaiveAndAware(t *testing.T) {
	r := NewAssignmentResolver()
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 6, 1, 17, 30, 0, 0, ist)

	// 12:30 UTC is 18:00 IST, so not yet due.
	naive := "2024-06-01T12:30:00"
	late, err := r.IsLate(&naive, now)
	require.NoError(t, err)
	assert.False(t, late)

	aware := "2024-06-01T17:00:00+05:30"
	late, err = r.IsLate(&aware, now)
	require.NoError(t, err)
	assert.True(t, late)
}

func TestParseDueDateLayouts(t *testing.T) {
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2024-06-01",
		"2024-06-01T00:00",
		"2024-06-01T00:00:00",
		"2024-06-01 00:00:00",
		"2024-06-01T00:00:00Z",
		"2024-06-01T05:30:00+05:30",
		"2024-06-01T00:00:00.123456",
	} {
		got, err := ParseDueDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got.Truncate(time.Second)), raw)
	}

	_, err := ParseDueDate("next friday")
	assert.Error(t, err)
}

func TestNormaliseTarget(t *testing.T) {
	kind, section, ids, err := normaliseTarget("", " 10A ", []string{"s1"})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentTypeClass, kind)
	assert.Equal(t, "10A", *section)
	assert.Empty(t, ids)

	kind, section, ids, err = normaliseTarget(models.AssignmentTypeGroup, "10A", []string{"s1", " s2 ", "s1", ""})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentTypeGroup, kind)
	assert.Nil(t, section)
	assert.Equal(t, []string{"s1", "s2"}, ids)

	_, _, _, err = normaliseTarget(models.AssignmentTypeClass, "", nil)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, _, _, err = normaliseTarget(models.AssignmentTypeIndividual, "10A", nil)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
