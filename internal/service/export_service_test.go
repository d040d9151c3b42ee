package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiksha-api/internal/dto"
	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	hw := models.Homework{Assignment: classAssignment("hw-1", "10A")}
	hw.Title = "Essay: Monsoon!"
	quiz := models.Quiz{Assignment: classAssignment("quiz-1", "10A"), Questions: sampleQuestions(), TotalPoints: 2}
	quiz.Title = "Arithmetic"

	hwSubs := newMemHomeworkSubs()
	grade := "A"
	require.NoError(t, hwSubs.InsertIfAbsent(context.Background(), &models.HomeworkSubmission{
		ID: "sub-1", HomeworkID: "hw-1", StudentID: "s1", StudentName: "Asha",
		SubmittedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), IsLate: true, Grade: &grade,
	}))
	quizSubs := newMemQuizSubs()
	score, total := 1, 2
	require.NoError(t, quizSubs.InsertIfAbsent(context.Background(), &models.QuizSubmission{
		ID: "qs-1", QuizID: "quiz-1", StudentID: "s1", StudentName: "Asha", Score: &score, TotalPoints: &total, AutoGraded: true,
	}))

	return NewExportService(newMemHomeworkStore(hw), newMemQuizStore(quiz), hwSubs, quizSubs, nil, nil, nil)
}

func TestExportHomeworkCSV(t *testing.T) {
	svc := newExportFixture(t)

	file, err := svc.HomeworkSubmissions(context.Background(), teacher("t1"), "hw-1", dto.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "homework-essay-monsoon-submissions.csv", file.FileName)
	assert.Equal(t, "text/csv", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Student,Student ID,Submitted At,Late,Grade,Feedback,File,Text", lines[0])
	assert.Equal(t, "Asha,s1,2024-06-01T09:00:00Z,yes,A,,,", lines[1])
}

func TestExportQuizPDF(t *testing.T) {
	svc := newExportFixture(t)

	file, err := svc.QuizSubmissions(context.Background(), teacher("t1"), "quiz-1", dto.ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
	assert.Equal(t, "quiz-arithmetic-submissions.pdf", file.FileName)
}

func TestExportDefaultsToCSV(t *testing.T) {
	svc := newExportFixture(t)

	file, err := svc.QuizSubmissions(context.Background(), teacher("t1"), "quiz-1", "")
	require.NoError(t, err)
	assert.Contains(t, string(file.Data), "Asha,s1,")
	assert.Contains(t, string(file.Data), ",1,2,")
}

func TestExportRejections(t *testing.T) {
	svc := newExportFixture(t)

	_, err := svc.HomeworkSubmissions(context.Background(), student("s1", "10A"), "hw-1", dto.ExportFormatCSV)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = svc.HomeworkSubmissions(context.Background(), teacher("t1"), "hw-1", "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.QuizSubmissions(context.Background(), teacher("t1"), "missing", dto.ExportFormatCSV)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
