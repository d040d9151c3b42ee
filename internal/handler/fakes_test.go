package handler

import (
	"context"
	"os"

	"github.com/noah-isme/shiksha-api/internal/dto"
	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type fakeAuth struct {
	lastLogin models.LoginRequest
	err       error
}

func (f *fakeAuth) Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.TokenResponse{AccessToken: "tok", TokenType: "bearer", User: models.UserInfo{Email: req.Email, Role: req.Role}}, nil
}

func (f *fakeAuth) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	f.lastLogin = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.TokenResponse{AccessToken: "tok", TokenType: "bearer", User: models.UserInfo{Email: req.Email}}, nil
}

func (f *fakeAuth) Me(ctx context.Context, userID string) (*models.UserInfo, error) {
	return &models.UserInfo{ID: userID}, nil
}

type fakeHomework struct {
	created []dto.CreateHomeworkRequest
}

func (f *fakeHomework) Create(ctx context.Context, identity models.Identity, req dto.CreateHomeworkRequest) (*models.Homework, error) {
	f.created = append(f.created, req)
	return &models.Homework{Assignment: models.Assignment{ID: "hw-1", Title: req.Title, CreatedBy: identity.ID}}, nil
}

func (f *fakeHomework) List(ctx context.Context, identity models.Identity) ([]models.Homework, error) {
	return []models.Homework{{Assignment: models.Assignment{ID: "hw-1"}}}, nil
}

func (f *fakeHomework) Get(ctx context.Context, identity models.Identity, id string) (*models.Homework, error) {
	if id != "hw-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "homework not found")
	}
	return &models.Homework{Assignment: models.Assignment{ID: id}}, nil
}

func (f *fakeHomework) Submissions(ctx context.Context, identity models.Identity, homeworkID string) ([]models.HomeworkSubmission, error) {
	return []models.HomeworkSubmission{}, nil
}

func (f *fakeHomework) MySubmissions(ctx context.Context, identity models.Identity) ([]models.HomeworkSubmission, error) {
	return []models.HomeworkSubmission{}, nil
}

func (f *fakeHomework) Students(ctx context.Context, identity models.Identity, filter dto.StudentFilter) ([]models.StudentSummary, error) {
	return []models.StudentSummary{{ID: "s1", ClassSection: filter.ClassSection}}, nil
}

type fakeGuard struct {
	lastGrade    dto.GradeRequest
	lastFeedback dto.FeedbackRequest
	submitErr    error
}

func (f *fakeGuard) SubmitHomework(ctx context.Context, identity models.Identity, req dto.SubmitHomeworkRequest) (*models.HomeworkSubmission, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &models.HomeworkSubmission{ID: "sub-1", HomeworkID: req.HomeworkID, StudentID: identity.ID}, nil
}

func (f *fakeGuard) GradeHomework(ctx context.Context, identity models.Identity, submissionID string, req dto.GradeRequest) (*models.HomeworkSubmission, error) {
	f.lastGrade = req
	grade := req.Grade
	return &models.HomeworkSubmission{ID: submissionID, Grade: &grade}, nil
}

func (f *fakeGuard) SubmitQuiz(ctx context.Context, identity models.Identity, req dto.SubmitQuizRequest) (*models.QuizSubmission, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	score, total := 1, 2
	return &models.QuizSubmission{ID: "qs-1", QuizID: req.QuizID, Score: &score, TotalPoints: &total}, nil
}

func (f *fakeGuard) AddQuizFeedback(ctx context.Context, identity models.Identity, submissionID string, req dto.FeedbackRequest) (*models.QuizSubmission, error) {
	f.lastFeedback = req
	return &models.QuizSubmission{ID: submissionID, TeacherFeedback: &req.Feedback}, nil
}

type fakeQuiz struct{}

func (fakeQuiz) Create(ctx context.Context, identity models.Identity, req dto.CreateQuizRequest) (*models.Quiz, error) {
	return &models.Quiz{Assignment: models.Assignment{ID: "quiz-1", Title: req.Title}}, nil
}

func (fakeQuiz) List(ctx context.Context, identity models.Identity) ([]models.Quiz, error) {
	return []models.Quiz{}, nil
}

func (fakeQuiz) Get(ctx context.Context, identity models.Identity, id string) (*models.Quiz, error) {
	return &models.Quiz{Assignment: models.Assignment{ID: id}}, nil
}

func (fakeQuiz) Submissions(ctx context.Context, identity models.Identity, quizID string) ([]models.QuizSubmission, error) {
	return []models.QuizSubmission{}, nil
}

func (fakeQuiz) MySubmissions(ctx context.Context, identity models.Identity) ([]models.QuizSubmission, error) {
	return []models.QuizSubmission{}, nil
}

type fakeExporter struct {
	lastFormat dto.ExportFormat
}

func (f *fakeExporter) HomeworkSubmissions(ctx context.Context, identity models.Identity, homeworkID string, format dto.ExportFormat) (*dto.ExportFile, error) {
	f.lastFormat = format
	return &dto.ExportFile{FileName: "homework-essay-submissions.csv", ContentType: "text/csv", Data: []byte("a,b\n")}, nil
}

func (f *fakeExporter) QuizSubmissions(ctx context.Context, identity models.Identity, quizID string, format dto.ExportFormat) (*dto.ExportFile, error) {
	f.lastFormat = format
	return &dto.ExportFile{FileName: "quiz-x-submissions.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, nil
}

type fakeAttendance struct{}

func (fakeAttendance) Mark(ctx context.Context, identity models.Identity) (*models.AttendanceRecord, error) {
	return &models.AttendanceRecord{StudentID: identity.ID, Date: "2024-06-01"}, nil
}

func (fakeAttendance) MyRecords(ctx context.Context, identity models.Identity) ([]models.AttendanceRecord, error) {
	return []models.AttendanceRecord{}, nil
}

func (fakeAttendance) ClassRecords(ctx context.Context, identity models.Identity, classSection string) ([]models.AttendanceRecord, error) {
	return []models.AttendanceRecord{{ClassSection: classSection}}, nil
}

func (fakeAttendance) TodayStatus(ctx context.Context, identity models.Identity) (*models.AttendanceTodayStatus, error) {
	return &models.AttendanceTodayStatus{Date: "2024-06-01"}, nil
}

type fakeMaterials struct{}

func (fakeMaterials) Create(ctx context.Context, identity models.Identity, req dto.CreateMaterialRequest) (*models.LearningMaterial, error) {
	return &models.LearningMaterial{ID: "m1", Title: req.Title}, nil
}

func (fakeMaterials) List(ctx context.Context, identity models.Identity) ([]models.LearningMaterial, error) {
	return []models.LearningMaterial{}, nil
}

func (fakeMaterials) Delete(ctx context.Context, identity models.Identity, id string) error {
	if id != "m1" {
		return appErrors.Clone(appErrors.ErrNotFound, "material not found")
	}
	return nil
}

type fakeSchool struct {
	lastUpdate dto.UpdateSchoolSettingsRequest
}

func (f *fakeSchool) Register(ctx context.Context, req dto.RegisterSchoolRequest) (*models.SchoolRegistration, error) {
	return &models.SchoolRegistration{SchoolName: req.SchoolName, UdiseCode: req.UdiseCode}, nil
}

func (f *fakeSchool) CheckRegistration(ctx context.Context) (*dto.RegistrationStatus, error) {
	return &dto.RegistrationStatus{}, nil
}

func (f *fakeSchool) Settings(ctx context.Context) (*dto.SchoolSettingsResponse, error) {
	return &dto.SchoolSettingsResponse{SchoolName: "My School"}, nil
}

func (f *fakeSchool) UpdateSettings(ctx context.Context, identity models.Identity, req dto.UpdateSchoolSettingsRequest) (*dto.SchoolSettingsResponse, error) {
	f.lastUpdate = req
	return &dto.SchoolSettingsResponse{SchoolName: req.SchoolName}, nil
}

type fakeAnalytics struct{}

func (fakeAnalytics) Overview(ctx context.Context, identity models.Identity) (*models.SchoolOverview, error) {
	return &models.SchoolOverview{TotalStudents: 3}, nil
}

func (fakeAnalytics) ClassPerformance(ctx context.Context, identity models.Identity) ([]models.ClassPerformance, error) {
	return []models.ClassPerformance{}, nil
}

func (fakeAnalytics) TeacherActivity(ctx context.Context, identity models.Identity) ([]models.TeacherActivity, error) {
	return []models.TeacherActivity{}, nil
}

func (fakeAnalytics) AttendanceReport(ctx context.Context, identity models.Identity) ([]models.DailyAttendanceCount, error) {
	return []models.DailyAttendanceCount{}, nil
}

func (fakeAnalytics) RecentActivities(ctx context.Context, identity models.Identity) ([]models.RecentActivity, error) {
	return []models.RecentActivity{}, nil
}

type fakeDashboard struct{}

func (fakeDashboard) Stats(ctx context.Context, identity models.Identity) (interface{}, error) {
	if identity.IsStudent() {
		return &models.StudentDashboard{PendingHomework: 2}, nil
	}
	return &models.TeacherDashboard{TotalStudents: 30}, nil
}

type fakeFiles struct {
	path string
}

func (f fakeFiles) Open(token string) (*os.File, string, error) {
	if token != "good" {
		return nil, "", appErrors.ErrNotFound
	}
	file, err := os.Open(f.path)
	if err != nil {
		return nil, "", err
	}
	return file, "notes.txt", nil
}
