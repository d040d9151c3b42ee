package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/noah-isme/shiksha-api/internal/dto"
	"github.com/noah-isme/shiksha-api/internal/models"
	"github.com/noah-isme/shiksha-api/internal/repository"
)

type memHomeworkStore struct {
	mu    sync.Mutex
	items map[string]*models.Homework
	err   error
}

func newMemHomeworkStore(items ...models.Homework) *memHomeworkStore {
	s := &memHomeworkStore{items: map[string]*models.Homework{}}
	for i := range items {
		hw := items[i]
		s.items[hw.ID] = &hw
	}
	return s
}

func (s *memHomeworkStore) FindByID(ctx context.Context, id string) (*models.Homework, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	hw, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *hw
	return &cp, nil
}

func (s *memHomeworkStore) Create(ctx context.Context, hw *models.Homework) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	cp := *hw
	s.items[hw.ID] = &cp
	return nil
}

func (s *memHomeworkStore) List(ctx context.Context) ([]models.Homework, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Homework, 0, len(s.items))
	for _, hw := range s.items {
		out = append(out, *hw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, s.err
}

// ListForStudent returns everything; callers must still filter by visibility.
func (s *memHomeworkStore) ListForStudent(ctx context.Context, studentID, classSection string) ([]models.Homework, error) {
	return s.List(ctx)
}

type memQuizStore struct {
	mu    sync.Mutex
	items map[string]*models.Quiz
	err   error
}

func newMemQuizStore(items ...models.Quiz) *memQuizStore {
	s := &memQuizStore{items: map[string]*models.Quiz{}}
	for i := range items {
		q := items[i]
		s.items[q.ID] = &q
	}
	return s
}

func (s *memQuizStore) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	q, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *q
	return &cp, nil
}

func (s *memQuizStore) Create(ctx context.Context, q *models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	cp := *q
	s.items[q.ID] = &cp
	return nil
}

func (s *memQuizStore) List(ctx context.Context) ([]models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Quiz, 0, len(s.items))
	for _, q := range s.items {
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, s.err
}

func (s *memQuizStore) ListForStudent(ctx context.Context, studentID, classSection string) ([]models.Quiz, error) {
	return s.List(ctx)
}

// memHomeworkSubs mimics the unique (homework_id, student_id) key of the real table.
type memHomeworkSubs struct {
	mu      sync.Mutex
	byID    map[string]*models.HomeworkSubmission
	byPair  map[[2]string]string
	inserts int
}

func newMemHomeworkSubs() *memHomeworkSubs {
	return &memHomeworkSubs{byID: map[string]*models.HomeworkSubmission{}, byPair: map[[2]string]string{}}
}

func (s *memHomeworkSubs) Exists(ctx context.Context, homeworkID, studentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byPair[[2]string{homeworkID, studentID}]
	return ok, nil
}

func (s *memHomeworkSubs) InsertIfAbsent(ctx context.Context, sub *models.HomeworkSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]string{sub.HomeworkID, sub.StudentID}
	if _, ok := s.byPair[key]; ok {
		return repository.ErrDuplicate
	}
	cp := *sub
	s.byID[sub.ID] = &cp
	s.byPair[key] = sub.ID
	s.inserts++
	return nil
}

func (s *memHomeworkSubs) UpdateGrade(ctx context.Context, id, grade, feedback string) (*models.HomeworkSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	sub.Grade = &grade
	sub.Feedback = &feedback
	cp := *sub
	return &cp, nil
}

func (s *memHomeworkSubs) ListByHomework(ctx context.Context, homeworkID string) ([]models.HomeworkSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.HomeworkSubmission{}
	for _, sub := range s.byID {
		if sub.HomeworkID == homeworkID {
			out = append(out, *sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentName < out[j].StudentName })
	return out, nil
}

func (s *memHomeworkSubs) ListByStudent(ctx context.Context, studentID string) ([]models.HomeworkSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.HomeworkSubmission{}
	for _, sub := range s.byID {
		if sub.StudentID == studentID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

type memQuizSubs struct {
	mu      sync.Mutex
	byID    map[string]*models.QuizSubmission
	byPair  map[[2]string]string
	inserts int
}

func newMemQuizSubs() *memQuizSubs {
	return &memQuizSubs{byID: map[string]*models.QuizSubmission{}, byPair: map[[2]string]string{}}
}

func (s *memQuizSubs) Exists(ctx context.Context, quizID, studentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byPair[[2]string{quizID, studentID}]
	return ok, nil
}

func (s *memQuizSubs) InsertIfAbsent(ctx context.Context, sub *models.QuizSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]string{sub.QuizID, sub.StudentID}
	if _, ok := s.byPair[key]; ok {
		return repository.ErrDuplicate
	}
	cp := *sub
	s.byID[sub.ID] = &cp
	s.byPair[key] = sub.ID
	s.inserts++
	return nil
}

func (s *memQuizSubs) UpdateFeedback(ctx context.Context, id, feedback string) (*models.QuizSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	sub.TeacherFeedback = &feedback
	cp := *sub
	return &cp, nil
}

func (s *memQuizSubs) ListByQuiz(ctx context.Context, quizID string) ([]models.QuizSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.QuizSubmission{}
	for _, sub := range s.byID {
		if sub.QuizID == quizID {
			out = append(out, *sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentName < out[j].StudentName })
	return out, nil
}

func (s *memQuizSubs) ListByStudent(ctx context.Context, studentID string) ([]models.QuizSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.QuizSubmission{}
	for _, sub := range s.byID {
		if sub.StudentID == studentID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

type fakeFiles struct {
	mu        sync.Mutex
	stored    map[string]string
	discarded []string
	storeErr  error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{stored: map[string]string{}}
}

func (f *fakeFiles) Store(kind, ownerID string, upload dto.FileUpload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return "", f.storeErr
	}
	path := kind + "/" + ownerID + "/" + upload.FileName
	f.stored[path] = upload.FileData
	return path, nil
}

func (f *fakeFiles) Discard(relPath string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, relPath)
	f.discarded = append(f.discarded, relPath)
}

func (f *fakeFiles) Link(ownerID, relPath string) *models.FileLink {
	return &models.FileLink{Name: FileNameFromPath(relPath), URL: "/files/" + ownerID}
}

type metricsSpy struct {
	mu       sync.Mutex
	outcomes map[string]int
	scores   [][2]int
}

func newMetricsSpy() *metricsSpy {
	return &metricsSpy{outcomes: map[string]int{}}
}

func (m *metricsSpy) RecordSubmission(kind, outcome string, late bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[kind+":"+outcome]++
}

func (m *metricsSpy) ObserveQuizScore(score, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, [2]int{score, total})
}

type memStudents struct {
	items []models.StudentSummary
}

func (m memStudents) ListStudents(ctx context.Context, classSection string) ([]models.StudentSummary, error) {
	out := []models.StudentSummary{}
	for _, st := range m.items {
		if classSection == "" || st.ClassSection == classSection {
			out = append(out, st)
		}
	}
	return out, nil
}
