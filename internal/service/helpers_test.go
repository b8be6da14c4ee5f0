package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"testing"

	"github.com/classboard-dev/classboard-api/internal/models"
	"github.com/classboard-dev/classboard-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func newTestFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(int64(len(content))+1024))
	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

type memoryUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uint]models.User), nextID: 1}
}

func (m *memoryUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) ListByRole(_ context.Context, role string) ([]models.User, error) {
	results := make([]models.User, 0)
	for _, user := range m.users {
		if user.Role == role {
			results = append(results, user)
		}
	}
	return results, nil
}

func (m *memoryUserRepo) ListStudentsByClass(_ context.Context, className, division string) ([]models.User, error) {
	results := make([]models.User, 0)
	for _, user := range m.users {
		if user.Role == models.RoleStudent && user.ClassName == className && user.Division == division {
			results = append(results, user)
		}
	}
	return results, nil
}

func (m *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = m.nextID
	m.users[m.nextID] = *user
	m.nextID++
	return nil
}

func (m *memoryUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

type memoryAssignmentRepo struct {
	assignments map[uint]models.Assignment
	nextID      uint
}

func newMemoryAssignmentRepo() *memoryAssignmentRepo {
	return &memoryAssignmentRepo{assignments: make(map[uint]models.Assignment), nextID: 1}
}

func (m *memoryAssignmentRepo) GetByID(_ context.Context, id uint) (models.Assignment, error) {
	assignment, ok := m.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (m *memoryAssignmentRepo) ListByTeacher(_ context.Context, teacherID uint) ([]models.Assignment, error) {
	results := make([]models.Assignment, 0)
	for _, assignment := range m.assignments {
		if assignment.TeacherID == teacherID {
			results = append(results, assignment)
		}
	}
	return results, nil
}

func (m *memoryAssignmentRepo) ListByClass(_ context.Context, className, division string) ([]models.Assignment, error) {
	results := make([]models.Assignment, 0)
	for _, assignment := range m.assignments {
		if assignment.ClassName == className && assignment.Division == division {
			results = append(results, assignment)
		}
	}
	return results, nil
}

func (m *memoryAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	assignment.ID = m.nextID
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()
	m.assignments[m.nextID] = *assignment
	m.nextID++
	return nil
}

func (m *memoryAssignmentRepo) Update(_ context.Context, assignment *models.Assignment) error {
	if _, ok := m.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	assignment.UpdatedAt = time.Now()
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryAssignmentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, id)
	return nil
}

type memorySubmissionRepo struct {
	submissions map[uint]models.Submission
	nextID      uint
}

func newMemorySubmissionRepo() *memorySubmissionRepo {
	return &memorySubmissionRepo{submissions: make(map[uint]models.Submission), nextID: 1}
}

func (m *memorySubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	results := make([]models.Submission, 0)
	for _, submission := range m.submissions {
		if filter.AssignmentID != nil && submission.AssignmentID != *filter.AssignmentID {
			continue
		}
		if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
			continue
		}
		results = append(results, submission)
	}
	return results, nil
}

func (m *memorySubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	submission, ok := m.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (m *memorySubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	submission.ID = m.nextID
	submission.CreatedAt = time.Now()
	m.submissions[m.nextID] = *submission
	m.nextID++
	return nil
}

type memoryAttendanceRepo struct {
	records []models.Attendance
	nextID  uint
}

func newMemoryAttendanceRepo() *memoryAttendanceRepo {
	return &memoryAttendanceRepo{nextID: 1}
}

func (m *memoryAttendanceRepo) CreateBatch(_ context.Context, records []models.Attendance) error {
	for i := range records {
		records[i].ID = m.nextID
		m.nextID++
		m.records = append(m.records, records[i])
	}
	return nil
}

func (m *memoryAttendanceRepo) ListByStudent(_ context.Context, studentID uint) ([]models.Attendance, error) {
	results := make([]models.Attendance, 0)
	for _, record := range m.records {
		if record.StudentID == studentID {
			results = append(results, record)
		}
	}
	return results, nil
}

func (m *memoryAttendanceRepo) ListByClassAndDate(_ context.Context, className, division string, date time.Time) ([]models.Attendance, error) {
	results := make([]models.Attendance, 0)
	for _, record := range m.records {
		if record.ClassName == className && record.Division == division && record.Date.Equal(date) {
			results = append(results, record)
		}
	}
	return results, nil
}

func (m *memoryAttendanceRepo) Summarize(_ context.Context, studentID uint) (repository.AttendanceSummary, error) {
	var summary repository.AttendanceSummary
	for _, record := range m.records {
		if record.StudentID != studentID {
			continue
		}
		summary.Total++
		if record.Status == models.AttendancePresent {
			summary.Present++
		}
	}
	return summary, nil
}

// recordingMailer captures outgoing mail for assertions.
type recordingMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// stubChatClient implements ai.ChatClient for service-level tests.
type stubChatClient struct {
	textResponse   string
	jsonResponse   string
	visionResponse string
	textErr        error
	jsonErr        error
	visionErr      error
	textCalls      int
	jsonCalls      int
	visionCalls    int
	lastPrompt     string
}

func (s *stubChatClient) CompleteText(_ context.Context, _, _ string, prompt string) (string, error) {
	s.textCalls++
	s.lastPrompt = prompt
	if s.textErr != nil {
		return "", s.textErr
	}
	return s.textResponse, nil
}

func (s *stubChatClient) CompleteJSON(_ context.Context, _ string, prompt string) (string, error) {
	s.jsonCalls++
	s.lastPrompt = prompt
	if s.jsonErr != nil {
		return "", s.jsonErr
	}
	return s.jsonResponse, nil
}

func (s *stubChatClient) TranscribeImage(_ context.Context, _, _ string, _ []byte) (string, error) {
	s.visionCalls++
	if s.visionErr != nil {
		return "", s.visionErr
	}
	return s.visionResponse, nil
}

var errStub = errors.New("stub failure")
