package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/classboard-dev/classboard-api/internal/models"
)

type dashboardFixture struct {
	svc         DashboardService
	users       *memoryUserRepo
	assignments *memoryAssignmentRepo
	submissions *memorySubmissionRepo
	attendance  *memoryAttendanceRepo
	mini        *miniredis.Miniredis
}

func newDashboardFixture(t *testing.T) dashboardFixture {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	f := dashboardFixture{
		users:       newMemoryUserRepo(),
		assignments: newMemoryAssignmentRepo(),
		submissions: newMemorySubmissionRepo(),
		attendance:  newMemoryAttendanceRepo(),
		mini:        mini,
	}
	f.svc = NewDashboardService(f.users, f.assignments, f.submissions, f.attendance, redisClient, time.Minute, testLogger())
	return f
}

func (f dashboardFixture) seedStudentWorld(t *testing.T) models.User {
	t.Helper()
	ctx := context.Background()

	student := models.User{Username: "ananya", Email: "a@example.com", Role: models.RoleStudent, ClassName: "10", Division: "A"}
	require.NoError(t, f.users.Create(ctx, &student))

	first := models.Assignment{Title: "Trig", ClassName: "10", Division: "A", SubjectName: "Maths", TeacherID: 7}
	second := models.Assignment{Title: "Essay", ClassName: "10", Division: "A", SubjectName: "English", TeacherID: 7}
	require.NoError(t, f.assignments.Create(ctx, &first))
	require.NoError(t, f.assignments.Create(ctx, &second))

	submission := models.Submission{
		AssignmentID: first.ID,
		StudentID:    student.ID,
		Score:        80,
		Feedback:     datatypes.JSONMap{"Accuracy": "Good"},
	}
	require.NoError(t, f.submissions.Create(ctx, &submission))

	require.NoError(t, f.attendance.CreateBatch(ctx, []models.Attendance{
		{StudentID: student.ID, Status: models.AttendancePresent, Date: time.Now()},
		{StudentID: student.ID, Status: models.AttendanceAbsent, Date: time.Now()},
	}))

	return student
}

func TestStudentDashboardAggregates(t *testing.T) {
	f := newDashboardFixture(t)
	student := f.seedStudentWorld(t)

	resp, err := f.svc.StudentDashboard(context.Background(), student)
	require.NoError(t, err)
	require.Len(t, resp.Assignments, 2)
	require.Len(t, resp.Submissions, 1)
	require.Equal(t, 1, resp.PendingCount)
	require.InDelta(t, 80.0, resp.AverageScore, 0.001)
	require.Equal(t, int64(2), resp.Attendance.Total)
	require.InDelta(t, 50.0, resp.Attendance.Percentage, 0.001)
}

func TestStudentDashboardServesFromCache(t *testing.T) {
	f := newDashboardFixture(t)
	student := f.seedStudentWorld(t)

	first, err := f.svc.StudentDashboard(context.Background(), student)
	require.NoError(t, err)

	// New data after the cache fill is not visible until the TTL lapses.
	extra := models.Assignment{Title: "Late addition", ClassName: "10", Division: "A", SubjectName: "Maths", TeacherID: 7}
	require.NoError(t, f.assignments.Create(context.Background(), &extra))

	cached, err := f.svc.StudentDashboard(context.Background(), student)
	require.NoError(t, err)
	require.Equal(t, len(first.Assignments), len(cached.Assignments))

	f.mini.FastForward(2 * time.Minute)

	fresh, err := f.svc.StudentDashboard(context.Background(), student)
	require.NoError(t, err)
	require.Len(t, fresh.Assignments, 3)
}

func TestTeacherDashboardCounts(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	teacher := models.User{Username: "mr-rao", Email: "rao@example.com", Role: models.RoleTeacher}
	require.NoError(t, f.users.Create(ctx, &teacher))

	student := models.User{Username: "ananya", Email: "a@example.com", Role: models.RoleStudent, ClassName: "10", Division: "A"}
	require.NoError(t, f.users.Create(ctx, &student))

	assignment := models.Assignment{Title: "Trig", ClassName: "10", Division: "A", SubjectName: "Maths", TeacherID: teacher.ID}
	require.NoError(t, f.assignments.Create(ctx, &assignment))

	submission := models.Submission{AssignmentID: assignment.ID, StudentID: student.ID, Score: 70}
	require.NoError(t, f.submissions.Create(ctx, &submission))

	resp, err := f.svc.TeacherDashboard(ctx, teacher)
	require.NoError(t, err)
	require.Len(t, resp.Assignments, 1)
	require.Equal(t, int64(1), resp.SubmissionCount)
	require.Equal(t, int64(1), resp.StudentCount)
}

func TestDashboardWorksWithoutCache(t *testing.T) {
	f := dashboardFixture{
		users:       newMemoryUserRepo(),
		assignments: newMemoryAssignmentRepo(),
		submissions: newMemorySubmissionRepo(),
		attendance:  newMemoryAttendanceRepo(),
	}
	f.svc = NewDashboardService(f.users, f.assignments, f.submissions, f.attendance, nil, time.Minute, testLogger())
	student := f.seedStudentWorld(t)

	resp, err := f.svc.StudentDashboard(context.Background(), student)
	require.NoError(t, err)
	require.Len(t, resp.Assignments, 2)
}
