package dto

// StudentDashboardResponse aggregates everything a student's home
// screen shows. Cached, so keep it JSON round-trippable.
type StudentDashboardResponse struct {
	Assignments  []AssignmentResponse      `json:"assignments"`
	Submissions  []SubmissionResponse      `json:"submissions"`
	Attendance   AttendanceSummaryResponse `json:"attendance"`
	PendingCount int                       `json:"pending_count"`
	AverageScore float64                   `json:"average_score"`
}

// TeacherDashboardResponse aggregates a teacher's class overview.
type TeacherDashboardResponse struct {
	Assignments     []AssignmentResponse `json:"assignments"`
	SubmissionCount int64                `json:"submission_count"`
	StudentCount    int64                `json:"student_count"`
}
