package models

import "time"

// SchoolOverview is the principal's headline counters.
type SchoolOverview struct {
	TotalStudents        int     `db:"total_students" json:"total_students"`
	TotalTeachers        int     `db:"total_teachers" json:"total_teachers"`
	TotalHomework        int     `db:"total_homework" json:"total_homework"`
	TotalQuizzes         int     `db:"total_quizzes" json:"total_quizzes"`
	TotalMaterials       int     `db:"total_materials" json:"total_materials"`
	TodayAttendance      int     `db:"today_attendance" json:"today_attendance"`
	AttendancePercentage float64 `db:"-" json:"attendance_percentage"`
	TotalSubmissions     int     `db:"total_submissions" json:"total_submissions"`
	PendingHomework      int     `db:"-" json:"pending_homework"`
	TotalQuizSubmissions int     `db:"total_quiz_submissions" json:"total_quiz_submissions"`
}

// ClassPerformance aggregates student activity for one class section.
type ClassPerformance struct {
	ClassSection        string `db:"class_section" json:"class_section"`
	TotalStudents       int    `db:"total_students" json:"total_students"`
	AttendanceCount     int    `db:"attendance_count" json:"attendance_count"`
	HomeworkSubmissions int    `db:"homework_submissions" json:"homework_submissions"`
	QuizSubmissions     int    `db:"quiz_submissions" json:"quiz_submissions"`
}

// TeacherActivity counts what a teacher has published.
type TeacherActivity struct {
	TeacherName       string `db:"teacher_name" json:"teacher_name"`
	Email             string `db:"email" json:"email"`
	HomeworkCreated   int    `db:"homework_created" json:"homework_created"`
	QuizzesCreated    int    `db:"quizzes_created" json:"quizzes_created"`
	MaterialsUploaded int    `db:"materials_uploaded" json:"materials_uploaded"`
	TotalActivity     int    `db:"total_activity" json:"total_activity"`
}

// DailyAttendanceCount is the number of marks recorded on a date.
type DailyAttendanceCount struct {
	Date  string `db:"date" json:"date"`
	Count int    `db:"count" json:"count"`
}

// RecentActivity is a homework or quiz publication event.
type RecentActivity struct {
	Type         string    `db:"type" json:"type"`
	Title        string    `db:"title" json:"title"`
	ClassSection *string   `db:"class_section" json:"class_section,omitempty"`
	CreatedBy    string    `db:"created_by" json:"created_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// TeacherDashboard is the teacher view of /dashboard/stats.
type TeacherDashboard struct {
	TotalStudents   int `db:"total_students" json:"total_students"`
	TotalHomework   int `db:"total_homework" json:"total_homework"`
	TotalQuizzes    int `db:"total_quizzes" json:"total_quizzes"`
	TodayAttendance int `db:"today_attendance" json:"today_attendance"`
}

// StudentDashboard is the student view of /dashboard/stats.
type StudentDashboard struct {
	TotalSubmissions     int `db:"total_submissions" json:"total_submissions"`
	TotalQuizSubmissions int `db:"total_quiz_submissions" json:"total_quiz_submissions"`
	AttendanceDays       int `db:"attendance_days" json:"attendance_days"`
	PendingHomework      int `db:"pending_homework" json:"pending_homework"`
}
