package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
)

// AttendanceRecord is one student's self-marked attendance for a UTC calendar day.
type AttendanceRecord struct {
	ID           string           `db:"id" json:"id"`
	StudentID    string           `db:"student_id" json:"student_id"`
	StudentName  string           `db:"student_name" json:"student_name"`
	ClassSection string           `db:"class_section" json:"class_section"`
	Date         string           `db:"date" json:"date"`
	Status       AttendanceStatus `db:"status" json:"status"`
	MarkedAt     time.Time        `db:"marked_at" json:"marked_at"`
}

// AttendanceTodayStatus reports whether the caller has marked today.
type AttendanceTodayStatus struct {
	MarkedToday bool   `json:"marked_today"`
	Date        string `json:"date"`
}
