package models

import "time"

// SchoolRegistration records the one-off registration of a school by UDISE code.
type SchoolRegistration struct {
	ID           string    `db:"id" json:"id"`
	SchoolName   string    `db:"school_name" json:"school_name"`
	UdiseCode    string    `db:"udise_code" json:"udise_code"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

// SchoolSettings is an append-only history of school name changes.
type SchoolSettings struct {
	ID         string    `db:"id" json:"id"`
	SchoolName string    `db:"school_name" json:"school_name"`
	UpdatedBy  string    `db:"updated_by" json:"updated_by"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
