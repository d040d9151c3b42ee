package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/shiksha-api/internal/models"
)

// SchoolRepository stores the school registration and settings history.
type SchoolRepository struct {
	db *sqlx.DB
}

func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// RegisterIfAbsent stores the registration unless the UDISE code is taken.
func (r *SchoolRepository) RegisterIfAbsent(ctx context.Context, reg *models.SchoolRegistration) error {
	const query = `INSERT INTO school_registration (id, school_name, udise_code, registered_at)
VALUES (:id, :school_name, :udise_code, :registered_at)
ON CONFLICT (udise_code) DO NOTHING RETURNING id`
	if err := insertReturning(ctx, r.db, query, reg); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return err
		}
		return fmt.Errorf("register school: %w", err)
	}
	return nil
}

// FirstRegistration returns the earliest registration or sql.ErrNoRows.
func (r *SchoolRepository) FirstRegistration(ctx context.Context) (*models.SchoolRegistration, error) {
	const query = `SELECT id, school_name, udise_code, registered_at FROM school_registration ORDER BY registered_at LIMIT 1`
	var reg models.SchoolRegistration
	if err := r.db.GetContext(ctx, &reg, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find school registration: %w", err)
	}
	return &reg, nil
}

// LatestSettings returns the most recent settings row or sql.ErrNoRows.
func (r *SchoolRepository) LatestSettings(ctx context.Context) (*models.SchoolSettings, error) {
	const query = `SELECT id, school_name, updated_by, updated_at FROM school_settings ORDER BY updated_at DESC LIMIT 1`
	var settings models.SchoolSettings
	if err := r.db.GetContext(ctx, &settings, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find school settings: %w", err)
	}
	return &settings, nil
}

// InsertSettings appends a settings row; history is never rewritten.
func (r *SchoolRepository) InsertSettings(ctx context.Context, settings *models.SchoolSettings) error {
	const query = `INSERT INTO school_settings (id, school_name, updated_by, updated_at)
VALUES (:id, :school_name, :updated_by, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("insert school settings: %w", err)
	}
	return nil
}
