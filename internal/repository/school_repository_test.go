package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiksha-api/internal/models"
)

func TestSchoolRegisterDuplicateUdise(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (udise_code) DO NOTHING RETURNING id")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.RegisterIfAbsent(context.Background(), &models.SchoolRegistration{ID: "r1", SchoolName: "KV", UdiseCode: "0901", RegisteredAt: time.Now()})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSchoolLatestSettingsEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM school_settings ORDER BY updated_at DESC LIMIT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "school_name", "updated_by", "updated_at"}))

	_, err := repo.LatestSettings(context.Background())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSchoolFirstRegistration(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectQuery("FROM school_registration").
		WillReturnRows(sqlmock.NewRows([]string{"id", "school_name", "udise_code", "registered_at"}).AddRow("r1", "KV Delhi", "0901", time.Now()))

	reg, err := repo.FirstRegistration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "KV Delhi", reg.SchoolName)
}
