package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/shiksha-api/internal/models"
)

const materialColumns = `id, title, description, material_type, class_section, url, file_path, file_name, uploaded_by, created_at`

// MaterialRepository persists learning materials.
type MaterialRepository struct {
	db *sqlx.DB
}

func NewMaterialRepository(db *sqlx.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) Create(ctx context.Context, material *models.LearningMaterial) error {
	const query = `INSERT INTO learning_materials (` + materialColumns + `)
VALUES (:id, :title, :description, :material_type, :class_section, :url, :file_path, :file_name, :uploaded_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, material); err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// FindByID returns the material or sql.ErrNoRows.
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*models.LearningMaterial, error) {
	const query = `SELECT ` + materialColumns + ` FROM learning_materials WHERE id = $1`
	var material models.LearningMaterial
	if err := r.db.GetContext(ctx, &material, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find material: %w", err)
	}
	return &material, nil
}

func (r *MaterialRepository) List(ctx context.Context) ([]models.LearningMaterial, error) {
	const query = `SELECT ` + materialColumns + ` FROM learning_materials ORDER BY created_at DESC`
	items := make([]models.LearningMaterial, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return items, nil
}

func (r *MaterialRepository) ListByClass(ctx context.Context, classSection string) ([]models.LearningMaterial, error) {
	const query = `SELECT ` + materialColumns + ` FROM learning_materials WHERE class_section = $1 ORDER BY created_at DESC`
	items := make([]models.LearningMaterial, 0)
	if err := r.db.SelectContext(ctx, &items, query, classSection); err != nil {
		return nil, fmt.Errorf("list class materials: %w", err)
	}
	return items, nil
}

// Delete removes the material, returning sql.ErrNoRows when nothing matched.
func (r *MaterialRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM learning_materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete material rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
