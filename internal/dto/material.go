package dto

import "github.com/noah-isme/shiksha-api/internal/models"

// CreateMaterialRequest is the POST /materials/create payload.
type CreateMaterialRequest struct {
	Title        string              `json:"title" validate:"required,max=200"`
	Description  string              `json:"description" validate:"required"`
	MaterialType models.MaterialType `json:"material_type" validate:"required,oneof=video link document app other"`
	ClassSection string              `json:"class_section" validate:"required,max=32"`
	URL          *string             `json:"url" validate:"omitempty,url"`
	FileData     *string             `json:"file_data" validate:"omitempty,base64"`
	FileName     *string             `json:"file_name" validate:"required_with=FileData"`
}
