package dto

// RegisterSchoolRequest is the POST /school/register payload.
type RegisterSchoolRequest struct {
	SchoolName string `json:"school_name" validate:"required,max=200"`
	UdiseCode  string `json:"udise_code" validate:"required,max=32"`
}

// RegistrationStatus answers GET /school/check-registration.
type RegistrationStatus struct {
	Registered bool   `json:"registered"`
	SchoolName string `json:"school_name,omitempty"`
}

// UpdateSchoolSettingsRequest is accepted as JSON body or query parameter.
type UpdateSchoolSettingsRequest struct {
	SchoolName string `json:"school_name" form:"school_name" validate:"required,max=200"`
}

// SchoolSettingsResponse is the effective school name.
type SchoolSettingsResponse struct {
	SchoolName string `json:"school_name"`
}
