package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/soundforge/beatscan/internal/models"
)

// OrganizeRequest is the request body for POST /api/organize.
type OrganizeRequest struct {
	Directory           string `json:"directory"`
	UserID              int64  `json:"user_id"`
	ProjectID           int64  `json:"project_id"`
	GenerateSpectrogram bool   `json:"generate_spectrogram"`
	Theme               string `json:"theme"`
}

// Validate validates the organize request. An empty theme defaults to
// light downstream.
func (r *OrganizeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Directory, validation.Required),
		validation.Field(&r.UserID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.ProjectID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Theme, validation.In("dark", "light")),
	)
}

// OrganizeResponse is the response body for POST /api/organize. It
// carries the same fields as the report file surface.
type OrganizeResponse = models.BatchReport
