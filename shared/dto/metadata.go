package dto

import (
	"time"

	"innkeep/shared/constant"
	"innkeep/shared/model"
	"innkeep/shared/timezone"
)

// Metadata is the audit block embedded in every resource response.
type Metadata struct {
	CreatedAt  string `json:"created_at,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(src model.Metadata) {
	m.CreatedAt = formatInstant(src.CreatedAt)
	m.ModifiedAt = formatInstant(src.ModifiedAt)
	m.CreatedBy = src.CreatedBy
	m.ModifiedBy = src.ModifiedBy
}

func formatInstant(t time.Time) string {
	if t.IsZero() {
		return constant.Empty
	}

	return timezone.Format(t, constant.DateFormat)
}
