package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"innkeep/shared/failure"
	"innkeep/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stayRequest struct {
	HotelID  string `json:"hotel_id"  validate:"required"`
	CheckIn  string `json:"check_in"  validate:"required,day"`
	RoomType string `json:"room_type" validate:"required,oneof=AC NON_AC"`
	Note     string `json:"note"      validate:"omitempty,max=10"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "valid body",
			body: `{"hotel_id":"h-1","check_in":"2025-04-01","room_type":"AC"}`,
		},
		{
			name:    "every failure reported",
			body:    `{"check_in":"01/04/2025","room_type":"AC"}`,
			wantErr: "hotel_id is required; check_in must be a date in YYYY-MM-DD format",
		},
		{
			name:    "malformed json",
			body:    `{"hotel_id":`,
			wantErr: "failed to decode request body",
		},
		{
			name:    "missing field",
			body:    `{"check_in":"2025-04-01","room_type":"AC"}`,
			wantErr: "hotel_id is required",
		},
		{
			name:    "bad day",
			body:    `{"hotel_id":"h-1","check_in":"01/04/2025","room_type":"AC"}`,
			wantErr: "check_in must be a date in YYYY-MM-DD format",
		},
		{
			name:    "bad room type",
			body:    `{"hotel_id":"h-1","check_in":"2025-04-01","room_type":"SUITE"}`,
			wantErr: "room_type must be one of AC NON_AC",
		},
		{
			name:    "note too long",
			body:    `{"hotel_id":"h-1","check_in":"2025-04-01","room_type":"AC","note":"far too long a note"}`,
			wantErr: "note must be at most 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := stayRequest{}
			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("2025-12-31", "day"))
	assert.Error(t, validator.ValidateVar("2025-13-01", "day"))
	assert.EqualError(t, validator.ValidateVar("", "required"), "value is required")
}
