package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"innkeep/shared/failure"
	"innkeep/transport/http/response"

	"github.com/stretchr/testify/assert"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{
			name: "domain failure keeps its message",
			err:  failure.Wrap(failure.ErrInsufficientInventory, "hotel h-1 has 0 AC rooms left"),
			code: http.StatusBadRequest,
			body: `{"error":"insufficient inventory: hotel h-1 has 0 AC rooms left"}`,
		},
		{
			name: "invariant violation is still a failure",
			err:  failure.ErrInvariantViolation,
			code: http.StatusInternalServerError,
		},
		{
			name: "unknown error is masked",
			err:  fmt.Errorf("failed to query: %w", errors.New("pq: password authentication failed")),
			code: http.StatusInternalServerError,
			body: `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.code, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

			if tt.body != "" {
				assert.JSONEq(t, tt.body, recorder.Body.String())
			}
		})
	}
}

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()
	response.WithJSON(recorder, http.StatusCreated, map[string]int{"nights": 3})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"nights":3}}`, recorder.Body.String())
}

func TestWithJSON_UnencodablePayload(t *testing.T) {
	recorder := httptest.NewRecorder()
	response.WithJSON(recorder, http.StatusOK, map[string]any{"fn": func() {}})

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestWithMessage(t *testing.T) {
	recorder := httptest.NewRecorder()
	response.WithRequestLimitExceeded(recorder)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.JSONEq(t, `{"message":"REQUEST LIMIT EXCEEDED"}`, recorder.Body.String())
}
