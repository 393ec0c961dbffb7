package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/itinerary-planner/internal/domain"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFail(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		kind    domain.Kind
		message string
	}{
		{"validation", domain.Validation("name is required"), http.StatusBadRequest, domain.KindValidation, "name is required"},
		{"unauthenticated", domain.Unauthenticated("invalid credentials"), http.StatusUnauthorized, domain.KindUnauthenticated, "invalid credentials"},
		{"forbidden", domain.Forbidden("no access"), http.StatusForbidden, domain.KindForbidden, "no access"},
		{"not found", domain.NotFound("itinerary not found"), http.StatusNotFound, domain.KindNotFound, "itinerary not found"},
		{"conflict", domain.Conflict("taken"), http.StatusConflict, domain.KindConflict, "taken"},
		{"wrapped conflict", fmt.Errorf("rename: %w", domain.Conflict("taken")), http.StatusConflict, domain.KindConflict, "rename: taken"},
		{"upstream hides cause", domain.Upstream("flight search failed", errors.New("secret=abc")), http.StatusBadGateway, domain.KindUpstream, "flight search failed"},
		{"internal hides cause", errors.New("pq: connection reset"), http.StatusInternalServerError, domain.KindInternal, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Fail(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.NotContains(t, body, "data")

			errBody, ok := body["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, string(tt.kind), errBody["kind"])
			assert.Equal(t, tt.message, errBody["message"])
		})
	}
}

func TestJSON_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, map[string]int{"id": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"id": float64(7)}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}
