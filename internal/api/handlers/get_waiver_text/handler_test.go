package get_waiver_text

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Sauna-BookingService/internal/service/waivers/models"
)

type stubService struct{}

func (stubService) Text() *models.TextResponse {
	return &models.TextResponse{Version: "v1", Text: "I understand the risks."}
}

func TestHandle(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(stubService{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/waivers/current", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.TextResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "v1", body.Version)
	assert.NotEmpty(t, rec.Header().Get("Cache-Control"))
}
