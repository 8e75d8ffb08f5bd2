package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellimer/econify/orchestrator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine.ServeHTTP(rec, req)
	return rec
}

func TestHandleNormalizeReturnsReport(t *testing.T) {
	s := NewServer(orchestrator.Options{})

	rec := postJSON(t, s, "/v1/normalize", map[string]any{
		"observations": []map[string]any{
			{"name": "exports", "value": 100, "unit": "USD Million"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var report orchestrator.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Len(t, report.Data, 1)
}

func TestHandleNormalizeRejectsMalformedBody(t *testing.T) {
	s := NewServer(orchestrator.Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/normalize", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleValidateReturnsIssues(t *testing.T) {
	s := NewServer(orchestrator.Options{})

	rec := postJSON(t, s, "/v1/validate", map[string]any{
		"observations": []map[string]any{
			{"name": "exports", "value": 100, "unit": ""},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Valid  bool `json:"valid"`
		Score  int  `json:"score"`
		Issues []struct {
			Field string `json:"field"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Issues)
	assert.Equal(t, "unit", body.Issues[0].Field)
}
