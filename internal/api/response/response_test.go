package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, map[string]string{"id": "a-1"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"id":"a-1"}}`, rec.Body.String())
}

func TestCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"id":1}}`, rec.Body.String())
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusConflict, "ALREADY_ASSIGNED", "job job-1 is already assigned to driver 42",
		map[string]any{"job_id": "job-1", "driver_id": 42})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{
		"error": {
			"code": "ALREADY_ASSIGNED",
			"message": "job job-1 is already assigned to driver 42",
			"details": {"job_id": "job-1", "driver_id": 42}
		}
	}`, rec.Body.String())
}

func TestError_OmitsEmptyDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)

	assert.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"Job not found"}}`, rec.Body.String())
}
