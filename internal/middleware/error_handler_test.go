package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Eursukkul/classpass-service/internal/dto"
	"github.com/Eursukkul/classpass-service/internal/validation"
	"github.com/Eursukkul/classpass-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, err error) (*httptest.ResponseRecorder, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/class-passes/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewErrorHandler(logger.New(logger.Config{Output: &logs}))(err, c)
	return rec, &logs
}

func TestErrorHandler_HTTPErrorMessage(t *testing.T) {
	rec, logs := run(t, echo.NewHTTPError(http.StatusNotFound, "Class pass not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Class pass not found"}`, rec.Body.String())
	assert.Empty(t, logs.String())
}

func TestErrorHandler_ValidationBody(t *testing.T) {
	body := dto.ErrorResponse{
		Message: "Invalid input data",
		Errors:  validation.Field("studioName", "is required"),
	}
	rec, _ := run(t, echo.NewHTTPError(http.StatusBadRequest, body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var got dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Invalid input data", got.Message)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, "studioName", got.Errors[0].Field)
}

func TestErrorHandler_PlainErrorIsHidden(t *testing.T) {
	rec, logs := run(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal Server Error"}`, rec.Body.String())
	assert.Contains(t, logs.String(), "pq: connection refused")
}

func TestErrorHandler_LogsInternalCause(t *testing.T) {
	he := echo.NewHTTPError(http.StatusInternalServerError, "Failed to check in").
		SetInternal(errors.New("disk full"))
	rec, logs := run(t, he)

	assert.JSONEq(t, `{"message":"Failed to check in"}`, rec.Body.String())
	assert.Contains(t, logs.String(), "disk full")
}
