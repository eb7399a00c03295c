package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/books-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		data         interface{}
		expectedBody string
	}{
		{
			name:         "object",
			status:       http.StatusOK,
			data:         map[string]string{"id": "1", "title": "Dune"},
			expectedBody: `{"id":"1","title":"Dune"}`,
		},
		{
			name:         "empty slice is an array",
			status:       http.StatusOK,
			data:         []string{},
			expectedBody: `[]`,
		},
		{
			name:         "nil response",
			status:       http.StatusCreated,
			data:         nil,
			expectedBody: `null`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/books", nil)
			w := httptest.NewRecorder()

			RespondWithJSON(w, req, tc.status, tc.data)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
		})
	}
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	logBuf, _ := logger.SetupTestLogger(t)

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]interface{}{"bad": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logBuf.String(), "failed to encode JSON response")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name             string
		statusCode       int
		message          string
		err              error
		opts             []ResponseOption
		expectedLogLevel string
		wantDetails      []string
	}{
		{
			name:             "server error",
			statusCode:       http.StatusInternalServerError,
			message:          "internal server error",
			err:              errors.New("dial tcp: connection refused"),
			expectedLogLevel: "ERROR",
		},
		{
			name:             "client error defaults to debug",
			statusCode:       http.StatusNotFound,
			message:          "book not found",
			err:              errors.New("not found"),
			expectedLogLevel: "DEBUG",
		},
		{
			name:             "client error with elevated level",
			statusCode:       http.StatusForbidden,
			message:          "insufficient scope",
			err:              errors.New("scope missing"),
			opts:             []ResponseOption{WithElevatedLogLevel()},
			expectedLogLevel: "WARN",
		},
		{
			name:             "rate limiting is always warn",
			statusCode:       http.StatusTooManyRequests,
			message:          "too many requests",
			err:              errors.New("rate limit exceeded"),
			expectedLogLevel: "WARN",
		},
		{
			name:             "details are exposed",
			statusCode:       http.StatusBadRequest,
			message:          "validation error",
			err:              errors.New("validation failed"),
			opts:             []ResponseOption{WithDetails([]string{`"title" is required`})},
			expectedLogLevel: "DEBUG",
			wantDetails:      []string{`"title" is required`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logBuf, _ := logger.SetupTestLogger(t)

			ctx := context.WithValue(context.Background(), TraceIDKey, "test-trace-id")
			req := httptest.NewRequest(http.MethodGet, "/books/1", nil).WithContext(ctx)
			w := httptest.NewRecorder()

			RespondWithErrorAndLog(w, req, tc.statusCode, tc.message, tc.err, tc.opts...)

			assert.Equal(t, tc.statusCode, w.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tc.message, response.Message)
			assert.Equal(t, "test-trace-id", response.TraceID)
			assert.Equal(t, tc.wantDetails, response.Details)

			entries, err := logBuf.GetLogEntries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tc.expectedLogLevel, entries[0]["level"])
			assert.Equal(t, "test-trace-id", entries[0]["trace_id"])
			assert.Equal(t, tc.message, entries[0]["user_message"])
			assert.Contains(t, entries[0], "error_type")
		})
	}
}

func TestRespondWithErrorAndLog_RedactsError(t *testing.T) {
	logBuf, _ := logger.SetupTestLogger(t)

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	w := httptest.NewRecorder()

	err := errors.New("connect postgres://books:s3cret@db:5432/books failed")
	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "internal server error", err)

	assert.NotContains(t, logBuf.String(), "s3cret")
	assert.NotContains(t, w.Body.String(), "postgres://")

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response.TraceID)
	assert.Nil(t, response.Details)
}
