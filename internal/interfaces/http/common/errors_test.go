package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Austinekay/mainserver/internal/public/application"
)

func TestWriteError(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "invalid query with detail",
			err:     fmt.Errorf("%w: rating must be between 1 and 5", application.ErrInvalidQuery),
			status:  http.StatusBadRequest,
			message: "rating must be between 1 and 5",
		},
		{
			name:    "not found",
			err:     fmt.Errorf("%w: shop abc", application.ErrNotFound),
			status:  http.StatusNotFound,
			message: "shop abc",
		},
		{
			name:    "forbidden",
			err:     fmt.Errorf("%w: not authorized to update this shop", application.ErrForbidden),
			status:  http.StatusForbidden,
			message: "not authorized to update this shop",
		},
		{
			name:    "duplicate",
			err:     fmt.Errorf("%w: you have already reviewed this shop", application.ErrDuplicate),
			status:  http.StatusBadRequest,
			message: "you have already reviewed this shop",
		},
		{
			name:    "configuration is opaque",
			err:     fmt.Errorf("%w: ranking service credential missing", application.ErrConfiguration),
			status:  http.StatusInternalServerError,
			message: "API configuration error",
		},
		{
			name:    "upstream is opaque",
			err:     fmt.Errorf("%w: failed to get recommendations: timeout", application.ErrUpstream),
			status:  http.StatusInternalServerError,
			message: "Failed to get recommendations",
		},
		{
			name:    "unknown error is opaque",
			err:     errors.New("mongo: socket closed"),
			status:  http.StatusInternalServerError,
			message: "Internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(logger, rec, tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status: got %d, want %d", rec.Code, tc.status)
			}
			var payload ErrorPayload
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if payload.Message != tc.message {
				t.Fatalf("message: got %q, want %q", payload.Message, tc.message)
			}
		})
	}
}
