package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/princekumarofficial/video-service/internal/utils/apperror"
)

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/abc", nil)

	Error(rec, req, apperror.InvalidInput("invalid video id"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != StatusError || body["message"] != "invalid video id" {
		t.Fatalf("unexpected body %v", body)
	}
	if _, ok := body["data"]; ok {
		t.Fatal("error envelope must not carry data")
	}
}

func TestErrorEnvelopeHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", nil)

	Error(rec, req, apperror.PersistenceFailed("failed to save video", errors.New("pq: deadlock")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "failed to save video" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestRequestOKKeepsEmptySlice(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, http.StatusOK, RequestOK("Successfully fetched videos", []string{}))

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, ok := body["data"].([]interface{})
	if !ok || len(data) != 0 {
		t.Fatalf("expected empty data array, got %v", body["data"])
	}
}
