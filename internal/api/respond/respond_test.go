package respond

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
)

func TestErrorWritesMessageEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events/abc", nil)

	Error(rec, req, 404, "Not found", errors.New("row missing"))

	if rec.Code != 404 {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "Not found" {
		t.Fatalf("unexpected body: %v", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestValidationErrorsEnumeratesFields(t *testing.T) {
	rec := httptest.NewRecorder()

	ValidationErrors(rec, map[string]string{
		"title":    "is required",
		"dateTime": "must be an RFC 3339 timestamp",
	})

	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Errors) != 2 {
		t.Fatalf("expected both fields enumerated, got %v", body.Errors)
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events", nil)

	InternalError(rec, req, errors.New("pq: connection refused"))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "Internal server error" {
		t.Fatalf("internal detail leaked: %v", body)
	}
}
