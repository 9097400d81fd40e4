package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetStringValue(t *testing.T) {
	if got := GetStringValue(nil); got != "" {
		t.Fatalf("expected empty string for nil pointer, got %q", got)
	}
	s := "https://img.test/key.png"
	if got := GetStringValue(&s); got != s {
		t.Fatalf("expected %q, got %q", s, got)
	}
}

func TestWriteJSONEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusTeapot, APIResponse{Success: false, Message: "nope"})

	if w.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q", ct)
	}

	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Success || resp.Message != "nope" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}
