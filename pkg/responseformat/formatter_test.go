package responseformat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type payload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestWriteResponseJSONDefault(t *testing.T) {
	f := NewFormatter()
	req := httptest.NewRequest(http.MethodGet, "/api/thing", nil)
	rec := httptest.NewRecorder()

	err := f.WriteResponse(rec, req, payload{Name: "asc", Value: 102.5}, map[string]string{"X-Extra": "1"})
	if err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
	if rec.Header().Get("X-Extra") != "1" {
		t.Error("caller-provided header not set")
	}

	var got payload
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got != (payload{Name: "asc", Value: 102.5}) {
		t.Errorf("round trip = %+v", got)
	}
}

func TestWriteResponseMsgPack(t *testing.T) {
	f := NewFormatter()
	req := httptest.NewRequest(http.MethodGet, "/api/thing?format=msgpack", nil)
	rec := httptest.NewRecorder()

	if err := f.WriteResponse(rec, req, payload{Name: "moon", Value: 33.068}, nil); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/x-msgpack" {
		t.Errorf("Content-Type = %q, want application/x-msgpack", ct)
	}

	// Field names come from the json tags in both encodings.
	dec := msgpack.NewDecoder(rec.Body)
	dec.SetCustomStructTag("json")
	var got payload
	if err := dec.Decode(&got); err != nil {
		t.Fatalf("decoding msgpack: %v", err)
	}
	if got.Name != "moon" || got.Value != 33.068 {
		t.Errorf("round trip = %+v", got)
	}
}

func TestWriteError(t *testing.T) {
	f := NewFormatter()
	req := httptest.NewRequest(http.MethodPost, "/api/thing", nil)
	rec := httptest.NewRecorder()

	if err := f.WriteError(rec, req, http.StatusBadRequest, "bad date"); err != nil {
		t.Fatalf("WriteError: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error != "bad date" {
		t.Errorf("error = %q, want \"bad date\"", body.Error)
	}
}
