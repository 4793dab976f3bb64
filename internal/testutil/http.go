// Package testutil holds HTTP helpers shared by handler and router tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func ExecuteRequest(req *http.Request, handler http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// PostJSON sends body to path as a JSON POST.
func PostJSON(handler http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return ExecuteRequest(req, handler)
}

// Do sends a bodyless request.
func Do(handler http.Handler, method, path string) *httptest.ResponseRecorder {
	return ExecuteRequest(httptest.NewRequest(method, path, nil), handler)
}

func CheckResponseCode(t testing.TB, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

func DecodeJSONBody(t testing.TB, body io.Reader, dst any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
}

// CheckErrorResponse asserts the status and the "error" field of an error body.
func CheckErrorResponse(t testing.TB, rr *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	CheckResponseCode(t, status, rr.Code)

	var body map[string]string
	DecodeJSONBody(t, rr.Body, &body)
	if body["error"] != msg {
		t.Fatalf("expected error %q, got %q", msg, body["error"])
	}
}
