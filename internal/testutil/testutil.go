// Package testutil provides shared test utilities and fixtures.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/banshee-data/pasture.report/internal/pasture"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t testing.TB, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// NewTestRequest creates a test HTTP request with the given query parameters.
func NewTestRequest(method, path string, query url.Values) *http.Request {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return httptest.NewRequest(method, path, nil)
}

// DecodeJSON decodes the recorder body into v, failing the test on error.
func DecodeJSON(t testing.TB, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q, want application/json", ct)
	}
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v\nbody: %s", err, rec.Body.String())
	}
}

// ReferenceQuery is the worked example used across tests: 1.5 kgf on medium
// pasture at NDVI 0.65 with the default coefficients, which gives 9.81 cm,
// 5871.5 kg MS/ha and 9.2 % crude protein.
func ReferenceQuery() url.Values {
	c := pasture.DefaultCoefficients()
	q := url.Values{}
	q.Set("weight", "1.5")
	q.Set("stiffness", "1.5")
	q.Set("ndvi", "0.65")
	for name, v := range map[string]float64{"a": c.A, "b": c.B, "c": c.C, "d": c.D, "e": c.E} {
		q.Set(name, jsonNumber(v))
	}
	return q
}

func jsonNumber(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
