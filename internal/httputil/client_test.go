package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStandardClient_Wraps(t *testing.T) {
	customClient := &http.Client{}
	client := NewStandardClient(customClient)

	if client.Client != customClient {
		t.Error("expected custom client to be wrapped")
	}
	if NewStandardClient(nil).Client != http.DefaultClient {
		t.Error("nil client should fall back to http.DefaultClient")
	}
}

func TestFetchBytes_Server(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/plots/compression.png" {
			NotFound(w, "no such plot")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNG"))
	}))
	defer srv.Close()

	c := NewStandardClient(srv.Client())

	body, err := FetchBytes(context.Background(), c, srv.URL+"/plots/compression.png")
	if err != nil {
		t.Fatalf("FetchBytes: %v", err)
	}
	if string(body) != "\x89PNG" {
		t.Errorf("body = %q", body)
	}

	_, err = FetchBytes(context.Background(), c, srv.URL+"/plots/nope.png")
	if err == nil || !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "no such plot") {
		t.Errorf("expected 404 error with message, got %v", err)
	}
}

func TestFetchBytes_Mock(t *testing.T) {
	mock := NewMockHTTPClient().
		Handle("/ok", MockResponse{StatusCode: http.StatusOK, Body: []byte("data")}).
		Handle("/broken", MockResponse{Error: errors.New("connection reset")})

	body, err := FetchBytes(context.Background(), mock, "http://pasture.local/ok")
	if err != nil || string(body) != "data" {
		t.Errorf("FetchBytes(/ok) = %q, %v", body, err)
	}

	if _, err := FetchBytes(context.Background(), mock, "http://pasture.local/broken"); err == nil {
		t.Error("expected transport error")
	}
	if _, err := FetchBytes(context.Background(), mock, "http://pasture.local/missing"); err == nil {
		t.Error("expected 404 error")
	}

	reqs := mock.Requests()
	if len(reqs) != 3 {
		t.Fatalf("got %d requests, want 3", len(reqs))
	}
	if reqs[0].Method != http.MethodGet {
		t.Errorf("method = %s, want GET", reqs[0].Method)
	}
}

func TestFetchBytes_BadURL(t *testing.T) {
	if _, err := FetchBytes(context.Background(), NewMockHTTPClient(), "://bad"); err == nil {
		t.Error("expected error for malformed URL")
	}
}
