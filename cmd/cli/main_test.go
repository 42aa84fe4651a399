package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hamed0406/sslchecker/internal/domain"
)

func TestCheckCmd_ThroughAPI(t *testing.T) {
	var gotHost, gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.URL.Query().Get("host")
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.Response{Success: true, StatusCode: 200, Message: "SSL certificate for example.com is valid. There are 9 days until expiration."})
	}))
	defer ts.Close()

	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"check", "Example.com", "--api", ts.URL, "--api-key", "pub_x"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if gotHost != "example.com" || gotKey != "pub_x" {
		t.Fatalf("API saw host=%q key=%q", gotHost, gotKey)
	}
	if !strings.Contains(out.String(), "9 days until expiration") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestCheckCmd_FailureExitsNonZero(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		_ = json.NewEncoder(w).Encode(domain.Response{StatusCode: 500, Message: "Error checking SSL certificate for example.com as it was expired."})
	}))
	defer ts.Close()

	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"check", "example.com", "--api", ts.URL, "--json"})
	err := root.Execute()
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("want errCheckFailed, got %v", err)
	}
	var resp domain.Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil || resp.StatusCode != 500 {
		t.Fatalf("want JSON envelope, got %q (%v)", out.String(), err)
	}
}

func TestCheckCmd_RejectsURL(t *testing.T) {
	root := rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"check", "https://example.com"})
	if err := root.Execute(); err == nil || errors.Is(err, errCheckFailed) {
		t.Fatalf("want validation error, got %v", err)
	}
}
