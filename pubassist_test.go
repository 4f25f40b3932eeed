package pubassist_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pubspec-tools/pubassist"
)

const packageResponse = `{
	"name": "http",
	"latest": {
		"version": "1.2.0",
		"pubspec": {
			"name": "http",
			"description": "A composable, multi-platform API for HTTP requests.",
			"homepage": "https://pub.dev/packages/http",
			"environment": {"sdk": ">=3.0.0 <4.0.0"}
		}
	},
	"versions": [
		{"version": "0.13.0"},
		{"version": "1.0.0"},
		{"version": "1.2.0"}
	]
}`

func newRegistryServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/packages/http":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(packageResponse))
		case "/api/packages/http/score":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"grantedPoints":140,"maxPoints":140,"likeCount":5000,"popularityScore":0.99,"tags":["sdk:dart","sdk:flutter"]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewRegistryDefaults(t *testing.T) {
	reg := pubassist.NewRegistry("", nil)
	if reg.BaseURL() != pubassist.DefaultURL {
		t.Errorf("BaseURL() = %q, want %q", reg.BaseURL(), pubassist.DefaultURL)
	}
}

func TestDetails(t *testing.T) {
	server := newRegistryServer(t)

	reg := pubassist.NewRegistry(server.URL, pubassist.DefaultClient())
	details, err := reg.Details(context.Background(), "http")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}

	if details.Name != "http" {
		t.Errorf("Name = %q, want %q", details.Name, "http")
	}
	if details.Latest != "1.2.0" {
		t.Errorf("Latest = %q, want %q", details.Latest, "1.2.0")
	}
	if len(details.Versions) != 3 {
		t.Errorf("len(Versions) = %d, want 3", len(details.Versions))
	}
}

func TestDetailsNotFound(t *testing.T) {
	server := newRegistryServer(t)

	reg := pubassist.NewRegistry(server.URL, pubassist.DefaultClient())
	_, err := reg.Details(context.Background(), "definitely_missing")
	if err == nil {
		t.Fatal("expected error for missing package")
	}

	if !errors.Is(err, pubassist.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	var nfe *pubassist.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("error = %T, want *NotFoundError", err)
	}
	if nfe.Name != "definitely_missing" {
		t.Errorf("Name = %q, want %q", nfe.Name, "definitely_missing")
	}
}

func TestBuildURLs(t *testing.T) {
	reg := pubassist.NewRegistry("", nil)
	urls := pubassist.BuildURLs(reg.URLs(), "http", "1.2.0")

	want := map[string]string{
		"registry": "https://pub.dev/packages/http/versions/1.2.0",
		"download": "https://pub.dev/packages/http/versions/1.2.0.tar.gz",
		"docs":     "https://pub.dev/documentation/http/1.2.0/",
		"purl":     "pkg:pub/http@1.2.0",
	}
	for key, wantURL := range want {
		if urls[key] != wantURL {
			t.Errorf("urls[%q] = %q, want %q", key, urls[key], wantURL)
		}
	}
}

func TestEngineCheckForUpdates(t *testing.T) {
	server := newRegistryServer(t)

	reg := pubassist.NewRegistry(server.URL, pubassist.DefaultClient())
	eng := pubassist.NewEngine(reg)

	updates := eng.CheckForUpdates(context.Background(), map[string]string{
		"http": "^0.13.0",
	})

	if updates["http"] != "1.2.0" {
		t.Errorf("updates[http] = %q, want %q", updates["http"], "1.2.0")
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	pubspec := "name: demo_app\nenvironment:\n  sdk: ^3.0.0\ndependencies:\n  http: ^0.13.0\n"
	if err := os.WriteFile(filepath.Join(dir, "pubspec.yaml"), []byte(pubspec), 0644); err != nil {
		t.Fatal(err)
	}

	if err := pubassist.AddDependency(dir, "provider", "6.1.0", false); err != nil {
		t.Fatalf("AddDependency failed: %v", err)
	}

	m, err := pubassist.LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	deps := m.Dependencies()

	found := false
	for _, d := range deps {
		if d.Name == "provider" && d.Constraint == "^6.1.0" {
			found = true
		}
	}
	if !found {
		t.Errorf("provider not declared after AddDependency: %+v", deps)
	}

	removed, err := pubassist.RemoveDependency(dir, "provider", false)
	if err != nil {
		t.Fatalf("RemoveDependency failed: %v", err)
	}
	if !removed {
		t.Error("RemoveDependency reported not found")
	}
}

func TestOpenCachePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := pubassist.OpenCache(path, 0)
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	if err := c.Set("package:http", []byte(`{"name":"http"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	c, err = pubassist.OpenCache(path, 0)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer c.Close()

	data, ok := c.Get("package:http")
	if !ok {
		t.Fatal("entry lost across reopen")
	}
	if !strings.Contains(string(data), "http") {
		t.Errorf("entry data = %q", string(data))
	}
}

func TestParseSearchMode(t *testing.T) {
	tests := []struct {
		input  string
		want   pubassist.SearchMode
		wantOK bool
	}{
		{"", pubassist.ModeAll, true},
		{"all", pubassist.ModeAll, true},
		{"dart", pubassist.ModeDart, true},
		{"flutter", pubassist.ModeFlutter, true},
		{"rust", pubassist.ModeAll, false},
	}

	for _, tt := range tests {
		got, ok := pubassist.ParseSearchMode(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseSearchMode(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestApplyMode(t *testing.T) {
	if got := pubassist.ApplyMode("state", pubassist.ModeFlutter); got != "state sdk:flutter" {
		t.Errorf("ApplyMode = %q, want %q", got, "state sdk:flutter")
	}
	if got := pubassist.ApplyMode("state", pubassist.ModeAll); got != "state" {
		t.Errorf("ApplyMode = %q, want %q", got, "state")
	}
}

func TestParsePURL(t *testing.T) {
	p, err := pubassist.ParsePURL("pkg:pub/http@1.2.0")
	if err != nil {
		t.Fatalf("ParsePURL failed: %v", err)
	}
	if p.FullName() != "http" || p.Version != "1.2.0" {
		t.Errorf("parsed = (%q, %q), want (http, 1.2.0)", p.FullName(), p.Version)
	}

	if _, err := pubassist.ParsePURL("pkg:npm/lodash"); err == nil {
		t.Error("expected error for non-pub purl")
	}

	if got := pubassist.NewPURL("http", "1.2.0"); got != "pkg:pub/http@1.2.0" {
		t.Errorf("NewPURL = %q", got)
	}
}
