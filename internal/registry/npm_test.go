package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNPMSource_Timeline(t *testing.T) {
	body := `{
		"time": {
			"created": "2014-12-23T23:54:00.000Z",
			"modified": "2021-06-01T00:00:00.000Z",
			"1.0.0": "2014-12-23T23:54:33.000Z",
			"2.0.0": "2016-03-10T08:15:00.000Z",
			"2.1.0": "garbage"
		}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/left-pad" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	source := &NPMSource{client: testHTTPClient(t), baseURL: server.URL}

	got, err := source.Timeline(context.Background(), "left-pad")
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 releases (created/modified/garbage skipped), got %d: %+v", len(got), got)
	}
	if got[0].Version != "1.0.0" || got[1].Version != "2.0.0" {
		t.Errorf("order = %s, %s; want 1.0.0, 2.0.0", got[0].Version, got[1].Version)
	}
	want := time.Date(2014, 12, 23, 23, 54, 33, 0, time.UTC)
	if !got[0].PublishedAt.Equal(want) {
		t.Errorf("publish time = %s, want %s", got[0].PublishedAt, want)
	}
}

func TestNPMSource_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source := &NPMSource{client: testHTTPClient(t), baseURL: server.URL}

	_, err := source.Timeline(context.Background(), "no-such-package")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
