package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/cache"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	opts = append([]Option{WithRetry(3, time.Millisecond)}, opts...)
	c, err := New(ts.URL, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    errors.Code
		message string
	}{
		{"unauthorized", 401, `{"error":"bad token"}`, errors.ErrCodeUnauthorized, "bad token"},
		{"forbidden", 403, `{"error":"admins only"}`, errors.ErrCodeForbidden, "admins only"},
		{"not found", 404, `{}`, errors.ErrCodeNotFound, "API request failed"},
		{"details field", 400, `{"details":"lat must be a number"}`, errors.ErrCodeAPI, "lat must be a number"},
		{"error wins over details", 400, `{"error":"a","details":"b"}`, errors.ErrCodeAPI, "a"},
		{"non json body", 400, `oops`, errors.ErrCodeAPI, "API request failed"},
		{"rate limited", 429, `{"error":"slow down"}`, errors.ErrCodeRateLimited, "slow down"},
		{"server error", 502, ``, errors.ErrCodeNetwork, "API request failed (status 502)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.Stats(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err = %v)", got, tt.code, err)
			}
			if got := errors.UserMessage(err); got != tt.message {
				t.Errorf("message = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestGetRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"spaces":1,"anchors":2,"users":3}`))
	})

	stats, err := c.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if *stats != (Stats{Spaces: 1, Anchors: 2, Users: 3}) {
		t.Errorf("stats = %+v", stats)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestWritesAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.UpdateAnchor(context.Background(), "a1", AnchorUpdate{Lat: 0.5})
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("err = %v, want NETWORK_ERROR", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestRequestHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got == "" {
			t.Error("missing User-Agent")
		}
		w.Write([]byte(`[]`))
	}, WithToken("secret"))

	if _, err := c.Users(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestNoTokenOmitsAuthorization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Error("unexpected Authorization header")
		}
		w.Write([]byte(`{"token":"t"}`))
	})
	if _, err := c.Login(context.Background(), "u", "p"); err != nil {
		t.Fatal(err)
	}
}

func TestSpacesCache(t *testing.T) {
	var calls atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"space_id":"s1","name":"Lobby","is_public":true}]`))
	}

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := newTestClient(t, handler, WithCache(fc, time.Hour))

	for range 3 {
		spaces, err := c.Spaces(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(spaces) != 1 || spaces[0].Name != "Lobby" {
			t.Fatalf("spaces = %+v", spaces)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (cached)", calls.Load())
	}
}

func TestAnchorsAreNeverCached(t *testing.T) {
	var calls atomic.Int32
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[]`))
	}, WithCache(fc, time.Hour))

	for range 2 {
		if _, err := c.AnchorsInSpace(context.Background(), "s1"); err != nil {
			t.Fatal(err)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestInvalidIDsRejectedBeforeRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})
	ctx := context.Background()

	if _, err := c.AnchorsInSpace(ctx, "../admin"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("AnchorsInSpace err = %v", err)
	}
	if err := c.UpdateAnchor(ctx, "", AnchorUpdate{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("UpdateAnchor err = %v", err)
	}
	if _, err := c.RegisterAnchor(ctx, AnchorRegistration{SpaceID: "s", Type: "LIDAR"}); !errors.Is(err, errors.ErrCodeInvalidAnchorType) {
		t.Errorf("RegisterAnchor err = %v", err)
	}
	if _, err := c.CreateKey(ctx, "p1", "gold"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("CreateKey err = %v", err)
	}
	if _, err := c.Nearby(ctx, 91, 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Nearby err = %v", err)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	if _, err := New("ftp://example.com"); err == nil {
		t.Error("expected error for ftp URL")
	}
	c, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL = %q", c.BaseURL())
	}
}
