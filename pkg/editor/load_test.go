package editor_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/editor"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/mockapi"
)

func newPlatform(t *testing.T) (*api.Client, *mockapi.Server) {
	t.Helper()
	srv := mockapi.New(mockapi.Options{Token: "dev"})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	c, err := api.New(ts.URL, api.WithToken("dev"), api.WithRetry(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	return c, srv
}

func TestSlowThenFastLoadKeepsLatest(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := mockapi.New(mockapi.Options{Token: "dev"})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client, err := api.New(ts.URL, api.WithToken("dev"))
	if err != nil {
		t.Fatal(err)
	}
	srv.SetLatency(mockapi.SeedRoomID, 200*time.Millisecond)
	ctx := context.Background()

	s := editor.New(editor.DefaultViewport())
	results := make(chan editor.AnchorsLoaded, 2)

	slow := s.Apply(editor.SelectSpace{ID: mockapi.SeedRoomID}).(editor.LoadAnchors)
	go func() { results <- editor.Fetch(ctx, client, slow) }()

	fast := s.Apply(editor.SelectSpace{ID: mockapi.SeedFloorID}).(editor.LoadAnchors)
	go func() { results <- editor.Fetch(ctx, client, fast) }()

	first := <-results
	if first.SpaceID != mockapi.SeedFloorID {
		t.Fatalf("first result for %q, want the fast space", first.SpaceID)
	}
	s.Apply(first)
	s.Apply(<-results)

	if s.SpaceID != mockapi.SeedFloorID {
		t.Errorf("SpaceID = %q", s.SpaceID)
	}
	if len(s.Anchors) != 0 {
		t.Errorf("anchors = %+v, want the floor's empty snapshot", s.Anchors)
	}
	if s.Loading {
		t.Error("still loading")
	}
	if s.Discarded != 1 {
		t.Errorf("Discarded = %d, want 1", s.Discarded)
	}
}

func TestFetchMapsAnchors(t *testing.T) {
	client, _ := newPlatform(t)
	ev := editor.Fetch(context.Background(), client, editor.LoadAnchors{SpaceID: mockapi.SeedRoomID, Generation: 7})
	if ev.Err != nil {
		t.Fatal(ev.Err)
	}
	if ev.Generation != 7 || len(ev.Anchors) != 4 {
		t.Fatalf("event = %+v", ev)
	}
	if p := ev.Anchors[0].Position; p.X != 50 || p.Y != 50 {
		t.Errorf("first anchor position = %v, want (50, 50)", p)
	}
}

func TestFetchUnknownSpace(t *testing.T) {
	client, _ := newPlatform(t)
	ev := editor.Fetch(context.Background(), client, editor.LoadAnchors{SpaceID: "nope", Generation: 1})
	if !errors.Is(ev.Err, errors.ErrCodeSpaceNotFound) {
		t.Errorf("Err = %v, want SPACE_NOT_FOUND", ev.Err)
	}
}

func TestSaveAgainstPlatform(t *testing.T) {
	client, srv := newPlatform(t)
	ctx := context.Background()

	s := editor.New(editor.DefaultViewport())
	req := s.Apply(editor.SpacesLoaded{Spaces: []api.Space{{ID: mockapi.SeedRoomID}}}).(editor.LoadAnchors)
	s.Apply(editor.Fetch(ctx, client, req))

	// anchor-poster sits at (50, 50): screen (450, 350).
	s.Apply(editor.Click{At: editor.Point{X: 450, Y: 350}})
	if s.Selected != "anchor-poster" {
		t.Fatalf("Selected = %q", s.Selected)
	}
	s.Apply(editor.PointerDown{})
	s.Apply(editor.PointerMove{At: editor.Point{X: 300, Y: 300}})
	s.Apply(editor.PointerUp{})

	srv.FailMoves("anchor-door")
	report := editor.Save(ctx, client, s.Anchors, editor.SaveOptions{SpaceID: s.SpaceID})

	if got := srv.Calls("PATCH /spatial/anchor/{id}"); got != 4 {
		t.Errorf("PATCH calls = %d, want 4", got)
	}
	if len(report.Saved) != 3 || len(report.Failed) != 1 || report.Failed[0].ID != "anchor-door" {
		t.Fatalf("report = %+v", report)
	}
	if !errors.Is(report.Failed[0].Err, errors.ErrCodeNetwork) {
		t.Errorf("failure = %v", report.Failed[0].Err)
	}

	moved, _ := srv.Anchor("anchor-poster")
	if *moved.Lat != -1 || *moved.Lon != 0 {
		t.Errorf("stored poster = (%v, %v), want (-1, 0)", *moved.Lat, *moved.Lon)
	}
}
