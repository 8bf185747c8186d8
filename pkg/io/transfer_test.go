package io_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
	pkgio "github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/io"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/mockapi"
)

func platform(t *testing.T) (*api.Client, *mockapi.Server, func()) {
	t.Helper()
	srv := mockapi.New(mockapi.Options{Token: "dev"})
	ts := httptest.NewServer(srv)
	c, err := api.New(ts.URL, api.WithToken("dev"), api.WithRetry(1, 0))
	if err != nil {
		ts.Close()
		t.Fatal(err)
	}
	return c, srv, ts.Close
}

func TestExportAll(t *testing.T) {
	defer goleak.VerifyNone(t)
	client, _, stop := platform(t)
	defer stop()

	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	b, err := pkgio.Export(context.Background(), client, pkgio.ExportOptions{Now: func() time.Time { return at }})
	if err != nil {
		t.Fatal(err)
	}
	if b.Version != pkgio.BundleVersion || !b.ExportedAt.Equal(at) {
		t.Errorf("header = %s %v", b.Version, b.ExportedAt)
	}
	if len(b.Spaces) != 3 || b.Spaces[0].SpaceID != mockapi.SeedBuildingID {
		t.Fatalf("spaces = %+v", b.Spaces)
	}
	if b.Spaces[1].ParentSpaceID != mockapi.SeedBuildingID {
		t.Errorf("floor parent = %q", b.Spaces[1].ParentSpaceID)
	}
	if len(b.Anchors) != 4 {
		t.Fatalf("anchors = %d, want 4", len(b.Anchors))
	}
	door := b.Anchors[1]
	if door.AnchorID != "anchor-door" || door.PX != 150 || door.PY != -50 {
		t.Errorf("door = %+v, want px 150 py -50", door)
	}
	if err := pkgio.Validate(b); err != nil {
		t.Errorf("exported bundle invalid: %v", err)
	}
}

func TestExportSelection(t *testing.T) {
	client, _, stop := platform(t)
	defer stop()
	ctx := context.Background()

	b, err := pkgio.Export(ctx, client, pkgio.ExportOptions{SpaceIDs: []string{mockapi.SeedRoomID}})
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Spaces) != 1 || len(b.Anchors) != 4 {
		t.Errorf("got %d spaces, %d anchors", len(b.Spaces), len(b.Anchors))
	}

	_, err = pkgio.Export(ctx, client, pkgio.ExportOptions{SpaceIDs: []string{"space-missing"}})
	if !errors.Is(err, errors.ErrCodeSpaceNotFound) {
		t.Errorf("unknown space: %v", err)
	}
}

func TestExportSkipsDeleted(t *testing.T) {
	client, _, stop := platform(t)
	defer stop()
	ctx := context.Background()

	if err := client.DeleteAnchor(ctx, "anchor-desk"); err != nil {
		t.Fatal(err)
	}
	b, err := pkgio.Export(ctx, client, pkgio.ExportOptions{SpaceIDs: []string{mockapi.SeedRoomID}})
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range b.Anchors {
		if a.AnchorID == "anchor-desk" {
			t.Error("deleted anchor exported")
		}
	}
}

func TestExportThenImport(t *testing.T) {
	defer goleak.VerifyNone(t)
	src, _, stopSrc := platform(t)
	defer stopSrc()
	dst, dstSrv, stopDst := platform(t)
	defer stopDst()
	ctx := context.Background()

	b, err := pkgio.Export(ctx, src, pkgio.ExportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	report, err := pkgio.Import(ctx, dst, b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !report.OK() {
		t.Fatalf("failures: %+v", report.Failed)
	}
	if len(report.Spaces) != 3 || len(report.Anchors) != 4 {
		t.Fatalf("report = %+v", report)
	}

	room := report.Spaces[mockapi.SeedRoomID]
	space, err := dst.Space(ctx, room)
	if err != nil {
		t.Fatal(err)
	}
	if space.ParentID != report.Spaces[mockapi.SeedFloorID] {
		t.Errorf("room parent = %q, want remapped floor %q", space.ParentID, report.Spaces[mockapi.SeedFloorID])
	}

	door, ok := dstSrv.Anchor(report.Anchors["anchor-door"])
	if !ok {
		t.Fatal("door anchor missing on target")
	}
	if door.SpaceID != room || *door.Lat != 1.5 || *door.Lon != -0.5 {
		t.Errorf("door = %+v", door)
	}
}

func TestImportFailedParentCascades(t *testing.T) {
	client, _, stop := platform(t)
	defer stop()

	b := &pkgio.Bundle{
		Version: pkgio.BundleVersion,
		Spaces: []pkgio.Space{
			{SpaceID: "orphan", Name: "Orphan", ParentSpaceID: "not-on-platform"},
			{SpaceID: "child", Name: "Child", ParentSpaceID: "orphan"},
			{SpaceID: "ok", Name: "Standalone"},
		},
		Anchors: []pkgio.Anchor{
			{AnchorID: "lost", SpaceID: "child", Type: "QR"},
			{AnchorID: "kept", SpaceID: "ok", Type: "MARKER", PX: 10},
		},
	}
	report, err := pkgio.Import(context.Background(), client, b, nil)
	if err != nil {
		t.Fatal(err)
	}

	failed := map[string]string{}
	for _, f := range report.Failed {
		failed[f.ID] = f.Kind
	}
	for id, kind := range map[string]string{"orphan": "space", "child": "space", "lost": "anchor"} {
		if failed[id] != kind {
			t.Errorf("%s: failure kind %q, want %q", id, failed[id], kind)
		}
	}
	if _, ok := report.Anchors["kept"]; !ok {
		t.Error("anchor in healthy space was not imported")
	}
	if len(report.Failed) != 3 {
		t.Errorf("failures = %+v", report.Failed)
	}
}

func TestImportParentCycle(t *testing.T) {
	client, srv, stop := platform(t)
	defer stop()

	b := &pkgio.Bundle{
		Version: pkgio.BundleVersion,
		Spaces: []pkgio.Space{
			{SpaceID: "x", Name: "Wing X", ParentSpaceID: "y"},
			{SpaceID: "y", Name: "Wing Y", ParentSpaceID: "x"},
		},
		Anchors: []pkgio.Anchor{{AnchorID: "a", SpaceID: "y", Type: "QR"}},
	}
	report, err := pkgio.Import(context.Background(), client, b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !report.OK() {
		t.Fatalf("failures = %+v", report.Failed)
	}
	if len(report.Spaces) != 2 || len(report.Anchors) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if n := srv.Calls("POST /spatial/space"); n != 2 {
		t.Errorf("space creates = %d, want 2", n)
	}

	y, err := client.Space(context.Background(), report.Spaces["y"])
	if err != nil {
		t.Fatal(err)
	}
	if y.ParentID != report.Spaces["x"] {
		t.Errorf("y parent = %q, want %q", y.ParentID, report.Spaces["x"])
	}
}

func TestImportRejectsInvalidBundle(t *testing.T) {
	client, srv, stop := platform(t)
	defer stop()

	_, err := pkgio.Import(context.Background(), client, &pkgio.Bundle{Version: "0.1"}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidBundle) {
		t.Fatalf("err = %v", err)
	}
	if n := srv.Calls("POST /spatial/space"); n != 0 {
		t.Errorf("invalid bundle reached the platform %d times", n)
	}
}
