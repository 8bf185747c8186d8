package editor

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/observability"
)

// Updater writes anchor positions. *api.Client implements it.
type Updater interface {
	UpdateAnchor(ctx context.Context, anchorID string, u api.AnchorUpdate) error
}

// SaveFailure records one anchor that could not be written.
type SaveFailure struct {
	ID  string
	Err error
}

// SaveReport lists the outcome of every write in a Save call, in the order
// the writes were issued.
type SaveReport struct {
	Saved  []string
	Failed []SaveFailure
}

// OK reports whether every write succeeded.
func (r SaveReport) OK() bool { return len(r.Failed) == 0 }

// Err summarizes the failures as a single error, or returns nil.
func (r SaveReport) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f.Err
	}
	return errors.Wrap(errors.ErrCodeAPI, stderrors.Join(errs...),
		"%d of %d anchors failed to save", len(r.Failed), len(r.Failed)+len(r.Saved))
}

// SaveOptions configures Save.
type SaveOptions struct {
	// SpaceID is reported to observability hooks.
	SpaceID string
	Logger  *log.Logger
}

// Save writes the position of every anchor, one request at a time and in
// list order. A failed write is logged and recorded; it does not stop the
// remaining writes. Cancelling ctx fails the writes not yet issued.
func Save(ctx context.Context, u Updater, anchors []Anchor, opts SaveOptions) SaveReport {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	start := time.Now()

	var report SaveReport
	for _, a := range anchors {
		var err error
		if err = ctx.Err(); err == nil {
			err = u.UpdateAnchor(ctx, a.ID, a.Update())
		}
		if err != nil {
			logger.Warn("failed to save anchor", "anchor", a.ID, "err", err)
			report.Failed = append(report.Failed, SaveFailure{ID: a.ID, Err: err})
			continue
		}
		report.Saved = append(report.Saved, a.ID)
	}

	observability.Editor().OnSaveComplete(ctx, opts.SpaceID, len(report.Saved), len(report.Failed), time.Since(start))
	return report
}
