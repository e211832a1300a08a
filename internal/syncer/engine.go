package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shutterbox/shutterbox/internal/catalog"
	"github.com/shutterbox/shutterbox/internal/config"
	"github.com/shutterbox/shutterbox/internal/geocode"
	"github.com/shutterbox/shutterbox/internal/index"
)

// Engine drives sync runs across output targets. Targets are fully
// independent: each gets its own index, lock, and result, and a fatal
// error on one never aborts the others.
type Engine struct {
	Log     *slog.Logger
	Workers int

	// FetcherFor and GeocoderFor pick collaborators per album URL.
	// Tests and mock URLs get offline implementations.
	FetcherFor  func(albumURL string) catalog.Fetcher
	GeocoderFor func(albumURL string) geocode.Geocoder
}

func NewEngine(log *slog.Logger, workers int) *Engine {
	return &Engine{
		Log:         log,
		Workers:     workers,
		FetcherFor:  catalog.ForURL,
		GeocoderFor: defaultGeocoder,
	}
}

func defaultGeocoder(albumURL string) geocode.Geocoder {
	if catalog.IsMockURL(albumURL) {
		return geocode.MockGeocoder{}
	}
	return geocode.NewNominatimGeocoder()
}

// Run syncs every target and returns one result per target, in input
// order.
func (e *Engine) Run(ctx context.Context, targets []config.Target, force bool) []Result {
	results := make([]Result, 0, len(targets))
	for i := range targets {
		results = append(results, e.runTarget(ctx, &targets[i], force))
	}
	return results
}

func (e *Engine) runTarget(ctx context.Context, target *config.Target, force bool) Result {
	res := Result{AlbumURL: target.AlbumURL, OutDir: target.OutDir}
	log := e.log().With("out_dir", target.OutDir)

	lock, err := index.Acquire(target.DataFile)
	if err != nil {
		res.Err = err
		return res
	}
	defer lock.Unlock()

	idx, err := index.Load(target.DataFile)
	if err != nil {
		res.Err = err
		return res
	}

	fetcher := e.FetcherFor(target.AlbumURL)
	cat, err := fetcher.FetchCatalog(ctx, target.AlbumURL)
	if err != nil {
		res.Err = fmt.Errorf("fetch catalog: %w", err)
		return res
	}

	plan := Reconcile(cat, idx, force)
	log.Info("sync plan",
		"album", cat.Name,
		"add", plan.ToAdd.Cardinality(),
		"update", plan.ToUpdate.Cardinality(),
		"delete", plan.ToDelete.Cardinality(),
		"unchanged", plan.Unchanged.Cardinality())

	writer := e.writerFor(target, idx, cat.Name)
	ing := &Ingestor{
		Fetcher:    fetcher,
		Geocoder:   e.GeocoderFor(target.AlbumURL),
		FuzzMeters: target.FuzzRadius(),
		Log:        log,
	}

	e.ingestAndWrite(ctx, plan, cat, idx, ing, writer, &res)
	e.applyDeletions(plan, idx, writer, &res)

	if err := writer.Finalize(idx); err != nil {
		res.fail("index.md", err)
	}

	if err := idx.Save(target.DataFile); err != nil {
		res.Err = err
		return res
	}

	res.Unchanged = plan.Unchanged.Cardinality()
	log.Info("sync done",
		"added", res.Added,
		"updated", res.Updated,
		"deleted", res.Deleted,
		"unchanged", res.Unchanged,
		"failed", len(res.Failures))
	return res
}

func (e *Engine) writerFor(target *config.Target, idx *index.Index, albumName string) BundleWriter {
	if target.Kind == config.KindGallery {
		w := NewGalleryWriter(target.OutDir, target.Gallery)
		w.Prepare(idx, albumName)
		return w
	}
	return NewPhotostreamWriter(target.OutDir)
}

// ingestAndWrite runs ingestion over a bounded worker pool, then merges
// results into the index serially. Workers never touch the index or the
// filesystem; the single-threaded merge is the only writer.
func (e *Engine) ingestAndWrite(ctx context.Context, plan *Plan, cat *catalog.Catalog, idx *index.Index, ing *Ingestor, writer BundleWriter, res *Result) {
	work := plan.Work()
	if len(work) == 0 {
		return
	}

	type outcome struct {
		id   string
		rec  *index.Record
		data []byte
		err  error
	}
	outcomes := make([]outcome, len(work))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i, id := range work {
		i, id := i, id
		g.Go(func() error {
			rec, data, err := ing.Ingest(gctx, cat.Items[id])
			outcomes[i] = outcome{id: id, rec: rec, data: data, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for _, oc := range outcomes {
		if oc.err != nil {
			e.log().Warn("photo ingest failed", "photo", oc.id, "error", oc.err)
			res.fail(oc.id, oc.err)
			continue
		}
		if err := writer.WritePhoto(oc.rec, oc.data); err != nil {
			e.log().Warn("photo write failed", "photo", oc.id, "error", err)
			res.fail(oc.id, err)
			continue
		}
		idx.Upsert(oc.rec)
		if plan.ToAdd.Contains(oc.id) {
			res.Added++
		} else {
			res.Updated++
		}
	}
}

// applyDeletions drops each index entry first, then removes its
// artifacts. A crash between the two leaves an orphan file the next
// run's writer overwrites or the user prunes, never a dangling record.
func (e *Engine) applyDeletions(plan *Plan, idx *index.Index, writer BundleWriter, res *Result) {
	for _, id := range plan.Deletions() {
		rec := idx.Remove(id)
		if rec == nil {
			continue
		}
		if err := writer.Remove(rec); err != nil {
			e.log().Warn("artifact delete failed", "photo", id, "error", err)
			res.fail(id, err)
			continue
		}
		res.Deleted++
	}
}

func (e *Engine) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return config.DefaultWorkers
}

func (e *Engine) log() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}

// TargetStatus is the read-only answer for one target: what a sync
// would do, plus index statistics. Nothing on disk changes.
type TargetStatus struct {
	AlbumURL  string
	AlbumName string
	OutDir    string

	ToAdd     int
	ToUpdate  int
	ToDelete  int
	Unchanged int

	Photos      int
	WithEXIF    int
	WithGPS     int
	Geocoded    int
	LastUpdated time.Time

	Err error
}

// Status computes a read-only reconciliation per target.
func (e *Engine) Status(ctx context.Context, targets []config.Target) []TargetStatus {
	statuses := make([]TargetStatus, 0, len(targets))
	for i := range targets {
		statuses = append(statuses, e.targetStatus(ctx, &targets[i]))
	}
	return statuses
}

func (e *Engine) targetStatus(ctx context.Context, target *config.Target) TargetStatus {
	st := TargetStatus{AlbumURL: target.AlbumURL, OutDir: target.OutDir}

	idx, err := index.Load(target.DataFile)
	if err != nil {
		st.Err = err
		return st
	}

	cat, err := e.FetcherFor(target.AlbumURL).FetchCatalog(ctx, target.AlbumURL)
	if err != nil {
		st.Err = fmt.Errorf("fetch catalog: %w", err)
		return st
	}

	plan := Reconcile(cat, idx, false)
	st.AlbumName = cat.Name
	st.ToAdd = plan.ToAdd.Cardinality()
	st.ToUpdate = plan.ToUpdate.Cardinality()
	st.ToDelete = plan.ToDelete.Cardinality()
	st.Unchanged = plan.Unchanged.Cardinality()

	st.Photos = idx.Len()
	st.LastUpdated = idx.LastUpdated
	for _, rec := range idx.Photos {
		if rec.Metadata != nil {
			st.WithEXIF++
		}
		if rec.Location != nil {
			st.WithGPS++
			if rec.Location.Place != nil {
				st.Geocoded++
			}
		}
	}
	return st
}
