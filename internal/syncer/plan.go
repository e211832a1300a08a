// Package syncer drives a sync run: reconcile the remote catalog
// against the local index, ingest affected photos concurrently, write
// artifacts, and persist the index.
package syncer

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/shutterbox/shutterbox/internal/catalog"
	"github.com/shutterbox/shutterbox/internal/index"
)

// Plan partitions the union of remote and local photo ids into the four
// sync buckets. Exists only for the duration of one run.
type Plan struct {
	ToAdd     mapset.Set[string]
	ToUpdate  mapset.Set[string]
	ToDelete  mapset.Set[string]
	Unchanged mapset.Set[string]
}

// Reconcile computes the plan from one catalog fetch and the index as
// loaded. Pure: no I/O, no mutation of either input. Identity is the
// stable id alone; caption or filename changes without a checksum
// change do not trigger an update.
func Reconcile(cat *catalog.Catalog, idx *index.Index, force bool) *Plan {
	plan := &Plan{
		ToAdd:     mapset.NewSet[string](),
		ToUpdate:  mapset.NewSet[string](),
		ToDelete:  mapset.NewSet[string](),
		Unchanged: mapset.NewSet[string](),
	}

	for id, item := range cat.Items {
		rec, ok := idx.Get(id)
		switch {
		case !ok:
			plan.ToAdd.Add(id)
		case force || item.Checksum != rec.Checksum:
			plan.ToUpdate.Add(id)
		default:
			plan.Unchanged.Add(id)
		}
	}

	for id := range idx.Photos {
		if _, ok := cat.Items[id]; !ok {
			plan.ToDelete.Add(id)
		}
	}

	return plan
}

// Work returns the ids needing ingestion, sorted for deterministic
// processing order.
func (p *Plan) Work() []string {
	ids := p.ToAdd.Union(p.ToUpdate).ToSlice()
	sort.Strings(ids)
	return ids
}

// Deletions returns the ids to delete, sorted.
func (p *Plan) Deletions() []string {
	ids := p.ToDelete.ToSlice()
	sort.Strings(ids)
	return ids
}

// HasWork reports whether the plan changes anything on disk.
func (p *Plan) HasWork() bool {
	return p.ToAdd.Cardinality() > 0 || p.ToUpdate.Cardinality() > 0 || p.ToDelete.Cardinality() > 0
}
