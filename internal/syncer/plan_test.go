package syncer

import (
	"testing"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shutterbox/shutterbox/internal/catalog"
	"github.com/shutterbox/shutterbox/internal/index"
)

func catalogWith(checksums map[string]string) *catalog.Catalog {
	cat := catalog.NewCatalog("Test Album")
	for id, sum := range checksums {
		cat.Add(&catalog.Item{
			ID:        id,
			Checksum:  sum,
			CreatedAt: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return cat
}

func indexWith(checksums map[string]string) *index.Index {
	idx := index.New()
	for id, sum := range checksums {
		idx.Upsert(&index.Record{ID: id, Checksum: sum})
	}
	return idx
}

func TestReconcilePartition(t *testing.T) {
	cat := catalogWith(map[string]string{
		"a": "s1",
		"b": "s2",
		"c": "s3-new",
		"d": "s4",
	})
	idx := indexWith(map[string]string{
		"c": "s3-old",
		"d": "s4",
		"e": "s5",
		"f": "s6",
	})

	plan := Reconcile(cat, idx, false)

	assert.ElementsMatch(t, []string{"a", "b"}, plan.ToAdd.ToSlice())
	assert.ElementsMatch(t, []string{"c"}, plan.ToUpdate.ToSlice())
	assert.ElementsMatch(t, []string{"d"}, plan.Unchanged.ToSlice())
	assert.ElementsMatch(t, []string{"e", "f"}, plan.ToDelete.ToSlice())

	// The four buckets partition the union of remote and local ids.
	all := mapset.NewSet[string]("a", "b", "c", "d", "e", "f")
	union := plan.ToAdd.Union(plan.ToUpdate).Union(plan.ToDelete).Union(plan.Unchanged)
	assert.True(t, union.Equal(all))

	buckets := []mapset.Set[string]{plan.ToAdd, plan.ToUpdate, plan.ToDelete, plan.Unchanged}
	for i := range buckets {
		for j := i + 1; j < len(buckets); j++ {
			assert.Equal(t, 0, buckets[i].Intersect(buckets[j]).Cardinality())
		}
	}
}

func TestReconcileForce(t *testing.T) {
	cat := catalogWith(map[string]string{"a": "s1", "b": "s2"})
	idx := indexWith(map[string]string{"a": "s1", "b": "s2"})

	plan := Reconcile(cat, idx, true)

	assert.Equal(t, 0, plan.Unchanged.Cardinality())
	assert.ElementsMatch(t, []string{"a", "b"}, plan.ToUpdate.ToSlice())
}

func TestReconcileEmptyRemoteDeletesEverything(t *testing.T) {
	cat := catalog.NewCatalog("Empty Album")
	idx := indexWith(map[string]string{"a": "s1", "b": "s2", "c": "s3"})

	plan := Reconcile(cat, idx, false)

	assert.ElementsMatch(t, []string{"a", "b", "c"}, plan.ToDelete.ToSlice())
	assert.Equal(t, 0, plan.ToAdd.Cardinality())
	assert.Equal(t, 0, plan.ToUpdate.Cardinality())
	assert.Equal(t, 0, plan.Unchanged.Cardinality())
	assert.True(t, plan.HasWork())
}

func TestReconcileIgnoresCaptionOnlyChanges(t *testing.T) {
	cat := catalog.NewCatalog("Test Album")
	cat.Add(&catalog.Item{ID: "a", Checksum: "s1", Caption: "renamed caption"})
	idx := indexWith(map[string]string{"a": "s1"})

	plan := Reconcile(cat, idx, false)

	assert.True(t, plan.Unchanged.Contains("a"))
	assert.False(t, plan.HasWork())
}

func TestPlanWorkOrderIsSorted(t *testing.T) {
	cat := catalogWith(map[string]string{"z": "1", "m": "2", "a": "3"})
	idx := index.New()

	plan := Reconcile(cat, idx, false)

	require.Equal(t, []string{"a", "m", "z"}, plan.Work())
	assert.Empty(t, plan.Deletions())
}
