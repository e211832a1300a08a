package syncer

// Failure records one photo that could not be synced this run. The
// photo keeps its previous index record, so the next run retries it.
type Failure struct {
	ID     string
	Reason string
}

// Result summarizes one target's sync run. Per-photo failures live in
// Failures; Err is set only for fatal conditions that aborted the
// target (catalog fetch, index load/persist).
type Result struct {
	AlbumURL  string
	OutDir    string
	Added     int
	Updated   int
	Deleted   int
	Unchanged int
	Failures  []Failure
	Err       error
}

// Fatal reports whether the target run aborted.
func (r *Result) Fatal() bool {
	return r.Err != nil
}

func (r *Result) fail(id string, err error) {
	r.Failures = append(r.Failures, Failure{ID: id, Reason: err.Error()})
}
