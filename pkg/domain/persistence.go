package domain

import "context"

// ExtentStore is the whole-extent persistence contract the query and mutation
// layers depend on. Load returns every record of the kind; Save replaces the
// stored extent with the supplied one. Implementations hold no cache: each
// Load observes the most recent completed Save.
//
// Save is not transactional with respect to a concurrent Load/Save pair, so
// two writers that both Load before either Saves lose the first write.
type ExtentStore[R any] interface {
	Load(ctx context.Context) ([]R, error)
	Save(ctx context.Context, extent []R) error
}
