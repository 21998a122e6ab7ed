package store

import "context"

// DocumentStore is the consumed persistence capability: named documents in
// collections plus an atomic per-field counter. The keyword block-list and the
// per-user flag counters live here.
//
// GetDocument followed by SetDocument is a read-modify-write with no
// compare-and-swap; concurrent editors resolve last-write-wins at the store.
type DocumentStore interface {
	GetDocument(ctx context.Context, collection, id string) (map[string]interface{}, bool, error)
	SetDocument(ctx context.Context, collection, id string, doc map[string]interface{}) error
	Increment(ctx context.Context, collection, id, field string) (int64, error)
}
