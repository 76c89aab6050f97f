package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ekverified/app-backend/logging"
)

// Store persists named record collections as whole JSON arrays. Load of a
// missing collection yields no data and revision 0; Save with a revision that
// no longer matches the stored one fails with ErrStaleWrite so that a
// concurrent writer's update is never silently overwritten.
type Store interface {
	LoadRaw(ctx context.Context, name string) (data []byte, rev int64, err error)
	SaveRaw(ctx context.Context, name string, data []byte, rev int64) error
}

var (
	// ErrUnavailable means the backend could not be reached; callers should
	// surface it as a retryable server-side failure.
	ErrUnavailable = errors.New("store unavailable")
	// ErrStaleWrite means another writer updated the collection between load
	// and save.
	ErrStaleWrite = errors.New("stale collection write")
)

// staleRetries bounds the read-modify-write retry loop in Update.
const staleRetries = 3

// Load decodes the named collection into a typed slice. A missing collection
// is an empty one; a corrupt stored payload is logged and treated as empty so
// a bad row cannot take the whole API down.
func Load[T any](ctx context.Context, s Store, name string) ([]T, int64, error) {
	data, rev, err := s.LoadRaw(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	if len(data) == 0 {
		return []T{}, rev, nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		logging.Logger.Warnf("Event ID: CORRUPT_COLLECTION, Description: Collection %s holds malformed JSON, treating as empty: %v", name, err)
		return []T{}, rev, nil
	}
	return records, rev, nil
}

// Save replaces the named collection, guarded by the revision returned from
// the matching Load.
func Save[T any](ctx context.Context, s Store, name string, records []T, rev int64) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.SaveRaw(ctx, name, data, rev)
}

// Update runs a load-apply-save cycle, retrying a bounded number of times
// when a concurrent writer wins the revision race. The apply function returns
// the replacement collection.
func Update[T any](ctx context.Context, s Store, name string, apply func([]T) ([]T, error)) error {
	var err error
	for i := 0; i < staleRetries; i++ {
		var records []T
		var rev int64
		records, rev, err = Load[T](ctx, s, name)
		if err != nil {
			return err
		}
		records, err = apply(records)
		if err != nil {
			return err
		}
		err = Save(ctx, s, name, records, rev)
		if err == nil || !errors.Is(err, ErrStaleWrite) {
			return err
		}
		logging.Logger.Warnf("Event ID: STALE_WRITE_RETRY, Description: Collection %s changed underneath an update, retrying (%d)", name, i+1)
	}
	return err
}
