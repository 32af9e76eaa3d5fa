package core

import "context"

type (
	// KVStore is the persistence provider of the Data Store: an opaque key-value store holding
	// JSON-serialized collections. Writes may fail with ErrQuotaExceeded.
	KVStore interface {
		// Get returns the value stored at key. ok is false when the key does not exist.
		Get(ctx context.Context, key string) (value []byte, ok bool, err error)
		Set(ctx context.Context, key string, value []byte) error
		Delete(ctx context.Context, key string) error
		Keys(ctx context.Context) ([]string, error)
	}

	// KVCloser is implemented by providers holding external connections.
	KVCloser interface {
		KVStore
		Close() error
	}
)

// KVOrdering is a sort hint used by listings (eg. admin CLI keys dump).
type KVOrdering struct {
	Field     string
	Ascending bool
}

func (ord KVOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
