package ports

import "context"

// KeyValueStore is string-keyed durable storage, the server-side stand-in
// for the browser's local storage.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

type KeyValue struct {
	Key   string
	Value string
}

// BatchWriter is implemented by stores that can write several keys in one
// transaction.
type BatchWriter interface {
	SetMany(ctx context.Context, entries []KeyValue) error
}
