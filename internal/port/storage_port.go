package port

import "context"

// Storage is a string key-value store. Get reports ok == false for an absent key.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
