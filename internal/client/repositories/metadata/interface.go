// Package metadata stores small key/value pairs in the local SQLite file.
// The CLI keeps its saved session here.
package metadata

import (
	"context"
)

// Keys of the saved session.
const (
	KeyUserName    = "username"
	KeyUserID      = "user_id"
	KeyAccessToken = "access_token"
)

// Repository is a key/value store. Get reports common.ErrNotFound for an
// absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
