// Package settings persists the single process-wide active restriction mode.
// The raw value is stored as submitted ("global" or a numeric id); read-path
// normalization is the resolver's job so a malformed value can never break a
// read.
package settings

import "context"

// Store is the active-mode contract. ActiveMode returns the empty string
// when no mode was ever configured.
type Store interface {
	ActiveMode(ctx context.Context) (string, error)
	SetActiveMode(ctx context.Context, mode string) error
}
